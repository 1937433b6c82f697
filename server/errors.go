package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sibexico/pagesim/paging"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// writeSimulationError maps a simulator error onto an HTTP status.
func writeSimulationError(w http.ResponseWriter, err error) {
	var se *paging.SimulationError
	if !errors.As(err, &se) {
		writeError(w, http.StatusInternalServerError, paging.ErrCodeInternal.String(), "internal server error")
		return
	}

	status := http.StatusInternalServerError
	switch se.Code {
	case paging.ErrCodeInvalidArgument, paging.ErrCodeInvalidInput,
		paging.ErrCodeUnknownAlgorithm, paging.ErrCodeCorruptTrace:
		status = http.StatusBadRequest
	case paging.ErrCodeInvalidConfig:
		status = http.StatusUnprocessableEntity
	}

	msg := se.Error()
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}
	writeError(w, status, se.Code.String(), msg)
}
