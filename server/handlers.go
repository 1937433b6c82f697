package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sibexico/pagesim/paging"
)

// maxBodyBytes caps request bodies before JSON decoding
const maxBodyBytes = 1 << 20

// SimulationInput is the request body of both simulate routes.
type SimulationInput struct {
	ReferenceString string  `json:"reference_string"`
	Frames          *int    `json:"frames"`
	Algorithm       *string `json:"algorithm,omitempty"`
	Lookahead       *int    `json:"lookahead,omitempty"`
	TrainingMode    *string `json:"training_mode,omitempty"`
}

// WelcomeResponse is returned by GET /.
type WelcomeResponse struct {
	Message string `json:"message"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, WelcomeResponse{Message: "Welcome to Page Replacement Simulator"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Uptime: s.metrics.GetUptime().Round(time.Second).String(),
	})
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	in, ref, ok := s.decodeInput(w, r)
	if !ok {
		return
	}

	opts, err := s.simulationOptions(in)
	if err != nil {
		writeSimulationError(w, err)
		return
	}

	// reject a bad encoding before any work is done or counted
	enc := strings.TrimSpace(r.URL.Query().Get("encoding"))
	var archive archiveEncoding
	if enc != "" {
		if archive, err = parseArchiveEncoding(enc); err != nil {
			writeSimulationError(w, err)
			return
		}
	}

	algorithm := "fifo"
	if in.Algorithm != nil && strings.TrimSpace(*in.Algorithm) != "" {
		algorithm = *in.Algorithm
	}

	s.logger.Info("simulation requested",
		slog.String("algorithm", algorithm),
		slog.Int("frames", *in.Frames),
		slog.Int("references", len(ref)),
		slog.String("request_id", RequestID(r)),
	)

	result, err := paging.Simulate(algorithm, ref, *in.Frames, opts...)
	if err != nil {
		writeSimulationError(w, err)
		return
	}

	if enc != "" {
		s.writeArchive(w, result, archive)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSimulateAll(w http.ResponseWriter, r *http.Request) {
	in, ref, ok := s.decodeInput(w, r)
	if !ok {
		return
	}

	opts, err := s.simulationOptions(in)
	if err != nil {
		writeSimulationError(w, err)
		return
	}

	cmp, err := paging.SimulateAll(r.Context(), ref, *in.Frames, opts...)
	if err != nil {
		if r.Context().Err() != nil {
			s.logger.Warn("comparison abandoned",
				slog.String("request_id", RequestID(r)),
				slog.Any("error", err),
			)
			return
		}
		writeSimulationError(w, err)
		return
	}

	s.logger.Info("comparison finished",
		slog.Int("frames", *in.Frames),
		slog.Int("references", len(ref)),
		slog.String("recommendation", cmp.Recommendation),
		slog.String("request_id", RequestID(r)),
	)

	writeJSON(w, http.StatusOK, cmp)
}

// decodeInput reads and validates the body shared by both simulate routes.
// It writes the error response itself and reports ok=false on failure.
func (s *Server) decodeInput(w http.ResponseWriter, r *http.Request) (*SimulationInput, []paging.Page, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var in SimulationInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "body_too_large", "request body too large")
			return nil, nil, false
		}
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body: "+err.Error())
		return nil, nil, false
	}

	if in.Frames == nil {
		writeError(w, http.StatusBadRequest, paging.ErrCodeInvalidArgument.String(), "frames is required")
		return nil, nil, false
	}

	ref, err := paging.ParseReference(in.ReferenceString)
	if err != nil {
		writeSimulationError(w, err)
		return nil, nil, false
	}

	if len(ref) > s.config.MaxReferenceLength {
		writeError(w, http.StatusRequestEntityTooLarge, "reference_too_long",
			fmt.Sprintf("reference string has %d pages, limit is %d", len(ref), s.config.MaxReferenceLength))
		return nil, nil, false
	}

	return &in, ref, true
}

// simulationOptions layers per-request overrides on the configured defaults.
func (s *Server) simulationOptions(in *SimulationInput) ([]paging.Option, error) {
	opts := append(s.config.SimulationOptions(),
		paging.WithLogger(s.logger),
		paging.WithMetrics(s.metrics),
	)

	if in.Lookahead != nil {
		opts = append(opts, paging.WithLookahead(*in.Lookahead))
	}

	if in.TrainingMode != nil {
		mode, err := paging.ParseTrainingMode(*in.TrainingMode)
		if err != nil {
			return nil, err
		}
		opts = append(opts, paging.WithTrainingMode(mode))
	}

	return opts, nil
}

// archiveEncoding is a parsed ?encoding= value
type archiveEncoding struct {
	auto        bool
	compression paging.CompressionType
}

func parseArchiveEncoding(enc string) (archiveEncoding, error) {
	if strings.EqualFold(enc, "auto") {
		return archiveEncoding{auto: true}, nil
	}
	ct, err := paging.ParseCompression(enc)
	if err != nil {
		return archiveEncoding{}, err
	}
	return archiveEncoding{compression: ct}, nil
}

func (s *Server) writeArchive(w http.ResponseWriter, result *paging.Result, enc archiveEncoding) {
	var (
		data []byte
		err  error
	)

	if enc.auto {
		data, err = paging.ChooseBestCompression(result)
	} else {
		data, err = paging.EncodeTrace(result, enc.compression)
	}
	if err != nil {
		writeSimulationError(w, err)
		return
	}

	stored, err := paging.ArchiveCompression(data)
	if err != nil {
		writeSimulationError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.trace"`, strings.ToLower(result.Algorithm)))
	w.Header().Set("X-Trace-Compression", stored.String())
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
