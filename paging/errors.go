package paging

import (
	"errors"
	"fmt"
)

// ErrorCode represents different types of simulation errors
type ErrorCode int

const (
	// Generic errors
	ErrCodeUnknown ErrorCode = iota
	ErrCodeInternal

	// Caller input errors
	ErrCodeInvalidArgument
	ErrCodeInvalidInput
	ErrCodeUnknownAlgorithm

	// Codec errors
	ErrCodeCorruptTrace

	// Configuration errors
	ErrCodeInvalidConfig
)

// String returns the snake_case name used on the wire
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeInternal:
		return "internal_error"
	case ErrCodeInvalidArgument:
		return "invalid_argument"
	case ErrCodeInvalidInput:
		return "invalid_input"
	case ErrCodeUnknownAlgorithm:
		return "unknown_algorithm"
	case ErrCodeCorruptTrace:
		return "corrupt_trace"
	case ErrCodeInvalidConfig:
		return "invalid_config"
	default:
		return "unknown"
	}
}

// SimulationError represents a simulator error with context
type SimulationError struct {
	Code    ErrorCode
	Message string
	Op      string // Operation that failed
	Err     error  // Underlying error (if any)
}

// Error implements the error interface
func (e *SimulationError) Error() string {
	if e.Op != "" {
		if e.Err != nil {
			return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
		}
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *SimulationError) Unwrap() error {
	return e.Err
}

// Is matches any *SimulationError carrying the same code, so the sentinels
// below work with errors.Is.
func (e *SimulationError) Is(target error) bool {
	if t, ok := target.(*SimulationError); ok {
		return e.Code == t.Code
	}
	return false
}

// NewSimulationError creates a new simulation error
func NewSimulationError(code ErrorCode, op, message string, err error) *SimulationError {
	return &SimulationError{
		Code:    code,
		Message: message,
		Op:      op,
		Err:     err,
	}
}

var (
	ErrInvalidArgument  = &SimulationError{Code: ErrCodeInvalidArgument, Message: "invalid argument"}
	ErrInvalidInput     = &SimulationError{Code: ErrCodeInvalidInput, Message: "invalid input"}
	ErrUnknownAlgorithm = &SimulationError{Code: ErrCodeUnknownAlgorithm, Message: "unknown algorithm"}
	ErrCorruptTrace     = &SimulationError{Code: ErrCodeCorruptTrace, Message: "corrupt trace"}
)

// Helper functions for common errors

func ErrInvalidFrames(op string, frames int) *SimulationError {
	return NewSimulationError(
		ErrCodeInvalidArgument,
		op,
		fmt.Sprintf("frames must be a positive integer, got %d", frames),
		nil,
	)
}

func ErrInvalidLookahead(op string, lookahead int) *SimulationError {
	return NewSimulationError(
		ErrCodeInvalidArgument,
		op,
		fmt.Sprintf("lookahead must be a positive integer, got %d", lookahead),
		nil,
	)
}

func ErrMalformedToken(op string, position int, token string, err error) *SimulationError {
	return NewSimulationError(
		ErrCodeInvalidInput,
		op,
		fmt.Sprintf("token %d (%q) is not an integer page number", position, token),
		err,
	)
}

func ErrAlgorithm(op, name string) *SimulationError {
	return NewSimulationError(
		ErrCodeUnknownAlgorithm,
		op,
		fmt.Sprintf("unknown algorithm %q (use fifo, lru, predictive, arc or 2q)", name),
		nil,
	)
}

func ErrTraceCorrupted(op, reason string) *SimulationError {
	return NewSimulationError(
		ErrCodeCorruptTrace,
		op,
		reason,
		nil,
	)
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var se *SimulationError
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrCodeUnknown
func GetErrorCode(err error) ErrorCode {
	var se *SimulationError
	if errors.As(err, &se) {
		return se.Code
	}
	return ErrCodeUnknown
}
