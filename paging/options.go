package paging

import (
	"fmt"
	"log/slog"
	"strings"
)

// DefaultLookahead is the number of pages the predictive policy forecasts
const DefaultLookahead = 5

// TrainingMode selects what the predictive policy's model may see
type TrainingMode int

const (
	// TrainingOmniscient trains on the whole reference string before the
	// first access, so the model knows transitions that lie in the
	// simulated future.
	TrainingOmniscient TrainingMode = iota

	// TrainingOnline starts with an empty model and learns each transition
	// as the simulation reaches it.
	TrainingOnline
)

func (m TrainingMode) String() string {
	switch m {
	case TrainingOmniscient:
		return "omniscient"
	case TrainingOnline:
		return "online"
	default:
		return fmt.Sprintf("TrainingMode(%d)", int(m))
	}
}

// ParseTrainingMode parses "omniscient" or "online"
func ParseTrainingMode(s string) (TrainingMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "omniscient":
		return TrainingOmniscient, nil
	case "online":
		return TrainingOnline, nil
	default:
		return 0, NewSimulationError(ErrCodeInvalidArgument, "ParseTrainingMode",
			fmt.Sprintf("unknown training mode %q (must be omniscient or online)", s), nil)
	}
}

type options struct {
	lookahead int
	training  TrainingMode
	logger    *slog.Logger
	metrics   *Metrics
}

// Option tunes a simulation
type Option func(*options)

// WithLookahead sets how many pages the predictive policy forecasts
func WithLookahead(n int) Option {
	return func(o *options) { o.lookahead = n }
}

// WithTrainingMode selects omniscient or online training for the predictive policy
func WithTrainingMode(m TrainingMode) Option {
	return func(o *options) { o.training = m }
}

// WithLogger makes SimulateAll log one debug line per engine
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithMetrics records every finished run into m
func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

func applyOptions(opts []Option) options {
	o := options{
		lookahead: DefaultLookahead,
		training:  TrainingOmniscient,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
