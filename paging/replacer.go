package paging

import (
	"strings"
)

// Algorithm names reported in results
const (
	AlgorithmFIFO       = "FIFO"
	AlgorithmLRU        = "LRU"
	AlgorithmPredictive = "AI-Predictive-Markov"
	AlgorithmARC        = "ARC"
	AlgorithmTwoQ       = "2Q"
)

// Policy is the "evict one, admit one" capability shared by every
// replacement algorithm. A policy owns its frame set.
type Policy interface {
	// Name returns the algorithm name reported in results
	Name() string

	// Contains reports whether the page is resident
	Contains(p Page) bool

	// Touch records a hit on a resident page
	Touch(p Page)

	// Admit loads a non-resident page, evicting a victim when the frame set is full.
	// Returns the victim and true if one was evicted.
	Admit(p Page) (Page, bool)

	// Frames returns a copy of the frame set in policy order
	Frames() []Page

	// Len returns the number of resident pages
	Len() int

	// Capacity returns the number of frames
	Capacity() int
}

// NormalizeAlgorithm maps a user supplied algorithm name to the canonical
// result name. Matching is case-insensitive.
func NormalizeAlgorithm(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "fifo":
		return AlgorithmFIFO, nil
	case "lru":
		return AlgorithmLRU, nil
	case "predictive", "ai", "markov", "ai-predictive-markov":
		return AlgorithmPredictive, nil
	case "arc":
		return AlgorithmARC, nil
	case "2q", "twoq":
		return AlgorithmTwoQ, nil
	default:
		return "", ErrAlgorithm("NormalizeAlgorithm", name)
	}
}

// NewPolicy creates a policy for the named algorithm. The predictive policy
// is trained according to the options before it is returned.
func NewPolicy(algorithm string, frames int, ref []Page, opts ...Option) (Policy, error) {
	name, err := NormalizeAlgorithm(algorithm)
	if err != nil {
		return nil, err
	}
	if frames <= 0 {
		return nil, ErrInvalidFrames("NewPolicy", frames)
	}

	switch name {
	case AlgorithmFIFO:
		return NewFIFOPolicy(frames), nil
	case AlgorithmLRU:
		return NewLRUPolicy(frames), nil
	case AlgorithmARC:
		return NewARCPolicy(frames), nil
	case AlgorithmTwoQ:
		return NewTwoQPolicy(frames), nil
	default:
		o := applyOptions(opts)
		if o.lookahead <= 0 {
			return nil, ErrInvalidLookahead("NewPolicy", o.lookahead)
		}
		return newTrainedPredictivePolicy(frames, ref, o)
	}
}
