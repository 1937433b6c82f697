package paging

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// stepHook is implemented by policies that track the access stream itself
type stepHook interface {
	beforeAccess(p Page)
	afterAccess(p Page)
}

// Run drives policy over ref and records the trace. The policy must be
// freshly constructed; ref is not modified.
func Run(policy Policy, ref []Page) *Result {
	rec := NewRecorder(policy.Name(), len(ref))
	hook, _ := policy.(stepHook)

	for _, p := range ref {
		if hook != nil {
			hook.beforeAccess(p)
		}

		fault := !policy.Contains(p)
		if fault {
			policy.Admit(p)
		} else {
			policy.Touch(p)
		}

		if hook != nil {
			hook.afterAccess(p)
		}
		rec.Record(p, policy.Frames(), fault)
	}

	return rec.Result()
}

// Simulate runs the named algorithm over ref with the given number of frames
func Simulate(algorithm string, ref []Page, frames int, opts ...Option) (*Result, error) {
	policy, err := NewPolicy(algorithm, frames, ref, opts...)
	if err != nil {
		return nil, err
	}

	o := applyOptions(opts)
	start := time.Now()
	result := Run(policy, ref)
	if o.metrics != nil {
		o.metrics.RecordRun(result, frames, time.Since(start))
	}
	return result, nil
}

// SimulateFIFO runs first-in-first-out replacement
func SimulateFIFO(ref []Page, frames int) (*Result, error) {
	return Simulate(AlgorithmFIFO, ref, frames)
}

// SimulateLRU runs least-recently-used replacement
func SimulateLRU(ref []Page, frames int) (*Result, error) {
	return Simulate(AlgorithmLRU, ref, frames)
}

// SimulatePredictive runs Markov-guided replacement. The predictor is trained
// on the whole of ref unless WithTrainingMode(TrainingOnline) is given.
func SimulatePredictive(ref []Page, frames int, opts ...Option) (*Result, error) {
	return Simulate(AlgorithmPredictive, ref, frames, opts...)
}

// SimulateARC runs adaptive replacement
func SimulateARC(ref []Page, frames int) (*Result, error) {
	return Simulate(AlgorithmARC, ref, frames)
}

// SimulateTwoQ runs 2Q replacement
func SimulateTwoQ(ref []Page, frames int) (*Result, error) {
	return Simulate(AlgorithmTwoQ, ref, frames)
}

// Comparison holds one result per algorithm and the recommended one
type Comparison struct {
	FIFO           *Result        `json:"fifo"`
	LRU            *Result        `json:"lru"`
	Predictive     *Result        `json:"ai"`
	Recommendation string         `json:"ai_recommendation"`
	AllFaults      map[string]int `json:"all_faults"`
}

// Results returns the results in the fixed order FIFO, LRU, predictive
func (c *Comparison) Results() []*Result {
	return []*Result{c.FIFO, c.LRU, c.Predictive}
}

// Recommend returns the algorithm with the fewest faults. Ties go to the
// earlier result in the given order.
func Recommend(results ...*Result) string {
	best := ""
	bestFaults := 0
	for _, r := range results {
		if r == nil {
			continue
		}
		if best == "" || r.Faults < bestFaults {
			best = r.Algorithm
			bestFaults = r.Faults
		}
	}
	return best
}

// SimulateAll runs the three engines concurrently and recommends the one
// with the fewest faults. Each engine owns its own state, so the output is
// the same as running them one after another.
func SimulateAll(ctx context.Context, ref []Page, frames int, opts ...Option) (*Comparison, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if frames <= 0 {
		return nil, ErrInvalidFrames("SimulateAll", frames)
	}
	o := applyOptions(opts)
	if o.lookahead <= 0 {
		return nil, ErrInvalidLookahead("SimulateAll", o.lookahead)
	}

	algorithms := []string{AlgorithmFIFO, AlgorithmLRU, AlgorithmPredictive}
	results := make([]*Result, len(algorithms))
	errs := make([]error, len(algorithms))

	var wg sync.WaitGroup
	for i, name := range algorithms {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			start := time.Now()
			results[i], errs[i] = Simulate(name, ref, frames, opts...)
			if o.logger != nil && errs[i] == nil {
				o.logger.Debug("simulation finished",
					slog.String("algorithm", name),
					slog.Int("faults", results[i].Faults),
					slog.Int("hits", results[i].Hits),
					slog.Duration("elapsed", time.Since(start)),
				)
			}
		}(i, name)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cmp := &Comparison{
		FIFO:       results[0],
		LRU:        results[1],
		Predictive: results[2],
		AllFaults:  make(map[string]int, len(results)),
	}
	for _, r := range results {
		cmp.AllFaults[r.Algorithm] = r.Faults
	}
	cmp.Recommendation = Recommend(cmp.Results()...)
	return cmp, nil
}
