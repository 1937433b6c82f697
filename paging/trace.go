package paging

// Step is the state after one access of the reference string
type Step struct {
	Page   Page   `json:"page"`
	Frames []Page `json:"frames"`
	Fault  bool   `json:"fault"`
}

// Result is the outcome of one simulation run. It is not modified after
// the engine returns it.
type Result struct {
	Algorithm string  `json:"algorithm"`
	Faults    int     `json:"faults"`
	Hits      int     `json:"hits"`
	FaultRate float64 `json:"fault_rate"`
	Steps     []Step  `json:"steps"`
}

// HitRate returns hits / accesses, or 0 for an empty run
func (r *Result) HitRate() float64 {
	total := r.Faults + r.Hits
	if total == 0 {
		return 0.0
	}
	return float64(r.Hits) / float64(total)
}

// Evictions counts faults that happened while every frame was in use
func (r *Result) Evictions(frames int) int {
	n := 0
	for i, s := range r.Steps {
		if s.Fault && i > 0 && len(r.Steps[i-1].Frames) == frames {
			n++
		}
	}
	return n
}

// Recorder builds the trace of a run one access at a time
type Recorder struct {
	algorithm string
	steps     []Step
	faults    int
	hits      int
}

// NewRecorder creates a recorder sized for n accesses
func NewRecorder(algorithm string, n int) *Recorder {
	return &Recorder{
		algorithm: algorithm,
		steps:     make([]Step, 0, n),
	}
}

// Record appends a step. frames must already be a private copy.
func (r *Recorder) Record(p Page, frames []Page, fault bool) {
	if fault {
		r.faults++
	} else {
		r.hits++
	}
	r.steps = append(r.steps, Step{Page: p, Frames: frames, Fault: fault})
}

// Result finalizes the run
func (r *Recorder) Result() *Result {
	rate := 0.0
	if total := len(r.steps); total > 0 {
		rate = float64(r.faults) / float64(total)
	}
	return &Result{
		Algorithm: r.algorithm,
		Faults:    r.faults,
		Hits:      r.hits,
		FaultRate: rate,
		Steps:     r.steps,
	}
}
