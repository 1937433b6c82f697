package paging

// NotPredicted is the score of a resident page that does not appear in the
// forecast. It ranks after every real forecast position.
const NotPredicted = 1_000_000

// PredictivePolicy evicts the resident page the Markov model expects to need
// last. Hits move a page to the most recently used end; a victim's slot is
// reused in place by the incoming page.
type PredictivePolicy struct {
	capacity  int
	frames    []Page
	predictor *MarkovPredictor
	lookahead int
	training  TrainingMode

	lastSeen Page
	hasLast  bool
}

// NewPredictivePolicy creates a predictive policy around an existing predictor.
// The caller is responsible for training it. Capacity and lookahead must be
// positive.
func NewPredictivePolicy(capacity, lookahead int, predictor *MarkovPredictor) (*PredictivePolicy, error) {
	if capacity <= 0 {
		return nil, ErrInvalidFrames("NewPredictivePolicy", capacity)
	}
	if lookahead <= 0 {
		return nil, ErrInvalidLookahead("NewPredictivePolicy", lookahead)
	}
	if predictor == nil {
		predictor = NewMarkovPredictor()
	}
	return &PredictivePolicy{
		capacity:  capacity,
		frames:    make([]Page, 0, capacity),
		predictor: predictor,
		lookahead: lookahead,
		training:  TrainingOmniscient,
	}, nil
}

// newTrainedPredictivePolicy builds a policy with a fresh predictor prepared
// for the requested training mode
func newTrainedPredictivePolicy(capacity int, ref []Page, o options) (*PredictivePolicy, error) {
	predictor := NewMarkovPredictor()
	pp, err := NewPredictivePolicy(capacity, o.lookahead, predictor)
	if err != nil {
		return nil, err
	}
	if o.training == TrainingOmniscient {
		predictor.Train(ref)
	}
	pp.training = o.training
	return pp, nil
}

func (pp *PredictivePolicy) Name() string { return AlgorithmPredictive }

func (pp *PredictivePolicy) Contains(p Page) bool {
	return pp.indexOf(p) >= 0
}

// Touch moves p to the most recently used end
func (pp *PredictivePolicy) Touch(p Page) {
	i := pp.indexOf(p)
	if i < 0 {
		return
	}
	copy(pp.frames[i:], pp.frames[i+1:])
	pp.frames[len(pp.frames)-1] = p
}

// Admit appends p while frames are free. Otherwise it forecasts from the
// previous access (or p itself on the first access) and replaces the
// resident page whose first forecast position is farthest away.
func (pp *PredictivePolicy) Admit(p Page) (Page, bool) {
	if len(pp.frames) < pp.capacity {
		pp.frames = append(pp.frames, p)
		return 0, false
	}

	seed := p
	if pp.hasLast {
		seed = pp.lastSeen
	}
	predicted := pp.predictor.PredictSequence(seed, pp.lookahead)

	firstAt := make(map[Page]int, len(predicted))
	for i, q := range predicted {
		if _, ok := firstAt[q]; !ok {
			firstAt[q] = i
		}
	}

	victimIdx := 0
	best := -1
	for i, resident := range pp.frames {
		score := NotPredicted
		if at, ok := firstAt[resident]; ok {
			score = at
		}
		// strict > keeps the first candidate on ties
		if score > best {
			best = score
			victimIdx = i
		}
	}

	victim := pp.frames[victimIdx]
	pp.frames[victimIdx] = p
	return victim, true
}

// beforeAccess feeds the newest transition to the model in online mode
func (pp *PredictivePolicy) beforeAccess(p Page) {
	if pp.training == TrainingOnline && pp.hasLast {
		pp.predictor.Observe(pp.lastSeen, p)
	}
}

// afterAccess remembers p as the seed for the next forecast
func (pp *PredictivePolicy) afterAccess(p Page) {
	pp.lastSeen = p
	pp.hasLast = true
}

func (pp *PredictivePolicy) Frames() []Page {
	out := make([]Page, len(pp.frames))
	copy(out, pp.frames)
	return out
}

func (pp *PredictivePolicy) Len() int { return len(pp.frames) }

func (pp *PredictivePolicy) Capacity() int { return pp.capacity }

// Predictor exposes the model driving eviction decisions
func (pp *PredictivePolicy) Predictor() *MarkovPredictor { return pp.predictor }

// Lookahead returns the forecast length
func (pp *PredictivePolicy) Lookahead() int { return pp.lookahead }

// linear scan; frame counts in this domain are small
func (pp *PredictivePolicy) indexOf(p Page) int {
	for i, q := range pp.frames {
		if q == p {
			return i
		}
	}
	return -1
}
