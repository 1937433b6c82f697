package paging

// transitionRow holds the next-page counts observed after one source page.
// order keeps next pages in first-seen order so ties resolve the same way
// on every run.
type transitionRow struct {
	counts map[Page]int
	order  []Page
	total  int
}

// MarkovPredictor is a first-order Markov model over page transitions.
// It is not safe for concurrent use; each simulation owns its own instance.
type MarkovPredictor struct {
	model map[Page]*transitionRow

	stats PredictorStats
}

// PredictorStats tracks how the model was built and queried
type PredictorStats struct {
	TransitionsObserved uint64 // Adjacent pairs counted
	Predictions         uint64 // PredictNext calls that produced a page
	NoPredictions       uint64 // PredictNext calls on an unknown source
}

// NewMarkovPredictor creates an empty predictor
func NewMarkovPredictor() *MarkovPredictor {
	return &MarkovPredictor{
		model: make(map[Page]*transitionRow),
	}
}

// Train counts every adjacent (current, next) pair of seq.
// Counts accumulate across calls.
func (m *MarkovPredictor) Train(seq []Page) {
	for i := 0; i+1 < len(seq); i++ {
		m.Observe(seq[i], seq[i+1])
	}
}

// Observe counts a single transition from cur to next
func (m *MarkovPredictor) Observe(cur, next Page) {
	row, ok := m.model[cur]
	if !ok {
		row = &transitionRow{counts: make(map[Page]int)}
		m.model[cur] = row
	}
	if _, seen := row.counts[next]; !seen {
		row.order = append(row.order, next)
	}
	row.counts[next]++
	row.total++
	m.stats.TransitionsObserved++
}

// PredictNext returns the most frequent successor of cur.
// Ties go to the successor that was observed first. The boolean is false
// when cur has never been seen as a source.
func (m *MarkovPredictor) PredictNext(cur Page) (Page, bool) {
	row, ok := m.model[cur]
	if !ok || len(row.order) == 0 {
		m.stats.NoPredictions++
		return 0, false
	}

	best := row.order[0]
	bestCount := row.counts[best]
	for _, next := range row.order[1:] {
		if c := row.counts[next]; c > bestCount {
			best, bestCount = next, c
		}
	}

	m.stats.Predictions++
	return best, true
}

// PredictSequence follows the most likely chain from seed for at most
// length steps. The seed itself is not part of the result.
func (m *MarkovPredictor) PredictSequence(seed Page, length int) []Page {
	if length <= 0 {
		return []Page{}
	}

	predictions := make([]Page, 0, length)
	current := seed
	for len(predictions) < length {
		next, ok := m.PredictNext(current)
		if !ok {
			break
		}
		predictions = append(predictions, next)
		current = next
	}
	return predictions
}

// PredictProbabilities normalizes the successor counts of cur.
// An unknown source yields an empty map.
func (m *MarkovPredictor) PredictProbabilities(cur Page) map[Page]float64 {
	row, ok := m.model[cur]
	if !ok || row.total == 0 {
		return map[Page]float64{}
	}

	probs := make(map[Page]float64, len(row.counts))
	for next, c := range row.counts {
		probs[next] = float64(c) / float64(row.total)
	}
	return probs
}

// TransitionCount returns how often next followed cur
func (m *MarkovPredictor) TransitionCount(cur, next Page) int {
	if row, ok := m.model[cur]; ok {
		return row.counts[next]
	}
	return 0
}

// Sources returns the number of pages with at least one recorded successor
func (m *MarkovPredictor) Sources() int {
	return len(m.model)
}

// GetStats returns current predictor statistics
func (m *MarkovPredictor) GetStats() PredictorStats {
	return m.stats
}
