package paging

import (
	"math"
	"reflect"
	"testing"
)

// TestMarkovTrain checks transition counts learned from adjacent pairs
func TestMarkovTrain(t *testing.T) {
	m := NewMarkovPredictor()
	m.Train([]Page{1, 2, 1, 2, 1, 3})

	tests := []struct {
		cur, next Page
		want      int
	}{
		{1, 2, 2},
		{2, 1, 2},
		{1, 3, 1},
		{3, 1, 0},
		{2, 3, 0},
	}
	for _, tt := range tests {
		if got := m.TransitionCount(tt.cur, tt.next); got != tt.want {
			t.Errorf("count %d->%d: expected %d, got %d", tt.cur, tt.next, tt.want, got)
		}
	}

	if m.Sources() != 2 {
		t.Errorf("Expected 2 source pages, got %d", m.Sources())
	}

	next, ok := m.PredictNext(1)
	if !ok || next != 2 {
		t.Errorf("Expected PredictNext(1) = 2, got %d (ok=%v)", next, ok)
	}
}

// TestMarkovTrainAccumulates verifies repeated training adds to existing counts
func TestMarkovTrainAccumulates(t *testing.T) {
	m := NewMarkovPredictor()
	m.Train([]Page{4, 5})
	m.Train([]Page{4, 5, 4})

	if got := m.TransitionCount(4, 5); got != 2 {
		t.Errorf("Expected 4->5 count 2, got %d", got)
	}
	if got := m.TransitionCount(5, 4); got != 1 {
		t.Errorf("Expected 5->4 count 1, got %d", got)
	}
	if got := m.GetStats().TransitionsObserved; got != 3 {
		t.Errorf("Expected 3 observed transitions, got %d", got)
	}
}

// TestMarkovTrainShortSequences covers inputs without any pair
func TestMarkovTrainShortSequences(t *testing.T) {
	m := NewMarkovPredictor()
	m.Train(nil)
	m.Train([]Page{7})

	if m.Sources() != 0 {
		t.Errorf("Expected empty model, got %d sources", m.Sources())
	}
	if _, ok := m.PredictNext(7); ok {
		t.Error("Page seen only as a last element should have no prediction")
	}
}

// TestMarkovPredictNextTieBreak verifies the first observed successor wins ties
func TestMarkovPredictNextTieBreak(t *testing.T) {
	m := NewMarkovPredictor()
	m.Train([]Page{1, 9, 1, 3, 1, 9, 1, 3})

	next, ok := m.PredictNext(1)
	if !ok {
		t.Fatal("Expected a prediction for page 1")
	}
	if next != 9 {
		t.Errorf("Expected tie to resolve to first observed successor 9, got %d", next)
	}

	// 3 overtakes 9 once it has a strictly higher count
	m.Observe(1, 3)
	if next, _ := m.PredictNext(1); next != 3 {
		t.Errorf("Expected 3 after extra observation, got %d", next)
	}
}

// TestMarkovPredictNextUnknown checks the no-prediction signal
func TestMarkovPredictNextUnknown(t *testing.T) {
	m := NewMarkovPredictor()
	m.Train([]Page{1, 2})

	if _, ok := m.PredictNext(42); ok {
		t.Error("Expected no prediction for an unseen page")
	}

	stats := m.GetStats()
	if stats.NoPredictions != 1 {
		t.Errorf("Expected 1 miss recorded, got %d", stats.NoPredictions)
	}
}

// TestMarkovPredictSequence follows the most likely chain
func TestMarkovPredictSequence(t *testing.T) {
	m := NewMarkovPredictor()
	m.Train([]Page{1, 2, 1, 2, 1, 3})

	got := m.PredictSequence(1, 5)
	want := []Page{2, 1, 2, 1, 2}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	// Stops early when the chain reaches a page with no successors
	m2 := NewMarkovPredictor()
	m2.Train([]Page{1, 2, 3})
	got = m2.PredictSequence(1, 5)
	want = []Page{2, 3}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

// TestMarkovPredictSequenceEdgeCases covers unknown seeds and non-positive lengths
func TestMarkovPredictSequenceEdgeCases(t *testing.T) {
	m := NewMarkovPredictor()
	m.Train([]Page{1, 2})

	if got := m.PredictSequence(99, 5); len(got) != 0 {
		t.Errorf("Expected empty forecast for unknown seed, got %v", got)
	}
	if got := m.PredictSequence(1, 0); got == nil || len(got) != 0 {
		t.Errorf("Expected empty non-nil forecast for length 0, got %#v", got)
	}
	if got := m.PredictSequence(1, -3); len(got) != 0 {
		t.Errorf("Expected empty forecast for negative length, got %v", got)
	}
}

// TestMarkovPredictSequenceZeroPage makes sure page 0 is an ordinary prediction
func TestMarkovPredictSequenceZeroPage(t *testing.T) {
	m := NewMarkovPredictor()
	m.Train([]Page{5, 0, 5, 0})

	got := m.PredictSequence(5, 3)
	want := []Page{0, 5, 0}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

// TestMarkovPredictSequenceIndependent verifies each call returns a fresh slice
func TestMarkovPredictSequenceIndependent(t *testing.T) {
	m := NewMarkovPredictor()
	m.Train([]Page{1, 2, 1})

	a := m.PredictSequence(1, 3)
	a[0] = 100
	b := m.PredictSequence(1, 3)
	if b[0] != 2 {
		t.Errorf("Mutating one forecast changed another: %v", b)
	}
}

// TestMarkovPredictProbabilities checks normalization
func TestMarkovPredictProbabilities(t *testing.T) {
	m := NewMarkovPredictor()
	m.Train([]Page{1, 2, 1, 2, 1, 3})

	probs := m.PredictProbabilities(1)
	if len(probs) != 2 {
		t.Fatalf("Expected 2 successors, got %d", len(probs))
	}
	if math.Abs(probs[2]-2.0/3.0) > 1e-9 {
		t.Errorf("Expected P(2|1)=0.667, got %f", probs[2])
	}
	if math.Abs(probs[3]-1.0/3.0) > 1e-9 {
		t.Errorf("Expected P(3|1)=0.333, got %f", probs[3])
	}

	if got := m.PredictProbabilities(8); len(got) != 0 {
		t.Errorf("Expected empty map for unknown page, got %v", got)
	}
}
