package paging

import (
	"bytes"
	"context"
	"errors"
	"math"
	"math/rand"
	"reflect"
	"testing"
)

type simulateFunc func(ref []Page, frames int) (*Result, error)

var engines = map[string]simulateFunc{
	AlgorithmFIFO: SimulateFIFO,
	AlgorithmLRU:  SimulateLRU,
	AlgorithmPredictive: func(ref []Page, frames int) (*Result, error) {
		return SimulatePredictive(ref, frames)
	},
	AlgorithmARC:  SimulateARC,
	AlgorithmTwoQ: SimulateTwoQ,
}

func framesOf(r *Result) [][]Page {
	out := make([][]Page, len(r.Steps))
	for i, s := range r.Steps {
		out[i] = s.Frames
	}
	return out
}

func faultsOf(r *Result) []bool {
	out := make([]bool, len(r.Steps))
	for i, s := range r.Steps {
		out[i] = s.Fault
	}
	return out
}

// TestFIFOScenario traces the classic reference string through FIFO
func TestFIFOScenario(t *testing.T) {
	r, err := SimulateFIFO([]Page{1, 2, 3, 4, 1, 2, 5}, 3)
	if err != nil {
		t.Fatalf("SimulateFIFO failed: %v", err)
	}

	if r.Algorithm != "FIFO" {
		t.Errorf("Expected algorithm FIFO, got %s", r.Algorithm)
	}
	// 4 evicts 1, then 1 evicts 2, 2 evicts 3 and 5 evicts 4: every access misses
	if r.Faults != 7 || r.Hits != 0 {
		t.Errorf("Expected 7 faults and 0 hits, got %d and %d", r.Faults, r.Hits)
	}
	if r.FaultRate != 1.0 {
		t.Errorf("Expected fault rate 1.0, got %f", r.FaultRate)
	}

	want := [][]Page{{1}, {1, 2}, {1, 2, 3}, {2, 3, 4}, {3, 4, 1}, {4, 1, 2}, {1, 2, 5}}
	if got := framesOf(r); !reflect.DeepEqual(got, want) {
		t.Errorf("Unexpected trace:\n got  %v\n want %v", got, want)
	}
}

// TestFIFOHitKeepsArrivalOrder checks a hit does not refresh a page in FIFO
func TestFIFOHitKeepsArrivalOrder(t *testing.T) {
	r, err := SimulateFIFO([]Page{1, 2, 3, 1, 4, 2, 5}, 3)
	if err != nil {
		t.Fatalf("SimulateFIFO failed: %v", err)
	}

	if r.Faults != 5 || r.Hits != 2 {
		t.Errorf("Expected 5 faults and 2 hits, got %d and %d", r.Faults, r.Hits)
	}
	if math.Abs(r.FaultRate-5.0/7.0) > 1e-9 {
		t.Errorf("Expected fault rate 0.714, got %f", r.FaultRate)
	}

	want := [][]Page{{1}, {1, 2}, {1, 2, 3}, {1, 2, 3}, {2, 3, 4}, {2, 3, 4}, {3, 4, 5}}
	if got := framesOf(r); !reflect.DeepEqual(got, want) {
		t.Errorf("Unexpected trace:\n got  %v\n want %v", got, want)
	}
}

// TestLRUScenario runs the same string through LRU
func TestLRUScenario(t *testing.T) {
	r, err := SimulateLRU([]Page{1, 2, 3, 1, 4, 2, 5}, 3)
	if err != nil {
		t.Fatalf("SimulateLRU failed: %v", err)
	}

	if r.Algorithm != "LRU" {
		t.Errorf("Expected algorithm LRU, got %s", r.Algorithm)
	}
	if r.Faults != 6 || r.Hits != 1 {
		t.Errorf("Expected 6 faults and 1 hit, got %d and %d", r.Faults, r.Hits)
	}
	if math.Abs(r.FaultRate-6.0/7.0) > 1e-3 {
		t.Errorf("Expected fault rate 0.857, got %f", r.FaultRate)
	}

	want := [][]Page{{1}, {1, 2}, {1, 2, 3}, {2, 3, 1}, {3, 1, 4}, {1, 4, 2}, {4, 2, 5}}
	if got := framesOf(r); !reflect.DeepEqual(got, want) {
		t.Errorf("Unexpected trace:\n got  %v\n want %v", got, want)
	}
}

// TestFIFOAndLRUDiverge finds where the two traces part ways
func TestFIFOAndLRUDiverge(t *testing.T) {
	ref := []Page{1, 2, 3, 1, 4, 2, 5}
	fifo, _ := SimulateFIFO(ref, 3)
	lru, _ := SimulateLRU(ref, 3)

	for i := 0; i < 3; i++ {
		if !reflect.DeepEqual(fifo.Steps[i], lru.Steps[i]) {
			t.Errorf("Step %d should match while frames fill up", i)
		}
	}

	// The hit on 1 reorders LRU only
	if reflect.DeepEqual(fifo.Steps[3].Frames, lru.Steps[3].Frames) {
		t.Error("Expected frame order to diverge at step 3")
	}

	// FIFO still holds 2 at step 5, LRU evicted it for 4
	if fifo.Steps[5].Fault || !lru.Steps[5].Fault {
		t.Errorf("Expected FIFO hit and LRU fault at step 5, got fifo=%v lru=%v",
			fifo.Steps[5].Fault, lru.Steps[5].Fault)
	}
}

// TestFIFOAndLRUAgreeWithoutHits checks both policies behave alike when nothing repeats in time
func TestFIFOAndLRUAgreeWithoutHits(t *testing.T) {
	ref := []Page{1, 2, 3, 4, 1, 2, 5}
	fifo, _ := SimulateFIFO(ref, 3)
	lru, _ := SimulateLRU(ref, 3)

	if !reflect.DeepEqual(fifo.Steps, lru.Steps) {
		t.Error("Without hits FIFO and LRU traces should be identical")
	}
}

// TestPredictiveScenario checks the Markov-guided engine end to end
func TestPredictiveScenario(t *testing.T) {
	ref := []Page{1, 2, 1, 2, 1, 3}
	r, err := SimulatePredictive(ref, 2, WithLookahead(5))
	if err != nil {
		t.Fatalf("SimulatePredictive failed: %v", err)
	}

	if r.Algorithm != "AI-Predictive-Markov" {
		t.Errorf("Expected algorithm AI-Predictive-Markov, got %s", r.Algorithm)
	}
	if r.Faults != 3 || r.Hits != 3 {
		t.Errorf("Expected 3 faults and 3 hits, got %d and %d", r.Faults, r.Hits)
	}

	// Forecast from 1 is 2,1,...: 1 is the farthest resident when 3 arrives
	want := [][]Page{{1}, {1, 2}, {2, 1}, {1, 2}, {2, 1}, {2, 3}}
	if got := framesOf(r); !reflect.DeepEqual(got, want) {
		t.Errorf("Unexpected trace:\n got  %v\n want %v", got, want)
	}
}

// TestPredictiveBeatsFIFOOnClassicString checks eviction uses the forecast
func TestPredictiveBeatsFIFOOnClassicString(t *testing.T) {
	r, err := SimulatePredictive([]Page{1, 2, 3, 4, 1, 2, 5}, 3)
	if err != nil {
		t.Fatalf("SimulatePredictive failed: %v", err)
	}

	if r.Faults != 5 || r.Hits != 2 {
		t.Errorf("Expected 5 faults and 2 hits, got %d and %d", r.Faults, r.Hits)
	}
	want := [][]Page{{1}, {1, 2}, {1, 2, 3}, {1, 2, 4}, {2, 4, 1}, {4, 1, 2}, {4, 1, 5}}
	if got := framesOf(r); !reflect.DeepEqual(got, want) {
		t.Errorf("Unexpected trace:\n got  %v\n want %v", got, want)
	}
}

// TestPredictiveTrainingModes compares omniscient and online training
func TestPredictiveTrainingModes(t *testing.T) {
	ref := []Page{1, 2, 3, 1}

	omniscient, err := SimulatePredictive(ref, 2)
	if err != nil {
		t.Fatalf("omniscient run failed: %v", err)
	}
	wantOmniscient := [][]Page{{1}, {1, 2}, {1, 3}, {3, 1}}
	if got := framesOf(omniscient); !reflect.DeepEqual(got, wantOmniscient) {
		t.Errorf("Omniscient trace:\n got  %v\n want %v", got, wantOmniscient)
	}
	if omniscient.Faults != 3 {
		t.Errorf("Expected 3 omniscient faults, got %d", omniscient.Faults)
	}

	online, err := SimulatePredictive(ref, 2, WithTrainingMode(TrainingOnline))
	if err != nil {
		t.Fatalf("online run failed: %v", err)
	}
	wantOnline := [][]Page{{1}, {1, 2}, {3, 2}, {1, 2}}
	if got := framesOf(online); !reflect.DeepEqual(got, wantOnline) {
		t.Errorf("Online trace:\n got  %v\n want %v", got, wantOnline)
	}
	if online.Faults != 4 {
		t.Errorf("Expected 4 online faults, got %d", online.Faults)
	}
}

// TestEmptyReference yields a zero result for every engine
func TestEmptyReference(t *testing.T) {
	for name, run := range engines {
		r, err := run([]Page{}, 3)
		if err != nil {
			t.Errorf("%s: unexpected error %v", name, err)
			continue
		}
		if r.Faults != 0 || r.Hits != 0 || r.FaultRate != 0.0 {
			t.Errorf("%s: expected zero result, got %+v", name, r)
		}
		if r.Steps == nil || len(r.Steps) != 0 {
			t.Errorf("%s: expected empty non-nil trace, got %#v", name, r.Steps)
		}
	}
}

// TestInvalidFrames rejects non-positive frame counts
func TestInvalidFrames(t *testing.T) {
	for name, run := range engines {
		for _, frames := range []int{0, -1} {
			_, err := run([]Page{1, 2}, frames)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("%s with %d frames: expected ErrInvalidArgument, got %v", name, frames, err)
			}
		}
	}

	if _, err := SimulatePredictive([]Page{1}, 2, WithLookahead(-1)); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for negative lookahead, got %v", err)
	}
}

// TestSimulateUnknownAlgorithm rejects unsupported names
func TestSimulateUnknownAlgorithm(t *testing.T) {
	_, err := Simulate("optimal", []Page{1}, 1)
	if !errors.Is(err, ErrUnknownAlgorithm) {
		t.Errorf("Expected ErrUnknownAlgorithm, got %v", err)
	}
}

// TestSimulationInvariants checks trace invariants on random reference strings
func TestSimulationInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for iter := 0; iter < 50; iter++ {
		n := 1 + rng.Intn(60)
		ref := make([]Page, n)
		for i := range ref {
			ref[i] = Page(rng.Intn(8))
		}

		for frames := 1; frames <= 5; frames++ {
			for name, run := range engines {
				r, err := run(ref, frames)
				if err != nil {
					t.Fatalf("%s failed: %v", name, err)
				}
				checkInvariants(t, name, ref, frames, r)
			}
		}
	}
}

func checkInvariants(t *testing.T, name string, ref []Page, frames int, r *Result) {
	t.Helper()

	if r.Faults+r.Hits != len(ref) {
		t.Fatalf("%s: faults+hits = %d, want %d", name, r.Faults+r.Hits, len(ref))
	}
	if r.FaultRate < 0 || r.FaultRate > 1 {
		t.Fatalf("%s: fault rate %f out of range", name, r.FaultRate)
	}
	if len(r.Steps) != len(ref) {
		t.Fatalf("%s: %d steps for %d accesses", name, len(r.Steps), len(ref))
	}

	var prev []Page
	for i, s := range r.Steps {
		if s.Page != ref[i] {
			t.Fatalf("%s: step %d records page %d, want %d", name, i, s.Page, ref[i])
		}
		if len(s.Frames) > frames {
			t.Fatalf("%s: step %d holds %d pages in %d frames", name, i, len(s.Frames), frames)
		}
		wasResident := containsPage(prev, s.Page)
		if s.Fault == wasResident {
			t.Fatalf("%s: step %d fault=%v but page resident before=%v", name, i, s.Fault, wasResident)
		}
		if !containsPage(s.Frames, s.Page) {
			t.Fatalf("%s: step %d page %d not resident after access", name, i, s.Page)
		}
		if DistinctPages(s.Frames) != len(s.Frames) {
			t.Fatalf("%s: step %d has duplicate frames %v", name, i, s.Frames)
		}
		prev = s.Frames
	}
}

func containsPage(frames []Page, p Page) bool {
	for _, q := range frames {
		if q == p {
			return true
		}
	}
	return false
}

// TestSimulateIdempotent verifies identical inputs give identical results
func TestSimulateIdempotent(t *testing.T) {
	ref := []Page{7, 0, 1, 2, 0, 3, 0, 4, 2, 3, 0, 3, 2, 1, 2, 0, 1, 7, 0, 1}

	for name, run := range engines {
		a, err := run(ref, 3)
		if err != nil {
			t.Fatalf("%s failed: %v", name, err)
		}
		b, _ := run(ref, 3)

		if !reflect.DeepEqual(a, b) {
			t.Errorf("%s: results differ between identical runs", name)
		}

		ea, _ := EncodeTrace(a, CompressionNone)
		eb, _ := EncodeTrace(b, CompressionNone)
		if !bytes.Equal(ea, eb) {
			t.Errorf("%s: encoded results differ between identical runs", name)
		}
	}
}

// TestReferenceNotModified makes sure engines leave the input alone
func TestReferenceNotModified(t *testing.T) {
	ref := []Page{3, 1, 3, 2, 1, 4}
	orig := append([]Page(nil), ref...)

	for name, run := range engines {
		if _, err := run(ref, 2); err != nil {
			t.Fatalf("%s failed: %v", name, err)
		}
		if !reflect.DeepEqual(ref, orig) {
			t.Fatalf("%s modified the reference string: %v", name, ref)
		}
	}
}

// TestStepSnapshotsIndependent checks each step owns its frame slice
func TestStepSnapshotsIndependent(t *testing.T) {
	r, _ := SimulateLRU([]Page{1, 2, 1, 3}, 2)
	r.Steps[1].Frames[0] = 42

	if r.Steps[2].Frames[0] == 42 || r.Steps[3].Frames[0] == 42 {
		t.Error("Steps share frame storage")
	}
}

// TestFramesEqualDistinctPages never evicts once every page has been seen
func TestFramesEqualDistinctPages(t *testing.T) {
	ref := []Page{1, 2, 3, 1, 2, 3, 3, 2, 1, 2}
	frames := DistinctPages(ref)

	for name, run := range engines {
		r, err := run(ref, frames)
		if err != nil {
			t.Fatalf("%s failed: %v", name, err)
		}
		if r.Faults != frames {
			t.Errorf("%s: expected %d compulsory faults, got %d", name, frames, r.Faults)
		}
		for i, f := range faultsOf(r)[frames:] {
			if f {
				t.Errorf("%s: unexpected fault at step %d", name, i+frames)
			}
		}
		if r.Evictions(frames) != 0 {
			t.Errorf("%s: expected no evictions, got %d", name, r.Evictions(frames))
		}
	}
}

// TestSimulateAll runs all engines and recommends the fewest faults
func TestSimulateAll(t *testing.T) {
	ref := []Page{1, 2, 3, 4, 1, 2, 5}
	cmp, err := SimulateAll(context.Background(), ref, 3)
	if err != nil {
		t.Fatalf("SimulateAll failed: %v", err)
	}

	want := map[string]int{
		AlgorithmFIFO:       7,
		AlgorithmLRU:        7,
		AlgorithmPredictive: 5,
	}
	if !reflect.DeepEqual(cmp.AllFaults, want) {
		t.Errorf("Expected faults %v, got %v", want, cmp.AllFaults)
	}
	if cmp.Recommendation != AlgorithmPredictive {
		t.Errorf("Expected recommendation %s, got %s", AlgorithmPredictive, cmp.Recommendation)
	}

	// Concurrent execution must match the sequential engines
	fifo, _ := SimulateFIFO(ref, 3)
	if !reflect.DeepEqual(cmp.FIFO, fifo) {
		t.Error("FIFO result from SimulateAll differs from SimulateFIFO")
	}
	pred, _ := SimulatePredictive(ref, 3)
	if !reflect.DeepEqual(cmp.Predictive, pred) {
		t.Error("Predictive result from SimulateAll differs from SimulatePredictive")
	}
}

// TestSimulateAllErrors covers validation and cancellation
func TestSimulateAllErrors(t *testing.T) {
	if _, err := SimulateAll(context.Background(), []Page{1}, 0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := SimulateAll(ctx, []Page{1}, 1); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

// TestRecommendTieBreak prefers FIFO, then LRU, then predictive on equal faults
func TestRecommendTieBreak(t *testing.T) {
	fifo := &Result{Algorithm: AlgorithmFIFO, Faults: 4}
	lru := &Result{Algorithm: AlgorithmLRU, Faults: 4}
	pred := &Result{Algorithm: AlgorithmPredictive, Faults: 4}

	if got := Recommend(fifo, lru, pred); got != AlgorithmFIFO {
		t.Errorf("Expected FIFO on a three-way tie, got %s", got)
	}

	fifo.Faults = 5
	if got := Recommend(fifo, lru, pred); got != AlgorithmLRU {
		t.Errorf("Expected LRU when it ties predictive, got %s", got)
	}

	if got := Recommend(); got != "" {
		t.Errorf("Expected empty recommendation without results, got %q", got)
	}
}

// TestSimulateRecordsMetrics checks the metrics option
func TestSimulateRecordsMetrics(t *testing.T) {
	m := NewMetrics()
	ref := []Page{1, 2, 3, 1, 4, 2, 5}

	if _, err := Simulate("lru", ref, 3, WithMetrics(m)); err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	if _, err := SimulateAll(context.Background(), ref, 3, WithMetrics(m)); err != nil {
		t.Fatalf("SimulateAll failed: %v", err)
	}

	lru := m.Stats(AlgorithmLRU)
	if lru.Runs != 2 || lru.Faults != 12 || lru.Hits != 2 || lru.Accesses != 14 {
		t.Errorf("Unexpected LRU stats: %+v", lru)
	}
	if lru.Evictions != 6 {
		t.Errorf("Expected 6 LRU evictions, got %d", lru.Evictions)
	}
	if m.Stats(AlgorithmFIFO).Runs != 1 {
		t.Errorf("Expected 1 FIFO run, got %d", m.Stats(AlgorithmFIFO).Runs)
	}
}
