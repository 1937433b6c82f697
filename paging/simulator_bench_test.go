package paging

import (
	"context"
	"math/rand"
	"testing"
)

func benchReference(n, pages int) []Page {
	rng := rand.New(rand.NewSource(1))
	ref := make([]Page, n)
	for i := range ref {
		ref[i] = Page(rng.Intn(pages))
	}
	return ref
}

func BenchmarkSimulateFIFO(b *testing.B) {
	ref := benchReference(10000, 64)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		SimulateFIFO(ref, 16)
	}
}

func BenchmarkSimulateLRU(b *testing.B) {
	ref := benchReference(10000, 64)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		SimulateLRU(ref, 16)
	}
}

func BenchmarkSimulatePredictive(b *testing.B) {
	ref := benchReference(10000, 64)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		SimulatePredictive(ref, 16)
	}
}

func BenchmarkSimulateAll(b *testing.B) {
	ref := benchReference(10000, 64)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		SimulateAll(ctx, ref, 16)
	}
}

func BenchmarkEncodeTraceLZ4(b *testing.B) {
	r, _ := SimulateLRU(benchReference(10000, 64), 16)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		EncodeTrace(r, CompressionLZ4)
	}
}
