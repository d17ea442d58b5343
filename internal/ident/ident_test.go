package ident

import (
	"sync"
	"testing"
)

func TestGeneratorMonotonic(t *testing.T) {
	var g Generator

	prev := ID(0)
	for i := 0; i < 1000; i++ {
		id := g.Next()
		if id <= prev {
			t.Fatalf("Next() = %d, want > %d", id, prev)
		}
		prev = id
	}
}

func TestGeneratorZeroSentinel(t *testing.T) {
	var g Generator

	if !ID(0).IsZero() {
		t.Error("ID(0).IsZero() = false, want true")
	}
	if id := g.Next(); id.IsZero() {
		t.Error("Next() returned the zero sentinel")
	}
}

func TestGeneratorConcurrent(t *testing.T) {
	var g Generator

	const (
		goroutines = 8
		perG       = 1000
	)

	ids := make([][]ID, goroutines)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			out := make([]ID, 0, perG)
			for j := 0; j < perG; j++ {
				out = append(out, g.Next())
			}
			ids[slot] = out
		}(i)
	}
	wg.Wait()

	seen := make(map[ID]bool, goroutines*perG)
	for _, batch := range ids {
		for _, id := range batch {
			if seen[id] {
				t.Fatalf("duplicate ID %d", id)
			}
			seen[id] = true
		}
	}
}
