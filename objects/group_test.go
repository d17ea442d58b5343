// Copyright 2026 The Blaze4D Authors
// SPDX-License-Identifier: MIT

package objects

import (
	"sync"
	"testing"
)

func TestGroupTimeline(t *testing.T) {
	m, _ := newTestManager(t)
	group := testGroup(t, m)

	if got := group.CompletedValue(); got != 0 {
		t.Fatalf("CompletedValue() = %d at creation, want 0", got)
	}
	if got := group.NextOperation(); got != 1 {
		t.Errorf("NextOperation() = %d, want 1", got)
	}
	if got := group.NextOperation(); got != 2 {
		t.Errorf("NextOperation() = %d, want 2", got)
	}

	group.SignalCompleted(2)
	if got := group.CompletedValue(); got != 2 {
		t.Errorf("CompletedValue() = %d, want 2", got)
	}

	// Completions may arrive out of order; stale values never move the
	// counter backwards.
	group.SignalCompleted(1)
	if got := group.CompletedValue(); got != 2 {
		t.Errorf("CompletedValue() = %d after stale signal, want 2", got)
	}
}

func TestGroupSignalPastPending(t *testing.T) {
	m, _ := newTestManager(t)
	group := testGroup(t, m)
	group.NextOperation()

	defer func() {
		if recover() == nil {
			t.Error("expected panic for unreserved timeline value")
		}
	}()
	group.SignalCompleted(5)
}

func TestGroupTimelineConcurrent(t *testing.T) {
	m, _ := newTestManager(t)
	group := testGroup(t, m)

	const workers = 8
	const perWorker = 100

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				group.SignalCompleted(group.NextOperation())
			}
		}()
	}
	wg.Wait()

	if got := group.CompletedValue(); got != workers*perWorker {
		t.Errorf("CompletedValue() = %d, want %d", got, workers*perWorker)
	}
}

func TestGroupReleaseTwice(t *testing.T) {
	m, _ := newTestManager(t)
	group, err := m.CreateSynchronizationGroup()
	if err != nil {
		t.Fatalf("CreateSynchronizationGroup: %v", err)
	}
	group.Release()

	defer func() {
		if recover() == nil {
			t.Error("expected panic on second Release")
		}
	}()
	group.Release()
}

func TestSynchronizationGroupSetDeduplicates(t *testing.T) {
	m, _ := newTestManager(t)
	a := testGroup(t, m)
	b := testGroup(t, m)

	set := NewSynchronizationGroupSet(a, b, a, b, a)
	if got := set.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
}

func TestSynchronizationGroupSetNilGroup(t *testing.T) {
	m, _ := newTestManager(t)
	a := testGroup(t, m)

	defer func() {
		if recover() == nil {
			t.Error("expected panic for nil group")
		}
	}()
	NewSynchronizationGroupSet(a, nil)
}

func TestSynchronizationGroupSetAcquireRelease(t *testing.T) {
	m, _ := newTestManager(t)
	a := testGroup(t, m)
	b := testGroup(t, m)

	set := NewSynchronizationGroupSet(a, b)
	set.Acquire()

	// A second set over the same groups must block until the first
	// releases, regardless of the order its groups were passed in.
	acquired := make(chan struct{})
	go func() {
		other := NewSynchronizationGroupSet(b, a)
		other.Acquire()
		other.Release()
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("second set acquired while first was held")
	default:
	}

	set.Release()
	<-acquired
}

func TestSynchronizationGroupSetAcquireTwice(t *testing.T) {
	m, _ := newTestManager(t)
	set := NewSynchronizationGroupSet(testGroup(t, m))
	set.Acquire()
	defer set.Release()

	defer func() {
		if recover() == nil {
			t.Error("expected panic on second Acquire")
		}
	}()
	set.Acquire()
}

func TestSynchronizationGroupSetReleaseUnheld(t *testing.T) {
	m, _ := newTestManager(t)
	set := NewSynchronizationGroupSet(testGroup(t, m))

	defer func() {
		if recover() == nil {
			t.Error("expected panic on release of unheld set")
		}
	}()
	set.Release()
}
