// Copyright 2026 The Blaze4D Authors
// SPDX-License-Identifier: MIT

package objects

import (
	"testing"

	"github.com/gogpu/gputypes"
)

func buildTestSet(t *testing.T, m *ObjectManager) (*ResourceObjectSet, ObjectID) {
	t.Helper()
	builder := m.NewResourceObjectSetBuilder(testGroup(t, m))
	id := builder.AddBuffer(BufferDescription{Size: 64, Usage: gputypes.BufferUsageCopySrc})
	set, err := builder.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return set, id
}

func TestSetRetainRelease(t *testing.T) {
	m, dev := newTestManager(t)
	set, id := buildTestSet(t, m)

	set.Retain()
	set.Release()

	// One reference remains; the objects are still live.
	if set.BufferHandle(id).IsNull() {
		t.Error("BufferHandle() is null while the set is live")
	}
	if got := dev.LiveObjects(); got != 1 {
		t.Errorf("LiveObjects() = %d, want 1", got)
	}

	set.Release()
	if got := dev.LiveObjects(); got != 0 {
		t.Errorf("LiveObjects() = %d after final release, want 0", got)
	}
}

func TestSetReleaseTwice(t *testing.T) {
	m, _ := newTestManager(t)
	set, _ := buildTestSet(t, m)
	set.Release()

	defer func() {
		if recover() == nil {
			t.Error("expected panic on release of released set")
		}
	}()
	set.Release()
}

func TestSetRetainAfterRelease(t *testing.T) {
	m, _ := newTestManager(t)
	set, _ := buildTestSet(t, m)
	set.Release()

	defer func() {
		if recover() == nil {
			t.Error("expected panic on retain of released set")
		}
	}()
	set.Retain()
}

func TestSetHandleKindMismatch(t *testing.T) {
	m, _ := newTestManager(t)
	set, id := buildTestSet(t, m)
	defer set.Release()

	defer func() {
		if recover() == nil {
			t.Error("expected panic for kind mismatch")
		}
	}()
	set.ImageHandle(id) // id names a buffer
}

func TestSetHandleOutOfRange(t *testing.T) {
	m, _ := newTestManager(t)
	set, _ := buildTestSet(t, m)
	defer set.Release()

	defer func() {
		if recover() == nil {
			t.Error("expected panic for out-of-range id")
		}
	}()
	set.BufferHandle(ObjectID(9))
}

func TestSetGroupAccessor(t *testing.T) {
	m, _ := newTestManager(t)
	group := testGroup(t, m)

	builder := m.NewResourceObjectSetBuilder(group)
	set, err := builder.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer set.Release()

	if !set.SynchronizationGroup().Equal(group) {
		t.Error("SynchronizationGroup() differs from the builder's group")
	}
}
