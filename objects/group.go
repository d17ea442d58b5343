// Copyright 2026 The Blaze4D Authors
// SPDX-License-Identifier: MIT

package objects

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/whywhywhyw/Blaze4D/internal/ident"
	"github.com/whywhywhyw/Blaze4D/vk"
)

// SynchronizationGroup is the serialization domain shared by all objects
// of one or more resource object sets. It wraps a single timeline
// semaphore; device operations against any object in the group are ordered
// by that semaphore's counter, not per object.
//
// Groups are reference counted. Each ResourceObjectSet built against a
// group holds one reference; callers hold another until they Release.
// When the last reference goes away the semaphore is returned to the
// device. Two groups are equal iff they wrap the same semaphore under the
// same manager.
type SynchronizationGroup struct {
	manager   *ObjectManager
	semaphore vk.Semaphore

	refs atomic.Int32

	// mu is the group's domain lock, acquired through
	// SynchronizationGroupSet for cross-group operations.
	mu sync.Mutex

	// pending is the highest timeline value handed out, completed the
	// highest value known signaled. completed <= pending always.
	pending   atomic.Uint64
	completed atomic.Uint64
}

// groupIdentity orders groups globally: first by owning manager, then by
// semaphore handle. Used by SynchronizationGroupSet to acquire domain
// locks in a consistent order.
type groupIdentity struct {
	manager   ident.ID
	semaphore vk.Semaphore
}

func (a groupIdentity) less(b groupIdentity) bool {
	if a.manager != b.manager {
		return a.manager < b.manager
	}
	return a.semaphore < b.semaphore
}

func newSynchronizationGroup(manager *ObjectManager, semaphore vk.Semaphore) *SynchronizationGroup {
	g := &SynchronizationGroup{manager: manager, semaphore: semaphore}
	g.refs.Store(1)
	return g
}

// Manager returns the object manager that owns this group.
func (g *SynchronizationGroup) Manager() *ObjectManager { return g.manager }

// Semaphore returns the group's timeline semaphore handle.
func (g *SynchronizationGroup) Semaphore() vk.Semaphore { return g.semaphore }

// Equal reports whether both groups reference the same semaphore under
// the same manager. A group is always equal to itself; groups from
// different managers are never equal.
func (g *SynchronizationGroup) Equal(other *SynchronizationGroup) bool {
	if g == nil || other == nil {
		return g == other
	}
	return g.identity() == other.identity()
}

func (g *SynchronizationGroup) identity() groupIdentity {
	return groupIdentity{manager: g.manager.id, semaphore: g.semaphore}
}

// retain adds a reference. Panics if the group was already released.
func (g *SynchronizationGroup) retain() *SynchronizationGroup {
	if g.refs.Add(1) <= 1 {
		panic("objects: retain of released synchronization group")
	}
	return g
}

// Release drops one reference. When the last reference is dropped the
// timeline semaphore is destroyed; the group must not be used afterwards.
//
// Releasing more often than retained is a programming error and panics.
func (g *SynchronizationGroup) Release() {
	switch n := g.refs.Add(-1); {
	case n == 0:
		g.manager.destroyGroupSemaphore(g.semaphore)
	case n < 0:
		panic("objects: release of released synchronization group")
	}
}

// NextOperation reserves and returns the timeline value the next device
// operation against this group should signal.
func (g *SynchronizationGroup) NextOperation() uint64 {
	return g.pending.Add(1)
}

// SignalCompleted records that the operation signaling value has
// completed. Values at or below the current completed value are ignored;
// a value that was never reserved through NextOperation panics.
func (g *SynchronizationGroup) SignalCompleted(value uint64) {
	if value > g.pending.Load() {
		panic(fmt.Sprintf("objects: completing timeline value %d past pending %d", value, g.pending.Load()))
	}
	for {
		cur := g.completed.Load()
		if value <= cur {
			return
		}
		if g.completed.CompareAndSwap(cur, value) {
			return
		}
	}
}

// CompletedValue returns the latest completed timeline value.
func (g *SynchronizationGroup) CompletedValue() uint64 {
	return g.completed.Load()
}

func (g *SynchronizationGroup) lockDomain()   { g.mu.Lock() }
func (g *SynchronizationGroup) unlockDomain() { g.mu.Unlock() }
