// Copyright 2026 The Blaze4D Authors
// SPDX-License-Identifier: MIT

package objects

import "sort"

// SynchronizationGroupSet provides sequentially consistent access to
// objects spread over multiple synchronization groups. Acquire locks every
// group's domain in ascending identity order, so two overlapping sets
// contending for the same groups can never deadlock against each other.
//
// The set holds no references of its own; callers must keep the groups
// alive while the set is in use. A set is not safe for concurrent use,
// but distinct sets over shared groups are.
type SynchronizationGroupSet struct {
	groups []*SynchronizationGroup
	held   bool
}

// NewSynchronizationGroupSet builds a set over the given groups.
// Duplicate groups (by identity) are collapsed to one entry.
func NewSynchronizationGroupSet(groups ...*SynchronizationGroup) *SynchronizationGroupSet {
	unique := make([]*SynchronizationGroup, 0, len(groups))
	seen := make(map[groupIdentity]bool, len(groups))
	for _, g := range groups {
		if g == nil {
			panic("objects: nil group in synchronization group set")
		}
		id := g.identity()
		if seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, g)
	}
	sort.Slice(unique, func(i, j int) bool {
		return unique[i].identity().less(unique[j].identity())
	})
	return &SynchronizationGroupSet{groups: unique}
}

// Len returns the number of distinct groups in the set.
func (s *SynchronizationGroupSet) Len() int { return len(s.groups) }

// Acquire locks every group's domain in identity order. Panics if the set
// is already held.
func (s *SynchronizationGroupSet) Acquire() {
	if s.held {
		panic("objects: synchronization group set acquired twice")
	}
	for _, g := range s.groups {
		g.lockDomain()
	}
	s.held = true
}

// Release unlocks every group's domain in reverse acquisition order.
// Panics if the set is not held.
func (s *SynchronizationGroupSet) Release() {
	if !s.held {
		panic("objects: release of synchronization group set that is not held")
	}
	for i := len(s.groups) - 1; i >= 0; i-- {
		s.groups[i].unlockDomain()
	}
	s.held = false
}
