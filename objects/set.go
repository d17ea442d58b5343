// Copyright 2026 The Blaze4D Authors
// SPDX-License-Identifier: MIT

package objects

import (
	"fmt"
	"sync/atomic"

	"github.com/whywhywhyw/Blaze4D/vk"
)

// ResourceObjectSet is the immutable, shared handle to a fully built
// batch of objects and their backing allocations. A set is the unit of
// destruction: all of its objects are destroyed together when the last
// reference is released, in the reverse of their creation order, followed
// by the retained allocations.
//
// The set holds a reference to its synchronization group for its entire
// lifetime, so the group can never be reclaimed while any of its objects
// exist.
type ResourceObjectSet struct {
	manager     *ObjectManager
	group       *SynchronizationGroup
	objects     []ResourceObjectData
	allocations []*Allocation

	refs atomic.Int32
}

func newResourceObjectSet(manager *ObjectManager, group *SynchronizationGroup, objects []ResourceObjectData, allocations []*Allocation) *ResourceObjectSet {
	s := &ResourceObjectSet{
		manager:     manager,
		group:       group,
		objects:     objects,
		allocations: allocations,
	}
	s.refs.Store(1)
	return s
}

// SynchronizationGroup returns the group all objects of this set belong
// to. The returned group is only guaranteed alive while the set is.
func (s *ResourceObjectSet) SynchronizationGroup() *SynchronizationGroup {
	return s.group
}

// Len returns the number of objects in the set.
func (s *ResourceObjectSet) Len() int { return len(s.objects) }

// Retain adds a reference to the set and returns it.
func (s *ResourceObjectSet) Retain() *ResourceObjectSet {
	if s.refs.Add(1) <= 1 {
		panic("objects: retain of released resource object set")
	}
	return s
}

// Release drops one reference. Dropping the last reference destroys every
// object in reverse creation order, frees the retained allocations, and
// releases the set's hold on its synchronization group.
//
// Releasing more often than retained is a programming error and panics.
func (s *ResourceObjectSet) Release() {
	switch n := s.refs.Add(-1); {
	case n == 0:
		s.manager.destroyResourceObjects(s.objects, s.allocations)
		s.objects = nil
		s.allocations = nil
		s.group.Release()
	case n < 0:
		panic("objects: release of released resource object set")
	}
}

func (s *ResourceObjectSet) data(id ObjectID, want objectKind) *ResourceObjectData {
	if id < 0 || int(id) >= len(s.objects) {
		panic(fmt.Sprintf("objects: object id %d outside set of %d objects", id, len(s.objects)))
	}
	d := &s.objects[id]
	if d.kind != want {
		panic(fmt.Sprintf("objects: object id %d is a %s, want %s", id, d.kind, want))
	}
	return d
}

// BufferHandle returns the device handle of the buffer built under id.
// Panics if id is out of range or names a different object kind.
func (s *ResourceObjectSet) BufferHandle(id ObjectID) vk.Buffer {
	return s.data(id, kindBuffer).buffer
}

// BufferViewHandle returns the device handle of the buffer view built
// under id. Panics if id is out of range or names a different object kind.
func (s *ResourceObjectSet) BufferViewHandle(id ObjectID) vk.BufferView {
	return s.data(id, kindBufferView).bufferView
}

// ImageHandle returns the device handle of the image built under id.
// Panics if id is out of range or names a different object kind.
func (s *ResourceObjectSet) ImageHandle(id ObjectID) vk.Image {
	return s.data(id, kindImage).image
}

// ImageViewHandle returns the device handle of the image view built under
// id. Panics if id is out of range or names a different object kind.
func (s *ResourceObjectSet) ImageViewHandle(id ObjectID) vk.ImageView {
	return s.data(id, kindImageView).imageView
}
