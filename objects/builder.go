// Copyright 2026 The Blaze4D Authors
// SPDX-License-Identifier: MIT

package objects

import (
	"fmt"
	"sync"
)

// ObjectID identifies an object within one batch: it is the object's
// ordinal position in queue order. IDs are assigned by the builder's Add
// methods and become permanent lookup keys into the built
// ResourceObjectSet.
type ObjectID int

// noDependency marks slots that reference no other slot.
const noDependency ObjectID = -1

// ResourceObjectSetBuilder accumulates object descriptions for one batch
// and realizes them atomically with Build. Create one with
// ObjectManager.NewResourceObjectSetBuilder.
//
// View objects must reference a strictly earlier entry of the same batch;
// a forward, self, or kind-mismatched reference is a programming error and
// panics at queue time, before any device call is made.
//
// The builder is safe for concurrent use, though batches are typically
// assembled from a single goroutine.
type ResourceObjectSetBuilder struct {
	mu       sync.Mutex
	manager  *ObjectManager
	group    *SynchronizationGroup
	requests []resourceObjectCreateMetadata
	built    bool
}

func (b *ResourceObjectSetBuilder) append(m resourceObjectCreateMetadata) ObjectID {
	if b.built {
		panic("objects: add on a builder that was already built")
	}
	b.requests = append(b.requests, m)
	return ObjectID(len(b.requests) - 1)
}

// checkDependency validates a view's reference at queue time.
func (b *ResourceObjectSetBuilder) checkDependency(dep ObjectID, want objectKind) {
	if dep < 0 || int(dep) >= len(b.requests) {
		panic(fmt.Sprintf("objects: dependency id %d outside batch of %d objects", dep, len(b.requests)))
	}
	if got := b.requests[dep].kind; got != want {
		panic(fmt.Sprintf("objects: dependency id %d is a %s, want %s", dep, got, want))
	}
}

// AddBuffer queues a buffer and returns its id within the batch.
func (b *ResourceObjectSetBuilder) AddBuffer(desc BufferDescription) ObjectID {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.append(resourceObjectCreateMetadata{
		kind:       kindBuffer,
		dependency: noDependency,
		buffer:     desc,
	})
}

// AddBufferView queues a texel view over the buffer queued earlier under
// id buffer, and returns the view's own id.
func (b *ResourceObjectSetBuilder) AddBufferView(desc BufferViewDescription, buffer ObjectID) ObjectID {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.checkDependency(buffer, kindBuffer)
	return b.append(resourceObjectCreateMetadata{
		kind:       kindBufferView,
		dependency: buffer,
		bufferView: desc,
	})
}

// AddImage queues an image and returns its id within the batch.
func (b *ResourceObjectSetBuilder) AddImage(desc ImageDescription) ObjectID {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.append(resourceObjectCreateMetadata{
		kind:       kindImage,
		dependency: noDependency,
		image:      desc,
	})
}

// AddImageView queues a view over the image queued earlier under id
// image, and returns the view's own id.
func (b *ResourceObjectSetBuilder) AddImageView(desc ImageViewDescription, image ObjectID) ObjectID {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.checkDependency(image, kindImage)
	return b.append(resourceObjectCreateMetadata{
		kind:       kindImageView,
		dependency: image,
		imageView:  desc,
	})
}

// Len returns the number of objects queued so far.
func (b *ResourceObjectSetBuilder) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.requests)
}

// Build realizes the batch. On success it returns the immutable set
// holding every queued object, bound to the builder's synchronization
// group. On failure every partially created object has been torn down in
// reverse order and the batch error is returned; no set is produced.
//
// Build consumes the builder: calling it twice, or adding after a build,
// panics.
func (b *ResourceObjectSetBuilder) Build() (*ResourceObjectSet, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.built {
		panic("objects: builder built twice")
	}
	b.built = true

	requests := b.requests
	b.requests = nil

	data, allocations, err := b.manager.buildResourceObjects(requests)
	if err != nil {
		return nil, err
	}

	return newResourceObjectSet(b.manager, b.group.retain(), data, allocations), nil
}
