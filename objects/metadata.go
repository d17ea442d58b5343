// Copyright 2026 The Blaze4D Authors
// SPDX-License-Identifier: MIT

package objects

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/whywhywhyw/Blaze4D/internal/splitter"
	"github.com/whywhywhyw/Blaze4D/vk"
)

// objectKind tags the variant held by a batch slot.
type objectKind uint8

const (
	kindBuffer objectKind = iota
	kindBufferView
	kindImage
	kindImageView
)

// String returns the kind name used in errors and logs.
func (k objectKind) String() string {
	switch k {
	case kindBuffer:
		return "buffer"
	case kindBufferView:
		return "buffer view"
	case kindImage:
		return "image"
	case kindImageView:
		return "image view"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// BufferDescription describes a buffer to queue on a builder.
type BufferDescription struct {
	// Label is an optional debug name.
	Label string

	// Size is the buffer size in bytes. Must be non-zero.
	Size uint64

	// Usage specifies how the buffer will be used.
	Usage gputypes.BufferUsage

	// Memory selects where the backing memory should live.
	Memory MemoryUsage
}

// BufferViewDescription describes a texel view over a buffer queued
// earlier in the same batch.
type BufferViewDescription struct {
	// Label is an optional debug name.
	Label string

	// Format is the texel format of the view.
	Format gputypes.TextureFormat

	// Offset is the start of the viewed range in bytes.
	Offset uint64

	// Range is the length of the viewed range in bytes.
	Range uint64
}

// ImageDescription describes an image to queue on a builder.
type ImageDescription struct {
	// Label is an optional debug name.
	Label string

	// Dimension is the image dimensionality.
	Dimension gputypes.TextureDimension

	// Size is the image extent.
	Size gputypes.Extent3D

	// Format is the pixel format.
	Format gputypes.TextureFormat

	// Usage specifies how the image will be used.
	Usage gputypes.TextureUsage

	// MipLevelCount is the number of mip levels. Zero means 1.
	MipLevelCount uint32

	// SampleCount is the number of MSAA samples. Zero means 1.
	SampleCount uint32

	// Memory selects where the backing memory should live.
	Memory MemoryUsage
}

// ImageViewDescription describes a view over an image queued earlier in
// the same batch.
type ImageViewDescription struct {
	// Label is an optional debug name.
	Label string

	// Dimension is the view dimensionality.
	Dimension gputypes.TextureViewDimension

	// Format is the view format. Must be compatible with the image.
	Format gputypes.TextureFormat

	// Aspect selects the image aspect the view exposes.
	Aspect gputypes.TextureAspect

	// BaseMipLevel is the first mip level visible through the view.
	BaseMipLevel uint32

	// MipLevelCount is the number of visible mip levels. Zero means 1.
	MipLevelCount uint32

	// BaseArrayLayer is the first array layer visible through the view.
	BaseArrayLayer uint32

	// ArrayLayerCount is the number of visible array layers. Zero means 1.
	ArrayLayerCount uint32
}

// resourceObjectCreateMetadata is the transient per-slot state of a batch
// between queueing and reduction. Exactly one description field is valid,
// selected by kind. Handle and allocation fields are filled during the
// create phase and either reduced into a ResourceObjectData or torn down
// by abort.
type resourceObjectCreateMetadata struct {
	kind objectKind

	// dependency is the batch-local index of the object a view reads,
	// noDependency for non-view slots. Always strictly less than this
	// slot's own index.
	dependency ObjectID

	buffer     BufferDescription
	bufferView BufferViewDescription
	image      ImageDescription
	imageView  ImageViewDescription

	bufferHandle     vk.Buffer
	bufferViewHandle vk.BufferView
	imageHandle      vk.Image
	imageViewHandle  vk.ImageView
	allocation       *Allocation
}

// create realizes the slot's object on the device. rest grants read access
// to the other slots of the batch so views can fetch their dependency's
// handle; only slots at earlier indices are guaranteed created.
//
// On error the slot may hold a partial result (a created handle without
// bound memory); abort releases whatever was acquired.
func (m *resourceObjectCreateMetadata) create(dev vk.Device, alloc *Allocator, rest *splitter.Rest[resourceObjectCreateMetadata]) error {
	switch m.kind {
	case kindBuffer:
		handle, err := dev.CreateBuffer(&vk.BufferDescriptor{
			Label: m.buffer.Label,
			Size:  m.buffer.Size,
			Usage: m.buffer.Usage,
		})
		if err != nil {
			return err
		}
		m.bufferHandle = handle

		allocation, err := alloc.Allocate(dev.BufferMemoryRequirements(handle), m.buffer.Memory)
		if err != nil {
			return err
		}
		m.allocation = allocation

		return dev.BindBufferMemory(handle, allocation.Memory(), 0)

	case kindBufferView:
		dep := m.dependencySlot(rest, kindBuffer)
		handle, err := dev.CreateBufferView(dep.bufferHandle, &vk.BufferViewDescriptor{
			Label:  m.bufferView.Label,
			Format: m.bufferView.Format,
			Offset: m.bufferView.Offset,
			Range:  m.bufferView.Range,
		})
		if err != nil {
			return err
		}
		m.bufferViewHandle = handle
		return nil

	case kindImage:
		handle, err := dev.CreateImage(&vk.ImageDescriptor{
			Label:         m.image.Label,
			Dimension:     m.image.Dimension,
			Size:          m.image.Size,
			Format:        m.image.Format,
			Usage:         m.image.Usage,
			MipLevelCount: m.image.MipLevelCount,
			SampleCount:   m.image.SampleCount,
		})
		if err != nil {
			return err
		}
		m.imageHandle = handle

		allocation, err := alloc.Allocate(dev.ImageMemoryRequirements(handle), m.image.Memory)
		if err != nil {
			return err
		}
		m.allocation = allocation

		return dev.BindImageMemory(handle, allocation.Memory(), 0)

	case kindImageView:
		dep := m.dependencySlot(rest, kindImage)
		handle, err := dev.CreateImageView(dep.imageHandle, &vk.ImageViewDescriptor{
			Label:           m.imageView.Label,
			Dimension:       m.imageView.Dimension,
			Format:          m.imageView.Format,
			Aspect:          m.imageView.Aspect,
			BaseMipLevel:    m.imageView.BaseMipLevel,
			MipLevelCount:   m.imageView.MipLevelCount,
			BaseArrayLayer:  m.imageView.BaseArrayLayer,
			ArrayLayerCount: m.imageView.ArrayLayerCount,
		})
		if err != nil {
			return err
		}
		m.imageViewHandle = handle
		return nil

	default:
		panic(fmt.Sprintf("objects: create on unknown object kind %d", m.kind))
	}
}

// dependencySlot resolves the slot this view depends on. The builder
// validates references at queue time, so a mismatch here is state
// corruption and panics.
func (m *resourceObjectCreateMetadata) dependencySlot(rest *splitter.Rest[resourceObjectCreateMetadata], want objectKind) *resourceObjectCreateMetadata {
	dep := rest.Get(int(m.dependency))
	if dep.kind != want {
		panic(fmt.Sprintf("objects: %s depends on slot %d which holds a %s, want %s",
			m.kind, m.dependency, dep.kind, want))
	}
	return dep
}

// abort releases everything the slot acquired during create. Slots the
// create phase never reached hold null handles and nil allocations, so
// abort is a natural no-op for them.
func (m *resourceObjectCreateMetadata) abort(dev vk.Device, alloc *Allocator) {
	if !m.bufferViewHandle.IsNull() {
		dev.DestroyBufferView(m.bufferViewHandle)
		m.bufferViewHandle = vk.NullBufferView
	}
	if !m.imageViewHandle.IsNull() {
		dev.DestroyImageView(m.imageViewHandle)
		m.imageViewHandle = vk.NullImageView
	}
	if !m.bufferHandle.IsNull() {
		dev.DestroyBuffer(m.bufferHandle)
		m.bufferHandle = vk.NullBuffer
	}
	if !m.imageHandle.IsNull() {
		dev.DestroyImage(m.imageHandle)
		m.imageHandle = vk.NullImage
	}
	alloc.Free(m.allocation)
	m.allocation = nil
}

// reduce splits the slot into the immutable object data to retain and the
// allocation to retain separately (nil for view slots).
func (m *resourceObjectCreateMetadata) reduce() (ResourceObjectData, *Allocation) {
	data := ResourceObjectData{
		kind:       m.kind,
		buffer:     m.bufferHandle,
		bufferView: m.bufferViewHandle,
		image:      m.imageHandle,
		imageView:  m.imageViewHandle,
	}
	allocation := m.allocation
	m.allocation = nil
	return data, allocation
}

// ResourceObjectData is the built, immutable representation of one object:
// its device handle plus what is needed to destroy it.
type ResourceObjectData struct {
	kind       objectKind
	buffer     vk.Buffer
	bufferView vk.BufferView
	image      vk.Image
	imageView  vk.ImageView
}

// destroy releases the object's device handle.
func (d *ResourceObjectData) destroy(dev vk.Device) {
	switch d.kind {
	case kindBuffer:
		dev.DestroyBuffer(d.buffer)
	case kindBufferView:
		dev.DestroyBufferView(d.bufferView)
	case kindImage:
		dev.DestroyImage(d.image)
	case kindImageView:
		dev.DestroyImageView(d.imageView)
	}
}
