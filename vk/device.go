// Copyright 2026 The Blaze4D Authors
// SPDX-License-Identifier: MIT

package vk

import "github.com/gogpu/gputypes"

// MemoryPropertyFlags describe properties of a device memory type.
// Flags can be combined with bitwise OR.
type MemoryPropertyFlags uint32

const (
	// MemoryPropertyDeviceLocal marks memory resident on the device.
	MemoryPropertyDeviceLocal MemoryPropertyFlags = 1 << iota

	// MemoryPropertyHostVisible marks memory mappable by the host.
	MemoryPropertyHostVisible

	// MemoryPropertyHostCoherent marks host-visible memory that needs no
	// explicit flush or invalidate.
	MemoryPropertyHostCoherent

	// MemoryPropertyHostCached marks host-visible memory cached on the host.
	MemoryPropertyHostCached

	// MemoryPropertyLazilyAllocated marks memory the device may commit
	// lazily (transient attachments).
	MemoryPropertyLazilyAllocated
)

// Contains reports whether all bits of other are set in f.
func (f MemoryPropertyFlags) Contains(other MemoryPropertyFlags) bool {
	return f&other == other
}

// MemoryRequirements describe what an object needs from a memory
// allocation.
type MemoryRequirements struct {
	// Size is the required allocation size in bytes.
	Size uint64

	// Alignment is the required allocation alignment in bytes.
	Alignment uint64

	// MemoryTypeBits is a bitmask of memory type indices the object can
	// be bound to. Zero means any type.
	MemoryTypeBits uint32
}

// MemoryAllocateInfo describes a memory allocation request.
type MemoryAllocateInfo struct {
	// Size is the allocation size in bytes. Must be non-zero.
	Size uint64

	// Alignment is the required alignment in bytes. Zero means no
	// constraint.
	Alignment uint64

	// MemoryTypeBits restricts the memory types the device may satisfy
	// the request from. Zero means any type.
	MemoryTypeBits uint32

	// Required are property flags the chosen memory type must have.
	Required MemoryPropertyFlags

	// Preferred are property flags the device should favor when several
	// memory types satisfy Required.
	Preferred MemoryPropertyFlags
}

// BufferDescriptor describes a buffer to create.
type BufferDescriptor struct {
	// Label is an optional debug name.
	Label string

	// Size is the buffer size in bytes. Must be non-zero.
	Size uint64

	// Usage specifies how the buffer will be used.
	Usage gputypes.BufferUsage
}

// BufferViewDescriptor describes a typed texel view over a buffer range.
type BufferViewDescriptor struct {
	// Label is an optional debug name.
	Label string

	// Format is the texel format elements are interpreted as.
	Format gputypes.TextureFormat

	// Offset is the start of the viewed range in bytes.
	Offset uint64

	// Range is the length of the viewed range in bytes.
	Range uint64
}

// ImageDescriptor describes an image to create.
type ImageDescriptor struct {
	// Label is an optional debug name.
	Label string

	// Dimension is the image dimensionality.
	Dimension gputypes.TextureDimension

	// Size is the image extent. DepthOrArrayLayers is the array layer
	// count for layered 2D images.
	Size gputypes.Extent3D

	// Format is the pixel format.
	Format gputypes.TextureFormat

	// Usage specifies how the image will be used.
	Usage gputypes.TextureUsage

	// MipLevelCount is the number of mip levels. Zero means 1.
	MipLevelCount uint32

	// SampleCount is the number of MSAA samples. Zero means 1.
	SampleCount uint32
}

// ImageViewDescriptor describes a view over an image subresource range.
type ImageViewDescriptor struct {
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

// Device is the narrow device surface the object lifetime core calls.
//
// All methods are synchronous and may be called from any goroutine;
// implementations must serialize internal driver state themselves.
// Create methods return an error when the driver rejects the description
// or the device is out of resources; they never return a null handle
// together with a nil error. Destroy and free methods must tolerate being
// called exactly once per successfully created handle and are never
// called with the null sentinel by the core.
type Device interface {
	// CreateBuffer creates a buffer object. The buffer has no backing
	// memory until BindBufferMemory succeeds.
	CreateBuffer(desc *BufferDescriptor) (Buffer, error)

	// DestroyBuffer destroys a buffer previously created on this device.
	DestroyBuffer(buffer Buffer)

	// CreateBufferView creates a texel view over a bound buffer.
	CreateBufferView(buffer Buffer, desc *BufferViewDescriptor) (BufferView, error)

	// DestroyBufferView destroys a buffer view.
	DestroyBufferView(view BufferView)

	// CreateImage creates an image object. The image has no backing
	// memory until BindImageMemory succeeds.
	CreateImage(desc *ImageDescriptor) (Image, error)

	// DestroyImage destroys an image.
	DestroyImage(image Image)

	// CreateImageView creates a view over an image subresource range.
	CreateImageView(image Image, desc *ImageViewDescriptor) (ImageView, error)

	// DestroyImageView destroys an image view.
	DestroyImageView(view ImageView)

	// BufferMemoryRequirements returns the memory requirements of an
	// unbound buffer.
	BufferMemoryRequirements(buffer Buffer) MemoryRequirements

	// ImageMemoryRequirements returns the memory requirements of an
	// unbound image.
	ImageMemoryRequirements(image Image) MemoryRequirements

	// AllocateMemory allocates a region of device memory.
	AllocateMemory(info *MemoryAllocateInfo) (DeviceMemory, error)

	// FreeMemory frees a region of device memory. Memory still bound to
	// a live object must not be freed.
	FreeMemory(memory DeviceMemory)

	// BindBufferMemory binds memory to a buffer at the given offset.
	BindBufferMemory(buffer Buffer, memory DeviceMemory, offset uint64) error

	// BindImageMemory binds memory to an image at the given offset.
	BindImageMemory(image Image, memory DeviceMemory, offset uint64) error

	// CreateTimelineSemaphore creates a timeline semaphore with the
	// given initial counter value.
	CreateTimelineSemaphore(initialValue uint64) (Semaphore, error)

	// DestroySemaphore destroys a semaphore.
	DestroySemaphore(semaphore Semaphore)
}
