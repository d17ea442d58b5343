// Copyright 2026 The Blaze4D Authors
// SPDX-License-Identifier: MIT

package vk

import "fmt"

// Buffer is an opaque handle to a device buffer object.
type Buffer uint64

// NullBuffer is the null buffer sentinel.
const NullBuffer Buffer = 0

// IsNull reports whether the handle is the null sentinel.
func (b Buffer) IsNull() bool { return b == NullBuffer }

// String returns the handle in hex, "Buffer(null)" for the sentinel.
func (b Buffer) String() string { return handleString("Buffer", uint64(b)) }

// BufferView is an opaque handle to a texel view over a buffer.
type BufferView uint64

// NullBufferView is the null buffer view sentinel.
const NullBufferView BufferView = 0

// IsNull reports whether the handle is the null sentinel.
func (v BufferView) IsNull() bool { return v == NullBufferView }

// String returns the handle in hex, "BufferView(null)" for the sentinel.
func (v BufferView) String() string { return handleString("BufferView", uint64(v)) }

// Image is an opaque handle to a device image object.
type Image uint64

// NullImage is the null image sentinel.
const NullImage Image = 0

// IsNull reports whether the handle is the null sentinel.
func (i Image) IsNull() bool { return i == NullImage }

// String returns the handle in hex, "Image(null)" for the sentinel.
func (i Image) String() string { return handleString("Image", uint64(i)) }

// ImageView is an opaque handle to a view over an image subresource range.
type ImageView uint64

// NullImageView is the null image view sentinel.
const NullImageView ImageView = 0

// IsNull reports whether the handle is the null sentinel.
func (v ImageView) IsNull() bool { return v == NullImageView }

// String returns the handle in hex, "ImageView(null)" for the sentinel.
func (v ImageView) String() string { return handleString("ImageView", uint64(v)) }

// Semaphore is an opaque handle to a device semaphore.
type Semaphore uint64

// NullSemaphore is the null semaphore sentinel.
const NullSemaphore Semaphore = 0

// IsNull reports whether the handle is the null sentinel.
func (s Semaphore) IsNull() bool { return s == NullSemaphore }

// String returns the handle in hex, "Semaphore(null)" for the sentinel.
func (s Semaphore) String() string { return handleString("Semaphore", uint64(s)) }

// DeviceMemory is an opaque handle to a region of device memory.
type DeviceMemory uint64

// NullDeviceMemory is the null device memory sentinel.
const NullDeviceMemory DeviceMemory = 0

// IsNull reports whether the handle is the null sentinel.
func (m DeviceMemory) IsNull() bool { return m == NullDeviceMemory }

// String returns the handle in hex, "DeviceMemory(null)" for the sentinel.
func (m DeviceMemory) String() string { return handleString("DeviceMemory", uint64(m)) }

func handleString(kind string, raw uint64) string {
	if raw == 0 {
		return kind + "(null)"
	}
	return fmt.Sprintf("%s(0x%x)", kind, raw)
}
