// Copyright 2026 The Blaze4D Authors
// SPDX-License-Identifier: MIT

// Package vk defines the device abstraction the object lifetime core is
// built against.
//
// Key principle: Blaze4D RECEIVES the device from the host, it does NOT
// create one. Instance selection, driver loading, and queue setup belong
// to the host application; this package only describes the handle types,
// descriptors, and the narrow Device interface the core calls.
//
// Handles are opaque 64-bit values in the Vulkan style. The zero value of
// every handle type is its null sentinel; a successfully created object is
// never the null handle.
package vk
