// Copyright 2026 The Blaze4D Authors
// SPDX-License-Identifier: MIT

// Package blaze4d is the host-facing entry point of the Blaze4D rendering
// core.
//
// # Overview
//
// Blaze4D manages GPU resource lifetimes for a rendering host. The host
// owns the device and the frame loop; Blaze4D owns the objects: buffers,
// images, views and the device memory behind them, grouped into
// synchronization domains so that parallel device work stays ordered.
//
// # Quick Start
//
//	import "github.com/whywhywhyw/Blaze4D"
//
//	b4d := blaze4d.New(device)
//	defer b4d.Close()
//
//	b4d.SetVertexFormats([]blaze4d.VertexFormat{format})
//	id, err := b4d.CreateStaticMesh(mesh)
//	// ... render using the mesh ...
//	b4d.DropStaticMesh(id)
//
// # Architecture
//
// The library is organized into:
//   - Public API: Blaze4D, MeshData, VertexFormat
//   - objects: object manager, synchronization groups, resource object sets
//   - vk: the narrow device surface Blaze4D requires from the host
//   - capi: the C-style boundary for non-Go hosts
//
// # Devices
//
// Blaze4D never creates, selects, or destroys a device. The host hands one
// in at construction and keeps it valid until Close returns.
package blaze4d

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0-alpha.1"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0

	// VersionPrerelease is the prerelease identifier
	VersionPrerelease = "alpha.1"
)
