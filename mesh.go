// Copyright 2026 The Blaze4D Authors
// SPDX-License-Identifier: MIT

package blaze4d

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
)

// Errors returned for rejected mesh data.
var (
	// ErrInvalidMeshData is returned when mesh data fails validation.
	ErrInvalidMeshData = errors.New("blaze4d: invalid mesh data")

	// ErrUnknownMesh is returned when a mesh id does not name a live mesh.
	ErrUnknownMesh = errors.New("blaze4d: unknown mesh")
)

// MeshData carries the raw geometry of a static mesh. Both slices are
// copied to the device; the caller may reuse them after the create call
// returns.
type MeshData struct {
	// VertexData is the packed vertex buffer contents.
	VertexData []byte

	// IndexData is the packed index buffer contents.
	IndexData []byte

	// VertexStride is the size in bytes of one vertex.
	VertexStride uint32

	// IndexCount is the number of indices to draw.
	IndexCount uint32

	// IndexFormat is the index element type. Only
	// gputypes.IndexFormatUint16 is supported.
	IndexFormat gputypes.IndexFormat
}

// Validate checks the mesh for internal consistency. All errors wrap
// ErrInvalidMeshData.
func (m *MeshData) Validate() error {
	if len(m.VertexData) == 0 {
		return fmt.Errorf("%w: empty vertex data", ErrInvalidMeshData)
	}
	if m.VertexStride == 0 {
		return fmt.Errorf("%w: zero vertex stride", ErrInvalidMeshData)
	}
	if len(m.VertexData)%int(m.VertexStride) != 0 {
		return fmt.Errorf("%w: vertex data length %d is not a multiple of stride %d",
			ErrInvalidMeshData, len(m.VertexData), m.VertexStride)
	}
	if m.IndexFormat != gputypes.IndexFormatUint16 {
		return fmt.Errorf("%w: unsupported index format %v", ErrInvalidMeshData, m.IndexFormat)
	}
	if m.IndexCount == 0 {
		return fmt.Errorf("%w: zero index count", ErrInvalidMeshData)
	}
	if need := int(m.IndexCount) * 2; len(m.IndexData) < need {
		return fmt.Errorf("%w: index data holds %d bytes, %d indices need %d",
			ErrInvalidMeshData, len(m.IndexData), m.IndexCount, need)
	}
	return nil
}

// VertexFormat describes how a vertex stream is laid out and assembled.
// The host registers the formats it will render with once, before
// creating meshes.
type VertexFormat struct {
	// Topology is the primitive assembly mode.
	Topology gputypes.PrimitiveTopology

	// Stride is the size in bytes of one vertex.
	Stride uint32

	// PositionOffset is the byte offset of the position attribute within
	// a vertex.
	PositionOffset uint32

	// PositionFormat is the component format of the position attribute.
	PositionFormat gputypes.VertexFormat
}
