// Copyright 2026 The Blaze4D Authors
// SPDX-License-Identifier: MIT

package blaze4d

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/google/uuid"

	"github.com/whywhywhyw/Blaze4D/objects"
	"github.com/whywhywhyw/Blaze4D/vk"
)

// StaticMeshID identifies a static mesh registered with an instance.
// IDs are random and unique across all instances in the process.
type StaticMeshID = uuid.UUID

// staticMesh is the device-side state behind one StaticMeshID.
type staticMesh struct {
	group        *objects.SynchronizationGroup
	set          *objects.ResourceObjectSet
	vertexBuffer objects.ObjectID
	indexBuffer  objects.ObjectID
	indexCount   uint32
}

// Blaze4D is one rendering core instance. It owns an object manager over
// the host's device and tracks the static meshes registered with it.
//
// All methods are safe for concurrent use. After Close every method
// panics; the instance cannot be reused.
type Blaze4D struct {
	mu      sync.Mutex
	manager *objects.ObjectManager
	logger  *slog.Logger
	formats []VertexFormat
	meshes  map[StaticMeshID]*staticMesh
	closed  bool
}

// New creates an instance over the given device. The device is owned by
// the host and must stay valid until Close returns.
//
// Panics if device is nil.
func New(device vk.Device, opts ...objects.Option) *Blaze4D {
	logger := Logger()
	opts = append([]objects.Option{objects.WithLogger(logger)}, opts...)

	b := &Blaze4D{
		manager: objects.NewObjectManager(device, opts...),
		logger:  logger,
		meshes:  make(map[StaticMeshID]*staticMesh),
	}
	b.logger.Info("blaze4d instance created", slog.String("version", Version))
	return b
}

// checkOpen panics if the instance was closed. Caller must hold mu.
func (b *Blaze4D) checkOpen() {
	if b.closed {
		panic("blaze4d: use of closed instance")
	}
}

// Manager returns the instance's object manager, for hosts that build
// their own resource object sets alongside the mesh registry.
func (b *Blaze4D) Manager() *objects.ObjectManager {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.checkOpen()
	return b.manager
}

// SetVertexFormats registers the vertex layouts the host will render
// with. The slice is copied. Formats must be registered before the first
// mesh is created and stay fixed for the life of the instance.
func (b *Blaze4D) SetVertexFormats(formats []VertexFormat) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.checkOpen()
	if len(b.meshes) > 0 {
		panic("blaze4d: vertex formats must be set before meshes are created")
	}
	b.formats = append([]VertexFormat(nil), formats...)
	b.logger.Debug("vertex formats registered", slog.Int("count", len(formats)))
}

// VertexFormats returns a copy of the registered vertex formats.
func (b *Blaze4D) VertexFormats() []VertexFormat {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.checkOpen()
	return append([]VertexFormat(nil), b.formats...)
}

// CreateStaticMesh allocates device-resident vertex and index buffers
// sized for the mesh and registers the mesh under a fresh id. The buffers
// live until DropStaticMesh; the host fills them through its transfer
// path using the handles from StaticMeshBuffers.
//
// Returns an error wrapping ErrInvalidMeshData when the data is
// malformed, or the batch error when the device rejects the buffers.
func (b *Blaze4D) CreateStaticMesh(data MeshData) (StaticMeshID, error) {
	if err := data.Validate(); err != nil {
		return StaticMeshID{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.checkOpen()

	group, err := b.manager.CreateSynchronizationGroup()
	if err != nil {
		return StaticMeshID{}, fmt.Errorf("blaze4d: creating mesh synchronization group: %w", err)
	}

	builder := b.manager.NewResourceObjectSetBuilder(group)
	vertexBuffer := builder.AddBuffer(objects.BufferDescription{
		Label: "static mesh vertices",
		Size:  uint64(len(data.VertexData)),
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	indexBuffer := builder.AddBuffer(objects.BufferDescription{
		Label: "static mesh indices",
		Size:  uint64(len(data.IndexData)),
		Usage: gputypes.BufferUsageIndex | gputypes.BufferUsageCopyDst,
	})

	set, err := builder.Build()
	if err != nil {
		group.Release()
		return StaticMeshID{}, fmt.Errorf("blaze4d: building static mesh: %w", err)
	}

	id := uuid.New()
	b.meshes[id] = &staticMesh{
		group:        group,
		set:          set,
		vertexBuffer: vertexBuffer,
		indexBuffer:  indexBuffer,
		indexCount:   data.IndexCount,
	}

	b.logger.Debug("static mesh created",
		slog.String("mesh", id.String()),
		slog.Int("vertex_bytes", len(data.VertexData)),
		slog.Uint64("indices", uint64(data.IndexCount)))

	return id, nil
}

// StaticMeshBuffers returns the device buffer handles of a mesh. The
// handles stay valid until the mesh is dropped.
func (b *Blaze4D) StaticMeshBuffers(id StaticMeshID) (vertex, index vk.Buffer, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.checkOpen()

	mesh, ok := b.meshes[id]
	if !ok {
		return vk.NullBuffer, vk.NullBuffer, fmt.Errorf("%w: %s", ErrUnknownMesh, id)
	}
	return mesh.set.BufferHandle(mesh.vertexBuffer), mesh.set.BufferHandle(mesh.indexBuffer), nil
}

// DropStaticMesh unregisters a mesh and destroys its device buffers.
func (b *Blaze4D) DropStaticMesh(id StaticMeshID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.checkOpen()

	mesh, ok := b.meshes[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownMesh, id)
	}
	delete(b.meshes, id)

	mesh.set.Release()
	mesh.group.Release()

	b.logger.Debug("static mesh dropped", slog.String("mesh", id.String()))
	return nil
}

// MeshCount returns the number of live static meshes.
func (b *Blaze4D) MeshCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.checkOpen()
	return len(b.meshes)
}

// Close destroys every remaining mesh and shuts the instance down. The
// host's device is not touched beyond destroying the objects this
// instance created.
//
// Using the instance after Close, including closing it twice, panics.
func (b *Blaze4D) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.checkOpen()
	b.closed = true

	for id, mesh := range b.meshes {
		mesh.set.Release()
		mesh.group.Release()
		delete(b.meshes, id)
	}

	b.logger.Info("blaze4d instance closed")
}
