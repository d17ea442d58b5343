// Copyright 2026 The Blaze4D Authors
// SPDX-License-Identifier: MIT

package blaze4d

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/google/uuid"
	"github.com/whywhywhyw/Blaze4D/vk/vktest"
)

func newTestInstance(t *testing.T) (*Blaze4D, *vktest.Device) {
	t.Helper()
	dev := vktest.NewDevice()
	return New(dev), dev
}

func TestNewAndClose(t *testing.T) {
	b, dev := newTestInstance(t)
	b.Close()

	if got := dev.LiveObjects(); got != 0 {
		t.Errorf("LiveObjects() = %d after Close, want 0", got)
	}
	if got := dev.LiveSemaphores(); got != 0 {
		t.Errorf("LiveSemaphores() = %d after Close, want 0", got)
	}
}

func TestCreateStaticMesh(t *testing.T) {
	b, dev := newTestInstance(t)
	defer b.Close()

	id, err := b.CreateStaticMesh(validMesh())
	if err != nil {
		t.Fatalf("CreateStaticMesh: %v", err)
	}
	if id == uuid.Nil {
		t.Fatal("CreateStaticMesh returned the nil id")
	}
	if got := b.MeshCount(); got != 1 {
		t.Errorf("MeshCount() = %d, want 1", got)
	}

	vertex, index, err := b.StaticMeshBuffers(id)
	if err != nil {
		t.Fatalf("StaticMeshBuffers: %v", err)
	}
	if vertex.IsNull() || index.IsNull() {
		t.Error("mesh buffers are null")
	}
	if vertex == index {
		t.Error("vertex and index buffers share a handle")
	}

	// Two buffers, each with its own allocation, plus the group semaphore.
	if got := dev.LiveObjects(); got != 2 {
		t.Errorf("LiveObjects() = %d, want 2", got)
	}
	if got := dev.LiveAllocations(); got != 2 {
		t.Errorf("LiveAllocations() = %d, want 2", got)
	}
	if got := dev.LiveSemaphores(); got != 1 {
		t.Errorf("LiveSemaphores() = %d, want 1", got)
	}
}

func TestCreateStaticMeshInvalidData(t *testing.T) {
	b, dev := newTestInstance(t)
	defer b.Close()

	mesh := validMesh()
	mesh.IndexCount = 0

	before := len(dev.Journal())
	if _, err := b.CreateStaticMesh(mesh); !errors.Is(err, ErrInvalidMeshData) {
		t.Fatalf("CreateStaticMesh = %v, want ErrInvalidMeshData", err)
	}
	// Validation rejects the mesh before any device call.
	if after := len(dev.Journal()); after != before {
		t.Errorf("device journal grew from %d to %d entries", before, after)
	}
}

func TestCreateStaticMeshDeviceFailure(t *testing.T) {
	b, dev := newTestInstance(t)
	defer b.Close()

	dev.InjectFailure(vktest.OpCreateBuffer, 2, nil)

	if _, err := b.CreateStaticMesh(validMesh()); err == nil {
		t.Fatal("CreateStaticMesh succeeded, want error")
	}
	if got := b.MeshCount(); got != 0 {
		t.Errorf("MeshCount() = %d after failed create, want 0", got)
	}
	if got := dev.LiveObjects(); got != 0 {
		t.Errorf("LiveObjects() = %d after failed create, want 0", got)
	}
	if got := dev.LiveSemaphores(); got != 0 {
		t.Errorf("LiveSemaphores() = %d after failed create, want 0", got)
	}
}

func TestDropStaticMesh(t *testing.T) {
	b, dev := newTestInstance(t)
	defer b.Close()

	id, err := b.CreateStaticMesh(validMesh())
	if err != nil {
		t.Fatalf("CreateStaticMesh: %v", err)
	}

	if err := b.DropStaticMesh(id); err != nil {
		t.Fatalf("DropStaticMesh: %v", err)
	}
	if got := b.MeshCount(); got != 0 {
		t.Errorf("MeshCount() = %d, want 0", got)
	}
	if got := dev.LiveObjects(); got != 0 {
		t.Errorf("LiveObjects() = %d after drop, want 0", got)
	}
	if got := dev.LiveAllocations(); got != 0 {
		t.Errorf("LiveAllocations() = %d after drop, want 0", got)
	}
	if got := dev.LiveSemaphores(); got != 0 {
		t.Errorf("LiveSemaphores() = %d after drop, want 0", got)
	}

	if err := b.DropStaticMesh(id); !errors.Is(err, ErrUnknownMesh) {
		t.Errorf("second DropStaticMesh = %v, want ErrUnknownMesh", err)
	}
}

func TestDropUnknownMesh(t *testing.T) {
	b, _ := newTestInstance(t)
	defer b.Close()

	if err := b.DropStaticMesh(uuid.New()); !errors.Is(err, ErrUnknownMesh) {
		t.Errorf("DropStaticMesh = %v, want ErrUnknownMesh", err)
	}
	if _, _, err := b.StaticMeshBuffers(uuid.New()); !errors.Is(err, ErrUnknownMesh) {
		t.Errorf("StaticMeshBuffers = %v, want ErrUnknownMesh", err)
	}
}

func TestCloseReleasesMeshes(t *testing.T) {
	b, dev := newTestInstance(t)

	for i := 0; i < 3; i++ {
		if _, err := b.CreateStaticMesh(validMesh()); err != nil {
			t.Fatalf("CreateStaticMesh: %v", err)
		}
	}
	b.Close()

	if got := dev.LiveObjects(); got != 0 {
		t.Errorf("LiveObjects() = %d after Close, want 0", got)
	}
	if got := dev.LiveAllocations(); got != 0 {
		t.Errorf("LiveAllocations() = %d after Close, want 0", got)
	}
	if got := dev.LiveSemaphores(); got != 0 {
		t.Errorf("LiveSemaphores() = %d after Close, want 0", got)
	}
}

func TestUseAfterClose(t *testing.T) {
	b, _ := newTestInstance(t)
	b.Close()

	defer func() {
		if recover() == nil {
			t.Error("expected panic on use after Close")
		}
	}()
	b.CreateStaticMesh(validMesh())
}

func TestCloseTwice(t *testing.T) {
	b, _ := newTestInstance(t)
	b.Close()

	defer func() {
		if recover() == nil {
			t.Error("expected panic on second Close")
		}
	}()
	b.Close()
}

func TestSetVertexFormats(t *testing.T) {
	b, _ := newTestInstance(t)
	defer b.Close()

	formats := []VertexFormat{{
		Topology:       gputypes.PrimitiveTopologyTriangleList,
		Stride:         24,
		PositionOffset: 0,
		PositionFormat: gputypes.VertexFormatFloat32x3,
	}}
	b.SetVertexFormats(formats)

	got := b.VertexFormats()
	if len(got) != 1 || got[0] != formats[0] {
		t.Errorf("VertexFormats() = %v, want %v", got, formats)
	}

	// The returned slice is a copy.
	got[0].Stride = 99
	if b.VertexFormats()[0].Stride != 24 {
		t.Error("VertexFormats() aliases internal state")
	}
}

func TestSetVertexFormatsAfterMeshCreation(t *testing.T) {
	b, _ := newTestInstance(t)
	defer b.Close()

	if _, err := b.CreateStaticMesh(validMesh()); err != nil {
		t.Fatalf("CreateStaticMesh: %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic for late format registration")
		}
	}()
	b.SetVertexFormats([]VertexFormat{{Stride: 24}})
}
