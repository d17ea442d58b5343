// Copyright 2026 The Blaze4D Authors
// SPDX-License-Identifier: MIT

package capi

import (
	"testing"

	"github.com/gogpu/gputypes"
	blaze4d "github.com/whywhywhyw/Blaze4D"
	"github.com/whywhywhyw/Blaze4D/vk/vktest"
)

// exitCalled marks process termination in tests. The replacement osExit
// panics with it so the boundary entry point actually stops, the way
// os.Exit would stop it.
type exitCalled struct{ code int }

// expectExit runs fn with osExit replaced and reports whether the
// boundary terminated the process.
func expectExit(t *testing.T, fn func()) bool {
	t.Helper()
	orig := osExit
	osExit = func(code int) { panic(exitCalled{code}) }
	defer func() { osExit = orig }()

	exited := false
	func() {
		defer func() {
			if r := recover(); r != nil {
				if _, ok := r.(exitCalled); !ok {
					panic(r)
				}
				exited = true
			}
		}()
		fn()
	}()
	return exited
}

func validMesh() blaze4d.MeshData {
	return blaze4d.MeshData{
		VertexData:   make([]byte, 96),
		IndexData:    make([]byte, 12),
		VertexStride: 24,
		IndexCount:   6,
		IndexFormat:  gputypes.IndexFormatUint16,
	}
}

func TestInstanceLifecycle(t *testing.T) {
	dev := vktest.NewDevice()

	handle := Init(dev)
	if handle == 0 {
		t.Fatal("Init returned the zero handle")
	}

	SetVertexFormats(handle, []blaze4d.VertexFormat{{
		Topology:       gputypes.PrimitiveTopologyTriangleList,
		Stride:         24,
		PositionFormat: gputypes.VertexFormatFloat32x3,
	}})

	id := CreateStaticMesh(handle, validMesh())
	DestroyStaticMesh(handle, id)
	Destroy(handle)

	if got := dev.LiveObjects(); got != 0 {
		t.Errorf("LiveObjects() = %d after Destroy, want 0", got)
	}
	if got := dev.LiveSemaphores(); got != 0 {
		t.Errorf("LiveSemaphores() = %d after Destroy, want 0", got)
	}
}

func TestDistinctHandles(t *testing.T) {
	a := Init(vktest.NewDevice())
	b := Init(vktest.NewDevice())
	if a == b {
		t.Error("two instances share a handle")
	}
	Destroy(a)
	Destroy(b)
}

func TestFaultsTerminate(t *testing.T) {
	dev := vktest.NewDevice()
	handle := Init(dev)
	defer Destroy(handle)

	staleDev := vktest.NewDevice()
	stale := Init(staleDev)
	Destroy(stale)

	tests := []struct {
		name string
		call func()
	}{
		{"init nil device", func() { Init(nil) }},
		{"destroy unknown handle", func() { Destroy(stale) }},
		{"destroy zero handle", func() { Destroy(0) }},
		{"formats on unknown handle", func() { SetVertexFormats(stale, []blaze4d.VertexFormat{{Stride: 4}}) }},
		{"nil formats", func() { SetVertexFormats(handle, nil) }},
		{"mesh on unknown handle", func() { CreateStaticMesh(stale, validMesh()) }},
		{"invalid mesh data", func() { CreateStaticMesh(handle, blaze4d.MeshData{}) }},
		{"destroy unknown mesh", func() { DestroyStaticMesh(handle, blaze4d.StaticMeshID{}) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !expectExit(t, tt.call) {
				t.Error("boundary violation did not terminate")
			}
		})
	}
}

func TestCoreSurvivesBoundaryFault(t *testing.T) {
	dev := vktest.NewDevice()
	handle := Init(dev)
	defer Destroy(handle)

	// A fault on one call must not corrupt the instance registry.
	expectExit(t, func() { CreateStaticMesh(handle, blaze4d.MeshData{}) })

	id := CreateStaticMesh(handle, validMesh())
	DestroyStaticMesh(handle, id)
}
