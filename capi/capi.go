// Copyright 2026 The Blaze4D Authors
// SPDX-License-Identifier: MIT

// Package capi is the boundary layer for non-Go hosts. It exposes the
// blaze4d surface through opaque integer handles, the shape a cgo export
// shim needs, and enforces the boundary contract: a contract violation
// (bad handle, nil argument, or a panic escaping the core) is logged and
// terminates the process. The boundary never reports a fault back to the
// host and never continues past one; a host that violated the contract
// cannot be trusted to handle the report.
package capi

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	blaze4d "github.com/whywhywhyw/Blaze4D"
	"github.com/whywhywhyw/Blaze4D/vk"
)

// osExit is swapped out by tests that exercise the fault path.
var osExit = os.Exit

// Instance is an opaque handle to a Blaze4D instance. The zero handle is
// never valid.
type Instance uint64

var (
	mu        sync.Mutex
	next      Instance
	instances = make(map[Instance]*blaze4d.Blaze4D)
)

// fault logs the violation and terminates. It never returns.
func fault(op, msg string, args ...any) {
	blaze4d.Logger().Error(fmt.Sprintf(msg, args...), slog.String("op", op))
	osExit(1)
}

// guard converts a panic escaping op into a fault. Use in a defer at the
// top of every boundary entry point.
func guard(op string) {
	if r := recover(); r != nil {
		fault(op, "panic in %s: %v", op, r)
	}
}

// lookup resolves a handle, faulting on an unknown or zero one. The
// returned instance stays registered.
func lookup(op string, handle Instance) *blaze4d.Blaze4D {
	mu.Lock()
	defer mu.Unlock()
	b, ok := instances[handle]
	if !ok {
		fault(op, "passed invalid instance handle %d to %s", handle, op)
	}
	return b
}

// Init creates a Blaze4D instance over the host's device and returns its
// handle. A nil device is a fault.
func Init(device vk.Device) Instance {
	defer guard("b4d_init")
	if device == nil {
		fault("b4d_init", "passed nil device to b4d_init")
	}

	b := blaze4d.New(device)

	mu.Lock()
	defer mu.Unlock()
	next++
	instances[next] = b
	return next
}

// Destroy tears down an instance and invalidates its handle.
func Destroy(handle Instance) {
	defer guard("b4d_destroy")

	mu.Lock()
	b, ok := instances[handle]
	if ok {
		delete(instances, handle)
	}
	mu.Unlock()
	if !ok {
		fault("b4d_destroy", "passed invalid instance handle %d to b4d_destroy", handle)
	}

	b.Close()
}

// SetVertexFormats registers the host's vertex layouts on an instance.
func SetVertexFormats(handle Instance, formats []blaze4d.VertexFormat) {
	defer guard("b4d_set_vertex_formats")
	if formats == nil {
		fault("b4d_set_vertex_formats", "passed nil formats to b4d_set_vertex_formats")
	}
	lookup("b4d_set_vertex_formats", handle).SetVertexFormats(formats)
}

// CreateStaticMesh registers a static mesh and returns its id. Malformed
// mesh data and device failures are faults at this boundary; a non-Go
// host has no recovery path for them.
func CreateStaticMesh(handle Instance, data blaze4d.MeshData) blaze4d.StaticMeshID {
	defer guard("b4d_create_static_mesh")

	id, err := lookup("b4d_create_static_mesh", handle).CreateStaticMesh(data)
	if err != nil {
		fault("b4d_create_static_mesh", "creating static mesh: %v", err)
	}
	return id
}

// DestroyStaticMesh drops a static mesh. An unknown mesh id is a fault.
func DestroyStaticMesh(handle Instance, id blaze4d.StaticMeshID) {
	defer guard("b4d_destroy_static_mesh")

	if err := lookup("b4d_destroy_static_mesh", handle).DropStaticMesh(id); err != nil {
		fault("b4d_destroy_static_mesh", "dropping static mesh: %v", err)
	}
}
