// Copyright 2026 The Blaze4D Authors
// SPDX-License-Identifier: MIT

package objects

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/whywhywhyw/Blaze4D/vk"
)

// MemoryUsage expresses where an object's backing memory should live.
// The allocator translates it into required and preferred memory property
// flags for the device.
type MemoryUsage int

const (
	// MemoryUsageAuto lets the device pick, preferring device-local
	// memory. The right choice for almost every object.
	MemoryUsageAuto MemoryUsage = iota

	// MemoryUsageAutoPreferDevice requires device-local memory. Use for
	// objects the host never touches.
	MemoryUsageAutoPreferDevice

	// MemoryUsageAutoPreferHost requires host-visible memory. Use for
	// staging and readback objects.
	MemoryUsageAutoPreferHost
)

// String returns the usage name.
func (u MemoryUsage) String() string {
	switch u {
	case MemoryUsageAuto:
		return "Auto"
	case MemoryUsageAutoPreferDevice:
		return "AutoPreferDevice"
	case MemoryUsageAutoPreferHost:
		return "AutoPreferHost"
	default:
		return fmt.Sprintf("Unknown(%d)", int(u))
	}
}

// memoryPreferences maps the usage to property flags for the device.
func (u MemoryUsage) memoryPreferences() (required, preferred vk.MemoryPropertyFlags) {
	switch u {
	case MemoryUsageAutoPreferDevice:
		return vk.MemoryPropertyDeviceLocal, 0
	case MemoryUsageAutoPreferHost:
		return vk.MemoryPropertyHostVisible, vk.MemoryPropertyHostCoherent
	default:
		return 0, vk.MemoryPropertyDeviceLocal
	}
}

// Allocation is an opaque region of device memory owned by at most one
// object. Allocations are handed out by the Allocator and must be returned
// to the same Allocator exactly once.
type Allocation struct {
	memory vk.DeviceMemory
	size   uint64
	freed  bool // guarded by the owning allocator's mutex
}

// Memory returns the underlying device memory handle.
func (a *Allocation) Memory() vk.DeviceMemory { return a.memory }

// Size returns the allocation size in bytes.
func (a *Allocation) Size() uint64 { return a.size }

// AllocatorStats is a point-in-time snapshot of allocator accounting.
type AllocatorStats struct {
	// BudgetBytes is the configured budget, 0 when unlimited.
	BudgetBytes uint64

	// UsedBytes is the total size of live allocations.
	UsedBytes uint64

	// LiveAllocations is the number of allocations not yet freed.
	LiveAllocations int

	// TotalAllocations is the number of allocations ever made.
	TotalAllocations uint64
}

// String returns a human-readable summary.
func (s AllocatorStats) String() string {
	if s.BudgetBytes == 0 {
		return fmt.Sprintf("Allocator[%d live, %d B used, unlimited]", s.LiveAllocations, s.UsedBytes)
	}
	return fmt.Sprintf("Allocator[%d live, %d/%d B used]", s.LiveAllocations, s.UsedBytes, s.BudgetBytes)
}

// Allocator hands out device memory for objects and frees it on
// destruction. It serializes all pool mutations behind one mutex, so
// callers may allocate and free from any goroutine.
//
// The allocator never retries a failed allocation; the failure propagates
// to the caller, which aborts the batch being built.
type Allocator struct {
	mu     sync.Mutex
	device vk.Device
	logger *slog.Logger

	budgetBytes uint64 // 0 = unlimited
	usedBytes   uint64
	liveCount   int
	totalCount  uint64
}

func newAllocator(device vk.Device, logger *slog.Logger, budgetBytes uint64) *Allocator {
	return &Allocator{
		device:      device,
		logger:      logger,
		budgetBytes: budgetBytes,
	}
}

// Allocate allocates device memory satisfying the given requirements.
// Returns ErrMemoryBudgetExceeded (wrapped) when a budget is configured
// and the request does not fit, or the device's error when the device is
// out of memory.
func (a *Allocator) Allocate(req vk.MemoryRequirements, usage MemoryUsage) (*Allocation, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.budgetBytes != 0 && a.usedBytes+req.Size > a.budgetBytes {
		return nil, fmt.Errorf("%w: need %d bytes, %d of %d in use",
			ErrMemoryBudgetExceeded, req.Size, a.usedBytes, a.budgetBytes)
	}

	required, preferred := usage.memoryPreferences()
	memory, err := a.device.AllocateMemory(&vk.MemoryAllocateInfo{
		Size:           req.Size,
		Alignment:      req.Alignment,
		MemoryTypeBits: req.MemoryTypeBits,
		Required:       required,
		Preferred:      preferred,
	})
	if err != nil {
		return nil, fmt.Errorf("objects: device memory allocation failed: %w", err)
	}

	a.usedBytes += req.Size
	a.liveCount++
	a.totalCount++

	a.logger.Debug("allocated device memory",
		slog.Uint64("size", req.Size),
		slog.String("usage", usage.String()),
		slog.String("memory", memory.String()))

	return &Allocation{memory: memory, size: req.Size}, nil
}

// Free returns an allocation to the device. Free(nil) is a no-op.
//
// Freeing the same allocation twice is a programming error and panics.
func (a *Allocator) Free(alloc *Allocation) {
	if alloc == nil {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if alloc.freed {
		panic(fmt.Sprintf("objects: allocation %s freed twice", alloc.memory))
	}
	alloc.freed = true

	a.device.FreeMemory(alloc.memory)
	a.usedBytes -= alloc.size
	a.liveCount--

	a.logger.Debug("freed device memory",
		slog.Uint64("size", alloc.size),
		slog.String("memory", alloc.memory.String()))
}

// Stats returns a snapshot of the allocator's accounting.
func (a *Allocator) Stats() AllocatorStats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return AllocatorStats{
		BudgetBytes:      a.budgetBytes,
		UsedBytes:        a.usedBytes,
		LiveAllocations:  a.liveCount,
		TotalAllocations: a.totalCount,
	}
}
