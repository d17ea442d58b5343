// Copyright 2026 The Blaze4D Authors
// SPDX-License-Identifier: MIT

package objects

import (
	"fmt"
	"log/slog"

	"github.com/whywhywhyw/Blaze4D/internal/ident"
	"github.com/whywhywhyw/Blaze4D/internal/splitter"
	"github.com/whywhywhyw/Blaze4D/vk"
)

// managerIDs is the fallback identity service when the host does not
// inject one. Hosts running several managers that must stay mutually
// distinguishable should share one Generator via WithIDGenerator.
var managerIDs ident.Generator

// Option configures an ObjectManager.
type Option func(*managerConfig)

type managerConfig struct {
	logger      *slog.Logger
	ids         *ident.Generator
	budgetBytes uint64
}

// WithLogger sets the logger the manager and its allocator log through.
// By default nothing is logged.
func WithLogger(l *slog.Logger) Option {
	return func(c *managerConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithIDGenerator sets the identity service manager IDs are drawn from.
// All managers that may ever meet in one process should share one
// generator.
func WithIDGenerator(g *ident.Generator) Option {
	return func(c *managerConfig) {
		if g != nil {
			c.ids = g
		}
	}
}

// WithMemoryBudget caps the allocator at the given number of bytes.
// Allocations past the budget fail with ErrMemoryBudgetExceeded. Zero
// means unlimited.
func WithMemoryBudget(bytes uint64) Option {
	return func(c *managerConfig) {
		c.budgetBytes = bytes
	}
}

// ObjectManager is the top-level factory for synchronization groups and
// resource object sets on one device. It owns the device memory allocator
// and performs the create, abort, and destroy sequencing on behalf of
// sets.
//
// The manager holds no mutable state beyond the allocator's bookkeeping;
// its methods are safe for concurrent use. Groups and sets keep a
// reference to their manager, so the manager outlives everything created
// from it.
type ObjectManager struct {
	id        ident.ID
	device    vk.Device
	allocator *Allocator
	logger    *slog.Logger
}

// NewObjectManager creates a manager for the given device. The device is
// provided by the host; the manager never creates or destroys devices.
//
// Panics if device is nil.
func NewObjectManager(device vk.Device, opts ...Option) *ObjectManager {
	if device == nil {
		panic("objects: nil device")
	}

	cfg := managerConfig{
		logger: slog.New(slog.DiscardHandler),
		ids:    &managerIDs,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	m := &ObjectManager{
		id:     cfg.ids.Next(),
		device: device,
		logger: cfg.logger,
	}
	m.allocator = newAllocator(device, cfg.logger, cfg.budgetBytes)

	m.logger.Info("object manager created", slog.Uint64("manager", uint64(m.id)))
	return m
}

// Equal reports whether both handles refer to the same manager identity.
func (m *ObjectManager) Equal(other *ObjectManager) bool {
	if m == nil || other == nil {
		return m == other
	}
	return m.id == other.id
}

// Device returns the device this manager operates on.
func (m *ObjectManager) Device() vk.Device { return m.device }

// Allocator returns the manager's memory allocator, for stats inspection.
func (m *ObjectManager) Allocator() *Allocator { return m.allocator }

// CreateSynchronizationGroup creates a new synchronization group backed
// by a fresh timeline semaphore. The caller owns one reference and must
// Release it when done.
func (m *ObjectManager) CreateSynchronizationGroup() (*SynchronizationGroup, error) {
	semaphore, err := m.device.CreateTimelineSemaphore(0)
	if err != nil {
		return nil, fmt.Errorf("objects: creating group semaphore: %w", err)
	}

	m.logger.Debug("synchronization group created",
		slog.Uint64("manager", uint64(m.id)),
		slog.String("semaphore", semaphore.String()))

	return newSynchronizationGroup(m, semaphore), nil
}

// destroyGroupSemaphore returns a group's semaphore to the device. Called
// by the group when its last reference is released.
func (m *ObjectManager) destroyGroupSemaphore(semaphore vk.Semaphore) {
	m.device.DestroySemaphore(semaphore)
	m.logger.Debug("synchronization group destroyed",
		slog.Uint64("manager", uint64(m.id)),
		slog.String("semaphore", semaphore.String()))
}

// NewResourceObjectSetBuilder creates a builder whose batch will be bound
// to the given synchronization group.
//
// Panics if the group is nil or belongs to a different object manager;
// the check runs before any device call.
func (m *ObjectManager) NewResourceObjectSetBuilder(group *SynchronizationGroup) *ResourceObjectSetBuilder {
	if group == nil {
		panic("objects: nil synchronization group")
	}
	if !group.Manager().Equal(m) {
		panic("objects: synchronization group belongs to a different object manager")
	}
	return &ResourceObjectSetBuilder{manager: m, group: group}
}

// buildResourceObjects drives the create phase over a batch. Objects are
// created in ascending index order; the first failure aborts every slot in
// descending order and surfaces as an *ObjectCreateError. On success the
// batch is reduced into retained object data and allocations.
func (m *ObjectManager) buildResourceObjects(requests []resourceObjectCreateMetadata) ([]ResourceObjectData, []*Allocation, error) {
	for i := range requests {
		current, rest := splitter.Split(requests, i)
		if err := current.create(m.device, m.allocator, rest); err != nil {
			kind := current.kind.String()
			m.abortResourceObjects(requests)
			m.logger.Debug("batch build aborted",
				slog.Uint64("manager", uint64(m.id)),
				slog.Int("slot", i),
				slog.String("kind", kind),
				slog.Any("error", err))
			return nil, nil, &ObjectCreateError{Index: i, Kind: kind, Err: err}
		}
	}

	data := make([]ResourceObjectData, 0, len(requests))
	allocations := make([]*Allocation, 0, len(requests))
	for i := range requests {
		d, allocation := requests[i].reduce()
		data = append(data, d)
		if allocation != nil {
			allocations = append(allocations, allocation)
		}
	}

	m.logger.Debug("batch built",
		slog.Uint64("manager", uint64(m.id)),
		slog.Int("objects", len(data)),
		slog.Int("allocations", len(allocations)))

	return data, allocations, nil
}

// abortResourceObjects unwinds a failed batch in reverse index order.
// Slots the create phase never reached abort as no-ops.
func (m *ObjectManager) abortResourceObjects(requests []resourceObjectCreateMetadata) {
	for i := len(requests) - 1; i >= 0; i-- {
		requests[i].abort(m.device, m.allocator)
	}
}

// destroyResourceObjects tears down a built set: objects in reverse
// creation order, then the retained allocations.
func (m *ObjectManager) destroyResourceObjects(data []ResourceObjectData, allocations []*Allocation) {
	for i := len(data) - 1; i >= 0; i-- {
		data[i].destroy(m.device)
	}
	for _, allocation := range allocations {
		m.allocator.Free(allocation)
	}

	m.logger.Debug("object set destroyed",
		slog.Uint64("manager", uint64(m.id)),
		slog.Int("objects", len(data)),
		slog.Int("allocations", len(allocations)))
}
