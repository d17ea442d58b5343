// Copyright 2026 The Blaze4D Authors
// SPDX-License-Identifier: MIT

// Package vktest provides an instrumented in-memory vk.Device for tests.
//
// The fake device tracks every handle it hands out through a live →
// destroyed state machine and panics on lifetime violations: destroying a
// handle twice, creating a view over a destroyed or unbound buffer, or
// freeing memory that is still bound to a live object. Tests drive failure
// paths with InjectFailure and assert ordering against the call Journal.
package vktest

import (
	"errors"
	"fmt"
	"sync"

	"github.com/whywhywhyw/Blaze4D/vk"
)

// Errors returned by the fake device for rejected descriptions.
var (
	// ErrInvalidDescriptor is returned when a creation description is
	// malformed (zero size, nil descriptor, out-of-range view).
	ErrInvalidDescriptor = errors.New("vktest: invalid descriptor")

	// ErrOutOfDeviceMemory is the default error used by injected
	// allocation failures.
	ErrOutOfDeviceMemory = errors.New("vktest: out of device memory")
)

// Op identifies a device entry point in the call journal.
type Op string

// Journal operation names.
const (
	OpCreateBuffer            Op = "CreateBuffer"
	OpDestroyBuffer           Op = "DestroyBuffer"
	OpCreateBufferView        Op = "CreateBufferView"
	OpDestroyBufferView       Op = "DestroyBufferView"
	OpCreateImage             Op = "CreateImage"
	OpDestroyImage            Op = "DestroyImage"
	OpCreateImageView         Op = "CreateImageView"
	OpDestroyImageView        Op = "DestroyImageView"
	OpAllocateMemory          Op = "AllocateMemory"
	OpFreeMemory              Op = "FreeMemory"
	OpBindBufferMemory        Op = "BindBufferMemory"
	OpBindImageMemory         Op = "BindImageMemory"
	OpCreateTimelineSemaphore Op = "CreateTimelineSemaphore"
	OpDestroySemaphore        Op = "DestroySemaphore"
)

// Call is one journal entry: the entry point and the primary handle it
// created or operated on (zero when the call failed before producing one).
type Call struct {
	Op     Op
	Handle uint64
}

type objectState struct {
	op        Op // creating entry point, used in violation messages
	destroyed bool
	bound     uint64 // backing memory handle, 0 when unbound
}

type memoryState struct {
	size  uint64
	freed bool
	binds int // live objects bound to this memory
}

// Device is an in-memory vk.Device. The zero value is not usable; create
// instances with NewDevice.
//
// Device is safe for concurrent use.
type Device struct {
	mu sync.Mutex

	next    uint64
	journal []Call

	objects    map[uint64]*objectState
	memory     map[uint64]*memoryState
	semaphores map[uint64]bool // value: destroyed

	counts   map[Op]int
	failures map[Op]map[int]error

	// alignment reported in every MemoryRequirements.
	alignment uint64
}

// NewDevice creates an empty fake device.
func NewDevice() *Device {
	return &Device{
		objects:    make(map[uint64]*objectState),
		memory:     make(map[uint64]*memoryState),
		semaphores: make(map[uint64]bool),
		counts:     make(map[Op]int),
		failures:   make(map[Op]map[int]error),
		alignment:  256,
	}
}

// InjectFailure makes the nth (1-based) future call of op return err.
// A nil err injects ErrOutOfDeviceMemory for AllocateMemory and
// ErrInvalidDescriptor for every other op.
func (d *Device) InjectFailure(op Op, n int, err error) {
	if err == nil {
		err = ErrInvalidDescriptor
		if op == OpAllocateMemory {
			err = ErrOutOfDeviceMemory
		}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	m := d.failures[op]
	if m == nil {
		m = make(map[int]error)
		d.failures[op] = m
	}
	m[d.counts[op]+n] = err
}

// Journal returns a copy of the ordered call log.
func (d *Device) Journal() []Call {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Call, len(d.journal))
	copy(out, d.journal)
	return out
}

// CallCount returns how many times op has been invoked, counting failed
// calls.
func (d *Device) CallCount(op Op) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.counts[op]
}

// LiveObjects returns the number of created, not yet destroyed objects
// (buffers, views, images). Semaphores and memory are counted separately.
func (d *Device) LiveObjects() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, o := range d.objects {
		if !o.destroyed {
			n++
		}
	}
	return n
}

// LiveAllocations returns the number of allocated, not yet freed memory
// regions.
func (d *Device) LiveAllocations() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, m := range d.memory {
		if !m.freed {
			n++
		}
	}
	return n
}

// LiveSemaphores returns the number of created, not yet destroyed
// semaphores.
func (d *Device) LiveSemaphores() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, destroyed := range d.semaphores {
		if !destroyed {
			n++
		}
	}
	return n
}

// SemaphoreDestroyed reports whether the semaphore existed and has been
// destroyed.
func (d *Device) SemaphoreDestroyed(s vk.Semaphore) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	destroyed, ok := d.semaphores[uint64(s)]
	return ok && destroyed
}

// record bumps the op counter, appends a journal entry, and returns an
// injected failure for this invocation, if any. Caller must hold mu.
func (d *Device) record(op Op, handle uint64) error {
	d.counts[op]++
	d.journal = append(d.journal, Call{Op: op, Handle: handle})
	if m := d.failures[op]; m != nil {
		if err, ok := m[d.counts[op]]; ok {
			delete(m, d.counts[op])
			return err
		}
	}
	return nil
}

func (d *Device) newHandle() uint64 {
	d.next++
	return d.next
}

// liveObject returns the state for a handle, panicking on use of a null,
// unknown, or destroyed handle. Caller must hold mu.
func (d *Device) liveObject(op Op, handle uint64) *objectState {
	if handle == 0 {
		panic(fmt.Sprintf("vktest: %s called with null handle", op))
	}
	o, ok := d.objects[handle]
	if !ok {
		panic(fmt.Sprintf("vktest: %s called with unknown handle 0x%x", op, handle))
	}
	if o.destroyed {
		panic(fmt.Sprintf("vktest: %s called with destroyed handle 0x%x (created by %s)", op, handle, o.op))
	}
	return o
}

func (d *Device) destroyObject(op Op, handle uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	o := d.liveObject(op, handle)
	o.destroyed = true
	if o.bound != 0 {
		if m := d.memory[o.bound]; m != nil {
			m.binds--
		}
		o.bound = 0
	}
	_ = d.record(op, handle)
}

// CreateBuffer implements vk.Device.
func (d *Device) CreateBuffer(desc *vk.BufferDescriptor) (vk.Buffer, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record(OpCreateBuffer, 0); err != nil {
		return vk.NullBuffer, err
	}
	if desc == nil || desc.Size == 0 {
		return vk.NullBuffer, fmt.Errorf("%w: buffer size must be non-zero", ErrInvalidDescriptor)
	}
	h := d.newHandle()
	d.objects[h] = &objectState{op: OpCreateBuffer}
	d.journal[len(d.journal)-1].Handle = h
	return vk.Buffer(h), nil
}

// DestroyBuffer implements vk.Device.
func (d *Device) DestroyBuffer(buffer vk.Buffer) {
	d.destroyObject(OpDestroyBuffer, uint64(buffer))
}

// CreateBufferView implements vk.Device.
func (d *Device) CreateBufferView(buffer vk.Buffer, desc *vk.BufferViewDescriptor) (vk.BufferView, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record(OpCreateBufferView, 0); err != nil {
		return vk.NullBufferView, err
	}
	o := d.liveObject(OpCreateBufferView, uint64(buffer))
	if o.op != OpCreateBuffer {
		panic(fmt.Sprintf("vktest: CreateBufferView over non-buffer handle 0x%x", uint64(buffer)))
	}
	if o.bound == 0 {
		return vk.NullBufferView, fmt.Errorf("%w: buffer has no bound memory", ErrInvalidDescriptor)
	}
	if desc == nil || desc.Range == 0 {
		return vk.NullBufferView, fmt.Errorf("%w: view range must be non-zero", ErrInvalidDescriptor)
	}
	h := d.newHandle()
	d.objects[h] = &objectState{op: OpCreateBufferView}
	d.journal[len(d.journal)-1].Handle = h
	return vk.BufferView(h), nil
}

// DestroyBufferView implements vk.Device.
func (d *Device) DestroyBufferView(view vk.BufferView) {
	d.destroyObject(OpDestroyBufferView, uint64(view))
}

// CreateImage implements vk.Device.
func (d *Device) CreateImage(desc *vk.ImageDescriptor) (vk.Image, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record(OpCreateImage, 0); err != nil {
		return vk.NullImage, err
	}
	if desc == nil || desc.Size.Width == 0 || desc.Size.Height == 0 {
		return vk.NullImage, fmt.Errorf("%w: image extent must be non-zero", ErrInvalidDescriptor)
	}
	h := d.newHandle()
	d.objects[h] = &objectState{op: OpCreateImage}
	d.journal[len(d.journal)-1].Handle = h
	return vk.Image(h), nil
}

// DestroyImage implements vk.Device.
func (d *Device) DestroyImage(image vk.Image) {
	d.destroyObject(OpDestroyImage, uint64(image))
}

// CreateImageView implements vk.Device.
func (d *Device) CreateImageView(image vk.Image, desc *vk.ImageViewDescriptor) (vk.ImageView, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record(OpCreateImageView, 0); err != nil {
		return vk.NullImageView, err
	}
	o := d.liveObject(OpCreateImageView, uint64(image))
	if o.op != OpCreateImage {
		panic(fmt.Sprintf("vktest: CreateImageView over non-image handle 0x%x", uint64(image)))
	}
	if o.bound == 0 {
		return vk.NullImageView, fmt.Errorf("%w: image has no bound memory", ErrInvalidDescriptor)
	}
	if desc == nil {
		return vk.NullImageView, fmt.Errorf("%w: nil image view descriptor", ErrInvalidDescriptor)
	}
	h := d.newHandle()
	d.objects[h] = &objectState{op: OpCreateImageView}
	d.journal[len(d.journal)-1].Handle = h
	return vk.ImageView(h), nil
}

// DestroyImageView implements vk.Device.
func (d *Device) DestroyImageView(view vk.ImageView) {
	d.destroyObject(OpDestroyImageView, uint64(view))
}

// BufferMemoryRequirements implements vk.Device.
func (d *Device) BufferMemoryRequirements(buffer vk.Buffer) vk.MemoryRequirements {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.liveObject(Op("BufferMemoryRequirements"), uint64(buffer))
	return vk.MemoryRequirements{Size: d.alignUp(bufferSizeGuess), Alignment: d.alignment}
}

// ImageMemoryRequirements implements vk.Device.
func (d *Device) ImageMemoryRequirements(image vk.Image) vk.MemoryRequirements {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.liveObject(Op("ImageMemoryRequirements"), uint64(image))
	return vk.MemoryRequirements{Size: d.alignUp(imageSizeGuess), Alignment: d.alignment}
}

// The fake device does not retain descriptors, so requirements report a
// fixed plausible size. Lifetime tests care about ordering and leak
// accounting, not byte counts.
const (
	bufferSizeGuess = 4096
	imageSizeGuess  = 64 * 1024
)

func (d *Device) alignUp(n uint64) uint64 {
	a := d.alignment
	return (n + a - 1) &^ (a - 1)
}

// AllocateMemory implements vk.Device.
func (d *Device) AllocateMemory(info *vk.MemoryAllocateInfo) (vk.DeviceMemory, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record(OpAllocateMemory, 0); err != nil {
		return vk.NullDeviceMemory, err
	}
	if info == nil || info.Size == 0 {
		return vk.NullDeviceMemory, fmt.Errorf("%w: allocation size must be non-zero", ErrInvalidDescriptor)
	}
	h := d.newHandle()
	d.memory[h] = &memoryState{size: info.Size}
	d.journal[len(d.journal)-1].Handle = h
	return vk.DeviceMemory(h), nil
}

// FreeMemory implements vk.Device.
func (d *Device) FreeMemory(memory vk.DeviceMemory) {
	d.mu.Lock()
	defer d.mu.Unlock()
	h := uint64(memory)
	if h == 0 {
		panic("vktest: FreeMemory called with null handle")
	}
	m, ok := d.memory[h]
	if !ok {
		panic(fmt.Sprintf("vktest: FreeMemory called with unknown handle 0x%x", h))
	}
	if m.freed {
		panic(fmt.Sprintf("vktest: double free of memory 0x%x", h))
	}
	if m.binds != 0 {
		panic(fmt.Sprintf("vktest: FreeMemory 0x%x while %d objects are still bound", h, m.binds))
	}
	m.freed = true
	_ = d.record(OpFreeMemory, h)
}

func (d *Device) bind(op Op, wantKind Op, handle uint64, memory vk.DeviceMemory) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record(op, handle); err != nil {
		return err
	}
	o := d.liveObject(op, handle)
	if o.op != wantKind {
		panic(fmt.Sprintf("vktest: %s over handle 0x%x created by %s", op, handle, o.op))
	}
	if o.bound != 0 {
		panic(fmt.Sprintf("vktest: %s rebinding handle 0x%x", op, handle))
	}
	m, ok := d.memory[uint64(memory)]
	if !ok || m.freed {
		panic(fmt.Sprintf("vktest: %s with invalid memory 0x%x", op, uint64(memory)))
	}
	o.bound = uint64(memory)
	m.binds++
	return nil
}

// BindBufferMemory implements vk.Device.
func (d *Device) BindBufferMemory(buffer vk.Buffer, memory vk.DeviceMemory, offset uint64) error {
	return d.bind(OpBindBufferMemory, OpCreateBuffer, uint64(buffer), memory)
}

// BindImageMemory implements vk.Device.
func (d *Device) BindImageMemory(image vk.Image, memory vk.DeviceMemory, offset uint64) error {
	return d.bind(OpBindImageMemory, OpCreateImage, uint64(image), memory)
}

// CreateTimelineSemaphore implements vk.Device.
func (d *Device) CreateTimelineSemaphore(initialValue uint64) (vk.Semaphore, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record(OpCreateTimelineSemaphore, 0); err != nil {
		return vk.NullSemaphore, err
	}
	h := d.newHandle()
	d.semaphores[h] = false
	d.journal[len(d.journal)-1].Handle = h
	return vk.Semaphore(h), nil
}

// DestroySemaphore implements vk.Device.
func (d *Device) DestroySemaphore(semaphore vk.Semaphore) {
	d.mu.Lock()
	defer d.mu.Unlock()
	h := uint64(semaphore)
	if h == 0 {
		panic("vktest: DestroySemaphore called with null handle")
	}
	destroyed, ok := d.semaphores[h]
	if !ok {
		panic(fmt.Sprintf("vktest: DestroySemaphore called with unknown handle 0x%x", h))
	}
	if destroyed {
		panic(fmt.Sprintf("vktest: double destroy of semaphore 0x%x", h))
	}
	d.semaphores[h] = true
	_ = d.record(OpDestroySemaphore, h)
}

var _ vk.Device = (*Device)(nil)
