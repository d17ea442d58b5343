// Copyright 2026 The Blaze4D Authors
// SPDX-License-Identifier: MIT

// Package objects manages creation, access to, and destruction of device
// objects.
//
// Access to objects is controlled through synchronization groups. All
// objects belonging to one group are accessed as a unit protected by a
// single timeline semaphore.
//
// Allocation and destruction are managed through resource object sets. A
// set is a batch of objects with identical lifetime: all objects are
// created when the set is built and destroyed only when the whole set is
// released. Every object of a set belongs to the same synchronization
// group, and the set keeps its group alive, so when a group serves a
// single set it suffices to hold the set.
//
// Batches are built through a two-phase protocol. ResourceObjectSetBuilder
// accumulates descriptions, where later objects may reference earlier ones
// in the same batch (a view over a buffer). Build realizes them in
// ascending order, aborts the whole batch in reverse order on the first
// failure, and otherwise reduces the transient state into an immutable
// ResourceObjectSet. Partial successes are never exposed.
//
// Multiple sets can be accessed in a sequentially consistent manner with a
// SynchronizationGroupSet, which acquires any number of groups in a global
// total order to prevent deadlock.
package objects
