// Copyright 2026 The Blaze4D Authors
// SPDX-License-Identifier: MIT

package objects

import (
	"errors"
	"fmt"
)

var (
	// ErrMemoryBudgetExceeded is returned when an allocation would push
	// the allocator past its configured budget.
	ErrMemoryBudgetExceeded = errors.New("objects: memory budget exceeded")
)

// ObjectCreateError reports the failure of one object during a batch
// build. The whole batch has already been aborted when the caller sees
// this error; no partial results survive.
type ObjectCreateError struct {
	// Index is the ordinal position of the failing object in the batch.
	Index int

	// Kind names the failing object type ("buffer", "image view", ...).
	Kind string

	// Err is the underlying allocation or device error.
	Err error
}

// Error implements error.
func (e *ObjectCreateError) Error() string {
	return fmt.Sprintf("objects: creating %s at slot %d: %v", e.Kind, e.Index, e.Err)
}

// Unwrap returns the underlying error.
func (e *ObjectCreateError) Unwrap() error { return e.Err }
