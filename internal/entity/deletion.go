package entity

import (
	"context"
	"sync"
)

// DeletionState is an immutable view of a Deletion.
type DeletionState[T any] struct {
	Confirming bool
	Candidate  T
	Busy       bool
	Err        error
}

// Deletion is the two-step delete flow: stage a candidate, then confirm or cancel.
type Deletion[T Record] struct {
	Notifier

	del         func(ctx context.Context, id string) error
	afterDelete func(ctx context.Context) error

	mu         sync.Mutex
	confirming bool
	candidate  T
	busy       bool
	err        error
}

// NewDeletion creates an idle flow. afterDelete runs after every successful delete and may be nil.
func NewDeletion[T Record](del func(ctx context.Context, id string) error, afterDelete func(ctx context.Context) error) *Deletion[T] {
	return &Deletion[T]{del: del, afterDelete: afterDelete}
}

// RequestDelete stages rec and shows the prompt.
func (d *Deletion[T]) RequestDelete(rec T) error {
	d.mu.Lock()
	if d.busy {
		d.mu.Unlock()
		return ErrBusy
	}
	d.confirming = true
	d.candidate = rec
	d.err = nil
	d.mu.Unlock()
	d.notify()
	return nil
}

// Confirm deletes the staged record. It calls the delete endpoint exactly once.
// On failure the prompt stays open with the candidate retained.
// On success the prompt closes before the refresh runs, so a failed refresh
// does not reopen it.
func (d *Deletion[T]) Confirm(ctx context.Context) error {
	d.mu.Lock()
	if !d.confirming {
		d.mu.Unlock()
		return ErrNotConfirming
	}
	if d.busy {
		d.mu.Unlock()
		return ErrBusy
	}
	d.busy = true
	d.err = nil
	id := d.candidate.RecordID()
	d.mu.Unlock()
	d.notify()

	if err := d.del(ctx, id); err != nil {
		d.mu.Lock()
		d.busy = false
		d.err = err
		d.mu.Unlock()
		d.notify()
		return err
	}

	d.mu.Lock()
	d.resetLocked()
	d.mu.Unlock()
	d.notify()

	if d.afterDelete != nil {
		_ = d.afterDelete(ctx)
	}
	return nil
}

// Cancel discards the candidate. It never touches the network.
func (d *Deletion[T]) Cancel() {
	d.mu.Lock()
	if d.busy || !d.confirming {
		d.mu.Unlock()
		return
	}
	d.resetLocked()
	d.mu.Unlock()
	d.notify()
}

func (d *Deletion[T]) resetLocked() {
	var zero T
	d.confirming = false
	d.candidate = zero
	d.busy = false
	d.err = nil
}

// IsConfirming reports whether the prompt is visible.
func (d *Deletion[T]) IsConfirming() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.confirming
}

// Snapshot returns the current state.
func (d *Deletion[T]) Snapshot() DeletionState[T] {
	d.mu.Lock()
	defer d.mu.Unlock()
	return DeletionState[T]{
		Confirming: d.confirming,
		Candidate:  d.candidate,
		Busy:       d.busy,
		Err:        d.err,
	}
}

func (d *Deletion[T]) discard() {
	d.mu.Lock()
	d.resetLocked()
	d.mu.Unlock()
	d.notify()
}
