package entity

import (
	"context"
	"sync"
)

// FormConfig wires a Form to its defaults and its create/update calls.
type FormConfig[T Record, D any] struct {
	// Defaults returns a fresh draft for create mode.
	Defaults func() D
	// FromRecord copies a record's editable fields into a draft.
	FromRecord func(T) D
	// Validate checks a draft before any request. Defaults to ValidateStruct.
	Validate func(D) error
	Create   func(ctx context.Context, draft D) error
	Update   func(ctx context.Context, id string, draft D) error
	// AfterSave runs after a successful write, before the form closes.
	AfterSave func(ctx context.Context) error
}

// FormState is an immutable view of a Form.
type FormState[D any] struct {
	Open       bool
	Mode       Mode
	Draft      D
	Err        error
	Submitting bool
}

// Form holds the draft of a record being created or edited.
type Form[T Record, D any] struct {
	Notifier

	cfg FormConfig[T, D]

	mu         sync.Mutex
	open       bool
	mode       Mode
	draft      D
	err        error
	submitting bool
}

func NewForm[T Record, D any](cfg FormConfig[T, D]) *Form[T, D] {
	if cfg.Validate == nil {
		cfg.Validate = func(d D) error { return ValidateStruct(d) }
	}
	f := &Form[T, D]{cfg: cfg, mode: Create{}}
	f.draft = f.defaults()
	return f
}

func (f *Form[T, D]) defaults() D {
	if f.cfg.Defaults == nil {
		var zero D
		return zero
	}
	return f.cfg.Defaults()
}

// OpenCreate opens the form with a default draft.
func (f *Form[T, D]) OpenCreate() error {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return ErrBusy
	}
	f.open = true
	f.mode = Create{}
	f.draft = f.defaults()
	f.err = nil
	f.mu.Unlock()
	f.notify()
	return nil
}

// OpenEdit opens the form with every editable field copied from rec.
func (f *Form[T, D]) OpenEdit(rec T) error {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return ErrBusy
	}
	f.open = true
	f.mode = Edit{ID: rec.RecordID()}
	f.draft = f.cfg.FromRecord(rec)
	f.err = nil
	f.mu.Unlock()
	f.notify()
	return nil
}

// SetDraft replaces the draft. A no-op when the form is closed.
func (f *Form[T, D]) SetDraft(d D) {
	f.Edit(func(draft *D) { *draft = d })
}

// Edit mutates the draft in place.
func (f *Form[T, D]) Edit(fn func(*D)) {
	f.mu.Lock()
	if !f.open || f.submitting {
		f.mu.Unlock()
		return
	}
	fn(&f.draft)
	f.mu.Unlock()
	f.notify()
}

// Fail records an error that happened before Submit, such as a field that could not be parsed.
func (f *Form[T, D]) Fail(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
	f.notify()
}

// Submit validates the draft and issues a single create or update call.
//
// On success the refresh hook runs, then the form closes and the draft resets.
// On failure the form stays open with the draft untouched and the error recorded.
func (f *Form[T, D]) Submit(ctx context.Context) error {
	f.mu.Lock()
	if !f.open {
		f.mu.Unlock()
		return ErrFormClosed
	}
	if f.submitting {
		f.mu.Unlock()
		return ErrBusy
	}
	draft, mode := f.draft, f.mode
	if err := f.cfg.Validate(draft); err != nil {
		f.err = err
		f.mu.Unlock()
		f.notify()
		return err
	}
	f.submitting = true
	f.err = nil
	f.mu.Unlock()
	f.notify()

	var err error
	if id, ok := EditID(mode); ok {
		err = f.cfg.Update(ctx, id, draft)
	} else {
		err = f.cfg.Create(ctx, draft)
	}
	if err != nil {
		f.mu.Lock()
		f.submitting = false
		f.err = err
		f.mu.Unlock()
		f.notify()
		return err
	}

	if f.cfg.AfterSave != nil {
		// A failed refresh is reported by the list; the write itself succeeded.
		_ = f.cfg.AfterSave(ctx)
	}

	f.mu.Lock()
	f.submitting = false
	f.resetLocked()
	f.mu.Unlock()
	f.notify()
	return nil
}

// Cancel closes the form and discards the draft.
func (f *Form[T, D]) Cancel() {
	f.mu.Lock()
	if f.submitting || !f.open {
		f.mu.Unlock()
		return
	}
	f.resetLocked()
	f.mu.Unlock()
	f.notify()
}

func (f *Form[T, D]) resetLocked() {
	f.open = false
	f.mode = Create{}
	f.draft = f.defaults()
	f.err = nil
}

// IsOpen reports whether the form is visible.
func (f *Form[T, D]) IsOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.open
}

// Snapshot returns the current state.
func (f *Form[T, D]) Snapshot() FormState[D] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return FormState[D]{
		Open:       f.open,
		Mode:       f.mode,
		Draft:      f.draft,
		Err:        f.err,
		Submitting: f.submitting,
	}
}

func (f *Form[T, D]) discard() {
	f.mu.Lock()
	f.submitting = false
	f.resetLocked()
	f.mu.Unlock()
	f.notify()
}
