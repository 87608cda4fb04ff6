package entity

import (
	"context"
	"fmt"
	"sync"
)

// Store is the backend of one collection.
type Store[T Record, D any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, draft D) (T, error)
	Update(ctx context.Context, id string, draft D) (T, error)
	Delete(ctx context.Context, id string) error
}

// Config describes one managed collection.
type Config[T Record, D any] struct {
	// Resource is the plural name, e.g. "customers".
	Resource string
	// Singular is used in prompts, e.g. "customer".
	Singular     string
	Store        Store[T, D]
	SearchFields func(T) []string
	Defaults     func() D
	FromRecord   func(T) D
	Validate     func(D) error
	// Label names a record in the delete prompt.
	Label func(T) string
}

// Manager ties a list, a form and a delete flow to one collection and
// re-fetches the list after every successful mutation.
// The form and the delete prompt are never open at the same time.
type Manager[T Record, D any] struct {
	List     *List[T]
	Form     *Form[T, D]
	Deletion *Deletion[T]
	// Importer is nil unless the store can import CSV files.
	Importer *Importer

	cfg Config[T, D]

	mu        sync.Mutex
	unmounted bool
}

func NewManager[T Record, D any](cfg Config[T, D]) *Manager[T, D] {
	m := &Manager[T, D]{cfg: cfg}
	m.List = NewList[T](cfg.Resource, cfg.Store.List, cfg.SearchFields)
	m.Form = NewForm(FormConfig[T, D]{
		Defaults:   cfg.Defaults,
		FromRecord: cfg.FromRecord,
		Validate:   cfg.Validate,
		Create: func(ctx context.Context, d D) error {
			_, err := cfg.Store.Create(ctx, d)
			return err
		},
		Update: func(ctx context.Context, id string, d D) error {
			_, err := cfg.Store.Update(ctx, id, d)
			return err
		},
		AfterSave: m.refreshAfterMutation,
	})
	m.Deletion = NewDeletion[T](cfg.Store.Delete, m.refreshAfterMutation)
	if up, ok := cfg.Store.(Uploader); ok {
		m.Importer = NewImporter(up, m.refreshAfterMutation)
	}
	return m
}

// Resource returns the plural collection name.
func (m *Manager[T, D]) Resource() string { return m.cfg.Resource }

// Singular returns the singular collection name.
func (m *Manager[T, D]) Singular() string { return m.cfg.Singular }

// Mount performs the initial fetch.
func (m *Manager[T, D]) Mount(ctx context.Context) error {
	m.mu.Lock()
	m.unmounted = false
	m.mu.Unlock()
	return m.List.Load(ctx)
}

// Unmount discards every piece of transient state and abandons in-flight fetches.
// Writes still in flight complete on the server but no longer refresh the list.
func (m *Manager[T, D]) Unmount() {
	m.mu.Lock()
	m.unmounted = true
	m.mu.Unlock()
	m.List.Close()
	m.Form.discard()
	m.Deletion.discard()
}

// Refresh replaces the collection with a fresh fetch.
func (m *Manager[T, D]) Refresh(ctx context.Context) error {
	return m.List.Load(ctx)
}

// refreshAfterMutation refreshes unless the view was torn down while the write was in flight.
func (m *Manager[T, D]) refreshAfterMutation(ctx context.Context) error {
	m.mu.Lock()
	unmounted := m.unmounted
	m.mu.Unlock()
	if unmounted || ctx.Err() != nil {
		return nil
	}
	return m.List.Load(ctx)
}

// OpenCreate dismisses the delete prompt and opens an empty form.
func (m *Manager[T, D]) OpenCreate() error {
	if m.Deletion.Snapshot().Busy {
		return ErrBusy
	}
	m.Deletion.Cancel()
	return m.Form.OpenCreate()
}

// OpenEdit dismisses the delete prompt and opens the form for rec.
func (m *Manager[T, D]) OpenEdit(rec T) error {
	if m.Deletion.Snapshot().Busy {
		return ErrBusy
	}
	m.Deletion.Cancel()
	return m.Form.OpenEdit(rec)
}

// RequestDelete closes the form and stages rec for deletion.
func (m *Manager[T, D]) RequestDelete(rec T) error {
	if m.Form.Snapshot().Submitting {
		return ErrBusy
	}
	m.Form.Cancel()
	return m.Deletion.RequestDelete(rec)
}

// Prompt is the confirmation text for the staged record.
func (m *Manager[T, D]) Prompt() string {
	st := m.Deletion.Snapshot()
	if !st.Confirming {
		return ""
	}
	return fmt.Sprintf("Delete %s %s? This cannot be undone.", m.cfg.Singular, m.Label(st.Candidate))
}

// Label names rec for display, falling back to its id.
func (m *Manager[T, D]) Label(rec T) string {
	if m.cfg.Label != nil {
		if name := m.cfg.Label(rec); name != "" {
			return name
		}
	}
	return rec.RecordID()
}

// Subscribe registers fn with every component and returns a func that removes it.
func (m *Manager[T, D]) Subscribe(fn func()) func() {
	unsubs := []func(){
		m.List.Subscribe(fn),
		m.Form.Subscribe(fn),
		m.Deletion.Subscribe(fn),
	}
	if m.Importer != nil {
		unsubs = append(unsubs, m.Importer.Subscribe(fn))
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}
