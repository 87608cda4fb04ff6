package entity

import (
	"context"
	"strings"
	"sync"
)

// Record is a domain entity identified by an opaque id.
type Record interface {
	RecordID() string
}

// Status is the load state of a List.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	default:
		return "idle"
	}
}

// Fetcher loads a whole collection.
type Fetcher[T any] func(ctx context.Context) ([]T, error)

// ListState is an immutable view of a List.
type ListState[T any] struct {
	Status Status
	// Items is the payload of the most recent successful fetch.
	Items []T
	// Visible is Items filtered by Term.
	Visible []T
	Term    string
	// Err is a *LoadError when the last fetch failed.
	Err    error
	Loaded bool
}

// List holds a fetched collection and a search term.
//
// Only the newest Load may update state: every Load bumps a generation counter
// and cancels the previous in-flight fetch, so late responses are dropped.
type List[T any] struct {
	Notifier

	resource string
	fetch    Fetcher[T]
	fields   func(T) []string

	mu     sync.Mutex
	items  []T
	term   string
	status Status
	err    error
	loaded bool
	gen    uint64
	cancel context.CancelFunc
}

// NewList creates an empty list. fields returns the searchable values of an item.
func NewList[T any](resource string, fetch Fetcher[T], fields func(T) []string) *List[T] {
	return &List[T]{
		resource: resource,
		fetch:    fetch,
		fields:   fields,
		items:    []T{},
	}
}

// Resource is the plural name used in error messages, e.g. "customers".
func (l *List[T]) Resource() string { return l.resource }

// Load fetches the collection and replaces the current items wholesale.
// On failure the previous items are kept and the error is recorded as a
// *LoadError. A load superseded by a newer Load or by Close returns nil
// without touching state.
func (l *List[T]) Load(ctx context.Context) error {
	l.mu.Lock()
	l.gen++
	gen := l.gen
	if l.cancel != nil {
		l.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.status = StatusLoading
	l.mu.Unlock()
	l.notify()

	items, err := l.fetch(ctx)
	cancel()

	l.mu.Lock()
	if gen != l.gen {
		l.mu.Unlock()
		return nil
	}
	l.cancel = nil
	l.status = StatusReady
	if err != nil {
		l.err = &LoadError{Resource: l.resource, Err: err}
		err = l.err
	} else {
		if items == nil {
			items = []T{}
		}
		l.items = items
		l.err = nil
		l.loaded = true
	}
	l.mu.Unlock()
	l.notify()
	return err
}

// Retry re-issues the fetch.
func (l *List[T]) Retry(ctx context.Context) error {
	return l.Load(ctx)
}

// SetTerm updates the search term. It never touches the network.
func (l *List[T]) SetTerm(term string) {
	l.mu.Lock()
	if l.term == term {
		l.mu.Unlock()
		return
	}
	l.term = term
	l.mu.Unlock()
	l.notify()
}

// Term returns the current search term.
func (l *List[T]) Term() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.term
}

// Visible returns the items matching the current search term.
func (l *List[T]) Visible() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Filter(l.items, l.term, l.fields)
}

// Snapshot returns the current state.
func (l *List[T]) Snapshot() ListState[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	items := make([]T, len(l.items))
	copy(items, l.items)
	return ListState[T]{
		Status:  l.status,
		Items:   items,
		Visible: Filter(l.items, l.term, l.fields),
		Term:    l.term,
		Err:     l.err,
		Loaded:  l.loaded,
	}
}

// Close discards the collection and abandons any in-flight fetch.
func (l *List[T]) Close() {
	l.mu.Lock()
	l.gen++
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.items = []T{}
	l.term = ""
	l.err = nil
	l.status = StatusIdle
	l.loaded = false
	l.mu.Unlock()
	l.notify()
}

// Filter returns the items whose searchable fields contain term, ignoring case.
// An empty term returns every item in order. The input is never modified.
func Filter[T any](items []T, term string, fields func(T) []string) []T {
	out := make([]T, 0, len(items))
	if term == "" || fields == nil {
		return append(out, items...)
	}
	needle := strings.ToLower(term)
	for _, item := range items {
		for _, f := range fields(item) {
			if strings.Contains(strings.ToLower(f), needle) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}
