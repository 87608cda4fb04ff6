package entity

import (
	"context"
	"fmt"
	"sync"

	"bizdash/internal/model"
)

// memStore is an in-memory customer backend that records every call.
type memStore struct {
	mu      sync.Mutex
	items   []model.Customer
	nextID  int
	calls   []string
	failOn  map[string]error
	created []model.CustomerDraft
	updated map[string]model.CustomerDraft
}

func newMemStore(items ...model.Customer) *memStore {
	return &memStore{items: items, nextID: len(items) + 1, failOn: map[string]error{}, updated: map[string]model.CustomerDraft{}}
}

func (s *memStore) record(call string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
	return s.failOn[call]
}

func (s *memStore) count(call string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (s *memStore) List(ctx context.Context) ([]model.Customer, error) {
	if err := s.record("list"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Customer, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *memStore) Create(ctx context.Context, d model.CustomerDraft) (model.Customer, error) {
	if err := s.record("create"); err != nil {
		return model.Customer{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := model.Customer{ID: fmt.Sprintf("cust%d", s.nextID), Name: d.Name, Email: d.Email, Phone: d.Phone}
	s.nextID++
	s.items = append(s.items, c)
	s.created = append(s.created, d)
	return c, nil
}

func (s *memStore) Update(ctx context.Context, id string, d model.CustomerDraft) (model.Customer, error) {
	if err := s.record("update"); err != nil {
		return model.Customer{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updated[id] = d
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Name, s.items[i].Email, s.items[i].Phone = d.Name, d.Email, d.Phone
			return s.items[i], nil
		}
	}
	return model.Customer{}, fmt.Errorf("customer %s not found", id)
}

func (s *memStore) Delete(ctx context.Context, id string) error {
	if err := s.record("delete:" + id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return nil
}

func customerDraft(c model.Customer) model.CustomerDraft {
	return model.CustomerDraft{Name: c.Name, Email: c.Email, Phone: c.Phone}
}

func newCustomerManager(store Store[model.Customer, model.CustomerDraft]) *Manager[model.Customer, model.CustomerDraft] {
	return NewManager(Config[model.Customer, model.CustomerDraft]{
		Resource:     "customers",
		Singular:     "customer",
		Store:        store,
		SearchFields: customerFields,
		Defaults:     func() model.CustomerDraft { return model.CustomerDraft{} },
		FromRecord:   customerDraft,
		Label:        func(c model.Customer) string { return c.Name },
	})
}
