package entity

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizdash/internal/model"
)

func TestFormCreateRefreshesOnceAndResets(t *testing.T) {
	store := newMemStore(sampleCustomers()...)
	m := newCustomerManager(store)
	ctx := context.Background()
	require.NoError(t, m.Mount(ctx))

	require.NoError(t, m.OpenCreate())
	m.Form.SetDraft(model.CustomerDraft{Name: "New", Email: "new@example.com"})
	require.NoError(t, m.Form.Submit(ctx))

	assert.Equal(t, 1, store.count("create"))
	assert.Equal(t, 2, store.count("list"), "mount plus exactly one refresh")

	st := m.Form.Snapshot()
	assert.False(t, st.Open)
	assert.Equal(t, model.CustomerDraft{}, st.Draft)
	assert.Equal(t, Create{}, st.Mode)
	assert.Len(t, m.List.Snapshot().Items, 4)
}

func TestFormEditCopiesEveryField(t *testing.T) {
	store := newMemStore(sampleCustomers()...)
	m := newCustomerManager(store)

	first := model.Customer{ID: "cust1", Name: "John Smith", Email: "john.smith@example.com", Phone: "0123"}
	second := model.Customer{ID: "cust2", Name: "Jane Doe", Email: "jane.doe@example.com"}

	require.NoError(t, m.OpenEdit(first))
	m.Form.Edit(func(d *model.CustomerDraft) { d.Name = "scribbled" })
	m.Form.Cancel()

	require.NoError(t, m.OpenEdit(second))
	st := m.Form.Snapshot()
	assert.True(t, st.Open)
	assert.Equal(t, Edit{ID: "cust2"}, st.Mode)
	assert.Equal(t, model.CustomerDraft{Name: "Jane Doe", Email: "jane.doe@example.com"}, st.Draft)
}

func TestFormEditSubmitsUpdate(t *testing.T) {
	store := newMemStore(sampleCustomers()...)
	m := newCustomerManager(store)
	ctx := context.Background()
	require.NoError(t, m.Mount(ctx))

	require.NoError(t, m.OpenEdit(sampleCustomers()[1]))
	m.Form.Edit(func(d *model.CustomerDraft) { d.Phone = "07700 900000" })
	require.NoError(t, m.Form.Submit(ctx))

	assert.Equal(t, 0, store.count("create"))
	assert.Equal(t, 1, store.count("update"))
	assert.Equal(t, "07700 900000", store.updated["cust2"].Phone)
	assert.Equal(t, "07700 900000", m.List.Snapshot().Items[1].Phone)
}

func TestFormValidationBlocksRequest(t *testing.T) {
	store := newMemStore()
	m := newCustomerManager(store)

	require.NoError(t, m.OpenCreate())
	m.Form.SetDraft(model.CustomerDraft{Email: "x@example.com"})
	err := m.Form.Submit(context.Background())

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "Name", vErr.Field)
	assert.Equal(t, "Name is required", vErr.Message)
	assert.Equal(t, 0, store.count("create"))

	st := m.Form.Snapshot()
	assert.True(t, st.Open)
	assert.Equal(t, err, st.Err)
	assert.Equal(t, "x@example.com", st.Draft.Email)
}

func TestFormServerFailureKeepsDraft(t *testing.T) {
	store := newMemStore()
	store.failOn["create"] = errors.New("Email already in use")
	m := newCustomerManager(store)
	ctx := context.Background()

	require.NoError(t, m.OpenCreate())
	draft := model.CustomerDraft{Name: "Dup", Email: "dup@example.com", Phone: "1"}
	m.Form.SetDraft(draft)
	require.EqualError(t, m.Form.Submit(ctx), "Email already in use")

	st := m.Form.Snapshot()
	assert.True(t, st.Open)
	assert.False(t, st.Submitting)
	assert.Equal(t, draft, st.Draft)
	assert.EqualError(t, st.Err, "Email already in use")
	assert.Equal(t, 0, store.count("list"))

	delete(store.failOn, "create")
	require.NoError(t, m.Form.Submit(ctx))
	assert.Equal(t, []model.CustomerDraft{draft}, store.created)
}

func TestFormClosesWhenRefreshFails(t *testing.T) {
	store := newMemStore()
	m := newCustomerManager(store)
	ctx := context.Background()

	require.NoError(t, m.OpenCreate())
	m.Form.SetDraft(model.CustomerDraft{Name: "A", Email: "a@example.com"})
	store.failOn["list"] = errors.New("down")
	require.NoError(t, m.Form.Submit(ctx))

	assert.False(t, m.Form.IsOpen())
	assert.EqualError(t, m.List.Snapshot().Err, "Failed to fetch customers")
}

func TestFormSubmitWhenClosed(t *testing.T) {
	m := newCustomerManager(newMemStore())
	assert.ErrorIs(t, m.Form.Submit(context.Background()), ErrFormClosed)
}

func TestValidateStructMessages(t *testing.T) {
	err := ValidateStruct(model.CustomerDraft{Name: "A", Email: "nope"})
	assert.EqualError(t, err, "Email must be a valid email address")

	err = ValidateStruct(model.TimeEntryDraft{Date: "2025-01-01", Project: "P", Hours: 0})
	assert.EqualError(t, err, "Hours must be greater than 0")

	err = ValidateStruct(model.TimeEntryDraft{Date: "01/01/2025", Project: "P", Hours: 1})
	assert.EqualError(t, err, "Date must be a date (YYYY-MM-DD)")

	err = ValidateStruct(model.MaterialDraft{Name: "Steel", Unit: "kg", StockLevel: -1})
	assert.EqualError(t, err, "Stock level must be at least 0")

	assert.NoError(t, ValidateStruct(model.CustomerDraft{Name: "A", Email: "a@example.com"}))
}
