package resources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizdash/internal/api"
	"bizdash/internal/entity"
	"bizdash/internal/model"
)

func TestTimeEntriesForwardDateRange(t *testing.T) {
	var mu sync.Mutex
	var queries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		queries = append(queries, r.URL.Path+"?"+r.URL.RawQuery)
		mu.Unlock()
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)

	client, err := api.NewClient(srv.URL, nil)
	require.NoError(t, err)
	set := New(client)
	ctx := context.Background()

	require.NoError(t, set.TimeEntries.Mount(ctx))
	require.NoError(t, set.TimeRange.Set("2025-01-01", "2025-01-31"))
	require.NoError(t, set.TimeEntries.Refresh(ctx))

	assert.Equal(t, []string{
		"/time-entries?",
		"/time-entries?endDate=2025-01-31&startDate=2025-01-01",
	}, queries)
}

func TestDateRangeValidation(t *testing.T) {
	var r DateRange
	var vErr *entity.ValidationError

	require.ErrorAs(t, r.Set("2025-02-01", "2025-01-01"), &vErr)
	require.ErrorAs(t, r.Set("01/02/2025", ""), &vErr)

	require.NoError(t, r.Set("", "2025-01-31"))
	assert.Equal(t, "endDate=2025-01-31", r.Values().Encode())

	require.NoError(t, r.Set("", ""))
	assert.Empty(t, r.Values())
}

func TestImportAvailability(t *testing.T) {
	client, err := api.NewClient("http://localhost:1", nil)
	require.NoError(t, err)
	set := New(client)

	assert.NotNil(t, set.Customers.Importer)
	assert.NotNil(t, set.Materials.Importer)
	assert.Nil(t, set.TimeEntries.Importer)
}

func TestDraftsCopyEveryField(t *testing.T) {
	m := model.Material{ID: "m1", Name: "Steel", SKU: "ST-1", Unit: "kg", StockLevel: 4, ReorderLevel: 5, UnitCost: 2.5, Supplier: "Acme"}
	assert.Equal(t, model.MaterialDraft{Name: "Steel", SKU: "ST-1", Unit: "kg", StockLevel: 4, ReorderLevel: 5, UnitCost: 2.5, Supplier: "Acme"}, MaterialDraft(m))

	te := model.TimeEntry{ID: "t1", Date: "2025-01-02", Project: "P", Description: "D", StaffMember: "S", Hours: 3, HourlyRate: 40, RDEligible: true}
	assert.Equal(t, model.TimeEntryDraft{Date: "2025-01-02", Project: "P", Description: "D", StaffMember: "S", Hours: 3, HourlyRate: 40, RDEligible: true}, TimeEntryDraft(te))
}

func TestSearchFields(t *testing.T) {
	items := []model.Material{{ID: "m1", Name: "Steel"}, {ID: "m2", Name: "Wood", Supplier: "Steel & Co"}, {ID: "m3", Name: "Glue"}}
	got := entity.Filter(items, "steel", MaterialSearchFields)
	require.Len(t, got, 2)
	assert.Equal(t, "m1", got[0].ID)
	assert.Equal(t, "m2", got[1].ID)
}
