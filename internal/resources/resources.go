// Package resources binds the backend collections to their view models.
package resources

import (
	"context"
	"net/http"
	"net/url"
	"sync"

	"bizdash/internal/api"
	"bizdash/internal/entity"
	"bizdash/internal/model"
	"bizdash/internal/util"
)

type (
	Customers   = entity.Manager[model.Customer, model.CustomerDraft]
	Materials   = entity.Manager[model.Material, model.MaterialDraft]
	TimeEntries = entity.Manager[model.TimeEntry, model.TimeEntryDraft]
)

// Set is every collection the dashboard manages.
type Set struct {
	Customers   *Customers
	Materials   *Materials
	TimeEntries *TimeEntries
	// TimeRange is forwarded to the time-entries fetch as startDate/endDate.
	TimeRange *DateRange
	Reports   *api.Reports
}

// New builds the managers on top of client.
func New(client *api.Client) *Set {
	s := &Set{
		TimeRange: &DateRange{},
		Reports:   api.NewReports(client),
	}

	s.Customers = entity.NewManager(entity.Config[model.Customer, model.CustomerDraft]{
		Resource:     "customers",
		Singular:     "customer",
		Store:        api.NewCollection[model.Customer, model.CustomerDraft](client, "customers"),
		SearchFields: CustomerSearchFields,
		Defaults:     func() model.CustomerDraft { return model.CustomerDraft{} },
		FromRecord:   CustomerDraft,
		Label:        func(c model.Customer) string { return c.Name },
	})

	s.Materials = entity.NewManager(entity.Config[model.Material, model.MaterialDraft]{
		Resource:     "materials",
		Singular:     "material",
		Store:        api.NewCollection[model.Material, model.MaterialDraft](client, "materials"),
		SearchFields: MaterialSearchFields,
		Defaults:     func() model.MaterialDraft { return model.MaterialDraft{Unit: "each"} },
		FromRecord:   MaterialDraft,
		Label:        func(m model.Material) string { return m.Name },
	})

	entries := api.NewCollection[model.TimeEntry, model.TimeEntryDraft](client, "time-entries")
	entries.UpdateMethod = http.MethodPatch
	entries.Query = s.TimeRange.Values
	s.TimeEntries = entity.NewManager(entity.Config[model.TimeEntry, model.TimeEntryDraft]{
		Resource:     "time entries",
		Singular:     "time entry",
		Store:        timeEntryStore{entries},
		SearchFields: TimeEntrySearchFields,
		Defaults: func() model.TimeEntryDraft {
			return model.TimeEntryDraft{Date: util.TodayISO(), RDEligible: true}
		},
		FromRecord: TimeEntryDraft,
		Label: func(t model.TimeEntry) string {
			return t.Project + " on " + util.FormatDate(t.Date)
		},
	})

	return s
}

// timeEntryStore hides Import: the backend has no bulk import for time entries.
type timeEntryStore struct {
	c *api.Collection[model.TimeEntry, model.TimeEntryDraft]
}

func (s timeEntryStore) List(ctx context.Context) ([]model.TimeEntry, error) { return s.c.List(ctx) }
func (s timeEntryStore) Create(ctx context.Context, d model.TimeEntryDraft) (model.TimeEntry, error) {
	return s.c.Create(ctx, d)
}
func (s timeEntryStore) Update(ctx context.Context, id string, d model.TimeEntryDraft) (model.TimeEntry, error) {
	return s.c.Update(ctx, id, d)
}
func (s timeEntryStore) Delete(ctx context.Context, id string) error { return s.c.Delete(ctx, id) }

func CustomerSearchFields(c model.Customer) []string {
	return []string{c.Name, c.Email, c.Phone, c.Company}
}

func MaterialSearchFields(m model.Material) []string {
	return []string{m.Name, m.SKU, m.Supplier}
}

func TimeEntrySearchFields(t model.TimeEntry) []string {
	return []string{t.Project, t.Description, t.StaffMember}
}

func CustomerDraft(c model.Customer) model.CustomerDraft {
	return model.CustomerDraft{Name: c.Name, Email: c.Email, Phone: c.Phone}
}

func MaterialDraft(m model.Material) model.MaterialDraft {
	return model.MaterialDraft{
		Name:         m.Name,
		SKU:          m.SKU,
		Unit:         m.Unit,
		StockLevel:   m.StockLevel,
		ReorderLevel: m.ReorderLevel,
		UnitCost:     m.UnitCost,
		Supplier:     m.Supplier,
	}
}

func TimeEntryDraft(t model.TimeEntry) model.TimeEntryDraft {
	return model.TimeEntryDraft{
		Date:        t.Date,
		Project:     t.Project,
		Description: t.Description,
		StaffMember: t.StaffMember,
		Hours:       t.Hours,
		HourlyRate:  t.HourlyRate,
		RDEligible:  t.RDEligible,
	}
}

// DateRange is an optional inclusive date window. Empty bounds are omitted from the query.
type DateRange struct {
	mu         sync.Mutex
	start, end string
}

// Set replaces both bounds. Each must be empty or an ISO date.
func (r *DateRange) Set(start, end string) error {
	for _, d := range []string{start, end} {
		if d == "" {
			continue
		}
		if err := util.ValidateDate(d); err != nil {
			return &entity.ValidationError{Field: "Date", Message: "dates must be YYYY-MM-DD"}
		}
	}
	if start != "" && end != "" && end < start {
		return &entity.ValidationError{Field: "Date", Message: "end date is before start date"}
	}
	r.mu.Lock()
	r.start, r.end = start, end
	r.mu.Unlock()
	return nil
}

// Bounds returns the current start and end.
func (r *DateRange) Bounds() (string, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.start, r.end
}

// Values renders the range as query parameters.
func (r *DateRange) Values() url.Values {
	start, end := r.Bounds()
	v := url.Values{}
	if start != "" {
		v.Set("startDate", start)
	}
	if end != "" {
		v.Set("endDate", end)
	}
	return v
}
