package ui

import (
	"fmt"
	"math"
	"strings"

	"bizdash/internal/export"
	"bizdash/internal/model"
	"bizdash/internal/util"
)

// sortRange bounds the values sortableNumber orders exactly; larger magnitudes clamp.
const sortRange = 1e12

// sortableNumber encodes v so that byte order matches numeric order, negatives included.
func sortableNumber(v float64) string {
	v = math.Max(-sortRange, math.Min(sortRange, v))
	return fmt.Sprintf("%017.3f", v+sortRange)
}

func newCustomersScreen(deps Deps) *entityScreen[model.Customer, model.CustomerDraft] {
	return newEntityScreen(entityScreenConfig[model.Customer, model.CustomerDraft]{
		screen: model.ScreenCustomers,
		title:  "Customers",
		mgr:    deps.Resources.Customers,
		columns: []tableColumn[model.Customer]{
			{key: "name", label: "name", width: 24, value: func(c model.Customer) string { return c.Name }},
			{key: "email", label: "email", width: 28, value: func(c model.Customer) string { return c.Email }},
			{key: "phone", label: "phone", width: 16, value: func(c model.Customer) string { return c.Phone }},
			{key: "company", label: "company", width: 18, value: func(c model.Customer) string { return c.Company }},
			{
				key: "created", label: "added", width: 12,
				value:  func(c model.Customer) string { return c.CreatedAt },
				render: func(c model.Customer) string { return util.FormatDateHuman(c.CreatedAt) },
			},
		},
		fields: []fieldSpec[model.CustomerDraft]{
			{
				label: "Name", placeholder: "Jane Doe", required: true, charLimit: 100,
				get: func(d model.CustomerDraft) string { return d.Name },
				set: func(d *model.CustomerDraft, v string) error { d.Name = v; return nil },
			},
			{
				label: "Email", placeholder: "jane@example.com", required: true, charLimit: 254,
				get: func(d model.CustomerDraft) string { return d.Email },
				set: func(d *model.CustomerDraft, v string) error { d.Email = v; return nil },
			},
			{
				label: "Phone", placeholder: "(555) 555-5555", charLimit: 40,
				get: func(d model.CustomerDraft) string { return d.Phone },
				set: func(d *model.CustomerDraft, v string) error { d.Phone = v; return nil },
			},
		},
		csvColumns:   export.CustomerColumns,
		exportPrefix: "customers",
	}, deps)
}

func newMaterialsScreen(deps Deps) *entityScreen[model.Material, model.MaterialDraft] {
	f := deps.Formatter
	return newEntityScreen(entityScreenConfig[model.Material, model.MaterialDraft]{
		screen: model.ScreenMaterials,
		title:  "Materials",
		mgr:    deps.Resources.Materials,
		columns: []tableColumn[model.Material]{
			{key: "name", label: "name", width: 22, value: func(m model.Material) string { return m.Name }},
			{key: "sku", label: "sku", width: 10, value: func(m model.Material) string { return m.SKU }},
			{
				key: "stock", label: "stock", width: 16,
				value: func(m model.Material) string { return sortableNumber(m.StockLevel) },
				render: func(m model.Material) string {
					s := util.FormatQuantity(m.StockLevel, m.Unit)
					if m.LowStock() {
						s += " low"
					}
					return s
				},
			},
			{
				key: "reorder", label: "reorder", width: 10,
				value:  func(m model.Material) string { return sortableNumber(m.ReorderLevel) },
				render: func(m model.Material) string { return util.FormatQuantity(m.ReorderLevel, "") },
			},
			{
				key: "cost", label: "unit cost", width: 12,
				value:  func(m model.Material) string { return sortableNumber(m.UnitCost) },
				render: func(m model.Material) string { return f.Currency(m.UnitCost) },
			},
			{key: "supplier", label: "supplier", width: 18, value: func(m model.Material) string { return m.Supplier }},
		},
		fields: []fieldSpec[model.MaterialDraft]{
			{
				label: "Name", placeholder: "Aluminium sheet", required: true, charLimit: 100,
				get: func(d model.MaterialDraft) string { return d.Name },
				set: func(d *model.MaterialDraft, v string) error { d.Name = v; return nil },
			},
			{
				label: "SKU", placeholder: "AL-2MM", charLimit: 40,
				get: func(d model.MaterialDraft) string { return d.SKU },
				set: func(d *model.MaterialDraft, v string) error { d.SKU = v; return nil },
			},
			{
				label: "Unit", placeholder: "kg, m, each", required: true, charLimit: 20,
				get: func(d model.MaterialDraft) string { return d.Unit },
				set: func(d *model.MaterialDraft, v string) error { d.Unit = v; return nil },
			},
			{
				label: "Stock level", placeholder: "0", charLimit: 20,
				get: func(d model.MaterialDraft) string { return formatAmount(d.StockLevel) },
				set: func(d *model.MaterialDraft, v string) (err error) { d.StockLevel, err = parseAmount(v); return },
			},
			{
				label: "Reorder level", placeholder: "0", charLimit: 20,
				get: func(d model.MaterialDraft) string { return formatAmount(d.ReorderLevel) },
				set: func(d *model.MaterialDraft, v string) (err error) { d.ReorderLevel, err = parseAmount(v); return },
			},
			{
				label: "Unit cost", placeholder: "0.00", charLimit: 20,
				get: func(d model.MaterialDraft) string { return formatAmount(d.UnitCost) },
				set: func(d *model.MaterialDraft, v string) (err error) { d.UnitCost, err = parseAmount(v); return },
			},
			{
				label: "Supplier", placeholder: "Supplier name", charLimit: 100,
				get: func(d model.MaterialDraft) string { return d.Supplier },
				set: func(d *model.MaterialDraft, v string) error { d.Supplier = v; return nil },
			},
		},
		csvColumns:   export.MaterialColumns,
		exportPrefix: "materials",
		summary: func(rows []model.Material) string {
			low := 0
			for _, m := range rows {
				if m.LowStock() {
					low++
				}
			}
			if low == 0 {
				return ""
			}
			return WarningStyle.Render(fmt.Sprintf("%d low stock", low))
		},
	}, deps)
}

func newTimeEntriesScreen(deps Deps) *entityScreen[model.TimeEntry, model.TimeEntryDraft] {
	f := deps.Formatter
	return newEntityScreen(entityScreenConfig[model.TimeEntry, model.TimeEntryDraft]{
		screen: model.ScreenTimeEntries,
		title:  "Time Entries",
		mgr:    deps.Resources.TimeEntries,
		columns: []tableColumn[model.TimeEntry]{
			{
				key: "date", label: "date", width: 12,
				value:  func(t model.TimeEntry) string { return t.Date },
				render: func(t model.TimeEntry) string { return util.FormatDateHuman(t.Date) },
			},
			{key: "project", label: "project", width: 18, value: func(t model.TimeEntry) string { return t.Project }},
			{key: "description", label: "description", width: 28, value: func(t model.TimeEntry) string { return t.Description }},
			{key: "staff", label: "staff", width: 14, value: func(t model.TimeEntry) string { return t.StaffMember }},
			{
				key: "hours", label: "hours", width: 7,
				value:  func(t model.TimeEntry) string { return sortableNumber(t.Hours) },
				render: func(t model.TimeEntry) string { return util.FormatHours(t.Hours) },
			},
			{
				key: "rate", label: "rate", width: 10,
				value:  func(t model.TimeEntry) string { return sortableNumber(t.HourlyRate) },
				render: func(t model.TimeEntry) string { return f.Currency(t.HourlyRate) },
			},
			{
				key: "rd", label: "r&d", width: 5,
				value: func(t model.TimeEntry) string { return util.FormatYesNo(t.RDEligible) },
			},
		},
		fields: []fieldSpec[model.TimeEntryDraft]{
			{
				label: "Date", placeholder: "YYYY-MM-DD or DD/MM/YYYY", required: true, charLimit: 20,
				get: func(d model.TimeEntryDraft) string { return d.Date },
				set: func(d *model.TimeEntryDraft, v string) (err error) { d.Date, err = parseDate(v); return },
			},
			{
				label: "Project", placeholder: "Project name", required: true, charLimit: 100,
				get: func(d model.TimeEntryDraft) string { return d.Project },
				set: func(d *model.TimeEntryDraft, v string) error { d.Project = v; return nil },
			},
			{
				label: "Description", placeholder: "What was done", charLimit: 500,
				get: func(d model.TimeEntryDraft) string { return d.Description },
				set: func(d *model.TimeEntryDraft, v string) error { d.Description = v; return nil },
			},
			{
				label: "Staff member", placeholder: "Name", charLimit: 100,
				get: func(d model.TimeEntryDraft) string { return d.StaffMember },
				set: func(d *model.TimeEntryDraft, v string) error { d.StaffMember = v; return nil },
			},
			{
				label: "Hours", placeholder: "7.5", required: true, charLimit: 6,
				get: func(d model.TimeEntryDraft) string { return formatAmount(d.Hours) },
				set: func(d *model.TimeEntryDraft, v string) (err error) { d.Hours, err = parseAmount(v); return },
			},
			{
				label: "Hourly rate", placeholder: "0.00", charLimit: 12,
				get: func(d model.TimeEntryDraft) string { return formatAmount(d.HourlyRate) },
				set: func(d *model.TimeEntryDraft, v string) (err error) { d.HourlyRate, err = parseAmount(v); return },
			},
			{
				label: "R&D eligible", placeholder: "yes/no", charLimit: 5,
				get: func(d model.TimeEntryDraft) string { return strings.ToLower(util.FormatYesNo(d.RDEligible)) },
				set: func(d *model.TimeEntryDraft, v string) (err error) { d.RDEligible, err = parseYesNo(v); return },
			},
		},
		csvColumns:   export.TimeEntryColumns,
		exportPrefix: "time-entries",
		dateRange:    deps.Resources.TimeRange,
		summary: func(rows []model.TimeEntry) string {
			var total, rd float64
			for _, t := range rows {
				total += t.Hours
				if t.RDEligible {
					rd += t.Hours
				}
			}
			return fmt.Sprintf("%s total  ·  %s R&D", util.FormatHours(total), util.FormatHours(rd))
		},
	}, deps)
}
