package export

import (
	"strconv"

	"bizdash/internal/model"
)

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// TimeEntryColumns is the time-entry CSV layout.
var TimeEntryColumns = []Column[model.TimeEntry]{
	{Header: "Date", Value: func(t model.TimeEntry) string { return t.Date }},
	{Header: "Project", Value: func(t model.TimeEntry) string { return t.Project }},
	{Header: "Description", Value: func(t model.TimeEntry) string { return t.Description }},
	{Header: "Staff", Value: func(t model.TimeEntry) string { return t.StaffMember }},
	{Header: "Hours", Value: func(t model.TimeEntry) string { return num(t.Hours) }},
	{Header: "R&D Eligible", Value: func(t model.TimeEntry) string { return yesNo(t.RDEligible) }},
}

var CustomerColumns = []Column[model.Customer]{
	{Header: "Name", Value: func(c model.Customer) string { return c.Name }},
	{Header: "Email", Value: func(c model.Customer) string { return c.Email }},
	{Header: "Phone", Value: func(c model.Customer) string { return c.Phone }},
	{Header: "Company", Value: func(c model.Customer) string { return c.Company }},
}

var MaterialColumns = []Column[model.Material]{
	{Header: "Name", Value: func(m model.Material) string { return m.Name }},
	{Header: "SKU", Value: func(m model.Material) string { return m.SKU }},
	{Header: "Unit", Value: func(m model.Material) string { return m.Unit }},
	{Header: "Stock Level", Value: func(m model.Material) string { return num(m.StockLevel) }},
	{Header: "Reorder Level", Value: func(m model.Material) string { return num(m.ReorderLevel) }},
	{Header: "Unit Cost", Value: func(m model.Material) string { return strconv.FormatFloat(m.UnitCost, 'f', 2, 64) }},
	{Header: "Supplier", Value: func(m model.Material) string { return m.Supplier }},
}
