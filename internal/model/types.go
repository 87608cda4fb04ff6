package model

// Customer represents a customer record as returned by the backend.
type Customer struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Company   string `json:"company,omitempty"`
	Address   string `json:"address,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"` // ISO 8601
}

// RecordID returns the customer's opaque id.
func (c Customer) RecordID() string { return c.ID }

// CustomerDraft is the editable subset of a customer, sent verbatim as the request body.
type CustomerDraft struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone"`
}

// Material represents an inventory item.
type Material struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	SKU          string  `json:"sku"`
	Unit         string  `json:"unit"`
	StockLevel   float64 `json:"stockLevel"`
	ReorderLevel float64 `json:"reorderLevel"`
	UnitCost     float64 `json:"unitCost"`
	Supplier     string  `json:"supplier,omitempty"`
}

// RecordID returns the material's opaque id.
func (m Material) RecordID() string { return m.ID }

// LowStock reports whether the stock level has fallen to the reorder level.
func (m Material) LowStock() bool {
	return m.StockLevel <= m.ReorderLevel
}

// MaterialDraft is the editable subset of a material.
type MaterialDraft struct {
	Name         string  `json:"name" validate:"required"`
	SKU          string  `json:"sku"`
	Unit         string  `json:"unit" validate:"required"`
	StockLevel   float64 `json:"stockLevel" validate:"gte=0"`
	ReorderLevel float64 `json:"reorderLevel" validate:"gte=0"`
	UnitCost     float64 `json:"unitCost" validate:"gte=0"`
	Supplier     string  `json:"supplier"`
}

// TimeEntry represents hours logged against a project.
type TimeEntry struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"` // ISO 8601 date (YYYY-MM-DD)
	Project     string  `json:"project"`
	Description string  `json:"description"`
	StaffMember string  `json:"staffMember"`
	Hours       float64 `json:"hours"`
	HourlyRate  float64 `json:"hourlyRate"`
	RDEligible  bool    `json:"rdEligible"`
}

// RecordID returns the time entry's opaque id.
func (t TimeEntry) RecordID() string { return t.ID }

// TimeEntryDraft is the editable subset of a time entry.
type TimeEntryDraft struct {
	Date        string  `json:"date" validate:"required,datetime=2006-01-02"`
	Project     string  `json:"project" validate:"required"`
	Description string  `json:"description"`
	StaffMember string  `json:"staffMember"`
	Hours       float64 `json:"hours" validate:"gt=0,lte=24"`
	HourlyRate  float64 `json:"hourlyRate" validate:"gte=0"`
	RDEligible  bool    `json:"rdEligible"`
}

// ImportResult is the server's summary of a CSV import.
type ImportResult struct {
	Message  string   `json:"message"`
	Imported *int     `json:"imported,omitempty"`
	Skipped  *int     `json:"skipped,omitempty"`
	Errors   []string `json:"errors,omitempty"`
}

// HMRCReport is the server-computed R&D tax credit summary for a period.
type HMRCReport struct {
	StartDate             string         `json:"startDate"`
	EndDate               string         `json:"endDate"`
	TotalHours            float64        `json:"totalHours"`
	QualifyingHours       float64        `json:"qualifyingHours"`
	StaffCosts            float64        `json:"staffCosts"`
	MaterialCosts         float64        `json:"materialCosts"`
	SubcontractorCosts    float64        `json:"subcontractorCosts"`
	QualifyingExpenditure float64        `json:"qualifyingExpenditure"`
	EnhancedExpenditure   float64        `json:"enhancedExpenditure"`
	EstimatedCredit       float64        `json:"estimatedCredit"`
	Projects              []ProjectSpend `json:"projects"`
}

// ProjectSpend is one project's share of an HMRC report.
type ProjectSpend struct {
	Project         string  `json:"project"`
	QualifyingHours float64 `json:"qualifyingHours"`
	Expenditure     float64 `json:"expenditure"`
}

// FinancialOverview summarises the business's finances for a period.
type FinancialOverview struct {
	Period              string         `json:"period"`
	Revenue             float64        `json:"revenue"`
	Expenses            float64        `json:"expenses"`
	Profit              float64        `json:"profit"`
	OutstandingInvoices float64        `json:"outstandingInvoices"`
	CashBalance         float64        `json:"cashBalance"`
	Monthly             []MonthlyTotal `json:"monthly"`
}

// MonthlyTotal is one month of the overview trend.
type MonthlyTotal struct {
	Month    string  `json:"month"` // YYYY-MM
	Revenue  float64 `json:"revenue"`
	Expenses float64 `json:"expenses"`
}
