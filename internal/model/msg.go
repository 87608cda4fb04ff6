package model

// Bubble Tea message types

// ErrorMsg represents an error message.
type ErrorMsg struct {
	Err error
}

// ChangedMsg is sent when a view model notifies its subscribers.
type ChangedMsg struct {
	Screen Screen
}

// CollectionLoadedMsg is sent when a list fetch settles, successfully or not.
type CollectionLoadedMsg struct {
	Screen Screen
	Err    error
}

// SavedMsg is sent when a form submit settles.
type SavedMsg struct {
	Screen    Screen
	Operation string // create, update
	Err       error
}

// DeletedMsg is sent when a delete confirmation settles.
type DeletedMsg struct {
	Screen Screen
	Name   string
	Err    error
}

// ImportedMsg is sent when a CSV upload settles.
type ImportedMsg struct {
	Screen Screen
	Result *ImportResult
	Err    error
}

// ImportBannerExpiredMsg dismisses an import banner after its display window.
type ImportBannerExpiredMsg struct {
	Screen Screen
	Seq    int
}

// ExportedMsg is sent when an export file has been written.
type ExportedMsg struct {
	Path string
	Rows int
	Err  error
}

// ReportLoadedMsg is sent when the HMRC report is fetched.
type ReportLoadedMsg struct {
	Seq    int
	Report HMRCReport
	Err    error
}

// OverviewLoadedMsg is sent when the financial overview is fetched.
type OverviewLoadedMsg struct {
	Seq      int
	Overview FinancialOverview
	Quarter  *HMRCReport
	Err      error
}

// Screen represents different app screens.
type Screen int

const (
	ScreenOverview Screen = iota
	ScreenCustomers
	ScreenMaterials
	ScreenTimeEntries
	ScreenReports
)

// Key returns the stable identifier used for persisted preferences.
func (s Screen) Key() string {
	switch s {
	case ScreenOverview:
		return "overview"
	case ScreenCustomers:
		return "customers"
	case ScreenMaterials:
		return "materials"
	case ScreenTimeEntries:
		return "time_entries"
	case ScreenReports:
		return "reports"
	default:
		return "unknown"
	}
}

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNav Mode = iota
	ModeInsert
	ModeSearch
	ModeConfirm
)
