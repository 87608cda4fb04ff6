package ui

import "bizdash/internal/db"

type tableController interface {
	JumpToTop()
	NextColumn()
	PrevColumn()
	SortActiveColumn(desc bool)
	HideActiveColumn() bool
	ShowAllColumns()
	TableMeta() string
	ApplyPrefs(prefs db.TablePrefs)
	Prefs() db.TablePrefs
}

// tabled is implemented by screens whose body is a table.
type tabled interface {
	activeTable() tableController
}
