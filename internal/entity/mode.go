package entity

// Mode is either Create or Edit.
type Mode interface {
	mode()
}

// Create is the mode of a form that will POST a new record.
type Create struct{}

// Edit is the mode of a form that will update the record with ID.
type Edit struct {
	ID string
}

func (Create) mode() {}
func (Edit) mode()   {}

// EditID returns the id being edited and true when m is an Edit.
func EditID(m Mode) (string, bool) {
	if e, ok := m.(Edit); ok {
		return e.ID, true
	}
	return "", false
}
