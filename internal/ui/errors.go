package ui

import (
	"errors"

	"bizdash/internal/api"
)

var (
	errNotANumber = errors.New("must be a number")
	errNotYesNo   = errors.New("must be yes or no")
	errNotADate   = errors.New("must be a date such as 2025-06-20 or 20/06/2025")
)

// errorText is the user-facing text of err.
func errorText(err error) string {
	if err == nil {
		return ""
	}
	return api.Message(err)
}
