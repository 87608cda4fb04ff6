package util

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Placeholder is rendered for missing or unparseable values.
const Placeholder = "—"

const isoDate = "2006-01-02"

// Formatter renders numbers and money for one locale and currency. The zero
// value formats pounds sterling for en-GB.
type Formatter struct {
	printer *message.Printer
	unit    currency.Unit
}

// NewFormatter builds a Formatter from a BCP 47 locale tag and an ISO 4217 code.
func NewFormatter(locale, code string) (Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return Formatter{}, fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return Formatter{}, fmt.Errorf("invalid currency %q: %w", code, err)
	}
	return Formatter{printer: message.NewPrinter(tag), unit: unit}, nil
}

// DefaultFormatter formats pounds sterling for en-GB.
func DefaultFormatter() Formatter {
	return Formatter{printer: message.NewPrinter(language.BritishEnglish), unit: currency.GBP}
}

// orDefault lets the zero Formatter behave like DefaultFormatter.
func (f Formatter) orDefault() Formatter {
	if f.printer == nil {
		return DefaultFormatter()
	}
	return f
}

// Currency formats an amount as "£1,234.50". NaN and infinities render as the placeholder.
func (f Formatter) Currency(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Placeholder
	}
	f = f.orDefault()
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	symbol := strings.TrimSpace(f.printer.Sprint(currency.NarrowSymbol(f.unit)))
	return sign + symbol + f.printer.Sprint(number.Decimal(amount, number.Scale(2)))
}

// Number formats a value with locale grouping and a fixed number of decimals.
func (f Formatter) Number(v float64, decimals int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Placeholder
	}
	return f.orDefault().printer.Sprint(number.Decimal(v, number.Scale(decimals)))
}

// FormatDate formats an ISO 8601 date or timestamp for display.
func FormatDate(date string) string {
	t, ok := parseISO(date)
	if !ok {
		if strings.TrimSpace(date) == "" {
			return Placeholder
		}
		return date
	}
	return t.Format("02 Jan 2006")
}

// FormatDateHuman formats a date with humanized relative display.
// "Today", "Yesterday", "3d ago", "15 Jan", "15 Jan '24"
func FormatDateHuman(date string) string {
	return formatDateHumanAt(date, time.Now())
}

func formatDateHumanAt(date string, now time.Time) string {
	t, ok := parseISO(date)
	if !ok {
		if strings.TrimSpace(date) == "" {
			return Placeholder
		}
		return date
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	dateDay := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	days := int(today.Sub(dateDay).Hours() / 24)

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days > 1 && days < 7:
		return fmt.Sprintf("%dd ago", days)
	case t.Year() == now.Year():
		return t.Format("02 Jan")
	default:
		return t.Format("02 Jan '06")
	}
}

// FormatRelative renders a timestamp as "3 minutes ago".
func FormatRelative(t time.Time) string {
	if t.IsZero() {
		return Placeholder
	}
	return humanize.Time(t)
}

// FormatHours formats an hour count as "7.5h".
func FormatHours(hours float64) string {
	if math.IsNaN(hours) || math.IsInf(hours, 0) {
		return Placeholder
	}
	s := strconv.FormatFloat(hours, 'f', 2, 64)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	return s + "h"
}

// FormatQuantity formats a stock quantity with thousands separators and its unit.
func FormatQuantity(v float64, unit string) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Placeholder
	}
	s := humanize.CommafWithDigits(v, 2)
	if unit = strings.TrimSpace(unit); unit != "" {
		s += " " + unit
	}
	return s
}

// FormatYesNo formats a boolean flag.
func FormatYesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// TodayISO returns today's date in ISO 8601 format (YYYY-MM-DD).
func TodayISO() string {
	return time.Now().Format(isoDate)
}

// ValidateDate validates a date string in YYYY-MM-DD format.
func ValidateDate(date string) error {
	_, err := time.Parse(isoDate, date)
	return err
}

// ParseDateInput parses flexible user input and normalizes to ISO (YYYY-MM-DD).
// Empty input is allowed and returns "". Slash dates are read day-first.
func ParseDateInput(input string) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", nil
	}

	layouts := []string{
		isoDate,
		"2 January 2006",
		"2 Jan 2006",
		"January 2, 2006",
		"Jan 2, 2006",
		"02/01/2006",
		"2/1/2006",
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(isoDate), nil
		}
	}

	return "", fmt.Errorf("invalid date %q", s)
}

// TruncateString truncates a string to maxLen and adds "..." if needed.
func TruncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen < 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

func parseISO(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(isoDate, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
