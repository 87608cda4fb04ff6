package util

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "05 Mar 2024", FormatDate("2024-03-05"))
	assert.Equal(t, "05 Mar 2024", FormatDate("2024-03-05T10:11:12Z"))
	assert.Equal(t, Placeholder, FormatDate(""))
	assert.Equal(t, Placeholder, FormatDate("   "))
	assert.Equal(t, "not a date", FormatDate("not a date"))
}

func TestFormatDateHuman(t *testing.T) {
	now := time.Date(2025, time.June, 20, 15, 0, 0, 0, time.UTC)

	assert.Equal(t, "Today", formatDateHumanAt("2025-06-20", now))
	assert.Equal(t, "Yesterday", formatDateHumanAt("2025-06-19", now))
	assert.Equal(t, "3d ago", formatDateHumanAt("2025-06-17", now))
	assert.Equal(t, "02 Jan", formatDateHumanAt("2025-01-02", now))
	assert.Equal(t, "02 Jan '24", formatDateHumanAt("2024-01-02", now))
	assert.Equal(t, Placeholder, formatDateHumanAt("", now))
}

func TestFormatterCurrency(t *testing.T) {
	f := DefaultFormatter()

	out := f.Currency(1234.5)
	assert.Contains(t, out, "1,234.50")
	assert.Contains(t, out, "£")

	neg := f.Currency(-20)
	assert.True(t, len(neg) > 0 && neg[0] == '-', "negative amounts lead with a minus sign: %q", neg)
	assert.Contains(t, neg, "20.00")

	assert.Equal(t, Placeholder, f.Currency(math.NaN()))
	assert.Equal(t, Placeholder, f.Currency(math.Inf(1)))
}

func TestNewFormatterRejectsBadInput(t *testing.T) {
	_, err := NewFormatter("en-GB", "NOPE")
	require.Error(t, err)

	_, err = NewFormatter("!!", "GBP")
	require.Error(t, err)

	f, err := NewFormatter("en-US", "USD")
	require.NoError(t, err)
	assert.Contains(t, f.Currency(10), "10.00")
}

func TestFormatHoursAndQuantity(t *testing.T) {
	assert.Equal(t, "7.5h", FormatHours(7.5))
	assert.Equal(t, "8h", FormatHours(8))
	assert.Equal(t, "0.25h", FormatHours(0.25))
	assert.Equal(t, Placeholder, FormatHours(math.NaN()))

	assert.Equal(t, "1,250 kg", FormatQuantity(1250, "kg"))
	assert.Equal(t, "12.5", FormatQuantity(12.5, ""))
}

func TestParseDateInput(t *testing.T) {
	cases := map[string]string{
		"2025-06-20":    "2025-06-20",
		"20 June 2025":  "2025-06-20",
		"20 Jun 2025":   "2025-06-20",
		"June 20, 2025": "2025-06-20",
		"20/06/2025":    "2025-06-20",
		"2/6/2025":      "2025-06-02",
		"":              "",
	}
	for in, want := range cases {
		got, err := ParseDateInput(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseDateInput("next tuesday")
	require.Error(t, err)
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", TruncateString("short", 10))
	assert.Equal(t, "abcd...", TruncateString("abcdefghij", 7))
	assert.Equal(t, "ab", TruncateString("abcdef", 2))
}

func TestZeroFormatterUsesDefaults(t *testing.T) {
	var f Formatter
	assert.Equal(t, DefaultFormatter().Currency(1234.5), f.Currency(1234.5))
	assert.Equal(t, "1,234.5", f.Number(1234.5, 1))
}
