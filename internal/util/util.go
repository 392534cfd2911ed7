package util

import (
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const dateLayoutIT = "02/01/2006"

// sheetEpoch is day zero of the spreadsheet serial date system.
var sheetEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

var printerIT = message.NewPrinter(language.Italian)

// Truthy reports whether a cell value counts as set, mirroring how the
// sheet treats checkbox cells: nil, false, empty string and zero are all
// unset.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		s := strings.TrimSpace(t)
		return s != "" && !strings.EqualFold(s, "false")
	case float64:
		return t != 0
	default:
		return true
	}
}

// AsNumber extracts a numeric cell value. Range reads use the unformatted
// render option, so numbers always arrive as float64.
func AsNumber(v any) (float64, bool) {
	f, ok := v.(float64)
	return f, ok
}

// CellString renders any cell value as text; nil becomes the empty string.
func CellString(v any) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

// SerialToTime converts a spreadsheet serial date to a midnight UTC time.
func SerialToTime(serial float64) time.Time {
	days := int(serial)
	return sheetEpoch.AddDate(0, 0, days)
}

// ClockFromSerial renders the time-of-day fraction of a spreadsheet serial
// as HH:MM.
func ClockFromSerial(serial float64) string {
	frac := serial - float64(int(serial))
	mins := int(frac*24*60 + 0.5)
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}

// FormatDateIT renders a time as dd/mm/yyyy.
func FormatDateIT(t time.Time) string {
	return t.Format(dateLayoutIT)
}

// ParseDateIT parses a dd/mm/yyyy string.
func ParseDateIT(s string) (time.Time, error) {
	t, err := time.Parse(dateLayoutIT, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "data %q non valida, atteso GG/MM/AAAA", s)
	}
	return t, nil
}

// FormatEUR renders an amount the way the club chat expects it: Italian
// separators, two decimals, trailing euro sign.
func FormatEUR(v float64) string {
	return printerIT.Sprintf("%v €", number.Decimal(v, number.Scale(2)))
}

// NormalizeHeader uppercases and trims a header cell for case-insensitive
// column lookups.
func NormalizeHeader(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Midnight truncates a time to the start of its day.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
