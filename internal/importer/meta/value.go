package meta

import (
	"errors"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/adpulse/internal/report"
)

// Value is a normalized cell. Coerced marks a numeric cell that could not be
// parsed and was recovered as zero.
type Value struct {
	Text    string
	Number  float64
	Coerced bool
}

// NormalizeValue converts a raw cell for the given field. It returns false for
// an empty cell: the field is absent, which is different from zero.
func NormalizeValue(field report.Field, raw string) (Value, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Value{}, false
	}

	if field.IsText() {
		return Value{Text: s}, true
	}

	n, err := parseNumber(s)
	if err != nil {
		return Value{Text: s, Coerced: true}, true
	}

	return Value{Text: s, Number: n}, true
}

var errOutOfRange = errors.New("number out of range")

// parseNumber reads both "305.21" and "305,21". With a period present commas
// are grouping; without one a single comma is the decimal separator and
// several commas are grouping ("1,234,567").
func parseNumber(s string) (float64, error) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u00a0', '\u202f':
			return -1
		}

		return r
	}, s)

	switch {
	case strings.Contains(s, "."):
		s = strings.ReplaceAll(s, ",", "")
	case strings.Count(s, ",") == 1:
		s = strings.Replace(s, ",", ".", 1)
	default:
		s = strings.ReplaceAll(s, ",", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}

	f := d.InexactFloat64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, errOutOfRange
	}

	return f, nil
}
