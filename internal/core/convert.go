package core

// convert.go turns raw spreadsheet cells into text and typed values.
//
// These functions handle the messy reality of user-authored spreadsheets:
//   - Multiple date formats (US, EU, ISO, etc.)
//   - Currency symbols and thousand separators in numbers
//   - Various boolean representations (yes/no, true/false, 1/0)
//   - Excel formula prefixes (="value")
//
// Empty input is never an error here; callers decide what empty means.

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TimestampLayout is the text form of date-typed cells before validation.
const TimestampLayout = "2006-01-02 15:04:05"

// numericRegex validates that a string is a valid numeric format after cleanup.
// Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// TwoDigitYearPivot defines how 2-digit years are interpreted.
// Years that would result in dates more than this many years in the future
// are assumed to be in the previous century.
var TwoDigitYearPivot = 20

// Date layouts split by year format for proper 2-digit year handling
var (
	twoDigitYearLayouts = []string{
		"1/2/06", "01/02/06", "1-2-06", "1.2.06", "01.02.06",
	}
	fourDigitYearLayouts = []string{
		TimestampLayout, time.RFC3339, "2006-01-02T15:04:05",
		"1/2/2006", "01/02/2006", "1-2-2006", "01-02-2006", "1.2.2006", "01.02.2006",
		"2006-01-02", "2006/01/02", "2006.01.02",
		"1/2/2006 15:04", "1/2/2006 15:04:05",
		"Jan 2, 2006", "2 Jan 2006",
		"20060102",
	}
)

var (
	errInvalidNumber  = errors.New("invalid number format")
	errInvalidInteger = errors.New("invalid integer format")
	errInvalidDate    = errors.New("invalid date format (use YYYY-MM-DD or similar)")
	errInvalidBool    = errors.New("must be yes/no, true/false, or 1/0")
	errInvalidUUID    = errors.New("invalid uuid format")
)

// CellText returns the string form of a raw cell value. Date values are
// rendered with TimestampLayout; numbers use the shortest exact decimal form.
func CellText(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return CleanCell(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.Format(TimestampLayout)
	case fmt.Stringer:
		return CleanCell(v.String())
	default:
		return CleanCell(fmt.Sprint(v))
	}
}

// CleanCell removes common spreadsheet artifacts from a cell value:
//   - Trims whitespace
//   - Removes Excel formula prefix (="...")
//   - Removes surrounding double quotes
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") && len(s) >= 3 {
		s = s[2 : len(s)-1]
	}

	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		s = s[1 : len(s)-1]
	}

	return s
}

// ParseDecimal converts text to a float64.
// Handles currency symbols, thousands separators, and accounting format (parentheses for negative).
func ParseDecimal(s string) (float64, error) {
	s = strings.TrimSpace(s)

	// Detect negative accounting format "(123.45)"
	isNegative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		isNegative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "€", "") // Euro
	s = strings.ReplaceAll(s, "£", "") // Pound
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	if isNegative {
		s = "-" + s
	}

	if !numericRegex.MatchString(s) {
		return 0, errInvalidNumber
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) {
		return 0, errInvalidNumber
	}
	return f, nil
}

// ParseInteger converts text to an int64. Decimal text is accepted only when
// it has no fractional part ("42.0"), which is how some sheets store counts.
func ParseInteger(s string) (int64, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	i, err := strconv.ParseInt(clean, 10, 64)
	switch {
	case err == nil:
		return i, nil
	case errors.Is(err, strconv.ErrRange):
		return 0, errInvalidInteger
	}

	// float64(math.MaxInt64) rounds up to 2^63, so the upper bound is exclusive.
	f, err := ParseDecimal(s)
	if err != nil || f != math.Trunc(f) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, errInvalidInteger
	}
	return int64(f), nil
}

// ParseDate converts text to a time.Time.
// Supports multiple date formats and handles 2-digit years with pivot.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)

	// Try 4-digit year layouts first (unambiguous)
	for _, layout := range fourDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	pivotYear := time.Now().Year() + TwoDigitYearPivot
	for _, layout := range twoDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if t.Year() > pivotYear {
				t = t.AddDate(-100, 0, 0)
			}
			return t, nil
		}
	}

	return time.Time{}, errInvalidDate
}

// ParseBool accepts various representations: true/false, yes/no, t/f, y/n, 1/0.
func ParseBool(s string) (bool, error) {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "true", "t", "yes", "y", "1":
		return true, nil
	case "false", "f", "no", "n", "0":
		return false, nil
	default:
		return false, errInvalidBool
	}
}

// ParseUUID converts text to a uuid.UUID.
func ParseUUID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, errInvalidUUID
	}
	return id, nil
}
