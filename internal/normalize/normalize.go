// Package normalize converts the upstream API's overloaded scalar encodings
// into unambiguous typed-optional values.
//
// The upstream convention: absence is frequently encoded as the string "0",
// an empty string or omission rather than a proper null; text fields may
// carry embedded HTML markup; numeric strings may contain a duplicated
// decimal point typo ("1..23"). All Opt* style functions return nil for the
// absent case and never fail; malformed input coerces to absent.
package normalize

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/shopspring/decimal"
)

// ErrInvalidBool is returned when a strictly binary field holds anything
// other than "0" or "1".
var ErrInvalidBool = errors.New("invalid bool value")

const (
	// dateLayout is the fixed 2-digit-year layout the upstream uses for
	// optional dates such as date_foc
	dateLayout = "06-01-02"
	// dateYMDLayout is the layout for release dates
	dateYMDLayout = "2006-01-02"
	// dateTimeLayout is the layout for added/modified timestamps
	dateTimeLayout = "2006-01-02 15:04:05"
)

var stripPolicy = bluemonday.StrictPolicy()

// asString renders a raw JSON scalar as its string form, reporting whether a
// value was present at all.
func asString(v interface{}) (string, bool) {
	switch value := v.(type) {
	case nil:
		return "", false
	case string:
		return value, true
	case json.Number:
		return value.String(), true
	default:
		return fmt.Sprint(value), true
	}
}

// Int converts a raw scalar to an optional int64. Absent when the value is
// empty, missing or zero, or when it cannot be parsed as an integer.
func Int(v interface{}) *int64 {
	s, ok := asString(v)
	if !ok {
		return nil
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n == 0 {
		return nil
	}
	return &n
}

// Float converts a raw scalar to an optional float64, repairing the
// double-decimal-point typo first. Absent when empty, zero or unparseable.
// Use Decimal for monetary fields.
func Float(v interface{}) *float64 {
	s, ok := asString(v)
	if !ok {
		return nil
	}

	s = strings.ReplaceAll(strings.TrimSpace(s), "..", ".")
	if s == "" {
		return nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f == 0 {
		return nil
	}
	return &f
}

// Decimal converts a raw scalar to an optional exact decimal, repairing the
// double-decimal-point typo first. Absent when empty, zero or unparseable.
func Decimal(v interface{}) *decimal.Decimal {
	s, ok := asString(v)
	if !ok {
		return nil
	}

	s = strings.ReplaceAll(strings.TrimSpace(s), "..", ".")
	if s == "" {
		return nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil || d.IsZero() {
		return nil
	}
	return &d
}

// Bool converts a strictly binary "0"/"1" scalar to a bool. Any other input
// is a hard failure wrapping ErrInvalidBool.
func Bool(v interface{}) (bool, error) {
	s, _ := asString(v)
	switch s {
	case "0":
		return false, nil
	case "1":
		return true, nil
	}
	return false, fmt.Errorf("%w: %q", ErrInvalidBool, s)
}

// Date converts a raw scalar to an optional date using the upstream's
// 2-digit-year layout. Absent for empty values, the "0000-00-00" sentinel
// and anything unparseable.
func Date(v interface{}) *time.Time {
	s, ok := asString(v)
	if !ok {
		return nil
	}

	s = strings.TrimSpace(s)
	if s == "" || s == "0000-00-00" {
		return nil
	}

	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

// String converts a raw scalar to an optional cleaned string: HTML comments
// and tags stripped, entities unescaped, whitespace runs collapsed and the
// result trimmed. Absent when empty before or after cleaning. Idempotent.
func String(v interface{}) *string {
	s, ok := asString(v)
	if !ok || s == "" {
		return nil
	}

	out := stripPolicy.Sanitize(strings.TrimSpace(s))
	out = html.UnescapeString(out)
	out = strings.Join(strings.Fields(out), " ")
	if out == "" {
		return nil
	}
	return &out
}

// DateYMD parses a required date in YYYY-MM-DD form.
func DateYMD(v interface{}) (time.Time, error) {
	s, ok := asString(v)
	if !ok {
		return time.Time{}, fmt.Errorf("missing date value")
	}
	return time.Parse(dateYMDLayout, strings.TrimSpace(s))
}

// DateTime parses a required timestamp in "YYYY-MM-DD HH:MM:SS" form.
func DateTime(v interface{}) (time.Time, error) {
	s, ok := asString(v)
	if !ok {
		return time.Time{}, fmt.Errorf("missing timestamp value")
	}
	return time.Parse(dateTimeLayout, strings.TrimSpace(s))
}
