// Package schema defines the typed domain records returned by the client and
// the assemblers that build them from raw API documents.
//
// The upstream API encodes nearly everything as strings, uses "0" and "" for
// absence and embeds HTML in text fields. Assemblers consult a per-field
// normalization step (internal/normalize) and aggregate every failure into a
// single validation error; a record either fully validates or assembly fails.
package schema

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"comicgeeks/internal/normalize"
)

// document wraps one raw JSON object and collects field-level failures while
// assemblers pull typed values out of it.
type document struct {
	fields map[string]interface{}
	errs   []string
}

func newDocument(fields map[string]interface{}) *document {
	return &document{fields: fields}
}

// lookup returns the first present alias
func (d *document) lookup(keys ...string) (interface{}, bool) {
	for _, key := range keys {
		if value, ok := d.fields[key]; ok {
			return value, true
		}
	}
	return nil, false
}

func (d *document) fail(key, msg string) {
	d.errs = append(d.errs, fmt.Sprintf("%s: %s", key, msg))
}

// err returns the aggregated validation error, or nil
func (d *document) err() error {
	if len(d.errs) == 0 {
		return nil
	}
	return fmt.Errorf("invalid document: %s", strings.Join(d.errs, "; "))
}

func (d *document) requireInt64(keys ...string) int64 {
	value, ok := d.lookup(keys...)
	if !ok {
		d.fail(keys[0], "required field missing")
		return 0
	}

	n, err := toInt64(value)
	if err != nil {
		d.fail(keys[0], err.Error())
		return 0
	}
	return n
}

func (d *document) requireString(keys ...string) string {
	value, ok := d.lookup(keys...)
	if !ok {
		d.fail(keys[0], "required field missing")
		return ""
	}

	s, ok := value.(string)
	if !ok {
		d.fail(keys[0], fmt.Sprintf("expected a string, got %T", value))
		return ""
	}
	return strings.TrimSpace(s)
}

func (d *document) requireBool(keys ...string) bool {
	value, ok := d.lookup(keys...)
	if !ok {
		d.fail(keys[0], "required field missing")
		return false
	}

	b, err := normalize.Bool(value)
	if err != nil {
		d.fail(keys[0], err.Error())
		return false
	}
	return b
}

func (d *document) requireDate(keys ...string) time.Time {
	value, ok := d.lookup(keys...)
	if !ok {
		d.fail(keys[0], "required field missing")
		return time.Time{}
	}

	t, err := normalize.DateYMD(value)
	if err != nil {
		d.fail(keys[0], err.Error())
		return time.Time{}
	}
	return t
}

func (d *document) requireDateTime(keys ...string) time.Time {
	value, ok := d.lookup(keys...)
	if !ok {
		d.fail(keys[0], "required field missing")
		return time.Time{}
	}

	t, err := normalize.DateTime(value)
	if err != nil {
		d.fail(keys[0], err.Error())
		return time.Time{}
	}
	return t
}

func (d *document) optInt64(keys ...string) *int64 {
	value, _ := d.lookup(keys...)
	return normalize.Int(value)
}

func (d *document) optString(keys ...string) *string {
	value, _ := d.lookup(keys...)
	return normalize.String(value)
}

func (d *document) optDecimal(keys ...string) *decimal.Decimal {
	value, _ := d.lookup(keys...)
	return normalize.Decimal(value)
}

func (d *document) optDate(keys ...string) *time.Time {
	value, _ := d.lookup(keys...)
	return normalize.Date(value)
}

// subDocuments returns the list of objects under key, tolerating absence.
// A map of keyed objects (the upstream "keys" shape) is converted to a list
// ordered by map key for determinism.
func (d *document) subDocuments(key string) []map[string]interface{} {
	value, ok := d.fields[key]
	if !ok || value == nil {
		return nil
	}

	switch items := value.(type) {
	case []interface{}:
		docs := make([]map[string]interface{}, 0, len(items))
		for i, item := range items {
			obj, ok := item.(map[string]interface{})
			if !ok {
				d.fail(fmt.Sprintf("%s[%d]", key, i), "expected an object")
				continue
			}
			docs = append(docs, obj)
		}
		return docs

	case map[string]interface{}:
		mapKeys := make([]string, 0, len(items))
		for k := range items {
			mapKeys = append(mapKeys, k)
		}
		sort.Slice(mapKeys, func(i, j int) bool {
			a, errA := strconv.ParseInt(mapKeys[i], 10, 64)
			b, errB := strconv.ParseInt(mapKeys[j], 10, 64)
			if errA == nil && errB == nil {
				return a < b
			}
			return mapKeys[i] < mapKeys[j]
		})

		docs := make([]map[string]interface{}, 0, len(items))
		for _, k := range mapKeys {
			obj, ok := items[k].(map[string]interface{})
			if !ok {
				d.fail(fmt.Sprintf("%s[%s]", key, k), "expected an object")
				continue
			}
			docs = append(docs, obj)
		}
		return docs

	default:
		d.fail(key, fmt.Sprintf("expected a list or object, got %T", value))
		return nil
	}
}

// toInt64 coerces required integer fields, which arrive as strings or JSON
// numbers. Unlike normalize.Int, zero is a legal value and parse failures
// are hard errors.
func toInt64(value interface{}) (int64, error) {
	switch v := value.(type) {
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot interpret %q as an integer", v)
		}
		return n, nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("cannot interpret %q as an integer", v.String())
		}
		return n, nil
	case float64:
		return int64(v), nil
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	default:
		return 0, fmt.Errorf("cannot interpret %T as an integer", value)
	}
}
