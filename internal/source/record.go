package source

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Record is one raw rule as read from a file or request body, before
// defaults and type coercion are applied.
type Record map[string]any

type RecordError struct {
	Index  int
	Field  string
	Value  any
	Reason string
}

func (e *RecordError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("record %d: %s", e.Index+1, e.Reason)
	}
	return fmt.Sprintf("record %d: field %s (%v): %s", e.Index+1, e.Field, e.Value, e.Reason)
}

// text returns the field as a trimmed string. Numbers are formatted without
// a fractional part when they are whole.
func (r Record) text(key string) (string, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t), true
	case json.Number:
		return t.String(), true
	case float64:
		if t == math.Trunc(t) {
			return strconv.FormatInt(int64(t), 10), true
		}
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case uint64:
		return strconv.FormatUint(t, 10), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return strings.TrimSpace(fmt.Sprint(t)), true
	}
}

func (r Record) integer(key string) (int, bool, error) {
	s, ok := r.text(key)
	if !ok || s == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, true, err
	}
	return n, true, nil
}
