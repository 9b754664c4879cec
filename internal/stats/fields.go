package stats

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// Fields is an incoming season-stats payload keyed by column name.
// camelCase keys are accepted and mapped to snake_case columns.
type Fields map[string]any

// FieldValue is one accepted column and the value supplied for it.
type FieldValue struct {
	Column string
	Value  any
}

// FieldChange describes a column whose incoming value differs from the
// value stored on the latest snapshot.
type FieldChange struct {
	Column string `json:"column"`
	From   any    `json:"from"`
	To     any    `json:"to"`
}

// reservedColumns can never be set from a payload.
var reservedColumns = map[string]bool{
	"id":         true,
	"athlete_id": true,
	"created_at": true,
}

// sameValue compares a stored column value with an incoming one. Numbers of
// any Go numeric type compare by value; a number never equals a string, and
// strings compare exactly.
func sameValue(stored, incoming any) bool {
	if a, ok := asNumber(stored); ok {
		b, ok := asNumber(incoming)
		return ok && a == b
	}
	if a, ok := stored.(string); ok {
		b, ok := incoming.(string)
		return ok && a == b
	}
	return reflect.DeepEqual(stored, incoming)
}

func asNumber(v any) (float64, bool) {
	if n, ok := v.(json.Number); ok {
		f, err := n.Float64()
		return f, err == nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// Summarize renders accepted values as "col: value, col: value".
func Summarize(values []FieldValue) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, fmt.Sprintf("%s: %v", v.Column, v.Value))
	}
	return strings.Join(parts, ", ")
}

// SummarizeChanges renders changes as "col: old → new, ...".
func SummarizeChanges(changes []FieldChange) string {
	parts := make([]string, 0, len(changes))
	for _, c := range changes {
		parts = append(parts, fmt.Sprintf("%s: %v → %v", c.Column, c.From, c.To))
	}
	return strings.Join(parts, ", ")
}
