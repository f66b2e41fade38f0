package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
)

// AsNumber returns the numeric value of v. Booleans are not numbers.
func AsNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// IsNumber reports whether v is a numeric value other than NaN.
func IsNumber(v any) bool {
	f, ok := AsNumber(v)
	return ok && !math.IsNaN(f)
}

// ListItems returns the elements of v when v is a slice or array.
func ListItems(v any) ([]any, bool) {
	if items, ok := v.([]any); ok {
		return items, true
	}
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

// IsList reports whether v is a slice or array.
func IsList(v any) bool {
	_, ok := ListItems(v)
	return ok
}

// typeName names the kind of v in JSON terms for error messages.
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	}
	if f, ok := AsNumber(v); ok {
		if math.IsNaN(f) {
			return "NaN"
		}
		return "number"
	}
	if IsList(v) {
		return "array"
	}
	if reflect.ValueOf(v).Kind() == reflect.Map {
		return "object"
	}
	return fmt.Sprintf("%T", v)
}

func formatNumber(f float64) string {
	return fmt.Sprint(f)
}
