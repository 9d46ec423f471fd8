package resume

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
)

// Outcome is the result of one extraction attempt as printed by the CLI
type Outcome struct {
	Success bool
	Data    map[string]any
	Error   string
}

// Success wraps extracted data
func Success(data map[string]any) Outcome {
	return Outcome{Success: true, Data: data}
}

// Failure wraps an error message
func Failure(message string) Outcome {
	return Outcome{Error: message}
}

type successBody struct {
	Success bool           `json:"success"`
	Data    map[string]any `json:"data"`
}

type failureBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// MarshalJSON encodes {"success":true,"data":...} or {"success":false,"error":...}.
// Data values that JSON cannot represent are encoded as their string form.
func (o Outcome) MarshalJSON() ([]byte, error) {
	if !o.Success {
		return json.Marshal(failureBody{Error: o.Error})
	}

	data := make(map[string]any, len(o.Data))
	for key, value := range o.Data {
		data[key] = normalizeValue(value)
	}
	return json.Marshal(successBody{Success: true, Data: data})
}

// normalizeValue keeps JSON primitives, slices and string-keyed maps, and
// stringifies everything else
func normalizeValue(value any) any {
	switch v := value.(type) {
	case nil, string, bool, json.Number,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return v
	case float32:
		return normalizeFloat(float64(v), v)
	case float64:
		return normalizeFloat(v, v)
	case []string:
		if v == nil {
			return []string{}
		}
		return v
	case []byte:
		return string(v)
	case fmt.Stringer, error:
		return fmt.Sprint(v)
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return nil
		}
		return normalizeValue(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		items := make([]any, rv.Len())
		for i := range items {
			items[i] = normalizeValue(rv.Index(i).Interface())
		}
		return items
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return fmt.Sprint(value)
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = normalizeValue(iter.Value().Interface())
		}
		return out
	default:
		return fmt.Sprint(value)
	}
}

func normalizeFloat(f float64, original any) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Sprint(original)
	}
	return original
}
