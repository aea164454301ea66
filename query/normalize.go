package query

import (
	"fmt"
	"reflect"
)

// NormalizeTimestamps returns a copy of data with every Temporal value
// replaced by its time.Time. Nested maps are normalized recursively and
// copied, so data itself is never modified.
//
// Slices are returned as-is and their elements are not inspected, even
// when they contain maps or Temporal values.
func NormalizeTimestamps(data map[string]any) (map[string]any, error) {
	if data == nil {
		return nil, fmt.Errorf("%w: cannot normalize nil map", ErrInvalidArgument)
	}
	return normalizeMap(data), nil
}

func normalizeMap(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case Temporal:
		if isNilPointer(val) {
			return v
		}
		return val.ToTime()
	case map[string]any:
		if val == nil {
			return v
		}
		return normalizeMap(val)
	case Record:
		if val == nil {
			return v
		}
		return Record(normalizeMap(val))
	default:
		return v
	}
}

// isNilPointer catches typed nil Temporal pointers stored in an interface.
func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
