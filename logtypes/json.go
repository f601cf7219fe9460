package logtypes

import (
	"encoding/json"
	"math"
	"reflect"
)

// JSONValue is a value restricted to string, number, bool, nil, []any and
// map[string]any, with no cycles.
type JSONValue = any

type refKey struct {
	ptr   uintptr
	isMap bool
}

// IsJSONSafe reports whether v belongs to the JSONValue closed set.
// NaN and infinities are rejected because JSON cannot carry them.
func IsJSONSafe(v any) bool {
	return jsonSafe(v, map[refKey]struct{}{})
}

func jsonSafe(v any, path map[refKey]struct{}) bool {
	switch val := v.(type) {
	case nil, string, bool, json.Number,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return true
	case float32:
		return finite(float64(val))
	case float64:
		return finite(val)
	case []any:
		if len(val) == 0 {
			return true
		}

		key := refKey{ptr: reflect.ValueOf(val).Pointer()}

		return within(path, key, func() bool {
			for _, item := range val {
				if !jsonSafe(item, path) {
					return false
				}
			}

			return true
		})
	case map[string]any:
		if val == nil {
			return true
		}

		key := refKey{ptr: reflect.ValueOf(val).Pointer(), isMap: true}

		return within(path, key, func() bool {
			for _, item := range val {
				if !jsonSafe(item, path) {
					return false
				}
			}

			return true
		})
	default:
		return false
	}
}

// within runs check with key marked as being on the current path.
// Revisiting a key already on the path is a cycle.
func within(path map[refKey]struct{}, key refKey, check func() bool) bool {
	if _, onPath := path[key]; onPath {
		return false
	}

	path[key] = struct{}{}
	defer delete(path, key)

	return check()
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
