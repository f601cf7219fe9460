package logtypes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// marshalOpen encodes fixed and flattens extra beside its keys.
// Reserved keys always belong to fixed, even when fixed omits them.
func marshalOpen(fixed any, extra map[string]any, reserved []string) ([]byte, error) {
	data, err := json.Marshal(fixed)
	if err != nil {
		return nil, err
	}

	if len(extra) == 0 {
		return data, nil
	}

	merged := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, fmt.Errorf("merge extra keys: %w", err)
	}

	for key, value := range extra {
		if slices.Contains(reserved, key) {
			continue
		}

		raw, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("marshal extra key %q: %w", key, err)
		}

		merged[key] = raw
	}

	return json.Marshal(merged)
}

// unmarshalExtra returns every top-level key of data outside reserved,
// or nil when there are none. Numbers decode as json.Number so integers
// beyond float64 precision survive a round trip.
func unmarshalExtra(data []byte, reserved []string) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var all map[string]any
	if err := dec.Decode(&all); err != nil {
		return nil, err
	}

	for _, key := range reserved {
		delete(all, key)
	}

	if len(all) == 0 {
		return nil, nil
	}

	return all, nil
}

// sortedKeys returns the keys of m in lexical order.
func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
