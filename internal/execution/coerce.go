// Package execution normalizes the telemetry backend's execution payloads
// (detail and list responses) into the typed shapes the dashboard serves.
// Every function here is a pure transform over decoded JSON: malformed or
// partial input degrades to nulls and empty collections, never an error.
package execution

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// coerceNumber reads a numeric field that may arrive as a JSON number or
// a numeric string. Non-finite and unparsable values become nil.
func coerceNumber(v any) *float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// coerceCount reads a non-negative integer field, defaulting to 0.
func coerceCount(v any) int {
	n := coerceNumber(v)
	if n == nil || *n < 0 {
		return 0
	}
	return int(*n)
}

// epochMillisThreshold separates second- from millisecond-resolution
// epoch values; the upstream emits both generations.
const epochMillisThreshold = 1e12

// coerceTimestamp reads a timestamp that may arrive as an ISO-8601
// string, an epoch number (seconds or milliseconds), or a time.Time,
// and normalizes it to an RFC 3339 string. Anything else becomes nil.
func coerceTimestamp(v any) *string {
	switch ts := v.(type) {
	case time.Time:
		return ptrTo(ts.UTC().Format(time.RFC3339))
	case string:
		s := strings.TrimSpace(ts)
		if s == "" {
			return nil
		}
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"} {
			if parsed, err := time.Parse(layout, s); err == nil {
				return ptrTo(parsed.UTC().Format(time.RFC3339))
			}
		}
		// Epoch encoded as a string.
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return epochToISO(n)
		}
		return nil
	default:
		if n := coerceNumber(v); n != nil {
			return epochToISO(*n)
		}
		return nil
	}
}

func epochToISO(n float64) *string {
	if n <= 0 {
		return nil
	}
	var t time.Time
	if n >= epochMillisThreshold {
		t = time.UnixMilli(int64(n))
	} else {
		t = time.Unix(int64(n), 0)
	}
	return ptrTo(t.UTC().Format(time.RFC3339))
}

// jsonString renders an arbitrary value for display: strings pass
// through, other values are JSON-encoded with a fmt fallback.
func jsonString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

// pick returns the first non-nil value among the aliases of a field.
// Callers list the preferred key first (camelCase before snake_case for
// list items, snake_case first on the current detail schema).
func pick(m map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func pickString(m map[string]any, keys ...string) *string {
	v, ok := pick(m, keys...)
	if !ok {
		return nil
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return nil
	}
	return &s
}

func pickNumber(m map[string]any, keys ...string) *float64 {
	v, ok := pick(m, keys...)
	if !ok {
		return nil
	}
	return coerceNumber(v)
}

func pickTimestamp(m map[string]any, keys ...string) *string {
	v, ok := pick(m, keys...)
	if !ok {
		return nil
	}
	return coerceTimestamp(v)
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func asSlice(v any) []any {
	s, _ := v.([]any)
	return s
}

// decodeValue turns the raw input of the public entry points into a
// decoded JSON value. Byte payloads that fail to decode become nil so
// the normalizers fall back to maximal defaults.
func decodeValue(raw any) any {
	switch b := raw.(type) {
	case json.RawMessage:
		return decodeBytes(b)
	case []byte:
		return decodeBytes(b)
	default:
		return raw
	}
}

func decodeBytes(b []byte) any {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil
	}
	return v
}

func ptrTo[T any](v T) *T {
	return &v
}
