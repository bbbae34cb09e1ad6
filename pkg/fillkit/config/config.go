package config

import (
	"fmt"
	"time"
)

// Keys recognized by fillkit.FromConfig.
const (
	// KeyVariables is the nested pattern variable map.
	KeyVariables = "variables"
	// KeyNests maps nest names to templates.
	KeyNests = "nests"
	// KeyMaxDepth is the formatter recursion limit.
	KeyMaxDepth = "max_depth"
	// KeyDebug is true for every directive shape, or a list of shape
	// letters.
	KeyDebug = "debug"
	// KeyMatchTimeout bounds a single regex match.
	KeyMatchTimeout = "match_timeout"
	// KeySourceStore is a SQLite path for expanded pattern sources, or
	// ":memory:".
	KeySourceStore = "source_store"
)

// Config wraps a map[string]any for type-safe value extraction.
// All accessor methods return default values if the key is missing
// or the value cannot be converted to the requested type.
type Config struct {
	data map[string]any
}

// New creates a Config from the given map.
// If data is nil, an empty Config is returned.
func New(data map[string]any) Config {
	if data == nil {
		data = make(map[string]any)
	}
	return Config{data: data}
}

// String returns the string value for key, or defaultVal if missing or not a string.
func (c Config) String(key, defaultVal string) string {
	if s, ok := c.data[key].(string); ok {
		return s
	}
	return defaultVal
}

// Duration returns the duration value for key, or defaultVal if missing or invalid.
//
// Accepts:
//   - string: parsed with time.ParseDuration
//   - int, int64, float64: seconds
//   - time.Duration: used directly
func (c Config) Duration(key string, defaultVal time.Duration) time.Duration {
	switch val := c.data[key].(type) {
	case string:
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	case float64:
		return time.Duration(val * float64(time.Second))
	case int:
		return time.Duration(val) * time.Second
	case int64:
		return time.Duration(val) * time.Second
	case time.Duration:
		return val
	}
	return defaultVal
}

// Bool returns the boolean value for key, or defaultVal if missing or not a bool.
func (c Config) Bool(key string, defaultVal bool) bool {
	if b, ok := c.data[key].(bool); ok {
		return b
	}
	return defaultVal
}

// Int returns the integer value for key, or defaultVal if missing or not
// convertible. Floats convert only when they have no fractional part, which
// is how JSON numbers arrive.
func (c Config) Int(key string, defaultVal int) int {
	switch val := c.data[key].(type) {
	case int:
		return val
	case int64:
		return int(val)
	case float64:
		if val == float64(int(val)) {
			return int(val)
		}
	}
	return defaultVal
}

// StringSlice returns the string slice for key, or defaultVal if missing or
// if any element is not a string.
func (c Config) StringSlice(key string, defaultVal []string) []string {
	switch val := c.data[key].(type) {
	case []string:
		return val
	case []any:
		result := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return defaultVal
			}
			result = append(result, s)
		}
		return result
	}
	return defaultVal
}

// Map returns the nested map for key, or defaultVal if missing or not a
// map. Maps with non-string keys have their keys stringified.
func (c Config) Map(key string, defaultVal map[string]any) map[string]any {
	if m, ok := toStringKeyed(c.data[key]); ok {
		return m
	}
	return defaultVal
}

// StringMap returns a map of strings for key, or defaultVal if missing or
// if any value is not a string.
func (c Config) StringMap(key string, defaultVal map[string]string) map[string]string {
	if m, ok := c.data[key].(map[string]string); ok {
		return m
	}
	m, ok := toStringKeyed(c.data[key])
	if !ok {
		return defaultVal
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		s, ok := v.(string)
		if !ok {
			return defaultVal
		}
		out[k] = s
	}
	return out
}

// Sub returns the nested map for key as a Config. A missing or non-map
// value gives an empty Config.
func (c Config) Sub(key string) Config {
	return New(c.Map(key, nil))
}

// Any returns the raw value for key, or defaultVal if missing.
func (c Config) Any(key string, defaultVal any) any {
	v, ok := c.data[key]
	if !ok {
		return defaultVal
	}
	return v
}

// Has returns true if the key exists in the config.
func (c Config) Has(key string) bool {
	_, ok := c.data[key]
	return ok
}

// Raw returns the underlying map.
// The returned map should not be modified.
func (c Config) Raw() map[string]any {
	return c.data
}

func toStringKeyed(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	}
	return nil, false
}
