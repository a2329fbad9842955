// Package config holds value conversions shared by the ConfigStore adapters.
//
// TOML decodes integers as int64, floats as float64 and arrays as []any,
// while values set in-process keep their Go type. These helpers accept both.
package config

// AsString returns v as a string, or "".
func AsString(v any) string {
	s, _ := v.(string)
	return s
}

// AsInt returns v as an int, or 0.
func AsInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		if n == float64(int(n)) {
			return int(n)
		}
	}
	return 0
}

// AsFloat returns v as a float64, or 0.
func AsFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int:
		return float64(n)
	}
	return 0
}

// AsBool returns v as a bool, or false.
func AsBool(v any) bool {
	b, _ := v.(bool)
	return b
}

// AsStringSlice returns v as a []string, or nil. Non-string items are skipped.
func AsStringSlice(v any) []string {
	switch s := v.(type) {
	case []string:
		return append([]string(nil), s...)
	case []any:
		result := make([]string, 0, len(s))
		for _, item := range s {
			if str, ok := item.(string); ok {
				result = append(result, str)
			}
		}
		return result
	}
	return nil
}
