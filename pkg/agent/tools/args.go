package tools

import "strings"

// StringArg returns the trimmed string value of input[key], or "" when the
// key is absent, null, or not a string. Empty means "leave the field alone"
// for every mutating tool.
func StringArg(input map[string]any, key string) string {
	v, ok := input[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// IntArg returns input[key] as an int, or def when absent or not numeric.
// JSON numbers decode as float64, so that is the common case.
func IntArg(input map[string]any, key string, def int) int {
	v, ok := input[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case float32:
		return int(n)
	default:
		return def
	}
}

// StringListArg returns input[key] as a slice of trimmed non-empty strings.
// Absent, null, or malformed values read as nil.
func StringListArg(input map[string]any, key string) []string {
	v, ok := input[key]
	if !ok {
		return nil
	}
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
