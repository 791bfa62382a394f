package lang

import (
	"log/slog"
	"sort"
	"strconv"
	"strings"
)

// Attributes is the attribute context of one map feature. Values are
// strings, booleans, int64 or float64.
type Attributes map[string]any

// ParseAttributes builds an [Attributes] context from "KEY=VALUE" pairs.
// Each value is typed with [ParseValue].
func ParseAttributes(pairs []string) (Attributes, error) {
	attrs := make(Attributes, len(pairs))

	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)

		if !ok || key == "" {
			return nil, ErrInvalidAttribute.
				With(slog.String("pair", pair))
		}

		attrs[key] = ParseValue(value)
	}

	return attrs, nil
}

// ParseValue types a textual attribute value. Quoted text is always a
// string; otherwise true/false, integers and floats are recognized in that
// order and anything else is kept as a string.
func ParseValue(s string) any {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		if s[0] == '"' {
			if unquoted, err := strconv.Unquote(s); err == nil {
				return unquoted
			}
		}

		return s[1 : len(s)-1]
	}

	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}

	return s
}

// Names returns the attribute names in sorted order.
func (a Attributes) Names() []string {
	return sortedKeys(a)
}

// Normalize converts loosely typed values, such as those decoded from YAML
// or JSON, to the attribute value kinds: string, bool, int64 and float64.
// Other values are kept unchanged.
func (a Attributes) Normalize() Attributes {
	out := make(Attributes, len(a))

	for k, v := range a {
		switch n := v.(type) {
		case int:
			out[k] = int64(n)
		case int32:
			out[k] = int64(n)
		case uint64:
			out[k] = int64(n) //nolint:gosec
		case uint32:
			out[k] = int64(n)
		case float32:
			out[k] = float64(n)
		default:
			out[k] = v
		}
	}

	return out
}

func sortedKeys[T any](m map[string]T) []string {
	if len(m) == 0 {
		return nil
	}

	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}
