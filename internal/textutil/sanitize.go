package textutil

import "strings"

// SanitizeToken lowercases value and keeps only letters, digits, dots,
// hyphens and underscores. Runs of anything else collapse to a single
// underscore. Empty input, or input with nothing usable, yields "unknown".
func SanitizeToken(value string) string {
	value = strings.TrimSpace(value)
	var b strings.Builder
	pendingSep := false
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
		case r >= 'A' && r <= 'Z':
			r += 'a' - 'A'
		default:
			pendingSep = true
			continue
		}
		if pendingSep && b.Len() > 0 {
			b.WriteByte('_')
		}
		pendingSep = false
		b.WriteRune(r)
	}
	out := strings.Trim(b.String(), "._-")
	if out == "" {
		return "unknown"
	}
	return out
}

// LockName joins sanitized parts with "-" and appends ".lock".
func LockName(parts ...string) string {
	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		tokens = append(tokens, SanitizeToken(part))
	}
	return strings.Join(tokens, "-") + ".lock"
}
