package convert

import "github.com/tlamer/pyqif/internal/config"

// Substitute runs the ordered rules against value. Each pattern is tried
// against the original value, not the output of earlier rules; the first
// pattern that matches wins and its substitution is returned. The second
// return is false when no rule matched, which callers must treat as "drop
// the field for this row", never as "emit the raw value".
func Substitute(rules []config.Rule, value string) (string, bool) {
	for _, r := range rules {
		if r.Pattern.MatchString(value) {
			return r.Pattern.ReplaceAllString(value, r.Replacement), true
		}
	}
	return "", false
}
