package qif

import (
	"fmt"
	"strings"
	"time"
)

// DateParseError reports a date value that does not match the configured
// input pattern.
type DateParseError struct {
	Value   string
	Pattern string
	Err     error
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("date %q does not match pattern %q: %v", e.Value, e.Pattern, e.Err)
}

func (e *DateParseError) Unwrap() error {
	return e.Err
}

// tokenLayouts maps strptime/strftime tokens to Go reference-time atoms.
var tokenLayouts = map[byte]string{
	'Y': "2006",
	'y': "06",
	'm': "01",
	'd': "02",
	'e': "_2",
	'H': "15",
	'I': "03",
	'M': "04",
	'S': "05",
	'p': "PM",
	'b': "Jan",
	'B': "January",
	'a': "Mon",
	'A': "Monday",
	'%': "%",
}

// layoutFromPattern translates a strptime-style pattern into a Go time
// layout. Characters outside % tokens pass through as literals.
func layoutFromPattern(pattern string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(pattern); i++ {
		if pattern[i] != '%' {
			b.WriteByte(pattern[i])
			continue
		}
		i++
		if i >= len(pattern) {
			return "", fmt.Errorf("date pattern %q ends with a bare %%", pattern)
		}
		atom, ok := tokenLayouts[pattern[i]]
		if !ok {
			return "", fmt.Errorf("date pattern %q: unsupported token %%%c", pattern, pattern[i])
		}
		b.WriteString(atom)
	}
	return b.String(), nil
}

// ConvertDate parses value strictly against the strptime-style inPattern and
// re-renders it with outPattern. Time-of-day tokens are parsed and rendered
// only when the respective pattern asks for them; an input pattern without
// them leaves the time components at zero.
func ConvertDate(value, inPattern, outPattern string) (string, error) {
	inLayout, err := layoutFromPattern(inPattern)
	if err != nil {
		return "", err
	}
	outLayout, err := layoutFromPattern(outPattern)
	if err != nil {
		return "", err
	}

	t, err := time.Parse(inLayout, value)
	if err != nil {
		return "", &DateParseError{Value: value, Pattern: inPattern, Err: err}
	}
	return t.Format(outLayout), nil
}
