// Package config loads per-account conversion settings from a YAML file
// keyed by account name and merges them with tool defaults.
package config

import (
	"regexp"
)

// Default values applied when an account section does not set them.
const (
	DefaultType       = "Bank"
	DefaultEncoding   = "utf-8"
	DefaultDateOutput = "%Y-%m-%d"
	DefaultDelimiter  = ','
)

// FieldEntry binds an output field code to a column of the input.
// An entry declared with a column label carries it in Header until
// ResolveHeader pins the entry to a 1-based Position.
type FieldEntry struct {
	Code     string
	Position int    // 1-based column index, 0 while unresolved
	Header   string // column label awaiting resolution
}

// Resolved reports whether the entry points at a concrete column.
func (e FieldEntry) Resolved() bool {
	return e.Position > 0
}

// FieldMapping is the ordered field-code to column mapping of one account.
// Declaration order in the configuration decides the order of lines in
// every emitted record.
type FieldMapping []FieldEntry

// NeedsHeader reports whether any entry still waits for header resolution.
func (m FieldMapping) NeedsHeader() bool {
	for _, e := range m {
		if !e.Resolved() {
			return true
		}
	}
	return false
}

// Codes returns the field codes in declaration order.
func (m FieldMapping) Codes() []string {
	codes := make([]string, len(m))
	for i, e := range m {
		codes[i] = e.Code
	}
	return codes
}

// Rule is a single pattern to replacement substitution. The pattern is
// compiled case-insensitively at load time.
type Rule struct {
	Pattern     *regexp.Regexp
	Replacement string
}

// SubstitutionTable maps a field code to its ordered substitution rules.
// Fields absent from the table are copied literally.
type SubstitutionTable map[string][]Rule

// AccountConfig is the merged configuration of one account, immutable after
// loading except for in-place header resolution of Items.
type AccountConfig struct {
	Account       string
	Type          string
	Encoding      string
	Delimiter     rune
	DateInput     string
	DateOutput    string
	Skip          int
	Items         FieldMapping
	Substitutions SubstitutionTable
}
