package config

import "fmt"

// SectionNotFoundError reports a requested account with no section in the
// configuration file.
type SectionNotFoundError struct {
	Account string
}

func (e *SectionNotFoundError) Error() string {
	return fmt.Sprintf("account %q not found in configuration", e.Account)
}

// MissingItemsError reports an account section without a field mapping.
type MissingItemsError struct {
	Account string
}

func (e *MissingItemsError) Error() string {
	return fmt.Sprintf("account %q declares no field mapping", e.Account)
}

// MissingTypeError reports an account whose type resolved to the empty
// string.
type MissingTypeError struct {
	Account string
}

func (e *MissingTypeError) Error() string {
	return fmt.Sprintf("account %q has no type", e.Account)
}

// MissingDateInputError reports a date field declared without a date_input
// pattern to parse it with.
type MissingDateInputError struct {
	Account string
}

func (e *MissingDateInputError) Error() string {
	return fmt.Sprintf("account %q maps a date field but sets no date_input pattern", e.Account)
}

// InvalidPatternError reports a substitution pattern that does not compile.
type InvalidPatternError struct {
	Field   string
	Pattern string
	Err     error
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("substitution pattern %q for field %q: %v", e.Pattern, e.Field, e.Err)
}

func (e *InvalidPatternError) Unwrap() error {
	return e.Err
}
