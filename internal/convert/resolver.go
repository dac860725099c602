// Package convert turns raw delimited rows into QIF records under the
// control of an account configuration: header resolution, per-field
// substitution, record assembly and the streaming row loop.
package convert

import (
	"fmt"

	"github.com/tlamer/pyqif/internal/config"
)

// HeaderResolutionError reports a declared column label that is absent from
// the header row. Resolution is all or nothing, so this aborts the run.
type HeaderResolutionError struct {
	Code string
	Name string
}

func (e *HeaderResolutionError) Error() string {
	return fmt.Sprintf("field %q: column label %q not found in header row", e.Code, e.Name)
}

// ResolveHeader replaces every name-based entry of items, in place, with the
// 1-based index of its label in the header row. Entries already carrying a
// position are left alone. Called at most once per run, before any data row.
func ResolveHeader(items config.FieldMapping, header []string) error {
	for i := range items {
		if items[i].Resolved() {
			continue
		}
		pos := 0
		for j, label := range header {
			if label == items[i].Header {
				pos = j + 1
				break
			}
		}
		if pos == 0 {
			return &HeaderResolutionError{Code: items[i].Code, Name: items[i].Header}
		}
		items[i].Position = pos
	}
	return nil
}
