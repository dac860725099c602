// Package qif renders the QIF interchange format: the account preamble and
// line-oriented transaction records.
package qif

import (
	"fmt"
	"strings"
)

// DateField is the field code QIF reserves for the transaction date.
const DateField = "D"

// Terminator ends every QIF block.
const Terminator = "^\n"

// Header returns the account preamble naming the account and declaring its
// type twice, each block closed by the terminator.
func Header(account, accType string) string {
	return fmt.Sprintf("!Account\nN%s\nT%s\n%s!Type:%s\n%s",
		account, accType, Terminator, accType, Terminator)
}

// Record accumulates the lines of one QIF entry. The zero value is ready to
// use; String always closes the block with the terminator.
type Record struct {
	lines []string
}

// Add appends one field line of the form <code><value>.
func (r *Record) Add(code, value string) {
	r.lines = append(r.lines, code+value)
}

// Len returns the number of field lines added so far.
func (r *Record) Len() int {
	return len(r.lines)
}

// String renders the record as field lines followed by the terminator.
func (r *Record) String() string {
	var b strings.Builder
	for _, line := range r.lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString(Terminator)
	return b.String()
}
