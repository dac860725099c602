package convert

import (
	"github.com/tlamer/pyqif/internal/config"
	"github.com/tlamer/pyqif/internal/qif"
)

// FormatRecord assembles one QIF record from a raw row. Fields appear in the
// declaration order of the mapping. The date field is converted and always
// emitted; substitution-controlled fields are emitted only when a rule
// matches; any other field is copied literally unless its cell is empty.
func FormatRecord(cfg *config.AccountConfig, row []string) (string, error) {
	var rec qif.Record
	for _, entry := range cfg.Items {
		value := cell(row, entry.Position)

		if entry.Code == qif.DateField {
			date, err := qif.ConvertDate(value, cfg.DateInput, cfg.DateOutput)
			if err != nil {
				return "", err
			}
			rec.Add(entry.Code, date)
			continue
		}

		if rules, ok := cfg.Substitutions[entry.Code]; ok {
			if out, matched := Substitute(rules, value); matched {
				rec.Add(entry.Code, out)
			}
			continue
		}

		if value != "" {
			rec.Add(entry.Code, value)
		}
	}
	return rec.String(), nil
}

// cell returns the 1-based column of the row, or the empty string when the
// row is too short to have it.
func cell(row []string, pos int) string {
	if pos < 1 || pos > len(row) {
		return ""
	}
	return row[pos-1]
}
