package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
myaccount:
  date_input: "%d/%m/%Y"
  items:
    D: date
    M: memo
  substitutions:
    P:
      foo: bar
positional:
  type: CCard
  encoding: iso8859-2
  delimiter: ";"
  date_input: "%Y/%m/%d"
  date_output: "%d.%m.%Y"
  skip: 2
  items:
    D: 1
    T: 3
    M: 2
legacy:
  D: 1
  M: 2
  T: 3
  date_input: "%d.%m.%Y"
nodate:
  items:
    M: 2
    T: 3
noitems:
  type: Bank
`

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(strings.NewReader(sampleConfig), "myaccount")
	require.NoError(t, err)

	assert.Equal(t, "myaccount", cfg.Account)
	assert.Equal(t, "Bank", cfg.Type)
	assert.Equal(t, "utf-8", cfg.Encoding)
	assert.Equal(t, "%Y-%m-%d", cfg.DateOutput)
	assert.Equal(t, ',', cfg.Delimiter)
	assert.Equal(t, 0, cfg.Skip)
}

func TestLoadOverridesWin(t *testing.T) {
	cfg, err := Load(strings.NewReader(sampleConfig), "positional")
	require.NoError(t, err)

	assert.Equal(t, "CCard", cfg.Type)
	assert.Equal(t, "iso8859-2", cfg.Encoding)
	assert.Equal(t, ';', cfg.Delimiter)
	assert.Equal(t, "%Y/%m/%d", cfg.DateInput)
	assert.Equal(t, "%d.%m.%Y", cfg.DateOutput)
	assert.Equal(t, 2, cfg.Skip)
}

func TestLoadItemsKeepDeclarationOrder(t *testing.T) {
	cfg, err := Load(strings.NewReader(sampleConfig), "positional")
	require.NoError(t, err)

	assert.Equal(t, []string{"D", "T", "M"}, cfg.Items.Codes())
	assert.Equal(t, FieldMapping{
		{Code: "D", Position: 1},
		{Code: "T", Position: 3},
		{Code: "M", Position: 2},
	}, cfg.Items)
	assert.False(t, cfg.Items.NeedsHeader())
}

func TestLoadHeaderNames(t *testing.T) {
	cfg, err := Load(strings.NewReader(sampleConfig), "myaccount")
	require.NoError(t, err)

	assert.Equal(t, FieldMapping{
		{Code: "D", Header: "date"},
		{Code: "M", Header: "memo"},
	}, cfg.Items)
	assert.True(t, cfg.Items.NeedsHeader())
}

func TestLoadFlatStyle(t *testing.T) {
	cfg, err := Load(strings.NewReader(sampleConfig), "legacy")
	require.NoError(t, err)

	assert.Equal(t, FieldMapping{
		{Code: "D", Position: 1},
		{Code: "M", Position: 2},
		{Code: "T", Position: 3},
	}, cfg.Items)
	assert.Equal(t, "Bank", cfg.Type)
	assert.Equal(t, "%d.%m.%Y", cfg.DateInput)
}

func TestLoadSubstitutions(t *testing.T) {
	cfg, err := Load(strings.NewReader(sampleConfig), "myaccount")
	require.NoError(t, err)

	rules, ok := cfg.Substitutions["P"]
	require.True(t, ok)
	require.Len(t, rules, 1)
	assert.Equal(t, "bar", rules[0].Replacement)
	assert.True(t, rules[0].Pattern.MatchString("FOOBAR"), "patterns must match case-insensitively")
}

func TestLoadMissingSubstitutionsSection(t *testing.T) {
	cfg, err := Load(strings.NewReader(sampleConfig), "positional")
	require.NoError(t, err)
	assert.NotNil(t, cfg.Substitutions)
	assert.Empty(t, cfg.Substitutions)
}

func TestLoadSectionNotFound(t *testing.T) {
	_, err := Load(strings.NewReader(sampleConfig), "nosuchaccount")
	var notFound *SectionNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "nosuchaccount", notFound.Account)
}

func TestLoadMissingItems(t *testing.T) {
	_, err := Load(strings.NewReader(sampleConfig), "noitems")
	var noItems *MissingItemsError
	require.ErrorAs(t, err, &noItems)
}

func TestLoadMissingType(t *testing.T) {
	src := "acc:\n  type: \"\"\n  items:\n    M: 1\n"
	_, err := Load(strings.NewReader(src), "acc")
	var noType *MissingTypeError
	require.ErrorAs(t, err, &noType)
}

func TestLoadDateFieldNeedsDateInput(t *testing.T) {
	src := "acc:\n  items:\n    D: 1\n"
	_, err := Load(strings.NewReader(src), "acc")
	var noDate *MissingDateInputError
	require.ErrorAs(t, err, &noDate)

	// A mapping without a date field does not need date_input.
	_, err = Load(strings.NewReader(sampleConfig), "nodate")
	assert.NoError(t, err)
}

func TestLoadInvalidPattern(t *testing.T) {
	src := "acc:\n  items:\n    M: 1\n  substitutions:\n    M:\n      \"[\": oops\n"
	_, err := Load(strings.NewReader(src), "acc")
	var badPattern *InvalidPatternError
	require.ErrorAs(t, err, &badPattern)
	assert.Equal(t, "M", badPattern.Field)
	assert.Equal(t, "[", badPattern.Pattern)
}

func TestLoadRejectsBadFieldValues(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"zero position", "acc:\n  items:\n    M: 0\n"},
		{"negative position", "acc:\n  items:\n    M: -3\n"},
		{"empty header name", "acc:\n  items:\n    M: \"\"\n"},
		{"nested value", "acc:\n  items:\n    M:\n      x: 1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.src), "acc")
			assert.Error(t, err)
		})
	}
}

func TestLoadRejectsBadDelimiter(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty", "acc:\n  delimiter: \"\"\n  items:\n    M: 1\n"},
		{"multi character", "acc:\n  delimiter: \";;\"\n  items:\n    M: 1\n"},
		{"word", "acc:\n  delimiter: tab\n  items:\n    M: 1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.src), "acc")
			assert.Error(t, err)
		})
	}
}

func TestLoadRejectsUnknownOption(t *testing.T) {
	src := "acc:\n  items:\n    M: 1\n  delimiters: \";\"\n"
	_, err := Load(strings.NewReader(src), "acc")
	assert.Error(t, err)
}

func TestLoadRejectsMixedStyles(t *testing.T) {
	src := "acc:\n  M: 1\n  items:\n    T: 2\n"
	_, err := Load(strings.NewReader(src), "acc")
	assert.Error(t, err)
}
