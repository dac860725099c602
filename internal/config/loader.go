package config

import (
	"fmt"
	"io"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/tlamer/pyqif/internal/qif"
)

// Load reads the YAML configuration from r and returns the settings of the
// named account merged over the tool defaults. The account's own entries win
// on conflict.
func Load(r io.Reader, account string) (*AccountConfig, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading configuration: %w", err)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	section := findSection(&root, account)
	if section == nil {
		return nil, &SectionNotFoundError{Account: account}
	}

	return decodeSection(account, section)
}

// findSection locates the mapping node of the given account in the document.
func findSection(root *yaml.Node, account string) *yaml.Node {
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil
	}
	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(doc.Content); i += 2 {
		if doc.Content[i].Value == account {
			return doc.Content[i+1]
		}
	}
	return nil
}

// decodeSection walks one account section, applying defaults for options the
// section leaves unset. Both configuration styles are accepted here: an
// explicit items mapping, or flat short keys naming field codes directly.
// Either way the result is the same normalized AccountConfig.
func decodeSection(account string, node *yaml.Node) (*AccountConfig, error) {
	cfg := &AccountConfig{
		Account:       account,
		Type:          DefaultType,
		Encoding:      DefaultEncoding,
		DateOutput:    DefaultDateOutput,
		Delimiter:     DefaultDelimiter,
		Substitutions: SubstitutionTable{},
	}

	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("account %q: section is not a mapping", account)
	}

	var flat FieldMapping
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]

		switch key.Value {
		case "type":
			if err := val.Decode(&cfg.Type); err != nil {
				return nil, fmt.Errorf("account %q: type: %w", account, err)
			}
		case "encoding":
			if err := val.Decode(&cfg.Encoding); err != nil {
				return nil, fmt.Errorf("account %q: encoding: %w", account, err)
			}
		case "delimiter":
			var s string
			if err := val.Decode(&s); err != nil {
				return nil, fmt.Errorf("account %q: delimiter: %w", account, err)
			}
			runes := []rune(s)
			if len(runes) != 1 {
				return nil, fmt.Errorf("account %q: delimiter %q must be a single character", account, s)
			}
			cfg.Delimiter = runes[0]
		case "date_input":
			if err := val.Decode(&cfg.DateInput); err != nil {
				return nil, fmt.Errorf("account %q: date_input: %w", account, err)
			}
		case "date_output":
			if err := val.Decode(&cfg.DateOutput); err != nil {
				return nil, fmt.Errorf("account %q: date_output: %w", account, err)
			}
		case "skip":
			if err := val.Decode(&cfg.Skip); err != nil {
				return nil, fmt.Errorf("account %q: skip: %w", account, err)
			}
			if cfg.Skip < 0 {
				return nil, fmt.Errorf("account %q: skip must not be negative", account)
			}
		case "items":
			items, err := parseItems(account, val)
			if err != nil {
				return nil, err
			}
			cfg.Items = items
		case "substitutions":
			subs, err := parseSubstitutions(account, val)
			if err != nil {
				return nil, err
			}
			cfg.Substitutions = subs
		default:
			if len(key.Value) > 2 {
				return nil, fmt.Errorf("account %q: unknown option %q", account, key.Value)
			}
			entry, err := parseFieldValue(account, key.Value, val)
			if err != nil {
				return nil, err
			}
			flat = append(flat, entry)
		}
	}

	switch {
	case len(cfg.Items) == 0:
		cfg.Items = flat
	case len(flat) > 0:
		return nil, fmt.Errorf("account %q: mixes an items mapping with flat field keys", account)
	}
	if len(cfg.Items) == 0 {
		return nil, &MissingItemsError{Account: account}
	}
	if cfg.Type == "" {
		return nil, &MissingTypeError{Account: account}
	}

	for _, e := range cfg.Items {
		if e.Code == qif.DateField && cfg.DateInput == "" {
			return nil, &MissingDateInputError{Account: account}
		}
	}

	return cfg, nil
}

// parseItems decodes the items mapping, keeping declaration order.
func parseItems(account string, node *yaml.Node) (FieldMapping, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("account %q: items is not a mapping", account)
	}
	var items FieldMapping
	for i := 0; i+1 < len(node.Content); i += 2 {
		entry, err := parseFieldValue(account, node.Content[i].Value, node.Content[i+1])
		if err != nil {
			return nil, err
		}
		items = append(items, entry)
	}
	return items, nil
}

// parseFieldValue turns one field declaration into a FieldEntry: an integer
// is a fixed 1-based column, a string is a header label resolved later.
func parseFieldValue(account, code string, val *yaml.Node) (FieldEntry, error) {
	entry := FieldEntry{Code: code}
	switch val.Tag {
	case "!!int":
		pos, err := strconv.Atoi(val.Value)
		if err != nil {
			return entry, fmt.Errorf("account %q: field %q: %w", account, code, err)
		}
		if pos < 1 {
			return entry, fmt.Errorf("account %q: field %q: column %d is not a 1-based position", account, code, pos)
		}
		entry.Position = pos
	case "!!str":
		if val.Value == "" {
			return entry, fmt.Errorf("account %q: field %q: empty header name", account, code)
		}
		entry.Header = val.Value
	default:
		return entry, fmt.Errorf("account %q: field %q: want column number or header name, got %s", account, code, val.Tag)
	}
	return entry, nil
}

// parseSubstitutions decodes the per-field substitution rules. Patterns
// compile case-insensitively and keep their declaration order.
func parseSubstitutions(account string, node *yaml.Node) (SubstitutionTable, error) {
	subs := SubstitutionTable{}
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return subs, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("account %q: substitutions is not a mapping", account)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		field, rulesNode := node.Content[i].Value, node.Content[i+1]
		if rulesNode.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("account %q: substitutions for field %q is not a mapping", account, field)
		}
		var rules []Rule
		for j := 0; j+1 < len(rulesNode.Content); j += 2 {
			pattern := rulesNode.Content[j].Value
			re, err := regexp.Compile("(?i)" + pattern)
			if err != nil {
				return nil, &InvalidPatternError{Field: field, Pattern: pattern, Err: err}
			}
			rules = append(rules, Rule{Pattern: re, Replacement: rulesNode.Content[j+1].Value})
		}
		subs[field] = rules
	}
	return subs, nil
}
