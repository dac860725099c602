package main

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// decodeReader wraps r so the configured input encoding is decoded to UTF-8.
// UTF-8 input passes through untouched.
func decodeReader(r io.Reader, name string) (io.Reader, error) {
	enc, err := encodingByName(name)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return r, nil
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}

// encodingByName resolves the encoding names bank exports commonly declare.
// A nil encoding means the input is already UTF-8.
func encodingByName(name string) (encoding.Encoding, error) {
	normalized := strings.ToLower(strings.ReplaceAll(name, "_", "-"))
	switch normalized {
	case "", "utf-8", "utf8":
		return nil, nil
	case "latin-1", "latin1", "iso-8859-1", "iso8859-1":
		return charmap.ISO8859_1, nil
	case "iso-8859-2", "iso8859-2":
		return charmap.ISO8859_2, nil
	case "iso-8859-15", "iso8859-15":
		return charmap.ISO8859_15, nil
	case "windows-1250", "cp1250":
		return charmap.Windows1250, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	case "koi8-r", "koi8r":
		return charmap.KOI8R, nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
}
