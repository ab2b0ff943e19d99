package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Encode serialises the schema back to indented JSON text. Parsing the result
// yields a value equal to s.
func Encode(s FormSchema) ([]byte, error) {
	clone := s
	if clone.Fields == nil {
		clone.Fields = []Field{}
	}
	data, err := json.MarshalIndent(clone, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("schema: encode: %w", err)
	}
	return data, nil
}

// Indent re-formats arbitrary JSON text with two-space indentation, keeping
// object keys in their original order.
func Indent(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(raw), "", "  "); err != nil {
		return nil, fmt.Errorf("schema: indent: %w", err)
	}
	return buf.Bytes(), nil
}
