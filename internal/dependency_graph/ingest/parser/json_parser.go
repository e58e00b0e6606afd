package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (n *NodeSpec) UnmarshalJSON(b []byte) error {
	raw, err := decodeJSONValue(b)
	if err != nil {
		return err
	}
	spec, err := nodeFromValue(raw)
	if err != nil {
		return err
	}
	*n = spec
	return nil
}

func (e *EdgeSpec) UnmarshalJSON(b []byte) error {
	raw, err := decodeJSONValue(b)
	if err != nil {
		return err
	}
	spec, err := edgeFromValue(raw)
	if err != nil {
		return err
	}
	*e = spec
	return nil
}

func (n NodeSpec) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.toMap())
}

func (e EdgeSpec) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.toMap())
}

func (n NodeSpec) toMap() map[string]any {
	m := map[string]any{"id": n.ID}
	if n.Type != "" {
		m["type"] = n.Type
	}
	if len(n.Attrs) > 0 {
		m["metadata"] = n.Attrs
	}
	return m
}

func (e EdgeSpec) toMap() map[string]any {
	m := map[string]any{"source": e.Source, "target": e.Target}
	if len(e.Attrs) > 0 {
		m["metadata"] = e.Attrs
	}
	return m
}

// decodeJSONValue keeps numbers as json.Number so integers are not rounded
// before attribute normalization.
func decodeJSONValue(b []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func ParseJSON(path string) (*Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseJSONBytes(b)
}

func ParseJSONBytes(b []byte) (*Document, error) {
	var d Document
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return &d, nil
}

func ParseJSONString(s string) (*Document, error) {
	return ParseJSONBytes([]byte(s))
}

// ParseFile picks the decoder from the file extension; anything that is not
// .json is read as YAML.
func ParseFile(path string) (*Document, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ParseJSON(path)
	}
	return ParseYAML(path)
}

// ParseBytes decodes b according to a media type or format name such as
// "application/json", "json", "yaml" or "". Unknown values fall back to
// YAML, which also accepts JSON input.
func ParseBytes(b []byte, format string) (*Document, error) {
	if strings.Contains(strings.ToLower(format), "json") {
		return ParseJSONBytes(b)
	}
	return ParseYAMLBytes(b)
}
