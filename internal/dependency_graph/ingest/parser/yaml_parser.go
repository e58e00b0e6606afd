package parser

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

func (n *NodeSpec) UnmarshalYAML(value *yaml.Node) error {
	var raw any
	if err := value.Decode(&raw); err != nil {
		return err
	}
	spec, err := nodeFromValue(raw)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*n = spec
	return nil
}

func (e *EdgeSpec) UnmarshalYAML(value *yaml.Node) error {
	var raw any
	if err := value.Decode(&raw); err != nil {
		return err
	}
	spec, err := edgeFromValue(raw)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*e = spec
	return nil
}

func (n NodeSpec) MarshalYAML() (any, error) {
	return n.toMap(), nil
}

func (e EdgeSpec) MarshalYAML() (any, error) {
	return e.toMap(), nil
}

func ParseYAML(path string) (*Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseYAMLBytes(b)
}

func ParseYAMLBytes(b []byte) (*Document, error) {
	var d Document
	if err := yaml.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return &d, nil
}

func ParseYAMLString(s string) (*Document, error) {
	return ParseYAMLBytes([]byte(s))
}
