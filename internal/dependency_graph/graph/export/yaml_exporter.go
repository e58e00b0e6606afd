package export

import (
	"bytes"
	"os"

	"gopkg.in/yaml.v3"
)

func MarshalYAML(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func WriteYAML(path string, v any) error {
	b, err := MarshalYAML(v)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
