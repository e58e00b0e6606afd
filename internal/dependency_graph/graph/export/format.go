package export

import (
	"fmt"
	"strings"

	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/domain"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatDOT  Format = "dot"
)

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "dot", "graphviz":
		return FormatDOT, nil
	}
	return "", fmt.Errorf("%w: unsupported export format %q", domain.ErrInvalidValue, s)
}

// ContentType is the media type served for f.
func (f Format) ContentType() string {
	switch f {
	case FormatYAML:
		return "application/yaml"
	case FormatDOT:
		return "text/vnd.graphviz"
	default:
		return "application/json"
	}
}

// Render encodes doc in format f.
func Render(doc domain.Document, f Format, title string) ([]byte, error) {
	switch f {
	case FormatYAML:
		return MarshalYAML(doc)
	case FormatDOT:
		return []byte(ToDOT(doc, title)), nil
	case FormatJSON:
		return MarshalJSON(doc)
	}
	return nil, fmt.Errorf("%w: unsupported export format %q", domain.ErrInvalidValue, string(f))
}
