package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/domain"
	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/ingest/mapper"
	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/ingest/parser"
	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/ingest/validator"
	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/service"
	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/logging"
)

// loadGraph parses, validates and maps the document at path.
func loadGraph(path string) (*domain.Graph, error) {
	doc, err := parser.ParseFile(path)
	if err != nil {
		return nil, err
	}
	if err := validator.Validate(doc); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	g, err := mapper.ToGraph(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// loadService wraps the graph at path in a service so commands share the
// API's analysis code.
func loadService(path string) (*service.GraphService, error) {
	g, err := loadGraph(path)
	if err != nil {
		return nil, err
	}
	return service.New(g, service.WithLogger(logging.Discard())), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
