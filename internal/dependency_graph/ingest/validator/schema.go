package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/domain"
	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/ingest/parser"
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidValue, fmt.Sprintf(format, args...))
}

// Validate checks a standalone document before it is turned into a graph:
// node ids present and unique, link endpoints present, declared and
// distinct. All problems are reported together.
func Validate(d *parser.Document) error {
	if d == nil {
		return invalid("document is nil")
	}

	var errs []error
	seen := map[string]bool{}
	for i, n := range d.Nodes {
		id := strings.TrimSpace(n.ID)
		if id == "" {
			errs = append(errs, invalid("nodes[%d]: id is empty", i))
			continue
		}
		if seen[id] {
			errs = append(errs, invalid("nodes[%d]: duplicate node %q", i, id))
			continue
		}
		seen[id] = true
	}

	for i, e := range d.Links() {
		src, tgt := strings.TrimSpace(e.Source), strings.TrimSpace(e.Target)
		switch {
		case src == "" || tgt == "":
			errs = append(errs, invalid("dependencies[%d]: empty source/target", i))
		case src == tgt:
			errs = append(errs, invalid("dependencies[%d]: self-loop on %q", i, src))
		case !seen[src]:
			errs = append(errs, invalid("dependencies[%d]: unknown source %q", i, src))
		case !seen[tgt]:
			errs = append(errs, invalid("dependencies[%d]: unknown target %q", i, tgt))
		}
	}

	return errors.Join(errs...)
}
