package service

import (
	"errors"

	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/domain"
)

// ErrNoPath is returned by FindPath when both nodes exist but are not
// connected in the dependency direction.
var ErrNoPath = errors.New("no path found")

// CriticalNode is a node whose failure would affect many others.
type CriticalNode struct {
	ID          string `json:"id" yaml:"id"`
	Type        string `json:"type" yaml:"type"`
	ImpactCount int    `json:"impact_count" yaml:"impact_count"`
	Dependents  int    `json:"dependents" yaml:"dependents"`
}

// GraphStats extends the topology stats with failure analysis.
type GraphStats struct {
	domain.Stats  `yaml:",inline"`
	CriticalNodes []CriticalNode `json:"critical_nodes" yaml:"critical_nodes"`
	HasCycles     bool           `json:"has_cycles" yaml:"has_cycles"`
	// Version is the graph version the stats describe.
	Version uint64 `json:"version" yaml:"version"`
}

type PathResult struct {
	Source string   `json:"source"`
	Target string   `json:"target"`
	Path   []string `json:"path"`
	Length int      `json:"length"`
}

type ImpactAnalysis struct {
	Source        string          `json:"source"`
	ImpactedNodes []string        `json:"impacted_nodes"`
	ImpactCount   int             `json:"impact_count"`
	MaxDepth      *int            `json:"max_depth"`
	Depths        map[string]int  `json:"depths"`
	Severity      domain.Severity `json:"severity"`
}

type CycleReport struct {
	HasCycles bool       `json:"has_cycles"`
	Cycles    [][]string `json:"cycles"`
	Count     int        `json:"count"`
}

type Topology struct {
	IsDAG   bool       `json:"is_dag"`
	Order   []string   `json:"order"`
	Levels  [][]string `json:"levels,omitempty"`
	Message string     `json:"message,omitempty"`
}

type ValidationReport struct {
	Valid  bool     `json:"valid"`
	Issues []string `json:"issues"`
}

type NodeMetrics struct {
	InDegree    int `json:"in_degree"`
	OutDegree   int `json:"out_degree"`
	ImpactCount int `json:"impact_count"`
}

type NodeDetail struct {
	domain.NodeDoc
	Dependencies []string    `json:"dependencies"`
	Dependents   []string    `json:"dependents"`
	ImpactRadius []string    `json:"impact_radius"`
	Metrics      NodeMetrics `json:"metrics"`
}

// SeverityFor grades an impact by the share of the other nodes it reaches.
func SeverityFor(impacted, nodeCount int) domain.Severity {
	if impacted <= 0 || nodeCount <= 1 {
		return domain.SeverityLow
	}
	share := float64(impacted) / float64(nodeCount-1)
	switch {
	case share < 0.25:
		return domain.SeverityMedium
	case share < 0.5:
		return domain.SeverityHigh
	default:
		return domain.SeverityCritical
	}
}
