package domain

// Stats is an aggregate snapshot of the graph topology.
type Stats struct {
	NodeCount           int            `json:"node_count" yaml:"node_count"`
	EdgeCount           int            `json:"edge_count" yaml:"edge_count"`
	IsDAG               bool           `json:"is_dag" yaml:"is_dag"`
	ConnectedComponents int            `json:"connected_components" yaml:"connected_components"`
	Density             float64        `json:"density" yaml:"density"`
	NodeTypes           map[string]int `json:"node_types" yaml:"node_types"`
	AvgInDegree         float64        `json:"avg_in_degree" yaml:"avg_in_degree"`
	AvgOutDegree        float64        `json:"avg_out_degree" yaml:"avg_out_degree"`
	MaxInDegree         int            `json:"max_in_degree" yaml:"max_in_degree"`
	MaxOutDegree        int            `json:"max_out_degree" yaml:"max_out_degree"`
}

// Stats computes counts, DAG-ness, weak components, density, the kind
// distribution and degree aggregates straight from the indexes.
func (g *Graph) Stats() Stats {
	n := len(g.nodes)
	s := Stats{
		NodeCount:           n,
		EdgeCount:           len(g.edges),
		IsDAG:               !g.HasCycles(),
		ConnectedComponents: len(g.Components()),
		NodeTypes:           map[string]int{},
	}
	if n > 1 {
		s.Density = float64(s.EdgeCount) / float64(n*(n-1))
	}
	if n == 0 {
		return s
	}

	var inSum, outSum int
	for id, ent := range g.nodes {
		s.NodeTypes[string(ent.node.Kind)]++
		in, out := g.inDegree(id), g.outDegree(id)
		inSum += in
		outSum += out
		if in > s.MaxInDegree {
			s.MaxInDegree = in
		}
		if out > s.MaxOutDegree {
			s.MaxOutDegree = out
		}
	}
	s.AvgInDegree = float64(inSum) / float64(n)
	s.AvgOutDegree = float64(outSum) / float64(n)
	return s
}

// Components returns the weakly connected components, each in discovery
// order, ordered by their first node's insertion position.
func (g *Graph) Components() [][]string {
	v := g.derived()
	seen := make(map[string]bool, len(v.nodes))
	var out [][]string
	for _, n := range v.nodes {
		if seen[n.ID] {
			continue
		}
		seen[n.ID] = true
		comp := []string{n.ID}
		for i := 0; i < len(comp); i++ {
			for _, nb := range v.adj[comp[i]] {
				if !seen[nb] {
					seen[nb] = true
					comp = append(comp, nb)
				}
			}
		}
		out = append(out, comp)
	}
	return out
}
