package domain

// TopologicalSort orders the nodes with Kahn's algorithm. ok is false when
// the graph has a cycle. A node comes before every node it depends on; ties
// follow a FIFO queue seeded in insertion order.
func (g *Graph) TopologicalSort() (order []string, ok bool) {
	levels, ok := g.kahn()
	if !ok {
		return nil, false
	}
	order = make([]string, 0, len(g.nodes))
	for _, lvl := range levels {
		order = append(order, lvl...)
	}
	return order, true
}

// Levels groups the topological order into layers: layer 0 holds nodes
// nothing depends on, layer k+1 holds nodes freed once layer k is removed.
func (g *Graph) Levels() ([][]string, bool) {
	return g.kahn()
}

// kahn processes the queue one wave at a time. Within and across waves the
// visiting order is identical to a plain FIFO run, so flattening the waves
// gives the FIFO topological order.
func (g *Graph) kahn() ([][]string, bool) {
	if g.HasCycles() {
		return nil, false
	}

	ids := g.NodeIDs()
	inDegree := make(map[string]int, len(ids))
	var queue []string
	for _, id := range ids {
		inDegree[id] = g.inDegree(id)
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	var (
		levels [][]string
		seen   int
	)
	for len(queue) > 0 {
		wave := queue
		queue = nil
		for _, id := range wave {
			for _, next := range g.Dependencies(id) {
				inDegree[next]--
				if inDegree[next] == 0 {
					queue = append(queue, next)
				}
			}
		}
		seen += len(wave)
		levels = append(levels, wave)
	}

	if seen != len(ids) {
		return nil, false
	}
	if levels == nil {
		levels = [][]string{}
	}
	return levels, true
}
