package domain

// Unbounded disables the hop limit of ImpactRadius and ImpactDepths.
const Unbounded = -1

// ImpactRadius returns the nodes that depend on id directly or
// transitively, in breadth-first discovery order. These are the nodes
// affected when id fails. id itself is excluded. A negative maxDepth means
// no limit and zero returns an empty slice.
func (g *Graph) ImpactRadius(id string, maxDepth int) []string {
	order, _ := g.impactWalk(id, maxDepth)
	return order
}

// ImpactDepths is ImpactRadius with the hop distance of every dependent.
func (g *Graph) ImpactDepths(id string, maxDepth int) map[string]int {
	_, depths := g.impactWalk(id, maxDepth)
	return depths
}

func (g *Graph) impactWalk(id string, maxDepth int) ([]string, map[string]int) {
	order := []string{}
	depths := map[string]int{}
	if !g.HasNode(id) || maxDepth == 0 {
		return order, depths
	}

	visited := map[string]bool{id: true}
	frontier := []string{id}
	for depth := 1; len(frontier) > 0; depth++ {
		if maxDepth >= 0 && depth > maxDepth {
			break
		}
		var next []string
		for _, cur := range frontier {
			for _, dep := range g.Dependents(cur) {
				if visited[dep] {
					continue
				}
				visited[dep] = true
				depths[dep] = depth
				order = append(order, dep)
				next = append(next, dep)
			}
		}
		frontier = next
	}
	return order, depths
}
