package domain

// CriticalPath returns the shortest directed path from start to end by hop
// count, both ends included. ok is false when either id is unknown or end is
// unreachable. Among equal-length paths the first one found wins, with
// neighbours visited in sorted order.
func (g *Graph) CriticalPath(start, end string) (path []string, ok bool) {
	if !g.HasNode(start) || !g.HasNode(end) {
		return nil, false
	}
	if start == end {
		return []string{start}, true
	}

	parent := map[string]string{start: ""}
	queue := []string{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range g.Dependencies(cur) {
			if _, seen := parent[next]; seen {
				continue
			}
			parent[next] = cur
			if next == end {
				return unwind(parent, start, end), true
			}
			queue = append(queue, next)
		}
	}
	return nil, false
}

func unwind(parent map[string]string, start, end string) []string {
	var rev []string
	for cur := end; cur != start; cur = parent[cur] {
		rev = append(rev, cur)
	}
	rev = append(rev, start)
	out := make([]string, len(rev))
	for i, id := range rev {
		out[len(rev)-1-i] = id
	}
	return out
}
