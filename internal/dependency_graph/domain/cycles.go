package domain

import (
	"fmt"
	"strings"
)

// FindCycles runs a depth-first search from every unvisited node, in
// insertion order, keeping the active path on a recursion stack. Reaching a
// node that is on the stack reports the path from that node's position with
// the node appended again to close the loop.
//
// Rotations of one loop may be reported more than once when cycles share
// nodes; every cyclic structure yields at least one entry.
func (g *Graph) FindCycles() [][]string {
	var (
		cycles  [][]string
		visited = make(map[string]bool, len(g.nodes))
		onStack = make(map[string]int, len(g.nodes)) // id -> index in path
		path    []string
	)

	var dfs func(id string)
	dfs = func(id string) {
		visited[id] = true
		onStack[id] = len(path)
		path = append(path, id)

		for _, next := range g.Dependencies(id) {
			if !visited[next] {
				dfs(next)
				continue
			}
			if idx, ok := onStack[next]; ok {
				cycle := make([]string, 0, len(path)-idx+1)
				cycle = append(cycle, path[idx:]...)
				cycle = append(cycle, next)
				cycles = append(cycles, cycle)
			}
		}

		path = path[:len(path)-1]
		delete(onStack, id)
	}

	for _, id := range g.NodeIDs() {
		if !visited[id] {
			dfs(id)
		}
	}
	return cycles
}

// HasCycles reports whether FindCycles would return anything.
func (g *Graph) HasCycles() bool {
	return len(g.FindCycles()) > 0
}

// Validate returns human-readable structural problems: dangling edge
// endpoints first, then one entry per detected cycle. An empty result means
// the graph is a DAG without dangling edges.
func (g *Graph) Validate() []string {
	var issues []string
	for _, e := range g.Edges() {
		if !g.HasNode(e.Source) {
			issues = append(issues, "Edge references non-existent source node: "+e.Source)
		}
		if !g.HasNode(e.Target) {
			issues = append(issues, "Edge references non-existent target node: "+e.Target)
		}
	}
	for _, c := range g.FindCycles() {
		issues = append(issues, fmt.Sprintf("Cycle detected: %s", FormatCycle(c)))
	}
	return issues
}

// FormatCycle renders a cycle as "a -> b -> a".
func FormatCycle(cycle []string) string {
	return strings.Join(cycle, " -> ")
}
