package export

import (
	"fmt"
	"strings"

	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/domain"
)

var kindStyle = map[string]string{
	string(domain.NodeDatabase):     `shape=cylinder,style="filled",fillcolor="#fff3cd"`,
	string(domain.NodeCache):        `shape=box3d,style="filled",fillcolor="#e2f0d9"`,
	string(domain.NodeQueue):        `shape=cds,style="filled",fillcolor="#fde2e4"`,
	string(domain.NodeEventStream):  `shape=cds,style="filled",fillcolor="#f3e8ff"`,
	string(domain.NodeStorage):      `shape=folder,style="filled",fillcolor="#fff3cd"`,
	string(domain.NodeLoadBalancer): `shape=invtrapezium,style="filled",fillcolor="#e0f7fa"`,
	string(domain.NodeAPI):          `shape=box,style="rounded,filled",fillcolor="#dbeafe"`,
	string(domain.NodeCustom):       `shape=octagon,style="filled",fillcolor="#eeeeee"`,
}

const defaultStyle = `shape=box,style="rounded,filled",fillcolor="#eef6ff"`

// ToDOT renders a graph snapshot as Graphviz DOT. Nodes listed in highlight
// and edges between two consecutive highlighted ids are drawn in red, which
// is how paths and cycles are marked.
func ToDOT(doc domain.Document, title string, highlight ...string) string {
	var b strings.Builder
	b.WriteString("digraph G {\n  rankdir=LR;\n  node [fontname=\"Helvetica\"];\n")
	if title != "" {
		fmt.Fprintf(&b, "  labelloc=\"t\"; label=%s; fontname=\"Helvetica\";\n", quote(title))
	}

	marked := map[string]bool{}
	markedEdge := map[domain.EdgeKey]bool{}
	for i, id := range highlight {
		marked[id] = true
		if i > 0 {
			markedEdge[domain.EdgeKey{Source: highlight[i-1], Target: id}] = true
		}
	}

	for _, n := range doc.Nodes {
		style, ok := kindStyle[n.Type]
		if !ok {
			style = defaultStyle
		}
		// \n inside a DOT string is a line break, so the parts are escaped
		// one by one
		label := escape(n.ID)
		if orig, ok := n.Metadata[domain.AttrOriginalType].(string); ok && n.Type == string(domain.NodeCustom) {
			label += `\n(` + escape(orig) + `)`
		} else if n.Type != string(domain.NodeService) {
			label += `\n<` + escape(n.Type) + `>`
		}
		if marked[n.ID] {
			style += `,color="#d62728",penwidth=2`
		}
		fmt.Fprintf(&b, "  %s [label=\"%s\", %s];\n", quote(n.ID), label, style)
	}

	for i, e := range doc.Edges {
		attrs := fmt.Sprintf("tooltip=\"edge#%d\"", i)
		if lbl := edgeLabel(e.Metadata); lbl != "" {
			attrs = fmt.Sprintf("label=%s, %s", quote(lbl), attrs)
		}
		if markedEdge[domain.EdgeKey{Source: e.Source, Target: e.Target}] {
			attrs += `, color="#d62728", penwidth=2`
		}
		fmt.Fprintf(&b, "  %s -> %s [%s];\n", quote(e.Source), quote(e.Target), attrs)
	}

	b.WriteString("}\n")
	return b.String()
}

// edgeLabel shows the protocol when there is one, then the remaining scalar
// metadata as key=value pairs in key order.
func edgeLabel(meta map[string]any) string {
	if len(meta) == 0 {
		return ""
	}
	var parts []string
	if p, ok := meta["protocol"].(string); ok && p != "" {
		parts = append(parts, p)
	}
	for _, k := range domain.Attrs(meta).Keys() {
		if k == "protocol" {
			continue
		}
		switch v := meta[k].(type) {
		case string, bool, float64:
			parts = append(parts, fmt.Sprintf("%s=%v", k, v))
		}
	}
	return strings.Join(parts, ", ")
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\r\n", `\n`, "\n", `\n`, "\r", `\n`)

func escape(s string) string { return dotEscaper.Replace(s) }

// quote renders s as a DOT double-quoted string.
func quote(s string) string {
	return `"` + escape(s) + `"`
}
