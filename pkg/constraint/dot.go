package constraint

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
)

// ToDOT returns a Graphviz DOT representation of the constraint graph.
//
// Vertices are labeled with their key and, once the graph is finalized, their
// distance. Anchor edges from start are drawn dotted, pin edges bold and
// dropped edges dashed red. Each forward/backward pair is drawn once, as the
// edge with the non-negative weight. Dropped edges are always drawn, whatever
// their weight.
func (g *Graph) ToDOT() string {
	var buf bytes.Buffer
	buf.WriteString("digraph Constraints {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontname=\"SF Mono, Menlo, monospace\", fontsize=12, shape=box, style=\"rounded,filled\", fillcolor=white];\n\n")

	for i, v := range g.vertices {
		label := v.key
		if g.finalized && v.dist != unreached {
			label = fmt.Sprintf("%s\n%d", v.key, v.dist)
		}
		fmt.Fprintf(&buf, "  v%d [label=%q];\n", i, label)
	}

	buf.WriteString("\n")
	for u, v := range g.vertices {
		for _, e := range v.edges {
			if !e.dropped && (e.weight < 0 || (e.weight == 0 && e.to < u && e.kind != kindAnchor)) {
				continue
			}
			fmt.Fprintf(&buf, "  v%d -> v%d [label=\"%d\"%s];\n", u, e.to, e.weight, edgeStyle(e))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func edgeStyle(e edge) string {
	switch {
	case e.dropped:
		return ", style=dashed, color=red, fontcolor=red"
	case e.kind == kindAnchor:
		return ", style=dotted, color=gray"
	case e.kind == kindPin:
		return ", style=bold"
	}
	return ""
}

// RenderSVG renders a DOT document to SVG with the embedded Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
