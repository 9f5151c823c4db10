// Package export renders layout trees as Graphviz graphs.
package export

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/Gaurav-Gosain/dwindle/internal/layout"
)

// ToDOT converts a tree snapshot to Graphviz DOT. Internal nodes are labelled
// with their split axis and ratio, leaves with their client name. An empty
// leaf is drawn dashed.
func ToDOT(root *layout.NodeView) string {
	var buf bytes.Buffer
	buf.WriteString("digraph layout {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"monospace\"];\n")
	buf.WriteString("\n")

	if root != nil {
		next := 0
		writeNode(&buf, root, &next)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeNode(buf *bytes.Buffer, v *layout.NodeView, next *int) string {
	id := fmt.Sprintf("n%d", *next)
	*next++

	fmt.Fprintf(buf, "  %s [%s];\n", id, strings.Join(nodeAttrs(v), ", "))
	for _, c := range v.Children {
		child := writeNode(buf, c, next)
		fmt.Fprintf(buf, "  %s -> %s;\n", id, child)
	}
	return id
}

func nodeAttrs(v *layout.NodeView) []string {
	switch {
	case !v.IsLeaf():
		label := fmt.Sprintf("%s\n%.2f", v.SplitDirection, v.SizeRatio)
		return []string{fmt.Sprintf("label=%q", label), "shape=ellipse", "fillcolor=lightgrey"}
	case v.Client == nil:
		return []string{`label="empty"`, `style="rounded,dashed"`}
	default:
		return []string{fmt.Sprintf("label=%q", v.Client.Name)}
	}
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
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
