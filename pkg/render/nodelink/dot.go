package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/bubblecloud/pkg/geom"
	"github.com/matzehuels/bubblecloud/pkg/snapshot"
)

// pointsPerInch converts surface points to Graphviz inches.
const pointsPerInch = 72.0

// DefaultTolerance is the gap, in points, still counted as contact.
const DefaultTolerance = 2.0

// Options configures contact-graph rendering.
type Options struct {
	// Detailed includes radius and metadata in node labels.
	// When false, only the label is shown.
	Detailed bool

	// Tolerance is the largest gap between two circles still counted as
	// contact. Zero uses DefaultTolerance.
	Tolerance float64
}

// Edge is a contact between two nodes, by index into the snapshot.
type Edge struct {
	From, To int
}

// Contacts returns every pair of touching nodes in snap.
func Contacts(snap snapshot.Snapshot, tolerance float64) []Edge {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	var edges []Edge
	for i := range snap.Nodes {
		a := snap.Nodes[i]
		for j := i + 1; j < len(snap.Nodes); j++ {
			b := snap.Nodes[j]
			if geom.Distance(a.Position(), b.Position()) <= a.Radius+b.Radius+tolerance {
				edges = append(edges, Edge{From: i, To: j})
			}
		}
	}
	return edges
}

// ToDOT converts a snapshot to an undirected Graphviz graph of contacts.
// Node positions are pinned; render with [RenderSVG].
func ToDOT(snap snapshot.Snapshot, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fixedsize=true, fontsize=10];\n")
	buf.WriteString("\n")

	h := snap.Size.Height
	for _, n := range snap.Nodes {
		attrs := fmtAttrs(n, h, opts.Detailed)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range Contacts(snap, opts.Tolerance) {
		fmt.Fprintf(&buf, "  %q -- %q;\n", snap.Nodes[e.From].ID, snap.Nodes[e.To].ID)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n snapshot.Node, detailed bool) string {
	label := n.Label
	if label == "" {
		label = n.ID
	}
	if !detailed {
		return label
	}

	parts := []string{fmt.Sprintf("r: %g", n.Radius)}
	for _, k := range slices.Sorted(maps.Keys(n.Meta)) {
		parts = append(parts, fmt.Sprintf("%s: %s", k, n.Meta[k]))
	}
	return label + "\n" + strings.Join(parts, "\n")
}

// fmtAttrs flips y because Graphviz grows upward.
func fmtAttrs(n snapshot.Node, height float64, detailed bool) []string {
	x := n.X / pointsPerInch
	y := (height - n.Y) / pointsPerInch
	attrs := []string{
		fmt.Sprintf("label=%q", fmtLabel(n, detailed)),
		fmt.Sprintf("pos=\"%.3f,%.3f!\"", x, y),
		fmt.Sprintf("width=%.3f", 2*n.Radius/pointsPerInch),
	}
	if n.Selected {
		attrs = append(attrs, "fillcolor=\"#2f7fd8\"", "fontcolor=white")
	}
	return attrs
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

	gv.SetLayout(graphviz.NEATO)

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with one that
// scales to its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
