// Package bubbles renders a snapshot as a cloud of labeled circles.
package bubbles

import (
	"bytes"
	"fmt"
	"html"

	"github.com/matzehuels/bubblecloud/pkg/snapshot"
)

const svgFontSize = 12.0

// RenderSVG renders snap as a standalone SVG document.
func RenderSVG(snap snapshot.Snapshot, opts ...Option) []byte {
	o := newOptions(opts...)
	p := o.palette
	w, h := snap.Size.Width, snap.Size.Height

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		w, h, w, h)
	fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%.1f" height="%.1f" fill="%s"/>`+"\n", w, h, p.Background)

	if o.boundary {
		cx, cy := w/2, h/2
		fmt.Fprintf(&buf, `  <path d="M %.1f %.1f H %.1f M %.1f %.1f V %.1f" stroke="%s" stroke-dasharray="4 4"/>`+"\n",
			cx-10, cy, cx+10, cx, cy-10, cy+10, p.BoundaryStroke)
	}

	for _, n := range snap.Nodes {
		renderNode(&buf, n, o)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderNode(buf *bytes.Buffer, n snapshot.Node, o options) {
	p := o.palette
	fill, text := p.Fill, p.Text
	class := "node"
	if n.Selected {
		fill, text = p.SelectedFill, p.SelectedText
		class = "node selected"
	}

	fmt.Fprintf(buf, `  <g class="%s" id="node-%s">`+"\n", class, html.EscapeString(n.ID))
	fmt.Fprintf(buf, `    <circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s" stroke="%s" stroke-width="1.5"/>`+"\n",
		n.X, n.Y, n.Radius, fill, p.Stroke)
	if o.labels {
		if label := fitLabel(n.Label, n.Radius, svgFontSize*0.6); label != "" {
			fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" font-family="sans-serif" font-size="%.0f" fill="%s" text-anchor="middle" dominant-baseline="central">%s</text>`+"\n",
				n.X, n.Y, svgFontSize, text, html.EscapeString(label))
		}
	}
	buf.WriteString("  </g>\n")
}
