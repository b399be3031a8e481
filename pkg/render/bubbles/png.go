package bubbles

import (
	"bytes"
	"fmt"
	"math"

	"github.com/fogleman/gg"

	"github.com/matzehuels/bubblecloud/pkg/snapshot"
)

// pngCharWidth approximates the advance of gg's default 7x13 face.
const pngCharWidth = 7.0

// RenderPNG rasterizes snap with gg.
func RenderPNG(snap snapshot.Snapshot, opts ...Option) ([]byte, error) {
	o := newOptions(opts...)
	p := o.palette

	w := int(math.Ceil(snap.Size.Width * o.scale))
	h := int(math.Ceil(snap.Size.Height * o.scale))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("render png: empty surface %vx%v", snap.Size.Width, snap.Size.Height)
	}

	dc := gg.NewContext(w, h)
	dc.Scale(o.scale, o.scale)
	dc.SetHexColor(p.Background)
	dc.Clear()

	if o.boundary {
		cx, cy := snap.Size.Width/2, snap.Size.Height/2
		dc.SetHexColor(p.BoundaryStroke)
		dc.SetLineWidth(1)
		dc.DrawLine(cx-10, cy, cx+10, cy)
		dc.DrawLine(cx, cy-10, cx, cy+10)
		dc.Stroke()
	}

	for _, n := range snap.Nodes {
		fill, text := p.Fill, p.Text
		if n.Selected {
			fill, text = p.SelectedFill, p.SelectedText
		}

		dc.DrawCircle(n.X, n.Y, n.Radius)
		dc.SetHexColor(fill)
		dc.FillPreserve()
		dc.SetHexColor(p.Stroke)
		dc.SetLineWidth(1.5)
		dc.Stroke()

		if o.labels {
			if label := fitLabel(n.Label, n.Radius, pngCharWidth); label != "" {
				dc.SetHexColor(text)
				dc.DrawStringAnchored(label, n.X, n.Y, 0.5, 0.35)
			}
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
