// Package render draws surface snapshots.
//
// # Overview
//
// Renderers take a snapshot.Snapshot and produce bytes; they never touch a
// live surface, so a host can render on another goroutine from a captured
// state. Two subpackages are provided:
//
//   - [bubbles]: the cloud itself, as SVG or PNG
//   - [nodelink]: the contact graph between touching nodes, via Graphviz
//
// All renderers draw the surface frame (0, 0)–(width, height) with y growing
// downward. Nodes still entering from outside the frame are clipped.
//
//	svg := bubbles.RenderSVG(snap)
//	png, err := bubbles.RenderPNG(snap, bubbles.WithScale(2))
//	dot := nodelink.ToDOT(snap, nodelink.Options{})
//
// [bubbles]: github.com/matzehuels/bubblecloud/pkg/render/bubbles
// [nodelink]: github.com/matzehuels/bubblecloud/pkg/render/nodelink
package render

// Formats supported by the renderers.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// Formats lists every output format in display order.
var Formats = []string{FormatSVG, FormatPNG, FormatJSON, FormatDOT}

// ValidFormat reports whether f is a supported output format.
func ValidFormat(f string) bool {
	switch f {
	case FormatSVG, FormatPNG, FormatJSON, FormatDOT:
		return true
	}
	return false
}
