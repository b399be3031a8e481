package cloud

import "github.com/matzehuels/bubblecloud/pkg/geom"

const (
	// placementRows is the number of entry rows new nodes cycle through.
	placementRows = 5

	// rowSpacing separates entry rows slightly so stacked nodes do not touch.
	rowSpacing = 1.01
)

// Place returns the off-surface entry position for the node that will sit at
// index idx once inserted.
//
// Nodes cycle through five rows; every five nodes the entry side flips. Even
// columns enter from the right edge, odd columns from the left:
//
//	row    = idx % 5
//	column = idx / 5
//	x      = surfaceWidth + width  (column even)
//	         -width                (column odd)
//	y      = row · height · 1.01
func Place(idx int, width, height, surfaceWidth float64) geom.Vec {
	row := idx % placementRows
	column := idx / placementRows

	x := -width
	if column%2 == 0 {
		x = surfaceWidth + width
	}
	return geom.Vec{X: x, Y: float64(row) * height * rowSpacing}
}
