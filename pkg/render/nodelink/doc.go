// Package nodelink renders the contact graph of a snapshot.
//
// Two nodes are in contact when their circles touch or overlap, within a
// tolerance. The graph is emitted as Graphviz DOT with every node pinned at
// its surface position, so the neato layout engine draws it in place rather
// than laying it out again:
//
//	dot := nodelink.ToDOT(snap, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// A settled cloud yields a dense, roughly planar graph; isolated vertices are
// nodes still drifting toward the field center.
package nodelink
