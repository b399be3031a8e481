// Package pkg provides the core libraries for bubblecloud, a physics-driven
// bubble picker.
//
// # Overview
//
// A bubble cloud is a set of circular nodes on a rectangular surface. A
// radial gravity field pulls every node toward the center of the surface,
// nodes collide with each other and with an invisible boundary, dragging the
// pointer pushes the whole cloud, and tapping a node selects it. The pkg
// directory is organized into four areas:
//
//  1. [geom] and [physics] - Vector helpers and the rigid-body integrator
//  2. [cloud] - The surface: field derivation, placement, drag and tap
//  3. [snapshot], [store] and [cache] - Capturing, persisting and caching state
//  4. [render] - Drawing snapshots as SVG, PNG or a Graphviz contact graph
//
// # Architecture
//
// The typical data flow through bubblecloud:
//
//	host pointer and frame events
//	         ↓
//	    [cloud] package (surface, selection, drag forces)
//	         ↓
//	    [physics] package (field, collisions, boundary)
//	         ↓
//	    [snapshot] package (serializable state)
//	         ↓
//	    [store] / [render] (Redis, MongoDB, files; SVG, PNG, DOT)
//
// # Quick Start
//
//	s, _ := cloud.New(geom.Size{Width: 300, Height: 600})
//	for i, label := range []string{"Jazz", "Rock", "Soul"} {
//	    n, _ := cloud.NewNode(30, cloud.WithID(fmt.Sprint(i)), cloud.WithLabel(label))
//	    _ = s.AddNode(n)
//	}
//	for range 120 {
//	    s.Step(1.0 / 60)
//	}
//	s.PointerDown(geom.Vec{X: 150, Y: 300})
//	s.ResolveTap(geom.Vec{X: 150, Y: 300})
//
//	svg := bubbles.RenderSVG(snapshot.Capture(s))
//
// # Supporting Packages
//
// [errors] - Coded errors shared by every package; errors.Is matches codes.
//
// [observability] - Hook interfaces the surface and stores report through.
//
// [buildinfo] - Version information set at build time.
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/bubblecloud/pkg/geom
// [physics]: https://pkg.go.dev/github.com/matzehuels/bubblecloud/pkg/physics
// [cloud]: https://pkg.go.dev/github.com/matzehuels/bubblecloud/pkg/cloud
// [snapshot]: https://pkg.go.dev/github.com/matzehuels/bubblecloud/pkg/snapshot
// [store]: https://pkg.go.dev/github.com/matzehuels/bubblecloud/pkg/store
// [cache]: https://pkg.go.dev/github.com/matzehuels/bubblecloud/pkg/cache
// [render]: https://pkg.go.dev/github.com/matzehuels/bubblecloud/pkg/render
// [errors]: https://pkg.go.dev/github.com/matzehuels/bubblecloud/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/bubblecloud/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/bubblecloud/pkg/buildinfo
package pkg
