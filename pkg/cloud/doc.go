// Package cloud implements the layout and interaction core of a bubble cloud
// picker.
//
// A [Surface] holds an ordered collection of circular [Node] values. New
// nodes enter from outside the visible frame (see [Place]), a radial field
// derived from the surface size pulls them toward the center (see
// [DeriveField]), and an [Integrator] resolves collisions and keeps them
// inside a containment boundary. Pointer input perturbs the layout and drives
// selection.
//
// # Host Responsibilities
//
// The surface does not own a clock or an event source. The host:
//
//   - calls [Surface.Step] once per rendered frame,
//   - forwards pointer motion to [Surface.ApplyDragForce],
//   - forwards pointer release to [Surface.ResolveTap] and cancellation to
//     [Surface.PointerCancel],
//   - calls [Surface.Configure] when its viewport changes size.
//
// All calls must come from a single goroutine. Hosts that receive input on
// several goroutines serialize access themselves.
//
// # Selection
//
// Selection state lives on the nodes; [Surface.SelectedNodes] filters the
// collection on every call. Tapping an unselected node selects it and, when
// multiple selection is disabled, first deselects the currently selected
// node. Tapping a selected node does nothing. A [Listener] is told about
// every transition exactly once, deselection before selection.
//
// # Drag Impulses
//
// Every pointer move with a non-zero displacement (dx, dy) applies to each
// node the force (dx·k, dy·k) with k = 3·√d, where d is the node's distance
// from the current pointer location. Distant nodes receive larger impulses,
// which gives the cloud its characteristic whip.
package cloud
