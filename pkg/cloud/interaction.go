package cloud

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/bubblecloud/pkg/geom"
	"github.com/matzehuels/bubblecloud/pkg/observability"
)

// State is the pointer interaction state of a surface.
type State int

const (
	// StateIdle means no drag is in progress.
	StateIdle State = iota
	// StateDragging means the pointer has moved since it was pressed.
	StateDragging
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDragging:
		return "dragging"
	}
	return "unknown"
}

// dragScale multiplies √distance into the per-node drag factor.
const dragScale = 3

// State returns the current interaction state.
func (s *Surface) State() State { return s.state }

// DragForce returns the force a node at distance d from the pointer receives
// for a pointer displacement delta: delta · 3√d.
func DragForce(delta geom.Vec, d float64) geom.Vec {
	return r2.Scale(dragScale*math.Sqrt(d), delta)
}

// PointerDown records a press. It resets the interaction to idle so a stale
// drag cannot suppress the next tap.
func (s *Surface) PointerDown(geom.Vec) { s.state = StateIdle }

// ApplyDragForce handles a pointer move from prev to curr. A move without
// displacement is ignored. Otherwise the surface enters the dragging state
// and every node receives [DragForce] based on its distance from curr.
// It reports whether any force was applied.
func (s *Surface) ApplyDragForce(prev, curr geom.Vec) bool {
	if geom.Distance(prev, curr) == 0 {
		return false
	}
	s.state = StateDragging

	delta := r2.Sub(curr, prev)
	for _, n := range s.nodes {
		n.ApplyForce(DragForce(delta, geom.Distance(n.position, curr)))
	}
	observability.Simulation().OnDrag(delta.X, delta.Y, len(s.nodes))
	return true
}

// ResolveTap handles a pointer release at p.
//
// When no drag happened since the press, the first node in insertion order
// containing p is hit. An unselected hit node becomes selected; with
// multiple selection disabled the currently selected node is deselected
// first. A selected hit node, or no hit, changes nothing. The interaction
// always returns to idle. ResolveTap returns the newly selected node, or nil.
func (s *Surface) ResolveTap(p geom.Vec) *Node {
	defer func() { s.state = StateIdle }()

	if s.state == StateDragging {
		return nil
	}
	hit := s.HitTest(p)
	if hit == nil || hit.selected {
		return nil
	}
	if !s.allowsMultipleSelection {
		if selected := s.SelectedNodes(); len(selected) > 0 {
			s.deselect(selected[0])
		}
	}
	s.selectNode(hit)
	return hit
}

// PointerCancel abandons the current interaction without side effects.
func (s *Surface) PointerCancel() { s.state = StateIdle }

// HitTest returns the first node in insertion order containing p, or nil.
func (s *Surface) HitTest(p geom.Vec) *Node {
	for _, n := range s.nodes {
		if n.ContainsPoint(p) {
			return n
		}
	}
	return nil
}

func (s *Surface) selectNode(n *Node) {
	n.selected = true
	s.logger.Debug("selected node", "id", n.id)
	observability.Simulation().OnSelect(n.id)
	if s.listener != nil {
		s.listener.OnSelect(n)
	}
}

func (s *Surface) deselect(n *Node) {
	n.selected = false
	s.logger.Debug("deselected node", "id", n.id)
	observability.Simulation().OnDeselect(n.id)
	if s.listener != nil {
		s.listener.OnDeselect(n)
	}
}
