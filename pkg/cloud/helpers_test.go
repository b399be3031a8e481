package cloud

import (
	"fmt"
	"testing"

	"github.com/matzehuels/bubblecloud/pkg/geom"
	"github.com/matzehuels/bubblecloud/pkg/physics"
)

// recordingIntegrator captures what the surface hands to its integrator.
type recordingIntegrator struct {
	fields     []physics.Field
	boundaries []geom.Rect
	steps      int
	lastBodies int
}

func (r *recordingIntegrator) SetField(f physics.Field) { r.fields = append(r.fields, f) }
func (r *recordingIntegrator) SetBoundary(b geom.Rect)  { r.boundaries = append(r.boundaries, b) }
func (r *recordingIntegrator) Step(bodies []physics.Body, dt float64) {
	r.steps++
	r.lastBodies = len(bodies)
}

// recordingListener logs selection events as "select:<id>" / "deselect:<id>".
type recordingListener struct {
	events []string
}

func (l *recordingListener) OnSelect(n *Node)   { l.events = append(l.events, "select:"+n.ID()) }
func (l *recordingListener) OnDeselect(n *Node) { l.events = append(l.events, "deselect:"+n.ID()) }

func newTestSurface(t *testing.T, multi bool, opts ...Option) *Surface {
	t.Helper()
	opts = append([]Option{WithMultipleSelection(multi), WithIntegrator(&recordingIntegrator{})}, opts...)
	s, err := New(geom.Size{Width: 300, Height: 600}, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func mustNode(t *testing.T, radius float64, opts ...NodeOption) *Node {
	t.Helper()
	n, err := NewNode(radius, opts...)
	if err != nil {
		t.Fatalf("NewNode: %v", err)
	}
	return n
}

func addNodes(t *testing.T, s *Surface, count int, radius float64) []*Node {
	t.Helper()
	nodes := make([]*Node, count)
	for i := range nodes {
		nodes[i] = mustNode(t, radius, WithID(fmt.Sprintf("n%d", i)))
		if err := s.AddNode(nodes[i]); err != nil {
			t.Fatalf("AddNode: %v", err)
		}
	}
	return nodes
}

// adoptAt places a node of the given radius at p without planning.
func adoptAt(t *testing.T, s *Surface, id string, radius float64, p geom.Vec) *Node {
	t.Helper()
	n := mustNode(t, radius, WithID(id), WithPosition(p))
	if err := s.Adopt(n); err != nil {
		t.Fatalf("Adopt: %v", err)
	}
	return n
}

// tap performs a press and release at p.
func tap(s *Surface, p geom.Vec) *Node {
	s.PointerDown(p)
	return s.ResolveTap(p)
}
