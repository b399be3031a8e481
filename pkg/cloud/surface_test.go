package cloud

import (
	"bytes"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bubblecloud/pkg/errors"
	"github.com/matzehuels/bubblecloud/pkg/geom"
	"github.com/matzehuels/bubblecloud/pkg/physics"
)

func TestNewDefaults(t *testing.T) {
	s, err := New(geom.Size{Width: 300, Height: 600})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !s.AllowsMultipleSelection() {
		t.Error("AllowsMultipleSelection() = false, want true by default")
	}
	if s.State() != StateIdle {
		t.Errorf("State() = %v, want idle", s.State())
	}
	if s.Len() != 0 || len(s.SelectedNodes()) != 0 {
		t.Error("new surface is not empty")
	}
}

func TestNewInvalidSize(t *testing.T) {
	_, err := New(geom.Size{Width: 0, Height: 100})
	if !errors.Is(err, errors.ErrCodeInvalidSize) {
		t.Errorf("New error = %v, want %s", err, errors.ErrCodeInvalidSize)
	}
}

func TestEndToEndSixNodes(t *testing.T) {
	l := &recordingListener{}
	s, err := New(geom.Size{Width: 300, Height: 600}, WithListener(l))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	nodes := addNodes(t, s, 6, 30)

	rows := make([]int, len(nodes))
	for i, n := range nodes {
		rows[i] = int(n.Position().Y/(60*1.01) + 0.5)
	}
	if !slices.Equal(rows, []int{0, 1, 2, 3, 4, 0}) {
		t.Errorf("rows = %v, want [0 1 2 3 4 0]", rows)
	}
	if nodes[0].Position().X <= 300 {
		t.Errorf("node 0 enters at x=%v, want right of the surface", nodes[0].Position().X)
	}
	if nodes[5].Position().X >= 0 {
		t.Errorf("node 5 enters at x=%v, want left of the surface", nodes[5].Position().X)
	}

	for range 600 {
		s.Step(1.0 / 60)
	}

	for _, n := range nodes {
		if !s.Boundary().Contains(n.Position()) {
			t.Errorf("node %s at %v left the boundary", n.ID(), n.Position())
		}
	}
	for i := range nodes {
		for j := i + 1; j < len(nodes); j++ {
			if d := geom.Distance(nodes[i].Position(), nodes[j].Position()); d < 58 {
				t.Errorf("nodes %d and %d overlap: %v", i, j, d)
			}
		}
	}

	// Settled nodes are clustered around the center.
	center := s.Field().Center
	for _, n := range nodes {
		if d := geom.Distance(n.Position(), center); d > 200 {
			t.Errorf("node %s is %v from the center", n.ID(), d)
		}
	}

	hit := tap(s, nodes[2].Position())
	if hit != nodes[2] {
		t.Fatalf("tap on node 2 selected %v", hit)
	}
	tap(s, nodes[4].Position())
	if got := ids(s.SelectedNodes()); !slices.Equal(got, []string{"n2", "n4"}) {
		t.Errorf("SelectedNodes() = %v, want [n2 n4]", got)
	}
	if len(l.events) != 2 {
		t.Errorf("events = %v, want two selections", l.events)
	}
}

func TestStepDelegatesToIntegrator(t *testing.T) {
	rec := &recordingIntegrator{}
	s, _ := New(geom.Size{Width: 100, Height: 100}, WithIntegrator(rec))
	addNodes(t, s, 3, 5)

	s.Step(1.0 / 60)
	if rec.steps != 1 || rec.lastBodies != 3 {
		t.Errorf("integrator steps=%d bodies=%d, want 1 and 3", rec.steps, rec.lastBodies)
	}
}

func TestStepConsumesDragForces(t *testing.T) {
	s, _ := New(geom.Size{Width: 300, Height: 600}, WithIntegrator(physics.New(physics.Config{})))
	n := adoptAt(t, s, "a", 20, geom.Vec{X: 150, Y: 300})

	s.ApplyDragForce(geom.Vec{X: 0, Y: 0}, geom.Vec{X: 10, Y: 0})
	s.Step(1.0 / 60)

	if n.Force() != (geom.Vec{}) {
		t.Errorf("force after step = %v, want cleared", n.Force())
	}
	if n.Velocity().X <= 0 {
		t.Errorf("velocity = %v, want pushed along the drag", n.Velocity())
	}
}

func TestRemoveNode(t *testing.T) {
	l := &recordingListener{}
	s := newTestSurface(t, true, WithListener(l))
	nodes := addNodes(t, s, 4, 10)
	nodes[1].selected = true

	if err := s.RemoveNode("n1"); err != nil {
		t.Fatalf("RemoveNode: %v", err)
	}
	if got := ids(s.Nodes()); !slices.Equal(got, []string{"n0", "n2", "n3"}) {
		t.Errorf("Nodes() = %v, want [n0 n2 n3]", got)
	}
	if len(s.SelectedNodes()) != 0 {
		t.Error("removed node still selected")
	}
	if len(l.events) != 0 {
		t.Errorf("removal fired events %v", l.events)
	}

	if err := s.RemoveNode("n1"); !errors.Is(err, errors.ErrCodeNodeNotFound) {
		t.Errorf("second RemoveNode error = %v, want %s", err, errors.ErrCodeNodeNotFound)
	}

	// Placement continues from the current count.
	n := mustNode(t, 10, WithID("late"))
	if err := s.AddNode(n); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if want := Place(3, 20, 20, 300); n.Position() != want {
		t.Errorf("position after removal = %v, want %v", n.Position(), want)
	}
}

func TestDeselect(t *testing.T) {
	l := &recordingListener{}
	s := newTestSurface(t, true, WithListener(l))
	a := adoptAt(t, s, "a", 10, geom.Vec{X: 50, Y: 50})
	b := adoptAt(t, s, "b", 10, geom.Vec{X: 150, Y: 50})
	tap(s, a.Position())
	tap(s, b.Position())

	if err := s.Deselect("a"); err != nil {
		t.Fatalf("Deselect: %v", err)
	}
	if err := s.Deselect("a"); err != nil {
		t.Fatalf("Deselect twice: %v", err)
	}
	if err := s.Deselect("missing"); !errors.Is(err, errors.ErrCodeNodeNotFound) {
		t.Errorf("Deselect(missing) error = %v", err)
	}
	s.DeselectAll()

	want := []string{"select:a", "select:b", "deselect:a", "deselect:b"}
	if !slices.Equal(l.events, want) {
		t.Errorf("events = %v, want %v", l.events, want)
	}
}

func TestSettlesOnWideSurfaces(t *testing.T) {
	tests := []struct {
		name  string
		size  geom.Size
		count int
	}{
		{"landscape 10", geom.Size{Width: 800, Height: 200}, 10},
		{"landscape 20", geom.Size{Width: 800, Height: 200}, 20},
		{"portrait 20", geom.Size{Width: 300, Height: 600}, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.size)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			nodes := addNodes(t, s, tt.count, 30)

			const frames = 3000
			minGap := math.Inf(1)
			var before []geom.Vec
			for f := range frames {
				if f == frames-60 {
					before = positions(nodes)
				}
				s.Step(1.0 / 60)
				if f >= frames-600 {
					minGap = math.Min(minGap, closestGap(nodes))
				}
			}

			if minGap < -1 {
				t.Errorf("minimum gap over the last 600 frames = %.2f, want >= -1", minGap)
			}
			b := s.Boundary()
			for _, n := range nodes {
				p, r := n.Position(), n.Radius()
				if p.X-r < b.MinX()-1e-6 || p.X+r > b.MaxX()+1e-6 || p.Y-r < b.MinY()-1e-6 || p.Y+r > b.MaxY()+1e-6 {
					t.Errorf("node %s at %v sticks out of %+v", n.ID(), p, b)
				}
			}
			for i, p := range before {
				if d := geom.Distance(p, nodes[i].Position()); d > 5 {
					t.Errorf("node %s moved %.2f in the last second, want settled", nodes[i].ID(), d)
				}
			}
		})
	}
}

func positions(nodes []*Node) []geom.Vec {
	out := make([]geom.Vec, len(nodes))
	for i, n := range nodes {
		out[i] = n.Position()
	}
	return out
}

// closestGap returns the smallest edge-to-edge distance between any two
// nodes; negative values are overlaps.
func closestGap(nodes []*Node) float64 {
	gap := math.Inf(1)
	for i := range nodes {
		for j := i + 1; j < len(nodes); j++ {
			d := geom.Distance(nodes[i].Position(), nodes[j].Position())
			gap = math.Min(gap, d-nodes[i].Radius()-nodes[j].Radius())
		}
	}
	return gap
}

func TestDuplicateIDsRejected(t *testing.T) {
	s := newTestSurface(t, true)
	addNodes(t, s, 2, 10)

	if err := s.AddNode(mustNode(t, 10, WithID("n1"))); !errors.Is(err, errors.ErrCodeInvalidNode) {
		t.Errorf("AddNode(duplicate) error = %v, want %s", err, errors.ErrCodeInvalidNode)
	}
	if err := s.Adopt(mustNode(t, 10, WithID("n0"))); !errors.Is(err, errors.ErrCodeInvalidNode) {
		t.Errorf("Adopt(duplicate) error = %v, want %s", err, errors.ErrCodeInvalidNode)
	}
	if err := s.AddNode(nil); !errors.Is(err, errors.ErrCodeInvalidNode) {
		t.Errorf("AddNode(nil) error = %v, want %s", err, errors.ErrCodeInvalidNode)
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d after rejected inserts, want 2", s.Len())
	}

	// A removed id can be reused.
	if err := s.RemoveNode("n1"); err != nil {
		t.Fatalf("RemoveNode: %v", err)
	}
	if err := s.AddNode(mustNode(t, 10, WithID("n1"))); err != nil {
		t.Errorf("AddNode after removal: %v", err)
	}
}

func TestAdoptKeepsState(t *testing.T) {
	l := &recordingListener{}
	s := newTestSurface(t, true, WithListener(l))
	n := mustNode(t, 10, WithPosition(geom.Vec{X: 7, Y: 8}), WithSelected(true))
	if err := s.Adopt(n); err != nil {
		t.Fatalf("Adopt: %v", err)
	}

	if n.Position() != (geom.Vec{X: 7, Y: 8}) {
		t.Errorf("position = %v, want (7, 8)", n.Position())
	}
	if len(s.SelectedNodes()) != 1 || len(l.events) != 0 {
		t.Errorf("adopt: selected=%d events=%v", len(s.SelectedNodes()), l.events)
	}
}

func TestNodesReturnsCopy(t *testing.T) {
	s := newTestSurface(t, true)
	addNodes(t, s, 2, 10)
	nodes := s.Nodes()
	nodes[0] = nil
	if s.Nodes()[0] == nil {
		t.Error("Nodes() exposes internal slice")
	}
	if _, ok := s.Node("n1"); !ok {
		t.Error("Node(n1) not found")
	}
	if _, ok := s.Node("zz"); ok {
		t.Error("Node(zz) found")
	}
}

func TestListenerFuncs(t *testing.T) {
	var got []string
	l := ListenerFuncs{Select: func(n *Node) { got = append(got, "s:"+n.ID()) }}
	s := newTestSurface(t, false, WithListener(l))
	a := adoptAt(t, s, "a", 10, geom.Vec{X: 50, Y: 50})
	b := adoptAt(t, s, "b", 10, geom.Vec{X: 150, Y: 50})

	tap(s, a.Position())
	tap(s, b.Position())
	if !slices.Equal(got, []string{"s:a", "s:b"}) {
		t.Errorf("got %v", got)
	}
}

func TestDebugLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	s := newTestSurface(t, true, WithLogger(logger))
	a := adoptAt(t, s, "a", 10, geom.Vec{X: 50, Y: 50})
	tap(s, a.Position())

	if !strings.Contains(buf.String(), "selected node") {
		t.Errorf("log output %q does not mention the selection", buf.String())
	}
}
