package cloud

import (
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bubblecloud/pkg/errors"
	"github.com/matzehuels/bubblecloud/pkg/geom"
	"github.com/matzehuels/bubblecloud/pkg/observability"
	"github.com/matzehuels/bubblecloud/pkg/physics"
)

// Integrator advances node positions. *physics.World satisfies it.
type Integrator interface {
	SetField(physics.Field)
	SetBoundary(geom.Rect)
	Step(bodies []physics.Body, dt float64)
}

// Surface is the bounded container holding the nodes, the derived field and
// boundary, and the interaction state. It is not safe for concurrent use.
type Surface struct {
	size     geom.Size
	nodes    []*Node
	bodies   []physics.Body
	field    Field
	boundary geom.Rect

	allowsMultipleSelection bool
	state                   State

	listener   Listener
	integrator Integrator
	logger     *log.Logger
}

// Option configures a [Surface].
type Option func(*Surface)

// WithListener sets the selection listener.
func WithListener(l Listener) Option { return func(s *Surface) { s.listener = l } }

// WithIntegrator replaces the default [physics.World].
func WithIntegrator(i Integrator) Option { return func(s *Surface) { s.integrator = i } }

// WithLogger sets the logger used for debug output. The default discards.
func WithLogger(l *log.Logger) Option { return func(s *Surface) { s.logger = l } }

// WithMultipleSelection sets the initial multi-select mode (default true).
func WithMultipleSelection(allow bool) Option {
	return func(s *Surface) { s.allowsMultipleSelection = allow }
}

// New creates a surface of the given size and configures its field and
// boundary.
func New(size geom.Size, opts ...Option) (*Surface, error) {
	s := &Surface{allowsMultipleSelection: true}
	for _, opt := range opts {
		opt(s)
	}
	if s.integrator == nil {
		s.integrator = physics.New(physics.Config{})
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	if err := s.Configure(size); err != nil {
		return nil, err
	}
	return s, nil
}

// Configure resizes the surface and re-derives the field and boundary,
// replacing the previous ones. An invalid size leaves the surface unchanged.
func (s *Surface) Configure(size geom.Size) error {
	if !size.Valid() {
		return errors.New(errors.ErrCodeInvalidSize, "surface size must be positive, got %vx%v", size.Width, size.Height)
	}
	s.size = size
	s.field, s.boundary = DeriveField(size)
	s.integrator.SetField(s.field)
	s.integrator.SetBoundary(s.boundary)

	s.logger.Debug("configured surface",
		"width", size.Width,
		"height", size.Height,
		"radius", s.field.Radius,
		"strength", s.field.Strength)
	observability.Simulation().OnConfigure(size.Width, size.Height, s.field.Radius, s.field.Strength)
	return nil
}

// Size returns the current surface size.
func (s *Surface) Size() geom.Size { return s.size }

// Field returns the current attraction field.
func (s *Surface) Field() Field { return s.field }

// Boundary returns the current containment boundary.
func (s *Surface) Boundary() geom.Rect { return s.boundary }

// AllowsMultipleSelection reports the multi-select mode.
func (s *Surface) AllowsMultipleSelection() bool { return s.allowsMultipleSelection }

// SetAllowsMultipleSelection changes the multi-select mode. It takes effect on
// the next tap; existing selections are kept.
func (s *Surface) SetAllowsMultipleSelection(allow bool) { s.allowsMultipleSelection = allow }

// SetListener replaces the selection listener; nil disables notifications.
func (s *Surface) SetListener(l Listener) { s.listener = l }

// AddNode places n at its entry position outside the surface and appends it.
// A node whose id is already on the surface is rejected with
// [errors.ErrCodeInvalidNode].
func (s *Surface) AddNode(n *Node) error {
	if err := s.checkNew(n); err != nil {
		return err
	}
	idx := len(s.nodes)
	n.SetPosition(Place(idx, n.Width(), n.Height(), s.size.Width))
	s.append(n)

	s.logger.Debug("added node", "id", n.ID(), "index", idx, "x", n.position.X, "y", n.position.Y)
	observability.Simulation().OnNodeAdded(n.ID(), idx)
	return nil
}

// Adopt appends n keeping its position and selection flag. No placement is
// planned and no listener events fire. Used when restoring saved state.
// Duplicate ids are rejected as in [Surface.AddNode].
func (s *Surface) Adopt(n *Node) error {
	if err := s.checkNew(n); err != nil {
		return err
	}
	s.append(n)
	return nil
}

func (s *Surface) checkNew(n *Node) error {
	if n == nil {
		return errors.New(errors.ErrCodeInvalidNode, "node is nil")
	}
	if s.indexOf(n.ID()) >= 0 {
		return errors.New(errors.ErrCodeInvalidNode, "duplicate node id %s", n.ID())
	}
	return nil
}

func (s *Surface) append(n *Node) {
	s.nodes = append(s.nodes, n)
	s.bodies = append(s.bodies, n)
}

// RemoveNode removes the node with the given id, preserving the order of the
// others. Removing a selected node does not notify the listener.
func (s *Surface) RemoveNode(id string) error {
	i := s.indexOf(id)
	if i < 0 {
		return errors.New(errors.ErrCodeNodeNotFound, "node %s", id)
	}
	s.nodes = slices.Delete(s.nodes, i, i+1)
	s.bodies = slices.Delete(s.bodies, i, i+1)
	s.logger.Debug("removed node", "id", id)
	return nil
}

// Node returns the node with the given id.
func (s *Surface) Node(id string) (*Node, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.nodes[i], true
	}
	return nil, false
}

// Nodes returns the nodes in insertion order. The slice is a copy.
func (s *Surface) Nodes() []*Node { return slices.Clone(s.nodes) }

// Len returns the number of nodes.
func (s *Surface) Len() int { return len(s.nodes) }

// SelectedNodes returns the selected nodes in insertion order. The result is
// computed from the nodes on every call.
func (s *Surface) SelectedNodes() []*Node {
	var out []*Node
	for _, n := range s.nodes {
		if n.selected {
			out = append(out, n)
		}
	}
	return out
}

// Deselect clears the selection of the node with the given id, notifying the
// listener if it was selected.
func (s *Surface) Deselect(id string) error {
	n, ok := s.Node(id)
	if !ok {
		return errors.New(errors.ErrCodeNodeNotFound, "node %s", id)
	}
	if n.selected {
		s.deselect(n)
	}
	return nil
}

// DeselectAll clears every selection, notifying the listener once per node.
func (s *Surface) DeselectAll() {
	for _, n := range s.SelectedNodes() {
		s.deselect(n)
	}
}

// Step advances the simulation by dt seconds.
func (s *Surface) Step(dt float64) {
	start := time.Now()
	s.integrator.Step(s.bodies, dt)
	observability.Simulation().OnStep(len(s.nodes), time.Since(start))
}

func (s *Surface) indexOf(id string) int {
	return slices.IndexFunc(s.nodes, func(n *Node) bool { return n.id == id })
}
