package cloud

import (
	"maps"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/bubblecloud/pkg/errors"
	"github.com/matzehuels/bubblecloud/pkg/geom"
)

// Region is a closed shape in a node's local coordinate space, where the
// origin is the node's position.
type Region interface {
	Contains(p geom.Vec) bool
}

// Circle is a circular region centered on the local origin.
type Circle struct {
	Radius float64
}

// Contains reports whether p lies inside or on the circle.
func (c Circle) Contains(p geom.Vec) bool {
	return p.X*p.X+p.Y*p.Y <= c.Radius*c.Radius
}

// Node is a circular, selectable entity placed on a [Surface].
//
// Position and velocity are owned by the simulation once the node is added.
// Selection is changed only by the surface's interaction handling.
type Node struct {
	id     string
	label  string
	meta   map[string]string
	radius float64
	region Region

	position geom.Vec
	velocity geom.Vec
	force    geom.Vec
	selected bool
}

// NodeOption configures a node at construction.
type NodeOption func(*Node)

// WithID sets the node identifier. By default a random UUID is used.
func WithID(id string) NodeOption { return func(n *Node) { n.id = id } }

// WithLabel sets the display label.
func WithLabel(label string) NodeOption { return func(n *Node) { n.label = label } }

// WithMeta attaches host data to the node. The map is copied.
func WithMeta(meta map[string]string) NodeOption {
	return func(n *Node) { n.meta = maps.Clone(meta) }
}

// WithPosition sets the initial position. [Surface.AddNode] replaces it with
// the planned entry position; [Surface.Adopt] keeps it.
func WithPosition(p geom.Vec) NodeOption { return func(n *Node) { n.position = p } }

// WithSelected sets the initial selection flag, for restoring saved state.
func WithSelected(selected bool) NodeOption { return func(n *Node) { n.selected = selected } }

// NewNode creates a node with the given radius in points.
func NewNode(radius float64, opts ...NodeOption) (*Node, error) {
	if err := errors.ValidateDimension("node radius", radius); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidNode, err, "create node")
	}
	n := &Node{
		radius: radius,
		region: Circle{Radius: radius},
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.id == "" {
		n.id = uuid.NewString()
	}
	return n, nil
}

// ID returns the node identifier.
func (n *Node) ID() string { return n.id }

// Label returns the display label, falling back to the ID.
func (n *Node) Label() string {
	if n.label != "" {
		return n.label
	}
	return n.id
}

// Meta returns a copy of the host data attached to the node.
func (n *Node) Meta() map[string]string { return maps.Clone(n.meta) }

// Radius returns the node radius in points.
func (n *Node) Radius() float64 { return n.radius }

// Width returns the width of the node's bounding box.
func (n *Node) Width() float64 { return 2 * n.radius }

// Height returns the height of the node's bounding box.
func (n *Node) Height() float64 { return 2 * n.radius }

// Bounds returns the node's bounding box in surface coordinates.
func (n *Node) Bounds() geom.Rect { return geom.RectAround(n.position, n.Width(), n.Height()) }

// Region returns the precise hit region in local coordinates.
func (n *Node) Region() Region { return n.region }

// Selected reports whether the node is selected.
func (n *Node) Selected() bool { return n.selected }

// Position returns the node center in surface coordinates.
func (n *Node) Position() r2.Vec { return n.position }

// SetPosition moves the node. Used by the integrator and the placement step.
func (n *Node) SetPosition(p r2.Vec) { n.position = p }

// Velocity returns the integrator-owned velocity in points per second.
func (n *Node) Velocity() r2.Vec { return n.velocity }

// SetVelocity sets the integrator-owned velocity.
func (n *Node) SetVelocity(v r2.Vec) { n.velocity = v }

// ApplyForce adds f to the force applied on the next integrator step.
func (n *Node) ApplyForce(f r2.Vec) { n.force = r2.Add(n.force, f) }

// Force returns the force accumulated since the last step.
func (n *Node) Force() r2.Vec { return n.force }

// ClearForce discards the accumulated force.
func (n *Node) ClearForce() { n.force = r2.Vec{} }

// ContainsPoint reports whether p, in surface coordinates, lies inside the
// node's region. Points outside the bounding box are rejected without
// consulting the region.
func (n *Node) ContainsPoint(p geom.Vec) bool {
	if !n.Bounds().Contains(p) {
		return false
	}
	return n.region.Contains(r2.Sub(p, n.position))
}
