// Package snapshot captures the state of a surface in a serializable form.
//
// A [Snapshot] holds the surface size, the multi-select mode and every node
// in insertion order with its position, radius, label, metadata and
// selection flag. It is the wire format shared by the stores, the renderers
// and the HTTP API:
//
//	{
//	  "version": 1,
//	  "size": {"width": 300, "height": 600},
//	  "multiple_selection": true,
//	  "nodes": [{"id": "a", "label": "jazz", "x": 150, "y": 300, "radius": 30}]
//	}
//
// Velocities and pending forces are not captured; a restored surface starts
// at rest.
package snapshot

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/matzehuels/bubblecloud/pkg/cloud"
	"github.com/matzehuels/bubblecloud/pkg/errors"
	"github.com/matzehuels/bubblecloud/pkg/geom"
)

// Version is the current snapshot format version.
const Version = 1

// Snapshot is the serializable state of a surface.
type Snapshot struct {
	Version           int       `json:"version" bson:"version"`
	Size              geom.Size `json:"size" bson:"size"`
	MultipleSelection bool      `json:"multiple_selection" bson:"multiple_selection"`
	Nodes             []Node    `json:"nodes" bson:"nodes"`
	CapturedAt        time.Time `json:"captured_at,omitempty" bson:"captured_at,omitempty"`
}

// Node is the serializable state of one node.
type Node struct {
	ID       string            `json:"id" bson:"id"`
	Label    string            `json:"label,omitempty" bson:"label,omitempty"`
	X        float64           `json:"x" bson:"x"`
	Y        float64           `json:"y" bson:"y"`
	Radius   float64           `json:"radius" bson:"radius"`
	Selected bool              `json:"selected,omitempty" bson:"selected,omitempty"`
	Meta     map[string]string `json:"meta,omitempty" bson:"meta,omitempty"`
}

// Position returns the node center.
func (n Node) Position() geom.Vec { return geom.Vec{X: n.X, Y: n.Y} }

// Capture records the current state of s.
func Capture(s *cloud.Surface) Snapshot {
	nodes := s.Nodes()
	out := Snapshot{
		Version:           Version,
		Size:              s.Size(),
		MultipleSelection: s.AllowsMultipleSelection(),
		Nodes:             make([]Node, len(nodes)),
		CapturedAt:        time.Now().UTC(),
	}
	for i, n := range nodes {
		out.Nodes[i] = FromNode(n)
	}
	return out
}

// FromNode records the state of a single node.
func FromNode(n *cloud.Node) Node {
	p := n.Position()
	return Node{
		ID:       n.ID(),
		Label:    n.Label(),
		X:        p.X,
		Y:        p.Y,
		Radius:   n.Radius(),
		Selected: n.Selected(),
		Meta:     n.Meta(),
	}
}

// Selected returns the selected nodes in order.
func (s Snapshot) Selected() []Node {
	var out []Node
	for _, n := range s.Nodes {
		if n.Selected {
			out = append(out, n)
		}
	}
	return out
}

// Validate checks the snapshot for values a surface cannot hold.
func (s Snapshot) Validate() error {
	if s.Version != Version {
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported snapshot version %d", s.Version)
	}
	if !s.Size.Valid() {
		return errors.New(errors.ErrCodeInvalidSize, "snapshot size %vx%v", s.Size.Width, s.Size.Height)
	}
	seen := make(map[string]bool, len(s.Nodes))
	for i, n := range s.Nodes {
		if n.ID == "" {
			return errors.New(errors.ErrCodeInvalidNode, "node %d has no id", i)
		}
		if seen[n.ID] {
			return errors.New(errors.ErrCodeInvalidNode, "duplicate node id %s", n.ID)
		}
		seen[n.ID] = true
		if err := errors.ValidateDimension("node radius", n.Radius); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidNode, err, "node %s", n.ID)
		}
	}
	return nil
}

// Restore builds a new surface from the snapshot. Nodes keep their order,
// positions and selection; no listener events fire. opts are applied before
// the snapshot's own multi-select mode.
func Restore(snap Snapshot, opts ...cloud.Option) (*cloud.Surface, error) {
	if err := snap.Validate(); err != nil {
		return nil, err
	}
	opts = append(opts, cloud.WithMultipleSelection(snap.MultipleSelection))
	s, err := cloud.New(snap.Size, opts...)
	if err != nil {
		return nil, err
	}
	for _, ns := range snap.Nodes {
		n, err := cloud.NewNode(ns.Radius,
			cloud.WithID(ns.ID),
			cloud.WithLabel(ns.Label),
			cloud.WithMeta(ns.Meta),
			cloud.WithPosition(ns.Position()),
			cloud.WithSelected(ns.Selected),
		)
		if err != nil {
			return nil, fmt.Errorf("restore node %s: %w", ns.ID, err)
		}
		if err := s.Adopt(n); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Marshal encodes the snapshot as indented JSON.
func Marshal(s Snapshot) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// Unmarshal decodes and validates a JSON snapshot.
func Unmarshal(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode snapshot")
	}
	if err := s.Validate(); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}

// Write encodes the snapshot as JSON to w.
func Write(s Snapshot, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// Read decodes and validates a JSON snapshot from r.
func Read(r io.Reader) (Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}
	return Unmarshal(data)
}
