package cloud

// Listener is notified of selection transitions.
//
// The surface holds the listener only as a callback target. Each transition
// is reported exactly once; when selecting a node deselects another, the
// deselection is reported first.
type Listener interface {
	OnSelect(n *Node)
	OnDeselect(n *Node)
}

// ListenerFuncs adapts a pair of functions to [Listener]. Nil functions are
// skipped.
type ListenerFuncs struct {
	Select   func(*Node)
	Deselect func(*Node)
}

// OnSelect calls f.Select.
func (f ListenerFuncs) OnSelect(n *Node) {
	if f.Select != nil {
		f.Select(n)
	}
}

// OnDeselect calls f.Deselect.
func (f ListenerFuncs) OnDeselect(n *Node) {
	if f.Deselect != nil {
		f.Deselect(n)
	}
}
