package cli

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/bubblecloud/pkg/cloud"
	"github.com/matzehuels/bubblecloud/pkg/geom"
	"github.com/matzehuels/bubblecloud/pkg/snapshot"
)

// newTestPlayModel hosts a 300x600 surface with one node "Jazz" centered on
// cell (12, 6).
func newTestPlayModel(t *testing.T) *playModel {
	t.Helper()
	m := newPlayModel([]string{"Jazz", "Rock"}, 30, 60)
	s, err := cloud.New(geom.Size{Width: 300, Height: 600}, cloud.WithListener(m), cloud.WithMultipleSelection(true))
	if err != nil {
		t.Fatal(err)
	}
	n, err := cloud.NewNode(30, cloud.WithID("n0"), cloud.WithLabel("Jazz"), cloud.WithPosition(geom.Vec{X: 100, Y: 104}))
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Adopt(n); err != nil {
		t.Fatal(err)
	}
	m.surface = s
	return m
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func mouse(action tea.MouseAction, col, row int) tea.MouseMsg {
	return tea.MouseMsg{X: col, Y: row, Action: action, Button: tea.MouseButtonLeft}
}

func TestPlayModelTap(t *testing.T) {
	m := newTestPlayModel(t)

	m.Update(mouse(tea.MouseActionPress, 12, 6))
	m.Update(mouse(tea.MouseActionRelease, 12, 6))

	if got := m.surface.SelectedNodes(); len(got) != 1 || got[0].ID() != "n0" {
		t.Fatalf("selected = %v, want [n0]", got)
	}
	if m.event != "selected Jazz" {
		t.Errorf("event = %q", m.event)
	}

	// A second tap on a selected node changes nothing.
	m.Update(mouse(tea.MouseActionPress, 12, 6))
	m.Update(mouse(tea.MouseActionRelease, 12, 6))
	if len(m.surface.SelectedNodes()) != 1 {
		t.Error("tap on selected node changed the selection")
	}
}

func TestPlayModelDragSuppressesTap(t *testing.T) {
	m := newTestPlayModel(t)

	m.Update(mouse(tea.MouseActionPress, 12, 6))
	m.Update(mouse(tea.MouseActionMotion, 14, 6))
	if m.surface.State() != cloud.StateDragging {
		t.Fatalf("state = %v, want dragging", m.surface.State())
	}
	m.Update(mouse(tea.MouseActionRelease, 14, 6))

	if len(m.surface.SelectedNodes()) != 0 {
		t.Error("drag release selected a node")
	}
	if m.surface.State() != cloud.StateIdle {
		t.Errorf("state = %v, want idle", m.surface.State())
	}
}

func TestPlayModelMotionWithoutPress(t *testing.T) {
	m := newTestPlayModel(t)
	m.Update(mouse(tea.MouseActionMotion, 20, 6))
	if m.surface.State() != cloud.StateIdle {
		t.Error("hover started a drag")
	}
}

func TestPlayModelKeys(t *testing.T) {
	m := newTestPlayModel(t)

	m.Update(key("m"))
	if m.surface.AllowsMultipleSelection() {
		t.Error("m did not toggle multiple selection off")
	}

	m.Update(tea.WindowSizeMsg{Width: 40, Height: 22})
	m.Update(key("r"))
	if got := m.surface.Size(); got != (geom.Size{Width: 320, Height: 320}) {
		t.Errorf("size after r = %v, want 320x320", got)
	}

	m.Update(key("a"))
	if m.surface.Len() != 2 {
		t.Fatalf("len after a = %d, want 2", m.surface.Len())
	}
	if n, _ := m.surface.Node("n1"); n.Label() != "Rock" {
		t.Errorf("added label = %q, want Rock", n.Label())
	}

	m.Update(mouse(tea.MouseActionPress, 12, 6))
	m.Update(mouse(tea.MouseActionRelease, 12, 6))
	m.Update(key("c"))
	if len(m.surface.SelectedNodes()) != 0 {
		t.Error("c did not clear the selection")
	}

	if _, cmd := m.Update(key("q")); cmd == nil {
		t.Error("q returned no command")
	}
}

func TestPlayModelTick(t *testing.T) {
	m := newTestPlayModel(t)
	m.last = time.Now()
	before := m.surface.Nodes()[0].Position()

	_, cmd := m.Update(tickMsg(m.last.Add(time.Second / 60)))
	if cmd == nil {
		t.Error("tick did not schedule the next tick")
	}
	if m.surface.Nodes()[0].Position() == before {
		t.Error("tick did not move the node toward the center")
	}
}

func TestPlayModelView(t *testing.T) {
	m := newTestPlayModel(t)
	m.Update(tea.WindowSizeMsg{Width: 40, Height: 22})

	view := m.View()
	for _, want := range []string{"1 nodes", "multi", "q quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if got := strings.Count(view, "\n"); got != 21 {
		t.Errorf("view has %d lines, want 21", got)
	}
}

func TestPlayModelAddAfterRestoreWithGaps(t *testing.T) {
	m := newTestPlayModel(t)
	n2, err := cloud.NewNode(30, cloud.WithID("n2"), cloud.WithPosition(geom.Vec{X: 200, Y: 300}))
	if err != nil {
		t.Fatal(err)
	}
	if err := m.surface.Adopt(n2); err != nil {
		t.Fatal(err)
	}

	m.Update(key("a"))
	m.Update(key("a"))
	if m.surface.Len() != 4 {
		t.Fatalf("len = %d, want 4", m.surface.Len())
	}
	for _, id := range []string{"n3", "n4"} {
		if _, ok := m.surface.Node(id); !ok {
			t.Errorf("node %s was not added", id)
		}
	}

	data, err := snapshot.Marshal(snapshot.Capture(m.surface))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if _, err := snapshot.Unmarshal(data); err != nil {
		t.Errorf("saved surface does not load back: %v", err)
	}
}
