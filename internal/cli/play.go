package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bubblecloud/pkg/cloud"
	"github.com/matzehuels/bubblecloud/pkg/geom"
	"github.com/matzehuels/bubblecloud/pkg/physics"
	"github.com/matzehuels/bubblecloud/pkg/snapshot"
)

// Terminal cells are roughly twice as tall as they are wide.
const (
	cellWidth  = 8.0
	cellHeight = 16.0
	statusRows = 2
)

// Play styles
var (
	playNodeStyle     = lipgloss.NewStyle().Foreground(colorGray)
	playSelectedStyle = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	playStatusStyle   = lipgloss.NewStyle().Foreground(colorDim)
	playEventStyle    = lipgloss.NewStyle().Foreground(colorCyan)
)

// playOpts holds the command-line flags for the play command.
type playOpts struct {
	labels  string
	nodes   int
	radius  float64
	single  bool
	restore string // start from a stored snapshot
	save    string // store the final state under this name
}

// playCommand creates the interactive terminal host.
func (c *CLI) playCommand() *cobra.Command {
	var opts playOpts

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Drag and tap a cloud in the terminal",
		Long: `Play runs a cloud in the terminal. Drag with the mouse to push the nodes
around and click a node to select it.

Keys: m toggles multiple selection, r resizes the surface to the window,
a adds a node, c clears the selection, q quits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPlay(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.labels, "labels", "", "comma-separated node labels (default from config)")
	cmd.Flags().IntVarP(&opts.nodes, "nodes", "n", 0, "number of nodes (default: one per label)")
	cmd.Flags().Float64Var(&opts.radius, "radius", 0, "node radius (default from config)")
	cmd.Flags().BoolVar(&opts.single, "single", false, "allow only one selected node")
	cmd.Flags().StringVar(&opts.restore, "restore", "", "start from a stored snapshot")
	cmd.Flags().StringVar(&opts.save, "save", "", "save the final state as a snapshot with this name")

	return cmd
}

func (c *CLI) runPlay(ctx context.Context, opts *playOpts) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}

	labels := cfg.Nodes.Labels
	if opts.labels != "" {
		labels = parseList(opts.labels)
	}
	radius := cfg.Nodes.Radius
	if opts.radius > 0 {
		radius = opts.radius
	}
	count := opts.nodes
	if count <= 0 && opts.restore == "" {
		count = len(labels)
	}

	m := newPlayModel(labels, radius, cfg.Surface.FPS)
	var surface *cloud.Surface
	if opts.restore != "" {
		st, err := c.openStore(ctx, cfg)
		if err != nil {
			return err
		}
		snap, err := st.Load(ctx, opts.restore)
		st.Close()
		if err != nil {
			return err
		}
		surface, err = snapshot.Restore(snap,
			cloud.WithLogger(c.Logger),
			cloud.WithIntegrator(physics.New(cfg.Physics)),
			cloud.WithListener(m),
		)
		if err != nil {
			return err
		}
	} else {
		size := geom.Size{Width: cfg.Surface.Width, Height: cfg.Surface.Height}
		multi := cfg.Surface.MultipleSelection && !opts.single
		if surface, err = c.newSurface(cfg, size, multi, cloud.WithListener(m)); err != nil {
			return err
		}
	}
	m.surface = surface
	for range count {
		m.addNode()
	}

	// Log lines would corrupt the alternate screen.
	level := c.Logger.GetLevel()
	c.Logger.SetLevel(log.FatalLevel)
	defer c.Logger.SetLevel(level)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return err
	}

	snap := snapshot.Capture(surface)
	selected := snap.Selected()
	if len(selected) == 0 {
		printInfo("Nothing selected")
	}
	for _, n := range selected {
		printSuccess("%s", StyleHighlight.Render(n.Label))
	}

	if opts.save != "" {
		st, err := c.openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.Save(ctx, opts.save, snap); err != nil {
			return err
		}
		printSuccess("Saved snapshot %s", StyleHighlight.Render(opts.save))
	}
	return nil
}

// =============================================================================
// playModel - bubbletea host for a surface
// =============================================================================

type tickMsg time.Time

// playModel maps terminal cells to surface coordinates. One cell covers
// cellWidth x cellHeight points of the surface, so the surface may be
// larger or smaller than the window.
type playModel struct {
	surface *cloud.Surface
	labels  []string
	radius  float64
	fps     int

	cols, rows int
	pointer    geom.Vec
	pressed    bool
	last       time.Time
	event      string
}

func newPlayModel(labels []string, radius float64, fps int) *playModel {
	if fps <= 0 {
		fps = 60
	}
	return &playModel{labels: labels, radius: radius, fps: fps, cols: 80, rows: 24 - statusRows}
}

// OnSelect implements cloud.Listener.
func (m *playModel) OnSelect(n *cloud.Node) { m.event = "selected " + n.Label() }

// OnDeselect implements cloud.Listener.
func (m *playModel) OnDeselect(n *cloud.Node) { m.event = "deselected " + n.Label() }

func (m *playModel) addNode() {
	i := m.surface.Len()
	n, err := cloud.NewNode(m.radius,
		cloud.WithID(nextNodeID(m.surface)),
		cloud.WithLabel(labelFor(m.labels, i)),
	)
	if err != nil {
		m.event = err.Error()
		return
	}
	if err := m.surface.AddNode(n); err != nil {
		m.event = err.Error()
	}
}

// nextNodeID returns the first "n<k>" id, counting up from the node count,
// that is not taken. Restored surfaces can have gaps in their numbering.
func nextNodeID(s *cloud.Surface) string {
	for k := s.Len(); ; k++ {
		id := fmt.Sprintf("n%d", k)
		if _, taken := s.Node(id); !taken {
			return id
		}
	}
}

// toSurface converts a cell to the surface point at its center.
func (m *playModel) toSurface(col, row int) geom.Vec {
	return geom.Vec{X: (float64(col) + 0.5) * cellWidth, Y: (float64(row) + 0.5) * cellHeight}
}

func (m *playModel) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *playModel) Init() tea.Cmd {
	m.last = time.Now()
	return m.tick()
}

func (m *playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.surface.PointerCancel()
			return m, tea.Quit
		case "m":
			multi := !m.surface.AllowsMultipleSelection()
			m.surface.SetAllowsMultipleSelection(multi)
			m.event = "multiple selection " + onOff(multi)
		case "r":
			size := geom.Size{Width: float64(m.cols) * cellWidth, Height: float64(m.rows) * cellHeight}
			if err := m.surface.Configure(size); err != nil {
				m.event = err.Error()
			} else {
				m.event = fmt.Sprintf("resized to %gx%g", size.Width, size.Height)
			}
		case "a":
			m.addNode()
		case "c":
			m.surface.DeselectAll()
			m.event = "selection cleared"
		}

	case tea.MouseMsg:
		m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.cols = max(msg.Width, 1)
		m.rows = max(msg.Height-statusRows, 1)

	case tickMsg:
		now := time.Time(msg)
		dt := now.Sub(m.last).Seconds()
		m.last = now
		m.surface.Step(dt)
		return m, m.tick()
	}
	return m, nil
}

func (m *playModel) handleMouse(msg tea.MouseMsg) {
	p := m.toSurface(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		m.surface.PointerDown(p)
		m.pointer, m.pressed = p, true
	case tea.MouseActionMotion:
		if !m.pressed {
			return
		}
		m.surface.ApplyDragForce(m.pointer, p)
		m.pointer = p
	case tea.MouseActionRelease:
		if !m.pressed {
			return
		}
		m.pressed = false
		m.surface.ResolveTap(p)
	}
}

func (m *playModel) View() string {
	var b strings.Builder

	nodes := m.surface.Nodes()
	labelAt := m.labelCells(nodes)
	for row := range m.rows {
		for col := range m.cols {
			if r, ok := labelAt[[2]int{col, row}]; ok {
				b.WriteString(r)
				continue
			}
			b.WriteString(m.cellGlyph(nodes, m.toSurface(col, row)))
		}
		b.WriteByte('\n')
	}

	var selected []string
	for _, n := range m.surface.SelectedNodes() {
		selected = append(selected, n.Label())
	}
	mode := "multi"
	if !m.surface.AllowsMultipleSelection() {
		mode = "single"
	}
	b.WriteString(playStatusStyle.Render(fmt.Sprintf("%d nodes · %s · selected: %s",
		len(nodes), mode, strings.Join(selected, ", "))))
	if m.event != "" {
		b.WriteString("  " + playEventStyle.Render(m.event))
	}
	b.WriteByte('\n')
	b.WriteString(playStatusStyle.Render("drag to push · click to select · m mode · r resize · a add · c clear · q quit"))
	return b.String()
}

func (m *playModel) cellGlyph(nodes []*cloud.Node, p geom.Vec) string {
	for _, n := range nodes {
		if !n.ContainsPoint(p) {
			continue
		}
		if n.Selected() {
			return playSelectedStyle.Render("█")
		}
		return playNodeStyle.Render("░")
	}
	return " "
}

// labelCells lays each node's label across the cells of its center row.
func (m *playModel) labelCells(nodes []*cloud.Node) map[[2]int]string {
	cells := make(map[[2]int]string)
	for _, n := range nodes {
		c := n.Position()
		row := int(c.Y / cellHeight)
		span := int(2 * n.Radius() / cellWidth)
		label := []rune(n.Label())
		if len(label) > span {
			label = label[:max(span, 0)]
		}
		start := int(c.X/cellWidth) - len(label)/2
		style := playNodeStyle
		if n.Selected() {
			style = playSelectedStyle.Reverse(true)
		}
		for i, r := range label {
			col := start + i
			if col < 0 || col >= m.cols || row < 0 || row >= m.rows {
				continue
			}
			cells[[2]int{col, row}] = style.Render(string(r))
		}
	}
	return cells
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
