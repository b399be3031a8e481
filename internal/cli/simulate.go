package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bubblecloud/pkg/cloud"
	"github.com/matzehuels/bubblecloud/pkg/geom"
	"github.com/matzehuels/bubblecloud/pkg/snapshot"
)

const defaultSteps = 600

// simulateOpts holds the command-line flags for the simulate command.
type simulateOpts struct {
	size     string   // WxH, default from config
	nodes    int      // node count, default len(labels)
	labels   string   // comma-separated labels, default from config
	radius   float64  // node radius, default from config
	steps    int      // frames to simulate before taps
	settle   int      // frames to simulate after taps
	fps      int      // frame rate; dt = 1/fps
	taps     []string // x,y points tapped after stepping
	single   bool     // disable multiple selection
	save     string   // store the result under this name
	quiet    bool     // skip the node table
	export   exportOpts
	exportOn bool
}

// simulateCommand creates the simulate command for headless runs.
func (c *CLI) simulateCommand() *cobra.Command {
	var formatsStr string
	opts := simulateOpts{
		steps:  defaultSteps,
		export: exportOpts{theme: themeLight, scale: 1},
	}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a cloud headlessly and print or export the result",
		Long: `Simulate adds nodes to a surface, lets the field pull them together for a
number of frames, optionally taps points to select nodes, and prints the
final state. Use --format/--output to export the result and --save to store
it as a snapshot.`,
		Example: `  bubblecloud simulate --nodes 8 --tap 150,300
  bubblecloud simulate --labels rock,jazz,soul --single -f svg,png -o cloud
  bubblecloud simulate --save picker`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.export.formats = parseFormats(formatsStr)
			opts.exportOn = cmd.Flags().Changed("format") || cmd.Flags().Changed("output")
			if err := opts.export.validate(); err != nil {
				return err
			}
			return c.runSimulate(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.size, "size", "", "surface size WIDTHxHEIGHT (default from config)")
	cmd.Flags().IntVarP(&opts.nodes, "nodes", "n", 0, "number of nodes (default: one per label)")
	cmd.Flags().StringVar(&opts.labels, "labels", "", "comma-separated node labels (default from config)")
	cmd.Flags().Float64Var(&opts.radius, "radius", 0, "node radius (default from config)")
	cmd.Flags().IntVar(&opts.steps, "steps", opts.steps, "frames to simulate")
	cmd.Flags().IntVar(&opts.settle, "settle", 0, "frames to simulate after taps")
	cmd.Flags().IntVar(&opts.fps, "fps", 0, "frame rate (default from config)")
	cmd.Flags().StringArrayVar(&opts.taps, "tap", nil, "tap at x,y after stepping (repeatable)")
	cmd.Flags().BoolVar(&opts.single, "single", false, "allow only one selected node")
	cmd.Flags().StringVar(&opts.save, "save", "", "save the result as a snapshot with this name")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "do not print the node table")
	addExportFlags(cmd, &opts.export, &formatsStr)

	return cmd
}

func addExportFlags(cmd *cobra.Command, opts *exportOpts, formatsStr *string) {
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(formatsStr, "format", "f", "", "output format(s): svg (default), png, json, dot (comma-separated)")
	cmd.Flags().StringVar(&opts.theme, "theme", opts.theme, "color theme: light, dark")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG resolution multiplier")
	cmd.Flags().BoolVar(&opts.noLabels, "no-labels", false, "omit node labels")
	cmd.Flags().BoolVar(&opts.contacts, "contacts", false, "render svg as the contact graph (Graphviz)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include radius and metadata in contact graph labels")
}

func (c *CLI) runSimulate(ctx context.Context, opts *simulateOpts) error {
	logger := loggerFromContext(ctx)
	cfg, err := c.config()
	if err != nil {
		return err
	}

	size := geom.Size{Width: cfg.Surface.Width, Height: cfg.Surface.Height}
	if opts.size != "" {
		if size, err = parseSize(opts.size); err != nil {
			return err
		}
	}
	labels := cfg.Nodes.Labels
	if opts.labels != "" {
		labels = parseList(opts.labels)
	}
	count := opts.nodes
	if count <= 0 {
		count = len(labels)
	}
	radius := cfg.Nodes.Radius
	if opts.radius > 0 {
		radius = opts.radius
	}
	fps := cfg.Surface.FPS
	if opts.fps > 0 {
		fps = opts.fps
	}
	multi := cfg.Surface.MultipleSelection && !opts.single

	taps := make([]geom.Vec, len(opts.taps))
	for i, s := range opts.taps {
		if taps[i], err = parsePoint(s); err != nil {
			return err
		}
	}

	listener := cloud.ListenerFuncs{
		Select:   func(n *cloud.Node) { printSuccess("Selected %s", StyleHighlight.Render(n.Label())) },
		Deselect: func(n *cloud.Node) { printInfo("Deselected %s", n.Label()) },
	}
	surface, err := c.newSurface(cfg, size, multi, cloud.WithListener(listener))
	if err != nil {
		return err
	}

	for i := range count {
		n, err := cloud.NewNode(radius,
			cloud.WithID(fmt.Sprintf("n%d", i)),
			cloud.WithLabel(labelFor(labels, i)),
		)
		if err != nil {
			return err
		}
		if err := surface.AddNode(n); err != nil {
			return err
		}
	}
	logger.Infof("Simulating %d nodes on %gx%g for %d frames", count, size.Width, size.Height, opts.steps)

	dt := 1 / float64(fps)
	if err := stepFrames(ctx, surface, opts.steps, dt); err != nil {
		return err
	}
	for _, p := range taps {
		surface.PointerDown(p)
		if n := surface.ResolveTap(p); n == nil {
			printWarning("Tap at %g,%g hit nothing new", p.X, p.Y)
		}
	}
	if err := stepFrames(ctx, surface, opts.settle, dt); err != nil {
		return err
	}

	snap := snapshot.Capture(surface)
	if !opts.quiet {
		printNodeTable(snap)
	}

	if opts.exportOn {
		if err := exportSnapshot(ctx, snap, "bubblecloud", &opts.export); err != nil {
			return err
		}
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

// stepFrames advances the surface, checking ctx between frames.
func stepFrames(ctx context.Context, s *cloud.Surface, frames int, dt float64) error {
	if frames <= 0 {
		return nil
	}
	prog := newProgress(loggerFromContext(ctx))
	for i := range frames {
		if i%60 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		s.Step(dt)
	}
	prog.done(fmt.Sprintf("Simulated %d frames", frames))
	return nil
}
