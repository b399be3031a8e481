package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bubblecloud/internal/server"
	"github.com/matzehuels/bubblecloud/pkg/cloud"
	"github.com/matzehuels/bubblecloud/pkg/geom"
	"github.com/matzehuels/bubblecloud/pkg/physics"
	"github.com/matzehuels/bubblecloud/pkg/snapshot"
)

type serveOpts struct {
	addr     string
	tickRate int
	restore  string
	noStore  bool
}

// serveCommand creates the HTTP host command.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{tickRate: -1}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a cloud over HTTP",
		Long: `Serve hosts a single surface behind a JSON API. Clients resize the surface,
add and remove nodes, send pointer events and read the selection. With a
positive tick rate the physics runs in the background; otherwise clients
advance it with POST /step.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), cmd, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config)")
	cmd.Flags().IntVar(&opts.tickRate, "tick-rate", opts.tickRate, "physics steps per second, 0 to disable (default from config)")
	cmd.Flags().StringVar(&opts.restore, "restore", "", "start from a stored snapshot")
	cmd.Flags().BoolVar(&opts.noStore, "no-store", false, "disable the /snapshots routes")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cmd *cobra.Command, opts *serveOpts) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}

	scfg := server.Config{
		Addr:       cfg.Server.Addr,
		TickRate:   cfg.Server.TickRate,
		NodeRadius: cfg.Nodes.Radius,
		Physics:    cfg.Physics,
	}
	if opts.addr != "" {
		scfg.Addr = opts.addr
	}
	if cmd.Flags().Changed("tick-rate") {
		scfg.TickRate = max(opts.tickRate, 0)
	}

	var srvOpts []server.Option
	srvOpts = append(srvOpts, server.WithLogger(c.Logger))

	var surface *cloud.Surface
	if !opts.noStore || opts.restore != "" {
		st, err := c.openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close()
		if !opts.noStore {
			srvOpts = append(srvOpts, server.WithStore(st))
		}
		if opts.restore != "" {
			snap, err := st.Load(ctx, opts.restore)
			if err != nil {
				return err
			}
			surface, err = snapshot.Restore(snap,
				cloud.WithLogger(c.Logger),
				cloud.WithIntegrator(physics.New(cfg.Physics)),
			)
			if err != nil {
				return err
			}
		}
	}
	if surface == nil {
		size := geom.Size{Width: cfg.Surface.Width, Height: cfg.Surface.Height}
		if surface, err = c.newSurface(cfg, size, cfg.Surface.MultipleSelection); err != nil {
			return err
		}
	}

	printInfo("Serving on %s", StyleHighlight.Render("http://"+scfg.Addr))
	printNextStep("Add a node", "curl -X POST http://"+scfg.Addr+"/nodes -d '{\"label\":\"jazz\"}'")
	return server.New(surface, scfg, srvOpts...).Run(ctx)
}
