package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bubblecloud/pkg/snapshot"
)

// renderCommand creates the render command for exporting saved snapshots.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		noCache    bool
	)
	opts := exportOpts{theme: themeLight, scale: 2}

	cmd := &cobra.Command{
		Use:   "render <snapshot>",
		Short: "Render a snapshot file or stored snapshot",
		Long: `Render draws a snapshot as SVG, PNG, JSON or a Graphviz contact graph.

The argument is either a snapshot JSON file or the name of a snapshot in the
configured store.`,
		Example: `  bubblecloud render picker -f svg,png
  bubblecloud render cloud.json --contacts -o contacts.svg
  bubblecloud render picker -f dot -o - | dot -Kneato -Tpdf > picker.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := opts.validate(); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], &opts, noCache)
		},
	}

	addExportFlags(cmd, &opts, &formatsStr)
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "render without reading or writing the artifact cache")
	return cmd
}

func (c *CLI) runRender(ctx context.Context, arg string, opts *exportOpts, noCache bool) error {
	logger := loggerFromContext(ctx)

	cfg, err := c.config()
	if err != nil {
		return err
	}
	ac, err := c.newCache(cfg, noCache)
	if err != nil {
		return err
	}
	defer ac.Close()
	opts.cache, opts.ttl = ac, cfg.Cache.TTL()

	snap, fallback, err := c.loadSnapshot(ctx, arg)
	if err != nil {
		return err
	}
	logger.Infof("Rendering %s: %d nodes, %d selected", arg, len(snap.Nodes), len(snap.Selected()))

	return exportSnapshot(ctx, snap, fallback, opts)
}

// loadSnapshot reads arg as a file if one exists, otherwise from the store.
// It also returns the base path for derived output names.
func (c *CLI) loadSnapshot(ctx context.Context, arg string) (snapshot.Snapshot, string, error) {
	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		f, err := os.Open(arg)
		if err != nil {
			return snapshot.Snapshot{}, "", err
		}
		defer f.Close()
		snap, err := snapshot.Read(f)
		return snap, strings.TrimSuffix(arg, filepath.Ext(arg)), err
	}

	cfg, err := c.config()
	if err != nil {
		return snapshot.Snapshot{}, "", err
	}
	st, err := c.openStore(ctx, cfg)
	if err != nil {
		return snapshot.Snapshot{}, "", err
	}
	defer st.Close()

	snap, err := st.Load(ctx, arg)
	return snap, arg, err
}
