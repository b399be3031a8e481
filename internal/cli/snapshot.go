package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bubblecloud/pkg/snapshot"
	"github.com/matzehuels/bubblecloud/pkg/store"
)

// snapshotCommand creates the snapshot command with subcommands for
// managing stored snapshots.
func (c *CLI) snapshotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "snapshot",
		Aliases: []string{"snap"},
		Short:   "Manage stored snapshots",
		Long:    `Manage snapshots saved by simulate, play and the HTTP server.`,
	}

	cmd.AddCommand(c.snapshotListCommand())
	cmd.AddCommand(c.snapshotShowCommand())
	cmd.AddCommand(c.snapshotDeleteCommand())

	return cmd
}

func (c *CLI) snapshotListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(ctx context.Context, st store.Store) error {
				names, err := st.List(ctx)
				if err != nil {
					return err
				}
				if len(names) == 0 {
					printInfo("No snapshots stored")
					printNextStep("Create one", "bubblecloud simulate --save picker")
					return nil
				}
				sort.Strings(names)
				for _, name := range names {
					fmt.Println(name)
				}
				return nil
			})
		},
	}
}

func (c *CLI) snapshotShowCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:               "show <name>",
		Short:             "Show a stored snapshot",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeSnapshotNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(ctx context.Context, st store.Store) error {
				snap, err := st.Load(ctx, args[0])
				if err != nil {
					return err
				}
				if asJSON {
					return snapshot.Write(snap, cmd.OutOrStdout())
				}
				fmt.Println(StyleTitle.Render(args[0]))
				printKeyValue("Size", fmt.Sprintf("%gx%g", snap.Size.Width, snap.Size.Height))
				printKeyValue("Captured", snap.CapturedAt.Local().Format("2006-01-02 15:04:05"))
				printNodeTable(snap)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw snapshot JSON")
	return cmd
}

func (c *CLI) snapshotDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "delete <name>...",
		Aliases:           []string{"rm"},
		Short:             "Delete stored snapshots",
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: c.completeSnapshotNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(ctx context.Context, st store.Store) error {
				for _, name := range args {
					if err := st.Delete(ctx, name); err != nil {
						return err
					}
					printSuccess("Deleted %s", name)
				}
				return nil
			})
		},
	}
}

// withStore opens the configured store for the duration of fn.
func (c *CLI) withStore(ctx context.Context, fn func(context.Context, store.Store) error) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}
	st, err := c.openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(ctx, st)
}
