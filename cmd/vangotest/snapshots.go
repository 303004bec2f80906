package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vangotest/internal/config"
	"github.com/vango-dev/vangotest/pkg/archive"
	"github.com/vango-dev/vangotest/pkg/vtest"
)

func snapshotsCmd(load func() (*config.Config, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "Manage archived golden snapshots",
	}

	withStore := func(fn func(cmd *cobra.Command, store archive.Store, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			store, err := archive.Open(cmd.Context(), cfg.Archive)
			if err != nil {
				return archiveError(err, "open "+cfg.Archive.Backend+" archive")
			}
			defer closeStore(store)
			return fn(cmd, store, args)
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list [prefix]",
			Short: "List stored snapshots",
			Args:  cobra.MaximumNArgs(1),
			RunE: withStore(func(cmd *cobra.Command, store archive.Store, args []string) error {
				prefix := "golden/"
				if len(args) == 1 {
					prefix += args[0]
				}
				keys, err := store.List(cmd.Context(), prefix)
				if err != nil {
					return archiveError(err, "list "+prefix)
				}
				for _, key := range keys {
					fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSuffix(strings.TrimPrefix(key, "golden/"), ".json"))
				}
				return nil
			}),
		},
		&cobra.Command{
			Use:   "show <name>",
			Short: "Print a stored snapshot",
			Args:  cobra.ExactArgs(1),
			RunE: withStore(func(cmd *cobra.Command, store archive.Store, args []string) error {
				key := vtest.GoldenKey(args[0])
				data, err := store.Get(cmd.Context(), key)
				if err != nil {
					return archiveError(err, "read "+key)
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}),
		},
		&cobra.Command{
			Use:   "delete <name>...",
			Short: "Delete stored snapshots",
			Args:  cobra.MinimumNArgs(1),
			RunE: withStore(func(cmd *cobra.Command, store archive.Store, args []string) error {
				for _, name := range args {
					key := vtest.GoldenKey(name)
					if err := store.Delete(cmd.Context(), key); err != nil {
						return archiveError(err, "delete "+key)
					}
					success("deleted %s", name)
				}
				return nil
			}),
		},
	)
	return cmd
}
