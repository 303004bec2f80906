package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vangotest/internal/config"
	"github.com/vango-dev/vangotest/pkg/archive"
	"github.com/vango-dev/vangotest/pkg/vdom"
	"github.com/vango-dev/vangotest/pkg/vtest"
)

func demoCmd(load func() (*config.Config, error)) *cobra.Command {
	var (
		clicks  int
		advance time.Duration
		format  string
		golden  string
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Mount the demo tree and print its snapshot",
		Long: `Mount a small demo application, click its counter, advance the fake
clock and print the resulting snapshot.

Examples:
  vangotest demo
  vangotest demo --clicks 3 --advance 5s --format html
  vangotest demo --golden demo`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			return runDemo(cmd.Context(), cfg, demoOptions{
				clicks:  clicks,
				advance: advance,
				format:  format,
				golden:  golden,
				out:     cmd.OutOrStdout(),
			})
		},
	}

	cmd.Flags().IntVar(&clicks, "clicks", 1, "Number of counter clicks")
	cmd.Flags().DurationVar(&advance, "advance", 3*time.Second, "How far to advance the fake clock")
	cmd.Flags().StringVar(&format, "format", "json", "Output format: json, html or text")
	cmd.Flags().StringVar(&golden, "golden", "", "Store the snapshot in the archive under this name")

	return cmd
}

type demoOptions struct {
	clicks  int
	advance time.Duration
	format  string
	golden  string
	out     io.Writer
}

func runDemo(ctx context.Context, cfg *config.Config, o demoOptions) error {
	opts, err := vtest.FromConfig(cfg)
	if err != nil {
		return err
	}
	opts = append(opts, vtest.WithRegistry(vtest.NewRegistry()))

	var output string
	var snapshot []byte
	err = capture(func() {
		root := vtest.Mount(cliTB{}, demoApp.New(vdom.Prop("title", "vangotest demo")), opts...)
		defer root.Destroy()

		button := vtest.ByTag("button")
		for i := 0; i < o.clicks; i++ {
			root.Find(button).Trigger("onclick")
		}
		root.Advance(o.advance)

		data, err := vtest.DescribeJSON(root.Snapshot())
		if err != nil {
			panic(cliFailure{err: err})
		}
		snapshot = data

		switch o.format {
		case "html":
			output = root.HTML()
		case "text":
			output = root.Text()
		default:
			output = string(data)
		}
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(o.out, output)

	if o.golden == "" {
		return nil
	}
	store, err := archive.Open(ctx, cfg.Archive)
	if err != nil {
		return archiveError(err, "open "+cfg.Archive.Backend+" archive")
	}
	defer closeStore(store)

	key := vtest.GoldenKey(o.golden)
	if err := store.Put(ctx, key, append(snapshot, '\n')); err != nil {
		return archiveError(err, "write "+key)
	}
	success("stored %s in the %s archive", key, cfg.Archive.Backend)
	return nil
}
