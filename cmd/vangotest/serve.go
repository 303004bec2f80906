package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vango-dev/vangotest/internal/config"
	"github.com/vango-dev/vangotest/pkg/inspect"
	"github.com/vango-dev/vangotest/pkg/vdom"
	"github.com/vango-dev/vangotest/pkg/vtest"
)

func serveCmd(load func() (*config.Config, error)) *cobra.Command {
	var (
		addr string
		tick time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the inspector over a live demo tree",
		Long: `Mount the demo application and serve the inspector. The demo's fake
clock advances one second per tick so the event stream stays busy.

Examples:
  vangotest serve
  vangotest serve --addr :8080 --tick 500ms`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Inspector.Addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg, addr, tick)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	cmd.Flags().DurationVar(&tick, "tick", time.Second, "Real time between clock advances")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, addr string, tick time.Duration) error {
	opts, err := vtest.FromConfig(cfg)
	if err != nil {
		return err
	}

	promReg := prometheus.NewRegistry()
	metrics := vtest.NewMetrics(
		vtest.WithPrometheusRegistry(promReg),
		vtest.WithNamespace(cfg.Metrics.Namespace),
	)
	reg := vtest.NewRegistry()
	opts = append(opts, vtest.WithRegistry(reg), vtest.WithMetrics(metrics))

	var root *vtest.Root
	if err := capture(func() {
		root = vtest.Mount(cliTB{}, demoApp.New(vdom.Prop("title", "vangotest inspector")), opts...)
	}); err != nil {
		return err
	}
	defer func() { _ = capture(root.Destroy) }()

	srv := inspect.New(reg, inspect.WithGatherer(promReg))
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe(ctx, addr) }()
	success("inspector on http://%s/instances", addr)
	info("root %d (%s) advances every %s", root.ID(), root.Name(), tick)

	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	for {
		select {
		case err := <-errCh:
			return err
		case <-ticker.C:
			if err := capture(func() { root.Advance(time.Second) }); err != nil {
				return err
			}
		case <-ctx.Done():
			return <-errCh
		}
	}
}
