package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vangotest/internal/config"
	"github.com/vango-dev/vangotest/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "vangotest",
		Short: "Headless mount, query and act harness for vango components",
		Long: `vangotest mounts component trees into a headless host, drives them
through an act boundary and exposes their snapshots.

  • Run component tests with golden snapshot updates
  • Mount a demo tree and print its snapshot
  • Serve a live inspector over HTTP and WebSocket
  • Manage archived golden snapshots`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to vangotest.json or vangotest.yaml")

	load := func() (*config.Config, error) {
		return loadConfig(configPath)
	}

	rootCmd.AddCommand(
		testCmd(load),
		demoCmd(load),
		serveCmd(load),
		snapshotsCmd(load),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		if herr, ok := err.(*errors.HarnessError); ok {
			fmt.Fprint(os.Stderr, herr.Format())
		} else {
			fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		}
		os.Exit(1)
	}
}

// loadConfig reads path, or the nearest configuration above the working
// directory, falling back to defaults when there is none.
func loadConfig(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.LoadFromWorkingDir()
		if errors.IsCode(err, errors.CodeConfigNotFound) {
			cfg, err = config.New(), nil
		}
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}
