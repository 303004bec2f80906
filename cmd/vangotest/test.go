package main

import (
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vangotest/internal/config"
	"github.com/vango-dev/vangotest/pkg/vtest"
)

func testCmd(load func() (*config.Config, error)) *cobra.Command {
	var (
		update  bool
		verbose bool
		race    bool
		run     string
	)

	cmd := &cobra.Command{
		Use:   "test [packages...]",
		Short: "Run component tests",
		Long: `Run go test with harness settings applied.

Examples:
  vangotest test
  vangotest test ./components/...
  vangotest test --update
  vangotest test --run TestCounter -v`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := load(); err != nil {
				return err
			}
			return runTest(args, update, verbose, race, run)
		},
	}

	cmd.Flags().BoolVarP(&update, "update", "u", false, "Rewrite golden snapshots")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.Flags().BoolVar(&race, "race", false, "Enable race detector")
	cmd.Flags().StringVar(&run, "run", "", "Run only tests matching the pattern")

	return cmd
}

func testArgs(packages []string, verbose, race bool, run string) []string {
	if len(packages) == 0 {
		packages = []string{"./..."}
	}
	args := []string{"test"}
	if verbose {
		args = append(args, "-v")
	}
	if race {
		args = append(args, "-race")
	}
	if run != "" {
		args = append(args, "-run", run)
	}
	return append(args, packages...)
}

func runTest(packages []string, update, verbose, race bool, run string) error {
	cmd := exec.Command("go", testArgs(packages, verbose, race, run)...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	cmd.Env = os.Environ()
	if update {
		cmd.Env = append(cmd.Env, vtest.UpdateGoldenEnv+"=1")
	}
	return cmd.Run()
}
