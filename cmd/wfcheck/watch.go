package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"wfcheck/internal/core"
	"wfcheck/internal/output"
	"wfcheck/internal/watch"
)

func (a *app) watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <workflow-file|dir> ...",
		Short: "Validate files and re-validate them whenever they change",
		Long: `Validate the given files once, then again every time one of them is
written. Runs until interrupted.

Examples:
  wfcheck watch .github/workflows`,
		Args: cobra.MinimumNArgs(1),
		RunE: a.runWatch,
	}
}

func (a *app) runWatch(cmd *cobra.Command, args []string) error {
	printer, err := output.New(a.cfg.Runner.Format, a.stdout)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return watch.New(a.newRunner(), printer, a.logger).Run(ctx, core.Discover(args))
}
