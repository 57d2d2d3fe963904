package cli

import (
	"github.com/spf13/cobra"

	"github.com/user/todo/internal/report"
)

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show completion statistics",
		Args:  cobra.NoArgs,
		RunE:  a.runStats,
	}
}

func (a *app) runStats(cmd *cobra.Command, args []string) error {
	tasks, err := a.svc.ListTasks(cmd.Context(), nil)
	if err != nil {
		return err
	}

	a.printer.Stats(report.Compute(tasks, a.opts.Now()))
	return nil
}
