package cli

import (
	"github.com/spf13/cobra"

	"github.com/user/todo/internal/menu"
)

func newInteractiveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"menu"},
		Short:   "Open the interactive menu",
		Args:    cobra.NoArgs,
		RunE:    a.runInteractive,
	}
}

func (a *app) runInteractive(cmd *cobra.Command, args []string) error {
	m := menu.New(a.svc, a.opts.In, a.printer, a.log,
		menu.WithClock(a.opts.Now),
		menu.WithClearScreen(a.opts.Color),
	)
	return m.Run(cmd.Context())
}
