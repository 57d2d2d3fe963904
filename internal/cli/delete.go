package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE:    a.runDelete,
	}
}

func (a *app) runDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	if err := a.svc.DeleteTask(cmd.Context(), id); err != nil {
		return err
	}

	fmt.Fprintf(a.opts.Out, "[+] Task [%d] deleted\n", id)
	return nil
}
