package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/user/todo/internal/task"
)

func newCompleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "complete <id>",
		Short: "Mark a task as complete",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runComplete,
	}
}

func newToggleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Toggle task completion status",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runToggle,
	}
}

func (a *app) runComplete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	t, err := a.svc.CompleteTask(cmd.Context(), id)
	if errors.Is(err, task.ErrTaskAlreadyCompleted) {
		// Not a failure: the task is in the requested state
		fmt.Fprintf(a.opts.Out, "[i] Task [%d] is already completed\n", id)
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(a.opts.Out, "[+] Task [%d] marked as completed\n", t.ID)
	return nil
}

func (a *app) runToggle(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	t, err := a.svc.ToggleTask(cmd.Context(), id)
	if err != nil {
		return err
	}

	status := "incomplete"
	if t.Completed {
		status = "completed"
	}
	fmt.Fprintf(a.opts.Out, "[+] Task [%d] marked as %s\n", t.ID, status)
	return nil
}
