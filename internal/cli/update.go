package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/user/todo/internal/dateparse"
	"github.com/user/todo/internal/service"
	"github.com/user/todo/internal/task"
)

func newUpdateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id> [title]",
		Short: "Update a task",
		Long: `Update a task's details. Only the values given are changed.

--due clear removes the due date and -t "" removes every tag.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: a.runUpdate,
	}

	cmd.Flags().StringP("description", "d", "", "New task description (max 1000 characters)")
	cmd.Flags().StringP("priority", "p", "", "New priority: high, medium or low")
	cmd.Flags().StringP("tags", "t", "", "Replace tags (comma-separated)")
	cmd.Flags().String("due", "", "New due date (YYYY-MM-DD, natural language, or 'clear')")
	cmd.Flags().StringP("repeat", "r", "", "New repeat pattern: daily, weekly, monthly or none")
	return cmd
}

func (a *app) runUpdate(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	var in service.UpdateInput
	if len(args) == 2 {
		in.Title = &args[1]
	}

	flags := cmd.Flags()
	if flags.Changed("description") {
		d, _ := flags.GetString("description")
		in.Description = &d
	}
	if flags.Changed("priority") {
		raw, _ := flags.GetString("priority")
		p, err := task.ParsePriority(raw)
		if err != nil {
			return err
		}
		in.Priority = &p
	}
	if flags.Changed("tags") {
		raw, _ := flags.GetString("tags")
		tags := task.ParseTags(raw)
		in.Tags = &tags
	}
	if flags.Changed("due") {
		raw, _ := flags.GetString("due")
		switch d, ok := dateparse.Parse(raw, a.opts.Now()); {
		case dateparse.IsClear(raw):
			in.ClearDueDate = true
		case ok:
			in.DueDate = &d
		default:
			a.warnf("could not parse due date %q; due date unchanged", raw)
		}
	}
	if flags.Changed("repeat") {
		raw, _ := flags.GetString("repeat")
		r, err := task.ParseRecurrence(raw)
		if err != nil {
			return err
		}
		in.Recurrence = &r
	}

	t, err := a.svc.UpdateTask(cmd.Context(), id, in)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.opts.Out, "[+] Task [%d] updated\n", t.ID)
	return nil
}
