package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/user/todo/internal/dateparse"
	"github.com/user/todo/internal/service"
	"github.com/user/todo/internal/task"
)

func newAddCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a new task",
		Long: `Create a new task with a title and optional details.

Due dates accept YYYY-MM-DD (single-digit month and day allowed), today,
tomorrow, "next <weekday>" and "in <N> days".`,
		Args: cobra.ExactArgs(1),
		RunE: a.runAdd,
	}

	cmd.Flags().StringP("description", "d", "", "Task description (max 1000 characters)")
	cmd.Flags().StringP("priority", "p", a.cfg.Defaults.Priority, "Task priority: high, medium or low")
	cmd.Flags().StringP("tags", "t", "", "Comma-separated tags (e.g. work,personal)")
	cmd.Flags().String("due", "", "Due date (YYYY-MM-DD or natural language like 'tomorrow', 'next monday')")
	cmd.Flags().StringP("repeat", "r", "", "Repeat pattern: daily, weekly, monthly or none")
	return cmd
}

func (a *app) runAdd(cmd *cobra.Command, args []string) error {
	description, _ := cmd.Flags().GetString("description")
	priorityFlag, _ := cmd.Flags().GetString("priority")
	tags, _ := cmd.Flags().GetString("tags")
	due, _ := cmd.Flags().GetString("due")
	repeat, _ := cmd.Flags().GetString("repeat")

	priority, err := task.ParsePriority(priorityFlag)
	if err != nil {
		return err
	}
	recurrence, err := task.ParseRecurrence(repeat)
	if err != nil {
		return err
	}

	in := service.CreateInput{
		Title:       args[0],
		Description: description,
		Priority:    priority,
		Tags:        task.ParseTags(tags),
		Recurrence:  recurrence,
	}
	if strings.TrimSpace(due) != "" {
		if d, ok := dateparse.Parse(due, a.opts.Now()); ok {
			in.DueDate = &d
		} else {
			a.warnf("could not parse due date %q; no due date set", due)
		}
	}

	t, err := a.svc.CreateTask(cmd.Context(), in)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.opts.Out, "[+] Task created: %s\n", a.printer.Summary(t))
	return nil
}
