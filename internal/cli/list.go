package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/user/todo/internal/render"
	"github.com/user/todo/internal/task"
)

func newListCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Long:    "Display all tasks or filter them by status, priority, tags or keyword.",
		Args:    cobra.NoArgs,
		RunE:    a.runList,
	}

	cmd.Flags().Bool("completed", false, "Show only completed tasks")
	cmd.Flags().Bool("pending", false, "Show only incomplete tasks")
	cmd.Flags().StringP("priority", "p", "", "Filter by priority")
	cmd.Flags().StringP("tags", "t", "", "Filter by tags, matching any (comma-separated)")
	cmd.Flags().String("keyword", "", "Search by keyword in title or description")
	cmd.Flags().String("sort", a.cfg.Defaults.Sort, "Sort by id, title, created_at, updated_at, due_date or priority")
	cmd.Flags().Bool("asc", false, "Sort in ascending order")
	cmd.Flags().Bool("desc", false, "Sort in descending order")
	cmd.Flags().StringP("output", "o", render.FormatTable, "Output format: table, json or yaml")

	cmd.MarkFlagsMutuallyExclusive("completed", "pending")
	cmd.MarkFlagsMutuallyExclusive("asc", "desc")
	return cmd
}

func (a *app) runList(cmd *cobra.Command, args []string) error {
	completed, _ := cmd.Flags().GetBool("completed")
	pending, _ := cmd.Flags().GetBool("pending")
	priorityFlag, _ := cmd.Flags().GetString("priority")
	tags, _ := cmd.Flags().GetString("tags")
	keyword, _ := cmd.Flags().GetString("keyword")
	sortFlag, _ := cmd.Flags().GetString("sort")
	asc, _ := cmd.Flags().GetBool("asc")
	desc, _ := cmd.Flags().GetBool("desc")
	output, _ := cmd.Flags().GetString("output")

	var f task.Filter
	switch {
	case completed:
		f.Completed = &completed
	case pending:
		open := false
		f.Completed = &open
	}
	if priorityFlag != "" {
		p, err := task.ParsePriority(priorityFlag)
		if err != nil {
			return err
		}
		f.Priority = &p
	}
	f.Tags = task.ParseTags(tags)
	f.Keyword = keyword

	field, err := task.ParseSortField(sortFlag)
	if err != nil {
		return err
	}
	ascending := a.cfg.Defaults.Ascending
	switch {
	case asc:
		ascending = true
	case desc:
		ascending = false
	}

	tasks, err := a.svc.SearchTasks(cmd.Context(), f)
	if err != nil {
		return err
	}
	tasks = a.svc.SortTasks(tasks, field, ascending)

	if len(tasks) == 0 && (output == "" || output == render.FormatTable) {
		fmt.Fprintln(a.opts.Out, `No tasks found. Add your first task with: todo add "Task title"`)
		return nil
	}
	if tasks == nil {
		tasks = []*task.Task{}
	}
	return a.printer.List(tasks, output)
}
