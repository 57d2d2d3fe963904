// Package menu implements the interactive, prompt-driven task manager.
package menu

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/user/todo/internal/dateparse"
	"github.com/user/todo/internal/render"
	"github.com/user/todo/internal/report"
	"github.com/user/todo/internal/service"
	"github.com/user/todo/internal/task"
)

const clearScreen = "\033[H\033[J"

var exitWords = map[string]bool{"q": true, "quit": true, "exit": true, "b": true, "back": true}

type choice struct {
	label string
	value string
}

// Menu drives the service from line-oriented input
type Menu struct {
	svc   *service.TaskService
	in    *bufio.Reader
	p     *render.Printer
	log   logrus.FieldLogger
	now   func() time.Time
	clear bool
}

type Option func(*Menu)

// WithClock replaces time.Now for due-date parsing and statistics
func WithClock(now func() time.Time) Option {
	return func(m *Menu) {
		if now != nil {
			m.now = now
		}
	}
}

// WithClearScreen emits a clear sequence before each main menu
func WithClearScreen(clear bool) Option {
	return func(m *Menu) {
		m.clear = clear
	}
}

func New(svc *service.TaskService, in io.Reader, p *render.Printer, log logrus.FieldLogger, opts ...Option) *Menu {
	m := &Menu{
		svc: svc,
		in:  bufio.NewReader(in),
		p:   p,
		log: log.WithField("where", "menu"),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run shows the main menu until the user quits or input ends. End of input
// is a normal exit.
func (m *Menu) Run(ctx context.Context) error {
	options := []string{
		"Add New Task",
		"View/List Tasks",
		"Mark Task Complete",
		"Update Task",
		"Delete Task",
		"Advanced Features",
	}
	handlers := []func(context.Context) error{
		m.addTask,
		m.viewTasks,
		m.completeTask,
		m.updateTask,
		m.deleteTask,
		m.advanced,
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if m.clear {
			m.p.Printf("%s", clearScreen)
		}

		idx, err := m.showMenu("MAIN MENU", options)
		if errors.Is(err, io.EOF) {
			return m.goodbye()
		}
		if err != nil {
			return err
		}
		if idx == 0 {
			return m.goodbye()
		}

		if err := handlers[idx-1](ctx); err != nil {
			if errors.Is(err, io.EOF) {
				return m.goodbye()
			}
			return err
		}

		if _, err := m.ask("\nPress Enter to return to menu..."); errors.Is(err, io.EOF) {
			return m.goodbye()
		}
	}
}

func (m *Menu) goodbye() error {
	m.p.Println()
	m.p.Info("Goodbye!")
	return nil
}

// ask prints prompt and returns the trimmed next line. A final line without
// a newline is still returned; io.EOF is reported only once input is empty.
func (m *Menu) ask(prompt string) (string, error) {
	m.p.Printf("%s", prompt)
	line, err := m.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// showMenu returns the 1-based option, or 0 when the user backs out.
func (m *Menu) showMenu(title string, options []string) (int, error) {
	m.p.Header(title)
	for i, opt := range options {
		m.p.Printf(" %s %s\n", m.p.Cyan(fmt.Sprintf("%d.", i+1)), opt)
	}
	m.p.Printf(" %s Exit/Back\n", m.p.Cyan("Q."))

	for {
		in, err := m.ask(fmt.Sprintf("\nChoose an option (1-%d): ", len(options)))
		if err != nil {
			return 0, err
		}
		in = strings.ToLower(in)
		if exitWords[in] {
			return 0, nil
		}
		n, err := strconv.Atoi(in)
		if err != nil {
			m.p.Error("[!] Invalid input. Enter a number or Q to exit.")
			continue
		}
		if n < 1 || n > len(options) {
			m.p.Error("[!] Please choose between 1 and %d", len(options))
			continue
		}
		return n, nil
	}
}

func (m *Menu) promptText(message, def string, required bool) (string, error) {
	suffix := ""
	if def != "" {
		suffix = fmt.Sprintf(" (default: %s)", def)
	}
	if required {
		suffix = " (required)"
	}

	for {
		v, err := m.ask(message + suffix + ": ")
		if err != nil {
			return "", err
		}
		if v == "" {
			if required {
				m.p.Error("[!] This field is required.")
				continue
			}
			return def, nil
		}
		return v, nil
	}
}

func (m *Menu) promptConfirm(message string, def bool) (bool, error) {
	suffix := " (y/N)"
	if def {
		suffix = " (Y/n)"
	}
	v, err := m.ask(message + suffix + ": ")
	if err != nil {
		return false, err
	}
	if v == "" {
		return def, nil
	}
	return strings.HasPrefix(strings.ToLower(v), "y"), nil
}

func (m *Menu) promptChoice(message string, choices []choice) (string, error) {
	m.p.Printf("\n%s:\n", message)
	for i, c := range choices {
		m.p.Printf(" %s %s\n", m.p.Cyan(fmt.Sprintf("%d.", i+1)), c.label)
	}

	for {
		v, err := m.ask(fmt.Sprintf("Choose (1-%d): ", len(choices)))
		if err != nil {
			return "", err
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			m.p.Error("[!] Enter a number corresponding to your choice.")
			continue
		}
		if n < 1 || n > len(choices) {
			m.p.Error("[!] Choose between 1 and %d", len(choices))
			continue
		}
		return choices[n-1].value, nil
	}
}

func (m *Menu) promptPriority(message string) (task.Priority, error) {
	choices := make([]choice, 0, len(task.Priorities))
	for _, pr := range task.Priorities {
		choices = append(choices, choice{label: m.p.PriorityLabel(pr), value: string(pr)})
	}
	v, err := m.promptChoice(message, choices)
	if err != nil {
		return "", err
	}
	return task.ParsePriority(v)
}

func (m *Menu) promptID(message string) (int, bool, error) {
	v, err := m.promptText(message, "", true)
	if err != nil {
		return 0, false, err
	}
	id, err := strconv.Atoi(v)
	if err != nil {
		m.p.Error("[!] Error: invalid task id %q", v)
		return 0, false, nil
	}
	return id, true, nil
}

// fail reports a service error. Only non-domain errors are logged.
func (m *Menu) fail(err error) {
	var verr *task.ValidationError
	switch {
	case errors.As(err, &verr),
		errors.Is(err, task.ErrTaskNotFound):
	default:
		m.log.WithError(err).Error("operation failed")
	}
	m.p.Error("[!] Error: %s", err)
}

func (m *Menu) addTask(ctx context.Context) error {
	m.p.Header("ADD TASK")

	title, err := m.promptText("Enter task title", "", true)
	if err != nil {
		return err
	}
	in := service.CreateInput{Title: title, Priority: task.PriorityMedium, Recurrence: task.RecurrenceNone}

	if ok, err := m.promptConfirm("Add description?", true); err != nil {
		return err
	} else if ok {
		if in.Description, err = m.promptText("Enter description", "", false); err != nil {
			return err
		}
	}

	if ok, err := m.promptConfirm("Set priority?", true); err != nil {
		return err
	} else if ok {
		if in.Priority, err = m.promptPriority("Choose priority"); err != nil {
			return err
		}
	}

	if ok, err := m.promptConfirm("Add tags?", true); err != nil {
		return err
	} else if ok {
		raw, err := m.promptText("Enter tags (comma separated)", "", false)
		if err != nil {
			return err
		}
		in.Tags = task.ParseTags(raw)
	}

	if ok, err := m.promptConfirm("Set due date?", true); err != nil {
		return err
	} else if ok {
		raw, err := m.promptText("Enter due date (e.g. tomorrow, 2025-12-31)", "", false)
		if err != nil {
			return err
		}
		if due, ok := dateparse.Parse(raw, m.now()); ok {
			in.DueDate = &due
		} else if raw != "" {
			m.p.Warn("[!] Could not parse date. Setting to None.")
		}
	}

	if ok, err := m.promptConfirm("Make recurring?", true); err != nil {
		return err
	} else if ok {
		v, err := m.promptChoice("Choose frequency", []choice{
			{"Daily", string(task.RecurrenceDaily)},
			{"Weekly", string(task.RecurrenceWeekly)},
			{"Monthly", string(task.RecurrenceMonthly)},
		})
		if err != nil {
			return err
		}
		in.Recurrence = task.Recurrence(v)
	}

	t, err := m.svc.CreateTask(ctx, in)
	if err != nil {
		m.fail(err)
		return nil
	}

	tags := "None"
	if len(t.Tags) > 0 {
		tags = strings.Join(t.Tags, ", ")
	}
	m.p.Println()
	m.p.Success("✓ Task added: %q (ID: %d)", t.Title, t.ID)
	m.p.Printf("Priority: %s | Tags: %s\n", m.p.PriorityLabel(t.Priority), tags)
	if t.DueDate != nil {
		m.p.Printf("Due: %s | Repeats: %s\n", m.p.DueDate(t), t.Recurrence)
	}
	return nil
}

func (m *Menu) viewTasks(ctx context.Context) error {
	idx, err := m.showMenu("VIEW TASKS", []string{
		"All Tasks",
		"Pending Only",
		"Completed Only",
		"Filter by Priority",
		"Search by Keyword",
		"Filter by Tag",
	})
	if err != nil || idx == 0 {
		return err
	}

	var f task.Filter
	switch idx {
	case 2:
		pending := false
		f.Completed = &pending
	case 3:
		done := true
		f.Completed = &done
	case 4:
		pr, err := m.promptPriority("Select Priority")
		if err != nil {
			return err
		}
		f.Priority = &pr
	case 5:
		if f.Keyword, err = m.promptText("Enter keyword to search", "", false); err != nil {
			return err
		}
	case 6:
		raw, err := m.promptText("Enter tag to filter by", "", false)
		if err != nil {
			return err
		}
		f.Tags = task.ParseTags(raw)
	}

	tasks, err := m.svc.SearchTasks(ctx, f)
	if err != nil {
		m.fail(err)
		return nil
	}
	if len(tasks) == 0 {
		m.p.Warn("No tasks found matching your filters.")
		return nil
	}

	m.p.Println()
	m.p.Table(m.svc.SortTasks(tasks, task.SortByID, true))
	return nil
}

func (m *Menu) completeTask(ctx context.Context) error {
	m.p.Header("MARK COMPLETE")

	id, ok, err := m.promptID("Enter task ID to complete")
	if err != nil || !ok {
		return err
	}

	t, err := m.svc.CompleteTask(ctx, id)
	if errors.Is(err, task.ErrTaskAlreadyCompleted) {
		m.p.Warn("[!] %s", err)
		return nil
	}
	if err != nil {
		m.fail(err)
		return nil
	}
	m.p.Success("✓ Task [%d] marked as completed.", t.ID)
	return nil
}

func (m *Menu) updateTask(ctx context.Context) error {
	m.p.Header("UPDATE TASK")

	id, ok, err := m.promptID("Enter task ID to update")
	if err != nil || !ok {
		return err
	}

	t, err := m.svc.GetTask(ctx, id)
	if err != nil {
		m.fail(err)
		return nil
	}

	m.p.Printf("\nUpdating: %s\n", t.Title)
	title, err := m.promptText("New title", t.Title, false)
	if err != nil {
		return err
	}
	desc, err := m.promptText("New description", t.Description, false)
	if err != nil {
		return err
	}
	in := service.UpdateInput{Title: &title, Description: &desc}

	if ok, err := m.promptConfirm("Change priority?", true); err != nil {
		return err
	} else if ok {
		pr, err := m.promptPriority("Choose priority")
		if err != nil {
			return err
		}
		in.Priority = &pr
	}

	if _, err := m.svc.UpdateTask(ctx, id, in); err != nil {
		m.fail(err)
		return nil
	}
	m.p.Success("✓ Task [%d] updated successfully.", id)
	return nil
}

func (m *Menu) deleteTask(ctx context.Context) error {
	m.p.Header("DELETE TASK")

	id, ok, err := m.promptID("Enter task ID to delete")
	if err != nil || !ok {
		return err
	}

	sure, err := m.promptConfirm(fmt.Sprintf("Are you sure you want to delete task %d?", id), false)
	if err != nil {
		return err
	}
	if !sure {
		m.p.Println("Operation cancelled.")
		return nil
	}

	if err := m.svc.DeleteTask(ctx, id); err != nil {
		m.fail(err)
		return nil
	}
	m.p.Success("✓ Task [%d] deleted.", id)
	return nil
}

func (m *Menu) advanced(ctx context.Context) error {
	idx, err := m.showMenu("ADVANCED FEATURES", []string{
		"Recurring Tasks Management",
		"Statistics & Reports",
	})
	if err != nil {
		return err
	}

	switch idx {
	case 1:
		return m.recurring(ctx)
	case 2:
		return m.statistics(ctx)
	}
	return nil
}

func (m *Menu) recurring(ctx context.Context) error {
	m.p.Header("RECURRING TASKS")

	tasks, err := m.svc.ListTasks(ctx, nil)
	if err != nil {
		m.fail(err)
		return nil
	}

	recurring := report.Recurring(tasks)
	if len(recurring) == 0 {
		m.p.Warn("No recurring tasks found.")
		return nil
	}
	for _, t := range recurring {
		m.p.Printf("[%d] %s - %s\n", t.ID, t.Title, t.Recurrence)
	}
	return nil
}

func (m *Menu) statistics(ctx context.Context) error {
	m.p.Header("STATISTICS")

	tasks, err := m.svc.ListTasks(ctx, nil)
	if err != nil {
		m.fail(err)
		return nil
	}
	m.p.Stats(report.Compute(tasks, m.now()))
	return nil
}
