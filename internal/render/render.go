// Package render formats tasks for the terminal and for machine-readable
// output.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/user/todo/internal/report"
	"github.com/user/todo/internal/task"
)

// DefaultDateFormat is used when Options.DateFormat is empty.
const DefaultDateFormat = "2006-01-02"

// Output formats accepted by List
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

type Options struct {
	Color      bool
	DateFormat string
}

// Printer writes styled output to a single writer
type Printer struct {
	out        io.Writer
	dateFormat string

	red, yellow, green, cyan, blue, bold, header *color.Color
}

// New returns a Printer writing to out. With Color off every style prints
// plain text regardless of the terminal.
func New(out io.Writer, opts Options) *Printer {
	p := &Printer{
		out:        out,
		dateFormat: opts.DateFormat,
		red:        color.New(color.FgHiRed),
		yellow:     color.New(color.FgHiYellow),
		green:      color.New(color.FgHiGreen),
		cyan:       color.New(color.FgHiCyan),
		blue:       color.New(color.FgHiBlue),
		bold:       color.New(color.Bold),
		header:     color.New(color.FgHiMagenta, color.Bold),
	}
	if p.dateFormat == "" {
		p.dateFormat = DefaultDateFormat
	}
	if !opts.Color {
		for _, c := range []*color.Color{p.red, p.yellow, p.green, p.cyan, p.blue, p.bold, p.header} {
			c.DisableColor()
		}
	}
	return p
}

// Writer returns the underlying writer
func (p *Printer) Writer() io.Writer {
	return p.out
}

func (p *Printer) Printf(format string, a ...any) {
	fmt.Fprintf(p.out, format, a...)
}

func (p *Printer) Println(a ...any) {
	fmt.Fprintln(p.out, a...)
}

// Success, Warn, Error and Info print a single colored line.
func (p *Printer) Success(format string, a ...any) {
	p.green.Fprintln(p.out, fmt.Sprintf(format, a...))
}

func (p *Printer) Warn(format string, a ...any) {
	p.yellow.Fprintln(p.out, fmt.Sprintf(format, a...))
}

func (p *Printer) Error(format string, a ...any) {
	p.red.Fprintln(p.out, fmt.Sprintf(format, a...))
}

func (p *Printer) Info(format string, a ...any) {
	p.blue.Fprintln(p.out, fmt.Sprintf(format, a...))
}

// Cyan colors a short fragment such as a menu number.
func (p *Printer) Cyan(s string) string {
	return p.cyan.Sprint(s)
}

// Header prints a boxed section title.
func (p *Printer) Header(title string) {
	rule := strings.Repeat("=", 40)
	p.header.Fprintf(p.out, "\n%s\n %s\n%s\n\n", rule, center(title, 38), rule)
}

// DueDate formats the task's due date, or "N/A" when there is none.
func (p *Printer) DueDate(t *task.Task) string {
	if t.DueDate == nil {
		return "N/A"
	}
	return t.DueDate.Format(p.dateFormat)
}

// PriorityLabel returns the colored priority marker.
func (p *Printer) PriorityLabel(pr task.Priority) string {
	return p.priorityColor(pr).Sprint(priorityText(pr))
}

func (p *Printer) priorityColor(pr task.Priority) *color.Color {
	switch pr {
	case task.PriorityHigh:
		return p.red
	case task.PriorityLow:
		return p.green
	default:
		return p.yellow
	}
}

func priorityText(pr task.Priority) string {
	switch pr {
	case task.PriorityHigh:
		return "🔴 High"
	case task.PriorityMedium:
		return "🟡 Medium"
	case task.PriorityLow:
		return "🟢 Low"
	default:
		return "⚪ None"
	}
}

// StatusLabel returns "[✓]" for completed tasks and "[ ]" otherwise.
func (p *Printer) StatusLabel(t *task.Task) string {
	if t.Completed {
		return p.green.Sprint("[✓]")
	}
	return "[ ]"
}

// Table prints tasks one row each with an indented tags line.
// Columns are padded before coloring so escape codes never skew alignment.
func (p *Printer) Table(tasks []*task.Task) {
	p.bold.Fprintf(p.out, "%-4s | %-6s | %-10s | %-10s | %s\n", "ID", "Status", "Priority", "Due Date", "Title")
	fmt.Fprintln(p.out, strings.Repeat("-", 70))

	for _, t := range tasks {
		status := pad("[ ]", 6)
		if t.Completed {
			status = p.green.Sprint(pad("[✓]", 6))
		}
		prio := p.priorityColor(t.Priority).Sprint(pad(priorityText(t.Priority), 10))

		fmt.Fprintf(p.out, "%-4d | %s | %s | %-10s | %s\n", t.ID, status, prio, p.DueDate(t), t.Title)
		if len(t.Tags) > 0 {
			fmt.Fprintf(p.out, "     | Tags: %s\n", p.cyan.Sprint(strings.Join(t.Tags, ", ")))
		}
	}
}

// Summary is the one-line description printed after a task is created.
func (p *Printer) Summary(t *task.Task) string {
	var details []string
	if len(t.Tags) > 0 {
		details = append(details, "tags: "+strings.Join(t.Tags, ", "))
	}
	if t.DueDate != nil {
		details = append(details, "due: "+t.DueDate.Format(p.dateFormat))
	}
	if t.IsRecurring() {
		details = append(details, "repeat: "+string(t.Recurrence))
	}

	s := fmt.Sprintf("[%d] %s [%s]", t.ID, t.Title, t.Priority)
	if len(details) > 0 {
		s += " (" + strings.Join(details, ", ") + ")"
	}
	return s
}

// Stats prints the completion summary. The rate line is omitted when there
// are no tasks.
func (p *Printer) Stats(s report.Stats) {
	fmt.Fprintf(p.out, "Total Tasks: %d\n", s.Total)
	fmt.Fprintf(p.out, "Completed: %s\n", p.green.Sprint(s.Completed))
	fmt.Fprintf(p.out, "Pending: %s\n", p.yellow.Sprint(s.Pending))
	fmt.Fprintf(p.out, "Overdue: %s\n", p.red.Sprint(s.Overdue))
	fmt.Fprintf(p.out, "Recurring: %d\n", s.Recurring)
	if rate, ok := s.CompletionRate(); ok {
		fmt.Fprintf(p.out, "Completion Rate: %.1f%%\n", rate)
	}
}

// List writes tasks in the given format. Table output of an empty list is
// left to the caller.
func (p *Printer) List(tasks []*task.Task, format string) error {
	switch format {
	case "", FormatTable:
		p.Table(tasks)
		return nil
	case FormatJSON:
		return p.JSON(tasks)
	case FormatYAML:
		return p.YAML(tasks)
	default:
		return fmt.Errorf("unknown output format %q (want %s, %s or %s)", format, FormatTable, FormatJSON, FormatYAML)
	}
}

// JSON writes v as indented JSON.
func (p *Printer) JSON(v any) error {
	enc := sonic.ConfigStd.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}

// YAML writes v as a YAML document.
func (p *Printer) YAML(v any) error {
	enc := yaml.NewEncoder(p.out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}

// pad right-pads s to width runes.
func pad(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

func center(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	left := (width - n) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-n-left)
}
