package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"gopkg.in/yaml.v3"

	"github.com/user/todo/internal/config"
	"github.com/user/todo/internal/task"
	"github.com/user/todo/internal/testutil"
)

// harness runs several commands against one app so tasks survive between
// them, the way they would inside a single interactive session.
type harness struct {
	t      *testing.T
	a      *app
	out    bytes.Buffer
	errOut bytes.Buffer
	clock  time.Time
}

func newHarness(t *testing.T, input string) *harness {
	t.Helper()
	h := &harness{t: t, clock: time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)}
	h.a = newApp(Options{
		Config:  config.DefaultConfig(),
		Version: "1.2.3",
		In:      strings.NewReader(input),
		Out:     &h.out,
		Err:     &h.errOut,
		Now:     h.now,
	})
	return h
}

// now advances one second per call so updated_at changes are observable
func (h *harness) now() time.Time {
	h.clock = h.clock.Add(time.Second)
	return h.clock
}

func (h *harness) run(args ...string) error {
	h.t.Helper()
	h.out.Reset()
	h.errOut.Reset()
	if args == nil {
		args = []string{}
	}
	return h.a.run(args)
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	if err := h.run(args...); err != nil {
		h.t.Fatalf("%v failed: %v\nstderr: %s", args, err, h.errOut.String())
	}
	return h.out.String()
}

func (h *harness) getTask(id int) *task.Task {
	h.t.Helper()
	tk, err := h.a.svc.GetTask(context.Background(), id)
	if err != nil {
		h.t.Fatalf("GetTask(%d) failed: %v", id, err)
	}
	return tk
}

func TestAdd(t *testing.T) {
	t.Parallel()
	h := newHarness(t, "")

	out := h.mustRun("add", "  Buy milk  ", "-p", "HIGH", "-t", "Work, urgent,,work", "--due", "2025-3-7", "-r", "weekly", "-d", "2 liters")
	want := "[+] Task created: [1] Buy milk [high] (tags: work, urgent, due: 2025-03-07, repeat: weekly)\n"
	if out != want {
		t.Errorf("Expected %q, got %q", want, out)
	}

	tk := h.getTask(1)
	if tk.Description != "2 liters" {
		t.Errorf("Expected description '2 liters', got '%s'", tk.Description)
	}

	out = h.mustRun("add", "Plain", "-r", "none")
	if out != "[+] Task created: [2] Plain [medium]\n" {
		t.Errorf("Unexpected output %q", out)
	}
}

func TestAddNaturalDueDate(t *testing.T) {
	t.Parallel()
	h := newHarness(t, "")

	out := h.mustRun("add", "Call", "--due", "tomorrow")
	if !strings.Contains(out, "due: 2025-01-16") {
		t.Errorf("Expected tomorrow's date, got %q", out)
	}
}

func TestAddUnparseableDueWarns(t *testing.T) {
	t.Parallel()
	h := newHarness(t, "")

	h.mustRun("add", "Someday", "--due", "whenever")
	if !strings.Contains(h.errOut.String(), `Warning: could not parse due date "whenever"`) {
		t.Errorf("Expected warning on stderr, got %q", h.errOut.String())
	}
	if h.getTask(1).DueDate != nil {
		t.Error("Expected no due date")
	}
}

func TestAddErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"empty title", []string{"add", ""}, "Error: Title cannot be empty.\n"},
		{"blank title", []string{"add", "   "}, "Error: Title cannot be whitespace only.\n"},
		{"long title", []string{"add", strings.Repeat("x", 201)}, "Error: Title must be 200 characters or less.\n"},
		{"long description", []string{"add", "ok", "-d", strings.Repeat("d", 1001)}, "Error: Description must be 1000 characters or less.\n"},
		{"bad priority", []string{"add", "ok", "-p", "urgent"}, "Error: invalid priority \"urgent\" (want high, medium, low)\n"},
		{"bad repeat", []string{"add", "ok", "-r", "yearly"}, "Error: invalid repeat \"yearly\" (want none, daily, weekly, monthly)\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, "")

			if err := h.run(tt.args...); err == nil {
				t.Fatal("Expected error")
			}
			if h.errOut.String() != tt.want {
				t.Errorf("Expected stderr %q, got %q", tt.want, h.errOut.String())
			}
			if h.out.Len() != 0 {
				t.Errorf("Expected nothing on stdout, got %q", h.out.String())
			}
		})
	}
}

func TestListEmpty(t *testing.T) {
	t.Parallel()
	h := newHarness(t, "")

	out := h.mustRun("list")
	if out != "No tasks found. Add your first task with: todo add \"Task title\"\n" {
		t.Errorf("Unexpected output %q", out)
	}

	out = h.mustRun("list", "-o", "json")
	if strings.TrimSpace(out) != "[]" {
		t.Errorf("Expected empty JSON array, got %q", out)
	}
}

func seedTasks(h *harness) {
	h.t.Helper()
	h.mustRun("add", "Buy groceries", "-t", "home", "-p", "low", "--due", "2025-02-01")
	h.mustRun("add", "Write report", "-t", "work", "-p", "high", "--due", "2025-01-20")
	h.mustRun("add", "Buy bread", "-t", "urgent")
	h.mustRun("complete", "3")
}

func assertOrder(t *testing.T, out string, titles ...string) {
	t.Helper()
	last := -1
	for _, title := range titles {
		i := strings.Index(out, title)
		if i < 0 {
			t.Errorf("Expected %q in output\n%s", title, out)
			return
		}
		if i < last {
			t.Errorf("Expected %v in order\n%s", titles, out)
			return
		}
		last = i
	}
}

func TestListFilters(t *testing.T) {
	t.Parallel()
	h := newHarness(t, "")
	seedTasks(h)

	tests := []struct {
		name    string
		args    []string
		want    []string
		notWant []string
	}{
		{"pending", []string{"list", "--pending"}, []string{"Buy groceries", "Write report"}, []string{"Buy bread"}},
		{"completed", []string{"list", "--completed"}, []string{"Buy bread"}, []string{"Write report"}},
		{"priority", []string{"list", "-p", "high"}, []string{"Write report"}, []string{"Buy"}},
		{"tags any", []string{"list", "-t", "work,urgent"}, []string{"Write report", "Buy bread"}, []string{"Buy groceries"}},
		{"keyword", []string{"list", "--keyword", "GROC"}, []string{"Buy groceries"}, []string{"Buy bread"}},
	}

	for _, tt := range tests {
		out := h.mustRun(tt.args...)
		for _, w := range tt.want {
			if !strings.Contains(out, w) {
				t.Errorf("%s: expected %q in output\n%s", tt.name, w, out)
			}
		}
		for _, nw := range tt.notWant {
			if strings.Contains(out, nw) {
				t.Errorf("%s: did not expect %q in output\n%s", tt.name, nw, out)
			}
		}
	}
}

func TestListSort(t *testing.T) {
	t.Parallel()
	h := newHarness(t, "")
	seedTasks(h)

	assertOrder(t, h.mustRun("list"), "Buy groceries", "Write report", "Buy bread")
	assertOrder(t, h.mustRun("list", "--sort", "title"), "Buy bread", "Buy groceries", "Write report")
	assertOrder(t, h.mustRun("list", "--sort", "title", "--desc"), "Write report", "Buy groceries", "Buy bread")
	assertOrder(t, h.mustRun("list", "--sort", "due_date"), "Write report", "Buy groceries", "Buy bread")
	assertOrder(t, h.mustRun("list", "--sort", "priority", "--asc"), "Write report", "Buy bread", "Buy groceries")
}

func TestListSortDefaultsFromConfig(t *testing.T) {
	t.Parallel()
	h := newHarness(t, "")
	h.a.cfg.Defaults.Sort = "title"
	h.a.cfg.Defaults.Ascending = false
	seedTasks(h)

	assertOrder(t, h.mustRun("list"), "Write report", "Buy groceries", "Buy bread")
}

func TestListFlagErrors(t *testing.T) {
	t.Parallel()
	h := newHarness(t, "")

	if err := h.run("list", "--sort", "size"); err == nil {
		t.Error("Expected error for unknown sort field")
	}
	if !strings.Contains(h.errOut.String(), `invalid sort field "size"`) {
		t.Errorf("Unexpected stderr %q", h.errOut.String())
	}

	if err := h.run("list", "--completed", "--pending"); err == nil {
		t.Error("Expected error for --completed with --pending")
	}

	h.mustRun("add", "x")
	if err := h.run("list", "-o", "xml"); err == nil {
		t.Error("Expected error for unknown output format")
	}
}

func TestListJSONAndYAML(t *testing.T) {
	t.Parallel()
	h := newHarness(t, "")
	seedTasks(h)

	var fromJSON []task.Task
	if err := sonic.Unmarshal([]byte(h.mustRun("list", "-o", "json", "--sort", "id")), &fromJSON); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if len(fromJSON) != 3 || fromJSON[0].Title != "Buy groceries" || !fromJSON[2].Completed {
		t.Errorf("Unexpected JSON tasks %+v", fromJSON)
	}

	var fromYAML []task.Task
	if err := yaml.Unmarshal([]byte(h.mustRun("list", "-o", "yaml", "-p", "high")), &fromYAML); err != nil {
		t.Fatalf("Invalid YAML: %v", err)
	}
	if len(fromYAML) != 1 || fromYAML[0].Priority != task.PriorityHigh || fromYAML[0].Tags[0] != "work" {
		t.Errorf("Unexpected YAML tasks %+v", fromYAML)
	}
}

func TestComplete(t *testing.T) {
	t.Parallel()
	h := newHarness(t, "")
	h.mustRun("add", "Task")

	if out := h.mustRun("complete", "1"); out != "[+] Task [1] marked as completed\n" {
		t.Errorf("Unexpected output %q", out)
	}

	// Already completed is reported on stdout and is not an error
	if out := h.mustRun("complete", "1"); out != "[i] Task [1] is already completed\n" {
		t.Errorf("Unexpected output %q", out)
	}
	if h.errOut.Len() != 0 {
		t.Errorf("Expected empty stderr, got %q", h.errOut.String())
	}
}

func TestIDErrors(t *testing.T) {
	t.Parallel()

	for _, cmd := range []string{"complete", "delete", "toggle", "update"} {
		h := newHarness(t, "")

		if err := h.run(cmd, "9"); err == nil {
			t.Errorf("%s 9: expected error", cmd)
		}
		if h.errOut.String() != "Error: Task 9 not found.\n" {
			t.Errorf("%s 9: unexpected stderr %q", cmd, h.errOut.String())
		}

		if err := h.run(cmd, "abc"); err == nil {
			t.Errorf("%s abc: expected error", cmd)
		}
		if h.errOut.String() != "Error: invalid task id \"abc\"\n" {
			t.Errorf("%s abc: unexpected stderr %q", cmd, h.errOut.String())
		}
	}
}

func TestToggle(t *testing.T) {
	t.Parallel()
	h := newHarness(t, "")
	h.mustRun("add", "Task")

	if out := h.mustRun("toggle", "1"); out != "[+] Task [1] marked as completed\n" {
		t.Errorf("Unexpected output %q", out)
	}
	if out := h.mustRun("toggle", "1"); out != "[+] Task [1] marked as incomplete\n" {
		t.Errorf("Unexpected output %q", out)
	}
	if h.getTask(1).Completed {
		t.Error("Expected task to be incomplete after two toggles")
	}
}

func TestDelete(t *testing.T) {
	t.Parallel()
	h := newHarness(t, "")
	h.mustRun("add", "one")
	h.mustRun("add", "two")

	if out := h.mustRun("delete", "1"); out != "[+] Task [1] deleted\n" {
		t.Errorf("Unexpected output %q", out)
	}

	out := h.mustRun("add", "three")
	if !strings.Contains(out, "[3] three") {
		t.Errorf("Expected id 3 after deletion, got %q", out)
	}
}

func TestUpdate(t *testing.T) {
	t.Parallel()
	h := newHarness(t, "")
	h.mustRun("add", "Old", "-t", "a,b", "--due", "2025-02-01", "-r", "daily")

	out := h.mustRun("update", "1", "  New  ", "-d", "desc", "-p", "low", "-r", "none")
	if out != "[+] Task [1] updated\n" {
		t.Errorf("Unexpected output %q", out)
	}

	tk := h.getTask(1)
	if tk.Title != "New" || tk.Description != "desc" || tk.Priority != task.PriorityLow || tk.Recurrence != task.RecurrenceNone {
		t.Errorf("Unexpected task %+v", tk)
	}
	if len(tk.Tags) != 2 || tk.DueDate == nil {
		t.Errorf("Omitted fields should be unchanged, got %+v", tk)
	}

	h.mustRun("update", "1", "--due", "clear", "-t", "")
	tk = h.getTask(1)
	if tk.DueDate != nil {
		t.Error("Expected --due clear to remove the due date")
	}
	if len(tk.Tags) != 0 {
		t.Errorf("Expected empty -t to clear tags, got %v", tk.Tags)
	}

	h.mustRun("update", "1", "--due", "next friday")
	if d := h.getTask(1).DueDate; d == nil || d.Format("2006-01-02") != "2025-01-17" {
		t.Errorf("Expected due 2025-01-17, got %v", d)
	}
}

func TestUpdateNoFieldsKeepsUpdatedAt(t *testing.T) {
	t.Parallel()
	h := newHarness(t, "")
	h.mustRun("add", "Same")
	before := h.getTask(1).UpdatedAt

	h.mustRun("update", "1")

	if after := h.getTask(1).UpdatedAt; !after.Equal(before) {
		t.Errorf("Expected updated_at unchanged, %v -> %v", before, after)
	}
}

func TestUpdateValidation(t *testing.T) {
	t.Parallel()
	h := newHarness(t, "")
	h.mustRun("add", "Keep")

	if err := h.run("update", "1", "   "); err == nil {
		t.Fatal("Expected error")
	}
	if h.errOut.String() != "Error: Title cannot be whitespace only.\n" {
		t.Errorf("Unexpected stderr %q", h.errOut.String())
	}
	if h.getTask(1).Title != "Keep" {
		t.Error("Failed update must not change the task")
	}

	if err := h.run("update", "1", "-p", "top"); err == nil {
		t.Error("Expected error for bad priority")
	}
}

func TestStats(t *testing.T) {
	t.Parallel()
	h := newHarness(t, "")
	h.mustRun("add", "a", "--due", "2025-01-01")
	h.mustRun("add", "b")
	h.mustRun("complete", "2")

	out := h.mustRun("stats")
	for _, want := range []string{"Total Tasks: 2", "Completed: 1", "Pending: 1", "Overdue: 1", "Completion Rate: 50.0%"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output\n%s", want, out)
		}
	}
}

func TestInteractiveEntryPoints(t *testing.T) {
	t.Parallel()

	for _, args := range [][]string{nil, {"--interactive"}, {"interactive"}, {"menu"}} {
		h := newHarness(t, "1\nFrom menu\nn\nn\nn\nn\nn\n\nq\n")

		out := h.mustRun(args...)
		if !strings.Contains(out, "MAIN MENU") || !strings.Contains(out, "Goodbye!") {
			t.Errorf("%v: expected menu session\n%s", args, out)
		}
		if h.getTask(1).Title != "From menu" {
			t.Errorf("%v: expected task created from menu", args)
		}
	}
}

func TestUnknownCommand(t *testing.T) {
	t.Parallel()
	h := newHarness(t, "")

	if err := h.run("frobnicate"); err == nil {
		t.Fatal("Expected error")
	}
	if !strings.HasPrefix(h.errOut.String(), "Error: unknown command") {
		t.Errorf("Unexpected stderr %q", h.errOut.String())
	}
}

func TestVersion(t *testing.T) {
	t.Parallel()
	h := newHarness(t, "")

	if out := h.mustRun("version"); out != "todo 1.2.3\n" {
		t.Errorf("Unexpected output %q", out)
	}
	if out := h.mustRun("--version"); out != "todo version 1.2.3\n" {
		t.Errorf("Unexpected output %q", out)
	}
}

func TestBackendFlag(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "")
	out := h.mustRun("--backend", "sqlite", "add", "Stored in sqlite", "-t", "db")
	if !strings.Contains(out, "[1] Stored in sqlite [medium] (tags: db)") {
		t.Errorf("Unexpected output %q", out)
	}

	h = newHarness(t, "")
	if err := h.run("--backend", "postgres", "list"); err == nil {
		t.Fatal("Expected error for unknown backend")
	}
	if !strings.Contains(h.errOut.String(), "unknown storage backend") {
		t.Errorf("Unexpected stderr %q", h.errOut.String())
	}
}

func TestLogLevelFlag(t *testing.T) {
	t.Parallel()
	h := newHarness(t, "")

	h.mustRun("--log-level", "debug", "add", "Logged")
	if !strings.Contains(h.errOut.String(), "task created") || !strings.Contains(h.errOut.String(), "session=") {
		t.Errorf("Expected debug log with session on stderr, got %q", h.errOut.String())
	}
}

func TestConfigShow(t *testing.T) {
	t.Parallel()
	h := newHarness(t, "")
	h.a.cfg.Storage.Backend = "sqlite"

	out := h.mustRun("config", "show")

	var cfg config.Config
	if err := yaml.Unmarshal([]byte(out), &cfg); err != nil {
		t.Fatalf("Invalid YAML: %v", err)
	}
	if cfg.Storage.Backend != "sqlite" || cfg.Defaults.Sort != "created_at" {
		t.Errorf("Unexpected config %+v", cfg)
	}
	if h.a.svc != nil {
		t.Error("config commands should not open storage")
	}
}

func TestConfigPathAndInit(t *testing.T) {
	// Cannot use t.Parallel() - modifies HOME and working directory
	env := testutil.SetupTestEnv(t)
	h := newHarness(t, "")

	out := h.mustRun("config", "path")
	if !strings.Contains(out, "Global:  "+env.GlobalDir) {
		t.Errorf("Unexpected output %q", out)
	}

	h.mustRun("config", "init")
	if !env.FileExists(".todo/config.yaml") {
		t.Fatal("Expected .todo/config.yaml to exist")
	}

	if err := h.run("config", "init"); err == nil {
		t.Error("Expected init to refuse overwriting")
	}
	if !strings.Contains(h.errOut.String(), "already exists") {
		t.Errorf("Unexpected stderr %q", h.errOut.String())
	}

	h.mustRun("config", "init", "--global")
	content := env.ReadFile(env.GlobalDir + "/config.yaml")
	if !strings.Contains(content, "backend: memory") {
		t.Error("Expected default backend in global config")
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load after init failed: %v", err)
	}
	if cfg.Storage.Backend != "memory" {
		t.Errorf("Unexpected backend %s", cfg.Storage.Backend)
	}
}

func TestConfigLoadedFromProject(t *testing.T) {
	env := testutil.SetupTestEnv(t)
	env.CreateProjectConfig("defaults:\n  priority: high\n")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	h := newHarness(t, "")
	h.a.cfg = cfg
	if out := h.mustRun("add", "Inherits default"); !strings.Contains(out, "[high]") {
		t.Errorf("Expected config default priority, got %q", out)
	}
}
