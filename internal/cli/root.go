package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/user/todo/internal/config"
	"github.com/user/todo/internal/logging"
	"github.com/user/todo/internal/render"
	"github.com/user/todo/internal/service"
	"github.com/user/todo/internal/storage"
	"github.com/user/todo/internal/task"
)

// Options wires a command tree to its environment
type Options struct {
	Config  *config.Config
	Version string
	In      io.Reader
	Out     io.Writer
	Err     io.Writer
	// Color enables ANSI styling on Out
	Color bool
	// Now overrides time.Now for timestamps and date parsing
	Now func() time.Time
}

// app is the state shared by every command of one invocation
type app struct {
	opts    Options
	cfg     *config.Config
	log     *logrus.Entry
	svc     *service.TaskService
	printer *render.Printer
	closer  io.Closer

	backend  string
	logLevel string
}

// NewRootCmd builds the command tree. The repository and logger are created
// once flags are parsed, so --backend and --log-level take effect.
func NewRootCmd(opts Options) *cobra.Command {
	return newApp(opts).rootCmd()
}

func newApp(opts Options) *app {
	if opts.Config == nil {
		opts.Config = config.DefaultConfig()
	}
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &app{opts: opts, cfg: opts.Config}
}

func (a *app) rootCmd() *cobra.Command {
	opts := a.opts
	rootCmd := &cobra.Command{
		Use:   "todo",
		Short: "Manage your todo list",
		Long: `todo tracks short text tasks for the current session.

Run without a command to open the interactive menu.`,
		Version:           opts.Version,
		Args:              cobra.NoArgs,
		PersistentPreRunE: a.setup,
		RunE:              a.runInteractive, // Default action is the menu
		SilenceUsage:      true,
		SilenceErrors:     true,
	}
	rootCmd.SetIn(opts.In)
	rootCmd.SetOut(opts.Out)
	rootCmd.SetErr(opts.Err)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&a.backend, "backend", "", "Storage backend: memory or sqlite (overrides config)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	rootCmd.Flags().Bool("interactive", false, "Open the interactive menu")

	rootCmd.AddCommand(newAddCmd(a))
	rootCmd.AddCommand(newListCmd(a))
	rootCmd.AddCommand(newCompleteCmd(a))
	rootCmd.AddCommand(newDeleteCmd(a))
	rootCmd.AddCommand(newUpdateCmd(a))
	rootCmd.AddCommand(newToggleCmd(a))
	rootCmd.AddCommand(newInteractiveCmd(a))
	rootCmd.AddCommand(newStatsCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))
	rootCmd.AddCommand(newVersionCmd(a))

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	if a.svc != nil {
		return nil
	}

	logCfg := a.cfg.Log
	if a.logLevel != "" {
		logCfg.Level = a.logLevel
	}
	a.log = logging.Session(logging.New(logCfg, a.opts.Err))

	backend := a.cfg.Storage.Backend
	if a.backend != "" {
		backend = a.backend
	}
	repo, closer, err := storage.Open(backend, a.log)
	if err != nil {
		return err
	}
	a.closer = closer
	a.log.WithField("backend", backend).Debug("storage opened")

	a.svc = service.NewTaskService(repo, a.log, service.WithClock(a.opts.Now))
	a.printer = render.New(a.opts.Out, render.Options{
		Color:      a.opts.Color && a.cfg.Display.Color,
		DateFormat: a.cfg.Display.DateFormat,
	})
	return nil
}

func (a *app) close() {
	if a.closer == nil {
		return
	}
	if err := a.closer.Close(); err != nil && a.log != nil {
		a.log.WithError(err).Warn("failed to close storage")
	}
	a.closer = nil
}

func (a *app) warnf(format string, args ...any) {
	fmt.Fprintf(a.opts.Err, "Warning: "+format+"\n", args...)
}

// parseID converts a task id argument
func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q", s)
	}
	return id, nil
}

// Execute runs the root command against the process environment
func Execute(version string) error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}

	a := newApp(Options{
		Config:  cfg,
		Version: version,
		Out:     colorable.NewColorableStdout(),
		Err:     colorable.NewColorableStderr(),
		Color:   isTerminal(os.Stdout),
	})
	return a.run(os.Args[1:])
}

// run executes args and reports a failure as a single "Error:" line.
func (a *app) run(args []string) error {
	defer a.close()

	rootCmd := a.rootCmd()
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(a.opts.Err, "Error:", message(err))
		return err
	}
	return nil
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// message strips the service wrapping from domain errors so users see only
// the domain message.
func message(err error) string {
	var (
		verr  *task.ValidationError
		nf    *task.NotFoundError
		compl *task.AlreadyCompletedError
	)
	switch {
	case errors.As(err, &verr):
		return verr.Error()
	case errors.As(err, &nf):
		return nf.Error()
	case errors.As(err, &compl):
		return compl.Error()
	}
	return err.Error()
}
