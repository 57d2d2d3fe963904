package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/user/todo/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage todo configuration",
		// Config commands never touch task storage
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	}

	configShowCmd := &cobra.Command{
		Use:   "show",
		Short: "Show merged configuration",
		Args:  cobra.NoArgs,
		RunE:  a.runConfigShow,
	}

	configPathCmd := &cobra.Command{
		Use:   "path",
		Short: "Show configuration file paths",
		Args:  cobra.NoArgs,
		Run:   a.runConfigPath,
	}

	configInitCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Long: `Write a commented default configuration.

Without flags: Creates .todo/config.yaml in the current directory.
With --global: Creates ~/.todo/config.yaml.`,
		Args: cobra.NoArgs,
		RunE: a.runConfigInit,
	}
	configInitCmd.Flags().Bool("global", false, "Write the global config at ~/.todo/config.yaml")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
	return configCmd
}

func (a *app) runConfigShow(cmd *cobra.Command, args []string) error {
	data, err := yaml.Marshal(a.cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	fmt.Fprintln(a.opts.Out, "# Merged configuration (defaults + global + project + environment)")
	fmt.Fprint(a.opts.Out, string(data))
	return nil
}

func (a *app) runConfigPath(cmd *cobra.Command, args []string) {
	fmt.Fprintf(a.opts.Out, "Global:  %s\n", config.GlobalConfigPath())
	fmt.Fprintf(a.opts.Out, "Project: %s\n", config.ProjectConfigPath())
}

func (a *app) runConfigInit(cmd *cobra.Command, args []string) error {
	global, _ := cmd.Flags().GetBool("global")

	path := config.ProjectConfigPath()
	write := config.WriteProjectDefault
	if global {
		path = config.GlobalConfigPath()
		write = config.WriteDefault
	}

	if exists(path) {
		return fmt.Errorf("%s already exists", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	if err := write(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Fprintf(a.opts.Out, "[+] Wrote %s\n", path)
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
