// Package testutil provides isolated HOME and project directories for tests
// that read or write configuration.
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// TestEnv provides access to isolated test directories
type TestEnv struct {
	Home        string // Mocked HOME directory
	ProjectDir  string // Test project directory, also the working directory
	GlobalDir   string // ~/.todo equivalent
	ProjectTodo string // .todo in project
	t           *testing.T
}

// SetupTestEnv creates an isolated test environment with mocked HOME and
// working directory. Callers cannot use t.Parallel().
func SetupTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	tmpHome := t.TempDir()
	tmpProject := t.TempDir()

	globalDir := filepath.Join(tmpHome, ".todo")
	projectTodo := filepath.Join(tmpProject, ".todo")

	// Set HOME and cwd (both auto-restored after test)
	t.Setenv("HOME", tmpHome)
	Chdir(t, tmpProject)

	return &TestEnv{
		Home:        tmpHome,
		ProjectDir:  tmpProject,
		GlobalDir:   globalDir,
		ProjectTodo: projectTodo,
		t:           t,
	}
}

// CreateFile creates a file with the given content in the test environment.
// Relative paths are resolved against the project directory.
func (e *TestEnv) CreateFile(path, content string) {
	e.t.Helper()

	fullPath := e.resolve(path)
	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		e.t.Fatalf("Failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
		e.t.Fatalf("Failed to write file %s: %v", fullPath, err)
	}
}

// CreateGlobalConfig writes ~/.todo/config.yaml.
func (e *TestEnv) CreateGlobalConfig(content string) {
	e.t.Helper()
	e.CreateFile(filepath.Join(e.GlobalDir, "config.yaml"), content)
}

// CreateProjectConfig writes .todo/config.yaml in the project.
func (e *TestEnv) CreateProjectConfig(content string) {
	e.t.Helper()
	e.CreateFile(filepath.Join(e.ProjectTodo, "config.yaml"), content)
}

// ReadFile reads a file from the test environment.
func (e *TestEnv) ReadFile(path string) string {
	e.t.Helper()

	fullPath := e.resolve(path)
	data, err := os.ReadFile(fullPath)
	if err != nil {
		e.t.Fatalf("Failed to read file %s: %v", fullPath, err)
	}
	return string(data)
}

// FileExists checks if a file exists in the test environment.
func (e *TestEnv) FileExists(path string) bool {
	e.t.Helper()

	_, err := os.Stat(e.resolve(path))
	return err == nil
}

// Chdir changes the working directory to dir and sets PWD, restoring the
// previous working directory when the test ends. It mirrors testing.T.Chdir
// (Go 1.24+) for older toolchains.
func Chdir(t testing.TB, dir string) {
	t.Helper()
	oldwd, err := os.Open(".")
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	if runtime.GOOS != "windows" && runtime.GOOS != "plan9" {
		if !filepath.IsAbs(dir) {
			dir, err = os.Getwd()
			if err != nil {
				t.Fatal(err)
			}
		}
		t.Setenv("PWD", dir)
	}
	t.Cleanup(func() {
		err := oldwd.Chdir()
		oldwd.Close()
		if err != nil {
			panic("testutil.Chdir: " + err.Error())
		}
	})
}

func (e *TestEnv) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(e.ProjectDir, path)
}
