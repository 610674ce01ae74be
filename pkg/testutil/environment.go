package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/ccstart/pkg/filesystem"
	"github.com/arthur-debert/ccstart/pkg/paths"
	"github.com/arthur-debert/ccstart/pkg/types"
)

// EnvType defines the type of test environment
type EnvType int

const (
	EnvMemoryOnly EnvType = iota // Pure in-memory, no real filesystem
	EnvIsolated                  // Real filesystem in temp directory
)

// TestEnvironment provides an isolated base directory, home and XDG dirs,
// with the process environment pointed at them for the test's lifetime.
type TestEnvironment struct {
	HomeDir   string
	BaseDir   string
	ConfigDir string
	StateDir  string

	FS    types.FS
	Paths paths.Paths

	// Memory is set for EnvMemoryOnly environments
	Memory *MemoryFS

	Type EnvType

	t *testing.T
}

// NewTestEnvironment creates a new test environment
func NewTestEnvironment(t *testing.T, envType EnvType) *TestEnvironment {
	t.Helper()

	env := &TestEnvironment{t: t, Type: envType}

	switch envType {
	case EnvMemoryOnly:
		env.HomeDir = "/virtual/home"
		env.Memory = NewMemoryFS()
		env.FS = env.Memory
	case EnvIsolated:
		env.HomeDir = filepath.Join(t.TempDir(), "home")
		env.FS = filesystem.NewOS()
	}

	env.BaseDir = filepath.Join(env.HomeDir, ".cc-switch")
	env.ConfigDir = filepath.Join(env.HomeDir, ".config", paths.AppDirName)
	env.StateDir = filepath.Join(env.HomeDir, ".local", "state", paths.AppDirName)

	for _, dir := range []string{env.HomeDir, env.BaseDir} {
		if err := env.FS.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create %s: %v", dir, err)
		}
	}

	t.Setenv(paths.EnvHome, env.HomeDir)
	t.Setenv(paths.EnvBaseDir, env.BaseDir)
	t.Setenv(paths.EnvConfigDir, env.ConfigDir)
	t.Setenv(paths.EnvStateDir, env.StateDir)
	for _, name := range ccstartEnvVars {
		// t.Setenv registers the restore, Unsetenv makes the variable absent
		t.Setenv(name, "")
		_ = os.Unsetenv(name)
	}

	p, err := paths.New(paths.Options{})
	if err != nil {
		t.Fatalf("Failed to create paths: %v", err)
	}
	env.Paths = p

	return env
}

// configuration variables that would leak the developer's setup into tests
var ccstartEnvVars = []string{
	"CCSTART_SOURCE_MODE",
	"CCSTART_SOURCE_APP_TYPE",
	"CCSTART_SOURCE_DATABASE",
	"CCSTART_PATHS_BASE_DIR",
	"CCSTART_LAUNCH_COMMAND",
	"CCSTART_LAUNCH_SETTINGS_FLAG",
	"CCSTART_OUTPUT_COLOR",
	"NO_COLOR",
}

// WriteFile creates a file relative to the base directory
func (env *TestEnvironment) WriteFile(rel string, content string) string {
	env.t.Helper()

	path := filepath.Join(env.BaseDir, rel)
	if err := env.FS.MkdirAll(filepath.Dir(path), 0755); err != nil {
		env.t.Fatalf("Failed to create parent of %s: %v", path, err)
	}
	if err := env.FS.WriteFile(path, []byte(content), 0644); err != nil {
		env.t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

// ReadFile reads a file relative to the base directory
func (env *TestEnvironment) ReadFile(rel string) string {
	env.t.Helper()

	data, err := env.FS.ReadFile(filepath.Join(env.BaseDir, rel))
	if err != nil {
		env.t.Fatalf("Failed to read %s: %v", rel, err)
	}
	return string(data)
}
