package ccstart

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/ccstart/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cliResult struct {
	stdout string
	stderr string
	code   int
}

func runCLI(t *testing.T, stdin string, args ...string) cliResult {
	t.Helper()

	rootCmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)

	code := execute(context.Background(), rootCmd, &stderr)
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), code: code}
}

func writeDocument(t *testing.T, env *testutil.TestEnvironment) {
	t.Helper()
	env.WriteFile("config.json", testutil.DocumentJSON(t,
		testutil.Provider{ID: "p1", Name: "zhipu", Settings: `{"model":"glm-4.6"}`},
		testutil.Provider{ID: "p2", Name: "my box", Settings: `{"model":"x"}`},
	))
}

func TestVersion(t *testing.T) {
	testutil.NewTestEnvironment(t, testutil.EnvIsolated)

	res := runCLI(t, "", "version")
	assert.Equal(t, 0, res.code)
	assert.Contains(t, res.stdout, "ccstart version dev")
}

func TestNoArgs(t *testing.T) {
	testutil.NewTestEnvironment(t, testutil.EnvIsolated)

	res := runCLI(t, "")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "no provider specified")
}

func TestUpdateListFlow(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	writeDocument(t, env)

	res := runCLI(t, "", "list")
	assert.Equal(t, 1, res.code, "nothing materialized yet")
	assert.Contains(t, res.stderr, "ccstart init")

	res = runCLI(t, "", "--source", "json", "update")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stderr, "2 written, 0 removed")
	assert.Equal(t, "{\n  \"model\": \"glm-4.6\"\n}\n", env.ReadFile("separated/config-zhipu.json"))

	res = runCLI(t, "", "list")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "\"my box\"\nzhipu\n", res.stdout)

	res = runCLI(t, "", "list", "--format", "json")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, `"my box"`)
}

func TestSyncFromDatabase(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	testutil.CreateProviderDB(t, filepath.Join(env.BaseDir, "cc-switch.db"),
		testutil.Provider{ID: "1", Name: "zhipu", Settings: `{"a":1}`, SortIndex: 1},
		testutil.Provider{ID: "2", Name: "kimi", Settings: `{"b":2}`, SortIndex: 0},
		testutil.Provider{ID: "3", Name: "codex", Settings: `{}`, AppType: "codex"},
	)
	env.WriteFile("separated/config-old.json", "{}\n")

	res := runCLI(t, "", "sync")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stderr, "+ kimi")
	assert.Contains(t, res.stderr, "- old")
	assert.Contains(t, res.stderr, "2 added, 0 updated, 0 unchanged, 1 removed")

	res = runCLI(t, "", "sync")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stderr, "0 added, 0 updated, 2 unchanged, 0 removed")
}

func TestRunNotFound(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	writeDocument(t, env)

	res := runCLI(t, "", "--source", "json", "kimi")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "Error: provider 'kimi' not found")
	assert.Contains(t, res.stderr, "Available providers:")
	assert.Contains(t, res.stderr, "  my box")
	assert.Contains(t, res.stderr, "  zhipu")
}

func TestRunMissingSource(t *testing.T) {
	testutil.NewTestEnvironment(t, testutil.EnvIsolated)

	res := runCLI(t, "", "zhipu")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "database not found")
}

func TestInitPrompt(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	writeDocument(t, env)

	res := runCLI(t, "", "init")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stderr, "2 provider(s) written")

	env.WriteFile("separated/config-zhipu.json", "edited\n")
	res = runCLI(t, "n\n", "init")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stderr, "(y/N)")
	assert.Contains(t, res.stderr, "Init cancelled.")
	assert.Equal(t, "edited\n", env.ReadFile("separated/config-zhipu.json"))

	res = runCLI(t, "yes\n", "init")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "{\n  \"model\": \"glm-4.6\"\n}\n", env.ReadFile("separated/config-zhipu.json"))

	env.WriteFile("separated/config-zhipu.json", "edited\n")
	res = runCLI(t, "", "init", "--force")
	require.Equal(t, 0, res.code, res.stderr)
	assert.NotContains(t, res.stderr, "(y/N)")
	assert.Equal(t, "{\n  \"model\": \"glm-4.6\"\n}\n", env.ReadFile("separated/config-zhipu.json"))
}

func TestConfigCommand(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	t.Setenv("CCSTART_LAUNCH_COMMAND", "my-claude")

	res := runCLI(t, "", "--source", "json", "config", "--format", "yaml")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "mode: json")
	assert.Contains(t, res.stdout, "command: my-claude")

	res = runCLI(t, "", "config", "--format", "ini")
	assert.Equal(t, 1, res.code)

	res = runCLI(t, "", "config", "--write")
	require.Equal(t, 0, res.code, res.stderr)
	assert.FileExists(t, filepath.Join(env.ConfigDir, "config.toml"))
}

func TestInvalidConfig(t *testing.T) {
	testutil.NewTestEnvironment(t, testutil.EnvIsolated)

	res := runCLI(t, "", "--source", "redis", "list")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "source.mode")
}

func TestCompletion(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	testutil.CreateProviderDB(t, filepath.Join(env.BaseDir, "cc-switch.db"),
		testutil.Provider{ID: "1", Name: "zhipu", Settings: `{}`},
		testutil.Provider{ID: "2", Name: "Zai", Settings: `{}`},
		testutil.Provider{ID: "3", Name: "kimi", Settings: `{}`},
	)

	res := runCLI(t, "", "completion", "bash")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "ccstart")

	res = runCLI(t, "", "__complete", "z")
	require.Equal(t, 0, res.code, res.stderr)
	lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
	assert.ElementsMatch(t, []string{"zhipu", "Zai", ":4"}, lines)

	res = runCLI(t, "", "__complete", "run", "k")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "kimi")

	res = runCLI(t, "", "completion", "tcsh")
	assert.Equal(t, 1, res.code)
}

func TestGenCompletionUnknownShell(t *testing.T) {
	err := GenCompletion(NewRootCmd(), &bytes.Buffer{}, "tcsh")
	assert.Error(t, err)
}
