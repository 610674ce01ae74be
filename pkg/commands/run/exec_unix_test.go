//go:build unix

package run

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"testing"

	"github.com/arthur-debert/ccstart/pkg/errors"
	"github.com/arthur-debert/ccstart/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHelperProcess stands in for the launched program. It is started as
// <test binary> -test.run=^TestHelperProcess$ <settings path> <mode> [args...]
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	args := os.Args[2:]
	settings, mode := args[0], ""
	if len(args) > 1 {
		mode = args[1]
	}

	switch mode {
	case "exit":
		code, _ := strconv.Atoi(args[2])
		os.Exit(code)
	case "signal":
		_ = syscall.Kill(os.Getpid(), syscall.SIGTERM)
		select {}
	case "stdin":
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(os.Stdin)
		fmt.Fprintf(os.Stdout, "read=%s", strings.TrimSpace(buf.String()))
		os.Exit(0)
	default:
		data, err := os.ReadFile(settings)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read settings: %v", err)
			os.Exit(2)
		}
		fmt.Fprintf(os.Stdout, "args=%s\n%s", strings.Join(args[1:], ","), data)
		os.Exit(0)
	}
}

func helperOptions(t *testing.T) *Options {
	t.Helper()
	t.Setenv("GO_WANT_HELPER_PROCESS", "1")
	return &Options{Stdin: strings.NewReader(""), Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}
}

func TestRunLaunchesWithSettings(t *testing.T) {
	env, tenv := newEnv(t, testutil.EnvIsolated,
		testutil.Provider{ID: "1", Name: "zhipu", Settings: `{"model":"glm-4.6"}`},
	)
	env.Config.Launch.Command = os.Args[0]
	env.Config.Launch.SettingsFlag = "-test.run=^TestHelperProcess$"

	opts := helperOptions(t)
	opts.Name = "zhipu"
	opts.Args = []string{"echo", "--resume", "two words"}

	result, err := Run(context.Background(), env, *opts)
	require.NoError(t, err)
	assert.Equal(t, 0, result.ExitCode)
	assert.Equal(t, filepath.Join(tenv.BaseDir, "separated", "config-zhipu.json"), result.SettingsPath)

	out := opts.Stdout.(*bytes.Buffer).String()
	assert.Equal(t, "args=echo,--resume,two words\n{\n  \"model\": \"glm-4.6\"\n}\n", out)
}

func TestRunRelaysExitCode(t *testing.T) {
	env, _ := newEnv(t, testutil.EnvIsolated, testutil.Provider{ID: "1", Name: "p", Settings: `{}`})
	env.Config.Launch.Command = os.Args[0]
	env.Config.Launch.SettingsFlag = "-test.run=^TestHelperProcess$"

	opts := helperOptions(t)
	opts.Name = "p"
	opts.Args = []string{"exit", "7"}

	result, err := Run(context.Background(), env, *opts)
	require.NoError(t, err)
	assert.Equal(t, 7, result.ExitCode)
}

func TestRunRelaysSignalDeath(t *testing.T) {
	env, _ := newEnv(t, testutil.EnvIsolated, testutil.Provider{ID: "1", Name: "p", Settings: `{}`})
	env.Config.Launch.Command = os.Args[0]
	env.Config.Launch.SettingsFlag = "-test.run=^TestHelperProcess$"

	opts := helperOptions(t)
	opts.Name = "p"
	opts.Args = []string{"signal"}

	result, err := Run(context.Background(), env, *opts)
	require.NoError(t, err)
	assert.Equal(t, 128+int(syscall.SIGTERM), result.ExitCode)
}

func TestRunPassesStdin(t *testing.T) {
	env, _ := newEnv(t, testutil.EnvIsolated, testutil.Provider{ID: "1", Name: "p", Settings: `{}`})
	env.Config.Launch.Command = os.Args[0]
	env.Config.Launch.SettingsFlag = "-test.run=^TestHelperProcess$"

	opts := helperOptions(t)
	opts.Name = "p"
	opts.Args = []string{"stdin"}
	opts.Stdin = strings.NewReader("hello\n")

	_, err := Run(context.Background(), env, *opts)
	require.NoError(t, err)
	assert.Equal(t, "read=hello", opts.Stdout.(*bytes.Buffer).String())
}

func TestRunMissingProgram(t *testing.T) {
	env, _ := newEnv(t, testutil.EnvIsolated, testutil.Provider{ID: "1", Name: "p", Settings: `{}`})
	env.Config.Launch.Command = "ccstart-test-no-such-program"

	opts := helperOptions(t)
	opts.Name = "p"

	_, err := Run(context.Background(), env, *opts)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrExec))
	assert.Contains(t, errors.GetErrorDetails(err)["hint"], "PATH")
}
