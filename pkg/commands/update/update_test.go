package update

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/ccstart/pkg/commands"
	"github.com/arthur-debert/ccstart/pkg/config"
	"github.com/arthur-debert/ccstart/pkg/errors"
	"github.com/arthur-debert/ccstart/pkg/testutil"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEnv(t *testing.T, providers ...testutil.Provider) (*commands.Env, *testutil.TestEnvironment) {
	t.Helper()
	tenv := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	cfg := &config.Config{Source: config.Source{Mode: config.SourceJSON, AppType: "claude"}}
	env := commands.NewEnv(cfg, tenv.Paths, tenv.FS).WithSource(testutil.NewStaticSource(providers...))
	return env, tenv
}

func TestUpdate(t *testing.T) {
	env, tenv := newEnv(t,
		testutil.Provider{ID: "b", Name: "zhipu", Settings: `{"model":"glm"}`},
		testutil.Provider{ID: "a", Name: "packy", Settings: `{"model":"claude"}`},
		testutil.Provider{ID: "c", Name: "packy", Settings: `{"model":"other"}`},
	)
	tenv.WriteFile("separated/config-zhipu.json", "stale\n")
	tenv.WriteFile("separated/config-gone.json", "{}\n")
	tenv.WriteFile("separated/keep.txt", "mine")

	result, err := Update(context.Background(), env)
	require.NoError(t, err)
	require.NoError(t, result.CleanupErr)

	assert.False(t, result.Empty)
	assert.Equal(t, "static source", result.Source)
	require.Len(t, result.Written, 3)
	assert.Equal(t, "packy", result.Written[0].Name)
	assert.Equal(t, "packy-2", result.Written[1].Name)
	assert.Equal(t, "zhipu", result.Written[2].Name)
	assert.Equal(t, filepath.Join(tenv.Paths.SeparatedDir(), "config-packy-2.json"), result.Written[1].Path)
	assert.Equal(t, []string{"gone"}, result.Removed)

	assert.Equal(t, "{\n  \"model\": \"claude\"\n}\n", tenv.ReadFile("separated/config-packy.json"))
	assert.Equal(t, "{\n  \"model\": \"other\"\n}\n", tenv.ReadFile("separated/config-packy-2.json"))
	assert.Equal(t, "{\n  \"model\": \"glm\"\n}\n", tenv.ReadFile("separated/config-zhipu.json"))
	assert.Equal(t, "mine", tenv.ReadFile("separated/keep.txt"))

	_, err = tenv.FS.Stat(filepath.Join(tenv.Paths.SeparatedDir(), "config-gone.json"))
	assert.Error(t, err)
}

func TestUpdateAlwaysWrites(t *testing.T) {
	env, tenv := newEnv(t, testutil.Provider{ID: "1", Name: "p", Settings: `{}`})
	ctx := context.Background()

	_, err := Update(ctx, env)
	require.NoError(t, err)
	_, _, renames := tenv.Memory.Stats()

	_, err = Update(ctx, env)
	require.NoError(t, err)
	_, _, renames2 := tenv.Memory.Stats()
	assert.Equal(t, renames+1, renames2)
}

func TestUpdateEmptySource(t *testing.T) {
	env, tenv := newEnv(t)
	tenv.WriteFile("separated/config-old.json", "{}\n")

	result, err := Update(context.Background(), env)
	require.NoError(t, err)
	assert.True(t, result.Empty)
	assert.Empty(t, result.Written)
	assert.Empty(t, result.Removed)
	assert.Equal(t, "{}\n", tenv.ReadFile("separated/config-old.json"), "empty source leaves files alone")
}

func TestUpdateSourceError(t *testing.T) {
	env, _ := newEnv(t)
	src := testutil.NewStaticSource()
	src.Err = errors.New(errors.ErrSourceRead, "boom")
	env.WithSource(src)

	_, err := Update(context.Background(), env)
	assert.True(t, errors.IsErrorCode(err, errors.ErrSourceRead))
}

func TestUpdateWriteFailureStops(t *testing.T) {
	env, tenv := newEnv(t,
		testutil.Provider{ID: "1", Name: "a", Settings: `{}`},
		testutil.Provider{ID: "2", Name: "b", Settings: `{}`},
	)
	tenv.WriteFile("separated/config-stale.json", "{}\n")
	tenv.Memory.FailOn(testutil.OpRename, filepath.Join(tenv.Paths.SeparatedDir(), "config-a.json"), assert.AnError)

	_, err := Update(context.Background(), env)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrWrite))

	_, statErr := tenv.FS.Stat(filepath.Join(tenv.Paths.SeparatedDir(), "config-stale.json"))
	assert.NoError(t, statErr, "no cleanup after a failed write")
}

func TestUpdateCleanupFailure(t *testing.T) {
	env, tenv := newEnv(t, testutil.Provider{ID: "1", Name: "a", Settings: `{}`})
	tenv.WriteFile("separated/config-x.json", "{}\n")
	tenv.WriteFile("separated/config-y.json", "{}\n")
	tenv.Memory.FailOn(testutil.OpRemove, filepath.Join(tenv.Paths.SeparatedDir(), "config-x.json"), assert.AnError)

	result, err := Update(context.Background(), env)
	require.NoError(t, err)
	assert.Equal(t, []string{"y"}, result.Removed)
	require.Error(t, result.CleanupErr)
	assert.True(t, errors.IsErrorCode(result.CleanupErr, errors.ErrWrite))
}

func TestUpdateLogsWriteOperation(t *testing.T) {
	var buf bytes.Buffer
	prevLogger, prevLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})
	log.Logger = zerolog.New(&buf)
	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	env, _ := newEnv(t, testutil.Provider{ID: "1", Name: "p", Settings: `{}`})
	_, err := Update(context.Background(), env)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `"operation":"update providers"`)
	assert.Contains(t, buf.String(), "Operation completed")
}
