package sync

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/ccstart/pkg/commands"
	"github.com/arthur-debert/ccstart/pkg/config"
	"github.com/arthur-debert/ccstart/pkg/errors"
	"github.com/arthur-debert/ccstart/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEnv(t *testing.T, src *testutil.StaticSource) (*commands.Env, *testutil.TestEnvironment) {
	t.Helper()
	tenv := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	cfg := &config.Config{Source: config.Source{Mode: config.SourceJSON, AppType: "claude"}}
	return commands.NewEnv(cfg, tenv.Paths, tenv.FS).WithSource(src), tenv
}

func TestSync(t *testing.T) {
	src := testutil.NewStaticSource(
		testutil.Provider{ID: "1", Name: "alpha", Settings: `{"v":1}`},
		testutil.Provider{ID: "2", Name: "beta", Settings: `{"v":2}`},
	)
	env, tenv := newEnv(t, src)
	ctx := context.Background()

	result, err := Sync(ctx, env)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, result.Added)
	assert.Empty(t, result.Updated)
	assert.Empty(t, result.Unchanged)
	assert.Empty(t, result.Removed)
	assert.True(t, result.Changed())

	// second pass with identical data touches nothing
	_, writes, renames := tenv.Memory.Stats()
	result, err = Sync(ctx, env)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, result.Unchanged)
	assert.False(t, result.Changed())
	_, writes2, renames2 := tenv.Memory.Stats()
	assert.Equal(t, writes, writes2)
	assert.Equal(t, renames, renames2)

	// beta changes, alpha goes away, gamma appears
	src.Records = testutil.NewStaticSource(
		testutil.Provider{ID: "2", Name: "beta", Settings: `{"v":3}`},
		testutil.Provider{ID: "3", Name: "gamma", Settings: `{}`},
	).Records
	result, err = Sync(ctx, env)
	require.NoError(t, err)
	require.NoError(t, result.CleanupErr)
	assert.Equal(t, []string{"gamma"}, result.Added)
	assert.Equal(t, []string{"beta"}, result.Updated)
	assert.Empty(t, result.Unchanged)
	assert.Equal(t, []string{"alpha"}, result.Removed)
	assert.Equal(t, "{\n  \"v\": 3\n}\n", tenv.ReadFile("separated/config-beta.json"))
}

func TestSyncEmptySource(t *testing.T) {
	env, tenv := newEnv(t, testutil.NewStaticSource())
	tenv.WriteFile("separated/config-old.json", "{}\n")

	result, err := Sync(context.Background(), env)
	require.NoError(t, err)
	assert.True(t, result.Empty)
	assert.Equal(t, "{}\n", tenv.ReadFile("separated/config-old.json"))
}

func TestSyncRemovalFailureReported(t *testing.T) {
	env, tenv := newEnv(t, testutil.NewStaticSource(testutil.Provider{ID: "1", Name: "a", Settings: `{}`}))
	tenv.WriteFile("separated/config-old.json", "{}\n")
	tenv.Memory.FailOn(testutil.OpRemove, filepath.Join(tenv.Paths.SeparatedDir(), "config-old.json"), assert.AnError)

	result, err := Sync(context.Background(), env)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, result.Added)
	assert.Empty(t, result.Removed)
	require.Error(t, result.CleanupErr)
	assert.Contains(t, result.CleanupErr.Error(), "config-old.json")
}

func TestSyncInvalidSettings(t *testing.T) {
	env, _ := newEnv(t, testutil.NewStaticSource(testutil.Provider{ID: "1", Name: "a", Settings: `{"a":`}))

	_, err := Sync(context.Background(), env)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrSerialization))
}
