package host

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/releasepub/internal/config"
	ferrors "git.home.luguber.info/inful/releasepub/internal/foundation/errors"
)

func TestSelectAdapters(t *testing.T) {
	nitro, err := Select(3, Options{ServerDir: "/out/server"})
	require.NoError(t, err)
	assert.Equal(t, "nitro", nitro.Name())
	assert.Equal(t, "runtimeConfig.public.bugsnag", nitro.State().RuntimeConfigKey)
	assert.Equal(t, "/out/server", nitro.ServerDir())

	legacy, err := Select(2, Options{Dev: true})
	require.NoError(t, err)
	assert.Equal(t, "legacy", legacy.Name())
	assert.Equal(t, "publicRuntimeConfig.bugsnag", legacy.State().RuntimeConfigKey)
	assert.True(t, legacy.IsDev())

	_, err = Select(1, Options{})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
}

func TestStateRecordsMutations(t *testing.T) {
	h, err := Select(3, Options{})
	require.NoError(t, err)
	assert.False(t, h.State().Mutated())

	stages := []string{"production"}
	h.ExposeRuntimeConfig(config.ClientConfig{APIKey: "K", NotifyReleaseStages: stages})
	stages[0] = "changed"
	h.AddPlugin("runtime/plugin")
	h.AddImport(Import{Name: "useBugsnag", From: "runtime/composables/useBugsnag"})
	h.ExtendOptimizeDeps("@bugsnag/js")
	h.EnableSourcemaps(SourcemapOptions{Server: true, Client: true})
	h.OnBuildDone(func(context.Context) error { return nil })

	s := h.State()
	assert.True(t, s.Mutated())
	require.NotNil(t, s.RuntimeConfig)
	assert.Equal(t, []string{"production"}, s.RuntimeConfig.NotifyReleaseStages)
	assert.Equal(t, []string{"runtime/plugin"}, s.Plugins)
	assert.Equal(t, []string{"@bugsnag/js"}, s.OptimizeDeps)
	assert.Equal(t, &SourcemapOptions{Server: true, Client: true}, s.Sourcemap)
	assert.Equal(t, 1, s.BuildDoneHooks)
}

func TestBuildDoneFiresOnce(t *testing.T) {
	h, err := Select(3, Options{})
	require.NoError(t, err)

	var calls []string
	h.OnBuildDone(func(context.Context) error { calls = append(calls, "a"); return nil })
	h.OnBuildDone(func(context.Context) error { calls = append(calls, "b"); return nil })

	require.NoError(t, h.BuildDone(context.Background()))
	assert.Equal(t, []string{"a", "b"}, calls)

	err = h.BuildDone(context.Background())
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryHost))
	assert.Len(t, calls, 2)
}

func TestBuildDoneStopsAtFirstError(t *testing.T) {
	h, err := Select(2, Options{})
	require.NoError(t, err)

	boom := errors.New("boom")
	second := false
	h.OnBuildDone(func(context.Context) error { return boom })
	h.OnBuildDone(func(context.Context) error { second = true; return nil })

	assert.ErrorIs(t, h.BuildDone(context.Background()), boom)
	assert.False(t, second)
}

func TestBuildDoneWithoutHooks(t *testing.T) {
	h, err := Select(3, Options{})
	require.NoError(t, err)
	assert.NoError(t, h.BuildDone(context.Background()))
}
