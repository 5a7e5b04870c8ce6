package watch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDebounce = 100 * time.Millisecond

func startWatcher(t *testing.T, root string, fn BuildFunc) *Watcher {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	w := New(root, fn,
		WithDebounce(testDebounce),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, w.Start(ctx))
	t.Cleanup(func() {
		cancel()
		_ = w.Stop()
		<-w.Done()
	})
	return w
}

func writeMarker(t *testing.T, root string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(root, DefaultMarker), []byte(`{"preset":"node-server"}`), 0o600))
}

func TestMarkerWritesAreDebounced(t *testing.T) {
	root := filepath.Join(t.TempDir(), ".output")
	require.NoError(t, os.MkdirAll(root, 0o755))

	var calls atomic.Int32
	startWatcher(t, root, func(context.Context) error {
		calls.Add(1)
		return nil
	})

	for range 3 {
		writeMarker(t, root)
	}

	require.Eventually(t, func() bool { return calls.Load() == 1 }, 5*time.Second, 10*time.Millisecond)
	time.Sleep(3 * testDebounce)
	assert.Equal(t, int32(1), calls.Load())
}

func TestOtherFilesAreIgnored(t *testing.T) {
	root := filepath.Join(t.TempDir(), ".output")
	require.NoError(t, os.MkdirAll(root, 0o755))

	var calls atomic.Int32
	startWatcher(t, root, func(context.Context) error {
		calls.Add(1)
		return nil
	})

	require.NoError(t, os.WriteFile(filepath.Join(root, "other.json"), []byte("{}"), 0o600))
	time.Sleep(3 * testDebounce)
	assert.Zero(t, calls.Load())
}

func TestFailedBuildKeepsWatching(t *testing.T) {
	root := filepath.Join(t.TempDir(), ".output")
	require.NoError(t, os.MkdirAll(root, 0o755))

	var calls atomic.Int32
	startWatcher(t, root, func(context.Context) error {
		calls.Add(1)
		return errors.New("upload failed")
	})

	writeMarker(t, root)
	require.Eventually(t, func() bool { return calls.Load() == 1 }, 5*time.Second, 10*time.Millisecond)

	writeMarker(t, root)
	require.Eventually(t, func() bool { return calls.Load() == 2 }, 5*time.Second, 10*time.Millisecond)
}

func TestRecreatedRootIsWatched(t *testing.T) {
	root := filepath.Join(t.TempDir(), ".output")

	var calls atomic.Int32
	startWatcher(t, root, func(context.Context) error {
		calls.Add(1)
		return nil
	})

	require.NoError(t, os.MkdirAll(root, 0o755))
	writeMarker(t, root)

	require.Eventually(t, func() bool { return calls.Load() >= 1 }, 5*time.Second, 10*time.Millisecond)
}

func TestStopIsIdempotent(t *testing.T) {
	root := t.TempDir()
	w := New(root, func(context.Context) error { return nil }, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, w.Start(context.Background()))
	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())

	select {
	case <-w.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("publish loop did not exit")
	}
}
