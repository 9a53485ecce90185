package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShouldExcludePath(t *testing.T) {
	root := t.TempDir()
	fw, err := NewFileWatcher(root, []string{".exvite", filepath.Join(root, ".output")})
	require.NoError(t, err)
	t.Cleanup(func() { fw.Close() })

	assert.True(t, fw.shouldExcludePath(filepath.Join(root, ".exvite", "types", "paths.d.ts")))
	assert.True(t, fw.shouldExcludePath(filepath.Join(root, ".output")))
	assert.True(t, fw.shouldExcludePath(filepath.Join(root, "node_modules", "x")))
	assert.False(t, fw.shouldExcludePath(filepath.Join(root, "entrypoints", "popup.html")))
	assert.False(t, fw.shouldExcludePath(filepath.Join(root, ".exvite-notes")))
}

func TestWatchDebouncesChanges(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "utils"), 0755))

	fw, err := NewFileWatcher(root, nil)
	require.NoError(t, err)
	fw.FileWatcher.Debounce = 50 * time.Millisecond

	started := make(chan struct{})
	changed := make(chan struct{}, 10)
	invalidated := make(chan string, 100)
	fw.FileWatcher.AddOnStartFunc(func() error { close(started); return nil })
	fw.FileWatcher.AddOnChangeFunc(func() error { changed <- struct{}{}; return nil })
	fw.FileWatcher.AddOnInvalidateFunc(func(path string) { invalidated <- path })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- fw.Watch(ctx) }()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not start")
	}

	target := filepath.Join(root, "utils", "a.ts")
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(target, []byte("export const a = 1\n"), 0644))
	}

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("OnChange was not called")
	}
	select {
	case path := <-invalidated:
		assert.Equal(t, target, path)
	case <-time.After(time.Second):
		t.Fatal("OnInvalidate was not called")
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	require.NoError(t, fw.Close())
}

func TestDebouncedChangesNeverOverlap(t *testing.T) {
	fw, err := NewFileWatcher(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { fw.Close() })
	fw.FileWatcher.Debounce = time.Millisecond

	var running, maxRunning, calls atomic.Int32
	started := make(chan struct{}, 5)
	fw.FileWatcher.AddOnChangeFunc(func() error {
		started <- struct{}{}
		n := running.Add(1)
		for {
			m := maxRunning.Load()
			if n <= m || maxRunning.CompareAndSwap(m, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		running.Add(-1)
		calls.Add(1)
		return nil
	})

	// Each new timer is armed while the previous regeneration is still running.
	fw.debounceGenerate()
	for i := 0; i < 4; i++ {
		select {
		case <-started:
		case <-time.After(5 * time.Second):
			t.Fatal("OnChange was not called")
		}
		fw.debounceGenerate()
	}

	require.Eventually(t, func() bool { return calls.Load() == 5 }, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(1), maxRunning.Load())
}

func TestCloseRunsOnClose(t *testing.T) {
	fw, err := NewFileWatcher(t.TempDir(), nil)
	require.NoError(t, err)

	closed := false
	fw.FileWatcher.AddOnCloseFunc(func() error { closed = true; return nil })

	require.NoError(t, fw.Close())
	assert.True(t, closed)
}
