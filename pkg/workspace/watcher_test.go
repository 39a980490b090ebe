package workspace

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/uxc/pkg/util"
)

const waitTimeout = 5 * time.Second

func startWatcher(t *testing.T, root string, debounce time.Duration) (changes, removals chan string, w *Watcher) {
	t.Helper()
	changes = make(chan string, 16)
	removals = make(chan string, 16)

	w, err := NewWatcher(WatchOptions{
		Config:   DefaultConfig(),
		Debounce: debounce,
		OnChange: func(path string) { changes <- path },
		OnRemove: func(path string) { removals <- path },
	}, util.Discard())
	require.NoError(t, err)
	require.NoError(t, w.Start(root))
	t.Cleanup(func() { w.Stop() })
	return changes, removals, w
}

func expectPath(t *testing.T, ch chan string, want string) {
	t.Helper()
	select {
	case got := <-ch:
		assert.Equal(t, want, got)
	case <-time.After(waitTimeout):
		t.Fatalf("timed out waiting for %s", want)
	}
}

func TestWatcher_ChangeIsDebounced(t *testing.T) {
	root := t.TempDir()
	changes, _, _ := startWatcher(t, root, 150*time.Millisecond)

	path := filepath.Join(root, "greet.ux")
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("name: greet;<div></div>"), 0o644))
	}

	expectPath(t, changes, path)

	select {
	case extra := <-changes:
		t.Fatalf("expected a single debounced change, got another for %s", extra)
	case <-time.After(400 * time.Millisecond):
	}
}

func TestWatcher_IgnoresUnselectedFiles(t *testing.T) {
	root := t.TempDir()
	changes, _, _ := startWatcher(t, root, 20*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o644))
	path := filepath.Join(root, "a.ux")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	expectPath(t, changes, path)
}

func TestWatcher_Remove(t *testing.T) {
	root := t.TempDir()
	path := writeFile(t, root, "gone.ux", "x")
	_, removals, _ := startWatcher(t, root, 20*time.Millisecond)

	require.NoError(t, os.Remove(path))
	expectPath(t, removals, path)
}

func TestWatcher_NewDirectory(t *testing.T) {
	root := t.TempDir()
	changes, _, _ := startWatcher(t, root, 20*time.Millisecond)

	dir := filepath.Join(root, "cards")
	require.NoError(t, os.Mkdir(dir, 0o755))
	// Give the watcher a moment to register the new directory.
	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(dir, "user.ux")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	expectPath(t, changes, path)
}

func TestWatcher_Lifecycle(t *testing.T) {
	root := t.TempDir()
	_, _, w := startWatcher(t, root, 20*time.Millisecond)

	assert.True(t, w.GetStats().IsRunning)
	assert.Error(t, w.Start(root), "second start fails")

	require.NoError(t, w.Stop())
	assert.NoError(t, w.Stop(), "stop is idempotent")
	assert.False(t, w.GetStats().IsRunning)
	assert.Error(t, w.Start(root))
}
