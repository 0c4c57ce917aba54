package load

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "schema.yaml")
	tables := filepath.Join(dir, "tables")
	require.NoError(t, os.WriteFile(file, []byte("content:\n"), 0o644))
	require.NoError(t, os.Mkdir(tables, 0o755))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan string, 16)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, []string{file, tables}, 20*time.Millisecond, func(path string) {
			changed <- path
		})
	}()

	expect := func(want string) {
		t.Helper()
		select {
		case got := <-changed:
			assert.Equal(t, want, got)
		case <-time.After(5 * time.Second):
			t.Fatalf("no change reported for %s", want)
		}
	}

	// Retry the first write until the watcher is registered.
	deadline := time.Now().Add(5 * time.Second)
	for registered := false; !registered; {
		require.True(t, time.Now().Before(deadline), "watcher never reported a change")
		require.NoError(t, os.WriteFile(file, []byte("content:\nimage:\n"), 0o644))
		select {
		case got := <-changed:
			assert.Equal(t, file, got)
			registered = true
		case <-time.After(100 * time.Millisecond):
		}
	}
	drain(changed)

	require.NoError(t, os.WriteFile(filepath.Join(tables, "layout.yaml"), []byte("columns:\n"), 0o644))
	expect(tables)

	// Files that are neither watched nor schema files are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(tables, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0o644))
	select {
	case got := <-changed:
		t.Fatalf("unexpected change reported for %s", got)
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestWatchMissingPath(t *testing.T) {
	err := Watch(context.Background(), []string{filepath.Join(t.TempDir(), "missing.yaml")}, 0, func(string) {})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

// drain discards reports until the channel stays quiet.
func drain(ch <-chan string) {
	for {
		select {
		case <-ch:
		case <-time.After(100 * time.Millisecond):
			return
		}
	}
}
