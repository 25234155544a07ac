package watcher_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gubarz/marko/internal/watcher"
)

func startWatcher(t *testing.T, path string) <-chan struct{} {
	t.Helper()
	w, err := watcher.New(watcher.Config{Path: path, Debounce: 50 * time.Millisecond})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	changes, err := w.Start()
	require.NoError(t, err)
	return changes
}

func TestWatcher_CoalescesWrites(t *testing.T) {
	doc := filepath.Join(t.TempDir(), "notes.mk")
	require.NoError(t, os.WriteFile(doc, []byte("# a"), 0o644))
	changes := startWatcher(t, doc)

	for i := range 10 {
		require.NoError(t, os.WriteFile(doc, []byte(fmt.Sprintf("# %d", i)), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-changes:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected a change notification")
	}

	select {
	case <-changes:
		t.Fatal("unexpected second notification")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcher_IgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "notes.mk")
	other := filepath.Join(dir, "other.mk")
	require.NoError(t, os.WriteFile(doc, []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(other, []byte("b"), 0o644))
	changes := startWatcher(t, doc)

	require.NoError(t, os.WriteFile(other, []byte("changed"), 0o644))

	select {
	case <-changes:
		t.Fatal("sibling write should not notify")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcher_SeesRenameOver(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "notes.mk")
	tmp := filepath.Join(dir, ".notes.mk.swp")
	require.NoError(t, os.WriteFile(doc, []byte("a"), 0o644))
	changes := startWatcher(t, doc)

	require.NoError(t, os.WriteFile(tmp, []byte("saved"), 0o644))
	require.NoError(t, os.Rename(tmp, doc))

	select {
	case <-changes:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected notification for atomic save")
	}
}

func TestWatcher_StopTwice(t *testing.T) {
	doc := filepath.Join(t.TempDir(), "notes.mk")
	require.NoError(t, os.WriteFile(doc, []byte("a"), 0o644))

	w, err := watcher.New(watcher.Config{Path: doc, Debounce: time.Millisecond})
	require.NoError(t, err)
	_, err = w.Start()
	require.NoError(t, err)

	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
}
