package dev

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReportsFileChanges(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "page.html")
	other := filepath.Join(dir, "other.html")
	require.NoError(t, os.WriteFile(watched, []byte("<p>1</p>"), 0644))
	require.NoError(t, os.WriteFile(other, []byte("x"), 0644))

	w, err := NewWatcher(WatcherConfig{Paths: []string{watched}, Debounce: 20 * time.Millisecond})
	require.NoError(t, err)
	defer w.Close()

	got := make(chan []Change, 4)
	w.OnChange(func(c []Change) { got <- c })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	require.NoError(t, os.WriteFile(other, []byte("y"), 0644))
	require.NoError(t, os.WriteFile(watched, []byte("<p>2</p>"), 0644))
	require.NoError(t, os.WriteFile(watched, []byte("<p>3</p>"), 0644))

	select {
	case changes := <-got:
		require.Len(t, changes, 1, "writes are debounced and siblings filtered")
		abs, _ := filepath.Abs(watched)
		assert.Equal(t, abs, changes[0].Path)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for change")
	}
}

func TestWatcherIgnoresPatterns(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(WatcherConfig{Paths: []string{dir}, Debounce: 20 * time.Millisecond})
	require.NoError(t, err)
	defer w.Close()

	got := make(chan []Change, 4)
	w.OnChange(func(c []Change) { got <- c })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".page.html.swp"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data.yaml"), []byte("a: 1"), 0644))

	select {
	case changes := <-got:
		for _, c := range changes {
			assert.Equal(t, "data.yaml", filepath.Base(c.Path))
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for change")
	}
}

func TestWatcherMissingPath(t *testing.T) {
	_, err := NewWatcher(WatcherConfig{Paths: []string{filepath.Join(t.TempDir(), "nope")}})
	assert.Error(t, err)
}
