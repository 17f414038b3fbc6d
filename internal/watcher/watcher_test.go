package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelevant(t *testing.T) {
	assert.True(t, relevant("src/main.poh"))
	assert.True(t, relevant("plhub.json"))
	assert.False(t, relevant("src/.main.poh.swp"))
	assert.False(t, relevant("notes.txt"))
	assert.False(t, relevant(".hidden.json"))
}

func TestWatcherReportsChanges(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))

	changes := make(chan []string, 1)
	w := New(root, func(paths []string) {
		select {
		case changes <- paths:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to register the tree.
	time.Sleep(200 * time.Millisecond)

	file := filepath.Join(root, "src", "main.poh")
	require.NoError(t, os.WriteFile(file, []byte("Write \"hi\"\n"), 0o644))

	select {
	case paths := <-changes:
		require.NotEmpty(t, paths)
		assert.Contains(t, paths, file)
	case <-time.After(5 * time.Second):
		t.Fatal("no change batch delivered")
	}

	cancel()
	assert.NoError(t, <-done)
}

func TestWatcherCoalescesBursts(t *testing.T) {
	root := t.TempDir()

	changes := make(chan []string, 4)
	w := New(root, func(paths []string) { changes <- paths })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go w.Run(ctx)
	time.Sleep(200 * time.Millisecond)

	// Writes spaced closer than the quiet period must land in one batch;
	// each write resets the debounce window.
	var files []string
	for i := 0; i < 4; i++ {
		f := filepath.Join(root, fmt.Sprintf("part%d.poh", i))
		require.NoError(t, os.WriteFile(f, []byte("Write \"x\"\n"), 0o644))
		files = append(files, f)
		time.Sleep(100 * time.Millisecond)
	}

	select {
	case paths := <-changes:
		for _, f := range files {
			assert.Contains(t, paths, f)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change batch delivered")
	}

	select {
	case paths := <-changes:
		t.Fatalf("burst split into a second batch: %v", paths)
	case <-time.After(700 * time.Millisecond):
	}
}

func TestWatcherIgnoresIrrelevantFiles(t *testing.T) {
	root := t.TempDir()

	changes := make(chan []string, 1)
	w := New(root, func(paths []string) { changes <- paths })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go w.Run(ctx)
	time.Sleep(200 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o644))

	select {
	case paths := <-changes:
		t.Fatalf("unexpected change batch: %v", paths)
	case <-time.After(time.Second):
	}
}
