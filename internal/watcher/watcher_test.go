package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/course-scribe/internal/logger"
)

func TestIsMediaFile(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.mp4", "b.MOV", "c.mp3", "d.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "folder.mp4"), 0o755))

	assert.True(t, isMediaFile(filepath.Join(dir, "a.mp4")))
	assert.True(t, isMediaFile(filepath.Join(dir, "b.MOV")))
	assert.True(t, isMediaFile(filepath.Join(dir, "c.mp3")))
	assert.False(t, isMediaFile(filepath.Join(dir, "d.txt")))
	assert.False(t, isMediaFile(filepath.Join(dir, "folder.mp4")))
	assert.False(t, isMediaFile(filepath.Join(dir, "missing.mp4")))
}

func TestWatcherHandlesNewRecordings(t *testing.T) {
	dir := t.TempDir()

	var (
		mu      sync.Mutex
		handled []string
		running int32
		peak    int32
	)
	done := make(chan struct{}, 4)
	handler := func(ctx context.Context, path string) error {
		n := atomic.AddInt32(&running, 1)
		if n > atomic.LoadInt32(&peak) {
			atomic.StoreInt32(&peak, n)
		}
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt32(&running, -1)

		mu.Lock()
		handled = append(handled, filepath.Base(path))
		mu.Unlock()
		done <- struct{}{}
		return nil
	}

	w, err := New(dir, handler, logger.Nop(), 1)
	require.NoError(t, err)
	w.(*implWatcher).settle = 0
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Start(ctx) }()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "one.mp4"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "two.wav"), []byte("x"), 0o644))

	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("handler was not called")
		}
	}

	cancel()
	assert.ErrorIs(t, <-errCh, context.Canceled)

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{"one.mp4", "two.wav"}, handled)
	assert.Equal(t, int32(1), atomic.LoadInt32(&peak))
}
