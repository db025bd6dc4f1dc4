// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDebouncerCoalescesBursts(t *testing.T) {
	var calls int32
	d := newDebouncer(20 * time.Millisecond)

	for i := 0; i < 5; i++ {
		d.trigger(func() { atomic.AddInt32(&calls, 1) })
	}

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestWatcherRequiresFiles(t *testing.T) {
	_, err := NewWatcher([]string{"", stdinPath}, DefaultDebounceInterval, zap.NewNop())
	require.Error(t, err)
	assert.Equal(t, "Expected at least one file to watch", err.Error())
}

func TestWatcherRelevantEvents(t *testing.T) {
	dir := t.TempDir()
	tpl := filepath.Join(dir, "tpl.liquid")

	w, err := NewWatcher([]string{tpl}, DefaultDebounceInterval, zap.NewNop())
	require.NoError(t, err)

	assert.True(t, w.relevant(fsnotify.Event{Name: tpl, Op: fsnotify.Write}))
	assert.True(t, w.relevant(fsnotify.Event{Name: tpl, Op: fsnotify.Create}))
	assert.False(t, w.relevant(fsnotify.Event{Name: tpl, Op: fsnotify.Chmod}))
	assert.False(t, w.relevant(fsnotify.Event{Name: filepath.Join(dir, "other"), Op: fsnotify.Write}))
}

func TestWatcherCallsOnChange(t *testing.T) {
	dir := t.TempDir()
	tpl := filepath.Join(dir, "tpl.liquid")
	require.NoError(t, os.WriteFile(tpl, []byte("a"), 0600))

	w, err := NewWatcher([]string{tpl}, 10*time.Millisecond, zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls int32
	done := make(chan error, 1)
	go func() {
		done <- w.Watch(ctx, func() { atomic.AddInt32(&calls, 1) })
	}()

	assert.Eventually(t, func() bool {
		require.NoError(t, os.WriteFile(tpl, []byte("b"), 0600))
		return atomic.LoadInt32(&calls) > 0
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}
