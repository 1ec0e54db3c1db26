package watch

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegen/config"
)

func TestDebouncer_BurstYieldsSingleRequest(t *testing.T) {
	requests, trigger := newDebouncer(30 * time.Millisecond)

	for i := 0; i < 20; i++ {
		trigger()
		time.Sleep(time.Millisecond)
	}

	select {
	case <-requests:
	case <-time.After(time.Second):
		t.Fatal("expected a rebuild request after the quiet window")
	}

	select {
	case <-requests:
		t.Fatal("burst produced more than one rebuild request")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDebouncer_SeparatedChangesYieldSeparateRequests(t *testing.T) {
	requests, trigger := newDebouncer(10 * time.Millisecond)

	trigger()
	select {
	case <-requests:
	case <-time.After(time.Second):
		t.Fatal("first request missing")
	}

	trigger()
	select {
	case <-requests:
	case <-time.After(time.Second):
		t.Fatal("second request missing")
	}
}

func TestRunWorker_FailedRebuildKeepsWorkerAlive(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	requests := make(chan struct{}, 1)
	var calls atomic.Int32
	results := make(chan error, 4)

	go runWorker(ctx, requests,
		func(context.Context) error {
			if calls.Add(1) == 1 {
				return errors.New("boom")
			}
			return nil
		},
		func(err error) { results <- err })

	requests <- struct{}{}
	require.Error(t, <-results)

	requests <- struct{}{}
	require.NoError(t, <-results)
	require.Equal(t, int32(2), calls.Load())
}

func TestRunWorker_RequestsDuringRebuildCoalesce(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	requests := make(chan struct{}, 1)
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	results := make(chan error, 8)

	go runWorker(ctx, requests,
		func(context.Context) error {
			if calls.Add(1) == 1 {
				started <- struct{}{}
				<-release
			}
			return nil
		},
		func(err error) { results <- err })

	requests <- struct{}{}
	<-started

	// Several requests while the first rebuild is in flight.
	for i := 0; i < 5; i++ {
		select {
		case requests <- struct{}{}:
		default:
		}
	}
	close(release)

	require.NoError(t, <-results)
	require.NoError(t, <-results)

	select {
	case err := <-results:
		t.Fatalf("unexpected extra rebuild result: %v", err)
	case <-time.After(100 * time.Millisecond):
	}
	require.Equal(t, int32(2), calls.Load())
}

func TestShouldIgnore_EditorNoise(t *testing.T) {
	ignored := []string{
		"/site/pages/.index.html.swp",
		"/site/pages/index.html~",
		"/site/pages/#index.html#",
		"/site/.git",
		"/site/static/Thumbs.db",
	}
	for _, path := range ignored {
		require.True(t, shouldIgnore(path), "expected %s to be ignored", path)
	}

	kept := []string{
		"/site/pages/index.html",
		"/site/data/nav.json",
		"/site/templates/post.html",
	}
	for _, path := range kept {
		require.False(t, shouldIgnore(path), "expected %s to trigger", path)
	}
}

func TestWatcher_InsideOutput(t *testing.T) {
	cfg := &config.Config{OutputDir: "/site/public"}
	w := New(cfg, func(context.Context) error { return nil })

	require.True(t, w.insideOutput("/site/public/index.html"))
	require.True(t, w.insideOutput("/site/public"))
	require.False(t, w.insideOutput("/site/publicity/index.html"))
	require.False(t, w.insideOutput("/site/pages/index.html"))
}
