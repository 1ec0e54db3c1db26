package watch

import (
	"context"
	"sync"
	"time"
)

// newDebouncer returns a request channel and a trigger function. Every
// trigger call resets the timer; once the window elapses with no further
// calls, a single request lands on the channel. A request already waiting
// absorbs later ones, so a burst of changes yields one rebuild.
func newDebouncer(window time.Duration) (chan struct{}, func()) {
	var mu sync.Mutex
	var timer *time.Timer
	requests := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(window, func() {
			select {
			case requests <- struct{}{}:
			default:
			}
		})
	}

	return requests, trigger
}

// runWorker drains rebuild requests one at a time. Rebuilds run inside this
// single goroutine, so requests arriving mid-rebuild coalesce in the
// capacity-1 channel into exactly one followup run. Rebuild failures are
// reported through onResult and never stop the worker.
func runWorker(ctx context.Context, requests chan struct{}, rebuild func(context.Context) error, onResult func(error)) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-requests:
			if !ok {
				return
			}
			onResult(rebuild(ctx))
		}
	}
}
