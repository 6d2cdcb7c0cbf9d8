// Package watch reports changes to a dataset file so it can be reloaded.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDelay coalesces the burst of events one save produces.
const DefaultDelay = 100 * time.Millisecond

// Event signals that the file changed. Err is set when the watcher itself
// failed; the caller should reload anyway.
type Event struct {
	Path string
	Err  error
}

// File streams change events for path until ctx is cancelled. The parent
// directory is watched so editors that replace the file are seen. Events
// are coalesced per delay and dropped while the consumer still holds an
// unread one.
func File(ctx context.Context, path string, delay time.Duration) (<-chan Event, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	if delay <= 0 {
		delay = DefaultDelay
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}

	events := make(chan Event, 1)
	go func() {
		defer close(events)
		defer watcher.Close()

		var mu sync.Mutex
		var stopped bool
		send := func(ev Event) {
			mu.Lock()
			defer mu.Unlock()
			if stopped {
				return
			}
			select {
			case events <- ev:
			default:
			}
		}
		co := newCoalescer(delay)
		defer func() {
			co.Stop()
			mu.Lock()
			stopped = true
			mu.Unlock()
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				co.Enqueue(func() { send(Event{Path: abs, Err: err}) })
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(evt.Name) != abs {
					continue
				}
				if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				co.Enqueue(func() { send(Event{Path: abs}) })
			}
		}
	}()
	return events, nil
}

// coalescer runs the latest enqueued callback once per delay window.
type coalescer struct {
	mu    sync.Mutex
	timer *time.Timer
	fn    func()
	delay time.Duration
}

func newCoalescer(delay time.Duration) *coalescer {
	return &coalescer{delay: delay}
}

func (c *coalescer) Enqueue(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fn = fn
	if c.timer == nil {
		c.timer = time.AfterFunc(c.delay, c.flush)
	}
}

func (c *coalescer) flush() {
	c.mu.Lock()
	fn := c.fn
	c.fn = nil
	c.timer = nil
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (c *coalescer) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.fn = nil
}
