// FILE: lixenwraith/bundleconf/watch.go
package bundleconf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

const DefaultMaxWatchers = 100 // Prevent resource exhaustion

// WatchOptions configures project file watching
type WatchOptions struct {
	// PollInterval for file stat checks (minimum 100ms)
	PollInterval time.Duration

	// Debounce duration to coalesce rapid edits into one re-resolution
	Debounce time.Duration

	// MaxWatchers limits concurrent subscriber channels
	MaxWatchers int

	// ReloadTimeout bounds one load and resolve cycle
	ReloadTimeout time.Duration

	// Format of the project file; FormatAuto uses the file extension
	Format Format
}

// DefaultWatchOptions returns sensible defaults for file watching
func DefaultWatchOptions() WatchOptions {
	return WatchOptions{
		PollInterval:  DefaultPollInterval,
		Debounce:      DefaultDebounce,
		MaxWatchers:   DefaultMaxWatchers,
		ReloadTimeout: DefaultReloadTimeout,
		Format:        FormatAuto,
	}
}

// WatchEvent reports one re-resolution of a watched project file. Either
// Err is set, or Resolution holds the new result and Apps lists the apps
// that were added, removed or changed.
type WatchEvent struct {
	Resolution    *Resolution
	Apps          []string
	GlobalChanged bool
	Err           error
}

// Watcher re-resolves a project file whenever it changes on disk
type Watcher struct {
	resolver Resolver
	selector Selector
	path     string
	opts     WatchOptions

	ctx    context.Context
	cancel context.CancelFunc

	mu               sync.RWMutex
	current          *Resolution
	subscribers      map[int64]chan WatchEvent
	closed           bool
	debounceTimer    *time.Timer
	lastModTime      time.Time
	lastSize         int64
	missing          bool
	watching         atomic.Bool
	reloadInProgress atomic.Bool
	nextID           atomic.Int64
}

// Watch resolves path once and then polls it for changes until ctx is done
// or Stop is called. The initial resolution error, if any, is returned.
func (r *Resolver) Watch(ctx context.Context, path string, sel Selector, opts WatchOptions) (*Watcher, error) {
	if opts.PollInterval < MinPollInterval {
		opts.PollInterval = MinPollInterval
	}
	if opts.MaxWatchers <= 0 {
		opts.MaxWatchers = DefaultMaxWatchers
	}
	if opts.ReloadTimeout <= 0 {
		opts.ReloadTimeout = DefaultReloadTimeout
	}

	w := &Watcher{
		resolver:    *r,
		selector:    sel,
		path:        path,
		opts:        opts,
		subscribers: make(map[int64]chan WatchEvent),
	}

	// Stat before loading so an edit during the first load is not missed
	if info, err := os.Stat(path); err == nil {
		w.lastModTime = info.ModTime()
		w.lastSize = info.Size()
	}

	res, err := w.load()
	if err != nil {
		return nil, err
	}
	w.current = res

	w.ctx, w.cancel = context.WithCancel(ctx)
	w.watching.Store(true)
	go w.watchLoop()

	return w, nil
}

// Current returns the most recent successful resolution
func (w *Watcher) Current() *Resolution {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Path returns the watched file
func (w *Watcher) Path() string {
	return w.path
}

// Subscribe returns a channel of watch events. The channel is closed when
// the watcher stops. Slow subscribers miss events rather than block others.
func (w *Watcher) Subscribe() <-chan WatchEvent {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed || len(w.subscribers) >= w.opts.MaxWatchers {
		ch := make(chan WatchEvent)
		close(ch)
		return ch
	}

	ch := make(chan WatchEvent, 10)
	w.subscribers[w.nextID.Add(1)] = ch
	return ch
}

// SubscriberCount returns the number of open subscriber channels
func (w *Watcher) SubscriberCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.subscribers)
}

// IsWatching reports whether the poll loop is running
func (w *Watcher) IsWatching() bool {
	return w.watching.Load()
}

// Stop terminates watching and closes every subscriber channel
func (w *Watcher) Stop() {
	w.cancel()

	// Wait for watch loop to exit with timeout
	deadline := time.Now().Add(ShutdownTimeout)
	for w.watching.Load() && time.Now().Before(deadline) {
		time.Sleep(SpinWaitInterval)
	}
}

func (w *Watcher) watchLoop() {
	defer w.shutdown()

	ticker := time.NewTicker(w.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.checkAndReload()
		}
	}
}

func (w *Watcher) shutdown() {
	w.mu.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
		w.debounceTimer = nil
	}
	w.closed = true
	for id, ch := range w.subscribers {
		close(ch)
		delete(w.subscribers, id)
	}
	w.mu.Unlock()

	w.watching.Store(false)
}

// checkAndReload schedules a debounced re-resolution when the file's
// modification time or size changed
func (w *Watcher) checkAndReload() {
	info, err := os.Stat(w.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !w.missing {
			w.missing = true
			w.lastModTime = time.Time{}
			w.lastSize = -1
			w.notify(WatchEvent{Err: fmt.Errorf("%w: %s", ErrConfigNotFound, w.path)})
		}
		return
	}
	w.missing = false

	if info.ModTime().Equal(w.lastModTime) && info.Size() == w.lastSize {
		return
	}
	w.lastModTime = info.ModTime()
	w.lastSize = info.Size()

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.opts.Debounce, w.performReload)
}

func (w *Watcher) performReload() {
	// Prevent concurrent reloads
	if !w.reloadInProgress.CompareAndSwap(false, true) {
		return
	}
	defer w.reloadInProgress.Store(false)

	ctx, cancel := context.WithTimeout(w.ctx, w.opts.ReloadTimeout)
	defer cancel()

	type result struct {
		res *Resolution
		err error
	}
	done := make(chan result, 1)
	go func() {
		res, err := w.load()
		done <- result{res, err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			w.notify(WatchEvent{Err: r.err})
			return
		}

		w.mu.Lock()
		prev := w.current
		w.current = r.res
		w.mu.Unlock()

		event := WatchEvent{
			Resolution:    r.res,
			Apps:          changedApps(prev, r.res),
			GlobalChanged: !reflect.DeepEqual(prev.Global, r.res.Global),
		}
		if len(event.Apps) > 0 || event.GlobalChanged {
			w.resolver.logger().Debug("project file changed", "path", w.path, "apps", event.Apps)
			w.notify(event)
		}

	case <-ctx.Done():
		if w.ctx.Err() == nil {
			w.notify(WatchEvent{Err: fmt.Errorf("resolving %s timed out after %s", w.path, w.opts.ReloadTimeout)})
		}
	}
}

func (w *Watcher) load() (*Resolution, error) {
	if w.opts.Format == FormatAuto || w.opts.Format == "" {
		return w.resolver.LoadFile(w.path, w.selector)
	}

	data, err := os.ReadFile(w.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, w.path)
		}
		return nil, fmt.Errorf("failed to read config file '%s': %w", w.path, err)
	}
	res, err := w.resolver.ParseBytes(data, w.opts.Format, w.selector)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", w.path, err)
	}
	return res, nil
}

// notify sends event to all subscribers without blocking
func (w *Watcher) notify(event WatchEvent) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.closed {
		return
	}
	for _, ch := range w.subscribers {
		select {
		case ch <- event:
		default:
			// Channel full, skip
		}
	}
}

// changedApps lists, in sorted order, the apps whose merged configuration
// differs between two resolutions
func changedApps(prev, next *Resolution) []string {
	var names []string
	for name, t := range next.Apps {
		if old, ok := prev.Apps[name]; !ok || !reflect.DeepEqual(old, t) {
			names = append(names, name)
		}
	}
	for name := range prev.Apps {
		if _, ok := next.Apps[name]; !ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
