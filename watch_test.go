// FILE: lixenwraith/bundleconf/watch_test.go
package bundleconf

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const watchedProject = `
[tool.briefcase]
version = "1.0"

[tool.briefcase.app.one]
sources = ["src/one"]

[tool.briefcase.app.two]
sources = ["src/two"]
`

func fastWatchOptions() WatchOptions {
	return WatchOptions{
		PollInterval: 100 * time.Millisecond,
		Debounce:     50 * time.Millisecond,
		MaxWatchers:  10,
	}
}

func nextEvent(t *testing.T, ch <-chan WatchEvent) WatchEvent {
	t.Helper()
	select {
	case ev, ok := <-ch:
		require.True(t, ok, "channel closed")
		return ev
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for watch event")
		return WatchEvent{}
	}
}

func TestWatcher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pyproject.toml")
	require.NoError(t, os.WriteFile(path, []byte(watchedProject), 0644))

	var r Resolver
	w, err := r.Watch(context.Background(), path, Selector{Platform: "linux"}, fastWatchOptions())
	require.NoError(t, err)
	defer w.Stop()

	assert.True(t, w.IsWatching())
	assert.Equal(t, path, w.Path())
	assert.Equal(t, []string{"one", "two"}, w.Current().AppNames())

	events := w.Subscribe()
	assert.Equal(t, 1, w.SubscriberCount())

	t.Run("AppChange", func(t *testing.T) {
		updated := watchedProject + "\n[tool.briefcase.app.two.linux]\nrequires = [\"gtk\"]\n"
		require.NoError(t, os.WriteFile(path, []byte(updated), 0644))

		ev := nextEvent(t, events)
		require.NoError(t, ev.Err)
		assert.Equal(t, []string{"two"}, ev.Apps)
		assert.False(t, ev.GlobalChanged)
		assert.Equal(t, []string{"gtk"}, ev.Resolution.Apps["two"][KeyRequires].Strings())
		assert.Same(t, ev.Resolution, w.Current())
	})

	t.Run("SyntaxError", func(t *testing.T) {
		before := w.Current()
		require.NoError(t, os.WriteFile(path, []byte("[tool.briefcase\n"), 0644))

		ev := nextEvent(t, events)
		assert.ErrorIs(t, ev.Err, ErrDecode)
		assert.Nil(t, ev.Resolution)
		assert.Same(t, before, w.Current(), "a failed reload keeps the last good resolution")
	})

	t.Run("GlobalChange", func(t *testing.T) {
		changed := `
[tool.briefcase]
version = "2.0"

[tool.briefcase.app.one]
sources = ["src/one"]
`
		require.NoError(t, os.WriteFile(path, []byte(changed), 0644))

		ev := nextEvent(t, events)
		require.NoError(t, ev.Err)
		assert.True(t, ev.GlobalChanged)
		// "two" was removed; the version change reaches "one"
		assert.Equal(t, []string{"one", "two"}, ev.Apps)
	})

	t.Run("Deleted", func(t *testing.T) {
		require.NoError(t, os.Remove(path))

		ev := nextEvent(t, events)
		assert.ErrorIs(t, ev.Err, ErrConfigNotFound)
	})
}

func TestWatcherInitialError(t *testing.T) {
	var r Resolver
	_, err := r.Watch(context.Background(), filepath.Join(t.TempDir(), "missing.toml"), Selector{Platform: "linux"}, fastWatchOptions())
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestWatcherStop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "project.cfg")
	require.NoError(t, os.WriteFile(path, []byte(watchedProject), 0644))

	opts := fastWatchOptions()
	opts.Format = FormatTOML
	opts.MaxWatchers = 1

	var r Resolver
	w, err := r.Watch(context.Background(), path, Selector{Platform: "linux"}, opts)
	require.NoError(t, err)

	first := w.Subscribe()
	limited := w.Subscribe()
	_, ok := <-limited
	assert.False(t, ok, "subscriber over the limit gets a closed channel")

	w.Stop()
	assert.False(t, w.IsWatching())
	_, ok = <-first
	assert.False(t, ok)
	assert.Equal(t, 0, w.SubscriberCount())

	_, ok = <-w.Subscribe()
	assert.False(t, ok, "subscribing after Stop returns a closed channel")
}

func TestWatcherContextCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pyproject.toml")
	require.NoError(t, os.WriteFile(path, []byte(watchedProject), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	var r Resolver
	w, err := r.Watch(ctx, path, Selector{Platform: "linux"}, fastWatchOptions())
	require.NoError(t, err)

	events := w.Subscribe()
	cancel()

	select {
	case _, ok := <-events:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after context cancel")
	}
}

func TestChangedApps(t *testing.T) {
	prev := &Resolution{Apps: map[string]Tree{
		"same":    {"k": ScalarValue("v")},
		"edited":  {"k": ScalarValue("v")},
		"removed": {},
	}}
	next := &Resolution{Apps: map[string]Tree{
		"same":   {"k": ScalarValue("v")},
		"edited": {"k": ScalarValue("w")},
		"added":  {},
	}}
	assert.Equal(t, []string{"added", "edited", "removed"}, changedApps(prev, next))
}
