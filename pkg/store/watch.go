package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"tableflip.dev/calendiary/pkg/calendar"
	"tableflip.dev/calendiary/pkg/diary"
)

// Watch streams change events until ctx is cancelled. Callers should drain the
// returned channel to avoid blocking the watcher. The channel is closed once
// ctx is done or the watcher encounters an unrecoverable error.
func (p *Disk) Watch(ctx context.Context) (<-chan diary.Event, error) {
	if err := ensureDir(p.basePath); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: create watcher: %w", err)
	}
	var closeOnce sync.Once
	closeWatcher := func() {
		closeOnce.Do(func() {
			if err := watcher.Close(); err != nil {
				p.log.Warn().Err(err).Msg("watcher close")
			}
		})
	}

	dirs, err := collectDirs(p.basePath)
	if err != nil {
		closeWatcher()
		return nil, fmt.Errorf("store: enumerate directories: %w", err)
	}

	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			closeWatcher()
			return nil, fmt.Errorf("store: watch %s: %w", dir, err)
		}
	}

	events := make(chan diary.Event, 64)

	var (
		sendMu sync.Mutex
		done   bool
	)
	go func() {
		defer func() {
			sendMu.Lock()
			done = true
			close(events)
			sendMu.Unlock()
		}()
		defer closeWatcher()

		watched := make(map[string]struct{}, len(dirs))
		for _, dir := range dirs {
			watched[dir] = struct{}{}
		}

		// send runs on the throttle timer, so it may race the shutdown above.
		send := func(ev diary.Event) {
			sendMu.Lock()
			defer sendMu.Unlock()
			if done {
				return
			}
			select {
			case events <- ev:
			default:
				// Consumer is behind; it re-reads on the next event anyway.
			}
		}

		throttle := newEventThrottle(100 * time.Millisecond)
		defer throttle.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				p.log.Warn().Err(err).Msg("watcher error")
				throttle.Enqueue(diary.Event{Type: diary.EventInvalidated}, send)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}

				if evt.Op&fsnotify.Create == fsnotify.Create {
					// A new year or month directory: watch it, and refresh
					// everything since its first file may land before the
					// watch is in place.
					if info, err := os.Stat(evt.Name); err == nil && info.IsDir() {
						absDir := filepath.Clean(evt.Name)
						if _, found := watched[absDir]; !found {
							if err := watcher.Add(absDir); err != nil {
								p.log.Warn().Err(err).Str("dir", absDir).Msg("watch directory")
							} else {
								watched[absDir] = struct{}{}
							}
						}
						throttle.Enqueue(diary.Event{Type: diary.EventInvalidated}, send)
						continue
					}
				}

				date, inTree := p.dateForPath(evt.Name)
				switch {
				case !date.IsZero():
					throttle.Enqueue(diary.Event{Type: diary.EventEntryChanged, Date: date}, send)
				case inTree:
					throttle.Enqueue(diary.Event{Type: diary.EventInvalidated}, send)
				}
			}
		}
	}()

	return events, nil
}

// collectDirs walks base and returns all directories that should be watched.
func collectDirs(base string) ([]string, error) {
	dirs := []string{base}
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() && path != base {
			dirs = append(dirs, path)
		}
		return nil
	})
	return dirs, err
}

// dateForPath maps base/YYYY/MM/DD back to its date. inTree reports whether
// the path lies inside a year directory; files next to the tree, such as the
// log file, are neither.
func (p *Disk) dateForPath(path string) (date calendar.Date, inTree bool) {
	rel, err := filepath.Rel(p.basePath, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return calendar.Date{}, false
	}
	parts := strings.Split(rel, string(os.PathSeparator))
	if len(parts) < 2 {
		return calendar.Date{}, false
	}
	if len(parts) == 3 {
		if d, err := calendar.ParseDate(strings.Join(parts, "-")); err == nil {
			return d, true
		}
	}
	return calendar.Date{}, true
}

// eventThrottle coalesces rapid change notifications so the UI can redraw once
// per burst of filesystem activity instead of on every single write.
type eventThrottle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending map[diary.Event]struct{}
	delay   time.Duration
}

func newEventThrottle(delay time.Duration) *eventThrottle {
	return &eventThrottle{
		delay:   delay,
		pending: make(map[diary.Event]struct{}),
	}
}

func (t *eventThrottle) Enqueue(ev diary.Event, send func(diary.Event)) {
	t.mu.Lock()
	t.pending[ev] = struct{}{}
	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, func() {
			t.flush(send)
		})
	}
	t.mu.Unlock()
}

func (t *eventThrottle) flush(send func(diary.Event)) {
	t.mu.Lock()
	pending := t.pending
	t.pending = make(map[diary.Event]struct{})
	t.timer = nil
	t.mu.Unlock()

	// An invalidation covers every per-date change in the burst.
	if _, ok := pending[diary.Event{Type: diary.EventInvalidated}]; ok {
		send(diary.Event{Type: diary.EventInvalidated})
		return
	}
	for ev := range pending {
		send(ev)
	}
}

func (t *eventThrottle) Stop() {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}
