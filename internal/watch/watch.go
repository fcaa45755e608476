// Package watch reports changes to a single local file, coalescing bursts
// of file system events into one callback.
package watch

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDelay is the quiet period before a change is reported.
const DefaultDelay = 150 * time.Millisecond

// Watcher calls a function after the watched file is written, created or
// renamed into place.
type Watcher struct {
	fsw      *fsnotify.Watcher
	path     string
	delay    time.Duration
	log      zerolog.Logger
	onChange func()

	mu      sync.Mutex
	timer   *time.Timer
	closed  bool
	closeCh chan struct{}
	wg      sync.WaitGroup
}

// New starts watching path. The parent directory is watched so that editors
// replacing the file through a rename are still noticed.
func New(path string, delay time.Duration, log zerolog.Logger, onChange func()) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch: %s: %w", filepath.Dir(abs), err)
	}
	w := &Watcher{
		fsw:      fsw,
		path:     abs,
		delay:    delay,
		log:      log.With().Str("component", "watch").Str("path", abs).Logger(),
		onChange: onChange,
		closeCh:  make(chan struct{}),
	}
	w.wg.Add(1)
	go w.loop()
	w.log.Debug().Dur("delay", delay).Msg("watching")
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.closeCh:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
				continue
			}
			w.log.Debug().Str("op", ev.Op.String()).Msg("event")
			w.schedule()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("watch error")
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, w.fire)
}

func (w *Watcher) fire() {
	w.mu.Lock()
	closed := w.closed
	w.mu.Unlock()
	if closed || w.onChange == nil {
		return
	}
	w.log.Info().Msg("changed")
	w.onChange()
}

// Close stops the watcher. Pending callbacks are dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	close(w.closeCh)
	w.mu.Unlock()
	w.wg.Wait()
	return w.fsw.Close()
}
