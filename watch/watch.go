// Package watch reloads a locale.Store whenever its files change on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/frizinak/uiloc/locale"
)

const DefaultDebounce = 300 * time.Millisecond

type Watcher struct {
	watcher  *fsnotify.Watcher
	store    *locale.Store
	loader   *locale.Loader
	debounce time.Duration
	log      zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	onReload func(*locale.Snapshot, error)
}

// New watches the directories of the store's loader. Bursts of events are
// collapsed into one reload after debounce.
func New(store *locale.Store, debounce time.Duration, log zerolog.Logger) (*Watcher, error) {
	loader := store.Loader()
	if loader == nil {
		return nil, errors.New("watch: store has no loader")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		watcher:  w,
		store:    store,
		loader:   loader,
		debounce: debounce,
		log:      log,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// OnReload sets a callback run after every reload attempt. Must be called
// before Start.
func (w *Watcher) OnReload(cb func(*locale.Snapshot, error)) { w.onReload = cb }

func (w *Watcher) Start() error {
	if err := w.watcher.Add(w.loader.Dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.loader.Dir, err)
	}
	if d := w.loader.PendingDir; d != "" {
		if _, err := os.Stat(d); err == nil {
			if err := w.watcher.Add(d); err != nil {
				return fmt.Errorf("watch %s: %w", d, err)
			}
		}
	}

	w.wg.Add(1)
	go w.run()
	w.log.Info().Str("dir", w.loader.Dir).Dur("debounce", w.debounce).Msg("watching localization files")
	return nil
}

func (w *Watcher) Stop() error {
	w.cancel()
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

const relevantOps = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename

func (w *Watcher) run() {
	defer w.wg.Done()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.ctx.Done():
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&relevantOps == 0 || !w.loader.Relevant(ev.Name) {
				continue
			}
			w.log.Debug().Str("file", ev.Name).Stringer("op", ev.Op).Msg("change")
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("watcher error")

		case <-fire:
			fire = nil
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	s, err := w.store.Reload(w.ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("reload failed, keeping previous data")
	} else {
		w.log.Info().Uint64("version", s.Version).Int("languages", len(s.Languages)).Msg("reloaded")
	}
	if w.onReload != nil {
		w.onReload(s, err)
	}
}
