// Package reload keeps a bound configuration current while its sources
// change.
package reload

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/Sparky983/warp-config-sub000/metrics"
	"github.com/Sparky983/warp-config-sub000/node"
)

// Loader binds a configuration. *warp.Builder implements it.
type Loader[T any] interface {
	// Load reads the sources once and returns the bound configuration
	// together with the merged tree it was bound from.
	Load() (T, node.Node, error)
}

// Option configures a Holder.
type Option func(*options)

type options struct {
	logger  zerolog.Logger
	metrics *metrics.Collector
}

// WithLogger sets the logger reloads report to.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics records every reload on c.
func WithMetrics(c *metrics.Collector) Option {
	return func(o *options) {
		o.metrics = c
	}
}

// Holder provides thread-safe access to a configuration with hot reload
// support.
type Holder[T any] struct {
	loader Loader[T]
	opts   options

	mu        sync.RWMutex
	current   T
	effective node.Node
	onChange  []func(T, []Change)

	// reloading serializes reloads so callbacks see changes in order.
	reloading sync.Mutex

	watcher  *fsnotify.Watcher
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewHolder loads the initial configuration. It fails when the first load
// does.
func NewHolder[T any](loader Loader[T], opts ...Option) (*Holder[T], error) {
	o := options{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	h := &Holder[T]{loader: loader, opts: o, stopCh: make(chan struct{})}

	cfg, effective, err := h.loader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	h.current = cfg
	h.effective = effective

	return h, nil
}

// Get returns the current configuration.
func (h *Holder[T]) Get() T {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.current
}

// Reload binds the sources again. On failure the current configuration is
// kept and the error returned.
func (h *Holder[T]) Reload() error {
	h.reloading.Lock()
	defer h.reloading.Unlock()

	logger := h.opts.logger
	logger.Info().Msg("reloading configuration")

	cfg, effective, err := h.loader.Load()
	h.opts.metrics.ObserveReload(time.Now(), err)

	if err != nil {
		logger.Error().Err(err).Msg("config reload failed, keeping old config")
		return fmt.Errorf("reload config: %w", err)
	}

	h.mu.Lock()
	previous := h.effective
	h.current = cfg
	h.effective = effective
	callbacks := h.onChange
	h.mu.Unlock()

	changes := Changes(previous, effective)
	h.logChanges(previous, effective, changes)

	for _, fn := range callbacks {
		fn(cfg, changes)
	}

	logger.Info().Int("changes", len(changes)).Msg("configuration reloaded successfully")

	return nil
}

// OnChange registers fn to run after every successful reload.
func (h *Holder[T]) OnChange(fn func(T, []Change)) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.onChange = append(h.onChange, fn)
}

func (h *Holder[T]) logChanges(previous, effective node.Node, changes []Change) {
	logger := h.opts.logger

	for _, c := range changes {
		logger.Info().
			Str("path", c.Path).
			Str("change", c.Kind.String()).
			Str("old", c.Old).
			Str("new", c.New).
			Msg("configuration changed")
	}

	if len(changes) == 0 || logger.GetLevel() > zerolog.DebugLevel {
		return
	}

	diff, err := TextDiff(previous, effective)
	if err != nil {
		logger.Debug().Err(err).Msg("cannot render configuration diff")
		return
	}

	logger.Debug().Str("diff", diff).Msg("configuration diff")
}

// WatchFiles reloads whenever one of the files is written or recreated.
// Directories are watched so editors that save by renaming are noticed.
func (h *Holder[T]) WatchFiles(paths ...string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	files := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)

	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			watcher.Close()
			return fmt.Errorf("absolute path: %w", err)
		}

		files[abs] = true

		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}

		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return fmt.Errorf("watch directory: %w", err)
		}

		dirs[dir] = true
	}

	h.watcher = watcher

	go h.watchLoop(watcher, files)

	h.opts.logger.Info().Strs("paths", paths).Msg("watching config files for changes")

	return nil
}

// WatchSignals reloads on SIGHUP.
func (h *Holder[T]) WatchSignals() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP)

	go func() {
		for {
			select {
			case <-sigCh:
				h.opts.logger.Info().Msg("received SIGHUP, reloading config")

				if err := h.Reload(); err != nil {
					h.opts.logger.Error().Err(err).Msg("SIGHUP reload failed")
				}
			case <-h.stopCh:
				signal.Stop(sigCh)
				return
			}
		}
	}()

	h.opts.logger.Info().Msg("listening for SIGHUP to reload config")
}

// Stop stops watching files and signals. It is safe to call more than once.
func (h *Holder[T]) Stop() {
	h.stopOnce.Do(func() {
		close(h.stopCh)

		if h.watcher != nil {
			h.watcher.Close()
		}
	})
}

func (h *Holder[T]) watchLoop(watcher *fsnotify.Watcher, files map[string]bool) {
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			if !files[filepath.Clean(event.Name)] {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			h.opts.logger.Debug().
				Str("event", event.Op.String()).
				Str("file", event.Name).
				Msg("config file changed")

			if err := h.Reload(); err != nil {
				h.opts.logger.Error().Err(err).Msg("file watch reload failed")
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}

			h.opts.logger.Error().Err(err).Msg("file watcher error")
		case <-h.stopCh:
			return
		}
	}
}
