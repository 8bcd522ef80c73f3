package memory

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/turtacn/molgraph/internal/domain/molecule"
	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molgraph/pkg/errors"
)

// DefaultReloadDebounce collapses bursts of writes from editors and copy tools.
const DefaultReloadDebounce = 100 * time.Millisecond

// FileWatcher reloads a LibraryRepo whenever its YAML file changes. A file
// that fails to load leaves the previous contents in place.
type FileWatcher struct {
	path     string
	repo     *LibraryRepo
	opts     molecule.FingerprintCalcOptions
	log      logging.Logger
	debounce time.Duration

	mu       sync.Mutex
	onReload func(count int, err error)
}

// WatcherOption configures a FileWatcher.
type WatcherOption func(*FileWatcher)

// WithDebounce overrides DefaultReloadDebounce.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *FileWatcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithReloadHook is called after every reload attempt.
func WithReloadHook(fn func(count int, err error)) WatcherOption {
	return func(w *FileWatcher) { w.onReload = fn }
}

// NewFileWatcher performs the initial load into repo and returns a watcher
// ready to Run.
func NewFileWatcher(path string, repo *LibraryRepo, opts molecule.FingerprintCalcOptions, log logging.Logger, options ...WatcherOption) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidParam, "invalid library path").WithDetail(path)
	}
	w := &FileWatcher{
		path:     abs,
		repo:     repo,
		opts:     opts,
		log:      log.Named("library_watcher"),
		debounce: DefaultReloadDebounce,
	}
	for _, o := range options {
		o(w)
	}
	if err := w.reload(); err != nil {
		return nil, err
	}
	return w, nil
}

// Run watches the file's directory until ctx is cancelled. Watching the
// directory rather than the file survives atomic rename-over saves.
func (w *FileWatcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to create file watcher")
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to watch library directory").WithDetail(w.path)
	}
	w.log.Info("watching library file", logging.String("path", w.path))

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			_ = w.reload()
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("library watcher error", logging.Err(err))
		}
	}
}

func (w *FileWatcher) reload() error {
	entries, err := LoadLibraryFile(w.path, w.opts)
	if err == nil {
		err = w.repo.Replace(entries)
	}

	w.mu.Lock()
	hook := w.onReload
	w.mu.Unlock()

	if err != nil {
		w.log.Warn("library reload failed, keeping previous contents",
			logging.String("path", w.path), logging.Err(err))
		if hook != nil {
			hook(0, err)
		}
		return err
	}
	w.log.Info("library loaded", logging.String("path", w.path), logging.Int("compounds", len(entries)))
	if hook != nil {
		hook(len(entries), nil)
	}
	return nil
}

//Personal.AI order the ending
