package watchd

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"sedgen/internal/logging"
)

// defaultDebounce spaces out bursts of filesystem events for the same file,
// so a catalog still being copied in is picked up once, after it settles.
const defaultDebounce = time.Second

// Watcher monitors a directory for arriving catalog files using fsnotify.
type Watcher struct {
	dir      string
	globs    []string
	debounce time.Duration
	logger   *slog.Logger

	// Catalogs delivers settled catalog paths. It is closed by Stop.
	Catalogs <-chan string

	catalogs chan string
	done     chan struct{}
	watcher  *fsnotify.Watcher
}

// NewWatcher creates a watcher for catalog files in dir whose base names
// match one of the globs.
func NewWatcher(dir string, globs []string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ch := make(chan string, 16)
	w := &Watcher{
		dir:      dir,
		globs:    globs,
		debounce: debounce,
		logger:   logger,
		Catalogs: ch,
		catalogs: ch,
		done:     make(chan struct{}),
		watcher:  fw,
	}
	return w, nil
}

// Start begins watching the directory.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(w.dir); err != nil {
		return err
	}

	go w.loop()
	return nil
}

// Stop closes the watcher and channels.
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done // Wait for loop to exit
	close(w.catalogs)
}

func (w *Watcher) loop() {
	defer close(w.done)

	// Debounce: track last event time per file.
	pending := make(map[string]time.Time)
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				// Drain pending on close.
				for file := range pending {
					w.emit(file)
				}
				return
			}

			if !w.isCatalog(event.Name) {
				continue
			}

			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) {
				pending[event.Name] = time.Now()
			}

		case <-ticker.C:
			now := time.Now()
			for file, seen := range pending {
				if now.Sub(seen) >= w.debounce {
					w.emit(file)
					delete(pending, file)
				}
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", logging.Error(err))
		}
	}
}

func (w *Watcher) isCatalog(name string) bool {
	base := filepath.Base(name)
	// Annotated copies land next to their catalog; feeding them back in
	// would loop forever.
	if strings.Contains(base, "_with_flambda") {
		return false
	}
	for _, glob := range w.globs {
		if ok, err := filepath.Match(glob, base); err == nil && ok {
			return true
		}
	}
	return false
}

func (w *Watcher) emit(file string) {
	if _, err := os.Stat(file); err != nil {
		w.logger.Debug("skipping vanished file", logging.String("path", file))
		return
	}
	select {
	case w.catalogs <- file:
	default:
		w.logger.Warn("dropping catalog arrival, processor is saturated",
			logging.String("path", file))
	}
}
