// Package watchd runs the catalog watch daemon: it watches a directory for
// arriving catalog files and feeds each one through the pipeline, one run at
// a time, while a small HTTP API reports progress. A file lock enforces
// single-instance execution.
package watchd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"sedgen/internal/config"
	"sedgen/internal/logging"
	"sedgen/internal/pipeline"
)

// lockFileName is created under the log directory to enforce a single
// daemon instance per installation.
const lockFileName = "sedgen-watch.lock"

// Daemon coordinates the watcher, the pipeline runs, and the API server.
type Daemon struct {
	cfg     *config.Config
	logger  *slog.Logger
	history *History

	lockPath string
	lock     *flock.Flock

	watcher *Watcher
	api     *apiServer

	running atomic.Bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// Status reports daemon runtime information.
type Status struct {
	Running    bool       `json:"running"`
	WatchDir   string     `json:"watch_dir"`
	Globs      []string   `json:"globs"`
	APIAddress string     `json:"api_address,omitempty"`
	LockPath   string     `json:"lock_path"`
	Runs       int        `json:"runs"`
	Failures   int        `json:"failures"`
	LastRun    *RunRecord `json:"last_run,omitempty"`
}

// New constructs a daemon from validated configuration.
func New(cfg *config.Config, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || logger == nil {
		return nil, errors.New("watch daemon requires config and logger")
	}
	if strings.TrimSpace(cfg.Watch.Dir) == "" {
		return nil, errors.New("watch directory is not configured")
	}
	lockPath := filepath.Join(cfg.Paths.LogDir, lockFileName)
	return &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "watchd"),
		history:  NewHistory(cfg.Watch.HistorySize),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the instance lock, starts the directory watcher, and brings
// up the API server.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("watch daemon already running")
	}

	if err := os.MkdirAll(filepath.Dir(d.lockPath), 0o755); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}
	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another watch daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)

	watcher, err := NewWatcher(d.cfg.Watch.Dir, d.cfg.Watch.Globs, d.debounce(), d.logger)
	if err != nil {
		_ = d.lock.Unlock()
		cancel()
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Start(); err != nil {
		_ = d.lock.Unlock()
		cancel()
		return fmt.Errorf("start watcher: %w", err)
	}
	d.watcher = watcher

	d.api = newAPIServer(d.cfg.Watch.APIBind, d, d.logger)
	if err := d.api.start(runCtx); err != nil {
		watcher.Stop()
		_ = d.lock.Unlock()
		cancel()
		return err
	}

	d.cancel = cancel
	d.done = make(chan struct{})
	go d.loop(runCtx)

	d.running.Store(true)
	d.logger.Info("watch daemon started",
		logging.String("dir", d.cfg.Watch.Dir),
		logging.String("lock", d.lockPath))
	return nil
}

// Stop shuts down processing and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if d.watcher != nil {
		d.watcher.Stop()
	}
	<-d.done
	d.api.stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("watch daemon stopped")
}

// Run starts the daemon and blocks until the context is canceled.
func (d *Daemon) Run(ctx context.Context) error {
	if err := d.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	d.Stop()
	return nil
}

// Status returns the current daemon status.
func (d *Daemon) Status() Status {
	runs, failures := d.history.Counts()
	st := Status{
		Running:    d.running.Load(),
		WatchDir:   d.cfg.Watch.Dir,
		Globs:      d.cfg.Watch.Globs,
		APIAddress: d.api.addr(),
		LockPath:   d.lockPath,
		Runs:       runs,
		Failures:   failures,
	}
	if last, ok := d.history.Last(); ok {
		st.LastRun = &last
	}
	return st
}

// History exposes the run history for the API and tests.
func (d *Daemon) History() *History {
	return d.history
}

func (d *Daemon) debounce() time.Duration {
	return time.Duration(d.cfg.Watch.DebounceSeconds) * time.Second
}

func (d *Daemon) loop(ctx context.Context) {
	defer close(d.done)
	for {
		select {
		case <-ctx.Done():
			return
		case path, ok := <-d.watcher.Catalogs:
			if !ok {
				return
			}
			d.process(ctx, path)
		}
	}
}

// process feeds one catalog through the pipeline. Arrivals are handled
// strictly one at a time; a failed run is recorded and the daemon keeps
// watching.
func (d *Daemon) process(ctx context.Context, path string) {
	started := time.Now()
	d.logger.Info("catalog arrived", logging.String(logging.FieldCatalog, path))

	res, err := pipeline.Run(ctx, pipeline.Options{
		CatalogFiles:    []string{path},
		NormalizeColumn: d.cfg.Pipeline.NormalizeColumn,
		Extrapolate:     d.cfg.Pipeline.Extrapolate,
		OutputDir:       d.cfg.Paths.OutputDir,
		ReferenceDir:    d.cfg.Paths.ReferenceDir,
		Logger:          d.logger,
	})
	rec := RunRecord{
		Catalog:   path,
		StartedAt: started,
		Duration:  time.Since(started),
	}
	if err != nil {
		rec.Error = err.Error()
		d.logger.Error("catalog run failed",
			logging.String(logging.FieldCatalog, path),
			logging.Error(err))
	} else {
		rec.RunID = res.RunID
		rec.OutputPath = res.OutputPath
		rec.Objects = res.Objects
		d.logger.Info("catalog run finished",
			logging.String(logging.FieldCatalog, path),
			logging.String(logging.FieldArchive, res.OutputPath),
			logging.Int("objects", res.Objects))
	}
	d.history.Add(rec)
}
