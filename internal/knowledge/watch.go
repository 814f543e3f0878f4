package knowledge

import (
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher holds a hot-reloadable Base behind an atomic pointer so readers
// never observe a partially-rebuilt knowledge base (spec.md §3 "read-only
// after load" — reload replaces the whole value, it never mutates one in
// place).
type Watcher struct {
	current atomic.Pointer[Base]
	dataDir string
	files   []string
	log     *zap.Logger
	fsWatch *fsnotify.Watcher
}

// NewWatcher loads the base once and starts watching dataDir for changes
// to the named knowledge files.
func NewWatcher(log *zap.Logger, dataDir string, files ...string) (*Watcher, error) {
	base, err := Load(dataDir, files...)
	if err != nil {
		return nil, err
	}

	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsWatch.Add(dataDir); err != nil {
		fsWatch.Close()
		return nil, err
	}

	w := &Watcher{dataDir: dataDir, files: files, log: log, fsWatch: fsWatch}
	w.current.Store(base)

	go w.loop()
	return w, nil
}

// Get returns the currently active knowledge base.
func (w *Watcher) Get() *Base {
	return w.current.Load()
}

// Close stops the filesystem watch.
func (w *Watcher) Close() error {
	return w.fsWatch.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.fsWatch.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.reload()
		case err, ok := <-w.fsWatch.Errors:
			if !ok {
				return
			}
			w.log.Warn("knowledge watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload() {
	base, err := Load(w.dataDir, w.files...)
	if err != nil {
		w.log.Warn("knowledge reload failed, keeping prior base", zap.Error(err))
		return
	}
	w.current.Store(base)
	w.log.Info("knowledge base reloaded")
}
