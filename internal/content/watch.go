package content

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reloads a local content file whenever it changes on disk.
// The parent directory is watched so editors that replace the file on save
// are still picked up.
type Watcher struct {
	path     string
	loader   *Loader
	onChange func([]Entry)
	debounce time.Duration

	watcher *fsnotify.Watcher
	wg      sync.WaitGroup
	once    sync.Once
	stopCh  chan struct{}
}

func NewWatcher(path string, loader *Loader, onChange func([]Entry)) (*Watcher, error) {
	if IsURL(path) {
		return nil, fmt.Errorf("watch content: %q is not a local file", path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch content: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch content: %w", err)
	}
	return &Watcher{
		path:     abs,
		loader:   loader,
		onChange: onChange,
		debounce: 200 * time.Millisecond,
		watcher:  fw,
		stopCh:   make(chan struct{}),
	}, nil
}

// Start processes events until ctx is done or Close is called.
func (w *Watcher) Start(ctx context.Context) {
	w.wg.Add(1)
	go w.loop(ctx)
}

func (w *Watcher) loop(ctx context.Context) {
	defer w.wg.Done()
	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending = time.After(w.debounce)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.loader.Logger.Warn("content watcher error", zap.Error(err))
		case <-pending:
			pending = nil
			entries, err := w.loader.Load(ctx, w.path)
			if err != nil {
				w.loader.Logger.Warn("content reload skipped", zap.String("path", w.path), zap.Error(err))
				continue
			}
			w.loader.Logger.Info("content reloaded", zap.String("path", w.path), zap.Int("entries", len(entries)))
			if w.onChange != nil {
				w.onChange(entries)
			}
		}
	}
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.stopCh)
		w.wg.Wait()
		err = w.watcher.Close()
	})
	return err
}
