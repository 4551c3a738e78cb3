//go:build !linux && !darwin

package watch

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"
)

const pollInterval = 500 * time.Millisecond

// Watcher reports changes to individual files by polling their modification time.
type Watcher struct {
	mu       sync.Mutex
	files    map[string]time.Time
	debounce *Debouncer
	done     chan struct{}
	stopped  chan struct{}
	running  atomic.Bool
}

func New(delay time.Duration, onChange func(path string)) (*Watcher, error) {
	return &Watcher{
		files:    make(map[string]time.Time),
		debounce: NewDebouncer(delay, onChange),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}, nil
}

func (w *Watcher) Add(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	var modTime time.Time
	if info, err := os.Stat(absPath); err == nil {
		modTime = info.ModTime()
	}

	w.mu.Lock()
	w.files[absPath] = modTime
	w.mu.Unlock()

	return nil
}

// Watch blocks, dispatching change notifications until Close is called.
func (w *Watcher) Watch() {
	if !w.running.CompareAndSwap(false, true) {
		return
	}
	defer close(w.stopped)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.checkFiles()
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) checkFiles() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for path, lastMod := range w.files {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if info.ModTime().After(lastMod) {
			w.files[path] = info.ModTime()
			w.debounce.Trigger(path)
		}
	}
}

func (w *Watcher) Close() error {
	select {
	case <-w.done:
		return nil
	default:
	}
	close(w.done)
	if w.running.Load() {
		<-w.stopped
	}
	w.debounce.Stop()
	return nil
}
