//go:build darwin

package watch

import (
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sys/unix"
)

// Watcher reports changes to individual files through kqueue vnode events.
type Watcher struct {
	kq       int
	mu       sync.Mutex
	files    map[int]string
	debounce *Debouncer
	done     chan struct{}
	stopped  chan struct{}
	running  atomic.Bool
}

func New(delay time.Duration, onChange func(path string)) (*Watcher, error) {
	kq, err := unix.Kqueue()
	if err != nil {
		return nil, fmt.Errorf("kqueue failed: %w", err)
	}

	return &Watcher{
		kq:       kq,
		files:    make(map[int]string),
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

	fd, err := unix.Open(absPath, unix.O_RDONLY, 0)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", absPath, err)
	}

	event := unix.Kevent_t{
		Ident:  uint64(fd),
		Filter: unix.EVFILT_VNODE,
		Flags:  unix.EV_ADD | unix.EV_CLEAR,
		Fflags: unix.NOTE_WRITE | unix.NOTE_ATTRIB | unix.NOTE_RENAME | unix.NOTE_DELETE,
	}

	if _, err := unix.Kevent(w.kq, []unix.Kevent_t{event}, nil, nil); err != nil {
		unix.Close(fd)
		return fmt.Errorf("failed to add kevent for %s: %w", absPath, err)
	}

	w.mu.Lock()
	w.files[fd] = absPath
	w.mu.Unlock()

	return nil
}

// Watch blocks, dispatching change notifications until Close is called.
func (w *Watcher) Watch() {
	if !w.running.CompareAndSwap(false, true) {
		return
	}
	defer close(w.stopped)

	events := make([]unix.Kevent_t, 10)
	timeout := unix.NsecToTimespec(int64(100 * time.Millisecond))

	for {
		select {
		case <-w.done:
			return
		default:
		}

		n, err := unix.Kevent(w.kq, nil, events, &timeout)
		if err != nil {
			if err != unix.EINTR {
				time.Sleep(100 * time.Millisecond)
			}
			continue
		}

		for i := 0; i < n; i++ {
			w.mu.Lock()
			path := w.files[int(events[i].Ident)]
			w.mu.Unlock()

			if path != "" {
				w.debounce.Trigger(path)
			}
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

	w.mu.Lock()
	for fd := range w.files {
		unix.Close(fd)
	}
	w.mu.Unlock()

	return unix.Close(w.kq)
}
