//go:build linux

package watch

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

const dirEvents = unix.IN_CLOSE_WRITE | unix.IN_MOVED_TO | unix.IN_CREATE | unix.IN_MODIFY

// Watcher reports changes to individual files. Parent directories are
// watched so that editors which save through a rename are still seen.
type Watcher struct {
	fd       int
	mu       sync.Mutex
	dirs     map[int]string
	files    map[string]bool
	debounce *Debouncer
	done     chan struct{}
	stopped  chan struct{}
	running  atomic.Bool
}

func New(delay time.Duration, onChange func(path string)) (*Watcher, error) {
	fd, err := unix.InotifyInit1(unix.IN_NONBLOCK | unix.IN_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("inotify_init failed: %w", err)
	}

	return &Watcher{
		fd:       fd,
		dirs:     make(map[int]string),
		files:    make(map[string]bool),
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
	dir := filepath.Dir(absPath)

	wd, err := unix.InotifyAddWatch(w.fd, dir, dirEvents)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	w.mu.Lock()
	w.dirs[wd] = dir
	w.files[absPath] = true
	w.mu.Unlock()

	return nil
}

// Watch blocks, dispatching change notifications until Close is called.
func (w *Watcher) Watch() {
	if !w.running.CompareAndSwap(false, true) {
		return
	}
	defer close(w.stopped)
	buf := make([]byte, (unix.SizeofInotifyEvent+256)*16)

	for {
		select {
		case <-w.done:
			return
		default:
		}

		n, err := unix.Read(w.fd, buf)
		if err != nil || n <= 0 {
			time.Sleep(50 * time.Millisecond)
			continue
		}

		offset := 0
		for offset+unix.SizeofInotifyEvent <= n {
			event := (*unix.InotifyEvent)(unsafe.Pointer(&buf[offset]))
			nameStart := offset + unix.SizeofInotifyEvent
			nameEnd := nameStart + int(event.Len)
			offset = nameEnd
			if event.Mask&dirEvents == 0 || nameEnd > n {
				continue
			}

			name := string(bytes.TrimRight(buf[nameStart:nameEnd], "\x00"))
			w.mu.Lock()
			path := filepath.Join(w.dirs[int(event.Wd)], name)
			watched := w.files[path]
			w.mu.Unlock()

			if watched {
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
	return unix.Close(w.fd)
}
