package view

import (
	"errors"
	"strings"
	"time"

	"vice/pkg/asm"
	"vice/pkg/compiler"
	"vice/pkg/watch"
)

// Result is the outcome of one build. Snapshot.TempPath is set even when Err
// is not nil.
type Result struct {
	Snapshot Snapshot
	Err      error
}

// Reloader rebuilds one source file each time it changes on disk and hands
// every result to deliver. deliver runs on a timer goroutine and must not
// touch UI state directly.
type Reloader struct {
	path     string
	opts     compiler.Options
	demangle asm.Demangler
	deliver  func(Result)
	watcher  *watch.Watcher
}

func NewReloader(path string, opts compiler.Options, delay time.Duration, deliver func(Result)) (*Reloader, error) {
	r := &Reloader{
		path:     path,
		opts:     opts,
		demangle: asm.DefaultDemangler,
		deliver:  deliver,
	}

	w, err := watch.New(delay, func(string) { r.Reload() })
	if err != nil {
		return nil, err
	}
	if err := w.Add(path); err != nil {
		w.Close()
		return nil, err
	}
	r.watcher = w
	go w.Watch()

	return r, nil
}

// Reload builds the file now and delivers the result.
func (r *Reloader) Reload() {
	snap, err := BuildFile(r.path, r.opts, r.demangle)
	r.deliver(Result{Snapshot: snap, Err: err})
}

func (r *Reloader) Close() error {
	return r.watcher.Close()
}

// ErrorSummary reduces a build error to one status line. Compiler failures
// show the first diagnostic line.
func ErrorSummary(err error) string {
	var compileErr *compiler.CompilationError
	if errors.As(err, &compileErr) {
		first, _, _ := strings.Cut(strings.TrimSpace(compileErr.Stderr), "\n")
		if first == "" {
			return compileErr.Error()
		}
		return first
	}
	return err.Error()
}
