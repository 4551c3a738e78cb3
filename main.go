package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"

	"vice/pkg/asm"
	"vice/pkg/compiler"
	"vice/pkg/config"
	"vice/pkg/utils"
	"vice/pkg/view"
)

var (
	exitFn    = os.Exit
	buildFn   = view.BuildFile
	compileFn = compiler.Compile
	// waitFn blocks a -watch run until it should stop.
	waitFn = waitForInterrupt
)

func main() {
	exitFn(runCLI(os.Args[1:], os.Stdout, os.Stderr))
}

func usage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "Usage: vice [flags] <source>")
	fs.SetOutput(w)
	fs.PrintDefaults()
}

func runCLI(args []string, stdout, stderr io.Writer) int {
	cfg := config.Load()
	fs := flag.NewFlagSet("vice", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cfg.RegisterFlags(fs)
	showMap := fs.Bool("map", false, "print the source to assembly map after the listing")
	raw := fs.Bool("raw", false, "print the unprocessed compiler output")
	watchMode := fs.Bool("watch", false, "print the listing again whenever the source changes")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			usage(stdout, fs)
			return 0
		}
		fmt.Fprintln(stderr, err)
		usage(stderr, fs)
		return 2
	}
	if fs.NArg() != 1 {
		usage(stderr, fs)
		return 1
	}

	logger := log.New(io.Discard, "vice: ", log.Ltime)
	if cfg.Verbose {
		logger.SetOutput(stderr)
	}

	path, _, err := utils.GetPathInfo(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "invalid path %q: %v\n", fs.Arg(0), err)
		return 1
	}
	opts := cfg.CompilerOptions()
	logger.Printf("compiling %s with %s %s", path, opts.Compiler, strings.Join(compiler.Args("<tmp>", opts), " "))

	if *raw {
		return printRaw(path, opts, stdout, stderr)
	}

	p := printer{stdout: stdout, stderr: stderr, showMap: *showMap}
	ok := p.build(path, opts)
	if !*watchMode {
		if !ok {
			return 1
		}
		return 0
	}

	r, err := view.NewReloader(path, opts, cfg.Debounce, func(res view.Result) {
		logger.Printf("%s changed, recompiled", path)
		p.show(res)
	})
	if err != nil {
		fmt.Fprintf(stderr, "failed to watch %s: %v\n", path, err)
		return 1
	}
	defer r.Close()

	waitFn()
	return 0
}

// printer writes listings, serializing output from watcher callbacks.
type printer struct {
	mu      sync.Mutex
	stdout  io.Writer
	stderr  io.Writer
	showMap bool
}

func (p *printer) build(path string, opts compiler.Options) bool {
	snap, err := buildFn(path, opts, asm.DefaultDemangler)
	return p.show(view.Result{Snapshot: snap, Err: err})
}

func (p *printer) show(res view.Result) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	defer res.Snapshot.Remove()

	if res.Err != nil {
		reportError(p.stderr, res.Err)
		return false
	}

	printListing(p.stdout, res.Snapshot)
	if p.showMap {
		fmt.Fprintln(p.stdout)
		printMap(p.stdout, res.Snapshot)
	}
	return true
}

func printRaw(path string, opts compiler.Options, stdout, stderr io.Writer) int {
	source, err := utils.ReadLines(path)
	if err != nil {
		fmt.Fprintf(stderr, "failed to read source file: %v\n", err)
		return 1
	}
	lines, tmpPath, err := compileFn(path, source, opts)
	defer view.RemoveTemp(tmpPath)
	if err != nil {
		reportError(stderr, err)
		return 1
	}
	for _, line := range lines {
		fmt.Fprintln(stdout, line)
	}
	return 0
}

func reportError(w io.Writer, err error) {
	var compileErr *compiler.CompilationError
	switch {
	case errors.As(err, &compileErr):
		fmt.Fprintf(w, "compilation failed: %s exited with status %d\n", compileErr.Compiler, compileErr.ExitCode)
		if stderr := strings.TrimRight(compileErr.Stderr, "\n"); stderr != "" {
			fmt.Fprintln(w, stderr)
		}
	case errors.Is(err, compiler.ErrCompilerNotFound):
		fmt.Fprintf(w, "no assembly produced: %v\n", err)
	default:
		fmt.Fprintln(w, err)
	}
}

// printListing writes one row per listing line: the listing line number, the
// source line it came from (blank when unattributed) and the text.
func printListing(w io.Writer, snap view.Snapshot) {
	m := snap.Listing.Map
	for i, line := range snap.Listing.Lines {
		src := ""
		if s := m.SourceLine(i + 1); s != 0 {
			src = strconv.Itoa(s)
		}
		fmt.Fprintf(w, "%5d %5s  %s\n", i+1, src, line.Text)
	}
}

func printMap(w io.Writer, snap view.Snapshot) {
	m := snap.Listing.Map
	for _, src := range m.MappedSources() {
		text := ""
		if src <= len(snap.Source) {
			text = strings.TrimSpace(snap.Source[src-1])
		}
		fmt.Fprintf(w, "%5d -> %5d  %s\n", src, m.AssemblyLine(src), text)
	}
}

func waitForInterrupt() {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	<-sig
	signal.Stop(sig)
}
