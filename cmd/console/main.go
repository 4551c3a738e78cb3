package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gdamore/tcell/v2"

	"vice/pkg/config"
	"vice/pkg/utils"
	"vice/pkg/view"
)

func main() {
	cfg := config.Load()
	cfg.RegisterFlags(flag.CommandLine)
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: console [flags] <source>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	fullPath, _, err := utils.GetPathInfo(flag.Arg(0))
	if err != nil {
		log.Fatalf("Invalid source path: %v", err)
	}
	if utils.IsAssembly(fullPath) {
		log.Fatalf("%s: %v", fullPath, view.ErrAssemblySource)
	}
	if _, err := os.Stat(fullPath); err != nil {
		log.Fatalf("Failed to read source file: %v", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("Failed to open terminal: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("Failed to initialize terminal: %v", err)
	}

	v := newViewer(screen, fullPath)
	r, err := view.NewReloader(fullPath, cfg.CompilerOptions(), cfg.Debounce, func(res view.Result) {
		if err := screen.PostEvent(tcell.NewEventInterrupt(res)); err != nil {
			res.Snapshot.Remove()
		}
	})
	if err != nil {
		screen.Fini()
		log.Fatalf("Failed to watch %s: %v", fullPath, err)
	}
	v.reload = r.Reload

	go r.Reload()
	v.loop()

	screen.Fini()
	r.Close()
	if err := v.session.Close(); err != nil && cfg.Verbose {
		log.Printf("Failed to remove temporary file: %v", err)
	}
	if v.lastErr != nil {
		fmt.Fprintln(os.Stderr, v.lastErr)
	}
}
