package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"

	"vice/pkg/config"
	"vice/pkg/utils"
	"vice/pkg/view"
)

func main() {
	cfg := config.Load()
	cfg.RegisterFlags(flag.CommandLine)
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: desktop [flags] <source>")
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

	results := make(chan view.Result, 4)
	r, err := view.NewReloader(fullPath, cfg.CompilerOptions(), cfg.Debounce, func(res view.Result) {
		results <- res
	})
	if err != nil {
		log.Fatalf("Failed to watch %s: %v", fullPath, err)
	}
	go r.Reload()

	game := newGame(fullPath, results, r.Reload)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(game.width, game.height)
	ebiten.SetWindowTitle("vice - " + filepath.Base(fullPath))
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}

	r.Close()
	if err := game.session.Close(); err != nil && cfg.Verbose {
		log.Printf("Failed to remove temporary file: %v", err)
	}
}
