package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/k0kubun/pp/v3"

	"vice/pkg/asm"
	"vice/pkg/compiler"
	"vice/pkg/config"
	"vice/pkg/utils"
	"vice/pkg/view"
)

const testSource = `int add(int a, int b) {
  return a + b;
}
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run prints every intermediate structure of the pipeline for one source file,
// or for a small built-in C program when no file is given.
func run(args []string, stdout, stderr io.Writer) int {
	cfg := config.Load()
	fs := flag.NewFlagSet("asmstages", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfg.RegisterFlags(fs)
	color := fs.Bool("color", false, "colorize structure dumps")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	name := "test.c"
	source := strings.Split(strings.TrimSuffix(testSource, "\n"), "\n")
	if fs.NArg() > 0 {
		var err error
		name = fs.Arg(0)
		if source, err = utils.ReadLines(name); err != nil {
			fmt.Fprintln(stderr, "read error:", err)
			return 1
		}
	}

	printer := pp.New()
	printer.SetOutput(stdout)
	printer.SetColoringEnabled(*color)

	fmt.Fprintf(stdout, "Source (%d lines)\n", len(source))
	for i, line := range source {
		fmt.Fprintf(stdout, "%5d  %s\n", i+1, line)
	}
	fmt.Fprintln(stdout)

	raw, tmpPath, err := compiler.Compile(name, source, cfg.CompilerOptions())
	defer view.RemoveTemp(tmpPath)
	if err != nil {
		fmt.Fprintln(stderr, "compile error:", err)
		return 1
	}

	fmt.Fprintf(stdout, "Compiler output (%d lines)\n", len(raw))
	for i, line := range raw {
		fmt.Fprintf(stdout, "%5d  %s\n", i+1, line)
	}
	fmt.Fprintln(stdout)

	used := asm.ScanUsedLabels(raw, asm.DefaultDemangler)
	fmt.Fprintln(stdout, "Used labels")
	printer.Println(used.Sorted())
	fmt.Fprintln(stdout)

	attributed := asm.AttributeLines(raw, asm.DefaultDemangler)
	fmt.Fprintf(stdout, "Attributed lines (%d)\n", len(attributed))
	printer.Println(attributed)
	fmt.Fprintln(stdout)

	filter := asm.NewLabelFilter(used)
	var kept []asm.Line
	for _, line := range attributed {
		if filter.Keep(line) {
			kept = append(kept, line)
		}
	}
	fmt.Fprintf(stdout, "Filtered lines (%d)\n", len(kept))
	printer.Println(kept)
	fmt.Fprintln(stdout)

	fmt.Fprintln(stdout, "Line maps")
	printer.Println(asm.BuildMaps(len(source), kept))
	return 0
}
