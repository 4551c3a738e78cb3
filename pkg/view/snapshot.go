package view

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"vice/pkg/asm"
	"vice/pkg/compiler"
	"vice/pkg/utils"
)

var ErrAssemblySource = errors.New("source is already assembly")

// Snapshot is the result of compiling one version of a source buffer.
type Snapshot struct {
	Name     string
	Source   []string
	Listing  asm.Listing
	TempPath string
}

// Build compiles source and processes the compiler output. The returned
// snapshot carries TempPath even when compilation fails so the caller can
// remove the temporary file.
func Build(name string, source []string, opts compiler.Options, demangle asm.Demangler) (Snapshot, error) {
	if utils.IsAssembly(name) {
		return Snapshot{}, fmt.Errorf("%s: %w", name, ErrAssemblySource)
	}

	raw, tmpPath, err := compiler.Compile(name, source, opts)
	if err != nil {
		return Snapshot{Name: name, TempPath: tmpPath}, err
	}

	return Snapshot{
		Name:     name,
		Source:   source,
		Listing:  asm.Process(len(source), raw, demangle),
		TempPath: tmpPath,
	}, nil
}

// BuildFile reads path from disk and builds it.
func BuildFile(path string, opts compiler.Options, demangle asm.Demangler) (Snapshot, error) {
	source, err := utils.ReadLines(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read source file: %w", err)
	}
	return Build(path, source, opts, demangle)
}

// Remove deletes the snapshot's temporary file.
func (s Snapshot) Remove() error {
	return RemoveTemp(s.TempPath)
}

// RemoveTemp deletes a temporary file left by a compile. Empty paths and files
// that are already gone are not errors.
func RemoveTemp(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
