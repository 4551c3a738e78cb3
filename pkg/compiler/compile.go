package compiler

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
)

const tempPrefix = "vice"

var (
	ErrCompilerNotFound  = errors.New("compiler not found")
	ErrCompilationFailed = errors.New("compilation failed")
)

// execCommand is swapped in tests.
var execCommand = exec.Command

// Options selects the compiler and the caller-controlled part of its command line.
type Options struct {
	// Compiler is the executable name or path, e.g. "gcc" or "clang++".
	Compiler string
	// Parameters is appended verbatim, split on single spaces.
	Parameters string
	// Syntax is passed as -masm=<Syntax>; empty leaves the compiler default.
	Syntax string
}

// DefaultOptions mirrors what most x86 users want to read.
func DefaultOptions() Options {
	return Options{Compiler: "gcc", Syntax: "intel"}
}

// CompilationError is returned when the compiler ran and exited non-zero.
type CompilationError struct {
	Compiler string
	ExitCode int
	Stderr   string
}

func (e *CompilationError) Error() string {
	msg := fmt.Sprintf("%s exited with status %d", e.Compiler, e.ExitCode)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}

func (e *CompilationError) Is(target error) bool {
	return target == ErrCompilationFailed
}

// Compile writes sourceLines to a temporary file named after sourceName's
// extension, compiles it to assembly and returns the assembly lines together
// with the temporary file path. The temporary file is left on disk; removing it
// is up to the caller. On failure the returned lines are nil.
func Compile(sourceName string, sourceLines []string, opts Options) ([]string, string, error) {
	tmpPath, err := writeSource(sourceName, sourceLines)
	if err != nil {
		return nil, "", err
	}

	var stdout, stderr bytes.Buffer
	cmd := execCommand(opts.Compiler, Args(tmpPath, opts)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, tmpPath, &CompilationError{
				Compiler: opts.Compiler,
				ExitCode: exitErr.ExitCode(),
				Stderr:   stderr.String(),
			}
		}
		return nil, tmpPath, fmt.Errorf("%w: %s: %v", ErrCompilerNotFound, opts.Compiler, err)
	}

	return splitLines(stdout.Bytes()), tmpPath, nil
}

// Args builds the compiler arguments for input.
func Args(input string, opts Options) []string {
	args := []string{input, "-g1"}
	if opts.Syntax != "" {
		args = append(args, "-masm="+opts.Syntax)
	}
	args = append(args, "-S", "-o", "-")
	return append(args, lo.Compact(strings.Split(opts.Parameters, " "))...)
}

func writeSource(sourceName string, sourceLines []string) (string, error) {
	tmp, err := os.CreateTemp("", tempPrefix+"*"+filepath.Ext(sourceName))
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}

	w := bufio.NewWriter(tmp)
	for _, line := range sourceLines {
		w.WriteString(line)
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", tmp.Name(), err)
	}
	return tmp.Name(), nil
}

func splitLines(out []byte) []string {
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(out))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines
}
