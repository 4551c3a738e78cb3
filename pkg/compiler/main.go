// Package compiler runs an external C or C++ compiler and captures the
// assembly it writes to standard output.
//
// Pipeline: source lines → temp file → <cc> -g1 -S -o - → assembly lines
package compiler
