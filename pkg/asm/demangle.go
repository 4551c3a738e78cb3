package asm

import "github.com/ianlancetaylor/demangle"

// Demangler turns a mangled symbol name into its display form.
type Demangler func(name string) string

// DefaultDemangler demangles Itanium C++ ABI names. Names it cannot decode are
// returned unchanged.
func DefaultDemangler(name string) string {
	return demangle.Filter(name)
}

func (d Demangler) orDefault() Demangler {
	if d == nil {
		return DefaultDemangler
	}
	return d
}
