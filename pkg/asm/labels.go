package asm

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/samber/lo"
)

const (
	commentMarker = "#"
	mangledMarker = '_'
	localMarker   = '.'
	directiveHead = "\t."
)

var labelToken = regexp.MustCompile(`\.[A-Za-z0-9_.]+`)

// LabelSet holds the label names referenced from instruction lines.
type LabelSet map[string]struct{}

func (s LabelSet) Add(label string) {
	s[label] = struct{}{}
}

func (s LabelSet) Has(label string) bool {
	_, ok := s[label]
	return ok
}

// Sorted returns the labels in lexical order.
func (s LabelSet) Sorted() []string {
	labels := lo.Keys(s)
	sort.Strings(labels)
	return labels
}

// ScanUsedLabels collects the labels referenced by instruction lines. Mangled
// symbol definitions are recorded under their demangled name so the demangled
// label emitted by AttributeLines survives filtering.
func ScanUsedLabels(lines []string, demangle Demangler) LabelSet {
	demangle = demangle.orDefault()
	used := make(LabelSet)

	for _, line := range lines {
		if line == "" || strings.HasPrefix(line, commentMarker) ||
			line[0] == localMarker || strings.HasPrefix(line, directiveHead) {
			continue
		}

		if name, ok := mangledName(line); ok {
			used.Add(demangle(name))
			continue
		}

		if label := labelToken.FindString(trimComment(line)); label != "" {
			used.Add(label)
		}
	}

	return used
}

// mangledName returns the symbol defined by a line such as "_Z3fooi:".
func mangledName(line string) (string, bool) {
	if line == "" || line[0] != mangledMarker {
		return "", false
	}
	colon := strings.IndexByte(line, ':')
	if colon < 0 {
		return "", false
	}
	return line[:colon], true
}

func trimComment(line string) string {
	if cut := strings.Index(line, commentMarker); cut >= 0 {
		line = line[:cut]
	}
	return strings.TrimRightFunc(line, unicode.IsSpace)
}
