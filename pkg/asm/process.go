package asm

import "github.com/samber/lo"

// Parse runs label scanning, attribution and filtering over raw compiler output.
func Parse(raw []string, demangle Demangler) []Line {
	demangle = demangle.orDefault()
	used := ScanUsedLabels(raw, demangle)
	filter := NewLabelFilter(used)

	return lo.Filter(AttributeLines(raw, demangle), func(line Line, _ int) bool {
		return filter.Keep(line)
	})
}

// Process turns raw compiler output for a source of sourceLineCount lines into
// a listing with its line maps.
func Process(sourceLineCount int, raw []string, demangle Demangler) Listing {
	lines := Parse(raw, demangle)
	return Listing{
		Lines: lines,
		Map:   BuildMaps(sourceLineCount, lines),
	}
}
