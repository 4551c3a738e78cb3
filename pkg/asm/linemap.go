package asm

import "github.com/samber/lo"

// LineMap links source lines and listing lines in both directions. Both slices
// are indexed by 1-based line numbers; slot 0 is unused and a stored 0 means
// "no counterpart".
type LineMap struct {
	// SourceToAssembly[s] is the first listing line generated for source line s.
	SourceToAssembly []int
	// AssemblyToSource[a] is the source line that produced listing line a.
	AssemblyToSource []int
}

// BuildMaps indexes lines against a source of sourceLineCount lines. Only the
// first listing line attributed to a source line is recorded for it, so
// navigation lands on the first generated instruction. Attributions outside the
// source (for example locations inside included headers) are stored as 0.
func BuildMaps(sourceLineCount int, lines []Line) LineMap {
	m := LineMap{
		SourceToAssembly: make([]int, sourceLineCount+1),
		AssemblyToSource: make([]int, 1, len(lines)+1),
	}

	for i, line := range lines {
		src := line.Source
		if src < 1 || src > sourceLineCount {
			src = 0
		}
		m.AssemblyToSource = append(m.AssemblyToSource, src)
		if src != 0 && m.SourceToAssembly[src] == 0 {
			m.SourceToAssembly[src] = i + 1
		}
	}

	return m
}

// AssemblyLine returns the listing line for source line src, or 0.
func (m LineMap) AssemblyLine(src int) int {
	if src < 1 || src >= len(m.SourceToAssembly) {
		return 0
	}
	return m.SourceToAssembly[src]
}

// SourceLine returns the source line for listing line a, or 0.
func (m LineMap) SourceLine(a int) int {
	if a < 1 || a >= len(m.AssemblyToSource) {
		return 0
	}
	return m.AssemblyToSource[a]
}

// MappedSources returns the source lines that produced at least one listing line.
func (m LineMap) MappedSources() []int {
	var lines []int
	for src, a := range m.SourceToAssembly {
		if a != 0 {
			lines = append(lines, src)
		}
	}
	return lines
}

// Listing is the processed output of one compile.
type Listing struct {
	Lines []Line
	Map   LineMap
}

// Text returns the display text of every listing line.
func (l Listing) Text() []string {
	return lo.Map(l.Lines, func(line Line, _ int) string {
		return line.Text
	})
}
