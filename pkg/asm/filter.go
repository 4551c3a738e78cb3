package asm

import "strings"

// dataDirectives emit the payload of the label they follow.
var dataDirectives = map[string]bool{
	".ascii":  true,
	".asciz":  true,
	".string": true,
	".float":  true,
	".single": true,
	".double": true,
	".quad":   true,
	".octa":   true,
	".long":   true,
}

// LabelFilter decides which unattributed lines survive. A label is kept when
// something references it, and the data directives directly below a kept label
// are kept with it. Any other unattributed line ends the kept label's block.
type LabelFilter struct {
	used       LabelSet
	validLabel bool
}

func NewLabelFilter(used LabelSet) *LabelFilter {
	return &LabelFilter{used: used}
}

// Keep must be called on lines in output order.
func (f *LabelFilter) Keep(line Line) bool {
	if line.Source != 0 {
		return true
	}

	text := line.Text
	if text == "" {
		f.validLabel = false
		return false
	}

	if f.used.Has(text[:len(text)-1]) {
		f.validLabel = true
		return true
	}

	if f.validLabel && strings.HasPrefix(text, directiveHead) && dataDirectives[directiveKeyword(text)] {
		return true
	}

	f.validLabel = false
	return false
}

// Reset clears the label context before a new run.
func (f *LabelFilter) Reset() {
	f.validLabel = false
}
