package view

import "strings"

// Scroll returns the first visible line (1-based) of a pane showing height
// lines so that cursor stays visible, moving as little as possible from top.
func Scroll(top, cursor, height, count int) int {
	if height <= 0 || count <= height {
		return 1
	}
	if cursor < top {
		top = cursor
	}
	if cursor >= top+height {
		top = cursor - height + 1
	}
	if top > count-height+1 {
		top = count - height + 1
	}
	if top < 1 {
		top = 1
	}
	return top
}

// TabWidth is the column stop used when expanding tabs for display.
const TabWidth = 8

// ExpandTabs replaces tabs with spaces up to the next tab stop.
func ExpandTabs(s string) string {
	if !strings.ContainsRune(s, '\t') {
		return s
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := TabWidth - col%TabWidth
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(r)
		col++
	}
	return b.String()
}
