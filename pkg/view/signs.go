package view

import (
	"image/color"

	"vice/pkg/asm"
)

// MaxSign is the number of distinct sign ids; ids are reused cyclically.
const MaxSign = 16

// SignSet holds the sign id of every line of both panes, indexed by 1-based
// line number. Id 0 means no sign.
type SignSet struct {
	Source   []int
	Assembly []int
}

// ComputeSigns gives every mapped source line the next sign id in 1..MaxSign
// and marks each listing line with the id of the source line that produced it.
func ComputeSigns(m asm.LineMap) SignSet {
	set := SignSet{
		Source:   make([]int, len(m.SourceToAssembly)),
		Assembly: make([]int, len(m.AssemblyToSource)),
	}

	next := 1
	for src, a := range m.SourceToAssembly {
		if a == 0 {
			continue
		}
		set.Source[src] = next
		next++
		if next > MaxSign {
			next = 1
		}
	}

	for a, src := range m.AssemblyToSource {
		if src != 0 && src < len(set.Source) {
			set.Assembly[a] = set.Source[src]
		}
	}

	return set
}

func (s SignSet) At(p Pane, line int) int {
	lines := s.Source
	if p == AssemblyPane {
		lines = s.Assembly
	}
	if line < 1 || line >= len(lines) {
		return 0
	}
	return lines[line]
}

var signPalette = [MaxSign]color.RGBA{
	{0x4e, 0x79, 0xa7, 0xff},
	{0xf2, 0x8e, 0x2b, 0xff},
	{0xe1, 0x57, 0x59, 0xff},
	{0x76, 0xb7, 0xb2, 0xff},
	{0x59, 0xa1, 0x4f, 0xff},
	{0xed, 0xc9, 0x48, 0xff},
	{0xb0, 0x7a, 0xa1, 0xff},
	{0xff, 0x9d, 0xa7, 0xff},
	{0x9c, 0x75, 0x5f, 0xff},
	{0xba, 0xb0, 0xac, 0xff},
	{0x1f, 0x77, 0xb4, 0xff},
	{0xd6, 0x27, 0x28, 0xff},
	{0x2c, 0xa0, 0x2c, 0xff},
	{0x94, 0x67, 0xbd, 0xff},
	{0x17, 0xbe, 0xcf, 0xff},
	{0xbc, 0xbd, 0x22, 0xff},
}

// SignColor returns the gutter color for a sign id; id 0 is transparent.
func SignColor(id int) color.RGBA {
	if id < 1 || id > MaxSign {
		return color.RGBA{}
	}
	return signPalette[id-1]
}
