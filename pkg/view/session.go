package view

import "github.com/samber/lo"

type Pane int

const (
	SourcePane Pane = iota
	AssemblyPane
)

func (p Pane) Other() Pane {
	if p == SourcePane {
		return AssemblyPane
	}
	return SourcePane
}

func (p Pane) String() string {
	if p == SourcePane {
		return "source"
	}
	return "assembly"
}

// Session is the state of one source/assembly pair on screen. It is not safe
// for concurrent use; hosts mutate it from their UI goroutine only.
type Session struct {
	snap   Snapshot
	text   []string
	cursor [2]int
	focus  Pane
	signs  SignSet
	marked bool
}

func NewSession() *Session {
	return &Session{cursor: [2]int{1, 1}, marked: true}
}

// Apply replaces the displayed snapshot and returns the temporary file of the
// one it replaced. Cursors are kept where they were, clamped to the new
// content, and the assembly cursor follows the source cursor when it can.
func (s *Session) Apply(snap Snapshot) string {
	old := s.snap.TempPath
	s.snap = snap
	s.text = snap.Listing.Text()
	s.signs = ComputeSigns(snap.Listing.Map)

	s.cursor[SourcePane] = clampLine(s.cursor[SourcePane], len(snap.Source))
	s.cursor[AssemblyPane] = clampLine(s.cursor[AssemblyPane], len(s.text))
	s.sync(SourcePane)
	return old
}

// Accept applies a build result. A failed build leaves the displayed snapshot
// in place and returns the build error. Temporary files that are no longer on
// screen are removed either way.
func (s *Session) Accept(res Result) error {
	if res.Err != nil {
		RemoveTemp(res.Snapshot.TempPath)
		return res.Err
	}
	return RemoveTemp(s.Apply(res.Snapshot))
}

// Close removes the temporary file of the displayed snapshot.
func (s *Session) Close() error {
	return s.snap.Remove()
}

func (s *Session) Snapshot() Snapshot {
	return s.snap
}

func (s *Session) Lines(p Pane) []string {
	if p == SourcePane {
		return s.snap.Source
	}
	return s.text
}

// Cursor returns the 1-based cursor line of p.
func (s *Session) Cursor(p Pane) int {
	return s.cursor[p]
}

func (s *Session) Focus() Pane {
	return s.focus
}

func (s *Session) SetFocus(p Pane) {
	s.focus = p
}

func (s *Session) ToggleFocus() {
	s.focus = s.focus.Other()
}

// Move shifts the focused cursor by delta lines and synchronizes the other pane.
func (s *Session) Move(delta int) {
	s.SetCursor(s.focus, s.cursor[s.focus]+delta)
}

// SetCursor places the cursor of p and moves the other pane's cursor to the
// mapped line, if there is one.
func (s *Session) SetCursor(p Pane, line int) {
	s.cursor[p] = clampLine(line, len(s.Lines(p)))
	s.sync(p)
}

func (s *Session) sync(from Pane) {
	var target int
	if from == SourcePane {
		target = s.snap.Listing.Map.AssemblyLine(s.cursor[SourcePane])
	} else {
		target = s.snap.Listing.Map.SourceLine(s.cursor[AssemblyPane])
	}
	if target != 0 {
		s.cursor[from.Other()] = target
	}
}

// Related reports whether line of pane p belongs to the same source line as
// the cursor of the focused pane.
func (s *Session) Related(p Pane, line int) bool {
	m := s.snap.Listing.Map
	current := s.cursor[SourcePane]
	if s.focus == AssemblyPane {
		current = m.SourceLine(s.cursor[AssemblyPane])
	}
	if current == 0 {
		return false
	}
	if p == SourcePane {
		return line == current
	}
	return m.SourceLine(line) == current
}

func (s *Session) SignsEnabled() bool {
	return s.marked
}

func (s *Session) ToggleSigns() {
	s.marked = !s.marked
}

// Sign returns the gutter sign of line in pane p, or 0 when signs are hidden or
// the line has none.
func (s *Session) Sign(p Pane, line int) int {
	if !s.marked {
		return 0
	}
	return s.signs.At(p, line)
}

func clampLine(line, count int) int {
	if count == 0 {
		return 1
	}
	return lo.Clamp(line, 1, count)
}
