package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"vice/pkg/view"
)

var (
	numberStyle = tcell.StyleDefault.Foreground(tcell.ColorGray)
	borderStyle = tcell.StyleDefault.Foreground(tcell.ColorGray)
	statusStyle = tcell.StyleDefault.Reverse(true)
	errorStyle  = tcell.StyleDefault.Background(tcell.ColorMaroon).Foreground(tcell.ColorWhite)
)

const keyHelp = "Tab pane  s signs  r rebuild  q quit"

// viewer draws a session as two side-by-side panes with a status row.
type viewer struct {
	screen  tcell.Screen
	session *view.Session
	name    string
	top     [2]int
	status  string
	lastErr error
	// reload runs a build whose result arrives later as an interrupt event.
	reload func()
}

func newViewer(screen tcell.Screen, path string) *viewer {
	return &viewer{
		screen:  screen,
		session: view.NewSession(),
		name:    filepath.Base(path),
		top:     [2]int{1, 1},
		status:  "compiling",
	}
}

func (v *viewer) loop() {
	for {
		v.draw()
		if !v.handle(v.screen.PollEvent()) {
			return
		}
	}
}

// handle applies one event and reports whether the viewer keeps running.
func (v *viewer) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case nil:
		return false
	case *tcell.EventResize:
		v.screen.Sync()
	case *tcell.EventInterrupt:
		if res, ok := ev.Data().(view.Result); ok {
			v.accept(res)
		}
	case *tcell.EventKey:
		return v.key(ev)
	}
	return true
}

func (v *viewer) accept(res view.Result) {
	if err := v.session.Accept(res); err != nil {
		v.lastErr = err
		v.status = view.ErrorSummary(err)
		return
	}
	v.lastErr = nil
	snap := v.session.Snapshot()
	v.status = fmt.Sprintf("%d lines -> %d lines", len(snap.Source), len(snap.Listing.Lines))
}

func (v *viewer) key(ev *tcell.EventKey) bool {
	_, h := v.screen.Size()
	page := max(h-2, 1)
	s := v.session

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyUp:
		s.Move(-1)
	case tcell.KeyDown:
		s.Move(1)
	case tcell.KeyPgUp:
		s.Move(-page)
	case tcell.KeyPgDn:
		s.Move(page)
	case tcell.KeyHome:
		s.SetCursor(s.Focus(), 1)
	case tcell.KeyEnd:
		s.SetCursor(s.Focus(), len(s.Lines(s.Focus())))
	case tcell.KeyTab, tcell.KeyBacktab:
		s.ToggleFocus()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case 'j':
			s.Move(1)
		case 'k':
			s.Move(-1)
		case 's':
			s.ToggleSigns()
		case 'r':
			if v.reload != nil {
				v.status = "compiling"
				go v.reload()
			}
		}
	}
	return true
}

func (v *viewer) draw() {
	v.screen.Clear()
	w, h := v.screen.Size()
	paneHeight := h - 1
	split := w / 2

	v.drawPane(view.SourcePane, 0, split, paneHeight)
	for y := 0; y < paneHeight; y++ {
		v.screen.SetContent(split, y, tcell.RuneVLine, nil, borderStyle)
	}
	v.drawPane(view.AssemblyPane, split+1, w-split-1, paneHeight)
	v.drawStatus(h-1, w)

	v.screen.Show()
}

func (v *viewer) drawPane(p view.Pane, x0, width, height int) {
	s := v.session
	lines := s.Lines(p)
	cursor := s.Cursor(p)
	v.top[p] = view.Scroll(v.top[p], cursor, height, len(lines))
	limit := x0 + width

	for row := 0; row < height; row++ {
		n := v.top[p] + row
		if n > len(lines) {
			break
		}

		style := tcell.StyleDefault
		switch {
		case n == cursor && p == s.Focus():
			style = style.Reverse(true)
		case s.Related(p, n):
			style = style.Bold(true).Underline(true)
		}

		if id := s.Sign(p, n); id != 0 {
			c := view.SignColor(id)
			bg := tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
			v.screen.SetContent(x0, row, ' ', nil, tcell.StyleDefault.Background(bg))
		}
		x := v.text(x0+1, row, limit, fmt.Sprintf("%4d ", n), numberStyle)
		v.text(x, row, limit, view.ExpandTabs(lines[n-1]), style)
	}
}

func (v *viewer) drawStatus(y, width int) {
	style := statusStyle
	if v.lastErr != nil {
		style = errorStyle
	}
	line := fmt.Sprintf(" %s [%s] %s", v.name, v.session.Focus(), v.status)
	if pad := width - runewidth.StringWidth(line) - runewidth.StringWidth(keyHelp) - 1; pad > 0 {
		line += strings.Repeat(" ", pad) + keyHelp
	}
	x := v.text(0, y, width, line, style)
	for ; x < width; x++ {
		v.screen.SetContent(x, y, ' ', nil, style)
	}
}

// text draws s from column x, clipped at limit, and returns the next column.
func (v *viewer) text(x, y, limit int, s string, style tcell.Style) int {
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if x+rw > limit {
			break
		}
		v.screen.SetContent(x, y, r, nil, style)
		x += rw
	}
	return x
}
