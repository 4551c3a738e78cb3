package main

import (
	"fmt"
	"image/color"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"vice/pkg/view"
)

const (
	lineHeight = 16
	charWidth  = 7 // basicfont.Face7x13 advance
	signWidth  = 6
	numberCols = 5
	wheelLines = 3
)

var (
	backgroundColor = color.RGBA{0x1e, 0x1e, 0x1e, 0xff}
	textColor       = color.RGBA{0xdc, 0xdc, 0xdc, 0xff}
	numberColor     = color.RGBA{0x80, 0x80, 0x80, 0xff}
	cursorColor     = color.RGBA{0x26, 0x4f, 0x78, 0xff}
	relatedColor    = color.RGBA{0x33, 0x33, 0x44, 0xff}
	borderColor     = color.RGBA{0x55, 0x55, 0x55, 0xff}
	statusColor     = color.RGBA{0x00, 0x7a, 0xcc, 0xff}
	errorColor      = color.RGBA{0x8b, 0x1a, 0x1a, 0xff}
)

type action int

const (
	actNone action = iota
	actUp
	actDown
	actPageUp
	actPageDown
	actHome
	actEnd
	actFocus
	actSigns
	actReload
	actQuit
)

// Game draws a session as two side-by-side panes. Build results arrive on
// results and are applied in Update, so the session is only touched by the
// game loop.
type Game struct {
	session *view.Session
	results <-chan view.Result
	reload  func()
	face    text.Face
	name    string
	top     [2]int
	status  string
	lastErr error
	width   int
	height  int
}

func newGame(path string, results <-chan view.Result, reload func()) *Game {
	return &Game{
		session: view.NewSession(),
		results: results,
		reload:  reload,
		face:    text.NewGoXFace(basicfont.Face7x13),
		name:    filepath.Base(path),
		top:     [2]int{1, 1},
		status:  "compiling",
		width:   1200,
		height:  720,
	}
}

func (g *Game) Update() error {
	g.drainResults()

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if p, line, ok := g.lineAt(ebiten.CursorPosition()); ok {
			g.session.SetFocus(p)
			g.session.SetCursor(p, line)
		}
	}

	for _, a := range readActions() {
		if err := g.perform(a); err != nil {
			return err
		}
	}
	return nil
}

func (g *Game) drainResults() {
	for {
		select {
		case res := <-g.results:
			g.accept(res)
		default:
			return
		}
	}
}

func (g *Game) accept(res view.Result) {
	if err := g.session.Accept(res); err != nil {
		g.lastErr = err
		g.status = view.ErrorSummary(err)
		return
	}
	g.lastErr = nil
	snap := g.session.Snapshot()
	g.status = fmt.Sprintf("%d lines -> %d lines", len(snap.Source), len(snap.Listing.Lines))
}

// repeating reports a key press on its first frame and then at a steady rate
// while the key is held.
func repeating(key ebiten.Key) bool {
	d := inpututil.KeyPressDuration(key)
	return d == 1 || (d >= 30 && d%4 == 0)
}

func readActions() []action {
	var actions []action
	for key, a := range map[ebiten.Key]action{
		ebiten.KeyArrowUp:   actUp,
		ebiten.KeyK:         actUp,
		ebiten.KeyArrowDown: actDown,
		ebiten.KeyJ:         actDown,
		ebiten.KeyPageUp:    actPageUp,
		ebiten.KeyPageDown:  actPageDown,
	} {
		if repeating(key) {
			actions = append(actions, a)
		}
	}
	for key, a := range map[ebiten.Key]action{
		ebiten.KeyHome:   actHome,
		ebiten.KeyEnd:    actEnd,
		ebiten.KeyTab:    actFocus,
		ebiten.KeyS:      actSigns,
		ebiten.KeyR:      actReload,
		ebiten.KeyQ:      actQuit,
		ebiten.KeyEscape: actQuit,
	} {
		if inpututil.IsKeyJustPressed(key) {
			actions = append(actions, a)
		}
	}

	_, dy := ebiten.Wheel()
	step := actNone
	switch {
	case dy > 0:
		step = actUp
	case dy < 0:
		step = actDown
	}
	if step != actNone {
		for i := 0; i < wheelLines; i++ {
			actions = append(actions, step)
		}
	}
	return actions
}

func (g *Game) perform(a action) error {
	s := g.session
	page := max(g.rows()-1, 1)

	switch a {
	case actUp:
		s.Move(-1)
	case actDown:
		s.Move(1)
	case actPageUp:
		s.Move(-page)
	case actPageDown:
		s.Move(page)
	case actHome:
		s.SetCursor(s.Focus(), 1)
	case actEnd:
		s.SetCursor(s.Focus(), len(s.Lines(s.Focus())))
	case actFocus:
		s.ToggleFocus()
	case actSigns:
		s.ToggleSigns()
	case actReload:
		if g.reload != nil {
			g.status = "compiling"
			go g.reload()
		}
	case actQuit:
		return ebiten.Termination
	}
	return nil
}

// rows is the number of text rows above the status line.
func (g *Game) rows() int {
	return max(g.height/lineHeight-1, 0)
}

func (g *Game) split() int {
	return g.width / 2
}

// lineAt maps a window position to the pane and line drawn there.
func (g *Game) lineAt(x, y int) (view.Pane, int, bool) {
	if x < 0 || y < 0 || y >= g.rows()*lineHeight {
		return view.SourcePane, 0, false
	}
	p := view.SourcePane
	if x > g.split() {
		p = view.AssemblyPane
	}
	line := g.top[p] + y/lineHeight
	if line > len(g.session.Lines(p)) {
		return p, 0, false
	}
	return p, line, true
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	rows := g.rows()
	split := g.split()

	g.drawPane(screen, view.SourcePane, 0, split, rows)
	vector.DrawFilledRect(screen, float32(split), 0, 1, float32(rows*lineHeight), borderColor, false)
	g.drawPane(screen, view.AssemblyPane, split+1, g.width-split-1, rows)
	g.drawStatus(screen, rows*lineHeight)
}

func (g *Game) drawPane(screen *ebiten.Image, p view.Pane, x0, width, rows int) {
	s := g.session
	lines := s.Lines(p)
	cursor := s.Cursor(p)
	g.top[p] = view.Scroll(g.top[p], cursor, rows, len(lines))

	textX := x0 + signWidth + 2
	cols := (x0 + width - textX) / charWidth

	for row := 0; row < rows; row++ {
		n := g.top[p] + row
		if n > len(lines) {
			break
		}
		y := row * lineHeight

		switch {
		case n == cursor && p == s.Focus():
			vector.DrawFilledRect(screen, float32(x0), float32(y), float32(width), lineHeight, cursorColor, false)
		case s.Related(p, n):
			vector.DrawFilledRect(screen, float32(x0), float32(y), float32(width), lineHeight, relatedColor, false)
		}
		if id := s.Sign(p, n); id != 0 {
			vector.DrawFilledRect(screen, float32(x0), float32(y), signWidth, lineHeight, view.SignColor(id), false)
		}

		g.drawText(screen, fmt.Sprintf("%4d ", n), textX, y, numberColor)
		g.drawText(screen, clip(view.ExpandTabs(lines[n-1]), cols-numberCols), textX+numberCols*charWidth, y, textColor)
	}
}

func (g *Game) drawStatus(screen *ebiten.Image, y int) {
	bg := statusColor
	if g.lastErr != nil {
		bg = errorColor
	}
	vector.DrawFilledRect(screen, 0, float32(y), float32(g.width), lineHeight, bg, false)
	line := fmt.Sprintf("%s [%s] %s   Tab pane  S signs  R rebuild  Q quit", g.name, g.session.Focus(), g.status)
	ebitenutil.DebugPrintAt(screen, line, 4, y)
}

func (g *Game) drawText(screen *ebiten.Image, s string, x, y int, clr color.Color) {
	if s == "" {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y+1))
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, s, g.face, op)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.width, g.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

func clip(s string, cols int) string {
	if cols <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= cols {
		return s
	}
	return string(r[:cols])
}
