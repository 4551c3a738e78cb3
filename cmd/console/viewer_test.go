package main

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"vice/pkg/asm"
	"vice/pkg/compiler"
	"vice/pkg/view"
)

func testSnapshot() view.Snapshot {
	lines := []asm.Line{
		{Text: "add(int, int):", Source: 1},
		{Text: "\tlea\teax, [rdi+rsi]", Source: 2},
		{Text: "\tret", Source: 3},
	}
	return view.Snapshot{
		Name:    "add.c",
		Source:  []string{"int add(int a, int b) {", "  return a + b;", "}"},
		Listing: asm.Listing{Lines: lines, Map: asm.BuildMaps(3, lines)},
	}
}

func newTestViewer(t *testing.T) (*viewer, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(80, 6)

	v := newViewer(screen, "/src/add.c")
	v.accept(view.Result{Snapshot: testSnapshot()})
	return v, screen
}

func row(screen tcell.SimulationScreen, y int) string {
	cells, w, _ := screen.GetContents()
	var b strings.Builder
	for x := 0; x < w; x++ {
		c := cells[y*w+x]
		if len(c.Runes) == 0 {
			b.WriteByte(' ')
			continue
		}
		b.WriteRune(c.Runes[0])
	}
	return b.String()
}

func cell(screen tcell.SimulationScreen, x, y int) tcell.SimCell {
	cells, w, _ := screen.GetContents()
	return cells[y*w+x]
}

func TestDrawPanes(t *testing.T) {
	v, screen := newTestViewer(t)
	v.draw()

	first := row(screen, 0)
	if !strings.HasPrefix(first, "    1 int add(int a, int b) {") {
		t.Errorf("source pane row 0 = %q", first)
	}
	if !strings.Contains(first, "│    1 add(int, int):") {
		t.Errorf("assembly pane row 0 = %q", first)
	}
	if second := row(screen, 1); !strings.Contains(second, "   2         lea     eax, [rdi+rsi]") {
		t.Errorf("assembly pane row 1 = %q", second)
	}

	status := row(screen, 5)
	for _, want := range []string{"add.c", "[source]", "3 lines -> 3 lines", "q quit"} {
		if !strings.Contains(status, want) {
			t.Errorf("status %q missing %q", status, want)
		}
	}
}

func TestDrawSignsAndCursor(t *testing.T) {
	v, screen := newTestViewer(t)
	v.draw()

	c := view.SignColor(1)
	want := tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
	if _, bg, _ := cell(screen, 0, 0).Style.Decompose(); bg != want {
		t.Errorf("sign cell background = %v; want %v", bg, want)
	}
	if _, _, attr := cell(screen, 6, 0).Style.Decompose(); attr&tcell.AttrReverse == 0 {
		t.Errorf("cursor line is not highlighted")
	}
	if _, _, attr := cell(screen, 6, 1).Style.Decompose(); attr&tcell.AttrReverse != 0 {
		t.Errorf("non-cursor line is highlighted")
	}

	v.handle(tcell.NewEventKey(tcell.KeyRune, 's', tcell.ModNone))
	v.draw()
	if _, bg, _ := cell(screen, 0, 0).Style.Decompose(); bg == want {
		t.Errorf("sign still drawn after toggling signs off")
	}
}

func TestKeysMoveAndSync(t *testing.T) {
	v, _ := newTestViewer(t)

	v.handle(tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone))
	if got := v.session.Cursor(view.SourcePane); got != 2 {
		t.Errorf("source cursor = %d; want 2", got)
	}
	if got := v.session.Cursor(view.AssemblyPane); got != 2 {
		t.Errorf("assembly cursor = %d; want 2", got)
	}

	v.handle(tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone))
	if v.session.Focus() != view.AssemblyPane {
		t.Fatalf("Tab did not switch panes")
	}
	v.handle(tcell.NewEventKey(tcell.KeyEnd, 0, tcell.ModNone))
	if got := v.session.Cursor(view.SourcePane); got != 3 {
		t.Errorf("source cursor = %d; want 3", got)
	}
	v.handle(tcell.NewEventKey(tcell.KeyRune, 'k', tcell.ModNone))
	if got := v.session.Cursor(view.AssemblyPane); got != 2 {
		t.Errorf("assembly cursor = %d; want 2", got)
	}
}

func TestKeysQuit(t *testing.T) {
	v, _ := newTestViewer(t)
	if v.handle(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)) {
		t.Errorf("q did not quit")
	}
	if v.handle(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) {
		t.Errorf("Esc did not quit")
	}
	if !v.handle(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)) {
		t.Errorf("unbound key quit")
	}
}

func TestReloadKey(t *testing.T) {
	v, _ := newTestViewer(t)
	called := make(chan struct{}, 1)
	v.reload = func() { called <- struct{}{} }

	v.handle(tcell.NewEventKey(tcell.KeyRune, 'r', tcell.ModNone))
	<-called
	if v.status != "compiling" {
		t.Errorf("status = %q; want compiling", v.status)
	}
}

func TestFailedBuildKeepsListing(t *testing.T) {
	v, screen := newTestViewer(t)

	err := &compiler.CompilationError{
		Compiler: "gcc",
		ExitCode: 1,
		Stderr:   "add.c:2:10: error: 'c' undeclared\nadd.c:2:10: note: each undeclared identifier\n",
	}
	v.handle(tcell.NewEventInterrupt(view.Result{Err: err}))
	v.draw()

	if got := v.status; got != "add.c:2:10: error: 'c' undeclared" {
		t.Errorf("status = %q", got)
	}
	if len(v.session.Lines(view.AssemblyPane)) != 3 {
		t.Errorf("failed build replaced the listing")
	}
	if _, bg, _ := cell(screen, 0, 5).Style.Decompose(); bg != tcell.ColorMaroon {
		t.Errorf("status row is not drawn as an error")
	}

	v.handle(tcell.NewEventInterrupt(view.Result{Snapshot: testSnapshot()}))
	if v.lastErr != nil {
		t.Errorf("successful build did not clear the error")
	}
}
