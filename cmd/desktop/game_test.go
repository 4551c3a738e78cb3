package main

import (
	"errors"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"vice/pkg/asm"
	"vice/pkg/view"
)

func testSnapshot(n int) view.Snapshot {
	var source []string
	var lines []asm.Line
	for i := 1; i <= n; i++ {
		source = append(source, "  x++;")
		lines = append(lines, asm.Line{Text: "\tadd\tDWORD PTR [rbp-4], 1", Source: i})
	}
	return view.Snapshot{
		Name:    "loop.c",
		Source:  source,
		Listing: asm.Listing{Lines: lines, Map: asm.BuildMaps(n, lines)},
	}
}

func newTestGame(t *testing.T, n int) *Game {
	t.Helper()
	results := make(chan view.Result, 1)
	g := newGame("/src/loop.c", results, nil)
	g.Layout(800, 10*lineHeight)
	results <- view.Result{Snapshot: testSnapshot(n)}
	g.drainResults()
	return g
}

func TestGameAppliesResults(t *testing.T) {
	g := newTestGame(t, 20)
	if got := len(g.session.Lines(view.AssemblyPane)); got != 20 {
		t.Fatalf("assembly lines = %d; want 20", got)
	}
	if g.status != "20 lines -> 20 lines" {
		t.Errorf("status = %q", g.status)
	}

	results := make(chan view.Result, 1)
	g.results = results
	results <- view.Result{Err: errors.New("gcc: not found")}
	g.drainResults()
	if g.lastErr == nil || g.status != "gcc: not found" {
		t.Errorf("failed build not reported: status=%q", g.status)
	}
	if got := len(g.session.Lines(view.AssemblyPane)); got != 20 {
		t.Errorf("failed build replaced the listing")
	}
}

func TestGamePerform(t *testing.T) {
	g := newTestGame(t, 20)

	g.perform(actDown)
	g.perform(actDown)
	if got := g.session.Cursor(view.AssemblyPane); got != 3 {
		t.Errorf("assembly cursor = %d; want 3", got)
	}

	g.perform(actPageDown)
	if got, want := g.session.Cursor(view.SourcePane), 3+g.rows()-1; got != want {
		t.Errorf("cursor after page down = %d; want %d", got, want)
	}

	g.perform(actFocus)
	g.perform(actEnd)
	if got := g.session.Cursor(view.SourcePane); got != 20 {
		t.Errorf("source cursor = %d; want 20", got)
	}
	g.perform(actHome)
	if got := g.session.Cursor(view.SourcePane); got != 1 {
		t.Errorf("source cursor = %d; want 1", got)
	}

	g.perform(actSigns)
	if g.session.SignsEnabled() {
		t.Errorf("signs still enabled")
	}
	if err := g.perform(actQuit); !errors.Is(err, ebiten.Termination) {
		t.Errorf("quit returned %v; want ebiten.Termination", err)
	}
}

func TestGameReload(t *testing.T) {
	g := newTestGame(t, 2)
	called := make(chan struct{}, 1)
	g.reload = func() { called <- struct{}{} }

	if err := g.perform(actReload); err != nil {
		t.Fatalf("reload returned %v", err)
	}
	<-called
	if g.status != "compiling" {
		t.Errorf("status = %q; want compiling", g.status)
	}
}

func TestGameLineAt(t *testing.T) {
	g := newTestGame(t, 20)
	g.top = [2]int{1, 5}

	tests := []struct {
		x, y     int
		wantPane view.Pane
		wantLine int
		wantOK   bool
	}{
		{10, 0, view.SourcePane, 1, true},
		{10, 3*lineHeight + 2, view.SourcePane, 4, true},
		{500, lineHeight, view.AssemblyPane, 6, true},
		{10, 9 * lineHeight, view.SourcePane, 0, false},
		{-1, 0, view.SourcePane, 0, false},
	}
	for _, tt := range tests {
		p, line, ok := g.lineAt(tt.x, tt.y)
		if ok != tt.wantOK || (ok && (p != tt.wantPane || line != tt.wantLine)) {
			t.Errorf("lineAt(%d, %d) = %v, %d, %v; want %v, %d, %v",
				tt.x, tt.y, p, line, ok, tt.wantPane, tt.wantLine, tt.wantOK)
		}
	}

	g.top = [2]int{19, 19}
	if _, _, ok := g.lineAt(10, 5*lineHeight); ok {
		t.Errorf("position below the last line should not hit")
	}
}

func TestClip(t *testing.T) {
	if got := clip("mov eax, 1", 3); got != "mov" {
		t.Errorf("clip = %q", got)
	}
	if got := clip("ret", 10); got != "ret" {
		t.Errorf("clip = %q", got)
	}
	if got := clip("ret", 0); got != "" {
		t.Errorf("clip = %q", got)
	}
}
