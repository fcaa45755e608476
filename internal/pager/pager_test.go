package pager

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"pkt.systems/tbrowse"
)

func newSim(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	if err := sim.Init(); err != nil {
		t.Fatalf("init simulation screen: %v", err)
	}
	t.Cleanup(sim.Fini)
	sim.SetSize(w, h)
	return sim
}

func build(t *testing.T, markup string) *tbrowse.Document {
	t.Helper()
	doc, err := tbrowse.BuildTree(markup)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return doc
}

func screenLine(sim tcell.SimulationScreen, y int) string {
	cells, w, _ := sim.GetContents()
	var b strings.Builder
	for x := 0; x < w; x++ {
		c := cells[y*w+x]
		if len(c.Runes) == 0 {
			b.WriteByte(' ')
			continue
		}
		b.WriteRune(c.Runes[0])
	}
	return strings.TrimRight(b.String(), " ")
}

func key(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func longMarkup(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "row %d<br>", i)
	}
	return b.String()
}

func TestDrawShowsRowsAndStatus(t *testing.T) {
	sim := newSim(t, 80, 4)
	doc := build(t, "<title>Greeting</title><p>hello world</p>")
	p := New(sim, doc, Options{Source: "page.html", Theme: tbrowse.PlainTheme()})
	p.Layout()
	p.Draw()

	if got := screenLine(sim, 0); got != "hello world" {
		t.Fatalf("row 0 = %q", got)
	}
	status := screenLine(sim, 3)
	if !strings.HasPrefix(status, HelpText) || !strings.Contains(status, "Greeting") || !strings.HasSuffix(status, "1-2/2") {
		t.Fatalf("status = %q", status)
	}
}

func TestStatusFallsBackToSourceAndTruncates(t *testing.T) {
	sim := newSim(t, 30, 3)
	p := New(sim, build(t, "<p>x</p>"), Options{Source: "page.html"})
	p.Layout()
	p.Draw()
	status := screenLine(sim, 2)
	if !strings.HasSuffix(status, "…") || len([]rune(status)) != 30 {
		t.Fatalf("status = %q", status)
	}

	sim.SetSize(120, 3)
	p.Layout()
	p.Draw()
	if status := screenLine(sim, 2); !strings.Contains(status, "page.html") {
		t.Fatalf("status = %q", status)
	}
}

func TestScrollKeys(t *testing.T) {
	sim := newSim(t, 40, 6)
	doc := build(t, longMarkup(30))
	_, height := tbrowse.RenderTree(doc, 40)
	maxTop := height - 5
	p := New(sim, doc, Options{})
	p.Layout()
	ctx := context.Background()

	steps := []struct {
		ev   tcell.Event
		want int
	}{
		{key('j'), 1},
		{tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone), 2},
		{key('k'), 1},
		{tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), 0},
		{tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), 0},
		{tcell.NewEventKey(tcell.KeyPgDn, 0, tcell.ModNone), 5},
		{key(' '), 10},
		{tcell.NewEventKey(tcell.KeyPgUp, 0, tcell.ModNone), 5},
		{key('G'), maxTop},
		{key('j'), maxTop},
		{key('g'), 0},
		{tcell.NewEventKey(tcell.KeyEnd, 0, tcell.ModNone), maxTop},
		{tcell.NewEventKey(tcell.KeyHome, 0, tcell.ModNone), 0},
	}
	for i, step := range steps {
		if p.HandleEvent(ctx, step.ev) {
			t.Fatalf("step %d quit unexpectedly", i)
		}
		if got := p.Top(); got != step.want {
			t.Fatalf("step %d: top = %d, want %d", i, got, step.want)
		}
	}

	p.scrollTo(3)
	p.Draw()
	if got := screenLine(sim, 0); got != "row 3" {
		t.Fatalf("row 0 after scrolling = %q", got)
	}
}

func TestQuitKeys(t *testing.T) {
	sim := newSim(t, 40, 6)
	p := New(sim, build(t, "<p>x</p>"), Options{})
	p.Layout()
	for _, ev := range []tcell.Event{
		key('q'),
		tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone),
		tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModNone),
		tcell.NewEventInterrupt(quitRequest{}),
	} {
		if !p.HandleEvent(context.Background(), ev) {
			t.Fatalf("%T should quit", ev)
		}
	}
}

func TestEnterAndClickToggleDetails(t *testing.T) {
	sim := newSim(t, 40, 6)
	doc := build(t, "<details><summary>More</summary><p>hidden</p></details>")
	p := New(sim, doc, Options{Theme: tbrowse.PlainTheme()})
	p.Layout()
	p.Draw()
	if got := screenLine(sim, 0); got != "> More (>)" {
		t.Fatalf("collapsed = %q", got)
	}

	p.HandleEvent(context.Background(), tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
	p.Draw()
	if got := screenLine(sim, 0); got != "> More (v)" {
		t.Fatalf("after Enter = %q", got)
	}
	if got := screenLine(sim, 1); got != "  hidden" {
		t.Fatalf("expanded body = %q", got)
	}

	p.HandleEvent(context.Background(), tcell.NewEventMouse(3, 0, tcell.Button1, tcell.ModNone))
	// a held button is one click
	p.HandleEvent(context.Background(), tcell.NewEventMouse(3, 0, tcell.Button1, tcell.ModNone))
	p.HandleEvent(context.Background(), tcell.NewEventMouse(3, 0, tcell.ButtonNone, tcell.ModNone))
	p.Draw()
	if got := screenLine(sim, 0); got != "> More (>)" {
		t.Fatalf("after click = %q", got)
	}

	p.HandleEvent(context.Background(), tcell.NewEventMouse(3, 3, tcell.Button1, tcell.ModNone))
	if doc.Node(doc.Details()[0]).Expanded {
		t.Fatalf("click below the content should not toggle")
	}
}

func TestToggleAllDetails(t *testing.T) {
	sim := newSim(t, 40, 10)
	doc := build(t, "<details open><summary>A</summary>a</details><details><summary>B</summary>b</details>")
	p := New(sim, doc, Options{})
	p.Layout()

	p.HandleEvent(context.Background(), key('x'))
	for _, id := range doc.Details() {
		if !doc.Node(id).Expanded {
			t.Fatalf("x should expand all when any is collapsed")
		}
	}
	p.HandleEvent(context.Background(), key('x'))
	for _, id := range doc.Details() {
		if doc.Node(id).Expanded {
			t.Fatalf("x should collapse all when all are expanded")
		}
	}
}

func TestReloadSwapsDocumentAndKeepsDetails(t *testing.T) {
	sim := newSim(t, 40, 6)
	first := build(t, "<details><summary>S</summary>v1</details>")
	first.SetAllExpanded(true)
	loads := 0
	p := New(sim, first, Options{
		Theme: tbrowse.PlainTheme(),
		Load: func(context.Context) (*tbrowse.Document, error) {
			loads++
			return tbrowse.BuildTree("<details><summary>S</summary>v2</details>")
		},
		Logger: zerolog.Nop(),
	})
	p.Layout()

	p.HandleEvent(context.Background(), tcell.NewEventInterrupt(reloadRequest{}))
	if loads != 1 || p.Document() == first {
		t.Fatalf("reload did not swap the document (loads %d)", loads)
	}
	p.Draw()
	if got := screenLine(sim, 1); got != "  v2" {
		t.Fatalf("reloaded body = %q", got)
	}

	p.HandleEvent(context.Background(), key('r'))
	if loads != 2 {
		t.Fatalf("r should reload, loads = %d", loads)
	}
}

func TestReloadFailureKeepsDocument(t *testing.T) {
	sim := newSim(t, 120, 4)
	doc := build(t, "<p>still here</p>")
	p := New(sim, doc, Options{
		Load: func(context.Context) (*tbrowse.Document, error) {
			return nil, errors.New("connection refused")
		},
	})
	p.Layout()
	p.HandleEvent(context.Background(), key('r'))
	p.Draw()
	if p.Document() != doc {
		t.Fatalf("failed reload replaced the document")
	}
	if got := screenLine(sim, 0); got != "still here" {
		t.Fatalf("row 0 = %q", got)
	}
	if status := screenLine(sim, 3); !strings.Contains(status, "reload failed: connection refused") {
		t.Fatalf("status = %q", status)
	}
}

func TestResizeRelayouts(t *testing.T) {
	sim := newSim(t, 40, 6)
	p := New(sim, build(t, "<p>alpha beta gamma</p>"), Options{})
	p.Layout()
	sim.SetSize(10, 6)
	p.HandleEvent(context.Background(), tcell.NewEventResize(10, 6))
	p.Draw()
	if got := screenLine(sim, 0); got != "alpha beta" {
		t.Fatalf("row 0 = %q", got)
	}
	if got := screenLine(sim, 1); got != "gamma" {
		t.Fatalf("row 1 = %q", got)
	}
}

func TestRunStopsWhenContextIsDone(t *testing.T) {
	sim := tcell.NewSimulationScreen("UTF-8")
	p := New(sim, build(t, "<p>x</p>"), Options{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}

func TestCellStyleColors(t *testing.T) {
	sim := newSim(t, 10, 2)
	p := New(sim, build(t, ""), Options{Theme: tbrowse.DefaultTheme()})
	st := p.cellStyle(tbrowse.Style{Attrs: tbrowse.AttrBold, Pair: tbrowse.PairHeaders})
	fg, _, attrs := st.Decompose()
	if fg != tcell.PaletteColor(7) {
		t.Fatalf("header foreground = %v", fg)
	}
	if attrs&tcell.AttrBold == 0 {
		t.Fatalf("bold not set")
	}

	plain := New(sim, build(t, ""), Options{Theme: tbrowse.PlainTheme()})
	if plain.cellStyle(tbrowse.Style{Attrs: tbrowse.AttrBold}) != tcell.StyleDefault {
		t.Fatalf("plain theme should not style cells")
	}
	if color("") != tcell.ColorDefault {
		t.Fatalf("empty spec should be the default color")
	}
}
