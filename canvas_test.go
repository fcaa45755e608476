package tbrowse

import "testing"

func TestGridPlaceTextClips(t *testing.T) {
	g := NewGrid(5, 3)
	g.PlaceText(0, 3, "abcdef", boldStyle)
	g.PlaceText(5, 0, "beyond capacity", plainStyle)
	g.PlaceText(1, -2, "xyz", plainStyle)
	if got := g.Line(0); got != "   ab" {
		t.Fatalf("line 0 = %q", got)
	}
	if got := g.Line(1); got != "z" {
		t.Fatalf("line 1 = %q", got)
	}
	if g.Height() != 2 {
		t.Fatalf("height = %d, want 2", g.Height())
	}
	if g.Row(0)[3].Style != boldStyle {
		t.Fatalf("style not stored")
	}
	if g.Row(7) != nil {
		t.Fatalf("unwritten row should be nil")
	}
}

func TestGridWideRunes(t *testing.T) {
	g := NewGrid(5, 0)
	g.PlaceText(0, 0, "日本語", plainStyle)
	if got := g.Line(0); got != "日本" {
		t.Fatalf("line = %q", got)
	}
	row := g.Row(0)
	if row[0].Width != 2 || row[1].Width != 0 || row[4].Rune != ' ' {
		t.Fatalf("unexpected cells %+v", row)
	}
	if g.Capacity() != DefaultMaxRows {
		t.Fatalf("capacity = %d", g.Capacity())
	}
}

func TestGridRuleAndClear(t *testing.T) {
	g := NewGrid(4, 10)
	g.PlaceRule(2)
	g.MarkHotspot(2, 7)
	if got := g.String(); got != "\n\n----" {
		t.Fatalf("String = %q", got)
	}
	if g.Row(2)[0].Style != dimStyle {
		t.Fatalf("rule should be dim")
	}
	if id, ok := g.HotspotAt(2); !ok || id != 7 {
		t.Fatalf("hotspot = %d, %v", id, ok)
	}
	g.Clear()
	if g.Height() != 0 || len(g.Hotspots()) != 0 {
		t.Fatalf("clear left %d rows and %d hotspots", g.Height(), len(g.Hotspots()))
	}
	g.MarkHotspot(10, 1)
	if _, ok := g.HotspotAt(10); ok {
		t.Fatalf("hotspot past capacity should be ignored")
	}
}

func TestRecorderReplay(t *testing.T) {
	rec := NewRecorder(50)
	rec.PlaceText(0, 0, "stale", plainStyle)
	rec.Clear()
	rec.PlaceText(0, 1, "hi", boldStyle)
	rec.PlaceRule(1)
	if len(rec.Ops) != 3 || rec.Ops[0].Kind != OpClear {
		t.Fatalf("ops = %+v", rec.Ops)
	}
	if rec.Capacity() != 50 {
		t.Fatalf("capacity = %d", rec.Capacity())
	}
	g := NewGrid(3, 0)
	rec.Replay(g)
	if got := g.String(); got != " hi\n---" {
		t.Fatalf("replayed grid = %q", got)
	}
}
