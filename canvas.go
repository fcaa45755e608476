package tbrowse

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// DefaultMaxRows is the row capacity of a Grid when none is given.
const DefaultMaxRows = 20000

// Canvas receives draw operations from the render engine. Rows and columns
// are zero based; writes outside the canvas are dropped.
type Canvas interface {
	PlaceText(row, col int, text string, st Style)
	PlaceRule(row int)
	Clear()
	Capacity() int
}

// hotspotMarker is implemented by canvases that remember which rows hold
// interactive summary lines.
type hotspotMarker interface {
	MarkHotspot(row int, id NodeID)
}

// Cell is one column of a Grid row. Wide runes occupy a cell of Width 2
// followed by a continuation cell of Width 0.
type Cell struct {
	Rune  rune
	Width int
	Style Style
}

var blankCell = Cell{Rune: ' ', Width: 1}

// Grid is an in-memory, line-addressable Canvas with a fixed width and a
// bounded number of rows.
type Grid struct {
	width    int
	capacity int
	rows     [][]Cell
	hotspots map[int]NodeID
}

// NewGrid returns an empty grid. Non-positive values fall back to one column
// and DefaultMaxRows.
func NewGrid(width, capacity int) *Grid {
	if width < 1 {
		width = 1
	}
	if capacity <= 0 {
		capacity = DefaultMaxRows
	}
	return &Grid{width: width, capacity: capacity}
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Capacity returns the maximum number of rows.
func (g *Grid) Capacity() int { return g.capacity }

// Height returns the number of rows written so far.
func (g *Grid) Height() int { return len(g.rows) }

func (g *Grid) row(r int) []Cell {
	for len(g.rows) <= r {
		line := make([]Cell, g.width)
		for i := range line {
			line[i] = blankCell
		}
		g.rows = append(g.rows, line)
	}
	return g.rows[r]
}

// PlaceText writes text starting at (row, col), clipping at the right edge.
func (g *Grid) PlaceText(row, col int, text string, st Style) {
	if row < 0 || row >= g.capacity || col >= g.width || text == "" {
		return
	}
	line := g.row(row)
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if col < 0 {
			col += w
			continue
		}
		if col+w > g.width {
			return
		}
		line[col] = Cell{Rune: r, Width: w, Style: st}
		if w == 2 {
			line[col+1] = Cell{Width: 0, Style: st}
		}
		col += w
	}
}

// PlaceRule draws a full-width separator on row.
func (g *Grid) PlaceRule(row int) {
	g.PlaceText(row, 0, strings.Repeat("-", g.width), dimStyle)
}

// Clear drops every row and hotspot.
func (g *Grid) Clear() {
	g.rows = g.rows[:0]
	g.hotspots = nil
}

// MarkHotspot records that row holds the summary line of details node id.
func (g *Grid) MarkHotspot(row int, id NodeID) {
	if row < 0 || row >= g.capacity {
		return
	}
	if g.hotspots == nil {
		g.hotspots = make(map[int]NodeID)
	}
	g.hotspots[row] = id
}

// HotspotAt returns the details node whose summary is drawn on row.
func (g *Grid) HotspotAt(row int) (NodeID, bool) {
	id, ok := g.hotspots[row]
	return id, ok
}

// Hotspots returns a copy of the row to details node mapping.
func (g *Grid) Hotspots() map[int]NodeID {
	out := make(map[int]NodeID, len(g.hotspots))
	for row, id := range g.hotspots {
		out[row] = id
	}
	return out
}

// Row returns the cells of row r, or nil when it was never written.
func (g *Grid) Row(r int) []Cell {
	if r < 0 || r >= len(g.rows) {
		return nil
	}
	return g.rows[r]
}

// Line returns the text of row r with trailing blanks removed.
func (g *Grid) Line(r int) string {
	cells := g.Row(r)
	var b strings.Builder
	for _, c := range cells {
		if c.Width == 0 {
			continue
		}
		b.WriteRune(c.Rune)
	}
	return strings.TrimRight(b.String(), " ")
}

// Lines returns every written row as plain text.
func (g *Grid) Lines() []string {
	out := make([]string, len(g.rows))
	for i := range g.rows {
		out[i] = g.Line(i)
	}
	return out
}

// String returns the plain text of the grid, one row per line.
func (g *Grid) String() string {
	return strings.Join(g.Lines(), "\n")
}
