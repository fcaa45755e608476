package tbrowse

import "strings"

type tableCell struct {
	text   string
	header bool
}

// tableLayout collects the rows of a table, looking through transparent
// row groups, and measures one width per column.
func tableLayout(table *Node) ([][]tableCell, []int) {
	var rows [][]tableCell
	var collect func(n *Node)
	collect = func(n *Node) {
		for _, child := range n.Children {
			switch {
			case child.Kind == KindRow:
				var cells []tableCell
				for _, cell := range child.Children {
					if cell.Kind != KindCell {
						continue
					}
					cells = append(cells, tableCell{
						text:   strings.Join(strings.Fields(cell.TextContent()), " "),
						header: cell.Tag == "th",
					})
				}
				if len(cells) > 0 {
					rows = append(rows, cells)
				}
			case child.Kind.IsTransparent():
				collect(child)
			}
		}
	}
	collect(table)

	cols := 0
	for _, row := range rows {
		cols = max(cols, len(row))
	}
	widths := make([]int, cols)
	for i := range widths {
		widths[i] = 1
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], textWidth(cell.text))
		}
	}
	return rows, widths
}

func tableBorder(widths []int) string {
	var b strings.Builder
	b.WriteByte('+')
	for _, w := range widths {
		b.WriteString(strings.Repeat("-", w+2))
		b.WriteByte('+')
	}
	return b.String()
}

func (r *renderer) table(n *Node, c *cursor, indent int) {
	r.endLine(c)
	rows, widths := tableLayout(n)
	if len(rows) == 0 {
		return
	}
	x := r.clampIndent(indent)
	border := tableBorder(widths)
	r.canvas.PlaceText(c.row, x, border, dimStyle)
	c.row++
	for _, row := range rows {
		if c.row >= r.limit {
			return
		}
		col := x
		r.canvas.PlaceText(c.row, col, "|", dimStyle)
		col++
		for i, w := range widths {
			var cell tableCell
			if i < len(row) {
				cell = row[i]
			}
			text, st := fitCell(cell.text, w), plainStyle
			if cell.header {
				text, st = centerCell(cell.text, w), boldStyle
			}
			r.canvas.PlaceText(c.row, col+1, text, st)
			col += w + 2
			r.canvas.PlaceText(c.row, col, "|", dimStyle)
			col++
		}
		c.row++
		r.canvas.PlaceText(c.row, x, border, dimStyle)
		c.row++
	}
}
