package tbrowse

import (
	"bufio"
	"io"

	"pkt.systems/tbrowse/internal/palette"
)

const ansiReset = palette.Reset

type prefixKey struct {
	attrs Attr
	pair  ColorPair
}

type ansiWriter struct {
	w        *bufio.Writer
	styles   Styles
	osc8     bool
	prefixes map[prefixKey]string
	style    string
	link     string
}

// WriteANSI writes the first height rows of g to w, switching styles with
// the theme's escape sequences and resetting at the end of every row.
func WriteANSI(w io.Writer, g *Grid, height int, th Theme, opts ...RenderOption) error {
	cfg := newRenderConfig(opts)
	if th == nil {
		th = DefaultTheme()
	}
	aw := &ansiWriter{
		w:        bufio.NewWriter(w),
		styles:   th.Styles(),
		osc8:     cfg.osc8,
		prefixes: make(map[prefixKey]string),
	}
	for row := 0; row < height; row++ {
		aw.writeRow(g.Row(row))
	}
	return aw.w.Flush()
}

func (a *ansiWriter) prefix(st Style) string {
	key := prefixKey{attrs: st.Attrs, pair: st.Pair}
	p, ok := a.prefixes[key]
	if !ok {
		p = a.styles.Prefix(st)
		a.prefixes[key] = p
	}
	return p
}

func (a *ansiWriter) writeRow(cells []Cell) {
	end := len(cells)
	for end > 0 && cells[end-1].Width == 1 && cells[end-1].Rune == ' ' {
		end--
	}
	for _, cell := range cells[:end] {
		if cell.Width == 0 {
			continue
		}
		a.setLink(cell.Style.Link)
		a.setStyle(a.prefix(cell.Style))
		_, _ = a.w.WriteRune(cell.Rune)
	}
	a.setLink("")
	a.setStyle("")
	_ = a.w.WriteByte('\n')
}

func (a *ansiWriter) setStyle(prefix string) {
	if prefix == a.style {
		return
	}
	if a.style != "" {
		_, _ = a.w.WriteString(ansiReset)
	}
	a.style = prefix
	if prefix != "" {
		_, _ = a.w.WriteString(prefix)
	}
}

func (a *ansiWriter) setLink(link string) {
	if !a.osc8 || link == a.link {
		return
	}
	if a.link != "" {
		_, _ = a.w.WriteString(osc8End)
	}
	a.link = link
	if safe := stripControls(link); safe != "" {
		_, _ = a.w.WriteString(osc8Start + safe + osc8Term)
	}
}
