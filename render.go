package tbrowse

import (
	"strconv"
	"strings"
)

// RenderTree lays out doc at the given width into a new Grid and returns it
// with the number of rows used.
func RenderTree(doc *Document, width int, opts ...RenderOption) (*Grid, int) {
	cfg := newRenderConfig(opts)
	if width < 1 {
		width = 1
	}
	g := NewGrid(width, cfg.maxRows)
	return g, renderDocument(g, doc, width, cfg)
}

// RenderInto lays out doc into c and returns the number of rows used. The
// canvas is cleared first.
func RenderInto(c Canvas, doc *Document, width int, opts ...RenderOption) int {
	if width < 1 {
		width = 1
	}
	return renderDocument(c, doc, width, newRenderConfig(opts))
}

func renderDocument(c Canvas, doc *Document, width int, cfg renderConfig) int {
	c.Clear()
	if doc == nil {
		return 0
	}
	r := &renderer{
		canvas: c,
		doc:    doc,
		width:  width,
		limit:  c.Capacity(),
		legacy: cfg.legacyBreaks,
	}
	r.hotspots, _ = c.(hotspotMarker)
	var cur cursor
	r.render(doc.Root(), &cur, 0)
	r.endLine(&cur)
	return min(cur.row, r.limit)
}

// hiddenTags are unknown elements whose content is never drawn.
var hiddenTags = map[string]bool{"title": true, "template": true}

// cursor is the running layout position threaded through the render pass.
// open is set while the current row holds inline content; gap is set when a
// word separator is owed before the next inline word.
type cursor struct {
	row  int
	col  int
	open bool
	gap  bool
}

type renderer struct {
	canvas   Canvas
	hotspots hotspotMarker
	doc      *Document
	width    int
	limit    int
	legacy   bool
}

func (r *renderer) render(n *Node, c *cursor, indent int) {
	if c.row >= r.limit {
		return
	}
	switch n.Kind {
	case KindText:
		r.flowText(c, indent, n.Text, n.SpaceBefore, n.SpaceAfter, plainStyle)
	case KindLineBreak:
		c.row++
		c.open = false
		c.gap = false
	case KindRule:
		r.endLine(c)
		r.canvas.PlaceRule(c.row)
		c.row++
	case KindVoid:
	case KindUnknown:
		if hiddenTags[n.Tag] {
			return
		}
		r.children(n, c, indent)
	case KindParagraph:
		r.endLine(c)
		r.children(n, c, indent)
		r.endLine(c)
		c.row++
	case KindHeading:
		r.endLine(c)
		r.flowText(c, indent, n.TextContent(), false, false, headerStyle)
		r.endLine(c)
	case KindPre:
		r.codeBox(c, indent, n.RawText())
	case KindCode:
		if raw := n.RawText(); strings.Contains(strings.Trim(raw, "\n"), "\n") {
			r.codeBox(c, indent, raw)
			return
		}
		r.inlineStyle(n, c, indent, codeSpanStyle)
	case KindBold, KindItalic, KindHighlight, KindUnderline, KindStrike:
		r.inlineStyle(n, c, indent, inlineStyleFor(n.Kind))
	case KindBlockquote:
		r.blockquote(n, c, indent)
	case KindUnorderedList, KindOrderedList:
		r.list(n, c, indent)
	case KindListItem:
		r.listItem(n, c, indent)
	case KindDefinitionList:
		r.endLine(c)
		r.flowText(c, indent, "Glossary:", false, false, boldStyle)
		r.endLine(c)
		r.children(n, c, indent)
		r.endLine(c)
		c.row++
	case KindTerm:
		r.endLine(c)
		r.flowText(c, indent, n.TextContent(), false, false, boldStyle)
		r.endLine(c)
	case KindDefinition:
		r.block(n, c, indent+4)
	case KindCaption:
		r.endLine(c)
		r.flowText(c, indent, n.TextContent(), false, false, captionStyle)
		r.endLine(c)
	case KindImage:
		r.image(n, c, indent)
	case KindDetails:
		r.details(n, c, indent)
	case KindTable:
		r.table(n, c, indent)
	case KindAnchor:
		r.anchor(n, c, indent)
	case KindForm:
		r.endLine(c)
		r.flowText(c, indent, "Form:", false, false, boldStyle)
		r.endLine(c)
		r.block(n, c, indent+2)
	case KindInput:
		r.input(n, c, indent)
	case KindTextarea:
		r.textarea(n, c, indent)
	case KindButton:
		r.field(c, indent, "[ "+n.Attrs.Value("value", "Button")+" ]")
	case KindSelect:
		r.selectField(n, c, indent)
	default:
		r.block(n, c, indent)
	}
}

func (r *renderer) children(n *Node, c *cursor, indent int) {
	for _, child := range n.Children {
		r.render(child, c, indent)
	}
}

// block renders children on rows of their own.
func (r *renderer) block(n *Node, c *cursor, indent int) {
	r.endLine(c)
	r.children(n, c, indent)
	r.endLine(c)
}

// endLine finishes the current row if it holds inline content.
func (r *renderer) endLine(c *cursor) {
	if c.open {
		c.row++
		c.open = false
	}
	c.gap = false
}

func (r *renderer) clampIndent(indent int) int {
	if indent > r.width-1 {
		indent = r.width - 1
	}
	return max(indent, 0)
}

// inlineStyle applies st to the direct text children of n only; nested
// elements render with their own rules.
func (r *renderer) inlineStyle(n *Node, c *cursor, indent int, st Style) {
	for _, child := range n.Children {
		if child.Kind == KindText {
			r.flowText(c, indent, child.Text, child.SpaceBefore, child.SpaceAfter, st)
			continue
		}
		r.render(child, c, indent)
	}
}

// flowText word-wraps text onto the current row and the rows below it,
// continuing lines at indent.
func (r *renderer) flowText(c *cursor, indent int, text string, spaceBefore, spaceAfter bool, st Style) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return
	}
	if spaceBefore {
		c.gap = true
	}
	for i, word := range words {
		gapStyle := plainStyle
		if i > 0 {
			c.gap = true
			gapStyle = st
		}
		r.placeWord(c, indent, word, st, gapStyle)
	}
	if spaceAfter {
		c.gap = true
	}
	if r.legacy {
		c.row++
		c.open = false
		c.gap = false
	}
}

func (r *renderer) placeWord(c *cursor, indent int, word string, st, gapStyle Style) {
	indent = r.clampIndent(indent)
	if !c.open {
		c.open = true
		c.col = indent
		c.gap = false
	}
	if c.col < indent {
		c.col = indent
	}
	w := textWidth(word)
	if c.col > indent {
		need := w
		if c.gap {
			need++
		}
		if c.col+need > r.width {
			r.wrap(c, indent)
		} else if c.gap {
			r.canvas.PlaceText(c.row, c.col, " ", gapStyle)
			c.col++
		}
	}
	c.gap = false
	for c.col+w > r.width && word != "" {
		head, rest := splitAtWidth(word, r.width-c.col)
		if textWidth(head) > r.width-c.col {
			// a wide rune with one column left
			head = "?"
		}
		r.canvas.PlaceText(c.row, c.col, head, st)
		if rest == "" {
			c.col += textWidth(head)
			return
		}
		r.wrap(c, indent)
		word = rest
		w = textWidth(word)
	}
	if word == "" {
		return
	}
	r.canvas.PlaceText(c.row, c.col, word, st)
	c.col += w
}

func (r *renderer) wrap(c *cursor, indent int) {
	c.row++
	c.col = indent
}

// field places a single-row widget on its own line.
func (r *renderer) field(c *cursor, indent int, text string) {
	r.endLine(c)
	r.flowText(c, indent, text, false, false, plainStyle)
	r.endLine(c)
}

func (r *renderer) blockquote(n *Node, c *cursor, indent int) {
	r.endLine(c)
	x := r.clampIndent(indent)
	r.canvas.PlaceText(c.row, x, " |", dimStyle)
	c.row++
	start := c.row
	r.children(n, c, indent+3)
	r.endLine(c)
	for row := start; row < c.row && row < r.limit; row++ {
		r.canvas.PlaceText(row, x, " | ", dimStyle)
	}
	r.canvas.PlaceText(c.row, x, " |", dimStyle)
	c.row++
}

func (r *renderer) list(n *Node, c *cursor, indent int) {
	r.endLine(c)
	if n.Kind == KindOrderedList {
		num := 0
		for _, child := range n.Children {
			if child.Kind == KindListItem {
				num++
				child.ListNumber = num
			}
		}
	}
	r.children(n, c, indent)
	r.endLine(c)
	if p := r.doc.Parent(n); p == nil || p.Kind != KindListItem {
		c.row++
	}
}

func (r *renderer) listItem(n *Node, c *cursor, indent int) {
	r.endLine(c)
	marker, st := "* ", bulletStyle
	if n.ListNumber > 0 {
		marker, st = strconv.Itoa(n.ListNumber)+". ", plainStyle
	}
	x := r.clampIndent(indent)
	r.canvas.PlaceText(c.row, x, marker, st)
	inner := x + len(marker)
	c.open = true
	c.col = inner
	c.gap = false
	r.children(n, c, inner)
	r.endLine(c)
}

func (r *renderer) image(n *Node, c *cursor, indent int) {
	label := "[img: " + n.Attrs.Value("src", "(no-src)") + "]"
	if alt, ok := n.Attr("alt"); ok && strings.TrimSpace(alt) != "" {
		label += " " + alt
	}
	r.endLine(c)
	r.flowText(c, indent, label, false, false, imageStyle)
	r.endLine(c)
}

func (r *renderer) details(n *Node, c *cursor, indent int) {
	var summary *Node
	for _, child := range n.Children {
		if child.Kind == KindSummary {
			summary = child
			break
		}
	}
	if summary == nil {
		r.block(n, c, indent)
		return
	}
	r.endLine(c)
	marker := "(>)"
	if n.Expanded {
		marker = "(v)"
	}
	if r.hotspots != nil {
		r.hotspots.MarkHotspot(c.row, n.ID)
	}
	r.flowText(c, indent, "> "+summary.TextContent()+" "+marker, false, false, boldStyle)
	r.endLine(c)
	if !n.Expanded {
		return
	}
	for _, child := range n.Children {
		if child != summary {
			r.render(child, c, indent+2)
		}
	}
	r.endLine(c)
}

func (r *renderer) anchor(n *Node, c *cursor, indent int) {
	text := n.TextContent()
	if text == "" {
		text = "[link]"
	}
	href, _ := n.Attr("href")
	before, after := edgeSpaces(n)
	r.flowText(c, indent, text, before, after, Style{Attrs: AttrUnderline, Pair: PairLinks, Link: href})
}

// edgeSpaces reports the trimmed whitespace around the first and last text
// runs below n.
func edgeSpaces(n *Node) (before, after bool) {
	first := true
	n.eachText(func(t *Node) {
		if first {
			before = t.SpaceBefore
			first = false
		}
		after = t.SpaceAfter
	})
	return before, after
}

// codeBox draws text verbatim inside a bordered box at indent.
func (r *renderer) codeBox(c *cursor, indent int, text string) {
	r.endLine(c)
	// the narrowest box is five columns; give up indent before that
	x := min(r.clampIndent(indent), max(0, r.width-5))
	boxw := max(1, r.width-x-4)
	text = expandTabs(strings.ReplaceAll(text, "\r", ""), 4)
	text = strings.TrimPrefix(text, "\n")
	text = strings.TrimSuffix(text, "\n")
	border := "+" + strings.Repeat("-", boxw+2) + "+"
	r.canvas.PlaceText(c.row, x, border, dimStyle)
	c.row++
	for _, line := range strings.Split(text, "\n") {
		if c.row >= r.limit {
			return
		}
		r.canvas.PlaceText(c.row, x, "| ", dimStyle)
		r.canvas.PlaceText(c.row, x+2, fitCell(line, boxw), plainStyle)
		r.canvas.PlaceText(c.row, x+2+boxw, " |", dimStyle)
		c.row++
	}
	r.canvas.PlaceText(c.row, x, border, dimStyle)
	c.row++
}

func (r *renderer) input(n *Node, c *cursor, indent int) {
	typ := strings.ToLower(n.Attrs.Value("type", "text"))
	name := n.Attrs.Value("name", "field")
	switch typ {
	case "hidden":
		return
	case "submit", "button", "reset":
		r.field(c, indent, "[ "+n.Attrs.Value("value", typ)+" ]")
		return
	case "checkbox", "radio":
		box := "[ ] "
		if n.Attrs.Has("checked") {
			box = "[x] "
		}
		r.field(c, indent, box+name)
		return
	}
	text := name + ": __________"
	if ph, ok := n.Attr("placeholder"); ok && strings.TrimSpace(ph) != "" {
		text += " (" + ph + ")"
	}
	r.field(c, indent, text)
}

func (r *renderer) textarea(n *Node, c *cursor, indent int) {
	r.field(c, indent, n.Attrs.Value("name", "textarea")+":")
	x := r.clampIndent(indent)
	bar := "[" + strings.Repeat("_", max(1, r.width-x-4)) + "]"
	r.canvas.PlaceText(c.row, x, bar, plainStyle)
	c.row++
}

func (r *renderer) selectField(n *Node, c *cursor, indent int) {
	choice := ""
	for _, child := range n.Children {
		if child.Kind == KindUnknown && child.Tag == "option" {
			choice = child.TextContent()
			break
		}
	}
	r.field(c, indent, n.Attrs.Value("name", "select")+": [ "+choice+" v ]")
}
