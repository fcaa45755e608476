// Package pager shows a rendered document on a tcell screen with scrolling,
// reload and details toggling.
package pager

import (
	"context"
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/rs/zerolog"

	"pkt.systems/tbrowse"
	"pkt.systems/tbrowse/internal/palette"
)

// HelpText is shown at the start of the status bar.
const HelpText = "q=quit  r=reload  arrows=scroll  PgUp/PgDn  x=details"

// LoadFunc produces a fresh document for a reload.
type LoadFunc func(ctx context.Context) (*tbrowse.Document, error)

// Options configures a Pager.
type Options struct {
	// Source names the document in the status bar when it has no title.
	Source        string
	Theme         tbrowse.Theme
	Load          LoadFunc
	RenderOptions []tbrowse.RenderOption
	Logger        zerolog.Logger
}

type reloadRequest struct{}

type quitRequest struct{}

// Pager owns the screen while Run is active.
type Pager struct {
	screen tcell.Screen
	opts   Options
	styles tbrowse.Styles
	log    zerolog.Logger

	mu      sync.Mutex
	doc     *tbrowse.Document
	grid    *tbrowse.Grid
	height  int
	top     int
	message string
	pressed bool
}

// New returns a pager showing doc on screen.
func New(screen tcell.Screen, doc *tbrowse.Document, opts Options) *Pager {
	th := opts.Theme
	if th == nil {
		th = tbrowse.DefaultTheme()
	}
	return &Pager{
		screen: screen,
		opts:   opts,
		styles: th.Styles(),
		log:    opts.Logger.With().Str("component", "pager").Logger(),
		doc:    doc,
	}
}

// Run initializes the screen and handles events until the user quits or
// ctx is done.
func (p *Pager) Run(ctx context.Context) error {
	if err := p.screen.Init(); err != nil {
		return fmt.Errorf("pager: %w", err)
	}
	defer p.screen.Fini()
	p.screen.EnableMouse()
	p.screen.HideCursor()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = p.screen.PostEvent(tcell.NewEventInterrupt(quitRequest{}))
		case <-done:
		}
	}()

	p.Layout()
	p.Draw()
	for {
		ev := p.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if p.HandleEvent(ctx, ev) {
			p.log.Debug().Msg("quit")
			return nil
		}
		p.Draw()
	}
}

// Reload asks a running pager to load the document again. It is safe to
// call from any goroutine.
func (p *Pager) Reload() {
	if err := p.screen.PostEvent(tcell.NewEventInterrupt(reloadRequest{})); err != nil {
		p.log.Warn().Err(err).Msg("reload request dropped")
	}
}

// Document returns the document currently shown.
func (p *Pager) Document() *tbrowse.Document {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.doc
}

// Top returns the first visible document row.
func (p *Pager) Top() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.top
}

// HandleEvent applies one screen event and reports whether the pager should
// quit.
func (p *Pager) HandleEvent(ctx context.Context, ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		w, h := ev.Size()
		p.log.Debug().Int("width", w).Int("height", h).Msg("resize")
		p.screen.Sync()
		p.Layout()
	case *tcell.EventKey:
		return p.handleKey(ctx, ev)
	case *tcell.EventMouse:
		p.handleMouse(ev)
	case *tcell.EventInterrupt:
		switch ev.Data().(type) {
		case reloadRequest:
			p.reload(ctx)
		case quitRequest:
			return true
		}
	}
	return false
}

func (p *Pager) handleKey(ctx context.Context, ev *tcell.EventKey) bool {
	view := p.viewRows()
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyUp:
		p.scroll(-1)
	case tcell.KeyDown:
		p.scroll(1)
	case tcell.KeyPgUp:
		p.scroll(-view)
	case tcell.KeyPgDn:
		p.scroll(view)
	case tcell.KeyHome:
		p.scrollTo(0)
	case tcell.KeyEnd:
		p.scrollTo(p.maxTop())
	case tcell.KeyEnter:
		p.toggleFirstVisible()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			return true
		case 'r', 'R':
			p.reload(ctx)
		case 'j':
			p.scroll(1)
		case 'k':
			p.scroll(-1)
		case ' ':
			p.scroll(view)
		case 'b':
			p.scroll(-view)
		case 'g':
			p.scrollTo(0)
		case 'G':
			p.scrollTo(p.maxTop())
		case 'x', 'X':
			p.toggleAll()
		}
	}
	return false
}

func (p *Pager) handleMouse(ev *tcell.EventMouse) {
	buttons := ev.Buttons()
	switch {
	case buttons&tcell.WheelUp != 0:
		p.scroll(-3)
	case buttons&tcell.WheelDown != 0:
		p.scroll(3)
	}
	down := buttons&tcell.Button1 != 0
	if down && !p.pressed {
		_, y := ev.Position()
		if y < p.viewRows() {
			p.toggleRow(p.Top() + y)
		}
	}
	p.pressed = down
}

// Layout renders the document at the current screen width and clamps the
// scroll position.
func (p *Pager) Layout() {
	w, _ := p.screen.Size()
	view := p.viewRows()
	p.mu.Lock()
	defer p.mu.Unlock()
	p.grid, p.height = tbrowse.RenderTree(p.doc, max(1, w), p.opts.RenderOptions...)
	p.top = clamp(p.top, 0, max(0, p.height-view))
}

// Draw paints the visible rows and the status bar.
func (p *Pager) Draw() {
	w, h := p.screen.Size()
	view := p.viewRows()
	p.mu.Lock()
	defer p.mu.Unlock()
	p.screen.Clear()
	if p.grid != nil {
		for y := 0; y < view && p.top+y < p.height; y++ {
			for x, cell := range p.grid.Row(p.top + y) {
				if cell.Width == 0 || x >= w {
					continue
				}
				p.screen.SetContent(x, y, cell.Rune, nil, p.cellStyle(cell.Style))
			}
		}
	}
	if h > 1 {
		p.drawStatus(w, h-1, view)
	}
	p.screen.Show()
}

func (p *Pager) drawStatus(w, y, view int) {
	label := p.message
	if label == "" && p.doc != nil {
		label = p.doc.Title()
	}
	if label == "" {
		label = p.opts.Source
	}
	pos := "0/0"
	if p.height > 0 {
		pos = fmt.Sprintf("%d-%d/%d", p.top+1, min(p.top+view, p.height), p.height)
	}
	text := tbrowse.TruncateWithEllipsis(HelpText+"  "+label+"  "+pos, w)
	st := tcell.StyleDefault.Reverse(true)
	for x := 0; x < w; x++ {
		p.screen.SetContent(x, y, ' ', nil, st)
	}
	x := 0
	for _, r := range text {
		p.screen.SetContent(x, y, r, nil, st)
		x += runewidth.RuneWidth(r)
	}
}

func (p *Pager) viewRows() int {
	_, h := p.screen.Size()
	return max(1, h-1)
}

func (p *Pager) maxTop() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return max(0, p.height-p.viewRowsLocked())
}

func (p *Pager) viewRowsLocked() int {
	_, h := p.screen.Size()
	return max(1, h-1)
}

func (p *Pager) scroll(delta int) {
	p.scrollTo(p.Top() + delta)
}

func (p *Pager) scrollTo(row int) {
	limit := p.maxTop()
	p.mu.Lock()
	p.top = clamp(row, 0, limit)
	p.mu.Unlock()
}

func (p *Pager) toggleRow(row int) {
	p.mu.Lock()
	if p.grid == nil {
		p.mu.Unlock()
		return
	}
	id, ok := p.grid.HotspotAt(row)
	if !ok {
		p.mu.Unlock()
		return
	}
	expanded := p.doc.ToggleExpanded(id)
	p.mu.Unlock()
	p.log.Debug().Int("node", int(id)).Bool("expanded", expanded).Msg("toggle details")
	p.Layout()
}

// toggleFirstVisible toggles the first summary row on screen.
func (p *Pager) toggleFirstVisible() {
	view := p.viewRows()
	p.mu.Lock()
	best := -1
	if p.grid != nil {
		for row := range p.grid.Hotspots() {
			if row >= p.top && row < p.top+view && (best < 0 || row < best) {
				best = row
			}
		}
	}
	p.mu.Unlock()
	if best >= 0 {
		p.toggleRow(best)
	}
}

// toggleAll expands every details node unless all are already expanded,
// in which case it collapses them.
func (p *Pager) toggleAll() {
	p.mu.Lock()
	expand := false
	for _, id := range p.doc.Details() {
		if !p.doc.Node(id).Expanded {
			expand = true
			break
		}
	}
	p.doc.SetAllExpanded(expand)
	p.mu.Unlock()
	p.log.Debug().Bool("expanded", expand).Msg("toggle all details")
	p.Layout()
}

// reload builds the replacement document before swapping it in. Details
// keep their state by position.
func (p *Pager) reload(ctx context.Context) {
	if p.opts.Load == nil {
		return
	}
	doc, err := p.opts.Load(ctx)
	if err != nil {
		p.log.Warn().Err(err).Str("source", p.opts.Source).Msg("reload failed")
		p.mu.Lock()
		p.message = "reload failed: " + err.Error()
		p.mu.Unlock()
		return
	}
	p.mu.Lock()
	carryExpanded(p.doc, doc)
	p.doc = doc
	p.message = ""
	p.mu.Unlock()
	p.log.Info().Str("source", p.opts.Source).Int("nodes", doc.Len()).Msg("reloaded")
	p.Layout()
}

func carryExpanded(from, to *tbrowse.Document) {
	if from == nil || to == nil {
		return
	}
	old := from.Details()
	for i, id := range to.Details() {
		if i >= len(old) {
			return
		}
		to.Node(id).Expanded = from.Node(old[i]).Expanded
	}
}

// cellStyle converts a render style to a tcell style under the theme.
func (p *Pager) cellStyle(st tbrowse.Style) tcell.Style {
	ts := tcell.StyleDefault
	if st.Link != "" {
		ts = ts.Url(st.Link)
	}
	if p.styles.Plain {
		return ts
	}
	if st.Attrs.Has(tbrowse.AttrBold) {
		ts = ts.Bold(true)
	}
	if st.Attrs.Has(tbrowse.AttrDim) {
		ts = ts.Dim(true)
	}
	if st.Attrs.Has(tbrowse.AttrItalic) {
		ts = ts.Italic(true)
	}
	if st.Attrs.Has(tbrowse.AttrUnderline) {
		ts = ts.Underline(true)
	}
	if st.Attrs.Has(tbrowse.AttrReverse) {
		ts = ts.Reverse(true)
	}
	if st.Attrs.Has(tbrowse.AttrStrike) {
		ts = ts.StrikeThrough(true)
	}
	colors := p.styles.Text
	if st.Pair != tbrowse.PairNone {
		colors = p.styles.Pair(st.Pair)
	}
	return ts.Foreground(color(colors.FG)).Background(color(colors.BG))
}

func color(spec string) tcell.Color {
	if idx, ok := palette.Index(spec); ok {
		return tcell.PaletteColor(idx)
	}
	if r, g, b, ok := palette.RGB(spec); ok {
		return tcell.NewRGBColor(int32(r), int32(g), int32(b))
	}
	return tcell.ColorDefault
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
