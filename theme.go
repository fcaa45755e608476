package tbrowse

import (
	"fmt"
	"sort"
	"strings"

	"pkt.systems/tbrowse/internal/palette"
)

// Colors is the foreground and background of one color pair. Values are
// ANSI color names or #rrggbb; empty means the terminal default.
type Colors struct {
	FG string
	BG string
}

// Styles is what a theme assigns to plain text and to each color pair.
// Plain disables every attribute and color.
type Styles struct {
	Text  Colors
	Pairs [numPairs]Colors
	Plain bool
}

// Pair returns the colors of p.
func (s Styles) Pair(p ColorPair) Colors {
	if p >= numPairs {
		return Colors{}
	}
	return s.Pairs[p]
}

// Prefix returns the ANSI sequence that selects st.
func (s Styles) Prefix(st Style) string {
	if s.Plain {
		return ""
	}
	var b strings.Builder
	attrs := []struct {
		flag Attr
		seq  string
	}{
		{AttrBold, palette.Bold},
		{AttrDim, palette.Dim},
		{AttrItalic, palette.Italic},
		{AttrUnderline, palette.Underline},
		{AttrReverse, palette.Reverse},
		{AttrStrike, palette.Strike},
	}
	for _, a := range attrs {
		if st.Attrs.Has(a.flag) {
			b.WriteString(a.seq)
		}
	}
	colors := s.Text
	if st.Pair != PairNone {
		colors = s.Pair(st.Pair)
	}
	b.WriteString(palette.Foreground(colors.FG))
	b.WriteString(palette.Background(colors.BG))
	return b.String()
}

// Theme provides named styles for terminal rendering.
type Theme interface {
	Name() string
	Styles() Styles
}

type theme struct {
	name   string
	styles Styles
}

func (t theme) Name() string   { return t.name }
func (t theme) Styles() Styles { return t.styles }

// NewTheme returns a Theme from a Styles definition.
func NewTheme(name string, styles Styles) Theme {
	return theme{name: name, styles: styles}
}

// PlainTheme returns a theme that emits no escape sequences.
func PlainTheme() Theme {
	return theme{name: "boring", styles: Styles{Plain: true}}
}

func stylesFromPalette(p palette.Palette) Styles {
	var s Styles
	s.Text = Colors{FG: p.Text}
	s.Pairs[PairHeaders] = Colors{FG: p.Headers}
	s.Pairs[PairLinks] = Colors{FG: p.Links}
	s.Pairs[PairBullets] = Colors{FG: p.Bullets}
	s.Pairs[PairHighlight] = Colors{FG: p.HighlightFG, BG: p.HighlightBG}
	s.Pairs[PairImages] = Colors{FG: p.Images}
	return s
}

var builtinThemes = map[string]Theme{
	"default":         theme{name: "default", styles: stylesFromPalette(palette.PaletteDefault)},
	"dracula":         theme{name: "dracula", styles: stylesFromPalette(palette.PaletteDracula)},
	"gruvbox":         theme{name: "gruvbox", styles: stylesFromPalette(palette.PaletteGruvbox)},
	"nord":            theme{name: "nord", styles: stylesFromPalette(palette.PaletteNord)},
	"solarized-dark":  theme{name: "solarized-dark", styles: stylesFromPalette(palette.PaletteSolarizedDark)},
	"solarized-light": theme{name: "solarized-light", styles: stylesFromPalette(palette.PaletteSolarizedLight)},
	"tokyo-night":     theme{name: "tokyo-night", styles: stylesFromPalette(palette.PaletteTokyoNight)},
	"github-light":    theme{name: "github-light", styles: stylesFromPalette(palette.PaletteGithubLight)},
}

// AvailableThemes returns the names of built-in themes.
func AvailableThemes() []string {
	names := make([]string, 0, len(builtinThemes))
	for name := range builtinThemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ThemeByName returns a built-in theme by name.
func ThemeByName(name string) (Theme, bool) {
	if name == "" {
		return builtinThemes["default"], true
	}
	normalized := strings.ToLower(strings.TrimSpace(name))
	theme, ok := builtinThemes[normalized]
	return theme, ok
}

// DefaultTheme returns the default built-in theme.
func DefaultTheme() Theme {
	return builtinThemes["default"]
}

// OverrideColors returns a copy of base with the named slots replaced.
// Keys are color pair names or "text".
func OverrideColors(base Theme, overrides map[string]Colors) (Theme, error) {
	if base == nil {
		base = DefaultTheme()
	}
	styles := base.Styles()
	for key, colors := range overrides {
		for _, spec := range []string{colors.FG, colors.BG} {
			if err := palette.Validate(spec); err != nil {
				return nil, fmt.Errorf("theme: %s: %w", key, err)
			}
		}
		name := strings.ToLower(strings.TrimSpace(key))
		if name == "text" {
			styles.Text = colors
			continue
		}
		pair, ok := PairByName(name)
		if !ok {
			return nil, fmt.Errorf("theme: unknown color slot %q", key)
		}
		styles.Pairs[pair] = colors
	}
	return theme{name: base.Name(), styles: styles}, nil
}
