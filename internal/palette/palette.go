// Package palette holds the color palettes behind the built-in themes and
// turns color specs into ANSI SGR sequences.
package palette

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	Reset     = "\x1b[0m"
	Bold      = "\x1b[1m"
	Dim       = "\x1b[2m"
	Italic    = "\x1b[3m"
	Underline = "\x1b[4m"
	Reverse   = "\x1b[7m"
	Strike    = "\x1b[9m"
)

// Palette assigns a color spec to each semantic slot. A spec is one of the
// sixteen ANSI color names or a #rrggbb hex value; empty means the
// terminal default.
type Palette struct {
	Text        string
	Headers     string
	Links       string
	Bullets     string
	HighlightFG string
	HighlightBG string
	Images      string
}

var (
	PaletteDefault = Palette{
		Headers:     "white",
		Links:       "blue",
		Bullets:     "red",
		HighlightFG: "black",
		HighlightBG: "yellow",
		Images:      "magenta",
	}
	PaletteDracula = Palette{
		Text:        "#f8f8f2",
		Headers:     "#bd93f9",
		Links:       "#8be9fd",
		Bullets:     "#ff79c6",
		HighlightFG: "#282a36",
		HighlightBG: "#f1fa8c",
		Images:      "#50fa7b",
	}
	PaletteGruvbox = Palette{
		Text:        "#ebdbb2",
		Headers:     "#fabd2f",
		Links:       "#83a598",
		Bullets:     "#fb4934",
		HighlightFG: "#282828",
		HighlightBG: "#d79921",
		Images:      "#d3869b",
	}
	PaletteNord = Palette{
		Text:        "#d8dee9",
		Headers:     "#88c0d0",
		Links:       "#81a1c1",
		Bullets:     "#bf616a",
		HighlightFG: "#2e3440",
		HighlightBG: "#ebcb8b",
		Images:      "#b48ead",
	}
	PaletteSolarizedDark = Palette{
		Text:        "#839496",
		Headers:     "#b58900",
		Links:       "#268bd2",
		Bullets:     "#dc322f",
		HighlightFG: "#002b36",
		HighlightBG: "#b58900",
		Images:      "#d33682",
	}
	PaletteSolarizedLight = Palette{
		Text:        "#657b83",
		Headers:     "#cb4b16",
		Links:       "#268bd2",
		Bullets:     "#dc322f",
		HighlightFG: "#fdf6e3",
		HighlightBG: "#b58900",
		Images:      "#6c71c4",
	}
	PaletteTokyoNight = Palette{
		Text:        "#c0caf5",
		Headers:     "#7aa2f7",
		Links:       "#7dcfff",
		Bullets:     "#f7768e",
		HighlightFG: "#1a1b26",
		HighlightBG: "#e0af68",
		Images:      "#bb9af7",
	}
	PaletteGithubLight = Palette{
		Text:        "#24292f",
		Headers:     "#0550ae",
		Links:       "#0969da",
		Bullets:     "#cf222e",
		HighlightFG: "#24292f",
		HighlightBG: "#fff8c5",
		Images:      "#8250df",
	}
)

var ansiNames = map[string]int{
	"black":          0,
	"red":            1,
	"green":          2,
	"yellow":         3,
	"blue":           4,
	"magenta":        5,
	"cyan":           6,
	"white":          7,
	"bright-black":   8,
	"gray":           8,
	"grey":           8,
	"bright-red":     9,
	"bright-green":   10,
	"bright-yellow":  11,
	"bright-blue":    12,
	"bright-magenta": 13,
	"bright-cyan":    14,
	"bright-white":   15,
}

// Validate reports whether spec is empty, a known color name or a hex color.
func Validate(spec string) error {
	spec = normalize(spec)
	if spec == "" || spec == "default" {
		return nil
	}
	if _, ok := ansiNames[spec]; ok {
		return nil
	}
	if _, err := colorful.Hex(spec); err != nil {
		return fmt.Errorf("palette: invalid color %q", spec)
	}
	return nil
}

// Foreground returns the SGR sequence selecting spec as the text color.
func Foreground(spec string) string {
	return sgr(spec, 30, 90, 38)
}

// Background returns the SGR sequence selecting spec as the background.
func Background(spec string) string {
	return sgr(spec, 40, 100, 48)
}

func sgr(spec string, base, bright, extended int) string {
	spec = normalize(spec)
	if spec == "" || spec == "default" {
		return ""
	}
	if idx, ok := ansiNames[spec]; ok {
		if idx < 8 {
			return fmt.Sprintf("\x1b[%dm", base+idx)
		}
		return fmt.Sprintf("\x1b[%dm", bright+idx-8)
	}
	c, err := colorful.Hex(spec)
	if err != nil {
		return ""
	}
	r, g, b := c.RGB255()
	return fmt.Sprintf("\x1b[%d;2;%d;%d;%dm", extended, r, g, b)
}

func normalize(spec string) string {
	spec = strings.ToLower(strings.TrimSpace(spec))
	return strings.ReplaceAll(spec, "_", "-")
}

// Index returns the ANSI palette index of a named color spec.
func Index(spec string) (int, bool) {
	idx, ok := ansiNames[normalize(spec)]
	return idx, ok
}

// RGB returns the components of a hex color spec.
func RGB(spec string) (r, g, b uint8, ok bool) {
	spec = normalize(spec)
	if !strings.HasPrefix(spec, "#") {
		return 0, 0, 0, false
	}
	c, err := colorful.Hex(spec)
	if err != nil {
		return 0, 0, 0, false
	}
	r, g, b = c.RGB255()
	return r, g, b, true
}
