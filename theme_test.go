package tbrowse

import (
	"strings"
	"testing"

	"pkt.systems/tbrowse/internal/palette"
)

func TestThemeByNameBuiltins(t *testing.T) {
	expected := []string{
		"default",
		"dracula",
		"gruvbox",
		"nord",
		"solarized-dark",
		"solarized-light",
		"tokyo-night",
		"github-light",
	}
	for _, name := range expected {
		if _, ok := ThemeByName(name); !ok {
			t.Fatalf("expected theme %q to be available", name)
		}
	}

	available := AvailableThemes()
	if len(available) != len(expected) {
		t.Fatalf("available = %v", available)
	}
	for i := 1; i < len(available); i++ {
		if available[i-1] > available[i] {
			t.Fatalf("available themes not sorted: %v", available)
		}
	}
	if th, ok := ThemeByName("  Nord "); !ok || th.Name() != "nord" {
		t.Fatalf("lookup should normalize names")
	}
	if th, ok := ThemeByName(""); !ok || th.Name() != "default" {
		t.Fatalf("empty name should give the default theme")
	}
	if _, ok := ThemeByName("nope"); ok {
		t.Fatalf("unknown theme should not resolve")
	}
}

func TestStylesPrefix(t *testing.T) {
	styles := DefaultTheme().Styles()
	got := styles.Prefix(Style{Attrs: AttrBold | AttrUnderline, Pair: PairLinks})
	want := palette.Bold + palette.Underline + palette.Foreground("blue")
	if got != want {
		t.Fatalf("prefix = %q, want %q", got, want)
	}
	got = styles.Prefix(Style{Pair: PairHighlight})
	want = palette.Foreground("black") + palette.Background("yellow")
	if got != want {
		t.Fatalf("highlight prefix = %q, want %q", got, want)
	}
	if got := PlainTheme().Styles().Prefix(headerStyle); got != "" {
		t.Fatalf("plain prefix = %q", got)
	}
}

func TestHexThemesUseTrueColor(t *testing.T) {
	th, _ := ThemeByName("dracula")
	prefix := th.Styles().Prefix(Style{Pair: PairHeaders})
	if !strings.Contains(prefix, "38;2;189;147;249") {
		t.Fatalf("dracula headers prefix = %q", prefix)
	}
}

func TestOverrideColors(t *testing.T) {
	th, err := OverrideColors(DefaultTheme(), map[string]Colors{
		"links": {FG: "#ff0000"},
		"Text":  {FG: "green"},
	})
	if err != nil {
		t.Fatalf("override: %v", err)
	}
	styles := th.Styles()
	if styles.Pair(PairLinks).FG != "#ff0000" || styles.Text.FG != "green" {
		t.Fatalf("overrides not applied: %+v", styles)
	}
	if DefaultTheme().Styles().Pair(PairLinks).FG != "blue" {
		t.Fatalf("override mutated the base theme")
	}
	if _, err := OverrideColors(nil, map[string]Colors{"sidebar": {FG: "red"}}); err == nil {
		t.Fatalf("expected unknown slot error")
	}
	if _, err := OverrideColors(nil, map[string]Colors{"links": {FG: "#zzz"}}); err == nil {
		t.Fatalf("expected invalid color error")
	}
}

func TestNewTheme(t *testing.T) {
	var styles Styles
	styles.Pairs[PairBullets] = Colors{FG: "cyan"}
	th := NewTheme("custom", styles)
	if th.Name() != "custom" || th.Styles().Pair(PairBullets).FG != "cyan" {
		t.Fatalf("unexpected theme %+v", th.Styles())
	}
	if th.Styles().Pair(ColorPair(99)) != (Colors{}) {
		t.Fatalf("out of range pair should be empty")
	}
}
