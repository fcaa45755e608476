package tbrowse

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestLoadTestPage(t *testing.T) {
	doc, err := Load(context.Background(), LoadRequest{
		Fetch:   FetchRequest{Source: TestPageSource},
		Options: []BuildOption{WithExpandedDetails(true)},
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := doc.Title(); got != "tbrowse test page" {
		t.Fatalf("title = %q", got)
	}
	if len(doc.Details()) != 1 || !doc.Node(doc.Details()[0]).Expanded {
		t.Fatalf("details should be expanded")
	}
	text := doc.Root().TextContent()
	if strings.Contains(text, "never shown") || strings.Contains(text, "color: red") {
		t.Fatalf("script or style survived loading")
	}
}

func TestRenderTestPage(t *testing.T) {
	out := stripANSI(renderANSI(t, []byte(TestPage), 60, DefaultTheme()))
	for _, want := range []string{
		"Terminal browser test page",
		"* First",
		"  * Nested",
		"3. Three",
		"| 1 | Aleks | 25  |",
		"| 2 | Bob   | 31  |",
		"[img: diagram.png] A diagram",
		"> More details (>)",
		"email: __________ (you@example.com)",
		"[ Send ]",
		"Link: Example",
		"Footer text",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("rendered test page missing %q\n%s", want, out)
		}
	}
	for _, absent := range []string{"tbrowse test page", "Hidden until expanded", "never shown"} {
		if strings.Contains(out, absent) {
			t.Fatalf("rendered test page should not contain %q", absent)
		}
	}
}

func TestRenderRequestValidation(t *testing.T) {
	if err := Render(RenderRequest{Writer: &bytes.Buffer{}}); err == nil {
		t.Fatalf("expected error for nil reader")
	}
	if err := Render(RenderRequest{Reader: strings.NewReader("x")}); err == nil {
		t.Fatalf("expected error for nil writer")
	}
	err := Render(RenderRequest{
		Reader:       strings.NewReader(strings.Repeat("<div>", 20)),
		Writer:       &bytes.Buffer{},
		Width:        10,
		BuildOptions: []BuildOption{WithMaxDepth(5)},
	})
	if !errors.Is(err, ErrStructuralOverflow) {
		t.Fatalf("expected structural overflow, got %v", err)
	}
}

func TestRenderASCIIOnly(t *testing.T) {
	var out bytes.Buffer
	err := Render(RenderRequest{
		Reader:    strings.NewReader("<p>naïve</p>"),
		Writer:    &out,
		Width:     20,
		Theme:     PlainTheme(),
		ASCIIOnly: true,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out.String() != "na?ve\n\n" {
		t.Fatalf("output = %q", out.String())
	}
}
