package tbrowse

import (
	"bytes"
	"os"
	"regexp"
	"testing"
)

var ansiRegexp = regexp.MustCompile("\x1b\\[[0-9;]*[A-Za-z]")
var osc8Regexp = regexp.MustCompile("\x1b\\]8;;.*?\x1b\\\\")

func stripANSI(s string) string {
	s = ansiRegexp.ReplaceAllString(s, "")
	s = osc8Regexp.ReplaceAllString(s, "")
	return s
}

func mustBuild(t *testing.T, markup string, opts ...BuildOption) *Document {
	t.Helper()
	doc, err := BuildTree(markup, opts...)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return doc
}

// renderLines builds markup and returns the plain text of every row up to
// the content height.
func renderLines(t *testing.T, markup string, width int, opts ...RenderOption) []string {
	t.Helper()
	grid, height := RenderTree(mustBuild(t, markup), width, opts...)
	lines := make([]string, height)
	for i := range lines {
		lines[i] = grid.Line(i)
	}
	return lines
}

func renderANSI(t *testing.T, src []byte, width int, th Theme, opts ...RenderOption) string {
	t.Helper()
	var out bytes.Buffer
	err := Render(RenderRequest{
		Reader:  bytes.NewReader(src),
		Writer:  &out,
		Width:   width,
		Theme:   th,
		Options: opts,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return out.String()
}

func readFixture(t testing.TB, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return data
}

// kindsOf lists the kinds of every node below the root in document order.
func kindsOf(doc *Document) []Kind {
	var kinds []Kind
	doc.Walk(func(n *Node, depth int) bool {
		if depth > 0 {
			kinds = append(kinds, n.Kind)
		}
		return true
	})
	return kinds
}
