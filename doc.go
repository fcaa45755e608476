// Package tbrowse turns HTML-like markup into styled text for a terminal.
//
// Markup is read in one pass into a Document, an arena of Nodes addressed by
// NodeID. The parser is forgiving: unmatched closing tags are ignored, open
// elements close at end of input and unknown elements pass their children
// through. A Document is laid out onto a Canvas at a fixed width; the default
// Canvas is a Grid of styled cells that WriteANSI turns into escape sequences.
//
// Core properties:
//   - Single pass tree building with bounded depth and node count
//   - Width-dependent layout onto an abstract Canvas
//   - Collapsible details sections toggled through hotspots
//   - Theme-driven styling via ANSI prefixes
//
// Example:
//
//	reader := strings.NewReader("<p>This is <b>bold</b> text.</p>")
//	err := tbrowse.Render(tbrowse.RenderRequest{
//		Reader: reader,
//		Writer: os.Stdout,
//		Width:  80,
//		Theme:  tbrowse.DefaultTheme(),
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Interactive viewing lives in internal/pager; sources are read with Fetch or
// Load.
package tbrowse
