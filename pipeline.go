package tbrowse

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// ParseRequest configures Parse.
type ParseRequest struct {
	Source []byte
	// ASCIIOnly replaces every non-ASCII rune with '?'.
	ASCIIOnly bool
	// KeepScripts skips removal of script, style, meta and link markup.
	KeepScripts bool
	Options     []BuildOption
}

// Parse sanitizes raw markup and builds its document tree.
func Parse(req ParseRequest) (*Document, error) {
	if err := ValidateInput(req.Source); errors.Is(err, ErrBinaryInput) {
		return nil, fmt.Errorf("parse: %w", err)
	}
	markup := Sanitize(req.Source, req.ASCIIOnly)
	if !req.KeepScripts {
		markup = StripNonContent(markup)
	}
	doc, err := BuildTree(markup, req.Options...)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	return doc, nil
}

// LoadRequest configures Load.
type LoadRequest struct {
	Fetch       FetchRequest
	ASCIIOnly   bool
	KeepScripts bool
	Options     []BuildOption
}

// Load fetches a source and parses it into a document.
func Load(ctx context.Context, req LoadRequest) (*Document, error) {
	raw, err := Fetch(ctx, req.Fetch)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	doc, err := Parse(ParseRequest{
		Source:      raw,
		ASCIIOnly:   req.ASCIIOnly,
		KeepScripts: req.KeepScripts,
		Options:     req.Options,
	})
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	return doc, nil
}

// RenderRequest configures Render.
type RenderRequest struct {
	Reader       io.Reader
	Writer       io.Writer
	Width        int
	Theme        Theme
	Options      []RenderOption
	BuildOptions []BuildOption
	ASCIIOnly    bool
	KeepScripts  bool
}

// Render reads markup from a stream and writes it as ANSI text.
func Render(req RenderRequest) error {
	if req.Reader == nil {
		return fmt.Errorf("render: reader is nil")
	}
	if req.Writer == nil {
		return fmt.Errorf("render: writer is nil")
	}
	src, err := io.ReadAll(req.Reader)
	if err != nil {
		return fmt.Errorf("render: read: %w", err)
	}
	doc, err := Parse(ParseRequest{
		Source:      src,
		ASCIIOnly:   req.ASCIIOnly,
		KeepScripts: req.KeepScripts,
		Options:     req.BuildOptions,
	})
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return RenderDocument(req.Writer, doc, req.Width, req.Theme, req.Options...)
}

// RenderDocument lays out doc and writes it as ANSI text.
func RenderDocument(w io.Writer, doc *Document, width int, th Theme, opts ...RenderOption) error {
	grid, height := RenderTree(doc, width, opts...)
	if err := WriteANSI(w, grid, height, th, opts...); err != nil {
		return fmt.Errorf("render: write: %w", err)
	}
	return nil
}
