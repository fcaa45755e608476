package tbrowse

import (
	"errors"
	"fmt"
	"html"
	"strings"
)

// ErrStructuralOverflow reports markup that exceeds the builder's depth or
// node limits. The parse is abandoned.
var ErrStructuralOverflow = errors.New("structural overflow")

const (
	// DefaultMaxDepth bounds the stack of open containers, root included.
	DefaultMaxDepth = 4096
	// DefaultMaxNodes bounds the total number of nodes in one document.
	DefaultMaxNodes = 1 << 20
)

// BuildOption configures BuildTree.
type BuildOption func(*buildConfig)

type buildConfig struct {
	maxDepth  int
	maxNodes  int
	expandAll bool
}

// WithMaxDepth overrides the open-container stack bound.
func WithMaxDepth(depth int) BuildOption {
	return func(cfg *buildConfig) {
		if depth > 0 {
			cfg.maxDepth = depth
		}
	}
}

// WithMaxNodes overrides the node count bound.
func WithMaxNodes(nodes int) BuildOption {
	return func(cfg *buildConfig) {
		if nodes > 0 {
			cfg.maxNodes = nodes
		}
	}
}

// WithExpandedDetails builds every details node expanded.
func WithExpandedDetails(expanded bool) BuildOption {
	return func(cfg *buildConfig) {
		cfg.expandAll = expanded
	}
}

// BuildTree scans markup left to right and assembles a Document. Unknown
// tags, unmatched closing tags and malformed attributes never fail the
// build; only exceeding the structural limits does.
func BuildTree(markup string, opts ...BuildOption) (*Document, error) {
	cfg := buildConfig{maxDepth: DefaultMaxDepth, maxNodes: DefaultMaxNodes}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	b := builder{
		doc:   newDocument(),
		cfg:   cfg,
		stack: make([]NodeID, 1, 64),
	}
	if err := b.scan(markup); err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	return b.doc, nil
}

type builder struct {
	doc   *Document
	cfg   buildConfig
	stack []NodeID
	// gap is set when whitespace or a block boundary separates the next
	// text run from the previous one.
	gap bool
}

func (b *builder) top() *Node {
	return b.doc.Node(b.stack[len(b.stack)-1])
}

func (b *builder) scan(src string) error {
	n := len(src)
	textStart := 0
	i := 0
	for i < n {
		if src[i] != '<' || i+1 >= n {
			i++
			continue
		}
		c := src[i+1]
		if !isASCIILetter(c) && c != '/' && c != '!' && c != '?' {
			i++
			continue
		}
		if err := b.text(src[textStart:i]); err != nil {
			return err
		}
		var (
			next int
			err  error
		)
		switch {
		case strings.HasPrefix(src[i:], "<!--"):
			end := strings.Index(src[i+4:], "-->")
			if end < 0 {
				return nil
			}
			next = i + 4 + end + 3
		case c == '!' || c == '?':
			end := strings.IndexByte(src[i:], '>')
			if end < 0 {
				return nil
			}
			next = i + end + 1
		case c == '/':
			inner, after := tagBody(src, i+2)
			name, _ := readTagName(inner)
			b.closeTag(name)
			next = after
		default:
			inner, after := tagBody(src, i+1)
			name, used := readTagName(inner)
			err = b.openTag(name, inner[used:])
			next = after
		}
		if err != nil {
			return err
		}
		i = next
		textStart = i
	}
	return b.text(src[textStart:])
}

// tagBody returns the text between start and the next '>' and the index just
// past it. An unterminated tag runs to the end of src.
func tagBody(src string, start int) (string, int) {
	end := strings.IndexByte(src[start:], '>')
	if end < 0 {
		return src[start:], len(src)
	}
	return src[start : start+end], start + end + 1
}

func (b *builder) openTag(name, rawAttrs string) error {
	kind, level := classifyTag(name, false)
	if !kind.flowsInline() {
		b.gap = true
	}
	rawAttrs = strings.TrimSuffix(rawAttrs, "/")
	node := &Node{
		Kind:  kind,
		Tag:   name,
		Level: level,
		Attrs: ParseAttributes(rawAttrs),
	}
	if kind == KindDetails {
		node.Expanded = b.cfg.expandAll || node.Attrs.Has("open")
	}
	if err := b.appendNode(node); err != nil {
		return err
	}
	if kind.IsVoid() {
		return nil
	}
	if len(b.stack) >= b.cfg.maxDepth {
		return fmt.Errorf("open <%s> at depth %d: %w", name, len(b.stack), ErrStructuralOverflow)
	}
	b.stack = append(b.stack, node.ID)
	return nil
}

// closeTag pops the stack down to the nearest open node the tag closes.
// Without a match the stack is left unchanged.
func (b *builder) closeTag(name string) {
	kind, _ := classifyTag(name, true)
	if !kind.flowsInline() {
		b.gap = true
	}
	for i := len(b.stack) - 1; i > 0; i-- {
		if closes(b.doc.Node(b.stack[i]), name, kind) {
			b.stack = b.stack[:i]
			return
		}
	}
}

func (b *builder) text(run string) error {
	if run == "" {
		return nil
	}
	parent := b.top()
	if verbatim(parent) {
		b.gap = false
		return b.appendNode(&Node{Kind: KindText, Text: decodeEntities(run)})
	}
	text, lead, trail := collapseWhitespace(run)
	if text == "" {
		b.gap = true
		return nil
	}
	node := &Node{
		Kind:        KindText,
		Text:        strings.ReplaceAll(decodeEntities(text), "\u00a0", " "),
		SpaceBefore: lead || b.gap,
		SpaceAfter:  trail,
	}
	b.gap = false
	return b.appendNode(node)
}

func (b *builder) appendNode(n *Node) error {
	if b.doc.Len() >= b.cfg.maxNodes {
		return fmt.Errorf("node limit %d reached: %w", b.cfg.maxNodes, ErrStructuralOverflow)
	}
	b.doc.appendChild(b.top(), n)
	return nil
}

// collapseWhitespace drops '\r', maps '\n' and '\t' to spaces, folds space
// runs to one and trims both ends. lead and trail report trimmed whitespace.
func collapseWhitespace(run string) (text string, lead, trail bool) {
	var sb strings.Builder
	sb.Grow(len(run))
	pending := false
	for i := 0; i < len(run); i++ {
		c := run[i]
		switch c {
		case '\r':
			continue
		case ' ', '\n', '\t', '\f':
			if sb.Len() == 0 {
				lead = true
			} else {
				pending = true
			}
			continue
		}
		if pending {
			sb.WriteByte(' ')
			pending = false
		}
		sb.WriteByte(c)
	}
	return sb.String(), lead, pending
}

func decodeEntities(s string) string {
	if strings.IndexByte(s, '&') < 0 {
		return s
	}
	return html.UnescapeString(s)
}
