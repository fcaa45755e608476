package tbrowse

import (
	"strconv"
	"strings"
)

// Kind is the category of a node.
type Kind uint8

const (
	KindRoot Kind = iota
	KindText

	// Void leaves.
	KindLineBreak
	KindRule
	KindImage
	KindInput
	KindButton
	KindVoid

	// Transparent containers.
	KindDiv
	KindUnknown

	// Block containers.
	KindParagraph
	KindHeading
	KindPre
	KindBlockquote
	KindUnorderedList
	KindOrderedList
	KindListItem
	KindDefinitionList
	KindTerm
	KindDefinition
	KindFigure
	KindCaption
	KindDetails
	KindSummary
	KindTable
	KindRow
	KindCell
	KindAnchor
	KindForm
	KindTextarea
	KindSelect

	// Inline style containers.
	KindBold
	KindItalic
	KindHighlight
	KindUnderline
	KindStrike
	KindCode
)

var kindNames = [...]string{
	KindRoot:           "root",
	KindText:           "text",
	KindLineBreak:      "line-break",
	KindRule:           "rule",
	KindImage:          "image",
	KindInput:          "input",
	KindButton:         "button",
	KindVoid:           "void",
	KindDiv:            "div",
	KindUnknown:        "unknown",
	KindParagraph:      "paragraph",
	KindHeading:        "heading",
	KindPre:            "pre",
	KindBlockquote:     "blockquote",
	KindUnorderedList:  "unordered-list",
	KindOrderedList:    "ordered-list",
	KindListItem:       "list-item",
	KindDefinitionList: "definition-list",
	KindTerm:           "term",
	KindDefinition:     "definition",
	KindFigure:         "figure",
	KindCaption:        "caption",
	KindDetails:        "details",
	KindSummary:        "summary",
	KindTable:          "table",
	KindRow:            "row",
	KindCell:           "cell",
	KindAnchor:         "anchor",
	KindForm:           "form",
	KindTextarea:       "textarea",
	KindSelect:         "select",
	KindBold:           "bold",
	KindItalic:         "italic",
	KindHighlight:      "highlight",
	KindUnderline:      "underline",
	KindStrike:         "strike",
	KindCode:           "code",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// IsVoid reports whether nodes of this kind never take children.
func (k Kind) IsVoid() bool {
	return k >= KindLineBreak && k <= KindVoid
}

// IsTransparent reports whether the kind renders only its children.
func (k Kind) IsTransparent() bool {
	return k == KindRoot || k == KindDiv || k == KindUnknown
}

// IsInlineStyle reports whether the kind styles its direct text runs.
func (k Kind) IsInlineStyle() bool {
	return k >= KindBold && k <= KindCode
}

// flowsInline reports whether content of this kind continues the current
// line instead of starting a block.
func (k Kind) flowsInline() bool {
	return k == KindText || k == KindVoid || k == KindUnknown || k == KindAnchor || k.IsInlineStyle()
}

// NodeID indexes a node inside its Document.
type NodeID int32

// NoNode is the parent of the root.
const NoNode NodeID = -1

// Node is one element or text run of a document.
type Node struct {
	ID    NodeID
	Kind  Kind
	Tag   string
	Level int
	Attrs Attributes

	// Text holds the content of KindText nodes. SpaceBefore and SpaceAfter
	// record whitespace trimmed from either end of a collapsed run.
	Text        string
	SpaceBefore bool
	SpaceAfter  bool

	Children []*Node

	// ListNumber is the 1-based position of an item inside an ordered list,
	// assigned while rendering. Zero means unnumbered.
	ListNumber int
	// Expanded is the disclosure state of a details node.
	Expanded bool

	parent NodeID
}

// Attr returns the first attribute called name.
func (n *Node) Attr(name string) (string, bool) {
	return n.Attrs.Get(name)
}

// TextContent flattens all descendant text runs, restoring a single space
// where the source had whitespace between runs.
func (n *Node) TextContent() string {
	var b strings.Builder
	prevSpace := false
	n.eachText(func(t *Node) {
		if b.Len() > 0 && (prevSpace || t.SpaceBefore) {
			b.WriteByte(' ')
		}
		b.WriteString(t.Text)
		prevSpace = t.SpaceAfter
	})
	return b.String()
}

// RawText concatenates all descendant text runs without separators.
func (n *Node) RawText() string {
	var b strings.Builder
	n.eachText(func(t *Node) {
		b.WriteString(t.Text)
	})
	return b.String()
}

func (n *Node) eachText(fn func(*Node)) {
	if n.Kind == KindText {
		fn(n)
		return
	}
	for _, child := range n.Children {
		child.eachText(fn)
	}
}

// Document owns every node built from one markup buffer. Nodes are addressed
// by NodeID; parent links are IDs and never used for ownership.
type Document struct {
	nodes []*Node
}

func newDocument() *Document {
	root := &Node{ID: 0, Kind: KindRoot, parent: NoNode}
	return &Document{nodes: []*Node{root}}
}

// Root returns the transparent root node.
func (d *Document) Root() *Node {
	return d.nodes[0]
}

// Len returns the number of nodes including the root.
func (d *Document) Len() int {
	return len(d.nodes)
}

// Node returns the node with the given id, or nil.
func (d *Document) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(d.nodes) {
		return nil
	}
	return d.nodes[id]
}

// Parent returns the parent of n, or nil for the root.
func (d *Document) Parent(n *Node) *Node {
	if n == nil {
		return nil
	}
	return d.Node(n.parent)
}

func (d *Document) appendChild(parent, child *Node) {
	child.ID = NodeID(len(d.nodes))
	child.parent = parent.ID
	d.nodes = append(d.nodes, child)
	parent.Children = append(parent.Children, child)
}

// Walk visits nodes depth-first in document order. Returning false from fn
// skips the children of that node.
func (d *Document) Walk(fn func(n *Node, depth int) bool) {
	var visit func(n *Node, depth int)
	visit = func(n *Node, depth int) {
		if !fn(n, depth) {
			return
		}
		for _, child := range n.Children {
			visit(child, depth+1)
		}
	}
	visit(d.Root(), 0)
}

// ToggleExpanded flips the disclosure state of a details node and returns the
// new state. Other nodes are left alone and report false.
func (d *Document) ToggleExpanded(id NodeID) bool {
	n := d.Node(id)
	if n == nil || n.Kind != KindDetails {
		return false
	}
	n.Expanded = !n.Expanded
	return n.Expanded
}

// SetAllExpanded sets the disclosure state of every details node.
func (d *Document) SetAllExpanded(expanded bool) {
	for _, n := range d.nodes {
		if n.Kind == KindDetails {
			n.Expanded = expanded
		}
	}
}

// Details returns the ids of all details nodes in document order.
func (d *Document) Details() []NodeID {
	var ids []NodeID
	for _, n := range d.nodes {
		if n.Kind == KindDetails {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

// Title returns the text of the first title element, if any.
func (d *Document) Title() string {
	for _, n := range d.nodes {
		if n.Kind == KindUnknown && n.Tag == "title" {
			return n.TextContent()
		}
	}
	return ""
}
