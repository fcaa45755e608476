package tbrowse

const maxTagNameBytes = 63

var tagKinds = map[string]Kind{
	"br":     KindLineBreak,
	"hr":     KindRule,
	"img":    KindImage,
	"input":  KindInput,
	"button": KindButton,

	// Void elements with no output of their own.
	"wbr":    KindVoid,
	"meta":   KindVoid,
	"link":   KindVoid,
	"base":   KindVoid,
	"col":    KindVoid,
	"area":   KindVoid,
	"embed":  KindVoid,
	"param":  KindVoid,
	"source": KindVoid,
	"track":  KindVoid,

	"div":     KindDiv,
	"main":    KindDiv,
	"header":  KindDiv,
	"footer":  KindDiv,
	"body":    KindDiv,
	"html":    KindDiv,
	"section": KindDiv,
	"article": KindDiv,
	"nav":     KindDiv,
	"aside":   KindDiv,

	"p":          KindParagraph,
	"pre":        KindPre,
	"blockquote": KindBlockquote,
	"q":          KindBlockquote,
	"ul":         KindUnorderedList,
	"ol":         KindOrderedList,
	"li":         KindListItem,
	"dl":         KindDefinitionList,
	"dt":         KindTerm,
	"dd":         KindDefinition,
	"figure":     KindFigure,
	"figcaption": KindCaption,
	"details":    KindDetails,
	"summary":    KindSummary,
	"table":      KindTable,
	"tr":         KindRow,
	"td":         KindCell,
	"th":         KindCell,
	"a":          KindAnchor,
	"form":       KindForm,
	"textarea":   KindTextarea,
	"select":     KindSelect,

	"strong":  KindBold,
	"b":       KindBold,
	"em":      KindItalic,
	"i":       KindItalic,
	"cite":    KindItalic,
	"dfn":     KindItalic,
	"address": KindItalic,
	"mark":    KindHighlight,
	"u":       KindUnderline,
	"ins":     KindUnderline,
	"abbr":    KindUnderline,
	"del":     KindStrike,
	"s":       KindStrike,
	"strike":  KindStrike,
	"code":    KindCode,
	"samp":    KindCode,
	"kbd":     KindCode,
	"tt":      KindCode,
}

// classifyTag maps a lowercase tag name to its node kind. Heading levels are
// returned for h1..h6; any other h<digits> name is a heading only when
// closing.
func classifyTag(name string, closing bool) (Kind, int) {
	if level, ok := headingLevel(name); ok {
		if closing || (level >= 1 && level <= 6) {
			return KindHeading, level
		}
	}
	if kind, ok := tagKinds[name]; ok {
		return kind, 0
	}
	return KindUnknown, 0
}

func headingLevel(name string) (int, bool) {
	if len(name) < 2 || name[0] != 'h' {
		return 0, false
	}
	level := 0
	for i := 1; i < len(name); i++ {
		c := name[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		if level < 100 {
			level = level*10 + int(c-'0')
		}
	}
	return level, true
}

// closes reports whether a closing tag called name ends the open node n.
// Headings close on any heading tag; transparent kinds also need the same
// tag name.
func closes(n *Node, name string, kind Kind) bool {
	if n.Kind != kind {
		return false
	}
	switch kind {
	case KindHeading:
		return true
	case KindDiv, KindUnknown:
		return n.Tag == name
	}
	return true
}

// verbatim reports whether text directly inside n keeps its whitespace.
func verbatim(n *Node) bool {
	return n.Kind == KindPre || n.Kind == KindCode || n.Kind == KindTextarea
}

// readTagName reads a tag name starting at s[0] and returns it lowercased
// and clipped, along with the number of bytes consumed.
func readTagName(s string) (string, int) {
	i := 0
	for i < len(s) && (isASCIIAlnum(s[i]) || s[i] == '-') {
		i++
	}
	name := make([]byte, 0, min(i, maxTagNameBytes))
	for j := 0; j < i && j < maxTagNameBytes; j++ {
		c := s[j]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		name = append(name, c)
	}
	return string(name), i
}
