package tbrowse

// Attr is a set of text attributes.
type Attr uint8

const (
	AttrBold Attr = 1 << iota
	AttrDim
	AttrItalic
	AttrUnderline
	AttrReverse
	AttrStrike
)

// Has reports whether all attributes in f are set.
func (a Attr) Has(f Attr) bool { return a&f == f }

// With returns a with f added.
func (a Attr) With(f Attr) Attr { return a | f }

// Without returns a with f removed.
func (a Attr) Without(f Attr) Attr { return a &^ f }

// ColorPair names one of the semantic color slots a theme fills in.
type ColorPair uint8

const (
	PairNone ColorPair = iota
	PairHeaders
	PairLinks
	PairBullets
	PairHighlight
	PairImages

	numPairs
)

var pairNames = [numPairs]string{
	PairNone:      "none",
	PairHeaders:   "headers",
	PairLinks:     "links",
	PairBullets:   "bullets",
	PairHighlight: "highlight",
	PairImages:    "images",
}

func (p ColorPair) String() string {
	if p < numPairs {
		return pairNames[p]
	}
	return "none"
}

// PairByName returns the color pair called name.
func PairByName(name string) (ColorPair, bool) {
	for i, n := range pairNames {
		if n == name && ColorPair(i) != PairNone {
			return ColorPair(i), true
		}
	}
	return PairNone, false
}

// Style is the attribute set attached to every placed run of text. Link
// carries the target of an anchor.
type Style struct {
	Attrs Attr
	Pair  ColorPair
	Link  string
}

var (
	plainStyle    = Style{}
	dimStyle      = Style{Attrs: AttrDim}
	boldStyle     = Style{Attrs: AttrBold}
	headerStyle   = Style{Attrs: AttrBold, Pair: PairHeaders}
	bulletStyle   = Style{Pair: PairBullets}
	imageStyle    = Style{Pair: PairImages}
	captionStyle  = Style{Attrs: AttrReverse}
	codeSpanStyle = Style{Attrs: AttrReverse}
)

func inlineStyleFor(k Kind) Style {
	switch k {
	case KindBold:
		return headerStyle
	case KindItalic:
		return Style{Attrs: AttrItalic}
	case KindHighlight:
		return Style{Pair: PairHighlight}
	case KindUnderline:
		return Style{Attrs: AttrUnderline}
	case KindStrike:
		return Style{Attrs: AttrStrike}
	case KindCode:
		return codeSpanStyle
	}
	return plainStyle
}
