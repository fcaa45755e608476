package tbrowse

import (
	"html"
	"strings"
	"unicode/utf8"
)

const (
	maxAttrNameBytes  = 127
	maxAttrValueBytes = 511
)

// Attribute is one name/value pair read from a tag.
type Attribute struct {
	Name  string
	Value string
}

// Attributes is the ordered attribute list of a tag. Duplicate names are kept
// in source order.
type Attributes []Attribute

// Get returns the value of the first attribute called name.
func (a Attributes) Get(name string) (string, bool) {
	for _, attr := range a {
		if strings.EqualFold(attr.Name, name) {
			return attr.Value, true
		}
	}
	return "", false
}

// Has reports whether an attribute called name is present.
func (a Attributes) Has(name string) bool {
	_, ok := a.Get(name)
	return ok
}

// Value returns the first value for name, or fallback when the attribute is
// missing or blank.
func (a Attributes) Value(name, fallback string) string {
	v, ok := a.Get(name)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

// ParseAttributes reads the text between a tag name and its closing '>' into
// an ordered attribute list. It never fails: malformed input yields a partial
// or empty list.
func ParseAttributes(raw string) Attributes {
	var attrs Attributes
	n := len(raw)
	i := 0
	for {
		for i < n && isMarkupSpace(raw[i]) {
			i++
		}
		start := i
		for i < n && isAttrNameByte(raw[i]) {
			i++
		}
		if i == start {
			return attrs
		}
		name := strings.ToLower(clipBytes(raw[start:i], maxAttrNameBytes))
		j := i
		for j < n && isMarkupSpace(raw[j]) {
			j++
		}
		var value string
		if j < n && raw[j] == '=' {
			j++
			for j < n && isMarkupSpace(raw[j]) {
				j++
			}
			if j < n && (raw[j] == '"' || raw[j] == '\'') {
				quote := raw[j]
				j++
				vs := j
				for j < n && raw[j] != quote {
					j++
				}
				value = raw[vs:j]
				if j < n {
					j++
				}
			} else {
				vs := j
				for j < n && !isMarkupSpace(raw[j]) && raw[j] != '>' {
					j++
				}
				value = raw[vs:j]
			}
			i = j
		}
		if strings.IndexByte(value, '&') >= 0 {
			value = html.UnescapeString(value)
		}
		value = stripControls(value)
		attrs = append(attrs, Attribute{Name: name, Value: clipBytes(value, maxAttrValueBytes)})
	}
}

func isAttrNameByte(b byte) bool {
	return isASCIIAlnum(b) || b == '-' || b == ':'
}

func isASCIIAlnum(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isMarkupSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}

// clipBytes truncates s to at most max bytes without splitting a rune.
func clipBytes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
