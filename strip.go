package tbrowse

import "strings"

// Elements removed together with their content, and tags removed on their
// own.
var (
	strippedElements = map[string]bool{"script": true, "style": true}
	strippedTags     = map[string]bool{"meta": true, "link": true}
)

// StripNonContent removes script and style elements up to their closing tag
// and drops meta and link tags. An element left unclosed swallows the rest
// of the input.
func StripNonContent(src string) string {
	var b strings.Builder
	b.Grow(len(src))
	i := 0
	for i < len(src) {
		j := strings.IndexByte(src[i:], '<')
		if j < 0 {
			b.WriteString(src[i:])
			break
		}
		j += i
		b.WriteString(src[i:j])
		name, _ := readTagName(src[j+1:])
		switch {
		case strippedElements[name]:
			end := indexFold(src[j+1:], "</"+name)
			if end < 0 {
				return b.String()
			}
			closeAt := j + 1 + end
			gt := strings.IndexByte(src[closeAt:], '>')
			if gt < 0 {
				return b.String()
			}
			i = closeAt + gt + 1
		case strippedTags[name]:
			gt := strings.IndexByte(src[j:], '>')
			if gt < 0 {
				return b.String()
			}
			i = j + gt + 1
		default:
			b.WriteByte('<')
			i = j + 1
		}
	}
	return b.String()
}

// indexFold is strings.Index with ASCII case folding. sub must be lowercase.
func indexFold(s, sub string) int {
	n := len(sub)
	for i := 0; i+n <= len(s); i++ {
		match := true
		for k := 0; k < n; k++ {
			c := s[i+k]
			if c >= 'A' && c <= 'Z' {
				c += 'a' - 'A'
			}
			if c != sub[k] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
