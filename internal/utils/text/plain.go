package text

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// markupPattern matches an element tag, a comment opener or a character
// reference. A bare "<" or "&" in prose does not match.
var markupPattern = regexp.MustCompile(`</?[a-zA-Z][a-zA-Z0-9-]*(\s[^<>]*)?/?>|<!--|&(#[0-9]+|#x[0-9a-fA-F]+|[a-zA-Z]+);`)

// LooksLikeMarkup reports whether s contains at least one HTML tag, comment
// or character reference.
func LooksLikeMarkup(s string) bool {
	return markupPattern.MatchString(s)
}

// PlainText strips markup from s and collapses whitespace runs into single
// spaces. Input that does not look like HTML passes through with only
// whitespace normalised, so "x<y & z" survives intact. Script and style
// bodies are dropped.
func PlainText(s string) string {
	if !LooksLikeMarkup(s) {
		return collapseSpace(s)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return collapseSpace(s)
	}
	doc.Find("script, style, noscript").Remove()
	return collapseSpace(doc.Text())
}

// FirstSentence returns s up to and including its first sentence terminator
// (. ! ? or the CJK full stops). The whole trimmed string is returned when
// no terminator is found.
func FirstSentence(s string) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	for i, r := range runes {
		switch r {
		case '。', '！', '？':
			return string(runes[:i+1])
		case '.', '!', '?':
			// must end the text or precede whitespace, so "1.25" is not a break
			if i == len(runes)-1 || isSpace(runes[i+1]) {
				return string(runes[:i+1])
			}
		}
	}
	return s
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\n' || r == '\t' || r == '\r'
}
