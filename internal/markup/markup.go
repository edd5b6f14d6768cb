// Package markup turns stored HTML into plain text.
package markup

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// StripTags removes every tag. Content of script and style elements is
// dropped entirely.
func StripTags(raw string) string {
	var (
		b    strings.Builder
		skip int
	)

	z := html.NewTokenizer(strings.NewReader(raw))

	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or a malformed tail; either way keep what was read.
			return strings.TrimSpace(b.String())
		case html.StartTagToken:
			if isRawTextElement(z) {
				skip++
			}
		case html.EndTagToken:
			if isRawTextElement(z) && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		case html.SelfClosingTagToken, html.CommentToken, html.DoctypeToken:
		}
	}
}

func isRawTextElement(z *html.Tokenizer) bool {
	name, _ := z.TagName()
	a := atom.Lookup(name)

	return a == atom.Script || a == atom.Style
}

// Ellipsis is appended to trimmed text.
const Ellipsis = "\u2026"

// TrimWords keeps the first n whitespace separated words of the plain text
// of s and appends an ellipsis when anything was cut.
func TrimWords(s string, n int) string {
	words := strings.Fields(StripTags(s))
	if len(words) <= n {
		return strings.Join(words, " ")
	}

	return strings.Join(words[:n], " ") + Ellipsis
}
