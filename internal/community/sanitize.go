package community

import (
	"strings"

	"golang.org/x/net/html"
)

// StripHTML removes all markup from user-submitted text, keeping only the
// text content. Posts are plain text; pasted markup is not rendered.
func StripHTML(s string) string {
	if !strings.ContainsAny(s, "<>") {
		return s
	}

	var b strings.Builder
	tok := html.NewTokenizer(strings.NewReader(s))
	for {
		tt := tok.Next()
		switch tt {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(tok.Text())
		}
	}
}
