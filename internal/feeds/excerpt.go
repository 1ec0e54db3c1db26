package feeds

import (
	"strings"

	"golang.org/x/net/html"
)

// Excerpt extracts the first maxRunes of visible text from an HTML fragment,
// for use as a feed description when front matter provides none.
func Excerpt(fragment string, maxRunes int) string {
	tokenizer := html.NewTokenizer(strings.NewReader(fragment))

	var b strings.Builder
	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt != html.TextToken {
			continue
		}
		text := strings.TrimSpace(string(tokenizer.Text()))
		if text == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(text)
		if b.Len() >= maxRunes*4 {
			// Enough bytes collected for any rune boundary cut below.
			break
		}
	}

	runes := []rune(b.String())
	if len(runes) <= maxRunes {
		return string(runes)
	}
	return string(runes[:maxRunes]) + "..."
}
