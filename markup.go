package lingo

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// IgnoredTags contains HTML tags whose content is never translatable.
var IgnoredTags = map[string]bool{
	"script":   true,
	"style":    true,
	"code":     true,
	"pre":      true,
	"textarea": true,
	"noscript": true,
}

// hasTranslatableText reports whether an HTML payload contains at least one
// non-blank text node outside ignored tags. Payloads without any are
// returned to the caller untouched, with no remote call.
func hasTranslatableText(content string) bool {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		// Unparseable payloads go to the remote engine as-is.
		return true
	}

	found := false
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found {
			return
		}
		if n.Type == html.ElementNode && IgnoredTags[strings.ToLower(n.Data)] {
			return
		}
		if n.Type == html.TextNode && strings.TrimSpace(n.Data) != "" {
			found = true
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	doc.Each(func(_ int, s *goquery.Selection) {
		for _, n := range s.Nodes {
			walk(n)
		}
	})
	return found
}

// stampDocumentLanguage sets lang and dir attributes on full documents.
// Fragments without an <html> element pass through unchanged.
func stampDocumentLanguage(content, lang string) string {
	if !strings.Contains(strings.ToLower(content), "<html") {
		return content
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return content
	}

	tag := doc.Find("html")
	if tag.Length() == 0 {
		return content
	}
	tag.SetAttr("lang", lang)
	tag.SetAttr("dir", GetDirection(lang))

	out, err := doc.Html()
	if err != nil {
		return content
	}
	return out
}
