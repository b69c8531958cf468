// Package text provides rune-aware helpers for turning article content into
// plain-text excerpts.
package text

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// Ellipsis is appended to truncated text.
const Ellipsis = "…"

// CountRunes counts Unicode characters rather than bytes.
func CountRunes(s string) int {
	return utf8.RuneCountInString(s)
}

// PlainText extracts the visible text of an HTML fragment and collapses
// whitespace. Script and style contents are dropped. Input that is not HTML
// is returned with whitespace collapsed.
func PlainText(content string) string {
	if !strings.ContainsAny(content, "<&") {
		return collapseSpace(content)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return collapseSpace(content)
	}
	doc.Find("script, style, noscript").Remove()
	// ブロック要素の境界で単語が連結しないよう空白を挟む
	doc.Find("p, div, br, li, h1, h2, h3, h4, h5, h6, tr, blockquote").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml(" ")
	})
	return collapseSpace(doc.Text())
}

// Truncate shortens s to at most max runes, cutting at the last word boundary
// when one exists and appending Ellipsis. max <= 0 returns "".
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if CountRunes(s) <= max {
		return s
	}
	runes := []rune(s)
	cut := string(runes[:max])
	if i := strings.LastIndexFunc(cut, unicode.IsSpace); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRightFunc(cut, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	}) + Ellipsis
}

// Excerpt returns the first max runes of the plain text of content.
func Excerpt(content string, max int) string {
	return Truncate(PlainText(content), max)
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
