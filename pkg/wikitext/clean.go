package wikitext

import (
	"html"
	"regexp"
	"strings"
)

var (
	// commentRe also swallows comments left open at end of input.
	commentRe    = regexp.MustCompile(`(?is)<!--.*?(?:-->|\z)`)
	refRe        = regexp.MustCompile(`(?is)<ref[^>/]*>.*?</ref>`)
	refSelfRe    = regexp.MustCompile(`(?i)<ref[^>]*/>`)
	templateRe   = regexp.MustCompile(`\{\{[^{}]*\}\}`)
	fileLinkRe   = regexp.MustCompile(`\[\[(?:File|Image|Category):[^\]]*\]\]`)
	pipedLinkRe  = regexp.MustCompile(`\[\[[^|\]]*\|([^\]]+)\]\]`)
	simpleLinkRe = regexp.MustCompile(`\[\[([^\]]+)\]\]`)
	lineBreakRe  = regexp.MustCompile(`(?i)<br\s*/?>`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// maxTemplating caps the inside-out template peeling for pathological nesting.
const maxTemplating = 10

func stripComments(s string) string {
	return commentRe.ReplaceAllString(s, "")
}

// CleanText reduces one cell's wikitext to plain text: references and
// templates removed, links collapsed to their labels, bold/italic quote runs
// dropped, leftover inline HTML sanitized, entities decoded, whitespace
// folded.
func CleanText(s string) string {
	s = refRe.ReplaceAllString(s, "")
	s = refSelfRe.ReplaceAllString(s, "")

	// Templates nest, the regexp does not: peel from the inside out.
	for i := 0; i < maxTemplating && strings.Contains(s, "{{"); i++ {
		next := templateRe.ReplaceAllString(s, "")
		if next == s {
			break
		}
		s = next
	}

	s = fileLinkRe.ReplaceAllString(s, "")
	s = pipedLinkRe.ReplaceAllString(s, "$1")
	s = simpleLinkRe.ReplaceAllString(s, "$1")

	s = strings.ReplaceAll(s, "'''''", "")
	s = strings.ReplaceAll(s, "'''", "")
	s = strings.ReplaceAll(s, "''", "")

	s = lineBreakRe.ReplaceAllString(s, " ")
	s = sanitizeHTML(s)
	s = html.UnescapeString(s)
	// Entity decoding leaves U+00A0 behind, which \s+ below does not cover.
	s = strings.ReplaceAll(s, "\u00a0", " ")

	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
