package speechsynth

import (
	"regexp"
	"strings"
)

// embeddingMarks strips the bidi embedding/isolate control characters a
// resolved string can pick up from surrounding UI markup — platforms tend
// to mis-speak or silently drop these.
var embeddingMarks = strings.NewReplacer(
	"‪", "", // LRE
	"‫", "", // RLE
	"‬", "", // PDF
	"⁦", "", // LRI
	"⁧", "", // RLI
	"⁨", "", // FSI
	"⁩", "", // PDI
)

var brTagPattern = regexp.MustCompile(`(?i)<br\s*/?>`)

// sanitize prepares resolved text for a speech platform: strip <br> markup
// (carried over from rich-text alertables) and bidi embedding marks, then
// collapse the whitespace left behind.
func sanitize(text string) string {
	text = brTagPattern.ReplaceAllString(text, " ")
	text = embeddingMarks.Replace(text)
	return strings.Join(strings.Fields(text), " ")
}
