// Package convert rewrites markdown link references between the published
// wiki dialect and the vault dialect.
//
// The converter is a pure text engine: it never touches the filesystem or
// version control, and it is total over its input. Malformed or unbalanced
// bracket sequences produce best-effort output rather than errors.
//
// Conversion is expressed as an ordered list of rules, each pairing a
// compiled pattern with a transform over its submatches. Order matters:
// later rules must never re-match text produced by earlier ones, so the
// rule list is fixed at page links, then header links, then image embeds.
package convert

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// imageExtensions is the fixed set of extensions recognized as image
// embeds. Assets with other extensions are treated as plain page links
// even when they are in fact binary; the set is deliberately not
// configurable.
var imageExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
	"svg":  true,
	"webp": true,
	"bmp":  true,
}

// Rule rewrites one family of link references across a full document.
type Rule struct {
	// Name identifies the rule in logs and test output.
	Name string

	// Pattern matches one link reference, leftmost-first and
	// non-overlapping.
	Pattern *regexp.Regexp

	// Transform produces the replacement for a match. groups is the
	// result of FindStringSubmatch: groups[0] is the full match.
	// Returning groups[0] unchanged declines the rewrite.
	Transform func(groups []string) string
}

// Apply rewrites every match of the rule in text.
func (r Rule) Apply(text string) string {
	return r.Pattern.ReplaceAllStringFunc(text, func(m string) string {
		return r.Transform(r.Pattern.FindStringSubmatch(m))
	})
}

// PageLinks converts published page links back to vault form:
//
//	[[display|target-page]] -> [[target page|display]]
//
// The target's hyphens become spaces and the argument order inverts.
// An optional leading "!" is consumed into the match so that image
// embed syntax is recognized and left untouched rather than re-matched
// with its bang stranded outside the brackets.
var PageLinks = Rule{
	Name:    "page-links",
	Pattern: regexp.MustCompile(`!?\[\[([^|\]]+)\|([^|\]]+)\]\]`),
	Transform: func(groups []string) string {
		if strings.HasPrefix(groups[0], "!") {
			return groups[0] // image embed, not a page link
		}
		display := groups[1]
		target := strings.ReplaceAll(groups[2], "-", " ")
		return "[[" + target + "|" + display + "]]"
	},
}

// HeaderLinks converts published anchor links back to vault form:
//
//	[display](#some-header) -> [[#Some Header|display]]
//
// The hyphenated fragment becomes spaced and title-cased. The casing
// normalization is lossy: hyphenated-lowercase is canonical in the
// published dialect, title-cased-spaced in the vault dialect.
var HeaderLinks = Rule{
	Name:    "header-links",
	Pattern: regexp.MustCompile(`\[([^\]]+)\]\(#([^)]+)\)`),
	Transform: func(groups []string) string {
		display := groups[1]
		// cases.Caser is stateful, so build one per transform rather
		// than sharing a package-level instance across goroutines.
		header := cases.Title(language.English).String(strings.ReplaceAll(groups[2], "-", " "))
		return "[[#" + header + "|" + display + "]]"
	},
}

// ImageEmbeds converts published image references to vault embeds:
//
//	[[diagram.png]] -> ![[diagram.png]]
//
// Only references whose extension is in the recognized image set are
// rewritten; anything else is left untouched. References already
// prefixed with "!" are already embeds and are not touched either.
var ImageEmbeds = Rule{
	Name:    "image-embeds",
	Pattern: regexp.MustCompile(`!?\[\[([^|\]]+\.([A-Za-z0-9]+))\]\]`),
	Transform: func(groups []string) string {
		if strings.HasPrefix(groups[0], "!") {
			return groups[0]
		}
		if !imageExtensions[strings.ToLower(groups[2])] {
			return groups[0]
		}
		return "!" + groups[0]
	},
}

// rules is the fixed rule order for a reverse conversion pass.
var rules = []Rule{PageLinks, HeaderLinks, ImageEmbeds}

// Reverse rewrites every recognized link reference in text from the
// published dialect to the vault dialect, leaving all other text
// byte-for-byte unchanged. The boolean reports whether the output
// differs from the input.
func Reverse(text string) (string, bool) {
	out := text
	for _, r := range rules {
		out = r.Apply(out)
	}
	return out, out != text
}
