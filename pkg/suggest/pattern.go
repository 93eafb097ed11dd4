package suggest

import "regexp"

// BuildPattern compiles `\b<prefix>\w*<suffix>` with both literals escaped.
// RE2 matches in linear time and the only wildcard is the single `\w*`, so no
// input can make the scan expensive or the pattern invalid.
func BuildPattern(prefix, suffix string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(prefix) + `\w*` + regexp.QuoteMeta(suffix))
}
