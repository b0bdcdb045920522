package refdata

import (
	"regexp"
	"strings"
)

var (
	postalSeparators = regexp.MustCompile(`[\s\-]+`)
	punctOrSpaceRuns = regexp.MustCompile(`[[:punct:]\s]+`)
)

// NormalizePostal strips whitespace and hyphens from a postal code and
// uppercases the remainder. Used for fingerprint queries and business-key
// comparisons.
func NormalizePostal(postal string) string {
	return strings.ToUpper(postalSeparators.ReplaceAllString(strings.TrimSpace(postal), ""))
}

// Collapse reduces every run of punctuation or whitespace to a single
// space, uppercases, and trims. Similarity scoring and report
// deduplication both compare collapsed strings.
func Collapse(s string) string {
	return strings.TrimSpace(strings.ToUpper(punctOrSpaceRuns.ReplaceAllString(s, " ")))
}
