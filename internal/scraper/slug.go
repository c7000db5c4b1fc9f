package scraper

import (
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"
)

var (
	slugStripPattern = regexp.MustCompile(`[^\w\s-]`)
	slugSepPattern   = regexp.MustCompile(`[\s-]+`)
)

// Slug builds the film slug used in review page URLs: transliterated to
// ASCII, punctuation dropped, whitespace and hyphen runs collapsed to one
// hyphen, lowercased.
func Slug(title string) string {
	s := unidecode.Unidecode(strings.TrimSpace(title))
	s = slugStripPattern.ReplaceAllString(s, "")
	s = slugSepPattern.ReplaceAllString(s, "-")
	return strings.Trim(strings.ToLower(s), "-")
}

// ReviewsURL lists a film's reviews newest first.
func ReviewsURL(base, title string) string {
	return strings.TrimRight(base, "/") + "/film/" + Slug(title) + "/reviews/by/date/"
}

// DatesURL lists a film's reviews by activity, where posted dates are shown.
func DatesURL(base, title string) string {
	return strings.TrimRight(base, "/") + "/film/" + Slug(title) + "/reviews/by/activity/"
}
