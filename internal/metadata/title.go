package metadata

import (
	"regexp"
	"strings"
)

var titleYearPattern = regexp.MustCompile(`^(.*?)\s+\((\d{4}|Unknown)\)$`)

// ParseTitleYear splits "Title (2019)" into its title and year. The year is
// empty when the label carries none or says "Unknown".
func ParseTitleYear(label string) (title, year string) {
	label = strings.TrimSpace(label)
	m := titleYearPattern.FindStringSubmatch(label)
	if m == nil {
		return label, ""
	}

	title = strings.TrimSpace(m[1])
	if m[2] != "Unknown" {
		year = m[2]
	}
	return title, year
}
