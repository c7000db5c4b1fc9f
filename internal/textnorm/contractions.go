package textnorm

import (
	"regexp"
	"strings"
)

// Contraction is one literal substitution of the expansion table.
type Contraction struct {
	Pattern     string
	Replacement string
}

// Contractions is applied in order. Longer forms come before the generic
// "n't"/"'t"/"'s" fallbacks that are substrings of them.
var Contractions = []Contraction{
	{"won't", "will not"},
	{"can't", "cannot"},
	{"n't", " not"},
	{"'re", " are"},
	{"'s", " is"},
	{"'d", " would"},
	{"'ll", " will"},
	{"'t", " not"},
	{"'ve", " have"},
	{"'m", " am"},
}

var (
	contractionPatterns = compileContractions(Contractions)
	apostropheReplacer  = strings.NewReplacer("\u2019", "'", "\u2018", "'", "\u02bc", "'")
)

func compileContractions(list []Contraction) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(list))
	for i, c := range list {
		out[i] = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(c.Pattern))
	}
	return out
}

// ExpandContractions rewrites contractions with the ordered table.
// Typographic apostrophes are folded to ASCII first.
func ExpandContractions(s string) string {
	s = apostropheReplacer.Replace(s)
	for i, re := range contractionPatterns {
		s = re.ReplaceAllLiteralString(s, Contractions[i].Replacement)
	}
	return s
}
