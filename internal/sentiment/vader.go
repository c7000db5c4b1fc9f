// Package sentiment scores cleaned reviews with the VADER lexicon and
// reshapes the wide review table into one record per review.
package sentiment

import (
	"html"
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday/v2"

	"github.com/spacesedan/reelpulse/internal/models"
)

const (
	DefaultPositiveThreshold = 0.05
	DefaultNegativeThreshold = -0.05
)

var (
	linkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern  = regexp.MustCompile(`https?://\S+|www\.\S+`)
)

// Scorer labels text by its VADER compound score.
type Scorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
	policy   *bluemonday.Policy
	positive float64
	negative float64
}

// NewScorer returns a Scorer labelling scores >= positive as Positive and
// <= negative as Negative.
func NewScorer(positive, negative float64) *Scorer {
	return &Scorer{
		analyzer: govader.NewSentimentIntensityAnalyzer(),
		policy:   bluemonday.StrictPolicy(),
		positive: positive,
		negative: negative,
	}
}

func RemoveLinks(input string) string {
	input = linkPattern.ReplaceAllString(input, "$1") // Keep only the text
	return urlPattern.ReplaceAllString(input, "")
}

// PlainText renders markdown, strips every tag and removes links.
func (s *Scorer) PlainText(input string) string {
	rendered := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	text := html.UnescapeString(s.policy.Sanitize(string(rendered)))
	return strings.Join(strings.Fields(RemoveLinks(text)), " ")
}

// Score returns the compound score and its label.
func (s *Scorer) Score(text string) (float64, string) {
	score := s.analyzer.PolarityScores(s.PlainText(text)).Compound
	return score, s.Label(score)
}

func (s *Scorer) Label(score float64) string {
	switch {
	case score >= s.positive:
		return models.LabelPositive
	case score <= s.negative:
		return models.LabelNegative
	default:
		return models.LabelNeutral
	}
}
