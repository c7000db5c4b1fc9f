package textnorm

import (
	"context"
	"strings"

	"github.com/abadojack/whatlanggo"
)

// LangUnknown is returned when a detector cannot classify the text.
const LangUnknown = ""

// Detector classifies the dominant language of a text as an ISO 639-1
// code, or LangUnknown.
type Detector interface {
	Detect(text string) string
}

// Translator translates text into the target language.
type Translator interface {
	Translate(ctx context.Context, text, target string) (string, error)
}

// WhatlangDetector is a statistical trigram detector. Results the
// library does not consider reliable are reported as unknown.
type WhatlangDetector struct {
	// MinConfidence additionally rejects reliable results below it.
	MinConfidence float64
}

// NewWhatlangDetector returns a detector with no extra confidence floor.
func NewWhatlangDetector() *WhatlangDetector {
	return &WhatlangDetector{}
}

// Detect implements Detector.
func (d *WhatlangDetector) Detect(text string) string {
	if strings.TrimSpace(text) == "" {
		return LangUnknown
	}

	info := whatlanggo.Detect(text)
	if !info.IsReliable() || info.Confidence < d.MinConfidence {
		return LangUnknown
	}

	return info.Lang.Iso6391()
}
