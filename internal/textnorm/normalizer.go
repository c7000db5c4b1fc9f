// Package textnorm turns raw, possibly mis-encoded, possibly non-English
// review text into clean English text for lexicon-based sentiment scoring,
// keeping the signal carried by emoji and by negation/intensifier words.
package textnorm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

// ErrTranslationFailed wraps translator errors.
var ErrTranslationFailed = errors.New("translation failed")

// DefaultPreserveTerms are negations and strong-sentiment words kept
// uppercase through case folding.
var DefaultPreserveTerms = []string{
	"not", "no", "never", "nothing", "without",
	"love", "hate", "awesome", "terrible",
}

// strayJoiners removes joiners and variation selectors left behind when
// the character they modified was not an emoji.
var strayJoiners = strings.NewReplacer(string(zeroWidthJoiner), "", string(variationSelector), "")

var (
	markupPattern     = regexp.MustCompile(`http\S+|www\S+|@\w+|<[^>]*>`)
	disallowedPattern = regexp.MustCompile(`[^\p{L}\p{M}\p{N}_\s!?\x{2026}]`)
)

// Options configures a Normalizer.
type Options struct {
	PreserveTerms  []string
	TargetLanguage string
	// TranslateThreshold is the fraction of non-target cells a column must
	// exceed before NormalizeTable translates it. Zero translates any
	// column with at least one non-target cell.
	TranslateThreshold float64
}

// Normalizer runs the text pipeline. It owns the translation cache for
// one run.
type Normalizer struct {
	detector   Detector
	translator Translator
	cache      *TranslationCache
	opts       Options
	preserve   []preserveRule
}

type preserveRule struct {
	re    *regexp.Regexp
	upper string
}

// New builds a Normalizer. A nil translator disables translation: text in
// other languages passes through untranslated.
func New(detector Detector, translator Translator, opts Options) *Normalizer {
	if opts.TargetLanguage == "" {
		opts.TargetLanguage = "en"
	}

	n := &Normalizer{
		detector:   detector,
		translator: translator,
		cache:      NewTranslationCache(),
		opts:       opts,
	}

	for _, term := range opts.PreserveTerms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		n.preserve = append(n.preserve, preserveRule{
			re:    regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`),
			upper: strings.ToUpper(term),
		})
	}

	return n
}

// Cache exposes the run's translation cache.
func (n *Normalizer) Cache() *TranslationCache {
	return n.cache
}

// Normalize runs the full pipeline on one review. It reports false when
// nothing usable remains or translation failed.
func (n *Normalizer) Normalize(ctx context.Context, raw string) (string, bool) {
	text := RepairEncoding(raw)
	stripped, emojis := ExtractEmoji(text)

	if strings.TrimSpace(stripped) != "" {
		lang := n.detector.Detect(stripped)
		translated, ok := n.toTarget(ctx, stripped, lang)
		if !ok {
			return "", false
		}
		stripped = translated
	}

	return n.finish(stripped, emojis)
}

// Clean runs every step except language handling.
func (n *Normalizer) Clean(raw string) (string, bool) {
	text := RepairEncoding(raw)
	stripped, emojis := ExtractEmoji(text)
	return n.finish(stripped, emojis)
}

// toTarget returns text in the target language, translating when lang
// differs from it. After translation the result is detected again and
// rejected if it is still confidently in another language.
func (n *Normalizer) toTarget(ctx context.Context, text, lang string) (string, bool) {
	if lang == n.opts.TargetLanguage {
		return text, true
	}
	if n.translator == nil {
		slog.Debug("[TextNormalizer] No translator configured, keeping original text",
			slog.String("language", lang))
		return text, true
	}

	translated, err := n.translate(ctx, text)
	if err != nil {
		slog.Warn("[TextNormalizer] Dropping review after failed translation",
			slog.String("preview", preview(text)),
			slog.String("error", err.Error()))
		return "", false
	}

	after := n.detector.Detect(translated)
	if after != n.opts.TargetLanguage && after != LangUnknown {
		slog.Warn("[TextNormalizer] Dropping review still not in target language after translation",
			slog.String("language", after),
			slog.String("preview", preview(translated)))
		return "", false
	}

	return translated, true
}

func (n *Normalizer) translate(ctx context.Context, text string) (string, error) {
	if cached, ok := n.cache.Get(text); ok {
		return cached, nil
	}

	translated, err := n.translator.Translate(ctx, text, n.opts.TargetLanguage)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTranslationFailed, err)
	}

	translated = strings.TrimSpace(translated)
	if translated == "" {
		translated = text
	}

	n.cache.Set(text, translated)
	return translated, nil
}

// finish applies case preservation, structural cleanup, case folding,
// emoji recombination and the final artifact sweep.
func (n *Normalizer) finish(text string, emojis []string) (string, bool) {
	text = strayJoiners.Replace(text)
	text = n.preserveCase(text)
	text = cleanStructure(text)
	text = n.foldCase(strings.Join(strings.Fields(text), " "))

	result := text
	if len(emojis) > 0 {
		result = text + " " + strings.Join(emojis, " ")
	}

	result = StripArtifacts(result)
	result = strings.Join(strings.Fields(result), " ")
	if result == "" {
		return "", false
	}

	return result, true
}

func (n *Normalizer) preserveCase(text string) string {
	for _, rule := range n.preserve {
		text = rule.re.ReplaceAllLiteralString(text, rule.upper)
	}
	return text
}

// foldCase lowercases text and restores the preserved terms, including
// ones produced by contraction expansion.
func (n *Normalizer) foldCase(text string) string {
	text = strings.ToLower(text)
	return n.preserveCase(text)
}

// cleanStructure drops URLs, tags and mentions, expands contractions and
// replaces everything except word characters, whitespace and ! ? … with
// spaces.
func cleanStructure(text string) string {
	text = markupPattern.ReplaceAllString(text, " ")
	text = ExpandContractions(text)
	return disallowedPattern.ReplaceAllString(text, " ")
}

func preview(s string) string {
	r := []rune(s)
	if len(r) > 50 {
		return string(r[:50]) + "..."
	}
	return s
}
