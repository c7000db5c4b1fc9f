package processing

import (
	"log/slog"

	"github.com/spacesedan/reelpulse/config"
	"github.com/spacesedan/reelpulse/internal/clients"
	"github.com/spacesedan/reelpulse/internal/textnorm"
)

// NewTranslator builds the configured translation backend. The "none"
// backend returns a nil Translator, which leaves text untranslated.
func NewTranslator(cfg config.TranslatorConfig) (textnorm.Translator, error) {
	switch cfg.Backend {
	case config.BackendOpenAI:
		client, err := clients.NewOpenAIClient(cfg.OpenAIKey, cfg.OpenAIModel)
		if err != nil {
			return nil, err
		}
		slog.Info("[Translator] Using OpenAI backend", slog.String("model", cfg.OpenAIModel))
		return client, nil
	case config.BackendNone:
		slog.Info("[Translator] Translation disabled")
		return nil, nil
	default:
		slog.Info("[Translator] Using Google backend", slog.Int("rps", cfg.RPS))
		return clients.NewGoogleTranslateClient(cfg), nil
	}
}
