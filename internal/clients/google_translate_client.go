package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"

	"github.com/spacesedan/reelpulse/config"
)

var ErrUnexpectedResponse = errors.New("unexpected translation response")

// GoogleTranslateClient calls the public translate_a/single endpoint with
// source language auto-detection. Requests are rate limited but never
// retried: a failure is final for that text.
type GoogleTranslateClient struct {
	endpoint string
	Client   *http.Client
	rl       *rate.Limiter
}

func NewGoogleTranslateClient(cfg config.TranslatorConfig) *GoogleTranslateClient {
	rps := cfg.RPS
	if rps <= 0 {
		rps = 5
	}

	slog.Info("[GoogleTranslateClient] Client initialized",
		slog.Duration("timeout", cfg.Timeout),
		slog.Int("rps", rps))

	return &GoogleTranslateClient{
		endpoint: cfg.GoogleEndpoint,
		Client:   &http.Client{Timeout: cfg.Timeout},
		rl:       rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// Translate translates text into target.
func (g *GoogleTranslateClient) Translate(ctx context.Context, text, target string) (string, error) {
	if err := g.rl.Wait(ctx); err != nil {
		return "", err
	}

	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", "auto")
	q.Set("tl", target)
	q.Set("dt", "t")
	q.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", USER_AGENT)

	resp, err := g.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("[GoogleTranslateClient] request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("[GoogleTranslateClient] failed to read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("[GoogleTranslateClient] bad status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return parseGoogleTranslation(body)
}

// parseGoogleTranslation joins the translated segments of a response
// shaped like [[["translated","original",...],...],...].
func parseGoogleTranslation(body []byte) (string, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnexpectedResponse, err)
	}
	if len(raw) == 0 {
		return "", ErrUnexpectedResponse
	}

	var segments [][]any
	if err := json.Unmarshal(raw[0], &segments); err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnexpectedResponse, err)
	}

	var b strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		if s, ok := seg[0].(string); ok {
			b.WriteString(s)
		}
	}

	if b.Len() == 0 {
		return "", ErrUnexpectedResponse
	}
	return b.String(), nil
}
