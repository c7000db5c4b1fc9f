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
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/spacesedan/reelpulse/config"
	"github.com/spacesedan/reelpulse/internal/models"
)

const tmdbRequestTimeout = 20 * time.Second

var (
	ErrMissingTMDBCredentials = errors.New("[TMDBClient] TMDB_API_KEY or TMDB_ACCESS_TOKEN is required")
	ErrNotFound               = errors.New("not found")
	ErrUnauthorized           = errors.New("unauthorized")
)

// TMDBClient talks to the TMDB v3 API. With an access token requests carry
// a bearer header; otherwise the API key is sent as a query parameter.
type TMDBClient struct {
	baseURL      string
	imageBaseURL string
	apiKey       string
	Client       *http.Client
	rl           *rate.Limiter
}

func NewTMDBClient(cfg config.TMDBConfig) (*TMDBClient, error) {
	if cfg.APIKey == "" && cfg.AccessToken == "" {
		return nil, ErrMissingTMDBCredentials
	}

	rps := cfg.RPS
	if rps <= 0 {
		rps = 3
	}

	c := &TMDBClient{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		imageBaseURL: strings.TrimRight(cfg.ImageBaseURL, "/"),
		rl:           rate.NewLimiter(rate.Limit(rps), rps),
	}

	if cfg.AccessToken != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.AccessToken, TokenType: "Bearer"})
		c.Client = oauth2.NewClient(context.Background(), ts)
		c.Client.Timeout = tmdbRequestTimeout
	} else {
		c.apiKey = cfg.APIKey
		c.Client = &http.Client{Timeout: tmdbRequestTimeout}
	}

	slog.Info("[TMDBClient] Client initialized",
		slog.String("base_url", c.baseURL),
		slog.Bool("bearer", cfg.AccessToken != ""),
		slog.Int("rps", rps))

	return c, nil
}

// SearchMovie returns the search results for title in TMDB's order.
func (c *TMDBClient) SearchMovie(ctx context.Context, title string) ([]models.TMDBSearchResult, error) {
	var resp models.TMDBSearchResponse
	q := url.Values{}
	q.Set("query", title)
	if err := c.get(ctx, "/search/movie", q, &resp); err != nil {
		return nil, fmt.Errorf("[TMDBClient] search %q: %w", title, err)
	}
	return resp.Results, nil
}

func (c *TMDBClient) MovieDetails(ctx context.Context, id int64) (*models.TMDBMovieDetails, error) {
	var details models.TMDBMovieDetails
	if err := c.get(ctx, fmt.Sprintf("/movie/%d", id), nil, &details); err != nil {
		return nil, fmt.Errorf("[TMDBClient] details %d: %w", id, err)
	}
	return &details, nil
}

func (c *TMDBClient) MovieCredits(ctx context.Context, id int64) (*models.TMDBCredits, error) {
	var credits models.TMDBCredits
	if err := c.get(ctx, fmt.Sprintf("/movie/%d/credits", id), nil, &credits); err != nil {
		return nil, fmt.Errorf("[TMDBClient] credits %d: %w", id, err)
	}
	return &credits, nil
}

// PosterURL turns a poster path into an absolute image URL.
func (c *TMDBClient) PosterURL(path string) string {
	if path == "" {
		return ""
	}
	return c.imageBaseURL + "/" + strings.TrimLeft(path, "/")
}

// get performs a rate-limited GET and decodes the JSON body into out.
// 429 and 5xx responses are retried with backoff, honoring Retry-After.
func (c *TMDBClient) get(ctx context.Context, path string, query url.Values, out any) error {
	if query == nil {
		query = url.Values{}
	}
	if c.apiKey != "" {
		query.Set("api_key", c.apiKey)
	}
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var lastErr error
	wait := INITIAL_BACKOFF
	for attempt := 0; attempt < MAX_RETRIES; attempt++ {
		if err := c.rl.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", USER_AGENT)

		resp, err := c.Client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
		} else {
			switch {
			case resp.StatusCode == http.StatusOK:
				defer resp.Body.Close()
				return json.NewDecoder(resp.Body).Decode(out)
			case resp.StatusCode == http.StatusNotFound:
				resp.Body.Close()
				return ErrNotFound
			case resp.StatusCode == http.StatusUnauthorized:
				resp.Body.Close()
				return ErrUnauthorized
			case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
				if ra := retryAfter(resp); ra > 0 {
					wait = ra
				}
				resp.Body.Close()
				lastErr = fmt.Errorf("remote status %d", resp.StatusCode)
			default:
				b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
				resp.Body.Close()
				return fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
			}
		}

		if attempt == MAX_RETRIES-1 {
			break
		}

		slog.Warn("[TMDBClient] Request failed, will retry",
			slog.String("path", path),
			slog.Int("attempt", attempt+1),
			slog.Duration("backoff", wait),
			slog.String("error", lastErr.Error()))

		if !sleepCtx(ctx, wait) {
			return ctx.Err()
		}
		wait *= 2
		if wait > MAX_BACKOFF {
			wait = MAX_BACKOFF
		}
	}

	return fmt.Errorf("max retries reached: %w", lastErr)
}

// sleepCtx waits for d or returns false early when ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses a Retry-After header given in seconds or as an HTTP
// date. It returns 0 when absent or invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := strings.TrimSpace(resp.Header.Get("Retry-After"))
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(h); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}
