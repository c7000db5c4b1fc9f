package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Configuration validation errors.
var (
	ErrInvalidYearPivot      = errors.New("DATES_YEAR_PIVOT must be between 0 and 99")
	ErrInvalidThreshold      = errors.New("NORMALIZER_TRANSLATE_THRESHOLD must be between 0 and 1")
	ErrInvalidSampleSize     = errors.New("NORMALIZER_VALIDATION_SAMPLE must be at least 1")
	ErrInvalidBackend        = errors.New("TRANSLATOR_BACKEND must be one of: google, openai, none")
	ErrInvalidSentimentRange = errors.New("SENTIMENT_POSITIVE_THRESHOLD must not be below SENTIMENT_NEGATIVE_THRESHOLD")
	ErrInvalidPerMovie       = errors.New("SCRAPER_REVIEWS_PER_MOVIE and SCRAPER_DATES_PER_MOVIE must be at least 1")
)

// Translator backends.
const (
	BackendGoogle = "google"
	BackendOpenAI = "openai"
	BackendNone   = "none"
)

// Config holds every stage's settings, parsed from the environment.
type Config struct {
	Env      string `env:"APP_ENV" envDefault:"dev"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	Paths      PathsConfig
	Normalizer NormalizerConfig `envPrefix:"NORMALIZER_"`
	Dates      DatesConfig      `envPrefix:"DATES_"`
	Translator TranslatorConfig `envPrefix:"TRANSLATOR_"`
	TMDB       TMDBConfig       `envPrefix:"TMDB_"`
	Scraper    ScraperConfig    `envPrefix:"SCRAPER_"`
	Valkey     ValkeyConfig     `envPrefix:"VALKEY_"`
	Sentiment  SentimentConfig  `envPrefix:"SENTIMENT_"`
	AWS        AWSConfig        `envPrefix:"AWS_"`
}

// PathsConfig lists the CSV/JSON files exchanged between stages.
type PathsConfig struct {
	RawReviews   string `env:"RAW_REVIEWS_CSV" envDefault:"data/raw_reviews.csv"`
	CleanReviews string `env:"CLEAN_REVIEWS_CSV" envDefault:"data/cleaned_reviews.csv"`
	RawDates     string `env:"RAW_DATES_CSV" envDefault:"data/raw_dates.csv"`
	CleanDates   string `env:"CLEAN_DATES_CSV" envDefault:"data/cleaned_dates.csv"`
	Movies       string `env:"MOVIES_CSV" envDefault:"data/movies.csv"`
	MovieInfo    string `env:"MOVIE_INFO_CSV" envDefault:"data/movie_info.csv"`
	Sentiment    string `env:"SENTIMENT_CSV" envDefault:"data/analyzed_reviews.csv"`
	Report       string `env:"REPORT_JSON" envDefault:"data/report.json"`
}

// NormalizerConfig controls the text normalizer.
type NormalizerConfig struct {
	PreserveTerms      []string `env:"PRESERVE_TERMS" envSeparator:"," envDefault:"not,no,never,nothing,without,love,hate,awesome,terrible"`
	TargetLanguage     string   `env:"TARGET_LANGUAGE" envDefault:"en"`
	TranslateThreshold float64  `env:"TRANSLATE_THRESHOLD" envDefault:"0"`
	ValidationSample   int      `env:"VALIDATION_SAMPLE" envDefault:"5"`
}

// DatesConfig controls the date normalizer.
type DatesConfig struct {
	YearPivot int `env:"YEAR_PIVOT" envDefault:"50"`
}

// TranslatorConfig selects and tunes the translation backend.
type TranslatorConfig struct {
	Backend        string        `env:"BACKEND" envDefault:"google"`
	GoogleEndpoint string        `env:"GOOGLE_ENDPOINT" envDefault:"https://translate.googleapis.com/translate_a/single"`
	RPS            int           `env:"RPS" envDefault:"5"`
	Timeout        time.Duration `env:"TIMEOUT" envDefault:"15s"`
	OpenAIKey      string        `env:"OPENAI_API_KEY,unset"`
	OpenAIModel    string        `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
}

// TMDBConfig holds TMDB API credentials and limits.
type TMDBConfig struct {
	APIKey       string `env:"API_KEY,unset"`
	AccessToken  string `env:"ACCESS_TOKEN,unset"`
	BaseURL      string `env:"BASE_URL" envDefault:"https://api.themoviedb.org/3"`
	ImageBaseURL string `env:"IMAGE_BASE_URL" envDefault:"https://image.tmdb.org/t/p/w500"`
	RPS          int    `env:"RPS" envDefault:"3"`
}

// ScraperConfig tunes the Letterboxd scraper.
type ScraperConfig struct {
	BaseURL           string        `env:"BASE_URL" envDefault:"https://letterboxd.com"`
	SelectorsPath     string        `env:"SELECTORS_PATH" envDefault:"config/selectors.yaml"`
	ReviewsPerMovie   int           `env:"REVIEWS_PER_MOVIE" envDefault:"100"`
	DatesPerMovie     int           `env:"DATES_PER_MOVIE" envDefault:"100"`
	MaxIdleRounds     int           `env:"MAX_IDLE_ROUNDS" envDefault:"3"`
	PageLoadTimeout   time.Duration `env:"PAGE_LOAD_TIMEOUT" envDefault:"5s"`
	WaitBetweenRounds time.Duration `env:"WAIT_BETWEEN_ROUNDS" envDefault:"3s"`
	WaitBetweenMovies time.Duration `env:"WAIT_BETWEEN_MOVIES" envDefault:"15s"`
}

// ValkeyConfig points the scraper at an optional Valkey progress store.
type ValkeyConfig struct {
	InitAddress string `env:"INIT_ADDRESS"`
	Password    string `env:"PASSWORD,unset"`
	TLS         bool   `env:"TLS" envDefault:"false"`
}

// SentimentConfig holds label thresholds and the optional DynamoDB sink.
type SentimentConfig struct {
	PositiveThreshold float64 `env:"POSITIVE_THRESHOLD" envDefault:"0.05"`
	NegativeThreshold float64 `env:"NEGATIVE_THRESHOLD" envDefault:"-0.05"`
	DynamoDBEnabled   bool    `env:"DYNAMODB_ENABLED" envDefault:"false"`
	TableName         string  `env:"DYNAMODB_TABLE" envDefault:"ReviewSentiments"`
}

// AWSConfig points the DynamoDB client at a region and endpoint.
type AWSConfig struct {
	Region   string `env:"REGION" envDefault:"us-west-2"`
	Endpoint string `env:"ENDPOINT"`
}

// UseValkey reports whether scrape progress should be tracked in Valkey.
func (c Config) UseValkey() bool {
	return c.Valkey.InitAddress != ""
}

// Load parses environment variables into a Config and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("[Config] failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("[Config] invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks value ranges that struct tags cannot express.
func (c *Config) Validate() error {
	if c.Dates.YearPivot < 0 || c.Dates.YearPivot > 99 {
		return ErrInvalidYearPivot
	}

	if c.Normalizer.TranslateThreshold < 0 || c.Normalizer.TranslateThreshold > 1 {
		return ErrInvalidThreshold
	}

	if c.Normalizer.ValidationSample < 1 {
		return ErrInvalidSampleSize
	}

	switch c.Translator.Backend {
	case BackendGoogle, BackendOpenAI, BackendNone:
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidBackend, c.Translator.Backend)
	}

	if c.Sentiment.PositiveThreshold < c.Sentiment.NegativeThreshold {
		return ErrInvalidSentimentRange
	}

	if c.Scraper.ReviewsPerMovie < 1 || c.Scraper.DatesPerMovie < 1 {
		return ErrInvalidPerMovie
	}

	return nil
}
