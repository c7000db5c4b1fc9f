package scraper

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var ErrIncompleteSelectors = errors.New("selector file is missing required entries")

// ItemSelector locates repeated items on a page and the text node inside
// each of them.
type ItemSelector struct {
	Item string `yaml:"item"`
	Text string `yaml:"text"`
}

// Selectors holds the CSS selectors for the review pages.
type Selectors struct {
	Reviews    ItemSelector `yaml:"reviews"`
	Dates      ItemSelector `yaml:"dates"`
	Pagination struct {
		Next string `yaml:"next"`
	} `yaml:"pagination"`
}

// LoadSelectors reads selectors from a YAML file.
func LoadSelectors(path string) (*Selectors, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("[Scraper] failed to read selectors: %w", err)
	}
	return ParseSelectors(data)
}

func ParseSelectors(data []byte) (*Selectors, error) {
	var s Selectors
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("[Scraper] failed to parse selectors: %w", err)
	}

	if s.Reviews.Item == "" || s.Reviews.Text == "" ||
		s.Dates.Item == "" || s.Dates.Text == "" || s.Pagination.Next == "" {
		return nil, ErrIncompleteSelectors
	}
	return &s, nil
}
