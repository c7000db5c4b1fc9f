package textnorm

import "sync"

// TranslationCache memoizes translations for the lifetime of one run.
// It has no eviction.
type TranslationCache struct {
	mu      sync.Mutex
	entries map[string]string
	hits    int
	misses  int
}

// NewTranslationCache returns an empty cache.
func NewTranslationCache() *TranslationCache {
	return &TranslationCache{entries: make(map[string]string)}
}

// Get returns the cached translation of text.
func (c *TranslationCache) Get(text string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.entries[text]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return v, ok
}

// Set stores the translation of text.
func (c *TranslationCache) Set(text, translated string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[text] = translated
}

// Len returns the number of cached translations.
func (c *TranslationCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// Stats returns the hit and miss counters.
func (c *TranslationCache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.hits, c.misses
}
