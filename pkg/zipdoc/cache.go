package zipdoc

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// CacheConfig contains configuration options for the template cache
type CacheConfig struct {
	// MaxSize is the maximum number of templates to cache. 0 disables caching.
	MaxSize int
	// TTL is the time-to-live for cached templates. 0 means no expiration.
	TTL time.Duration
}

// TemplateCache caches compiled templates by key, typically a file path
// joined with the mergeable entry. Templates are immutable, so a cached
// template can be handed to any number of callers.
type TemplateCache struct {
	lru    *expirable.LRU[string, *Template]
	config CacheConfig
}

// NewTemplateCache creates a new template cache with the global configuration
func NewTemplateCache() *TemplateCache {
	config := GetGlobalConfig()
	return NewTemplateCacheWithConfig(CacheConfig{
		MaxSize: config.CacheMaxSize,
		TTL:     config.CacheTTL,
	})
}

// NewTemplateCacheWithConfig creates a new template cache with the given configuration
func NewTemplateCacheWithConfig(config CacheConfig) *TemplateCache {
	tc := &TemplateCache{config: config}
	if config.MaxSize > 0 {
		tc.lru = expirable.NewLRU[string, *Template](config.MaxSize, nil, config.TTL)
	}
	return tc
}

// Enabled reports whether the cache stores anything.
func (tc *TemplateCache) Enabled() bool {
	return tc != nil && tc.lru != nil
}

// Get retrieves a template from the cache
func (tc *TemplateCache) Get(key string) (*Template, bool) {
	if !tc.Enabled() {
		return nil, false
	}
	return tc.lru.Get(key)
}

// Set adds a template to the cache, evicting the least recently used one when full
func (tc *TemplateCache) Set(key string, template *Template) {
	if !tc.Enabled() {
		return
	}
	tc.lru.Add(key, template)
}

// GetOrPrepare returns the cached template for key or stores the one built by prepare.
func (tc *TemplateCache) GetOrPrepare(key string, prepare func() (*Template, error)) (*Template, error) {
	if tmpl, ok := tc.Get(key); ok {
		return tmpl, nil
	}
	tmpl, err := prepare()
	if err != nil {
		return nil, err
	}
	tc.Set(key, tmpl)
	return tmpl, nil
}

// Remove removes a template from the cache
func (tc *TemplateCache) Remove(key string) {
	if !tc.Enabled() {
		return
	}
	tc.lru.Remove(key)
}

// Clear removes all templates from the cache
func (tc *TemplateCache) Clear() {
	if !tc.Enabled() {
		return
	}
	tc.lru.Purge()
}

// Size returns the current number of cached templates
func (tc *TemplateCache) Size() int {
	if !tc.Enabled() {
		return 0
	}
	return tc.lru.Len()
}
