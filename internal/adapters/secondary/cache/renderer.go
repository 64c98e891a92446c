package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/fredcamaral/coursedeck/internal/domain/entities"
	"github.com/fredcamaral/coursedeck/internal/domain/ports"
)

// CachedRenderer memoizes a markdown renderer by content hash.
// Edited sections hash differently, so live reload needs no invalidation.
type CachedRenderer struct {
	next  ports.MarkdownRenderer
	cache *HTMLCache
	ttl   time.Duration
}

var _ ports.MarkdownRenderer = (*CachedRenderer)(nil)

// NewCachedRenderer wraps next with cache
func NewCachedRenderer(next ports.MarkdownRenderer, cache *HTMLCache, ttl time.Duration) *CachedRenderer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CachedRenderer{next: next, cache: cache, ttl: ttl}
}

// RenderHTML returns the cached HTML for markdown, rendering it on a miss
func (r *CachedRenderer) RenderHTML(ctx context.Context, markdown string) (string, error) {
	sum := sha256.Sum256([]byte(markdown))
	key := hex.EncodeToString(sum[:])

	if html, ok := r.cache.Get(key); ok {
		return html, nil
	}

	html, err := r.next.RenderHTML(ctx, markdown)
	if err != nil {
		return "", err
	}

	r.cache.Set(key, html, r.ttl)
	return html, nil
}

// Stats reports the underlying cache counters
func (r *CachedRenderer) Stats() entities.CacheStats {
	return r.cache.Stats()
}
