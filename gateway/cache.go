package gateway

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log"

	lru "github.com/hashicorp/golang-lru/v2"

	"visareq/ports"
)

// CachedCompleter memoizes successful completions in an LRU keyed by prompt
// hash. Caching is a caller-side concern: the wrapped completer still issues
// exactly one request per miss, and errors are never cached.
type CachedCompleter struct {
	inner ports.Completer
	cache *lru.Cache[string, string]
}

// NewCachedCompleter wraps inner with an LRU of the given size.
func NewCachedCompleter(inner ports.Completer, size int) (*CachedCompleter, error) {
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}
	return &CachedCompleter{inner: inner, cache: cache}, nil
}

func (c *CachedCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	key := promptKey(prompt)
	if cached, ok := c.cache.Get(key); ok {
		log.Printf("[Gateway] Cache hit for prompt hash %s", key[:12])
		return cached, nil
	}
	out, err := c.inner.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	c.cache.Add(key, out)
	return out, nil
}

func promptKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}
