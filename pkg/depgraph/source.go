package depgraph

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/devinventory/pkg/cache"
	"github.com/matzehuels/devinventory/pkg/inventory"
	"github.com/matzehuels/devinventory/pkg/observability"
)

const keyTypeMetadata = "metadata"

// CachedSource memoises another source's answers in a cache.
//
// Entries are keyed by tool, package name and installed version, so an
// upgrade invalidates naturally. Cache failures fall through to the
// wrapped source.
type CachedSource struct {
	Source MetadataSource
	Cache  cache.Cache
	Tool   string
	TTL    time.Duration
}

// Requires implements MetadataSource.
func (s *CachedSource) Requires(ctx context.Context, pkg inventory.Package) ([]string, error) {
	key := cache.MetadataKey(s.Tool, pkg.Name, pkg.Version)
	hooks := observability.Cache()

	if data, ok, err := s.Cache.Get(ctx, key); err == nil && ok {
		var deps []string
		if json.Unmarshal(data, &deps) == nil {
			hooks.OnCacheHit(ctx, keyTypeMetadata)
			return deps, nil
		}
	}
	hooks.OnCacheMiss(ctx, keyTypeMetadata)

	deps, err := s.Source.Requires(ctx, pkg)
	if err != nil {
		return nil, err
	}

	ttl := s.TTL
	if ttl == 0 {
		ttl = cache.DefaultTTL
	}
	if data, err := json.Marshal(deps); err == nil {
		if s.Cache.Set(ctx, key, data, ttl) == nil {
			hooks.OnCacheSet(ctx, keyTypeMetadata, len(data))
		}
	}
	return deps, nil
}
