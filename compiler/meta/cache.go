package meta

import (
	"context"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"

	"github.com/syssam/relmap"
	"github.com/syssam/relmap/schema"
)

// CachedFactory memoizes exports of a Factory in a relmap.Cache, keyed
// by schema digest, factory configuration, instruction and constraints
// flag. Factories with different configurations can share one cache. Cache failures
// are logged and fall through to resolution.
type CachedFactory struct {
	factory *Factory
	cache   relmap.Cache
	ttl     time.Duration
	logger  *zap.Logger
}

// NewCachedFactory wraps f with cache c. A zero ttl never expires entries.
func NewCachedFactory(f *Factory, c relmap.Cache, ttl time.Duration) *CachedFactory {
	return &CachedFactory{
		factory: f,
		cache:   c,
		ttl:     ttl,
		logger:  f.config.Logger.Named("cache"),
	}
}

// Factory returns the wrapped factory.
func (cf *CachedFactory) Factory() *Factory { return cf.factory }

// Export returns the export of s under in, from cache when present.
func (cf *CachedFactory) Export(ctx context.Context, s *schema.Schema, in Instruction, includeConstraints bool) (*Export, error) {
	if _, err := in.Passes(); err != nil {
		return nil, err
	}
	if s == nil {
		return nil, NewSchemaError("", "", "schema is nil", nil)
	}
	digest, err := s.Digest()
	if err != nil {
		return nil, err
	}
	key := relmap.CacheKey{
		Schema:      digest,
		Config:      cf.factory.config.cacheKey(),
		Instruction: in.String(),
		Constraints: includeConstraints,
	}.String()
	if out, ok := cf.lookup(ctx, key); ok {
		return out, nil
	}
	m, err := cf.factory.Create(s, in)
	if err != nil {
		return nil, err
	}
	out := m.Export(includeConstraints)
	buf, err := msgpack.Marshal(out)
	if err != nil {
		return nil, err
	}
	if err := cf.cache.Set(ctx, key, buf, cf.ttl); err != nil {
		cf.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
	return out, nil
}

func (cf *CachedFactory) lookup(ctx context.Context, key string) (*Export, bool) {
	buf, err := cf.cache.Get(ctx, key)
	switch {
	case err != nil:
		cf.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		return nil, false
	case buf == nil:
		return nil, false
	}
	var out Export
	if err := msgpack.Unmarshal(buf, &out); err != nil {
		cf.logger.Warn("cache entry corrupt", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	cf.logger.Debug("cache hit", zap.String("key", key))
	return &out, true
}

// Invalidate drops every cached export of s.
func (cf *CachedFactory) Invalidate(ctx context.Context, s *schema.Schema) error {
	digest, err := s.Digest()
	if err != nil {
		return err
	}
	return cf.cache.DeletePrefix(ctx, digest+":")
}
