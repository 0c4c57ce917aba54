package meta

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/relmap"
	"github.com/syssam/relmap/schema"
	"github.com/syssam/relmap/schema/column"
)

// countingCache records calls and can be told to fail.
type countingCache struct {
	*relmap.MemoryCache
	gets, sets int
	fail       bool
}

func (c *countingCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.gets++
	if c.fail {
		return nil, errors.New("cache down")
	}
	return c.MemoryCache.Get(ctx, key)
}

func (c *countingCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.sets++
	if c.fail {
		return errors.New("cache down")
	}
	return c.MemoryCache.Set(ctx, key, value, ttl)
}

func TestCachedFactoryExport(t *testing.T) {
	ctx := context.Background()
	s := fixture(t)
	cache := &countingCache{MemoryCache: relmap.NewMemoryCache()}
	cf := NewCachedFactory(MustNewFactory(), cache, time.Minute)
	assert.NotNil(t, cf.Factory())

	first, err := cf.Export(ctx, s, InstructionAll, true)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, 1, cache.Len())

	second, err := cf.Export(ctx, s, InstructionAll, true)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets, "second call is served from cache")
	assert.Equal(t, 2, cache.gets)

	want, err := first.MarshalJSON()
	require.NoError(t, err)
	got, err := second.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, string(want), string(got))

	_, err = cf.Export(ctx, s, InstructionAll, false)
	require.NoError(t, err)
	_, err = cf.Export(ctx, s, InstructionDefault, true)
	require.NoError(t, err)
	assert.Equal(t, 3, cache.Len())

	require.NoError(t, cf.Invalidate(ctx, s))
	assert.Equal(t, 0, cache.Len())
}

func TestCachedFactoryKeyedBySchema(t *testing.T) {
	ctx := context.Background()
	cache := relmap.NewMemoryCache()
	cf := NewCachedFactory(MustNewFactory(), cache, 0)

	build := func(allowed string) *schema.Schema {
		return schema.New(
			schema.NewTable("content", column.Group("related").Allowed(allowed)),
			schema.NewTable("image", column.Input("url")),
		)
	}
	a, err := cf.Export(ctx, build("content"), InstructionDefault, true)
	require.NoError(t, err)
	b, err := cf.Export(ctx, build("image"), InstructionDefault, true)
	require.NoError(t, err)
	assert.Equal(t, 2, cache.Len())

	ra, _ := a.Record("content", "related")
	rb, _ := b.Record("content", "related")
	assert.Equal(t, []string{"content.related -> content"}, ra.Relations.Active)
	assert.Equal(t, []string{"content.related -> image"}, rb.Relations.Active)
}

func TestCachedFactorySharedCache(t *testing.T) {
	ctx := context.Background()
	cache := relmap.NewMemoryCache()
	s := schema.New(
		schema.NewTable("sys_language"),
		schema.NewTable("locale"),
		schema.NewTable("page", column.Select("language").Special(schema.SpecialLanguages)),
	)
	standard := NewCachedFactory(MustNewFactory(), cache, 0)
	localized := NewCachedFactory(MustNewFactory(WithLanguageTable("locale")), cache, 0)

	a, err := standard.Export(ctx, s, InstructionDefault, true)
	require.NoError(t, err)
	b, err := localized.Export(ctx, s, InstructionDefault, true)
	require.NoError(t, err)
	assert.Equal(t, 2, cache.Len())

	ra, ok := a.Record("page", "language")
	require.True(t, ok)
	assert.Equal(t, []string{"page.language -> sys_language"}, ra.Relations.Active)
	rb, ok := b.Record("page", "language")
	require.True(t, ok)
	assert.Equal(t, []string{"page.language -> locale"}, rb.Relations.Active)

	// Served from cache, each factory still sees its own entry.
	b, err = localized.Export(ctx, s, InstructionDefault, true)
	require.NoError(t, err)
	rb, _ = b.Record("page", "language")
	assert.Equal(t, []string{"page.language -> locale"}, rb.Relations.Active)

	require.NoError(t, localized.Invalidate(ctx, s))
	assert.Zero(t, cache.Len())
}

func TestCachedFactoryFallsThrough(t *testing.T) {
	ctx := context.Background()
	cache := &countingCache{MemoryCache: relmap.NewMemoryCache(), fail: true}
	cf := NewCachedFactory(MustNewFactory(), cache, 0)

	out, err := cf.Export(ctx, fixture(t), InstructionDefault, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"content", "image", "category"}, out.Entities())
	assert.Equal(t, 1, cache.gets)
	assert.Equal(t, 1, cache.sets)
}

func TestCachedFactoryCorruptEntry(t *testing.T) {
	ctx := context.Background()
	s := fixture(t)
	cache := relmap.NewMemoryCache()
	digest, err := s.Digest()
	require.NoError(t, err)
	key := relmap.CacheKey{Schema: digest, Config: DefaultLanguageTable, Instruction: "default", Constraints: true}.String()
	require.NoError(t, cache.Set(ctx, key, []byte{0xc1}, 0))

	out, err := NewCachedFactory(MustNewFactory(), cache, 0).Export(ctx, s, InstructionDefault, true)
	require.NoError(t, err)
	assert.Equal(t, 3, out.Len())
}

func TestCachedFactoryErrors(t *testing.T) {
	ctx := context.Background()
	cache := relmap.NewMemoryCache()
	cf := NewCachedFactory(MustNewFactory(), cache, 0)

	_, err := cf.Export(ctx, fixture(t), Instruction(4), true)
	assert.ErrorIs(t, err, relmap.ErrUnknownInstruction)

	_, err = cf.Export(ctx, nil, InstructionDefault, true)
	assert.ErrorIs(t, err, relmap.ErrMalformedSchema)

	bad := schema.New(schema.NewTable("content", column.Select("layout").ForeignTable("layout")))
	_, err = cf.Export(ctx, bad, InstructionDefault, true)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "unknown target entity"))
	assert.Equal(t, 0, cache.Len())
}
