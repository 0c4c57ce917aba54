package meta

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/relmap/schema"
)

// Factory builds entity relation maps from schemas.
// A Factory holds no per-schema state and is safe for concurrent use.
type Factory struct {
	config *Config
}

// NewFactory returns a factory configured by opts.
func NewFactory(opts ...Option) (*Factory, error) {
	c, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	return &Factory{config: c}, nil
}

// MustNewFactory is like NewFactory but panics on error.
func MustNewFactory(opts ...Option) *Factory {
	f, err := NewFactory(opts...)
	if err != nil {
		panic(err)
	}
	return f
}

// Config returns the factory configuration.
func (f *Factory) Config() *Config { return f.config }

// Create validates s and resolves its relation map under the given
// instruction. The instruction is checked before the schema is read.
func (f *Factory) Create(s *schema.Schema, in Instruction) (*EntityRelationMap, error) {
	passes, err := in.Passes()
	if err != nil {
		return nil, err
	}
	ix, err := newIndex(s, f.config)
	if err != nil {
		return nil, err
	}
	return f.resolve(ix, in, passes), nil
}

// CreateEach resolves s once per instruction, sharing one index between
// the resolutions, which run concurrently. Results keep the order of ins.
func (f *Factory) CreateEach(ctx context.Context, s *schema.Schema, ins ...Instruction) ([]*EntityRelationMap, error) {
	passes := make([]Passes, len(ins))
	for i, in := range ins {
		p, err := in.Passes()
		if err != nil {
			return nil, err
		}
		passes[i] = p
	}
	ix, err := newIndex(s, f.config)
	if err != nil {
		return nil, err
	}
	maps := make([]*EntityRelationMap, len(ins))
	g, ctx := errgroup.WithContext(ctx)
	for i, in := range ins {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			maps[i] = f.resolve(ix, in, passes[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return maps, nil
}

func (f *Factory) resolve(ix *Index, in Instruction, passes Passes) *EntityRelationMap {
	logger := f.config.Logger.With(zap.Stringer("instruction", in))
	m := NewResolver(ix, logger).Resolve(passes)
	logger.Debug("relation map created",
		zap.Int("entities", len(m.entities)),
		zap.Int("records", m.Len()),
	)
	return m
}
