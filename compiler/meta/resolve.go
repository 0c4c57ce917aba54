package meta

import (
	"slices"

	"go.uber.org/zap"
)

// contribution is one piece of a relation map emitted by a pass.
// Contributions of independent passes merge commutatively.
type contribution struct {
	// key is the record the contribution belongs to.
	key Endpoint
	// origin is the active edge the contribution derives from.
	origin Edge
	// active and passive are the edges added to the record, if any.
	active  *Edge
	passive *Edge
	// constraint is set for the record of a relation-bearing property.
	constraint Constraint
	// supersedes removes every contribution derived from that edge.
	supersedes *Edge
}

// pass computes contributions from the active edges of an index.
type pass interface {
	name() string
	contribute(ix *Index, edges []Edge) []contribution
}

// activePass records each active edge on its source, the constraints
// of every relation-bearing property and a passive relation on the
// target field of composition edges.
type activePass struct{}

func (activePass) name() string { return "active" }

func (activePass) contribute(ix *Index, edges []Edge) []contribution {
	var cs []contribution
	for _, e := range ix.entities {
		for _, p := range e.properties {
			if p.multiplicity != nil {
				cs = append(cs, contribution{key: p.Endpoint(), constraint: p.multiplicity})
			}
		}
	}
	for _, edge := range edges {
		cs = append(cs, contribution{key: edge.Source, origin: edge, active: &edge})
		if !edge.Bare() {
			cs = append(cs, contribution{key: edge.Target, origin: edge, passive: &edge})
		}
	}
	return cs
}

// identityPass records every bare edge as a passive relation on the
// __identity field of its target entity.
type identityPass struct{}

func (identityPass) name() string { return "identity" }

func (identityPass) contribute(_ *Index, edges []Edge) []contribution {
	var cs []contribution
	for _, edge := range edges {
		if !edge.Bare() {
			continue
		}
		identity := edge.retarget(IdentityField)
		cs = append(cs, contribution{key: identity.Target, origin: edge, passive: &identity})
	}
	return cs
}

// oppositePass rewrites the bare edges of MM owning sides to point at
// the opposite field and records the matching passive relation there.
type oppositePass struct{}

func (oppositePass) name() string { return "opposite" }

func (oppositePass) contribute(ix *Index, edges []Edge) []contribution {
	var cs []contribution
	for _, edge := range edges {
		if !edge.Bare() {
			continue
		}
		p, ok := ix.Property(edge.Source)
		if !ok || !p.ownsOpposite(edge.Target.Entity) {
			continue
		}
		superseded := edge
		rewritten := edge.retarget(p.oppositeField)
		cs = append(cs,
			contribution{key: rewritten.Source, origin: rewritten, active: &rewritten, supersedes: &superseded},
			contribution{key: rewritten.Target, origin: rewritten, passive: &rewritten},
		)
	}
	return cs
}

// Resolver computes entity relation maps from an index.
type Resolver struct {
	index  *Index
	edges  []Edge
	logger *zap.Logger
}

// NewResolver returns a resolver over ix. A nil logger disables logging.
func NewResolver(ix *Index, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		index:  ix,
		edges:  ix.Edges(),
		logger: logger,
	}
}

// Edges returns the active edges of the index in export order.
func (r *Resolver) Edges() []Edge {
	return slices.Clone(r.edges)
}

// Resolve runs the active pass plus the selected passes and merges
// their contributions.
func (r *Resolver) Resolve(passes Passes) *EntityRelationMap {
	run := []pass{activePass{}}
	if passes.Identity {
		run = append(run, identityPass{})
	}
	if passes.Opposite {
		run = append(run, oppositePass{})
	}
	var cs []contribution
	for _, p := range run {
		out := p.contribute(r.index, r.edges)
		r.logger.Debug("resolution pass completed",
			zap.String("pass", p.name()),
			zap.Int("contributions", len(out)),
		)
		cs = append(cs, out...)
	}
	return merge(r.index, cs)
}

// recordRank orders the records of one entity: declared fields first,
// then synthetic fields by their first source edge, __identity last.
type recordRank struct {
	group int
	order order
}

func (r recordRank) less(o recordRank) bool {
	if r.group != o.group {
		return r.group < o.group
	}
	return r.order.less(o.order)
}

type recordBuilder struct {
	record *RelationRecord
	rank   recordRank
}

// merge folds contributions into a relation map. The result does not
// depend on the order of cs.
func merge(ix *Index, cs []contribution) *EntityRelationMap {
	superseded := make(map[Edge]bool)
	for _, c := range cs {
		if c.supersedes != nil {
			superseded[*c.supersedes] = true
		}
	}
	builders := make(map[Endpoint]*recordBuilder)
	builder := func(key Endpoint, rank recordRank) *recordBuilder {
		b, ok := builders[key]
		if !ok {
			b = &recordBuilder{
				record: &RelationRecord{entity: key.Entity, field: key.Field},
				rank:   rank,
			}
			builders[key] = b
		} else if rank.less(b.rank) {
			b.rank = rank
		}
		return b
	}
	for _, c := range cs {
		if superseded[c.origin] {
			continue
		}
		if c.constraint == nil && c.active == nil && c.passive == nil {
			continue
		}
		b := builder(c.key, rankOf(ix, c))
		if c.active != nil {
			b.record.active = append(b.record.active, *c.active)
		}
		if c.passive != nil {
			b.record.passive = append(b.record.passive, *c.passive)
		}
		if c.constraint != nil && !slices.Contains(b.record.constraints, c.constraint) {
			b.record.constraints = append(b.record.constraints, c.constraint)
		}
	}

	m := &EntityRelationMap{index: ix, records: make(map[Endpoint]*RelationRecord, len(builders))}
	byEntity := make(map[string][]*recordBuilder)
	for key, b := range builders {
		b.record.active = sortEdges(b.record.active)
		b.record.passive = sortEdges(b.record.passive)
		m.records[key] = b.record
		byEntity[key.Entity] = append(byEntity[key.Entity], b)
	}
	for _, e := range ix.entities {
		bs, ok := byEntity[e.name]
		if !ok {
			continue
		}
		slices.SortFunc(bs, func(a, b *recordBuilder) int {
			switch {
			case a.rank.less(b.rank):
				return -1
			case b.rank.less(a.rank):
				return 1
			}
			return 0
		})
		fields := make([]string, 0, len(bs))
		for _, b := range bs {
			fields = append(fields, b.record.field)
		}
		m.entities = append(m.entities, e.name)
		m.fields = append(m.fields, fields)
	}
	return m
}

// rankOf returns the record rank a contribution implies.
func rankOf(ix *Index, c contribution) recordRank {
	if c.key.Field == IdentityField {
		return recordRank{group: 2, order: c.origin.order}
	}
	if p, ok := ix.Property(c.key); ok {
		return recordRank{group: 0, order: order{field: p.position}}
	}
	return recordRank{group: 1, order: c.origin.order}
}

// sortEdges sorts edges into export order and drops duplicates.
func sortEdges(edges []Edge) []Edge {
	slices.SortStableFunc(edges, func(a, b Edge) int {
		switch {
		case a.order.less(b.order):
			return -1
		case b.order.less(a.order):
			return 1
		}
		return 0
	})
	return slices.Compact(edges)
}
