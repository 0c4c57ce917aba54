package meta

import (
	"fmt"

	"github.com/syssam/relmap"
	"github.com/syssam/relmap/schema"
)

// Entity is a classified table.
type Entity struct {
	name       string
	position   int
	properties []*Property
	byName     map[string]*Property
}

// Name returns the entity name.
func (e *Entity) Name() string { return e.name }

// Position returns the declaration index of the entity.
func (e *Entity) Position() int { return e.position }

// Properties returns the properties in declaration order.
func (e *Entity) Properties() []*Property {
	return append([]*Property(nil), e.properties...)
}

// Property returns the property with the given name.
func (e *Entity) Property(name string) (*Property, bool) {
	p, ok := e.byName[name]
	return p, ok
}

// Index is the read-only, validated view of a schema that resolution
// passes work on. It is safe for concurrent use once built.
type Index struct {
	entities []*Entity
	byName   map[string]*Entity
	names    []string
}

// NewIndex classifies and validates s. All schema errors are reported
// together as a relmap.AggregateError.
func NewIndex(s *schema.Schema, opts ...Option) (*Index, error) {
	c, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	return newIndex(s, c)
}

func newIndex(s *schema.Schema, c *Config) (*Index, error) {
	if s == nil {
		return nil, NewSchemaError("", "", "schema is nil", nil)
	}
	ix := &Index{byName: make(map[string]*Entity, len(s.Tables))}
	var errs []error
	for _, t := range s.Tables {
		switch {
		case t == nil || t.Name == "":
			errs = append(errs, NewSchemaError("", "", "table without a name", nil))
			continue
		case ix.byName[t.Name] != nil:
			errs = append(errs, NewSchemaError(t.Name, "", "duplicate table", nil))
			continue
		}
		e := &Entity{
			name:     t.Name,
			position: len(ix.entities),
			byName:   make(map[string]*Property, len(t.Columns)),
		}
		for _, col := range t.Columns {
			switch {
			case col == nil || col.Name == "":
				errs = append(errs, NewSchemaError(t.Name, "", "column without a name", nil))
				continue
			case e.byName[col.Name] != nil:
				errs = append(errs, NewSchemaError(t.Name, col.Name, "duplicate column", nil))
				continue
			}
			p, err := newProperty(e, len(e.properties), col, c.LanguageTable)
			if err != nil {
				errs = append(errs, NewSchemaError(t.Name, col.Name, "", err))
				continue
			}
			e.properties = append(e.properties, p)
			e.byName[p.name] = p
		}
		ix.entities = append(ix.entities, e)
		ix.byName[e.name] = e
		ix.names = append(ix.names, e.name)
	}
	for _, e := range ix.entities {
		for _, p := range e.properties {
			errs = append(errs, ix.validate(p)...)
		}
	}
	if err := relmap.NewAggregateError(errs...); err != nil {
		return nil, err
	}
	return ix, nil
}

// validate checks the references of p against the index.
func (ix *Index) validate(p *Property) []error {
	if !p.kind.Active() {
		return nil
	}
	var (
		errs []error
		e    = p.entity.name
	)
	fail := func(format string, args ...any) {
		errs = append(errs, NewSchemaError(e, p.name, fmt.Sprintf(format, args...), nil))
	}
	for _, t := range p.targets {
		if !ix.Has(t) {
			fail("unknown target entity %q", t)
		}
	}
	if p.oppositeField != "" {
		switch {
		case p.junction == "":
			fail("MM_opposite_field %q requires an MM junction table", p.oppositeField)
		case p.kind == WildcardReference:
			fail("MM_opposite_field %q cannot be used with allowed %q", p.oppositeField, schema.Wildcard)
		default:
			for _, t := range p.targets {
				target, ok := ix.byName[t]
				if !ok {
					continue
				}
				opposite, ok := target.byName[p.oppositeField]
				switch {
				case !ok:
					fail("opposite field %s.%s is not defined", t, p.oppositeField)
				case opposite.junction != p.junction:
					fail("opposite field %s.%s does not share junction table %q", t, p.oppositeField, p.junction)
				}
			}
		}
	}
	if len(p.oppositeUsage) > 0 && p.junction == "" {
		fail("MM_oppositeUsage requires an MM junction table")
		return errs
	}
	for _, usage := range p.oppositeUsage {
		owner, ok := ix.byName[usage.Table]
		if !ok {
			fail("MM_oppositeUsage names unknown entity %q", usage.Table)
			continue
		}
		for _, name := range usage.Columns {
			f, ok := owner.byName[name]
			switch {
			case !ok:
				fail("MM_oppositeUsage names unknown field %s.%s", usage.Table, name)
			case f.junction != p.junction:
				fail("MM_oppositeUsage field %s.%s does not share junction table %q", usage.Table, name, p.junction)
			case f.oppositeField != p.name:
				fail("MM_oppositeUsage field %s.%s does not declare %q as its opposite field", usage.Table, name, p.name)
			}
		}
	}
	return errs
}

// Entities returns the entities in schema order.
func (ix *Index) Entities() []*Entity {
	return append([]*Entity(nil), ix.entities...)
}

// Entity returns the entity with the given name.
func (ix *Index) Entity(name string) (*Entity, bool) {
	e, ok := ix.byName[name]
	return e, ok
}

// Has reports whether the schema defines the entity.
func (ix *Index) Has(name string) bool {
	_, ok := ix.byName[name]
	return ok
}

// Names returns the entity names in schema order.
func (ix *Index) Names() []string {
	return append([]string(nil), ix.names...)
}

// Len returns the number of entities.
func (ix *Index) Len() int { return len(ix.entities) }

// Property returns the property addressed by the endpoint.
func (ix *Index) Property(ep Endpoint) (*Property, bool) {
	e, ok := ix.byName[ep.Entity]
	if !ok {
		return nil, false
	}
	return e.Property(ep.Field)
}

// Targets returns the target entities of p, expanding a wildcard to
// every entity of the schema in schema order.
func (ix *Index) Targets(p *Property) []string {
	if p.kind == WildcardReference {
		return ix.Names()
	}
	return p.Targets()
}

// Edges returns the active edges of all properties in export order.
func (ix *Index) Edges() []Edge {
	var edges []Edge
	for _, e := range ix.entities {
		for _, p := range e.properties {
			edges = append(edges, ix.edges(p)...)
		}
	}
	return edges
}

func (ix *Index) edges(p *Property) []Edge {
	if !p.kind.Active() {
		return nil
	}
	targets := ix.Targets(p)
	edges := make([]Edge, 0, len(targets))
	for i, t := range targets {
		edges = append(edges, Edge{
			Source: p.Endpoint(),
			Target: Endpoint{Entity: t, Field: p.foreignField},
			order:  order{entity: p.entity.position, field: p.position, target: i},
		})
	}
	return edges
}
