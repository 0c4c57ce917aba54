package meta

import (
	"slices"
	"strings"

	"github.com/syssam/relmap/schema"
)

// Kind classifies how a property takes part in relations.
type Kind uint8

// Property kinds.
const (
	// NoRelation is a plain value property.
	NoRelation Kind = iota
	// SingleReference points at one record of one entity.
	SingleReference
	// MultiReference points at records of one or more named entities.
	MultiReference
	// WildcardReference points at records of any entity of the schema.
	WildcardReference
	// PassiveReference is a back-reference owned by another property.
	PassiveReference
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case NoRelation:
		return "none"
	case SingleReference:
		return "single"
	case MultiReference:
		return "multi"
	case WildcardReference:
		return "wildcard"
	case PassiveReference:
		return "passive"
	default:
		return "unknown"
	}
}

// Active reports whether properties of the kind own outgoing edges.
func (k Kind) Active() bool {
	return k == SingleReference || k == MultiReference || k == WildcardReference
}

// Property is one classified field of an entity.
type Property struct {
	entity        *Entity
	name          string
	position      int
	kind          Kind
	targets       []string
	foreignField  string
	junction      string
	oppositeField string
	oppositeUsage schema.OppositeUsages
	multiplicity  *Multiplicity
	config        schema.Config
}

// Entity returns the owning entity.
func (p *Property) Entity() *Entity { return p.entity }

// Name returns the field name.
func (p *Property) Name() string { return p.name }

// Position returns the declaration index of the field in its entity.
func (p *Property) Position() int { return p.position }

// Kind returns the relation kind.
func (p *Property) Kind() Kind { return p.kind }

// Endpoint returns the (entity, field) pair of the property.
func (p *Property) Endpoint() Endpoint {
	return Endpoint{Entity: p.entity.name, Field: p.name}
}

// Targets returns the declared target entities. It is empty for
// wildcard references; use Index.Targets for the expanded list.
func (p *Property) Targets() []string {
	return append([]string(nil), p.targets...)
}

// ForeignField returns the field on the target entity that composition
// edges point at, if any.
func (p *Property) ForeignField() string { return p.foreignField }

// JunctionTable returns the MM junction table name, if any.
func (p *Property) JunctionTable() string { return p.junction }

// OppositeField returns the MM opposite field on the target entities.
func (p *Property) OppositeField() string { return p.oppositeField }

// OppositeUsage returns the declared MM_oppositeUsage entries.
func (p *Property) OppositeUsage() schema.OppositeUsages { return p.oppositeUsage }

// Multiplicity returns the multiplicity of active properties, nil otherwise.
func (p *Property) Multiplicity() *Multiplicity { return p.multiplicity }

// Constraints returns the constraints of the property.
func (p *Property) Constraints() []Constraint {
	if p.multiplicity == nil {
		return nil
	}
	return []Constraint{p.multiplicity}
}

// Config returns the raw column configuration.
func (p *Property) Config() schema.Config { return p.config }

// ownsOpposite reports whether edges of p to target are rewritten by
// the opposite pass. A field declared as its own opposite is skipped.
func (p *Property) ownsOpposite(target string) bool {
	if p.junction == "" || p.oppositeField == "" || p.foreignField != "" {
		return false
	}
	return target != p.entity.name || p.oppositeField != p.name
}

// newProperty classifies column c of entity e.
func newProperty(e *Entity, position int, c *schema.Column, languageTable string) (*Property, error) {
	cfg := c.Config
	p := &Property{
		entity:   e,
		name:     c.Name,
		position: position,
		config:   cfg,
	}
	maximum := Unbounded
	switch cfg.Type {
	case schema.TypeSelect:
		switch {
		case cfg.Special == schema.SpecialLanguages:
			p.kind, p.targets, maximum = SingleReference, []string{languageTable}, 1
		case cfg.ForeignTable != "":
			p.kind, p.targets = SingleReference, []string{cfg.ForeignTable}
		}
	case schema.TypeInline:
		if cfg.ForeignTable != "" {
			p.kind, p.targets = MultiReference, []string{cfg.ForeignTable}
		}
	case schema.TypeGroup:
		if cfg.InternalType != "" && cfg.InternalType != schema.InternalTypeDB {
			break
		}
		allowed := splitList(cfg.Allowed)
		switch {
		case slices.Contains(allowed, schema.Wildcard):
			p.kind = WildcardReference
		case len(allowed) > 0:
			p.kind, p.targets = MultiReference, allowed
		case cfg.ForeignTable != "":
			p.kind, p.targets = MultiReference, []string{cfg.ForeignTable}
		}
	case schema.TypePassthrough:
		p.kind = PassiveReference
	}
	if !p.kind.Active() {
		return p, nil
	}
	if p.kind != WildcardReference {
		p.foreignField = cfg.ForeignField
	}
	p.junction = cfg.MM
	p.oppositeField = cfg.MMOppositeField
	p.oppositeUsage = cfg.MMOppositeUsage

	minimum := 0
	if cfg.MinItems != nil {
		minimum = *cfg.MinItems
	}
	if cfg.MaxItems != nil {
		maximum = *cfg.MaxItems
		// A declared maximum is always a count; Unbounded is only the default.
		if maximum < 0 {
			return nil, NewRangeError(e.name, p.name, minimum, maximum)
		}
	}
	m, err := NewMultiplicity(p, minimum, maximum)
	if err != nil {
		return nil, err
	}
	p.multiplicity = m
	if p.kind == MultiReference && maximum == 1 {
		p.kind = SingleReference
	}
	return p, nil
}

// splitList splits a comma separated list, trimming entries and
// dropping empty and repeated ones.
func splitList(s string) []string {
	var list []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" && !slices.Contains(list, item) {
			list = append(list, item)
		}
	}
	return list
}
