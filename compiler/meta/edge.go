package meta

// IdentityField is the synthetic field that collects identity passive
// relations on a referenced entity.
const IdentityField = "__identity"

// Endpoint addresses an entity or one of its fields.
type Endpoint struct {
	Entity string
	Field  string // empty for a bare entity reference
}

// String returns "entity" or "entity.field".
func (e Endpoint) String() string {
	if e.Field == "" {
		return e.Entity
	}
	return e.Entity + "." + e.Field
}

// Edge is a directed relation from a property to an entity or to a
// field of an entity.
type Edge struct {
	Source Endpoint
	Target Endpoint
	order  order
}

// order places an edge by the schema positions of its source entity,
// source field and target, which is the order relations are exported in.
type order struct {
	entity int
	field  int
	target int
}

func (o order) less(p order) bool {
	if o.entity != p.entity {
		return o.entity < p.entity
	}
	if o.field != p.field {
		return o.field < p.field
	}
	return o.target < p.target
}

// String returns the active form "a.x -> b" or "a.x -> b.y".
func (e Edge) String() string {
	return e.Source.String() + " -> " + e.Target.String()
}

// Passive returns the passive form "b.y <- a.x" as seen from the target.
func (e Edge) Passive() string {
	return e.Target.String() + " <- " + e.Source.String()
}

// Bare reports whether the edge targets an entity rather than a field.
func (e Edge) Bare() bool {
	return e.Target.Field == ""
}

// retarget returns a copy of the edge pointing at field of the same
// target entity, keeping the export position.
func (e Edge) retarget(field string) Edge {
	e.Target = Endpoint{Entity: e.Target.Entity, Field: field}
	return e
}
