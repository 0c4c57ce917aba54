package meta

import "slices"

// RelationRecord holds the relations of one (entity, field) pair.
type RelationRecord struct {
	entity      string
	field       string
	active      []Edge
	passive     []Edge
	constraints []Constraint
}

// Entity returns the entity name of the record.
func (r *RelationRecord) Entity() string { return r.entity }

// Field returns the field name of the record.
func (r *RelationRecord) Field() string { return r.field }

// Active returns the outgoing edges in export order.
func (r *RelationRecord) Active() []Edge { return slices.Clone(r.active) }

// Passive returns the incoming edges in export order.
func (r *RelationRecord) Passive() []Edge { return slices.Clone(r.passive) }

// Constraints returns the constraints of the field.
func (r *RelationRecord) Constraints() []Constraint { return slices.Clone(r.constraints) }

// Empty reports whether the record carries no relations.
func (r *RelationRecord) Empty() bool {
	return len(r.active) == 0 && len(r.passive) == 0
}

// EntityRelationMap is the resolved relation graph of a schema. It is
// immutable and safe for concurrent use.
type EntityRelationMap struct {
	index    *Index
	entities []string
	fields   [][]string
	records  map[Endpoint]*RelationRecord
}

// Index returns the index the map was resolved from.
func (m *EntityRelationMap) Index() *Index { return m.index }

// Entities returns the entities holding at least one record, in schema order.
func (m *EntityRelationMap) Entities() []string {
	return slices.Clone(m.entities)
}

// Fields returns the record fields of an entity in export order.
func (m *EntityRelationMap) Fields(entity string) []string {
	i := slices.Index(m.entities, entity)
	if i < 0 {
		return nil
	}
	return slices.Clone(m.fields[i])
}

// Record returns the record of the given field.
func (m *EntityRelationMap) Record(entity, field string) (*RelationRecord, bool) {
	r, ok := m.records[Endpoint{Entity: entity, Field: field}]
	return r, ok
}

// Len returns the number of records.
func (m *EntityRelationMap) Len() int { return len(m.records) }

// Records calls fn for every record in export order until fn returns false.
func (m *EntityRelationMap) Records(fn func(*RelationRecord) bool) {
	for i, entity := range m.entities {
		for _, field := range m.fields[i] {
			if !fn(m.records[Endpoint{Entity: entity, Field: field}]) {
				return
			}
		}
	}
}
