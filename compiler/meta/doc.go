// Package meta resolves the relation graph of a schema.
//
// A schema is first classified into an Index of entities and properties.
// Every select, inline and group column that references other tables
// becomes a relation-bearing Property with a Kind and a Multiplicity.
// A Resolver then runs up to three passes over the active edges of the
// index:
//
//   - the active pass records each edge on its source field, plus a
//     passive relation on the target field of compositions
//   - the identity pass records bare edges as passive relations on the
//     synthetic __identity field of the target entity
//   - the opposite pass points MM owning sides at their opposite field
//     and records the matching passive relation there
//
// The Factory selects passes from an Instruction and merges their output
// into an EntityRelationMap, which exports to JSON, YAML or msgpack:
//
//	f, err := meta.NewFactory(meta.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	m, err := f.Create(s, meta.InstructionIdentity|meta.InstructionOpposite)
//	if err != nil {
//		return err
//	}
//	out := m.Export(true)
package meta
