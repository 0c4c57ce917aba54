// Package relmap resolves the relation graph of a declarative table schema.
//
// A schema lists tables and their columns; some columns reference other
// tables through options such as foreign_table, allowed or MM. The
// compiler/meta package turns such a schema into an EntityRelationMap that
// records, per table and column, the active relations it originates, the
// passive relations other columns point at it, and the multiplicity of the
// column:
//
//	s, err := load.Path("schema.yaml")
//	if err != nil {
//		return err
//	}
//	factory, err := meta.NewFactory()
//	if err != nil {
//		return err
//	}
//	m, err := factory.Create(s, meta.InstructionAll)
//	if err != nil {
//		return err
//	}
//	enc := json.NewEncoder(os.Stdout)
//	enc.SetEscapeHTML(false) // keep "->" and "<-" readable
//	err = enc.Encode(m.Export(true))
//
// This root package holds the error sentinels shared by all packages and
// the Cache abstraction used by meta.CachedFactory.
package relmap
