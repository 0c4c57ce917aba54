// Package schema provides the raw input model of the relation resolver.
//
// A Schema is an ordered list of tables, each table an ordered list of
// columns, each column a Config holding the recognized options:
//
//   - type: select, group, inline, passthrough or any plain value type
//   - foreign_table / foreign_field: the referenced table and, for
//     compositions, the back-reference column on it
//   - allowed: a comma separated list of tables, or "*" for any table
//   - internal_type: "db" for group columns that reference records
//   - special: "languages" for columns pointing at the language table
//   - MM / MM_opposite_field / MM_oppositeUsage: many-to-many junction
//     table and the paired column on the other side
//   - minitems / maxitems: multiplicity bounds
//
// # Decoding
//
// Schemas decode from YAML or JSON with table and column order kept:
//
//	category:
//	  columns:
//	    items:
//	      config:
//	        type: group
//	        internal_type: db
//	        allowed: '*'
//	        MM: categories_mm
//	        MM_oppositeUsage:
//	          content: [categories]
//
// # Building in Go
//
// The column subpackage offers fluent builders:
//
//	schema.New(
//	    schema.NewTable("content",
//	        column.Select("layout").ForeignTable("layout"),
//	        column.Group("related").Allowed("content,image"),
//	    ),
//	    schema.NewTable("layout", column.Input("identifier")),
//	)
package schema
