// Package column provides fluent builders for schema columns.
//
//	column.Select("language").Special("languages")
//	column.Inline("images").ForeignTable("image").ForeignField("content")
//	column.Group("categories").
//	    Allowed("category").
//	    MM("categories_mm").
//	    OppositeField("items")
//
// Every builder implements schema.Descriptor and can be passed to
// schema.NewTable directly.
package column

import (
	"github.com/syssam/relmap/schema"
)

// Builder configures one column.
type Builder struct {
	desc *schema.Column
}

// New returns a builder for a column of any type.
func New(name, typ string) *Builder {
	return &Builder{desc: &schema.Column{
		Name:   name,
		Config: schema.Config{Type: typ},
	}}
}

// Input returns a builder for a plain input column.
func Input(name string) *Builder {
	return New(name, schema.TypeInput)
}

// Select returns a builder for a select column.
func Select(name string) *Builder {
	return New(name, schema.TypeSelect)
}

// Inline returns a builder for an inline (child record) column.
func Inline(name string) *Builder {
	return New(name, schema.TypeInline)
}

// Group returns a builder for a group column referencing records.
func Group(name string) *Builder {
	return New(name, schema.TypeGroup).InternalType(schema.InternalTypeDB)
}

// Passthrough returns a builder for a passthrough column, the usual
// holder of a composition back-reference.
func Passthrough(name string) *Builder {
	return New(name, schema.TypePassthrough)
}

// ForeignTable sets the referenced table.
func (b *Builder) ForeignTable(table string) *Builder {
	b.desc.Config.ForeignTable = table
	return b
}

// ForeignField sets the back-reference column on the foreign table.
func (b *Builder) ForeignField(field string) *Builder {
	b.desc.Config.ForeignField = field
	return b
}

// Allowed sets the comma separated list of referenced tables, or "*".
func (b *Builder) Allowed(tables string) *Builder {
	b.desc.Config.Allowed = tables
	return b
}

// InternalType sets the internal type of a group column.
func (b *Builder) InternalType(typ string) *Builder {
	b.desc.Config.InternalType = typ
	return b
}

// Special sets the special option, e.g. "languages".
func (b *Builder) Special(special string) *Builder {
	b.desc.Config.Special = special
	return b
}

// MM sets the many-to-many junction table.
func (b *Builder) MM(table string) *Builder {
	b.desc.Config.MM = table
	return b
}

// OppositeField sets the paired column on the other side of the junction.
func (b *Builder) OppositeField(field string) *Builder {
	b.desc.Config.MMOppositeField = field
	return b
}

// OppositeUsage declares columns of table that use this column as their
// MM opposite. Repeated calls for the same table append columns.
func (b *Builder) OppositeUsage(table string, columns ...string) *Builder {
	usages := b.desc.Config.MMOppositeUsage
	for i := range usages {
		if usages[i].Table == table {
			usages[i].Columns = append(usages[i].Columns, columns...)
			return b
		}
	}
	b.desc.Config.MMOppositeUsage = append(usages, schema.OppositeUsage{Table: table, Columns: columns})
	return b
}

// MinItems sets the lower multiplicity bound.
func (b *Builder) MinItems(n int) *Builder {
	b.desc.Config.MinItems = &n
	return b
}

// MaxItems sets the upper multiplicity bound.
func (b *Builder) MaxItems(n int) *Builder {
	b.desc.Config.MaxItems = &n
	return b
}

// Descriptor implements the schema.Descriptor interface.
func (b *Builder) Descriptor() *schema.Column {
	return b.desc
}
