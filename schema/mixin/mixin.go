// Package mixin provides reusable column sets for schema tables.
//
// A mixin contributes columns that many tables share, such as the
// language column or an MM category relation:
//
//	mixin.Table("content",
//	    []mixin.Mixin{
//	        mixin.Language{},
//	        mixin.Categories{MM: "categories_mm"},
//	    },
//	    column.Input("title"),
//	)
//
// Custom mixins embed Schema and override Columns:
//
//	type Layout struct {
//	    mixin.Schema
//	}
//
//	func (Layout) Columns() []schema.Descriptor {
//	    return []schema.Descriptor{
//	        column.Select("layout").ForeignTable("layout"),
//	    }
//	}
package mixin

import (
	"github.com/syssam/relmap/schema"
	"github.com/syssam/relmap/schema/column"
)

// Mixin is a reusable set of columns.
type Mixin interface {
	Columns() []schema.Descriptor
}

// Schema is the default implementation for the Mixin interface.
// It should be embedded in all custom mixin definitions.
type Schema struct{}

// Columns returns the columns of the mixin.
func (Schema) Columns() []schema.Descriptor { return nil }

var _ Mixin = (*Schema)(nil)

// Table returns a table holding the mixin columns followed by columns.
// Mixins are applied in order. A later column replaces an earlier one
// of the same name in place.
func Table(name string, mixins []Mixin, columns ...schema.Descriptor) *schema.Table {
	var all []schema.Descriptor
	for _, m := range mixins {
		all = append(all, m.Columns()...)
	}
	all = append(all, columns...)

	t := schema.NewTable(name)
	index := make(map[string]int, len(all))
	for _, d := range all {
		c := d.Descriptor()
		if i, ok := index[c.Name]; ok {
			t.Columns[i] = c
			continue
		}
		index[c.Name] = len(t.Columns)
		t.Columns = append(t.Columns, c)
	}
	return t
}

// Language adds a select column pointing at the language table.
type Language struct {
	Schema
	// Name of the column. Defaults to "language".
	Name string
}

// Columns returns the language column.
func (l Language) Columns() []schema.Descriptor {
	name := l.Name
	if name == "" {
		name = "language"
	}
	return []schema.Descriptor{
		column.Select(name).Special(schema.SpecialLanguages),
	}
}

// Categories adds the owning side of an MM relation to a category table.
type Categories struct {
	Schema
	// Name of the column. Defaults to "categories".
	Name string
	// Table is the category table. Defaults to "category".
	Table string
	// MM is the junction table. Required.
	MM string
	// Opposite is the column on the category table listing the
	// categorized records. Defaults to "items".
	Opposite string
}

// Columns returns the categories column.
func (c Categories) Columns() []schema.Descriptor {
	return []schema.Descriptor{
		column.Group(or(c.Name, "categories")).
			Allowed(or(c.Table, "category")).
			MM(c.MM).
			OppositeField(or(c.Opposite, "items")),
	}
}

// CategoryItems adds the opposite side of Categories: a wildcard group
// column sharing the junction table, declaring the tables and columns
// that point at it.
type CategoryItems struct {
	Schema
	// Name of the column. Defaults to "items".
	Name string
	// MM is the junction table. Required.
	MM string
	// Usage lists the owning columns per table.
	Usage schema.OppositeUsages
}

// Columns returns the items column.
func (c CategoryItems) Columns() []schema.Descriptor {
	b := column.Group(or(c.Name, "items")).Allowed(schema.Wildcard).MM(c.MM)
	for _, u := range c.Usage {
		b.OppositeUsage(u.Table, u.Columns...)
	}
	return []schema.Descriptor{b}
}

func or(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
