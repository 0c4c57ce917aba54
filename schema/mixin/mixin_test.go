package mixin_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/relmap/schema"
	"github.com/syssam/relmap/schema/column"
	"github.com/syssam/relmap/schema/mixin"
)

// layoutMixin is a custom mixin for testing.
type layoutMixin struct {
	mixin.Schema
}

func (layoutMixin) Columns() []schema.Descriptor {
	return []schema.Descriptor{
		column.Select("layout").ForeignTable("layout"),
		column.Input("title"),
	}
}

func TestSchemaBaseMixin(t *testing.T) {
	assert.Nil(t, mixin.Schema{}.Columns())
	var _ mixin.Mixin = mixin.Schema{}
}

func TestTable(t *testing.T) {
	table := mixin.Table("content",
		[]mixin.Mixin{mixin.Language{}, layoutMixin{}},
		column.Input("text"),
		column.Input("title").MaxItems(1),
	)
	require.Len(t, table.Columns, 4)
	assert.Equal(t, "content", table.Name)

	var names []string
	for _, c := range table.Columns {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"language", "layout", "title", "text"}, names)

	title, ok := table.Column("title")
	require.True(t, ok)
	require.NotNil(t, title.Config.MaxItems, "later column replaces the mixin column")
}

func TestBuiltinMixins(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		mixin    mixin.Mixin
		validate func(t *testing.T, c *schema.Column)
	}{
		{
			name:  "language_default",
			mixin: mixin.Language{},
			validate: func(t *testing.T, c *schema.Column) {
				assert.Equal(t, "language", c.Name)
				assert.Equal(t, schema.TypeSelect, c.Config.Type)
				assert.Equal(t, schema.SpecialLanguages, c.Config.Special)
			},
		},
		{
			name:  "language_named",
			mixin: mixin.Language{Name: "sys_language_uid"},
			validate: func(t *testing.T, c *schema.Column) {
				assert.Equal(t, "sys_language_uid", c.Name)
			},
		},
		{
			name:  "categories",
			mixin: mixin.Categories{MM: "categories_mm"},
			validate: func(t *testing.T, c *schema.Column) {
				assert.Equal(t, "categories", c.Name)
				assert.Equal(t, "category", c.Config.Allowed)
				assert.Equal(t, "categories_mm", c.Config.MM)
				assert.Equal(t, "items", c.Config.MMOppositeField)
			},
		},
		{
			name: "category_items",
			mixin: mixin.CategoryItems{
				MM:    "categories_mm",
				Usage: schema.OppositeUsages{{Table: "content", Columns: []string{"categories"}}},
			},
			validate: func(t *testing.T, c *schema.Column) {
				assert.Equal(t, "items", c.Name)
				assert.Equal(t, schema.Wildcard, c.Config.Allowed)
				assert.Equal(t, schema.OppositeUsages{{Table: "content", Columns: []string{"categories"}}}, c.Config.MMOppositeUsage)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			columns := tt.mixin.Columns()
			require.Len(t, columns, 1)
			tt.validate(t, columns[0].Descriptor())
		})
	}
}
