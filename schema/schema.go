package schema

// Column types that carry relation semantics. Any other type
// (input, text, check, ...) is a plain value column.
const (
	TypeSelect      = "select"
	TypeGroup       = "group"
	TypeInline      = "inline"
	TypePassthrough = "passthrough"
	TypeInput       = "input"
)

// Option values with a fixed meaning.
const (
	// InternalTypeDB marks a group column that references records.
	InternalTypeDB = "db"
	// SpecialLanguages marks a select column pointing at the language table.
	SpecialLanguages = "languages"
	// Wildcard as the allowed value means "any table of the schema".
	Wildcard = "*"
)

type (
	// Schema is an ordered set of tables. Table order is the declaration
	// order of the source and is preserved by every consumer.
	Schema struct {
		Tables []*Table `msgpack:"tables"`
	}

	// Table holds the columns of one entity in declaration order.
	Table struct {
		Name    string    `msgpack:"name"`
		Columns []*Column `msgpack:"columns"`
	}

	// Column is one field of a table with its raw configuration.
	Column struct {
		Name   string `msgpack:"name"`
		Config Config `msgpack:"config"`
	}

	// Config holds the recognized column options. Unrecognized options
	// are dropped while decoding.
	Config struct {
		Type            string         `yaml:"type" msgpack:"type,omitempty"`
		ForeignTable    string         `yaml:"foreign_table" msgpack:"foreign_table,omitempty"`
		ForeignField    string         `yaml:"foreign_field" msgpack:"foreign_field,omitempty"`
		MM              string         `yaml:"MM" msgpack:"mm,omitempty"`
		MMOppositeField string         `yaml:"MM_opposite_field" msgpack:"mm_opposite_field,omitempty"`
		MMOppositeUsage OppositeUsages `yaml:"MM_oppositeUsage" msgpack:"mm_opposite_usage,omitempty"`
		Allowed         string         `yaml:"allowed" msgpack:"allowed,omitempty"`
		InternalType    string         `yaml:"internal_type" msgpack:"internal_type,omitempty"`
		Special         string         `yaml:"special" msgpack:"special,omitempty"`
		MinItems        *int           `yaml:"minitems" msgpack:"minitems,omitempty"`
		MaxItems        *int           `yaml:"maxitems" msgpack:"maxitems,omitempty"`
	}

	// OppositeUsage names the columns of one table that declare the owning
	// column as their MM opposite.
	OppositeUsage struct {
		Table   string   `msgpack:"table"`
		Columns []string `msgpack:"columns"`
	}

	// OppositeUsages keeps MM_oppositeUsage entries in declaration order.
	OppositeUsages []OppositeUsage
)

// Descriptor is implemented by everything that can describe a column,
// the column builders of package column included.
type Descriptor interface {
	Descriptor() *Column
}

// Descriptor implements the Descriptor interface.
func (c *Column) Descriptor() *Column { return c }

// New returns a schema holding the given tables in order.
func New(tables ...*Table) *Schema {
	return &Schema{Tables: tables}
}

// NewTable returns a table with the given columns in order.
func NewTable(name string, columns ...Descriptor) *Table {
	t := &Table{Name: name, Columns: make([]*Column, 0, len(columns))}
	for _, c := range columns {
		t.Columns = append(t.Columns, c.Descriptor())
	}
	return t
}

// Table returns the table with the given name.
func (s *Schema) Table(name string) (*Table, bool) {
	for _, t := range s.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// Names returns the table names in declaration order.
func (s *Schema) Names() []string {
	names := make([]string, 0, len(s.Tables))
	for _, t := range s.Tables {
		names = append(names, t.Name)
	}
	return names
}

// Merge appends the tables of o to s. It is used by loaders that read
// one table per file.
func (s *Schema) Merge(o *Schema) {
	s.Tables = append(s.Tables, o.Tables...)
}

// Column returns the column with the given name.
func (t *Table) Column(name string) (*Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Lookup returns the column names declared for the given table.
func (u OppositeUsages) Lookup(table string) ([]string, bool) {
	for _, usage := range u {
		if usage.Table == table {
			return usage.Columns, true
		}
	}
	return nil, false
}
