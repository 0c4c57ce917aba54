package schema

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML decodes a schema of the shape
//
//	content:
//	  columns:
//	    layout:
//	      config:
//	        type: select
//	        foreign_table: layout
//
// keeping the order of tables and columns. Since JSON is valid YAML,
// the same decoder reads JSON schemas.
func (s *Schema) UnmarshalYAML(value *yaml.Node) error {
	value = document(value)
	switch value.Kind {
	case 0:
		return nil
	case yaml.ScalarNode:
		if value.ShortTag() == "!!null" {
			return nil
		}
	case yaml.MappingNode:
		tables := make([]*Table, 0, len(value.Content)/2)
		for i := 0; i+1 < len(value.Content); i += 2 {
			t := &Table{Name: value.Content[i].Value}
			if err := t.decode(value.Content[i+1]); err != nil {
				return err
			}
			tables = append(tables, t)
		}
		s.Tables = tables
		return nil
	}
	return fmt.Errorf("schema: line %d: expected a mapping of tables", value.Line)
}

func (t *Table) decode(value *yaml.Node) error {
	if isNull(value) {
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("schema: table %q (line %d): expected a mapping", t.Name, value.Line)
	}
	columns := lookup(value, "columns")
	if columns == nil || isNull(columns) {
		return nil
	}
	if columns.Kind != yaml.MappingNode {
		return fmt.Errorf("schema: table %q (line %d): columns must be a mapping", t.Name, columns.Line)
	}
	for i := 0; i+1 < len(columns.Content); i += 2 {
		c := &Column{Name: columns.Content[i].Value}
		if err := c.decode(columns.Content[i+1]); err != nil {
			return fmt.Errorf("schema: column %s.%s: %w", t.Name, c.Name, err)
		}
		t.Columns = append(t.Columns, c)
	}
	return nil
}

func (c *Column) decode(value *yaml.Node) error {
	if isNull(value) {
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping", value.Line)
	}
	config := lookup(value, "config")
	if config == nil || isNull(config) {
		return nil
	}
	return config.Decode(&c.Config)
}

// UnmarshalYAML decodes the table -> [column] mapping of MM_oppositeUsage
// in declaration order.
func (u *OppositeUsages) UnmarshalYAML(value *yaml.Node) error {
	if isNull(value) {
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: MM_oppositeUsage must be a mapping", value.Line)
	}
	usages := make(OppositeUsages, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		usage := OppositeUsage{Table: value.Content[i].Value}
		if err := value.Content[i+1].Decode(&usage.Columns); err != nil {
			return fmt.Errorf("MM_oppositeUsage %q: %w", usage.Table, err)
		}
		usages = append(usages, usage)
	}
	*u = usages
	return nil
}

// document unwraps a document node to its root content.
func document(n *yaml.Node) *yaml.Node {
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		return n.Content[0]
	}
	return n
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}

// lookup returns the value node of key in a mapping node.
func lookup(n *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}
