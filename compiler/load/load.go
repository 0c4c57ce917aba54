// Package load reads schemas from YAML and JSON files.
//
// A schema file holds a mapping of tables:
//
//	content:
//	  columns:
//	    layout:
//	      config:
//	        type: select
//	        foreign_table: layout
//
// A schema directory holds one file per table, named after the table.
package load

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/syssam/relmap/schema"
)

// Extensions lists the file extensions read as schema files.
var Extensions = []string{".yaml", ".yml", ".json"}

// File reads a schema file holding a mapping of tables.
func File(path string) (*schema.Schema, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load: reading schema file: %w", err)
	}
	var s schema.Schema
	if err := yaml.Unmarshal(buf, &s); err != nil {
		return nil, fmt.Errorf("load: decoding %s: %w", path, err)
	}
	return &s, nil
}

// Dir reads one table per schema file of dir, named by the file base
// name without extension. Tables are ordered by file name.
func Dir(dir string) (*schema.Schema, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("load: reading schema dir: %w", err)
	}
	s := schema.New()
	for _, entry := range entries {
		if entry.IsDir() || !IsSchemaFile(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		t, err := table(path)
		if err != nil {
			return nil, err
		}
		s.Merge(schema.New(t))
	}
	return s, nil
}

// Path reads a schema file, or a schema directory through Dir.
func Path(path string) (*schema.Schema, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	if info.IsDir() {
		return Dir(path)
	}
	return File(path)
}

// IsSchemaFile reports whether name has a schema file extension.
func IsSchemaFile(name string) bool {
	return slices.Contains(Extensions, strings.ToLower(filepath.Ext(name)))
}

// table reads a single table file, wrapping its content under the
// table name so that the schema decoder applies.
func table(path string) (*schema.Table, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load: reading table file: %w", err)
	}
	var node yaml.Node
	if err := yaml.Unmarshal(buf, &node); err != nil {
		return nil, fmt.Errorf("load: decoding %s: %w", path, err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	body := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null"}
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		body = node.Content[0]
	}
	root := &yaml.Node{
		Kind:    yaml.MappingNode,
		Content: []*yaml.Node{{Kind: yaml.ScalarNode, Tag: "!!str", Value: name}, body},
	}
	var s schema.Schema
	if err := root.Decode(&s); err != nil {
		return nil, fmt.Errorf("load: decoding %s: %w", path, err)
	}
	return s.Tables[0], nil
}
