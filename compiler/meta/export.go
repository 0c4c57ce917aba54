package meta

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"
)

// Relations holds the rendered edges of a record.
type Relations struct {
	Active  []string `json:"active,omitempty" yaml:"active,omitempty" msgpack:"active,omitempty"`
	Passive []string `json:"passive,omitempty" yaml:"passive,omitempty" msgpack:"passive,omitempty"`
}

// Record is the exported form of a RelationRecord. A field without
// relations exports as an empty record.
type Record struct {
	Relations   *Relations `json:"relations,omitempty" yaml:"relations,omitempty" msgpack:"relations,omitempty"`
	Constraints []string   `json:"constraints,omitempty" yaml:"constraints,omitempty" msgpack:"constraints,omitempty"`
}

type fieldMap = orderedmap.OrderedMap[string, Record]

// Export is the nested entity -> field -> record form of a relation map,
// keeping export order through JSON, YAML and msgpack encoding. The zero
// value is an empty export.
type Export struct {
	entities *orderedmap.OrderedMap[string, *fieldMap]
}

// NewExport returns an empty export.
func NewExport() *Export {
	return &Export{entities: orderedmap.New[string, *fieldMap]()}
}

// Export renders the map. Constraints are included only when
// includeConstraints is set and the record has active relations.
func (m *EntityRelationMap) Export(includeConstraints bool) *Export {
	out := NewExport()
	m.Records(func(r *RelationRecord) bool {
		var rec Record
		if !r.Empty() {
			rec.Relations = &Relations{
				Active:  render(r.active, Edge.String),
				Passive: render(r.passive, Edge.Passive),
			}
		}
		if includeConstraints && len(r.active) > 0 {
			for _, c := range r.constraints {
				rec.Constraints = append(rec.Constraints, c.String())
			}
		}
		out.Set(r.entity, r.field, rec)
		return true
	})
	return out
}

func render(edges []Edge, fn func(Edge) string) []string {
	if len(edges) == 0 {
		return nil
	}
	out := make([]string, 0, len(edges))
	for _, e := range edges {
		out = append(out, fn(e))
	}
	return out
}

// Set stores the record of entity.field, appending new keys in order.
func (e *Export) Set(entity, field string, r Record) {
	if e.entities == nil {
		e.entities = orderedmap.New[string, *fieldMap]()
	}
	fields, ok := e.entities.Get(entity)
	if !ok {
		fields = orderedmap.New[string, Record]()
		e.entities.Set(entity, fields)
	}
	fields.Set(field, r)
}

// Entities returns the exported entity names in order.
func (e *Export) Entities() []string {
	names := make([]string, 0, e.Len())
	for p := e.oldest(); p != nil; p = p.Next() {
		names = append(names, p.Key)
	}
	return names
}

// Fields returns the exported fields of an entity in order.
func (e *Export) Fields(entity string) []string {
	fields, ok := e.fields(entity)
	if !ok {
		return nil
	}
	names := make([]string, 0, fields.Len())
	for p := fields.Oldest(); p != nil; p = p.Next() {
		names = append(names, p.Key)
	}
	return names
}

// Record returns the exported record of entity.field.
func (e *Export) Record(entity, field string) (Record, bool) {
	fields, ok := e.fields(entity)
	if !ok {
		return Record{}, false
	}
	return fields.Get(field)
}

// Len returns the number of exported entities.
func (e *Export) Len() int {
	if e.entities == nil {
		return 0
	}
	return e.entities.Len()
}

func (e *Export) oldest() *orderedmap.Pair[string, *fieldMap] {
	if e.entities == nil {
		return nil
	}
	return e.entities.Oldest()
}

func (e *Export) fields(entity string) (*fieldMap, bool) {
	if e.entities == nil {
		return nil, false
	}
	return e.entities.Get(entity)
}

// ToMap returns the export as plain nested maps, losing order.
func (e *Export) ToMap() map[string]map[string]Record {
	out := make(map[string]map[string]Record, e.Len())
	for p := e.oldest(); p != nil; p = p.Next() {
		fields := make(map[string]Record, p.Value.Len())
		for f := p.Value.Oldest(); f != nil; f = f.Next() {
			fields[f.Key] = f.Value
		}
		out[p.Key] = fields
	}
	return out
}

// MarshalJSON implements json.Marshaler. Relation strings are written
// without HTML escaping when encoded through a json.Encoder with
// SetEscapeHTML(false).
func (e *Export) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for p, i := e.oldest(), 0; p != nil; p, i = p.Next(), i+1 {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSON(&buf, p.Key); err != nil {
			return nil, err
		}
		buf.WriteString(":{")
		for f, j := p.Value.Oldest(), 0; f != nil; f, j = f.Next(), j+1 {
			if j > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(&buf, f.Key); err != nil {
				return nil, err
			}
			buf.WriteByte(':')
			if err := writeJSON(&buf, f.Value); err != nil {
				return nil, fmt.Errorf("meta: encoding %s.%s: %w", p.Key, f.Key, err)
			}
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	// Encode terminates each value with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (e *Export) MarshalYAML() (any, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for p := e.oldest(); p != nil; p = p.Next() {
		fields := &yaml.Node{Kind: yaml.MappingNode}
		for f := p.Value.Oldest(); f != nil; f = f.Next() {
			value := &yaml.Node{}
			if err := value.Encode(f.Value); err != nil {
				return nil, fmt.Errorf("meta: encoding %s.%s: %w", p.Key, f.Key, err)
			}
			fields.Content = append(fields.Content, keyNode(f.Key), value)
		}
		root.Content = append(root.Content, keyNode(p.Key), fields)
	}
	return root, nil
}

func keyNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

var (
	_ msgpack.CustomEncoder = (*Export)(nil)
	_ msgpack.CustomDecoder = (*Export)(nil)
)

// EncodeMsgpack implements msgpack.CustomEncoder as nested maps in
// export order.
func (e *Export) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeMapLen(e.Len()); err != nil {
		return err
	}
	for p := e.oldest(); p != nil; p = p.Next() {
		if err := enc.EncodeString(p.Key); err != nil {
			return err
		}
		if err := enc.EncodeMapLen(p.Value.Len()); err != nil {
			return err
		}
		for f := p.Value.Oldest(); f != nil; f = f.Next() {
			if err := enc.EncodeString(f.Key); err != nil {
				return err
			}
			if err := enc.Encode(f.Value); err != nil {
				return err
			}
		}
	}
	return nil
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (e *Export) DecodeMsgpack(dec *msgpack.Decoder) error {
	e.entities = orderedmap.New[string, *fieldMap]()
	n, err := dec.DecodeMapLen()
	if err != nil {
		return err
	}
	for range max(n, 0) {
		entity, err := dec.DecodeString()
		if err != nil {
			return err
		}
		m, err := dec.DecodeMapLen()
		if err != nil {
			return err
		}
		fields := orderedmap.New[string, Record]()
		for range max(m, 0) {
			field, err := dec.DecodeString()
			if err != nil {
				return err
			}
			var r Record
			if err := dec.Decode(&r); err != nil {
				return fmt.Errorf("meta: decoding %s.%s: %w", entity, field, err)
			}
			fields.Set(field, r)
		}
		e.entities.Set(entity, fields)
	}
	return nil
}
