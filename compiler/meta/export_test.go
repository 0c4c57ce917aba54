package meta

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

func sampleExport() *Export {
	out := NewExport()
	out.Set("content", "layout", active("[0..*]", "content.layout -> layout"))
	out.Set("content", "categories", active("", "content.categories -> category.items"))
	out.Set("category", "items", Record{Relations: &Relations{
		Active:  []string{"category.items -> content"},
		Passive: []string{"category.items <- content.categories"},
	}})
	out.Set("category", "title", Record{})
	return out
}

func TestExportAccessors(t *testing.T) {
	out := sampleExport()
	assert.Equal(t, 2, out.Len())
	assert.Equal(t, []string{"content", "category"}, out.Entities())
	assert.Equal(t, []string{"layout", "categories"}, out.Fields("content"))
	assert.Nil(t, out.Fields("missing"))

	r, ok := out.Record("category", "title")
	require.True(t, ok)
	assert.Equal(t, Record{}, r)
	_, ok = out.Record("category", "missing")
	assert.False(t, ok)
	_, ok = out.Record("missing", "title")
	assert.False(t, ok)

	// Setting an existing key keeps its position.
	out.Set("content", "layout", Record{})
	assert.Equal(t, []string{"layout", "categories"}, out.Fields("content"))
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	require.NoError(t, enc.Encode(sampleExport()))

	expected := `{"content":{"layout":{"relations":{"active":["content.layout -> layout"]},"constraints":["[0..*]"]},` +
		`"categories":{"relations":{"active":["content.categories -> category.items"]}}},` +
		`"category":{"items":{"relations":{"active":["category.items -> content"],"passive":["category.items <- content.categories"]}},` +
		`"title":{}}}` + "\n"
	assert.Equal(t, expected, buf.String())

	empty, err := NewExport().MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "{}", string(empty))
}

func TestExportYAML(t *testing.T) {
	buf, err := yaml.Marshal(sampleExport())
	require.NoError(t, err)

	expected := strings.TrimLeft(`
content:
    layout:
        relations:
            active:
                - content.layout -> layout
        constraints:
            - '[0..*]'
    categories:
        relations:
            active:
                - content.categories -> category.items
category:
    items:
        relations:
            active:
                - category.items -> content
            passive:
                - category.items <- content.categories
    title: {}
`, "\n")
	assert.Equal(t, expected, string(buf))
}

func TestExportMsgpack(t *testing.T) {
	in := sampleExport()
	buf, err := msgpack.Marshal(in)
	require.NoError(t, err)

	var out Export
	require.NoError(t, msgpack.Unmarshal(buf, &out))
	assert.Equal(t, in.Entities(), out.Entities())
	assert.Equal(t, in.Fields("content"), out.Fields("content"))
	assert.Equal(t, in.Fields("category"), out.Fields("category"))
	assert.Equal(t, in.ToMap(), out.ToMap())

	assert.Error(t, msgpack.Unmarshal([]byte{0x01}, &out))
}

func TestExportZeroValue(t *testing.T) {
	var e Export
	assert.Zero(t, e.Len())
	assert.Empty(t, e.Entities())
	assert.Nil(t, e.Fields("content"))
	_, ok := e.Record("content", "layout")
	assert.False(t, ok)
	assert.Empty(t, e.ToMap())

	buf, err := e.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "{}", string(buf))

	buf, err = yaml.Marshal(&e)
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(buf))

	buf, err = msgpack.Marshal(&e)
	require.NoError(t, err)
	var out Export
	require.NoError(t, msgpack.Unmarshal(buf, &out))
	assert.Zero(t, out.Len())

	e.Set("content", "layout", Record{})
	assert.Equal(t, []string{"content"}, e.Entities())
	assert.Equal(t, []string{"layout"}, e.Fields("content"))
}

func TestExportFromMap(t *testing.T) {
	m, err := MustNewFactory().Create(fixture(t), InstructionAll)
	require.NoError(t, err)

	withConstraints := m.Export(true)
	r, ok := withConstraints.Record("content", "language")
	require.True(t, ok)
	assert.Equal(t, []string{"[0..1]"}, r.Constraints)

	// Records without active relations never carry constraints.
	r, ok = withConstraints.Record("image", "content")
	require.True(t, ok)
	assert.Nil(t, r.Constraints)
	assert.Nil(t, r.Relations.Active)

	r, ok = m.Export(false).Record("content", "language")
	require.True(t, ok)
	assert.Nil(t, r.Constraints)
}
