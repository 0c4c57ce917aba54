package meta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/relmap"
)

func TestNewMultiplicity(t *testing.T) {
	tests := []struct {
		name     string
		min, max int
		expected string
		wantErr  bool
	}{
		{"optional_single", 0, 1, "[0..1]", false},
		{"unbounded", 0, Unbounded, "[0..*]", false},
		{"required_unbounded", 1, Unbounded, "[1..*]", false},
		{"exact", 2, 2, "[2]", false},
		{"zero", 0, 0, "[0]", false},
		{"range", 1, 5, "[1..5]", false},
		{"max_below_min", 3, 1, "", true},
		{"negative_min", -1, 2, "", true},
		{"negative_max", 0, -2, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMultiplicity(nil, tt.min, tt.max)
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, m)
				assert.ErrorIs(t, err, relmap.ErrInvalidRange)
				assert.True(t, IsRangeError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, m.String())
			assert.Equal(t, tt.min, m.Minimum())
			assert.Equal(t, tt.max, m.Maximum())
		})
	}
}

func TestMultiplicityAllows(t *testing.T) {
	m, err := NewMultiplicity(nil, 1, 2)
	require.NoError(t, err)
	assert.False(t, m.Allows(0))
	assert.True(t, m.Allows(1))
	assert.True(t, m.Allows(2))
	assert.False(t, m.Allows(3))
	assert.False(t, m.Unbounded())

	m, err = NewMultiplicity(nil, 0, Unbounded)
	require.NoError(t, err)
	assert.True(t, m.Allows(1000))
	assert.True(t, m.Unbounded())
}

func TestMultiplicityProperty(t *testing.T) {
	e := &Entity{name: "content"}
	p := &Property{entity: e, name: "layout"}

	m, err := NewMultiplicity(p, 0, 1)
	require.NoError(t, err)
	assert.Same(t, p, m.Property())

	_, err = NewMultiplicity(p, 2, 1)
	require.Error(t, err)
	assert.Equal(t, "relmap: invalid multiplicity [2..1] on content.layout: maximum must be greater or equal minimum", err.Error())
}
