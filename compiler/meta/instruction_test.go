package meta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/relmap"
)

func TestInstructionPasses(t *testing.T) {
	tests := []struct {
		in       Instruction
		expected Passes
	}{
		{InstructionDefault, Passes{}},
		{InstructionIdentity, Passes{Identity: true}},
		{InstructionOpposite, Passes{Opposite: true}},
		{InstructionAll, Passes{Identity: true, Opposite: true}},
		{InstructionIdentity | InstructionOpposite, Passes{Identity: true, Opposite: true}},
	}
	for _, tt := range tests {
		t.Run(tt.in.String(), func(t *testing.T) {
			p, err := tt.in.Passes()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, p)
		})
	}

	for _, in := range []Instruction{4, 5, 8, 255} {
		_, err := in.Passes()
		require.Error(t, err)
		assert.ErrorIs(t, err, relmap.ErrUnknownInstruction)
	}
}

func TestInstructionString(t *testing.T) {
	assert.Equal(t, "default", InstructionDefault.String())
	assert.Equal(t, "identity", InstructionIdentity.String())
	assert.Equal(t, "opposite", InstructionOpposite.String())
	assert.Equal(t, "all", InstructionAll.String())
	assert.Equal(t, "Instruction(4)", Instruction(4).String())
}

func TestParseInstruction(t *testing.T) {
	tests := []struct {
		input    string
		expected Instruction
		wantErr  bool
	}{
		{"default", InstructionDefault, false},
		{"IDENTITY", InstructionIdentity, false},
		{" opposite ", InstructionOpposite, false},
		{"all", InstructionAll, false},
		{"identity|opposite", InstructionAll, false},
		{"identity, opposite", InstructionAll, false},
		{"default+identity", InstructionIdentity, false},
		{"", 0, true},
		{"|", 0, true},
		{"reverse", 0, true},
		{"identity|reverse", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			in, err := ParseInstruction(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsInstructionError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, in)
		})
	}
}

func TestInstructionText(t *testing.T) {
	buf, err := InstructionAll.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "all", string(buf))

	var in Instruction
	require.NoError(t, in.UnmarshalText([]byte("identity")))
	assert.Equal(t, InstructionIdentity, in)

	_, err = Instruction(16).MarshalText()
	assert.Error(t, err)
	assert.Error(t, in.UnmarshalText([]byte("nope")))
}
