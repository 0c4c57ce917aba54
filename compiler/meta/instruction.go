package meta

import (
	"fmt"
	"strings"
)

// Instruction selects which resolution passes run on top of the default
// active pass. Instructions are flags and combine with bitwise OR.
type Instruction uint8

// Supported instructions.
const (
	// InstructionIdentity adds __identity passive relations on every
	// entity referenced without a field.
	InstructionIdentity Instruction = 1 << iota
	// InstructionOpposite rewrites MM owning sides to point at their
	// opposite field and adds the matching passive relation.
	InstructionOpposite

	// InstructionDefault runs the active pass only.
	InstructionDefault Instruction = 0
	// InstructionAll runs every pass.
	InstructionAll = InstructionIdentity | InstructionOpposite
)

// instructionNames maps the accepted names to their flags.
var instructionNames = map[string]Instruction{
	"default":  InstructionDefault,
	"identity": InstructionIdentity,
	"opposite": InstructionOpposite,
	"all":      InstructionAll,
}

// Passes lists the optional resolution passes of an instruction.
type Passes struct {
	Identity bool
	Opposite bool
}

// Passes returns the passes selected by the instruction, or an
// InstructionError for flags outside of InstructionAll.
func (in Instruction) Passes() (Passes, error) {
	if in&^InstructionAll != 0 {
		return Passes{}, &InstructionError{Instruction: in}
	}
	return Passes{
		Identity: in.Has(InstructionIdentity),
		Opposite: in.Has(InstructionOpposite),
	}, nil
}

// Has reports whether all bits of flag are set.
func (in Instruction) Has(flag Instruction) bool {
	return in&flag == flag
}

// String returns the instruction name.
func (in Instruction) String() string {
	switch in {
	case InstructionDefault:
		return "default"
	case InstructionIdentity:
		return "identity"
	case InstructionOpposite:
		return "opposite"
	case InstructionAll:
		return "all"
	default:
		return fmt.Sprintf("Instruction(%d)", uint8(in))
	}
}

// ParseInstruction parses an instruction name. Flags may be combined
// with "|", "," or "+", as in "identity|opposite".
func ParseInstruction(s string) (Instruction, error) {
	var (
		in     Instruction
		parsed bool
	)
	tokens := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == '|' || r == ',' || r == '+'
	})
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		flag, ok := instructionNames[token]
		if !ok {
			return 0, &InstructionError{Value: s}
		}
		in |= flag
		parsed = true
	}
	if !parsed {
		return 0, &InstructionError{Value: s}
	}
	return in, nil
}

// MarshalText implements encoding.TextMarshaler.
func (in Instruction) MarshalText() ([]byte, error) {
	if _, err := in.Passes(); err != nil {
		return nil, err
	}
	return []byte(in.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (in *Instruction) UnmarshalText(text []byte) error {
	v, err := ParseInstruction(string(text))
	if err != nil {
		return err
	}
	*in = v
	return nil
}
