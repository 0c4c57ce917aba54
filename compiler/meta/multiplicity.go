package meta

import "strconv"

// Unbounded is the maximum of a multiplicity without an upper limit.
const Unbounded = -1

// Constraint is a restriction attached to a relation-bearing property.
type Constraint interface {
	// Property returns the property the constraint belongs to.
	Property() *Property
	// String returns the display form of the constraint.
	String() string
}

// Multiplicity bounds the number of targets a property may reference.
type Multiplicity struct {
	property *Property
	minimum  int
	maximum  int
}

var _ Constraint = (*Multiplicity)(nil)

// NewMultiplicity returns the multiplicity [minimum..maximum] of p.
// Use Unbounded as maximum for an open upper limit.
func NewMultiplicity(p *Property, minimum, maximum int) (*Multiplicity, error) {
	if minimum < 0 || maximum < Unbounded || (maximum != Unbounded && maximum < minimum) {
		var entity, field string
		if p != nil {
			field = p.name
			if p.entity != nil {
				entity = p.entity.name
			}
		}
		return nil, NewRangeError(entity, field, minimum, maximum)
	}
	return &Multiplicity{property: p, minimum: minimum, maximum: maximum}, nil
}

// Property returns the owning property.
func (m *Multiplicity) Property() *Property { return m.property }

// Minimum returns the lower bound.
func (m *Multiplicity) Minimum() int { return m.minimum }

// Maximum returns the upper bound, or Unbounded.
func (m *Multiplicity) Maximum() int { return m.maximum }

// Unbounded reports whether the multiplicity has no upper limit.
func (m *Multiplicity) Unbounded() bool { return m.maximum == Unbounded }

// Allows reports whether n targets satisfy the multiplicity.
func (m *Multiplicity) Allows(n int) bool {
	return n >= m.minimum && (m.maximum == Unbounded || n <= m.maximum)
}

// String returns "[min..max]", "[n]" when both bounds are equal,
// with "*" standing for an unbounded maximum.
func (m *Multiplicity) String() string {
	return formatRange(m.minimum, m.maximum)
}

func formatRange(minimum, maximum int) string {
	if maximum == minimum {
		return "[" + strconv.Itoa(minimum) + "]"
	}
	upper := "*"
	if maximum != Unbounded {
		upper = strconv.Itoa(maximum)
	}
	return "[" + strconv.Itoa(minimum) + ".." + upper + "]"
}
