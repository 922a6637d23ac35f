package anim

// Operator is a comparison between a parameter's current value and a
// literal operand. Bool and String parameters support only OpEqual and
// OpNotEqual; the ordering operators apply to Int and Float.
type Operator int

const (
	OpEqual Operator = iota
	OpNotEqual
	OpGreater
	OpGreaterEqual
	OpLess
	OpLessEqual
)

// ParseOperator maps a wire operator token to an Operator.
func ParseOperator(s string) (Operator, bool) {
	switch s {
	case "==":
		return OpEqual, true
	case "!=":
		return OpNotEqual, true
	case ">":
		return OpGreater, true
	case ">=":
		return OpGreaterEqual, true
	case "<":
		return OpLess, true
	case "<=":
		return OpLessEqual, true
	}
	return OpEqual, false
}

// String returns the wire token for the operator.
func (op Operator) String() string {
	switch op {
	case OpEqual:
		return "=="
	case OpNotEqual:
		return "!="
	case OpGreater:
		return ">"
	case OpGreaterEqual:
		return ">="
	case OpLess:
		return "<"
	case OpLessEqual:
		return "<="
	}
	return "?"
}

// Condition guards a transition with a single typed comparison against a
// named parameter.
type Condition struct {
	Parameter string
	Op        Operator
	Operand   Value
}

// Evaluate compares the named parameter against the operand. An unknown
// parameter blocks the transition (false); so does a tag mismatch between
// the stored value and the operand. Conditions never pass by default.
func (c Condition) Evaluate(params map[string]Value) bool {
	v, ok := params[c.Parameter]
	if !ok {
		return false
	}
	return compare(c.Op, v, c.Operand)
}

func compare(op Operator, a, b Value) bool {
	if a.typ != b.typ {
		return false
	}
	switch a.typ {
	case TypeBool:
		switch op {
		case OpEqual:
			return a.b == b.b
		case OpNotEqual:
			return a.b != b.b
		}
		return false
	case TypeString:
		switch op {
		case OpEqual:
			return a.s == b.s
		case OpNotEqual:
			return a.s != b.s
		}
		return false
	case TypeInt:
		return compareOrdered(op, a.i, b.i)
	case TypeFloat:
		return compareOrdered(op, a.f, b.f)
	}
	return false
}

func compareOrdered[T int | float64](op Operator, a, b T) bool {
	switch op {
	case OpEqual:
		return a == b
	case OpNotEqual:
		return a != b
	case OpGreater:
		return a > b
	case OpGreaterEqual:
		return a >= b
	case OpLess:
		return a < b
	case OpLessEqual:
		return a <= b
	}
	return false
}
