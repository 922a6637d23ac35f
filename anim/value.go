package anim

// ValueType tags the payload held by a Value.
type ValueType int

const (
	TypeBool ValueType = iota
	TypeInt
	TypeFloat
	TypeString
)

// String returns the wire name of the type, matching the `type` field of a
// graph source's parameter list.
func (t ValueType) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeString:
		return "string"
	}
	return "unknown"
}

// Value is a typed parameter value. Comparisons are strict: two values with
// different types never compare equal and never order, no matter the
// payload. There is no Int/Float widening.
type Value struct {
	typ ValueType
	b   bool
	i   int
	f   float64
	s   string
}

// BoolValue wraps a bool.
func BoolValue(v bool) Value { return Value{typ: TypeBool, b: v} }

// IntValue wraps an int.
func IntValue(v int) Value { return Value{typ: TypeInt, i: v} }

// FloatValue wraps a float64.
func FloatValue(v float64) Value { return Value{typ: TypeFloat, f: v} }

// StringValue wraps a string.
func StringValue(v string) Value { return Value{typ: TypeString, s: v} }

// Type returns the value's tag.
func (v Value) Type() ValueType { return v.typ }

// Bool returns the payload when the value holds a bool.
func (v Value) Bool() (bool, bool) {
	if v.typ != TypeBool {
		return false, false
	}
	return v.b, true
}

// Int returns the payload when the value holds an int.
func (v Value) Int() (int, bool) {
	if v.typ != TypeInt {
		return 0, false
	}
	return v.i, true
}

// Float returns the payload when the value holds a float64.
func (v Value) Float() (float64, bool) {
	if v.typ != TypeFloat {
		return 0, false
	}
	return v.f, true
}

// Str returns the payload when the value holds a string.
func (v Value) Str() (string, bool) {
	if v.typ != TypeString {
		return "", false
	}
	return v.s, true
}

// Equal reports strict equality: same tag and same payload.
func (v Value) Equal(o Value) bool {
	if v.typ != o.typ {
		return false
	}
	switch v.typ {
	case TypeBool:
		return v.b == o.b
	case TypeInt:
		return v.i == o.i
	case TypeFloat:
		return v.f == o.f
	case TypeString:
		return v.s == o.s
	}
	return false
}
