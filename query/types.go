package query

import "fmt"

// ValueType is the canonical SQL value kind of an expression.
// Nullability is tracked separately, see Expr.CanBeNull.
type ValueType uint8

const (
	NoValue ValueType = iota
	Boolean
	Integral
	UnsignedIntegral
	FloatingPoint
	Text
	Blob
	Date
	TimeOfDay
	Timestamp
)

var valueTypeNames = [...]string{
	NoValue:          "no_value",
	Boolean:          "boolean",
	Integral:         "integral",
	UnsignedIntegral: "unsigned_integral",
	FloatingPoint:    "floating_point",
	Text:             "text",
	Blob:             "blob",
	Date:             "date",
	TimeOfDay:        "time_of_day",
	Timestamp:        "timestamp",
}

var goTypeNames = [...]string{
	NoValue:          "",
	Boolean:          "bool",
	Integral:         "int64",
	UnsignedIntegral: "uint64",
	FloatingPoint:    "float64",
	Text:             "string",
	Blob:             "[]byte",
	Date:             "time.Time",
	TimeOfDay:        "time.Duration",
	Timestamp:        "time.Time",
}

// String returns the value type name, e.g. "unsigned_integral".
func (v ValueType) String() string {
	if int(v) < len(valueTypeNames) {
		return valueTypeNames[v]
	}
	return fmt.Sprintf("ValueType(%d)", uint8(v))
}

// ParseValueType parses the names returned by String.
func ParseValueType(s string) (ValueType, error) {
	for i, name := range valueTypeNames {
		if name == s {
			return ValueType(i), nil
		}
	}
	return NoValue, fmt.Errorf("unknown value type %q", s)
}

// GoType returns the Go type a value of this kind is represented with.
func (v ValueType) GoType() string {
	if int(v) < len(goTypeNames) {
		return goTypeNames[v]
	}
	return ""
}

// HasValue reports whether the kind denotes an actual value.
func (v ValueType) HasValue() bool { return v != NoValue && int(v) < len(valueTypeNames) }

// IsNumeric reports whether arithmetic applies to the kind.
func (v ValueType) IsNumeric() bool {
	return v == Integral || v == UnsignedIntegral || v == FloatingPoint
}

// IsIntegral reports whether the kind is a signed or unsigned integer.
func (v ValueType) IsIntegral() bool { return v == Integral || v == UnsignedIntegral }

// IsTemporal reports whether the kind is a date, time of day or timestamp.
func (v ValueType) IsTemporal() bool { return v == Date || v == TimeOfDay || v == Timestamp }

func isDateLike(v ValueType) bool { return v == Date || v == Timestamp }

// IsCompatible reports whether values of the two kinds can be compared or
// combined. Numeric kinds are mutually compatible, as are dates and
// timestamps. Everything else is only compatible with itself.
func IsCompatible(a, b ValueType) bool {
	switch {
	case !a.HasValue() || !b.HasValue():
		return false
	case a.IsNumeric() && b.IsNumeric():
		return true
	case isDateLike(a) && isDateLike(b):
		return true
	}
	return a == b
}

// IsValidOperand reports whether a candidate value may be used where a value
// of the expected kind is required, e.g. as the right side of an assignment.
// Unlike IsCompatible it is not symmetric: a floating point value is not a
// valid operand for an integral column, while an integral one is valid for a
// floating point column.
func IsValidOperand(expected, candidate ValueType) bool {
	if !expected.HasValue() || !candidate.HasValue() {
		return false
	}
	switch expected {
	case Integral, UnsignedIntegral:
		return candidate.IsIntegral()
	case FloatingPoint:
		return candidate.IsNumeric()
	case Timestamp:
		return isDateLike(candidate)
	}
	return expected == candidate
}
