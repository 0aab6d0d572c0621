package connector

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shipq/typedsql/query"
)

// Value is one typed result value. The accessor matching Type returns the
// value; the others return the zero value.
type Value struct {
	Type query.ValueType
	Null bool
	v    any
}

func (v Value) Bool() bool {
	b, _ := v.v.(bool)
	return b
}

func (v Value) Int64() int64 {
	i, _ := v.v.(int64)
	return i
}

func (v Value) Uint64() uint64 {
	u, _ := v.v.(uint64)
	return u
}

func (v Value) Float64() float64 {
	f, _ := v.v.(float64)
	return f
}

func (v Value) String() string {
	s, _ := v.v.(string)
	return s
}

func (v Value) Bytes() []byte {
	b, _ := v.v.([]byte)
	return b
}

// Time returns Date and Timestamp values.
func (v Value) Time() time.Time {
	t, _ := v.v.(time.Time)
	return t
}

// TimeOfDay returns the time since midnight.
func (v Value) TimeOfDay() time.Duration {
	d, _ := v.v.(time.Duration)
	return d
}

// Any returns the value as its Go type, or nil for NULL.
func (v Value) Any() any {
	if v.Null {
		return nil
	}
	return v.v
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

// convertValue turns a scanned driver value into a Value of field f.
func convertValue(f query.Field, src any) (Value, error) {
	if src == nil {
		if !f.CanBeNull {
			return Value{}, fmt.Errorf("field %s: unexpected NULL", f.Name)
		}
		if f.NullIsTrivial {
			return Value{Type: f.Type, v: zeroOf(f.Type)}, nil
		}
		return Value{Type: f.Type, Null: true, v: zeroOf(f.Type)}, nil
	}

	v, err := convert(f.Type, src)
	if err != nil {
		return Value{}, fmt.Errorf("field %s: %w", f.Name, err)
	}
	return Value{Type: f.Type, v: v}, nil
}

func zeroOf(vt query.ValueType) any {
	switch vt {
	case query.Boolean:
		return false
	case query.Integral:
		return int64(0)
	case query.UnsignedIntegral:
		return uint64(0)
	case query.FloatingPoint:
		return float64(0)
	case query.Text:
		return ""
	case query.Blob:
		return []byte(nil)
	case query.Date, query.Timestamp:
		return time.Time{}
	case query.TimeOfDay:
		return time.Duration(0)
	}
	return nil
}

func convert(vt query.ValueType, src any) (any, error) {
	if b, ok := src.([]byte); ok && vt != query.Blob {
		src = string(b)
	}

	switch vt {
	case query.Boolean:
		switch s := src.(type) {
		case bool:
			return s, nil
		case int64:
			return s != 0, nil
		case string:
			return strconv.ParseBool(strings.ToLower(s))
		}
	case query.Integral:
		switch s := src.(type) {
		case int64:
			return s, nil
		case uint64:
			return int64(s), nil
		case float64:
			return int64(s), nil
		case string:
			return strconv.ParseInt(s, 10, 64)
		}
	case query.UnsignedIntegral:
		switch s := src.(type) {
		case uint64:
			return s, nil
		case int64:
			if s < 0 {
				return nil, fmt.Errorf("negative value %d for unsigned field", s)
			}
			return uint64(s), nil
		case string:
			return strconv.ParseUint(s, 10, 64)
		}
	case query.FloatingPoint:
		switch s := src.(type) {
		case float64:
			return s, nil
		case float32:
			return float64(s), nil
		case int64:
			return float64(s), nil
		case string:
			return strconv.ParseFloat(s, 64)
		}
	case query.Text:
		switch s := src.(type) {
		case string:
			return s, nil
		case time.Time:
			return s.Format(time.RFC3339Nano), nil
		case int64, float64, bool:
			return fmt.Sprint(s), nil
		}
	case query.Blob:
		switch s := src.(type) {
		case []byte:
			return append([]byte(nil), s...), nil
		case string:
			return []byte(s), nil
		}
	case query.Date, query.Timestamp:
		switch s := src.(type) {
		case time.Time:
			return s, nil
		case string:
			return parseTime(s)
		}
	case query.TimeOfDay:
		switch s := src.(type) {
		case time.Duration:
			return s, nil
		case time.Time:
			h, m, sec := s.Clock()
			return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute +
				time.Duration(sec)*time.Second + time.Duration(s.Nanosecond()), nil
		case string:
			return parseTimeOfDay(s)
		}
	}
	return nil, fmt.Errorf("cannot read %T as %s", src, vt)
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q", s)
}

// parseTimeOfDay reads [-]HH:MM:SS[.fraction].
func parseTimeOfDay(s string) (time.Duration, error) {
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m > 59 {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	sec, err := strconv.ParseFloat(parts[2], 64)
	if err != nil || sec >= 60 {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}

	d := time.Duration(h)*time.Hour + time.Duration(m)*time.Minute +
		(time.Duration(sec*1e6) * time.Microsecond)
	if neg {
		d = -d
	}
	return d, nil
}
