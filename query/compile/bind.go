package compile

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"math"
	"reflect"
	"time"

	"github.com/shipq/typedsql/query"
)

// Binder receives parameter values one placeholder at a time. isNull is
// set for NULL, in which case v is the zero value.
type Binder interface {
	BindBoolean(index int, v bool, isNull bool) error
	BindIntegral(index int, v int64, isNull bool) error
	BindUnsigned(index int, v uint64, isNull bool) error
	BindFloatingPoint(index int, v float64, isNull bool) error
	BindText(index int, v string, isNull bool) error
	BindBlob(index int, v []byte, isNull bool) error
	BindTime(index int, v time.Time, isNull bool) error
	BindTimeOfDay(index int, v time.Duration, isNull bool) error
}

var (
	// ErrMissingParam is returned when a parameter has no value.
	ErrMissingParam = errors.New("missing parameter value")
	// ErrNullParam is returned for NULL bound to a non-nullable parameter.
	ErrNullParam = errors.New("NULL for non-nullable parameter")
	// ErrParamType is returned when a value does not fit the parameter type.
	ErrParamType = errors.New("parameter value has the wrong type")
)

// Bind hands the value of every slot to b, in placeholder order. nil, nil
// pointers and driver.Valuers returning nil (such as an invalid
// sql.NullString) bind NULL. Text only takes string kinds and Blob only
// takes []byte.
func Bind(params []ParamSlot, values map[string]any, b Binder) error {
	for _, p := range params {
		v, ok := values[p.Name]
		if !ok {
			return fmt.Errorf("%w: %s", ErrMissingParam, p.Name)
		}
		v, err := normalize(v)
		if err != nil {
			return fmt.Errorf("parameter %s: %w", p.Name, err)
		}
		if v == nil {
			if !p.Nullable {
				return fmt.Errorf("%w: %s", ErrNullParam, p.Name)
			}
			err = bindNull(b, p)
		} else {
			err = bindValue(b, p, v)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// normalize dereferences pointers and resolves driver.Valuers.
func normalize(v any) (any, error) {
	for v != nil {
		if valuer, ok := v.(driver.Valuer); ok {
			rv := reflect.ValueOf(v)
			if rv.Kind() == reflect.Pointer && rv.IsNil() {
				return nil, nil
			}
			dv, err := valuer.Value()
			if err != nil {
				return nil, err
			}
			return dv, nil
		}
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Pointer {
			return v, nil
		}
		if rv.IsNil() {
			return nil, nil
		}
		v = rv.Elem().Interface()
	}
	return nil, nil
}

func bindNull(b Binder, p ParamSlot) error {
	i := p.Index
	switch p.Type {
	case query.Boolean:
		return b.BindBoolean(i, false, true)
	case query.Integral:
		return b.BindIntegral(i, 0, true)
	case query.UnsignedIntegral:
		return b.BindUnsigned(i, 0, true)
	case query.FloatingPoint:
		return b.BindFloatingPoint(i, 0, true)
	case query.Text:
		return b.BindText(i, "", true)
	case query.Blob:
		return b.BindBlob(i, nil, true)
	case query.Date, query.Timestamp:
		return b.BindTime(i, time.Time{}, true)
	case query.TimeOfDay:
		return b.BindTimeOfDay(i, 0, true)
	}
	return fmt.Errorf("%w: %s has no value type", ErrParamType, p.Name)
}

func bindValue(b Binder, p ParamSlot, v any) error {
	i := p.Index
	rv := reflect.ValueOf(v)
	mismatch := fmt.Errorf("%w: %s is %s, got %T", ErrParamType, p.Name, p.Type, v)

	switch p.Type {
	case query.Boolean:
		if rv.Kind() == reflect.Bool {
			return b.BindBoolean(i, rv.Bool(), false)
		}
	case query.Integral:
		if n, ok := asInt(rv); ok {
			return b.BindIntegral(i, n, false)
		}
	case query.UnsignedIntegral:
		if n, ok := asUint(rv); ok {
			return b.BindUnsigned(i, n, false)
		}
	case query.FloatingPoint:
		switch rv.Kind() {
		case reflect.Float32, reflect.Float64:
			return b.BindFloatingPoint(i, rv.Float(), false)
		}
		if n, ok := asInt(rv); ok {
			return b.BindFloatingPoint(i, float64(n), false)
		}
	case query.Text:
		if rv.Kind() == reflect.String {
			return b.BindText(i, rv.String(), false)
		}
	case query.Blob:
		if x, ok := v.([]byte); ok {
			return b.BindBlob(i, x, false)
		}
	case query.Date:
		if t, ok := v.(time.Time); ok {
			y, m, d := t.Date()
			return b.BindTime(i, time.Date(y, m, d, 0, 0, 0, 0, t.Location()), false)
		}
	case query.Timestamp:
		if t, ok := v.(time.Time); ok {
			return b.BindTime(i, t, false)
		}
	case query.TimeOfDay:
		if d, ok := v.(time.Duration); ok {
			return b.BindTimeOfDay(i, d, false)
		}
	}
	return mismatch
}

func asInt(rv reflect.Value) (int64, bool) {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if _, ok := rv.Interface().(time.Duration); ok {
			return 0, false
		}
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if u := rv.Uint(); u <= math.MaxInt64 {
			return int64(u), true
		}
	}
	return 0, false
}

func asUint(rv reflect.Value) (uint64, bool) {
	switch rv.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if n := rv.Int(); n >= 0 {
			return uint64(n), true
		}
	}
	return 0, false
}
