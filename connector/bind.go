package connector

import (
	"fmt"
	"math"
	"time"

	"github.com/shipq/typedsql/query/compile"
)

// args collects bound parameter values as database/sql arguments, one per
// placeholder.
type args struct {
	values []any
	// signed binds unsigned values as int64, for drivers that reject uint64.
	signed bool
}

var _ compile.Binder = (*args)(nil)

func newArgs(n int, signed bool) *args {
	return &args{values: make([]any, n), signed: signed}
}

func (a *args) set(index int, v any, isNull bool) error {
	if index < 1 || index > len(a.values) {
		return fmt.Errorf("placeholder %d out of range", index)
	}
	if isNull {
		v = nil
	}
	a.values[index-1] = v
	return nil
}

func (a *args) BindBoolean(index int, v bool, isNull bool) error {
	return a.set(index, v, isNull)
}

func (a *args) BindIntegral(index int, v int64, isNull bool) error {
	return a.set(index, v, isNull)
}

func (a *args) BindUnsigned(index int, v uint64, isNull bool) error {
	if a.signed && !isNull {
		if v > math.MaxInt64 {
			return fmt.Errorf("%w: %d overflows a signed integer", compile.ErrParamType, v)
		}
		return a.set(index, int64(v), false)
	}
	return a.set(index, v, isNull)
}

func (a *args) BindFloatingPoint(index int, v float64, isNull bool) error {
	return a.set(index, v, isNull)
}

func (a *args) BindText(index int, v string, isNull bool) error {
	return a.set(index, v, isNull)
}

func (a *args) BindBlob(index int, v []byte, isNull bool) error {
	if v == nil && !isNull {
		v = []byte{}
	}
	return a.set(index, v, isNull)
}

func (a *args) BindTime(index int, v time.Time, isNull bool) error {
	return a.set(index, v, isNull)
}

func (a *args) BindTimeOfDay(index int, v time.Duration, isNull bool) error {
	return a.set(index, compile.FormatTimeOfDay(v), isNull)
}

// bindArgs binds params to the placeholders of res.
func bindArgs(res compile.Result, params map[string]any, signed bool) ([]any, error) {
	a := newArgs(len(res.Params), signed)
	if err := compile.Bind(res.Params, params, a); err != nil {
		return nil, err
	}
	return a.values, nil
}
