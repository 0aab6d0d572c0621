package proptest

import (
	"math"
	"time"

	"github.com/shipq/typedsql/query"
)

const (
	CharsetAlphaLower = "abcdefghijklmnopqrstuvwxyz"
	CharsetAlpha      = CharsetAlphaLower + "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	CharsetDigits     = "0123456789"
	CharsetPrintable  = CharsetAlpha + CharsetDigits + " !\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"
)

// IntRange returns an int in [min, max]. It panics if min > max.
func (g *Generator) IntRange(min, max int) int {
	if min > max {
		panic("proptest: IntRange min > max")
	}
	return min + g.rng.IntN(max-min+1)
}

// Int64 returns an int64 over the full range, sign included.
func (g *Generator) Int64() int64 { return int64(g.rng.Uint64()) }

// Uint64 returns a uint64 over the full range.
func (g *Generator) Uint64() uint64 { return g.rng.Uint64() }

// Float64Range returns a float64 in [min, max).
func (g *Generator) Float64Range(min, max float64) float64 {
	return min + g.rng.Float64()*(max-min)
}

// StringFrom returns a string of length [0, maxLen] drawn from charset.
func (g *Generator) StringFrom(charset string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	b := make([]byte, g.Intn(maxLen+1))
	for i := range b {
		b[i] = charset[g.Intn(len(charset))]
	}
	return string(b)
}

// String returns a printable ASCII string of length [0, maxLen].
func (g *Generator) String(maxLen int) string {
	return g.StringFrom(CharsetPrintable, maxLen)
}

// IdentifierLower returns a lower case SQL identifier of length [1, maxLen].
func (g *Generator) IdentifierLower(maxLen int) string {
	const start = CharsetAlphaLower + "_"
	const body = CharsetAlphaLower + CharsetDigits + "_"

	if maxLen <= 0 {
		maxLen = 1
	}
	b := make([]byte, g.IntRange(1, maxLen))
	b[0] = start[g.Intn(len(start))]
	for i := 1; i < len(b); i++ {
		b[i] = body[g.Intn(len(body))]
	}
	return string(b)
}

// Bytes returns a byte slice of length [0, maxLen].
func (g *Generator) Bytes(maxLen int) []byte {
	if maxLen <= 0 {
		return nil
	}
	b := make([]byte, g.Intn(maxLen+1))
	for i := range b {
		b[i] = byte(g.Intn(256))
	}
	return b
}

// Timestamp returns a UTC time between 1970 and 2100 with microsecond
// precision.
func (g *Generator) Timestamp() time.Time {
	const span = 130 * 365 * 24 * int64(time.Hour/time.Microsecond)
	return time.UnixMicro(g.Int63n(span)).UTC()
}

// Date returns a UTC midnight between 1970 and 2100.
func (g *Generator) Date() time.Time {
	return g.Timestamp().Truncate(24 * time.Hour)
}

// TimeOfDay returns a duration in [0, 24h) with microsecond precision.
func (g *Generator) TimeOfDay() time.Duration {
	return time.Duration(g.Int63n(int64(24*time.Hour/time.Microsecond))) * time.Microsecond
}

// ValueType returns one of the value types a column can have.
func (g *Generator) ValueType() query.ValueType {
	return query.ValueType(g.IntRange(int(query.Boolean), int(query.Timestamp)))
}

// Value returns a Go value of the representation used for vt, as accepted by
// query.Literal and parameter binding. Integral values favour edge cases.
func (g *Generator) Value(vt query.ValueType) any {
	switch vt {
	case query.Boolean:
		return g.Bool()
	case query.Integral:
		if g.BoolWithProb(0.3) {
			return OneOf(g, int64(0), int64(-1), int64(math.MaxInt64), int64(math.MinInt64))
		}
		return g.Int64()
	case query.UnsignedIntegral:
		if g.BoolWithProb(0.3) {
			return OneOf(g, uint64(0), uint64(math.MaxUint64))
		}
		return g.Uint64()
	case query.FloatingPoint:
		return g.Float64Range(-1e9, 1e9)
	case query.Text:
		return g.EdgeCaseString()
	case query.Blob:
		return g.Bytes(16)
	case query.Date:
		return g.Date()
	case query.TimeOfDay:
		return g.TimeOfDay()
	case query.Timestamp:
		return g.Timestamp()
	}
	return nil
}

// EdgeCaseString returns a string likely to break quoting, or a random one.
func (g *Generator) EdgeCaseString() string {
	edgeCases := []string{
		"",
		" ",
		"\t",
		"line1\nline2",
		"'",
		"''",
		"it's",
		`"`,
		`say "hello"`,
		`\`,
		`\\`,
		`a\'b`,
		"NULL",
		"true",
		"-1",
		"123.456",
		"日本語",
		"🎉",
		"--",
		"/**/",
		"$1",
		"?1",
		"; DROP TABLE users;",
		"SELECT * FROM",
	}
	if g.Float64() < 0.7 {
		return Pick(g, edgeCases)
	}
	return g.String(50)
}

// EdgeCaseIdentifier returns a reserved word half of the time.
func (g *Generator) EdgeCaseIdentifier() string {
	reserved := []string{
		"select", "from", "where", "table", "order", "group", "user",
		"limit", "offset", "union", "join", "on", "as", "key", "default",
	}
	if g.Bool() {
		return Pick(g, reserved)
	}
	return g.IdentifierLower(20)
}

// Literal returns a non-NULL literal of type vt.
func (g *Generator) Literal(vt query.ValueType) query.LiteralExpr {
	if vt == query.Date {
		return query.DateValue(g.Date())
	}
	return query.Literal(g.Value(vt))
}
