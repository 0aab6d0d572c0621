package compile

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrUnsupported is returned when a statement uses a feature the dialect
// cannot express.
var ErrUnsupported = errors.New("unsupported by dialect")

func unsupported(d Dialect, feature string) error {
	return fmt.Errorf("%w: %s does not support %s", ErrUnsupported, d.Name(), feature)
}

// Dialect defines the SQL dialect-specific behavior for compilation.
// Statement-level special cases (rejected clauses, alternative operators)
// are registered as overrides on the Context, see NewContext.
type Dialect interface {
	// Name returns the dialect name for debugging/logging.
	Name() string

	// QuoteIdentifier quotes an identifier (table name, column name, alias).
	QuoteIdentifier(name string) string

	// Placeholder returns the parameter placeholder for the given index (1-based).
	Placeholder(index int) string

	// BoolLiteral returns the SQL literal for a boolean value.
	BoolLiteral(val bool) string

	// StringLiteral returns a quoted and escaped text literal.
	StringLiteral(s string) string

	// BlobLiteral returns a binary literal.
	BlobLiteral(b []byte) string

	// DateLiteral returns the literal for the date part of t.
	DateLiteral(t time.Time) string

	// TimestampLiteral returns the literal for t.
	TimestampLiteral(t time.Time) string

	// TimeOfDayLiteral returns the literal for a duration since midnight.
	TimeOfDayLiteral(d time.Duration) string

	// FloatLiteral returns the literal for f. Dialects without a literal for
	// NaN or infinities return an error.
	FloatLiteral(f float64) (string, error)
}

// =============================================================================
// Shared Helpers
// =============================================================================

func quoteWith(name, quote string) string {
	return quote + strings.ReplaceAll(name, quote, quote+quote) + quote
}

func quoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func hexUpper(b []byte) string {
	return strings.ToUpper(hex.EncodeToString(b))
}

func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// formatTimestamp writes fractional seconds only when present.
func formatTimestamp(t time.Time, sep byte) string {
	layout := "2006-01-02" + string(sep) + "15:04:05"
	if t.Nanosecond() != 0 {
		layout += ".000000"
	}
	return t.Format(layout)
}

// FormatTimeOfDay writes d as HH:MM:SS, with microseconds when present.
func FormatTimeOfDay(d time.Duration) string {
	neg := d < 0
	if neg {
		d = -d
	}
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	d -= s * time.Second
	out := fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	if us := d / time.Microsecond; us != 0 {
		out += fmt.Sprintf(".%06d", us)
	}
	if neg {
		out = "-" + out
	}
	return out
}

func formatFloat(d Dialect, f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("%w: %s has no literal for %v", ErrUnsupported, d.Name(), f)
	}
	return strconv.FormatFloat(f, 'g', -1, 64), nil
}

// isPlainIdentifier reports whether name can be written without quotes.
func isPlainIdentifier(name string) bool {
	return ValidateIdentifier(name) == nil
}

// reservedWords are the SQL keywords that cannot be used as bare
// identifiers in at least one supported database.
var reservedWords = func() map[string]struct{} {
	words := strings.Fields(`
		ALL ALTER AND ANY AS ASC BETWEEN BOTH BY CASE CAST CHECK COLLATE COLUMN
		CONSTRAINT CREATE CROSS CURRENT_DATE CURRENT_TIME CURRENT_TIMESTAMP
		CURRENT_USER DATE DEFAULT DELETE DESC DISTINCT DROP ELSE END EXCEPT
		EXISTS FALSE FETCH FOR FOREIGN FROM FULL GRANT GROUP HAVING IN INNER
		INSERT INTERSECT INTO IS JOIN KEY LATERAL LEADING LEFT LIKE LIMIT
		NATURAL NOT NULL OFFSET ON OR ORDER OUTER PRIMARY REFERENCES RETURNING
		RIGHT ROW ROWS SELECT SESSION_USER SET SOME TABLE THEN TIME TIMESTAMP
		TO TRAILING TRUE UNION UNIQUE UPDATE USER USING VALUES WHEN WHERE
		WINDOW WITH`)
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()

// isReservedWord reports whether name is a keyword, ignoring case.
func isReservedWord(name string) bool {
	_, ok := reservedWords[strings.ToUpper(name)]
	return ok
}

// =============================================================================
// Standard Dialect
// =============================================================================

// StandardDialect writes ANSI SQL. It quotes only identifiers that are not
// plain or are reserved words, and binds with ? placeholders.
type StandardDialect struct{}

func (d *StandardDialect) Name() string { return "standard" }

func (d *StandardDialect) QuoteIdentifier(name string) string {
	if isPlainIdentifier(name) && !isReservedWord(name) {
		return name
	}
	return quoteWith(name, `"`)
}

func (d *StandardDialect) Placeholder(index int) string { return "?" }

func (d *StandardDialect) BoolLiteral(val bool) string {
	if val {
		return "1"
	}
	return "0"
}

func (d *StandardDialect) StringLiteral(s string) string             { return quoteString(s) }
func (d *StandardDialect) BlobLiteral(b []byte) string               { return "x'" + hexUpper(b) + "'" }
func (d *StandardDialect) DateLiteral(t time.Time) string            { return "DATE '" + formatDate(t) + "'" }
func (d *StandardDialect) TimestampLiteral(t time.Time) string       { return "TIMESTAMP '" + formatTimestamp(t, 'T') + "'" }
func (d *StandardDialect) TimeOfDayLiteral(dur time.Duration) string { return "'" + FormatTimeOfDay(dur) + "'" }
func (d *StandardDialect) FloatLiteral(f float64) (string, error)    { return formatFloat(d, f) }

// =============================================================================
// Dialect Singletons
// =============================================================================

var (
	// Standard is the singleton ANSI dialect.
	Standard Dialect = &StandardDialect{}

	// Postgres is the singleton PostgreSQL dialect.
	Postgres Dialect = &PostgresDialect{}

	// MySQL is the singleton MySQL dialect.
	MySQL Dialect = &MySQLDialect{}

	// SQLite is the singleton SQLite dialect.
	SQLite Dialect = &SQLiteDialect{}
)

// DialectByName returns the dialect called name ("standard", "postgres",
// "mysql" or "sqlite").
func DialectByName(name string) (Dialect, error) {
	for _, d := range []Dialect{Standard, Postgres, MySQL, SQLite} {
		if d.Name() == name {
			return d, nil
		}
	}
	return nil, fmt.Errorf("unknown dialect %q", name)
}
