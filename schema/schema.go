// Package schema loads table declarations from YAML and turns them into
// query.Table values.
//
//	tables:
//	  - name: users
//	    columns:
//	      - {name: id, type: bigint, default: true}
//	      - {name: email, type: text}
//	      - {name: nickname, type: text, nullable: true, trivial_null: true}
package schema

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/shipq/typedsql/dbstrings"
	"github.com/shipq/typedsql/query"
)

var ErrInvalid = errors.New("invalid schema")

// File is a parsed schema file.
type File struct {
	Tables []Table `yaml:"tables"`
}

// Table declares a table. Either Name or Model may be omitted, the other
// is derived from it.
type Table struct {
	Name    string   `yaml:"name"`
	Model   string   `yaml:"model"`
	Columns []Column `yaml:"columns"`

	Line int `yaml:"-"`
}

// Column declares a column. Type is a value type name or one of the SQL
// aliases in typeAliases.
type Column struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Nullable    bool   `yaml:"nullable"`
	Default     bool   `yaml:"default"`
	TrivialNull bool   `yaml:"trivial_null"`

	Line int `yaml:"-"`
}

// checkKeys rejects mapping keys outside allowed. Decoding through a node
// does not honour the decoder's KnownFields setting.
func checkKeys(node *yaml.Node, kind string, allowed ...string) error {
	if node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i]
		if !slices.Contains(allowed, key.Value) {
			return fmt.Errorf("line %d: unknown %s field %q", key.Line, kind, key.Value)
		}
	}
	return nil
}

func (t *Table) UnmarshalYAML(node *yaml.Node) error {
	if err := checkKeys(node, "table", "name", "model", "columns"); err != nil {
		return err
	}
	type plain Table
	if err := node.Decode((*plain)(t)); err != nil {
		return err
	}
	t.Line = node.Line
	return nil
}

func (c *Column) UnmarshalYAML(node *yaml.Node) error {
	if err := checkKeys(node, "column", "name", "type", "nullable", "default", "trivial_null"); err != nil {
		return err
	}
	type plain Column
	if err := node.Decode((*plain)(c)); err != nil {
		return err
	}
	c.Line = node.Line
	return nil
}

// TableName returns the declared name, or the one derived from the model.
func (t Table) TableName() string {
	if t.Name != "" {
		return t.Name
	}
	return dbstrings.ToTableName(t.Model)
}

// ModelName returns the declared model, or the one derived from the name.
func (t Table) ModelName() string {
	if t.Model != "" {
		return t.Model
	}
	return dbstrings.ToModelName(t.Name)
}

var typeAliases = map[string]query.ValueType{
	"bool":        query.Boolean,
	"int":         query.Integral,
	"integer":     query.Integral,
	"smallint":    query.Integral,
	"bigint":      query.Integral,
	"uint":        query.UnsignedIntegral,
	"unsigned":    query.UnsignedIntegral,
	"float":       query.FloatingPoint,
	"double":      query.FloatingPoint,
	"real":        query.FloatingPoint,
	"string":      query.Text,
	"varchar":     query.Text,
	"char":        query.Text,
	"bytes":       query.Blob,
	"binary":      query.Blob,
	"bytea":       query.Blob,
	"time":        query.TimeOfDay,
	"datetime":    query.Timestamp,
	"timestamptz": query.Timestamp,
}

// ParseType resolves a column type name, case-insensitively.
func ParseType(name string) (query.ValueType, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if vt, ok := typeAliases[name]; ok {
		return vt, nil
	}
	vt, err := query.ParseValueType(name)
	if err != nil || vt == query.NoValue {
		return query.NoValue, fmt.Errorf("unknown column type %q", name)
	}
	return vt, nil
}

// Parse decodes a schema file. Unknown keys are rejected.
func Parse(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	return &f, nil
}

// Load reads and parses the schema file at path.
func Load(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = fh.Close() }()

	f, err := Parse(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Schema is a validated set of tables.
type Schema struct {
	tables []query.Table
	models []string
	byName map[string]int
}

// Build lints f and declares its tables. Lint problems are joined into the
// returned error, which wraps ErrInvalid.
func (f *File) Build() (*Schema, error) {
	if problems := f.Lint(); len(problems) > 0 {
		errs := make([]error, len(problems))
		for i, p := range problems {
			errs[i] = p
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}

	s := &Schema{byName: make(map[string]int, len(f.Tables))}
	for _, t := range f.Tables {
		specs := make([]query.ColumnSpec, len(t.Columns))
		for i, c := range t.Columns {
			vt, _ := ParseType(c.Type)
			specs[i] = query.ColumnSpec{
				Name:          c.Name,
				Type:          vt,
				Nullable:      c.Nullable,
				HasDefault:    c.Default,
				NullIsTrivial: c.TrivialNull,
			}
		}
		name := t.TableName()
		s.byName[name] = len(s.tables)
		s.tables = append(s.tables, query.NewTable(name, specs...))
		s.models = append(s.models, t.ModelName())
	}
	return s, nil
}

// Tables returns the tables in declaration order.
func (s *Schema) Tables() []query.Table { return s.tables }

// Table looks a table up by name.
func (s *Schema) Table(name string) (query.Table, bool) {
	i, ok := s.byName[name]
	if !ok {
		return query.Table{}, false
	}
	return s.tables[i], true
}

// Model returns the model name of a table.
func (s *Schema) Model(table string) string {
	if i, ok := s.byName[table]; ok {
		return s.models[i]
	}
	return ""
}
