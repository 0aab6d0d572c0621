// Package inifile reads and writes INI configuration files, and adapts them
// to koanf.
package inifile

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// File is an ordered set of sections. Keys above the first header live in
// the unnamed section "".
type File struct {
	Sections []Section
	index    map[string]int
}

// Section holds the pairs under one [header], in file order.
type Section struct {
	Name  string
	Pairs []Pair
}

// Pair is one key = value line.
type Pair struct {
	Key   string
	Value string
}

// SyntaxError reports a line that is neither a header, a pair nor a
// comment.
type SyntaxError struct {
	Line int
	Text string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("inifile: line %d: expected key = value, got %q", e.Line, e.Text)
}

type decoder struct {
	f       *File
	current string
	opened  bool
}

// Parse reads an INI document. Headers and keys are lowercased, values
// keep their case and lose one layer of surrounding double quotes.
func Parse(r io.Reader) (*File, error) {
	d := decoder{f: &File{}}
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		if err := d.line(n, sc.Text()); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return d.f, nil
}

func (d *decoder) line(n int, raw string) error {
	text := strings.TrimSpace(raw)
	switch {
	case text == "", text[0] == '#', text[0] == ';':
		return nil
	case text[0] == '[' && text[len(text)-1] == ']':
		d.current = normalize(text[1 : len(text)-1])
		d.opened = true
		d.f.ensure(d.current)
		return nil
	}

	k, v, found := strings.Cut(text, "=")
	k = normalize(k)
	if !found || k == "" {
		return &SyntaxError{Line: n, Text: text}
	}
	s := d.f.ensure(d.current)
	s.Pairs = append(s.Pairs, Pair{Key: k, Value: unquote(strings.TrimSpace(v))})
	return nil
}

func normalize(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func unquote(v string) string {
	if len(v) < 2 || v[0] != '"' || v[len(v)-1] != '"' {
		return v
	}
	if s, err := strconv.Unquote(v); err == nil {
		return s
	}
	return v
}

// ensure returns the named section, appending it when absent.
func (f *File) ensure(name string) *Section {
	if f.index == nil {
		f.index = make(map[string]int, len(f.Sections))
		for i, s := range f.Sections {
			f.index[s.Name] = i
		}
	}
	if i, ok := f.index[name]; ok {
		return &f.Sections[i]
	}
	f.index[name] = len(f.Sections)
	f.Sections = append(f.Sections, Section{Name: name})
	return &f.Sections[len(f.Sections)-1]
}

// Lookup finds the named section, ignoring case.
func (f *File) Lookup(name string) (*Section, bool) {
	name = normalize(name)
	for i := range f.Sections {
		if f.Sections[i].Name == name {
			return &f.Sections[i], true
		}
	}
	return nil, false
}

// Value returns the last value of key in section.
func (f *File) Value(section, key string) (string, bool) {
	s, ok := f.Lookup(section)
	if !ok {
		return "", false
	}
	return s.Value(key)
}

// Value returns the last value of key; repeated keys override earlier ones.
func (s *Section) Value(key string) (string, bool) {
	key = normalize(key)
	for i := len(s.Pairs) - 1; i >= 0; i-- {
		if s.Pairs[i].Key == key {
			return s.Pairs[i].Value, true
		}
	}
	return "", false
}

// Put assigns key in section, creating either as needed.
func (f *File) Put(section, key, value string) {
	s := f.ensure(normalize(section))
	key = normalize(key)
	for i, p := range s.Pairs {
		if p.Key == key {
			s.Pairs[i].Value = value
			return
		}
	}
	s.Pairs = append(s.Pairs, Pair{key, value})
}

// WriteTo encodes the file, quoting values that would not survive a
// round trip as they are.
func (f *File) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	for i, s := range f.Sections {
		if i > 0 {
			buf.WriteByte('\n')
		}
		if s.Name != "" {
			buf.WriteString("[" + s.Name + "]\n")
		}
		for _, p := range s.Pairs {
			buf.WriteString(p.Key + " = " + quote(p.Value) + "\n")
		}
	}
	return buf.WriteTo(w)
}

func quote(v string) string {
	if v == strings.TrimSpace(v) && !strings.ContainsAny(v, "\"\n#;") {
		return v
	}
	return strconv.Quote(v)
}

// Map nests the file: header "a.b" with key k lands at m["a"]["b"][k].
func (f *File) Map() map[string]any {
	root := map[string]any{}
	for _, s := range f.Sections {
		dst := root
		if s.Name != "" {
			for _, seg := range strings.Split(s.Name, ".") {
				child, ok := dst[seg].(map[string]any)
				if !ok {
					child = map[string]any{}
					dst[seg] = child
				}
				dst = child
			}
		}
		for _, p := range s.Pairs {
			dst[p.Key] = p.Value
		}
	}
	return root
}

// FromMap is the inverse of Map. Scalars precede nested sections, and both
// are sorted by key.
func FromMap(m map[string]any) *File {
	f := &File{}
	flatten(f, "", m)
	return f
}

func flatten(f *File, prefix string, m map[string]any) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var children []string
	for _, k := range keys {
		if _, nested := m[k].(map[string]any); nested {
			children = append(children, k)
		} else {
			f.Put(prefix, k, fmt.Sprint(m[k]))
		}
	}
	for _, k := range children {
		name := k
		if prefix != "" {
			name = prefix + "." + k
		}
		flatten(f, name, m[k].(map[string]any))
	}
}

// Parser implements koanf.Parser for INI files.
type Parser struct{}

// NewParser returns an INI parser for koanf.
func NewParser() *Parser { return &Parser{} }

// Unmarshal parses INI bytes into a nested map.
func (p *Parser) Unmarshal(b []byte) (map[string]any, error) {
	f, err := Parse(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	return f.Map(), nil
}

// Marshal writes a nested map as INI.
func (p *Parser) Marshal(m map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := FromMap(m).WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
