package query

import (
	"slices"
	"strings"
)

// TableSet is an immutable, sorted set of table names. Names are the
// identity of tables in scope checks: an aliased table is known by its
// alias only.
type TableSet struct {
	names []string
}

// NewTableSet returns the set of the given names.
func NewTableSet(names ...string) TableSet {
	if len(names) == 0 {
		return TableSet{}
	}
	s := slices.Clone(names)
	slices.Sort(s)
	return TableSet{names: slices.Compact(s)}
}

// Len returns the number of tables in the set.
func (s TableSet) Len() int { return len(s.names) }

// IsEmpty reports whether the set has no tables.
func (s TableSet) IsEmpty() bool { return len(s.names) == 0 }

// Names returns the sorted table names.
func (s TableSet) Names() []string { return slices.Clone(s.names) }

// Contains reports whether name is in the set.
func (s TableSet) Contains(name string) bool {
	_, ok := slices.BinarySearch(s.names, name)
	return ok
}

// Union returns the set of names in s or any of the others.
func (s TableSet) Union(others ...TableSet) TableSet {
	out := s.names
	for _, o := range others {
		if len(o.names) == 0 {
			continue
		}
		if len(out) == 0 {
			out = o.names
			continue
		}
		merged := make([]string, 0, len(out)+len(o.names))
		i, j := 0, 0
		for i < len(out) && j < len(o.names) {
			switch strings.Compare(out[i], o.names[j]) {
			case -1:
				merged = append(merged, out[i])
				i++
			case 1:
				merged = append(merged, o.names[j])
				j++
			default:
				merged = append(merged, out[i])
				i++
				j++
			}
		}
		merged = append(merged, out[i:]...)
		merged = append(merged, o.names[j:]...)
		out = merged
	}
	return TableSet{names: out}
}

// Minus returns the names in s that are not in o.
func (s TableSet) Minus(o TableSet) TableSet {
	if len(o.names) == 0 {
		return s
	}
	var out []string
	for _, n := range s.names {
		if !o.Contains(n) {
			out = append(out, n)
		}
	}
	return TableSet{names: out}
}

// SubsetOf reports whether every name in s is also in o.
func (s TableSet) SubsetOf(o TableSet) bool {
	for _, n := range s.names {
		if !o.Contains(n) {
			return false
		}
	}
	return true
}

// Intersects reports whether s and o share at least one name.
func (s TableSet) Intersects(o TableSet) bool {
	for _, n := range s.names {
		if o.Contains(n) {
			return true
		}
	}
	return false
}

func (s TableSet) String() string {
	return "{" + strings.Join(s.names, ", ") + "}"
}
