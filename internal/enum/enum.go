// Package enum resolves user-supplied strings to one variant of a closed
// enumeration, accepting exact names, registered aliases, and unambiguous
// prefixes of either.
package enum

import (
	"strings"

	"github.com/ogzhanolguncu/cpgo/internal/cperr"
)

// Variant is one member of a Set: a value, its primary name, and any
// alternative spellings that select the same value.
type Variant[T comparable] struct {
	Value   T
	Name    string
	Aliases []string
}

// Set is a closed enumeration owned by a single flag.
type Set[T comparable] struct {
	flag     string
	variants []Variant[T]
}

// New builds a Set for flag. The flag name appears in error values.
func New[T comparable](flag string, variants ...Variant[T]) *Set[T] {
	return &Set[T]{flag: flag, variants: variants}
}

// Flag returns the flag that owns the set.
func (s *Set[T]) Flag() string { return s.flag }

// Names returns every primary name followed by its aliases, in declaration
// order. Used for completion and help output.
func (s *Set[T]) Names() []string {
	var names []string
	for _, v := range s.variants {
		names = append(names, v.Name)
		names = append(names, v.Aliases...)
	}
	return names
}

// Groups returns each variant's spellings, primary name first.
func (s *Set[T]) Groups() [][]string {
	groups := make([][]string, 0, len(s.variants))
	for _, v := range s.variants {
		groups = append(groups, append([]string{v.Name}, v.Aliases...))
	}
	return groups
}

// Resolve maps input to a variant value. An exact match on a name or alias
// always wins. Otherwise input must be a prefix of spellings that all belong
// to one variant; if they span several variants the result is an
// AmbiguousValue error, and if nothing matches it is an InvalidValue error.
// Matching is case-sensitive.
func (s *Set[T]) Resolve(input string) (T, error) {
	var zero T
	if input == "" {
		return zero, cperr.InvalidValue(s.flag, input, s.Names())
	}

	for _, v := range s.variants {
		if v.Name == input {
			return v.Value, nil
		}
		for _, a := range v.Aliases {
			if a == input {
				return v.Value, nil
			}
		}
	}

	var (
		matched     []int // indexes into s.variants, deduplicated
		primaryHits []string
		aliasHits   []string
	)
	for i, v := range s.variants {
		hit := false
		if strings.HasPrefix(v.Name, input) {
			primaryHits = append(primaryHits, v.Name)
			hit = true
		}
		for _, a := range v.Aliases {
			if strings.HasPrefix(a, input) {
				aliasHits = append(aliasHits, a)
				hit = true
			}
		}
		if hit {
			matched = append(matched, i)
		}
	}

	switch len(matched) {
	case 0:
		return zero, cperr.InvalidValue(s.flag, input, s.Names())
	case 1:
		return s.variants[matched[0]].Value, nil
	}

	candidates := primaryHits
	if len(candidates) == 0 {
		candidates = aliasHits
	}
	return zero, cperr.AmbiguousValue(s.flag, input, candidates)
}

// ResolveList splits input on commas and resolves each element in order.
func (s *Set[T]) ResolveList(input string) ([]T, error) {
	parts := strings.Split(input, ",")
	values := make([]T, 0, len(parts))
	for _, p := range parts {
		v, err := s.Resolve(p)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}
