package nn

import "sort"

// TypeSet is a set of module type tags.
//
// It backs both the module swap list (which float subtrees get shadowed)
// and the whitelist (which leaves get an activation observer).
type TypeSet map[string]struct{}

// NewTypeSet builds a TypeSet from explicit tags.
func NewTypeSet(names ...string) TypeSet {
	s := make(TypeSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// TypeSetOf builds a TypeSet from the tags of sample modules.
//
//	swap := nn.TypeSetOf(&nn.Linear{}, &nn.ReLU{})
func TypeSetOf(samples ...Module) TypeSet {
	s := make(TypeSet, len(samples))
	for _, m := range samples {
		s[TypeName(m)] = struct{}{}
	}
	return s
}

// Contains reports whether the type of m is in the set.
func (s TypeSet) Contains(m Module) bool {
	_, ok := s[TypeName(m)]
	return ok
}

// Add inserts the tags of the given modules.
func (s TypeSet) Add(samples ...Module) {
	for _, m := range samples {
		s[TypeName(m)] = struct{}{}
	}
}

// Names returns the tags in sorted order.
func (s TypeSet) Names() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
