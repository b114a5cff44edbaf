package address

import "sort"

// Set is a collection of normalized addresses.
type Set map[string]struct{}

// NewSet returns a set holding the normalized form of every member.
func NewSet(members ...string) Set {
	s := make(Set, len(members))
	for _, m := range members {
		s.Add(m)
	}
	return s
}

// Add normalizes a and inserts it. It reports whether the set grew.
func (s Set) Add(a string) bool {
	n := Normalize(a)
	if n == "" {
		return false
	}
	if _, ok := s[n]; ok {
		return false
	}
	s[n] = struct{}{}
	return true
}

// Contains reports whether the normalized form of a is a member.
func (s Set) Contains(a string) bool {
	_, ok := s[Normalize(a)]
	return ok
}

// Len returns the number of members. A nil set is empty.
func (s Set) Len() int {
	return len(s)
}

// Clone returns a copy of s.
func (s Set) Clone() Set {
	c := make(Set, len(s))
	for k := range s {
		c[k] = struct{}{}
	}
	return c
}

// Union returns a new set with the members of s and every other set.
func (s Set) Union(others ...Set) Set {
	u := s.Clone()
	for _, o := range others {
		for k := range o {
			u[k] = struct{}{}
		}
	}
	return u
}

// Subtract returns a new set with the members of s that are in none of the others.
func (s Set) Subtract(others ...Set) Set {
	d := make(Set)
	for k := range s {
		found := false
		for _, o := range others {
			if _, ok := o[k]; ok {
				found = true
				break
			}
		}
		if !found {
			d[k] = struct{}{}
		}
	}
	return d
}

// Intersect returns a new set with the members present in both s and o.
func (s Set) Intersect(o Set) Set {
	i := make(Set)
	for k := range s {
		if _, ok := o[k]; ok {
			i[k] = struct{}{}
		}
	}
	return i
}

// IsSuperset reports whether every member of o is in s.
func (s Set) IsSuperset(o Set) bool {
	for k := range o {
		if _, ok := s[k]; !ok {
			return false
		}
	}
	return true
}

// Equal reports whether s and o hold the same members.
func (s Set) Equal(o Set) bool {
	return len(s) == len(o) && s.IsSuperset(o)
}

// Sorted returns the members in lexicographic order.
func (s Set) Sorted() []string {
	members := make([]string, 0, len(s))
	for k := range s {
		members = append(members, k)
	}
	sort.Strings(members)
	return members
}
