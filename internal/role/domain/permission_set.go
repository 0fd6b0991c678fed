package domain

import "sort"

// PermissionSet is an unordered set of permission identifiers.
type PermissionSet map[string]struct{}

// NewPermissionSet returns a set holding perms. Empty strings are skipped.
func NewPermissionSet(perms ...string) PermissionSet {
	s := make(PermissionSet, len(perms))
	for _, p := range perms {
		if p != "" {
			s[p] = struct{}{}
		}
	}
	return s
}

// Has reports whether p is in the set.
func (s PermissionSet) Has(p string) bool {
	_, ok := s[p]
	return ok
}

// HasAny reports whether at least one of perms is in the set. An empty perms
// list never matches.
func (s PermissionSet) HasAny(perms ...string) bool {
	for _, p := range perms {
		if s.Has(p) {
			return true
		}
	}
	return false
}

// Union returns a new set holding the members of s and every other set.
func (s PermissionSet) Union(others ...PermissionSet) PermissionSet {
	out := make(PermissionSet, len(s))
	for p := range s {
		out[p] = struct{}{}
	}
	for _, o := range others {
		for p := range o {
			out[p] = struct{}{}
		}
	}
	return out
}

// Slice returns the members sorted.
func (s PermissionSet) Slice() []string {
	out := make([]string, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
