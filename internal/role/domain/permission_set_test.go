package domain

import (
	"reflect"
	"testing"
)

func TestPermissionSet(t *testing.T) {
	s := NewPermissionSet("B", "A", "", "B")
	if len(s) != 2 {
		t.Fatalf("len = %d, want 2", len(s))
	}
	if !reflect.DeepEqual(s.Slice(), []string{"A", "B"}) {
		t.Fatalf("Slice = %v", s.Slice())
	}
	if !s.HasAny("Z", "A") {
		t.Fatal("HasAny should match A")
	}
	if s.HasAny() {
		t.Fatal("HasAny with no arguments must be false")
	}
	u := s.Union(NewPermissionSet("C"))
	if !u.Has("A") || !u.Has("C") || len(u) != len(s)+1 || s.Has("C") {
		t.Fatal("Union should not mutate the receiver")
	}
}

func TestNormalizeRole(t *testing.T) {
	if got := NormalizeRole("  admin "); got != RoleAdmin {
		t.Fatalf("NormalizeRole = %q", got)
	}
}
