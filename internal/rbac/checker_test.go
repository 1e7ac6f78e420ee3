package rbac

import "testing"

func TestChecker_Has(t *testing.T) {
	c := NewChecker(nil)

	if !c.Has("teacher", "grade:record") {
		t.Fatalf("teacher should record grades")
	}
	if c.Has("student", "grade:record") {
		t.Fatalf("student must not record grades")
	}
	if !c.Has("admin", "average:persist") {
		t.Fatalf("admin wildcard should cover everything")
	}
	if c.Has("unknown-role", "average:view") {
		t.Fatalf("unknown role has no permissions")
	}
}

func TestChecker_Any(t *testing.T) {
	c := NewChecker(nil)
	if !c.Any("student", "average:view", "average:view-own") {
		t.Fatalf("student should match view-own")
	}
	if c.Any("tutor", "grade:record", "average:persist") {
		t.Fatalf("tutor must not write")
	}
}

func TestMatchPerm_Prefix(t *testing.T) {
	c := NewChecker(map[string][]string{"auditor": {"average:*"}})
	if !c.Has("auditor", "average:view") || !c.Has("auditor", "average:persist") {
		t.Fatalf("prefix pattern should match namespace")
	}
	if c.Has("auditor", "grade:record") {
		t.Fatalf("prefix pattern must not leak across namespaces")
	}
}
