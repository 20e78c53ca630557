package syntax

import "testing"

func TestDefaults(t *testing.T) {
	tbl := New()
	b := tbl.Bundle()
	if b.PropertySep != '.' {
		t.Fatalf("PropertySep = %q, want '.'", b.PropertySep)
	}
	if b.CollectionSep != ',' {
		t.Fatalf("CollectionSep = %q, want ','", b.CollectionSep)
	}
	if tbl.SimpleMode() {
		t.Fatal("SimpleMode() = true, want false by default")
	}
}

func TestSetPrefixRejectsWildcard(t *testing.T) {
	tbl := New()
	if err := tbl.SetPrefix(RoleParent, '*'); err == nil {
		t.Fatal("expected error binding wildcard to a role")
	}
}

func TestSetPrefixRejectsCollision(t *testing.T) {
	tbl := New()
	if err := tbl.SetPrefix(RoleParent, '~'); err == nil {
		t.Fatal("expected error binding an already-bound character")
	}
}

func TestSetPrefixRebinds(t *testing.T) {
	tbl := New()
	if err := tbl.SetPrefix(RoleParent, '!'); err != nil {
		t.Fatalf("SetPrefix: %v", err)
	}
	b := tbl.Bundle()
	if b.Prefixes['!'] != RoleParent {
		t.Fatal("new prefix binding not reflected in bundle")
	}
	if _, bound := b.Prefixes['^']; bound {
		t.Fatal("old prefix binding should be cleared")
	}
}

func TestOnMutateFiresOnEveryChange(t *testing.T) {
	tbl := New()
	count := 0
	tbl.OnMutate(func() { count++ })

	if err := tbl.SetPrefix(RoleParent, '!'); err != nil {
		t.Fatalf("SetPrefix: %v", err)
	}
	tbl.Reset()
	tbl.SetSimpleMode(true)

	if count != 3 {
		t.Fatalf("onMutate fired %d times, want 3", count)
	}
}

func TestSimpleModeClearsPrefixesAndContainers(t *testing.T) {
	tbl := New()
	tbl.SetSimpleMode(true)
	b := tbl.Bundle()
	if len(b.Prefixes) != 0 {
		t.Fatalf("Prefixes = %v, want empty in simple mode", b.Prefixes)
	}
	if len(b.Containers) != 0 {
		t.Fatalf("Containers = %v, want empty in simple mode", b.Containers)
	}
	if !b.IsSpecial('.') {
		t.Fatal("property separator must remain special in simple mode")
	}
}

func TestComplexExcludesPropertySepOnly(t *testing.T) {
	tbl := New()
	b := tbl.Bundle()
	if b.IsComplex('.') {
		t.Fatal("property separator should not be complex")
	}
	if !b.IsComplex('[') {
		t.Fatal("container opener should be complex")
	}
	if !b.IsComplex('\\') {
		t.Fatal("backslash should always be complex")
	}
}

func TestContainsComplex(t *testing.T) {
	tbl := New()
	b := tbl.Bundle()
	if b.ContainsComplex("a.b.c") {
		t.Fatal("plain dotted text should not be complex")
	}
	if !b.ContainsComplex("a[b]") {
		t.Fatal("bracketed text should be complex")
	}
}
