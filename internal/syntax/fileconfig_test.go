package syntax

import "testing"

func TestLoadYAMLRebindsSeparator(t *testing.T) {
	tbl := New()
	doc := []byte("property: /\n")
	if err := tbl.LoadYAML(doc); err != nil {
		t.Fatalf("LoadYAML: %v", err)
	}
	if tbl.Bundle().PropertySep != '/' {
		t.Fatalf("PropertySep = %q, want '/'", tbl.Bundle().PropertySep)
	}
}

func TestLoadYAMLLeavesUnsetFieldsAlone(t *testing.T) {
	tbl := New()
	doc := []byte("collection: ';'\n")
	if err := tbl.LoadYAML(doc); err != nil {
		t.Fatalf("LoadYAML: %v", err)
	}
	if tbl.Bundle().PropertySep != '.' {
		t.Fatalf("PropertySep = %q, want default '.'", tbl.Bundle().PropertySep)
	}
	if tbl.Bundle().CollectionSep != ';' {
		t.Fatalf("CollectionSep = %q, want ';'", tbl.Bundle().CollectionSep)
	}
}

func TestLoadYAMLRebindsContainerPairPartially(t *testing.T) {
	tbl := New()
	doc := []byte("callOpen: '|'\n")
	if err := tbl.LoadYAML(doc); err != nil {
		t.Fatalf("LoadYAML: %v", err)
	}
	c := tbl.Bundle().Containers['|']
	if c.Role != RoleCall || c.Close != ')' {
		t.Fatalf("call container = %+v, want Open '|' Close ')'", c)
	}
}

func TestLoadYAMLRejectsMultiCharacterBinding(t *testing.T) {
	tbl := New()
	doc := []byte("property: abc\n")
	if err := tbl.LoadYAML(doc); err == nil {
		t.Fatal("expected an error for a multi-character binding")
	}
}

func TestLoadYAMLRejectsInvalidYAML(t *testing.T) {
	tbl := New()
	if err := tbl.LoadYAML([]byte("not: [valid")); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestLoadYAMLEnablesSimpleMode(t *testing.T) {
	tbl := New()
	doc := []byte("simpleMode: true\n")
	if err := tbl.LoadYAML(doc); err != nil {
		t.Fatalf("LoadYAML: %v", err)
	}
	if !tbl.SimpleMode() {
		t.Fatal("expected simple mode to be enabled")
	}
}
