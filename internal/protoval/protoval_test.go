package protoval

import (
	"testing"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/pathgraph/pathkit/internal/value"
)

func mustStruct(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	if err != nil {
		t.Fatalf("structpb.NewStruct: %v", err)
	}
	return s
}

func TestWrapStructGet(t *testing.T) {
	s := mustStruct(t, map[string]any{"foo": map[string]any{"bar": 42.0}})
	root := WrapStruct(s)
	if root.Kind() != value.KindMap {
		t.Fatalf("Kind() = %v, want KindMap", root.Kind())
	}
	foo, ok := root.Get("foo")
	if !ok {
		t.Fatal("expected foo to be present")
	}
	bar, ok := foo.Get("bar")
	if !ok || bar.Unwrap() != 42.0 {
		t.Fatalf("bar = %v, %v, want 42.0, true", bar.Unwrap(), ok)
	}
}

func TestWrapStructSetKeyAddsField(t *testing.T) {
	s := mustStruct(t, map[string]any{})
	root := WrapStruct(s)
	if err := root.SetKey("x", value.Wrap(1.0)); err != nil {
		t.Fatalf("SetKey: %v", err)
	}
	x, ok := root.Get("x")
	if !ok || x.Unwrap() != 1.0 {
		t.Fatalf("x = %v, %v, want 1.0, true", x.Unwrap(), ok)
	}
}

func TestWrapListIndexAndSetIndexGrowth(t *testing.T) {
	s := mustStruct(t, map[string]any{"list": []any{1.0, 2.0}})
	root := WrapStruct(s)
	list, ok := root.Get("list")
	if !ok || list.Kind() != value.KindSeq {
		t.Fatalf("list = %v, %v, want a KindSeq value", list, ok)
	}
	if err := list.SetIndex(3, value.Wrap(9.0)); err != nil {
		t.Fatalf("SetIndex: %v", err)
	}
	if list.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", list.Len())
	}
	v, ok := list.Index(3)
	if !ok || v.Unwrap() != 9.0 {
		t.Fatalf("Index(3) = %v, %v, want 9.0, true", v.Unwrap(), ok)
	}
	gap, ok := list.Index(2)
	if !ok || gap.Unwrap() != nil {
		t.Fatalf("Index(2) = %v, %v, want the null gap filler", gap.Unwrap(), ok)
	}
}

func TestWrapNilReturnsAbsent(t *testing.T) {
	if !value.IsAbsent(WrapStruct(nil)) {
		t.Fatal("WrapStruct(nil) should be Absent")
	}
	if !value.IsAbsent(Wrap(nil)) {
		t.Fatal("Wrap(nil) should be Absent")
	}
}

func TestKeysAreSorted(t *testing.T) {
	s := mustStruct(t, map[string]any{"b": 1.0, "a": 2.0, "c": 3.0})
	root := WrapStruct(s)
	keys := root.Keys()
	if len(keys) != 3 || keys[0] != "a" || keys[1] != "b" || keys[2] != "c" {
		t.Fatalf("Keys() = %v, want sorted [a b c]", keys)
	}
}
