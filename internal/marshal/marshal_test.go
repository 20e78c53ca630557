package marshal

import "testing"

type person struct {
	Name   string `pathkit:"name"`
	Age    int
	secret string
	Hidden string `pathkit:"-"`
}

func TestToNativePassthroughForScalars(t *testing.T) {
	if ToNative(42) != 42 {
		t.Fatal("int should pass through unchanged")
	}
	if ToNative("hi") != "hi" {
		t.Fatal("string should pass through unchanged")
	}
}

func TestToNativeStructUsesTagsAndDropsUnexported(t *testing.T) {
	p := person{Name: "ada", Age: 30, secret: "x", Hidden: "y"}
	out, ok := ToNative(p).(map[string]any)
	if !ok {
		t.Fatalf("ToNative(struct) = %#v, want a map", ToNative(p))
	}
	if out["name"] != "ada" || out["Age"] != 30 {
		t.Fatalf("out = %#v, want name=ada Age=30", out)
	}
	if _, present := out["Hidden"]; present {
		t.Fatal("a pathkit:\"-\" field must be omitted")
	}
	if _, present := out["secret"]; present {
		t.Fatal("an unexported field must be omitted")
	}
}

func TestToNativeSliceOfStructs(t *testing.T) {
	in := []person{{Name: "a"}, {Name: "b"}}
	out, ok := ToNative(in).([]any)
	if !ok || len(out) != 2 {
		t.Fatalf("ToNative(slice) = %#v, want a 2-element slice", ToNative(in))
	}
	first, ok := out[0].(map[string]any)
	if !ok || first["name"] != "a" {
		t.Fatalf("out[0] = %#v, want name=a", out[0])
	}
}

func TestToNativeMapWithNonStringKeys(t *testing.T) {
	in := map[int]string{1: "one", 2: "two"}
	out, ok := ToNative(in).(map[string]any)
	if !ok || out["1"] != "one" || out["2"] != "two" {
		t.Fatalf("ToNative(map[int]string) = %#v", ToNative(in))
	}
}

func TestToNativePointerDereferencesAndNilBecomesNil(t *testing.T) {
	p := &person{Name: "ada"}
	out, ok := ToNative(p).(map[string]any)
	if !ok || out["name"] != "ada" {
		t.Fatalf("ToNative(*struct) = %#v", ToNative(p))
	}
	var nilPtr *person
	if ToNative(nilPtr) != nil {
		t.Fatalf("ToNative(nil pointer) = %#v, want nil", ToNative(nilPtr))
	}
}

func TestToNativeFuncWrapsWithArgCoercion(t *testing.T) {
	add := func(a, b int) int { return a + b }
	native := ToNative(add)
	fn, ok := native.(func([]any) (any, error))
	if !ok {
		t.Fatalf("ToNative(func) = %#v, want a wrapped callable", native)
	}
	result, err := fn([]any{"3", 4})
	if err != nil {
		t.Fatalf("fn: %v", err)
	}
	if result != 7 {
		t.Fatalf("result = %v, want 7", result)
	}
}

func TestToNativeFuncPropagatesError(t *testing.T) {
	divide := func(a, b int) (int, error) {
		if b == 0 {
			return 0, errDivByZero
		}
		return a / b, nil
	}
	fn := ToNative(divide).(func([]any) (any, error))
	if _, err := fn([]any{1, 0}); err == nil {
		t.Fatal("expected an error dividing by zero")
	}
}

var errDivByZero = &divError{}

type divError struct{}

func (*divError) Error() string { return "division by zero" }
