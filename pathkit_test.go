package pathkit

import (
	"testing"

	"github.com/pathgraph/pathkit/internal/syntax"
)

func TestGetAndSetRoundTrip(t *testing.T) {
	e := New()
	root := map[string]any{"foo": map[string]any{"bar": 1}}
	v, ok, err := e.Get(root, "foo.bar")
	if err != nil || !ok || v != 1 {
		t.Fatalf("Get = %v, %v, %v, want 1, true, nil", v, ok, err)
	}
	if err := e.Set(root, "foo.bar", 2); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, ok, err = e.Get(root, "foo.bar")
	if err != nil || !ok || v != 2 {
		t.Fatalf("Get after Set = %v, %v, %v, want 2, true, nil", v, ok, err)
	}
}

func TestGetMissingPathReturnsNotFoundNotError(t *testing.T) {
	e := New()
	v, ok, err := e.Get(map[string]any{}, "a.b.c")
	if err != nil {
		t.Fatalf("Get on a missing path should not error, got %v", err)
	}
	if ok || v != nil {
		t.Fatalf("Get = %v, %v, want nil, false", v, ok)
	}
}

func TestGetWithDefault(t *testing.T) {
	e := New()
	v, err := e.GetWithDefault(map[string]any{}, "missing", "fallback")
	if err != nil || v != "fallback" {
		t.Fatalf("GetWithDefault = %v, %v, want fallback, nil", v, err)
	}
}

func TestWithDefaultReturnAppliesOnMiss(t *testing.T) {
	e := New(WithDefaultReturn("fallback"))
	v, ok, err := e.Get(map[string]any{}, "missing")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Fatal("Get should report not-found even with a configured default_return")
	}
	if v != "fallback" {
		t.Fatalf("Get = %v, want the configured default_return", v)
	}
}

func TestGetWithDefaultOverridesEngineDefaultReturn(t *testing.T) {
	e := New(WithDefaultReturn("engine-wide"))
	v, err := e.GetWithDefault(map[string]any{}, "missing", "per-call")
	if err != nil {
		t.Fatalf("GetWithDefault: %v", err)
	}
	if v != "per-call" {
		t.Fatalf("GetWithDefault = %v, want the per-call default to win", v)
	}
}

func TestSetWithoutForceFailsOnMissingIntermediate(t *testing.T) {
	e := New(WithForce(false))
	if err := e.Set(map[string]any{}, "a.b.c", 1); err == nil {
		t.Fatal("expected an error with force disabled and a missing intermediate")
	}
}

func TestSetWithForceCreatesIntermediates(t *testing.T) {
	e := New(WithForce(true))
	root := map[string]any{}
	if err := e.Set(root, "a.b.c", 1); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, ok, err := e.Get(root, "a.b.c")
	if err != nil || !ok || v != 1 {
		t.Fatalf("Get after forced Set = %v, %v, %v, want 1, true, nil", v, ok, err)
	}
}

func TestFindLocatesMatchingNodes(t *testing.T) {
	e := New()
	root := map[string]any{
		"users": []any{
			map[string]any{"active": true},
			map[string]any{"active": false},
		},
	}
	matches := e.Find(root, true, All)
	if len(matches) != 1 || matches[0].Path != "users.0.active" {
		t.Fatalf("Find = %+v, want one match at users.0.active", matches)
	}
}

func TestFindSafeReportsCycleError(t *testing.T) {
	e := New()
	inner := map[string]any{}
	outer := map[string]any{"self": inner}
	inner["loop"] = outer

	_, err := e.FindSafe(outer, "nothing matches this", All)
	if err == nil {
		t.Fatal("expected a cycle error")
	}
	pkErr, ok := err.(*Error)
	if !ok || pkErr.Kind != ErrCycle {
		t.Fatalf("err = %#v, want *Error{Kind: ErrCycle}", err)
	}
}

func TestWithSyntaxBatchesRebindings(t *testing.T) {
	e := New(WithSyntax(func(tbl *syntax.Table) error {
		if err := tbl.SetPrefix(syntax.RoleParent, '^'); err != nil {
			return err
		}
		return tbl.SetSeparator(syntax.RoleProperty, '/')
	}))
	root := map[string]any{"foo": map[string]any{"bar": 1}}
	v, ok, err := e.Get(root, "foo/bar")
	if err != nil || !ok || v != 1 {
		t.Fatalf("Get with rebound separator = %v, %v, %v, want 1, true, nil", v, ok, err)
	}
}

func TestSetPrefixRejectsCollisionAsConfigurationError(t *testing.T) {
	e := New()
	err := e.SetPrefix(syntax.RoleParent, '~')
	if err == nil {
		t.Fatal("expected a configuration error binding parent to the root prefix")
	}
	pkErr, ok := err.(*Error)
	if !ok || pkErr.Kind != ErrConfiguration {
		t.Fatalf("err = %#v, want *Error{Kind: ErrConfiguration}", err)
	}
}

func TestValidAndCompiled(t *testing.T) {
	e := New()
	if !e.Valid("foo.bar") {
		t.Fatal("foo.bar should be valid")
	}
	if e.Valid("foo[bar") {
		t.Fatal("an unbalanced bracket should be invalid")
	}
	prog, err := e.Compiled("foo.bar")
	if err != nil || len(prog.Steps) != 2 {
		t.Fatalf("Compiled = %+v, %v, want 2 steps", prog, err)
	}
}

func TestEscapeEscapesSpecialCharacters(t *testing.T) {
	e := New()
	got := e.Escape("a.b")
	if got != `a\.b` {
		t.Fatalf("Escape(a.b) = %q, want a\\.b", got)
	}
}

func TestCacheCanBeDisabled(t *testing.T) {
	e := New(WithCache(false))
	root := map[string]any{"foo": 1}
	if _, _, err := e.Get(root, "foo"); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if e.cache.Len() != 0 {
		t.Fatalf("cache.Len() = %d, want 0 with caching disabled", e.cache.Len())
	}
}

func TestResetSyntaxRestoresDefaultSeparator(t *testing.T) {
	e := New()
	if err := e.SetSeparator(syntax.RoleProperty, '/'); err != nil {
		t.Fatalf("SetSeparator: %v", err)
	}
	e.ResetSyntax()
	root := map[string]any{"foo": map[string]any{"bar": 1}}
	v, ok, err := e.Get(root, "foo.bar")
	if err != nil || !ok || v != 1 {
		t.Fatalf("Get after ResetSyntax = %v, %v, %v, want 1, true, nil", v, ok, err)
	}
}
