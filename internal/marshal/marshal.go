// Package marshal bridges arbitrary Go values — structs, maps with
// non-string keys, typed slices, pointers — into the map[string]any /
// []any shape value.Native expects, using reflection the way the
// teacher's host-call marshaller bridges Go values across its embedding
// boundary.
package marshal

import (
	"fmt"
	"reflect"
	"strconv"
)

// ToNative converts an arbitrary Go value into a tree of map[string]any,
// []any and scalars/funcs suitable for value.Wrap. Struct fields are
// exported under their Go name unless tagged `pathkit:"name"`; a tag of
// "-" omits the field. Values already in native shape pass through
// unchanged (cheaply, without a reflect walk).
func ToNative(v any) any {
	switch v.(type) {
	case nil, map[string]any, []any, string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return v
	}
	if fn, ok := v.(func([]any) (any, error)); ok {
		return fn
	}
	return toNativeReflect(reflect.ValueOf(v))
}

func toNativeReflect(rv reflect.Value) any {
	if !rv.IsValid() {
		return nil
	}
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return toNativeReflect(rv.Elem())

	case reflect.Map:
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[fmt.Sprint(iter.Key().Interface())] = toNativeReflect(iter.Value())
		}
		return out

	case reflect.Struct:
		return structToNative(rv)

	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = toNativeReflect(rv.Index(i))
		}
		return out

	case reflect.Func:
		return funcToNative(rv)

	default:
		return rv.Interface()
	}
}

func structToNative(rv reflect.Value) map[string]any {
	t := rv.Type()
	out := make(map[string]any, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" {
			continue // unexported
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup("pathkit"); ok {
			if tag == "-" {
				continue
			}
			if tag != "" {
				name = tag
			}
		}
		out[name] = toNativeReflect(rv.Field(i))
	}
	return out
}

// funcToNative wraps an arbitrary reflect.Func as a value.Native callable,
// converting positional []any arguments to the function's parameter types
// by the same coercions the fast path already trusts (string forms of
// numeric placeholder arguments).
func funcToNative(rv reflect.Value) func([]any) (any, error) {
	t := rv.Type()
	return func(args []any) (any, error) {
		if len(args) != t.NumIn() && !t.IsVariadic() {
			return nil, fmt.Errorf("pathkit: function expects %d arguments, got %d", t.NumIn(), len(args))
		}
		in := make([]reflect.Value, len(args))
		for i, a := range args {
			want := t.In(i)
			if t.IsVariadic() && i >= t.NumIn()-1 {
				want = t.In(t.NumIn() - 1).Elem()
			}
			coerced, err := coerce(a, want)
			if err != nil {
				return nil, err
			}
			in[i] = coerced
		}
		out := rv.Call(in)
		switch len(out) {
		case 0:
			return nil, nil
		case 1:
			if err, ok := out[0].Interface().(error); ok {
				return nil, err
			}
			return out[0].Interface(), nil
		default:
			last := out[len(out)-1]
			if err, ok := last.Interface().(error); ok && last.Type().Implements(errorType) {
				if err != nil {
					return nil, err
				}
				return out[0].Interface(), nil
			}
			return out[0].Interface(), nil
		}
	}
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

func coerce(a any, want reflect.Type) (reflect.Value, error) {
	av := reflect.ValueOf(a)
	if !av.IsValid() {
		return reflect.Zero(want), nil
	}
	if av.Type().AssignableTo(want) {
		return av, nil
	}
	if av.Type().ConvertibleTo(want) {
		return av.Convert(want), nil
	}
	if s, ok := a.(string); ok {
		switch want.Kind() {
		case reflect.Int, reflect.Int64:
			n, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("pathkit: cannot coerce %q to %s", s, want)
			}
			out := reflect.New(want).Elem()
			out.SetInt(n)
			return out, nil
		case reflect.Float64, reflect.Float32:
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("pathkit: cannot coerce %q to %s", s, want)
			}
			out := reflect.New(want).Elem()
			out.SetFloat(f)
			return out, nil
		}
	}
	return reflect.Value{}, fmt.Errorf("pathkit: cannot coerce %s to %s", av.Type(), want)
}
