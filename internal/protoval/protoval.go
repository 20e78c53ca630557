// Package protoval adapts google.golang.org/protobuf/types/known/structpb
// values to the value.Value capability interface, giving the engine a
// second, borrowed Value instantiation alongside value.Native — exercised
// by internal/rpc, whose wire payloads are structpb.Struct/Value trees
// end to end (spec §9 "leave room for borrowed/wrapper instantiations").
// The wrapping technique mirrors the teacher's inferFromYaml: a type
// switch over the library's own sum type, not a copy into a Go map.
package protoval

import (
	"fmt"
	"sort"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/pathgraph/pathkit/internal/value"
)

// Wrap presents a *structpb.Value as a value.Value without copying its
// contents into a Native tree.
func Wrap(v *structpb.Value) value.Value {
	if v == nil {
		return value.Absent
	}
	return structVal{v}
}

// WrapStruct presents a *structpb.Struct as a map-shaped value.Value.
func WrapStruct(s *structpb.Struct) value.Value {
	if s == nil {
		return value.Absent
	}
	return structVal{structpb.NewStructValue(s)}
}

type structVal struct {
	v *structpb.Value
}

func (s structVal) Kind() value.Kind {
	switch s.v.GetKind().(type) {
	case *structpb.Value_StructValue:
		return value.KindMap
	case *structpb.Value_ListValue:
		return value.KindSeq
	case nil:
		return value.KindAbsent
	default:
		return value.KindScalar
	}
}

func (s structVal) Get(key string) (value.Value, bool) {
	st := s.v.GetStructValue()
	if st == nil {
		return value.Absent, false
	}
	fields := st.GetFields()
	child, ok := fields[key]
	if !ok {
		return value.Absent, false
	}
	return structVal{child}, true
}

func (s structVal) SetKey(key string, val value.Value) error {
	st := s.v.GetStructValue()
	if st == nil {
		return fmt.Errorf("pathkit: structpb value is not a struct")
	}
	pv, err := toStructpbValue(val)
	if err != nil {
		return err
	}
	if st.GetFields() == nil {
		st.Fields = map[string]*structpb.Value{}
	}
	st.Fields[key] = pv
	return nil
}

func (s structVal) Index(i int) (value.Value, bool) {
	lst := s.v.GetListValue()
	if lst == nil {
		return value.Absent, false
	}
	vals := lst.GetValues()
	idx := i
	if idx < 0 {
		idx = len(vals) + idx
	}
	if idx < 0 || idx >= len(vals) {
		return value.Absent, false
	}
	return structVal{vals[idx]}, true
}

func (s structVal) SetIndex(i int, val value.Value) error {
	lst := s.v.GetListValue()
	if lst == nil {
		return fmt.Errorf("pathkit: structpb value is not a list")
	}
	pv, err := toStructpbValue(val)
	if err != nil {
		return err
	}
	idx := i
	if idx < 0 {
		idx = len(lst.Values) + idx
	}
	switch {
	case idx < 0:
		return fmt.Errorf("pathkit: negative index %d out of range", i)
	case idx < len(lst.Values):
		lst.Values[idx] = pv
	case idx == len(lst.Values):
		lst.Values = append(lst.Values, pv)
	default:
		grown := make([]*structpb.Value, idx+1)
		copy(grown, lst.Values)
		for j := len(lst.Values); j < idx; j++ {
			grown[j] = structpb.NewNullValue()
		}
		grown[idx] = pv
		lst.Values = grown
	}
	return nil
}

func (s structVal) Keys() []string {
	st := s.v.GetStructValue()
	if st == nil {
		return nil
	}
	keys := make([]string, 0, len(st.GetFields()))
	for k := range st.GetFields() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s structVal) Len() int {
	lst := s.v.GetListValue()
	if lst == nil {
		return -1
	}
	return len(lst.GetValues())
}

func (s structVal) IsCallable() bool { return false }

func (s structVal) Invoke([]value.Value) (value.Value, error) {
	return value.Absent, fmt.Errorf("pathkit: structpb values are not callable")
}

func (s structVal) Unwrap() any {
	return s.v.AsInterface()
}

func toStructpbValue(v value.Value) (*structpb.Value, error) {
	if sv, ok := v.(structVal); ok {
		return sv.v, nil
	}
	return structpb.NewValue(v.Unwrap())
}
