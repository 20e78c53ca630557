// Package value defines the runtime shape every root and intermediate node
// must present to the evaluator (spec §3.1, §9 "capability interface, not a
// concrete type"). Native wraps an owned Go map/slice/scalar/func tree;
// other packages (protoval) wrap borrowed third-party trees behind the same
// interface.
package value

// Value is the capability set the evaluator and search need from any node
// in the graph. A concrete type need only implement the methods relevant to
// its shape: a scalar reports KindScalar, answers false to IsCallable, and
// every accessor is a no-op returning (Absent, false) or (nil, false).
type Value interface {
	// Kind reports which shape this node presents.
	Kind() Kind

	// Get returns the child bound to key and whether it was present.
	Get(key string) (Value, bool)
	// SetKey binds val to key, creating or overwriting it. Returns an
	// error if this node cannot accept new keys (e.g. a scalar).
	SetKey(key string, val Value) error

	// Index returns the i-th element of a sequence and whether it was
	// present (spec §4.4 "negative indices count from the end").
	Index(i int) (Value, bool)
	// SetIndex overwrites (or, at len(seq), appends) the i-th element.
	SetIndex(i int, val Value) error

	// Keys returns a node's map keys in the iteration order the search
	// module requires (spec §6.6: sorted for determinism).
	Keys() []string
	// Len returns a sequence's length, or -1 if this node isn't a
	// sequence.
	Len() int

	// IsCallable reports whether Invoke is meaningful.
	IsCallable() bool
	// Invoke calls this node as a function with the given arguments.
	Invoke(args []Value) (Value, error)

	// Unwrap returns the underlying Go value this node presents, for
	// handing results back across the public API boundary.
	Unwrap() any
}

// Kind classifies a Value's shape.
type Kind int

const (
	KindScalar Kind = iota
	KindMap
	KindSeq
	KindFunc
	KindAbsent
)

// Absent is the sentinel returned wherever navigation or lookup yields
// nothing (spec §3.1 "absent is a first-class result, not an error").
var Absent Value = absent{}

type absent struct{}

func (absent) Kind() Kind                          { return KindAbsent }
func (absent) Get(string) (Value, bool)             { return Absent, false }
func (absent) SetKey(string, Value) error           { return errNotContainer }
func (absent) Index(int) (Value, bool)              { return Absent, false }
func (absent) SetIndex(int, Value) error            { return errNotContainer }
func (absent) Keys() []string                       { return nil }
func (absent) Len() int                             { return -1 }
func (absent) IsCallable() bool                     { return false }
func (absent) Invoke([]Value) (Value, error)         { return Absent, errNotCallable }
func (absent) Unwrap() any                          { return nil }

// IsAbsent reports whether v is the Absent sentinel (or nil, which the
// evaluator treats identically defensively).
func IsAbsent(v Value) bool {
	if v == nil {
		return true
	}
	return v.Kind() == KindAbsent
}
