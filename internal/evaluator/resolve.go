package evaluator

import (
	"fmt"
	"strconv"

	"github.com/pathgraph/pathkit/internal/syntax"
	"github.com/pathgraph/pathkit/internal/token"
	"github.com/pathgraph/pathkit/internal/value"
)

// frame carries one candidate traversal: the full ancestor chain from root
// (index 0) to the frame's current value (the last element), so that a
// parent modifier can step back up without re-walking from root (spec §4.5
// "value stack with parent/root prefix semantics").
type frame struct {
	stack []value.Value
}

func top(f frame) value.Value { return f.stack[len(f.stack)-1] }

func pushed(f frame, v value.Value) frame {
	stack := make([]value.Value, len(f.stack), len(f.stack)+1)
	copy(stack, f.stack)
	return frame{stack: append(stack, v)}
}

// Resolve runs the general evaluator (C5) and returns the resolved value.
// When the program's traversal fans out (a wildcard or a Collection step
// matches more than one child), the results are collected into a sequence
// in match order; a single match returns that match directly.
func Resolve(root value.Value, prog *token.Program, args []value.Value) (value.Value, bool, error) {
	frames := []frame{{stack: []value.Value{root}}}
	for _, st := range prog.Steps {
		var next []frame
		for _, f := range frames {
			expanded, err := applyStep(f, st, root, args)
			if err != nil {
				return value.Absent, false, err
			}
			next = append(next, expanded...)
		}
		frames = next
		if len(frames) == 0 {
			return value.Absent, false, nil
		}
	}
	if len(frames) == 1 {
		return top(frames[0]), true, nil
	}
	vals := make([]any, len(frames))
	for i, f := range frames {
		vals[i] = top(f).Unwrap()
	}
	return value.Wrap(vals), true, nil
}

func applyStep(f frame, st token.Step, root value.Value, args []value.Value) ([]frame, error) {
	if st.DoEach {
		cur := top(f)
		n := cur.Len()
		if n < 0 {
			return nil, nil
		}
		nonEach := st
		nonEach.DoEach = false
		var out []frame
		for i := 0; i < n; i++ {
			child, ok := cur.Index(i)
			if !ok {
				continue
			}
			expanded, err := applyStep(pushed(f, child), nonEach, root, args)
			if err != nil {
				return nil, err
			}
			out = append(out, expanded...)
		}
		return out, nil
	}

	switch st.Kind {
	case token.KindName:
		return navigateFrame(f, st.Word, st.HasWildcard)

	case token.KindModified:
		return applyModified(f, st, root, args)

	case token.KindCollection:
		var out []frame
		for _, br := range st.Branches {
			expanded, err := applyStep(f, br, root, args)
			if err != nil {
				return nil, err
			}
			out = append(out, expanded...)
		}
		return out, nil

	case token.KindSub:
		return applySub(f, st, root, args)

	default:
		return nil, fmt.Errorf("pathkit: unknown step kind %d", st.Kind)
	}
}

func applyModified(f frame, st token.Step, root value.Value, args []value.Value) ([]frame, error) {
	stack := make([]value.Value, len(f.stack))
	copy(stack, f.stack)

	if st.Mods.Root {
		stack = []value.Value{root}
	} else if st.Mods.Parent > 0 {
		pop := st.Mods.Parent
		if pop >= len(stack) {
			// Popping past the root is a miss, not a clamp (spec §8
			// "parent count exceeding stack depth → absent").
			return nil, nil
		}
		stack = stack[:len(stack)-pop]
	}
	cur := stack[len(stack)-1]

	if st.Mods.Context != 0 {
		idx := st.Mods.Context
		if idx < 1 || idx > len(args) {
			return nil, nil
		}
		cur = args[idx-1]
	}

	name := st.Word
	if st.Mods.Placeholder != 0 {
		idx := st.Mods.Placeholder
		if idx < 1 || idx > len(args) {
			return nil, nil
		}
		name = stringify(args[idx-1]) + st.Word
	}

	base := frame{stack: append(append([]value.Value{}, stack...), cur)}

	if name == "" && !st.HasWildcard {
		return []frame{base}, nil
	}
	return navigateFrame(base, name, st.HasWildcard)
}

func applySub(f frame, st token.Step, root value.Value, args []value.Value) ([]frame, error) {
	cur := top(f)

	switch st.Op {
	case syntax.OpSingleQuote, syntax.OpDoubleQuote:
		return navigateFrame(f, st.Sub.Steps[0].Word, false)

	case syntax.OpEvalProperty:
		val, ok, err := Resolve(cur, st.Sub, args)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
		return navigateFrame(f, stringify(val), false)

	case syntax.OpProperty:
		if name, wildcard, ok := literalName(st.Sub); ok {
			return navigateFrame(f, name, wildcard)
		}
		val, ok, err := Resolve(root, st.Sub, args)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
		return navigateFrame(f, stringify(val), false)

	case syntax.OpCall:
		if !cur.IsCallable() {
			return nil, nil
		}
		argVals, err := argsFromSub(st.Sub, root, args)
		if err != nil {
			return nil, err
		}
		result, err := cur.Invoke(argVals)
		if err != nil {
			return nil, err
		}
		return []frame{pushed(f, result)}, nil

	default:
		return nil, fmt.Errorf("pathkit: unknown container op %d", st.Op)
	}
}

// literalName reports the literal key a property-bracket container holds,
// when its content is simple enough to use directly instead of evaluating
// it as a sub-expression: a bare word ("[bar]", equivalent to ".bar") or a
// single quoted literal ("['bar']"/["bar"], for keys containing characters
// that would otherwise need escaping). Anything more complex (a nested
// path, a call, a collection already merged elsewhere) is evaluated
// against root instead.
func literalName(sub *token.Program) (string, bool, bool) {
	if len(sub.Steps) != 1 {
		return "", false, false
	}
	st := sub.Steps[0]
	switch st.Kind {
	case token.KindName:
		return st.Word, st.HasWildcard, true
	case token.KindSub:
		if (st.Op == syntax.OpSingleQuote || st.Op == syntax.OpDoubleQuote) && len(st.Sub.Steps) == 1 {
			return st.Sub.Steps[0].Word, false, true
		}
	}
	return "", false, false
}

// argsFromSub evaluates a call container's parenthesized body into a
// positional argument list. A single top-level Collection step (i.e. the
// body held top-level commas) yields one argument per branch; anything
// else yields exactly one argument, evaluated as a whole path from root.
func argsFromSub(sub *token.Program, root value.Value, outerArgs []value.Value) ([]value.Value, error) {
	if len(sub.Steps) == 0 {
		return nil, nil
	}
	if len(sub.Steps) == 1 && sub.Steps[0].Kind == token.KindCollection {
		branches := sub.Steps[0].Branches
		out := make([]value.Value, len(branches))
		for i, br := range branches {
			v, ok, err := Resolve(root, &token.Program{Steps: []token.Step{br}}, outerArgs)
			if err != nil {
				return nil, err
			}
			if !ok {
				v = value.Absent
			}
			out[i] = v
		}
		return out, nil
	}
	v, ok, err := Resolve(root, sub, outerArgs)
	if err != nil {
		return nil, err
	}
	if !ok {
		v = value.Absent
	}
	return []value.Value{v}, nil
}

func stringify(v value.Value) string {
	raw := v.Unwrap()
	if s, ok := raw.(string); ok {
		return s
	}
	return fmt.Sprint(raw)
}

// navigateFrame indexes the frame's current value by name, or, when
// wildcard is set, fans out over every matching key/index (spec §4.5.1).
func navigateFrame(f frame, name string, wildcard bool) ([]frame, error) {
	cur := top(f)
	if !wildcard {
		next, ok := navigate(cur, name)
		if !ok {
			return nil, nil
		}
		return []frame{pushed(f, next)}, nil
	}

	var out []frame
	switch cur.Kind() {
	case value.KindMap:
		for _, k := range cur.Keys() {
			if matchWildcard(name, k) {
				child, ok := cur.Get(k)
				if ok {
					out = append(out, pushed(f, child))
				}
			}
		}
	case value.KindSeq:
		n := cur.Len()
		for i := 0; i < n; i++ {
			if matchWildcard(name, strconv.Itoa(i)) {
				child, ok := cur.Index(i)
				if ok {
					out = append(out, pushed(f, child))
				}
			}
		}
	}
	return out, nil
}

// matchWildcard matches s against pattern, where '*' in pattern matches
// any run of characters (including none); a bare "*" therefore matches
// every key or index.
func matchWildcard(pattern, s string) bool {
	p := []rune(pattern)
	r := []rune(s)
	pi, si := 0, 0
	starIdx, matchFrom := -1, 0
	for si < len(r) {
		if pi < len(p) && p[pi] == '*' {
			starIdx = pi
			matchFrom = si
			pi++
		} else if pi < len(p) && p[pi] == r[si] {
			pi++
			si++
		} else if starIdx != -1 {
			pi = starIdx + 1
			matchFrom++
			si = matchFrom
		} else {
			return false
		}
	}
	for pi < len(p) && p[pi] == '*' {
		pi++
	}
	return pi == len(p)
}
