package evaluator

import (
	"fmt"

	"github.com/pathgraph/pathkit/internal/config"
	"github.com/pathgraph/pathkit/internal/token"
	"github.com/pathgraph/pathkit/internal/value"
)

// ResolveSet runs the general evaluator in write mode: every step but the
// last behaves like Resolve, except that a missing intermediate plain Name
// step (no wildcard, no modifier) is created as an empty map when force is
// true; a missing Modified, container or fan-out step is not created. The
// final step writes newValue into every surviving
// frame, so a trailing wildcard or Collection step fans a single write out
// to every match (spec §4.5 "write semantics at the final step").
func ResolveSet(root value.Value, prog *token.Program, newValue value.Value, args []value.Value, force bool) error {
	if len(prog.Steps) == 0 {
		return fmt.Errorf("pathkit: cannot set the root value itself")
	}

	frames := []frame{{stack: []value.Value{root}}}
	for i, st := range prog.Steps {
		last := i == len(prog.Steps)-1
		var next []frame
		for _, f := range frames {
			if last {
				if err := writeFrame(f, st, newValue, force); err != nil {
					return err
				}
				continue
			}
			expanded, err := applyStepForWrite(f, st, root, args, force)
			if err != nil {
				return err
			}
			next = append(next, expanded...)
		}
		if !last {
			frames = next
			if len(frames) == 0 {
				return fmt.Errorf("pathkit: path not found and force is disabled")
			}
		}
	}
	return nil
}

// applyStepForWrite behaves like applyStep for everything but a plain
// non-wildcard Name step with no match: there, when force is set, it
// creates an intermediate map and continues instead of dropping the frame.
// Modified steps go through applyStep unchanged.
func applyStepForWrite(f frame, st token.Step, root value.Value, args []value.Value, force bool) ([]frame, error) {
	if st.Kind == token.KindName && !st.HasWildcard {
		if config.ForbiddenKeys[st.Word] {
			return nil, fmt.Errorf("pathkit: %q is a forbidden key", st.Word)
		}
		cur := top(f)
		next, ok := navigate(cur, st.Word)
		if ok {
			return []frame{pushed(f, next)}, nil
		}
		if !force {
			return nil, nil
		}
		created := value.Wrap(map[string]any{})
		if err := writeStep(cur, st.Word, created); err != nil {
			return nil, err
		}
		return []frame{pushed(f, created)}, nil
	}
	return applyStep(f, st, root, args)
}

// writeFrame performs the terminal write for one surviving frame.
func writeFrame(f frame, st token.Step, newValue value.Value, force bool) error {
	cur := top(f)

	switch st.Kind {
	case token.KindName:
		if config.ForbiddenKeys[st.Word] {
			return fmt.Errorf("pathkit: %q is a forbidden key", st.Word)
		}
		if !st.HasWildcard {
			return writeStep(cur, st.Word, newValue)
		}
		return writeWildcard(cur, st.Word, newValue)

	case token.KindModified:
		target, name, wildcard, err := resolveModifiedTarget(f, st)
		if err != nil {
			return err
		}
		if config.ForbiddenKeys[name] {
			return fmt.Errorf("pathkit: %q is a forbidden key", name)
		}
		if name == "" && !wildcard {
			return fmt.Errorf("pathkit: cannot set a bare modifier step")
		}
		if !wildcard {
			return writeStep(target, name, newValue)
		}
		return writeWildcard(target, name, newValue)

	case token.KindCollection:
		for _, br := range st.Branches {
			if err := writeFrame(f, br, newValue, force); err != nil {
				return err
			}
		}
		return nil

	default:
		return fmt.Errorf("pathkit: cannot set through a container step")
	}
}

// resolveModifiedTarget reproduces applyModified's navigation target
// computation without the final navigate-and-push, since a write needs
// the container value plus the name, not the already-navigated child.
func resolveModifiedTarget(f frame, st token.Step) (value.Value, string, bool, error) {
	stack := make([]value.Value, len(f.stack))
	copy(stack, f.stack)

	if st.Mods.Root {
		stack = stack[:1]
	} else if st.Mods.Parent > 0 {
		pop := st.Mods.Parent
		if pop >= len(stack) {
			// Popping past the root is a miss, not a clamp (spec §8
			// "parent count exceeding stack depth → absent").
			return value.Absent, "", false, fmt.Errorf("pathkit: parent modifier exceeds stack depth")
		}
		stack = stack[:len(stack)-pop]
	}
	cur := stack[len(stack)-1]

	name := st.Word
	return cur, name, st.HasWildcard, nil
}

func writeWildcard(cur value.Value, pattern string, newValue value.Value) error {
	switch cur.Kind() {
	case value.KindMap:
		for _, k := range cur.Keys() {
			if matchWildcard(pattern, k) {
				if err := cur.SetKey(k, newValue); err != nil {
					return err
				}
			}
		}
	case value.KindSeq:
		n := cur.Len()
		for i := 0; i < n; i++ {
			if matchWildcard(pattern, fmt.Sprint(i)) {
				if err := cur.SetIndex(i, newValue); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
