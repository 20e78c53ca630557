// Package evaluator implements C4 (the fast-path resolver) and C5 (the
// general evaluator) from spec §4.4 and §4.5.
package evaluator

import (
	"fmt"

	"github.com/pathgraph/pathkit/internal/config"
	"github.com/pathgraph/pathkit/internal/token"
	"github.com/pathgraph/pathkit/internal/value"
)

// QuickGet walks a Simple program's Name steps directly, with no stack
// bookkeeping and no wildcard/modifier support (spec §4.4). It returns
// value.Absent, false the moment any step is missing.
func QuickGet(root value.Value, prog *token.Program) (value.Value, bool) {
	cur := root
	for _, step := range prog.Steps {
		next, ok := navigate(cur, step.Word)
		if !ok {
			return value.Absent, false
		}
		cur = next
	}
	return cur, true
}

// navigate indexes cur by word, trying a map key first and then, if cur is
// a sequence, a decimal numeric index (spec §4.4 "a Name step indexes a
// map by key or a sequence by its decimal form").
func navigate(cur value.Value, word string) (value.Value, bool) {
	if cur.Kind() == value.KindMap {
		return cur.Get(word)
	}
	if cur.Kind() == value.KindSeq {
		if idx, ok := parseIndex(word); ok {
			return cur.Index(idx)
		}
	}
	return value.Absent, false
}

func parseIndex(word string) (int, bool) {
	if word == "" {
		return 0, false
	}
	neg := false
	i := 0
	if word[0] == '-' {
		neg = true
		i = 1
		if len(word) == 1 {
			return 0, false
		}
	}
	n := 0
	for ; i < len(word); i++ {
		if word[i] < '0' || word[i] > '9' {
			return 0, false
		}
		n = n*10 + int(word[i]-'0')
	}
	if neg {
		n = -n
	}
	return n, true
}

// QuickSet walks a Simple program, creating intermediate maps for any
// missing step except the last when force is set (and failing on the first
// missing step when it is not), then writes newValue at the final step
// (spec §4.4). Forbidden keys (config.ForbiddenKeys) are rejected
// regardless of force, since they would otherwise let a write reach
// language-metadata-shaped slots.
func QuickSet(root value.Value, prog *token.Program, newValue value.Value, force bool) error {
	if len(prog.Steps) == 0 {
		return fmt.Errorf("pathkit: cannot set the root value itself")
	}
	cur := root
	for i, step := range prog.Steps {
		if config.ForbiddenKeys[step.Word] {
			return fmt.Errorf("pathkit: %q is a forbidden key", step.Word)
		}
		last := i == len(prog.Steps)-1
		if last {
			return writeStep(cur, step.Word, newValue)
		}
		next, ok := navigate(cur, step.Word)
		if ok {
			cur = next
			continue
		}
		if !force {
			return fmt.Errorf("pathkit: %q not found and force is disabled", step.Word)
		}
		created := value.Wrap(map[string]any{})
		if err := writeStep(cur, step.Word, created); err != nil {
			return err
		}
		cur = created
	}
	return nil
}

func writeStep(cur value.Value, word string, v value.Value) error {
	if cur.Kind() == value.KindSeq {
		if idx, ok := parseIndex(word); ok {
			return cur.SetIndex(idx, v)
		}
	}
	return cur.SetKey(word, v)
}
