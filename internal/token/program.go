// Package token defines the compiled representation of a path: an ordered
// Program of Steps (spec §3.3). It is the sum-type "AST" the tokenizer
// produces and the evaluator walks.
package token

import "github.com/pathgraph/pathkit/internal/syntax"

// Kind discriminates the Step sum type (spec §9 "tagged variants").
type Kind int

const (
	KindName Kind = iota
	KindModified
	KindCollection
	KindSub
)

// Mods carries the optional prefix modifiers a Modified-name step applies,
// in application order (spec §4.5): parent, root, placeholder, context.
type Mods struct {
	Parent      int  // count >= 1 when present; 0 means absent
	Root        bool
	Placeholder int // 1-based arg index; 0 means absent
	Context     int // 1-based arg index; 0 means absent
}

func (m Mods) IsZero() bool {
	return m.Parent == 0 && !m.Root && m.Placeholder == 0 && m.Context == 0
}

// Step is one unit of navigation. Exactly one of the Kind-specific fields
// is meaningful, selected by Kind.
type Step struct {
	Kind Kind

	// KindName / KindModified
	Word        string
	HasWildcard bool
	Mods        Mods

	// KindCollection
	Branches []Step

	// KindSub
	Sub *Program
	Op  syntax.ContainerOp

	DoEach bool
}

// Program is a compiled path: an ordered sequence of steps plus the Simple
// flag (spec §3.3, §8 "tokens(p).simple == true iff...").
type Program struct {
	Steps  []Step
	Simple bool
	// Source is the raw path text this program was compiled from, kept
	// for cache bookkeeping and diagnostics.
	Source string
}

// NameStep builds a plain Name step.
func NameStep(word string) Step { return Step{Kind: KindName, Word: word} }
