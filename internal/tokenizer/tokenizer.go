// Package tokenizer implements C2: compiling path text into a token.Program
// (spec §4.2). It is pure and deterministic, depending only on the input
// text and the syntax table bundle in effect at the time of the call.
//
// The scanning loop below keeps the teacher's (funvibe/funxy internal/lexer)
// rune-at-a-time cursor shape — a []rune buffer with an explicit index
// instead of the teacher's position/readPosition pair, since container
// recursion here needs random-access slicing that the teacher's
// single-char-lookahead lexer never required.
package tokenizer

import (
	"fmt"
	"strings"

	"github.com/pathgraph/pathkit/internal/config"
	"github.com/pathgraph/pathkit/internal/syntax"
	"github.com/pathgraph/pathkit/internal/token"
)

// Tokenize compiles text into a Program under the bundle's current
// bindings (spec §4.2 "Contract"). Invalid input (unbalanced containers, a
// trailing escape, a prefix with no following word) returns a non-nil
// error; callers that only need a bool (tokens/valid/get/set treating this
// as "absent") translate the error themselves.
func Tokenize(text string, b *syntax.Bundle) (*token.Program, error) {
	stripped := stripSuperfluousEscapes(text, b)
	if stripped == "" {
		return &token.Program{Simple: true, Source: text}, nil
	}

	if !b.ContainsComplex(stripped) && !strings.ContainsRune(stripped, config.Wildcard) {
		parts := strings.Split(stripped, string(b.PropertySep))
		steps := make([]token.Step, len(parts))
		for i, p := range parts {
			steps[i] = token.NameStep(p)
		}
		return &token.Program{Steps: steps, Simple: true, Source: text}, nil
	}

	s := &scanner{runes: []rune(stripped), b: b}
	steps, err := s.scanSteps()
	if err != nil {
		return nil, err
	}
	return &token.Program{Steps: steps, Simple: isSimple(steps), Source: text}, nil
}

func isSimple(steps []token.Step) bool {
	for _, st := range steps {
		if st.Kind != token.KindName || st.HasWildcard || st.DoEach {
			return false
		}
	}
	return true
}

// stripSuperfluousEscapes drops a backslash preceding a non-special
// character (spec §4.2 step 1); a backslash preceding a special character
// or the wildcard is kept together with the character it escapes, and a
// trailing backslash is left untouched, for the main scan (and, for a
// trailing backslash, for the end-of-input validity check) to interpret.
func stripSuperfluousEscapes(text string, b *syntax.Bundle) string {
	runes := []rune(text)
	var out []rune
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		if ch == '\\' && i+1 < len(runes) {
			if b.IsSpecial(runes[i+1]) || runes[i+1] == config.Wildcard {
				out = append(out, ch)
			}
			out = append(out, runes[i+1])
			i++
			continue
		}
		out = append(out, ch)
	}
	return string(out)
}

type scanner struct {
	runes []rune
	i     int
	b     *syntax.Bundle
}

// scanSteps is the left-to-right scan of spec §4.2 step 3.
func (s *scanner) scanSteps() ([]token.Step, error) {
	var steps []token.Step
	var pending []token.Step // non-nil while gathering collection branches

	var word []rune
	var mods token.Mods
	var hasWildcard bool
	var doEach bool

	hasContent := func() bool {
		return len(word) > 0 || hasWildcard || mods.Placeholder != 0 || mods.Context != 0
	}
	prefixOnly := func() bool {
		return (mods.Parent > 0 || mods.Root) && !hasContent()
	}
	reset := func() {
		word = word[:0]
		mods = token.Mods{}
		hasWildcard = false
		doEach = false
	}
	buildWordStep := func() token.Step {
		w := string(word)
		if mods.IsZero() {
			return token.Step{Kind: token.KindName, Word: w, HasWildcard: hasWildcard, DoEach: doEach}
		}
		return token.Step{Kind: token.KindModified, Word: w, HasWildcard: hasWildcard, Mods: mods, DoEach: doEach}
	}
	emit := func(st token.Step) {
		if pending != nil {
			pending = append(pending, st)
		} else {
			steps = append(steps, st)
		}
	}
	closeCollection := func() {
		if pending != nil {
			steps = append(steps, token.Step{Kind: token.KindCollection, Branches: pending})
			pending = nil
		}
	}
	flushWordIfAny := func() error {
		if prefixOnly() {
			return fmt.Errorf("pathkit: prefix with no following word")
		}
		if hasContent() {
			emit(buildWordStep())
		}
		reset()
		return nil
	}
	// absorbBranches folds one or more sibling sub-steps (produced by a
	// single container, which may itself have held top-level commas) into
	// the program, merging with any collection already being gathered and
	// with any collection a following ",<container>" continues (spec
	// §4.2: "foo[bar],[baz] and foo[bar,baz] both produce a Collection
	// step with two branches").
	absorbBranches := func(branches []token.Step, nextIsComma bool) {
		if len(branches) == 1 && pending == nil && !nextIsComma {
			emit(branches[0])
			return
		}
		if pending == nil {
			pending = []token.Step{}
		}
		pending = append(pending, branches...)
		if !nextIsComma {
			closeCollection()
		}
	}

	for s.i < len(s.runes) {
		ch := s.runes[s.i]

		switch {
		case ch == '\\':
			if s.i+1 >= len(s.runes) {
				return nil, fmt.Errorf("pathkit: trailing escape character")
			}
			word = append(word, s.runes[s.i+1])
			s.i += 2
			continue

		case ch == config.Wildcard:
			hasWildcard = true
			word = append(word, ch)
			s.i++
			continue

		case len(word) == 0 && isPrefix(s.b, ch, syntax.RoleParent):
			mods.Parent++
			s.i++
			continue

		case len(word) == 0 && isPrefix(s.b, ch, syntax.RoleRoot):
			mods.Root = true
			s.i++
			continue

		case len(word) == 0 && isPrefix(s.b, ch, syntax.RolePlaceholder):
			idx, n, err := scanIndex(s.runes[s.i+1:])
			if err != nil {
				return nil, err
			}
			mods.Placeholder = idx
			s.i += 1 + n
			continue

		case len(word) == 0 && isPrefix(s.b, ch, syntax.RoleContext):
			idx, n, err := scanIndex(s.runes[s.i+1:])
			if err != nil {
				return nil, err
			}
			mods.Context = idx
			s.i += 1 + n
			continue

		case ch == s.b.EachSep:
			if err := flushWordIfAny(); err != nil {
				return nil, err
			}
			doEach = true
			s.i++
			continue

		case ch == s.b.CollectionSep:
			if prefixOnly() {
				return nil, fmt.Errorf("pathkit: prefix with no following word")
			}
			if pending == nil {
				pending = []token.Step{}
			}
			if hasContent() {
				pending = append(pending, buildWordStep())
			}
			reset()
			s.i++
			continue

		case ch == s.b.PropertySep:
			if err := flushWordIfAny(); err != nil {
				return nil, err
			}
			closeCollection()
			s.i++
			continue

		default:
			if c, ok := s.b.Containers[ch]; ok {
				if err := flushWordIfAny(); err != nil {
					return nil, err
				}
				branches, consumed, err := s.scanContainer(c, doEach)
				if err != nil {
					return nil, err
				}
				doEach = false
				s.i += consumed

				nextIsComma := s.i < len(s.runes) && s.runes[s.i] == s.b.CollectionSep
				if nextIsComma {
					s.i++
				}
				absorbBranches(branches, nextIsComma)
				continue
			}
			word = append(word, ch)
			s.i++
		}
	}

	if err := flushWordIfAny(); err != nil {
		return nil, err
	}
	closeCollection()

	return steps, nil
}

func isPrefix(b *syntax.Bundle, ch rune, role syntax.Role) bool {
	r, ok := b.Prefixes[ch]
	return ok && r == role
}

// scanIndex parses a run of decimal digits for a placeholder/context
// reference (%1, @2, ...), returning the 1-based index and the number of
// runes consumed.
func scanIndex(runes []rune) (int, int, error) {
	n := 0
	for n < len(runes) && runes[n] >= '0' && runes[n] <= '9' {
		n++
	}
	if n == 0 {
		return 0, 0, fmt.Errorf("pathkit: prefix with no following word")
	}
	idx := 0
	for _, r := range runes[:n] {
		idx = idx*10 + int(r-'0')
	}
	return idx, n, nil
}

// scanContainer consumes a container body starting right after its opener
// (s.i points at the opener itself on entry) and returns the resulting
// Sub step(s) plus the number of runes consumed including both the opener
// and the matching closer. A property bracket whose body holds top-level
// collection separators (e.g. "[bar,baz]") yields one Sub step per
// segment, matching the structure "[bar],[baz]" would produce; every
// other container kind always yields exactly one Sub step.
func (s *scanner) scanContainer(c syntax.Container, doEach bool) ([]token.Step, int, error) {
	start := s.i + 1 // first rune of the body

	if c.IsQuote {
		body, n, err := scanQuoteBody(s.runes[start:], c.Close)
		if err != nil {
			return nil, 0, err
		}
		op := syntax.OpSingleQuote
		if c.Role == syntax.RoleDoubleQuote {
			op = syntax.OpDoubleQuote
		}
		sub := &token.Program{Steps: []token.Step{token.NameStep(body)}, Simple: true}
		return []token.Step{{Kind: token.KindSub, Sub: sub, Op: op, DoEach: doEach}}, 1 + n + 1, nil
	}

	body, n, err := scanBalancedBody(s.runes[start:], c.Open, c.Close)
	if err != nil {
		return nil, 0, err
	}

	// Only a property bracket's top-level commas get the "[bar,baz] means
	// the same thing as [bar],[baz]" multi-branch treatment. A call's or an
	// eval-property's body is tokenized whole, so its own internal commas
	// fold into one ordinary Collection step nested under a single Sub (the
	// argument list for one call, not several independent containers).
	if c.Op != syntax.OpProperty {
		sub, err := Tokenize(body, s.b)
		if err != nil {
			return nil, 0, err
		}
		return []token.Step{{Kind: token.KindSub, Sub: sub, Op: c.Op, DoEach: doEach}}, 1 + n + 1, nil
	}

	segments := splitTopLevelSegments(body, s.b)
	steps := make([]token.Step, len(segments))
	for i, seg := range segments {
		sub, err := Tokenize(seg, s.b)
		if err != nil {
			return nil, 0, err
		}
		steps[i] = token.Step{Kind: token.KindSub, Sub: sub, Op: c.Op}
	}
	if len(steps) > 0 {
		steps[len(steps)-1].DoEach = doEach
	}
	return steps, 1 + n + 1, nil
}

// scanQuoteBody reads up to the first unescaped occurrence of close,
// treating "\<close>" as a literal close character and "\\" as a literal
// backslash, and taking everything else verbatim (spec §4.2 "a quoted
// container's content is taken literally"). Returns the content and the
// number of runes consumed (not including the closer itself).
func scanQuoteBody(runes []rune, close rune) (string, int, error) {
	var out []rune
	i := 0
	for i < len(runes) {
		ch := runes[i]
		if ch == '\\' && i+1 < len(runes) && (runes[i+1] == close || runes[i+1] == '\\') {
			out = append(out, runes[i+1])
			i += 2
			continue
		}
		if ch == close {
			return string(out), i, nil
		}
		out = append(out, ch)
		i++
	}
	return "", 0, fmt.Errorf("pathkit: unbalanced container: missing %q", close)
}

// scanBalancedBody reads up to the matching closer for a non-quote
// container, tracking nesting depth of the same open/close pair and
// copying escaped characters through verbatim for the recursive Tokenize
// call to interpret.
func scanBalancedBody(runes []rune, open, close rune) (string, int, error) {
	depth := 1
	var out []rune
	i := 0
	for i < len(runes) {
		ch := runes[i]
		if ch == '\\' && i+1 < len(runes) {
			out = append(out, ch, runes[i+1])
			i += 2
			continue
		}
		switch ch {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return string(out), i, nil
			}
		}
		out = append(out, ch)
		i++
	}
	return "", 0, fmt.Errorf("pathkit: unbalanced container: missing %q", close)
}

// splitTopLevelSegments splits body at every occurrence of the collection
// separator that sits outside any nested container (of any role), so that
// "bar,baz" inside one bracket tokenizes as two independent segments
// rather than one nested Collection step.
func splitTopLevelSegments(body string, b *syntax.Bundle) []string {
	type frame struct {
		close rune
		quote bool
	}
	runes := []rune(body)
	var segments []string
	var cur []rune
	var stack []frame

	for i := 0; i < len(runes); i++ {
		ch := runes[i]

		if ch == '\\' && i+1 < len(runes) {
			cur = append(cur, ch, runes[i+1])
			i++
			continue
		}

		if len(stack) > 0 {
			top := stack[len(stack)-1]
			if ch == top.close {
				stack = stack[:len(stack)-1]
				cur = append(cur, ch)
				continue
			}
			if top.quote {
				cur = append(cur, ch)
				continue
			}
			if c, ok := b.Containers[ch]; ok {
				stack = append(stack, frame{close: c.Close, quote: c.IsQuote})
			}
			cur = append(cur, ch)
			continue
		}

		if ch == b.CollectionSep {
			segments = append(segments, string(cur))
			cur = cur[:0]
			continue
		}
		if c, ok := b.Containers[ch]; ok {
			stack = append(stack, frame{close: c.Close, quote: c.IsQuote})
		}
		cur = append(cur, ch)
	}
	segments = append(segments, string(cur))
	return segments
}
