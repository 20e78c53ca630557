// Package pathkit is an embeddable path-expression engine: compact
// textual paths navigate and mutate heterogeneous in-memory data graphs
// (maps, slices, scalars, callables) the way lodash's get/set or the
// object-path family do for JavaScript values.
package pathkit

import (
	"github.com/pathgraph/pathkit/internal/cache"
	"github.com/pathgraph/pathkit/internal/config"
	"github.com/pathgraph/pathkit/internal/enginelog"
	"github.com/pathgraph/pathkit/internal/evaluator"
	"github.com/pathgraph/pathkit/internal/marshal"
	"github.com/pathgraph/pathkit/internal/search"
	"github.com/pathgraph/pathkit/internal/syntax"
	"github.com/pathgraph/pathkit/internal/token"
	"github.com/pathgraph/pathkit/internal/tokenizer"
	"github.com/pathgraph/pathkit/internal/value"
)

// Version is the package version (spec §9 "expose a version constant").
const Version = config.Version

// Error is returned for the engine's two raising error kinds: a rejected
// syntax mutation and a cycle detected where one wasn't expected (spec
// §7). Get reports a path that does not compile, a missing path, an
// out-of-range argument index or a type mismatch mid-traversal as an
// ordinary "not found" result rather than an error (spec §3.1 "absent is
// a first-class result"). Set has no "not found" result: a path that does
// not compile or a target it cannot reach comes back as a plain error that
// is not an *Error, and so does an error returned by a function a path
// calls.
type Error struct {
	Kind ErrorKind
	Msg  string
}

// ErrorKind discriminates the Error sum type.
type ErrorKind int

const (
	ErrConfiguration ErrorKind = iota
	ErrCycle
)

func (e *Error) Error() string { return e.Msg }

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithForce sets the default force mode (spec §6.2 "force"): when true,
// Set creates missing intermediate containers instead of failing.
func WithForce(force bool) Option {
	return func(e *Engine) { e.force = force }
}

// WithCache turns the token cache on or off (default on).
func WithCache(enabled bool) Option {
	return func(e *Engine) { e.cache.SetEnabled(enabled) }
}

// WithSimpleMode puts the syntax table into simple mode at construction
// time (spec §3.2).
func WithSimpleMode(enabled bool) Option {
	return func(e *Engine) { e.Syntax.SetSimpleMode(enabled) }
}

// WithLogLevel sets the engine's internal diagnostic log level (default
// silent).
func WithLogLevel(level enginelog.Level) Option {
	return func(e *Engine) { e.log = enginelog.New(level) }
}

// WithDefaultReturn sets the engine-wide value Get falls back to on a
// miss, in place of (nil, false) (spec §6.2 "Mode toggles: ... force,
// simple, default_return"). GetWithDefault remains the per-call override
// of this same fallback.
func WithDefaultReturn(def any) Option {
	return func(e *Engine) { e.defaultReturn = def }
}

// WithSyntax runs fn against the engine's syntax table once, useful for
// batching several rebindings into a single cache invalidation instead of
// one per call (spec §4.1(d)).
func WithSyntax(fn func(*syntax.Table) error) Option {
	return func(e *Engine) { e.pendingSyntax = fn }
}

// Engine is the entry point: a syntax table, a token cache keyed by raw
// path text, and the force/cache mode switches that govern every
// operation run against it.
type Engine struct {
	Syntax *syntax.Table
	cache  *cache.Cache
	force  bool
	log    *enginelog.Logger

	defaultReturn any

	pendingSyntax func(*syntax.Table) error
	syntaxErr     error
}

// New constructs an Engine with default bindings, cache enabled, and force
// disabled, then applies opts in order.
func New(opts ...Option) *Engine {
	e := &Engine{
		Syntax: syntax.New(),
		cache:  cache.New(),
		log:    enginelog.New(enginelog.LevelSilent),
	}
	e.Syntax.OnMutate(e.cache.Clear)
	for _, opt := range opts {
		opt(e)
	}
	if e.pendingSyntax != nil {
		// Detach the cache hook while fn runs, so its rebindings cost one
		// cache invalidation in total rather than one each.
		e.Syntax.OnMutate(nil)
		err := e.pendingSyntax(e.Syntax)
		e.Syntax.OnMutate(e.cache.Clear)
		e.cache.Clear()
		if err != nil {
			// WithSyntax errors surface on the first call that needs the
			// table instead of panicking construction.
			e.syntaxErr = wrapConfigError(err)
		}
		e.pendingSyntax = nil
	}
	return e
}

// wrapConfigError lifts a *syntax.ConfigError into the public Error sum
// type; any other error (a caller's own fn returning something unrelated)
// passes through unchanged.
func wrapConfigError(err error) error {
	if cfgErr, ok := err.(*syntax.ConfigError); ok {
		return &Error{Kind: ErrConfiguration, Msg: cfgErr.Error()}
	}
	return err
}

// compile resolves text to a Program, consulting and populating the token
// cache (spec §4.3).
func (e *Engine) compile(text string) (*token.Program, error) {
	if e.syntaxErr != nil {
		return nil, e.syntaxErr
	}
	if entry, ok := e.cache.Lookup(text); ok {
		return entry.Program, nil
	}
	prog, err := tokenizer.Tokenize(text, e.Syntax.Bundle())
	if err != nil {
		return nil, err
	}
	e.cache.Store(text, cache.Entry{Program: prog})
	return prog, nil
}

// Compiled compiles path (through the token cache) and returns its Program,
// for callers that want to inspect or validate the compiled form (spec
// §4.3). Get and Set take path text, not a Program; repeated calls with
// the same text reuse the compiled form only through the token cache.
func (e *Engine) Compiled(path string) (*token.Program, error) {
	return e.compile(path)
}

// Valid reports whether path compiles under the engine's current syntax
// table.
func (e *Engine) Valid(path string) bool {
	_, err := e.compile(path)
	return err == nil
}

// SetPrefix rebinds one of the prefix roles (parent, root, placeholder,
// context) to ch, invalidating the token cache on success (spec §4.1).
func (e *Engine) SetPrefix(role syntax.Role, ch rune) error {
	return wrapConfigError(e.Syntax.SetPrefix(role, ch))
}

// SetSeparator rebinds one of the separator roles (property, collection,
// each) to ch.
func (e *Engine) SetSeparator(role syntax.Role, ch rune) error {
	return wrapConfigError(e.Syntax.SetSeparator(role, ch))
}

// SetContainer rebinds one of the container roles' opener/closer pair.
func (e *Engine) SetContainer(role syntax.Role, open, close rune) error {
	return wrapConfigError(e.Syntax.SetContainer(role, open, close))
}

// ResetSyntax restores every role to its default binding.
func (e *Engine) ResetSyntax() { e.Syntax.Reset() }

// Escape returns segment with every character the current syntax table
// treats as special backslash-escaped, so the result can be concatenated
// into a larger path literally (spec §4.1 "escaping").
func (e *Engine) Escape(segment string) string {
	b := e.Syntax.Bundle()
	var out []rune
	for _, r := range segment {
		if b.IsSpecial(r) || r == '*' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}

// Get resolves path against root and returns the value found there; the
// second return is false when nothing matched or path does not compile, in
// which case the first return is the engine's configured default_return
// (WithDefaultReturn), or nil if none was set (spec §5 "get", §6.2
// "default_return").
func (e *Engine) Get(root any, path string, args ...any) (any, bool, error) {
	trace := enginelog.Trace()
	e.log.Debugf(trace, "get %q", path)
	prog, err := e.compile(path)
	if err != nil {
		e.log.Errorf(trace, "compile %q: %v", path, err)
		if err == e.syntaxErr {
			return nil, false, err
		}
		return e.defaultReturn, false, nil
	}
	rv := value.Wrap(marshal.ToNative(root))
	if prog.Simple {
		if v, ok := evaluator.QuickGet(rv, prog); ok {
			return v.Unwrap(), true, nil
		}
		return e.defaultReturn, false, nil
	}
	v, ok, err := evaluator.Resolve(rv, prog, wrapArgs(args))
	if err != nil {
		e.log.Errorf(trace, "resolve %q: %v", path, err)
		return nil, false, err
	}
	if !ok {
		return e.defaultReturn, false, nil
	}
	return v.Unwrap(), true, nil
}

// GetWithDefault behaves like Get but returns def instead of (nil, false)
// when nothing matched (spec §5 "getWithDefault").
func (e *Engine) GetWithDefault(root any, path string, def any, args ...any) (any, error) {
	v, ok, err := e.Get(root, path, args...)
	if err != nil {
		return nil, err
	}
	if !ok {
		return def, nil
	}
	return v, nil
}

// Set resolves path against root and writes newValue at the target
// location, creating missing intermediate containers when the engine's
// force mode (WithForce) is on (spec §5 "set").
func (e *Engine) Set(root any, path string, newValue any, args ...any) error {
	trace := enginelog.Trace()
	e.log.Debugf(trace, "set %q", path)
	prog, err := e.compile(path)
	if err != nil {
		e.log.Errorf(trace, "compile %q: %v", path, err)
		return err
	}
	rv := value.Wrap(marshal.ToNative(root))
	nv := value.Wrap(marshal.ToNative(newValue))
	var setErr error
	if prog.Simple {
		setErr = evaluator.QuickSet(rv, prog, nv, e.force)
	} else {
		setErr = evaluator.ResolveSet(rv, prog, nv, wrapArgs(args), e.force)
	}
	if setErr != nil {
		e.log.Errorf(trace, "set %q: %v", path, setErr)
	}
	return setErr
}

// Mode selects find's halting behavior (spec §6.2 "find(root, target,
// mode)", §4.6 "in first mode, halt on first hit; in all mode, continue").
type Mode int

const (
	// First halts the search at the first node whose value equals target.
	First Mode = iota
	// All collects every node whose value equals target.
	All
)

func (m Mode) toSearch() search.Mode { return search.Mode(m) }

// Find runs a depth-first search over root for every node whose value
// equals target, without cycle detection (spec §6 "find", §4.6). In First
// mode the result holds at most one match.
func (e *Engine) Find(root any, target any, mode Mode) []Match {
	rv := value.Wrap(marshal.ToNative(root))
	tv := value.Wrap(marshal.ToNative(target))
	matches := search.Find(rv, tv, mode.toSearch(), e.Syntax.Bundle())
	return toMatches(matches)
}

// FindSafe behaves like Find but guards against cycles in root: a
// container already on the current descent is not entered again. The
// matches the walk found are still returned alongside a Cycle-detected
// Error (spec §6 "find_safe", §7 "Cycle detected").
func (e *Engine) FindSafe(root any, target any, mode Mode) ([]Match, error) {
	rv := value.Wrap(marshal.ToNative(root))
	tv := value.Wrap(marshal.ToNative(target))
	matches, cyclic := search.FindSafe(rv, tv, mode.toSearch(), e.Syntax.Bundle())
	if cyclic {
		return toMatches(matches), &Error{Kind: ErrCycle, Msg: "pathkit: cycle detected during find_safe"}
	}
	return toMatches(matches), nil
}

// Match is one node search.Find/FindSafe located.
type Match struct {
	Path  string
	Value any
}

func toMatches(in []search.Match) []Match {
	out := make([]Match, len(in))
	for i, m := range in {
		out[i] = Match{Path: m.Path, Value: m.Value.Unwrap()}
	}
	return out
}

func wrapArgs(args []any) []value.Value {
	if len(args) == 0 {
		return nil
	}
	out := make([]value.Value, len(args))
	for i, a := range args {
		out[i] = value.Wrap(marshal.ToNative(a))
	}
	return out
}
