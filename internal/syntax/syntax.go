// Package syntax implements the syntax table (spec §3.2, §4.1): the
// role -> character bindings that parameterise the path grammar, and the
// derived predicates the tokenizer consults on every scan.
package syntax

import (
	"fmt"
	"unicode"

	"github.com/pathgraph/pathkit/internal/config"
)

// Role identifies a single grammatical slot a character can be bound to.
type Role int

const (
	RoleParent Role = iota
	RoleRoot
	RolePlaceholder
	RoleContext

	RoleProperty
	RoleCollection
	RoleEach

	RolePropertyContainer
	RoleSingleQuote
	RoleDoubleQuote
	RoleCall
	RoleEvalProperty
)

func (r Role) String() string {
	switch r {
	case RoleParent:
		return "parent"
	case RoleRoot:
		return "root"
	case RolePlaceholder:
		return "placeholder"
	case RoleContext:
		return "context"
	case RoleProperty:
		return "property"
	case RoleCollection:
		return "collection"
	case RoleEach:
		return "each"
	case RolePropertyContainer:
		return "propertyContainer"
	case RoleSingleQuote:
		return "singlequote"
	case RoleDoubleQuote:
		return "doublequote"
	case RoleCall:
		return "call"
	case RoleEvalProperty:
		return "evalProperty"
	default:
		return "unknown"
	}
}

// ContainerOp names the operation a container's contents feed into once the
// tokenizer has evaluated them (spec §3.3).
type ContainerOp int

const (
	OpProperty ContainerOp = iota
	OpCall
	OpEvalProperty
	OpSingleQuote
	OpDoubleQuote
)

// Container describes one bracketed span: its opener/closer pair and the
// role/op it plays.
type Container struct {
	Role   Role
	Open   rune
	Close  rune
	Op     ContainerOp
	IsQuote bool
}

// ConfigError is raised when a syntax mutation is rejected (spec §4.1,
// §7 "Configuration error").
type ConfigError struct {
	Role Role
	Char rune
	Msg  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("syntax: cannot bind %q to role %s: %s", e.Char, e.Role, e.Msg)
}

// Table is the mutable role table plus its derived predicates. It is the
// "mutable instance with derived caches" from spec §9: mutation rebuilds
// the bundle below and callers consult an immutable snapshot via Bundle().
type Table struct {
	prefixes   map[Role]rune // parent, root, placeholder, context
	separators map[Role]rune // property, collection, each
	containers map[Role]Container

	simple bool

	bundle *Bundle
	onMutate func()
}

// Bundle is the derived, read-only state recomputed on every mutation:
// the set of every currently-special character, and the "complex" set
// (every special character other than the active property separator).
type Bundle struct {
	PropertySep   rune
	CollectionSep rune
	EachSep       rune

	Prefixes   map[rune]Role
	Containers map[rune]Container // keyed by opener
	Closers    map[rune]Container // keyed by closer, for unescaping/depth checks

	// Special is every character that is escapable: prefixes, separators,
	// container openers and closers.
	Special map[rune]bool
	// Complex is Special minus PropertySep — used for the tokenizer's
	// fast-exit check (spec §4.2 step 2).
	Complex map[rune]bool
}

// New returns a Table with the default bindings (spec §3.2).
func New() *Table {
	t := &Table{
		prefixes:   make(map[Role]rune),
		separators: make(map[Role]rune),
		containers: make(map[Role]Container),
	}
	t.Reset()
	return t
}

// OnMutate registers a callback invoked after every successful mutation,
// used by the engine to empty the token cache (spec §4.1(d), §C3).
func (t *Table) OnMutate(fn func()) { t.onMutate = fn }

// Reset restores every role to its default binding and clears simple mode
// (spec §4.1 "reset to defaults").
func (t *Table) Reset() {
	t.prefixes = map[Role]rune{
		RoleParent:      config.DefaultParent,
		RoleRoot:        config.DefaultRoot,
		RolePlaceholder: config.DefaultPlaceholder,
		RoleContext:     config.DefaultContext,
	}
	t.separators = map[Role]rune{
		RoleProperty:   config.DefaultPropertySep,
		RoleCollection: config.DefaultCollectionSep,
		RoleEach:       config.DefaultEachSep,
	}
	t.containers = map[Role]Container{
		RolePropertyContainer: {Role: RolePropertyContainer, Open: config.DefaultPropertyOpen, Close: config.DefaultPropertyClose, Op: OpProperty},
		RoleSingleQuote:       {Role: RoleSingleQuote, Open: config.DefaultSingleQuoteOpen, Close: config.DefaultSingleQuoteClose, Op: OpSingleQuote, IsQuote: true},
		RoleDoubleQuote:       {Role: RoleDoubleQuote, Open: config.DefaultDoubleQuoteOpen, Close: config.DefaultDoubleQuoteClose, Op: OpDoubleQuote, IsQuote: true},
		RoleCall:              {Role: RoleCall, Open: config.DefaultCallOpen, Close: config.DefaultCallClose, Op: OpCall},
		RoleEvalProperty:      {Role: RoleEvalProperty, Open: config.DefaultEvalPropertyOpen, Close: config.DefaultEvalPropertyClose, Op: OpEvalProperty},
	}
	t.simple = false
	t.rebuild()
	t.notify()
}

// SetSimpleMode enables or disables simple mode (spec §3.2 "A simple mode
// exists"). Enabling clears prefixes, containers and the collection and
// each separators, leaving only the property separator (and the escape
// backslash) special.
func (t *Table) SetSimpleMode(enabled bool) {
	t.simple = enabled
	if enabled {
		t.prefixes = map[Role]rune{}
		t.separators = map[Role]rune{RoleProperty: t.separators[RoleProperty]}
		t.containers = map[Role]Container{}
	}
	t.rebuild()
	t.notify()
}

// SimpleMode reports whether simple mode is active.
func (t *Table) SimpleMode() bool { return t.simple }

// SetPrefix assigns ch to one of the prefix roles.
func (t *Table) SetPrefix(role Role, ch rune) error {
	if err := t.validate(role, ch); err != nil {
		return err
	}
	t.prefixes[role] = ch
	t.rebuild()
	t.notify()
	return nil
}

// SetSeparator assigns ch to one of the separator roles.
func (t *Table) SetSeparator(role Role, ch rune) error {
	if err := t.validate(role, ch); err != nil {
		return err
	}
	t.separators[role] = ch
	t.rebuild()
	t.notify()
	return nil
}

// SetContainer assigns an opener/closer pair to one of the container roles.
func (t *Table) SetContainer(role Role, open, close rune) error {
	if err := t.validate(role, open); err != nil {
		return err
	}
	if open != close {
		if err := t.validate(role, close); err != nil {
			return err
		}
	}
	c := t.containers[role]
	c.Role = role
	c.Open = open
	c.Close = close
	c.IsQuote = role == RoleSingleQuote || role == RoleDoubleQuote
	t.containers[role] = c
	t.rebuild()
	t.notify()
	return nil
}

// validate enforces spec §4.1(a): single, printable, not the wildcard, and
// not already bound to a different role.
func (t *Table) validate(role Role, ch rune) error {
	if ch == config.Wildcard {
		return &ConfigError{Role: role, Char: ch, Msg: "wildcard is reserved"}
	}
	if !unicode.IsPrint(ch) {
		return &ConfigError{Role: role, Char: ch, Msg: "not printable"}
	}
	for r, c := range t.prefixes {
		if r != role && c == ch {
			return &ConfigError{Role: role, Char: ch, Msg: fmt.Sprintf("already bound to %s", r)}
		}
	}
	for r, c := range t.separators {
		if r != role && c == ch {
			return &ConfigError{Role: role, Char: ch, Msg: fmt.Sprintf("already bound to %s", r)}
		}
	}
	for r, c := range t.containers {
		if r == role {
			continue
		}
		if c.Open == ch || c.Close == ch {
			return &ConfigError{Role: role, Char: ch, Msg: fmt.Sprintf("already bound to %s", r)}
		}
	}
	return nil
}

func (t *Table) notify() {
	if t.onMutate != nil {
		t.onMutate()
	}
}

func (t *Table) rebuild() {
	b := &Bundle{
		PropertySep:   t.separators[RoleProperty],
		CollectionSep: t.separators[RoleCollection],
		EachSep:       t.separators[RoleEach],
		Prefixes:      make(map[rune]Role, len(t.prefixes)),
		Containers:    make(map[rune]Container, len(t.containers)),
		Closers:       make(map[rune]Container, len(t.containers)),
		Special:       make(map[rune]bool),
		Complex:       make(map[rune]bool),
	}
	for role, ch := range t.prefixes {
		b.Prefixes[ch] = role
		b.Special[ch] = true
	}
	for _, ch := range t.separators {
		b.Special[ch] = true
	}
	for _, c := range t.containers {
		b.Containers[c.Open] = c
		b.Closers[c.Close] = c
		b.Special[c.Open] = true
		b.Special[c.Close] = true
	}
	b.Special['\\'] = true

	for ch := range b.Special {
		if ch != b.PropertySep {
			b.Complex[ch] = true
		}
	}
	t.bundle = b
}

// Bundle returns the current derived, read-only predicate bundle. The
// pointer is stable until the next mutation (spec §9 "atomic pointer").
func (t *Table) Bundle() *Bundle { return t.bundle }

// IsSpecial reports whether ch is escapable under the current table.
func (b *Bundle) IsSpecial(ch rune) bool { return b.Special[ch] }

// IsComplex reports whether ch would force the tokenizer off the fast
// exit path (spec §4.2 step 2: any special character other than the
// property separator).
func (b *Bundle) IsComplex(ch rune) bool { return b.Complex[ch] }

// ContainsComplex reports whether any rune of text is complex under b.
func (b *Bundle) ContainsComplex(text string) bool {
	for _, r := range text {
		if b.IsComplex(r) {
			return true
		}
	}
	return false
}
