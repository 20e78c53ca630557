// Package config holds module-wide constants: the package version and the
// default syntax-table bindings used when an Engine is created without
// explicit overrides.
package config

// Version is the current pathkit version.
const Version = "0.1.0"

// Default single-character bindings for the syntax table (spec §3.2).
// These are the values restored by syntax.Table.Reset.
const (
	DefaultParent      = '^'
	DefaultRoot        = '~'
	DefaultPlaceholder = '%'
	DefaultContext     = '@'

	DefaultPropertySep   = '.'
	DefaultCollectionSep = ','
	DefaultEachSep       = '<'

	DefaultPropertyOpen  = '['
	DefaultPropertyClose = ']'

	DefaultSingleQuoteOpen  = '\''
	DefaultSingleQuoteClose = '\''

	DefaultDoubleQuoteOpen  = '"'
	DefaultDoubleQuoteClose = '"'

	DefaultCallOpen  = '('
	DefaultCallClose = ')'

	DefaultEvalPropertyOpen  = '{'
	DefaultEvalPropertyClose = '}'
)

// Wildcard is fixed and never assignable to a role.
const Wildcard = '*'

// Reserved property names a write must never create or traverse through on
// the fast path, guarding against prototype-pollution-shaped attacks even
// though Go's map[string]any shares no namespace with language metadata
// (spec §4.4, §9 "Prototype pollution guard").
var ForbiddenKeys = map[string]bool{
	"__proto__":   true,
	"constructor": true,
	"prototype":   true,
}
