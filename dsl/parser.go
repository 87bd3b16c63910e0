// Package dsl parses page specifications such as
//
//	A4 portrait margin 50pt font Helvetica size 12pt line-height 1.5x
//
// into an AST that layout.GeometryFromSpec resolves into a page geometry.
package dsl

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	specLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
		{Name: "Comment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `(?:\d+\.\d+|\d+|\.\d+)(?:pt|mm|cm|in|x)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[,;]`},
	})

	specParser = participle.MustBuild[PageSpec](
		participle.Lexer(specLexer),
		participle.Elide("Whitespace", "Comment"),
	)
)

// PageSpec is the root node: a size name, an optional orientation and key/value parameters.
type PageSpec struct {
	Pos         lexer.Position `parser:"" json:"-"`
	Size        string         `parser:"@Ident"`
	Orientation string         `parser:"@( 'portrait' | 'landscape' )?"`
	Params      []*Param       `parser:"( @@ ( ',' | ';' )? )*"`
}

// Param is a single "key value" pair, e.g. `margin 18mm`.
type Param struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident"`
	Value *Value         `parser:"@@"`
}

// Value is a parameter value: a number with optional unit, a quoted string or a bare word.
type Value struct {
	Number *string        `parser:"  @Number"`
	String *StringLiteral `parser:"| @String"`
	Ident  *string        `parser:"| @Ident"`
}

// Raw returns the textual value regardless of which alternative matched.
func (v *Value) Raw() string {
	switch {
	case v == nil:
		return ""
	case v.Number != nil:
		return *v.Number
	case v.String != nil:
		return string(*v.String)
	case v.Ident != nil:
		return *v.Ident
	default:
		return ""
	}
}

// Lookup returns the value of the last parameter named key (case-insensitive).
func (s *PageSpec) Lookup(key string) (*Param, bool) {
	if s == nil {
		return nil, false
	}
	var found *Param
	for _, p := range s.Params {
		if strings.EqualFold(p.Key, key) {
			found = p
		}
	}
	return found, found != nil
}

// Landscape reports whether the spec asks for landscape orientation.
func (s *PageSpec) Landscape() bool {
	return s != nil && strings.EqualFold(s.Orientation, "landscape")
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Parse parses a page specification from an io.Reader.
func Parse(r io.Reader) (*PageSpec, error) {
	return specParser.Parse("", r)
}

// ParseString parses a page specification from a string.
func ParseString(input string) (*PageSpec, error) {
	return specParser.ParseString("", input)
}
