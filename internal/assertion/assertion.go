// Package assertion holds the data model produced by parsing a CHECK-style
// assertion file: a Document of TestCases, each a list of Assertions, each a
// list of Expressions. The model is read-only once built; the matcher only
// ever borrows references into it.
package assertion

import (
	"regexp"
	"strings"
)

// Variant is the ordering semantics of an Assertion.
type Variant int

const (
	InOrder Variant = iota
	DAG
	Not
)

func (v Variant) String() string {
	switch v {
	case InOrder:
		return "CHECK"
	case DAG:
		return "CHECK-DAG"
	case Not:
		return "CHECK-NOT"
	default:
		return "CHECK-?"
	}
}

// ExprKind discriminates the five Expression variants in the grammar.
type ExprKind int

const (
	Text ExprKind = iota
	Pattern
	VarRef
	VarDef
	Separator
)

// Expression is a tagged value. Only the fields relevant to Kind are set:
//
//	Text      -> Literal holds the raw (unescaped) literal text
//	Pattern   -> Literal holds the regex fragment, used verbatim
//	VarRef    -> Name holds the referenced variable name
//	VarDef    -> Name holds the bound name, Literal holds the regex fragment
//	Separator -> no payload
type Expression struct {
	Kind    ExprKind
	Name    string
	Literal string
}

// regexFragment returns the regex fragment this expression contributes to a
// word's concatenated pattern. VarRef is not resolvable here since it
// requires the current variable bindings; callers needing VarRef must
// special-case it.
func (e Expression) regexFragment() string {
	switch e.Kind {
	case Text:
		return regexp.QuoteMeta(e.Literal)
	case Pattern, VarDef:
		return e.Literal
	default:
		return ""
	}
}

// Assertion is a single CHECK/CHECK-DAG/CHECK-NOT line.
type Assertion struct {
	Variant      Variant
	LineNo       int
	OriginalText string
	Expressions  []Expression
}

// Words splits the Expressions at Separator boundaries, producing the
// sequence of words the line-match algorithm matches independently against
// whitespace-delimited output tokens.
func (a Assertion) Words() [][]Expression {
	var words [][]Expression
	var current []Expression
	for _, e := range a.Expressions {
		if e.Kind == Separator {
			if len(current) > 0 {
				words = append(words, current)
				current = nil
			}
			continue
		}
		current = append(current, e)
	}
	if len(current) > 0 {
		words = append(words, current)
	}
	return words
}

// ToRegex renders a canonical regex-like string for the assertion, used only
// by tests to compare parses (Separator becomes ", " the way the legacy
// toRegex did, each expression's pattern parenthesized).
func (a Assertion) ToRegex() string {
	var b strings.Builder
	for _, e := range a.Expressions {
		if e.Kind == Separator {
			b.WriteString(", ")
			continue
		}
		b.WriteByte('(')
		switch e.Kind {
		case VarRef:
			b.WriteString("ref:" + e.Name)
		case VarDef:
			b.WriteString("def:" + e.Name + ":" + e.Literal)
		default:
			b.WriteString(e.regexFragment())
		}
		b.WriteByte(')')
	}
	return b.String()
}

// TestCase groups the assertions following one CHECK-START line.
type TestCase struct {
	Name       string
	StartLine  int
	Assertions []Assertion
}

// Document is the parsed form of one assertion-bearing source file.
type Document struct {
	FileName  string
	TestCases []TestCase
}
