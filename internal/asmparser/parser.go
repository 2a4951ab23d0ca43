// Package asmparser converts the raw assertion lines extracted by
// internal/asmlexer into a fully typed *assertion.Document: each body is
// scanned into an Expression sequence, and the language's invariants
// (non-empty case names, non-empty assertions, no CHECK-NOT with VarDef)
// are enforced here, at parse time.
package asmparser

import (
	"io"
	"regexp"

	"github.com/checkgraph/checkgraph/internal/asmlexer"
	"github.com/checkgraph/checkgraph/internal/assertion"
	"github.com/checkgraph/checkgraph/internal/diagnostic"
)

// Grammar regexes, ported from the assertion mini-language's reference
// implementation: a name is a letter followed by letters/digits, a pattern
// or variable-definition body is any non-empty run matched non-greedily so
// that adjacent special forms ("{{a}}{{b}}") are parsed as two tokens
// rather than one spanning both.
const (
	rName = `[A-Za-z][A-Za-z0-9]*`
	rBody = `.+?`
	rWS   = `\s+`
	rPat  = `\{\{` + rBody + `\}\}`
	rRef  = `\[\[` + rName + `\]\]`
	rDef  = `\[\[` + rName + `:` + rBody + `\]\]`
)

var (
	reWhitespace = regexp.MustCompile(rWS)
	rePattern    = regexp.MustCompile(rPat)
	reVarRef     = regexp.MustCompile(rRef)
	reVarDef     = regexp.MustCompile(rDef)
)

// isAtStart reports whether a regexp match (possibly nil) begins at offset 0.
func isAtStart(loc []int) bool {
	return loc != nil && loc[0] == 0
}

// firstStart returns the minimal match start among the given locations,
// treating a nil location (no match) as starting at the end of the string.
func firstStart(length int, locs ...[]int) int {
	min := length
	for _, loc := range locs {
		if loc != nil && loc[0] < min {
			min = loc[0]
		}
	}
	return min
}

// ParseBody scans one assertion body into its Expression sequence following
// the grammar in order of priority at each position: whitespace, then a
// {{pattern}}, then a [[var]] form; anything else accumulates as Text up to
// the next position where one of those three genuinely applies.
func ParseBody(body string) []assertion.Expression {
	var exprs []assertion.Expression

	for len(body) > 0 {
		wsLoc := reWhitespace.FindStringIndex(body)
		patLoc := rePattern.FindStringIndex(body)
		refLoc := reVarRef.FindStringIndex(body)
		defLoc := reVarDef.FindStringIndex(body)

		switch {
		case isAtStart(wsLoc):
			exprs = append(exprs, assertion.Expression{Kind: assertion.Separator})
			body = body[wsLoc[1]:]
		case isAtStart(patLoc):
			frag := body[2 : patLoc[1]-2]
			exprs = append(exprs, assertion.Expression{Kind: assertion.Pattern, Literal: frag})
			body = body[patLoc[1]:]
		case isAtStart(refLoc):
			name := body[2 : refLoc[1]-2]
			exprs = append(exprs, assertion.Expression{Kind: assertion.VarRef, Name: name})
			body = body[refLoc[1]:]
		case isAtStart(defLoc):
			inner := body[2 : defLoc[1]-2]
			colon := indexByte(inner, ':')
			name := inner[:colon]
			frag := inner[colon+1:]
			exprs = append(exprs, assertion.Expression{Kind: assertion.VarDef, Name: name, Literal: frag})
			body = body[defLoc[1]:]
		default:
			cut := firstStart(len(body), wsLoc, patLoc, refLoc, defLoc)
			exprs = append(exprs, assertion.Expression{Kind: assertion.Text, Literal: body[:cut]})
			body = body[cut:]
		}
	}
	return exprs
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}

// Parse lexes and parses one assertion-bearing source file into a Document.
func Parse(fileName string, prefix string, r io.Reader) (*assertion.Document, error) {
	rawCases, err := asmlexer.Lex(fileName, r, prefix)
	if err != nil {
		return nil, err
	}

	doc := &assertion.Document{FileName: fileName}
	for _, rc := range rawCases {
		tc := assertion.TestCase{Name: rc.Name, StartLine: rc.StartLine}
		for _, rl := range rc.Lines {
			if rl.Body == "" {
				return nil, diagnostic.Semantic(fileName, rl.LineNo, "empty assertion body")
			}
			exprs := ParseBody(rl.Body)
			if rl.Variant == assertion.Not {
				for _, e := range exprs {
					if e.Kind == assertion.VarDef {
						return nil, diagnostic.Semantic(fileName, rl.LineNo,
							"%s-NOT lines cannot define variables", prefix)
					}
				}
			}
			tc.Assertions = append(tc.Assertions, assertion.Assertion{
				Variant:      rl.Variant,
				LineNo:       rl.LineNo,
				OriginalText: rl.Body,
				Expressions:  exprs,
			})
		}
		doc.TestCases = append(doc.TestCases, tc)
	}
	return doc, nil
}
