package matcher

import (
	"regexp"
	"strings"

	"github.com/checkgraph/checkgraph/internal/assertion"
	"github.com/checkgraph/checkgraph/internal/diagnostic"
)

// varState is a per-TestCase binding of variable name to captured text. It
// is always mutated through a shadow copy (see matchWord) so a failed match
// attempt never leaks partial bindings back to the caller.
type varState map[string]string

func (v varState) clone() varState {
	c := make(varState, len(v))
	for k, val := range v {
		c[k] = val
	}
	return c
}

// compiledFragment anchors a regex fragment to match only from the start of
// the remaining text, mirroring the reference engine's match-from-start
// semantics for each expression within a word.
func compiledFragment(fragment string) (*regexp.Regexp, error) {
	return regexp.Compile(`\A(?:` + fragment + `)`)
}

// matchWord attempts to match a single assertion word (a run of Expressions
// with no Separator between them) against an entire output word, starting
// at position 0 and requiring the last expression to consume the word in
// full. It never mutates the caller's varState; on success it returns the
// bindings to adopt.
//
// A VarRef to an unbound name or a VarDef redefining an already-bound name
// is a hard failure (a non-nil *diagnostic.Error), not an ordinary
// non-match: it aborts the whole run per the engine's variable rules.
func matchWord(assertionLine *assertion.Assertion, word []assertion.Expression, outputWord string, state varState, fileName string) (newState varState, matched bool, err *diagnostic.Error) {
	shadow := state.clone()
	pos := 0

	for _, e := range word {
		var fragment string
		switch e.Kind {
		case assertion.VarRef:
			value, ok := shadow[e.Name]
			if !ok {
				return nil, false, diagnostic.Semantic(fileName, assertionLine.LineNo,
					"use of undefined variable %q", e.Name)
			}
			fragment = regexp.QuoteMeta(value)
		case assertion.VarDef:
			if _, ok := shadow[e.Name]; ok {
				return nil, false, diagnostic.Semantic(fileName, assertionLine.LineNo,
					"multiple definitions of variable %q", e.Name)
			}
			fragment = e.Literal
		case assertion.Pattern:
			fragment = e.Literal
		case assertion.Text:
			fragment = regexp.QuoteMeta(e.Literal)
		default:
			continue
		}

		re, reErr := compiledFragment(fragment)
		if reErr != nil {
			return nil, false, diagnostic.Semantic(fileName, assertionLine.LineNo,
				"invalid regex fragment %q: %v", fragment, reErr)
		}
		loc := re.FindStringIndex(outputWord[pos:])
		if loc == nil {
			return nil, false, nil
		}
		matchEnd := pos + loc[1]

		if e.Kind == assertion.VarDef {
			shadow[e.Name] = outputWord[pos:matchEnd]
		}
		pos = matchEnd
	}

	if pos != len(outputWord) {
		return nil, false, nil
	}
	return shadow, true, nil
}

// matchLine attempts to match one assertion against one output line. The
// assertion's expressions are split into words at Separator boundaries; the
// output line is split on whitespace. Each assertion-word consumes the
// first still-available output-word (left to right) that matches it;
// output-words it skips over are discarded and unavailable to later words.
func matchLine(assertionLine *assertion.Assertion, outputLine string, state varState, fileName string) (newState varState, matched bool, err *diagnostic.Error) {
	words := assertionLine.Words()
	outputWords := strings.Fields(outputLine)

	current := state
	owIdx := 0

	for _, word := range words {
		found := false
		for ; owIdx < len(outputWords); owIdx++ {
			next, ok, matchErr := matchWord(assertionLine, word, outputWords[owIdx], current, fileName)
			if matchErr != nil {
				return nil, false, matchErr
			}
			if ok {
				current = next
				owIdx++
				found = true
				break
			}
		}
		if !found {
			return nil, false, nil
		}
	}
	return current, true, nil
}
