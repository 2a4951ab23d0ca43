// Package matcher executes the ordered/DAG/NOT matching algorithm that
// reconciles an *assertion.Document with a *dump.Document, threading
// variable bindings across assertions within one TestCase and checking
// CHECK-NOT assertions only against the output windows between positive
// matches.
package matcher

import (
	"github.com/checkgraph/checkgraph/internal/assertion"
	"github.com/checkgraph/checkgraph/internal/diagnostic"
	"github.com/checkgraph/checkgraph/internal/dump"
)

// Match runs every TestCase in doc against the identically named PassGroup
// in dumpDoc, reporting progress through sink. It returns the first
// diagnostic.Error encountered; the run aborts there, since none of the
// three failure kinds has a recovery path.
func Match(doc *assertion.Document, dumpDoc *dump.Document, sink diagnostic.Sink) error {
	for i := range doc.TestCases {
		tc := &doc.TestCases[i]
		sink.TestStarted(tc.Name)

		group := dumpDoc.Find(tc.Name)
		if group == nil {
			err := diagnostic.MatchFailure(doc.FileName, tc.StartLine, tc.Name, -1,
				"pass group %q not found in dump", tc.Name)
			sink.TestFailed(tc.Name, err)
			return err
		}

		if err := matchCase(doc.FileName, tc, group); err != nil {
			sink.TestFailed(tc.Name, err.(*diagnostic.Error))
			return err
		}
		sink.TestPassed(tc.Name)
	}
	return nil
}

// window is one contiguous run of CHECK-NOT assertions followed by either a
// single InOrder assertion or a maximal run of DAG assertions.
type window struct {
	nots      []assertion.Assertion
	positives []assertion.Assertion
}

// nextWindow splits the next window off the front of assertions, returning
// the window and the remaining assertions. If nothing positive remains, the
// window carries only the trailing Nots and remaining is empty.
func nextWindow(assertions []assertion.Assertion) (w window, remaining []assertion.Assertion) {
	i := 0
	for i < len(assertions) && assertions[i].Variant == assertion.Not {
		i++
	}
	w.nots = assertions[:i]
	rest := assertions[i:]

	if len(rest) == 0 {
		return w, nil
	}

	if rest[0].Variant == assertion.InOrder {
		w.positives = rest[:1]
		return w, rest[1:]
	}

	j := 0
	for j < len(rest) && rest[j].Variant == assertion.DAG {
		j++
	}
	w.positives = rest[:j]
	return w, rest[j:]
}

// matchCase runs the window-driven state machine for one TestCase against
// its PassGroup body.
func matchCase(fileName string, tc *assertion.TestCase, group *dump.PassGroup) error {
	state := varState{}
	outputLines := group.Body
	startLineNo := group.StartLine
	remaining := tc.Assertions

	for len(remaining) > 0 {
		var w window
		w, remaining = nextWindow(remaining)

		if len(w.positives) == 0 {
			// No positive assertions remain: the trailing Nots are checked
			// against the rest of the output and matching is done.
			if err := matchNots(fileName, w.nots, outputLines, startLineNo, state); err != nil {
				return err
			}
			break
		}

		precedingLines, restLines, newStartLineNo, newState, err :=
			matchIndependent(fileName, tc.Name, w.positives, outputLines, startLineNo, state)
		if err != nil {
			return err
		}

		if err := matchNots(fileName, w.nots, precedingLines, startLineNo, state); err != nil {
			return err
		}

		outputLines = restLines
		startLineNo = newStartLineNo
		state = newState
	}
	return nil
}

// matchIndependent matches a location-independent group of assertions (a
// single InOrder assertion, or a maximal DAG run) against outputLines. Each
// assertion is assigned, in source order, the first unused output line at
// or after the cursor that matches it — greedy first-fit, per the engine's
// documented (non-backtracking) DAG assignment rule. It returns the output
// lines preceding the earliest match (for the caller's Not-checking), the
// output lines after the latest match, the new cursor, and the new
// variable state.
func matchIndependent(fileName, passName string, positives []assertion.Assertion, outputLines []string, startLineNo int, state varState) (preceding, rest []string, newStartLineNo int, newState varState, err error) {
	if len(positives) == 0 {
		return outputLines, nil, startLineNo + len(outputLines), state, nil
	}

	used := make(map[int]bool)
	matchedAt := make([]int, len(positives))
	current := state

	for idx := range positives {
		a := &positives[idx]
		lineNo, next, derr := findFirstMatch(fileName, a, outputLines, startLineNo, used, current)
		if derr != nil {
			return nil, nil, 0, nil, derr
		}
		if lineNo < 0 {
			return nil, nil, 0, nil, diagnostic.MatchFailure(fileName, a.LineNo, passName, startLineNo,
				"could not match assertion %q starting from output line %d", a.OriginalText, startLineNo)
		}
		used[lineNo] = true
		matchedAt[idx] = lineNo
		current = next
	}

	minLine, maxLine := matchedAt[0], matchedAt[0]
	for _, l := range matchedAt[1:] {
		if l < minLine {
			minLine = l
		}
		if l > maxLine {
			maxLine = l
		}
	}

	preceding = outputLines[:minLine-startLineNo]
	rest = outputLines[maxLine-startLineNo+1:]
	return preceding, rest, maxLine + 1, current, nil
}

// findFirstMatch scans outputLines, skipping any absolute line number
// present in used, for the first line matching assertionLine. It returns
// the absolute line number and resulting variable state, or -1 and the
// original state if no line matches.
func findFirstMatch(fileName string, assertionLine *assertion.Assertion, outputLines []string, startLineNo int, used map[int]bool, state varState) (int, varState, *diagnostic.Error) {
	for i, line := range outputLines {
		absLine := startLineNo + i
		if used[absLine] {
			continue
		}
		next, ok, err := matchLine(assertionLine, line, state, fileName)
		if err != nil {
			return -1, nil, err
		}
		if ok {
			return absLine, next, nil
		}
	}
	return -1, state, nil
}

// matchNots verifies that none of the given Not assertions matches any
// line in outputLines. Variable state does not change; a Not assertion
// never binds variables (enforced at parse time).
func matchNots(fileName string, nots []assertion.Assertion, outputLines []string, startLineNo int, state varState) error {
	for i := range nots {
		a := &nots[i]
		lineNo, _, err := findFirstMatch(fileName, a, outputLines, startLineNo, nil, state)
		if err != nil {
			return err
		}
		if lineNo >= 0 {
			return diagnostic.MatchFailure(fileName, a.LineNo, "", lineNo,
				"%s assertion %q matches output line %d", a.Variant, a.OriginalText, lineNo)
		}
	}
	return nil
}
