// Package asmlexer extracts raw assertion lines from a comment-bearing
// source file by prefix recognition. It does not interpret the body of an
// assertion; that is the AssertionParser's job (see internal/asmparser).
package asmlexer

import (
	"bufio"
	"io"
	"strings"

	"github.com/checkgraph/checkgraph/internal/assertion"
	"github.com/checkgraph/checkgraph/internal/diagnostic"
)

// RawLine is one assertion body extracted from a source line, still
// unparsed, tagged with its variant and 1-indexed source line number.
type RawLine struct {
	Body    string
	Variant assertion.Variant
	LineNo  int
}

// RawCase is the lines accumulated under one CHECK-START header.
type RawCase struct {
	Name      string
	StartLine int
	Lines     []RawLine
}

var commentMarkers = []string{"//", "#"}

// stripCommentMarker returns the line with leading whitespace and a leading
// "//" or "#" removed, or ok=false if the line (after trimming whitespace)
// doesn't begin with one of those markers.
func stripCommentMarker(line string) (rest string, ok bool) {
	trimmed := strings.TrimLeft(line, " \t")
	for _, marker := range commentMarkers {
		if strings.HasPrefix(trimmed, marker) {
			return trimmed[len(marker):], true
		}
	}
	return "", false
}

// extractBody checks whether, after the comment marker, the line begins
// with optional whitespace followed by exactly "<label>:" and returns the
// trimmed remainder. Recognition is exact: a line beginning "ACHECK:" never
// matches label "CHECK".
func extractBody(afterMarker, label string) (body string, ok bool) {
	rest := strings.TrimLeft(afterMarker, " \t")
	prefix := label + ":"
	if !strings.HasPrefix(rest, prefix) {
		return "", false
	}
	return strings.TrimSpace(rest[len(prefix):]), true
}

// classify inspects one source line and reports which assertion form (if
// any) it represents. startName is non-empty only for a CHECK-START line.
func classify(line, prefix string) (body string, variant assertion.Variant, isStart bool, startName string, matched bool) {
	afterMarker, ok := stripCommentMarker(line)
	if !ok {
		return "", 0, false, "", false
	}
	if name, ok := extractBody(afterMarker, prefix+"-START"); ok {
		return "", 0, true, name, true
	}
	if b, ok := extractBody(afterMarker, prefix+"-DAG"); ok {
		return b, assertion.DAG, false, "", true
	}
	if b, ok := extractBody(afterMarker, prefix+"-NOT"); ok {
		return b, assertion.Not, false, "", true
	}
	if b, ok := extractBody(afterMarker, prefix); ok {
		return b, assertion.InOrder, false, "", true
	}
	return "", 0, false, "", false
}

// Lex scans r line by line and groups assertion lines under their enclosing
// CHECK-START case. fileName is used only for diagnostics.
func Lex(fileName string, r io.Reader, prefix string) ([]RawCase, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var cases []RawCase
	currentIdx := -1
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		body, variant, isStart, startName, matched := classify(line, prefix)
		if !matched {
			continue
		}

		if isStart {
			name := strings.TrimSpace(startName)
			if name == "" {
				return nil, diagnostic.Structural(fileName, lineNo, "test case does not have a name")
			}
			cases = append(cases, RawCase{Name: name, StartLine: lineNo})
			currentIdx = len(cases) - 1
			continue
		}

		if currentIdx < 0 {
			return nil, diagnostic.Structural(fileName, lineNo, "assertion line found before any %s-START", prefix)
		}
		cases[currentIdx].Lines = append(cases[currentIdx].Lines, RawLine{Body: body, Variant: variant, LineNo: lineNo})
	}
	if err := scanner.Err(); err != nil {
		return nil, diagnostic.Wrap(diagnostic.KindStructural, fileName, err)
	}
	return cases, nil
}
