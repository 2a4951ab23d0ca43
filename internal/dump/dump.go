// Package dump parses C1visualizer-format compiler dumps into a sequence of
// named PassGroups via a small explicit state machine, per the four states
// described in the engine's design: Outside, InCompilation, StartingCfg,
// InCfg.
package dump

import (
	"bufio"
	"io"
	"strings"

	"github.com/checkgraph/checkgraph/internal/diagnostic"
)

// PassGroup is one "<method> <pass>" block: the lines between a begin_cfg
// and its matching end_cfg, preceded by the method name recorded from the
// enclosing begin_compilation block.
type PassGroup struct {
	Name      string
	StartLine int
	Body      []string
}

// Document is the full sequence of pass groups found in a dump file, in the
// order they appeared.
type Document struct {
	FileName string
	Groups   []PassGroup
}

// Find returns the first PassGroup with the given composite name, or nil.
// Multiple occurrences of the same name (e.g. a pass run more than once)
// are not disambiguated; the first is always used, matching the reference
// engine's documented limitation.
func (d *Document) Find(name string) *PassGroup {
	for i := range d.Groups {
		if d.Groups[i].Name == name {
			return &d.Groups[i]
		}
	}
	return nil
}

// Names returns the composite names of every pass group, in file order.
func (d *Document) Names() []string {
	names := make([]string, len(d.Groups))
	for i, g := range d.Groups {
		names[i] = g.Name
	}
	return names
}

type state int

const (
	outside state = iota
	inCompilation
	startingCfg
	inCfg
)

// quotedValue extracts the double-quoted value of a `keyword "value"` line,
// returning ok=false if the line doesn't have that shape.
func quotedValue(line, keyword string) (value string, ok bool) {
	rest := strings.TrimSpace(line)
	if !strings.HasPrefix(rest, keyword) {
		return "", false
	}
	rest = strings.TrimSpace(rest[len(keyword):])
	if len(rest) < 2 || rest[0] != '"' {
		return "", false
	}
	end := strings.IndexByte(rest[1:], '"')
	if end < 0 {
		return "", false
	}
	return rest[1 : 1+end], true
}

// Parse reads a C1visualizer dump and returns its Document, or a structural
// diagnostic.Error on the first line that violates the block grammar.
func Parse(fileName string, r io.Reader) (*Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	doc := &Document{FileName: fileName}
	st := outside
	var methodName string
	var current *PassGroup
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch st {
		case outside:
			switch {
			case line == "begin_compilation":
				st = inCompilation
			case line == "begin_cfg":
				if methodName == "" {
					return nil, diagnostic.Structural(fileName, lineNo, "begin_cfg without a preceding method name")
				}
				st = startingCfg
			default:
				return nil, diagnostic.Structural(fileName, lineNo, "line lies outside a compilation or cfg block: %q", line)
			}

		case inCompilation:
			if name, ok := quotedValue(line, "method"); ok {
				methodName = name
			} else if line == "end_compilation" {
				st = outside
			}
			// Any other line inside begin_compilation/end_compilation is ignored.

		case startingCfg:
			name, ok := quotedValue(line, "name")
			if !ok {
				return nil, diagnostic.Structural(fileName, lineNo, "expected a pass name line after begin_cfg, found %q", line)
			}
			doc.Groups = append(doc.Groups, PassGroup{
				Name:      methodName + " " + name,
				StartLine: lineNo + 1,
			})
			current = &doc.Groups[len(doc.Groups)-1]
			st = inCfg

		case inCfg:
			if line == "end_cfg" {
				st = outside
				current = nil
				continue
			}
			current.Body = append(current.Body, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, diagnostic.Wrap(diagnostic.KindStructural, fileName, err)
	}
	return doc, nil
}
