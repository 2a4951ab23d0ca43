// Package engine wires the lexer, parser, and matcher into the
// single operation the rest of the module exposes: one assertion file
// checked against one already-parsed dump. Multi-file orchestration,
// source discovery, and presentation belong to the CLI shell, not here.
package engine

import (
	"io"

	"github.com/checkgraph/checkgraph/internal/asmparser"
	"github.com/checkgraph/checkgraph/internal/diagnostic"
	"github.com/checkgraph/checkgraph/internal/dump"
	"github.com/checkgraph/checkgraph/internal/matcher"
)

// Config holds the engine's tunables. There is no file- or env-based
// configuration layer: the core has nothing to read from the environment
// (per the spec, no environment variables are required), so a plain struct
// populated by the caller is all that's needed.
type Config struct {
	// CheckPrefix is the assertion keyword prefix, e.g. "CHECK".
	CheckPrefix string
	// Quiet suppresses the driver's own Info-level sink calls; TestFailed
	// is never suppressed.
	Quiet bool
}

// DefaultConfig returns the engine's default tunables.
func DefaultConfig() Config {
	return Config{CheckPrefix: "CHECK"}
}

// Driver runs one assertion file against one already-parsed dump document.
type Driver struct {
	Config Config
	Sink   diagnostic.Sink
}

// New constructs a Driver. A nil sink is replaced with diagnostic.NopSink.
func New(cfg Config, sink diagnostic.Sink) *Driver {
	if sink == nil {
		sink = diagnostic.NopSink{}
	}
	return &Driver{Config: cfg, Sink: sink}
}

// Check parses fileName's assertions and matches every TestCase against
// dumpDoc, returning the first diagnostic.Error encountered.
func (d *Driver) Check(fileName string, r io.Reader, dumpDoc *dump.Document) error {
	if !d.Config.Quiet {
		d.Sink.Info("parsing %s", fileName)
	}
	doc, err := asmparser.Parse(fileName, d.Config.CheckPrefix, r)
	if err != nil {
		diagErr, ok := err.(*diagnostic.Error)
		if !ok {
			diagErr = diagnostic.Wrap(diagnostic.KindStructural, fileName, err)
		}
		d.Sink.TestFailed(fileName, diagErr)
		return diagErr
	}
	return matcher.Match(doc, dumpDoc, d.Sink)
}
