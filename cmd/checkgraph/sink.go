package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/checkgraph/checkgraph/internal/diagnostic"
)

// writerSink renders progress and failures to an io.Writer, colorized per
// the CLI's --no-color/NO_COLOR decision. It's the console-facing
// implementation of diagnostic.Sink; the core module never formats colored
// text itself (see internal/diagnostic.Sink).
type writerSink struct {
	mu    sync.Mutex
	w     io.Writer
	pal   *palette
	quiet bool
}

func newWriterSink(w io.Writer, pal *palette, quiet bool) *writerSink {
	return &writerSink{w: w, pal: pal, quiet: quiet}
}

func (s *writerSink) TestStarted(caseName string) {
	if s.quiet {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "TEST %s... ", caseName)
}

func (s *writerSink) TestPassed(caseName string) {
	if s.quiet {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pal.green.Fprintln(s.w, "PASSED")
}

func (s *writerSink) TestFailed(caseName string, err *diagnostic.Error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.quiet {
		s.pal.red.Fprintln(s.w, "FAILED")
	}
	formatError(s.w, err, s.pal)
}

func (s *writerSink) Info(format string, args ...any) {
	if s.quiet {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pal.gray.Fprintf(s.w, format+"\n", args...)
}

// formatError renders a *diagnostic.Error the way the reference CLI
// renders its own structured errors: a colored "Error:" line, then
// context, then (where meaningful) the output line under examination.
func formatError(w io.Writer, err *diagnostic.Error, pal *palette) {
	pal.red.Fprint(w, "Error: ")
	fmt.Fprintln(w, err.Error())

	if err.PassName != "" {
		pal.gray.Fprintf(w, "  in pass group %q\n", err.PassName)
	}
	if err.OutputLine >= 0 {
		pal.gray.Fprintf(w, "  output line %d\n", err.OutputLine)
	}
	if err.Cause != nil {
		pal.gray.Fprintf(w, "  caused by: %v\n", err.Cause)
	}
}
