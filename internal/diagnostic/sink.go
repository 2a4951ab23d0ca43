package diagnostic

// Sink receives progress and failure notifications from the matcher and
// driver. The core never formats colored output or writes to stdout
// directly — per-test progress reporting and coloring are a concern of the
// CLI shell that implements Sink, not of the matching algorithm.
type Sink interface {
	TestStarted(caseName string)
	TestPassed(caseName string)
	TestFailed(caseName string, err *Error)
	Info(format string, args ...any)
}

// NopSink discards everything. It is the default for library callers and
// for tests that only care about the returned error.
type NopSink struct{}

func (NopSink) TestStarted(string)        {}
func (NopSink) TestPassed(string)         {}
func (NopSink) TestFailed(string, *Error) {}
func (NopSink) Info(string, ...any)       {}
