package engine

import (
	"strings"
	"testing"

	"github.com/checkgraph/checkgraph/internal/diagnostic"
	"github.com/checkgraph/checkgraph/internal/dump"
)

type recordingSink struct {
	started []string
	passed  []string
	failed  []string
}

func (r *recordingSink) TestStarted(name string)                 { r.started = append(r.started, name) }
func (r *recordingSink) TestPassed(name string)                  { r.passed = append(r.passed, name) }
func (r *recordingSink) TestFailed(name string, _ *diagnostic.Error) { r.failed = append(r.failed, name) }
func (r *recordingSink) Info(string, ...any)                     {}

const dumpSrc = `begin_compilation
  method "void Main.main()"
end_compilation
begin_cfg
  name "pass"
  Add
end_cfg
`

func TestDriverCheckSuccess(t *testing.T) {
	dumpDoc, err := dump.Parse("t.cfg", strings.NewReader(dumpSrc))
	if err != nil {
		t.Fatalf("dump.Parse() error = %v", err)
	}

	sink := &recordingSink{}
	d := New(DefaultConfig(), sink)

	src := "// CHECK-START: void Main.main() pass\n// CHECK: Add\n"
	if err := d.Check("t.java", strings.NewReader(src), dumpDoc); err != nil {
		t.Fatalf("Check() error = %v, want nil", err)
	}
	if len(sink.passed) != 1 || sink.passed[0] != "void Main.main() pass" {
		t.Fatalf("sink.passed = %v", sink.passed)
	}
	if len(sink.failed) != 0 {
		t.Fatalf("sink.failed = %v, want none", sink.failed)
	}
}

func TestDriverCheckReportsParseErrorsThroughSink(t *testing.T) {
	dumpDoc, err := dump.Parse("t.cfg", strings.NewReader(dumpSrc))
	if err != nil {
		t.Fatalf("dump.Parse() error = %v", err)
	}

	sink := &recordingSink{}
	d := New(DefaultConfig(), sink)

	src := "// CHECK: add\n" // no CHECK-START
	err = d.Check("t.java", strings.NewReader(src), dumpDoc)
	if err == nil {
		t.Fatal("Check() error = nil, want a structural error")
	}
	if len(sink.failed) != 1 {
		t.Fatalf("sink.failed = %v, want exactly one entry reporting the parse failure", sink.failed)
	}
}

func TestDriverCheckReportsMatchFailure(t *testing.T) {
	dumpDoc, err := dump.Parse("t.cfg", strings.NewReader(dumpSrc))
	if err != nil {
		t.Fatalf("dump.Parse() error = %v", err)
	}

	sink := &recordingSink{}
	d := New(DefaultConfig(), sink)

	src := "// CHECK-START: void Main.main() pass\n// CHECK: Sub\n"
	if err := d.Check("t.java", strings.NewReader(src), dumpDoc); err == nil {
		t.Fatal("Check() error = nil, want a match failure")
	}
	if len(sink.failed) != 1 {
		t.Fatalf("sink.failed = %v, want exactly one entry", sink.failed)
	}
}

func TestNewReplacesNilSink(t *testing.T) {
	d := New(DefaultConfig(), nil)
	if _, ok := d.Sink.(diagnostic.NopSink); !ok {
		t.Fatalf("Sink = %T, want diagnostic.NopSink", d.Sink)
	}
}
