package dump

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sampleDump = `begin_compilation
  name "void Main.main()"
  method "void Main.main()"
  date 1234
end_compilation
begin_cfg
  name "after_register_allocation"
  42: Add
  43: Sub
end_cfg
begin_cfg
  name "disassembly"
  nop
end_cfg
`

func TestParseBuildsPassGroupsInOrder(t *testing.T) {
	doc, err := Parse("sample.cfg", strings.NewReader(sampleDump))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := []string{"void Main.main() after_register_allocation", "void Main.main() disassembly"}
	if diff := cmp.Diff(want, doc.Names()); diff != "" {
		t.Fatalf("pass group names mismatch (-want +got):\n%s", diff)
	}

	group := doc.Find("void Main.main() after_register_allocation")
	if group == nil {
		t.Fatal("Find() returned nil for a known group")
	}
	wantBody := []string{"42: Add", "43: Sub"}
	if diff := cmp.Diff(wantBody, group.Body); diff != "" {
		t.Fatalf("pass group body mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFindMissingGroupReturnsNil(t *testing.T) {
	doc, err := Parse("sample.cfg", strings.NewReader(sampleDump))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if g := doc.Find("nonexistent pass"); g != nil {
		t.Fatalf("Find() = %+v, want nil", g)
	}
}

func TestParseRejectsCfgWithoutMethodName(t *testing.T) {
	src := "begin_cfg\n  name \"pass\"\nend_cfg\n"
	_, err := Parse("sample.cfg", strings.NewReader(src))
	if err == nil {
		t.Fatal("expected an error for begin_cfg with no preceding method name")
	}
}

func TestParseRejectsMissingPassNameAfterBeginCfg(t *testing.T) {
	src := "begin_compilation\n  method \"m\"\nend_compilation\nbegin_cfg\n  42: Add\nend_cfg\n"
	_, err := Parse("sample.cfg", strings.NewReader(src))
	if err == nil {
		t.Fatal("expected an error for begin_cfg not immediately followed by a name line")
	}
}

func TestParseRejectsLineOutsideAnyBlock(t *testing.T) {
	src := "stray garbage\n"
	_, err := Parse("sample.cfg", strings.NewReader(src))
	if err == nil {
		t.Fatal("expected an error for a line outside any compilation or cfg block")
	}
}

func TestParseStartLineTracksFirstBodyLine(t *testing.T) {
	doc, err := Parse("sample.cfg", strings.NewReader(sampleDump))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	group := doc.Find("void Main.main() after_register_allocation")
	// line 7 in sampleDump is `  name "after_register_allocation"`; line 8 is
	// the first body line, "42: Add".
	if diff := cmp.Diff(8, group.StartLine); diff != "" {
		t.Fatalf("StartLine mismatch (-want +got):\n%s", diff)
	}
}
