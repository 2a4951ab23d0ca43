package matcher

import (
	"testing"

	"github.com/checkgraph/checkgraph/internal/asmparser"
	"github.com/checkgraph/checkgraph/internal/assertion"
)

func parseAssertion(t *testing.T, body string) assertion.Assertion {
	t.Helper()
	return assertion.Assertion{
		LineNo:       1,
		OriginalText: body,
		Expressions:  asmparser.ParseBody(body),
	}
}

func TestMatchLineLiteral(t *testing.T) {
	a := parseAssertion(t, "add v1, v2")
	_, ok, err := matchLine(&a, "add v1, v2", varState{}, "t.java")
	if err != nil {
		t.Fatalf("matchLine() error = %v", err)
	}
	if !ok {
		t.Fatal("matchLine() = false, want true")
	}
}

func TestMatchLineLiteralWithExtraTokensBetween(t *testing.T) {
	a := parseAssertion(t, "add v2")
	_, ok, err := matchLine(&a, "add v1 v2", varState{}, "t.java")
	if err != nil {
		t.Fatalf("matchLine() error = %v", err)
	}
	if !ok {
		t.Fatal("matchLine() = false, want true (v2 should match the third output word)")
	}
}

func TestMatchLinePatternFragment(t *testing.T) {
	a := parseAssertion(t, `add {{v\d+}}`)
	_, ok, err := matchLine(&a, "add v42", varState{}, "t.java")
	if err != nil {
		t.Fatalf("matchLine() error = %v", err)
	}
	if !ok {
		t.Fatal("matchLine() = false, want true")
	}
}

func TestMatchLineVarDefThenRefRoundTrip(t *testing.T) {
	def := parseAssertion(t, `[[reg:i\d+]]: IntConstant`)
	state, ok, err := matchLine(&def, "i7: IntConstant", varState{}, "t.java")
	if err != nil {
		t.Fatalf("matchLine(def) error = %v", err)
	}
	if !ok {
		t.Fatal("matchLine(def) = false, want true")
	}
	if diff := state["reg"]; diff != "i7" {
		t.Fatalf("bound var reg = %q, want i7", diff)
	}

	ref := parseAssertion(t, `Add [[reg]], [[reg]]`)
	_, ok, err = matchLine(&ref, "Add i7, i7", state, "t.java")
	if err != nil {
		t.Fatalf("matchLine(ref) error = %v", err)
	}
	if !ok {
		t.Fatal("matchLine(ref) = false, want true")
	}
}

func TestMatchLineVarRefUndefinedIsHardFailure(t *testing.T) {
	a := parseAssertion(t, "Add [[reg]]")
	_, _, err := matchLine(&a, "Add i7", varState{}, "t.java")
	if err == nil {
		t.Fatal("expected a hard failure for a reference to an undefined variable")
	}
}

func TestMatchLineVarDefRedefinitionIsHardFailure(t *testing.T) {
	a := parseAssertion(t, `[[reg:i\d+]]`)
	state := varState{"reg": "i1"}
	_, _, err := matchLine(&a, "i7", state, "t.java")
	if err == nil {
		t.Fatal("expected a hard failure for redefining an already-bound variable")
	}
}

func TestMatchLineFailureLeavesStateUnmodified(t *testing.T) {
	a := parseAssertion(t, "nomatch")
	before := varState{"x": "1"}
	_, ok, err := matchLine(&a, "something else", before, "t.java")
	if err != nil {
		t.Fatalf("matchLine() error = %v", err)
	}
	if ok {
		t.Fatal("matchLine() = true, want false")
	}
	if before["x"] != "1" {
		t.Fatalf("caller's varState was mutated: %+v", before)
	}
}
