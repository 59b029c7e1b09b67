package callsite

import (
	"testing"

	"staticlint/internal/engine/signature"
)

func TestCandidatesOrder(t *testing.T) {
	call := ResolvedCall{
		Invoked: NewSymbol("com.example.Impl.run", "int"),
		Overridden: []Symbol{
			NewSymbol("com.example.Base.run", "int"),
			NewSymbol("com.example.Runner.run", "int"),
		},
		HasExplicitReceiver: true,
	}

	got := Candidates(call)
	if len(got) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(got))
	}
	want := []string{"com.example.Impl.run", "com.example.Base.run", "com.example.Runner.run"}
	for i, c := range got {
		name := Symbol{QualifiedName: c.QualifiedName}.Name()
		if name != want[i] {
			t.Errorf("candidate %d: expected %s, got %s", i, want[i], name)
		}
	}
}

func TestCandidatesWithoutOverrides(t *testing.T) {
	call := ResolvedCall{Invoked: NewNameOnlySymbol("java.lang.Math.floor")}
	got := Candidates(call)
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(got))
	}
	if got[0].ParametersKnown {
		t.Error("name-only symbol should not report known parameters")
	}
}

func TestOverriddenSymbolMatches(t *testing.T) {
	call := ResolvedCall{
		Invoked:    NewSymbol("com.example.Impl.run"),
		Overridden: []Symbol{NewSymbol("com.example.Runner.run")},
	}
	m := signature.MustParse("com.example.Runner.run()")
	matched := false
	for _, c := range Candidates(call) {
		if m.Matches(c) {
			matched = true
		}
	}
	if !matched {
		t.Fatal("expected the overridden symbol to match")
	}
}

func TestSymbolString(t *testing.T) {
	if got := NewSymbol("java.time.LocalDate.of", "int", "int", "int").String(); got != "java.time.LocalDate.of(int, int, int)" {
		t.Errorf("unexpected %q", got)
	}
	if got := NewNameOnlySymbol("java.lang.Math.floor").String(); got != "java.lang.Math.floor" {
		t.Errorf("unexpected %q", got)
	}
	if got := NewSymbol("java.time.LocalDate.now").String(); got != "java.time.LocalDate.now()" {
		t.Errorf("unexpected %q", got)
	}
}
