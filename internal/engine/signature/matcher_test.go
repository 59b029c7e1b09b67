package signature

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	domainerrors "staticlint/internal/core/errors"
)

func names(m Matcher) []string {
	var out []string
	for _, seg := range m.QualifiedName() {
		out = append(out, seg.Text)
	}
	return out
}

func TestParse(t *testing.T) {
	tests := []struct {
		spec       string
		wantName   []string
		wantParams []string
		hasParams  bool
	}{
		{spec: "java.lang.Math.floor", wantName: []string{"java", "lang", "Math", "floor"}},
		{spec: "  java.lang.System.gc  ", wantName: []string{"java", "lang", "System", "gc"}},
		{spec: "java.time.LocalDate.now()", wantName: []string{"java", "time", "LocalDate", "now"}, wantParams: []string{}, hasParams: true},
		{spec: "java.time.LocalDate.now( )", wantName: []string{"java", "time", "LocalDate", "now"}, wantParams: []string{}, hasParams: true},
		{spec: "java.time.LocalDate.now(java.time.Clock)", wantName: []string{"java", "time", "LocalDate", "now"}, wantParams: []string{"java.time.Clock"}, hasParams: true},
		{spec: "java.time.LocalDate.of(int,  int ,int)", wantName: []string{"java", "time", "LocalDate", "of"}, wantParams: []string{"int", "int", "int"}, hasParams: true},
		{spec: "com.example.Util.`some, test`()", wantName: []string{"com", "example", "Util", "some, test"}, wantParams: []string{}, hasParams: true},
		{spec: "com.example.`a.b(c)`", wantName: []string{"com", "example", "a.b(c)"}},
		{spec: "a.m(x(y))", wantName: []string{"a", "m"}, wantParams: []string{"x(y)"}, hasParams: true},
		{spec: "a.m(x(y, z), int)", wantName: []string{"a", "m"}, wantParams: []string{"x(y, z)", "int"}, hasParams: true},
		{spec: "com.example.Util.f(`com.x`.`T, U`)", wantName: []string{"com", "example", "Util", "f"}, wantParams: []string{"com.x.T, U"}, hasParams: true},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			m, err := Parse(tt.spec)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := names(m); !reflect.DeepEqual(got, tt.wantName) {
				t.Errorf("name: expected %q, got %q", tt.wantName, got)
			}
			params, ok := m.ParameterTypes()
			if ok != tt.hasParams {
				t.Fatalf("hasParams: expected %v, got %v", tt.hasParams, ok)
			}
			if ok && !reflect.DeepEqual(params, tt.wantParams) {
				t.Errorf("params: expected %q, got %q", tt.wantParams, params)
			}
			if m.String() != strings.TrimSpace(tt.spec) {
				t.Errorf("String: expected %q, got %q", strings.TrimSpace(tt.spec), m.String())
			}
		})
	}
}

func TestParseQuotedSegmentFlag(t *testing.T) {
	m := MustParse("a.`b c`.d")
	segs := m.QualifiedName()
	if segs[0].Quoted || !segs[1].Quoted || segs[2].Quoted {
		t.Errorf("unexpected quoted flags: %+v", segs)
	}
	if m.Name() != "a.b c.d" {
		t.Errorf("unexpected joined name %q", m.Name())
	}
}

func TestParseMalformed(t *testing.T) {
	specs := []string{
		"",
		"   ",
		"a.b(",
		"a.b)",
		"a.b(int))",
		"a.b(int)(long)",
		"a.`b",
		"a.b(int) trailing",
		"(int)",
	}
	for _, spec := range specs {
		t.Run(spec, func(t *testing.T) {
			_, err := Parse(spec)
			if err == nil {
				t.Fatalf("expected error for %q", spec)
			}
			if !errors.Is(err, ErrMalformedSignature) {
				t.Errorf("expected ErrMalformedSignature, got %v", err)
			}
			if !domainerrors.IsCode(err, domainerrors.CodeMalformedSignature) {
				t.Errorf("expected MALFORMED_SIGNATURE code, got %v", err)
			}
		})
	}
}

func TestMatches(t *testing.T) {
	floor := Candidate{QualifiedName: []string{"java", "lang", "Math", "floor"}, ParameterTypes: []string{"double"}, ParametersKnown: true}
	nowNoArgs := Candidate{QualifiedName: []string{"java", "time", "LocalDate", "now"}, ParameterTypes: []string{}, ParametersKnown: true}
	nowClock := Candidate{QualifiedName: []string{"java", "time", "LocalDate", "now"}, ParameterTypes: []string{"java.time.Clock"}, ParametersKnown: true}
	nowUnknown := Candidate{QualifiedName: []string{"java", "time", "LocalDate", "now"}}

	tests := []struct {
		name      string
		spec      string
		candidate Candidate
		want      bool
	}{
		{"name only matches any overload", "java.lang.Math.floor", floor, true},
		{"name only matches unknown params", "java.time.LocalDate.now", nowUnknown, true},
		{"different name", "java.lang.Math.ceil", floor, false},
		{"prefix is not a match", "java.lang.Math", floor, false},
		{"empty list matches zero params", "java.time.LocalDate.now()", nowNoArgs, true},
		{"empty list rejects one param", "java.time.LocalDate.now()", nowClock, false},
		{"typed list matches", "java.time.LocalDate.now(java.time.Clock)", nowClock, true},
		{"typed list rejects zero params", "java.time.LocalDate.now(java.time.Clock)", nowNoArgs, false},
		{"typed list rejects unknown params", "java.time.LocalDate.now()", nowUnknown, false},
		{"simple type name is not qualified", "java.time.LocalDate.now(Clock)", nowClock, false},
		{"quoted segment compares unquoted", "`java`.lang.Math.floor", floor, true},
		{"empty candidate", "java.lang.Math.floor", Candidate{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MustParse(tt.spec).Matches(tt.candidate); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.spec, got, tt.want)
			}
		})
	}
}

func TestZeroMatcherMatchesNothing(t *testing.T) {
	var m Matcher
	if m.Matches(Candidate{QualifiedName: []string{"a"}}) {
		t.Fatal("zero matcher should not match")
	}
}

func TestEqual(t *testing.T) {
	if !MustParse(" a.b() ").Equal(MustParse("a.b()")) {
		t.Error("expected trimmed specs to be equal")
	}
	if MustParse("a.b").Equal(MustParse("a.b()")) {
		t.Error("expected differing specs to be unequal")
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"java.lang.Math.floor, java.lang.System.gc", []string{"java.lang.Math.floor", "java.lang.System.gc"}},
		{"java.time.LocalDate.of(int, int, int),java.lang.Math.floor", []string{"java.time.LocalDate.of(int, int, int)", "java.lang.Math.floor"}},
		{"a.m(int, int), b.n", []string{"a.m(int, int)", "b.n"}},
		{"a.`some, test`(), b.c", []string{"a.`some, test`()", "b.c"}},
		{"  ", nil},
		{"a,,b, ", []string{"a", "b"}},
	}
	for _, tt := range tests {
		if got := SplitList(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitList(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
