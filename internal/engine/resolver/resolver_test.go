package resolver

import (
	"reflect"
	"testing"

	"staticlint/internal/engine/callsite"
	"staticlint/internal/engine/parser"
)

func literal(typ string) parser.Expr {
	return parser.Expr{Kind: parser.ExprLiteral, Text: typ}
}

func name(text string) parser.Expr {
	return parser.Expr{Kind: parser.ExprName, Text: text}
}

func symbolStrings(call *callsite.ResolvedCall) []string {
	var out []string
	for _, s := range callsite.Symbols(*call) {
		out = append(out, s.String())
	}
	return out
}

func shapesFile() *parser.File {
	return &parser.File{
		Path:    "src/p/Shapes.java",
		Package: "p",
		Types: []parser.TypeDecl{
			{
				Name: "Shape", QualifiedName: "p.Shape", Kind: parser.KindInterface,
				Methods: []parser.MethodDecl{{Name: "area", Owner: "p.Shape", ReturnType: "double"}},
			},
			{
				Name: "Circle", QualifiedName: "p.Circle", Kind: parser.KindClass,
				Supertypes: []string{"Shape"},
				Methods: []parser.MethodDecl{
					{Name: "Circle", Owner: "p.Circle", Constructor: true},
					{Name: "area", Owner: "p.Circle", ReturnType: "double", Annotations: []string{"Override"}},
				},
			},
			{
				Name: "Small", QualifiedName: "p.Small", Kind: parser.KindClass,
				Supertypes: []string{"Circle"},
				Methods: []parser.MethodDecl{
					{Name: "area", Owner: "p.Small", ReturnType: "double"},
					{Name: "self", Owner: "p.Small", ReturnType: "Small"},
				},
			},
			{
				Name: "Task", QualifiedName: "p.Task", Kind: parser.KindClass,
				Supertypes: []string{"Runnable"},
				Methods: []parser.MethodDecl{
					{Name: "run", Owner: "p.Task", ReturnType: "void", Annotations: []string{"Override"}},
					{Name: "toString", Owner: "p.Task", ReturnType: "String", Annotations: []string{"Override"}},
				},
			},
		},
	}
}

func datesFile() *parser.File {
	return &parser.File{
		Path:    "src/p/Dates.java",
		Package: "p",
		Imports: []parser.Import{{Path: "java.time.Clock"}},
		Types: []parser.TypeDecl{{
			Name: "Dates", QualifiedName: "p.Dates", Kind: parser.KindClass,
			Methods: []parser.MethodDecl{
				{Name: "now", Owner: "p.Dates", ReturnType: "Dates", Static: true},
				{Name: "now", Owner: "p.Dates", ReturnType: "Dates", Static: true, Params: []parser.Param{{Name: "clock", Type: "Clock"}}},
				{Name: "of", Owner: "p.Dates", ReturnType: "Dates", Static: true, Params: []parser.Param{{Name: "y", Type: "int"}, {Name: "m", Type: "int"}}},
				{Name: "of", Owner: "p.Dates", ReturnType: "Dates", Static: true, Params: []parser.Param{{Name: "y", Type: "int"}, {Name: "label", Type: "String"}}},
				{Name: "join", Owner: "p.Dates", ReturnType: "String", Static: true, Params: []parser.Param{{Name: "parts", Type: "String...", Varargs: true}}},
			},
		}},
	}
}

func TestResolve(t *testing.T) {
	shapes := shapesFile()
	dates := datesFile()
	r := New([]*parser.File{shapes, dates})

	scope := parser.NewScope(nil)
	scope.Declare("s", "Small")
	scope.Declare("task", "Task")
	scope.Declare("clock", "Clock")
	scope.Declare("ratio", "double")

	caller := &parser.File{
		Path:    "src/p/Caller.java",
		Package: "p",
		Imports: []parser.Import{
			{Path: "java.time.Clock"},
			{Path: "java.lang.Math.floor", Static: true},
		},
		Types: []parser.TypeDecl{{Name: "Caller", QualifiedName: "p.Caller"}},
	}

	tests := []struct {
		name     string
		call     parser.CallSite
		want     []string
		explicit bool
	}{
		{
			name:     "ExternalTypeReference",
			call:     parser.CallSite{Name: "floor", Receiver: name("Math"), Args: []parser.Expr{literal("int")}},
			want:     []string{"java.lang.Math.floor(double)"},
			explicit: true,
		},
		{
			name:     "FullyQualifiedReceiver",
			call:     parser.CallSite{Name: "floor", Receiver: name("java.lang.Math"), Args: []parser.Expr{literal("double")}},
			want:     []string{"java.lang.Math.floor(double)"},
			explicit: true,
		},
		{
			name:     "StaticImportWithoutReceiver",
			call:     parser.CallSite{Name: "floor", Args: []parser.Expr{name("ratio")}},
			want:     []string{"java.lang.Math.floor(double)"},
			explicit: false,
		},
		{
			name:     "ZeroArgumentOverload",
			call:     parser.CallSite{Name: "now", Receiver: name("Dates")},
			want:     []string{"p.Dates.now()"},
			explicit: true,
		},
		{
			name:     "OverloadByArgumentType",
			call:     parser.CallSite{Name: "now", Receiver: name("Dates"), Args: []parser.Expr{name("clock")}},
			want:     []string{"p.Dates.now(java.time.Clock)"},
			explicit: true,
		},
		{
			name:     "SameArityOverloads",
			call:     parser.CallSite{Name: "of", Receiver: name("Dates"), Args: []parser.Expr{literal("int"), literal("java.lang.String")}},
			want:     []string{"p.Dates.of(int, java.lang.String)"},
			explicit: true,
		},
		{
			name:     "AmbiguousOverloadLosesParameters",
			call:     parser.CallSite{Name: "of", Receiver: name("Dates"), Args: []parser.Expr{literal("int"), {Kind: parser.ExprOther}}},
			want:     []string{"p.Dates.of"},
			explicit: true,
		},
		{
			name:     "Varargs",
			call:     parser.CallSite{Name: "join", Receiver: name("Dates"), Args: []parser.Expr{literal("java.lang.String"), literal("java.lang.String")}},
			want:     []string{"p.Dates.join(java.lang.String...)"},
			explicit: true,
		},
		{
			name:     "OverrideChain",
			call:     parser.CallSite{Name: "area", Receiver: name("s")},
			want:     []string{"p.Small.area()", "p.Circle.area()", "p.Shape.area()"},
			explicit: true,
		},
		{
			name:     "ExternalOverrideNeedsAnnotation",
			call:     parser.CallSite{Name: "run", Receiver: name("task")},
			want:     []string{"p.Task.run()", "java.lang.Runnable.run()"},
			explicit: true,
		},
		{
			name:     "InheritedFromExternalSupertype",
			call:     parser.CallSite{Name: "wait", Receiver: name("task")},
			want:     []string{"java.lang.Runnable.wait()"},
			explicit: true,
		},
		{
			name: "ReturnTypeOfIndexedCall",
			call: parser.CallSite{
				Name: "area",
				Receiver: parser.Expr{Kind: parser.ExprCall, Call: &parser.CallSite{
					Name: "self", Receiver: name("s"), Owner: "p.Caller", Scope: scope,
				}},
			},
			want:     []string{"p.Small.area()", "p.Circle.area()", "p.Shape.area()"},
			explicit: true,
		},
		{
			name:     "ConstructedReceiver",
			call:     parser.CallSite{Name: "area", Receiver: parser.Expr{Kind: parser.ExprNew, Text: "Circle"}},
			want:     []string{"p.Circle.area()", "p.Shape.area()"},
			explicit: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.call.Owner = "p.Caller"
			tt.call.Scope = scope
			got, ok := r.Resolve(caller, tt.call)
			if !ok {
				t.Fatalf("expected %s to resolve", tt.call.Name)
			}
			if !reflect.DeepEqual(symbolStrings(got), tt.want) {
				t.Errorf("expected %v, got %v", tt.want, symbolStrings(got))
			}
			if got.HasExplicitReceiver != tt.explicit {
				t.Errorf("expected explicit receiver %v, got %v", tt.explicit, got.HasExplicitReceiver)
			}
		})
	}
}

func TestResolveExternalSignatures(t *testing.T) {
	r := New([]*parser.File{shapesFile()})
	caller := &parser.File{
		Path:    "src/p/Caller.java",
		Package: "p",
		Imports: []parser.Import{
			{Path: "java.time.Clock"},
			{Path: "java.time.LocalDate"},
			{Path: "java.util.Objects"},
		},
		Types: []parser.TypeDecl{{Name: "Caller", QualifiedName: "p.Caller"}},
	}
	scope := parser.NewScope(nil)
	scope.Declare("s", "String")
	scope.Declare("n", "int")
	scope.Declare("clock", "Clock")
	unknown := parser.Expr{Kind: parser.ExprOther}

	tests := []struct {
		name string
		call parser.CallSite
		want string
	}{
		{"ReferenceWidensToObject", parser.CallSite{Name: "requireNonNull", Receiver: name("Objects"), Args: []parser.Expr{name("s")}}, "java.util.Objects.requireNonNull(java.lang.Object)"},
		{"PrimitiveWidening", parser.CallSite{Name: "floor", Receiver: name("Math"), Args: []parser.Expr{name("n")}}, "java.lang.Math.floor(double)"},
		{"MostSpecificOverload", parser.CallSite{Name: "abs", Receiver: name("Math"), Args: []parser.Expr{literal("int")}}, "java.lang.Math.abs(int)"},
		{"UnknownArgumentsAreAmbiguous", parser.CallSite{Name: "max", Receiver: name("Math"), Args: []parser.Expr{unknown, unknown}}, "java.lang.Math.max"},
		{"SameArityOverloads", parser.CallSite{Name: "of", Receiver: name("LocalDate"), Args: []parser.Expr{literal("int"), literal("int"), literal("int")}}, "java.time.LocalDate.of(int, int, int)"},
		{"OverloadByReferenceType", parser.CallSite{Name: "now", Receiver: name("LocalDate"), Args: []parser.Expr{name("clock")}}, "java.time.LocalDate.now(java.time.Clock)"},
		{"NullMatchesSeveralOverloads", parser.CallSite{Name: "requireNonNull", Receiver: name("Objects"), Args: []parser.Expr{name("s"), literal("null")}}, "java.util.Objects.requireNonNull"},
		{"BoxedVarargs", parser.CallSite{Name: "format", Receiver: name("String"), Args: []parser.Expr{literal("java.lang.String"), literal("int")}}, "java.lang.String.format(java.lang.String, java.lang.Object...)"},
		{"UnlistedWithoutArguments", parser.CallSite{Name: "systemUTC", Receiver: name("Clock")}, "java.time.Clock.systemUTC()"},
		{"UnlistedWithArguments", parser.CallSite{Name: "offset", Receiver: name("Clock"), Args: []parser.Expr{name("clock"), literal("long")}}, "java.time.Clock.offset"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.call.Owner = "p.Caller"
			tt.call.Scope = scope
			got, ok := r.Resolve(caller, tt.call)
			if !ok {
				t.Fatalf("expected %s to resolve", tt.call.Name)
			}
			if got.Invoked.String() != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got.Invoked.String())
			}
		})
	}
}

func TestResolveUnbound(t *testing.T) {
	r := New([]*parser.File{shapesFile()})
	caller := &parser.File{Path: "src/p/Caller.java", Package: "p"}

	tests := []struct {
		name string
		call parser.CallSite
	}{
		{"FieldOfExternalType", parser.CallSite{Name: "println", Receiver: name("System.out")}},
		{"UnknownVariable", parser.CallSite{Name: "bar", Receiver: name("foo")}},
		{"BareCallWithoutImport", parser.CallSite{Name: "print"}},
		{"PrimitiveReceiver", parser.CallSite{Name: "x", Receiver: literal("int")}},
		{"EmptyName", parser.CallSite{Receiver: name("Math")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, ok := r.Resolve(caller, tt.call); ok {
				t.Errorf("expected no binding, got %v", symbolStrings(got))
			}
		})
	}
}

func TestResolveObjectOverride(t *testing.T) {
	shapes := shapesFile()
	r := New([]*parser.File{shapes})
	scope := parser.NewScope(nil)
	scope.Declare("task", "Task")

	got, ok := r.Resolve(shapes, parser.CallSite{Name: "toString", Receiver: name("task"), Owner: "p.Circle", Scope: scope})
	if !ok {
		t.Fatal("expected toString to resolve")
	}
	want := []string{"p.Task.toString()", "java.lang.Runnable.toString()"}
	if !reflect.DeepEqual(symbolStrings(got), want) {
		t.Errorf("expected %v, got %v", want, symbolStrings(got))
	}
}

func TestStaticMethodsDoNotOverride(t *testing.T) {
	file := &parser.File{
		Path:    "src/q/Statics.java",
		Package: "q",
		Types: []parser.TypeDecl{
			{Name: "Base", QualifiedName: "q.Base", Methods: []parser.MethodDecl{{Name: "make", Static: true}}},
			{Name: "Child", QualifiedName: "q.Child", Supertypes: []string{"Base"}, Methods: []parser.MethodDecl{{Name: "make", Static: true}}},
		},
	}
	r := New([]*parser.File{file})
	got, ok := r.Resolve(file, parser.CallSite{Name: "make", Receiver: name("Child")})
	if !ok {
		t.Fatal("expected make to resolve")
	}
	if len(got.Overridden) != 0 {
		t.Errorf("expected no overridden symbols, got %v", got.Overridden)
	}
}

func TestTypeNameResolution(t *testing.T) {
	file := &parser.File{
		Path:    "src/a/Outer.java",
		Package: "a",
		Imports: []parser.Import{
			{Path: "java.util.List"},
			{Path: "b", Wildcard: true},
		},
		Types: []parser.TypeDecl{
			{Name: "Outer", QualifiedName: "a.Outer"},
			{Name: "Inner", QualifiedName: "a.Outer.Inner", Outer: "a.Outer"},
			{Name: "Sibling", QualifiedName: "a.Sibling"},
		},
	}
	r := New([]*parser.File{file})
	ctx := r.fileContext(file)

	tests := []struct {
		written string
		owner   string
		want    string
	}{
		{"int", "a.Outer", "int"},
		{"Inner", "a.Outer", "a.Outer.Inner"},
		{"Inner", "a.Outer.Inner", "a.Outer.Inner"},
		{"Outer.Inner", "", "a.Outer.Inner"},
		{"List", "a.Outer", "java.util.List"},
		{"Sibling", "a.Outer", "a.Sibling"},
		{"String[]", "a.Outer", "java.lang.String[]"},
		{"String...", "a.Outer", "java.lang.String..."},
		{"java.time.Clock", "a.Outer", "java.time.Clock"},
		{"Widget", "a.Outer", "b.Widget"},
	}
	for _, tt := range tests {
		t.Run(tt.written, func(t *testing.T) {
			got, _ := r.index.resolveType(ctx, tt.owner, tt.written)
			if got != tt.want {
				t.Errorf("resolveType(%q) = %q, want %q", tt.written, got, tt.want)
			}
		})
	}
}

func TestDeclarations(t *testing.T) {
	file := shapesFile()
	file.Types[1].Methods[1].NameLocation = parser.Location{File: file.Path, Line: 9, Column: 12}

	decls := Declarations(file)
	if len(decls) != 6 {
		t.Fatalf("expected 6 declarations without constructors, got %d", len(decls))
	}
	circleArea := decls[1]
	if circleArea.Owner != "p.Circle" || circleArea.Name != "area" {
		t.Errorf("unexpected declaration %+v", circleArea)
	}
	if circleArea.Location.Line != 9 || circleArea.Location.Column != 12 {
		t.Errorf("expected the name location, got %+v", circleArea.Location)
	}
}
