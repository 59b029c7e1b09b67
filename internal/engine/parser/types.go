package parser

import (
	"time"

	"staticlint/internal/engine/finding"
)

type File struct {
	Path      string
	Language  string
	Package   string
	Imports   []Import
	Types     []TypeDecl
	Calls     []CallSite
	HasErrors bool
	ParsedAt  time.Time
}

// Import is one import declaration. For wildcard imports Path is the package
// or type whose members are imported.
type Import struct {
	Path     string
	Static   bool
	Wildcard bool
	Location Location
}

// SimpleName is the last segment of a single-name import.
func (i Import) SimpleName() string {
	return lastSegment(i.Path)
}

type TypeKind string

const (
	KindClass      TypeKind = "class"
	KindInterface  TypeKind = "interface"
	KindEnum       TypeKind = "enum"
	KindRecord     TypeKind = "record"
	KindAnnotation TypeKind = "annotation"
	KindAnonymous  TypeKind = "anonymous"
)

type TypeDecl struct {
	Name          string
	QualifiedName string
	Kind          TypeKind
	// Outer is the qualified name of the enclosing type, if any.
	Outer string
	// Supertypes are written type names with type arguments removed.
	Supertypes []string
	Fields     []Variable
	Methods    []MethodDecl
	Location   Location
}

type Variable struct {
	Name string
	Type string
}

type Param struct {
	Name    string
	Type    string
	Varargs bool
}

type MethodDecl struct {
	Name        string
	Owner       string
	ReturnType  string
	Params      []Param
	Annotations []string
	Static      bool
	Constructor bool
	// Location spans the whole declaration, annotations included.
	Location     Location
	NameLocation Location
}

type ExprKind int

const (
	ExprNone ExprKind = iota
	ExprName
	ExprField
	ExprThis
	ExprSuper
	ExprNew
	ExprLiteral
	ExprCall
	ExprCast
	ExprOther
)

// Expr is the shape of a receiver or argument expression, kept only as far
// as binding needs it.
type Expr struct {
	Kind ExprKind
	// Text is the dotted name for ExprName, the field for ExprField, the
	// type for ExprNew, ExprCast and ExprLiteral.
	Text  string
	Inner *Expr
	Call  *CallSite
}

type CallSite struct {
	Name     string
	Receiver Expr
	Args     []Expr
	// Owner is the qualified name of the innermost enclosing type.
	Owner string
	Scope *Scope
	// Location points at the method name.
	Location Location
	// CallLocation is the start of the whole invocation.
	CallLocation Location
}

// Scope maps local variable and parameter names to their written types. It
// is flow-insensitive: everything declared in a method body is visible to
// every call in it.
type Scope struct {
	vars   map[string]string
	parent *Scope
}

func NewScope(parent *Scope) *Scope {
	return &Scope{vars: make(map[string]string), parent: parent}
}

func (s *Scope) Declare(name, typ string) {
	if name == "" || typ == "" {
		return
	}
	s.vars[name] = typ
}

func (s *Scope) Lookup(name string) (string, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if typ, ok := cur.vars[name]; ok {
			return typ, true
		}
	}
	return "", false
}

type Location = finding.Location
