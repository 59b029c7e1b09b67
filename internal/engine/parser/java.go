package parser

import (
	"fmt"
	"strings"
	"time"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// JavaExtractor collects declarations and method invocations from Java
// sources.
type JavaExtractor struct{}

func (e *JavaExtractor) Extract(root *sitter.Node, source []byte, filePath string) (*File, error) {
	file := &File{
		Path:     filePath,
		Language: "java",
		ParsedAt: time.Now(),
	}
	w := &javaWalker{ctx: &ExtractionContext{Source: source, File: file}}
	w.engine = NewExtractorEngine(map[string]NodeHandler{
		"package_declaration":         w.extractPackage,
		"import_declaration":          w.extractImport,
		"class_declaration":           w.extractType,
		"interface_declaration":       w.extractType,
		"enum_declaration":            w.extractType,
		"record_declaration":          w.extractType,
		"annotation_type_declaration": w.extractType,
		"object_creation_expression":  w.extractAnonymousType,
		"method_declaration":          w.extractMethod,
		"constructor_declaration":     w.extractMethod,
		"field_declaration":           w.extractField,
		"constant_declaration":        w.extractField,
		"local_variable_declaration":  w.extractLocal,
		"enhanced_for_statement":      w.extractLoopVariable,
		"catch_formal_parameter":      w.extractCatchParameter,
		"resource":                    w.extractResource,
		"method_invocation":           w.extractInvocation,
	})
	w.engine.Walk(w.ctx, root)
	return file, nil
}

type javaWalker struct {
	ctx    *ExtractionContext
	engine *ExtractorEngine
	// types holds indexes into File.Types for the enclosing declarations.
	types     []int
	scope     *Scope
	anonymous int
}

func (w *javaWalker) currentType() *TypeDecl {
	if len(w.types) == 0 {
		return nil
	}
	return &w.ctx.File.Types[w.types[len(w.types)-1]]
}

func (w *javaWalker) currentOwner() string {
	if t := w.currentType(); t != nil {
		return t.QualifiedName
	}
	return ""
}

func (w *javaWalker) extractPackage(ctx *ExtractionContext, node *sitter.Node) bool {
	for _, child := range NamedChildren(node) {
		if child.Kind() == "scoped_identifier" || child.Kind() == "identifier" {
			ctx.File.Package = normalizeDotted(ctx.Text(child))
		}
	}
	return true
}

func (w *javaWalker) extractImport(ctx *ExtractionContext, node *sitter.Node) bool {
	imp := Import{Location: ctx.Location(node)}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "static":
			imp.Static = true
		case "scoped_identifier", "identifier":
			imp.Path = normalizeDotted(ctx.Text(child))
		case "asterisk":
			imp.Wildcard = true
		}
	}
	if imp.Path != "" {
		ctx.File.Imports = append(ctx.File.Imports, imp)
	}
	return true
}

func (w *javaWalker) extractType(ctx *ExtractionContext, node *sitter.Node) bool {
	name := ctx.FieldText(node, "name")
	decl := TypeDecl{
		Name:     name,
		Kind:     javaTypeKind(node.Kind()),
		Outer:    w.currentOwner(),
		Location: ctx.Location(node),
	}
	decl.QualifiedName = w.qualify(name)

	for _, child := range NamedChildren(node) {
		switch child.Kind() {
		case "superclass", "super_interfaces", "extends_interfaces":
			decl.Supertypes = append(decl.Supertypes, w.typeNames(child)...)
		}
	}
	if node.Kind() == "record_declaration" {
		if params := node.ChildByFieldName("parameters"); params != nil {
			for _, p := range w.params(params) {
				decl.Fields = append(decl.Fields, Variable{Name: p.Name, Type: p.Type})
			}
		}
	}

	w.pushType(decl, node.ChildByFieldName("body"))
	return true
}

// extractAnonymousType gives anonymous class bodies their own type so their
// methods do not leak into the enclosing class.
func (w *javaWalker) extractAnonymousType(ctx *ExtractionContext, node *sitter.Node) bool {
	body := ChildOfKind(node, "class_body")
	if body == nil {
		return false
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() != "class_body" {
			w.engine.Walk(ctx, child)
		}
	}

	w.anonymous++
	owner := w.currentOwner()
	decl := TypeDecl{
		Name:          "",
		QualifiedName: fmt.Sprintf("%s$%d", owner, w.anonymous),
		Kind:          KindAnonymous,
		Outer:         owner,
		Location:      ctx.Location(node),
	}
	if typ := node.ChildByFieldName("type"); typ != nil {
		decl.Supertypes = []string{eraseType(ctx.Text(typ))}
	}
	w.pushType(decl, body)
	return true
}

func (w *javaWalker) pushType(decl TypeDecl, body *sitter.Node) {
	w.ctx.File.Types = append(w.ctx.File.Types, decl)
	w.types = append(w.types, len(w.ctx.File.Types)-1)
	outerScope := w.scope
	w.scope = nil
	w.engine.Walk(w.ctx, body)
	w.scope = outerScope
	w.types = w.types[:len(w.types)-1]
}

func (w *javaWalker) qualify(name string) string {
	if owner := w.currentOwner(); owner != "" {
		return owner + "." + name
	}
	if w.ctx.File.Package != "" {
		return w.ctx.File.Package + "." + name
	}
	return name
}

func (w *javaWalker) typeNames(node *sitter.Node) []string {
	var out []string
	for _, child := range NamedChildren(node) {
		switch child.Kind() {
		case "type_list":
			out = append(out, w.typeNames(child)...)
		case "type_identifier", "scoped_type_identifier", "generic_type":
			out = append(out, eraseType(w.ctx.Text(child)))
		}
	}
	return out
}

func (w *javaWalker) extractMethod(ctx *ExtractionContext, node *sitter.Node) bool {
	owner := w.currentType()
	nameNode := node.ChildByFieldName("name")
	method := MethodDecl{
		Name:        ctx.Text(nameNode),
		Constructor: node.Kind() == "constructor_declaration",
		Location:    ctx.Location(node),
	}
	if nameNode != nil {
		method.NameLocation = ctx.Location(nameNode)
	}
	if typ := node.ChildByFieldName("type"); typ != nil {
		method.ReturnType = eraseType(ctx.Text(typ))
		if dims := node.ChildByFieldName("dimensions"); dims != nil {
			method.ReturnType += eraseType(ctx.Text(dims))
		}
	}
	if mods := ChildOfKind(node, "modifiers"); mods != nil {
		method.Annotations, method.Static = w.modifiers(mods)
	}
	if params := node.ChildByFieldName("parameters"); params != nil {
		method.Params = w.params(params)
	}
	if owner != nil {
		method.Owner = owner.QualifiedName
		owner.Methods = append(owner.Methods, method)
	}

	outerScope := w.scope
	w.scope = NewScope(outerScope)
	for _, p := range method.Params {
		w.scope.Declare(p.Name, strings.TrimSuffix(p.Type, "...")+varargsArray(p))
	}
	w.engine.Walk(ctx, node.ChildByFieldName("body"))
	w.scope = outerScope
	return true
}

func varargsArray(p Param) string {
	if p.Varargs {
		return "[]"
	}
	return ""
}

// modifiers returns the short annotation names and whether static is present.
func (w *javaWalker) modifiers(node *sitter.Node) ([]string, bool) {
	var annotations []string
	static := false
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "marker_annotation", "annotation":
			if name := w.ctx.FieldText(child, "name"); name != "" {
				annotations = append(annotations, lastSegment(normalizeDotted(name)))
			}
		case "static":
			static = true
		}
	}
	return annotations, static
}

func (w *javaWalker) params(node *sitter.Node) []Param {
	var out []Param
	for _, child := range NamedChildren(node) {
		switch child.Kind() {
		case "formal_parameter":
			typ := eraseType(w.ctx.FieldText(child, "type"))
			if dims := child.ChildByFieldName("dimensions"); dims != nil {
				typ += eraseType(w.ctx.Text(dims))
			}
			out = append(out, Param{Name: w.ctx.FieldText(child, "name"), Type: typ})
		case "spread_parameter":
			p := Param{Varargs: true}
			for _, part := range NamedChildren(child) {
				switch part.Kind() {
				case "modifiers":
				case "variable_declarator":
					p.Name = w.ctx.FieldText(part, "name")
				default:
					if p.Type == "" {
						p.Type = eraseType(w.ctx.Text(part)) + "..."
					}
				}
			}
			out = append(out, p)
		}
	}
	return out
}

func (w *javaWalker) extractField(ctx *ExtractionContext, node *sitter.Node) bool {
	owner := w.currentType()
	typ := eraseType(ctx.FieldText(node, "type"))
	for _, child := range NamedChildren(node) {
		if child.Kind() != "variable_declarator" {
			continue
		}
		name := ctx.FieldText(child, "name")
		if owner != nil && name != "" {
			owner.Fields = append(owner.Fields, Variable{Name: name, Type: declaratorType(ctx, typ, child)})
		}
	}
	return false
}

func (w *javaWalker) extractLocal(ctx *ExtractionContext, node *sitter.Node) bool {
	if w.scope == nil {
		return false
	}
	typ := eraseType(ctx.FieldText(node, "type"))
	for _, child := range NamedChildren(node) {
		if child.Kind() != "variable_declarator" {
			continue
		}
		declared := declaratorType(ctx, typ, child)
		if declared == "var" {
			declared = ""
			if value := child.ChildByFieldName("value"); value != nil && value.Kind() == "object_creation_expression" {
				declared = eraseType(ctx.FieldText(value, "type"))
			}
		}
		w.scope.Declare(ctx.FieldText(child, "name"), declared)
	}
	return false
}

func declaratorType(ctx *ExtractionContext, typ string, declarator *sitter.Node) string {
	if dims := declarator.ChildByFieldName("dimensions"); dims != nil {
		return typ + eraseType(ctx.Text(dims))
	}
	return typ
}

func (w *javaWalker) extractLoopVariable(ctx *ExtractionContext, node *sitter.Node) bool {
	if w.scope != nil {
		if typ := eraseType(ctx.FieldText(node, "type")); typ != "var" {
			w.scope.Declare(ctx.FieldText(node, "name"), typ)
		}
	}
	return false
}

func (w *javaWalker) extractCatchParameter(ctx *ExtractionContext, node *sitter.Node) bool {
	if w.scope == nil {
		return false
	}
	typ := eraseType(ctx.Text(ChildOfKind(node, "catch_type")))
	if typ != "" && !strings.Contains(typ, "|") {
		w.scope.Declare(ctx.FieldText(node, "name"), typ)
	}
	return false
}

func (w *javaWalker) extractResource(ctx *ExtractionContext, node *sitter.Node) bool {
	if w.scope == nil {
		return false
	}
	if typ := eraseType(ctx.FieldText(node, "type")); typ != "" && typ != "var" {
		w.scope.Declare(ctx.FieldText(node, "name"), typ)
	}
	return false
}

func (w *javaWalker) extractInvocation(ctx *ExtractionContext, node *sitter.Node) bool {
	if call := w.callSite(node); call.Name != "" {
		ctx.File.Calls = append(ctx.File.Calls, call)
	}
	return false
}

func (w *javaWalker) callSite(node *sitter.Node) CallSite {
	nameNode := node.ChildByFieldName("name")
	call := CallSite{
		Name:         w.ctx.Text(nameNode),
		Owner:        w.currentOwner(),
		Scope:        w.scope,
		CallLocation: w.ctx.Location(node),
	}
	if nameNode != nil {
		call.Location = w.ctx.Location(nameNode)
	}
	if obj := node.ChildByFieldName("object"); obj != nil {
		call.Receiver = w.expr(obj)
	}
	if args := node.ChildByFieldName("arguments"); args != nil {
		for _, arg := range NamedChildren(args) {
			if arg.Kind() == "line_comment" || arg.Kind() == "block_comment" {
				continue
			}
			call.Args = append(call.Args, w.expr(arg))
		}
	}
	return call
}

func (w *javaWalker) expr(node *sitter.Node) Expr {
	text := w.ctx.Text(node)
	switch node.Kind() {
	case "identifier", "scoped_identifier":
		return Expr{Kind: ExprName, Text: normalizeDotted(text)}
	case "field_access":
		obj := node.ChildByFieldName("object")
		field := w.ctx.FieldText(node, "field")
		inner := w.expr(obj)
		if inner.Kind == ExprName {
			return Expr{Kind: ExprName, Text: inner.Text + "." + field}
		}
		return Expr{Kind: ExprField, Text: field, Inner: &inner}
	case "this":
		return Expr{Kind: ExprThis}
	case "super":
		return Expr{Kind: ExprSuper}
	case "object_creation_expression":
		return Expr{Kind: ExprNew, Text: eraseType(w.ctx.FieldText(node, "type"))}
	case "array_creation_expression":
		typ := eraseType(w.ctx.FieldText(node, "type"))
		for i := uint(0); i < node.ChildCount(); i++ {
			switch node.Child(i).Kind() {
			case "dimensions_expr":
				typ += "[]"
			case "dimensions":
				typ += eraseType(w.ctx.Text(node.Child(i)))
			}
		}
		return Expr{Kind: ExprNew, Text: typ}
	case "method_invocation":
		call := w.callSite(node)
		return Expr{Kind: ExprCall, Call: &call}
	case "parenthesized_expression":
		if children := NamedChildren(node); len(children) == 1 {
			return w.expr(children[0])
		}
	case "cast_expression":
		return Expr{Kind: ExprCast, Text: eraseType(w.ctx.FieldText(node, "type"))}
	case "string_literal", "text_block":
		return Expr{Kind: ExprLiteral, Text: "java.lang.String"}
	case "decimal_integer_literal", "hex_integer_literal", "octal_integer_literal", "binary_integer_literal":
		return Expr{Kind: ExprLiteral, Text: integerLiteralType(text)}
	case "decimal_floating_point_literal", "hex_floating_point_literal":
		return Expr{Kind: ExprLiteral, Text: floatLiteralType(text)}
	case "true", "false":
		return Expr{Kind: ExprLiteral, Text: "boolean"}
	case "character_literal":
		return Expr{Kind: ExprLiteral, Text: "char"}
	case "null_literal":
		return Expr{Kind: ExprLiteral, Text: "null"}
	case "class_literal":
		return Expr{Kind: ExprLiteral, Text: "java.lang.Class"}
	case "unary_expression":
		if operand := node.ChildByFieldName("operand"); operand != nil {
			if inner := w.expr(operand); inner.Kind == ExprLiteral {
				return inner
			}
		}
	}
	return Expr{Kind: ExprOther}
}

func javaTypeKind(kind string) TypeKind {
	switch kind {
	case "interface_declaration":
		return KindInterface
	case "enum_declaration":
		return KindEnum
	case "record_declaration":
		return KindRecord
	case "annotation_type_declaration":
		return KindAnnotation
	default:
		return KindClass
	}
}
