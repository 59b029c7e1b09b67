// Package resolver binds Java method invocations to the declarations they
// call, as far as the analyzed sources allow.
package resolver

import (
	"strings"

	"staticlint/internal/engine/callsite"
	"staticlint/internal/engine/parser"
	"staticlint/internal/engine/syntax"
)

const javaLangObject = "java.lang.Object"

var objectMethods = map[string]bool{
	"equals":   true,
	"hashCode": true,
	"toString": true,
	"clone":    true,
	"finalize": true,
}

// Resolver is read-only after New and safe for concurrent use.
type Resolver struct {
	index *Index
}

func New(files []*parser.File) *Resolver {
	return &Resolver{index: NewIndex(files)}
}

func (r *Resolver) Index() *Index { return r.index }

// binding is a method found in the indexed sources, or an external one when
// decl is nil.
type binding struct {
	symbol   callsite.Symbol
	decl     *parser.MethodDecl
	declarer *typeEntry
}

// Resolve binds a call found in file. It returns false when the callee cannot
// be determined.
func (r *Resolver) Resolve(file *parser.File, call parser.CallSite) (*callsite.ResolvedCall, bool) {
	ctx := r.fileContext(file)
	b, ok := r.bind(ctx, call)
	if !ok {
		return nil, false
	}
	resolved := &callsite.ResolvedCall{
		Invoked:             b.symbol,
		HasExplicitReceiver: call.Receiver.Kind != parser.ExprNone,
		Location:            call.Location,
	}
	if b.decl != nil {
		resolved.Overridden = r.overridden(b)
	}
	return resolved, true
}

// Declarations lists the methods declared in file, constructors excluded. It
// needs no index, so declaration rules run with resolution disabled.
func Declarations(file *parser.File) []syntax.FunctionDeclaration {
	var out []syntax.FunctionDeclaration
	for _, t := range file.Types {
		for _, m := range t.Methods {
			if m.Constructor {
				continue
			}
			loc := m.NameLocation
			if loc.Line == 0 {
				loc = m.Location
			}
			out = append(out, syntax.FunctionDeclaration{
				Name:        m.Name,
				Owner:       t.QualifiedName,
				Annotations: append([]string(nil), m.Annotations...),
				Location:    loc,
			})
		}
	}
	return out
}

func (r *Resolver) fileContext(file *parser.File) *fileContext {
	if file == nil {
		return nil
	}
	if ctx, ok := r.index.files[file.Path]; ok && ctx.file == file {
		return ctx
	}
	return newFileContext(file)
}

func (r *Resolver) bind(ctx *fileContext, call parser.CallSite) (binding, bool) {
	if call.Name == "" {
		return binding{}, false
	}
	if call.Receiver.Kind == parser.ExprNone {
		return r.bindBare(ctx, call)
	}
	owner, _, ok := r.exprType(ctx, call, call.Receiver)
	if !ok || strings.HasSuffix(owner, "]") || primitives[owner] {
		return binding{}, false
	}
	return r.findMethod(ctx, call, owner, call.Name)
}

// bindBare resolves a call without receiver: methods of the enclosing types
// first, then static imports.
func (r *Resolver) bindBare(ctx *fileContext, call parser.CallSite) (binding, bool) {
	for o := call.Owner; o != ""; {
		entry, ok := r.index.types[o]
		if !ok {
			break
		}
		if b, ok := r.findIndexed(ctx, call, o, call.Name); ok {
			return b, true
		}
		o = entry.decl.Outer
	}
	if ctx == nil {
		return binding{}, false
	}
	for _, owner := range ctx.staticMembers[call.Name] {
		if b, ok := r.findMethod(ctx, call, owner, call.Name); ok {
			return b, true
		}
	}
	for _, owner := range ctx.staticWildcards {
		if b, ok := r.findIndexed(ctx, call, owner, call.Name); ok {
			return b, true
		}
	}
	if len(ctx.staticWildcards) == 1 {
		if _, indexed := r.index.types[ctx.staticWildcards[0]]; !indexed {
			return r.external(ctx, call, ctx.staticWildcards[0]), true
		}
	}
	return binding{}, false
}

// findMethod looks name up on owner. Methods missing from the indexed
// hierarchy are attributed to the first external type in it, which is
// java.lang.Object when the hierarchy is fully indexed.
func (r *Resolver) findMethod(ctx *fileContext, call parser.CallSite, owner, name string) (binding, bool) {
	if b, ok := r.findIndexed(ctx, call, owner, name); ok {
		return b, true
	}
	if _, indexed := r.index.types[owner]; !indexed {
		return r.external(ctx, call, owner), true
	}
	target := ""
	r.index.walkHierarchy(owner, func(fqn string, entry *typeEntry) bool {
		if entry == nil {
			target = fqn
			return false
		}
		return true
	})
	if target == "" {
		target = javaLangObject
	}
	return r.external(ctx, call, target), true
}

// findIndexed selects an overload of name declared in owner or its indexed
// supertypes. More derived declarations hide less derived ones with the
// same parameters.
func (r *Resolver) findIndexed(ctx *fileContext, call parser.CallSite, owner, name string) (binding, bool) {
	var found []binding
	seen := map[string]bool{}
	r.index.walkHierarchy(owner, func(_ string, entry *typeEntry) bool {
		if entry == nil {
			return true
		}
		for i := range entry.decl.Methods {
			m := &entry.decl.Methods[i]
			if m.Name != name || m.Constructor || !arityMatches(m.Params, len(call.Args)) {
				continue
			}
			params := r.paramTypes(entry, m)
			key := strings.Join(params, ",")
			if seen[key] {
				continue
			}
			seen[key] = true
			found = append(found, binding{
				symbol:   callsite.NewSymbol(entry.decl.QualifiedName+"."+name, params...),
				decl:     m,
				declarer: entry,
			})
		}
		return true
	})
	switch len(found) {
	case 0:
		return binding{}, false
	case 1:
		return found[0], true
	}

	args, known := r.argTypes(ctx, call)
	if known {
		var exact []binding
		for _, b := range found {
			if paramsAccept(b.symbol.ParameterTypes, args) {
				exact = append(exact, b)
			}
		}
		if len(exact) == 1 {
			return exact[0], true
		}
	}
	return binding{symbol: callsite.NewNameOnlySymbol(found[0].symbol.Name())}, true
}

// external builds a symbol for a method outside the analyzed sources. Its
// parameters are known only for calls without arguments and for methods
// listed in the JDK signature table.
func (r *Resolver) external(ctx *fileContext, call parser.CallSite, owner string) binding {
	fqn := owner + "." + call.Name
	if params, ok := jdkOverload(fqn, r.partialArgTypes(ctx, call)); ok {
		return binding{symbol: callsite.NewSymbol(fqn, params...)}
	}
	if _, listed := jdkMethods[fqn]; !listed && len(call.Args) == 0 {
		return binding{symbol: callsite.NewSymbol(fqn)}
	}
	return binding{symbol: callsite.NewNameOnlySymbol(fqn)}
}

func (r *Resolver) paramTypes(entry *typeEntry, m *parser.MethodDecl) []string {
	out := make([]string, 0, len(m.Params))
	for _, p := range m.Params {
		fqn, _ := r.index.resolveType(entry.file, entry.decl.QualifiedName, p.Type)
		out = append(out, fqn)
	}
	return out
}

// partialArgTypes types each argument, leaving "" where the type is unknown.
func (r *Resolver) partialArgTypes(ctx *fileContext, call parser.CallSite) []string {
	out := make([]string, len(call.Args))
	for i, arg := range call.Args {
		if typ, isType, ok := r.exprType(ctx, call, arg); ok && !isType {
			out[i] = typ
		}
	}
	return out
}

func (r *Resolver) argTypes(ctx *fileContext, call parser.CallSite) ([]string, bool) {
	out := make([]string, 0, len(call.Args))
	for _, arg := range call.Args {
		typ, isType, ok := r.exprType(ctx, call, arg)
		if !ok || isType {
			return nil, false
		}
		out = append(out, typ)
	}
	return out, true
}

// overridden collects every supertype declaration b's method overrides,
// transitively. External supertypes are only trusted when the method is
// marked @Override.
func (r *Resolver) overridden(b binding) []callsite.Symbol {
	m := b.decl
	if m.Static || m.Constructor {
		return nil
	}
	params := b.symbol.ParameterTypes
	if !b.symbol.ParametersKnown {
		params = r.paramTypes(b.declarer, m)
	}
	key := strings.Join(params, ",")
	annotated := hasAnnotation(m.Annotations, "Override")

	var out []callsite.Symbol
	start := b.declarer.decl.QualifiedName
	sawExternal := false
	r.index.walkHierarchy(start, func(fqn string, entry *typeEntry) bool {
		if fqn == start {
			return true
		}
		if entry == nil {
			sawExternal = true
			if annotated {
				out = append(out, callsite.NewSymbol(fqn+"."+m.Name, params...))
			}
			return true
		}
		for i := range entry.decl.Methods {
			sm := &entry.decl.Methods[i]
			if sm.Name != m.Name || sm.Static || sm.Constructor {
				continue
			}
			if strings.Join(r.paramTypes(entry, sm), ",") == key {
				out = append(out, callsite.NewSymbol(fqn+"."+m.Name, params...))
				break
			}
		}
		return true
	})
	if annotated && !sawExternal && len(out) == 0 && objectMethods[m.Name] {
		out = append(out, callsite.NewSymbol(javaLangObject+"."+m.Name, params...))
	}
	return out
}

func arityMatches(params []parser.Param, args int) bool {
	if n := len(params); n > 0 && params[n-1].Varargs {
		return args >= n-1
	}
	return len(params) == args
}

// paramsAccept compares argument types with parameter types. null is
// assignable to any reference type.
func paramsAccept(params, args []string) bool {
	if len(params) > 0 && strings.HasSuffix(params[len(params)-1], "...") {
		last := len(params) - 1
		elem := strings.TrimSuffix(params[last], "...")
		if len(args) == len(params) && argAccepts(elem+"[]", args[last]) {
			return allAccept(params[:last], args[:last])
		}
		if len(args) < last {
			return false
		}
		for _, a := range args[last:] {
			if !argAccepts(elem, a) {
				return false
			}
		}
		return allAccept(params[:last], args[:last])
	}
	if len(params) != len(args) {
		return false
	}
	return allAccept(params, args)
}

func allAccept(params, args []string) bool {
	for i := range params {
		if !argAccepts(params[i], args[i]) {
			return false
		}
	}
	return true
}

func argAccepts(param, arg string) bool {
	if arg == "null" {
		return !primitives[param]
	}
	return param == arg
}

func hasAnnotation(annotations []string, name string) bool {
	for _, a := range annotations {
		if a == name {
			return true
		}
	}
	return false
}
