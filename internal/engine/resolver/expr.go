package resolver

import (
	"strings"

	"staticlint/internal/engine/parser"
)

// exprType returns the qualified static type of e. isType is set when e
// names a type rather than a value, as in the receiver of Math.floor(x).
func (r *Resolver) exprType(ctx *fileContext, call parser.CallSite, e parser.Expr) (typ string, isType bool, ok bool) {
	switch e.Kind {
	case parser.ExprName:
		return r.nameType(ctx, call, e.Text)
	case parser.ExprThis:
		if call.Owner == "" {
			return "", false, false
		}
		return call.Owner, false, true
	case parser.ExprSuper:
		return r.superType(call.Owner), false, true
	case parser.ExprNew, parser.ExprCast:
		fqn, _ := r.index.resolveType(ctx, call.Owner, e.Text)
		return fqn, false, fqn != ""
	case parser.ExprLiteral:
		return e.Text, false, e.Text != ""
	case parser.ExprField:
		if e.Inner == nil {
			return "", false, false
		}
		inner, _, ok := r.exprType(ctx, call, *e.Inner)
		if !ok {
			return "", false, false
		}
		fqn, ok := r.index.fieldType(inner, e.Text)
		return fqn, false, ok
	case parser.ExprCall:
		if e.Call == nil {
			return "", false, false
		}
		return r.returnType(ctx, *e.Call)
	}
	return "", false, false
}

// nameType classifies a dotted name the way Java does for ambiguous names:
// the leftmost segment is a variable, a field, a type or a package prefix,
// and every following segment is a field or a member type.
func (r *Resolver) nameType(ctx *fileContext, call parser.CallSite, text string) (string, bool, bool) {
	segments := strings.Split(text, ".")
	cur, isType, ok := r.leadingName(ctx, call, segments[0])
	rest := segments[1:]
	if !ok {
		cur, isType, rest, ok = r.packagePrefix(segments)
		if !ok {
			return "", false, false
		}
	}
	for _, seg := range rest {
		cur, isType, ok = r.memberOf(cur, isType, seg)
		if !ok {
			return "", false, false
		}
	}
	return cur, isType, true
}

func (r *Resolver) leadingName(ctx *fileContext, call parser.CallSite, name string) (string, bool, bool) {
	if call.Scope != nil {
		if written, found := call.Scope.Lookup(name); found {
			fqn, _ := r.index.resolveType(ctx, call.Owner, written)
			return fqn, false, fqn != ""
		}
	}
	for o := call.Owner; o != ""; {
		entry, indexed := r.index.types[o]
		if !indexed {
			break
		}
		if fqn, found := r.index.fieldType(o, name); found {
			return fqn, false, true
		}
		o = entry.decl.Outer
	}
	if fqn, found := r.index.lookupSimple(ctx, call.Owner, name); found {
		return fqn, true, true
	}
	if isTypeLike(name) {
		fqn, _ := r.index.resolveTypeName(ctx, call.Owner, name)
		return fqn, true, true
	}
	return "", false, false
}

// packagePrefix consumes lower-case package segments up to the first
// indexed or capitalised type name.
func (r *Resolver) packagePrefix(segments []string) (string, bool, []string, bool) {
	for i := 1; i < len(segments); i++ {
		fqn := strings.Join(segments[:i+1], ".")
		if _, indexed := r.index.types[fqn]; indexed || isTypeLike(segments[i]) {
			return fqn, true, segments[i+1:], true
		}
	}
	return "", false, nil, false
}

// memberOf steps from a type or value into one of its members. Inside an
// external type only capitalised names are taken, as member types.
func (r *Resolver) memberOf(cur string, isType bool, name string) (string, bool, bool) {
	if isType {
		if _, indexed := r.index.types[cur+"."+name]; indexed {
			return cur + "." + name, true, true
		}
	}
	if fqn, found := r.index.fieldType(cur, name); found {
		return fqn, false, true
	}
	if _, indexed := r.index.types[cur]; !indexed && isType && isTypeLike(name) {
		return cur + "." + name, true, true
	}
	return "", false, false
}

func (r *Resolver) superType(owner string) string {
	entry, ok := r.index.types[owner]
	if !ok || entry.decl.Kind == parser.KindInterface {
		return javaLangObject
	}
	supers := r.index.supertypes(entry)
	if len(supers) == 0 {
		return javaLangObject
	}
	// The superclass is listed before the interfaces.
	first := supers[0]
	if super, indexed := r.index.types[first]; indexed && super.decl.Kind == parser.KindInterface {
		return javaLangObject
	}
	return first
}

// returnType is the type of a nested call, known only when it binds to an
// indexed declaration.
func (r *Resolver) returnType(ctx *fileContext, call parser.CallSite) (string, bool, bool) {
	b, ok := r.bind(ctx, call)
	if !ok || b.decl == nil || b.decl.ReturnType == "" || b.decl.ReturnType == "void" {
		return "", false, false
	}
	fqn, _ := r.index.resolveType(b.declarer.file, b.declarer.decl.QualifiedName, b.decl.ReturnType)
	return fqn, false, fqn != ""
}
