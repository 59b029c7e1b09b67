package resolver

import (
	"strings"
	"unicode"

	"staticlint/internal/engine/parser"
)

type typeEntry struct {
	decl *parser.TypeDecl
	file *fileContext
}

// fileContext is the name environment of one compilation unit.
type fileContext struct {
	file    *parser.File
	pkg     string
	single  map[string]string
	imports []string
	// staticMembers maps a statically imported member name to the types it
	// may come from.
	staticMembers   map[string][]string
	staticWildcards []string
}

// Index holds every type declared in the analyzed sources.
type Index struct {
	types    map[string]*typeEntry
	files    map[string]*fileContext
	packages map[string]bool
}

func NewIndex(files []*parser.File) *Index {
	idx := &Index{
		types:    make(map[string]*typeEntry),
		files:    make(map[string]*fileContext, len(files)),
		packages: make(map[string]bool),
	}
	for _, f := range files {
		if f == nil {
			continue
		}
		ctx := newFileContext(f)
		idx.files[f.Path] = ctx
		idx.packages[f.Package] = true
		for i := range f.Types {
			decl := &f.Types[i]
			if decl.QualifiedName == "" {
				continue
			}
			if _, exists := idx.types[decl.QualifiedName]; exists {
				continue
			}
			idx.types[decl.QualifiedName] = &typeEntry{decl: decl, file: ctx}
		}
	}
	return idx
}

func newFileContext(f *parser.File) *fileContext {
	ctx := &fileContext{
		file:          f,
		pkg:           f.Package,
		single:        make(map[string]string),
		staticMembers: make(map[string][]string),
	}
	for _, imp := range f.Imports {
		switch {
		case imp.Static && imp.Wildcard:
			ctx.staticWildcards = append(ctx.staticWildcards, imp.Path)
		case imp.Static:
			owner, member := splitLast(imp.Path)
			if owner != "" {
				ctx.staticMembers[member] = append(ctx.staticMembers[member], owner)
			}
		case imp.Wildcard:
			ctx.imports = append(ctx.imports, imp.Path)
		default:
			ctx.single[imp.SimpleName()] = imp.Path
		}
	}
	return ctx
}

// Type returns the declaration indexed under a qualified name.
func (idx *Index) Type(fqn string) (*parser.TypeDecl, bool) {
	entry, ok := idx.types[fqn]
	if !ok {
		return nil, false
	}
	return entry.decl, true
}

func (idx *Index) Len() int { return len(idx.types) }

// resolveType turns a written type into a qualified one as seen from owner
// inside ctx. Array and varargs suffixes are kept. The boolean is false when
// the result is a guess.
func (idx *Index) resolveType(ctx *fileContext, owner, written string) (string, bool) {
	base, suffix := splitSuffix(written)
	if base == "" {
		return "", false
	}
	if primitives[base] {
		return base + suffix, true
	}
	fqn, certain := idx.resolveTypeName(ctx, owner, base)
	return fqn + suffix, certain
}

func (idx *Index) resolveTypeName(ctx *fileContext, owner, name string) (string, bool) {
	if head, rest, dotted := strings.Cut(name, "."); dotted {
		if fqn, ok := idx.lookupSimple(ctx, owner, head); ok {
			return fqn + "." + rest, true
		}
		return name, true
	}
	if fqn, ok := idx.lookupSimple(ctx, owner, name); ok {
		return fqn, true
	}
	if ctx != nil && len(ctx.imports) == 1 && !idx.packages[ctx.imports[0]] {
		return ctx.imports[0] + "." + name, false
	}
	if ctx != nil && ctx.pkg != "" {
		return ctx.pkg + "." + name, false
	}
	return name, false
}

// lookupSimple applies the scoping order of a simple type name: enclosing
// and inherited member types, single imports, the current package, indexed
// on-demand imports and java.lang.
func (idx *Index) lookupSimple(ctx *fileContext, owner, name string) (string, bool) {
	for o := owner; o != ""; {
		if fqn, ok := idx.memberType(o, name); ok {
			return fqn, true
		}
		entry, ok := idx.types[o]
		if !ok {
			break
		}
		if entry.decl.Name == name {
			return o, true
		}
		o = entry.decl.Outer
	}
	if ctx == nil {
		if javaLang[name] {
			return "java.lang." + name, true
		}
		return "", false
	}
	if fqn, ok := ctx.single[name]; ok {
		return fqn, true
	}
	if ctx.pkg != "" {
		if _, ok := idx.types[ctx.pkg+"."+name]; ok {
			return ctx.pkg + "." + name, true
		}
	} else if _, ok := idx.types[name]; ok {
		return name, true
	}
	for _, pkg := range ctx.imports {
		if _, ok := idx.types[pkg+"."+name]; ok {
			return pkg + "." + name, true
		}
	}
	if javaLang[name] {
		return "java.lang." + name, true
	}
	return "", false
}

// memberType finds a member type named name in fqn or its indexed
// supertypes.
func (idx *Index) memberType(fqn, name string) (string, bool) {
	found := ""
	idx.walkHierarchy(fqn, func(t string, _ *typeEntry) bool {
		if _, ok := idx.types[t+"."+name]; ok {
			found = t + "." + name
			return false
		}
		return true
	})
	return found, found != ""
}

// walkHierarchy visits fqn and its supertypes breadth first. External
// supertypes are visited with a nil entry and not expanded. Returning false
// from visit stops the walk.
func (idx *Index) walkHierarchy(fqn string, visit func(fqn string, entry *typeEntry) bool) {
	seen := map[string]bool{fqn: true}
	queue := []string{fqn}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		entry := idx.types[cur]
		if !visit(cur, entry) {
			return
		}
		if entry == nil {
			continue
		}
		for _, super := range idx.supertypes(entry) {
			if !seen[super] {
				seen[super] = true
				queue = append(queue, super)
			}
		}
	}
}

// supertypes resolves the written supertypes of an indexed type. Names are
// resolved from the enclosing type so a class can extend its own sibling.
func (idx *Index) supertypes(entry *typeEntry) []string {
	out := make([]string, 0, len(entry.decl.Supertypes))
	for _, written := range entry.decl.Supertypes {
		fqn, _ := idx.resolveType(entry.file, entry.decl.Outer, written)
		if fqn != "" && fqn != entry.decl.QualifiedName {
			out = append(out, fqn)
		}
	}
	return out
}

// fieldType looks a field up in fqn and its indexed supertypes and returns
// its resolved type.
func (idx *Index) fieldType(fqn, name string) (string, bool) {
	found := ""
	idx.walkHierarchy(fqn, func(_ string, entry *typeEntry) bool {
		if entry == nil {
			return true
		}
		for _, f := range entry.decl.Fields {
			if f.Name == name {
				found, _ = idx.resolveType(entry.file, entry.decl.QualifiedName, f.Type)
				return false
			}
		}
		return true
	})
	return found, found != ""
}

func splitSuffix(written string) (string, string) {
	base := written
	suffix := ""
	if strings.HasSuffix(base, "...") {
		base = strings.TrimSuffix(base, "...")
		suffix = "..."
	}
	for strings.HasSuffix(base, "[]") {
		base = strings.TrimSuffix(base, "[]")
		suffix = "[]" + suffix
	}
	return base, suffix
}

func splitLast(value string) (string, string) {
	idx := strings.LastIndex(value, ".")
	if idx < 0 {
		return "", value
	}
	return value[:idx], value[idx+1:]
}

func isTypeLike(name string) bool {
	for _, r := range name {
		return unicode.IsUpper(r)
	}
	return false
}
