package resolver

import (
	_ "embed"
	"strings"
)

//go:embed data/java_lang.txt
var javaLangData string

//go:embed data/jdk_methods.txt
var jdkMethodData string

var javaLang = map[string]bool{}

// jdkMethods maps a qualified method name to its declared overloads.
var jdkMethods = map[string][][]string{}

var primitives = map[string]bool{
	"boolean": true,
	"byte":    true,
	"char":    true,
	"short":   true,
	"int":     true,
	"long":    true,
	"float":   true,
	"double":  true,
	"void":    true,
}

// widening lists the primitive types each primitive converts to implicitly.
var widening = map[string][]string{
	"byte":  {"short", "int", "long", "float", "double"},
	"short": {"int", "long", "float", "double"},
	"char":  {"int", "long", "float", "double"},
	"int":   {"long", "float", "double"},
	"long":  {"float", "double"},
	"float": {"double"},
}

var boxes = map[string]string{
	"boolean": "java.lang.Boolean",
	"byte":    "java.lang.Byte",
	"char":    "java.lang.Character",
	"short":   "java.lang.Short",
	"int":     "java.lang.Integer",
	"long":    "java.lang.Long",
	"float":   "java.lang.Float",
	"double":  "java.lang.Double",
}

// jdkSupertypes covers the JDK subtyping that the method table relies on.
var jdkSupertypes = map[string][]string{
	"java.lang.String":        {"java.lang.CharSequence", "java.lang.Comparable"},
	"java.lang.StringBuilder": {"java.lang.CharSequence"},
	"java.util.ArrayList":     {"java.util.List", "java.util.Collection", "java.lang.Iterable"},
	"java.util.List":          {"java.util.Collection", "java.lang.Iterable"},
	"java.util.Set":           {"java.util.Collection", "java.lang.Iterable"},
	"java.util.Collection":    {"java.lang.Iterable"},
	"java.time.ZoneOffset":    {"java.time.ZoneId"},
}

func init() {
	for _, line := range dataLines(javaLangData) {
		javaLang[line] = true
	}
	for _, line := range dataLines(jdkMethodData) {
		open := strings.IndexByte(line, '(')
		if open < 0 || !strings.HasSuffix(line, ")") {
			continue
		}
		var params []string
		if inner := strings.TrimSpace(line[open+1 : len(line)-1]); inner != "" {
			for _, p := range strings.Split(inner, ",") {
				params = append(params, strings.TrimSpace(p))
			}
		}
		fqn := line[:open]
		jdkMethods[fqn] = append(jdkMethods[fqn], params)
	}
}

func dataLines(data string) []string {
	var out []string
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			out = append(out, line)
		}
	}
	return out
}

// IsJavaLang reports whether simple names a type that needs no import.
func IsJavaLang(simple string) bool {
	return javaLang[simple]
}

// jdkOverload picks the declared overload of fqn that a call with args
// invokes. An empty arg is an expression of unknown type. It returns false
// when fqn is not in the table or the choice is ambiguous.
func jdkOverload(fqn string, args []string) ([]string, bool) {
	overloads, ok := jdkMethods[fqn]
	if !ok {
		return nil, false
	}
	// Fixed arity first, then variable arity, in the order Java tries them.
	for _, varargs := range []bool{false, true} {
		for _, loose := range []bool{false, true} {
			var applicable [][]string
			for _, params := range overloads {
				if isVarargs(params) != varargs {
					continue
				}
				if applies(params, args, loose) {
					applicable = append(applicable, params)
				}
			}
			if len(applicable) == 0 {
				continue
			}
			if len(applicable) > 1 && hasUnknown(args) {
				return nil, false
			}
			if best, ok := mostSpecific(applicable); ok {
				return best, true
			}
			return nil, false
		}
	}
	return nil, false
}

func hasUnknown(args []string) bool {
	for _, a := range args {
		if a == "" {
			return true
		}
	}
	return false
}

func isVarargs(params []string) bool {
	return len(params) > 0 && strings.HasSuffix(params[len(params)-1], "...")
}

func applies(params, args []string, loose bool) bool {
	if !isVarargs(params) {
		if len(params) != len(args) {
			return false
		}
		for i := range params {
			if !assignable(params[i], args[i], loose) {
				return false
			}
		}
		return true
	}
	last := len(params) - 1
	if len(args) < last {
		return false
	}
	for i := 0; i < last; i++ {
		if !assignable(params[i], args[i], loose) {
			return false
		}
	}
	elem := strings.TrimSuffix(params[last], "...")
	if len(args) == len(params) && assignable(elem+"[]", args[last], loose) {
		return true
	}
	for _, a := range args[last:] {
		if !assignable(elem, a, loose) {
			return false
		}
	}
	return true
}

// assignable reports whether an argument of type arg converts to param.
// Boxing and unboxing are only allowed when loose is set.
func assignable(param, arg string, loose bool) bool {
	switch {
	case arg == "" || param == arg:
		return true
	case arg == "null":
		return !primitives[param]
	case primitives[arg]:
		for _, w := range widening[arg] {
			if w == param {
				return true
			}
		}
		return loose && (boxes[arg] == param || param == javaLangObject)
	case primitives[param]:
		return loose && boxes[param] == arg
	case param == javaLangObject:
		return true
	}
	for _, super := range jdkSupertypes[arg] {
		if super == param {
			return true
		}
	}
	return false
}

// mostSpecific returns the overload whose parameters are assignable to
// every other applicable overload's parameters.
func mostSpecific(candidates [][]string) ([]string, bool) {
	var best []string
	found := 0
	for i, c := range candidates {
		specific := true
		for j, other := range candidates {
			if i != j && !narrower(c, other) {
				specific = false
				break
			}
		}
		if specific {
			best = c
			found++
		}
	}
	return best, found == 1
}

func narrower(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !assignable(strings.TrimSuffix(b[i], "..."), strings.TrimSuffix(a[i], "..."), false) {
			return false
		}
	}
	return true
}
