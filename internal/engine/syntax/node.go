// Package syntax holds the node shapes rules are dispatched on.
package syntax

import (
	"staticlint/internal/engine/callsite"
	"staticlint/internal/engine/finding"
)

type NodeKind int

const (
	NodeCall NodeKind = iota
	NodeFunctionDeclaration
)

func (k NodeKind) String() string {
	switch k {
	case NodeCall:
		return "call"
	case NodeFunctionDeclaration:
		return "function_declaration"
	default:
		return "unknown"
	}
}

// FunctionDeclaration is a declared method with the short names of its
// annotations.
type FunctionDeclaration struct {
	Name        string
	Owner       string
	Annotations []string
	Location    finding.Location
}

// HasAnnotation reports whether any of names is among the annotations.
func (d FunctionDeclaration) HasAnnotation(names map[string]struct{}) bool {
	for _, a := range d.Annotations {
		if _, ok := names[a]; ok {
			return true
		}
	}
	return false
}

// Node is a tagged union. For NodeCall a nil Call means the front end had no
// binding for the call; Location still points at the call.
type Node struct {
	Kind     NodeKind
	Call     *callsite.ResolvedCall
	Decl     *FunctionDeclaration
	Location finding.Location
}

func CallNode(call *callsite.ResolvedCall, loc finding.Location) Node {
	return Node{Kind: NodeCall, Call: call, Location: loc}
}

func DeclarationNode(decl FunctionDeclaration) Node {
	return Node{Kind: NodeFunctionDeclaration, Decl: &decl, Location: decl.Location}
}
