// Package callsite describes resolved calls and derives the symbol identities
// a rule should test for a call.
package callsite

import (
	"strings"

	"staticlint/internal/engine/finding"
	"staticlint/internal/engine/signature"
)

// Symbol identifies a callable. ParametersKnown is false when the front end
// could bind the name but not the parameter list.
type Symbol struct {
	QualifiedName   []string
	ParameterTypes  []string
	ParametersKnown bool
}

// NewSymbol splits a dotted name into a Symbol with known parameter types.
func NewSymbol(fqn string, params ...string) Symbol {
	if params == nil {
		params = []string{}
	}
	return Symbol{QualifiedName: strings.Split(fqn, "."), ParameterTypes: params, ParametersKnown: true}
}

// NewNameOnlySymbol is a Symbol whose parameter list is unknown.
func NewNameOnlySymbol(fqn string) Symbol {
	return Symbol{QualifiedName: strings.Split(fqn, ".")}
}

func (s Symbol) Name() string {
	return strings.Join(s.QualifiedName, ".")
}

func (s Symbol) String() string {
	if !s.ParametersKnown {
		return s.Name()
	}
	return s.Name() + "(" + strings.Join(s.ParameterTypes, ", ") + ")"
}

func (s Symbol) Candidate() signature.Candidate {
	return signature.Candidate{
		QualifiedName:   s.QualifiedName,
		ParameterTypes:  s.ParameterTypes,
		ParametersKnown: s.ParametersKnown,
	}
}

// ResolvedCall is a call expression after symbol binding. Overridden lists
// every symbol the invoked one overrides, transitively and without nesting.
type ResolvedCall struct {
	Invoked             Symbol
	Overridden          []Symbol
	HasExplicitReceiver bool
	// Location points at the called name, not at the receiver.
	Location finding.Location
}

// Candidates returns the invoked symbol followed by its overridden symbols.
func Candidates(call ResolvedCall) []signature.Candidate {
	out := make([]signature.Candidate, 0, 1+len(call.Overridden))
	out = append(out, call.Invoked.Candidate())
	for _, s := range call.Overridden {
		out = append(out, s.Candidate())
	}
	return out
}

// Symbols is Candidates without the conversion, for reporting.
func Symbols(call ResolvedCall) []Symbol {
	out := make([]Symbol, 0, 1+len(call.Overridden))
	out = append(out, call.Invoked)
	return append(out, call.Overridden...)
}
