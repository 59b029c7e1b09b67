// Package signature parses method signatures such as
// "java.time.LocalDate.of(int, int, int)" and matches them against
// resolved call symbols.
package signature

import (
	"errors"
	"strings"

	domainerrors "staticlint/internal/core/errors"
)

// ErrMalformedSignature is wrapped by every error Parse returns.
var ErrMalformedSignature = errors.New("malformed signature")

// Segment is one dot-separated part of a qualified name. Quoted segments were
// written between backticks and compare by their unquoted text.
type Segment struct {
	Text   string
	Quoted bool
}

// Candidate is a symbol identity produced by the front end for one call.
type Candidate struct {
	QualifiedName   []string
	ParameterTypes  []string
	ParametersKnown bool
}

// Matcher is an immutable, parsed signature. The zero value matches nothing.
type Matcher struct {
	spec      string
	name      []Segment
	params    []string
	hasParams bool
}

// Parse turns spec into a Matcher. A spec without a parenthesised parameter
// list matches every overload; "()" matches only the zero-parameter one.
func Parse(spec string) (Matcher, error) {
	s := strings.TrimSpace(spec)
	if s == "" {
		return Matcher{}, malformed(spec, "signature is empty")
	}

	open, closing := -1, -1
	depth := 0
	inQuote := false
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '`':
			inQuote = !inQuote
		case '(':
			if inQuote {
				continue
			}
			if closing >= 0 {
				return Matcher{}, malformed(spec, "unexpected text after parameter list")
			}
			if depth == 0 {
				open = i
			}
			depth++
		case ')':
			if inQuote {
				continue
			}
			if depth == 0 {
				return Matcher{}, malformed(spec, "unbalanced parentheses")
			}
			depth--
			if depth == 0 {
				closing = i
			}
		}
	}
	if inQuote {
		return Matcher{}, malformed(spec, "unterminated backtick")
	}
	if depth > 0 {
		return Matcher{}, malformed(spec, "unbalanced parentheses")
	}
	if closing >= 0 && strings.TrimSpace(s[closing+1:]) != "" {
		return Matcher{}, malformed(spec, "unexpected text after parameter list")
	}

	namePart := s
	if open >= 0 {
		namePart = s[:open]
	}
	namePart = strings.TrimSpace(namePart)
	if namePart == "" {
		return Matcher{}, malformed(spec, "qualified name is empty")
	}

	m := Matcher{spec: s}
	for _, raw := range splitUnquoted(namePart, '.', false) {
		raw = strings.TrimSpace(raw)
		m.name = append(m.name, Segment{
			Text:   strings.ReplaceAll(raw, "`", ""),
			Quoted: strings.Contains(raw, "`"),
		})
	}

	if open >= 0 {
		m.hasParams = true
		m.params = []string{}
		inner := strings.TrimSpace(s[open+1 : closing])
		if inner != "" {
			for _, p := range splitUnquoted(inner, ',', true) {
				m.params = append(m.params, strings.ReplaceAll(strings.TrimSpace(p), "`", ""))
			}
		}
	}
	return m, nil
}

// MustParse is Parse for package-level literals and tests.
func MustParse(spec string) Matcher {
	m, err := Parse(spec)
	if err != nil {
		panic(err)
	}
	return m
}

// Matches reports whether c names the same function and, when the matcher
// carries a parameter list, the same parameter types in the same order.
func (m Matcher) Matches(c Candidate) bool {
	if len(m.name) == 0 || len(c.QualifiedName) != len(m.name) {
		return false
	}
	for i, seg := range m.name {
		if seg.Text != c.QualifiedName[i] {
			return false
		}
	}
	if !m.hasParams {
		return true
	}
	if !c.ParametersKnown || len(c.ParameterTypes) != len(m.params) {
		return false
	}
	for i, p := range m.params {
		if c.ParameterTypes[i] != p {
			return false
		}
	}
	return true
}

// String returns the trimmed spec the matcher was parsed from.
func (m Matcher) String() string { return m.spec }

// Equal reports whether both matchers were parsed from the same spec text.
func (m Matcher) Equal(other Matcher) bool { return m.spec == other.spec }

// QualifiedName returns a copy of the parsed name segments.
func (m Matcher) QualifiedName() []Segment {
	out := make([]Segment, len(m.name))
	copy(out, m.name)
	return out
}

// Name joins the unquoted qualified name segments with dots.
func (m Matcher) Name() string {
	parts := make([]string, len(m.name))
	for i, seg := range m.name {
		parts[i] = seg.Text
	}
	return strings.Join(parts, ".")
}

// ParameterTypes returns the declared parameter list and whether one was given.
func (m Matcher) ParameterTypes() ([]string, bool) {
	if !m.hasParams {
		return nil, false
	}
	out := make([]string, len(m.params))
	copy(out, m.params)
	return out, true
}

// SplitList splits a comma separated list of specs. Commas inside backticks
// or inside a parameter list do not separate entries. Entries are trimmed and
// blank entries dropped.
func SplitList(s string) []string {
	var out []string
	for _, part := range splitUnquoted(s, ',', true) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func splitUnquoted(s string, sep byte, respectParens bool) []string {
	var parts []string
	inQuote := false
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '`':
			inQuote = !inQuote
		case inQuote:
		case respectParens && c == '(':
			depth++
		case respectParens && c == ')' && depth > 0:
			depth--
		case c == sep && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

func malformed(spec, reason string) error {
	err := &domainerrors.DomainError{
		Code:    domainerrors.CodeMalformedSignature,
		Message: reason,
		Err:     ErrMalformedSignature,
	}
	return err.WithContext(domainerrors.CtxSignature, spec)
}
