// Package builtin wires the rule sets shipped with staticlint.
package builtin

import (
	"staticlint/internal/engine/rules"
	"staticlint/internal/engine/rules/micronaut"
	"staticlint/internal/engine/rules/staticimport"
)

// Registry returns a registry holding every built-in provider.
func Registry() *rules.Registry {
	r, err := rules.NewRegistry(staticimport.Provider{}, micronaut.Provider{})
	if err != nil {
		// Provider ids are constants; a duplicate is a programming error.
		panic(err)
	}
	return r
}
