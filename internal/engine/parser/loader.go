package parser

import (
	"fmt"
	"sort"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
)

type LanguageSpec struct {
	Name             string
	Extensions       []string
	TestFileSuffixes []string
	Enabled          bool
}

// DefaultLanguageRegistry lists the languages staticlint can analyse.
func DefaultLanguageRegistry() map[string]LanguageSpec {
	return map[string]LanguageSpec{
		"java": {
			Name:             "java",
			Extensions:       []string{".java"},
			TestFileSuffixes: []string{"Test.java", "Tests.java", "IT.java"},
			Enabled:          true,
		},
	}
}

type GrammarLoader struct {
	languages map[string]*sitter.Language
	registry  map[string]LanguageSpec
}

func NewGrammarLoader() (*GrammarLoader, error) {
	return NewGrammarLoaderWithRegistry(DefaultLanguageRegistry())
}

func NewGrammarLoaderWithRegistry(registry map[string]LanguageSpec) (*GrammarLoader, error) {
	gl := &GrammarLoader{
		languages: make(map[string]*sitter.Language),
		registry:  make(map[string]LanguageSpec, len(registry)),
	}
	for id, spec := range registry {
		spec.Extensions = append([]string(nil), spec.Extensions...)
		spec.TestFileSuffixes = append([]string(nil), spec.TestFileSuffixes...)
		gl.registry[id] = spec
	}

	for id, spec := range gl.registry {
		if !spec.Enabled {
			continue
		}
		switch id {
		case "java":
			gl.languages["java"] = sitter.NewLanguage(tree_sitter_java.Language())
		default:
			return nil, fmt.Errorf("language %q is enabled but no grammar is bundled for it", id)
		}
	}
	return gl, nil
}

func (gl *GrammarLoader) Language(id string) (*sitter.Language, bool) {
	lang, ok := gl.languages[id]
	return lang, ok
}

func (gl *GrammarLoader) LanguageRegistry() map[string]LanguageSpec {
	out := make(map[string]LanguageSpec, len(gl.registry))
	for id, spec := range gl.registry {
		out[id] = spec
	}
	return out
}

func (gl *GrammarLoader) SupportedExtensions() []string {
	set := make(map[string]bool)
	for _, spec := range gl.registry {
		if !spec.Enabled {
			continue
		}
		for _, ext := range spec.Extensions {
			set[strings.ToLower(ext)] = true
		}
	}
	extensions := make([]string, 0, len(set))
	for ext := range set {
		extensions = append(extensions, ext)
	}
	sort.Strings(extensions)
	return extensions
}
