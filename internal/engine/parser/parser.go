package parser

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"staticlint/internal/core/errors"
)

type Parser struct {
	loader         *GrammarLoader
	extractors     map[string]Extractor
	pools          map[string]*ParserPool
	extensions     map[string]string
	testFileSuffix []string
}

type Extractor interface {
	Extract(node *sitter.Node, source []byte, filePath string) (*File, error)
}

// NewParser registers the bundled extractor and a parser pool for every
// enabled language of loader.
func NewParser(loader *GrammarLoader) *Parser {
	p := &Parser{
		loader:     loader,
		extractors: make(map[string]Extractor),
		pools:      make(map[string]*ParserPool),
		extensions: make(map[string]string),
	}
	for id, spec := range loader.LanguageRegistry() {
		if !spec.Enabled {
			continue
		}
		for _, ext := range spec.Extensions {
			p.extensions[strings.ToLower(ext)] = id
		}
		p.testFileSuffix = append(p.testFileSuffix, spec.TestFileSuffixes...)
		if lang, ok := loader.Language(id); ok {
			p.pools[id] = NewParserPool(lang)
		}
	}
	sort.Strings(p.testFileSuffix)
	p.RegisterExtractor("java", &JavaExtractor{})
	return p
}

func (p *Parser) RegisterExtractor(lang string, e Extractor) {
	p.extractors[lang] = e
}

// ParseFile parses content as the language detected from path. Syntax
// errors do not fail parsing; the file is marked and whatever could be
// extracted is returned.
func (p *Parser) ParseFile(path string, content []byte) (*File, error) {
	lang := p.GetLanguage(path)
	if lang == "" {
		return nil, errors.New(errors.CodeNotSupported, "unsupported language").(*errors.DomainError).
			WithContext(errors.CtxPath, path)
	}

	extractor := p.extractors[lang]
	if extractor == nil {
		return nil, errors.New(errors.CodeNotSupported, fmt.Sprintf("no extractor for: %s", lang))
	}
	pool := p.pools[lang]
	if pool == nil {
		return nil, errors.New(errors.CodeInternal, fmt.Sprintf("grammar not loaded: %s", lang))
	}

	sp := pool.Get()
	defer pool.Put(sp)

	tree := sp.Parse(content, nil)
	if tree == nil {
		return nil, errors.New(errors.CodeParseFailure, "parse failed").(*errors.DomainError).
			WithContext(errors.CtxPath, path)
	}
	defer tree.Close()

	root := tree.RootNode()
	file, err := extractor.Extract(root, content, path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeParseFailure, "extraction failed")
	}
	file.HasErrors = root.HasError()
	return file, nil
}

func (p *Parser) GetLanguage(path string) string {
	return p.extensions[strings.ToLower(filepath.Ext(path))]
}

func (p *Parser) IsSupportedPath(path string) bool {
	return p.GetLanguage(path) != ""
}

func (p *Parser) IsTestFile(path string) bool {
	base := filepath.Base(path)
	for _, suffix := range p.testFileSuffix {
		if strings.HasSuffix(base, suffix) {
			return true
		}
	}
	return false
}

func (p *Parser) SupportedExtensions() []string {
	return p.loader.SupportedExtensions()
}

// Leases sums the parsers checked out of every pool and the age of the
// oldest one.
func (p *Parser) Leases(now time.Time) (int, time.Duration) {
	var leased int
	var oldest time.Duration
	for _, pool := range p.pools {
		leased += pool.Leased()
		if d := pool.OldestLease(now); d > oldest {
			oldest = d
		}
	}
	return leased, oldest
}
