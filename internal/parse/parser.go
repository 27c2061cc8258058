// Package parse wraps the tree-sitter PHP grammar behind a small total
// interface: source text in, syntax tree or error out. Parse failure is
// total; no partial or error-recovery tree is surfaced to callers.
package parse

import (
	"context"
	"errors"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/php"
)

// ErrNoTree is returned when tree-sitter yields no tree at all for the
// given input.
var ErrNoTree = errors.New("parse: no tree produced")

// Parser parses PHP source text. A Parser is NOT safe for concurrent use;
// callers own exactly one goroutine per instance (the analysis worker is
// sequential by construction, the CLI scan path creates one per scan
// goroutine).
type Parser struct {
	inner *sitter.Parser
}

// NewParser constructs a parser with the PHP grammar loaded.
func NewParser() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(php.GetLanguage())
	return &Parser{inner: p}
}

// Parse parses source text into a syntax tree. The returned tree owns C
// memory; callers release it with Tree.Close when replacing it.
func (p *Parser) Parse(ctx context.Context, src []byte) (*sitter.Tree, error) {
	tree, err := p.inner.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, err
	}
	if tree == nil {
		return nil, ErrNoTree
	}
	return tree, nil
}
