// Package parser wraps tree-sitter and exposes a small internal AST
// tailored to quality scoring.
package parser

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
)

// SyntaxError reports malformed source text. It carries the first
// malformed location so callers can surface a useful line number.
type SyntaxError struct {
	File string
	Line int
}

// Error implements the error interface
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error in %s at line %d", e.File, e.Line)
}

// Parser wraps a tree-sitter parser for JavaScript/TypeScript
type Parser struct {
	parser *sitter.Parser
	isTS   bool
}

// NewParser creates a new JavaScript parser
func NewParser() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(javascript.GetLanguage())
	return &Parser{parser: p}
}

// NewTypeScriptParser creates a new TypeScript parser
func NewTypeScriptParser() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(tsx.GetLanguage())
	return &Parser{parser: p, isTS: true}
}

// IsTypeScript returns true if this parser is configured for TypeScript
func (p *Parser) IsTypeScript() bool {
	return p.isTS
}

// Close frees parser resources
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
}

// ParseFile parses source text into the internal AST. Malformed input
// yields a *SyntaxError; other failures are returned as-is.
func (p *Parser) ParseFile(ctx context.Context, filename string, source []byte) (*Node, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("no root node in parse tree for %s", filename)
	}

	if root.HasError() {
		return nil, &SyntaxError{File: filename, Line: firstErrorLine(root)}
	}

	builder := NewASTBuilder(filename, source)
	return builder.Build(root), nil
}

// ParseString parses source code from a string
func (p *Parser) ParseString(source string) (*Node, error) {
	return p.ParseFile(context.Background(), "<input>", []byte(source))
}

// ParseForLanguage selects a JavaScript or TypeScript parser from the
// file extension and parses the source
func ParseForLanguage(ctx context.Context, filename string, source []byte) (*Node, error) {
	var p *Parser
	if IsTypeScriptFile(filename) {
		p = NewTypeScriptParser()
	} else {
		p = NewParser()
	}
	defer p.Close()

	return p.ParseFile(ctx, filename, source)
}

// IsTypeScriptFile reports whether the filename has a TypeScript extension
func IsTypeScriptFile(filename string) bool {
	for _, ext := range []string{".ts", ".tsx", ".mts", ".cts"} {
		if strings.HasSuffix(filename, ext) {
			return true
		}
	}
	return false
}

// firstErrorLine finds the 1-based line of the first ERROR or missing
// node in the CST
func firstErrorLine(tsNode *sitter.Node) int {
	if tsNode.Type() == "ERROR" || tsNode.IsMissing() {
		return int(tsNode.StartPoint().Row) + 1
	}
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child == nil || !child.HasError() {
			continue
		}
		if line := firstErrorLine(child); line > 0 {
			return line
		}
	}
	return int(tsNode.StartPoint().Row) + 1
}
