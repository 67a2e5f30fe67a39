package server

import (
	"strings"

	"github.com/shinyvision/phpscan/internal/analysis"
	"github.com/shinyvision/phpscan/internal/php"
	"github.com/shinyvision/phpscan/internal/tokens"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// cursor is what sits under the caret of a request.
type cursor struct {
	report *php.Report
	toks   *tokens.Tokens
	lines  *php.LineIndex
	offset int
	index  int
}

func (s *Server) cursorAt(uri protocol.DocumentUri, pos protocol.Position) (*cursor, bool) {
	doc, ok := s.state.GetDocument(uri)
	if !ok {
		return nil, false
	}
	report, err := doc.Report()
	if err != nil {
		return nil, false
	}
	c := &cursor{report: report}
	doc.Read(func(_ []byte, toks *tokens.Tokens, lines *php.LineIndex) {
		c.toks, c.lines = toks, lines
		c.offset = lines.Offset(pos)
		c.index = toks.IndexAt(c.offset)
	})
	return c, c.index >= 0
}

func (c *cursor) token() tokens.Token {
	return c.toks.At(c.index)
}

// provider resolves the data provider named under the cursor, either at its
// declaration or in a `@dataProvider` tag.
func (c *cursor) provider() (*php.DataProviderReport, bool) {
	tok := c.token()
	switch {
	case tok.Is(tokens.KindIdentifier):
		for i := range c.report.DataProviders {
			if c.report.DataProviders[i].At.Offset == tok.Offset {
				return &c.report.DataProviders[i], true
			}
		}
	case tok.Is(tokens.KindDocComment):
		for _, tag := range analysis.DataProviderTags(tok.Text) {
			if c.offset < tok.Offset+tag.Start || c.offset > tok.Offset+tag.End {
				continue
			}
			for i := range c.report.DataProviders {
				if c.report.DataProviders[i].Name == tag.Name {
					return &c.report.DataProviders[i], true
				}
			}
		}
	}
	return nil, false
}

func (c *cursor) declarationRange(p *php.DataProviderReport) protocol.Range {
	return c.lines.Range(p.At.Offset, p.At.Offset+len(p.Name))
}

// usageRanges points at the provider name inside every referencing tag.
func (c *cursor) usageRanges(p *php.DataProviderReport) []protocol.Range {
	var ranges []protocol.Range
	for _, usage := range p.Usages {
		doc := c.toks.At(c.toks.IndexAt(usage.Offset))
		for _, tag := range analysis.DataProviderTags(doc.Text) {
			if tag.Name == p.Name {
				ranges = append(ranges, c.lines.Range(doc.Offset+tag.Start, doc.Offset+tag.End))
			}
		}
	}
	return ranges
}

func (s *Server) onDefinition(_ *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	c, ok := s.cursorAt(params.TextDocument.URI, params.Position)
	if !ok || !c.token().Is(tokens.KindDocComment) {
		return nil, nil
	}
	provider, ok := c.provider()
	if !ok {
		return nil, nil
	}
	return []protocol.Location{{
		URI:   params.TextDocument.URI,
		Range: c.declarationRange(provider),
	}}, nil
}

func (s *Server) onReferences(_ *glsp.Context, params *protocol.ReferenceParams) ([]protocol.Location, error) {
	c, ok := s.cursorAt(params.TextDocument.URI, params.Position)
	if !ok {
		return nil, nil
	}
	provider, ok := c.provider()
	if !ok {
		return nil, nil
	}

	var locations []protocol.Location
	if params.Context.IncludeDeclaration {
		locations = append(locations, protocol.Location{URI: params.TextDocument.URI, Range: c.declarationRange(provider)})
	}
	for _, rng := range c.usageRanges(provider) {
		locations = append(locations, protocol.Location{URI: params.TextDocument.URI, Range: rng})
	}
	return locations, nil
}

func (s *Server) onHover(_ *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	c, ok := s.cursorAt(params.TextDocument.URI, params.Position)
	if !ok {
		return nil, nil
	}
	tok := c.token()

	var value string
	switch {
	case tok.IsKeyword("switch"):
		for _, sw := range c.report.Switches {
			if sw.At.Offset == tok.Offset {
				value = switchHover(sw)
			}
		}
	case tok.Is(tokens.KindIdentifier) && strings.EqualFold(tok.Text, "__construct"):
		for _, class := range c.report.Classes {
			if class.Constructor != nil && class.Constructor.At.Offset == tok.Offset {
				value = constructorHover(class)
			}
		}
	case tok.Is(tokens.KindIdentifier):
		if provider, ok := c.provider(); ok {
			value = providerHover(provider)
		}
	}
	if value == "" {
		return nil, nil
	}

	rng := c.lines.Range(tok.Offset, tok.End())
	return &protocol.Hover{
		Contents: protocol.MarkupContent{Kind: protocol.MarkupKindMarkdown, Value: value},
		Range:    &rng,
	}, nil
}
