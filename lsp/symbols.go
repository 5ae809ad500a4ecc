// Copyright © 2024 The scenelint authors

package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentDocumentSymbol handles the textDocument/documentSymbol
// request. Every label declaration is a symbol.
func (s *Server) textDocumentDocumentSymbol(_ *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	text, refs := doc.refs()

	var symbols []protocol.DocumentSymbol
	for _, r := range refs {
		if !r.IsDecl() {
			continue
		}
		nr := nameRange(text, r)
		symbols = append(symbols, protocol.DocumentSymbol{
			Name:           r.Name,
			Detail:         strPtr("label"),
			Kind:           protocol.SymbolKindKey,
			Range:          text.Range(r.Offset, r.NameEnd),
			SelectionRange: nr,
		})
	}

	// Return as []DocumentSymbol (the preferred hierarchical form).
	return symbols, nil
}
