// Copyright © 2024 The scenelint authors

package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentDefinition handles the textDocument/definition request. A
// label name resolves to its first declaration.
func (s *Server) textDocumentDefinition(_ *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	text, refs := doc.refs()
	ref, ok := refAt(refs, offsetAt(text, params.Position))
	if !ok {
		return nil, nil
	}
	for _, r := range refs {
		if r.IsDecl() && r.Name == ref.Name {
			return protocol.Location{
				URI:   params.TextDocument.URI,
				Range: nameRange(text, r),
			}, nil
		}
	}
	return nil, nil
}
