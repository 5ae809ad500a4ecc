// Copyright © 2024 The scenelint authors

package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentReferences handles the textDocument/references request.
func (s *Server) textDocumentReferences(_ *glsp.Context, params *protocol.ReferenceParams) ([]protocol.Location, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	text, refs := doc.refs()
	ref, ok := refAt(refs, offsetAt(text, params.Position))
	if !ok {
		return nil, nil
	}

	var locs []protocol.Location
	for _, r := range refs {
		if r.Name != ref.Name {
			continue
		}
		if r.IsDecl() && !params.Context.IncludeDeclaration {
			continue
		}
		locs = append(locs, protocol.Location{
			URI:   params.TextDocument.URI,
			Range: nameRange(text, r),
		})
	}
	return locs, nil
}
