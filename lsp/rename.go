// Copyright © 2024 The scenelint authors

package lsp

import (
	"fmt"

	"github.com/scenelang/scenelint/lint"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentPrepareRename validates that the token under the cursor is a
// label name and returns its range.
func (s *Server) textDocumentPrepareRename(_ *glsp.Context, params *protocol.PrepareRenameParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil // no document; rename not applicable
	}
	text, refs := doc.refs()
	ref, ok := refAt(refs, offsetAt(text, params.Position))
	if !ok {
		// A null result tells the client the position cannot be renamed.
		return nil, nil
	}
	return &protocol.RangeWithPlaceholder{
		Range:       nameRange(text, ref),
		Placeholder: ref.Name,
	}, nil
}

// textDocumentRename handles the textDocument/rename request. The label
// under the cursor is renamed at every declaration and target.
func (s *Server) textDocumentRename(_ *glsp.Context, params *protocol.RenameParams) (*protocol.WorkspaceEdit, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, fmt.Errorf("document not found")
	}
	text, refs := doc.refs()
	ref, ok := refAt(refs, offsetAt(text, params.Position))
	if !ok {
		return nil, fmt.Errorf("no label at position")
	}
	if !lint.IsLabelName(params.NewName) || params.NewName == "end" {
		return nil, fmt.Errorf("invalid label name: %q", params.NewName)
	}

	var edits []protocol.TextEdit
	for _, r := range refs {
		if r.Name != ref.Name {
			continue
		}
		edits = append(edits, protocol.TextEdit{
			Range:   nameRange(text, r),
			NewText: params.NewName,
		})
	}
	return &protocol.WorkspaceEdit{
		Changes: map[protocol.DocumentUri][]protocol.TextEdit{
			params.TextDocument.URI: edits,
		},
	}, nil
}
