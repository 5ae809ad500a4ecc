// Copyright © 2024 The scenelint authors

package lsp

import (
	"sort"

	"github.com/scenelang/scenelint/document"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentFoldingRange handles the textDocument/foldingRange request.
// Every matched form that spans more than one line folds.
func (s *Server) textDocumentFoldingRange(_ *glsp.Context, params *protocol.FoldingRangeParams) ([]protocol.FoldingRange, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	return foldingRanges(doc.Text()), nil
}

// foldingRanges matches parentheses the same way validation does and
// returns the multi-line pairs ordered by start.
func foldingRanges(text *document.Text) []protocol.FoldingRange {
	content := text.Content()
	var (
		stack  []int
		ranges []protocol.FoldingRange
	)
	kind := string(protocol.FoldingRangeKindRegion)
	for i := 0; i < len(content); i++ {
		switch content[i] {
		case '(':
			stack = append(stack, i)
		case ')':
			if len(stack) == 0 {
				continue
			}
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			startLine, _ := text.PositionAt(open)
			endLine, _ := text.PositionAt(i)
			if endLine > startLine {
				r := text.Range(open, i)
				ranges = append(ranges, protocol.FoldingRange{
					StartLine: r.Start.Line,
					EndLine:   r.End.Line,
					Kind:      &kind,
				})
			}
		}
	}
	sort.SliceStable(ranges, func(i, j int) bool { return ranges[i].StartLine < ranges[j].StartLine })
	return ranges
}
