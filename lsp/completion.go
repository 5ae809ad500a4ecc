// Copyright © 2024 The scenelint authors

package lsp

import (
	"regexp"
	"strings"

	"github.com/scenelang/scenelint/lint"
	"github.com/scenelang/scenelint/parser"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

var (
	// targetContext matches a line ending inside the first argument of a
	// jump or start form.
	targetContext = regexp.MustCompile(`\(\s*(jump|start)\s+([^\s()"]*)$`)
	// keywordContext matches a line ending in keyword position.
	keywordContext = regexp.MustCompile(`\(\s*([^\s()"]*)$`)
)

// textDocumentCompletion handles the textDocument/completion request.
func (s *Server) textDocumentCompletion(_ *glsp.Context, params *protocol.CompletionParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	text := doc.Text()
	offset := offsetAt(text, params.Position)
	line, _ := text.PositionAt(offset)
	lineStart := text.OffsetAt(line, 0)
	before := text.Content()[lineStart:offset]

	if m := targetContext.FindStringSubmatch(before); m != nil {
		return labelCompletions(text.Content(), m[1], m[2]), nil
	}
	if m := keywordContext.FindStringSubmatch(before); m != nil {
		return keywordCompletions(m[1]), nil
	}
	return nil, nil
}

// keywordCompletions returns every keyword starting with prefix.
func keywordCompletions(prefix string) []protocol.CompletionItem {
	kind := protocol.CompletionItemKindKeyword
	var items []protocol.CompletionItem
	for _, kw := range lint.Keywords() {
		if !strings.HasPrefix(kw, prefix) {
			continue
		}
		rule := lint.Rules[kw]
		items = append(items, protocol.CompletionItem{
			Label:  kw,
			Kind:   &kind,
			Detail: strPtr(rule.Arity() + " args"),
			Documentation: protocol.MarkupContent{
				Kind:  protocol.MarkupKindMarkdown,
				Value: rule.Doc,
			},
		})
	}
	return items
}

// labelCompletions returns the labels declared in content that start with
// prefix. A jump may also target end.
func labelCompletions(content, keyword, prefix string) []protocol.CompletionItem {
	names := parser.ExtractLabels(content).Unique()
	if keyword == "jump" {
		names = append(names, "end")
	}
	kind := protocol.CompletionItemKindReference
	var items []protocol.CompletionItem
	for _, name := range names {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		detail := "label"
		if name == "end" {
			detail = "end of script"
		}
		items = append(items, protocol.CompletionItem{
			Label:  name,
			Kind:   &kind,
			Detail: strPtr(detail),
		})
	}
	return items
}
