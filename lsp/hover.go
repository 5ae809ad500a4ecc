// Copyright © 2024 The scenelint authors

package lsp

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/muesli/reflow/wordwrap"
	"github.com/scenelang/scenelint/document"
	"github.com/scenelang/scenelint/lint"
	"github.com/scenelang/scenelint/parser"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// hoverWidth is the column keyword docs are wrapped at.
const hoverWidth = 72

// textDocumentHover handles the textDocument/hover request.
func (s *Server) textDocumentHover(_ *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	text, refs := doc.refs()
	offset := offsetAt(text, params.Position)

	var content string
	var r protocol.Range
	if ref, ok := refAt(refs, offset); ok {
		content = labelHover(text, refs, ref.Name)
		r = nameRange(text, ref)
	} else {
		word, start, end := wordAt(text.Content(), offset)
		if word == "" || !inKeywordPosition(text.Content(), start) {
			return nil, nil
		}
		content = keywordHover(word)
		r = text.Range(start, end)
	}
	if content == "" {
		return nil, nil
	}

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: content,
		},
		Range: &r,
	}, nil
}

// inKeywordPosition reports whether the token starting at offset is the
// first token of a form.
func inKeywordPosition(content string, offset int) bool {
	before := strings.TrimRightFunc(content[:offset], unicode.IsSpace)
	return strings.HasSuffix(before, "(")
}

// keywordHover builds Markdown hover text for a keyword or operator.
func keywordHover(kw string) string {
	if lint.Operators[kw] {
		return fmt.Sprintf("**operator** `%s`", kw)
	}
	rule, ok := lint.Rules[kw]
	if !ok {
		return ""
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "**keyword** `%s`\n\n", kw)
	fmt.Fprintf(&sb, "Arguments: %s\n\n", rule.Arity())
	sb.WriteString(wordwrap.String(rule.Doc, hoverWidth))
	return sb.String()
}

// labelHover builds Markdown hover text for a label name.
func labelHover(text *document.Text, refs []parser.Ref, name string) string {
	var decls, uses []int
	for _, r := range refs {
		if r.Name != name {
			continue
		}
		line, _ := text.PositionAt(r.Offset)
		if r.IsDecl() {
			decls = append(decls, line+1)
		} else {
			uses = append(uses, line+1)
		}
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "**label** `%s`", name)
	switch len(decls) {
	case 0:
		sb.WriteString("\n\nNot declared.")
	case 1:
		fmt.Fprintf(&sb, "\n\nDeclared on line %d.", decls[0])
	default:
		fmt.Fprintf(&sb, "\n\nDeclared %d times, on lines %s.", len(decls), joinInts(decls))
	}
	if len(uses) > 0 {
		fmt.Fprintf(&sb, " Targeted on lines %s.", joinInts(uses))
	}
	return sb.String()
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, ", ")
}
