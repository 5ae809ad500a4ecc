// Copyright © 2024 The scenelint authors

package lsp

import (
	"unicode"
	"unicode/utf8"

	"github.com/scenelang/scenelint/document"
	"github.com/scenelang/scenelint/parser"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// offsetAt converts an LSP position to a byte offset in text.
func offsetAt(text *document.Text, pos protocol.Position) int {
	return text.OffsetAt(int(pos.Line), int(pos.Character))
}

// isWordRune reports whether r can be part of a keyword or label token.
func isWordRune(r rune) bool {
	return !unicode.IsSpace(r) && r != '(' && r != ')' && r != '"'
}

// wordAt returns the token around offset and its byte range. The cursor
// may sit just past the last character of the token.
func wordAt(content string, offset int) (word string, start, end int) {
	if offset < 0 || offset > len(content) {
		return "", offset, offset
	}
	start = offset
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(content[:start])
		if !isWordRune(r) {
			break
		}
		start -= size
	}
	end = offset
	for end < len(content) {
		r, size := utf8.DecodeRuneInString(content[end:])
		if !isWordRune(r) {
			break
		}
		end += size
	}
	return content[start:end], start, end
}

// refAt returns the label reference whose name covers offset.
func refAt(refs []parser.Ref, offset int) (parser.Ref, bool) {
	for _, r := range refs {
		if r.Contains(offset) {
			return r, true
		}
	}
	return parser.Ref{}, false
}

// nameRange returns the LSP range of a reference's name token.
func nameRange(text *document.Text, r parser.Ref) protocol.Range {
	return text.Range(r.NameStart, r.NameEnd)
}
