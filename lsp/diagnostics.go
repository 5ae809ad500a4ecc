// Copyright © 2024 The scenelint authors

package lsp

import (
	"context"
	"time"

	"fortio.org/safecast"
	"github.com/scenelang/scenelint/document"
	"github.com/scenelang/scenelint/lint"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/scenelang/scenelint/lsp"

// textDocumentDidOpen handles the textDocument/didOpen notification.
func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.captureNotify(ctx)
	doc := s.docs.Open(
		params.TextDocument.URI,
		params.TextDocument.Version,
		params.TextDocument.Text,
	)
	s.analyzeAndPublish(doc)
	return nil
}

// textDocumentDidChange handles the textDocument/didChange notification.
func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	s.captureNotify(ctx)
	doc, err := s.docs.Change(
		params.TextDocument.URI,
		params.TextDocument.Version,
		params.ContentChanges,
	)
	if err != nil {
		// The client and server disagree on the content. Keep the last
		// good text; the next full sync or save corrects it.
		log.Errorf("didChange: %s", err)
		return nil
	}

	if s.debounceDelay <= 0 {
		s.analyzeAndPublish(doc)
		return nil
	}

	// Debounce: delay analysis to avoid thrashing during rapid edits.
	s.debounceMu.Lock()
	if t, ok := s.debounce[doc.URI]; ok {
		t.Stop()
	}
	s.debounce[doc.URI] = time.AfterFunc(s.debounceDelay, func() {
		defer func() {
			if r := recover(); r != nil {
				log.Criticalf("validation panic for %s: %v", doc.URI, r)
			}
		}()
		if d := s.docs.Get(doc.URI); d != nil {
			s.analyzeAndPublish(d)
		}
	})
	s.debounceMu.Unlock()
	return nil
}

// textDocumentDidSave handles the textDocument/didSave notification.
func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	s.captureNotify(ctx)
	s.cancelDebounce(params.TextDocument.URI)
	if doc := s.docs.Get(params.TextDocument.URI); doc != nil {
		s.analyzeAndPublish(doc)
	}
	return nil
}

// textDocumentDidClose handles the textDocument/didClose notification.
func (s *Server) textDocumentDidClose(_ *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.cancelDebounce(params.TextDocument.URI)

	// Clear diagnostics for the closed file.
	s.sendNotification(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})

	s.docs.Close(params.TextDocument.URI)
	return nil
}

func (s *Server) cancelDebounce(uri string) {
	s.debounceMu.Lock()
	if t, ok := s.debounce[uri]; ok {
		t.Stop()
		delete(s.debounce, uri)
	}
	s.debounceMu.Unlock()
}

// analyzeAndPublish validates a document and publishes the resulting
// diagnostics to the client.
func (s *Server) analyzeAndPublish(doc *Document) {
	text, version := doc.snapshot()
	diags := s.validate(doc.URI, text)

	params := &protocol.PublishDiagnosticsParams{
		URI:         doc.URI,
		Diagnostics: diags,
	}
	// The protocol version is unsigned; a negative client version is left out.
	if v, err := safecast.Conv[protocol.UInteger](version); err == nil {
		params.Version = &v
	}
	s.sendNotification(protocol.ServerTextDocumentPublishDiagnostics, params)
}

// validate runs the linter on text inside a trace span.
func (s *Server) validate(uri string, text *document.Text) []protocol.Diagnostic {
	_, span := otel.Tracer(tracerName).Start(context.Background(), "scenelint.validate",
		trace.WithAttributes(attribute.String("uri", uri)))
	defer span.End()

	lintDiags := s.linter.Lint(text.Content(), text)
	span.SetAttributes(attribute.Int("diagnostics", len(lintDiags)))
	log.Debugf("%s: %d diagnostics", uri, len(lintDiags))

	diags := make([]protocol.Diagnostic, 0, len(lintDiags))
	for _, d := range lintDiags {
		diags = append(diags, convertLintDiagnostic(d))
	}
	return diags
}

// convertLintDiagnostic converts a lint.Diagnostic to an LSP Diagnostic.
func convertLintDiagnostic(d lint.Diagnostic) protocol.Diagnostic {
	sev := mapLintSeverity(d.Severity)
	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: document.Position(d.Range.Start.Line, d.Range.Start.Character),
			End:   document.Position(d.Range.End.Line, d.Range.End.Character),
		},
		Severity: &sev,
		Source:   strPtr(d.Source),
		Code:     &protocol.IntegerOrString{Value: d.Check},
		Message:  d.Message,
	}
}

// mapLintSeverity converts a lint.Severity to a protocol.DiagnosticSeverity.
func mapLintSeverity(sev lint.Severity) protocol.DiagnosticSeverity {
	switch sev {
	case lint.SeverityError:
		return protocol.DiagnosticSeverityError
	case lint.SeverityWarning:
		return protocol.DiagnosticSeverityWarning
	default:
		return protocol.DiagnosticSeverityInformation
	}
}
