// Copyright © 2024 The scenelint authors

package lsp

import (
	"fmt"
	"sync"

	"github.com/scenelang/scenelint/document"
	"github.com/scenelang/scenelint/parser"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Document represents an open text document tracked by the LSP server.
type Document struct {
	mu      sync.Mutex
	URI     string
	Version protocol.Integer
	text    *document.Text
}

// Text returns the current content of the document.
func (d *Document) Text() *document.Text {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.text
}

// snapshot returns the content and version under the lock.
func (d *Document) snapshot() (*document.Text, protocol.Integer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.text, d.Version
}

// refs returns the label references in the current content.
func (d *Document) refs() (*document.Text, []parser.Ref) {
	text := d.Text()
	return text, parser.ExtractRefs(text.Content())
}

// DocumentStore manages open documents with thread-safe access.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

// NewDocumentStore creates an empty document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string]*Document)}
}

// Open adds a document to the store.
func (s *DocumentStore) Open(uri string, version protocol.Integer, content string) *Document {
	doc := &Document{
		URI:     uri,
		Version: version,
		text:    document.New(content),
	}
	s.mu.Lock()
	s.docs[uri] = doc
	s.mu.Unlock()
	return doc
}

// Change applies content changes to a document in order. When a change
// cannot be applied the document keeps the content it had before the
// call and the error is returned.
func (s *DocumentStore) Change(uri string, version protocol.Integer, changes []any) (*Document, error) {
	s.mu.Lock()
	doc, ok := s.docs[uri]
	if !ok {
		doc = &Document{URI: uri, text: document.New("")}
		s.docs[uri] = doc
	}
	s.mu.Unlock()

	doc.mu.Lock()
	defer doc.mu.Unlock()
	text := doc.text
	for i, change := range changes {
		next, err := text.Apply(change)
		if err != nil {
			return doc, fmt.Errorf("%s: change %d: %w", uri, i, err)
		}
		text = next
	}
	doc.text = text
	doc.Version = version
	return doc, nil
}

// Close removes a document from the store.
func (s *DocumentStore) Close(uri string) {
	s.mu.Lock()
	delete(s.docs, uri)
	s.mu.Unlock()
}

// Get retrieves a document by URI. Returns nil if not found.
func (s *DocumentStore) Get(uri string) *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs[uri]
}

// All returns every open document.
func (s *DocumentStore) All() []*Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]*Document, 0, len(s.docs))
	for _, d := range s.docs {
		docs = append(docs, d)
	}
	return docs
}
