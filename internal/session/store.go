package session

import sitter "github.com/smacker/go-tree-sitter"

// Document is the parsed representation of one open file: the syntax tree
// for the text most recently reported as open.
type Document struct {
	Tree    *sitter.Tree
	Text    string
	Version int
}

// Store maps document URIs to their parsed documents. It is owned
// exclusively by the worker goroutine; no lock is needed because nothing
// else may touch it.
type Store struct {
	docs map[string]*Document
}

// NewStore constructs an empty document store.
func NewStore() *Store {
	return &Store{docs: make(map[string]*Document)}
}

// Get returns the document for uri, if any.
func (s *Store) Get(uri string) (*Document, bool) {
	doc, ok := s.docs[uri]
	return doc, ok
}

// Put replaces the document for uri wholesale, releasing the previous
// tree's memory.
func (s *Store) Put(uri string, doc *Document) {
	if prev, ok := s.docs[uri]; ok && prev.Tree != nil {
		prev.Tree.Close()
	}
	s.docs[uri] = doc
}

// Len reports the number of open documents.
func (s *Store) Len() int {
	return len(s.docs)
}

// Close releases every stored tree. Called once at session teardown.
func (s *Store) Close() {
	for uri, doc := range s.docs {
		if doc.Tree != nil {
			doc.Tree.Close()
		}
		delete(s.docs, uri)
	}
}
