// Package session is the boundary between the protocol front end and the
// sequential analysis worker: a pair of unbounded FIFO queues, the worker
// goroutine that owns all document state, and the closed request/response
// message sets that travel between them.
package session

import "phpls/internal/symbols"

// Request is the closed set of messages sent into the analysis worker.
// Adding a variant means adding a case to the worker's dispatch switch;
// a variant without a case is a programming error and panics there.
type Request interface{ isRequest() }

// ComposerFiles reports workspace PHP file paths discovered from the
// composer manifest. It produces no response.
type ComposerFiles struct {
	Paths []string
}

// DidOpen reports a document's full text as most recently opened. It
// produces no response; parse failures go to the operator log only.
type DidOpen struct {
	URI     string
	Text    string
	Version int
}

// DocumentSymbol asks for the symbol outline of an open document. It
// produces exactly one FlatSymbols or NestedSymbols response, empty
// FlatSymbols when the document was never opened.
type DocumentSymbol struct {
	URI    string
	Nested bool
}

// Shutdown terminates the worker. It produces no response.
type Shutdown struct{}

func (ComposerFiles) isRequest()  {}
func (DidOpen) isRequest()        {}
func (DocumentSymbol) isRequest() {}
func (Shutdown) isRequest()       {}

// Response is the closed set of messages sent back to the front end.
type Response interface{ isResponse() }

// References lists locations that refer to a symbol. No current request
// produces it; reference search is a future consumer of this protocol.
type References struct {
	Locations []symbols.Location
}

// FlatSymbols carries a flat symbol outline.
type FlatSymbols struct {
	Symbols []symbols.Information
}

// NestedSymbols carries a hierarchical symbol outline.
type NestedSymbols struct {
	Symbols []symbols.Document
}

func (References) isResponse()    {}
func (FlatSymbols) isResponse()   {}
func (NestedSymbols) isResponse() {}
