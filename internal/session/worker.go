package session

import (
	"context"
	"fmt"
	"log/slog"

	sitter "github.com/smacker/go-tree-sitter"

	"phpls/internal/symbols"
)

// Parser is the external parser collaborator: source text in, syntax tree
// or error out. Failure is total; there is no partial tree.
type Parser interface {
	Parse(ctx context.Context, src []byte) (*sitter.Tree, error)
}

// worker is the sequential analysis processor. It owns the document store
// and the parser; every mutation happens on its single goroutine, so the
// store needs no locking by construction.
type worker struct {
	parser Parser
	store  *Store
	logger *slog.Logger

	composerFiles []string
}

// run consumes requests until Shutdown. Every request kind must have a
// case here; an unknown kind means the protocol and the worker have
// diverged, which is a programming error, not bad input.
func (w *worker) run(in <-chan Request, reply func(Response)) {
	defer w.store.Close()
	for req := range in {
		switch req := req.(type) {
		case DidOpen:
			w.didOpen(req)
		case DocumentSymbol:
			reply(w.documentSymbol(req))
		case ComposerFiles:
			w.composerFiles = req.Paths
			w.logger.Info("session: composer files recorded", "count", len(req.Paths))
		case Shutdown:
			return
		default:
			panic(fmt.Sprintf("session: unhandled request %T", req))
		}
	}
}

// didOpen parses the opened text and replaces the stored document. On
// parse failure the store keeps whatever it had: the previous tree, or
// nothing if this was the first open.
func (w *worker) didOpen(req DidOpen) {
	tree, err := w.parser.Parse(context.Background(), []byte(req.Text))
	if err != nil {
		w.logger.Error("session: could not parse file", "uri", req.URI, "err", err)
		return
	}
	w.store.Put(req.URI, &Document{
		Tree:    tree,
		Text:    req.Text,
		Version: req.Version,
	})
}

// documentSymbol builds the outline for an open document. A URI that was
// never opened is not an error: the reply is an empty flat list.
func (w *worker) documentSymbol(req DocumentSymbol) Response {
	doc, ok := w.store.Get(req.URI)
	if !ok {
		return FlatSymbols{Symbols: []symbols.Information{}}
	}
	src := []byte(doc.Text)
	root := doc.Tree.RootNode()
	if req.Nested {
		return NestedSymbols{Symbols: symbols.Nested(root, src)}
	}
	return FlatSymbols{Symbols: symbols.Flat(req.URI, root, src)}
}
