package session

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	sitter "github.com/smacker/go-tree-sitter"

	"phpls/internal/parse"
	"phpls/internal/symbols"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type failingParser struct{}

func (failingParser) Parse(ctx context.Context, src []byte) (*sitter.Tree, error) {
	return nil, errors.New("boom")
}

func TestDocumentSymbolScenario(t *testing.T) {
	b := NewBridge(parse.NewParser(), discardLogger())
	defer b.Shutdown()

	uri := "file:///home/file.php"
	b.Send(DidOpen{
		URI:     uri,
		Text:    "<?php\nclass Whatever {\npublic int $x;\n}",
		Version: 1,
	})

	resp, ok := b.Call(DocumentSymbol{URI: uri})
	if !ok {
		t.Fatalf("expected a response")
	}
	flat, ok := resp.(FlatSymbols)
	if !ok {
		t.Fatalf("expected FlatSymbols, got %T", resp)
	}
	if len(flat.Symbols) == 0 {
		t.Fatalf("expected symbols for Whatever")
	}
	got := flat.Symbols[0]
	want := symbols.Information{
		Name: "Whatever",
		Kind: symbols.KindClass,
		Location: symbols.Location{
			URI: uri,
			Range: symbols.Range{
				Start: symbols.Position{Line: 1, Column: 0},
				End:   symbols.Position{Line: 3, Column: 1},
			},
		},
	}
	if got != want {
		t.Fatalf("symbol = %+v, want %+v", got, want)
	}
}

func TestUnknownDocumentYieldsEmptyFlatList(t *testing.T) {
	b := NewBridge(parse.NewParser(), discardLogger())
	defer b.Shutdown()

	resp, ok := b.Call(DocumentSymbol{URI: "file:///never/opened.php"})
	if !ok {
		t.Fatalf("expected a response")
	}
	flat, ok := resp.(FlatSymbols)
	if !ok {
		t.Fatalf("expected FlatSymbols, got %T", resp)
	}
	if flat.Symbols == nil {
		t.Fatalf("expected an empty list, not nil")
	}
	if len(flat.Symbols) != 0 {
		t.Fatalf("expected no symbols, got %d", len(flat.Symbols))
	}
}

func TestNestedDocumentSymbol(t *testing.T) {
	b := NewBridge(parse.NewParser(), discardLogger())
	defer b.Shutdown()

	uri := "file:///home/box.php"
	b.Send(DidOpen{
		URI:     uri,
		Text:    "<?php\nclass Box {\npublic function open(): void {}\n}",
		Version: 1,
	})

	resp, ok := b.Call(DocumentSymbol{URI: uri, Nested: true})
	if !ok {
		t.Fatalf("expected a response")
	}
	nested, ok := resp.(NestedSymbols)
	if !ok {
		t.Fatalf("expected NestedSymbols, got %T", resp)
	}
	if len(nested.Symbols) != 1 || nested.Symbols[0].Name != "Box" {
		t.Fatalf("unexpected outline: %+v", nested.Symbols)
	}
	if len(nested.Symbols[0].Children) != 1 || nested.Symbols[0].Children[0].Name != "open" {
		t.Fatalf("unexpected children: %+v", nested.Symbols[0].Children)
	}
}

func TestOrderingOfSequentialCalls(t *testing.T) {
	b := NewBridge(parse.NewParser(), discardLogger())
	defer b.Shutdown()

	first := "file:///a.php"
	second := "file:///b.php"
	b.Send(DidOpen{URI: first, Text: "<?php\nclass A {}", Version: 1})
	b.Send(DidOpen{URI: second, Text: "<?php\nclass B {}", Version: 1})

	resp, ok := b.Call(DocumentSymbol{URI: first})
	if !ok {
		t.Fatalf("first call: no response")
	}
	if flat := resp.(FlatSymbols); len(flat.Symbols) != 1 || flat.Symbols[0].Name != "A" {
		t.Fatalf("first call answered out of order: %+v", flat.Symbols)
	}

	resp, ok = b.Call(DocumentSymbol{URI: second})
	if !ok {
		t.Fatalf("second call: no response")
	}
	if flat := resp.(FlatSymbols); len(flat.Symbols) != 1 || flat.Symbols[0].Name != "B" {
		t.Fatalf("second call answered out of order: %+v", flat.Symbols)
	}
}

func TestReopenReplacesDocument(t *testing.T) {
	b := NewBridge(parse.NewParser(), discardLogger())
	defer b.Shutdown()

	uri := "file:///r.php"
	b.Send(DidOpen{URI: uri, Text: "<?php\nclass Old {}", Version: 1})
	b.Send(DidOpen{URI: uri, Text: "<?php\nclass New_ {}", Version: 2})

	resp, _ := b.Call(DocumentSymbol{URI: uri})
	flat := resp.(FlatSymbols)
	if len(flat.Symbols) != 1 || flat.Symbols[0].Name != "New_" {
		t.Fatalf("re-open did not replace the document: %+v", flat.Symbols)
	}
}

func TestParseFailureLeavesPreviousDocument(t *testing.T) {
	// First open succeeds through the real parser, then the failing
	// parser is swapped in to model total parse failure on re-open.
	real := parse.NewParser()
	swap := &switchableParser{parser: real}
	b := NewBridge(swap, discardLogger())
	defer b.Shutdown()

	uri := "file:///keep.php"
	b.Send(DidOpen{URI: uri, Text: "<?php\nclass Keep {}", Version: 1})
	// Force the first open to be fully processed before swapping.
	if _, ok := b.Call(DocumentSymbol{URI: uri}); !ok {
		t.Fatalf("expected a response")
	}

	swap.fail = true
	b.Send(DidOpen{URI: uri, Text: "<?php\nclass Gone {}", Version: 2})

	resp, ok := b.Call(DocumentSymbol{URI: uri})
	if !ok {
		t.Fatalf("expected a response")
	}
	flat := resp.(FlatSymbols)
	if len(flat.Symbols) != 1 || flat.Symbols[0].Name != "Keep" {
		t.Fatalf("failed parse must leave the previous tree: %+v", flat.Symbols)
	}
}

type switchableParser struct {
	parser *parse.Parser
	fail   bool
}

func (p *switchableParser) Parse(ctx context.Context, src []byte) (*sitter.Tree, error) {
	if p.fail {
		return failingParser{}.Parse(ctx, src)
	}
	return p.parser.Parse(ctx, src)
}

func TestShutdownJoinsWorkerAndDropsLaterSends(t *testing.T) {
	var log bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&log, nil))
	b := NewBridge(parse.NewParser(), logger)

	done := make(chan struct{})
	go func() {
		b.Shutdown()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("shutdown did not join the worker")
	}

	// Dropped, logged, no panic.
	b.Send(DidOpen{URI: "file:///late.php", Text: "<?php", Version: 1})
	if !strings.Contains(log.String(), "send on closed bridge") {
		t.Fatalf("expected the dropped send to be logged, got: %s", log.String())
	}

	if _, ok := b.Recv(); ok {
		t.Fatalf("recv after shutdown must report not-ok")
	}

	// Second shutdown is a no-op.
	b.Shutdown()
}

func TestParseFailureOnFirstOpenLeavesDocumentAbsent(t *testing.T) {
	b := NewBridge(failingParser{}, discardLogger())
	defer b.Shutdown()

	uri := "file:///absent.php"
	b.Send(DidOpen{URI: uri, Text: "anything", Version: 1})

	resp, ok := b.Call(DocumentSymbol{URI: uri})
	if !ok {
		t.Fatalf("expected a response")
	}
	if flat := resp.(FlatSymbols); len(flat.Symbols) != 0 {
		t.Fatalf("expected no symbols, got %+v", flat.Symbols)
	}
}
