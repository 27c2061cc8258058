// Package lsp implements the stdio JSON-RPC front end of phpls. The front
// end owns the wire; all document analysis goes through the session
// bridge to the sequential worker.
package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync"

	"phpls/internal/composer"
	"phpls/internal/session"
	"phpls/internal/symbols"
	"phpls/internal/version"
)

var (
	// ErrExit signals a graceful shutdown after receiving "exit".
	ErrExit = errors.New("lsp exit")
	// ErrExitWithoutShutdown signals an "exit" without a preceding "shutdown".
	ErrExitWithoutShutdown = errors.New("lsp exit without shutdown")
)

// ServerOptions configures the LSP server.
type ServerOptions struct {
	Bridge *session.Bridge
	Logger *slog.Logger
	// NestedSymbols requests hierarchical outlines when the client
	// supports them.
	NestedSymbols bool
}

// Server handles stdio JSON-RPC for phpls.
type Server struct {
	in     *bufio.Reader
	out    *bufio.Writer
	sendMu sync.Mutex

	bridge *session.Bridge
	logger *slog.Logger

	mu                sync.Mutex
	workspaceRoot     string
	shutdownRequested bool
	nestedSymbols     bool
	clientNested      bool
}

// NewServer constructs an LSP server speaking over in/out.
func NewServer(in io.Reader, out io.Writer, opts ServerOptions) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		in:            bufio.NewReader(in),
		out:           bufio.NewWriter(out),
		bridge:        opts.Bridge,
		logger:        logger,
		nestedSymbols: opts.NestedSymbols,
	}
}

// Run serves requests until exit. The returned error distinguishes a
// clean exit (ErrExit) from an exit the client sent without shutting
// down first.
func (s *Server) Run(ctx context.Context) error {
	for {
		payload, err := readMessage(s.in)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		var msg rpcMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			s.logger.Error("lsp: failed to parse message", "err", err)
			continue
		}
		if msg.Method == "" {
			continue
		}
		if err := s.handleMessage(ctx, &msg); err != nil {
			return err
		}
	}
}

func (s *Server) handleMessage(ctx context.Context, msg *rpcMessage) error {
	switch msg.Method {
	case "initialize":
		return s.handleInitialize(msg)
	case "initialized":
		s.handleInitialized(ctx)
		return nil
	case "shutdown":
		return s.handleShutdown(msg)
	case "exit":
		s.mu.Lock()
		requested := s.shutdownRequested
		s.mu.Unlock()
		if requested {
			return ErrExit
		}
		return ErrExitWithoutShutdown
	case "textDocument/didOpen":
		return s.handleDidOpen(msg)
	case "textDocument/documentSymbol":
		return s.handleDocumentSymbol(msg)
	default:
		if len(msg.ID) > 0 {
			return s.sendError(msg.ID, -32601, "method not found")
		}
		return nil
	}
}

func (s *Server) handleInitialize(msg *rpcMessage) error {
	var params initializeParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return s.sendError(msg.ID, -32602, "invalid params")
		}
	}
	root := ""
	if params.RootURI != "" {
		root = uriToPath(params.RootURI)
	}
	if root == "" && params.RootPath != "" {
		root = params.RootPath
	}
	if root == "" && len(params.WorkspaceFolders) > 0 {
		root = uriToPath(params.WorkspaceFolders[0].URI)
	}
	if root != "" {
		if abs, err := filepath.Abs(root); err == nil {
			root = abs
		}
	} else {
		s.logger.Warn("lsp: no workspace root in initialize params")
	}

	clientNested := false
	if params.Capabilities != nil &&
		params.Capabilities.TextDocument != nil &&
		params.Capabilities.TextDocument.DocumentSymbol != nil {
		clientNested = params.Capabilities.TextDocument.DocumentSymbol.HierarchicalDocumentSymbolSupport
	}

	s.mu.Lock()
	s.workspaceRoot = root
	s.clientNested = clientNested
	s.mu.Unlock()

	result := initializeResult{
		Capabilities: serverCapabilities{
			TextDocumentSync: textDocumentSyncOptions{
				OpenClose: true,
				Change:    1,
			},
			DocumentSymbolProvider: true,
		},
		ServerInfo: &serverInfo{
			Name:    "phpls",
			Version: version.Number,
		},
	}
	return s.sendResponse(msg.ID, result)
}

// handleInitialized kicks off the composer workspace scan in the
// background; its result feeds the worker as a ComposerFiles request.
func (s *Server) handleInitialized(ctx context.Context) {
	s.mu.Lock()
	root := s.workspaceRoot
	s.mu.Unlock()
	if root == "" {
		return
	}
	go func() {
		manifest, ok, err := composer.Load(root)
		if err != nil {
			s.logger.Error("lsp: composer manifest", "err", err)
			return
		}
		if !ok {
			s.logger.Info("lsp: no composer.json in workspace", "root", root)
			return
		}
		files, err := composer.ListPHPFiles(ctx, manifest.Root, nil)
		if err != nil {
			s.logger.Error("lsp: workspace scan", "err", err)
			return
		}
		s.bridge.Send(session.ComposerFiles{Paths: files})
	}()
}

func (s *Server) handleShutdown(msg *rpcMessage) error {
	s.mu.Lock()
	s.shutdownRequested = true
	s.mu.Unlock()
	// Joins the worker: once the reply goes out, analysis has fully
	// stopped.
	s.bridge.Shutdown()
	return s.sendResponse(msg.ID, nil)
}

func (s *Server) handleDidOpen(msg *rpcMessage) error {
	var params didOpenTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	if params.TextDocument.URI == "" {
		return nil
	}
	s.bridge.Send(session.DidOpen{
		URI:     params.TextDocument.URI,
		Text:    params.TextDocument.Text,
		Version: params.TextDocument.Version,
	})
	return nil
}

func (s *Server) handleDocumentSymbol(msg *rpcMessage) error {
	var params documentSymbolParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, -32602, "invalid params")
	}
	s.mu.Lock()
	nested := s.nestedSymbols && s.clientNested
	s.mu.Unlock()

	resp, ok := s.bridge.Call(session.DocumentSymbol{
		URI:    params.TextDocument.URI,
		Nested: nested,
	})
	if !ok {
		return s.sendResponse(msg.ID, nil)
	}
	switch resp := resp.(type) {
	case session.FlatSymbols:
		return s.sendResponse(msg.ID, flatToWire(resp.Symbols))
	case session.NestedSymbols:
		return s.sendResponse(msg.ID, nestedToWire(resp.Symbols))
	default:
		return s.sendResponse(msg.ID, nil)
	}
}

func (s *Server) sendResponse(id json.RawMessage, result any) error {
	msg := map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"result":  result,
	}
	return s.send(msg)
}

func (s *Server) sendError(id json.RawMessage, code int, message string) error {
	msg := map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"error": rpcError{
			Code:    code,
			Message: message,
		},
	}
	return s.send(msg)
}

func (s *Server) send(msg any) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if err := writeMessage(s.out, payload); err != nil {
		return err
	}
	return s.out.Flush()
}

// LSP SymbolKind numbers for the kinds this server produces.
func symbolKindNumber(k symbols.Kind) int {
	switch k {
	case symbols.KindClass, symbols.KindTrait:
		return 5
	case symbols.KindMethod:
		return 6
	case symbols.KindProperty:
		return 7
	case symbols.KindEnum:
		return 10
	case symbols.KindInterface:
		return 11
	case symbols.KindFunction:
		return 12
	case symbols.KindConstant:
		return 14
	default:
		return 0
	}
}

func rangeToWire(r symbols.Range) lspRange {
	return lspRange{
		Start: position{Line: r.Start.Line, Character: r.Start.Column},
		End:   position{Line: r.End.Line, Character: r.End.Column},
	}
}

func flatToWire(list []symbols.Information) []symbolInformation {
	out := make([]symbolInformation, 0, len(list))
	for _, s := range list {
		out = append(out, symbolInformation{
			Name: s.Name,
			Kind: symbolKindNumber(s.Kind),
			Location: location{
				URI:   s.Location.URI,
				Range: rangeToWire(s.Location.Range),
			},
			ContainerName: s.Container,
		})
	}
	return out
}

func nestedToWire(list []symbols.Document) []documentSymbol {
	out := make([]documentSymbol, 0, len(list))
	for _, s := range list {
		out = append(out, documentSymbol{
			Name:           s.Name,
			Kind:           symbolKindNumber(s.Kind),
			Range:          rangeToWire(s.Range),
			SelectionRange: rangeToWire(s.SelectionRange),
			Children:       nestedToWire(s.Children),
		})
	}
	return out
}
