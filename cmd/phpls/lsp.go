package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"phpls/internal/config"
	"phpls/internal/lsp"
	"phpls/internal/parse"
	"phpls/internal/session"
)

var lspCmd = &cobra.Command{
	Use:          "lsp",
	Short:        "Run the PHP language server over stdio",
	SilenceUsage: true,
	RunE:         runLSP,
}

func runLSP(cmd *cobra.Command, _ []string) error {
	cfg, _, err := config.Load(".")
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cfg.LSP.Trace {
		level = slog.LevelDebug
	}
	// stdout carries the protocol; everything else goes to stderr.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	bridge := session.NewBridge(parse.NewParser(), logger)
	server := lsp.NewServer(os.Stdin, os.Stdout, lsp.ServerOptions{
		Bridge:        bridge,
		Logger:        logger,
		NestedSymbols: cfg.NestedSymbols(),
	})
	if err := server.Run(cmd.Context()); err != nil {
		if errors.Is(err, lsp.ErrExit) {
			return nil
		}
		if errors.Is(err, lsp.ErrExitWithoutShutdown) {
			return fmt.Errorf("lsp exit without shutdown")
		}
		return err
	}
	return nil
}
