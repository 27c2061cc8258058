package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"phpls/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "phpls",
	Short: "PHP language server and symbol tooling",
	Long:  `phpls is a PHP language server with workspace scanning and outline tools`,
	// A bare invocation serves LSP over stdio, matching how editors
	// launch the binary.
	RunE:         runLSP,
	SilenceUsage: true,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(lspCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(symbolsCmd)
	rootCmd.AddCommand(scanCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")

	cobra.OnInitialize(applyColorMode)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func applyColorMode() {
	mode, _ := rootCmd.PersistentFlags().GetString("color")
	switch mode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		color.NoColor = !isTerminal(os.Stdout)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
