package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"phpls/internal/parse"
	"phpls/internal/symbols"
)

var (
	symbolsNested bool
	symbolsFormat string
)

func init() {
	symbolsCmd.Flags().BoolVar(&symbolsNested, "nested", false, "print the hierarchical outline")
	symbolsCmd.Flags().StringVar(&symbolsFormat, "format", "pretty", "output format (pretty|json)")
}

var symbolsCmd = &cobra.Command{
	Use:          "symbols <file.php>",
	Short:        "Print the symbol outline of a PHP file",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runSymbols,
}

func runSymbols(cmd *cobra.Command, args []string) error {
	path, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	tree, err := parse.NewParser().Parse(context.Background(), src)
	if err != nil {
		return fmt.Errorf("failed to parse %q: %w", path, err)
	}
	defer tree.Close()

	out := cmd.OutOrStdout()
	switch strings.ToLower(symbolsFormat) {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if symbolsNested {
			return enc.Encode(symbols.Nested(tree.RootNode(), src))
		}
		return enc.Encode(symbols.Flat("file://"+path, tree.RootNode(), src))
	case "pretty":
		if symbolsNested {
			printNested(out, symbols.Nested(tree.RootNode(), src), 0)
			return nil
		}
		printFlat(out, symbols.Flat("file://"+path, tree.RootNode(), src))
		return nil
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", symbolsFormat)
	}
}

var (
	symbolNameColor = color.New(color.FgCyan, color.Bold)
	symbolKindColor = color.New(color.Faint)
)

func printFlat(out io.Writer, infos []symbols.Information) {
	nameWidth := 0
	for _, info := range infos {
		if w := runewidth.StringWidth(info.Name); w > nameWidth {
			nameWidth = w
		}
	}
	for _, info := range infos {
		name := runewidth.FillRight(info.Name, nameWidth)
		line := fmt.Sprintf("%s  %-10s %d:%d",
			symbolNameColor.Sprint(name),
			symbolKindColor.Sprint(info.Kind),
			info.Location.Range.Start.Line+1,
			info.Location.Range.Start.Column+1,
		)
		if info.Container != "" {
			line += symbolKindColor.Sprintf("  in %s", info.Container)
		}
		fmt.Fprintln(out, line)
	}
}

func printNested(out io.Writer, docs []symbols.Document, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, doc := range docs {
		fmt.Fprintf(out, "%s%s %s %d:%d\n",
			indent,
			symbolNameColor.Sprint(doc.Name),
			symbolKindColor.Sprint(doc.Kind),
			doc.Range.Start.Line+1,
			doc.Range.Start.Column+1,
		)
		printNested(out, doc.Children, depth+1)
	}
}
