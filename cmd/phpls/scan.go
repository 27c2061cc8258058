package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"phpls/internal/cache"
	"phpls/internal/composer"
	"phpls/internal/config"
	"phpls/internal/parse"
	"phpls/internal/symbols"
	"phpls/internal/ui"
)

var (
	scanJobs    int
	scanNoCache bool
)

func init() {
	scanCmd.Flags().IntVar(&scanJobs, "jobs", runtime.NumCPU(), "number of parallel parse workers")
	scanCmd.Flags().BoolVar(&scanNoCache, "no-cache", false, "ignore the on-disk symbol cache")
}

var scanCmd = &cobra.Command{
	Use:          "scan [dir]",
	Short:        "Index every PHP file under a workspace root",
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runScan,
}

type scanResult struct {
	files   int
	symbols int
	cached  int
	failed  int
}

func runScan(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return err
	}

	cfg, _, err := config.Load(root)
	if err != nil {
		return err
	}

	// The composer manifest, when present, anchors the workspace root.
	if manifest, ok, err := composer.Load(root); err == nil && ok {
		root = manifest.Root
	}

	files, err := composer.ListPHPFiles(cmd.Context(), root, cfg.Scan.Exclude)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no PHP files found")
		return nil
	}

	var store *cache.DiskCache
	if !scanNoCache {
		store, err = cache.Open("phpls")
		if err != nil {
			return err
		}
	}

	events := make(chan ui.Event, 256)
	resultCh := make(chan scanResult, 1)
	errCh := make(chan error, 1)

	go func() {
		res, err := scanFiles(cmd.Context(), files, store, events)
		resultCh <- res
		errCh <- err
		close(events)
	}()

	if isTerminal(os.Stdout) {
		model := ui.NewProgressModel("scanning "+root, files, events)
		program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
		if _, err := program.Run(); err != nil {
			return err
		}
	} else {
		for ev := range events {
			if ev.Err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "error %s: %v\n", ev.Path, ev.Err)
			}
		}
	}

	res := <-resultCh
	if err := <-errCh; err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "scanned %d files: %d symbols, %d cached, %d failed\n",
		res.files, res.symbols, res.cached, res.failed)
	if res.failed > 0 {
		return fmt.Errorf("%d files failed to parse", res.failed)
	}
	return nil
}

// scanFiles parses the workspace in parallel. Each worker owns its own
// parser because a parser instance is not safe for concurrent use.
func scanFiles(ctx context.Context, files []string, store *cache.DiskCache, events chan<- ui.Event) (scanResult, error) {
	jobs := scanJobs
	if jobs < 1 {
		jobs = 1
	}

	paths := make(chan string)
	var mu sync.Mutex
	var res scanResult
	res.files = len(files)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(paths)
		for _, path := range files {
			select {
			case paths <- path:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for range jobs {
		g.Go(func() error {
			parser := parse.NewParser()
			for path := range paths {
				count, fromCache, err := scanOne(ctx, parser, store, path, events)
				mu.Lock()
				if err != nil {
					res.failed++
				} else {
					res.symbols += count
					if fromCache {
						res.cached++
					}
				}
				mu.Unlock()
			}
			return nil
		})
	}

	err := g.Wait()
	return res, err
}

func scanOne(ctx context.Context, parser *parse.Parser, store *cache.DiskCache, path string, events chan<- ui.Event) (int, bool, error) {
	events <- ui.Event{Path: path, Status: ui.StatusParsing}

	src, err := os.ReadFile(path)
	if err != nil {
		events <- ui.Event{Path: path, Status: ui.StatusError, Err: err}
		return 0, false, err
	}

	key := cache.HashBytes(src)
	if store != nil {
		if entry, ok, err := store.Load(key); err == nil && ok {
			events <- ui.Event{Path: path, Status: ui.StatusCached}
			return len(entry.Symbols), true, nil
		}
	}

	tree, err := parser.Parse(ctx, src)
	if err != nil {
		events <- ui.Event{Path: path, Status: ui.StatusError, Err: err}
		return 0, false, err
	}
	defer tree.Close()

	infos := symbols.Flat("file://"+path, tree.RootNode(), src)
	if store != nil {
		if err := store.Store(&cache.Entry{Path: path, Hash: key, Symbols: infos}); err != nil {
			events <- ui.Event{Path: path, Status: ui.StatusError, Err: err}
			return 0, false, err
		}
	}
	events <- ui.Event{Path: path, Status: ui.StatusDone}
	return len(infos), false, nil
}
