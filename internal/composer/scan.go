package composer

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// defaultExcludes are directory names never worth scanning.
var defaultExcludes = []string{"vendor", "node_modules", ".git"}

// ListPHPFiles returns the sorted list of *.php files under root,
// skipping vendored and excluded directories. Extra exclude entries match
// against directory base names.
func ListPHPFiles(ctx context.Context, root string, exclude []string) ([]string, error) {
	skip := make(map[string]struct{}, len(defaultExcludes)+len(exclude))
	for _, name := range defaultExcludes {
		skip[name] = struct{}{}
	}
	for _, name := range exclude {
		skip[name] = struct{}{}
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if _, ok := skip[d.Name()]; ok && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, ".php") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// ReadAll reads every listed file concurrently, bounded by the CPU
// count, and returns contents keyed by path. One unreadable file fails
// the whole read.
func ReadAll(ctx context.Context, files []string, read func(string) ([]byte, error)) (map[string][]byte, error) {
	out := make(map[string][]byte, len(files))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for _, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := read(path)
			if err != nil {
				return err
			}
			mu.Lock()
			out[path] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
