// Package composer reads the workspace's composer.json autoload
// configuration and enumerates the PHP files it governs. Only the
// autoload maps are decoded; the rest of the manifest is ignored.
package composer

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Manifest is the decoded autoload configuration of one composer.json.
type Manifest struct {
	Path string // manifest file path
	Root string // directory containing the manifest

	// PSR4 maps namespace prefixes (trailing backslash included, as
	// composer spells them) to base directories relative to Root.
	PSR4 map[string][]string
	// PSR0 maps namespace prefixes to base directories, legacy style.
	PSR0 map[string][]string
}

type composerJSON struct {
	Autoload struct {
		PSR4 map[string]dirList `json:"psr-4"`
		PSR0 map[string]dirList `json:"psr-0"`
	} `json:"autoload"`
}

// dirList accepts both the single-string and the array form composer
// allows for autoload directories.
type dirList []string

func (d *dirList) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*d = dirList{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*d = dirList(many)
	return nil
}

// Find walks upward from startDir looking for composer.json.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "composer.json")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load finds and decodes the nearest composer.json above startDir. The
// second return is false when no manifest exists.
func Load(startDir string) (*Manifest, bool, error) {
	path, ok, err := Find(startDir)
	if err != nil || !ok {
		return nil, false, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %q: %w", path, err)
	}
	var decoded composerJSON
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, false, fmt.Errorf("failed to decode %q: %w", path, err)
	}
	m := &Manifest{
		Path: path,
		Root: filepath.Dir(path),
		PSR4: map[string][]string{},
		PSR0: map[string][]string{},
	}
	for prefix, dirs := range decoded.Autoload.PSR4 {
		m.PSR4[prefix] = dirs
	}
	for prefix, dirs := range decoded.Autoload.PSR0 {
		m.PSR0[prefix] = dirs
	}
	return m, true, nil
}

// CandidatePaths maps a fully-qualified class name to the file paths the
// autoload rules would probe, most specific prefix first. The returned
// paths are absolute; nothing is checked against the filesystem.
func (m *Manifest) CandidatePaths(fqcn string) []string {
	fqcn = strings.TrimPrefix(fqcn, `\`)
	var out []string
	for _, prefix := range prefixesByLength(m.PSR4) {
		if !strings.HasPrefix(fqcn, prefix) {
			continue
		}
		rest := strings.TrimPrefix(fqcn, prefix)
		rel := strings.ReplaceAll(rest, `\`, string(filepath.Separator)) + ".php"
		for _, dir := range m.PSR4[prefix] {
			out = append(out, filepath.Join(m.Root, dir, rel))
		}
	}
	for _, prefix := range prefixesByLength(m.PSR0) {
		if !strings.HasPrefix(fqcn, prefix) {
			continue
		}
		// PSR-0 keeps the full class name in the path and maps
		// underscores in the class part to separators.
		rel := strings.ReplaceAll(fqcn, `\`, string(filepath.Separator))
		if i := strings.LastIndex(rel, string(filepath.Separator)); i >= 0 {
			rel = rel[:i+1] + strings.ReplaceAll(rel[i+1:], "_", string(filepath.Separator))
		}
		for _, dir := range m.PSR0[prefix] {
			out = append(out, filepath.Join(m.Root, dir, rel+".php"))
		}
	}
	return out
}

func prefixesByLength(m map[string][]string) []string {
	out := make([]string, 0, len(m))
	for prefix := range m {
		out = append(out, prefix)
	}
	// Longest prefix wins; ties break lexicographically for stable
	// output.
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}
