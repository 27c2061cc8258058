package composer

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "composer.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestFindWalksUpward(t *testing.T) {
	root := t.TempDir()
	want := writeManifest(t, root, `{}`)
	nested := filepath.Join(root, "src", "Controller")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got, ok, err := Find(nested)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !ok || got != want {
		t.Fatalf("find = %q/%v, want %q", got, ok, want)
	}
}

func TestFindReportsAbsence(t *testing.T) {
	// A temp dir has no composer.json anywhere up to the filesystem
	// root in CI; tolerate one existing higher up by checking ok only
	// when the result is outside the temp dir.
	dir := t.TempDir()
	got, ok, err := Find(dir)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if ok && filepath.Dir(got) == dir {
		t.Fatalf("unexpected manifest inside fresh temp dir: %q", got)
	}
}

func TestLoadDecodesAutoloadMaps(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `{
		"name": "acme/app",
		"autoload": {
			"psr-4": {
				"Acme\\App\\": "src/",
				"Acme\\": ["lib/", "legacy/"]
			},
			"psr-0": {
				"Zend_": "library/"
			}
		}
	}`)

	m, ok, err := Load(root)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !ok {
		t.Fatalf("expected a manifest")
	}
	if m.Root != root {
		t.Fatalf("root = %q, want %q", m.Root, root)
	}
	if got := m.PSR4[`Acme\App\`]; len(got) != 1 || got[0] != "src/" {
		t.Fatalf("psr-4 single dir = %v", got)
	}
	if got := m.PSR4[`Acme\`]; len(got) != 2 || got[0] != "lib/" || got[1] != "legacy/" {
		t.Fatalf("psr-4 dir list = %v", got)
	}
	if got := m.PSR0["Zend_"]; len(got) != 1 || got[0] != "library/" {
		t.Fatalf("psr-0 = %v", got)
	}
}

func TestLoadRejectsMalformedManifest(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `{"autoload":`)
	if _, _, err := Load(root); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestCandidatePathsPrefersLongestPrefix(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `{
		"autoload": {
			"psr-4": {
				"Acme\\App\\": "src/",
				"Acme\\": "lib/"
			}
		}
	}`)
	m, _, err := Load(root)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	got := m.CandidatePaths(`Acme\App\Http\Kernel`)
	if len(got) < 2 {
		t.Fatalf("expected candidates from both prefixes, got %v", got)
	}
	want := filepath.Join(root, "src", "Http", "Kernel.php")
	if got[0] != want {
		t.Fatalf("first candidate = %q, want %q", got[0], want)
	}
	wantSecond := filepath.Join(root, "lib", "App", "Http", "Kernel.php")
	if got[1] != wantSecond {
		t.Fatalf("second candidate = %q, want %q", got[1], wantSecond)
	}
}

func TestCandidatePathsPSR0Underscores(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `{
		"autoload": {"psr-0": {"Zend_": "library/"}}
	}`)
	m, _, err := Load(root)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	got := m.CandidatePaths("Zend_Db_Adapter")
	want := filepath.Join(root, "library", "Zend", "Db", "Adapter.php")
	if len(got) != 1 || got[0] != want {
		t.Fatalf("candidates = %v, want [%s]", got, want)
	}
}
