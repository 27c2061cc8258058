package composer

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("<?php\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestListPHPFilesSkipsVendorAndSorts(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "src", "B.php"))
	touch(t, filepath.Join(root, "src", "A.php"))
	touch(t, filepath.Join(root, "vendor", "dep", "Dep.php"))
	touch(t, filepath.Join(root, "README.md"))

	got, err := ListPHPFiles(context.Background(), root, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{
		filepath.Join(root, "src", "A.php"),
		filepath.Join(root, "src", "B.php"),
	}
	if len(got) != len(want) {
		t.Fatalf("files = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("files = %v, want %v", got, want)
		}
	}
}

func TestListPHPFilesHonorsExtraExcludes(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "src", "Keep.php"))
	touch(t, filepath.Join(root, "generated", "Skip.php"))

	got, err := ListPHPFiles(context.Background(), root, []string{"generated"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || filepath.Base(got[0]) != "Keep.php" {
		t.Fatalf("files = %v, want only Keep.php", got)
	}
}

func TestReadAllCollectsContents(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a.php")
	b := filepath.Join(root, "b.php")
	touch(t, a)
	touch(t, b)

	got, err := ReadAll(context.Background(), []string{a, b}, os.ReadFile)
	if err != nil {
		t.Fatalf("read all: %v", err)
	}
	if len(got) != 2 || string(got[a]) != "<?php\n" {
		t.Fatalf("contents = %v", got)
	}
}

func TestReadAllPropagatesFailure(t *testing.T) {
	root := t.TempDir()
	missing := filepath.Join(root, "missing.php")
	if _, err := ReadAll(context.Background(), []string{missing}, os.ReadFile); err == nil {
		t.Fatalf("expected read error")
	}
}
