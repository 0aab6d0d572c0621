package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte("x\n"), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestFindRoot(t *testing.T) {
	t.Run("finds root in parent directory", func(t *testing.T) {
		tmpDir := t.TempDir()
		writeFile(t, filepath.Join(tmpDir, GoModFile))
		subDir := filepath.Join(tmpDir, "sub", "deep")
		if err := os.MkdirAll(subDir, 0o755); err != nil {
			t.Fatal(err)
		}

		root, err := FindRoot(subDir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if root != tmpDir {
			t.Errorf("got %q, want %q", root, tmpDir)
		}
	})

	t.Run("returns error when no go.mod found", func(t *testing.T) {
		_, err := FindRoot(t.TempDir())
		if !errors.Is(err, ErrNotInProject) {
			t.Errorf("got error %v, want %v", err, ErrNotInProject)
		}
	})
}

func TestFindFile(t *testing.T) {
	t.Run("prefers earlier names in one directory", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "b.yaml"))
		writeFile(t, filepath.Join(dir, "a.yaml"))

		got, err := FindFile(dir, "a.yaml", "b.yaml")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := filepath.Join(dir, "a.yaml"); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("finds file in ancestor up to module root", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, GoModFile))
		writeFile(t, filepath.Join(root, "typedsql.yaml"))
		sub := filepath.Join(root, "internal", "pkg")
		if err := os.MkdirAll(sub, 0o755); err != nil {
			t.Fatal(err)
		}
		t.Chdir(sub)

		got, err := FindFile(".", "typedsql.yaml")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := filepath.Join("..", "..", "typedsql.yaml"); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("stops at module root", func(t *testing.T) {
		outer := t.TempDir()
		writeFile(t, filepath.Join(outer, "typedsql.yaml"))
		module := filepath.Join(outer, "module")
		writeFile(t, filepath.Join(module, GoModFile))

		_, err := FindFile(module, "typedsql.yaml")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("got error %v, want %v", err, ErrNotFound)
		}
	})

	t.Run("ignores directories", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, GoModFile))
		if err := os.Mkdir(filepath.Join(dir, "typedsql.yaml"), 0o755); err != nil {
			t.Fatal(err)
		}
		if _, err := FindFile(dir, "typedsql.yaml"); !errors.Is(err, ErrNotFound) {
			t.Errorf("got error %v, want %v", err, ErrNotFound)
		}
	})
}
