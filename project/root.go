// Package project locates files of a typedsql project by walking up the
// directory tree.
package project

import (
	"errors"
	"os"
	"path/filepath"
)

const GoModFile = "go.mod"

var (
	ErrNotInProject = errors.New("not in a Go project (no go.mod found)")
	ErrNotFound     = errors.New("file not found in project")
)

// FindRoot walks up from startDir to the nearest directory holding go.mod.
func FindRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if exists(filepath.Join(dir, GoModFile)) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotInProject
		}
		dir = parent
	}
}

// FindFile walks up from startDir and returns the first of names found,
// preferring earlier names within one directory. The walk ends at the
// directory holding go.mod, or at the filesystem root outside a module.
// The result is relative to startDir when startDir is relative.
func FindFile(startDir string, names ...string) (string, error) {
	start, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := start
	for {
		for _, name := range names {
			path := filepath.Join(dir, name)
			if !exists(path) {
				continue
			}
			if filepath.IsAbs(startDir) {
				return path, nil
			}
			rel, err := filepath.Rel(start, path)
			if err != nil {
				return path, nil
			}
			return filepath.Join(startDir, rel), nil
		}

		parent := filepath.Dir(dir)
		if parent == dir || exists(filepath.Join(dir, GoModFile)) {
			return "", ErrNotFound
		}
		dir = parent
	}
}

func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
