// Package project locates the enclosing Go module so CLI commands can
// resolve template paths relative to the project root.
package project

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"
)

// FindRoot walks up from the current directory to find go.mod.
func FindRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return findRootFrom(dir)
}

func findRootFrom(dir string) (string, error) {
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a Go module (no go.mod found)")
		}
		dir = parent
	}
}

// ModulePath reads the module path declared in root's go.mod.
func ModulePath(root string) (string, error) {
	data, err := os.ReadFile(filepath.Join(root, "go.mod"))
	if err != nil {
		return "", fmt.Errorf("failed to read go.mod: %w", err)
	}
	path := modfile.ModulePath(data)
	if path == "" {
		return "", fmt.Errorf("could not determine module path from go.mod")
	}
	return path, nil
}

// ResolveTemplate resolves a template argument. An existing path wins;
// otherwise the path is tried under templatesDir at the project root.
func ResolveTemplate(arg, templatesDir string) (string, error) {
	if _, err := os.Stat(arg); err == nil {
		return arg, nil
	}
	root, err := FindRoot()
	if err != nil {
		return "", fmt.Errorf("template %q not found", arg)
	}
	candidate := filepath.Join(root, templatesDir, arg)
	if _, err := os.Stat(candidate); err == nil {
		return candidate, nil
	}
	return "", fmt.Errorf("template %q not found (also tried %s)", arg, candidate)
}
