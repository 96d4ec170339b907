package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// skippedDirs are never descended into when walking a directory
var skippedDirs = map[string]bool{
	"__pycache__":   true,
	"venv":          true,
	"node_modules":  true,
	"build":         true,
	"dist":          true,
	"site-packages": true,
}

// IsPythonFile checks if a file is a Python source or stub file
func IsPythonFile(filename string) bool {
	return strings.HasSuffix(filename, ".py") || strings.HasSuffix(filename, ".pyi")
}

// ShouldSkipDir reports whether a directory with the given base name is
// skipped by default: hidden directories, virtualenvs and build output.
func ShouldSkipDir(name string) bool {
	return skippedDirs[name] || (strings.HasPrefix(name, ".") && name != "." && name != "..")
}

// CompileGlobs compiles exclude patterns
func CompileGlobs(patterns []string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", p, err)
		}
		out = append(out, g)
	}
	return out, nil
}

// MatchAny reports whether the base name or the slash-separated relative
// path matches one of the globs.
func MatchAny(globs []glob.Glob, rel string) bool {
	rel = filepath.ToSlash(rel)
	base := filepath.Base(rel)
	for _, g := range globs {
		if g.Match(base) || g.Match(rel) {
			return true
		}
	}
	return false
}

// FindPythonFiles recursively finds all Python source files in a directory
func FindPythonFiles(root string, exclude []string) ([]string, error) {
	globs, err := CompileGlobs(exclude)
	if err != nil {
		return nil, err
	}

	var pyFiles []string
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}

		// Skip default and excluded directories (but not the root directory)
		if info.IsDir() {
			if path != root && (ShouldSkipDir(info.Name()) || MatchAny(globs, rel)) {
				return filepath.SkipDir
			}
			return nil
		}

		if IsPythonFile(info.Name()) && !MatchAny(globs, rel) {
			pyFiles = append(pyFiles, path)
		}

		return nil
	})

	return pyFiles, err
}

// IsDirectory checks if the given path is a directory
func IsDirectory(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}
