package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsPythonFile(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		expected bool
	}{
		{
			name:     "regular python file",
			filename: "main.py",
			expected: true,
		},
		{
			name:     "python file with path",
			filename: "app/cli.py",
			expected: true,
		},
		{
			name:     "test file should be included",
			filename: "test_main.py",
			expected: true,
		},
		{
			name:     "stub file",
			filename: "typing_helpers.pyi",
			expected: true,
		},
		{
			name:     "compiled file",
			filename: "main.pyc",
			expected: false,
		},
		{
			name:     "non-python file",
			filename: "README.md",
			expected: false,
		},
		{
			name:     "file with .py in middle",
			filename: "file.py.txt",
			expected: false,
		},
		{
			name:     "empty string",
			filename: "",
			expected: false,
		},
		{
			name:     "hidden python file",
			filename: ".hidden.py",
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			result := IsPythonFile(tt.filename)
			req.Equal(tt.expected, result, "IsPythonFile(%q) = %v, want %v", tt.filename, result, tt.expected)
		})
	}
}

func TestShouldSkipDir(t *testing.T) {
	req := require.New(t)
	for _, name := range []string{"__pycache__", "venv", ".venv", ".git", "node_modules", "build", "dist", "site-packages"} {
		req.True(ShouldSkipDir(name), "ShouldSkipDir(%q)", name)
	}
	for _, name := range []string{"src", "app", ".", "..", "tests"} {
		req.False(ShouldSkipDir(name), "ShouldSkipDir(%q)", name)
	}
}

func TestIsDirectory(t *testing.T) {
	req := require.New(t)
	// Create a temporary directory for testing
	tempDir := t.TempDir()

	// Create a temporary file
	tempFile := filepath.Join(tempDir, "test.txt")
	err := os.WriteFile(tempFile, []byte("test"), 0644)
	req.NoError(err, "Failed to create temp file: %v", err)

	tests := []struct {
		name      string
		path      string
		expected  bool
		expectErr bool
	}{
		{
			name:      "existing directory",
			path:      tempDir,
			expected:  true,
			expectErr: false,
		},
		{
			name:      "existing file",
			path:      tempFile,
			expected:  false,
			expectErr: false,
		},
		{
			name:      "non-existent path",
			path:      "/non/existent/path",
			expected:  false,
			expectErr: true,
		},
		{
			name:      "current directory",
			path:      ".",
			expected:  true,
			expectErr: false,
		},
		{
			name:      "parent directory",
			path:      "..",
			expected:  true,
			expectErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			result, err := IsDirectory(tt.path)

			if tt.expectErr {
				req.Error(err, "IsDirectory(%q) expected error, got nil", tt.path)
			} else {
				req.NoError(err, "IsDirectory(%q) unexpected error: %v", tt.path, err)
				req.Equal(tt.expected, result, "IsDirectory(%q) = %v, want %v", tt.path, result, tt.expected)
			}
		})
	}
}

func TestFindPythonFiles(t *testing.T) {
	req := require.New(t)
	// Create a temporary directory structure for testing
	tempDir := t.TempDir()

	// Create test directory structure
	dirs := []string{
		"app/core",
		"app/__pycache__",
		"tests",
		"generated",
		".venv/lib",
		".git",
		"build/lib",
	}

	for _, dir := range dirs {
		err := os.MkdirAll(filepath.Join(tempDir, dir), 0755)
		req.NoError(err, "Failed to create directory %s: %v", dir, err)
	}

	// Create test files
	files := map[string]string{
		"main.py":                   "import os",
		"app/__init__.py":           "",
		"app/core/models.py":        "import sys",
		"app/core/types.pyi":        "import typing",
		"app/__pycache__/models.py": "",           // Should be excluded (cache dir)
		"tests/test_models.py":      "import os",  // Should be included
		"generated/schema_pb2.py":   "import sys", // Excluded by pattern
		"app/core/legacy_pb2.py":    "import sys", // Excluded by pattern
		".venv/lib/site.py":         "",           // Should be excluded (hidden dir)
		".git/config":               "config",     // Should be excluded (hidden dir)
		"build/lib/main.py":         "",           // Should be excluded (build dir)
		"README.md":                 "# README",   // Should be excluded (not .py)
		"setup.cfg":                 "[metadata]", // Should be excluded (not .py)
	}

	for filePath, content := range files {
		fullPath := filepath.Join(tempDir, filePath)
		err := os.WriteFile(fullPath, []byte(content), 0644)
		req.NoError(err, "Failed to create file %s: %v", filePath, err)
	}

	// Create empty directory for test
	err := os.Mkdir(filepath.Join(tempDir, "empty"), 0755)
	req.NoError(err, "Failed to create empty directory: %v", err)

	tests := []struct {
		name          string
		root          string
		exclude       []string
		expectedFiles []string
		expectErr     bool
	}{
		{
			name:    "find python files in temp directory",
			root:    tempDir,
			exclude: []string{"generated", "*_pb2.py"},
			expectedFiles: []string{
				filepath.Join(tempDir, "main.py"),
				filepath.Join(tempDir, "app/__init__.py"),
				filepath.Join(tempDir, "app/core/models.py"),
				filepath.Join(tempDir, "app/core/types.pyi"),
				filepath.Join(tempDir, "tests/test_models.py"),
			},
		},
		{
			name:    "relative path pattern",
			root:    tempDir,
			exclude: []string{"app/**", "generated/*", "tests/*", "*_pb2.py"},
			expectedFiles: []string{
				filepath.Join(tempDir, "main.py"),
			},
		},
		{
			name:      "invalid pattern",
			root:      tempDir,
			exclude:   []string{"[unclosed"},
			expectErr: true,
		},
		{
			name:      "non-existent directory",
			root:      "/non/existent/path",
			expectErr: true,
		},
		{
			name:          "empty directory",
			root:          filepath.Join(tempDir, "empty"),
			expectedFiles: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			result, err := FindPythonFiles(tt.root, tt.exclude)

			if tt.expectErr {
				req.Error(err, "FindPythonFiles(%q) expected error, got nil", tt.root)
				return
			}

			req.NoError(err, "FindPythonFiles(%q) unexpected error: %v", tt.root, err)
			req.ElementsMatch(tt.expectedFiles, result, "FindPythonFiles(%q) found files: %v", tt.root, result)
		})
	}
}
