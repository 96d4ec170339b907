package utils

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/BurntSushi/toml"
)

// rootMarkers identify the root directory of a Python project
var rootMarkers = []string{"pyproject.toml", "setup.py", "setup.cfg", ".git"}

// FindProjectRoot walks up from filePath looking for a project root marker.
// It returns "" when none is found.
func FindProjectRoot(filePath string) string {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return ""
	}

	dir := absPath
	if info, err := os.Stat(absPath); err != nil || !info.IsDir() {
		dir = filepath.Dir(absPath)
	}

	iterations := 0
	maxIterations := 20 // Prevent infinite loop

	for iterations < maxIterations {
		iterations++

		for _, marker := range rootMarkers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// GetProjectPackages returns the top-level module names that belong to the
// project containing filePath: packages and modules in the project root and
// its src/ directory, the distribution name from pyproject.toml, and modules
// next to filePath when its directory is not itself a package.
func GetProjectPackages(filePath string) []string {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return nil
	}

	names := make(map[string]bool)
	dir := filepath.Dir(absPath)
	if !fileExists(filepath.Join(dir, "__init__.py")) {
		collectModules(dir, names)
	}

	if root := FindProjectRoot(absPath); root != "" {
		collectModules(root, names)
		collectModules(filepath.Join(root, "src"), names)
		if name := pyprojectName(root); name != "" {
			names[name] = true
		}
	}

	packages := make([]string, 0, len(names))
	for name := range names {
		packages = append(packages, name)
	}
	sort.Strings(packages)
	return packages
}

// collectModules adds the importable packages and modules directly inside dir
func collectModules(dir string, names map[string]bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			if fileExists(filepath.Join(dir, name, "__init__.py")) && isIdentifier(name) {
				names[name] = true
			}
			continue
		}
		stem, ok := strings.CutSuffix(name, ".py")
		if !ok || stem == "__init__" || stem == "setup" || stem == "conftest" {
			continue
		}
		if isIdentifier(stem) {
			names[stem] = true
		}
	}
}

// pyprojectName extracts the distribution name from pyproject.toml as an
// importable module name.
func pyprojectName(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, "pyproject.toml"))
	if err != nil {
		return ""
	}
	var pyproject struct {
		Tool struct {
			Poetry struct {
				Name string `toml:"name"`
			} `toml:"poetry"`
		} `toml:"tool"`
		Project struct {
			Name string `toml:"name"`
		} `toml:"project"`
	}
	if err := toml.Unmarshal(data, &pyproject); err != nil {
		return ""
	}
	name := pyproject.Project.Name
	if name == "" {
		name = pyproject.Tool.Poetry.Name
	}
	name = strings.ToLower(strings.NewReplacer("-", "_", ".", "_").Replace(strings.TrimSpace(name)))
	if !isIdentifier(name) {
		return ""
	}
	return name
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
