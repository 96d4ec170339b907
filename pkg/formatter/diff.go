package formatter

import (
	"path/filepath"

	"github.com/pmezard/go-difflib/difflib"
)

// diffContext is the number of unchanged lines shown around each hunk
const diffContext = 3

// unifiedDiff returns a line-level unified diff between the original and
// proposed contents of path, or "" when they are equal.
func unifiedDiff(path string, original, proposed []byte) (string, error) {
	if string(original) == string(proposed) {
		return "", nil
	}
	name := filepath.ToSlash(path)
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(original)),
		B:        difflib.SplitLines(string(proposed)),
		FromFile: "a/" + name,
		ToFile:   "b/" + name,
		Context:  diffContext,
	})
}
