package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/siyuan-infoblox/py-imports-sort/pkg/formatter"
)

func TestPrinter_plainOutput(t *testing.T) {
	req := require.New(t)
	var buf bytes.Buffer
	p := newPrinter(&buf)
	req.False(p.color)

	p.printDiff("--- a/x.py\n+++ b/x.py\n@@ -1,2 +1,2 @@\n-import sys\n import os\n+import sys\n")
	req.Equal("--- a/x.py\n+++ b/x.py\n@@ -1,2 +1,2 @@\n-import sys\n import os\n+import sys\n", buf.String())
}

func TestPrinter_printReport(t *testing.T) {
	report := formatter.Report{Files: []formatter.FileResult{
		{Path: "a.py", Changed: true},
		{Path: "b.py"},
		{Path: "c.py", Err: fmt.Errorf("boom")},
	}}

	tests := []struct {
		name      string
		showDiffs bool
		checkOnly bool
		want      string
	}{
		{"write", false, false, "✓ a.py: sorted imports\n✗ Processed 3 files, 1 changed, 1 files had errors\n"},
		{"check", false, true, "! a.py: imports would be sorted\n✗ Processed 3 files, 1 would change, 1 files had errors\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			newPrinter(&buf).printReport(report, tt.showDiffs, tt.checkOnly)
			require.Equal(t, tt.want, buf.String())
		})
	}

	var buf bytes.Buffer
	newPrinter(&buf).printReport(formatter.Report{}, false, false)
	require.Empty(t, buf.String())
}

func TestScope(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()
	file := filepath.Join(dir, "single", "one.py")
	writeFile(t, file, "")
	tree := filepath.Join(dir, "tree")
	req.NoError(os.MkdirAll(filepath.Join(tree, "pkg"), 0755))

	sc, err := newScope([]string{file, tree})
	req.NoError(err)

	req.True(sc.contains(file))
	req.False(sc.contains(filepath.Join(dir, "single", "two.py")))
	req.True(sc.contains(filepath.Join(tree, "pkg", "mod.py")))
	req.False(sc.contains(filepath.Join(dir, "treehouse", "mod.py")))
	req.Equal([]string{file}, sc.filter([]string{file, filepath.Join(dir, "other.py")}))

	_, err = newScope([]string{filepath.Join(dir, "missing")})
	req.Error(err)
}
