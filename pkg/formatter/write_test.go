package formatter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "mod.py")
	req.NoError(os.WriteFile(path, []byte("old\n"), 0640))

	req.NoError(writeFileAtomic(path, []byte("new\n"), 0640))

	data, err := os.ReadFile(path)
	req.NoError(err)
	req.Equal("new\n", string(data))

	info, err := os.Stat(path)
	req.NoError(err)
	req.Equal(os.FileMode(0640), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	req.NoError(err)
	req.Len(entries, 1, "temporary file left behind")
}

func TestWriteFileAtomic_followsSymlink(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()
	target := filepath.Join(dir, "real.py")
	link := filepath.Join(dir, "link.py")
	req.NoError(os.WriteFile(target, []byte("old\n"), 0644))
	req.NoError(os.Symlink(target, link))

	req.NoError(writeFileAtomic(link, []byte("new\n"), 0644))

	info, err := os.Lstat(link)
	req.NoError(err)
	req.NotZero(info.Mode()&os.ModeSymlink, "link replaced by a regular file")
	data, err := os.ReadFile(target)
	req.NoError(err)
	req.Equal("new\n", string(data))

	entries, err := os.ReadDir(dir)
	req.NoError(err)
	req.Len(entries, 2, "temporary file left behind")
}

func TestWriteFileAtomic_failureLeavesTargetIntact(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()

	// A non-empty directory cannot be replaced by a file
	target := filepath.Join(dir, "pkg")
	req.NoError(os.MkdirAll(filepath.Join(target, "inner"), 0755))

	err := writeFileAtomic(target, []byte("import os\n"), 0644)
	req.Error(err)

	info, err := os.Stat(filepath.Join(target, "inner"))
	req.NoError(err)
	req.True(info.IsDir())

	entries, err := os.ReadDir(dir)
	req.NoError(err)
	req.Len(entries, 1, "temporary file left behind")
}

func TestWriteFileAtomic_missingDirectory(t *testing.T) {
	err := writeFileAtomic(filepath.Join(t.TempDir(), "missing", "mod.py"), []byte("x\n"), 0644)
	require.Error(t, err)
}

func TestUnifiedDiff(t *testing.T) {
	req := require.New(t)

	diff, err := unifiedDiff("m.py", []byte("a\n"), []byte("a\n"))
	req.NoError(err)
	req.Empty(diff)

	diff, err = unifiedDiff("pkg/m.py", []byte("from x import b, a\n"), []byte("from x import a, b\n"))
	req.NoError(err)
	req.Equal("--- a/pkg/m.py\n+++ b/pkg/m.py\n@@ -1 +1 @@\n-from x import b, a\n+from x import a, b\n", diff)
}
