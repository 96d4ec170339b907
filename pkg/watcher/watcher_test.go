package watcher

import (
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	calls [][]string
}

func (r *recorder) record(paths []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, paths)
}

func (r *recorder) seen(path string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, call := range r.calls {
		if slices.Contains(call, path) {
			return true
		}
	}
	return false
}

func TestWatcher(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()

	rec := &recorder{}
	w, err := New(50*time.Millisecond, []string{"*_pb2.py"}, nil, rec.record)
	req.NoError(err)
	defer func() {
		_ = w.Close()
	}()
	req.NoError(w.Watch([]string{dir}))

	pyFile := filepath.Join(dir, "app.py")
	req.NoError(os.WriteFile(pyFile, []byte("import os\n"), 0644))
	req.Eventually(func() bool { return rec.seen(pyFile) }, 2*time.Second, 20*time.Millisecond)

	// New directories are watched once created
	subdir := filepath.Join(dir, "pkg")
	req.NoError(os.MkdirAll(subdir, 0755))
	nested := filepath.Join(subdir, "mod.py")
	req.NoError(os.WriteFile(nested, []byte("import sys\n"), 0644))
	req.Eventually(func() bool { return rec.seen(nested) }, 2*time.Second, 20*time.Millisecond)

	// Non-Python and excluded files never show up
	txtFile := filepath.Join(dir, "notes.txt")
	excluded := filepath.Join(dir, "api_pb2.py")
	req.NoError(os.WriteFile(txtFile, []byte("x"), 0644))
	req.NoError(os.WriteFile(excluded, []byte("x"), 0644))
	time.Sleep(200 * time.Millisecond)
	req.False(rec.seen(txtFile))
	req.False(rec.seen(excluded))
}

func TestWatcher_invalidArguments(t *testing.T) {
	req := require.New(t)

	_, err := New(0, nil, nil, nil)
	req.Error(err)

	_, err = New(0, []string{"[unclosed"}, nil, func([]string) {})
	req.Error(err)
}

func TestWatcher_missingPath(t *testing.T) {
	req := require.New(t)
	w, err := New(0, nil, nil, func([]string) {})
	req.NoError(err)
	defer func() {
		_ = w.Close()
	}()
	req.Error(w.Watch([]string{filepath.Join(t.TempDir(), "missing")}))
}

func TestWatcher_shouldExclude(t *testing.T) {
	req := require.New(t)
	w, err := New(0, []string{"*_pb2.py", "migrations"}, nil, func([]string) {})
	req.NoError(err)
	defer func() {
		_ = w.Close()
	}()

	req.True(w.shouldExcludeFile("/src/app.txt"))
	req.True(w.shouldExcludeFile("/src/api_pb2.py"))
	req.False(w.shouldExcludeFile("/src/app.py"))
	req.False(w.shouldExcludeFile("/src/stubs.pyi"))

	req.True(w.shouldExcludeDir("/src/migrations"))
	req.True(w.shouldExcludeDir("/src/__pycache__"))
	req.True(w.shouldExcludeDir("/src/.git"))
	req.False(w.shouldExcludeDir("/src/pkg"))
}
