package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/siyuan-infoblox/py-imports-sort/pkg/errors"
	"github.com/siyuan-infoblox/py-imports-sort/pkg/formatter"
)

// execute runs the root command with fresh flag values
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			require.NoError(t, sv.Replace(nil))
		} else {
			require.NoError(t, f.Value.Set(f.DefValue))
		}
		f.Changed = false
	})

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestRoot_version(t *testing.T) {
	req := require.New(t)
	out, err := execute(t, "--version")
	req.NoError(err)
	req.Contains(out, "pis version")
}

func TestRoot_requiresPath(t *testing.T) {
	_, err := execute(t)
	require.Error(t, err)
}

func TestRoot_sortsInPlace(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "app.py")
	writeFile(t, path, "import sys\nimport os\n\nprint(sys.path)\n")

	out, err := execute(t, "-t", "alphabetical", dir)
	req.NoError(err)
	req.Equal("import os\nimport sys\n\nprint(sys.path)\n", readFile(t, path))
	req.Contains(out, path)
	req.Contains(out, fmt.Sprintf(errors.InfoMsgProcessedCount, 1))
	req.Contains(out, fmt.Sprintf(errors.InfoMsgChangedCount, 1))
}

func TestRoot_dryRun(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "app.py")
	src := "from typing import List, Dict\n"
	writeFile(t, path, src)

	out, err := execute(t, "--dry-run", path)
	req.NoError(err)
	req.Contains(out, "-from typing import List, Dict")
	req.Contains(out, "+from typing import Dict, List")
	req.Contains(out, fmt.Sprintf(errors.InfoMsgPendingCount, 1))
	req.Equal(src, readFile(t, path))
}

func TestRoot_check(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "app.py")
	src := "import sys\nimport os\n"
	writeFile(t, path, src)

	out, err := execute(t, "--check", "-t", "alphabetical", path)
	req.Equal(ExitChanges, ExitCode(err))
	req.Contains(out, errors.InfoMsgWouldSortFile)
	req.Equal(src, readFile(t, path))

	// Already sorted files pass the check
	writeFile(t, path, "import os\nimport sys\n")
	_, err = execute(t, "--check", "-t", "alphabetical", path)
	req.NoError(err)
}

func TestRoot_configFile(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".pis.toml"), "type = \"import-first\"\nexclude = [\"skip_*.py\"]\n")
	path := filepath.Join(dir, "app.py")
	skipped := filepath.Join(dir, "skip_me.py")
	src := "from os import path\nimport sys\n"
	writeFile(t, path, src)
	writeFile(t, skipped, src)

	_, err := execute(t, dir)
	req.NoError(err)
	req.Equal("import sys\nfrom os import path\n", readFile(t, path))
	req.Equal(src, readFile(t, skipped))

	// Flags win over the file
	writeFile(t, path, "import sys\nfrom os import path\n")
	_, err = execute(t, "--type", "from-first", dir)
	req.NoError(err)
	req.Equal("from os import path\nimport sys\n", readFile(t, path))
}

func TestRoot_explicitConfig(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()
	cfgPath := filepath.Join(t.TempDir(), "pyproject.toml")
	writeFile(t, cfgPath, "[tool.pis]\ntype = \"alphabetical\"\n")
	path := filepath.Join(dir, "app.py")
	writeFile(t, path, "import requests\nimport os\n")

	_, err := execute(t, "--config", cfgPath, path)
	req.NoError(err)
	req.Equal("import os\nimport requests\n", readFile(t, path))
}

func TestRoot_errors(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "notes.txt")
	writeFile(t, txt, "x")

	tests := []struct {
		name     string
		args     []string
		wantCode errors.Code
	}{
		{"invalid strategy", []string{"--type", "random", dir}, errors.CodeInvalidStrategy},
		{"negative jobs", []string{"--jobs=-2", dir}, errors.CodeInvalidConfig},
		{"not a python file", []string{txt}, errors.CodeInvalidPath},
		{"missing path", []string{filepath.Join(dir, "missing.py")}, errors.CodeInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			_, err := execute(t, tt.args...)
			req.Equal(ExitFailure, ExitCode(err))
			req.True(errors.Is(err, tt.wantCode), "got %v", err)
		})
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"exit error", &ExitError{Code: ExitChanges}, ExitChanges},
		{"wrapped exit error", fmt.Errorf("run: %w", &ExitError{Code: ExitCancelled}), ExitCancelled},
		{"cancelled", context.Canceled, ExitCancelled},
		{"other", fmt.Errorf("boom"), ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestExitFor(t *testing.T) {
	req := require.New(t)
	check = false
	changed := formatter.Report{Files: []formatter.FileResult{{Path: "a.py", Changed: true}}}

	req.NoError(exitFor(context.Background(), changed))

	failed := formatter.Report{Files: []formatter.FileResult{{Path: "a.py", Err: fmt.Errorf("boom")}}}
	req.Equal(ExitFailure, ExitCode(exitFor(context.Background(), failed)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req.Equal(ExitCancelled, ExitCode(exitFor(ctx, changed)))
}
