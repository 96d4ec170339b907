package formatter

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/siyuan-infoblox/py-imports-sort/pkg/errors"
	"github.com/siyuan-infoblox/py-imports-sort/pkg/imports"
	"github.com/siyuan-infoblox/py-imports-sort/pkg/sorter"
	"github.com/siyuan-infoblox/py-imports-sort/pkg/std"
	"github.com/siyuan-infoblox/py-imports-sort/pkg/utils"
)

type FormatterConfig struct {
	Strategy    sorter.Strategy // ordering rule applied to every file
	Local       []string        // top-level packages always classified as local
	DetectLocal bool            // also treat modules of each file's project as local
	StdLib      std.Set         // standard library reference, nil for std.StandardModules
	Exclude     []string        // glob patterns skipped when walking directories
	DryRun      bool            // compute diffs instead of writing files
	Jobs        int             // concurrent files, 0 for runtime.NumCPU()
	Logger      *log.Logger     // nil discards log output
}

// Formatter sorts the import blocks of Python files
type Formatter struct {
	config FormatterConfig
	logger *log.Logger

	// detected local packages per directory
	projectCache sync.Map
}

// Outcome is the result of sorting one in-memory file
type Outcome struct {
	Output   string
	Changed  bool
	Warning  error // malformed statement that stopped the block, if any
	Original []*imports.Statement
	Sorted   []*imports.Statement
}

// FileResult is the per-file entry of a Report
type FileResult struct {
	Path    string
	Changed bool
	Diff    string // unified diff, dry-run only
	Warning error
	Err     error
	Skipped bool // cancelled before the file was processed or written
}

// Report aggregates the results of a batch in input order
type Report struct {
	Files []FileResult
}

// New creates a new Formatter with the specified configuration
func New(config FormatterConfig) *Formatter {
	logger := config.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if config.StdLib == nil {
		config.StdLib = std.StandardModules
	}
	return &Formatter{
		config: config,
		logger: logger,
	}
}

func (f *Formatter) getJobs() int {
	if f.config.Jobs <= 0 {
		return runtime.NumCPU()
	}
	return f.config.Jobs
}

// classifierFor builds the classifier that applies to a file at path
func (f *Formatter) classifierFor(path string) *sorter.Classifier {
	local := f.config.Local
	if f.config.DetectLocal && path != "" {
		local = append(append([]string{}, local...), f.projectPackages(path)...)
	}
	return sorter.NewClassifier(f.config.StdLib, local)
}

func (f *Formatter) projectPackages(path string) []string {
	dir := filepath.Dir(path)
	if v, ok := f.projectCache.Load(dir); ok {
		return v.([]string)
	}
	pkgs := utils.GetProjectPackages(path)
	f.projectCache.Store(dir, pkgs)
	return pkgs
}

// Format sorts the import block of src. path is only used to detect the
// project's local packages and to label warnings.
func (f *Formatter) Format(path, src string) Outcome {
	split := imports.Extract(src)

	var classifier *sorter.Classifier
	if f.config.Strategy.Grouped() {
		classifier = f.classifierFor(path)
	}
	result := sorter.Sort(split.Block, f.config.Strategy, classifier)
	output := Rewrite(split, result)

	outcome := Outcome{
		Output:  output,
		Changed: output != src,
		Sorted:  result.Statements,
	}
	if split.Block != nil {
		outcome.Original = split.Block.Statements
	}
	if split.Stopped != nil {
		outcome.Warning = errors.Wrap(errors.CodeMalformedImport, path, split.Stopped, errors.ErrMsgMalformedImport)
	}
	return outcome
}

// ProcessFile sorts the imports of one file, writing it in place or, in
// dry-run mode, returning a diff.
func (f *Formatter) ProcessFile(ctx context.Context, path string) FileResult {
	res := FileResult{Path: path}
	if ctx.Err() != nil {
		res.Skipped = true
		return res
	}

	info, err := os.Stat(path)
	if err != nil {
		res.Err = errors.Wrap(errors.CodeUnreadableFile, path, err, errors.ErrMsgFailedToReadFile)
		return res
	}
	data, err := os.ReadFile(path)
	if err != nil {
		res.Err = errors.Wrap(errors.CodeUnreadableFile, path, err, errors.ErrMsgFailedToReadFile)
		return res
	}
	if !utf8.Valid(data) {
		res.Err = errors.New(errors.CodeUnreadableFile, path, errors.ErrMsgFailedToDecodeFile)
		return res
	}

	outcome := f.Format(path, string(data))
	res.Changed = outcome.Changed
	res.Warning = outcome.Warning
	if outcome.Warning != nil {
		f.logger.Warn(errors.ErrMsgMalformedImport, "file", path, "err", outcome.Warning)
	}
	if f.logger.GetLevel() <= log.DebugLevel {
		f.logger.Debug("original imports", "file", path, "imports", statementsText(outcome.Original))
		f.logger.Debug("sorted imports", "file", path, "imports", statementsText(outcome.Sorted))
	}
	if !outcome.Changed {
		return res
	}

	if f.config.DryRun {
		diff, err := unifiedDiff(path, data, []byte(outcome.Output))
		if err != nil {
			res.Err = errors.Wrap(errors.CodeDiffFailure, path, err, errors.ErrMsgFailedToDiffFile)
			return res
		}
		res.Diff = diff
		f.logger.Debug(errors.InfoMsgWouldSortFile, "file", path)
		return res
	}

	if ctx.Err() != nil {
		res.Changed = false
		res.Skipped = true
		return res
	}
	if err := writeFileAtomic(path, []byte(outcome.Output), info.Mode().Perm()); err != nil {
		res.Changed = false
		res.Err = errors.Wrap(errors.CodeWriteFailure, path, err, errors.ErrMsgFailedToWriteFile)
		return res
	}
	f.logger.Debug(errors.InfoMsgSortedFile, "file", path)
	return res
}

// ProcessFiles processes files concurrently and reports them in input order
func (f *Formatter) ProcessFiles(ctx context.Context, paths []string) Report {
	results := make([]FileResult, len(paths))

	g := new(errgroup.Group)
	g.SetLimit(f.getJobs())
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			results[i] = f.ProcessFile(ctx, path)
			if results[i].Err != nil {
				f.logger.Error(errors.InfoMsgErrorProcessing, "file", path, "err", results[i].Err)
			}
			return nil
		})
	}
	_ = g.Wait()

	return Report{Files: results}
}

// ProcessPath processes files and directories. Directories are walked for
// Python files; explicit file arguments must be Python files.
func (f *Formatter) ProcessPath(ctx context.Context, paths ...string) (Report, error) {
	files, err := f.collect(paths)
	if err != nil {
		return Report{}, err
	}
	if len(files) == 0 {
		f.logger.Info(errors.InfoMsgNoPyFilesFound, "paths", strings.Join(paths, ", "))
		return Report{}, nil
	}
	f.logger.Debug(errors.InfoMsgFoundPyFiles, "count", len(files))
	return f.ProcessFiles(ctx, files), nil
}

// collect expands paths into a deduplicated list of Python files
func (f *Formatter) collect(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(p string) {
		clean := filepath.Clean(p)
		if !seen[clean] {
			seen[clean] = true
			files = append(files, clean)
		}
	}

	for _, path := range paths {
		isDir, err := utils.IsDirectory(path)
		if err != nil {
			return nil, errors.Wrap(errors.CodeInvalidPath, path, err, errors.ErrMsgFailedToCheckPath)
		}
		if !isDir {
			if !utils.IsPythonFile(path) {
				return nil, errors.New(errors.CodeInvalidPath, path, errors.ErrMsgNotPythonFile)
			}
			add(path)
			continue
		}

		found, err := utils.FindPythonFiles(path, f.config.Exclude)
		if err != nil {
			return nil, errors.Wrap(errors.CodeInvalidPath, path, err, errors.ErrMsgFailedToFindPyFiles)
		}
		sort.Strings(found)
		for _, p := range found {
			add(p)
		}
	}
	return files, nil
}

// statementsText renders statements one per line for debug logging
func statementsText(stmts []*imports.Statement) string {
	lines := make([]string, 0, len(stmts))
	for _, s := range stmts {
		lines = append(lines, s.Key())
	}
	return strings.Join(lines, "\n")
}

// Changed returns the number of files that changed or would change
func (r Report) Changed() int {
	n := 0
	for _, f := range r.Files {
		if f.Changed {
			n++
		}
	}
	return n
}

// Failed returns the results that carry an error
func (r Report) Failed() []FileResult {
	var failed []FileResult
	for _, f := range r.Files {
		if f.Err != nil {
			failed = append(failed, f)
		}
	}
	return failed
}

// Skipped returns the number of files skipped by cancellation
func (r Report) Skipped() int {
	n := 0
	for _, f := range r.Files {
		if f.Skipped {
			n++
		}
	}
	return n
}

// Err returns an error when any file failed
func (r Report) Err() error {
	if failed := len(r.Failed()); failed > 0 {
		return fmt.Errorf(errors.ErrMsgFilesFailedToProcess, failed)
	}
	return nil
}
