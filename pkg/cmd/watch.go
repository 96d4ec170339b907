package cmd

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/siyuan-infoblox/py-imports-sort/pkg/config"
	"github.com/siyuan-infoblox/py-imports-sort/pkg/errors"
	"github.com/siyuan-infoblox/py-imports-sort/pkg/formatter"
	"github.com/siyuan-infoblox/py-imports-sort/pkg/utils"
	"github.com/siyuan-infoblox/py-imports-sort/pkg/watcher"
)

// scope decides which changed files belong to the paths given on the command line
type scope struct {
	files map[string]bool
	dirs  []string
}

func newScope(args []string) (*scope, error) {
	s := &scope{files: make(map[string]bool)}
	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return nil, err
		}
		isDir, err := utils.IsDirectory(abs)
		if err != nil {
			return nil, err
		}
		if isDir {
			s.dirs = append(s.dirs, abs)
		} else {
			s.files[abs] = true
		}
	}
	return s, nil
}

func (s *scope) contains(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	if s.files[abs] {
		return true
	}
	for _, dir := range s.dirs {
		rel, err := filepath.Rel(dir, abs)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (s *scope) filter(paths []string) []string {
	var out []string
	for _, p := range paths {
		if s.contains(p) {
			out = append(out, p)
		}
	}
	return out
}

// runWatch sorts args once, then again whenever files under them change,
// until ctx is cancelled.
func runWatch(ctx context.Context, f *formatter.Formatter, cfg *config.Config, args []string, out *printer, logger *log.Logger) error {
	report, err := f.ProcessPath(ctx, args...)
	if err != nil {
		return &ExitError{Code: ExitFailure, Err: err}
	}
	out.printReport(report, dryRun, check)

	sc, err := newScope(args)
	if err != nil {
		return &ExitError{Code: ExitFailure, Err: err}
	}

	w, err := watcher.New(watcher.DefaultDebounce, cfg.Exclude, logger, func(paths []string) {
		paths = sc.filter(paths)
		if len(paths) == 0 {
			return
		}
		out.printReport(f.ProcessFiles(ctx, paths), dryRun, check)
	})
	if err != nil {
		return &ExitError{Code: ExitFailure, Err: err}
	}
	defer func() {
		if err := w.Close(); err != nil {
			logger.Warn("failed to close watcher", "err", err)
		}
	}()

	if err := w.Watch(args); err != nil {
		return &ExitError{Code: ExitFailure, Err: errors.Wrap(errors.CodeInvalidPath, "", err, errors.ErrMsgFailedToWatch)}
	}
	logger.Info(errors.InfoMsgWatching, "paths", strings.Join(args, ", "))

	<-ctx.Done()
	return nil
}
