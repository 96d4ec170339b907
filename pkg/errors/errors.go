package errors

import (
	"errors"
	"fmt"
)

// Error message constants for the py-imports-sort application
const (
	// File processing errors
	ErrMsgFailedToReadFile     = "failed to read file"
	ErrMsgFailedToDecodeFile   = "file is not valid UTF-8"
	ErrMsgFailedToWriteFile    = "failed to write file"
	ErrMsgFailedToDiffFile     = "failed to diff file"
	ErrMsgMalformedImport      = "import block stops at malformed statement"
	ErrMsgNotPythonFile        = "file must be a Python file"
	ErrMsgProcessingCancelled  = "processing cancelled before write"
	ErrMsgFailedToCheckPath    = "failed to check path"
	ErrMsgFailedToFindPyFiles  = "failed to find Python files in directory"
	ErrMsgFilesFailedToProcess = "%d files failed to process"

	// Configuration errors
	ErrMsgFailedToLoadConfig = "failed to load config"
	ErrMsgInvalidStrategy    = "invalid sorting strategy"
	ErrMsgInvalidJobs        = "jobs must not be negative"
	ErrMsgInvalidExclude     = "invalid exclude pattern"

	// Watch errors
	ErrMsgFailedToWatch = "failed to watch path"

	// Info/warning messages
	InfoMsgNoPyFilesFound  = "no Python files found"
	InfoMsgFoundPyFiles    = "found Python files"
	InfoMsgSortedFile      = "sorted imports"
	InfoMsgWouldSortFile   = "imports would be sorted"
	InfoMsgErrorProcessing = "error processing file"
	InfoMsgWatching        = "watching for changes"
	InfoMsgConfigLoaded    = "loaded config"
	InfoMsgProcessedCount  = "Processed %d files"
	InfoMsgChangedCount    = ", %d changed"
	InfoMsgPendingCount    = ", %d would change"
	InfoMsgErrorCount      = ", %d files had errors"
)

// Code is a machine-readable error kind.
type Code string

const (
	CodeUnreadableFile  Code = "UNREADABLE_FILE"
	CodeMalformedImport Code = "MALFORMED_IMPORT_SYNTAX"
	CodeWriteFailure    Code = "WRITE_FAILURE"
	CodeDiffFailure     Code = "DIFF_FAILURE"
	CodeInvalidStrategy Code = "INVALID_STRATEGY"
	CodeInvalidConfig   Code = "INVALID_CONFIG"
	CodeInvalidPath     Code = "INVALID_PATH"
)

// Error is a per-file error with a code and optional cause.
type Error struct {
	Code    Code
	Path    string // file the error is about, may be empty
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", e.Path, msg)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an Error for path.
func New(code Code, path, message string) *Error {
	return &Error{Code: code, Path: path, Message: message}
}

// Wrap creates an Error for path wrapping cause.
func Wrap(code Code, path string, cause error, message string) *Error {
	return &Error{Code: code, Path: path, Message: message, Cause: cause}
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	return GetCode(err) == code
}

// GetCode extracts the code from err, or "" when err is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
