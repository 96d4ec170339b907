package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestError_Error(t *testing.T) {
	req := require.New(t)

	err := Wrap(CodeUnreadableFile, "a.py", fs.ErrNotExist, ErrMsgFailedToReadFile)
	req.Equal("a.py: failed to read file: file does not exist", err.Error())

	err = New(CodeInvalidStrategy, "", ErrMsgInvalidStrategy)
	req.Equal("invalid sorting strategy", err.Error())
}

func TestError_chain(t *testing.T) {
	req := require.New(t)
	err := fmt.Errorf("batch: %w", Wrap(CodeWriteFailure, "a.py", fs.ErrPermission, ErrMsgFailedToWriteFile))

	req.True(Is(err, CodeWriteFailure))
	req.False(Is(err, CodeUnreadableFile))
	req.Equal(CodeWriteFailure, GetCode(err))
	req.True(errors.Is(err, fs.ErrPermission))

	req.Equal(Code(""), GetCode(errors.New("plain")))
	req.False(Is(nil, CodeWriteFailure))
}
