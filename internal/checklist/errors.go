package checklist

import (
	"errors"
	"fmt"
)

var (
	ErrShiftSubmitted    = errors.New("shift has already been submitted")
	ErrShiftNotSubmitted = errors.New("shift is not submitted")
	ErrNotManager        = errors.New("only managers can reopen a submitted shift")
)

// ReadError 表示读取存储失败，调用方记录日志后降级处理
type ReadError struct {
	Op  string
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// WriteError 表示写入存储失败，必须返回给用户，内存中的状态保持不变
type WriteError struct {
	Op  string
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
