// Package code 定义业务错误码
package code

import (
	// 外部依赖
	"errors"
	"fmt"
	"net/http"
)

type Code struct {
	code   int
	status int
	msg    string
	err    error
}

func New(code int, status int, msg string) *Code {
	return &Code{code: code, status: status, msg: msg}
}

func (c *Code) Error() string {
	if c.err != nil {
		return fmt.Sprintf("code: %d, msg: %s, err: %v", c.code, c.msg, c.err)
	}
	return fmt.Sprintf("code: %d, msg: %s", c.code, c.msg)
}

func (c *Code) Code() int {
	return c.code
}

func (c *Code) HTTPStatus() int {
	if c.status == 0 {
		return http.StatusOK
	}
	return c.status
}

func (c *Code) Msg() string {
	return c.msg
}

// WithMsg 返回替换提示信息的副本，错误码保持不变
func (c *Code) WithMsg(msg string) *Code {
	return &Code{code: c.code, status: c.status, msg: msg}
}

// WithMsgf 格式化版 WithMsg
func (c *Code) WithMsgf(format string, args ...any) *Code {
	return c.WithMsg(fmt.Sprintf(format, args...))
}

// WithErr 返回携带底层错误的副本，便于日志排查
func (c *Code) WithErr(err error) *Code {
	return &Code{code: c.code, status: c.status, msg: c.msg, err: err}
}

func (c *Code) Unwrap() error {
	return c.err
}

// Is 同错误码视为同一错误，支持 errors.Is 判等
func (c *Code) Is(target error) bool {
	t := &Code{}
	if !errors.As(target, &t) {
		return false
	}
	return c.code == t.code
}

// FromError 提取业务错误码，普通 error 统一归为内部错误
func FromError(err error) *Code {
	if err == nil {
		return Success
	}
	c := &Code{}
	if errors.As(err, &c) {
		return c
	}
	return InternalErr.WithErr(err)
}
