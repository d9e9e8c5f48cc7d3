package common

import (
	// 外部依赖
	gin "github.com/gin-gonic/gin"

	// 内部引用
	code "github.com/metabuildlab/lims/pkg/common/code"
)

type response struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data,omitempty"`
}

// Reply 统一返回，err 为空时返回 data
func Reply(ctx *gin.Context, err error, data ...any) {
	if err != nil {
		ReplyErr(ctx, err)
		return
	}
	var d any
	if len(data) > 0 {
		d = data[0]
	}
	ReplyOk(ctx, d)
}

func ReplyOk(ctx *gin.Context, data any) {
	ctx.JSON(code.Success.HTTPStatus(), &response{
		Code: code.Success.Code(),
		Msg:  code.Success.Msg(),
		Data: data,
	})
}

// ReplyErr 按业务错误码返回，extraMsg 覆盖提示信息
func ReplyErr(ctx *gin.Context, err error, extraMsg ...string) {
	c := code.FromError(err)
	msg := c.Msg()
	if len(extraMsg) > 0 && extraMsg[0] != "" {
		msg = extraMsg[0]
	}
	ctx.AbortWithStatusJSON(c.HTTPStatus(), &response{
		Code: c.Code(),
		Msg:  msg,
	})
}
