// Package config 配置模块入口，仅负责人角色可达
package config

import (
	// 外部依赖
	"github.com/gin-gonic/gin"

	// 内部引用
	common "github.com/metabuildlab/lims/pkg/common"
	code "github.com/metabuildlab/lims/pkg/common/code"
	coreAccount "github.com/metabuildlab/lims/pkg/core/account"
	accountImpl "github.com/metabuildlab/lims/pkg/core/account/account"
)

type Handle struct{ svc coreAccount.Service }

func NewHandle() *Handle { return &Handle{svc: accountImpl.New()} }

func (h *Handle) CreateUser(ctx *gin.Context) {
	in := &coreAccount.CreateUserReq{}
	if err := ctx.ShouldBindJSON(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}

	resp, err := h.svc.CreateUser(ctx, in)
	common.Reply(ctx, err, resp)
}

func (h *Handle) UpdateUser(ctx *gin.Context) {
	in := &coreAccount.UpdateUserReq{}
	if err := ctx.ShouldBindJSON(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	common.Reply(ctx, h.svc.UpdateUser(ctx, in))
}

func (h *Handle) QueryUsers(ctx *gin.Context) {
	in := &coreAccount.ListUserReq{}
	if err := ctx.ShouldBindQuery(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}

	resp, err := h.svc.ListUsers(ctx, in)
	common.Reply(ctx, err, resp)
}
