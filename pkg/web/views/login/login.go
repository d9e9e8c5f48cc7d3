package login

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

func (h *Handle) Login(ctx *gin.Context) {
	in := &coreAccount.LoginReq{}
	if err := ctx.ShouldBindJSON(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}

	resp, err := h.svc.Login(ctx, in)
	common.Reply(ctx, err, resp)
}

func (h *Handle) Me(ctx *gin.Context) {
	resp, err := h.svc.Me(ctx)
	common.Reply(ctx, err, resp)
}

func (h *Handle) ChangePassword(ctx *gin.Context) {
	in := &coreAccount.ChangePasswordReq{}
	if err := ctx.ShouldBindJSON(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	common.Reply(ctx, h.svc.ChangePassword(ctx, in))
}
