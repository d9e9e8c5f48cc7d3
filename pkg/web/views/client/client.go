package client

import (
	// 外部依赖
	"github.com/gin-gonic/gin"

	// 内部引用
	common "github.com/metabuildlab/lims/pkg/common"
	code "github.com/metabuildlab/lims/pkg/common/code"
	uuid "github.com/metabuildlab/lims/pkg/common/uuid"
	coreIntake "github.com/metabuildlab/lims/pkg/core/intake"
	intakeImpl "github.com/metabuildlab/lims/pkg/core/intake/intake"
)

type Handle struct{ svc coreIntake.Service }

func NewHandle() *Handle { return &Handle{svc: intakeImpl.New()} }

func (h *Handle) Create(ctx *gin.Context) {
	in := &coreIntake.CreateClientReq{}
	if err := ctx.ShouldBindJSON(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}

	resp, err := h.svc.CreateClient(ctx, in)
	common.Reply(ctx, err, resp)
}

func (h *Handle) Update(ctx *gin.Context) {
	in := &coreIntake.UpdateClientReq{}
	if err := ctx.ShouldBindJSON(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	common.Reply(ctx, h.svc.UpdateClient(ctx, in))
}

func (h *Handle) Get(ctx *gin.Context) {
	id, err := uuid.FromString(ctx.Param("uuid"))
	if err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}

	resp, err := h.svc.GetClient(ctx, id)
	common.Reply(ctx, err, resp)
}

func (h *Handle) Query(ctx *gin.Context) {
	in := &coreIntake.ListClientReq{}
	if err := ctx.ShouldBindQuery(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}

	resp, err := h.svc.ListClients(ctx, in)
	common.Reply(ctx, err, resp)
}

func (h *Handle) Delete(ctx *gin.Context) {
	id, err := uuid.FromString(ctx.Param("uuid"))
	if err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}

	resp, err := h.svc.DeleteClient(ctx, id)
	common.Reply(ctx, err, resp)
}
