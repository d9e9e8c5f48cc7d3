package job

import (
	// 外部依赖
	"github.com/gin-gonic/gin"

	// 内部引用
	common "github.com/metabuildlab/lims/pkg/common"
	code "github.com/metabuildlab/lims/pkg/common/code"
	uuid "github.com/metabuildlab/lims/pkg/common/uuid"
	coreJob "github.com/metabuildlab/lims/pkg/core/job"
	jobImpl "github.com/metabuildlab/lims/pkg/core/job/job"
)

type Handle struct{ svc coreJob.Service }

func NewHandle() *Handle { return &Handle{svc: jobImpl.New()} }

func (h *Handle) Create(ctx *gin.Context) {
	in := &coreJob.CreateReq{}
	if err := ctx.ShouldBindJSON(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}

	resp, err := h.svc.Create(ctx, in)
	common.Reply(ctx, err, resp)
}

func (h *Handle) Get(ctx *gin.Context) {
	id, err := uuid.FromString(ctx.Param("uuid"))
	if err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}

	resp, err := h.svc.Get(ctx, id)
	common.Reply(ctx, err, resp)
}

func (h *Handle) Query(ctx *gin.Context) {
	in := &coreJob.ListReq{}
	if err := ctx.ShouldBindQuery(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}

	resp, err := h.svc.List(ctx, in)
	common.Reply(ctx, err, resp)
}

func (h *Handle) Assign(ctx *gin.Context) {
	in := &coreJob.AssignReq{}
	if err := ctx.ShouldBindJSON(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	common.Reply(ctx, h.svc.Assign(ctx, in))
}

func (h *Handle) StartWork(ctx *gin.Context) {
	id, err := uuid.FromString(ctx.Param("uuid"))
	if err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	common.Reply(ctx, h.svc.StartWork(ctx, id))
}

func (h *Handle) Complete(ctx *gin.Context) {
	in := &coreJob.CompleteReq{}
	if err := ctx.ShouldBindJSON(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	common.Reply(ctx, h.svc.Complete(ctx, in))
}

func (h *Handle) PutOnHold(ctx *gin.Context) {
	in := &coreJob.HoldReq{}
	if err := ctx.ShouldBindJSON(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	common.Reply(ctx, h.svc.PutOnHold(ctx, in))
}

func (h *Handle) Resume(ctx *gin.Context) {
	id, err := uuid.FromString(ctx.Param("uuid"))
	if err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	common.Reply(ctx, h.svc.Resume(ctx, id))
}
