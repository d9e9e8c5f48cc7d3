package sample

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

// Register 样品登记，编号由后端生成
func (h *Handle) Register(ctx *gin.Context) {
	in := &coreIntake.RegisterSampleReq{}
	if err := ctx.ShouldBindJSON(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}

	resp, err := h.svc.RegisterSample(ctx, in)
	common.Reply(ctx, err, resp)
}

func (h *Handle) Get(ctx *gin.Context) {
	id, err := uuid.FromString(ctx.Param("uuid"))
	if err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}

	resp, err := h.svc.GetSample(ctx, id)
	common.Reply(ctx, err, resp)
}

func (h *Handle) Query(ctx *gin.Context) {
	in := &coreIntake.ListSampleReq{}
	if err := ctx.ShouldBindQuery(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}

	resp, err := h.svc.ListSamples(ctx, in)
	common.Reply(ctx, err, resp)
}

func (h *Handle) AddTests(ctx *gin.Context) {
	in := &coreIntake.AddTestsReq{}
	if err := ctx.ShouldBindJSON(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	common.Reply(ctx, h.svc.AddTests(ctx, in))
}

// UpdateStatus 人工状态流转
func (h *Handle) UpdateStatus(ctx *gin.Context) {
	in := &coreIntake.UpdateStatusReq{}
	if err := ctx.ShouldBindJSON(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	common.Reply(ctx, h.svc.UpdateSampleStatus(ctx, in))
}

func (h *Handle) StatusHistory(ctx *gin.Context) {
	id, err := uuid.FromString(ctx.Param("uuid"))
	if err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}

	resp, err := h.svc.StatusHistory(ctx, id)
	common.Reply(ctx, err, resp)
}
