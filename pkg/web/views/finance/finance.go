package finance

import (
	// 外部依赖
	"github.com/gin-gonic/gin"

	// 内部引用
	common "github.com/metabuildlab/lims/pkg/common"
	code "github.com/metabuildlab/lims/pkg/common/code"
	uuid "github.com/metabuildlab/lims/pkg/common/uuid"
	coreFinance "github.com/metabuildlab/lims/pkg/core/finance"
	financeImpl "github.com/metabuildlab/lims/pkg/core/finance/finance"
)

type Handle struct{ svc coreFinance.Service }

func NewHandle() *Handle { return &Handle{svc: financeImpl.New()} }

func (h *Handle) Create(ctx *gin.Context) {
	in := &coreFinance.CreateInvoiceReq{}
	if err := ctx.ShouldBindJSON(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}

	resp, err := h.svc.CreateInvoice(ctx, in)
	common.Reply(ctx, err, resp)
}

func (h *Handle) Get(ctx *gin.Context) {
	id, err := uuid.FromString(ctx.Param("uuid"))
	if err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}

	resp, err := h.svc.GetInvoice(ctx, id)
	common.Reply(ctx, err, resp)
}

func (h *Handle) Query(ctx *gin.Context) {
	in := &coreFinance.ListInvoiceReq{}
	if err := ctx.ShouldBindQuery(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}

	resp, err := h.svc.ListInvoices(ctx, in)
	common.Reply(ctx, err, resp)
}

func (h *Handle) Issue(ctx *gin.Context) {
	in := &coreFinance.IssueReq{}
	if err := ctx.ShouldBindJSON(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	common.Reply(ctx, h.svc.IssueInvoice(ctx, in))
}

func (h *Handle) Cancel(ctx *gin.Context) {
	id, err := uuid.FromString(ctx.Param("uuid"))
	if err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	common.Reply(ctx, h.svc.CancelInvoice(ctx, id))
}

func (h *Handle) Pay(ctx *gin.Context) {
	in := &coreFinance.PaymentReq{}
	if err := ctx.ShouldBindJSON(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}

	resp, err := h.svc.RecordPayment(ctx, in)
	common.Reply(ctx, err, resp)
}
