package receipt

import (
	// 外部依赖
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	// 内部引用
	common "github.com/metabuildlab/lims/pkg/common"
	code "github.com/metabuildlab/lims/pkg/common/code"
	uuid "github.com/metabuildlab/lims/pkg/common/uuid"
	coreReceipt "github.com/metabuildlab/lims/pkg/core/receipt"
	receiptImpl "github.com/metabuildlab/lims/pkg/core/receipt/receipt"
)

type Handle struct{ svc coreReceipt.Service }

func NewHandle() *Handle { return &Handle{svc: receiptImpl.New()} }

func (h *Handle) Create(ctx *gin.Context) {
	in := &coreReceipt.CreateReq{}
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
	in := &coreReceipt.ListReq{}
	if err := ctx.ShouldBindQuery(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}

	resp, err := h.svc.List(ctx, in)
	common.Reply(ctx, err, resp)
}

func (h *Handle) Sign(ctx *gin.Context) {
	in := &coreReceipt.SignReq{}
	if err := ctx.ShouldBindJSON(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	common.Reply(ctx, h.svc.Sign(ctx, in))
}

// PDF 渲染服务可用时回二进制，否则回结构化单据
func (h *Handle) PDF(ctx *gin.Context) {
	id, err := uuid.FromString(ctx.Param("uuid"))
	if err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}

	resp, err := h.svc.RenderPDF(ctx, id)
	if err != nil {
		common.ReplyErr(ctx, err)
		return
	}
	if len(resp.PDF) > 0 {
		ctx.Header("Content-Disposition",
			fmt.Sprintf("attachment; filename=%s.pdf", resp.ReceiptNumber))
		ctx.Data(http.StatusOK, "application/pdf", resp.PDF)
		return
	}
	common.ReplyOk(ctx, resp)
}
