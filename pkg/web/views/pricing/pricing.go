package pricing

import (
	// 外部依赖
	"strconv"

	"github.com/gin-gonic/gin"

	// 内部引用
	common "github.com/metabuildlab/lims/pkg/common"
	code "github.com/metabuildlab/lims/pkg/common/code"
	uuid "github.com/metabuildlab/lims/pkg/common/uuid"
	corePricing "github.com/metabuildlab/lims/pkg/core/pricing"
	pricingImpl "github.com/metabuildlab/lims/pkg/core/pricing/pricing"
)

type Handle struct{ svc corePricing.Service }

func NewHandle() *Handle { return &Handle{svc: pricingImpl.New()} }

func (h *Handle) Categories(ctx *gin.Context) {
	activeOnly, _ := strconv.ParseBool(ctx.DefaultQuery("active_only", "false"))
	resp, err := h.svc.ListCategories(ctx, activeOnly)
	common.Reply(ctx, err, resp)
}

func (h *Handle) Query(ctx *gin.Context) {
	in := &corePricing.ListTestItemReq{}
	if err := ctx.ShouldBindQuery(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}

	resp, err := h.svc.ListTestItems(ctx, in)
	common.Reply(ctx, err, resp)
}

func (h *Handle) Get(ctx *gin.Context) {
	id, err := uuid.FromString(ctx.Param("uuid"))
	if err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}

	resp, err := h.svc.GetTestItem(ctx, id)
	common.Reply(ctx, err, resp)
}

func (h *Handle) Save(ctx *gin.Context) {
	in := &corePricing.SaveTestItemReq{}
	if err := ctx.ShouldBindJSON(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}

	resp, err := h.svc.SaveTestItem(ctx, in)
	common.Reply(ctx, err, resp)
}

func (h *Handle) Update(ctx *gin.Context) {
	in := &corePricing.UpdateTestItemReq{}
	if err := ctx.ShouldBindJSON(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	common.Reply(ctx, h.svc.UpdateTestItem(ctx, in))
}

func (h *Handle) CreateRule(ctx *gin.Context) {
	in := &corePricing.SaveRuleReq{}
	if err := ctx.ShouldBindJSON(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}

	resp, err := h.svc.CreateRule(ctx, in)
	common.Reply(ctx, err, resp)
}

func (h *Handle) Rules(ctx *gin.Context) {
	activeOnly, _ := strconv.ParseBool(ctx.DefaultQuery("active_only", "false"))
	resp, err := h.svc.ListRules(ctx, activeOnly)
	common.Reply(ctx, err, resp)
}

func (h *Handle) UpdateRule(ctx *gin.Context) {
	in := &corePricing.UpdateRuleReq{}
	if err := ctx.ShouldBindJSON(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	common.Reply(ctx, h.svc.UpdateRule(ctx, in))
}

func (h *Handle) DeleteRule(ctx *gin.Context) {
	id, err := uuid.FromString(ctx.Param("uuid"))
	if err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	common.Reply(ctx, h.svc.DeleteRule(ctx, id))
}

func (h *Handle) CreateScheme(ctx *gin.Context) {
	in := &corePricing.SaveSchemeReq{}
	if err := ctx.ShouldBindJSON(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}

	resp, err := h.svc.CreateScheme(ctx, in)
	common.Reply(ctx, err, resp)
}

func (h *Handle) Schemes(ctx *gin.Context) {
	activeOnly, _ := strconv.ParseBool(ctx.DefaultQuery("active_only", "false"))
	resp, err := h.svc.ListSchemes(ctx, activeOnly)
	common.Reply(ctx, err, resp)
}

func (h *Handle) UpdateScheme(ctx *gin.Context) {
	in := &corePricing.UpdateSchemeReq{}
	if err := ctx.ShouldBindJSON(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	common.Reply(ctx, h.svc.UpdateScheme(ctx, in))
}

func (h *Handle) DeleteScheme(ctx *gin.Context) {
	id, err := uuid.FromString(ctx.Param("uuid"))
	if err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	common.Reply(ctx, h.svc.DeleteScheme(ctx, id))
}

func (h *Handle) Import(ctx *gin.Context) {
	in := &corePricing.ImportReq{}
	if err := ctx.ShouldBindJSON(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}

	resp, err := h.svc.ImportPriceList(ctx, in)
	common.Reply(ctx, err, resp)
}
