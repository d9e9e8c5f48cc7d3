package receipt

import (
	// 外部依赖
	"context"
	"time"

	// 内部引用
	common "github.com/metabuildlab/lims/pkg/common"
	code "github.com/metabuildlab/lims/pkg/common/code"
	uuid "github.com/metabuildlab/lims/pkg/common/uuid"
	identifier "github.com/metabuildlab/lims/pkg/core/identifier"
	notify "github.com/metabuildlab/lims/pkg/core/notify"
	events "github.com/metabuildlab/lims/pkg/core/notify/events"
	core "github.com/metabuildlab/lims/pkg/core/receipt"
	auth "github.com/metabuildlab/lims/pkg/middleware/auth"
	db "github.com/metabuildlab/lims/pkg/middleware/db"
	logger "github.com/metabuildlab/lims/pkg/middleware/logger"
	model "github.com/metabuildlab/lims/pkg/model"
	repo "github.com/metabuildlab/lims/pkg/repo"
	repoReceipt "github.com/metabuildlab/lims/pkg/repo/receipt"
	repoRenderer "github.com/metabuildlab/lims/pkg/repo/renderer"
	utils "github.com/metabuildlab/lims/pkg/utils"
)

type receiptImpl struct {
	receiptStore repo.ReceiptRepo
	renderer     repo.Renderer
	idGen        identifier.Generator
	events       notify.MsgCenter
}

func New() core.Service {
	return &receiptImpl{
		receiptStore: repoReceipt.NewReceiptRepo(),
		renderer:     repoRenderer.NewRenderer(),
		idGen:        identifier.New(),
		events:       events.NewEvents(),
	}
}

func (r *receiptImpl) Create(ctx context.Context, req *core.CreateReq) (*core.ReceiptResp, error) {
	currentUser := auth.GetCurrentUser(ctx)
	if currentUser == nil {
		return nil, code.UnLogin
	}

	sampleIDMap := r.receiptStore.UUID2ID(ctx, &model.Sample{}, req.SampleUUIDs...)
	sampleIDs := make([]int64, 0, len(req.SampleUUIDs))
	for _, u := range req.SampleUUIDs {
		id, ok := sampleIDMap[u]
		if !ok {
			return nil, code.SampleNotFound.WithMsg(u.String())
		}
		sampleIDs = append(sampleIDs, id)
	}

	now := time.Now()
	form := &model.SampleReceiptForm{
		ReceiptDate:         now,
		ReceivedByID:        currentUser.ID,
		ReceivedByName:      currentUser.FullName,
		DeliveredBy:         req.DeliveredBy,
		DeliveredByName:     req.DeliveredByName,
		ProjectReference:    req.ProjectReference,
		ConditionNotes:      req.ConditionNotes,
		SpecialInstructions: req.SpecialInstructions,
	}

	var err error
	err = db.DB().ExecTx(ctx, func(txCtx context.Context) error {
		if form.ReceiptNumber, err = r.idGen.NextReceiptNumber(txCtx, now); err != nil {
			return err
		}
		return r.receiptStore.CreateReceipt(txCtx, form, sampleIDs)
	})
	if err != nil {
		logger.Errorf(ctx, "CreateReceipt samples: %d err: %+v", len(sampleIDs), err)
		return nil, err
	}

	if err := r.events.Broadcast(ctx, &notify.SendMsg{
		Channel:  notify.ReceiptCreated,
		EntityID: form.ReceiptNumber,
		ActorID:  currentUser.ID,
		Data:     map[string]any{"samples": len(sampleIDs)},
	}); err != nil {
		logger.Warnf(ctx, "broadcast receipt created: %s err: %+v", form.ReceiptNumber, err)
	}

	return r.Get(ctx, form.UUID)
}

func (r *receiptImpl) Get(ctx context.Context, id uuid.UUID) (*core.ReceiptResp, error) {
	form, err := r.receiptStore.GetReceiptByUUID(ctx, id)
	if err != nil {
		return nil, err
	}
	return receiptResp(form), nil
}

func (r *receiptImpl) List(ctx context.Context, req *core.ListReq) (*common.PageResp[[]*core.ReceiptResp], error) {
	req.Normalize()
	list, total, err := r.receiptStore.ListReceipts(ctx, repo.ReceiptQuery{
		SignedOnly: req.SignedOnly,
		DateFrom:   req.DateFrom,
		DateTo:     req.DateTo,
		Offset:     req.Offset(),
		Limit:      req.PageSize,
	})
	if err != nil {
		return nil, err
	}

	return &common.PageResp[[]*core.ReceiptResp]{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		List:     utils.MapSlice(list, receiptResp),
	}, nil
}

func (r *receiptImpl) Sign(ctx context.Context, req *core.SignReq) error {
	return r.receiptStore.UpdateReceiptByUUID(ctx, req.UUID, map[string]any{
		"received_by_signature":  req.ReceivedBySignature,
		"delivered_by_signature": req.DeliveredBySignature,
		"is_signed":              true,
	})
}

func (r *receiptImpl) RenderPDF(ctx context.Context, id uuid.UUID) (*core.PDFResp, error) {
	form, err := r.receiptStore.GetReceiptByUUID(ctx, id)
	if err != nil {
		return nil, err
	}

	doc := receiptDoc(form)
	if !r.renderer.Enabled() {
		// 未接渲染服务，降级为结构化单据
		return &core.PDFResp{ReceiptNumber: form.ReceiptNumber, Document: doc.Fields}, nil
	}

	pdf, err := r.renderer.RenderPDF(ctx, doc)
	if err != nil {
		logger.Errorf(ctx, "RenderPDF receipt: %s err: %+v", form.ReceiptNumber, err)
		return nil, err
	}

	if !form.PDFGenerated {
		if err := r.receiptStore.UpdateReceiptByUUID(ctx, id, map[string]any{"pdf_generated": true}); err != nil {
			logger.Warnf(ctx, "mark pdf generated receipt: %s err: %+v", form.ReceiptNumber, err)
		}
	}
	return &core.PDFResp{ReceiptNumber: form.ReceiptNumber, PDF: pdf}, nil
}

func receiptDoc(form *model.SampleReceiptForm) *repo.RenderDoc {
	samples := utils.MapSlice(form.Samples, func(s model.Sample) map[string]any {
		row := map[string]any{
			"sample_id":   s.SampleID,
			"sample_type": s.SampleType,
			"condition":   s.SampleCondition,
			"quantity":    s.Quantity,
		}
		if s.Client != nil {
			row["client"] = s.Client.Name
		}
		return row
	})

	return &repo.RenderDoc{
		Template: "sample_receipt_form",
		Title:    form.ReceiptNumber,
		Fields: map[string]any{
			"receipt_number":       form.ReceiptNumber,
			"receipt_date":         form.ReceiptDate.Format("2006-01-02"),
			"received_by":          form.ReceivedByName,
			"delivered_by":         form.DeliveredByName,
			"project_reference":    form.ProjectReference,
			"condition_notes":      form.ConditionNotes,
			"special_instructions": form.SpecialInstructions,
			"is_signed":            form.IsSigned,
			"samples":              samples,
		},
	}
}

func receiptResp(form *model.SampleReceiptForm) *core.ReceiptResp {
	resp := &core.ReceiptResp{
		UUID:                form.UUID,
		ReceiptNumber:       form.ReceiptNumber,
		ReceiptDate:         form.ReceiptDate,
		ReceivedByName:      form.ReceivedByName,
		DeliveredBy:         form.DeliveredBy,
		DeliveredByName:     form.DeliveredByName,
		ProjectReference:    form.ProjectReference,
		ConditionNotes:      form.ConditionNotes,
		SpecialInstructions: form.SpecialInstructions,
		IsSigned:            form.IsSigned,
		PDFGenerated:        form.PDFGenerated,
	}
	for idx := range form.Samples {
		s := &form.Samples[idx]
		sr := &core.ReceiptSampleResp{
			UUID:       s.UUID,
			SampleID:   s.SampleID,
			SampleType: s.SampleType,
			Status:     s.Status,
		}
		if s.Client != nil {
			sr.ClientName = s.Client.Name
		}
		resp.Samples = append(resp.Samples, sr)
	}
	return resp
}
