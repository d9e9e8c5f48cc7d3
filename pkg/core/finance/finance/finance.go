package finance

import (
	// 外部依赖
	"context"
	"fmt"
	"time"

	decimal "github.com/shopspring/decimal"

	// 内部引用
	common "github.com/metabuildlab/lims/pkg/common"
	code "github.com/metabuildlab/lims/pkg/common/code"
	uuid "github.com/metabuildlab/lims/pkg/common/uuid"
	core "github.com/metabuildlab/lims/pkg/core/finance"
	identifier "github.com/metabuildlab/lims/pkg/core/identifier"
	notify "github.com/metabuildlab/lims/pkg/core/notify"
	events "github.com/metabuildlab/lims/pkg/core/notify/events"
	auth "github.com/metabuildlab/lims/pkg/middleware/auth"
	db "github.com/metabuildlab/lims/pkg/middleware/db"
	logger "github.com/metabuildlab/lims/pkg/middleware/logger"
	model "github.com/metabuildlab/lims/pkg/model"
	repo "github.com/metabuildlab/lims/pkg/repo"
	repoInvoice "github.com/metabuildlab/lims/pkg/repo/invoice"
	repoSample "github.com/metabuildlab/lims/pkg/repo/sample"
	utils "github.com/metabuildlab/lims/pkg/utils"
)

type financeImpl struct {
	invoiceStore repo.InvoiceRepo
	sampleStore  repo.SampleRepo
	idGen        identifier.Generator
	events       notify.MsgCenter
}

func New() core.Service {
	return &financeImpl{
		invoiceStore: repoInvoice.NewInvoiceRepo(),
		sampleStore:  repoSample.NewSampleRepo(),
		idGen:        identifier.New(),
		events:       events.NewEvents(),
	}
}

// CreateInvoice 按样品当前的委托测试逐行计价生成草稿
func (f *financeImpl) CreateInvoice(ctx context.Context, req *core.CreateInvoiceReq) (*core.InvoiceResp, error) {
	currentUser := auth.GetCurrentUser(ctx)
	if currentUser == nil {
		return nil, code.UnLogin
	}

	sample, err := f.sampleStore.GetSampleByUUID(ctx, req.SampleUUID)
	if err != nil {
		return nil, err
	}
	if len(sample.Tests) == 0 {
		return nil, code.SampleNoTestsErr.WithMsg(sample.SampleID)
	}

	currency := model.Currency("")
	total := decimal.Zero
	lines := make([]*model.InvoiceLine, 0, len(sample.Tests))
	for idx := range sample.Tests {
		t := &sample.Tests[idx]
		if t.TestItem == nil {
			return nil, code.TestItemNotFound
		}
		if currency == "" {
			currency = t.TestItem.Currency
		} else if currency != t.TestItem.Currency {
			return nil, code.ValidationErr.WithMsgf("mixed currencies on sample %s", sample.SampleID)
		}

		amount := t.TestItem.Price.Mul(decimal.NewFromInt(int64(t.QuantityRequested)))
		total = total.Add(amount)
		lines = append(lines, &model.InvoiceLine{
			SampleTestID: t.ID,
			Description:  fmt.Sprintf("%s (%s)", t.TestItem.TestName, t.TestItem.DisplayCode),
			Quantity:     t.QuantityRequested,
			UnitPrice:    t.TestItem.Price,
			Amount:       amount,
		})
	}

	now := time.Now()
	invoice := &model.Invoice{
		ClientID:    sample.ClientID,
		SampleID:    sample.ID,
		CreatedByID: currentUser.ID,
		Status:      model.InvoiceDraft,
		Currency:    currency,
		Total:       total,
		Paid:        decimal.Zero,
		DueDate:     req.DueDate,
		Notes:       req.Notes,
	}

	err = db.DB().ExecTx(ctx, func(txCtx context.Context) error {
		if invoice.InvoiceNumber, err = f.idGen.NextInvoiceNumber(txCtx, now); err != nil {
			return err
		}
		return f.invoiceStore.CreateInvoice(txCtx, invoice, lines)
	})
	if err != nil {
		logger.Errorf(ctx, "CreateInvoice sample: %s err: %+v", sample.SampleID, err)
		return nil, err
	}

	return f.GetInvoice(ctx, invoice.UUID)
}

func (f *financeImpl) GetInvoice(ctx context.Context, id uuid.UUID) (*core.InvoiceResp, error) {
	invoice, err := f.invoiceStore.GetInvoiceByUUID(ctx, id)
	if err != nil {
		return nil, err
	}

	payments, err := f.invoiceStore.ListPayments(ctx, invoice.ID)
	if err != nil {
		return nil, err
	}

	resp := invoiceResp(invoice)
	resp.Payments = utils.MapSlice(payments, func(p *model.Payment) *core.PaymentResp {
		return &core.PaymentResp{
			UUID:       p.UUID,
			Amount:     p.Amount.StringFixed(2),
			Method:     p.Method,
			Reference:  p.Reference,
			ReceivedAt: p.ReceivedAt,
			Notes:      p.Notes,
		}
	})
	return resp, nil
}

func (f *financeImpl) ListInvoices(ctx context.Context, req *core.ListInvoiceReq) (*common.PageResp[[]*core.InvoiceResp], error) {
	req.Normalize()
	q := repo.InvoiceQuery{
		Status: req.Status,
		Offset: req.Offset(),
		Limit:  req.PageSize,
	}
	if req.ClientUUID != nil {
		clientID := f.invoiceStore.UUID2ID(ctx, &model.Client{}, *req.ClientUUID)[*req.ClientUUID]
		if clientID == 0 {
			return nil, code.ClientNotFound
		}
		q.ClientID = &clientID
	}
	if req.SampleUUID != nil {
		sampleID := f.invoiceStore.UUID2ID(ctx, &model.Sample{}, *req.SampleUUID)[*req.SampleUUID]
		if sampleID == 0 {
			return nil, code.SampleNotFound
		}
		q.SampleID = &sampleID
	}

	list, total, err := f.invoiceStore.ListInvoices(ctx, q)
	if err != nil {
		return nil, err
	}

	return &common.PageResp[[]*core.InvoiceResp]{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		List:     utils.MapSlice(list, invoiceResp),
	}, nil
}

func (f *financeImpl) IssueInvoice(ctx context.Context, req *core.IssueReq) error {
	invoice, err := f.invoiceStore.GetInvoiceByUUID(ctx, req.UUID)
	if err != nil {
		return err
	}
	if invoice.Status != model.InvoiceDraft {
		return code.InvoiceNotDraft.WithMsg(invoice.InvoiceNumber)
	}

	now := time.Now()
	data := map[string]any{
		"status":      model.InvoiceIssued,
		"issued_date": now,
	}
	if req.DueDate != nil {
		data["due_date"] = *req.DueDate
	}
	if err := f.invoiceStore.UpdateInvoice(ctx, invoice.ID, data); err != nil {
		return err
	}

	if err := f.events.Broadcast(ctx, &notify.SendMsg{
		Channel:  notify.InvoiceIssued,
		EntityID: invoice.InvoiceNumber,
		Data:     map[string]any{"total": invoice.Total.StringFixed(2)},
	}); err != nil {
		logger.Warnf(ctx, "broadcast invoice issued: %s err: %+v", invoice.InvoiceNumber, err)
	}
	return nil
}

// CancelInvoice 只有未收过款的草稿或已开票可作废
func (f *financeImpl) CancelInvoice(ctx context.Context, id uuid.UUID) error {
	invoice, err := f.invoiceStore.GetInvoiceByUUID(ctx, id)
	if err != nil {
		return err
	}
	if invoice.Status != model.InvoiceDraft && invoice.Status != model.InvoiceIssued {
		return code.InvalidTransition.WithMsgf("invoice %s is %s", invoice.InvoiceNumber, invoice.Status)
	}
	if invoice.Paid.IsPositive() {
		return code.InvalidTransition.WithMsgf("invoice %s has payments", invoice.InvoiceNumber)
	}
	return f.invoiceStore.UpdateInvoice(ctx, invoice.ID, map[string]any{
		"status": model.InvoiceCancelled,
	})
}

func (f *financeImpl) RecordPayment(ctx context.Context, req *core.PaymentReq) (*core.InvoiceResp, error) {
	currentUser := auth.GetCurrentUser(ctx)
	if currentUser == nil {
		return nil, code.UnLogin
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() {
		return nil, code.ValidationErr.WithMsgf("invalid amount: %s", req.Amount)
	}

	invoice, err := f.invoiceStore.GetInvoiceByUUID(ctx, req.InvoiceUUID)
	if err != nil {
		return nil, err
	}
	if invoice.Status != model.InvoiceIssued && invoice.Status != model.InvoicePartPaid {
		return nil, code.InvalidTransition.WithMsgf("invoice %s is %s", invoice.InvoiceNumber, invoice.Status)
	}
	if amount.GreaterThan(invoice.AmountDue()) {
		return nil, code.PaymentExceedsDue.WithMsgf("due %s", invoice.AmountDue().StringFixed(2))
	}

	newPaid := invoice.Paid.Add(amount)
	newStatus := model.InvoicePartPaid
	if newPaid.Equal(invoice.Total) {
		newStatus = model.InvoicePaid
	}

	payment := &model.Payment{
		Amount:       amount,
		Method:       req.Method,
		Reference:    req.Reference,
		ReceivedByID: currentUser.ID,
		ReceivedAt:   time.Now(),
		Notes:        req.Notes,
	}
	if err := f.invoiceStore.AddPayment(ctx, invoice.ID, payment, newPaid, newStatus); err != nil {
		logger.Errorf(ctx, "RecordPayment invoice: %s err: %+v", invoice.InvoiceNumber, err)
		return nil, err
	}

	return f.GetInvoice(ctx, invoice.UUID)
}

func invoiceResp(invoice *model.Invoice) *core.InvoiceResp {
	resp := &core.InvoiceResp{
		UUID:          invoice.UUID,
		InvoiceNumber: invoice.InvoiceNumber,
		Status:        invoice.Status,
		Currency:      invoice.Currency,
		Total:         invoice.Total.StringFixed(2),
		Paid:          invoice.Paid.StringFixed(2),
		Due:           invoice.AmountDue().StringFixed(2),
		IssuedDate:    invoice.IssuedDate,
		DueDate:       invoice.DueDate,
		Notes:         invoice.Notes,
	}
	if invoice.Client != nil {
		resp.ClientName = invoice.Client.Name
	}
	for idx := range invoice.Lines {
		line := &invoice.Lines[idx]
		resp.Lines = append(resp.Lines, &core.InvoiceLineResp{
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice.StringFixed(2),
			Amount:      line.Amount.StringFixed(2),
		})
	}
	return resp
}
