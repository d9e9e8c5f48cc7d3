package repo

import (
	// 外部依赖
	"context"

	"github.com/shopspring/decimal"

	// 内部引用
	uuid "github.com/metabuildlab/lims/pkg/common/uuid"
	model "github.com/metabuildlab/lims/pkg/model"
)

// InvoiceQuery 发票列表过滤
type InvoiceQuery struct {
	ClientID *int64
	SampleID *int64
	Status   *model.InvoiceStatus
	Offset   int
	Limit    int
}

type InvoiceRepo interface {
	BaseRepo

	CreateInvoice(ctx context.Context, invoice *model.Invoice, lines []*model.InvoiceLine) error
	GetInvoiceByUUID(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	GetInvoiceByNumber(ctx context.Context, invoiceNumber string) (*model.Invoice, error)
	UpdateInvoice(ctx context.Context, id int64, data map[string]any) error
	ListInvoices(ctx context.Context, q InvoiceQuery) ([]*model.Invoice, int64, error)

	// AddPayment 记账并累加 paid，调用方负责校验金额与状态推进
	AddPayment(ctx context.Context, invoiceID int64, payment *model.Payment, newPaid decimal.Decimal, newStatus model.InvoiceStatus) error
	ListPayments(ctx context.Context, invoiceID int64) ([]*model.Payment, error)
}
