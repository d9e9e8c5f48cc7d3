package invoice

import (
	// 外部依赖
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	// 内部引用
	code "github.com/metabuildlab/lims/pkg/common/code"
	uuid "github.com/metabuildlab/lims/pkg/common/uuid"
	db "github.com/metabuildlab/lims/pkg/middleware/db"
	model "github.com/metabuildlab/lims/pkg/model"
	repo "github.com/metabuildlab/lims/pkg/repo"
)

type invoiceImpl struct {
	repo.BaseRepo
}

func NewInvoiceRepo() repo.InvoiceRepo {
	return &invoiceImpl{
		BaseRepo: repo.NewBaseDB(),
	}
}

func (i *invoiceImpl) CreateInvoice(ctx context.Context, invoice *model.Invoice, lines []*model.InvoiceLine) error {
	return db.DB().ExecTx(ctx, func(txCtx context.Context) error {
		if err := i.DBWithContext(txCtx).Create(invoice).Error; err != nil {
			return code.CreateDataErr.WithErr(err)
		}
		for _, line := range lines {
			line.InvoiceID = invoice.ID
		}
		if len(lines) > 0 {
			if err := i.DBWithContext(txCtx).Create(lines).Error; err != nil {
				return code.CreateDataErr.WithErr(err)
			}
		}
		return nil
	})
}

func (i *invoiceImpl) getInvoice(ctx context.Context, where string, arg any) (*model.Invoice, error) {
	invoice := &model.Invoice{}
	if err := i.DBWithContext(ctx).
		Preload("Client").Preload("Lines").
		Where(where, arg).
		First(invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.InvoiceNotFound.WithErr(err)
		}
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return invoice, nil
}

func (i *invoiceImpl) GetInvoiceByUUID(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	return i.getInvoice(ctx, "uuid = ?", id)
}

func (i *invoiceImpl) GetInvoiceByNumber(ctx context.Context, invoiceNumber string) (*model.Invoice, error) {
	return i.getInvoice(ctx, "invoice_number = ?", invoiceNumber)
}

func (i *invoiceImpl) UpdateInvoice(ctx context.Context, id int64, data map[string]any) error {
	res := i.DBWithContext(ctx).Model(&model.Invoice{}).
		Where("id = ?", id).
		Updates(data)
	if res.Error != nil {
		return code.UpdateDataErr.WithErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return code.InvoiceNotFound
	}
	return nil
}

func (i *invoiceImpl) ListInvoices(ctx context.Context, q repo.InvoiceQuery) ([]*model.Invoice, int64, error) {
	tx := i.DBWithContext(ctx).Model(&model.Invoice{})
	if q.ClientID != nil {
		tx = tx.Where("client_id = ?", *q.ClientID)
	}
	if q.SampleID != nil {
		tx = tx.Where("sample_id = ?", *q.SampleID)
	}
	if q.Status != nil {
		tx = tx.Where("status = ?", *q.Status)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, code.QueryRecordErr.WithErr(err)
	}

	invoices := make([]*model.Invoice, 0, q.Limit)
	if err := tx.Preload("Client").
		Order("created_at desc").
		Offset(q.Offset).Limit(q.Limit).
		Find(&invoices).Error; err != nil {
		return nil, 0, code.QueryRecordErr.WithErr(err)
	}
	return invoices, total, nil
}

// AddPayment 同事务写收款记录并更新发票的 paid 与状态
func (i *invoiceImpl) AddPayment(ctx context.Context, invoiceID int64, payment *model.Payment,
	newPaid decimal.Decimal, newStatus model.InvoiceStatus) error {
	return db.DB().ExecTx(ctx, func(txCtx context.Context) error {
		payment.InvoiceID = invoiceID
		if err := i.DBWithContext(txCtx).Create(payment).Error; err != nil {
			return code.CreateDataErr.WithErr(err)
		}
		return i.UpdateInvoice(txCtx, invoiceID, map[string]any{
			"paid":   newPaid,
			"status": newStatus,
		})
	})
}

func (i *invoiceImpl) ListPayments(ctx context.Context, invoiceID int64) ([]*model.Payment, error) {
	payments := make([]*model.Payment, 0, 4)
	if err := i.DBWithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("received_at asc").
		Find(&payments).Error; err != nil {
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return payments, nil
}
