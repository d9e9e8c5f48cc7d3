package receipt

import (
	// 外部依赖
	"context"
	"errors"

	gorm "gorm.io/gorm"

	// 内部引用
	code "github.com/metabuildlab/lims/pkg/common/code"
	uuid "github.com/metabuildlab/lims/pkg/common/uuid"
	db "github.com/metabuildlab/lims/pkg/middleware/db"
	model "github.com/metabuildlab/lims/pkg/model"
	repo "github.com/metabuildlab/lims/pkg/repo"
)

type receiptImpl struct {
	repo.BaseRepo
}

func NewReceiptRepo() repo.ReceiptRepo {
	return &receiptImpl{BaseRepo: repo.NewBaseDB()}
}

// CreateReceipt 事务内写单并认领样品
// 认领语义：sample.receipt_form_id 回填为本单 id，条件更新要求
// 样品当前未挂单且状态为 received，影响行数不足即说明有样品被
// 其它收样单抢先认领或状态已变化，整个事务回滚
func (r *receiptImpl) CreateReceipt(ctx context.Context, form *model.SampleReceiptForm, sampleIDs []int64) error {
	if len(sampleIDs) == 0 {
		return code.ValidationErr.WithMsg("receipt form requires at least one sample")
	}

	return db.DB().ExecTx(ctx, func(txCtx context.Context) error {
		if err := r.CreateData(txCtx, form); err != nil {
			return err
		}

		res := r.DBWithContext(txCtx).Model(&model.Sample{}).
			Where("id IN ?", sampleIDs).
			Where("receipt_form_id IS NULL").
			Where("status = ?", model.SampleReceived).
			Update("receipt_form_id", form.ID)
		if res.Error != nil {
			return code.UpdateDataErr.WithErr(res.Error)
		}
		if res.RowsAffected != int64(len(sampleIDs)) {
			return code.SampleOnReceipt
		}
		return nil
	})
}

func (r *receiptImpl) GetReceiptByUUID(ctx context.Context, id uuid.UUID) (*model.SampleReceiptForm, error) {
	return r.getReceipt(ctx, "uuid = ?", id)
}

func (r *receiptImpl) GetReceiptByNumber(ctx context.Context, number string) (*model.SampleReceiptForm, error) {
	return r.getReceipt(ctx, "receipt_number = ?", number)
}

func (r *receiptImpl) getReceipt(ctx context.Context, query string, arg any) (*model.SampleReceiptForm, error) {
	form := &model.SampleReceiptForm{}
	err := r.DBWithContext(ctx).
		Preload("Samples").
		Preload("Samples.Client").
		Preload("Samples.Tests").
		Preload("Samples.Tests.TestItem").
		Where(query, arg).
		First(form).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, code.ReceiptNotFound
	}
	if err != nil {
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return form, nil
}

func (r *receiptImpl) UpdateReceiptByUUID(ctx context.Context, id uuid.UUID, data map[string]any) error {
	return r.UpdateData(ctx, &model.SampleReceiptForm{}, data, "uuid = ?", id)
}

func (r *receiptImpl) ListReceipts(ctx context.Context, q repo.ReceiptQuery) ([]*model.SampleReceiptForm, int64, error) {
	db := r.DBWithContext(ctx).Model(&model.SampleReceiptForm{})
	if q.ReceivedByID != nil {
		db = db.Where("received_by_id = ?", *q.ReceivedByID)
	}
	if q.SignedOnly {
		db = db.Where("is_signed = ?", true)
	}
	if q.DateFrom != nil {
		db = db.Where("receipt_date >= ?", *q.DateFrom)
	}
	if q.DateTo != nil {
		db = db.Where("receipt_date < ?", *q.DateTo)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, code.QueryRecordErr.WithErr(err)
	}

	if q.Limit == 0 {
		q.Limit = 20
	}
	list := make([]*model.SampleReceiptForm, 0, q.Limit)
	if err := db.Preload("Samples").
		Order("receipt_date desc").
		Offset(q.Offset).Limit(q.Limit).
		Find(&list).Error; err != nil {
		return nil, 0, code.QueryRecordErr.WithErr(err)
	}
	return list, total, nil
}
