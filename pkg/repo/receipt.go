package repo

import (
	// 外部依赖
	"context"
	"time"

	// 内部引用
	uuid "github.com/metabuildlab/lims/pkg/common/uuid"
	model "github.com/metabuildlab/lims/pkg/model"
)

// ReceiptQuery 收样单列表过滤
type ReceiptQuery struct {
	ReceivedByID *int64
	SignedOnly   bool
	DateFrom     *time.Time
	DateTo       *time.Time
	Offset       int
	Limit        int
}

type ReceiptRepo interface {
	BaseRepo

	// CreateReceipt 创建收样单并认领样品
	// 任一样品已挂单或不处于 received 状态时整单失败
	CreateReceipt(ctx context.Context, form *model.SampleReceiptForm, sampleIDs []int64) error
	GetReceiptByUUID(ctx context.Context, id uuid.UUID) (*model.SampleReceiptForm, error)
	GetReceiptByNumber(ctx context.Context, number string) (*model.SampleReceiptForm, error)
	UpdateReceiptByUUID(ctx context.Context, id uuid.UUID, data map[string]any) error
	ListReceipts(ctx context.Context, q ReceiptQuery) ([]*model.SampleReceiptForm, int64, error)
}
