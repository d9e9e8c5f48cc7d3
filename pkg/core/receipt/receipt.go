package receipt

import (
	// 外部依赖
	"context"

	// 内部引用
	common "github.com/metabuildlab/lims/pkg/common"
	uuid "github.com/metabuildlab/lims/pkg/common/uuid"
)

// Service 收样单业务接口
// 一件样品同一时间只能挂在一张收样单上
type Service interface {
	// Create 创建收样单并认领列出的样品，任一样品不符合条件整单失败
	Create(ctx context.Context, req *CreateReq) (*ReceiptResp, error)
	// Get 收样单详情
	Get(ctx context.Context, id uuid.UUID) (*ReceiptResp, error)
	// List 收样单列表
	List(ctx context.Context, req *ListReq) (*common.PageResp[[]*ReceiptResp], error)
	// Sign 双方签字确认
	Sign(ctx context.Context, req *SignReq) error
	// RenderPDF 生成 PDF，渲染服务未配置时返回结构化单据
	RenderPDF(ctx context.Context, id uuid.UUID) (*PDFResp, error)
}
