package finance

import (
	// 外部依赖
	"context"

	// 内部引用
	common "github.com/metabuildlab/lims/pkg/common"
	uuid "github.com/metabuildlab/lims/pkg/common/uuid"
)

// Service 账务业务接口
// 发票按样品的委托测试逐项计价，金额一律用定点数
type Service interface {
	// CreateInvoice 按样品的委托测试生成草稿发票
	CreateInvoice(ctx context.Context, req *CreateInvoiceReq) (*InvoiceResp, error)
	// GetInvoice 发票详情
	GetInvoice(ctx context.Context, id uuid.UUID) (*InvoiceResp, error)
	// ListInvoices 发票列表
	ListInvoices(ctx context.Context, req *ListInvoiceReq) (*common.PageResp[[]*InvoiceResp], error)
	// IssueInvoice 草稿开具，draft -> issued
	IssueInvoice(ctx context.Context, req *IssueReq) error
	// CancelInvoice 作废，已收款的发票不可作废
	CancelInvoice(ctx context.Context, id uuid.UUID) error
	// RecordPayment 登记收款并推进状态，超额收款被拒绝
	RecordPayment(ctx context.Context, req *PaymentReq) (*InvoiceResp, error)
}
