package intake

import (
	// 外部依赖
	"context"

	// 内部引用
	common "github.com/metabuildlab/lims/pkg/common"
	uuid "github.com/metabuildlab/lims/pkg/common/uuid"
)

// Service 客户与样品登记相关业务接口
//
// 所有方法均接受 context.Context，web 层可直接传入 *gin.Context
// 以便在实现内部获取用户信息、日志、DB会话等。
type Service interface {
	// CreateClient 新增客户
	CreateClient(ctx context.Context, req *CreateClientReq) (*ClientResp, error)
	// UpdateClient 更新客户资料
	UpdateClient(ctx context.Context, req *UpdateClientReq) error
	// GetClient 客户详情
	GetClient(ctx context.Context, id uuid.UUID) (*ClientResp, error)
	// ListClients 客户列表
	ListClients(ctx context.Context, req *ListClientReq) (*common.PageResp[[]*ClientResp], error)
	// DeleteClient 删除客户，名下有样品时转为停用
	DeleteClient(ctx context.Context, id uuid.UUID) (*DeleteClientResp, error)

	// RegisterSample 样品登记，生成实验室编号并写初始状态记录
	RegisterSample(ctx context.Context, req *RegisterSampleReq) (*SampleResp, error)
	// GetSample 样品详情
	GetSample(ctx context.Context, id uuid.UUID) (*SampleResp, error)
	// ListSamples 样品列表
	ListSamples(ctx context.Context, req *ListSampleReq) (*common.PageResp[[]*SampleResp], error)
	// AddTests 向已登记样品追加测试项
	AddTests(ctx context.Context, req *AddTestsReq) error
	// UpdateSampleStatus 人工状态流转，写审计记录。
	// 比旧系统的自由编辑收紧：同状态与终态（reported/cancelled）拒绝。
	UpdateSampleStatus(ctx context.Context, req *UpdateStatusReq) error
	// StatusHistory 样品状态流转记录，时间升序
	StatusHistory(ctx context.Context, id uuid.UUID) ([]*StatusChangeResp, error)
}
