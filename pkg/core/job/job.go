package job

import (
	// 外部依赖
	"context"

	// 内部引用
	common "github.com/metabuildlab/lims/pkg/common"
	uuid "github.com/metabuildlab/lims/pkg/common/uuid"
)

// Service 工作单的创建与生命周期流转
//
// 所有流转接口在旧状态不满足前置条件时返回 InvalidTransition，
// 不落任何副作用。
type Service interface {
	// Create 创建工作单，至少覆盖一项测试
	Create(ctx context.Context, req *CreateReq) (*JobResp, error)
	// Get 工作单详情
	Get(ctx context.Context, id uuid.UUID) (*JobResp, error)
	// List 工作单列表
	List(ctx context.Context, req *ListReq) (*common.PageResp[[]*JobResp], error)
	// Assign 指派给技术员，pending -> assigned
	Assign(ctx context.Context, req *AssignReq) error
	// StartWork pending/assigned -> in_progress，样品随之离开 received
	StartWork(ctx context.Context, id uuid.UUID) error
	// Complete in_progress -> completed，样品下最后一张未完结单会推动样品进入 testing
	Complete(ctx context.Context, req *CompleteReq) error
	// PutOnHold assigned/in_progress -> on_hold，原因追加到备注
	PutOnHold(ctx context.Context, req *HoldReq) error
	// Resume on_hold -> in_progress
	Resume(ctx context.Context, id uuid.UUID) error
}
