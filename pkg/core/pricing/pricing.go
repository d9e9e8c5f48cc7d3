package pricing

import (
	// 外部依赖
	"context"

	// 内部引用
	common "github.com/metabuildlab/lims/pkg/common"
	uuid "github.com/metabuildlab/lims/pkg/common/uuid"
)

// Service 价目管理业务接口
type Service interface {
	// ListCategories 测试大类列表
	ListCategories(ctx context.Context, activeOnly bool) ([]*CategoryResp, error)
	// ListTestItems 价目列表
	ListTestItems(ctx context.Context, req *ListTestItemReq) (*common.PageResp[[]*TestItemResp], error)
	// GetTestItem 单项价目详情
	GetTestItem(ctx context.Context, id uuid.UUID) (*TestItemResp, error)
	// SaveTestItem 按 system_code 新增或覆盖单项价目
	SaveTestItem(ctx context.Context, req *SaveTestItemReq) (*TestItemResp, error)
	// UpdateTestItem 局部更新价目（价格、停用等）
	UpdateTestItem(ctx context.Context, req *UpdateTestItemReq) error
	// ImportPriceList 批量导入价目，dry run 时只校验不落库
	ImportPriceList(ctx context.Context, req *ImportReq) (*ImportResp, error)

	// CreateRule 新增批量折扣规则
	CreateRule(ctx context.Context, req *SaveRuleReq) (*RuleResp, error)
	// ListRules 批量折扣规则列表
	ListRules(ctx context.Context, activeOnly bool) ([]*RuleResp, error)
	// UpdateRule 局部更新折扣规则
	UpdateRule(ctx context.Context, req *UpdateRuleReq) error
	// DeleteRule 删除折扣规则
	DeleteRule(ctx context.Context, id uuid.UUID) error

	// CreateScheme 新增客户折扣方案
	CreateScheme(ctx context.Context, req *SaveSchemeReq) (*SchemeResp, error)
	// ListSchemes 折扣方案列表
	ListSchemes(ctx context.Context, activeOnly bool) ([]*SchemeResp, error)
	// UpdateScheme 局部更新折扣方案
	UpdateScheme(ctx context.Context, req *UpdateSchemeReq) error
	// DeleteScheme 删除折扣方案
	DeleteScheme(ctx context.Context, id uuid.UUID) error
}
