package repo

import (
	// 外部依赖
	"context"

	// 内部引用
	uuid "github.com/metabuildlab/lims/pkg/common/uuid"
	model "github.com/metabuildlab/lims/pkg/model"
)

// TestItemQuery 价目表过滤
type TestItemQuery struct {
	CategoryID    *int64
	SubCategoryID *int64
	NameLike      *string
	SampleType    *string
	ActiveOnly    bool
	Offset        int
	Limit         int
}

type PricingRepo interface {
	BaseRepo

	UpsertCategory(ctx context.Context, category *model.TestCategory) error
	GetCategoryByCode(ctx context.Context, categoryCode string) (*model.TestCategory, error)
	ListCategories(ctx context.Context, activeOnly bool) ([]*model.TestCategory, error)

	UpsertSubCategory(ctx context.Context, sub *model.TestSubCategory) error

	UpsertTestItem(ctx context.Context, item *model.TestItem) error
	GetTestItemByUUID(ctx context.Context, id uuid.UUID) (*model.TestItem, error)
	GetTestItemBySystemCode(ctx context.Context, systemCode string) (*model.TestItem, error)
	GetTestItemsByUUIDs(ctx context.Context, ids []uuid.UUID) ([]*model.TestItem, error)
	GetTestItemsByIDs(ctx context.Context, ids []int64) ([]*model.TestItem, error)
	UpdateTestItemByUUID(ctx context.Context, id uuid.UUID, data map[string]any) error
	ListTestItems(ctx context.Context, q TestItemQuery) ([]*model.TestItem, int64, error)

	// ClearCatalog 清空价目数据，价目导入 --clear 用
	ClearCatalog(ctx context.Context) error

	CreateRule(ctx context.Context, rule *model.PricingRule) error
	ListRules(ctx context.Context, activeOnly bool) ([]*model.PricingRule, error)
	UpdateRuleByUUID(ctx context.Context, id uuid.UUID, data map[string]any) error
	DeleteRuleByUUID(ctx context.Context, id uuid.UUID) error

	CreateScheme(ctx context.Context, scheme *model.DiscountScheme) error
	ListSchemes(ctx context.Context, activeOnly bool) ([]*model.DiscountScheme, error)
	UpdateSchemeByUUID(ctx context.Context, id uuid.UUID, data map[string]any) error
	DeleteSchemeByUUID(ctx context.Context, id uuid.UUID) error
}
