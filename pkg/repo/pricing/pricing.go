package pricing

import (
	// 外部依赖
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	// 内部引用
	code "github.com/metabuildlab/lims/pkg/common/code"
	uuid "github.com/metabuildlab/lims/pkg/common/uuid"
	db "github.com/metabuildlab/lims/pkg/middleware/db"
	model "github.com/metabuildlab/lims/pkg/model"
	repo "github.com/metabuildlab/lims/pkg/repo"
)

type pricingImpl struct {
	repo.BaseRepo
}

func NewPricingRepo() repo.PricingRepo {
	return &pricingImpl{
		BaseRepo: repo.NewBaseDB(),
	}
}

// UpsertCategory 按 code 幂等写入类别，价目导入可重复执行
func (p *pricingImpl) UpsertCategory(ctx context.Context, category *model.TestCategory) error {
	if err := p.DBWithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "description", "is_active", "updated_at"}),
		}).Create(category).Error; err != nil {
		return code.CreateDataErr.WithErr(err)
	}

	if category.ID == 0 {
		// sqlite 的 upsert 冲突分支不回填主键，补查一次
		existing, err := p.GetCategoryByCode(ctx, category.Code)
		if err != nil {
			return err
		}
		category.ID = existing.ID
		category.UUID = existing.UUID
	}
	return nil
}

func (p *pricingImpl) GetCategoryByCode(ctx context.Context, categoryCode string) (*model.TestCategory, error) {
	category := &model.TestCategory{}
	if err := p.DBWithContext(ctx).
		Where("code = ?", categoryCode).
		First(category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.RecordNotFound.WithErr(err)
		}
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return category, nil
}

func (p *pricingImpl) ListCategories(ctx context.Context, activeOnly bool) ([]*model.TestCategory, error) {
	tx := p.DBWithContext(ctx).Model(&model.TestCategory{})
	if activeOnly {
		tx = tx.Where("is_active = ?", true)
	}

	categories := make([]*model.TestCategory, 0, 8)
	if err := tx.Order("code asc").Find(&categories).Error; err != nil {
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return categories, nil
}

func (p *pricingImpl) UpsertSubCategory(ctx context.Context, sub *model.TestSubCategory) error {
	if err := p.DBWithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "category_id"}, {Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"description", "is_active", "updated_at"}),
		}).Create(sub).Error; err != nil {
		return code.CreateDataErr.WithErr(err)
	}

	if sub.ID == 0 {
		existing := &model.TestSubCategory{}
		if err := p.DBWithContext(ctx).
			Where("category_id = ? AND name = ?", sub.CategoryID, sub.Name).
			First(existing).Error; err != nil {
			return code.QueryRecordErr.WithErr(err)
		}
		sub.ID = existing.ID
		sub.UUID = existing.UUID
	}
	return nil
}

// UpsertTestItem 按 system_code 幂等写入检测项目
func (p *pricingImpl) UpsertTestItem(ctx context.Context, item *model.TestItem) error {
	if err := p.DBWithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "system_code"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"display_code", "category_id", "sub_category_id", "test_name",
				"method_standard", "unit", "currency", "price", "tat_days",
				"sample_type", "is_active", "notes", "updated_at",
			}),
		}).Create(item).Error; err != nil {
		return code.CreateDataErr.WithErr(err)
	}
	return nil
}

func (p *pricingImpl) GetTestItemByUUID(ctx context.Context, id uuid.UUID) (*model.TestItem, error) {
	item := &model.TestItem{}
	if err := p.DBWithContext(ctx).
		Preload("Category").Preload("SubCategory").
		Where("uuid = ?", id).
		First(item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.TestItemNotFound.WithErr(err)
		}
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return item, nil
}

func (p *pricingImpl) GetTestItemBySystemCode(ctx context.Context, systemCode string) (*model.TestItem, error) {
	item := &model.TestItem{}
	if err := p.DBWithContext(ctx).
		Preload("Category").Preload("SubCategory").
		Where("system_code = ?", systemCode).
		First(item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.TestItemNotFound.WithErr(err)
		}
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return item, nil
}

func (p *pricingImpl) GetTestItemsByUUIDs(ctx context.Context, ids []uuid.UUID) ([]*model.TestItem, error) {
	items := make([]*model.TestItem, 0, len(ids))
	if err := p.DBWithContext(ctx).
		Where("uuid IN ?", ids).
		Find(&items).Error; err != nil {
		return nil, code.QueryRecordErr.WithErr(err)
	}
	if len(items) != len(ids) {
		return nil, code.TestItemNotFound
	}
	return items, nil
}

func (p *pricingImpl) GetTestItemsByIDs(ctx context.Context, ids []int64) ([]*model.TestItem, error) {
	items := make([]*model.TestItem, 0, len(ids))
	if err := p.DBWithContext(ctx).
		Where("id IN ?", ids).
		Find(&items).Error; err != nil {
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return items, nil
}

func (p *pricingImpl) UpdateTestItemByUUID(ctx context.Context, id uuid.UUID, data map[string]any) error {
	res := p.DBWithContext(ctx).Model(&model.TestItem{}).
		Where("uuid = ?", id).
		Updates(data)
	if res.Error != nil {
		return code.UpdateDataErr.WithErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return code.TestItemNotFound
	}
	return nil
}

func (p *pricingImpl) ListTestItems(ctx context.Context, q repo.TestItemQuery) ([]*model.TestItem, int64, error) {
	tx := p.DBWithContext(ctx).Model(&model.TestItem{})
	if q.CategoryID != nil {
		tx = tx.Where("category_id = ?", *q.CategoryID)
	}
	if q.SubCategoryID != nil {
		tx = tx.Where("sub_category_id = ?", *q.SubCategoryID)
	}
	if q.NameLike != nil {
		tx = tx.Where("test_name LIKE ?", "%"+*q.NameLike+"%")
	}
	if q.SampleType != nil {
		tx = tx.Where("sample_type = ?", *q.SampleType)
	}
	if q.ActiveOnly {
		tx = tx.Where("is_active = ?", true)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, code.QueryRecordErr.WithErr(err)
	}

	items := make([]*model.TestItem, 0, q.Limit)
	if err := tx.Preload("Category").Preload("SubCategory").
		Order("system_code asc").
		Offset(q.Offset).Limit(q.Limit).
		Find(&items).Error; err != nil {
		return nil, 0, code.QueryRecordErr.WithErr(err)
	}
	return items, total, nil
}

func (p *pricingImpl) CreateRule(ctx context.Context, rule *model.PricingRule) error {
	if err := p.DBWithContext(ctx).Create(rule).Error; err != nil {
		return code.CreateDataErr.WithErr(err)
	}
	return nil
}

func (p *pricingImpl) ListRules(ctx context.Context, activeOnly bool) ([]*model.PricingRule, error) {
	tx := p.DBWithContext(ctx).Model(&model.PricingRule{})
	if activeOnly {
		tx = tx.Where("is_active = ?", true)
	}

	rules := make([]*model.PricingRule, 0, 8)
	if err := tx.Order("minimum_quantity asc").Find(&rules).Error; err != nil {
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return rules, nil
}

func (p *pricingImpl) UpdateRuleByUUID(ctx context.Context, id uuid.UUID, data map[string]any) error {
	res := p.DBWithContext(ctx).Model(&model.PricingRule{}).
		Where("uuid = ?", id).
		Updates(data)
	if res.Error != nil {
		return code.UpdateDataErr.WithErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return code.RecordNotFound
	}
	return nil
}

func (p *pricingImpl) DeleteRuleByUUID(ctx context.Context, id uuid.UUID) error {
	res := p.DBWithContext(ctx).
		Where("uuid = ?", id).
		Delete(&model.PricingRule{})
	if res.Error != nil {
		return code.DeleteDataErr.WithErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return code.RecordNotFound
	}
	return nil
}

func (p *pricingImpl) CreateScheme(ctx context.Context, scheme *model.DiscountScheme) error {
	if err := p.DBWithContext(ctx).Create(scheme).Error; err != nil {
		return code.CreateDataErr.WithErr(err)
	}
	return nil
}

func (p *pricingImpl) ListSchemes(ctx context.Context, activeOnly bool) ([]*model.DiscountScheme, error) {
	tx := p.DBWithContext(ctx).Model(&model.DiscountScheme{})
	if activeOnly {
		tx = tx.Where("is_active = ?", true)
	}

	schemes := make([]*model.DiscountScheme, 0, 8)
	if err := tx.Order("valid_from asc").Find(&schemes).Error; err != nil {
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return schemes, nil
}

func (p *pricingImpl) UpdateSchemeByUUID(ctx context.Context, id uuid.UUID, data map[string]any) error {
	res := p.DBWithContext(ctx).Model(&model.DiscountScheme{}).
		Where("uuid = ?", id).
		Updates(data)
	if res.Error != nil {
		return code.UpdateDataErr.WithErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return code.RecordNotFound
	}
	return nil
}

func (p *pricingImpl) DeleteSchemeByUUID(ctx context.Context, id uuid.UUID) error {
	res := p.DBWithContext(ctx).
		Where("uuid = ?", id).
		Delete(&model.DiscountScheme{})
	if res.Error != nil {
		return code.DeleteDataErr.WithErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return code.RecordNotFound
	}
	return nil
}

func (p *pricingImpl) ClearCatalog(ctx context.Context) error {
	return db.DB().ExecTx(ctx, func(txCtx context.Context) error {
		for _, m := range []any{
			&model.TestItem{},
			&model.TestSubCategory{},
			&model.TestCategory{},
		} {
			if err := p.DBWithContext(txCtx).
				Where("1 = 1").Delete(m).Error; err != nil {
				return code.DeleteDataErr.WithErr(err)
			}
		}
		return nil
	})
}
