package pricing

import (
	// 外部依赖
	"context"
	"time"

	decimal "github.com/shopspring/decimal"

	// 内部引用
	common "github.com/metabuildlab/lims/pkg/common"
	code "github.com/metabuildlab/lims/pkg/common/code"
	uuid "github.com/metabuildlab/lims/pkg/common/uuid"
	core "github.com/metabuildlab/lims/pkg/core/pricing"
	db "github.com/metabuildlab/lims/pkg/middleware/db"
	logger "github.com/metabuildlab/lims/pkg/middleware/logger"
	model "github.com/metabuildlab/lims/pkg/model"
	repo "github.com/metabuildlab/lims/pkg/repo"
	repoPricing "github.com/metabuildlab/lims/pkg/repo/pricing"
	utils "github.com/metabuildlab/lims/pkg/utils"
)

type pricingImpl struct {
	pricingStore repo.PricingRepo
}

func New() core.Service {
	return &pricingImpl{pricingStore: repoPricing.NewPricingRepo()}
}

func (p *pricingImpl) ListCategories(ctx context.Context, activeOnly bool) ([]*core.CategoryResp, error) {
	categories, err := p.pricingStore.ListCategories(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	return utils.MapSlice(categories, func(c *model.TestCategory) *core.CategoryResp {
		return &core.CategoryResp{
			UUID:        c.UUID,
			Code:        c.Code,
			Name:        c.Name,
			Description: c.Description,
			IsActive:    c.IsActive,
		}
	}), nil
}

func (p *pricingImpl) ListTestItems(ctx context.Context, req *core.ListTestItemReq) (*common.PageResp[[]*core.TestItemResp], error) {
	req.Normalize()
	q := repo.TestItemQuery{
		NameLike:   req.Name,
		SampleType: req.SampleType,
		ActiveOnly: req.ActiveOnly,
		Offset:     req.Offset(),
		Limit:      req.PageSize,
	}
	if req.CategoryCode != nil {
		category, err := p.pricingStore.GetCategoryByCode(ctx, *req.CategoryCode)
		if err != nil {
			return nil, err
		}
		q.CategoryID = &category.ID
	}

	list, total, err := p.pricingStore.ListTestItems(ctx, q)
	if err != nil {
		return nil, err
	}

	return &common.PageResp[[]*core.TestItemResp]{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		List:     utils.MapSlice(list, testItemResp),
	}, nil
}

func (p *pricingImpl) GetTestItem(ctx context.Context, id uuid.UUID) (*core.TestItemResp, error) {
	item, err := p.pricingStore.GetTestItemByUUID(ctx, id)
	if err != nil {
		return nil, err
	}
	return testItemResp(item), nil
}

func (p *pricingImpl) SaveTestItem(ctx context.Context, req *core.SaveTestItemReq) (*core.TestItemResp, error) {
	item, err := p.buildItem(req)
	if err != nil {
		return nil, err
	}

	err = db.DB().ExecTx(ctx, func(txCtx context.Context) error {
		return p.saveRow(txCtx, req, item, map[string]int64{}, map[[2]string]int64{})
	})
	if err != nil {
		logger.Errorf(ctx, "SaveTestItem code: %s err: %+v", req.SystemCode, err)
		return nil, err
	}

	// upsert 覆盖已有记录时 uuid 不变，按 system code 回查
	saved, err := p.pricingStore.GetTestItemBySystemCode(ctx, req.SystemCode)
	if err != nil {
		return nil, err
	}
	return testItemResp(saved), nil
}

func (p *pricingImpl) UpdateTestItem(ctx context.Context, req *core.UpdateTestItemReq) error {
	data := map[string]any{}
	if req.DisplayCode != nil {
		data["display_code"] = *req.DisplayCode
	}
	if req.TestName != nil {
		data["test_name"] = *req.TestName
	}
	if req.MethodStandard != nil {
		data["method_standard"] = *req.MethodStandard
	}
	if req.Unit != nil {
		data["unit"] = *req.Unit
	}
	if req.Currency != nil {
		if !req.Currency.Valid() {
			return code.ValidationErr.WithMsgf("invalid currency: %s", *req.Currency)
		}
		data["currency"] = *req.Currency
	}
	if req.Price != nil {
		price, err := decimal.NewFromString(*req.Price)
		if err != nil || price.IsNegative() {
			return code.ValidationErr.WithMsgf("invalid price: %s", *req.Price)
		}
		data["price"] = price
	}
	if req.TATDays != nil {
		data["tat_days"] = *req.TATDays
	}
	if req.SampleType != nil {
		data["sample_type"] = *req.SampleType
	}
	if req.IsActive != nil {
		data["is_active"] = *req.IsActive
	}
	if req.Notes != nil {
		data["notes"] = *req.Notes
	}
	if len(data) == 0 {
		return code.ParamErr.WithMsg("no fields to update")
	}
	return p.pricingStore.UpdateTestItemByUUID(ctx, req.UUID, data)
}

// ImportPriceList 整批导入，同一事务内完成；dry run 只做行校验
func (p *pricingImpl) ImportPriceList(ctx context.Context, req *core.ImportReq) (*core.ImportResp, error) {
	items := make([]*model.TestItem, 0, len(req.Rows))
	for idx, row := range req.Rows {
		item, err := p.buildItem(row)
		if err != nil {
			return nil, code.ValidationErr.WithMsgf("row %d: %s", idx+1, code.FromError(err).Msg())
		}
		items = append(items, item)
	}

	resp := &core.ImportResp{}
	categorySeen := map[string]struct{}{}
	subSeen := map[[2]string]struct{}{}
	for _, row := range req.Rows {
		if _, ok := categorySeen[row.CategoryCode]; !ok {
			categorySeen[row.CategoryCode] = struct{}{}
			resp.Categories++
		}
		key := [2]string{row.CategoryCode, row.SubCategory}
		if _, ok := subSeen[key]; !ok {
			subSeen[key] = struct{}{}
			resp.SubCategories++
		}
	}
	resp.Items = len(items)

	if req.DryRun {
		return resp, nil
	}

	err := db.DB().ExecTx(ctx, func(txCtx context.Context) error {
		if req.Clear {
			if err := p.pricingStore.ClearCatalog(txCtx); err != nil {
				return err
			}
		}

		categoryIDs := map[string]int64{}
		subIDs := map[[2]string]int64{}
		for idx, row := range req.Rows {
			if err := p.saveRow(txCtx, row, items[idx], categoryIDs, subIDs); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Errorf(ctx, "ImportPriceList rows: %d err: %+v", len(req.Rows), err)
		return nil, err
	}
	return resp, nil
}

func (p *pricingImpl) CreateRule(ctx context.Context, req *core.SaveRuleReq) (*core.RuleResp, error) {
	percentage, err := parsePercentage(req.DiscountPercentage)
	if err != nil {
		return nil, err
	}
	amount, err := parseAmount(req.DiscountAmount)
	if err != nil {
		return nil, err
	}
	if percentage.IsZero() && amount.IsZero() {
		return nil, code.ValidationErr.WithMsg("either discount_percentage or discount_amount is required")
	}

	rule := &model.PricingRule{
		Name:               req.Name,
		Description:        req.Description,
		DiscountPercentage: percentage,
		DiscountAmount:     amount,
		MinimumQuantity:    req.MinimumQuantity,
		IsActive:           true,
	}
	if err := p.pricingStore.CreateRule(ctx, rule); err != nil {
		logger.Errorf(ctx, "CreateRule name: %s err: %+v", req.Name, err)
		return nil, err
	}
	return ruleResp(rule), nil
}

func (p *pricingImpl) ListRules(ctx context.Context, activeOnly bool) ([]*core.RuleResp, error) {
	rules, err := p.pricingStore.ListRules(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	return utils.MapSlice(rules, ruleResp), nil
}

func (p *pricingImpl) UpdateRule(ctx context.Context, req *core.UpdateRuleReq) error {
	data := map[string]any{}
	if req.Name != nil {
		data["name"] = *req.Name
	}
	if req.Description != nil {
		data["description"] = *req.Description
	}
	if req.DiscountPercentage != nil {
		percentage, err := parsePercentage(*req.DiscountPercentage)
		if err != nil {
			return err
		}
		data["discount_percentage"] = percentage
	}
	if req.DiscountAmount != nil {
		amount, err := parseAmount(*req.DiscountAmount)
		if err != nil {
			return err
		}
		data["discount_amount"] = amount
	}
	if req.MinimumQuantity != nil {
		if *req.MinimumQuantity < 1 {
			return code.ValidationErr.WithMsgf("invalid minimum quantity: %d", *req.MinimumQuantity)
		}
		data["minimum_quantity"] = *req.MinimumQuantity
	}
	if req.IsActive != nil {
		data["is_active"] = *req.IsActive
	}
	if len(data) == 0 {
		return code.ParamErr.WithMsg("no fields to update")
	}
	return p.pricingStore.UpdateRuleByUUID(ctx, req.UUID, data)
}

func (p *pricingImpl) DeleteRule(ctx context.Context, id uuid.UUID) error {
	return p.pricingStore.DeleteRuleByUUID(ctx, id)
}

func (p *pricingImpl) CreateScheme(ctx context.Context, req *core.SaveSchemeReq) (*core.SchemeResp, error) {
	percentage, err := parsePercentage(req.DiscountPercentage)
	if err != nil {
		return nil, err
	}
	if percentage.IsZero() {
		return nil, code.ValidationErr.WithMsg("discount_percentage is required")
	}
	minOrder, err := parseAmount(req.MinimumOrderValue)
	if err != nil {
		return nil, err
	}
	validFrom, validTo, err := parseValidity(req.ValidFrom, req.ValidTo)
	if err != nil {
		return nil, err
	}

	scheme := &model.DiscountScheme{
		Name:               req.Name,
		Description:        req.Description,
		DiscountPercentage: percentage,
		MinimumOrderValue:  minOrder,
		ValidFrom:          validFrom,
		ValidTo:            validTo,
		IsActive:           true,
	}
	if err := p.pricingStore.CreateScheme(ctx, scheme); err != nil {
		logger.Errorf(ctx, "CreateScheme name: %s err: %+v", req.Name, err)
		return nil, err
	}
	return schemeResp(scheme), nil
}

func (p *pricingImpl) ListSchemes(ctx context.Context, activeOnly bool) ([]*core.SchemeResp, error) {
	schemes, err := p.pricingStore.ListSchemes(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	return utils.MapSlice(schemes, schemeResp), nil
}

func (p *pricingImpl) UpdateScheme(ctx context.Context, req *core.UpdateSchemeReq) error {
	data := map[string]any{}
	if req.Name != nil {
		data["name"] = *req.Name
	}
	if req.Description != nil {
		data["description"] = *req.Description
	}
	if req.DiscountPercentage != nil {
		percentage, err := parsePercentage(*req.DiscountPercentage)
		if err != nil {
			return err
		}
		data["discount_percentage"] = percentage
	}
	if req.MinimumOrderValue != nil {
		minOrder, err := parseAmount(*req.MinimumOrderValue)
		if err != nil {
			return err
		}
		data["minimum_order_value"] = minOrder
	}
	if req.ValidFrom != nil {
		day, err := parseDay(*req.ValidFrom)
		if err != nil {
			return err
		}
		data["valid_from"] = day
	}
	if req.ValidTo != nil {
		day, err := parseDay(*req.ValidTo)
		if err != nil {
			return err
		}
		data["valid_to"] = day
	}
	if req.IsActive != nil {
		data["is_active"] = *req.IsActive
	}
	if len(data) == 0 {
		return code.ParamErr.WithMsg("no fields to update")
	}
	return p.pricingStore.UpdateSchemeByUUID(ctx, req.UUID, data)
}

func (p *pricingImpl) DeleteScheme(ctx context.Context, id uuid.UUID) error {
	return p.pricingStore.DeleteSchemeByUUID(ctx, id)
}

// parsePercentage 百分比 0~100，空串视为 0
func parsePercentage(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	percentage, err := decimal.NewFromString(raw)
	if err != nil || percentage.IsNegative() || percentage.GreaterThan(decimal.NewFromInt(100)) {
		return decimal.Zero, code.ValidationErr.WithMsgf("invalid percentage: %s", raw)
	}
	return percentage, nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil || amount.IsNegative() {
		return decimal.Zero, code.ValidationErr.WithMsgf("invalid amount: %s", raw)
	}
	return amount, nil
}

func parseDay(raw string) (time.Time, error) {
	day, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, code.ValidationErr.WithMsgf("invalid date: %s", raw)
	}
	return day, nil
}

func parseValidity(from, to string) (time.Time, time.Time, error) {
	validFrom, err := parseDay(from)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	validTo, err := parseDay(to)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if validTo.Before(validFrom) {
		return time.Time{}, time.Time{}, code.ValidationErr.WithMsg("valid_to is before valid_from")
	}
	return validFrom, validTo, nil
}

func ruleResp(rule *model.PricingRule) *core.RuleResp {
	return &core.RuleResp{
		UUID:               rule.UUID,
		Name:               rule.Name,
		Description:        rule.Description,
		DiscountPercentage: rule.DiscountPercentage.StringFixed(2),
		DiscountAmount:     rule.DiscountAmount.StringFixed(2),
		MinimumQuantity:    rule.MinimumQuantity,
		IsActive:           rule.IsActive,
	}
}

func schemeResp(scheme *model.DiscountScheme) *core.SchemeResp {
	return &core.SchemeResp{
		UUID:               scheme.UUID,
		Name:               scheme.Name,
		Description:        scheme.Description,
		DiscountPercentage: scheme.DiscountPercentage.StringFixed(2),
		MinimumOrderValue:  scheme.MinimumOrderValue.StringFixed(2),
		ValidFrom:          scheme.ValidFrom.Format("2006-01-02"),
		ValidTo:            scheme.ValidTo.Format("2006-01-02"),
		IsActive:           scheme.IsActive,
	}
}

// saveRow 确保类别、子类存在后写单项价目，id 映射跨行复用
func (p *pricingImpl) saveRow(ctx context.Context, row *core.SaveTestItemReq, item *model.TestItem,
	categoryIDs map[string]int64, subIDs map[[2]string]int64) error {
	categoryID, ok := categoryIDs[row.CategoryCode]
	if !ok {
		category := &model.TestCategory{
			Code:     row.CategoryCode,
			Name:     row.CategoryName,
			IsActive: true,
		}
		if err := p.pricingStore.UpsertCategory(ctx, category); err != nil {
			return err
		}
		categoryID = category.ID
		categoryIDs[row.CategoryCode] = categoryID
	}

	subKey := [2]string{row.CategoryCode, row.SubCategory}
	subID, ok := subIDs[subKey]
	if !ok {
		sub := &model.TestSubCategory{
			CategoryID: categoryID,
			Name:       row.SubCategory,
			IsActive:   true,
		}
		if err := p.pricingStore.UpsertSubCategory(ctx, sub); err != nil {
			return err
		}
		subID = sub.ID
		subIDs[subKey] = subID
	}

	item.CategoryID = categoryID
	item.SubCategoryID = subID
	return p.pricingStore.UpsertTestItem(ctx, item)
}

// buildItem 行校验并构造落库模型，类别外键由 saveRow 补齐
func (p *pricingImpl) buildItem(req *core.SaveTestItemReq) (*model.TestItem, error) {
	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.IsNegative() {
		return nil, code.ValidationErr.WithMsgf("invalid price: %s", req.Price)
	}

	currency := req.Currency
	if currency == "" {
		currency = model.CurrencyUGX
	}
	if !currency.Valid() {
		return nil, code.ValidationErr.WithMsgf("invalid currency: %s", currency)
	}

	tat := req.TATDays
	if tat <= 0 {
		tat = 1
	}
	sampleType := req.SampleType
	if sampleType == "" {
		sampleType = "Soil"
	}
	displayCode := req.DisplayCode
	if displayCode == "" {
		displayCode = req.SystemCode
	}

	return &model.TestItem{
		SystemCode:     req.SystemCode,
		DisplayCode:    displayCode,
		TestName:       req.TestName,
		MethodStandard: req.MethodStandard,
		Unit:           req.Unit,
		Currency:       currency,
		Price:          price,
		TATDays:        tat,
		SampleType:     sampleType,
		IsActive:       true,
		Notes:          req.Notes,
	}, nil
}

func testItemResp(item *model.TestItem) *core.TestItemResp {
	resp := &core.TestItemResp{
		UUID:           item.UUID,
		SystemCode:     item.SystemCode,
		DisplayCode:    item.DisplayCode,
		TestName:       item.TestName,
		MethodStandard: item.MethodStandard,
		Unit:           item.Unit,
		Currency:       item.Currency,
		Price:          item.Price.StringFixed(2),
		FormattedPrice: item.FormattedPrice(),
		TATDays:        item.TATDays,
		SampleType:     item.SampleType,
		IsActive:       item.IsActive,
		Notes:          item.Notes,
	}
	if item.Category != nil {
		resp.CategoryCode = item.Category.Code
		resp.CategoryName = item.Category.Name
	}
	if item.SubCategory != nil {
		resp.SubCategory = item.SubCategory.Name
	}
	return resp
}
