package pricing

import (
	// 内部引用
	common "github.com/metabuildlab/lims/pkg/common"
	uuid "github.com/metabuildlab/lims/pkg/common/uuid"
	model "github.com/metabuildlab/lims/pkg/model"
)

type CategoryResp struct {
	UUID        uuid.UUID `json:"uuid"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
}

type ListTestItemReq struct {
	common.PageReq

	CategoryCode *string `form:"category_code"`
	Name         *string `form:"name"`
	SampleType   *string `form:"sample_type"`
	ActiveOnly   bool    `form:"active_only"`
}

type TestItemResp struct {
	UUID        uuid.UUID `json:"uuid"`
	SystemCode  string    `json:"system_code"`
	DisplayCode string    `json:"display_code"`

	CategoryCode string `json:"category_code"`
	CategoryName string `json:"category_name"`
	SubCategory  string `json:"subcategory"`

	TestName       string `json:"test_name"`
	MethodStandard string `json:"method_standard"`

	Unit           string         `json:"unit"`
	Currency       model.Currency `json:"currency"`
	Price          string         `json:"price"`
	FormattedPrice string         `json:"formatted_price"`

	TATDays    int    `json:"tat_days"`
	SampleType string `json:"sample_type"`
	IsActive   bool   `json:"is_active"`
	Notes      string `json:"notes"`
}

// SaveTestItemReq 单项价目入参，类别按 code/名称就地创建
type SaveTestItemReq struct {
	SystemCode  string `json:"system_code" binding:"required"`
	DisplayCode string `json:"display_code"`

	CategoryCode string `json:"category_code" binding:"required"`
	CategoryName string `json:"category_name" binding:"required"`
	SubCategory  string `json:"subcategory" binding:"required"`

	TestName       string `json:"test_name" binding:"required"`
	MethodStandard string `json:"method_standard"`

	Unit     string         `json:"unit" binding:"required"`
	Currency model.Currency `json:"currency"`
	Price    string         `json:"price" binding:"required"`

	TATDays    int    `json:"tat_days"`
	SampleType string `json:"sample_type"`
	Notes      string `json:"notes"`
}

// UpdateTestItemReq nil 字段不更新
type UpdateTestItemReq struct {
	UUID           uuid.UUID       `json:"uuid" binding:"required"`
	DisplayCode    *string         `json:"display_code"`
	TestName       *string         `json:"test_name"`
	MethodStandard *string         `json:"method_standard"`
	Unit           *string         `json:"unit"`
	Currency       *model.Currency `json:"currency"`
	Price          *string         `json:"price"`
	TATDays        *int            `json:"tat_days"`
	SampleType     *string         `json:"sample_type"`
	IsActive       *bool           `json:"is_active"`
	Notes          *string         `json:"notes"`
}

// SaveRuleReq 批量折扣规则入参，百分比与固定减免二选一
type SaveRuleReq struct {
	Name               string `json:"name" binding:"required"`
	Description        string `json:"description"`
	DiscountPercentage string `json:"discount_percentage"`
	DiscountAmount     string `json:"discount_amount"`
	MinimumQuantity    int    `json:"minimum_quantity" binding:"required,min=1"`
}

type RuleResp struct {
	UUID               uuid.UUID `json:"uuid"`
	Name               string    `json:"name"`
	Description        string    `json:"description"`
	DiscountPercentage string    `json:"discount_percentage"`
	DiscountAmount     string    `json:"discount_amount"`
	MinimumQuantity    int       `json:"minimum_quantity"`
	IsActive           bool      `json:"is_active"`
}

// UpdateRuleReq nil 字段不更新
type UpdateRuleReq struct {
	UUID               uuid.UUID `json:"uuid" binding:"required"`
	Name               *string   `json:"name"`
	Description        *string   `json:"description"`
	DiscountPercentage *string   `json:"discount_percentage"`
	DiscountAmount     *string   `json:"discount_amount"`
	MinimumQuantity    *int      `json:"minimum_quantity"`
	IsActive           *bool     `json:"is_active"`
}

// SaveSchemeReq 折扣方案入参，日期格式 2006-01-02
type SaveSchemeReq struct {
	Name               string `json:"name" binding:"required"`
	Description        string `json:"description"`
	DiscountPercentage string `json:"discount_percentage" binding:"required"`
	MinimumOrderValue  string `json:"minimum_order_value"`
	ValidFrom          string `json:"valid_from" binding:"required"`
	ValidTo            string `json:"valid_to" binding:"required"`
}

type SchemeResp struct {
	UUID               uuid.UUID `json:"uuid"`
	Name               string    `json:"name"`
	Description        string    `json:"description"`
	DiscountPercentage string    `json:"discount_percentage"`
	MinimumOrderValue  string    `json:"minimum_order_value"`
	ValidFrom          string    `json:"valid_from"`
	ValidTo            string    `json:"valid_to"`
	IsActive           bool      `json:"is_active"`
}

// UpdateSchemeReq nil 字段不更新
type UpdateSchemeReq struct {
	UUID               uuid.UUID `json:"uuid" binding:"required"`
	Name               *string   `json:"name"`
	Description        *string   `json:"description"`
	DiscountPercentage *string   `json:"discount_percentage"`
	MinimumOrderValue  *string   `json:"minimum_order_value"`
	ValidFrom          *string   `json:"valid_from"`
	ValidTo            *string   `json:"valid_to"`
	IsActive           *bool     `json:"is_active"`
}

// ImportReq 批量导入入参，Rows 由上层从 CSV 解析
type ImportReq struct {
	Rows   []*SaveTestItemReq `json:"rows" binding:"required,min=1"`
	Clear  bool               `json:"clear"`
	DryRun bool               `json:"dry_run"`
}

type ImportResp struct {
	Categories    int `json:"categories"`
	SubCategories int `json:"subcategories"`
	Items         int `json:"items"`
}
