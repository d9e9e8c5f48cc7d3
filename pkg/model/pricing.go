package model

import (
	// 外部依赖
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TestCategory 测试大类（如 Soil - Laboratory tests）
type TestCategory struct {
	BaseModel
	Code        string `gorm:"type:varchar(50);not null;uniqueIndex:idx_test_category_code" json:"code"`
	Name        string `gorm:"type:varchar(200);not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	IsActive    bool   `gorm:"not null;default:true" json:"is_active"`
}

func (*TestCategory) TableName() string { return "test_category" }

// TestSubCategory 大类下的子类（如 Physical Properties）
type TestSubCategory struct {
	BaseModel
	CategoryID  int64  `gorm:"type:bigint;not null;uniqueIndex:idx_test_subcategory,priority:1" json:"category_id"`
	Name        string `gorm:"type:varchar(200);not null;uniqueIndex:idx_test_subcategory,priority:2" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	IsActive    bool   `gorm:"not null;default:true" json:"is_active"`

	Category *TestCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

func (*TestSubCategory) TableName() string { return "test_subcategory" }

// Currency 计价货币
type Currency string

const (
	CurrencyUGX Currency = "UGX"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
)

func (c Currency) Valid() bool {
	return c == CurrencyUGX || c == CurrencyUSD || c == CurrencyEUR
}

// TestItem 价目表中的单项测试
type TestItem struct {
	BaseModel
	SystemCode  string `gorm:"type:varchar(50);not null;uniqueIndex:idx_test_item_system_code" json:"system_code"`
	DisplayCode string `gorm:"type:varchar(20);not null;index:idx_test_item_display_code" json:"display_code"`

	CategoryID    int64 `gorm:"type:bigint;not null;index:idx_test_item_cat,priority:1" json:"category_id"`
	SubCategoryID int64 `gorm:"type:bigint;not null;index:idx_test_item_cat,priority:2" json:"subcategory_id"`

	TestName       string `gorm:"type:varchar(300);not null" json:"test_name"`
	MethodStandard string `gorm:"type:varchar(200)" json:"method_standard"`

	Unit     string          `gorm:"type:varchar(50);not null" json:"unit"`
	Currency Currency        `gorm:"type:varchar(3);not null;default:'UGX'" json:"currency"`
	Price    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`

	TATDays    int    `gorm:"not null;default:1" json:"tat_days"`
	SampleType string `gorm:"type:varchar(50);not null;default:'Soil'" json:"sample_type"`
	IsActive   bool   `gorm:"not null;default:true;index:idx_test_item_active" json:"is_active"`
	Notes      string `gorm:"type:text" json:"notes"`

	Category    *TestCategory    `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	SubCategory *TestSubCategory `gorm:"foreignKey:SubCategoryID" json:"subcategory,omitempty"`
}

func (*TestItem) TableName() string { return "test_item" }

// FormattedPrice 带货币的展示价格
func (t *TestItem) FormattedPrice() string {
	return fmt.Sprintf("%s %s", t.Currency, t.Price.StringFixed(2))
}

// PricingRule 批量折扣规则
type PricingRule struct {
	BaseModel
	Name               string          `gorm:"type:varchar(200);not null" json:"name"`
	Description        string          `gorm:"type:text" json:"description"`
	DiscountPercentage decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0" json:"discount_percentage"`
	DiscountAmount     decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"discount_amount"`
	MinimumQuantity    int             `gorm:"not null;default:1" json:"minimum_quantity"`
	IsActive           bool            `gorm:"not null;default:true" json:"is_active"`
}

func (*PricingRule) TableName() string { return "pricing_rule" }

// DiscountScheme 面向客户或大额订单的折扣方案
type DiscountScheme struct {
	BaseModel
	Name               string          `gorm:"type:varchar(200);not null" json:"name"`
	Description        string          `gorm:"type:text" json:"description"`
	DiscountPercentage decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0" json:"discount_percentage"`
	MinimumOrderValue  decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"minimum_order_value"`
	ValidFrom          time.Time       `gorm:"type:date;not null" json:"valid_from"`
	ValidTo            time.Time       `gorm:"type:date;not null" json:"valid_to"`
	IsActive           bool            `gorm:"not null;default:true" json:"is_active"`
}

func (*DiscountScheme) TableName() string { return "discount_scheme" }
