package model

import (
	// 外部依赖
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus 账单状态
type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "draft"
	InvoiceIssued    InvoiceStatus = "issued"
	InvoicePartPaid  InvoiceStatus = "part_paid"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceDraft, InvoiceIssued, InvoicePartPaid, InvoicePaid, InvoiceCancelled:
		return true
	}
	return false
}

// Invoice 按样品已委托测试开具的账单
type Invoice struct {
	BaseModel
	InvoiceNumber string `gorm:"type:varchar(50);not null;uniqueIndex:idx_invoice_number" json:"invoice_number"`
	ClientID      int64  `gorm:"type:bigint;not null;index:idx_invoice_client" json:"client_id"`
	SampleID      int64  `gorm:"type:bigint;not null;index:idx_invoice_sample" json:"sample_id"`
	CreatedByID   int64  `gorm:"type:bigint;not null" json:"created_by_id"`

	Status   InvoiceStatus   `gorm:"type:varchar(20);not null;default:'draft';index:idx_invoice_status" json:"status"`
	Currency Currency        `gorm:"type:varchar(3);not null;default:'UGX'" json:"currency"`
	Total    decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"total"`
	Paid     decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"paid"`

	IssuedDate *time.Time `gorm:"type:date" json:"issued_date"`
	DueDate    *time.Time `gorm:"type:date" json:"due_date"`
	Notes      string     `gorm:"type:text" json:"notes"`

	Client *Client       `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Lines  []InvoiceLine `gorm:"foreignKey:InvoiceID;references:ID" json:"lines,omitempty"`
}

func (*Invoice) TableName() string { return "invoice" }

// AmountDue 未结清金额
func (i *Invoice) AmountDue() decimal.Decimal {
	return i.Total.Sub(i.Paid)
}

// InvoiceLine 账单行，对应一条样品测试
type InvoiceLine struct {
	BaseModel
	InvoiceID    int64           `gorm:"type:bigint;not null;index:idx_invoice_line_invoice" json:"invoice_id"`
	SampleTestID int64           `gorm:"type:bigint;not null" json:"sample_test_id"`
	Description  string          `gorm:"type:varchar(300);not null" json:"description"`
	Quantity     int             `gorm:"not null;default:1" json:"quantity"`
	UnitPrice    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	Amount       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
}

func (*InvoiceLine) TableName() string { return "invoice_line" }

// Payment 收款记录
type Payment struct {
	BaseModel
	InvoiceID    int64           `gorm:"type:bigint;not null;index:idx_payment_invoice" json:"invoice_id"`
	Amount       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Method       string          `gorm:"type:varchar(50)" json:"method"`
	Reference    string          `gorm:"type:varchar(100)" json:"reference"`
	ReceivedByID int64           `gorm:"type:bigint;not null" json:"received_by_id"`
	ReceivedAt   time.Time       `gorm:"not null" json:"received_at"`
	Notes        string          `gorm:"type:text" json:"notes"`
}

func (*Payment) TableName() string { return "payment" }
