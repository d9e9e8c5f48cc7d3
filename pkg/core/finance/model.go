package finance

import (
	// 外部依赖
	"time"

	// 内部引用
	common "github.com/metabuildlab/lims/pkg/common"
	uuid "github.com/metabuildlab/lims/pkg/common/uuid"
	model "github.com/metabuildlab/lims/pkg/model"
)

// CreateInvoiceReq 开票入参，账单行来自样品的委托测试
type CreateInvoiceReq struct {
	SampleUUID uuid.UUID  `json:"sample_uuid" binding:"required"`
	DueDate    *time.Time `json:"due_date"`
	Notes      string     `json:"notes"`
}

type IssueReq struct {
	UUID    uuid.UUID  `json:"uuid" binding:"required"`
	DueDate *time.Time `json:"due_date"`
}

// PaymentReq 收款入参，金额为定点数字符串
type PaymentReq struct {
	InvoiceUUID uuid.UUID `json:"invoice_uuid" binding:"required"`
	Amount      string    `json:"amount" binding:"required"`
	Method      string    `json:"method"`
	Reference   string    `json:"reference"`
	Notes       string    `json:"notes"`
}

type ListInvoiceReq struct {
	common.PageReq

	ClientUUID *uuid.UUID           `form:"client_uuid"`
	SampleUUID *uuid.UUID           `form:"sample_uuid"`
	Status     *model.InvoiceStatus `form:"status"`
}

type InvoiceLineResp struct {
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	Amount      string `json:"amount"`
}

type PaymentResp struct {
	UUID       uuid.UUID `json:"uuid"`
	Amount     string    `json:"amount"`
	Method     string    `json:"method"`
	Reference  string    `json:"reference"`
	ReceivedAt time.Time `json:"received_at"`
	Notes      string    `json:"notes"`
}

type InvoiceResp struct {
	UUID          uuid.UUID `json:"uuid"`
	InvoiceNumber string    `json:"invoice_number"`
	ClientName    string    `json:"client_name"`

	Status   model.InvoiceStatus `json:"status"`
	Currency model.Currency      `json:"currency"`
	Total    string              `json:"total"`
	Paid     string              `json:"paid"`
	Due      string              `json:"due"`

	IssuedDate *time.Time `json:"issued_date"`
	DueDate    *time.Time `json:"due_date"`
	Notes      string     `json:"notes"`

	Lines    []*InvoiceLineResp `json:"lines,omitempty"`
	Payments []*PaymentResp     `json:"payments,omitempty"`
}
