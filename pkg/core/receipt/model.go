package receipt

import (
	// 外部依赖
	"time"

	// 内部引用
	common "github.com/metabuildlab/lims/pkg/common"
	uuid "github.com/metabuildlab/lims/pkg/common/uuid"
	model "github.com/metabuildlab/lims/pkg/model"
)

// CreateReq 创建收样单入参
type CreateReq struct {
	SampleUUIDs []uuid.UUID `json:"sample_uuids" binding:"required,min=1"`

	DeliveredBy     string `json:"delivered_by"`
	DeliveredByName string `json:"delivered_by_name"`

	ProjectReference    string `json:"project_reference"`
	ConditionNotes      string `json:"condition_notes"`
	SpecialInstructions string `json:"special_instructions"`
}

// SignReq 签字入参，两个签名均为 base64 图片或姓名文本
type SignReq struct {
	UUID                 uuid.UUID `json:"uuid" binding:"required"`
	ReceivedBySignature  string    `json:"received_by_signature" binding:"required"`
	DeliveredBySignature string    `json:"delivered_by_signature" binding:"required"`
}

type ListReq struct {
	common.PageReq

	SignedOnly bool       `form:"signed_only"`
	DateFrom   *time.Time `form:"date_from" time_format:"2006-01-02"`
	DateTo     *time.Time `form:"date_to" time_format:"2006-01-02"`
}

type ReceiptSampleResp struct {
	UUID       uuid.UUID          `json:"uuid"`
	SampleID   string             `json:"sample_id"`
	SampleType string             `json:"sample_type"`
	ClientName string             `json:"client_name"`
	Status     model.SampleStatus `json:"status"`
}

type ReceiptResp struct {
	UUID          uuid.UUID `json:"uuid"`
	ReceiptNumber string    `json:"receipt_number"`
	ReceiptDate   time.Time `json:"receipt_date"`

	ReceivedByName  string `json:"received_by_name"`
	DeliveredBy     string `json:"delivered_by"`
	DeliveredByName string `json:"delivered_by_name"`

	ProjectReference    string `json:"project_reference"`
	ConditionNotes      string `json:"condition_notes"`
	SpecialInstructions string `json:"special_instructions"`

	IsSigned     bool `json:"is_signed"`
	PDFGenerated bool `json:"pdf_generated"`

	Samples []*ReceiptSampleResp `json:"samples,omitempty"`
}

// PDFResp PDF 为空时返回结构化单据内容
type PDFResp struct {
	ReceiptNumber string         `json:"receipt_number"`
	PDF           []byte         `json:"pdf,omitempty"`
	Document      map[string]any `json:"document,omitempty"`
}
