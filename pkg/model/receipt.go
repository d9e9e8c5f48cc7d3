package model

import (
	// 外部依赖
	"time"
)

// SampleReceiptForm 收样单（SRF），一张单可批量确认多件样品
type SampleReceiptForm struct {
	BaseModel
	ReceiptNumber string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_srf_receipt_number" json:"receipt_number"`
	ReceiptDate   time.Time `gorm:"not null;index:idx_srf_receipt_date" json:"receipt_date"`

	ReceivedByID        int64  `gorm:"type:bigint;not null;index:idx_srf_received_by" json:"received_by_id"`
	ReceivedByName      string `gorm:"type:varchar(200)" json:"received_by_name"`
	ReceivedBySignature string `gorm:"type:text" json:"received_by_signature"`

	DeliveredBy          string `gorm:"type:varchar(200)" json:"delivered_by"`
	DeliveredByName      string `gorm:"type:varchar(200)" json:"delivered_by_name"`
	DeliveredBySignature string `gorm:"type:text" json:"delivered_by_signature"`

	ProjectReference    string `gorm:"type:varchar(200)" json:"project_reference"`
	ConditionNotes      string `gorm:"type:text" json:"condition_notes"`
	SpecialInstructions string `gorm:"type:text" json:"special_instructions"`

	IsSigned     bool `gorm:"not null;default:false" json:"is_signed"`
	PDFGenerated bool `gorm:"not null;default:false" json:"pdf_generated"`

	Samples []Sample `gorm:"foreignKey:ReceiptFormID;references:ID" json:"samples,omitempty"`
}

func (*SampleReceiptForm) TableName() string { return "sample_receipt_form" }
