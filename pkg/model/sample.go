package model

import (
	// 外部依赖
	"time"

	datatypes "gorm.io/datatypes"
)

// SampleStatus 样品状态
type SampleStatus string

const (
	SampleReceived   SampleStatus = "received"
	SampleInProgress SampleStatus = "in_progress"
	SampleTesting    SampleStatus = "testing"
	SampleCompleted  SampleStatus = "completed"
	SampleReported   SampleStatus = "reported"
	SampleCancelled  SampleStatus = "cancelled"
)

func (s SampleStatus) Valid() bool {
	switch s {
	case SampleReceived, SampleInProgress, SampleTesting,
		SampleCompleted, SampleReported, SampleCancelled:
		return true
	}
	return false
}

// Terminal 终态样品不再接受取消
func (s SampleStatus) Terminal() bool {
	return s == SampleReported || s == SampleCancelled
}

// EstimatedCompletion 收样日加所有测试的最大周转天数，无测试时为 nil
func (s *Sample) EstimatedCompletion() *time.Time {
	maxTAT := 0
	for idx := range s.Tests {
		if item := s.Tests[idx].TestItem; item != nil && item.TATDays > maxTAT {
			maxTAT = item.TATDays
		}
	}
	if maxTAT == 0 {
		return nil
	}
	estimated := s.ReceivedDate.AddDate(0, 0, maxTAT)
	return &estimated
}

// Priority 处理优先级，样品与任务共用
type Priority string

const (
	PriorityNormal Priority = "normal"
	PriorityUrgent Priority = "urgent"
	PriorityRush   Priority = "rush"
)

func (p Priority) Valid() bool {
	return p == PriorityNormal || p == PriorityUrgent || p == PriorityRush
}

// SampleCondition 样品到样状态
type SampleCondition string

const (
	ConditionGood         SampleCondition = "good"
	ConditionDamaged      SampleCondition = "damaged"
	ConditionInsufficient SampleCondition = "insufficient"
	ConditionContaminated SampleCondition = "contaminated"
)

func (c SampleCondition) Valid() bool {
	switch c {
	case ConditionGood, ConditionDamaged, ConditionInsufficient, ConditionContaminated:
		return true
	}
	return false
}

// Sample 送检样品，样品不做物理删除，取消是一种状态
type Sample struct {
	BaseModel
	SampleID        string `gorm:"type:varchar(50);not null;uniqueIndex:idx_sample_sample_id" json:"sample_id"`
	ClientReference string `gorm:"type:varchar(100)" json:"client_reference"`
	ClientID        int64  `gorm:"type:bigint;not null;index:idx_sample_client_id" json:"client_id"`

	SampleType        string          `gorm:"type:varchar(100);not null" json:"sample_type"`
	SampleDescription string          `gorm:"type:text" json:"sample_description"`
	SampleCondition   SampleCondition `gorm:"type:varchar(20);not null;default:'good'" json:"sample_condition"`
	Quantity          string          `gorm:"type:varchar(100)" json:"quantity"`
	LocationCollected string          `gorm:"type:varchar(200)" json:"location_collected"`
	CollectionDate    *time.Time      `gorm:"type:date" json:"collection_date"`

	ReceivedByID int64        `gorm:"type:bigint;not null" json:"received_by_id"`
	ReceivedDate time.Time    `gorm:"not null;index:idx_sample_received_date" json:"received_date"`
	Priority     Priority     `gorm:"type:varchar(20);not null;default:'normal'" json:"priority"`
	Status       SampleStatus `gorm:"type:varchar(20);not null;default:'received';index:idx_sample_status" json:"status"`

	// SRF 回引，样品最多挂在一张有效收样单上
	ReceiptFormID *int64 `gorm:"type:bigint;index:idx_sample_receipt_form" json:"receipt_form_id"`

	SpecialInstructions string `gorm:"type:text" json:"special_instructions"`
	DeliveryMethod      string `gorm:"type:varchar(100)" json:"delivery_method"`
	CourierDetails      string `gorm:"type:varchar(200)" json:"courier_details"`
	Notes               string `gorm:"type:text" json:"notes"`

	Client *Client      `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Tests  []SampleTest `gorm:"foreignKey:SampleID;references:ID" json:"tests,omitempty"`
}

func (*Sample) TableName() string { return "sample" }

// SampleTest 样品-测试项关联，携带各自的完成状态与结果
type SampleTest struct {
	BaseModel
	SampleID   int64 `gorm:"type:bigint;not null;uniqueIndex:idx_sample_test,priority:1" json:"sample_id"`
	TestItemID int64 `gorm:"type:bigint;not null;uniqueIndex:idx_sample_test,priority:2" json:"test_item_id"`

	QuantityRequested   int    `gorm:"not null;default:1" json:"quantity_requested"`
	SpecialRequirements string `gorm:"type:text" json:"special_requirements"`

	IsCompleted   bool           `gorm:"not null;default:false" json:"is_completed"`
	CompletedDate *time.Time     `json:"completed_date"`
	CompletedByID *int64         `gorm:"type:bigint" json:"completed_by_id"`
	TestResults   datatypes.JSON `gorm:"type:jsonb" json:"test_results"`

	TestItem *TestItem `gorm:"foreignKey:TestItemID" json:"test_item,omitempty"`
}

func (*SampleTest) TableName() string { return "sample_test" }

// SampleStatusHistory 样品状态流转审计，只增不改
type SampleStatusHistory struct {
	ID          int64        `gorm:"primaryKey;autoIncrement" json:"id"`
	SampleID    int64        `gorm:"type:bigint;not null;index:idx_status_history_sample" json:"sample_id"`
	OldStatus   SampleStatus `gorm:"type:varchar(20)" json:"old_status"`
	NewStatus   SampleStatus `gorm:"type:varchar(20);not null" json:"new_status"`
	ChangedByID int64        `gorm:"type:bigint;not null" json:"changed_by_id"`
	ChangedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"changed_at"`
	Notes       string       `gorm:"type:text" json:"notes"`
}

func (*SampleStatusHistory) TableName() string { return "sample_status_history" }
