package intake

import (
	// 外部依赖
	"time"

	// 内部引用
	common "github.com/metabuildlab/lims/pkg/common"
	uuid "github.com/metabuildlab/lims/pkg/common/uuid"
	model "github.com/metabuildlab/lims/pkg/model"
)

// CreateClientReq 创建客户入参
type CreateClientReq struct {
	Name                string `json:"name" binding:"required"`
	ContactPerson       string `json:"contact_person"`
	Email               string `json:"email" binding:"omitempty,email"`
	Phone               string `json:"phone"`
	Address             string `json:"address"`
	CompanyRegistration string `json:"company_registration"`
}

// UpdateClientReq 更新客户入参，nil 字段不更新
type UpdateClientReq struct {
	UUID                uuid.UUID `json:"uuid" binding:"required"`
	Name                *string   `json:"name"`
	ContactPerson       *string   `json:"contact_person"`
	Email               *string   `json:"email" binding:"omitempty,email"`
	Phone               *string   `json:"phone"`
	Address             *string   `json:"address"`
	CompanyRegistration *string   `json:"company_registration"`
	IsActive            *bool     `json:"is_active"`
}

type ClientResp struct {
	UUID                uuid.UUID `json:"uuid"`
	Name                string    `json:"name"`
	ContactPerson       string    `json:"contact_person"`
	Email               string    `json:"email"`
	Phone               string    `json:"phone"`
	Address             string    `json:"address"`
	CompanyRegistration string    `json:"company_registration"`
	IsActive            bool      `json:"is_active"`
	CreatedAt           time.Time `json:"created_at"`
}

type ListClientReq struct {
	common.PageReq

	Name       *string `form:"name"`
	ActiveOnly bool    `form:"active_only"`
}

// DeleteClientResp Deactivated 为真表示仅停用未删除
type DeleteClientResp struct {
	Deactivated bool `json:"deactivated"`
}

// TestReq 登记时委托的单项测试
type TestReq struct {
	TestItemUUID        uuid.UUID `json:"test_item_uuid" binding:"required"`
	QuantityRequested   int       `json:"quantity_requested"`
	SpecialRequirements string    `json:"special_requirements"`
}

// RegisterSampleReq 样品登记入参
// 样品编号与客户参考号由后端生成，不接受外部传入
type RegisterSampleReq struct {
	ClientUUID uuid.UUID `json:"client_uuid" binding:"required"`

	SampleType        string                `json:"sample_type" binding:"required"`
	SampleDescription string                `json:"sample_description"`
	SampleCondition   model.SampleCondition `json:"sample_condition"`
	Quantity          string                `json:"quantity"`
	LocationCollected string                `json:"location_collected"`
	CollectionDate    *time.Time            `json:"collection_date"`

	Priority            model.Priority `json:"priority"`
	SpecialInstructions string         `json:"special_instructions"`
	DeliveryMethod      string         `json:"delivery_method"`
	CourierDetails      string         `json:"courier_details"`
	Notes               string         `json:"notes"`

	Tests []*TestReq `json:"tests"`
}

type TestResp struct {
	UUID                uuid.UUID  `json:"uuid"`
	TestItemUUID        uuid.UUID  `json:"test_item_uuid"`
	TestName            string     `json:"test_name"`
	SystemCode          string     `json:"system_code"`
	QuantityRequested   int        `json:"quantity_requested"`
	SpecialRequirements string     `json:"special_requirements"`
	IsCompleted         bool       `json:"is_completed"`
	CompletedDate       *time.Time `json:"completed_date"`
}

type SampleResp struct {
	UUID            uuid.UUID `json:"uuid"`
	SampleID        string    `json:"sample_id"`
	ClientReference string    `json:"client_reference"`
	ClientUUID      uuid.UUID `json:"client_uuid"`
	ClientName      string    `json:"client_name"`

	SampleType        string                `json:"sample_type"`
	SampleDescription string                `json:"sample_description"`
	SampleCondition   model.SampleCondition `json:"sample_condition"`
	Quantity          string                `json:"quantity"`
	LocationCollected string                `json:"location_collected"`
	CollectionDate    *time.Time            `json:"collection_date"`

	ReceivedDate        time.Time          `json:"received_date"`
	EstimatedCompletion *time.Time         `json:"estimated_completion_date"`
	Priority            model.Priority     `json:"priority"`
	Status              model.SampleStatus `json:"status"`
	OnReceipt           bool               `json:"on_receipt"`

	SpecialInstructions string `json:"special_instructions"`
	DeliveryMethod      string `json:"delivery_method"`
	CourierDetails      string `json:"courier_details"`
	Notes               string `json:"notes"`

	Tests []*TestResp `json:"tests,omitempty"`
}

type ListSampleReq struct {
	common.PageReq

	ClientUUID   *uuid.UUID          `form:"client_uuid"`
	Status       *model.SampleStatus `form:"status"`
	Priority     *model.Priority     `form:"priority"`
	SampleID     *string             `form:"sample_id"`
	ReceivedFrom *time.Time          `form:"received_from" time_format:"2006-01-02"`
	ReceivedTo   *time.Time          `form:"received_to" time_format:"2006-01-02"`
	// 仅列出可挂收样单的样品
	ReceiptCandidates bool `form:"receipt_candidates"`
}

// AddTestsReq 追加测试项入参
type AddTestsReq struct {
	SampleUUID uuid.UUID  `json:"sample_uuid" binding:"required"`
	Tests      []*TestReq `json:"tests" binding:"required,min=1"`
}

// UpdateStatusReq 人工状态流转入参
type UpdateStatusReq struct {
	SampleUUID uuid.UUID          `json:"sample_uuid" binding:"required"`
	Status     model.SampleStatus `json:"status" binding:"required"`
	Notes      string             `json:"notes"`
}

type StatusChangeResp struct {
	OldStatus model.SampleStatus `json:"old_status"`
	NewStatus model.SampleStatus `json:"new_status"`
	ChangedAt time.Time          `json:"changed_at"`
	Notes     string             `json:"notes"`
}
