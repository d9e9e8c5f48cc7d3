package job

import (
	// 外部依赖
	"time"

	// 内部引用
	common "github.com/metabuildlab/lims/pkg/common"
	uuid "github.com/metabuildlab/lims/pkg/common/uuid"
	model "github.com/metabuildlab/lims/pkg/model"
)

// CreateReq 创建工作单入参
// TestUUIDs 为样品测试项（sample_test）的 uuid，必须全部属于该样品
type CreateReq struct {
	SampleUUID     uuid.UUID      `json:"sample_uuid" binding:"required"`
	AssignedToUUID *uuid.UUID     `json:"assigned_to_uuid"`
	TestUUIDs      []uuid.UUID    `json:"test_uuids" binding:"required,min=1"`
	Priority       model.Priority `json:"priority"`
	DueDate        *time.Time     `json:"due_date"`
	Instructions   string         `json:"instructions"`
}

type AssignReq struct {
	UUID           uuid.UUID `json:"uuid" binding:"required"`
	AssignedToUUID uuid.UUID `json:"assigned_to_uuid" binding:"required"`
}

type CompleteReq struct {
	UUID  uuid.UUID `json:"uuid" binding:"required"`
	Notes string    `json:"notes"`
}

// HoldReq 挂起原因为必填，会带时间戳追加到工作单备注
type HoldReq struct {
	UUID   uuid.UUID `json:"uuid" binding:"required"`
	Reason string    `json:"reason" binding:"required"`
}

type ListReq struct {
	common.PageReq

	SampleUUID     *uuid.UUID       `form:"sample_uuid"`
	AssignedToUUID *uuid.UUID       `form:"assigned_to_uuid"`
	Status         *model.JobStatus `form:"status"`
	Priority       *model.Priority  `form:"priority"`
}

type JobTestResp struct {
	UUID        uuid.UUID `json:"uuid"`
	TestName    string    `json:"test_name"`
	SystemCode  string    `json:"system_code"`
	IsCompleted bool      `json:"is_completed"`
}

type JobResp struct {
	UUID     uuid.UUID `json:"uuid"`
	JobID    string    `json:"job_id"`
	SampleID string    `json:"sample_id"`

	SampleUUID     uuid.UUID  `json:"sample_uuid"`
	AssignedToUUID *uuid.UUID `json:"assigned_to_uuid"`

	Priority model.Priority  `json:"priority"`
	Status   model.JobStatus `json:"status"`

	AssignedDate  *time.Time `json:"assigned_date"`
	DueDate       *time.Time `json:"due_date"`
	StartedDate   *time.Time `json:"started_date"`
	CompletedDate *time.Time `json:"completed_date"`

	Instructions string `json:"instructions"`
	Notes        string `json:"notes"`

	Tests []*JobTestResp `json:"tests,omitempty"`
}
