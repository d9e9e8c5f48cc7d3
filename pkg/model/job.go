package model

import (
	// 外部依赖
	"time"
)

// JobStatus 任务状态
type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobAssigned   JobStatus = "assigned"
	JobInProgress JobStatus = "in_progress"
	JobCompleted  JobStatus = "completed"
	JobOnHold     JobStatus = "on_hold"
	JobCancelled  JobStatus = "cancelled"
)

func (s JobStatus) Valid() bool {
	switch s {
	case JobPending, JobAssigned, JobInProgress, JobCompleted, JobOnHold, JobCancelled:
		return true
	}
	return false
}

// Outstanding 尚未完结的任务会阻塞样品进入 testing
func (s JobStatus) Outstanding() bool {
	return s == JobPending || s == JobAssigned || s == JobInProgress || s == JobOnHold
}

// Job 技术员的工作单，覆盖样品的部分或全部测试项
type Job struct {
	BaseModel
	JobID    string `gorm:"type:varchar(50);not null;uniqueIndex:idx_job_job_id" json:"job_id"`
	SampleID int64  `gorm:"type:bigint;not null;index:idx_job_sample_id" json:"sample_id"`

	AssignedToID *int64 `gorm:"type:bigint;index:idx_job_assigned_to" json:"assigned_to_id"`
	CreatedByID  int64  `gorm:"type:bigint;not null" json:"created_by_id"`

	Priority Priority  `gorm:"type:varchar(20);not null;default:'normal'" json:"priority"`
	Status   JobStatus `gorm:"type:varchar(20);not null;default:'pending';index:idx_job_status" json:"status"`

	AssignedDate  *time.Time `json:"assigned_date"`
	DueDate       *time.Time `gorm:"type:date;index:idx_job_due_date" json:"due_date"`
	StartedDate   *time.Time `json:"started_date"`
	CompletedDate *time.Time `json:"completed_date"`

	Instructions string `gorm:"type:text" json:"instructions"`
	Notes        string `gorm:"type:text" json:"notes"`

	Sample *Sample      `gorm:"foreignKey:SampleID" json:"sample,omitempty"`
	Tests  []SampleTest `gorm:"many2many:job_sample_test;joinForeignKey:JobID;joinReferences:SampleTestID" json:"tests,omitempty"`
}

func (*Job) TableName() string { return "job" }
