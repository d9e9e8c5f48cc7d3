package repo

import (
	// 外部依赖
	"context"

	// 内部引用
	uuid "github.com/metabuildlab/lims/pkg/common/uuid"
	model "github.com/metabuildlab/lims/pkg/model"
)

// JobQuery 任务列表过滤
type JobQuery struct {
	SampleID     *int64
	AssignedToID *int64
	Status       *model.JobStatus
	Priority     *model.Priority
	Offset       int
	Limit        int
}

type JobRepo interface {
	BaseRepo

	// CreateJob 任务连同覆盖的测试项关联一并写入
	CreateJob(ctx context.Context, job *model.Job, testIDs []int64) error
	GetJobByUUID(ctx context.Context, id uuid.UUID) (*model.Job, error)
	GetJobByJobID(ctx context.Context, jobID string) (*model.Job, error)
	UpdateJob(ctx context.Context, id int64, data map[string]any) error
	// UpdateJobStatus 带旧状态条件的更新，0 行即转移非法
	UpdateJobStatus(ctx context.Context, id int64, from []model.JobStatus, to model.JobStatus, extra map[string]any) (bool, error)
	ListJobs(ctx context.Context, q JobQuery) ([]*model.Job, int64, error)
	// HasOutstandingSiblings 同一样品下是否还有其它未完结任务
	HasOutstandingSiblings(ctx context.Context, sampleID int64, excludeJobID int64) (bool, error)
	ListJobTestIDs(ctx context.Context, jobID int64) ([]int64, error)
}
