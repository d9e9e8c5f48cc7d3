package repo

import (
	// 外部依赖
	"context"
	"time"

	// 内部引用
	uuid "github.com/metabuildlab/lims/pkg/common/uuid"
	model "github.com/metabuildlab/lims/pkg/model"
)

// SampleQuery 样品列表过滤
type SampleQuery struct {
	ClientID     *int64
	Status       *model.SampleStatus
	Priority     *model.Priority
	SampleIDLike *string
	ReceivedFrom *time.Time
	ReceivedTo   *time.Time
	// 仅查询未挂收样单的 received 样品，収样单创建用
	ReceiptCandidates bool
	Offset            int
	Limit             int
}

// StatusChange 一次样品状态流转
type StatusChange struct {
	SampleID  int64
	Old       model.SampleStatus
	New       model.SampleStatus
	ActorID   int64
	Notes     string
	ChangedAt time.Time
}

type SampleRepo interface {
	BaseRepo

	CreateSample(ctx context.Context, sample *model.Sample, tests []*model.SampleTest) error
	GetSampleByUUID(ctx context.Context, id uuid.UUID) (*model.Sample, error)
	GetSampleBySampleID(ctx context.Context, sampleID string) (*model.Sample, error)
	UpdateSampleByUUID(ctx context.Context, id uuid.UUID, data map[string]any) error
	ListSamples(ctx context.Context, q SampleQuery) ([]*model.Sample, int64, error)

	// SetStatus 更新状态并追加一条审计记录，两步同一事务
	SetStatus(ctx context.Context, change *StatusChange) error
	ListStatusHistory(ctx context.Context, sampleID int64) ([]*model.SampleStatusHistory, error)

	AddTests(ctx context.Context, tests []*model.SampleTest) error
	ListTests(ctx context.Context, sampleID int64) ([]*model.SampleTest, error)
	CountTests(ctx context.Context, sampleID int64) (int64, error)
	GetTestsByUUIDs(ctx context.Context, sampleID int64, ids []uuid.UUID) ([]*model.SampleTest, error)
	// CompleteTests 批量完结任务覆盖的测试项
	CompleteTests(ctx context.Context, testIDs []int64, actorID int64, at time.Time) error
}
