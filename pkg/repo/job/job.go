package job

import (
	// 外部依赖
	"context"
	"errors"

	gorm "gorm.io/gorm"

	// 内部引用
	code "github.com/metabuildlab/lims/pkg/common/code"
	uuid "github.com/metabuildlab/lims/pkg/common/uuid"
	db "github.com/metabuildlab/lims/pkg/middleware/db"
	model "github.com/metabuildlab/lims/pkg/model"
	repo "github.com/metabuildlab/lims/pkg/repo"
	utils "github.com/metabuildlab/lims/pkg/utils"
)

type jobImpl struct {
	repo.BaseRepo
}

func NewJobRepo() repo.JobRepo {
	return &jobImpl{BaseRepo: repo.NewBaseDB()}
}

// jobSampleTest 任务与样品测试项的关联行
type jobSampleTest struct {
	JobID        int64 `gorm:"column:job_id"`
	SampleTestID int64 `gorm:"column:sample_test_id"`
}

func (*jobSampleTest) TableName() string { return "job_sample_test" }

func (j *jobImpl) CreateJob(ctx context.Context, job *model.Job, testIDs []int64) error {
	return db.DB().ExecTx(ctx, func(txCtx context.Context) error {
		if err := j.CreateData(txCtx, job); err != nil {
			return err
		}
		links := utils.MapSlice(testIDs, func(id int64) *jobSampleTest {
			return &jobSampleTest{JobID: job.ID, SampleTestID: id}
		})
		if len(links) > 0 {
			if err := j.CreateData(txCtx, &links); err != nil {
				return err
			}
		}
		return nil
	})
}

func (j *jobImpl) GetJobByUUID(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	return j.getJob(ctx, "uuid = ?", id)
}

func (j *jobImpl) GetJobByJobID(ctx context.Context, jobID string) (*model.Job, error) {
	return j.getJob(ctx, "job_id = ?", jobID)
}

func (j *jobImpl) getJob(ctx context.Context, query string, arg any) (*model.Job, error) {
	job := &model.Job{}
	err := j.DBWithContext(ctx).
		Preload("Sample").
		Preload("Tests").
		Preload("Tests.TestItem").
		Where(query, arg).
		First(job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, code.JobNotFound
	}
	if err != nil {
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return job, nil
}

func (j *jobImpl) UpdateJob(ctx context.Context, id int64, data map[string]any) error {
	return j.UpdateData(ctx, &model.Job{}, data, "id = ?", id)
}

// UpdateJobStatus 以旧状态为条件执行单行更新
// 返回 false 表示当前状态不满足请求的转移，且未发生任何写入
func (j *jobImpl) UpdateJobStatus(ctx context.Context, id int64, from []model.JobStatus, to model.JobStatus, extra map[string]any) (bool, error) {
	updates := map[string]any{"status": to}
	for k, v := range extra {
		updates[k] = v
	}

	res := j.DBWithContext(ctx).Model(&model.Job{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, code.UpdateDataErr.WithErr(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (j *jobImpl) ListJobs(ctx context.Context, q repo.JobQuery) ([]*model.Job, int64, error) {
	db := j.DBWithContext(ctx).Model(&model.Job{})
	if q.SampleID != nil {
		db = db.Where("sample_id = ?", *q.SampleID)
	}
	if q.AssignedToID != nil {
		db = db.Where("assigned_to_id = ?", *q.AssignedToID)
	}
	if q.Status != nil {
		db = db.Where("status = ?", *q.Status)
	}
	if q.Priority != nil {
		db = db.Where("priority = ?", *q.Priority)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, code.QueryRecordErr.WithErr(err)
	}

	if q.Limit == 0 {
		q.Limit = 20
	}
	list := make([]*model.Job, 0, q.Limit)
	if err := db.Preload("Sample").
		Order("created_at desc").
		Offset(q.Offset).Limit(q.Limit).
		Find(&list).Error; err != nil {
		return nil, 0, code.QueryRecordErr.WithErr(err)
	}
	return list, total, nil
}

func (j *jobImpl) HasOutstandingSiblings(ctx context.Context, sampleID int64, excludeJobID int64) (bool, error) {
	var total int64
	if err := j.DBWithContext(ctx).Model(&model.Job{}).
		Where("sample_id = ? AND id <> ?", sampleID, excludeJobID).
		Where("status IN ?", []model.JobStatus{
			model.JobPending, model.JobAssigned, model.JobInProgress, model.JobOnHold,
		}).
		Count(&total).Error; err != nil {
		return false, code.QueryRecordErr.WithErr(err)
	}
	return total > 0, nil
}

func (j *jobImpl) ListJobTestIDs(ctx context.Context, jobID int64) ([]int64, error) {
	ids := make([]int64, 0, 8)
	if err := j.DBWithContext(ctx).Model(&jobSampleTest{}).
		Where("job_id = ?", jobID).
		Pluck("sample_test_id", &ids).Error; err != nil {
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return ids, nil
}
