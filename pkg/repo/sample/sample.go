package sample

import (
	// 外部依赖
	"context"
	"errors"
	"time"

	gorm "gorm.io/gorm"

	// 内部引用
	code "github.com/metabuildlab/lims/pkg/common/code"
	uuid "github.com/metabuildlab/lims/pkg/common/uuid"
	db "github.com/metabuildlab/lims/pkg/middleware/db"
	logger "github.com/metabuildlab/lims/pkg/middleware/logger"
	model "github.com/metabuildlab/lims/pkg/model"
	repo "github.com/metabuildlab/lims/pkg/repo"
)

type sampleImpl struct {
	repo.BaseRepo
}

func NewSampleRepo() repo.SampleRepo {
	return &sampleImpl{BaseRepo: repo.NewBaseDB()}
}

// CreateSample 样品连同测试项一并写入，同一事务
func (s *sampleImpl) CreateSample(ctx context.Context, sample *model.Sample, tests []*model.SampleTest) error {
	return db.DB().ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.CreateData(txCtx, sample); err != nil {
			return err
		}
		for _, t := range tests {
			t.SampleID = sample.ID
		}
		if len(tests) > 0 {
			if err := s.CreateData(txCtx, &tests); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *sampleImpl) GetSampleByUUID(ctx context.Context, id uuid.UUID) (*model.Sample, error) {
	sample := &model.Sample{}
	err := s.DBWithContext(ctx).
		Preload("Client").
		Preload("Tests").
		Preload("Tests.TestItem").
		Where("uuid = ?", id).
		First(sample).Error
	return s.wrapNotFound(sample, err)
}

func (s *sampleImpl) GetSampleBySampleID(ctx context.Context, sampleID string) (*model.Sample, error) {
	sample := &model.Sample{}
	err := s.DBWithContext(ctx).
		Preload("Client").
		Preload("Tests").
		Preload("Tests.TestItem").
		Where("sample_id = ?", sampleID).
		First(sample).Error
	return s.wrapNotFound(sample, err)
}

func (s *sampleImpl) wrapNotFound(sample *model.Sample, err error) (*model.Sample, error) {
	if err == nil {
		return sample, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, code.SampleNotFound
	}
	return nil, code.QueryRecordErr.WithErr(err)
}

func (s *sampleImpl) UpdateSampleByUUID(ctx context.Context, id uuid.UUID, data map[string]any) error {
	return s.UpdateData(ctx, &model.Sample{}, data, "uuid = ?", id)
}

func (s *sampleImpl) ListSamples(ctx context.Context, q repo.SampleQuery) ([]*model.Sample, int64, error) {
	db := s.DBWithContext(ctx).Model(&model.Sample{})

	if q.ClientID != nil {
		db = db.Where("client_id = ?", *q.ClientID)
	}
	if q.Status != nil {
		db = db.Where("status = ?", *q.Status)
	}
	if q.Priority != nil {
		db = db.Where("priority = ?", *q.Priority)
	}
	if q.SampleIDLike != nil && *q.SampleIDLike != "" {
		db = db.Where("sample_id LIKE ?", "%"+*q.SampleIDLike+"%")
	}
	if q.ReceivedFrom != nil {
		db = db.Where("received_date >= ?", *q.ReceivedFrom)
	}
	if q.ReceivedTo != nil {
		db = db.Where("received_date < ?", *q.ReceivedTo)
	}
	if q.ReceiptCandidates {
		db = db.Where("status = ?", model.SampleReceived).
			Where("receipt_form_id IS NULL")
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, code.QueryRecordErr.WithErr(err)
	}

	if q.Limit == 0 {
		q.Limit = 20
	}
	list := make([]*model.Sample, 0, q.Limit)
	if err := db.Preload("Client").
		Order("received_date desc").
		Offset(q.Offset).Limit(q.Limit).
		Find(&list).Error; err != nil {
		return nil, 0, code.QueryRecordErr.WithErr(err)
	}
	return list, total, nil
}

// SetStatus 状态更新与审计追加绑定在同一事务
// 带旧状态条件更新，防止并发下覆盖他人流转
func (s *sampleImpl) SetStatus(ctx context.Context, change *repo.StatusChange) error {
	return db.DB().ExecTx(ctx, func(txCtx context.Context) error {
		res := s.DBWithContext(txCtx).Model(&model.Sample{}).
			Where("id = ? AND status = ?", change.SampleID, change.Old).
			Update("status", change.New)
		if res.Error != nil {
			return code.UpdateDataErr.WithErr(res.Error)
		}
		if res.RowsAffected == 0 {
			return code.InvalidTransition
		}

		at := change.ChangedAt
		if at.IsZero() {
			at = time.Now()
		}
		history := &model.SampleStatusHistory{
			SampleID:    change.SampleID,
			OldStatus:   change.Old,
			NewStatus:   change.New,
			ChangedByID: change.ActorID,
			ChangedAt:   at,
			Notes:       change.Notes,
		}
		return s.CreateData(txCtx, history)
	})
}

func (s *sampleImpl) ListStatusHistory(ctx context.Context, sampleID int64) ([]*model.SampleStatusHistory, error) {
	list := make([]*model.SampleStatusHistory, 0, 8)
	if err := s.DBWithContext(ctx).
		Where("sample_id = ?", sampleID).
		Order("changed_at asc, id asc").
		Find(&list).Error; err != nil {
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return list, nil
}

func (s *sampleImpl) AddTests(ctx context.Context, tests []*model.SampleTest) error {
	if len(tests) == 0 {
		return nil
	}
	if err := s.DBWithContext(ctx).Create(&tests).Error; err != nil {
		logger.Errorf(ctx, "AddTests err: %+v", err)
		return code.CreateDataErr.WithErr(err)
	}
	return nil
}

func (s *sampleImpl) ListTests(ctx context.Context, sampleID int64) ([]*model.SampleTest, error) {
	list := make([]*model.SampleTest, 0, 8)
	if err := s.DBWithContext(ctx).
		Preload("TestItem").
		Where("sample_id = ?", sampleID).
		Find(&list).Error; err != nil {
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return list, nil
}

func (s *sampleImpl) CountTests(ctx context.Context, sampleID int64) (int64, error) {
	var total int64
	if err := s.DBWithContext(ctx).Model(&model.SampleTest{}).
		Where("sample_id = ?", sampleID).
		Count(&total).Error; err != nil {
		return 0, code.QueryRecordErr.WithErr(err)
	}
	return total, nil
}

func (s *sampleImpl) GetTestsByUUIDs(ctx context.Context, sampleID int64, ids []uuid.UUID) ([]*model.SampleTest, error) {
	list := make([]*model.SampleTest, 0, len(ids))
	if err := s.DBWithContext(ctx).
		Where("sample_id = ? AND uuid IN ?", sampleID, ids).
		Find(&list).Error; err != nil {
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return list, nil
}

func (s *sampleImpl) CompleteTests(ctx context.Context, testIDs []int64, actorID int64, at time.Time) error {
	if len(testIDs) == 0 {
		return nil
	}
	if err := s.DBWithContext(ctx).Model(&model.SampleTest{}).
		Where("id IN ? AND is_completed = ?", testIDs, false).
		Updates(map[string]any{
			"is_completed":    true,
			"completed_date":  at,
			"completed_by_id": actorID,
		}).Error; err != nil {
		return code.UpdateDataErr.WithErr(err)
	}
	return nil
}
