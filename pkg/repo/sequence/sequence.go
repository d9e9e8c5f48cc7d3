package sequence

import (
	// 外部依赖
	"context"

	// 内部引用
	code "github.com/metabuildlab/lims/pkg/common/code"
	logger "github.com/metabuildlab/lims/pkg/middleware/logger"
	repo "github.com/metabuildlab/lims/pkg/repo"
)

type sequenceImpl struct {
	repo.BaseRepo
}

func NewSequenceRepo() repo.SequenceRepo {
	return &sequenceImpl{BaseRepo: repo.NewBaseDB()}
}

// Next 单条 upsert 自增并取回序号
// postgres 与 sqlite 均支持 ON CONFLICT DO UPDATE ... RETURNING，
// 行锁保证并发调用拿到严格递增的不同序号
func (s *sequenceImpl) Next(ctx context.Context, name string, period string) (int64, error) {
	var value int64
	err := s.DBWithContext(ctx).Raw(`
		INSERT INTO sequence_counter (name, period, value)
		VALUES (?, ?, 1)
		ON CONFLICT (name, period)
		DO UPDATE SET value = sequence_counter.value + 1
		RETURNING value`,
		name, period).Scan(&value).Error
	if err != nil {
		logger.Errorf(ctx, "sequence next err name: %s, period: %s, err: %+v", name, period, err)
		return 0, code.GenerateIDErr.WithErr(err)
	}
	return value, nil
}
