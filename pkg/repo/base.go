package repo

import (
	// 外部依赖
	"context"
	"errors"

	gorm "gorm.io/gorm"

	// 内部引用
	code "github.com/metabuildlab/lims/pkg/common/code"
	uuid "github.com/metabuildlab/lims/pkg/common/uuid"
	db "github.com/metabuildlab/lims/pkg/middleware/db"
	logger "github.com/metabuildlab/lims/pkg/middleware/logger"
)

// BaseRepo 通用数据访问能力，各实体仓库组合复用
type BaseRepo interface {
	DBWithContext(ctx context.Context) *gorm.DB
	CreateData(ctx context.Context, data any) error
	GetData(ctx context.Context, dest any, query string, args ...any) error
	UpdateData(ctx context.Context, m any, updates map[string]any, query string, args ...any) error
	DeleteData(ctx context.Context, m any, query string, args ...any) error
	// uuid 与自增 id 互转，对外暴露 uuid，表内关联走 id
	UUID2ID(ctx context.Context, m any, ids ...uuid.UUID) map[uuid.UUID]int64
	ID2UUID(ctx context.Context, m any, ids ...int64) map[int64]uuid.UUID
}

type baseDB struct{}

func NewBaseDB() BaseRepo {
	return &baseDB{}
}

func (b *baseDB) DBWithContext(ctx context.Context) *gorm.DB {
	return db.DB().WithContext(ctx)
}

func (b *baseDB) CreateData(ctx context.Context, data any) error {
	if err := b.DBWithContext(ctx).Create(data).Error; err != nil {
		return code.CreateDataErr.WithErr(err)
	}
	return nil
}

func (b *baseDB) GetData(ctx context.Context, dest any, query string, args ...any) error {
	err := b.DBWithContext(ctx).Where(query, args...).First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return code.RecordNotFound
	}
	if err != nil {
		return code.QueryRecordErr.WithErr(err)
	}
	return nil
}

func (b *baseDB) UpdateData(ctx context.Context, m any, updates map[string]any, query string, args ...any) error {
	res := b.DBWithContext(ctx).Model(m).Where(query, args...).Updates(updates)
	if res.Error != nil {
		return code.UpdateDataErr.WithErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return code.RecordNotFound
	}
	return nil
}

func (b *baseDB) DeleteData(ctx context.Context, m any, query string, args ...any) error {
	if err := b.DBWithContext(ctx).Where(query, args...).Delete(m).Error; err != nil {
		return code.DeleteDataErr.WithErr(err)
	}
	return nil
}

type idPair struct {
	ID   int64     `gorm:"column:id"`
	UUID uuid.UUID `gorm:"column:uuid"`
}

func (b *baseDB) UUID2ID(ctx context.Context, m any, ids ...uuid.UUID) map[uuid.UUID]int64 {
	out := make(map[uuid.UUID]int64, len(ids))
	if len(ids) == 0 {
		return out
	}

	pairs := make([]idPair, 0, len(ids))
	if err := b.DBWithContext(ctx).Model(m).
		Select("id", "uuid").
		Where("uuid IN ?", ids).
		Find(&pairs).Error; err != nil {
		logger.Errorf(ctx, "UUID2ID err: %+v", err)
		return out
	}

	for _, p := range pairs {
		out[p.UUID] = p.ID
	}
	return out
}

func (b *baseDB) ID2UUID(ctx context.Context, m any, ids ...int64) map[int64]uuid.UUID {
	out := make(map[int64]uuid.UUID, len(ids))
	if len(ids) == 0 {
		return out
	}

	pairs := make([]idPair, 0, len(ids))
	if err := b.DBWithContext(ctx).Model(m).
		Select("id", "uuid").
		Where("id IN ?", ids).
		Find(&pairs).Error; err != nil {
		logger.Errorf(ctx, "ID2UUID err: %+v", err)
		return out
	}

	for _, p := range pairs {
		out[p.ID] = p.UUID
	}
	return out
}
