package account

import (
	// 外部依赖
	"context"
	"errors"

	gorm "gorm.io/gorm"

	// 内部引用
	code "github.com/metabuildlab/lims/pkg/common/code"
	uuid "github.com/metabuildlab/lims/pkg/common/uuid"
	model "github.com/metabuildlab/lims/pkg/model"
	repo "github.com/metabuildlab/lims/pkg/repo"
)

type accountImpl struct {
	repo.BaseRepo
}

func NewAccountRepo() repo.AccountRepo {
	return &accountImpl{BaseRepo: repo.NewBaseDB()}
}

func (a *accountImpl) CreateUser(ctx context.Context, user *model.User) error {
	return a.CreateData(ctx, user)
}

func (a *accountImpl) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	user := &model.User{}
	err := a.DBWithContext(ctx).Where("username = ?", username).First(user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, code.UserNotFound
	}
	if err != nil {
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return user, nil
}

func (a *accountImpl) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	user := &model.User{}
	if err := a.GetData(ctx, user, "id = ?", id); err != nil {
		if errors.Is(err, code.RecordNotFound) {
			return nil, code.UserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (a *accountImpl) GetUserByUUID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user := &model.User{}
	if err := a.GetData(ctx, user, "uuid = ?", id); err != nil {
		if errors.Is(err, code.RecordNotFound) {
			return nil, code.UserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (a *accountImpl) UpdateUserByUUID(ctx context.Context, id uuid.UUID, data map[string]any) error {
	return a.UpdateData(ctx, &model.User{}, data, "uuid = ?", id)
}

func (a *accountImpl) ListUsers(ctx context.Context, q repo.UserQuery) ([]*model.User, int64, error) {
	db := a.DBWithContext(ctx).Model(&model.User{})
	if q.Role != nil {
		db = db.Where("role = ?", *q.Role)
	}
	if q.ActiveOnly {
		db = db.Where("is_active = ?", true)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, code.QueryRecordErr.WithErr(err)
	}

	if q.Limit == 0 {
		q.Limit = 20
	}
	list := make([]*model.User, 0, q.Limit)
	if err := db.Order("username asc").Offset(q.Offset).Limit(q.Limit).Find(&list).Error; err != nil {
		return nil, 0, code.QueryRecordErr.WithErr(err)
	}
	return list, total, nil
}
