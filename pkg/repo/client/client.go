package client

import (
	// 外部依赖
	"context"
	"errors"

	// 内部引用
	code "github.com/metabuildlab/lims/pkg/common/code"
	uuid "github.com/metabuildlab/lims/pkg/common/uuid"
	model "github.com/metabuildlab/lims/pkg/model"
	repo "github.com/metabuildlab/lims/pkg/repo"
)

type clientImpl struct {
	repo.BaseRepo
}

func NewClientRepo() repo.ClientRepo {
	return &clientImpl{BaseRepo: repo.NewBaseDB()}
}

func (c *clientImpl) CreateClient(ctx context.Context, client *model.Client) error {
	return c.CreateData(ctx, client)
}

func (c *clientImpl) GetClientByUUID(ctx context.Context, id uuid.UUID) (*model.Client, error) {
	client := &model.Client{}
	if err := c.GetData(ctx, client, "uuid = ?", id); err != nil {
		if errors.Is(err, code.RecordNotFound) {
			return nil, code.ClientNotFound
		}
		return nil, err
	}
	return client, nil
}

func (c *clientImpl) UpdateClientByUUID(ctx context.Context, id uuid.UUID, data map[string]any) error {
	return c.UpdateData(ctx, &model.Client{}, data, "uuid = ?", id)
}

func (c *clientImpl) ListClients(ctx context.Context, q repo.ClientQuery) ([]*model.Client, int64, error) {
	db := c.DBWithContext(ctx).Model(&model.Client{})
	if q.NameLike != nil && *q.NameLike != "" {
		db = db.Where("name LIKE ?", "%"+*q.NameLike+"%")
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
	list := make([]*model.Client, 0, q.Limit)
	if err := db.Order("name asc").Offset(q.Offset).Limit(q.Limit).Find(&list).Error; err != nil {
		return nil, 0, code.QueryRecordErr.WithErr(err)
	}
	return list, total, nil
}

func (c *clientImpl) CountSamples(ctx context.Context, clientID int64) (int64, error) {
	var total int64
	if err := c.DBWithContext(ctx).Model(&model.Sample{}).
		Where("client_id = ?", clientID).
		Count(&total).Error; err != nil {
		return 0, code.QueryRecordErr.WithErr(err)
	}
	return total, nil
}

func (c *clientImpl) DeleteClient(ctx context.Context, id int64) error {
	return c.DeleteData(ctx, &model.Client{}, "id = ?", id)
}
