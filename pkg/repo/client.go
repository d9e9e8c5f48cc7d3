package repo

import (
	// 外部依赖
	"context"

	// 内部引用
	uuid "github.com/metabuildlab/lims/pkg/common/uuid"
	model "github.com/metabuildlab/lims/pkg/model"
)

// ClientQuery 客户列表过滤
type ClientQuery struct {
	NameLike   *string
	ActiveOnly bool
	Offset     int
	Limit      int
}

type ClientRepo interface {
	BaseRepo

	CreateClient(ctx context.Context, client *model.Client) error
	GetClientByUUID(ctx context.Context, id uuid.UUID) (*model.Client, error)
	UpdateClientByUUID(ctx context.Context, id uuid.UUID, data map[string]any) error
	ListClients(ctx context.Context, q ClientQuery) ([]*model.Client, int64, error)
	// CountSamples 客户名下样品数，决定删除策略
	CountSamples(ctx context.Context, clientID int64) (int64, error)
	DeleteClient(ctx context.Context, id int64) error
}
