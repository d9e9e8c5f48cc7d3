package repo

import (
	// 外部依赖
	"context"

	// 内部引用
	common "github.com/metabuildlab/lims/pkg/common"
	uuid "github.com/metabuildlab/lims/pkg/common/uuid"
	model "github.com/metabuildlab/lims/pkg/model"
)

// UserQuery 用户列表过滤
type UserQuery struct {
	Role       *common.Role
	ActiveOnly bool
	Offset     int
	Limit      int
}

type AccountRepo interface {
	BaseRepo

	CreateUser(ctx context.Context, user *model.User) error
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	GetUserByUUID(ctx context.Context, id uuid.UUID) (*model.User, error)
	UpdateUserByUUID(ctx context.Context, id uuid.UUID, data map[string]any) error
	ListUsers(ctx context.Context, q UserQuery) ([]*model.User, int64, error)
}
