package account

import (
	// 外部依赖
	"context"

	// 内部引用
	common "github.com/metabuildlab/lims/pkg/common"
)

// Service 账号与登录业务接口
// 用户管理入口在配置模块，仅负责人角色可达
type Service interface {
	// Login 用户名密码换取 token
	Login(ctx context.Context, req *LoginReq) (*LoginResp, error)
	// Me 当前登录用户
	Me(ctx context.Context) (*UserResp, error)
	// ChangePassword 修改本人密码
	ChangePassword(ctx context.Context, req *ChangePasswordReq) error

	// CreateUser 新建账号
	CreateUser(ctx context.Context, req *CreateUserReq) (*UserResp, error)
	// UpdateUser 更新账号（角色调整、停用等）
	UpdateUser(ctx context.Context, req *UpdateUserReq) error
	// ListUsers 账号列表
	ListUsers(ctx context.Context, req *ListUserReq) (*common.PageResp[[]*UserResp], error)
}
