package account

import (
	// 外部依赖
	"context"

	// 内部引用
	common "github.com/metabuildlab/lims/pkg/common"
	code "github.com/metabuildlab/lims/pkg/common/code"
	core "github.com/metabuildlab/lims/pkg/core/account"
	auth "github.com/metabuildlab/lims/pkg/middleware/auth"
	logger "github.com/metabuildlab/lims/pkg/middleware/logger"
	model "github.com/metabuildlab/lims/pkg/model"
	repo "github.com/metabuildlab/lims/pkg/repo"
	repoAccount "github.com/metabuildlab/lims/pkg/repo/account"
	utils "github.com/metabuildlab/lims/pkg/utils"
)

type accountImpl struct {
	accountStore repo.AccountRepo
}

func New() core.Service {
	return &accountImpl{accountStore: repoAccount.NewAccountRepo()}
}

func (a *accountImpl) Login(ctx context.Context, req *core.LoginReq) (*core.LoginResp, error) {
	user, err := a.accountStore.GetUserByUsername(ctx, req.Username)
	if err != nil {
		// 不向外暴露账号是否存在
		return nil, code.LoginErr
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, code.LoginErr
	}
	if !user.IsActive {
		return nil, code.UserDisabled
	}

	token, expiresAt, err := auth.IssueToken(user.UUID, user.Username, user.Role)
	if err != nil {
		logger.Errorf(ctx, "Login issue token user: %s err: %+v", user.Username, err)
		return nil, err
	}

	return &core.LoginResp{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      userResp(user),
	}, nil
}

func (a *accountImpl) Me(ctx context.Context) (*core.UserResp, error) {
	currentUser := auth.GetCurrentUser(ctx)
	if currentUser == nil {
		return nil, code.UnLogin
	}
	return userResp(currentUser), nil
}

func (a *accountImpl) ChangePassword(ctx context.Context, req *core.ChangePasswordReq) error {
	currentUser := auth.GetCurrentUser(ctx)
	if currentUser == nil {
		return code.UnLogin
	}
	if !auth.CheckPassword(currentUser.PasswordHash, req.OldPassword) {
		return code.LoginErr.WithMsg("old password mismatch")
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return a.accountStore.UpdateUserByUUID(ctx, currentUser.UUID, map[string]any{
		"password_hash": hash,
	})
}

func (a *accountImpl) CreateUser(ctx context.Context, req *core.CreateUserReq) (*core.UserResp, error) {
	if !req.Role.Valid() {
		return nil, code.RoleNotExistErr.WithMsg(string(req.Role))
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     req.Username,
		PasswordHash: hash,
		FullName:     req.FullName,
		Email:        req.Email,
		Phone:        req.Phone,
		Department:   req.Department,
		Role:         req.Role,
		IsActive:     true,
	}
	if err := a.accountStore.CreateUser(ctx, user); err != nil {
		logger.Errorf(ctx, "CreateUser username: %s err: %+v", req.Username, err)
		return nil, err
	}
	return userResp(user), nil
}

func (a *accountImpl) UpdateUser(ctx context.Context, req *core.UpdateUserReq) error {
	data := map[string]any{}
	if req.FullName != nil {
		data["full_name"] = *req.FullName
	}
	if req.Email != nil {
		data["email"] = *req.Email
	}
	if req.Phone != nil {
		data["phone"] = *req.Phone
	}
	if req.Department != nil {
		data["department"] = *req.Department
	}
	if req.Role != nil {
		if !req.Role.Valid() {
			return code.RoleNotExistErr.WithMsg(string(*req.Role))
		}
		data["role"] = *req.Role
	}
	if req.IsActive != nil {
		data["is_active"] = *req.IsActive
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return err
		}
		data["password_hash"] = hash
	}
	if len(data) == 0 {
		return code.ParamErr.WithMsg("no fields to update")
	}
	return a.accountStore.UpdateUserByUUID(ctx, req.UUID, data)
}

func (a *accountImpl) ListUsers(ctx context.Context, req *core.ListUserReq) (*common.PageResp[[]*core.UserResp], error) {
	req.Normalize()
	if req.Role != nil && !req.Role.Valid() {
		return nil, code.RoleNotExistErr.WithMsg(string(*req.Role))
	}

	list, total, err := a.accountStore.ListUsers(ctx, repo.UserQuery{
		Role:       req.Role,
		ActiveOnly: req.ActiveOnly,
		Offset:     req.Offset(),
		Limit:      req.PageSize,
	})
	if err != nil {
		return nil, err
	}

	return &common.PageResp[[]*core.UserResp]{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		List:     utils.MapSlice(list, userResp),
	}, nil
}

func userResp(u *model.User) *core.UserResp {
	return &core.UserResp{
		UUID:       u.UUID,
		Username:   u.Username,
		FullName:   u.FullName,
		Email:      u.Email,
		Phone:      u.Phone,
		Department: u.Department,
		Role:       u.Role,
		RoleName:   u.Role.Display(),
		IsActive:   u.IsActive,
		Modules:    common.AccessibleModules(u.Role),
	}
}
