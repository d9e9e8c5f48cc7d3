package account

import (
	// 外部依赖
	"time"

	// 内部引用
	common "github.com/metabuildlab/lims/pkg/common"
	uuid "github.com/metabuildlab/lims/pkg/common/uuid"
)

type LoginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResp struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *UserResp `json:"user"`
}

type ChangePasswordReq struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

type CreateUserReq struct {
	Username   string      `json:"username" binding:"required"`
	Password   string      `json:"password" binding:"required,min=8"`
	FullName   string      `json:"full_name" binding:"required"`
	Email      string      `json:"email" binding:"omitempty,email"`
	Phone      string      `json:"phone"`
	Department string      `json:"department"`
	Role       common.Role `json:"role" binding:"required"`
}

// UpdateUserReq nil 字段不更新，密码重置走单独字段
type UpdateUserReq struct {
	UUID       uuid.UUID    `json:"uuid" binding:"required"`
	FullName   *string      `json:"full_name"`
	Email      *string      `json:"email" binding:"omitempty,email"`
	Phone      *string      `json:"phone"`
	Department *string      `json:"department"`
	Role       *common.Role `json:"role"`
	IsActive   *bool        `json:"is_active"`
	Password   *string      `json:"password" binding:"omitempty,min=8"`
}

type ListUserReq struct {
	common.PageReq

	Role       *common.Role `form:"role"`
	ActiveOnly bool         `form:"active_only"`
}

type UserResp struct {
	UUID       uuid.UUID       `json:"uuid"`
	Username   string          `json:"username"`
	FullName   string          `json:"full_name"`
	Email      string          `json:"email"`
	Phone      string          `json:"phone"`
	Department string          `json:"department"`
	Role       common.Role     `json:"role"`
	RoleName   string          `json:"role_name"`
	IsActive   bool            `json:"is_active"`
	Modules    []common.Module `json:"modules"`
}
