package model

import (
	// 内部引用
	common "github.com/metabuildlab/lims/pkg/common"
)

// User 实验室员工账号，角色决定模块访问权限
type User struct {
	BaseModel
	Username     string      `gorm:"type:varchar(150);not null;uniqueIndex:idx_user_username" json:"username"`
	PasswordHash string      `gorm:"type:varchar(255);not null" json:"-"`
	FullName     string      `gorm:"type:varchar(200)" json:"full_name"`
	Email        string      `gorm:"type:varchar(254)" json:"email"`
	Phone        string      `gorm:"type:varchar(20)" json:"phone"`
	Department   string      `gorm:"type:varchar(100)" json:"department"`
	Role         common.Role `gorm:"type:varchar(20);not null;default:'office_staff';index:idx_user_role" json:"role"`
	IsActive     bool        `gorm:"not null;default:true" json:"is_active"`
}

func (*User) TableName() string { return "lab_user" }

func (u *User) IsDirector() bool    { return u.Role == common.RoleDirector }
func (u *User) IsLabManager() bool  { return u.Role == common.RoleLabManager }
func (u *User) IsOfficeStaff() bool { return u.Role == common.RoleOfficeStaff }
func (u *User) IsTechnician() bool  { return u.Role == common.RoleTechnician }

func (u *User) CanAccessModule(module common.Module) bool {
	return common.CanAccess(u.Role, module)
}

func (u *User) AccessibleModules() []common.Module {
	return common.AccessibleModules(u.Role)
}
