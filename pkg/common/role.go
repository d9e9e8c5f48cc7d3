package common

import (
	// 内部引用
	utils "github.com/metabuildlab/lims/pkg/utils"
)

// Role 实验室人员角色
type Role string

const (
	RoleDirector    Role = "director"
	RoleLabManager  Role = "lab_manager"
	RoleOfficeStaff Role = "office_staff"
	RoleTechnician  Role = "technician"
)

// Module 业务模块
type Module string

const (
	ModuleSales      Module = "sales"
	ModuleOperations Module = "operations"
	ModulePricing    Module = "pricing"
	ModuleFinance    Module = "finance"
	ModuleConfig     Module = "config"
)

// accessMatrix 角色到可访问模块的静态映射，所有入口统一查询此表
var accessMatrix = map[Role][]Module{
	RoleDirector:    {ModuleSales, ModuleOperations, ModulePricing, ModuleFinance, ModuleConfig},
	RoleLabManager:  {ModuleSales, ModuleOperations, ModulePricing, ModuleFinance},
	RoleOfficeStaff: {ModuleSales, ModuleOperations, ModuleFinance},
	RoleTechnician:  {ModuleOperations},
}

func (r Role) Valid() bool {
	_, ok := accessMatrix[r]
	return ok
}

func (r Role) Display() string {
	switch r {
	case RoleDirector:
		return "Director"
	case RoleLabManager:
		return "Lab Manager"
	case RoleOfficeStaff:
		return "Office Staff"
	case RoleTechnician:
		return "Technician"
	}
	return string(r)
}

// AccessibleModules 返回角色可访问的模块集合
func AccessibleModules(role Role) []Module {
	modules := accessMatrix[role]
	out := make([]Module, len(modules))
	copy(out, modules)
	return out
}

// CanAccess 模块级访问判定
func CanAccess(role Role, module Module) bool {
	return utils.Contains(accessMatrix[role], module)
}

// Guard 角色判定谓词，模块守卫与动作守卫均以此组合
type Guard func(Role) bool

// ModuleGuard 返回模块访问守卫
func ModuleGuard(module Module) Guard {
	return func(role Role) bool {
		return CanAccess(role, module)
	}
}

// RoleGuard 返回只允许指定角色的守卫
func RoleGuard(roles ...Role) Guard {
	return func(role Role) bool {
		return utils.Contains(roles, role)
	}
}

// AllOf 组合守卫，全部通过才放行
func AllOf(guards ...Guard) Guard {
	return func(role Role) bool {
		for _, g := range guards {
			if !g(role) {
				return false
			}
		}
		return true
	}
}

// NotRole 返回排除指定角色的守卫
func NotRole(roles ...Role) Guard {
	return func(role Role) bool {
		return !utils.Contains(roles, role)
	}
}
