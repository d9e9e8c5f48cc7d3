package account

import (
	// 外部依赖
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	gin "github.com/gin-gonic/gin"
	sqlite "gorm.io/driver/sqlite"
	gorm "gorm.io/gorm"
	glogger "gorm.io/gorm/logger"

	// 内部引用
	common "github.com/metabuildlab/lims/pkg/common"
	code "github.com/metabuildlab/lims/pkg/common/code"
	core "github.com/metabuildlab/lims/pkg/core/account"
	auth "github.com/metabuildlab/lims/pkg/middleware/auth"
	db "github.com/metabuildlab/lims/pkg/middleware/db"
	model "github.com/metabuildlab/lims/pkg/model"
	migrate "github.com/metabuildlab/lims/pkg/model/migrate"
)

func setupTest(t *testing.T) context.Context {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	ins, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetDBIns(ins)
	if err := migrate.Table(t.Context()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return t.Context()
}

func seedUser(t *testing.T, username string, password string, role common.Role, active bool) *model.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	user := &model.User{
		Username:     username,
		PasswordHash: hash,
		FullName:     "Test " + username,
		Role:         role,
		IsActive:     active,
	}
	if err := db.DB().DBIns().Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestLogin(t *testing.T) {
	ctx := setupTest(t)
	seedUser(t, "director", "correct-horse-battery", common.RoleDirector, true)
	svc := New()

	resp, err := svc.Login(ctx, &core.LoginReq{Username: "director", Password: "correct-horse-battery"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.Token == "" {
		t.Error("token should not be empty")
	}
	if resp.User.RoleName != "Director" {
		t.Errorf("role name = %s", resp.User.RoleName)
	}
	if len(resp.User.Modules) != 5 {
		t.Errorf("director modules = %v", resp.User.Modules)
	}

	claims, err := auth.ParseToken(resp.Token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Role != common.RoleDirector {
		t.Errorf("claims role = %s", claims.Role)
	}
}

// 账号不存在与密码错误返回同一错误，不泄露账号存在性
func TestLoginFailuresAreUniform(t *testing.T) {
	ctx := setupTest(t)
	seedUser(t, "director", "correct-horse-battery", common.RoleDirector, true)
	svc := New()

	_, badUser := svc.Login(ctx, &core.LoginReq{Username: "nobody", Password: "whatever"})
	_, badPass := svc.Login(ctx, &core.LoginReq{Username: "director", Password: "wrong"})
	if !errors.Is(badUser, code.LoginErr) || !errors.Is(badPass, code.LoginErr) {
		t.Fatalf("errs = %v, %v, want LoginErr both", badUser, badPass)
	}
	if badUser.Error() != badPass.Error() {
		t.Errorf("error messages differ: %q vs %q", badUser.Error(), badPass.Error())
	}
}

func TestLoginDisabledUser(t *testing.T) {
	ctx := setupTest(t)
	seedUser(t, "former.staff", "correct-horse-battery", common.RoleTechnician, false)
	svc := New()

	_, err := svc.Login(ctx, &core.LoginReq{Username: "former.staff", Password: "correct-horse-battery"})
	if !errors.Is(err, code.UserDisabled) {
		t.Fatalf("err = %v, want UserDisabled", err)
	}
}

func TestChangePassword(t *testing.T) {
	setupTest(t)
	gin.SetMode(gin.TestMode)
	user := seedUser(t, "tech.grace", "old-password-1", common.RoleTechnician, true)
	svc := New()

	ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
	ctx.Set(auth.USERKEY, user)

	err := svc.ChangePassword(ctx, &core.ChangePasswordReq{
		OldPassword: "wrong",
		NewPassword: "new-password-1",
	})
	if !errors.Is(err, code.LoginErr) {
		t.Fatalf("wrong old password err = %v, want LoginErr", err)
	}

	if err := svc.ChangePassword(ctx, &core.ChangePasswordReq{
		OldPassword: "old-password-1",
		NewPassword: "new-password-1",
	}); err != nil {
		t.Fatalf("change: %v", err)
	}

	if _, err := svc.Login(ctx, &core.LoginReq{Username: "tech.grace", Password: "old-password-1"}); !errors.Is(err, code.LoginErr) {
		t.Fatalf("old password should no longer work, err = %v", err)
	}
	if _, err := svc.Login(ctx, &core.LoginReq{Username: "tech.grace", Password: "new-password-1"}); err != nil {
		t.Fatalf("new password login: %v", err)
	}
}

func TestCreateUser(t *testing.T) {
	ctx := setupTest(t)
	svc := New()

	_, err := svc.CreateUser(ctx, &core.CreateUserReq{
		Username: "ghost",
		Password: "whatever-123",
		FullName: "Ghost",
		Role:     common.Role("superuser"),
	})
	if !errors.Is(err, code.RoleNotExistErr) {
		t.Fatalf("bad role err = %v, want RoleNotExistErr", err)
	}

	created, err := svc.CreateUser(ctx, &core.CreateUserReq{
		Username: "tech.moses",
		Password: "whatever-123",
		FullName: "Moses Okware",
		Role:     common.RoleTechnician,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !created.IsActive || created.RoleName != "Technician" {
		t.Errorf("created = %+v", created)
	}

	if _, err := svc.Login(ctx, &core.LoginReq{Username: "tech.moses", Password: "whatever-123"}); err != nil {
		t.Fatalf("login as created user: %v", err)
	}
}

func TestUpdateUserRoleTakesEffect(t *testing.T) {
	ctx := setupTest(t)
	user := seedUser(t, "promoted", "whatever-123", common.RoleOfficeStaff, true)
	svc := New()

	role := common.RoleLabManager
	if err := svc.UpdateUser(ctx, &core.UpdateUserReq{UUID: user.UUID, Role: &role}); err != nil {
		t.Fatalf("update: %v", err)
	}

	resp, err := svc.Login(ctx, &core.LoginReq{Username: "promoted", Password: "whatever-123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.User.Role != common.RoleLabManager {
		t.Errorf("role = %s, want lab_manager", resp.User.Role)
	}
	hasPricing := false
	for _, m := range resp.User.Modules {
		if m == common.ModulePricing {
			hasPricing = true
		}
	}
	if !hasPricing {
		t.Errorf("lab manager modules = %v, want pricing included", resp.User.Modules)
	}
}
