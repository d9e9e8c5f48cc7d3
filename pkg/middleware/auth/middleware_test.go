package auth

import (
	// 外部依赖
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	gin "github.com/gin-gonic/gin"
	sqlite "gorm.io/driver/sqlite"
	gorm "gorm.io/gorm"
	glogger "gorm.io/gorm/logger"

	// 内部引用
	common "github.com/metabuildlab/lims/pkg/common"
	db "github.com/metabuildlab/lims/pkg/middleware/db"
	model "github.com/metabuildlab/lims/pkg/model"
	migrate "github.com/metabuildlab/lims/pkg/model/migrate"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

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

	g := gin.New()
	g.Use(Auth())
	g.GET("/pricing", RequireModule(common.ModulePricing), func(ctx *gin.Context) {
		user := GetCurrentUser(ctx)
		ctx.String(http.StatusOK, user.Username)
	})
	return g
}

func seedWithToken(t *testing.T, username string, role common.Role, active bool) string {
	t.Helper()
	user := &model.User{Username: username, PasswordHash: "x", Role: role, IsActive: active}
	if err := db.DB().DBIns().Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	token, _, err := IssueToken(user.UUID, user.Username, user.Role)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

func request(g *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/pricing", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	g := setupRouter(t)

	if w := request(g, ""); w.Code != http.StatusUnauthorized {
		t.Errorf("no token status = %d, want 401", w.Code)
	}
	if w := request(g, "garbage"); w.Code != http.StatusUnauthorized {
		t.Errorf("bad token status = %d, want 401", w.Code)
	}

	manager := seedWithToken(t, "labmanager", common.RoleLabManager, true)
	if w := request(g, manager); w.Code != http.StatusOK || w.Body.String() != "labmanager" {
		t.Errorf("manager status = %d body = %q", w.Code, w.Body.String())
	}
}

func TestRequireModuleDeniesByRole(t *testing.T) {
	g := setupRouter(t)

	// 前台无定价模块权限
	staff := seedWithToken(t, "frontdesk", common.RoleOfficeStaff, true)
	if w := request(g, staff); w.Code != http.StatusForbidden {
		t.Errorf("office staff status = %d, want 403", w.Code)
	}
}

func TestAuthReloadsUserFromDB(t *testing.T) {
	g := setupRouter(t)

	token := seedWithToken(t, "demoted", common.RoleLabManager, true)
	if w := request(g, token); w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	// token 仍有效，但角色以库中为准
	if err := db.DB().DBIns().Model(&model.User{}).
		Where("username = ?", "demoted").
		Update("role", common.RoleTechnician).Error; err != nil {
		t.Fatalf("demote: %v", err)
	}
	if w := request(g, token); w.Code != http.StatusForbidden {
		t.Errorf("demoted status = %d, want 403", w.Code)
	}

	// 停用立即生效
	if err := db.DB().DBIns().Model(&model.User{}).
		Where("username = ?", "demoted").
		Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if w := request(g, token); w.Code != http.StatusForbidden {
		t.Errorf("disabled status = %d, want 403", w.Code)
	}
}
