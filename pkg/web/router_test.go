package web

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
	uuid "github.com/metabuildlab/lims/pkg/common/uuid"
	auth "github.com/metabuildlab/lims/pkg/middleware/auth"
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
	NewRouter(t.Context(), g)
	return g
}

func seedWithToken(t *testing.T, username string, role common.Role) string {
	t.Helper()
	user := &model.User{Username: username, PasswordHash: "x", Role: role, IsActive: true}
	if err := db.DB().DBIns().Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	token, _, err := auth.IssueToken(user.UUID, user.Username, user.Role)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

func request(g *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)
	return w
}

func TestJobRoutesExcludeOfficeStaff(t *testing.T) {
	g := setupRouter(t)

	// 前台有 operations 权限：样品入库可达，任务板不可达
	staff := seedWithToken(t, "frontdesk", common.RoleOfficeStaff)
	if w := request(g, http.MethodGet, "/api/v1/sample/query", staff); w.Code != http.StatusOK {
		t.Errorf("sample query status = %d, want 200", w.Code)
	}
	if w := request(g, http.MethodGet, "/api/v1/job/query", staff); w.Code != http.StatusForbidden {
		t.Errorf("job query status = %d, want 403", w.Code)
	}

	tech := seedWithToken(t, "tech.moses", common.RoleTechnician)
	if w := request(g, http.MethodGet, "/api/v1/job/query", tech); w.Code != http.StatusOK {
		t.Errorf("technician job query status = %d, want 200", w.Code)
	}
}

func TestClientDeleteIsDirectorOnly(t *testing.T) {
	g := setupRouter(t)
	target := "/api/v1/client/" + uuid.NewV4().String()

	// 前台能建客户但不能删
	staff := seedWithToken(t, "frontdesk", common.RoleOfficeStaff)
	if w := request(g, http.MethodDelete, target, staff); w.Code != http.StatusForbidden {
		t.Errorf("office staff delete status = %d, want 403", w.Code)
	}
	manager := seedWithToken(t, "labmanager", common.RoleLabManager)
	if w := request(g, http.MethodDelete, target, manager); w.Code != http.StatusForbidden {
		t.Errorf("lab manager delete status = %d, want 403", w.Code)
	}

	// 主任通过守卫，剩下的是业务层 not-found
	director := seedWithToken(t, "director", common.RoleDirector)
	if w := request(g, http.MethodDelete, target, director); w.Code != http.StatusNotFound {
		t.Errorf("director delete status = %d, want 404 for unknown client", w.Code)
	}
}
