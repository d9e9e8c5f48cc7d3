package job

import (
	// 外部依赖
	"errors"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gin "github.com/gin-gonic/gin"
	decimal "github.com/shopspring/decimal"
	sqlite "gorm.io/driver/sqlite"
	gorm "gorm.io/gorm"
	glogger "gorm.io/gorm/logger"

	// 内部引用
	common "github.com/metabuildlab/lims/pkg/common"
	code "github.com/metabuildlab/lims/pkg/common/code"
	uuid "github.com/metabuildlab/lims/pkg/common/uuid"
	core "github.com/metabuildlab/lims/pkg/core/job"
	auth "github.com/metabuildlab/lims/pkg/middleware/auth"
	db "github.com/metabuildlab/lims/pkg/middleware/db"
	model "github.com/metabuildlab/lims/pkg/model"
	migrate "github.com/metabuildlab/lims/pkg/model/migrate"
)

type fixture struct {
	ctx        *gin.Context
	manager    *model.User
	technician *model.User
	sample     *model.Sample
	tests      []*model.SampleTest
}

func setupTest(t *testing.T) *fixture {
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

	manager := &model.User{Username: "labmanager", PasswordHash: "x", Role: common.RoleLabManager, IsActive: true}
	technician := &model.User{Username: "tech.moses", PasswordHash: "x", Role: common.RoleTechnician, IsActive: true}
	client := &model.Client{Name: "Kampala Construction Ltd", IsActive: true}
	for _, row := range []any{manager, technician, client} {
		if err := ins.Create(row).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	cat := &model.TestCategory{Code: "SOIL", Name: "Soil - Laboratory tests", IsActive: true}
	if err := ins.Create(cat).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
	sub := &model.TestSubCategory{CategoryID: cat.ID, Name: "Physical Properties", IsActive: true}
	if err := ins.Create(sub).Error; err != nil {
		t.Fatalf("seed subcategory: %v", err)
	}

	sample := &model.Sample{
		SampleID:        "MBL2026080001",
		ClientID:        client.ID,
		SampleType:      "Soil",
		SampleCondition: model.ConditionGood,
		ReceivedByID:    manager.ID,
		ReceivedDate:    time.Now(),
		Priority:        model.PriorityNormal,
		Status:          model.SampleReceived,
	}
	if err := ins.Create(sample).Error; err != nil {
		t.Fatalf("seed sample: %v", err)
	}

	tests := make([]*model.SampleTest, 0, 2)
	for idx, name := range []string{"Moisture Content", "Atterberg Limits"} {
		item := &model.TestItem{
			SystemCode:    fmt.Sprintf("SOIL-PHY-%03d", idx+1),
			DisplayCode:   fmt.Sprintf("SOIL-PHY-%03d", idx+1),
			CategoryID:    cat.ID,
			SubCategoryID: sub.ID,
			TestName:      name,
			Unit:          "per test",
			Currency:      model.CurrencyUGX,
			Price:         decimal.NewFromInt(35000),
			SampleType:    "Soil",
			IsActive:      true,
		}
		if err := ins.Create(item).Error; err != nil {
			t.Fatalf("seed item: %v", err)
		}
		st := &model.SampleTest{SampleID: sample.ID, TestItemID: item.ID, QuantityRequested: 1}
		if err := ins.Create(st).Error; err != nil {
			t.Fatalf("seed sample test: %v", err)
		}
		tests = append(tests, st)
	}

	ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
	ctx.Set(auth.USERKEY, manager)
	return &fixture{ctx: ctx, manager: manager, technician: technician, sample: sample, tests: tests}
}

func (f *fixture) sampleStatus(t *testing.T) model.SampleStatus {
	t.Helper()
	sample := &model.Sample{}
	if err := db.DB().DBIns().
		Where("id = ?", f.sample.ID).
		Take(sample).Error; err != nil {
		t.Fatalf("sample status: %v", err)
	}
	return sample.Status
}

func TestCreateAndAssign(t *testing.T) {
	f := setupTest(t)
	svc := New()

	job, err := svc.Create(f.ctx, &core.CreateReq{
		SampleUUID: f.sample.UUID,
		TestUUIDs:  []uuid.UUID{f.tests[0].UUID},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if job.Status != model.JobPending {
		t.Errorf("status = %s, want pending", job.Status)
	}
	now := time.Now()
	wantID := fmt.Sprintf("JOB%04d%02d0001", now.Year(), int(now.Month()))
	if job.JobID != wantID {
		t.Errorf("job id = %s, want %s", job.JobID, wantID)
	}
	if len(job.Tests) != 1 || job.Tests[0].TestName != "Moisture Content" {
		t.Fatalf("tests = %+v", job.Tests)
	}

	// 非技术员不可指派
	err = svc.Assign(f.ctx, &core.AssignReq{UUID: job.UUID, AssignedToUUID: f.manager.UUID})
	if !errors.Is(err, code.NotTechnicianErr) {
		t.Fatalf("assign manager err = %v, want NotTechnicianErr", err)
	}

	if err := svc.Assign(f.ctx, &core.AssignReq{UUID: job.UUID, AssignedToUUID: f.technician.UUID}); err != nil {
		t.Fatalf("assign: %v", err)
	}
	job, err = svc.Get(f.ctx, job.UUID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if job.Status != model.JobAssigned {
		t.Errorf("status = %s, want assigned", job.Status)
	}
	if job.AssignedToUUID == nil || *job.AssignedToUUID != f.technician.UUID {
		t.Errorf("assigned to = %v, want technician", job.AssignedToUUID)
	}
	if job.AssignedDate == nil {
		t.Error("assigned date should be set")
	}
}

func TestCreateRejectsForeignTests(t *testing.T) {
	f := setupTest(t)
	svc := New()

	_, err := svc.Create(f.ctx, &core.CreateReq{
		SampleUUID: f.sample.UUID,
		TestUUIDs:  []uuid.UUID{uuid.NewV4()},
	})
	if !errors.Is(err, code.ValidationErr) {
		t.Fatalf("err = %v, want ValidationErr", err)
	}
}

func TestCreateRejectsEmptyTests(t *testing.T) {
	f := setupTest(t)
	svc := New()

	// 绕过 HTTP 绑定直接调用服务层也不能建出零测试任务
	_, err := svc.Create(f.ctx, &core.CreateReq{
		SampleUUID: f.sample.UUID,
		TestUUIDs:  []uuid.UUID{},
	})
	if !errors.Is(err, code.ValidationErr) {
		t.Fatalf("err = %v, want ValidationErr", err)
	}

	var count int64
	if err := db.DB().DBIns().Model(&model.Job{}).Count(&count).Error; err != nil {
		t.Fatalf("count jobs: %v", err)
	}
	if count != 0 {
		t.Errorf("jobs = %d, want 0", count)
	}
}

func TestStartWorkAdvancesSample(t *testing.T) {
	f := setupTest(t)
	svc := New()

	job, err := svc.Create(f.ctx, &core.CreateReq{
		SampleUUID:     f.sample.UUID,
		AssignedToUUID: &f.technician.UUID,
		TestUUIDs:      []uuid.UUID{f.tests[0].UUID, f.tests[1].UUID},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if job.Status != model.JobAssigned {
		t.Fatalf("status = %s, want assigned", job.Status)
	}

	if err := svc.StartWork(f.ctx, job.UUID); err != nil {
		t.Fatalf("start: %v", err)
	}
	job, _ = svc.Get(f.ctx, job.UUID)
	if job.Status != model.JobInProgress {
		t.Errorf("status = %s, want in_progress", job.Status)
	}
	if job.StartedDate == nil {
		t.Error("started date should be set")
	}
	if got := f.sampleStatus(t); got != model.SampleInProgress {
		t.Errorf("sample status = %s, want in_progress", got)
	}

	// 重复开工拒绝
	if err := svc.StartWork(f.ctx, job.UUID); !errors.Is(err, code.InvalidTransition) {
		t.Fatalf("restart err = %v, want InvalidTransition", err)
	}

	var historyRows int64
	if err := db.DB().DBIns().Model(&model.SampleStatusHistory{}).
		Where("sample_id = ?", f.sample.ID).
		Count(&historyRows).Error; err != nil {
		t.Fatalf("count history: %v", err)
	}
	if historyRows != 1 {
		t.Errorf("history rows = %d, want 1", historyRows)
	}
}

func TestCompleteLastJobAdvancesSample(t *testing.T) {
	f := setupTest(t)
	svc := New()

	first, err := svc.Create(f.ctx, &core.CreateReq{
		SampleUUID: f.sample.UUID,
		TestUUIDs:  []uuid.UUID{f.tests[0].UUID},
	})
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	second, err := svc.Create(f.ctx, &core.CreateReq{
		SampleUUID: f.sample.UUID,
		TestUUIDs:  []uuid.UUID{f.tests[1].UUID},
	})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	if err := svc.StartWork(f.ctx, first.UUID); err != nil {
		t.Fatalf("start first: %v", err)
	}
	if err := svc.StartWork(f.ctx, second.UUID); err != nil {
		t.Fatalf("start second: %v", err)
	}

	// 还有未完结的兄弟任务，样品停在 in_progress
	if err := svc.Complete(f.ctx, &core.CompleteReq{UUID: first.UUID}); err != nil {
		t.Fatalf("complete first: %v", err)
	}
	if got := f.sampleStatus(t); got != model.SampleInProgress {
		t.Fatalf("sample status = %s, want in_progress", got)
	}

	var completed int64
	if err := db.DB().DBIns().Model(&model.SampleTest{}).
		Where("id = ? AND is_completed = ?", f.tests[0].ID, true).
		Count(&completed).Error; err != nil {
		t.Fatalf("count completed: %v", err)
	}
	if completed != 1 {
		t.Error("first job's test should be completed")
	}

	// 最后一张完结，样品进入 testing
	if err := svc.Complete(f.ctx, &core.CompleteReq{UUID: second.UUID, Notes: "all cubes crushed"}); err != nil {
		t.Fatalf("complete second: %v", err)
	}
	if got := f.sampleStatus(t); got != model.SampleTesting {
		t.Fatalf("sample status = %s, want testing", got)
	}

	second, _ = svc.Get(f.ctx, second.UUID)
	if second.CompletedDate == nil {
		t.Error("completed date should be set")
	}
	if !strings.Contains(second.Notes, "Completed: all cubes crushed") {
		t.Errorf("notes = %q", second.Notes)
	}
}

func TestCompleteRequiresInProgress(t *testing.T) {
	f := setupTest(t)
	svc := New()

	job, err := svc.Create(f.ctx, &core.CreateReq{
		SampleUUID: f.sample.UUID,
		TestUUIDs:  []uuid.UUID{f.tests[0].UUID},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	err = svc.Complete(f.ctx, &core.CompleteReq{UUID: job.UUID})
	if !errors.Is(err, code.InvalidTransition) {
		t.Fatalf("err = %v, want InvalidTransition", err)
	}

	// 非法转移不得产生任何副作用
	job, _ = svc.Get(f.ctx, job.UUID)
	if job.Status != model.JobPending {
		t.Errorf("status = %s, want pending", job.Status)
	}
	var completed int64
	if err := db.DB().DBIns().Model(&model.SampleTest{}).
		Where("sample_id = ? AND is_completed = ?", f.sample.ID, true).
		Count(&completed).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if completed != 0 {
		t.Error("no tests should be completed")
	}
	if got := f.sampleStatus(t); got != model.SampleReceived {
		t.Errorf("sample status = %s, want received", got)
	}
}

func TestHoldAndResume(t *testing.T) {
	f := setupTest(t)
	svc := New()

	job, err := svc.Create(f.ctx, &core.CreateReq{
		SampleUUID:     f.sample.UUID,
		AssignedToUUID: &f.technician.UUID,
		TestUUIDs:      []uuid.UUID{f.tests[0].UUID},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.StartWork(f.ctx, job.UUID); err != nil {
		t.Fatalf("start: %v", err)
	}

	if err := svc.PutOnHold(f.ctx, &core.HoldReq{UUID: job.UUID, Reason: "compression machine down"}); err != nil {
		t.Fatalf("hold: %v", err)
	}
	job, _ = svc.Get(f.ctx, job.UUID)
	if job.Status != model.JobOnHold {
		t.Errorf("status = %s, want on_hold", job.Status)
	}
	if !strings.Contains(job.Notes, "On hold: compression machine down") {
		t.Errorf("notes = %q", job.Notes)
	}

	// 挂起的任务不可完结
	if err := svc.Complete(f.ctx, &core.CompleteReq{UUID: job.UUID}); !errors.Is(err, code.InvalidTransition) {
		t.Fatalf("complete on hold err = %v, want InvalidTransition", err)
	}

	started := job.StartedDate
	if err := svc.Resume(f.ctx, job.UUID); err != nil {
		t.Fatalf("resume: %v", err)
	}
	job, _ = svc.Get(f.ctx, job.UUID)
	if job.Status != model.JobInProgress {
		t.Errorf("status = %s, want in_progress", job.Status)
	}
	if started == nil || job.StartedDate == nil || !job.StartedDate.Equal(*started) {
		t.Errorf("started date changed on resume: %v -> %v", started, job.StartedDate)
	}
}
