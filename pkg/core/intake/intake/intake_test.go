package intake

import (
	// 外部依赖
	"errors"
	"fmt"
	"net/http/httptest"
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
	core "github.com/metabuildlab/lims/pkg/core/intake"
	auth "github.com/metabuildlab/lims/pkg/middleware/auth"
	db "github.com/metabuildlab/lims/pkg/middleware/db"
	model "github.com/metabuildlab/lims/pkg/model"
	migrate "github.com/metabuildlab/lims/pkg/model/migrate"
)

func setupTest(t *testing.T) *gin.Context {
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

	user := &model.User{
		Username:     "frontdesk",
		PasswordHash: "x",
		FullName:     "Front Desk",
		Role:         common.RoleOfficeStaff,
		IsActive:     true,
	}
	if err := ins.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
	ctx.Set(auth.USERKEY, user)
	return ctx
}

func seedClient(t *testing.T, name string) *model.Client {
	t.Helper()
	client := &model.Client{Name: name, ContactPerson: "Eng. Okoth", IsActive: true}
	if err := db.DB().DBIns().Create(client).Error; err != nil {
		t.Fatalf("seed client: %v", err)
	}
	return client
}

func seedTestItem(t *testing.T, systemCode string) *model.TestItem {
	t.Helper()
	ins := db.DB().DBIns()
	cat := &model.TestCategory{Code: "SOIL", Name: "Soil - Laboratory tests", IsActive: true}
	if err := ins.Where(&model.TestCategory{Code: cat.Code}).FirstOrCreate(cat).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
	sub := &model.TestSubCategory{CategoryID: cat.ID, Name: "Physical Properties", IsActive: true}
	if err := ins.Where(&model.TestSubCategory{CategoryID: cat.ID, Name: sub.Name}).FirstOrCreate(sub).Error; err != nil {
		t.Fatalf("seed subcategory: %v", err)
	}
	item := &model.TestItem{
		SystemCode:    systemCode,
		DisplayCode:   systemCode,
		CategoryID:    cat.ID,
		SubCategoryID: sub.ID,
		TestName:      "Moisture Content",
		Unit:          "per test",
		Currency:      model.CurrencyUGX,
		Price:         decimal.NewFromInt(35000),
		TATDays:       3,
		SampleType:    "Soil",
		IsActive:      true,
	}
	if err := ins.Create(item).Error; err != nil {
		t.Fatalf("seed test item: %v", err)
	}
	return item
}

func TestRegisterSampleGeneratesIdentifiers(t *testing.T) {
	ctx := setupTest(t)
	client := seedClient(t, "Kampala Construction Ltd")
	item := seedTestItem(t, "SOIL-PHY-001")
	svc := New()

	req := &core.RegisterSampleReq{
		ClientUUID: client.UUID,
		SampleType: "Soil",
		Tests:      []*core.TestReq{{TestItemUUID: item.UUID}},
	}
	first, err := svc.RegisterSample(ctx, req)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	second, err := svc.RegisterSample(ctx, req)
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	now := time.Now()
	wantFirst := fmt.Sprintf("MBL%04d%02d0001", now.Year(), int(now.Month()))
	wantSecond := fmt.Sprintf("MBL%04d%02d0002", now.Year(), int(now.Month()))
	if first.SampleID != wantFirst || second.SampleID != wantSecond {
		t.Errorf("sample ids = %s, %s, want %s, %s", first.SampleID, second.SampleID, wantFirst, wantSecond)
	}
	wantRef := fmt.Sprintf("CR%04d%02d0001", now.Year(), int(now.Month()))
	if first.ClientReference != wantRef {
		t.Errorf("client reference = %s, want %s", first.ClientReference, wantRef)
	}

	if first.Status != model.SampleReceived {
		t.Errorf("status = %s, want received", first.Status)
	}
	if first.SampleCondition != model.ConditionGood || first.Priority != model.PriorityNormal {
		t.Errorf("defaults not applied: condition %s priority %s", first.SampleCondition, first.Priority)
	}
	if len(first.Tests) != 1 || first.Tests[0].TestName != "Moisture Content" {
		t.Fatalf("tests = %+v", first.Tests)
	}

	// 登记即写入首条状态记录，旧状态留空
	history, err := svc.StatusHistory(ctx, first.UUID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("history rows = %d, want 1", len(history))
	}
	if history[0].OldStatus != "" || history[0].NewStatus != model.SampleReceived {
		t.Errorf("initial history = %+v", history[0])
	}
}

func TestEstimatedCompletionFromMaxTAT(t *testing.T) {
	ctx := setupTest(t)
	client := seedClient(t, "Kampala Construction Ltd")
	moisture := seedTestItem(t, "SOIL-PHY-001")
	cbr := seedTestItem(t, "SOIL-PHY-002")
	if err := db.DB().DBIns().Model(cbr).Update("tat_days", 7).Error; err != nil {
		t.Fatalf("bump tat: %v", err)
	}
	svc := New()

	registered, err := svc.RegisterSample(ctx, &core.RegisterSampleReq{
		ClientUUID: client.UUID,
		SampleType: "Soil",
		Tests: []*core.TestReq{
			{TestItemUUID: moisture.UUID},
			{TestItemUUID: cbr.UUID},
		},
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	// 预计完成日取所有测试的最大周转天数
	detail, err := svc.GetSample(ctx, registered.UUID)
	if err != nil {
		t.Fatalf("get sample: %v", err)
	}
	if detail.EstimatedCompletion == nil {
		t.Fatal("estimated completion should be set")
	}
	want := detail.ReceivedDate.AddDate(0, 0, 7)
	if !detail.EstimatedCompletion.Equal(want) {
		t.Errorf("estimated completion = %s, want %s", detail.EstimatedCompletion, want)
	}

	// 无测试项时不给预计完成日
	bare := &model.Sample{ReceivedDate: time.Now()}
	if bare.EstimatedCompletion() != nil {
		t.Error("sample without tests should have no estimated completion")
	}
}

func TestRegisterSampleUnknownTestItem(t *testing.T) {
	ctx := setupTest(t)
	client := seedClient(t, "Mbarara Engineering Works")
	svc := New()

	_, err := svc.RegisterSample(ctx, &core.RegisterSampleReq{
		ClientUUID: client.UUID,
		SampleType: "Soil",
		Tests:      []*core.TestReq{{TestItemUUID: uuid.NewV4()}},
	})
	if !errors.Is(err, code.TestItemNotFound) {
		t.Fatalf("err = %v, want TestItemNotFound", err)
	}
}

func TestUpdateSampleStatus(t *testing.T) {
	ctx := setupTest(t)
	client := seedClient(t, "Jinja Roads Authority")
	svc := New()

	sample, err := svc.RegisterSample(ctx, &core.RegisterSampleReq{
		ClientUUID: client.UUID,
		SampleType: "Concrete",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	// 同状态流转拒绝
	err = svc.UpdateSampleStatus(ctx, &core.UpdateStatusReq{
		SampleUUID: sample.UUID,
		Status:     model.SampleReceived,
	})
	if !errors.Is(err, code.InvalidTransition) {
		t.Fatalf("same-status err = %v, want InvalidTransition", err)
	}

	if err := svc.UpdateSampleStatus(ctx, &core.UpdateStatusReq{
		SampleUUID: sample.UUID,
		Status:     model.SampleCancelled,
		Notes:      "client withdrew the request",
	}); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	// 终态不再流转
	err = svc.UpdateSampleStatus(ctx, &core.UpdateStatusReq{
		SampleUUID: sample.UUID,
		Status:     model.SampleInProgress,
	})
	if !errors.Is(err, code.InvalidTransition) {
		t.Fatalf("terminal err = %v, want InvalidTransition", err)
	}

	history, err := svc.StatusHistory(ctx, sample.UUID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history rows = %d, want 2", len(history))
	}
	last := history[len(history)-1]
	if last.OldStatus != model.SampleReceived || last.NewStatus != model.SampleCancelled {
		t.Errorf("last change = %+v", last)
	}
}

func TestDeleteClient(t *testing.T) {
	ctx := setupTest(t)
	svc := New()

	// 无样品的客户直接删除
	empty := seedClient(t, "Gulu Surveys")
	resp, err := svc.DeleteClient(ctx, empty.UUID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if resp.Deactivated {
		t.Error("client without samples should be deleted, not deactivated")
	}
	if _, err := svc.GetClient(ctx, empty.UUID); !errors.Is(err, code.ClientNotFound) {
		t.Fatalf("get deleted client err = %v, want ClientNotFound", err)
	}

	// 名下有样品的客户仅停用
	busy := seedClient(t, "Entebbe Builders")
	if _, err := svc.RegisterSample(ctx, &core.RegisterSampleReq{
		ClientUUID: busy.UUID,
		SampleType: "Soil",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	resp, err = svc.DeleteClient(ctx, busy.UUID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !resp.Deactivated {
		t.Fatal("client with samples should be deactivated")
	}
	kept, err := svc.GetClient(ctx, busy.UUID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if kept.IsActive {
		t.Error("deactivated client should be inactive")
	}
}
