package receipt

import (
	// 外部依赖
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	gin "github.com/gin-gonic/gin"
	sqlite "gorm.io/driver/sqlite"
	gorm "gorm.io/gorm"
	glogger "gorm.io/gorm/logger"

	// 内部引用
	common "github.com/metabuildlab/lims/pkg/common"
	code "github.com/metabuildlab/lims/pkg/common/code"
	uuid "github.com/metabuildlab/lims/pkg/common/uuid"
	core "github.com/metabuildlab/lims/pkg/core/receipt"
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
		FullName:     "Catherine Nakato",
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

func seedSample(t *testing.T, sampleID string, status model.SampleStatus) *model.Sample {
	t.Helper()
	ins := db.DB().DBIns()
	client := &model.Client{Name: "Client for " + sampleID, IsActive: true}
	if err := ins.Create(client).Error; err != nil {
		t.Fatalf("seed client: %v", err)
	}
	sample := &model.Sample{
		SampleID:        sampleID,
		ClientID:        client.ID,
		SampleType:      "Soil",
		SampleCondition: model.ConditionGood,
		ReceivedByID:    1,
		ReceivedDate:    time.Now(),
		Priority:        model.PriorityNormal,
		Status:          status,
	}
	if err := ins.Create(sample).Error; err != nil {
		t.Fatalf("seed sample: %v", err)
	}
	return sample
}

func TestCreateReceiptClaimsSamples(t *testing.T) {
	ctx := setupTest(t)
	svc := New()

	first := seedSample(t, "MBL2026080001", model.SampleReceived)
	second := seedSample(t, "MBL2026080002", model.SampleReceived)

	resp, err := svc.Create(ctx, &core.CreateReq{
		SampleUUIDs:      []uuid.UUID{first.UUID, second.UUID},
		DeliveredByName:  "Driver Ssentongo",
		ProjectReference: "Mukono bypass",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	wantNumber := fmt.Sprintf("SRF-%04d-0001", time.Now().Year())
	if resp.ReceiptNumber != wantNumber {
		t.Errorf("receipt number = %s, want %s", resp.ReceiptNumber, wantNumber)
	}
	if resp.ReceivedByName != "Catherine Nakato" {
		t.Errorf("received by = %s", resp.ReceivedByName)
	}
	if len(resp.Samples) != 2 {
		t.Fatalf("samples = %d, want 2", len(resp.Samples))
	}

	// 已认领的样品不可再挂到第二张单上
	_, err = svc.Create(ctx, &core.CreateReq{
		SampleUUIDs: []uuid.UUID{second.UUID},
	})
	if !errors.Is(err, code.SampleOnReceipt) {
		t.Fatalf("second claim err = %v, want SampleOnReceipt", err)
	}
}

func TestCreateReceiptRollsBackOnPartialClaim(t *testing.T) {
	ctx := setupTest(t)
	svc := New()

	free := seedSample(t, "MBL2026080001", model.SampleReceived)
	busy := seedSample(t, "MBL2026080002", model.SampleInProgress)

	// 其中一件不满足认领条件，整单回滚
	_, err := svc.Create(ctx, &core.CreateReq{
		SampleUUIDs: []uuid.UUID{free.UUID, busy.UUID},
	})
	if !errors.Is(err, code.SampleOnReceipt) {
		t.Fatalf("err = %v, want SampleOnReceipt", err)
	}

	var claimed int64
	if err := db.DB().DBIns().Model(&model.Sample{}).
		Where("receipt_form_id IS NOT NULL").
		Count(&claimed).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if claimed != 0 {
		t.Errorf("claimed samples = %d, want 0", claimed)
	}
	var forms int64
	if err := db.DB().DBIns().Model(&model.SampleReceiptForm{}).Count(&forms).Error; err != nil {
		t.Fatalf("count forms: %v", err)
	}
	if forms != 0 {
		t.Errorf("receipt forms = %d, want 0", forms)
	}
}

func TestCreateReceiptUnknownSample(t *testing.T) {
	ctx := setupTest(t)
	svc := New()

	_, err := svc.Create(ctx, &core.CreateReq{SampleUUIDs: []uuid.UUID{uuid.NewV4()}})
	if !errors.Is(err, code.SampleNotFound) {
		t.Fatalf("err = %v, want SampleNotFound", err)
	}
}

func TestSignAndRenderFallback(t *testing.T) {
	ctx := setupTest(t)
	svc := New()

	sample := seedSample(t, "MBL2026080001", model.SampleReceived)
	resp, err := svc.Create(ctx, &core.CreateReq{SampleUUIDs: []uuid.UUID{sample.UUID}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Sign(ctx, &core.SignReq{
		UUID:                 resp.UUID,
		ReceivedBySignature:  "Catherine Nakato",
		DeliveredBySignature: "Driver Ssentongo",
	}); err != nil {
		t.Fatalf("sign: %v", err)
	}
	signed, err := svc.Get(ctx, resp.UUID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !signed.IsSigned {
		t.Error("receipt should be signed")
	}

	// 未配置渲染服务时返回结构化单据
	pdf, err := svc.RenderPDF(ctx, resp.UUID)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(pdf.PDF) != 0 {
		t.Error("no pdf bytes expected without a renderer")
	}
	if pdf.Document["receipt_number"] != resp.ReceiptNumber {
		t.Errorf("document = %+v", pdf.Document)
	}
	samples, ok := pdf.Document["samples"].([]map[string]any)
	if !ok || len(samples) != 1 || samples[0]["sample_id"] != "MBL2026080001" {
		t.Errorf("document samples = %+v", pdf.Document["samples"])
	}
}
