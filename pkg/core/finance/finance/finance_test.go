package finance

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
	core "github.com/metabuildlab/lims/pkg/core/finance"
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

	user := &model.User{Username: "accounts", PasswordHash: "x", Role: common.RoleOfficeStaff, IsActive: true}
	if err := ins.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
	ctx.Set(auth.USERKEY, user)
	return ctx
}

// seedSample 种入带两项委托测试的样品，单价 35000 和 50000
func seedSample(t *testing.T, currencies ...model.Currency) *model.Sample {
	t.Helper()
	ins := db.DB().DBIns()

	client := &model.Client{Name: "Kampala Construction Ltd", IsActive: true}
	if err := ins.Create(client).Error; err != nil {
		t.Fatalf("seed client: %v", err)
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
		ReceivedByID:    1,
		ReceivedDate:    time.Now(),
		Priority:        model.PriorityNormal,
		Status:          model.SampleTesting,
	}
	if err := ins.Create(sample).Error; err != nil {
		t.Fatalf("seed sample: %v", err)
	}

	prices := []int64{35000, 50000}
	for idx, price := range prices {
		currency := model.CurrencyUGX
		if idx < len(currencies) {
			currency = currencies[idx]
		}
		item := &model.TestItem{
			SystemCode:    fmt.Sprintf("SOIL-PHY-%03d", idx+1),
			DisplayCode:   fmt.Sprintf("SOIL-PHY-%03d", idx+1),
			CategoryID:    cat.ID,
			SubCategoryID: sub.ID,
			TestName:      fmt.Sprintf("Test %d", idx+1),
			Unit:          "per test",
			Currency:      currency,
			Price:         decimal.NewFromInt(price),
			SampleType:    "Soil",
			IsActive:      true,
		}
		if err := ins.Create(item).Error; err != nil {
			t.Fatalf("seed item: %v", err)
		}
		st := &model.SampleTest{SampleID: sample.ID, TestItemID: item.ID, QuantityRequested: idx + 1}
		if err := ins.Create(st).Error; err != nil {
			t.Fatalf("seed sample test: %v", err)
		}
	}
	return sample
}

func TestCreateInvoiceLinesAndTotal(t *testing.T) {
	ctx := setupTest(t)
	sample := seedSample(t)
	svc := New()

	invoice, err := svc.CreateInvoice(ctx, &core.CreateInvoiceReq{SampleUUID: sample.UUID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	wantNumber := fmt.Sprintf("INV-%04d-0001", time.Now().Year())
	if invoice.InvoiceNumber != wantNumber {
		t.Errorf("invoice number = %s, want %s", invoice.InvoiceNumber, wantNumber)
	}
	if invoice.Status != model.InvoiceDraft {
		t.Errorf("status = %s, want draft", invoice.Status)
	}
	if len(invoice.Lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(invoice.Lines))
	}
	// 35000*1 + 50000*2
	if invoice.Total != "135000.00" {
		t.Errorf("total = %s, want 135000.00", invoice.Total)
	}
	if invoice.Lines[1].Quantity != 2 || invoice.Lines[1].Amount != "100000.00" {
		t.Errorf("line = %+v", invoice.Lines[1])
	}
	if invoice.Currency != model.CurrencyUGX {
		t.Errorf("currency = %s", invoice.Currency)
	}
	if invoice.ClientName != "Kampala Construction Ltd" {
		t.Errorf("client = %s", invoice.ClientName)
	}
}

func TestCreateInvoiceMixedCurrencies(t *testing.T) {
	ctx := setupTest(t)
	sample := seedSample(t, model.CurrencyUGX, model.CurrencyUSD)
	svc := New()

	_, err := svc.CreateInvoice(ctx, &core.CreateInvoiceReq{SampleUUID: sample.UUID})
	if !errors.Is(err, code.ValidationErr) {
		t.Fatalf("err = %v, want ValidationErr", err)
	}
}

func TestInvoiceLifecycle(t *testing.T) {
	ctx := setupTest(t)
	sample := seedSample(t)
	svc := New()

	invoice, err := svc.CreateInvoice(ctx, &core.CreateInvoiceReq{SampleUUID: sample.UUID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// 草稿不可收款
	_, err = svc.RecordPayment(ctx, &core.PaymentReq{InvoiceUUID: invoice.UUID, Amount: "1000"})
	if !errors.Is(err, code.InvalidTransition) {
		t.Fatalf("pay draft err = %v, want InvalidTransition", err)
	}

	if err := svc.IssueInvoice(ctx, &core.IssueReq{UUID: invoice.UUID}); err != nil {
		t.Fatalf("issue: %v", err)
	}
	// 重复开票拒绝
	if err := svc.IssueInvoice(ctx, &core.IssueReq{UUID: invoice.UUID}); !errors.Is(err, code.InvoiceNotDraft) {
		t.Fatalf("reissue err = %v, want InvoiceNotDraft", err)
	}

	// 超额收款拒绝
	_, err = svc.RecordPayment(ctx, &core.PaymentReq{InvoiceUUID: invoice.UUID, Amount: "200000"})
	if !errors.Is(err, code.PaymentExceedsDue) {
		t.Fatalf("overpay err = %v, want PaymentExceedsDue", err)
	}

	paid, err := svc.RecordPayment(ctx, &core.PaymentReq{
		InvoiceUUID: invoice.UUID,
		Amount:      "100000",
		Method:      "bank transfer",
		Reference:   "TRX-001",
	})
	if err != nil {
		t.Fatalf("pay: %v", err)
	}
	if paid.Status != model.InvoicePartPaid {
		t.Errorf("status = %s, want part_paid", paid.Status)
	}
	if paid.Paid != "100000.00" || paid.Due != "35000.00" {
		t.Errorf("paid = %s due = %s", paid.Paid, paid.Due)
	}

	// 已有收款的账单不可作废
	if err := svc.CancelInvoice(ctx, invoice.UUID); !errors.Is(err, code.InvalidTransition) {
		t.Fatalf("cancel paid err = %v, want InvalidTransition", err)
	}

	paid, err = svc.RecordPayment(ctx, &core.PaymentReq{InvoiceUUID: invoice.UUID, Amount: "35000"})
	if err != nil {
		t.Fatalf("final pay: %v", err)
	}
	if paid.Status != model.InvoicePaid {
		t.Errorf("status = %s, want paid", paid.Status)
	}
	if paid.Due != "0.00" {
		t.Errorf("due = %s, want 0.00", paid.Due)
	}
	if len(paid.Payments) != 2 {
		t.Errorf("payments = %d, want 2", len(paid.Payments))
	}
}

func TestCancelDraftInvoice(t *testing.T) {
	ctx := setupTest(t)
	sample := seedSample(t)
	svc := New()

	invoice, err := svc.CreateInvoice(ctx, &core.CreateInvoiceReq{SampleUUID: sample.UUID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.CancelInvoice(ctx, invoice.UUID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	got, err := svc.GetInvoice(ctx, invoice.UUID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != model.InvoiceCancelled {
		t.Errorf("status = %s, want cancelled", got.Status)
	}
	// 作废后不可再开票
	if err := svc.IssueInvoice(ctx, &core.IssueReq{UUID: invoice.UUID}); !errors.Is(err, code.InvoiceNotDraft) {
		t.Fatalf("issue cancelled err = %v, want InvoiceNotDraft", err)
	}
}
