package migrate

import (
	// 外部依赖
	"context"

	// 内部引用
	db "github.com/metabuildlab/lims/pkg/middleware/db"
	model "github.com/metabuildlab/lims/pkg/model"
)

func Table(_ context.Context) error {
	return db.DB().DBIns().AutoMigrate(
		&model.User{},                // 员工账号
		&model.Client{},              // 客户
		&model.TestCategory{},        // 测试大类
		&model.TestSubCategory{},     // 测试子类
		&model.TestItem{},            // 价目表测试项
		&model.PricingRule{},         // 批量折扣规则
		&model.DiscountScheme{},      // 折扣方案
		&model.Sample{},              // 样品
		&model.SampleTest{},          // 样品-测试项关联
		&model.SampleStatusHistory{}, // 样品状态审计
		&model.Job{},                 // 技术员工作单
		&model.SampleReceiptForm{},   // 收样单
		&model.Invoice{},             // 账单
		&model.InvoiceLine{},         // 账单行
		&model.Payment{},             // 收款记录
		&model.SequenceCounter{},     // 编号计数器
	)
}
