package web

import (
	// 外部依赖
	"context"

	cors "github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	// 内部引用
	common "github.com/metabuildlab/lims/pkg/common"
	auth "github.com/metabuildlab/lims/pkg/middleware/auth"
	logger "github.com/metabuildlab/lims/pkg/middleware/logger"
	clientView "github.com/metabuildlab/lims/pkg/web/views/client"
	configView "github.com/metabuildlab/lims/pkg/web/views/config"
	financeView "github.com/metabuildlab/lims/pkg/web/views/finance"
	health "github.com/metabuildlab/lims/pkg/web/views/health"
	jobView "github.com/metabuildlab/lims/pkg/web/views/job"
	login "github.com/metabuildlab/lims/pkg/web/views/login"
	pricingView "github.com/metabuildlab/lims/pkg/web/views/pricing"
	receiptView "github.com/metabuildlab/lims/pkg/web/views/receipt"
	sampleView "github.com/metabuildlab/lims/pkg/web/views/sample"
)

func NewRouter(ctx context.Context, g *gin.Engine) {
	installMiddleware(g)
	installURL(ctx, g)
}

func installMiddleware(g *gin.Engine) {
	g.ContextWithFallback = true
	g.Use(cors.Default())
	g.Use(logger.LogWithWriter())
}

// installURL 模块入口统一由角色访问矩阵守卫
func installURL(_ context.Context, g *gin.Engine) {
	api := g.Group("/api")
	api.GET("/health", health.Health)
	api.GET("/health/live", health.Live)
	api.GET("/health/ready", health.Ready)

	l := login.NewHandle()
	{
		authGroup := api.Group("/auth")
		authGroup.POST("/login", l.Login)
	}

	v1 := api.Group("/v1", auth.Auth())
	v1.GET("/me", l.Me)
	v1.POST("/me/password", l.ChangePassword)

	// Sales: 客户管理，删除仅限主任
	{
		cHandle := clientView.NewHandle()
		salesRouter := v1.Group("/client", auth.RequireModule(common.ModuleSales))
		salesRouter.POST("/create", cHandle.Create)
		salesRouter.PUT("/update", cHandle.Update)
		salesRouter.GET("/query", cHandle.Query)
		salesRouter.GET("/:uuid", cHandle.Get)
		salesRouter.DELETE("/:uuid",
			auth.RequireGuard(common.RoleGuard(common.RoleDirector)), cHandle.Delete)
	}

	// Operations: 样品、工作单、收样单
	opsGuard := auth.RequireModule(common.ModuleOperations)
	{
		sHandle := sampleView.NewHandle()
		sampleRouter := v1.Group("/sample", opsGuard)
		sampleRouter.POST("/register", sHandle.Register)
		sampleRouter.GET("/query", sHandle.Query)
		sampleRouter.GET("/:uuid", sHandle.Get)
		sampleRouter.GET("/:uuid/history", sHandle.StatusHistory)
		sampleRouter.POST("/tests", sHandle.AddTests)
		sampleRouter.POST("/status", sHandle.UpdateStatus)
	}
	{
		// 前台人员有 operations 权限但不进任务板
		jHandle := jobView.NewHandle()
		jobRouter := v1.Group("/job", auth.RequireGuard(common.AllOf(
			common.ModuleGuard(common.ModuleOperations),
			common.NotRole(common.RoleOfficeStaff),
		)))
		jobRouter.POST("/create", jHandle.Create)
		jobRouter.GET("/query", jHandle.Query)
		jobRouter.GET("/:uuid", jHandle.Get)
		jobRouter.POST("/assign", jHandle.Assign)
		jobRouter.POST("/:uuid/start", jHandle.StartWork)
		jobRouter.POST("/complete", jHandle.Complete)
		jobRouter.POST("/hold", jHandle.PutOnHold)
		jobRouter.POST("/:uuid/resume", jHandle.Resume)
	}
	{
		rHandle := receiptView.NewHandle()
		receiptRouter := v1.Group("/receipt", opsGuard)
		receiptRouter.POST("/create", rHandle.Create)
		receiptRouter.GET("/query", rHandle.Query)
		receiptRouter.GET("/:uuid", rHandle.Get)
		receiptRouter.POST("/sign", rHandle.Sign)
		receiptRouter.GET("/:uuid/pdf", rHandle.PDF)
	}

	// Pricing: 价目管理
	{
		pHandle := pricingView.NewHandle()
		pricingRouter := v1.Group("/pricing", auth.RequireModule(common.ModulePricing))
		pricingRouter.GET("/category/query", pHandle.Categories)
		pricingRouter.GET("/item/query", pHandle.Query)
		pricingRouter.GET("/item/:uuid", pHandle.Get)
		pricingRouter.POST("/item/save", pHandle.Save)
		pricingRouter.PUT("/item/update", pHandle.Update)
		pricingRouter.POST("/import", pHandle.Import)
		pricingRouter.POST("/rule/create", pHandle.CreateRule)
		pricingRouter.GET("/rule/query", pHandle.Rules)
		pricingRouter.PUT("/rule/update", pHandle.UpdateRule)
		pricingRouter.DELETE("/rule/:uuid", pHandle.DeleteRule)
		pricingRouter.POST("/scheme/create", pHandle.CreateScheme)
		pricingRouter.GET("/scheme/query", pHandle.Schemes)
		pricingRouter.PUT("/scheme/update", pHandle.UpdateScheme)
		pricingRouter.DELETE("/scheme/:uuid", pHandle.DeleteScheme)
	}

	// Finance: 发票与收款
	{
		fHandle := financeView.NewHandle()
		financeRouter := v1.Group("/invoice", auth.RequireModule(common.ModuleFinance))
		financeRouter.POST("/create", fHandle.Create)
		financeRouter.GET("/query", fHandle.Query)
		financeRouter.GET("/:uuid", fHandle.Get)
		financeRouter.POST("/issue", fHandle.Issue)
		financeRouter.POST("/:uuid/cancel", fHandle.Cancel)
		financeRouter.POST("/pay", fHandle.Pay)
	}

	// Config: 账号管理
	{
		cfgHandle := configView.NewHandle()
		configRouter := v1.Group("/config", auth.RequireModule(common.ModuleConfig))
		configRouter.POST("/user/create", cfgHandle.CreateUser)
		configRouter.PUT("/user/update", cfgHandle.UpdateUser)
		configRouter.GET("/user/query", cfgHandle.QueryUsers)
	}
}
