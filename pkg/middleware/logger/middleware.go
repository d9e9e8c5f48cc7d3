package logger

import (
	// 外部依赖
	"time"

	gin "github.com/gin-gonic/gin"
)

// LogWithWriter gin 访问日志中间件
func LogWithWriter() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		path := ctx.Request.URL.Path
		query := ctx.Request.URL.RawQuery

		ctx.Next()

		cost := time.Since(start)
		Infof(ctx, "%s %s?%s status: %d, cost: %s, client: %s",
			ctx.Request.Method, path, query,
			ctx.Writer.Status(), cost, ctx.ClientIP())

		for _, e := range ctx.Errors.ByType(gin.ErrorTypePrivate) {
			Errorf(ctx, "request err: %+v", e.Err)
		}
	}
}
