package auth

import (
	// 外部依赖
	"context"
	"strings"

	gin "github.com/gin-gonic/gin"

	// 内部引用
	common "github.com/metabuildlab/lims/pkg/common"
	code "github.com/metabuildlab/lims/pkg/common/code"
	logger "github.com/metabuildlab/lims/pkg/middleware/logger"
	model "github.com/metabuildlab/lims/pkg/model"
	repo "github.com/metabuildlab/lims/pkg/repo"
	account "github.com/metabuildlab/lims/pkg/repo/account"
)

// Auth 校验 Bearer token 并加载当前用户，角色以库中为准
func Auth() func(ctx *gin.Context) {
	return authWith(account.NewAccountRepo())
}

func authWith(accountRepo repo.AccountRepo) func(ctx *gin.Context) {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			common.ReplyErr(ctx, code.UnLogin)
			return
		}

		tokens := strings.Split(authHeader, " ")
		if len(tokens) != 2 || tokens[0] != "Bearer" {
			common.ReplyErr(ctx, code.InvalidToken)
			return
		}

		claims, err := ParseToken(tokens[1])
		if err != nil {
			common.ReplyErr(ctx, err)
			return
		}

		user, err := accountRepo.GetUserByUUID(ctx, claims.UserUUID)
		if err != nil {
			logger.Errorf(ctx, "auth load user: %s err: %+v", claims.Username, err)
			common.ReplyErr(ctx, code.InvalidToken)
			return
		}
		if !user.IsActive {
			common.ReplyErr(ctx, code.UserDisabled)
			return
		}

		ctx.Set(USERKEY, user)
		ctx.Next()
	}
}

// RequireModule 按角色访问矩阵限制模块入口
func RequireModule(module common.Module) func(ctx *gin.Context) {
	return RequireGuard(common.ModuleGuard(module))
}

// RequireGuard 可组合的动作守卫
func RequireGuard(guard common.Guard) func(ctx *gin.Context) {
	return func(ctx *gin.Context) {
		user := GetCurrentUser(ctx)
		if user == nil {
			common.ReplyErr(ctx, code.UnLogin)
			return
		}
		if !guard(user.Role) {
			common.ReplyErr(ctx, code.NoPermission)
			return
		}
		ctx.Next()
	}
}

// GetCurrentUser 从上下文中获取当前用户信息
func GetCurrentUser(ctx context.Context) *model.User {
	gCtx, ok := ctx.(*gin.Context)
	if !ok {
		return nil
	}

	user, exists := gCtx.Get(USERKEY)
	if !exists {
		return nil
	}
	return user.(*model.User)
}
