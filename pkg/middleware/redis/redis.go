package redis

import (
	// 外部依赖
	"context"
	"fmt"

	r "github.com/redis/go-redis/v9"

	// 内部引用
	logger "github.com/metabuildlab/lims/pkg/middleware/logger"
)

type Redis struct {
	Host     string
	Port     int
	Password string
	DB       int
}

var redisClient *r.Client

func InitRedis(ctx context.Context, conf *Redis) {
	client := r.NewClient(&r.Options{
		Addr:     fmt.Sprintf("%s:%d", conf.Host, conf.Port),
		Password: conf.Password,
		DB:       conf.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Fatalf(ctx, "init redis fail err: %+v", err)
	}
	redisClient = client
}

func CloseRedis(_ context.Context) {
	if redisClient != nil {
		_ = redisClient.Close()
		redisClient = nil
	}
}

// GetClient 获取Redis客户端实例，未初始化时返回 nil
func GetClient() *r.Client {
	return redisClient
}
