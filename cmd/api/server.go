package api

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/metabuildlab/lims/internal/config"
	"github.com/metabuildlab/lims/pkg/core/notify/audit"
	"github.com/metabuildlab/lims/pkg/core/notify/events"
	"github.com/metabuildlab/lims/pkg/middleware/db"
	"github.com/metabuildlab/lims/pkg/middleware/logger"
	"github.com/metabuildlab/lims/pkg/middleware/redis"
	migrate "github.com/metabuildlab/lims/pkg/model/migrate"
	"github.com/metabuildlab/lims/pkg/utils"
	"github.com/metabuildlab/lims/pkg/web"
)

func NewWeb() *cobra.Command {
	return &cobra.Command{
		Use:          "apiserver",
		Long:         "Start the LIMS API server",
		SilenceUsage: true,
		PreRunE:      initWeb,
		RunE:         newRouter,
		PostRunE:     cleanWebResource,
	}
}

func NewMigrate() *cobra.Command {
	return &cobra.Command{
		Use:          "migrate",
		Long:         "Run database migrations",
		SilenceUsage: true,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			initDB(cmd.Context())
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return migrate.Table(cmd.Root().Context())
		},
		PostRunE: func(cmd *cobra.Command, _ []string) error {
			db.ClosePostgres(cmd.Context())
			return nil
		},
	}
}

// initDB 按配置选择 postgres 或 sqlite
func initDB(ctx context.Context) {
	conf := config.Global()
	if conf.Database.Driver == config.DriverSQLite {
		db.InitSQLite(ctx, &db.SQLiteConfig{
			Path:    conf.Database.Path,
			LogConf: db.LogConf{Level: conf.Log.LogLevel},
		})
		return
	}
	db.InitPostgres(ctx, &db.Config{
		Host: conf.Database.Host, Port: conf.Database.Port,
		User: conf.Database.User, PW: conf.Database.Password,
		DBName: conf.Database.Name, LogConf: db.LogConf{Level: conf.Log.LogLevel},
	})
}

func initWeb(cmd *cobra.Command, _ []string) error {
	conf := config.Global()
	initDB(cmd.Context())
	if conf.Redis.Enable {
		redis.InitRedis(cmd.Context(), &redis.Redis{
			Host: conf.Redis.Host, Port: conf.Redis.Port,
			Password: conf.Redis.Password, DB: conf.Redis.DB,
		})
	}
	return audit.Register(cmd.Root().Context())
}

func newRouter(cmd *cobra.Command, _ []string) error {
	router := gin.Default()
	web.NewRouter(cmd.Root().Context(), router)
	conf := config.Global()
	port := conf.Server.Port
	addr := ":" + strconv.Itoa(port)

	httpServer := http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 30 * time.Second,
		IdleTimeout:       30 * time.Second,
		TLSNextProto:      make(map[string]func(*http.Server, *tls.Conn, http.Handler)),
	}

	fmt.Printf("LIMS API server starting on http://0.0.0.0:%d\n", port)

	utils.SafelyGo(func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorf(cmd.Context(), "start server err: %v\n", err)
		}
	}, func(err error) {
		logger.Errorf(cmd.Context(), "run http server err: %+v", err)
		os.Exit(1)
	})

	fmt.Printf("Server started. Press Ctrl+C to shutdown.\n")
	<-cmd.Context().Done()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		fmt.Printf("shut down server err: %+v", err)
	}
	return nil
}

func cleanWebResource(cmd *cobra.Command, _ []string) error {
	_ = events.NewEvents().Close(cmd.Context())
	redis.CloseRedis(cmd.Context())
	db.ClosePostgres(cmd.Context())
	return nil
}
