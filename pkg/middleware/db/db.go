// Package db 全局数据库接入，postgres 为主，sqlite 作为轻量部署与单测后端
package db

import (
	// 外部依赖
	"context"
	"fmt"
	"time"

	postgres "gorm.io/driver/postgres"
	sqlite "gorm.io/driver/sqlite"
	gorm "gorm.io/gorm"
	glogger "gorm.io/gorm/logger"

	// 内部引用
	logger "github.com/metabuildlab/lims/pkg/middleware/logger"
)

type LogConf struct {
	Level string
}

type Config struct {
	Host    string
	Port    int
	User    string
	PW      string
	DBName  string
	LogConf LogConf
}

type SQLiteConfig struct {
	Path    string
	LogConf LogConf
}

type Datastore struct {
	db *gorm.DB
}

var store *Datastore

type txKey struct{}

func InitPostgres(ctx context.Context, conf *Config) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=UTC",
		conf.Host, conf.User, conf.PW, conf.DBName, conf.Port)

	ins, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger(conf.LogConf.Level),
	})
	if err != nil {
		logger.Fatalf(ctx, "init postgres fail err: %+v", err)
	}

	sqlDB, err := ins.DB()
	if err != nil {
		logger.Fatalf(ctx, "get sql db fail err: %+v", err)
	}
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	store = &Datastore{db: ins}
}

func InitSQLite(ctx context.Context, conf *SQLiteConfig) {
	ins, err := gorm.Open(sqlite.Open(conf.Path), &gorm.Config{
		Logger: gormLogger(conf.LogConf.Level),
	})
	if err != nil {
		logger.Fatalf(ctx, "init sqlite fail err: %+v", err)
	}
	store = &Datastore{db: ins}
}

// SetDBIns 注入已有连接，单测使用
func SetDBIns(ins *gorm.DB) {
	store = &Datastore{db: ins}
}

func ClosePostgres(_ context.Context) {
	if store == nil {
		return
	}
	if sqlDB, err := store.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	store = nil
}

func DB() *Datastore {
	return store
}

func (d *Datastore) DBIns() *gorm.DB {
	return d.db
}

// WithContext 返回绑定 ctx 的会话，处于事务中时返回事务连接
func (d *Datastore) WithContext(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return d.db.WithContext(ctx)
}

// ExecTx 在事务中执行 fn，事务连接通过 ctx 向下传递，支持嵌套复用
func (d *Datastore) ExecTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return d.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

func gormLogger(level string) glogger.Interface {
	logLevel := glogger.Warn
	switch level {
	case "debug":
		logLevel = glogger.Info
	case "error":
		logLevel = glogger.Error
	}
	return glogger.Default.LogMode(logLevel)
}
