// Package logger 全局日志，zap + lumberjack 滚动文件
package logger

import (
	// 外部依赖
	"context"
	"os"

	zap "go.uber.org/zap"
	zapcore "go.uber.org/zap/zapcore"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

type ServiceEnv struct {
	Platform string
	Service  string
	Env      string
}

type LogConfig struct {
	Path       string
	LogLevel   string
	ServiceEnv ServiceEnv
}

var (
	global *zap.SugaredLogger
	base   *zap.Logger
)

func Init(conf *LogConfig) {
	level := zapcore.InfoLevel
	if err := level.UnmarshalText([]byte(conf.LogLevel)); err != nil {
		level = zapcore.InfoLevel
	}

	encConf := zap.NewProductionEncoderConfig()
	encConf.EncodeTime = zapcore.ISO8601TimeEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encConf), zapcore.AddSync(os.Stdout), level),
	}
	if conf.Path != "" {
		writer := &lumberjack.Logger{
			Filename:   conf.Path,
			MaxSize:    100, // MB
			MaxBackups: 7,
			MaxAge:     30, // 天
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encConf), zapcore.AddSync(writer), level))
	}

	base = zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1))
	global = base.Sugar().With(
		"platform", conf.ServiceEnv.Platform,
		"service", conf.ServiceEnv.Service,
		"env", conf.ServiceEnv.Env,
	)
}

func Close() {
	if base != nil {
		_ = base.Sync()
	}
}

func logger() *zap.SugaredLogger {
	if global == nil {
		// 未初始化时兜底，避免单测或工具场景空指针
		Init(&LogConfig{LogLevel: "debug"})
	}
	return global
}

func Debugf(_ context.Context, format string, args ...any) {
	logger().Debugf(format, args...)
}

func Infof(_ context.Context, format string, args ...any) {
	logger().Infof(format, args...)
}

func Warnf(_ context.Context, format string, args ...any) {
	logger().Warnf(format, args...)
}

func Errorf(_ context.Context, format string, args ...any) {
	logger().Errorf(format, args...)
}

func Fatalf(_ context.Context, format string, args ...any) {
	logger().Fatalf(format, args...)
}
