package server

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log 是全局可用的 SugaredLogger；未初始化时为 Nop，便于测试直接使用
var Log = zap.NewNop().Sugar()

// InitLogger 初始化 zap 日志，写入滚动文件
// filePath: 如 "snakearena.log"；debug 打开 Debug 级别并同时输出到 stderr
func InitLogger(filePath string, debug bool) error {
	// 10MB 一个文件，保留 3 个备份、7 天
	sink := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filePath,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     7,
	})

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.StacktraceKey = "stack"
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewConsoleEncoder(encCfg)

	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if debug {
		level.SetLevel(zapcore.DebugLevel)
		sink = zapcore.NewMultiWriteSyncer(sink, zapcore.Lock(os.Stderr))
	}

	Log = zap.New(zapcore.NewCore(encoder, sink, level), zap.AddCaller()).Sugar()
	return nil
}

// SyncLogger 刷新缓冲
func SyncLogger() {
	if Log != nil {
		_ = Log.Sync()
	}
}
