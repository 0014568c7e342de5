package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"snakearena/config"
	"snakearena/server"
)

// snakearena 入口：读取配置，启动 TCP + WebSocket 服务与 Tick 循环
func main() {
	var settingsPath, envFile string
	flag.StringVar(&settingsPath, "settings", "", "settings file path (overrides SNAKE_SETTINGS)")
	flag.StringVar(&envFile, "env", ".env", "optional env file with SNAKE_* variables")
	flag.Parse()

	opts, err := config.LoadOptions(envFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if settingsPath != "" {
		opts.SettingsPath = settingsPath
	}

	// 使用 zap 日志写入文件（带滚动）
	if err := server.InitLogger(opts.LogFile, opts.LogDebug); err != nil {
		panic(err)
	}
	defer server.SyncLogger()

	settings, err := config.LoadSettings(opts.SettingsPath)
	if err != nil {
		server.Log.Fatalw("load settings", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(settings, opts)
	if err := srv.Start(ctx); err != nil {
		server.Log.Fatalw("start", "err", err)
	}

	// 优雅退出（Ctrl+C）；Tick 循环出错则视为致命错误
	select {
	case <-ctx.Done():
		server.Log.Info("Shutting down...")
	case err := <-srv.Done():
		if err != nil {
			_ = srv.Close()
			server.Log.Fatalw("arena stopped", "err", err)
		}
	}
	if err := srv.Close(); err != nil {
		server.Log.Warnw("shutdown", "err", err)
	}
}
