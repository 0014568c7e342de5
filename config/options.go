package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Options 进程级运行参数，来自环境变量（可由 .env 文件补充）
type Options struct {
	SettingsPath      string
	TCPAddr           string
	HTTPAddr          string // 为空则不启动 HTTP（WebSocket 与管理接口）
	LogFile           string
	LogDebug          bool
	HandshakeTimeout  time.Duration
	WriteTimeout      time.Duration
	SendQueue         int
	DiscoveryGroup    string // 为空则不广播
	DiscoveryInterval time.Duration
}

// DefaultOptions 默认值
func DefaultOptions() Options {
	return Options{
		SettingsPath:      "settings.xml",
		TCPAddr:           ":11000",
		HTTPAddr:          ":8080",
		LogFile:           "snakearena.log",
		HandshakeTimeout:  10 * time.Second,
		WriteTimeout:      5 * time.Second,
		SendQueue:         64,
		DiscoveryInterval: 2 * time.Second,
	}
}

// LoadOptions 先加载 .env 文件（不覆盖已有环境变量），再读取 SNAKE_* 变量
func LoadOptions(envFiles ...string) (Options, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Options{}, fmt.Errorf("load env: %w", err)
	}
	o := DefaultOptions()
	var err error
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) {
		if v, ok := os.LookupEnv(key); ok && err == nil {
			d, perr := time.ParseDuration(v)
			if perr != nil || d <= 0 {
				err = fmt.Errorf("%s: invalid duration %q", key, v)
				return
			}
			*dst = d
		}
	}

	str("SNAKE_SETTINGS", &o.SettingsPath)
	str("SNAKE_TCP_ADDR", &o.TCPAddr)
	str("SNAKE_HTTP_ADDR", &o.HTTPAddr)
	str("SNAKE_LOG_FILE", &o.LogFile)
	str("SNAKE_DISCOVERY_GROUP", &o.DiscoveryGroup)
	dur("SNAKE_HANDSHAKE_TIMEOUT", &o.HandshakeTimeout)
	dur("SNAKE_WRITE_TIMEOUT", &o.WriteTimeout)
	dur("SNAKE_DISCOVERY_INTERVAL", &o.DiscoveryInterval)
	if err != nil {
		return Options{}, err
	}
	if v, ok := os.LookupEnv("SNAKE_LOG_DEBUG"); ok {
		b, perr := strconv.ParseBool(v)
		if perr != nil {
			return Options{}, fmt.Errorf("SNAKE_LOG_DEBUG: %w", perr)
		}
		o.LogDebug = b
	}
	if v, ok := os.LookupEnv("SNAKE_SEND_QUEUE"); ok {
		n, perr := strconv.Atoi(v)
		if perr != nil || n <= 0 {
			return Options{}, fmt.Errorf("SNAKE_SEND_QUEUE: invalid size %q", v)
		}
		o.SendQueue = n
	}
	return o, nil
}
