package server

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"

	qrcode "github.com/skip2/go-qrcode"
	"github.com/vmihailenco/msgpack/v5"
)

// HandleMetrics 输出竞技场运行指标
// GET /metrics
func HandleMetrics(a *Arena) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := a.Snapshot()
		conns := a.registry.Snapshot()
		clients := make([]map[string]any, 0, len(conns))
		for _, c := range conns {
			clients = append(clients, map[string]any{
				"id":      c.ID,
				"session": c.Session,
				"remote":  c.wire.RemoteAddr(),
				"joined":  c.Joined(),
			})
		}
		payload := map[string]any{
			"tick":        snap.Tick,
			"connections": len(conns),
			"clients":     clients,
			"snakes":      len(snap.Snakes),
			"powerups":    len(snap.PowerUps),
			"metrics":     a.metrics.Snapshot(),
		}
		writeJSON(w, payload)
	}
}

// HandleSettings 只读地返回启动时载入的配置
// GET /admin/settings
func HandleSettings(a *Arena) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, a.Settings())
	}
}

// HandleWorld 返回最近一次 Tick 的世界快照
// GET /admin/world            JSON
// GET /admin/world?format=msgpack
func HandleWorld(a *Arena) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := a.Snapshot()
		switch r.URL.Query().Get("format") {
		case "", "json":
			writeJSON(w, snap)
		case "msgpack":
			w.Header().Set("Content-Type", "application/msgpack")
			enc := msgpack.NewEncoder(w)
			enc.SetCustomStructTag("json")
			if err := enc.Encode(snap); err != nil {
				Log.Warnw("encode world snapshot", "err", err)
			}
		default:
			http.Error(w, "unsupported format", http.StatusBadRequest)
		}
	}
}

// HandleJoinQR 以二维码形式给出 TCP 接入地址，主机名取自请求
// GET /join.png?size=256
func HandleJoinQR(tcpPort int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		size := 256
		if v := r.URL.Query().Get("size"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 64 || n > 1024 {
				http.Error(w, "size must be within [64, 1024]", http.StatusBadRequest)
				return
			}
			size = n
		}
		png, err := qrcode.Encode(JoinAddress(r.Host, tcpPort), qrcode.Medium, size)
		if err != nil {
			http.Error(w, "qrcode: "+err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(png)
	}
}

// JoinAddress 用 HTTP 请求的主机名拼出 TCP 接入地址
func JoinAddress(httpHost string, tcpPort int) string {
	host, _, err := net.SplitHostPort(httpHost)
	if err != nil {
		host = httpHost
	}
	if host == "" {
		host = "localhost"
	}
	return net.JoinHostPort(host, strconv.Itoa(tcpPort))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
