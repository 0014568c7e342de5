package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// wsWire WebSocket 连接：每条文本消息可携带若干行或半行
type wsWire struct {
	ws *websocket.Conn
}

func (w *wsWire) ReadChunk() ([]byte, error) {
	_, payload, err := w.ws.ReadMessage()
	return payload, err
}

func (w *wsWire) WriteFrame(b []byte) error {
	return w.ws.WriteMessage(websocket.TextMessage, b)
}

func (w *wsWire) SetReadDeadline(t time.Time) error  { return w.ws.SetReadDeadline(t) }
func (w *wsWire) SetWriteDeadline(t time.Time) error { return w.ws.SetWriteDeadline(t) }
func (w *wsWire) Close() error                       { return w.ws.Close() }
func (w *wsWire) RemoteAddr() string                 { return w.ws.RemoteAddr().String() }

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		// 浏览器客户端可能来自任意静态站点
		return true
	},
}

// HandleWS WebSocket 接入，握手与 TCP 完全一致
func HandleWS(a *Arena) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			Log.Warnw("upgrade error", "err", err, "remote", r.RemoteAddr)
			return
		}
		ws.SetReadLimit(1 << 20) // 1MB
		a.Accept(&wsWire{ws: ws})
	}
}
