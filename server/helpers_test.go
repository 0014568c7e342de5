package server

import (
	"io"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"snakearena/config"
	"snakearena/game"
	"snakearena/protocol"
)

// fakeWire 内存连接：reads 喂给读协程，写出的帧进入 writes
type fakeWire struct {
	reads  chan []byte
	writes chan []byte
	closed chan struct{}
	once   sync.Once
}

func newFakeWire() *fakeWire {
	return &fakeWire{
		reads:  make(chan []byte, 16),
		writes: make(chan []byte, 256),
		closed: make(chan struct{}),
	}
}

func (w *fakeWire) ReadChunk() ([]byte, error) {
	select {
	case b := <-w.reads:
		return b, nil
	case <-w.closed:
		return nil, io.EOF
	}
}

func (w *fakeWire) WriteFrame(b []byte) error {
	select {
	case <-w.closed:
		return net.ErrClosed
	default:
	}
	w.writes <- append([]byte(nil), b...)
	return nil
}

func (w *fakeWire) SetReadDeadline(time.Time) error  { return nil }
func (w *fakeWire) SetWriteDeadline(time.Time) error { return nil }
func (w *fakeWire) RemoteAddr() string               { return "fake" }
func (w *fakeWire) Close() error {
	w.once.Do(func() { close(w.closed) })
	return nil
}

func borderWalls() []game.Wall {
	return []game.Wall{
		{ID: 0, P1: game.Vector2D{X: -975, Y: -975}, P2: game.Vector2D{X: 975, Y: -975}},
		{ID: 1, P1: game.Vector2D{X: -975, Y: 975}, P2: game.Vector2D{X: 975, Y: 975}},
		{ID: 2, P1: game.Vector2D{X: -975, Y: -975}, P2: game.Vector2D{X: -975, Y: 975}},
		{ID: 3, P1: game.Vector2D{X: 975, Y: 975}, P2: game.Vector2D{X: 975, Y: -975}},
	}
}

func testSettings(walls []game.Wall) config.Settings {
	return config.Settings{
		MSPerFrame:   10,
		RespawnRate:  1000,
		UniverseSize: 2000,
		MaxPowerups:  game.DefaultMaxPowerups,
		Walls:        walls,
	}
}

func newTestArena(settings config.Settings, queue int) *Arena {
	return NewArena(settings, ConnOptions{SendQueue: queue, WriteTimeout: time.Second}, 1)
}

// addClient 注册一个不启动读写协程的连接，测试直接读取其发送队列
func addClient(a *Arena, id int) *ClientConn {
	c := newClientConn(id, newFakeWire(), a.connOpts)
	a.registry.Add(c)
	return c
}

func joinClient(t *testing.T, a *Arena, id int, name string, now time.Time) *ClientConn {
	t.Helper()
	c := addClient(a, id)
	a.RequestJoin(c, name)
	if err := a.Tick(now); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if _, ok := a.world.Snakes[id]; !ok {
		t.Fatalf("snake %d not spawned", id)
	}
	return c
}

// drain 取出发送队列中已有的所有消息
func drain(c *ClientConn) []string {
	var out []string
	for {
		select {
		case b := <-c.send:
			out = append(out, string(b))
		default:
			return out
		}
	}
}

func splitLines(msg string) []string {
	return strings.Split(strings.TrimSuffix(msg, "\n"), "\n")
}

// decodeAll 解码一帧广播中的所有对象
func decodeAll(t *testing.T, msg string) []protocol.Object {
	t.Helper()
	var objs []protocol.Object
	for _, line := range splitLines(msg) {
		obj, err := protocol.Decode(line)
		if err != nil {
			t.Fatalf("decode %q: %v", line, err)
		}
		objs = append(objs, obj)
	}
	return objs
}

func snapshotSnake(a *Arena, id int) (*game.Snake, bool) {
	for _, s := range a.Snapshot().Snakes {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
