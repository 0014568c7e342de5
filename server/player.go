package server

import (
	"errors"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"snakearena/protocol"
)

// wire 屏蔽 TCP 与 WebSocket 的差异：读出字节块，写出一帧
type wire interface {
	ReadChunk() ([]byte, error)
	WriteFrame(b []byte) error
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	Close() error
	RemoteAddr() string
}

// ConnOptions 每个连接的超时与队列设置
type ConnOptions struct {
	HandshakeTimeout time.Duration // 0 表示不限制
	WriteTimeout     time.Duration
	SendQueue        int
}

// DefaultConnOptions 默认：握手 10s、单次写 5s、发送队列 64
func DefaultConnOptions() ConnOptions {
	return ConnOptions{
		HandshakeTimeout: 10 * time.Second,
		WriteTimeout:     5 * time.Second,
		SendQueue:        64,
	}
}

// ClientConn 一个客户端连接：ID 同时是蛇的 id，Session 只用于日志关联
type ClientConn struct {
	ID      int
	Session string

	wire   wire
	opts   ConnOptions
	send   chan []byte
	done   chan struct{}
	once   sync.Once
	joined atomic.Bool
	log    *zap.SugaredLogger
}

func newClientConn(id int, w wire, opts ConnOptions) *ClientConn {
	if opts.SendQueue <= 0 {
		opts.SendQueue = DefaultConnOptions().SendQueue
	}
	session := uuid.NewString()
	return &ClientConn{
		ID:      id,
		Session: session,
		wire:    w,
		opts:    opts,
		send:    make(chan []byte, opts.SendQueue),
		done:    make(chan struct{}),
		log:     Log.With("conn", id, "session", session, "remote", w.RemoteAddr()),
	}
}

// Joined 是否已完成握手
func (c *ClientConn) Joined() bool { return c.joined.Load() }

// Closed 连接是否已关闭
func (c *ClientConn) Closed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// Enqueue 非阻塞压入发送队列；队列满或连接已关闭时返回 false，由调用方视为发送失败
func (c *ClientConn) Enqueue(b []byte) bool {
	if c.Closed() {
		return false
	}
	select {
	case c.send <- b:
		return true
	default:
		return false
	}
}

// Close 关闭底层连接并结束写协程，可重复调用
func (c *ClientConn) Close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.wire.Close()
	})
}

// writePump 独立协程，负责从 send 队列写出，单次写入有超时
func (c *ClientConn) writePump() {
	defer c.Close()
	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			if c.opts.WriteTimeout > 0 {
				_ = c.wire.SetWriteDeadline(time.Now().Add(c.opts.WriteTimeout))
			}
			if err := c.wire.WriteFrame(msg); err != nil {
				c.log.Debugw("write failed", "err", err)
				return
			}
		}
	}
}

// readPump 读取客户端数据：首行为玩家名，之后每行一个移动指令
func (c *ClientConn) readPump(a *Arena) {
	defer c.Close()
	// 读泵退出时，通知 Tick 协程移除该玩家
	defer a.RequestLeave(c.ID)

	if c.opts.HandshakeTimeout > 0 {
		_ = c.wire.SetReadDeadline(time.Now().Add(c.opts.HandshakeTimeout))
	}
	var framer protocol.Framer
	named := false
	for {
		chunk, err := c.wire.ReadChunk()
		if err != nil {
			if isClosedErr(err) {
				c.log.Debugw("connection closed", "err", err)
			} else {
				c.log.Infow("read failed", "err", err, "named", named)
			}
			return
		}
		if err := framer.Feed(chunk); err != nil {
			c.log.Warnw("dropping connection", "err", err)
			return
		}
		for {
			line, ok := framer.Next()
			if !ok {
				break
			}
			if !named {
				named = true
				_ = c.wire.SetReadDeadline(time.Time{})
				a.RequestJoin(c, protocol.ParseName(line))
				continue
			}
			dir, ok := protocol.ParseCommand(line)
			if !ok {
				continue
			}
			a.OnInput(Input{PlayerID: c.ID, Command: dir})
		}
	}
}

func isClosedErr(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed)
}
