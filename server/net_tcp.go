package server

import (
	"errors"
	"net"
	"time"
)

// tcpWire 原始 TCP 连接，按行协议收发
type tcpWire struct {
	conn net.Conn
	buf  []byte
}

func newTCPWire(conn net.Conn) *tcpWire {
	return &tcpWire{conn: conn, buf: make([]byte, 4096)}
}

func (w *tcpWire) ReadChunk() ([]byte, error) {
	n, err := w.conn.Read(w.buf)
	if n > 0 {
		return w.buf[:n], nil
	}
	return nil, err
}

func (w *tcpWire) WriteFrame(b []byte) error {
	_, err := w.conn.Write(b)
	return err
}

func (w *tcpWire) SetReadDeadline(t time.Time) error  { return w.conn.SetReadDeadline(t) }
func (w *tcpWire) SetWriteDeadline(t time.Time) error { return w.conn.SetWriteDeadline(t) }
func (w *tcpWire) Close() error                       { return w.conn.Close() }
func (w *tcpWire) RemoteAddr() string                 { return w.conn.RemoteAddr().String() }

// ServeTCP 接受 TCP 连接并交给竞技场，监听关闭后返回 nil
func ServeTCP(ln net.Listener, a *Arena) error {
	var backoff time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				// 临时错误：指数退避后继续
				backoff = min(max(2*backoff, 5*time.Millisecond), time.Second)
				Log.Warnw("accept failed, retrying", "err", err, "backoff", backoff)
				time.Sleep(backoff)
				continue
			}
			return err
		}
		backoff = 0
		if tc, ok := conn.(*net.TCPConn); ok {
			_ = tc.SetNoDelay(true)
		}
		a.Accept(newTCPWire(conn))
	}
}
