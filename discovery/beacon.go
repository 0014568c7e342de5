// Package discovery 在局域网内周期性广播竞技场地址
package discovery

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/ipv4"
)

const prefix = "SNAKEARENA"

// Announcement 广播内容：SNAKEARENA <tcp-addr> <size>\n
func Announcement(tcpAddr string, size int) []byte {
	return []byte(fmt.Sprintf("%s %s %d\n", prefix, tcpAddr, size))
}

// ParseAnnouncement 客户端侧解析广播
func ParseAnnouncement(b []byte) (addr string, size int, ok bool) {
	fields := strings.Fields(string(b))
	if len(fields) != 3 || fields[0] != prefix {
		return "", 0, false
	}
	size, err := strconv.Atoi(fields[2])
	if err != nil {
		return "", 0, false
	}
	return fields[1], size, true
}

// Beacon 向组播组（或单播地址）定期发送同一条消息
type Beacon struct {
	dst      *net.UDPAddr
	interval time.Duration
	msg      []byte
	pc       *ipv4.PacketConn
	conn     net.PacketConn

	// OnError 发送失败时回调，可为空
	OnError func(error)
}

// NewBeacon group 形如 "239.255.42.99:11001"
func NewBeacon(group string, interval time.Duration, msg []byte) (*Beacon, error) {
	dst, err := net.ResolveUDPAddr("udp4", group)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", group, err)
	}
	if interval <= 0 {
		return nil, fmt.Errorf("beacon interval must be positive, got %v", interval)
	}
	conn, err := net.ListenPacket("udp4", ":0")
	if err != nil {
		return nil, fmt.Errorf("listen: %w", err)
	}
	pc := ipv4.NewPacketConn(conn)
	if dst.IP.IsMulticast() {
		// 只在本网段内传播
		if err := pc.SetMulticastTTL(1); err != nil {
			conn.Close()
			return nil, fmt.Errorf("multicast ttl: %w", err)
		}
		if err := pc.SetMulticastLoopback(true); err != nil {
			conn.Close()
			return nil, fmt.Errorf("multicast loopback: %w", err)
		}
	}
	return &Beacon{dst: dst, interval: interval, msg: msg, pc: pc, conn: conn}, nil
}

// Run 立即发送一次，之后每个间隔发送一次，直到 ctx 取消
func (b *Beacon) Run(ctx context.Context) {
	t := time.NewTicker(b.interval)
	defer t.Stop()
	for {
		if _, err := b.pc.WriteTo(b.msg, nil, b.dst); err != nil && b.OnError != nil {
			b.OnError(err)
		}
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}

func (b *Beacon) Close() error {
	return b.conn.Close()
}
