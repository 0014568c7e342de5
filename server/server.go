package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/multierr"

	"snakearena/config"
	"snakearena/discovery"
)

// Server 组合竞技场、TCP 监听、HTTP（WebSocket + 管理接口）与局域网广播
type Server struct {
	opts     config.Options
	arena    *Arena
	tcpLn    net.Listener
	httpLn   net.Listener
	httpSrv  *http.Server
	beacon   *discovery.Beacon
	cancel   context.CancelFunc
	loopDone <-chan error
	wg       sync.WaitGroup

	closeOnce sync.Once
	closeErr  error
}

// New 根据配置创建服务器，Start 之前不占用任何端口
func New(settings config.Settings, opts config.Options) *Server {
	connOpts := ConnOptions{
		HandshakeTimeout: opts.HandshakeTimeout,
		WriteTimeout:     opts.WriteTimeout,
		SendQueue:        opts.SendQueue,
	}
	return &Server{
		opts:  opts,
		arena: NewArena(settings, connOpts, time.Now().UnixNano()),
	}
}

func (s *Server) Arena() *Arena { return s.arena }

// Start 打开监听并启动 Tick 循环；任一步骤失败都会回滚已打开的资源
func (s *Server) Start(ctx context.Context) (err error) {
	ctx, s.cancel = context.WithCancel(ctx)
	defer func() {
		if err != nil {
			err = multierr.Append(err, s.Close())
		}
	}()

	if s.tcpLn, err = net.Listen("tcp", s.opts.TCPAddr); err != nil {
		return fmt.Errorf("listen tcp %s: %w", s.opts.TCPAddr, err)
	}
	if s.opts.HTTPAddr != "" {
		if s.httpLn, err = net.Listen("tcp", s.opts.HTTPAddr); err != nil {
			return fmt.Errorf("listen http %s: %w", s.opts.HTTPAddr, err)
		}
	}
	if s.opts.DiscoveryGroup != "" {
		msg := discovery.Announcement(s.tcpLn.Addr().String(), s.arena.Settings().UniverseSize)
		if s.beacon, err = discovery.NewBeacon(s.opts.DiscoveryGroup, s.opts.DiscoveryInterval, msg); err != nil {
			return fmt.Errorf("discovery: %w", err)
		}
		s.beacon.OnError = func(err error) { Log.Debugw("beacon send failed", "err", err) }
	}

	s.loopDone = s.arena.StartTicker(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := ServeTCP(s.tcpLn, s.arena); err != nil {
			Log.Errorw("tcp accept loop stopped", "err", err)
		}
	}()
	Log.Infow("snake arena listening", "tcp", s.tcpLn.Addr().String())

	if s.httpLn != nil {
		s.httpSrv = &http.Server{Handler: s.Mux(), ReadHeaderTimeout: 5 * time.Second}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			if err := s.httpSrv.Serve(s.httpLn); err != nil && !errors.Is(err, http.ErrServerClosed) {
				Log.Errorw("http server stopped", "err", err)
			}
		}()
		Log.Infow("http listening", "addr", s.httpLn.Addr().String(), "ws", "/ws")
	}
	if s.beacon != nil {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.beacon.Run(ctx)
		}()
		Log.Infow("discovery beacon started", "group", s.opts.DiscoveryGroup)
	}
	return nil
}

// Mux HTTP 路由：WebSocket 接入与管理/监控接口
func (s *Server) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", HandleWS(s.arena))
	mux.HandleFunc("/metrics", HandleMetrics(s.arena))
	mux.HandleFunc("/admin/settings", HandleSettings(s.arena))
	mux.HandleFunc("/admin/world", HandleWorld(s.arena))
	mux.HandleFunc("/join.png", HandleJoinQR(s.tcpPort()))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

func (s *Server) tcpPort() int {
	if a, ok := s.TCPAddr().(*net.TCPAddr); ok {
		return a.Port
	}
	return 0
}

// Done 在 Tick 循环结束时给出结果（致命错误或 nil）
func (s *Server) Done() <-chan error { return s.loopDone }

func (s *Server) TCPAddr() net.Addr {
	if s.tcpLn == nil {
		return nil
	}
	return s.tcpLn.Addr()
}

func (s *Server) HTTPAddr() net.Addr {
	if s.httpLn == nil {
		return nil
	}
	return s.httpLn.Addr()
}

// Close 停止循环、关闭监听和所有连接，合并各步骤的错误；可重复调用
func (s *Server) Close() error {
	s.closeOnce.Do(func() { s.closeErr = s.close() })
	return s.closeErr
}

func (s *Server) close() error {
	if s.cancel != nil {
		s.cancel()
	}
	var err error
	if s.tcpLn != nil {
		if cerr := s.tcpLn.Close(); cerr != nil && !errors.Is(cerr, net.ErrClosed) {
			err = multierr.Append(err, cerr)
		}
	}
	if s.httpSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err = multierr.Append(err, s.httpSrv.Shutdown(ctx))
		cancel()
	} else if s.httpLn != nil {
		if cerr := s.httpLn.Close(); cerr != nil && !errors.Is(cerr, net.ErrClosed) {
			err = multierr.Append(err, cerr)
		}
	}
	if s.beacon != nil {
		err = multierr.Append(err, s.beacon.Close())
	}
	s.arena.stop()
	s.arena.registry.CloseAll()
	s.wg.Wait()
	return err
}
