package server

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"snakearena/config"
	"snakearena/game"
	"snakearena/protocol"
)

// Arena 竞技场：世界状态只由 Tick 协程读写，其余协程只向通道投递请求
type Arena struct {
	settings     config.Settings
	world        *game.World
	spawner      *game.Spawner
	registry     *Registry
	metrics      *ArenaMetrics
	connOpts     ConnOptions
	respawnDelay time.Duration
	maxPowerups  int

	inputChan chan Input
	joinChan  chan joinRequest
	leaveChan chan int
	stopped   chan struct{}
	stopOnce  sync.Once

	tickSeq       uint64
	tickerStarted atomic.Bool
	snapshot      atomic.Pointer[Snapshot]
}

// Snapshot 最近一次 Tick 后的世界快照，只读
type Snapshot struct {
	Tick     uint64         `json:"tick"`
	Size     int            `json:"size"`
	Snakes   []*game.Snake  `json:"snakes"`
	PowerUps []game.PowerUp `json:"powerups"`
}

// NewArena 创建竞技场，seed 决定生成器的随机序列
func NewArena(settings config.Settings, opts ConnOptions, seed int64) *Arena {
	a := &Arena{
		settings:     settings,
		world:        game.NewWorld(settings.UniverseSize, settings.Walls),
		spawner:      game.NewSpawner(seed),
		registry:     NewRegistry(),
		metrics:      &ArenaMetrics{},
		connOpts:     opts,
		respawnDelay: time.Duration(settings.RespawnRate) * time.Millisecond,
		maxPowerups:  settings.MaxPowerups,
		inputChan:    make(chan Input, 256), // 足够缓冲，避免网络读阻塞影响 Tick
		joinChan:     make(chan joinRequest, 64),
		leaveChan:    make(chan int, 64),
		stopped:      make(chan struct{}),
	}
	a.snapshot.Store(&Snapshot{Size: settings.UniverseSize})
	return a
}

func (a *Arena) Registry() *Registry       { return a.registry }
func (a *Arena) Metrics() *ArenaMetrics    { return a.metrics }
func (a *Arena) Settings() config.Settings { return a.settings }

// Snapshot 最近发布的快照，可在任意协程调用
func (a *Arena) Snapshot() *Snapshot { return a.snapshot.Load() }

// Accept 注册新连接并启动读写协程
func (a *Arena) Accept(w wire) *ClientConn {
	c := newClientConn(a.registry.NextID(), w, a.connOpts)
	a.registry.Add(c)
	c.log.Infow("client connected")
	go c.writePump()
	go c.readPump(a)
	return c
}

// OnInput 入站输入（不立即改变方向），仅记录意图，等下一次 Tick 处理
func (a *Arena) OnInput(in Input) {
	select {
	case a.inputChan <- in:
		a.metrics.IncAccepted()
	default:
		// 丢弃：为了实时性，避免背压影响世界推进
		a.metrics.IncChanFullDiscarded()
	}
}

// RequestJoin 握手首行到达，请求在 Tick 协程中生成蛇
func (a *Arena) RequestJoin(c *ClientConn, name string) {
	select {
	case a.joinChan <- joinRequest{Conn: c, Name: name}:
	case <-a.stopped:
	}
}

// RequestLeave 请求在 Tick 协程中移除玩家，避免并发改动世界
func (a *Arena) RequestLeave(id int) {
	select {
	case a.leaveChan <- id:
	case <-a.stopped:
	}
}

// Tick 推进一帧：清理 → 补充道具 → 处理加入与输入 → 更新蛇 → 广播
func (a *Arena) Tick(now time.Time) error {
	a.tickSeq++
	a.drainLeaves()
	if err := a.refreshPowerUps(); err != nil {
		return err
	}
	if err := a.ProcessInputs(); err != nil {
		return err
	}

	var buf []byte
	snakes, err := a.updateSnakes(now)
	if err != nil {
		return err
	}
	for _, s := range snakes {
		if buf, err = protocol.AppendLine(buf, s); err != nil {
			return err
		}
	}
	pows := make([]game.PowerUp, 0, len(a.world.PowerUps))
	for _, id := range a.world.PowerUpIDs() {
		p := a.world.PowerUps[id]
		if buf, err = protocol.AppendLine(buf, p); err != nil {
			return err
		}
		pows = append(pows, *p)
	}

	a.Broadcast(buf)

	for i, s := range snakes {
		snakes[i] = s.Clone()
	}
	a.snapshot.Store(&Snapshot{Tick: a.tickSeq, Size: a.world.Size, Snakes: snakes, PowerUps: pows})
	return nil
}

// drainLeaves 注销断开的连接并标记其蛇不再存活
func (a *Arena) drainLeaves() {
	for {
		select {
		case id := <-a.leaveChan:
			if c, ok := a.registry.Remove(id); ok {
				c.Close()
				a.metrics.IncLeave()
				c.log.Infow("client disconnected")
			}
			if s, ok := a.world.Snakes[id]; ok {
				s.Disconnect()
			}
		default:
			return
		}
	}
}

// refreshPowerUps 移除被吃掉的道具并补足到上限
func (a *Arena) refreshPowerUps() error {
	a.world.RemoveDeadPowerUps()
	for len(a.world.PowerUps) < a.maxPowerups {
		loc, err := a.spawner.SpawnPowerUp(a.world, game.PowerupOffset)
		if err != nil {
			return err
		}
		a.world.AddPowerUp(loc)
	}
	return nil
}

// ProcessInputs 处理当前帧的所有加入请求与移动意图（非阻塞 drain）
func (a *Arena) ProcessInputs() error {
joins:
	for {
		select {
		case req := <-a.joinChan:
			if err := a.handleJoin(req); err != nil {
				return err
			}
		default:
			break joins
		}
	}
	for {
		select {
		case in := <-a.inputChan:
			if s, ok := a.world.Snakes[in.PlayerID]; ok && s.Alive {
				s.SetPending(in.Command)
			}
		default:
			return nil
		}
	}
}

// handleJoin 生成蛇、放入世界并发送握手回复
func (a *Arena) handleJoin(req joinRequest) error {
	c := req.Conn
	if !a.registry.Has(c.ID) {
		// 握手完成前已断开
		return nil
	}
	s, err := a.spawner.SpawnSnake(a.world, c.ID, req.Name)
	if err != nil {
		return fmt.Errorf("join %q: %w", req.Name, err)
	}
	a.world.Snakes[c.ID] = s

	walls := make([]*game.Wall, 0, len(a.world.Walls))
	for _, id := range a.world.WallIDs() {
		walls = append(walls, a.world.Walls[id])
	}
	pows := make([]*game.PowerUp, 0, len(a.world.PowerUps))
	for _, id := range a.world.PowerUpIDs() {
		pows = append(pows, a.world.PowerUps[id])
	}
	hello, err := protocol.Handshake(c.ID, a.world.Size, walls, pows)
	if err != nil {
		return err
	}
	c.joined.Store(true)
	a.metrics.IncJoin()
	if !c.Enqueue(hello) {
		a.dropConn(c, "handshake send failed")
		return nil
	}
	c.log.Infow("player joined", "name", req.Name, "head", s.Head(), "dir", s.Dir)
	return nil
}

// updateSnakes 逐条处理蛇，返回本帧需要广播的蛇（按 id 升序）
func (a *Arena) updateSnakes(now time.Time) ([]*game.Snake, error) {
	w := a.world
	out := make([]*game.Snake, 0, len(w.Snakes))
	for _, id := range w.SnakeIDs() {
		s := w.Snakes[id]
		if !a.registry.Has(id) {
			s.Disconnect()
		}
		if !s.Alive {
			// 断开的蛇广播最后一次后移出世界
			out = append(out, s)
			delete(w.Snakes, id)
			continue
		}
		if s.Died {
			if now.Before(s.RespawnAt()) {
				continue
			}
			fresh, err := a.spawner.SpawnSnake(w, id, s.Name)
			if err != nil {
				return nil, fmt.Errorf("respawn %q: %w", s.Name, err)
			}
			w.Snakes[id] = fresh
			a.metrics.IncRespawn()
			out = append(out, fresh)
			continue
		}
		if game.WallCollision(w, s) || game.OtherSnakeCollision(w, s) || game.SelfCollision(s) {
			s.Kill(now.Add(a.respawnDelay))
			a.metrics.IncDeath()
			Log.Debugw("snake died", "snake", id, "name", s.Name, "score", s.Score)
			out = append(out, s)
			continue
		}
		s.Step(game.SnakeSpeed)
		if game.PowerupCollision(w, s) {
			s.Score++
			s.Grow(game.GrowthTicks)
			a.metrics.IncPowerupEaten()
		}
		out = append(out, s)
	}
	return out, nil
}

// Broadcast 将本帧数据推送给所有已握手的连接；发送失败的连接随后移除
func (a *Arena) Broadcast(payload []byte) {
	if len(payload) == 0 {
		return
	}
	var failed []*ClientConn
	for _, c := range a.registry.Snapshot() {
		if !c.Joined() {
			continue
		}
		if !c.Enqueue(payload) {
			failed = append(failed, c)
			continue
		}
		a.metrics.AddBroadcast(len(payload))
	}
	for _, c := range failed {
		a.dropConn(c, "send failed")
	}
}

func (a *Arena) dropConn(c *ClientConn, reason string) {
	a.registry.Remove(c.ID)
	c.Close()
	a.metrics.IncSendFailure()
	c.log.Warnw("dropping client", "reason", reason)
}

func (a *Arena) stop() {
	a.stopOnce.Do(func() { close(a.stopped) })
}
