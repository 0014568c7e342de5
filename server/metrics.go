package server

import (
	"sync/atomic"
)

// ArenaMetrics 记录竞技场运行期的关键指标（用于监控与调试）
type ArenaMetrics struct {
	TickCount         int64 // 统计的 Tick 次数
	TotalTickNs       int64 // Tick 累计耗时（纳秒）
	Overruns          int64 // 超出帧间隔的 Tick 数
	InputsAccepted    int64 // 被接受的输入数
	ChanFullDiscarded int64 // 因通道满被丢弃的输入数
	Joins             int64
	Leaves            int64
	Deaths            int64
	Respawns          int64
	PowerupsEaten     int64
	SendFailures      int64 // 发送队列满或已关闭
	BytesBroadcast    int64
}

func (m *ArenaMetrics) IncAccepted()          { atomic.AddInt64(&m.InputsAccepted, 1) }
func (m *ArenaMetrics) IncChanFullDiscarded() { atomic.AddInt64(&m.ChanFullDiscarded, 1) }
func (m *ArenaMetrics) IncOverrun()           { atomic.AddInt64(&m.Overruns, 1) }
func (m *ArenaMetrics) IncJoin()              { atomic.AddInt64(&m.Joins, 1) }
func (m *ArenaMetrics) IncLeave()             { atomic.AddInt64(&m.Leaves, 1) }
func (m *ArenaMetrics) IncDeath()             { atomic.AddInt64(&m.Deaths, 1) }
func (m *ArenaMetrics) IncRespawn()           { atomic.AddInt64(&m.Respawns, 1) }
func (m *ArenaMetrics) IncPowerupEaten()      { atomic.AddInt64(&m.PowerupsEaten, 1) }
func (m *ArenaMetrics) IncSendFailure()       { atomic.AddInt64(&m.SendFailures, 1) }
func (m *ArenaMetrics) AddBroadcast(n int)    { atomic.AddInt64(&m.BytesBroadcast, int64(n)) }
func (m *ArenaMetrics) AddTick(ns int64) {
	atomic.AddInt64(&m.TickCount, 1)
	atomic.AddInt64(&m.TotalTickNs, ns)
}

// Snapshot 返回只读副本，便于 HTTP 输出
func (m *ArenaMetrics) Snapshot() map[string]any {
	tick := atomic.LoadInt64(&m.TickCount)
	total := atomic.LoadInt64(&m.TotalTickNs)
	var avgMs float64
	if tick > 0 {
		avgMs = float64(total) / float64(tick) / 1e6
	}
	return map[string]any{
		"tick_count":          tick,
		"avg_tick_ms":         avgMs,
		"overruns":            atomic.LoadInt64(&m.Overruns),
		"inputs_accepted":     atomic.LoadInt64(&m.InputsAccepted),
		"chan_full_discarded": atomic.LoadInt64(&m.ChanFullDiscarded),
		"joins":               atomic.LoadInt64(&m.Joins),
		"leaves":              atomic.LoadInt64(&m.Leaves),
		"deaths":              atomic.LoadInt64(&m.Deaths),
		"respawns":            atomic.LoadInt64(&m.Respawns),
		"powerups_eaten":      atomic.LoadInt64(&m.PowerupsEaten),
		"send_failures":       atomic.LoadInt64(&m.SendFailures),
		"bytes_broadcast":     atomic.LoadInt64(&m.BytesBroadcast),
	}
}
