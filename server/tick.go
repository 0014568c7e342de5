package server

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrTickerStarted 同一个竞技场只能启动一次 Tick 循环
var ErrTickerStarted = errors.New("arena ticker already started")

// StartTicker 启动竞技场的 Tick 循环（单协程推进世界）
// 返回的通道在循环结束时给出结果：ctx 取消时为 nil，否则为致命错误
func (a *Arena) StartTicker(ctx context.Context) <-chan error {
	errc := make(chan error, 1)
	if !a.tickerStarted.CompareAndSwap(false, true) {
		errc <- ErrTickerStarted
		close(errc)
		return errc
	}
	go func() {
		defer close(errc)
		errc <- a.run(ctx)
	}()
	return errc
}

// run 按截止时间休眠的固定帧循环：处理输入 → 更新世界 → 广播结果
// 某帧超时后以当前时间重新对齐，不追帧
func (a *Arena) run(ctx context.Context) error {
	defer a.stop()
	period := time.Duration(a.settings.MSPerFrame) * time.Millisecond
	Log.Infow("arena ticking", "period", period, "size", a.settings.UniverseSize, "walls", len(a.settings.Walls))

	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()
	next := time.Now()
	for {
		start := time.Now()
		if err := a.Tick(start); err != nil {
			return fmt.Errorf("tick %d: %w", a.tickSeq, err)
		}
		a.metrics.AddTick(time.Since(start).Nanoseconds())

		next = next.Add(period)
		wait := time.Until(next)
		if wait < 0 {
			a.metrics.IncOverrun()
			next = time.Now()
			wait = 0
		}
		timer.Reset(wait)
		select {
		case <-ctx.Done():
			Log.Infow("arena stopped", "ticks", a.tickSeq)
			return nil
		case <-timer.C:
		}
	}
}
