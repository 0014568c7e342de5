package game

import (
	"errors"
	"fmt"
	"math/rand"
)

// ErrSpawnExhausted 拒绝采样超过上限，说明墙体几乎覆盖了竞技场
var ErrSpawnExhausted = errors.New("spawn attempts exhausted")

// Spawner 基于拒绝采样的随机生成器
type Spawner struct {
	rng         *rand.Rand
	maxAttempts int
}

// NewSpawner 指定随机种子，测试时可复现
func NewSpawner(seed int64) *Spawner {
	return &Spawner{
		rng:         rand.New(rand.NewSource(seed)),
		maxAttempts: MaxSpawnAttempts,
	}
}

// WithMaxAttempts 调整单次生成的尝试上限
func (sp *Spawner) WithMaxAttempts(n int) *Spawner {
	if n > 0 {
		sp.maxAttempts = n
	}
	return sp
}

// coord 在 [lo, hi) 内取整数坐标
func (sp *Spawner) coord(lo, hi int) float64 {
	if hi <= lo {
		return float64(lo)
	}
	return float64(lo + sp.rng.Intn(hi-lo))
}

// SpawnSnake 随机放置一条新蛇，头、尾都不与墙体碰撞且位于竞技场内
func (sp *Spawner) SpawnSnake(w *World, id int, name string) (*Snake, error) {
	half := w.Size / 2
	for attempt := 0; attempt < sp.maxAttempts; attempt++ {
		head := Vector2D{sp.coord(-half, half), sp.coord(-half, half)}
		dir := Cardinals[sp.rng.Intn(len(Cardinals))]
		tail := head.Sub(dir.Scale(SpawnLength))

		s := NewSnake(id, name, []Vector2D{tail, head}, dir)
		if !w.inArena(tail) || !w.inArena(head) {
			continue
		}
		if BodyCollision(w, s, 0) || BodyCollision(w, s, 1) || WallCollision(w, s) {
			continue
		}
		return s, nil
	}
	return nil, fmt.Errorf("snake %d: %w after %d attempts", id, ErrSpawnExhausted, sp.maxAttempts)
}

// SpawnPowerUp 随机选择道具位置；给定 offset 下失败时放宽到 0 再试一次
func (sp *Spawner) SpawnPowerUp(w *World, offset int) (Vector2D, error) {
	if loc, ok := sp.samplePowerUp(w, offset); ok {
		return loc, nil
	}
	if offset > 0 {
		if loc, ok := sp.samplePowerUp(w, 0); ok {
			return loc, nil
		}
	}
	return Vector2D{}, fmt.Errorf("powerup: %w after %d attempts", ErrSpawnExhausted, sp.maxAttempts)
}

func (sp *Spawner) samplePowerUp(w *World, offset int) (Vector2D, bool) {
	half := w.Size / 2
	lo, hi := -half+PowerupMargin, half-PowerupMargin
	if hi <= lo {
		lo, hi = -half, half
	}
	pad := float64(WallWidth + PowerupWidth + offset)
	for attempt := 0; attempt < sp.maxAttempts; attempt++ {
		loc := Vector2D{sp.coord(lo, hi), sp.coord(lo, hi)}
		if !hitsWall(w, loc, pad) {
			return loc, true
		}
	}
	return Vector2D{}, false
}
