package game

import "slices"

const (
	SnakeWidth   = 10
	WallWidth    = 25
	PowerupWidth = 10

	// SnakeSpeed 每 Tick 移动的单位数，全局固定
	SnakeSpeed = 6
	// SpawnLength 新生蛇的初始长度
	SpawnLength = 120
	// PowerupOffset 道具与墙体之间额外留出的距离
	PowerupOffset = 25
	// PowerupMargin 道具生成区域相对竞技场边缘的内缩
	PowerupMargin = 50
	// GrowthTicks 吃到道具后尾部停止收缩的 Tick 数
	GrowthTicks = 24

	DefaultMaxPowerups = 20
	MaxSpawnAttempts   = 10000
)

// Wall 轴对齐墙段，厚度为 WallWidth
type Wall struct {
	ID int      `json:"wall"`
	P1 Vector2D `json:"p1"`
	P2 Vector2D `json:"p2"`
}

// Ordered 使用时重排端点，使 p1 在主轴上坐标较小
func (w Wall) Ordered() (p1, p2 Vector2D) {
	if w.P1.X < w.P2.X || w.P1.Y < w.P2.Y {
		return w.P1, w.P2
	}
	return w.P2, w.P1
}

// PowerUp 可拾取道具
type PowerUp struct {
	ID   int      `json:"power"`
	Loc  Vector2D `json:"loc"`
	Died bool     `json:"died"`
}

// World 竞技场世界：只由 Tick 协程读写
type World struct {
	Size     int
	Snakes   map[int]*Snake
	PowerUps map[int]*PowerUp
	Walls    map[int]*Wall

	nextPowerID int
}

// NewWorld 创建世界并载入固定墙体
func NewWorld(size int, walls []Wall) *World {
	w := &World{
		Size:     size,
		Snakes:   make(map[int]*Snake),
		PowerUps: make(map[int]*PowerUp),
		Walls:    make(map[int]*Wall, len(walls)),
	}
	for i := range walls {
		wall := walls[i]
		w.Walls[wall.ID] = &wall
	}
	return w
}

// AddPowerUp 以自增 id 放入一个新道具
func (w *World) AddPowerUp(loc Vector2D) *PowerUp {
	p := &PowerUp{ID: w.nextPowerID, Loc: loc}
	w.nextPowerID++
	w.PowerUps[p.ID] = p
	return p
}

// RemoveDeadPowerUps 清理被吃掉的道具，返回清理数量
func (w *World) RemoveDeadPowerUps() int {
	n := 0
	for id, p := range w.PowerUps {
		if p.Died {
			delete(w.PowerUps, id)
			n++
		}
	}
	return n
}

func (w *World) SnakeIDs() []int   { return sortedKeys(w.Snakes) }
func (w *World) PowerUpIDs() []int { return sortedKeys(w.PowerUps) }
func (w *World) WallIDs() []int    { return sortedKeys(w.Walls) }

func sortedKeys[V any](m map[int]V) []int {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// inArena 点是否位于竞技场内（含边界）
func (w *World) inArena(p Vector2D) bool {
	half := float64(w.Size) / 2
	return p.X >= -half && p.X <= half && p.Y >= -half && p.Y <= half
}
