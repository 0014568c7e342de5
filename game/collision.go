package game

// 所有碰撞检测都是“加宽矩形”测试：障碍物两端点的包围矩形向外扩展 pad，
// 点严格落在内部即视为碰撞。这里保持矩形语义，不做胶囊体近似。

func inPadded(p, lo, hi Vector2D, pad float64) bool {
	return lo.X-pad < p.X && p.X < hi.X+pad &&
		lo.Y-pad < p.Y && p.Y < hi.Y+pad
}

// bounds 两点的轴对齐包围盒
func bounds(a, b Vector2D) (lo, hi Vector2D) {
	lo = Vector2D{min(a.X, b.X), min(a.Y, b.Y)}
	hi = Vector2D{max(a.X, b.X), max(a.Y, b.Y)}
	return lo, hi
}

func hitsWall(w *World, p Vector2D, pad float64) bool {
	for _, wall := range w.Walls {
		p1, p2 := wall.Ordered()
		if inPadded(p, p1, p2, pad) {
			return true
		}
	}
	return false
}

// WallCollision 蛇头是否撞墙
func WallCollision(w *World, s *Snake) bool {
	return BodyCollision(w, s, len(s.Body)-1)
}

// BodyCollision 任意身体点是否撞墙，生成校验时使用
func BodyCollision(w *World, s *Snake, index int) bool {
	return hitsWall(w, s.Body[index], WallWidth+SnakeWidth)
}

// SelfCollision 蛇头与自身较早的身体段碰撞；少于 5 个点时跳过，
// 且不检测最靠近头部的 3 段
func SelfCollision(s *Snake) bool {
	if len(s.Body) < 5 {
		return false
	}
	head := s.Head()
	for i := 0; i < len(s.Body)-4; i++ {
		lo, hi := bounds(s.Body[i], s.Body[i+1])
		if inPadded(head, lo, hi, SnakeWidth) {
			return true
		}
	}
	return false
}

// SnakeCollision snake 的头是否撞上 other 的任意身体段
func SnakeCollision(snake, other *Snake) bool {
	if other.ID == snake.ID || other.Died || !other.Alive {
		return false
	}
	head := snake.Head()
	for i := 0; i < len(other.Body)-1; i++ {
		lo, hi := bounds(other.Body[i], other.Body[i+1])
		if inPadded(head, lo, hi, 2*SnakeWidth) {
			return true
		}
	}
	return false
}

// OtherSnakeCollision 与世界内任意其他蛇碰撞
func OtherSnakeCollision(w *World, snake *Snake) bool {
	for _, other := range w.Snakes {
		if SnakeCollision(snake, other) {
			return true
		}
	}
	return false
}

// PowerupCollision 蛇头吃到道具时将其标记为 died 并返回 true
func PowerupCollision(w *World, s *Snake) bool {
	head := s.Head()
	for _, id := range w.PowerUpIDs() {
		p := w.PowerUps[id]
		if p.Died {
			continue
		}
		if Distance(p.Loc, head) < SnakeWidth+PowerupWidth {
			p.Died = true
			return true
		}
	}
	return false
}
