package game

import (
	"math"
	"time"
)

// Snake 服务端权威的蛇；body[0] 为尾，最后一个元素为头
type Snake struct {
	ID    int        `json:"snake"`
	Name  string     `json:"name"`
	Body  []Vector2D `json:"body"`
	Dir   Vector2D   `json:"dir"`
	Score int        `json:"score"`
	Died  bool       `json:"died"`
	Alive bool       `json:"alive"`
	DC    bool       `json:"dc"`
	Join  bool       `json:"join"`

	pending    Direction
	hasPending bool
	growTicks  int
	respawnAt  time.Time
}

// NewSnake 新建一条存活的蛇，body 至少两个点
func NewSnake(id int, name string, body []Vector2D, dir Vector2D) *Snake {
	return &Snake{
		ID:    id,
		Name:  name,
		Body:  body,
		Dir:   dir,
		Alive: true,
		Join:  true,
	}
}

// Head 蛇头
func (s *Snake) Head() Vector2D { return s.Body[len(s.Body)-1] }

// Tail 蛇尾
func (s *Snake) Tail() Vector2D { return s.Body[0] }

// SetPending 记录转向意图，下一次 Step 时消费
func (s *Snake) SetPending(d Direction) {
	s.pending = d
	s.hasPending = true
}

// Grow 开启成长窗口：接下来 ticks 次 Step 尾部不收缩
func (s *Snake) Grow(ticks int) {
	s.growTicks += ticks
}

// Growing 是否处于成长窗口
func (s *Snake) Growing() bool { return s.growTicks > 0 }

// RespawnAt 死亡后的复活时间点
func (s *Snake) RespawnAt() time.Time { return s.respawnAt }

// Kill 标记本 Tick 死亡，at 之后允许复活
func (s *Snake) Kill(at time.Time) {
	s.Died = true
	s.respawnAt = at
}

// Disconnect 连接断开后永久移除
func (s *Snake) Disconnect() {
	s.Alive = false
	s.DC = true
}

// Step 推进一个 Tick：头部前进、处理转向、尾部收缩
func (s *Snake) Step(speed float64) {
	if s.Dir.IsZero() {
		s.Dir = Right
	}
	velocity := s.Dir.Scale(speed)
	if s.Died {
		velocity = Vector2D{}
	}

	turned := false
	if s.hasPending {
		next := s.pending.Vector()
		if !next.IsZero() && !next.Equal(s.Dir) && !next.Equal(s.Dir.Scale(-1)) {
			s.Dir = next
			velocity = next.Scale(speed)
			if s.Died {
				velocity = Vector2D{}
			}
			s.Body = append(s.Body, s.Head().Add(velocity))
			turned = true
		}
		s.hasPending = false
	}
	if !turned {
		s.Body[len(s.Body)-1] = s.Head().Add(velocity)
	}

	if len(s.Body) < 2 || s.Died {
		return
	}
	if s.growTicks > 0 {
		s.growTicks--
		return
	}
	s.retractTail(speed)
}

// retractTail 尾部沿方位角对应的轴向移动一步，追上拐点后丢弃该点
func (s *Snake) retractTail(speed float64) {
	tail, next := s.Body[0], s.Body[1]
	var dir Vector2D
	switch AngleBetween(tail, next) {
	case 90:
		dir = Left
	case -90:
		dir = Right
	case 0:
		dir = Down
	case 180:
		dir = Up
	default:
		return
	}
	// 不越过拐点
	step := math.Min(speed, Distance(tail, next))
	s.Body[0] = tail.Add(dir.Scale(step))
	if s.Body[0].Equal(next) && len(s.Body) > 2 {
		s.Body = s.Body[1:]
	}
}

// Clone 深拷贝，用于对外发布快照
func (s *Snake) Clone() *Snake {
	c := *s
	c.Body = append([]Vector2D(nil), s.Body...)
	return &c
}
