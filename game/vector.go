package game

import "math"

// Vector2D 二维向量（值语义，按约定不可变）
type Vector2D struct {
	X float64
	Y float64
}

func (v Vector2D) Add(o Vector2D) Vector2D  { return Vector2D{v.X + o.X, v.Y + o.Y} }
func (v Vector2D) Sub(o Vector2D) Vector2D  { return Vector2D{v.X - o.X, v.Y - o.Y} }
func (v Vector2D) Scale(k float64) Vector2D { return Vector2D{v.X * k, v.Y * k} }
func (v Vector2D) Length() float64          { return math.Hypot(v.X, v.Y) }
func (v Vector2D) Equal(o Vector2D) bool    { return v.X == o.X && v.Y == o.Y }
func (v Vector2D) IsZero() bool             { return v.X == 0 && v.Y == 0 }

// Normalize 返回单位向量；长度为 0 时返回零向量
func (v Vector2D) Normalize() Vector2D {
	l := v.Length()
	if l == 0 {
		return Vector2D{}
	}
	return Vector2D{v.X / l, v.Y / l}
}

// Angle 罗盘方位角（度）：0=+Y(下), 90=-X(左), 180=-Y(上), -90=+X(右)
// 运动与碰撞逻辑依赖这四个字面值，坐标轴方向单独处理以保证精确
func (v Vector2D) Angle() float64 {
	switch {
	case v.X == 0 && v.Y > 0:
		return 0
	case v.X < 0 && v.Y == 0:
		return 90
	case v.X == 0 && v.Y < 0:
		return 180
	case v.X > 0 && v.Y == 0:
		return -90
	}
	return math.Atan2(-v.X, v.Y) * 180 / math.Pi
}

// AngleBetween a 指向 b 的方位角
func AngleBetween(a, b Vector2D) float64 {
	return b.Sub(a).Angle()
}

// Distance 两点欧氏距离
func Distance(a, b Vector2D) float64 {
	return a.Sub(b).Length()
}
