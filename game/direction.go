package game

// Direction 客户端移动意图，由服务端在下一次 Tick 中解释
type Direction int

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

var (
	Up    = Vector2D{0, -1}
	Down  = Vector2D{0, 1}
	Left  = Vector2D{-1, 0}
	Right = Vector2D{1, 0}
)

// Cardinals 四个基本方向，生成器按此顺序随机挑选
var Cardinals = [4]Vector2D{Up, Down, Left, Right}

// Vector 方向对应的单位向量，DirNone 为零向量
func (d Direction) Vector() Vector2D {
	switch d {
	case DirUp:
		return Up
	case DirDown:
		return Down
	case DirLeft:
		return Left
	case DirRight:
		return Right
	}
	return Vector2D{}
}

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	}
	return "none"
}

// ParseDirection 解析协议中的方向字符串，只接受小写字面值
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "up":
		return DirUp, true
	case "down":
		return DirDown, true
	case "left":
		return DirLeft, true
	case "right":
		return DirRight, true
	case "none":
		return DirNone, true
	}
	return DirNone, false
}
