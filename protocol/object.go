package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"snakearena/game"
)

// Kind 广播对象的类别
type Kind int

const (
	KindUnknown Kind = iota
	KindWall
	KindSnake
	KindPowerUp
)

func (k Kind) String() string {
	switch k {
	case KindWall:
		return "wall"
	case KindSnake:
		return "snake"
	case KindPowerUp:
		return "power"
	}
	return "unknown"
}

// Object 解码后的标签联合，只有与 Kind 对应的字段非空
type Object struct {
	Kind    Kind
	Wall    *game.Wall
	Snake   *game.Snake
	PowerUp *game.PowerUp
}

// ErrUnknownObject 行中没有 wall/snake/power 任一字段
var ErrUnknownObject = errors.New("protocol: no wall/snake/power field")

// Decode 按 wall/snake/power 字段是否存在区分对象类型
func Decode(line string) (Object, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(line), &probe); err != nil {
		return Object{}, fmt.Errorf("decode object: %w", err)
	}
	var (
		obj Object
		err error
	)
	switch {
	case has(probe, "wall"):
		obj.Kind, obj.Wall = KindWall, new(game.Wall)
		err = json.Unmarshal([]byte(line), obj.Wall)
	case has(probe, "snake"):
		obj.Kind, obj.Snake = KindSnake, new(game.Snake)
		err = json.Unmarshal([]byte(line), obj.Snake)
	case has(probe, "power"):
		obj.Kind, obj.PowerUp = KindPowerUp, new(game.PowerUp)
		err = json.Unmarshal([]byte(line), obj.PowerUp)
	default:
		return Object{}, ErrUnknownObject
	}
	if err != nil {
		return Object{}, fmt.Errorf("decode %s: %w", obj.Kind, err)
	}
	return obj, nil
}

func has(m map[string]json.RawMessage, key string) bool {
	_, ok := m[key]
	return ok
}
