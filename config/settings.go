package config

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"

	"snakearena/game"
)

// ErrInvalidSettings 配置文件内容不合法
var ErrInvalidSettings = errors.New("invalid settings")

// Settings 启动时读取一次的游戏参数，之后只读
type Settings struct {
	MSPerFrame   int         `json:"msPerFrame"`
	RespawnRate  int         `json:"respawnRate"`
	UniverseSize int         `json:"universeSize"`
	MaxPowerups  int         `json:"maxPowerups"`
	Walls        []game.Wall `json:"walls"`
}

// settings.xml 的结构，沿用 <GameSettings> 布局
type xmlSettings struct {
	XMLName      xml.Name  `xml:"GameSettings"`
	MSPerFrame   int       `xml:"MSPerFrame"`
	RespawnRate  int       `xml:"RespawnRate"`
	UniverseSize int       `xml:"UniverseSize"`
	MaxPowerups  *int      `xml:"MaxPowerups"`
	Walls        []xmlWall `xml:"Walls>Wall"`
}

type xmlWall struct {
	ID int    `xml:"ID"`
	P1 xmlVec `xml:"p1"`
	P2 xmlVec `xml:"p2"`
}

type xmlVec struct {
	X float64 `xml:"x"`
	Y float64 `xml:"y"`
}

// LoadSettings 读取并校验配置文件
func LoadSettings(path string) (Settings, error) {
	f, err := os.Open(path)
	if err != nil {
		return Settings{}, fmt.Errorf("open settings: %w", err)
	}
	defer f.Close()
	s, err := ParseSettings(f)
	if err != nil {
		return Settings{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ParseSettings 从 XML 解析配置
func ParseSettings(r io.Reader) (Settings, error) {
	var x xmlSettings
	if err := xml.NewDecoder(r).Decode(&x); err != nil {
		return Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	s := Settings{
		MSPerFrame:   x.MSPerFrame,
		RespawnRate:  x.RespawnRate,
		UniverseSize: x.UniverseSize,
		MaxPowerups:  game.DefaultMaxPowerups,
		Walls:        make([]game.Wall, 0, len(x.Walls)),
	}
	if x.MaxPowerups != nil {
		s.MaxPowerups = *x.MaxPowerups
	}
	for _, w := range x.Walls {
		s.Walls = append(s.Walls, game.Wall{
			ID: w.ID,
			P1: game.Vector2D{X: w.P1.X, Y: w.P1.Y},
			P2: game.Vector2D{X: w.P2.X, Y: w.P2.Y},
		})
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate 检查帧间隔、尺寸、复活时间与墙体
func (s Settings) Validate() error {
	switch {
	case s.MSPerFrame <= 0:
		return fmt.Errorf("%w: MSPerFrame must be positive, got %d", ErrInvalidSettings, s.MSPerFrame)
	case s.UniverseSize <= 0:
		return fmt.Errorf("%w: UniverseSize must be positive, got %d", ErrInvalidSettings, s.UniverseSize)
	case s.RespawnRate < 0:
		return fmt.Errorf("%w: RespawnRate must not be negative, got %d", ErrInvalidSettings, s.RespawnRate)
	case s.MaxPowerups < 0:
		return fmt.Errorf("%w: MaxPowerups must not be negative, got %d", ErrInvalidSettings, s.MaxPowerups)
	}
	seen := make(map[int]bool, len(s.Walls))
	for _, w := range s.Walls {
		if seen[w.ID] {
			return fmt.Errorf("%w: duplicate wall id %d", ErrInvalidSettings, w.ID)
		}
		seen[w.ID] = true
		if w.P1.X != w.P2.X && w.P1.Y != w.P2.Y {
			return fmt.Errorf("%w: wall %d is not axis-aligned", ErrInvalidSettings, w.ID)
		}
	}
	return nil
}
