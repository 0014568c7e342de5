package game

import (
	"errors"
	"testing"
)

func borderWorld() *World {
	return NewWorld(2000, []Wall{
		{ID: 0, P1: Vector2D{-975, -975}, P2: Vector2D{975, -975}},
		{ID: 1, P1: Vector2D{-975, 975}, P2: Vector2D{975, 975}},
		{ID: 2, P1: Vector2D{-975, -975}, P2: Vector2D{-975, 975}},
		{ID: 3, P1: Vector2D{975, 975}, P2: Vector2D{975, -975}},
		{ID: 4, P1: Vector2D{-575, -575}, P2: Vector2D{575, -575}},
		{ID: 5, P1: Vector2D{0, -200}, P2: Vector2D{0, 400}},
	})
}

func TestSpawnSnakeAvoidsWalls(t *testing.T) {
	w := borderWorld()
	sp := NewSpawner(7)
	for i := 0; i < 500; i++ {
		s, err := sp.SpawnSnake(w, i, "bot")
		if err != nil {
			t.Fatalf("spawn %d: %v", i, err)
		}
		if BodyCollision(w, s, 0) || BodyCollision(w, s, 1) || WallCollision(w, s) {
			t.Fatalf("spawned snake collides with a wall: %v", s.Body)
		}
		if len(s.Body) != 2 || Distance(s.Tail(), s.Head()) != SpawnLength {
			t.Fatalf("unexpected body %v", s.Body)
		}
		if !s.Alive || s.Died || s.Score != 0 || s.Name != "bot" || s.ID != i {
			t.Fatalf("unexpected fresh snake state %+v", s)
		}
		// 尾在头的后方
		if !s.Head().Sub(s.Tail()).Normalize().Equal(s.Dir) {
			t.Fatalf("tail not behind head: body=%v dir=%v", s.Body, s.Dir)
		}
	}
}

func TestSpawnPowerUpAvoidsPaddedWalls(t *testing.T) {
	w := borderWorld()
	sp := NewSpawner(11)
	pad := float64(WallWidth + PowerupWidth + PowerupOffset)
	for i := 0; i < 500; i++ {
		loc, err := sp.SpawnPowerUp(w, PowerupOffset)
		if err != nil {
			t.Fatalf("spawn %d: %v", i, err)
		}
		if hitsWall(w, loc, pad) {
			t.Fatalf("power-up at %v inside padded wall", loc)
		}
	}
}

func TestSpawnExhaustion(t *testing.T) {
	// 竖墙间隔 40，加宽后覆盖整个竞技场
	var walls []Wall
	for i, x := range []float64{-100, -60, -20, 20, 60, 100} {
		walls = append(walls, Wall{ID: i, P1: Vector2D{x, -100}, P2: Vector2D{x, 100}})
	}
	w := NewWorld(200, walls)
	sp := NewSpawner(1).WithMaxAttempts(200)

	if _, err := sp.SpawnSnake(w, 1, "a"); !errors.Is(err, ErrSpawnExhausted) {
		t.Fatalf("snake spawn err = %v, want ErrSpawnExhausted", err)
	}
	if _, err := sp.SpawnPowerUp(w, PowerupOffset); !errors.Is(err, ErrSpawnExhausted) {
		t.Fatalf("power-up spawn err = %v, want ErrSpawnExhausted", err)
	}
}

func TestSpawnPowerUpRelaxesOffset(t *testing.T) {
	// offset=25 时无处可放，offset=0 时留有空隙
	w := NewWorld(300, []Wall{
		{ID: 0, P1: Vector2D{-45, -150}, P2: Vector2D{-45, 150}},
		{ID: 1, P1: Vector2D{45, -150}, P2: Vector2D{45, 150}},
	})
	sp := NewSpawner(3).WithMaxAttempts(2000)
	loc, err := sp.SpawnPowerUp(w, PowerupOffset)
	if err != nil {
		t.Fatalf("relaxed spawn failed: %v", err)
	}
	if hitsWall(w, loc, WallWidth+PowerupWidth) {
		t.Fatalf("relaxed location %v still inside wall padding", loc)
	}
}

func TestWorldPowerUpBookkeeping(t *testing.T) {
	w := NewWorld(1000, nil)
	a := w.AddPowerUp(Vector2D{1, 1})
	b := w.AddPowerUp(Vector2D{2, 2})
	if a.ID == b.ID {
		t.Fatal("power-up ids must be unique")
	}
	a.Died = true
	if n := w.RemoveDeadPowerUps(); n != 1 || len(w.PowerUps) != 1 {
		t.Fatalf("removed %d, left %d", n, len(w.PowerUps))
	}
	if ids := w.PowerUpIDs(); len(ids) != 1 || ids[0] != b.ID {
		t.Fatalf("ids = %v", ids)
	}
}
