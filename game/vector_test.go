package game

import (
	"math"
	"testing"
)

func TestAngleCardinals(t *testing.T) {
	cases := []struct {
		v    Vector2D
		want float64
	}{
		{Down, 0},
		{Left, 90},
		{Up, 180},
		{Right, -90},
		{Vector2D{0, 42}, 0},
		{Vector2D{-7, 0}, 90},
	}
	for _, c := range cases {
		if got := c.v.Angle(); got != c.want {
			t.Errorf("Angle(%v) = %v, want %v", c.v, got, c.want)
		}
	}
}

func TestAngleBetweenPoints(t *testing.T) {
	if got := AngleBetween(Vector2D{0, 0}, Vector2D{0, -6}); got != 180 {
		t.Fatalf("upward bearing = %v, want 180", got)
	}
	if got := AngleBetween(Vector2D{10, 0}, Vector2D{0, 0}); got != 90 {
		t.Fatalf("leftward bearing = %v, want 90", got)
	}
	if got := AngleBetween(Vector2D{0, 0}, Vector2D{1, 1}); math.Abs(got+45) > 1e-9 {
		t.Fatalf("diagonal bearing = %v, want -45", got)
	}
}

func TestNormalize(t *testing.T) {
	if n := (Vector2D{}).Normalize(); !n.IsZero() {
		t.Fatalf("zero vector normalized to %v", n)
	}
	n := Vector2D{3, 4}.Normalize()
	if math.Abs(n.Length()-1) > 1e-12 || math.Abs(n.X-0.6) > 1e-12 {
		t.Fatalf("unexpected normalized vector %v", n)
	}
}

func TestVectorArithmetic(t *testing.T) {
	a, b := Vector2D{1, 2}, Vector2D{4, 6}
	if got := a.Add(b); !got.Equal(Vector2D{5, 8}) {
		t.Fatalf("Add = %v", got)
	}
	if got := b.Sub(a).Length(); got != 5 {
		t.Fatalf("distance = %v", got)
	}
	if got := a.Scale(-2); !got.Equal(Vector2D{-2, -4}) {
		t.Fatalf("Scale = %v", got)
	}
}

func TestParseDirection(t *testing.T) {
	for _, tok := range []string{"up", "down", "left", "right", "none"} {
		d, ok := ParseDirection(tok)
		if !ok || d.String() != tok {
			t.Errorf("ParseDirection(%q) = %v, %v", tok, d, ok)
		}
	}
	for _, tok := range []string{"sideways", "UP", " up", "Left"} {
		if _, ok := ParseDirection(tok); ok {
			t.Errorf("ParseDirection(%q) accepted", tok)
		}
	}
}
