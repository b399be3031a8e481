package geom

import (
	"math"
	"testing"
)

func TestSizeMax(t *testing.T) {
	tests := []struct {
		size Size
		want float64
	}{
		{Size{300, 600}, 600},
		{Size{800, 600}, 800},
		{Size{50, 50}, 50},
	}
	for _, tt := range tests {
		if got := tt.size.Max(); got != tt.want {
			t.Errorf("%v.Max() = %v, want %v", tt.size, got, tt.want)
		}
	}
}

func TestSizeValid(t *testing.T) {
	tests := []struct {
		name string
		size Size
		want bool
	}{
		{"positive", Size{1, 1}, true},
		{"zero width", Size{0, 10}, false},
		{"negative height", Size{10, -1}, false},
		{"infinite", Size{math.Inf(1), 10}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.size.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: -10, Y: 0, Width: 20, Height: 5}
	tests := []struct {
		p    Vec
		want bool
	}{
		{Vec{X: 0, Y: 2}, true},
		{Vec{X: -10, Y: 0}, true},
		{Vec{X: 10, Y: 5}, true},
		{Vec{X: 10.1, Y: 2}, false},
		{Vec{X: 0, Y: -0.1}, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.p); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestRectAround(t *testing.T) {
	r := RectAround(Vec{X: 5, Y: 5}, 10, 4)
	if r.X != 0 || r.Y != 3 || r.MaxX() != 10 || r.MaxY() != 7 {
		t.Errorf("RectAround = %+v", r)
	}
	if c := r.Center(); c.X != 5 || c.Y != 5 {
		t.Errorf("Center() = %v, want (5, 5)", c)
	}
}

func TestDistance(t *testing.T) {
	if d := Distance(Vec{X: 0, Y: 0}, Vec{X: 3, Y: 4}); d != 5 {
		t.Errorf("Distance = %v, want 5", d)
	}
}
