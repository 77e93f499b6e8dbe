package utils

import (
	"math"
	"math/rand"
	"testing"

	"github.com/jakecoffman/cp"
)

func TestSpawnRingRadius(t *testing.T) {
	tests := []struct {
		name string
		ring SpawnRing
		want float64
	}{
		{"宽屏取半宽", SpawnRing{HalfHeight: 20, Aspect: 16.0 / 9.0, Offset: 2}, 20*16.0/9.0 + 2},
		{"竖屏取半高", SpawnRing{HalfHeight: 10, Aspect: 0.5, Offset: 1}, 11},
		{"无偏移", SpawnRing{HalfHeight: 5, Aspect: 1, Offset: 0}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ring.Radius(); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Radius() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestSpawnRingPointAround(t *testing.T) {
	ring := SpawnRing{HalfHeight: 20, Aspect: 16.0 / 9.0, Offset: 2}
	center := cp.Vector{X: 120, Y: -5}
	rng := rand.New(rand.NewSource(7))

	var sawLeft, sawRight bool
	for i := 0; i < 200; i++ {
		p := ring.PointAround(center, rng)
		if d := p.Distance(center); math.Abs(d-ring.Radius()) > 1e-6 {
			t.Fatalf("Point %v at distance %f, want %f", p, d, ring.Radius())
		}
		if p.X < center.X {
			sawLeft = true
		} else {
			sawRight = true
		}
	}
	if !sawLeft || !sawRight {
		t.Error("Expected points on both sides of the center")
	}
}
