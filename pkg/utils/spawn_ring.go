// Package utils 提供模拟中通用的几何工具
package utils

import (
	"math"
	"math/rand"

	"github.com/jakecoffman/cp"
)

// SpawnRing 视野外的生成环
//
// 半径取视野半高与半宽中的较大值，再加上 Offset，保证敌人在镜头外出现。
type SpawnRing struct {
	HalfHeight float64
	Aspect     float64
	Offset     float64
}

// Radius 返回生成环半径
func (r SpawnRing) Radius() float64 {
	return math.Max(r.HalfHeight, r.HalfHeight*r.Aspect) + r.Offset
}

// PointAround 在以 center 为圆心的环上取随机点，角度均匀分布在 [0, 2π)
func (r SpawnRing) PointAround(center cp.Vector, rng *rand.Rand) cp.Vector {
	angle := rng.Float64() * 2 * math.Pi
	return center.Add(cp.ForAngle(angle).Mult(r.Radius()))
}
