package util

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

func abs(x float32) float32 {
	return float32(math.Abs(float64(x)))
}

func Sin(x float32) float32 {
	return float32(math.Sin(float64(x)))
}

func Cos(x float32) float32 {
	return float32(math.Cos(float64(x)))
}

func Max(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func Min(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

// IsFiniteVec3 reports whether no component is NaN or infinite.
func IsFiniteVec3(v mgl32.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(float64(c)) || math.IsInf(float64(c), 0) {
			return false
		}
	}
	return true
}

// PointOnCircle returns the point at angle (radians) on a horizontal circle.
func PointOnCircle(center mgl32.Vec3, radius, angle float32) mgl32.Vec3 {
	return center.Add(mgl32.Vec3{Cos(angle) * radius, 0, Sin(angle) * radius})
}
