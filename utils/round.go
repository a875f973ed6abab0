package utils

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Rf rounds to the sample accuracy used in exported documents (4 decimal places).
func Rf(f float32) float32 {
	return float32(math.Round(float64(f)*10000.0) / 10000.0)
}

func RfVec3(v mgl32.Vec3) [3]float32 {
	return [3]float32{Rf(v[0]), Rf(v[1]), Rf(v[2])}
}

// RfQuat rounds per component, keeping the x,y,z,w order of the document format.
func RfQuat(q [4]float32) [4]float32 {
	return [4]float32{Rf(q[0]), Rf(q[1]), Rf(q[2]), Rf(q[3])}
}
