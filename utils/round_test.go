package utils

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

var rfTests = []struct {
	in  float32
	out float32
}{
	{0, 0},
	{1.23456789, 1.2346},
	{-1.23454, -1.2345},
	{0.0001, 0.0001},
	{-0.00004, 0},
	{100.5, 100.5},
}

func TestRf(t *testing.T) {
	for _, test := range rfTests {
		if result := Rf(test.in); result != test.out {
			t.Errorf("Rf(%v)=%v; expected %v", test.in, result, test.out)
		}
	}
}

func TestRfStable(t *testing.T) {
	for _, test := range rfTests {
		if Rf(test.out) != test.out {
			t.Errorf("Rf(%v) is not a fixpoint", test.out)
		}
	}
}

func TestRfVec3(t *testing.T) {
	v := RfVec3(mgl32.Vec3{1.00009, -2.00001, 3})
	if v != [3]float32{1.0001, -2, 3} {
		t.Errorf("unexpected rounding result %v", v)
	}
}
