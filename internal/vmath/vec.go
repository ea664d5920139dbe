// Package vmath provides the float64 vector and polygon primitives the
// solvers run their inner loops on. Everything operates on values, so
// the hot paths stay allocation free.
package vmath

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Vec2 is a point or displacement in the plane.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

func (v Vec2) Scale(f float64) Vec2 {
	return Vec2{v.X * f, v.Y * f}
}

func (v Vec2) Magnitude() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// MagnitudeSq returns the squared magnitude without the sqrt.
func (v Vec2) MagnitudeSq() float64 {
	return v.X*v.X + v.Y*v.Y
}

func (v Vec2) Distance(o Vec2) float64 {
	return v.Sub(o).Magnitude()
}

func (v Vec2) DistanceSq(o Vec2) float64 {
	return v.Sub(o).MagnitudeSq()
}

// Normalize returns the unit vector, zero-safe: magnitudes below 1e-5
// yield the zero vector.
func (v Vec2) Normalize() Vec2 {
	mag := v.Magnitude()
	if mag < 1e-5 {
		return Vec2{}
	}
	return Vec2{v.X / mag, v.Y / mag}
}

// Clamp limits v to [lo, hi].
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func Min[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

func Max[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}
