// Package gene implements the continuous refiner's individual: a full
// candidate floor plan of floating-point room rectangles evolved under
// squish physics, boundary containment, and adjacency attraction.
package gene

import (
	"strings"

	"tekton/internal/vmath"
)

// Room is one rectangle of a gene, with the per-axis pressure counters
// accumulated during collision response and consumed by the next
// aspect-ratio mutation.
type Room struct {
	ID          string
	X, Y        float64
	Width       float64
	Height      float64
	TargetArea  float64
	TargetRatio float64

	PressureX, PressureY       float64
	AccPressureX, AccPressureY float64
}

// Adjacency is a resolved index pair into a gene's room list.
type Adjacency struct {
	A, B   int
	Weight float64
}

func (r Room) AABB() vmath.AABB {
	return vmath.AABB{MinX: r.X, MinY: r.Y, MaxX: r.X + r.Width, MaxY: r.Y + r.Height}
}

func (r Room) Center() vmath.Vec2 {
	return vmath.Vec2{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

func (r Room) Area() float64 {
	return r.Width * r.Height
}

// clampDims enforces the dimensional invariant: width and height never
// drop below 1.
func (r *Room) clampDims() {
	if r.Width < 1 {
		r.Width = 1
	}
	if r.Height < 1 {
		r.Height = 1
	}
}

// effectiveRatio is the allowed aspect-ratio bound for the room: the
// global override when configured, unless the room is a corridor
// segment, which always keeps its own ratio.
func (r Room) effectiveRatio(globalTargetRatio float64) float64 {
	if globalTargetRatio > 0 && !strings.HasPrefix(r.ID, "corridor-") {
		return globalTargetRatio
	}
	return r.TargetRatio
}
