package vmath

import "math"

// Polygon is an ordered vertex loop, implicitly closed. Orientation may
// be clockwise or counter-clockwise; containment tests do not care.
type Polygon []Vec2

// Rectangle builds the four-vertex polygon for an axis-aligned
// rectangle with top-left corner (x, y).
func Rectangle(x, y, w, h float64) Polygon {
	return Polygon{
		{X: x, Y: y},
		{X: x + w, Y: y},
		{X: x + w, Y: y + h},
		{X: x, Y: y + h},
	}
}

// Area returns the absolute shoelace area.
func (p Polygon) Area() float64 {
	if len(p) < 3 {
		return 0
	}
	sum := 0.0
	for i := range p {
		j := (i + 1) % len(p)
		sum += p[i].X*p[j].Y - p[j].X*p[i].Y
	}
	return math.Abs(sum) / 2
}

// Contains runs a ray cast toward +x with the half-open edge rule
// (yi > p.y) != (yj > p.y), so a point on a horizontal edge belongs to
// exactly one of the two cells it separates.
func (p Polygon) Contains(pt Vec2) bool {
	inside := false
	for i, j := 0, len(p)-1; i < len(p); j, i = i, i+1 {
		vi, vj := p[i], p[j]
		if (vi.Y > pt.Y) != (vj.Y > pt.Y) &&
			pt.X < (vj.X-vi.X)*(pt.Y-vi.Y)/(vj.Y-vi.Y)+vi.X {
			inside = !inside
		}
	}
	return inside
}

// ClosestBoundaryPoint projects pt onto every edge segment, clamped to
// the segment, and returns the projection with minimum squared
// distance.
func (p Polygon) ClosestBoundaryPoint(pt Vec2) Vec2 {
	best := Vec2{}
	bestDistSq := math.Inf(1)
	for i := range p {
		a := p[i]
		b := p[(i+1)%len(p)]
		candidate := closestPointOnSegment(pt, a, b)
		if d := pt.DistanceSq(candidate); d < bestDistSq {
			bestDistSq = d
			best = candidate
		}
	}
	return best
}

func closestPointOnSegment(pt, a, b Vec2) Vec2 {
	ab := b.Sub(a)
	lenSq := ab.MagnitudeSq()
	if lenSq < 1e-12 {
		return a
	}
	ap := pt.Sub(a)
	t := Clamp((ap.X*ab.X+ap.Y*ab.Y)/lenSq, 0, 1)
	return a.Add(ab.Scale(t))
}

// RectIntersectionArea is the rect-vs-rect fast path used by the hot
// fitness loops: for axis-aligned rectangles the intersection area is
// just the AABB overlap.
func RectIntersectionArea(a, b AABB) float64 {
	return a.OverlapArea(b)
}

// ClipToRect clips the polygon against the rectangle with a
// Sutherland-Hodgman pass per rectangle edge. The clip region is
// convex, so the result is exact (area-wise) even for concave
// subjects; that is all the boundary-containment fitness term needs.
func (p Polygon) ClipToRect(rect AABB) Polygon {
	out := append(Polygon(nil), p...)
	out = clipHalfPlane(out, func(v Vec2) float64 { return v.X - rect.MinX })
	out = clipHalfPlane(out, func(v Vec2) float64 { return rect.MaxX - v.X })
	out = clipHalfPlane(out, func(v Vec2) float64 { return v.Y - rect.MinY })
	out = clipHalfPlane(out, func(v Vec2) float64 { return rect.MaxY - v.Y })
	return out
}

// clipHalfPlane keeps the region where inside() >= 0.
func clipHalfPlane(poly Polygon, inside func(Vec2) float64) Polygon {
	if len(poly) == 0 {
		return poly
	}
	out := make(Polygon, 0, len(poly)+4)
	for i := range poly {
		cur := poly[i]
		prev := poly[(i+len(poly)-1)%len(poly)]
		curIn := inside(cur) >= 0
		prevIn := inside(prev) >= 0
		if curIn != prevIn {
			out = append(out, intersectEdge(prev, cur, inside))
		}
		if curIn {
			out = append(out, cur)
		}
	}
	return out
}

func intersectEdge(a, b Vec2, inside func(Vec2) float64) Vec2 {
	da := inside(a)
	db := inside(b)
	t := da / (da - db)
	return a.Add(b.Sub(a).Scale(t))
}

// IntersectionAreaWithRect returns the area of the polygon clipped to
// the rectangle.
func (p Polygon) IntersectionAreaWithRect(rect AABB) float64 {
	return p.ClipToRect(rect).Area()
}
