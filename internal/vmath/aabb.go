package vmath

// AABB is an axis-aligned bounding box.
type AABB struct {
	MinX, MinY, MaxX, MaxY float64
}

// Intersects reports whether the two boxes overlap or touch.
func (a AABB) Intersects(b AABB) bool {
	return !(a.MaxX < b.MinX || a.MinX > b.MaxX || a.MaxY < b.MinY || a.MinY > b.MaxY)
}

// OverlapExtents returns the overlap widths on each axis. Both values
// are positive only when the boxes genuinely overlap.
func (a AABB) OverlapExtents(b AABB) (ox, oy float64) {
	ox = Min(a.MaxX, b.MaxX) - Max(a.MinX, b.MinX)
	oy = Min(a.MaxY, b.MaxY) - Max(a.MinY, b.MinY)
	return ox, oy
}

// OverlapArea returns the overlap area, zero when disjoint.
func (a AABB) OverlapArea(b AABB) float64 {
	ox, oy := a.OverlapExtents(b)
	if ox <= 0 || oy <= 0 {
		return 0
	}
	return ox * oy
}

func (a AABB) Width() float64 {
	return a.MaxX - a.MinX
}

func (a AABB) Height() float64 {
	return a.MaxY - a.MinY
}

// AABBFromPolygon sweeps the vertices for the bounding box.
func AABBFromPolygon(poly Polygon) AABB {
	if len(poly) == 0 {
		return AABB{}
	}
	box := AABB{MinX: poly[0].X, MinY: poly[0].Y, MaxX: poly[0].X, MaxY: poly[0].Y}
	for _, p := range poly[1:] {
		box.MinX = Min(box.MinX, p.X)
		box.MinY = Min(box.MinY, p.Y)
		box.MaxX = Max(box.MaxX, p.X)
		box.MaxY = Max(box.MaxY, p.Y)
	}
	return box
}
