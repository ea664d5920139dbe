package gene

import (
	"math"

	"tekton/internal/vmath"
)

const (
	squishFactor = 0.5
	// boundaryOvershoot pushes escaped rooms slightly past the closest
	// boundary point so the next tick starts strictly inside.
	boundaryOvershoot   = 1.1
	boundaryPassLimit   = 10
	boundaryPressureMul = 10
)

// ApplySquishCollisions runs one physics tick: optional inflation,
// optional adjacency attraction, pairwise shortest-axis overlap
// resolution, pressure bookkeeping, and boundary containment.
func (g *Gene) ApplySquishCollisions(boundary vmath.Polygon, adjacencies []Adjacency, cfg SpringConfig) {
	for i := range g.Rooms {
		g.Rooms[i].PressureX = 0
		g.Rooms[i].PressureY = 0
	}

	if cfg.UseAggressiveInflation {
		for i := range g.Rooms {
			r := &g.Rooms[i]
			if r.Area() < r.TargetArea*cfg.InflationThreshold {
				r.Width *= cfg.InflationRate
				r.Height *= cfg.InflationRate
			}
		}
	}

	if cfg.UseAdjacencyAttraction {
		for _, adj := range adjacencies {
			a := &g.Rooms[adj.A]
			b := &g.Rooms[adj.B]
			pull := b.Center().Sub(a.Center()).Scale(0.1 * adj.Weight * cfg.AttractionStrength)
			a.X += pull.X
			a.Y += pull.Y
			b.X -= pull.X
			b.Y -= pull.Y
		}
	}

	// Pairwise overlap resolution in stored room order, squishing on
	// the axis with the smaller overlap.
	for i := 0; i < len(g.Rooms); i++ {
		for j := i + 1; j < len(g.Rooms); j++ {
			a := &g.Rooms[i]
			b := &g.Rooms[j]
			ox, oy := a.AABB().OverlapExtents(b.AABB())
			if ox <= 0 || oy <= 0 {
				continue
			}
			if ox < oy {
				squishAxis(a, b, ox, cfg, horizontalAxis{})
			} else {
				squishAxis(a, b, oy, cfg, verticalAxis{})
			}
		}
	}

	for i := range g.Rooms {
		g.Rooms[i].AccPressureX = g.Rooms[i].PressureX
		g.Rooms[i].AccPressureY = g.Rooms[i].PressureY
	}

	for i := range g.Rooms {
		g.constrainToBoundary(&g.Rooms[i], boundary)
	}
}

// axis abstracts the mirrored horizontal/vertical squish paths.
type axis interface {
	pos(r *Room) *float64
	span(r *Room) *float64      // the squished dimension
	crossSpan(r *Room) *float64 // the recomputed dimension
	pressure(r *Room) *float64
	ratioOf(span, cross float64) float64
}

type horizontalAxis struct{}

func (horizontalAxis) pos(r *Room) *float64       { return &r.X }
func (horizontalAxis) span(r *Room) *float64      { return &r.Width }
func (horizontalAxis) crossSpan(r *Room) *float64 { return &r.Height }
func (horizontalAxis) pressure(r *Room) *float64  { return &r.PressureX }
func (horizontalAxis) ratioOf(span, cross float64) float64 {
	return span / cross
}

type verticalAxis struct{}

func (verticalAxis) pos(r *Room) *float64       { return &r.Y }
func (verticalAxis) span(r *Room) *float64      { return &r.Height }
func (verticalAxis) crossSpan(r *Room) *float64 { return &r.Width }
func (verticalAxis) pressure(r *Room) *float64  { return &r.PressureY }
func (verticalAxis) ratioOf(span, cross float64) float64 {
	// Aspect ratio is always width/height.
	return cross / span
}

// squishAxis resolves one overlapping pair along one axis: shrink both
// rooms toward their target areas when the resulting aspect ratios stay
// in bounds, otherwise fall back to a pure translation apart.
func squishAxis(a, b *Room, overlap float64, cfg SpringConfig, ax axis) {
	*ax.pressure(a) += overlap
	*ax.pressure(b) += overlap

	squishAmount := squishFactor*0.5*overlap + 0.1

	aSpan := *ax.span(a) - squishAmount
	bSpan := *ax.span(b) - squishAmount
	if aSpan > 0 && bSpan > 0 {
		aCross := a.TargetArea / aSpan
		bCross := b.TargetArea / bSpan
		aRatio := ax.ratioOf(aSpan, aCross)
		bRatio := ax.ratioOf(bSpan, bCross)
		aBound := a.effectiveRatio(cfg.GlobalTargetRatio)
		bBound := b.effectiveRatio(cfg.GlobalTargetRatio)
		if aRatio >= 1/aBound && aRatio <= aBound && bRatio >= 1/bBound && bRatio <= bBound {
			shift := (1-squishFactor)*0.5*overlap + squishAmount*0.5
			translateApart(a, b, shift, ax)
			*ax.span(a) = aSpan
			*ax.crossSpan(a) = aCross
			*ax.span(b) = bSpan
			*ax.crossSpan(b) = bCross
			a.clampDims()
			b.clampDims()
			return
		}
	}

	translateApart(a, b, 0.5*overlap+0.1, ax)
}

// translateApart moves the pair away from each other along the axis;
// the room with the smaller coordinate takes the negative displacement.
func translateApart(a, b *Room, shift float64, ax axis) {
	if *ax.pos(a) <= *ax.pos(b) {
		*ax.pos(a) -= shift
		*ax.pos(b) += shift
	} else {
		*ax.pos(a) += shift
		*ax.pos(b) -= shift
	}
}

// constrainToBoundary translates the room back inside the boundary, up
// to boundaryPassLimit rounds, pushing from the farthest escaped corner
// toward its closest boundary point with a slight overshoot. The push
// feeds the accumulated pressure channels.
func (g *Gene) constrainToBoundary(r *Room, boundary vmath.Polygon) {
	for pass := 0; pass < boundaryPassLimit; pass++ {
		worst := vmath.Vec2{}
		worstDistSq := 0.0
		outside := false
		for _, corner := range r.corners() {
			if boundary.Contains(corner) {
				continue
			}
			closest := boundary.ClosestBoundaryPoint(corner)
			if d := corner.DistanceSq(closest); !outside || d > worstDistSq {
				outside = true
				worstDistSq = d
				worst = corner
			}
		}
		if !outside {
			return
		}
		push := boundary.ClosestBoundaryPoint(worst).Sub(worst).Scale(boundaryOvershoot)
		r.X += push.X
		r.Y += push.Y
		r.AccPressureX += math.Abs(push.X) * boundaryPressureMul
		r.AccPressureY += math.Abs(push.Y) * boundaryPressureMul
	}
}

func (r *Room) corners() [4]vmath.Vec2 {
	return [4]vmath.Vec2{
		{X: r.X, Y: r.Y},
		{X: r.X + r.Width, Y: r.Y},
		{X: r.X + r.Width, Y: r.Y + r.Height},
		{X: r.X, Y: r.Y + r.Height},
	}
}
