package gene

import (
	"math"

	"tekton/internal/vmath"
)

const boundaryEscapeWeight = 100

// CalculateFitness scores the gene. The geometric component penalizes
// pairwise overlap and area escaping the boundary; the topological
// component penalizes the axis gap between adjacent rooms. FitnessBalance
// blends the two. Lower is better.
func (g *Gene) CalculateFitness(boundary vmath.Polygon, adjacencies []Adjacency, cfg SpringConfig) Fitness {
	geometric := 0.0
	for i := 0; i < len(g.Rooms); i++ {
		for j := i + 1; j < len(g.Rooms); j++ {
			aBox := g.Rooms[i].AABB()
			bBox := g.Rooms[j].AABB()
			inter := vmath.RectIntersectionArea(aBox, bBox)
			if inter <= 0 {
				continue
			}
			if cfg.UseNonLinearOverlapPenalty {
				bonus := 1 + inter/aBox.OverlapArea(bBox)
				geometric += math.Pow(inter, cfg.OverlapPenaltyExponent) * bonus
			} else {
				geometric += inter
			}
		}
	}
	for i := range g.Rooms {
		r := &g.Rooms[i]
		inside := boundary.IntersectionAreaWithRect(r.AABB())
		geometric += boundaryEscapeWeight * (r.Area() - inside)
	}

	topological := 0.0
	for _, adj := range adjacencies {
		a := &g.Rooms[adj.A]
		b := &g.Rooms[adj.B]
		gapX := math.Abs(a.Center().X-b.Center().X) - (a.Width+b.Width)/2
		gapY := math.Abs(a.Center().Y-b.Center().Y) - (a.Height+b.Height)/2
		gapX = math.Max(0, gapX)
		gapY = math.Max(0, gapY)
		gapSq := gapX*gapX + gapY*gapY
		if cfg.UseQuadraticPenalty {
			topological += adj.Weight * gapSq
		} else {
			topological += adj.Weight * math.Sqrt(gapSq)
		}
	}

	g.Fitness = Fitness{
		Geometric:   geometric,
		Topological: topological,
		Total:       geometric*cfg.FitnessBalance + topological*(1-cfg.FitnessBalance),
	}
	return g.Fitness
}
