package gene

import (
	"math"
	"sort"

	"tekton/internal/random"
	"tekton/internal/vmath"
)

// pressureSensitivity biases the aspect-ratio mutation away from the
// axis that accumulated the most squeeze during the last tick.
const pressureSensitivity = 0.3

// Mutate perturbs the gene in place. The rates and strength are passed
// explicitly so callers can run boosted warm-up mutations without
// forking the config.
func (g *Gene) Mutate(rng *random.Source, adjacencies []Adjacency, cfg SpringConfig, mutationRate, mutationStrength, aspectRatioRate float64) {
	if cfg.UseSwapMutation && rng.Chance(cfg.SwapMutationRate) {
		g.swapMutation(rng, adjacencies)
	}

	for i := range g.Rooms {
		r := &g.Rooms[i]

		if cfg.UsePartnerBias && rng.Chance(cfg.PartnerBiasRate) {
			if partner := g.randomPartner(rng, adjacencies, i); partner >= 0 {
				step := g.Rooms[partner].Center().Sub(r.Center()).Scale(0.7)
				r.X += step.X
				r.Y += step.Y
			} else if rng.Chance(mutationRate) {
				g.translateRoom(rng, r, mutationStrength)
			}
		} else if rng.Chance(mutationRate) {
			g.translateRoom(rng, r, mutationStrength)
		}

		if rng.Chance(aspectRatioRate) {
			g.mutateAspectRatio(rng, r, cfg)
		}
		r.clampDims()
	}
}

func (g *Gene) translateRoom(rng *random.Source, r *Room, strength float64) {
	r.X += rng.FloatIn(-strength/2, strength/2)
	r.Y += rng.FloatIn(-strength/2, strength/2)
}

// randomPartner picks a uniformly random adjacency partner of room i,
// or -1 when the room is unconnected.
func (g *Gene) randomPartner(rng *random.Source, adjacencies []Adjacency, i int) int {
	partners := make([]int, 0, 4)
	for _, adj := range adjacencies {
		switch i {
		case adj.A:
			partners = append(partners, adj.B)
		case adj.B:
			partners = append(partners, adj.A)
		}
	}
	if len(partners) == 0 {
		return -1
	}
	return partners[rng.IntIn(0, len(partners))]
}

// mutateAspectRatio jitters the ratio by up to ±10%, adds the pressure
// bias toward the less-pressured axis, clamps to the effective bound,
// and rebuilds the rectangle at the target area.
func (g *Gene) mutateAspectRatio(rng *random.Source, r *Room, cfg SpringConfig) {
	ratio := r.Width / r.Height
	ratio *= rng.FloatIn(0.9, 1.1)

	if cfg.UsePressureBias && r.AccPressureX+r.AccPressureY > 0.1 {
		if r.AccPressureX > r.AccPressureY {
			ratio += pressureSensitivity
		} else if r.AccPressureX < r.AccPressureY {
			ratio -= pressureSensitivity
		}
	}

	bound := r.effectiveRatio(cfg.GlobalTargetRatio)
	ratio = vmath.Clamp(ratio, 1/bound, bound)
	r.Width = math.Sqrt(r.TargetArea * ratio)
	r.Height = r.TargetArea / r.Width
}

type swapCandidate struct {
	a, b    int
	benefit float64
}

// swapMutation looks for an adjacency pair whose rooms would serve
// their partners better from each other's positions, and swaps one of
// the top three candidates. With no improving candidate it swaps two
// random rooms instead.
func (g *Gene) swapMutation(rng *random.Source, adjacencies []Adjacency) {
	candidates := make([]swapCandidate, 0, len(adjacencies))
	for _, adj := range adjacencies {
		before := g.adjacencyCostOf(adjacencies, adj.A, adj.B)
		after := g.swappedAdjacencyCost(adjacencies, adj.A, adj.B)
		if benefit := (before - after) * adj.Weight; benefit > 0 {
			candidates = append(candidates, swapCandidate{a: adj.A, b: adj.B, benefit: benefit})
		}
	}

	if len(candidates) == 0 {
		if len(g.Rooms) < 2 {
			return
		}
		i := rng.IntIn(0, len(g.Rooms))
		j := rng.IntIn(0, len(g.Rooms)-1)
		if j >= i {
			j++
		}
		g.swapPositions(i, j)
		return
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].benefit > candidates[j].benefit
	})
	top := vmath.Min(3, len(candidates))
	chosen := candidates[rng.IntIn(0, top)]
	g.swapPositions(chosen.a, chosen.b)
}

// adjacencyCostOf sums the weighted center distances of every adjacency
// touching room a or room b, each adjacency counted once.
func (g *Gene) adjacencyCostOf(adjacencies []Adjacency, a, b int) float64 {
	cost := 0.0
	for _, adj := range adjacencies {
		if adj.A != a && adj.B != a && adj.A != b && adj.B != b {
			continue
		}
		cost += adj.Weight * g.Rooms[adj.A].Center().Distance(g.Rooms[adj.B].Center())
	}
	return cost
}

// swappedAdjacencyCost evaluates the same cost for rooms a and b with
// their positions exchanged.
func (g *Gene) swappedAdjacencyCost(adjacencies []Adjacency, a, b int) float64 {
	centerOf := func(i int) vmath.Vec2 {
		switch i {
		case a:
			return vmath.Vec2{X: g.Rooms[b].X + g.Rooms[a].Width/2, Y: g.Rooms[b].Y + g.Rooms[a].Height/2}
		case b:
			return vmath.Vec2{X: g.Rooms[a].X + g.Rooms[b].Width/2, Y: g.Rooms[a].Y + g.Rooms[b].Height/2}
		default:
			return g.Rooms[i].Center()
		}
	}
	cost := 0.0
	for _, adj := range adjacencies {
		if adj.A != a && adj.B != a && adj.A != b && adj.B != b {
			continue
		}
		cost += adj.Weight * centerOf(adj.A).Distance(centerOf(adj.B))
	}
	return cost
}

func (g *Gene) swapPositions(i, j int) {
	g.Rooms[i].X, g.Rooms[j].X = g.Rooms[j].X, g.Rooms[i].X
	g.Rooms[i].Y, g.Rooms[j].Y = g.Rooms[j].Y, g.Rooms[i].Y
}
