// Package population maintains the continuous refiner's gene
// collection: evaluation, selection, reproduction, and the fresh-blood
// diversity injection.
package population

import (
	"math"
	"sort"

	"tekton/internal/gene"
	"tekton/internal/model"
	"tekton/internal/random"
	"tekton/internal/vmath"
)

// convergenceWindow is the number of trailing generations inspected by
// HasConverged.
const convergenceWindow = 10

// Collection owns a population of genes over a shared room template.
// All methods are single-threaded; the caller drives Iterate from its
// own loop.
type Collection struct {
	cfg         gene.SpringConfig
	boundary    vmath.Polygon
	adjacencies []gene.Adjacency
	base        []gene.Room
	genes       []*gene.Gene
	rng         *random.Source
	generation  int
	bestHistory []float64
}

// NewCollection validates the inputs and seeds the population: gene 0
// is the unmutated base template, the rest are mutated once at rate 0.5
// with doubled strength.
func NewCollection(boundary vmath.Polygon, base []gene.Room, adjacencies []model.Adjacency, cfg gene.SpringConfig, seed uint32) (*Collection, error) {
	requests := make([]model.RoomRequest, len(base))
	for i, r := range base {
		requests[i] = model.RoomRequest{ID: r.ID, TargetArea: r.TargetArea, TargetRatio: r.TargetRatio}
	}
	if err := model.ValidateInputs(boundary, requests, adjacencies); err != nil {
		return nil, err
	}
	cfg = cfg.WithDefaults()

	index := make(map[string]int, len(base))
	for i, r := range base {
		index[r.ID] = i
	}
	resolved := resolveAdjacencies(adjacencies, index)

	c := &Collection{
		cfg:         cfg,
		boundary:    append(vmath.Polygon(nil), boundary...),
		adjacencies: resolved,
		base:        append([]gene.Room(nil), base...),
		rng:         random.NewSource(seed),
	}

	c.genes = make([]*gene.Gene, 0, cfg.PopulationSize)
	c.genes = append(c.genes, gene.New(c.base))
	for i := 1; i < cfg.PopulationSize; i++ {
		g := gene.New(c.base)
		g.Mutate(c.rng, c.adjacencies, c.cfg, 0.5, cfg.MutationStrength*2, cfg.AspectRatioMutationRate)
		c.genes = append(c.genes, g)
	}
	return c, nil
}

// resolveAdjacencies maps id pairs to room indices, summing duplicate
// pairs' weights, in a deterministic order.
func resolveAdjacencies(adjacencies []model.Adjacency, index map[string]int) []gene.Adjacency {
	weights := make(map[[2]int]float64, len(adjacencies))
	for _, adj := range adjacencies {
		a, b := index[adj.A], index[adj.B]
		if a == b {
			continue
		}
		if a > b {
			a, b = b, a
		}
		weights[[2]int{a, b}] += model.AdjacencyWeight(adj)
	}
	pairs := make([][2]int, 0, len(weights))
	for p := range weights {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i][0] != pairs[j][0] {
			return pairs[i][0] < pairs[j][0]
		}
		return pairs[i][1] < pairs[j][1]
	})
	out := make([]gene.Adjacency, len(pairs))
	for i, p := range pairs {
		out[i] = gene.Adjacency{A: p[0], B: p[1], Weight: weights[p]}
	}
	return out
}

// Iterate runs one generation: evaluate everyone, sort, breed from the
// top of the ranking, cull the tail, refill, and periodically inject
// fresh blood.
func (c *Collection) Iterate() {
	for _, g := range c.genes {
		g.ApplySquishCollisions(c.boundary, c.adjacencies, c.cfg)
		g.CalculateFitness(c.boundary, c.adjacencies, c.cfg)
	}
	c.sortByFitness()

	poolSize := int(float64(len(c.genes)) * c.cfg.ParentPoolFraction)
	if poolSize < 1 {
		poolSize = 1
	}
	offspringCount := int(float64(c.cfg.PopulationSize) * c.cfg.CrossoverRate)
	offspring := make([]*gene.Gene, 0, offspringCount)
	for k := 0; k < offspringCount; k++ {
		left := c.genes[c.rng.IntIn(0, poolSize)]
		right := c.genes[c.rng.IntIn(0, poolSize)]
		child := left.Crossover(right, c.rng)
		child.Mutate(c.rng, c.adjacencies, c.cfg, c.cfg.MutationRate, c.cfg.MutationStrength, c.cfg.AspectRatioMutationRate)
		c.incubate(child, c.cfg.WarmUpIterations)
		offspring = append(offspring, child)
	}

	c.genes = append(c.genes, offspring...)
	c.sortByFitness()
	cull := int(float64(len(c.genes)) * c.cfg.SelectionPressure)
	if cull >= len(c.genes) {
		cull = len(c.genes) - 1
	}
	c.genes = c.genes[:len(c.genes)-cull]

	for len(c.genes) > c.cfg.PopulationSize {
		c.genes = c.genes[:len(c.genes)-1]
	}
	for len(c.genes) < c.cfg.PopulationSize {
		src := c.genes[c.rng.IntIn(0, len(c.genes))]
		clone := src.Clone()
		clone.Mutate(c.rng, c.adjacencies, c.cfg, c.cfg.MutationRate, c.cfg.MutationStrength, c.cfg.AspectRatioMutationRate)
		c.incubate(clone, c.cfg.WarmUpIterations)
		c.genes = append(c.genes, clone)
	}

	c.generation++
	if c.cfg.UseFreshBlood && c.generation%c.cfg.FreshBloodInterval == 0 {
		c.injectFreshBlood()
	}

	c.sortByFitness()
	c.bestHistory = append(c.bestHistory, c.genes[0].Fitness.Total)
}

// incubate settles a newborn with physics ticks and scores it so the
// next sort sees a comparable fitness.
func (c *Collection) incubate(g *gene.Gene, ticks int) {
	for i := 0; i < ticks; i++ {
		g.ApplySquishCollisions(c.boundary, c.adjacencies, c.cfg)
	}
	g.CalculateFitness(c.boundary, c.adjacencies, c.cfg)
}

// injectFreshBlood drops the worst quarter (at least one) and rebuilds
// each slot from the base template: dimensions reset to the ratio
// bound, pressures zeroed, then a boosted mutate/squish incubation
// before scoring.
func (c *Collection) injectFreshBlood() {
	c.sortByFitness()
	drop := len(c.genes) / 4
	if drop < 1 {
		drop = 1
	}
	c.genes = c.genes[:len(c.genes)-drop]

	for k := 0; k < drop; k++ {
		fresh := gene.New(c.base)
		for i := range fresh.Rooms {
			r := &fresh.Rooms[i]
			r.Width = math.Sqrt(r.TargetArea * r.TargetRatio)
			r.Height = r.TargetArea / r.Width
			r.PressureX, r.PressureY = 0, 0
			r.AccPressureX, r.AccPressureY = 0, 0
		}
		for w := 0; w < c.cfg.FreshBloodWarmUp; w++ {
			fresh.Mutate(c.rng, c.adjacencies, c.cfg, 0.9, c.cfg.MutationStrength*3, 1.0)
			fresh.ApplySquishCollisions(c.boundary, c.adjacencies, c.cfg)
		}
		fresh.CalculateFitness(c.boundary, c.adjacencies, c.cfg)
		c.genes = append(c.genes, fresh)
	}
}

func (c *Collection) sortByFitness() {
	sort.SliceStable(c.genes, func(i, j int) bool {
		return c.genes[i].Fitness.Total < c.genes[j].Fitness.Total
	})
}

// Best returns the lowest-fitness gene. The view is valid until the
// next Iterate.
func (c *Collection) Best() *gene.Gene {
	c.sortByFitness()
	return c.genes[0]
}

// All returns the population in rank order.
func (c *Collection) All() []*gene.Gene {
	c.sortByFitness()
	return c.genes
}

// Generation returns the completed generation count.
func (c *Collection) Generation() int {
	return c.generation
}

// Stats summarizes the current population.
type Stats struct {
	Best            float64
	Worst           float64
	Average         float64
	BestGeometric   float64
	BestTopological float64
}

func (c *Collection) Stats() Stats {
	c.sortByFitness()
	total := 0.0
	for _, g := range c.genes {
		total += g.Fitness.Total
	}
	best := c.genes[0]
	return Stats{
		Best:            best.Fitness.Total,
		Worst:           c.genes[len(c.genes)-1].Fitness.Total,
		Average:         total / float64(len(c.genes)),
		BestGeometric:   best.Fitness.Geometric,
		BestTopological: best.Fitness.Topological,
	}
}

// HasConverged reports whether the best fitness has been stable for the
// trailing window: its spread is below eps relative to the window mean
// (or absolute once the mean approaches zero).
func (c *Collection) HasConverged(eps float64) bool {
	if len(c.bestHistory) < convergenceWindow {
		return false
	}
	window := c.bestHistory[len(c.bestHistory)-convergenceWindow:]
	lo, hi, sum := window[0], window[0], 0.0
	for _, v := range window {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
		sum += v
	}
	mean := math.Abs(sum / convergenceWindow)
	if mean < 1 {
		mean = 1
	}
	return (hi-lo)/mean < eps
}
