// Package discrete places rooms on an integer grid and carves the
// corridor network that joins them. Placement is greedy with a
// snapshot/mutate refinement loop on top; every new room's corridor
// footprint must touch the existing network (the magnetizing rule).
package discrete

import (
	"math"
	"sort"

	"tekton/internal/grid"
	"tekton/internal/model"
	"tekton/internal/random"
	"tekton/internal/vmath"
)

type partner struct {
	other  int
	weight float64
}

// Solver owns the grid buffer and the placed-room map from
// construction to Solve. It is single-threaded; Solve runs to
// completion in one call.
type Solver struct {
	rooms       []model.RoomRequest
	cfg         Config
	rng         *random.Source
	gridPoly    vmath.Polygon // boundary translated and scaled into grid space
	grid        *grid.Buffer
	placed      map[string]model.PlacedRoom
	order       []int               // placement order, degree-sorted
	partners    [][]partner         // adjacency partners by room index
	pairWeights map[[2]int]float64  // aggregated weights, key i<j
	start       Point
	bestScore   float64
	solved      bool
	connected   bool
}

// NewSolver validates the inputs and sizes the grid from the boundary's
// bounding box and the configured resolution. No grid state beyond
// allocation is touched until Solve.
func NewSolver(boundary vmath.Polygon, rooms []model.RoomRequest, adjacencies []model.Adjacency, cfg Config, seed uint32) (*Solver, error) {
	if err := model.ValidateInputs(boundary, rooms, adjacencies); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	box := vmath.AABBFromPolygon(boundary)
	width := int(math.Ceil(box.Width() / cfg.GridResolution))
	height := int(math.Ceil(box.Height() / cfg.GridResolution))

	gridPoly := make(vmath.Polygon, len(boundary))
	for i, v := range boundary {
		gridPoly[i] = vmath.Vec2{
			X: (v.X - box.MinX) / cfg.GridResolution,
			Y: (v.Y - box.MinY) / cfg.GridResolution,
		}
	}

	index := make(map[string]int, len(rooms))
	for i, room := range rooms {
		index[room.ID] = i
	}

	pairWeights := make(map[[2]int]float64, len(adjacencies))
	partners := make([][]partner, len(rooms))
	for _, adj := range adjacencies {
		a, b := index[adj.A], index[adj.B]
		if a == b {
			continue
		}
		if a > b {
			a, b = b, a
		}
		pairWeights[[2]int{a, b}] += model.AdjacencyWeight(adj)
	}
	pairs := sortedPairs(pairWeights)
	for _, p := range pairs {
		w := pairWeights[p]
		partners[p[0]] = append(partners[p[0]], partner{other: p[1], weight: w})
		partners[p[1]] = append(partners[p[1]], partner{other: p[0], weight: w})
	}

	// Stable connectivity-degree sort: most-connected rooms place
	// first, input order breaks ties.
	degree := make([]float64, len(rooms))
	for i, list := range partners {
		for _, p := range list {
			degree[i] += p.weight
		}
	}
	order := make([]int, len(rooms))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return degree[order[i]] > degree[order[j]]
	})

	start := Point{X: width / 2, Y: height / 2}
	if cfg.Start != nil {
		start = *cfg.Start
	}

	return &Solver{
		rooms:       append([]model.RoomRequest(nil), rooms...),
		cfg:         cfg,
		rng:         random.NewSource(seed),
		gridPoly:    gridPoly,
		grid:        grid.New(width, height),
		placed:      make(map[string]model.PlacedRoom, len(rooms)),
		order:       order,
		partners:    partners,
		pairWeights: pairWeights,
		start:       start,
	}, nil
}

func sortedPairs(weights map[[2]int]float64) [][2]int {
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
	return pairs
}

// Solve rasterizes the boundary, seeds the corridor start cell, runs
// greedy placement followed by the snapshot/mutate refinement rounds,
// prunes dead-end corridor cells, and validates connectivity. A room
// that never fits is simply absent from PlacedRooms.
func (s *Solver) Solve() {
	s.grid.RasterizePolygon(s.gridPoly)
	s.grid.Set(s.start.X, s.start.Y, grid.Corridor)

	for _, idx := range s.order {
		s.tryPlace(idx)
	}
	s.bestScore = s.globalScore()

	for round := 0; round < s.cfg.MaxIterations; round++ {
		s.mutateRound()
	}

	s.pruneDeadEnds()
	s.connected = s.validateConnectivity()
	s.solved = true
}

// mutateRound removes a random subset of placed rooms, re-places every
// missing room, and keeps the result only if the global score improved.
func (s *Solver) mutateRound() {
	if len(s.placed) == 0 {
		// Nothing to perturb; still try to place missing rooms.
		for i := range s.rooms {
			if _, ok := s.placed[s.rooms[i].ID]; !ok {
				s.tryPlace(i)
			}
		}
		if score := s.globalScore(); score > s.bestScore {
			s.bestScore = score
		}
		return
	}

	snapshot := s.grid.Clone()
	placedCopy := make(map[string]model.PlacedRoom, len(s.placed))
	for id, room := range s.placed {
		placedCopy[id] = room
	}

	victims := make([]int, 0, len(s.placed))
	for i := range s.rooms {
		if _, ok := s.placed[s.rooms[i].ID]; ok {
			victims = append(victims, i)
		}
	}
	random.Shuffle(s.rng, victims)
	k := int(math.Ceil(float64(len(victims)) * s.cfg.MutationRate))
	if k > len(victims) {
		k = len(victims)
	}
	for _, idx := range victims[:k] {
		s.remove(idx)
	}

	for i := range s.rooms {
		if _, ok := s.placed[s.rooms[i].ID]; !ok {
			s.tryPlace(i)
		}
	}

	if score := s.globalScore(); score > s.bestScore {
		s.bestScore = score
		return
	}
	s.grid.CopyFrom(snapshot)
	s.placed = placedCopy
}

// globalScore rewards placements and penalizes distance between
// adjacent pairs: 100 per placed room minus weighted center distances.
func (s *Solver) globalScore() float64 {
	score := 100 * float64(len(s.placed))
	for _, p := range sortedPairs(s.pairWeights) {
		a, aOK := s.placed[s.rooms[p[0]].ID]
		b, bOK := s.placed[s.rooms[p[1]].ID]
		if !aOK || !bOK {
			continue
		}
		score -= s.pairWeights[p] * roomCenter(a).Distance(roomCenter(b))
	}
	return score
}

func roomCenter(r model.PlacedRoom) vmath.Vec2 {
	return vmath.Vec2{
		X: float64(r.X) + float64(r.Width)/2,
		Y: float64(r.Y) + float64(r.Height)/2,
	}
}

// Grid exposes the solver's grid buffer. The view is valid until the
// next mutating call.
func (s *Solver) Grid() *grid.Buffer {
	return s.grid
}

// PlacedRooms returns the placed-room map keyed by room id.
func (s *Solver) PlacedRooms() map[string]model.PlacedRoom {
	return s.placed
}

// Score returns the best global score seen.
func (s *Solver) Score() float64 {
	return s.bestScore
}

// Connected reports the post-solve connectivity validation result.
func (s *Solver) Connected() bool {
	return s.connected
}

// Solved reports whether Solve has run.
func (s *Solver) Solved() bool {
	return s.solved
}

// Start returns the corridor network's seed cell.
func (s *Solver) Start() Point {
	return s.start
}
