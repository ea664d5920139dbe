package discrete

import (
	"math"

	"tekton/internal/grid"
	"tekton/internal/model"
	"tekton/internal/vmath"
)

// footprintCells returns the corridor cells a room claims beyond its
// core rectangle, relative to top-left (x, y) and size (w, h).
func footprintCells(rule model.CorridorRule, x, y, w, h int) []Point {
	switch rule {
	case model.CorridorOneSide:
		cells := make([]Point, 0, w)
		for dx := 0; dx < w; dx++ {
			cells = append(cells, Point{X: x + dx, Y: y + h})
		}
		return cells
	case model.CorridorTwoSides:
		cells := make([]Point, 0, w+1+h)
		for dx := 0; dx <= w; dx++ {
			cells = append(cells, Point{X: x + dx, Y: y + h})
		}
		for dy := 0; dy < h; dy++ {
			cells = append(cells, Point{X: x + w, Y: y + dy})
		}
		return cells
	case model.CorridorAllSides:
		cells := make([]Point, 0, 2*(w+h)+4)
		for dx := -1; dx <= w; dx++ {
			cells = append(cells, Point{X: x + dx, Y: y - 1})
			cells = append(cells, Point{X: x + dx, Y: y + h})
		}
		for dy := 0; dy < h; dy++ {
			cells = append(cells, Point{X: x - 1, Y: y + dy})
			cells = append(cells, Point{X: x + w, Y: y + dy})
		}
		return cells
	default:
		return nil
	}
}

var neighborOffsets = [4]Point{{X: 0, Y: -1}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: -1, Y: 0}}

// canPlace runs the placement validity test: core cells empty (the
// seeded start cell may be reclaimed), footprint cells empty or
// corridor, and at least one footprint cell touching the existing
// corridor network.
func (s *Solver) canPlace(x, y, w, h int, rule model.CorridorRule) bool {
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			v := s.grid.At(x+dx, y+dy)
			if v == grid.Empty {
				continue
			}
			if v == grid.Corridor && x+dx == s.start.X && y+dy == s.start.Y {
				continue
			}
			return false
		}
	}

	footprint := footprintCells(rule, x, y, w, h)
	for _, c := range footprint {
		v := s.grid.At(c.X, c.Y)
		if v != grid.Empty && v != grid.Corridor {
			return false
		}
	}

	if rule == model.CorridorNone {
		return true
	}
	for _, c := range footprint {
		for _, off := range neighborOffsets {
			if s.grid.At(c.X+off.X, c.Y+off.Y) == grid.Corridor {
				return true
			}
		}
	}
	return false
}

// tryPlace finds the best-scoring position for the room and stamps it.
// Returns false when no valid position exists.
func (s *Solver) tryPlace(idx int) bool {
	room := s.rooms[idx]

	ratio := s.rng.FloatIn(1/room.TargetRatio, room.TargetRatio)
	areaCells := room.TargetArea / (s.cfg.GridResolution * s.cfg.GridResolution)
	w := int(math.Round(math.Sqrt(areaCells * ratio)))
	if w < 1 {
		w = 1
	}
	h := int(math.Round(areaCells / float64(w)))
	if h < 1 {
		h = 1
	}

	bestX, bestY := -1, -1
	bestScore := math.Inf(-1)
	for y := 0; y+h <= s.grid.Height(); y++ {
		for x := 0; x+w <= s.grid.Width(); x++ {
			if !s.canPlace(x, y, w, h, room.CorridorRule) {
				continue
			}
			score := s.cfg.Weights.Compactness*float64(s.compactness(x, y, w, h)) -
				s.cfg.Weights.Adjacency*s.meanPartnerDistance(idx, x, y, w, h)
			if score > bestScore {
				bestScore = score
				bestX, bestY = x, y
			}
		}
	}
	if bestX < 0 {
		return false
	}
	s.stamp(idx, bestX, bestY, w, h)
	return true
}

// compactness counts perimeter 4-neighbor cells that are occupied or
// corridor. Empty and out-of-bounds cells never count.
func (s *Solver) compactness(x, y, w, h int) int {
	count := 0
	occupied := func(v int) bool {
		return v == grid.Corridor || v >= 1
	}
	for dx := 0; dx < w; dx++ {
		if occupied(s.grid.At(x+dx, y-1)) {
			count++
		}
		if occupied(s.grid.At(x+dx, y+h)) {
			count++
		}
	}
	for dy := 0; dy < h; dy++ {
		if occupied(s.grid.At(x-1, y+dy)) {
			count++
		}
		if occupied(s.grid.At(x+w, y+dy)) {
			count++
		}
	}
	return count
}

// meanPartnerDistance averages the candidate center's distance to the
// already-placed adjacency partners, weighted by adjacency weight.
func (s *Solver) meanPartnerDistance(idx, x, y, w, h int) float64 {
	center := vmath.Vec2{X: float64(x) + float64(w)/2, Y: float64(y) + float64(h)/2}
	sum, sumWeight := 0.0, 0.0
	for _, p := range s.partners[idx] {
		placed, ok := s.placed[s.rooms[p.other].ID]
		if !ok {
			continue
		}
		sum += p.weight * center.Distance(roomCenter(placed))
		sumWeight += p.weight
	}
	if sumWeight == 0 {
		return 0
	}
	return sum / sumWeight
}

// stamp writes the room atomically: core cells take the 1-based room
// index, footprint cells become corridor. Corridor cells are shared
// freely between rooms.
func (s *Solver) stamp(idx, x, y, w, h int) {
	roomIndex := idx + 1
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			s.grid.Set(x+dx, y+dy, roomIndex)
		}
	}
	for _, c := range footprintCells(s.rooms[idx].CorridorRule, x, y, w, h) {
		s.grid.Set(c.X, c.Y, grid.Corridor)
	}
	s.placed[s.rooms[idx].ID] = model.PlacedRoom{
		ID:           s.rooms[idx].ID,
		X:            x,
		Y:            y,
		Width:        w,
		Height:       h,
		RoomIndex:    roomIndex,
		CorridorRule: s.rooms[idx].CorridorRule,
	}
}

// remove clears the room's core cells. Footprint corridor cells stay
// in place; shared sections may still serve other rooms and orphans are
// reclaimed by dead-end pruning.
func (s *Solver) remove(idx int) {
	placed, ok := s.placed[s.rooms[idx].ID]
	if !ok {
		return
	}
	for dy := 0; dy < placed.Height; dy++ {
		for dx := 0; dx < placed.Width; dx++ {
			if s.grid.At(placed.X+dx, placed.Y+dy) == placed.RoomIndex {
				s.grid.Set(placed.X+dx, placed.Y+dy, grid.Empty)
			}
		}
	}
	delete(s.placed, s.rooms[idx].ID)
}
