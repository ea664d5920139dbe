package discrete

import "tekton/internal/grid"

// pruneDeadEnds runs the fixed-point dead-end sweep: any corridor cell
// with at most one non-empty, in-bounds 4-neighbor is cleared, until a
// full pass changes nothing.
func (s *Solver) pruneDeadEnds() {
	for {
		var doomed []Point
		for y := 0; y < s.grid.Height(); y++ {
			for x := 0; x < s.grid.Width(); x++ {
				if s.grid.At(x, y) != grid.Corridor {
					continue
				}
				neighbors := 0
				for _, off := range neighborOffsets {
					v := s.grid.At(x+off.X, y+off.Y)
					if v != grid.Empty && v != grid.OutOfBounds {
						neighbors++
					}
				}
				if neighbors <= 1 {
					doomed = append(doomed, Point{X: x, Y: y})
				}
			}
		}
		if len(doomed) == 0 {
			return
		}
		for _, c := range doomed {
			s.grid.Set(c.X, c.Y, grid.Empty)
		}
	}
}

// validateConnectivity BFS-walks 4-connected corridor cells from the
// start cell and reports whether every corridor cell was reached. This
// is a post-condition check; failures are reported, not repaired.
func (s *Solver) validateConnectivity() bool {
	total := s.grid.Count(grid.Corridor)
	if total == 0 {
		return true
	}
	if s.grid.At(s.start.X, s.start.Y) != grid.Corridor {
		return false
	}

	visited := make(map[Point]bool, total)
	queue := []Point{s.start}
	visited[s.start] = true
	reached := 0
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		reached++
		for _, off := range neighborOffsets {
			next := Point{X: cur.X + off.X, Y: cur.Y + off.Y}
			if visited[next] || s.grid.At(next.X, next.Y) != grid.Corridor {
				continue
			}
			visited[next] = true
			queue = append(queue, next)
		}
	}
	return reached == total
}
