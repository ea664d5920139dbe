package discrete

import (
	"testing"

	"tekton/internal/model"
	"tekton/internal/vmath"
)

func TestFootprintNone(t *testing.T) {
	if cells := footprintCells(model.CorridorNone, 3, 4, 5, 2); len(cells) != 0 {
		t.Fatalf("NONE footprint has %d cells", len(cells))
	}
}

func TestFootprintOneSide(t *testing.T) {
	cells := footprintCells(model.CorridorOneSide, 3, 4, 5, 2)
	if len(cells) != 5 {
		t.Fatalf("ONE_SIDE footprint has %d cells, want 5", len(cells))
	}
	for i, c := range cells {
		if c != (Point{X: 3 + i, Y: 6}) {
			t.Fatalf("cell %d = %+v", i, c)
		}
	}
}

func TestFootprintTwoSides(t *testing.T) {
	cells := footprintCells(model.CorridorTwoSides, 3, 4, 5, 2)
	// Bottom row of w+1 cells plus right column of h cells.
	if len(cells) != 6+2 {
		t.Fatalf("TWO_SIDES footprint has %d cells, want 8", len(cells))
	}
	set := map[Point]bool{}
	for _, c := range cells {
		set[c] = true
	}
	for dx := 0; dx <= 5; dx++ {
		if !set[Point{X: 3 + dx, Y: 6}] {
			t.Fatalf("missing bottom cell at dx=%d", dx)
		}
	}
	for dy := 0; dy < 2; dy++ {
		if !set[Point{X: 8, Y: 4 + dy}] {
			t.Fatalf("missing right cell at dy=%d", dy)
		}
	}
}

func TestFootprintAllSides(t *testing.T) {
	cells := footprintCells(model.CorridorAllSides, 3, 4, 5, 2)
	// Full one-cell halo: 2*(w+2) + 2*h.
	if len(cells) != 2*7+2*2 {
		t.Fatalf("ALL_SIDES footprint has %d cells, want 18", len(cells))
	}
	set := map[Point]bool{}
	for _, c := range cells {
		if set[c] {
			t.Fatalf("duplicate halo cell %+v", c)
		}
		set[c] = true
	}
	for _, corner := range []Point{{X: 2, Y: 3}, {X: 8, Y: 3}, {X: 2, Y: 6}, {X: 8, Y: 6}} {
		if !set[corner] {
			t.Fatalf("missing halo corner %+v", corner)
		}
	}
	// No core cell leaks into the halo.
	for dy := 0; dy < 2; dy++ {
		for dx := 0; dx < 5; dx++ {
			if set[Point{X: 3 + dx, Y: 4 + dy}] {
				t.Fatalf("core cell (%d,%d) in halo", 3+dx, 4+dy)
			}
		}
	}
}

// Magnetizing: a room whose footprint cannot reach the corridor network
// must be rejected even when the cells themselves are free.
func TestMagnetizingConstraint(t *testing.T) {
	rooms := []model.RoomRequest{{ID: "a", TargetArea: 9, TargetRatio: 1, CorridorRule: model.CorridorOneSide}}
	cfg := DefaultConfig()
	cfg.Start = &Point{X: 0, Y: 0}
	s, err := NewSolver(vmath.Rectangle(0, 0, 40, 40), rooms, nil, cfg, 1)
	if err != nil {
		t.Fatalf("NewSolver: %v", err)
	}
	s.grid.RasterizePolygon(s.gridPoly)

	// Without a seeded corridor anywhere, nothing anchors.
	if s.canPlace(10, 10, 3, 3, model.CorridorOneSide) {
		t.Fatal("placement accepted with no corridor network")
	}
	// Seed a corridor next to the footprint and the same spot is valid.
	s.grid.Set(11, 14, -1)
	if !s.canPlace(10, 10, 3, 3, model.CorridorOneSide) {
		t.Fatal("placement rejected despite touching a corridor")
	}
	// NONE rooms need no anchor.
	if !s.canPlace(20, 20, 3, 3, model.CorridorNone) {
		t.Fatal("NONE placement should be trivially connected")
	}
}
