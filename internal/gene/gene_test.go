package gene

import (
	"math"
	"testing"

	"tekton/internal/random"
	"tekton/internal/vmath"
)

func twoRooms() []Room {
	return []Room{
		{ID: "a", X: 10, Y: 10, Width: 10, Height: 10, TargetArea: 100, TargetRatio: 1.5},
		{ID: "b", X: 15, Y: 12, Width: 10, Height: 10, TargetArea: 100, TargetRatio: 1.5},
	}
}

func squareBoundary() vmath.Polygon {
	return vmath.Rectangle(0, 0, 50, 40)
}

func TestCloneThenMutateLeavesOriginalUntouched(t *testing.T) {
	g := New(twoRooms())
	snapshot := append([]Room(nil), g.Rooms...)

	clone := g.Clone()
	rng := random.NewSource(9)
	clone.Mutate(rng, nil, DefaultSpringConfig(), 1.0, 8, 1.0)
	clone.ApplySquishCollisions(squareBoundary(), nil, DefaultSpringConfig())

	for i := range snapshot {
		if g.Rooms[i] != snapshot[i] {
			t.Fatalf("original room %d changed: %+v vs %+v", i, g.Rooms[i], snapshot[i])
		}
	}
}

func TestSquishSeparatesOverlappingPair(t *testing.T) {
	g := New(twoRooms())
	cfg := DefaultSpringConfig()
	cfg.UseAdjacencyAttraction = false

	before := vmath.RectIntersectionArea(g.Rooms[0].AABB(), g.Rooms[1].AABB())
	if before <= 0 {
		t.Fatal("fixture rooms should overlap")
	}
	for i := 0; i < 30; i++ {
		g.ApplySquishCollisions(squareBoundary(), nil, cfg)
	}
	after := vmath.RectIntersectionArea(g.Rooms[0].AABB(), g.Rooms[1].AABB())
	if after >= before {
		t.Fatalf("overlap did not shrink: before=%v after=%v", before, after)
	}
}

func TestSquishRecordsPressure(t *testing.T) {
	g := New(twoRooms())
	cfg := DefaultSpringConfig()
	cfg.UseAdjacencyAttraction = false
	g.ApplySquishCollisions(squareBoundary(), nil, cfg)

	// The fixture overlaps 5 on x and 8 on y, so the squish runs
	// horizontally and both rooms accumulate x pressure.
	if g.Rooms[0].AccPressureX <= 0 || g.Rooms[1].AccPressureX <= 0 {
		t.Fatalf("expected x pressure, got %+v / %+v", g.Rooms[0], g.Rooms[1])
	}
}

func TestDimensionalInvariant(t *testing.T) {
	rooms := []Room{
		{ID: "tiny", X: 0, Y: 0, Width: 1.2, Height: 1.2, TargetArea: 1.4, TargetRatio: 1.0},
		{ID: "tiny2", X: 0.5, Y: 0.5, Width: 1.2, Height: 1.2, TargetArea: 1.4, TargetRatio: 1.0},
	}
	g := New(rooms)
	cfg := DefaultSpringConfig()
	rng := random.NewSource(3)
	for i := 0; i < 50; i++ {
		g.Mutate(rng, nil, cfg, 0.8, 6, 1.0)
		g.ApplySquishCollisions(squareBoundary(), nil, cfg)
		for _, r := range g.Rooms {
			if r.Width < 1 || r.Height < 1 {
				t.Fatalf("iteration %d: room %s is %vx%v", i, r.ID, r.Width, r.Height)
			}
		}
	}
}

func TestAspectRatioMutationStaysInBounds(t *testing.T) {
	rng := random.NewSource(5)
	cfg := DefaultSpringConfig()
	g := New([]Room{{ID: "a", X: 0, Y: 0, Width: 20, Height: 5, TargetArea: 100, TargetRatio: 1.5}})
	for i := 0; i < 200; i++ {
		g.mutateAspectRatio(rng, &g.Rooms[0], cfg)
		ratio := g.Rooms[0].Width / g.Rooms[0].Height
		if ratio < 1/1.5-1e-9 || ratio > 1.5+1e-9 {
			t.Fatalf("ratio %v escaped [1/1.5, 1.5]", ratio)
		}
		if area := g.Rooms[0].Area(); math.Abs(area-100) > 1e-6 {
			t.Fatalf("area drifted to %v", area)
		}
	}
}

func TestEffectiveRatioGlobalOverride(t *testing.T) {
	room := Room{ID: "living", TargetRatio: 1.3}
	if got := room.effectiveRatio(2.0); got != 2.0 {
		t.Fatalf("global override = %v", got)
	}
	corridor := Room{ID: "corridor-1", TargetRatio: 8}
	if got := corridor.effectiveRatio(2.0); got != 8 {
		t.Fatalf("corridor keeps own ratio, got %v", got)
	}
	if got := room.effectiveRatio(0); got != 1.3 {
		t.Fatalf("no override = %v", got)
	}
}

func TestBoundaryContainment(t *testing.T) {
	boundary := squareBoundary()
	g := New([]Room{{ID: "a", X: 60, Y: 45, Width: 8, Height: 8, TargetArea: 64, TargetRatio: 1.5}})
	cfg := DefaultSpringConfig()
	g.ApplySquishCollisions(boundary, nil, cfg)

	for _, corner := range g.Rooms[0].corners() {
		if !boundary.Contains(corner) {
			t.Fatalf("corner %v still outside after constraint", corner)
		}
	}
	if g.Rooms[0].AccPressureX == 0 && g.Rooms[0].AccPressureY == 0 {
		t.Fatal("boundary push should feed accumulated pressure")
	}
}

func TestFitnessPrefersSeparatedLayout(t *testing.T) {
	cfg := DefaultSpringConfig()
	cfg.FitnessBalance = 1 // pure geometry
	boundary := squareBoundary()

	overlapping := New(twoRooms())
	separated := New([]Room{
		{ID: "a", X: 5, Y: 10, Width: 10, Height: 10, TargetArea: 100, TargetRatio: 1.5},
		{ID: "b", X: 20, Y: 10, Width: 10, Height: 10, TargetArea: 100, TargetRatio: 1.5},
	})
	fo := overlapping.CalculateFitness(boundary, nil, cfg)
	fs := separated.CalculateFitness(boundary, nil, cfg)
	if fs.Total >= fo.Total {
		t.Fatalf("separated layout should score lower: %v vs %v", fs.Total, fo.Total)
	}
}

func TestFitnessTopologicalGap(t *testing.T) {
	cfg := DefaultSpringConfig()
	cfg.FitnessBalance = 0 // pure topology
	boundary := vmath.Rectangle(0, 0, 200, 200)
	adjacencies := []Adjacency{{A: 0, B: 1, Weight: 2}}

	near := New([]Room{
		{ID: "a", X: 10, Y: 10, Width: 10, Height: 10, TargetArea: 100, TargetRatio: 1.5},
		{ID: "b", X: 21, Y: 10, Width: 10, Height: 10, TargetArea: 100, TargetRatio: 1.5},
	})
	far := New([]Room{
		{ID: "a", X: 10, Y: 10, Width: 10, Height: 10, TargetArea: 100, TargetRatio: 1.5},
		{ID: "b", X: 100, Y: 120, Width: 10, Height: 10, TargetArea: 100, TargetRatio: 1.5},
	})
	fn := near.CalculateFitness(boundary, adjacencies, cfg)
	ff := far.CalculateFitness(boundary, adjacencies, cfg)
	if fn.Total >= ff.Total {
		t.Fatalf("near pair should score lower: %v vs %v", fn.Total, ff.Total)
	}
	touching := New([]Room{
		{ID: "a", X: 10, Y: 10, Width: 10, Height: 10, TargetArea: 100, TargetRatio: 1.5},
		{ID: "b", X: 20, Y: 10, Width: 10, Height: 10, TargetArea: 100, TargetRatio: 1.5},
	})
	ft := touching.CalculateFitness(boundary, adjacencies, cfg)
	if ft.Topological != 0 {
		t.Fatalf("wall-sharing pair has topological penalty %v", ft.Topological)
	}
}

func TestCrossoverFieldsComeFromParents(t *testing.T) {
	a := New([]Room{{ID: "r", X: 1, Y: 2, Width: 3, Height: 4, TargetArea: 12, TargetRatio: 1.5, AccPressureX: 2, AccPressureY: 4}})
	b := New([]Room{{ID: "r", X: 10, Y: 20, Width: 30, Height: 40, TargetArea: 99, TargetRatio: 2.5, AccPressureX: 6, AccPressureY: 8}})
	rng := random.NewSource(13)
	for i := 0; i < 50; i++ {
		child := a.Crossover(b, rng)
		r := child.Rooms[0]
		if r.TargetArea != 12 || r.TargetRatio != 1.5 {
			t.Fatalf("targets must come from the left parent: %+v", r)
		}
		if r.X != 1 && r.X != 10 {
			t.Fatalf("X %v from neither parent", r.X)
		}
		if r.Y != 2 && r.Y != 20 {
			t.Fatalf("Y %v from neither parent", r.Y)
		}
		if r.Width != 3 && r.Width != 30 {
			t.Fatalf("Width %v from neither parent", r.Width)
		}
		if r.Height != 4 && r.Height != 40 {
			t.Fatalf("Height %v from neither parent", r.Height)
		}
		if r.PressureX != 0 || r.PressureY != 0 {
			t.Fatalf("pressures must reset: %+v", r)
		}
		if r.AccPressureX != 4 || r.AccPressureY != 6 {
			t.Fatalf("accumulated pressures must average: %+v", r)
		}
	}
}

func TestSwapMutationSwapsPositions(t *testing.T) {
	rooms := []Room{
		{ID: "a", X: 0, Y: 0, Width: 10, Height: 10, TargetArea: 100, TargetRatio: 1.5},
		{ID: "b", X: 100, Y: 0, Width: 10, Height: 10, TargetArea: 100, TargetRatio: 1.5},
		{ID: "c", X: 102, Y: 14, Width: 10, Height: 10, TargetArea: 100, TargetRatio: 1.5},
	}
	// c serves a distant partner a and a close partner b; moving c to
	// b's slot (and b to c's) is the only improving swap.
	adjacencies := []Adjacency{{A: 0, B: 2, Weight: 1}, {A: 1, B: 2, Weight: 1}}
	g := New(rooms)
	g.swapMutation(random.NewSource(2), adjacencies)
	if g.Rooms[1].X != 102 || g.Rooms[1].Y != 14 || g.Rooms[2].X != 100 || g.Rooms[2].Y != 0 {
		t.Fatalf("expected b and c to trade places: b=%+v c=%+v", g.Rooms[1], g.Rooms[2])
	}
	// Dimensions travel with the room, not the slot.
	if g.Rooms[1].ID != "b" || g.Rooms[1].Width != 10 {
		t.Fatalf("swap must move positions only: %+v", g.Rooms[1])
	}
}
