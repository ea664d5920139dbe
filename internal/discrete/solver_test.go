package discrete

import (
	"testing"

	"tekton/internal/grid"
	"tekton/internal/model"
	"tekton/internal/vmath"
)

func scenarioRooms() []model.RoomRequest {
	return []model.RoomRequest{
		{ID: "living", TargetArea: 200, TargetRatio: 1.5, CorridorRule: model.CorridorTwoSides},
		{ID: "kitchen", TargetArea: 120, TargetRatio: 1.2, CorridorRule: model.CorridorOneSide},
		{ID: "bedroom", TargetArea: 150, TargetRatio: 1.3, CorridorRule: model.CorridorTwoSides},
		{ID: "bathroom", TargetArea: 60, TargetRatio: 1.0, CorridorRule: model.CorridorOneSide},
	}
}

func scenarioAdjacencies() []model.Adjacency {
	return []model.Adjacency{
		{A: "living", B: "kitchen", Weight: 2},
		{A: "kitchen", B: "bathroom", Weight: 1.5},
		{A: "bedroom", B: "bathroom", Weight: 1},
	}
}

func scenarioSolver(t *testing.T, seed uint32) *Solver {
	t.Helper()
	cfg := DefaultConfig()
	cfg.MaxIterations = 100
	cfg.Start = &Point{X: 25, Y: 20}
	s, err := NewSolver(vmath.Rectangle(0, 0, 50, 40), scenarioRooms(), scenarioAdjacencies(), cfg, seed)
	if err != nil {
		t.Fatalf("NewSolver: %v", err)
	}
	return s
}

func TestConstructionErrors(t *testing.T) {
	cfg := DefaultConfig()
	if _, err := NewSolver(vmath.Polygon{{X: 0, Y: 0}, {X: 1, Y: 0}}, scenarioRooms(), nil, cfg, 1); err == nil {
		t.Fatal("short boundary accepted")
	}
	bad := scenarioRooms()
	bad[0].TargetRatio = 0.5
	if _, err := NewSolver(vmath.Rectangle(0, 0, 50, 40), bad, nil, cfg, 1); err == nil {
		t.Fatal("sub-unit ratio accepted")
	}
	if _, err := NewSolver(vmath.Rectangle(0, 0, 50, 40), scenarioRooms(), []model.Adjacency{{A: "living", B: "garage"}}, cfg, 1); err == nil {
		t.Fatal("unknown adjacency id accepted")
	}
}

func TestScenarioMinimalApartment(t *testing.T) {
	s := scenarioSolver(t, 42)
	s.Solve()

	if s.Grid().Width() != 50 || s.Grid().Height() != 40 {
		t.Fatalf("grid is %dx%d, want 50x40", s.Grid().Width(), s.Grid().Height())
	}
	if len(s.PlacedRooms()) < 3 {
		t.Fatalf("placed %d rooms, want at least 3", len(s.PlacedRooms()))
	}
	if !s.Connected() {
		t.Fatal("corridor network should be connected for this fixture")
	}
	assertPruneFixpoint(t, s)
	assertRoomExclusivity(t, s)
}

// assertPruneFixpoint checks that no corridor cell is a dead end after
// Solve.
func assertPruneFixpoint(t *testing.T, s *Solver) {
	t.Helper()
	g := s.Grid()
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			if g.At(x, y) != grid.Corridor {
				continue
			}
			neighbors := 0
			for _, off := range neighborOffsets {
				v := g.At(x+off.X, y+off.Y)
				if v != grid.Empty && v != grid.OutOfBounds {
					neighbors++
				}
			}
			if neighbors <= 1 {
				t.Fatalf("dead-end corridor cell survived pruning at (%d,%d)", x, y)
			}
		}
	}
}

// assertRoomExclusivity checks that every positive cell belongs to
// exactly one placed room and lies inside that room's rectangle.
func assertRoomExclusivity(t *testing.T, s *Solver) {
	t.Helper()
	g := s.Grid()
	byIndex := make(map[int]model.PlacedRoom)
	for _, room := range s.PlacedRooms() {
		byIndex[room.RoomIndex] = room
	}
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			v := g.At(x, y)
			if v < 1 {
				continue
			}
			room, ok := byIndex[v]
			if !ok {
				t.Fatalf("cell (%d,%d) holds index %d with no placed room", x, y, v)
			}
			if x < room.X || x >= room.X+room.Width || y < room.Y || y >= room.Y+room.Height {
				t.Fatalf("cell (%d,%d) with index %d lies outside room %s", x, y, v, room.ID)
			}
		}
	}
	// And the converse: every core cell of a placed room carries its index.
	for _, room := range byIndex {
		for dy := 0; dy < room.Height; dy++ {
			for dx := 0; dx < room.Width; dx++ {
				if g.At(room.X+dx, room.Y+dy) != room.RoomIndex {
					t.Fatalf("room %s core cell (%d,%d) holds %d", room.ID, room.X+dx, room.Y+dy, g.At(room.X+dx, room.Y+dy))
				}
			}
		}
	}
}

func TestDeterminism(t *testing.T) {
	a := scenarioSolver(t, 42)
	b := scenarioSolver(t, 42)
	a.Solve()
	b.Solve()

	if len(a.PlacedRooms()) != len(b.PlacedRooms()) {
		t.Fatalf("placed counts differ: %d vs %d", len(a.PlacedRooms()), len(b.PlacedRooms()))
	}
	for id, room := range a.PlacedRooms() {
		if b.PlacedRooms()[id] != room {
			t.Fatalf("room %s differs: %+v vs %+v", id, room, b.PlacedRooms()[id])
		}
	}
	ga, gb := a.Grid(), b.Grid()
	for y := 0; y < ga.Height(); y++ {
		for x := 0; x < ga.Width(); x++ {
			if ga.At(x, y) != gb.At(x, y) {
				t.Fatalf("grids differ at (%d,%d)", x, y)
			}
		}
	}
	if a.Score() != b.Score() {
		t.Fatalf("scores differ: %v vs %v", a.Score(), b.Score())
	}
}

func TestScenarioConcaveBoundary(t *testing.T) {
	boundary := vmath.Polygon{{X: 0, Y: 0}, {X: 50, Y: 0}, {X: 50, Y: 20}, {X: 30, Y: 20}, {X: 30, Y: 40}, {X: 0, Y: 40}}
	rooms := []model.RoomRequest{
		{ID: "studio", TargetArea: 200, TargetRatio: 1.5, CorridorRule: model.CorridorTwoSides},
		{ID: "workshop", TargetArea: 200, TargetRatio: 1.5, CorridorRule: model.CorridorOneSide},
	}
	adj := []model.Adjacency{{A: "studio", B: "workshop"}}
	cfg := DefaultConfig()
	cfg.MaxIterations = 50
	cfg.Start = &Point{X: 15, Y: 20}
	s, err := NewSolver(boundary, rooms, adj, cfg, 7)
	if err != nil {
		t.Fatalf("NewSolver: %v", err)
	}
	s.Solve()

	if got := s.Grid().Count(grid.OutOfBounds); got != 400 {
		t.Fatalf("out-of-bounds cells = %d, want 400 (the 20x20 notch)", got)
	}
	if len(s.PlacedRooms()) != 2 {
		t.Fatalf("placed %d rooms, want 2", len(s.PlacedRooms()))
	}
	for _, room := range s.PlacedRooms() {
		for dy := 0; dy < room.Height; dy++ {
			for dx := 0; dx < room.Width; dx++ {
				if room.X+dx >= 30 && room.Y+dy >= 20 {
					t.Fatalf("room %s occupies notch cell (%d,%d)", room.ID, room.X+dx, room.Y+dy)
				}
			}
		}
	}
}

func TestScenarioSingleRoomFillsSite(t *testing.T) {
	rooms := []model.RoomRequest{{ID: "r", TargetArea: 100, TargetRatio: 1.0, CorridorRule: model.CorridorNone}}
	cfg := DefaultConfig()
	cfg.MaxIterations = 10
	cfg.Start = &Point{X: 5, Y: 5}
	s, err := NewSolver(vmath.Rectangle(0, 0, 10, 10), rooms, nil, cfg, 42)
	if err != nil {
		t.Fatalf("NewSolver: %v", err)
	}
	s.Solve()

	room, ok := s.PlacedRooms()["r"]
	if !ok {
		t.Fatal("room was not placed")
	}
	if room.X != 0 || room.Y != 0 || room.Width != 10 || room.Height != 10 {
		t.Fatalf("room should fill the grid, got %+v", room)
	}
	if got := s.Grid().Count(grid.Corridor); got != 0 {
		t.Fatalf("%d corridor cells remain, want 0", got)
	}
	if !s.Connected() {
		t.Fatal("empty corridor network is trivially connected")
	}
}

func TestOversizedRoomNeverPlaced(t *testing.T) {
	rooms := []model.RoomRequest{{ID: "hangar", TargetArea: 5000, TargetRatio: 1.0, CorridorRule: model.CorridorNone}}
	cfg := DefaultConfig()
	cfg.MaxIterations = 20
	s, err := NewSolver(vmath.Rectangle(0, 0, 10, 10), rooms, nil, cfg, 3)
	if err != nil {
		t.Fatalf("NewSolver: %v", err)
	}
	s.Solve()
	if _, ok := s.PlacedRooms()["hangar"]; ok {
		t.Fatal("room larger than the site must not be placed")
	}
}

func TestDefaultStartIsGridCenter(t *testing.T) {
	s, err := NewSolver(vmath.Rectangle(0, 0, 30, 20), scenarioRooms(), scenarioAdjacencies(), DefaultConfig(), 1)
	if err != nil {
		t.Fatalf("NewSolver: %v", err)
	}
	if s.Start() != (Point{X: 15, Y: 10}) {
		t.Fatalf("default start = %+v", s.Start())
	}
}
