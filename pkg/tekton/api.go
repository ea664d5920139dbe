// Package tekton is the public facade over the floor-plan solvers: it
// runs discrete solves and continuous refinements, archives their
// results in a store, and exports run artifacts.
package tekton

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tekton/internal/discrete"
	"tekton/internal/gene"
	"tekton/internal/model"
	"tekton/internal/population"
	"tekton/internal/stats"
	"tekton/internal/storage"
	"tekton/internal/vmath"
)

const (
	defaultExportsDir  = "exports"
	defaultDBPath      = "tekton.db"
	defaultGenerations = 200
)

type Options struct {
	StoreKind  string // "memory" (default) or "sqlite"
	DBPath     string
	ExportsDir string
}

type Client struct {
	store      storage.Store
	exportsDir string
}

// NewClient builds the store backend and initializes it.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	store, err := storage.NewStore(opts.StoreKind, dbPath)
	if err != nil {
		return nil, err
	}
	if err := store.Init(ctx); err != nil {
		return nil, err
	}
	exportsDir := opts.ExportsDir
	if exportsDir == "" {
		exportsDir = defaultExportsDir
	}
	return &Client{store: store, exportsDir: exportsDir}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

// SolveRequest runs the discrete topological solver.
type SolveRequest struct {
	RunID       string
	Boundary    []vmath.Vec2
	Rooms       []model.RoomRequest
	Adjacencies []model.Adjacency
	Config      discrete.Config
	Seed        *uint32 // nil defaults to a clock-based seed
}

type SolveSummary struct {
	RunID       string
	Seed        uint32
	GridWidth   int
	GridHeight  int
	PlacedRooms map[string]model.PlacedRoom
	Score       float64
	Connected   bool
}

func (c *Client) Solve(ctx context.Context, req SolveRequest) (SolveSummary, error) {
	seed := resolveSeed(req.Seed)
	solver, err := discrete.NewSolver(vmath.Polygon(req.Boundary), req.Rooms, req.Adjacencies, req.Config, seed)
	if err != nil {
		return SolveSummary{}, err
	}
	solver.Solve()

	runID := req.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	placed := make(map[string]model.PlacedRoom, len(solver.PlacedRooms()))
	placedList := make([]model.PlacedRoom, 0, len(solver.PlacedRooms()))
	for _, room := range req.Rooms {
		if p, ok := solver.PlacedRooms()[room.ID]; ok {
			placed[room.ID] = p
			placedList = append(placedList, p)
		}
	}

	run := model.RunRecord{
		VersionedRecord: storage.Stamp(),
		ID:              runID,
		Kind:            "discrete",
		Seed:            seed,
		CreatedAtUTC:    time.Now().UTC().Format(time.RFC3339),
		RoomCount:       len(req.Rooms),
		PlacedCount:     len(placed),
		BestFitness:     solver.Score(),
		Connected:       solver.Connected(),
	}
	if err := c.store.SaveRun(ctx, run); err != nil {
		return SolveSummary{}, err
	}
	layout := model.LayoutRecord{
		VersionedRecord: storage.Stamp(),
		RunID:           runID,
		PlacedRooms:     placedList,
	}
	if err := c.store.SaveLayout(ctx, layout); err != nil {
		return SolveSummary{}, err
	}

	return SolveSummary{
		RunID:       runID,
		Seed:        seed,
		GridWidth:   solver.Grid().Width(),
		GridHeight:  solver.Grid().Height(),
		PlacedRooms: placed,
		Score:       solver.Score(),
		Connected:   solver.Connected(),
	}, nil
}

// RefineRequest runs the continuous evolutionary refiner, optionally
// seeded from a discrete solve first.
type RefineRequest struct {
	RunID       string
	Boundary    []vmath.Vec2
	Rooms       []model.RoomRequest
	Adjacencies []model.Adjacency
	Config      gene.SpringConfig
	Generations int

	// SeedFromDiscrete runs the discrete solver first and uses its
	// placed rectangles as the base template.
	SeedFromDiscrete bool
	Discrete         discrete.Config

	// ConvergenceEpsilon stops early once the best fitness stabilizes;
	// zero disables the check.
	ConvergenceEpsilon float64

	Seed *uint32
}

type RefineSummary struct {
	RunID       string
	Seed        uint32
	Generations int
	Converged   bool
	Stats       population.Stats
	Rooms       []model.RoomRect
}

func (c *Client) Refine(ctx context.Context, req RefineRequest) (RefineSummary, error) {
	seed := resolveSeed(req.Seed)
	boundary := vmath.Polygon(req.Boundary)

	base := population.BaseRoomsFromRequests(req.Rooms, boundary)
	if req.SeedFromDiscrete {
		solver, err := discrete.NewSolver(boundary, req.Rooms, req.Adjacencies, req.Discrete, seed)
		if err != nil {
			return RefineSummary{}, err
		}
		solver.Solve()
		resolution := req.Discrete.GridResolution
		if resolution <= 0 {
			resolution = discrete.DefaultConfig().GridResolution
		}
		base = population.BaseRoomsFromPlaced(req.Rooms, solver.PlacedRooms(), resolution, boundary)
	}

	collection, err := population.NewCollection(boundary, base, req.Adjacencies, req.Config, seed)
	if err != nil {
		return RefineSummary{}, err
	}

	generations := req.Generations
	if generations <= 0 {
		generations = defaultGenerations
	}

	history := make([]float64, 0, generations)
	converged := false
	ran := 0
	for ; ran < generations; ran++ {
		if err := ctx.Err(); err != nil {
			return RefineSummary{}, err
		}
		collection.Iterate()
		history = append(history, collection.Stats().Best)
		if req.ConvergenceEpsilon > 0 && collection.HasConverged(req.ConvergenceEpsilon) {
			converged = true
			ran++
			break
		}
	}

	runID := req.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	best := collection.Best()
	rooms := make([]model.RoomRect, len(best.Rooms))
	for i, r := range best.Rooms {
		rooms[i] = model.RoomRect{ID: r.ID, X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
	}

	run := model.RunRecord{
		VersionedRecord: storage.Stamp(),
		ID:              runID,
		Kind:            "continuous",
		Seed:            seed,
		CreatedAtUTC:    time.Now().UTC().Format(time.RFC3339),
		RoomCount:       len(req.Rooms),
		Generations:     ran,
		BestFitness:     best.Fitness.Total,
	}
	if err := c.store.SaveRun(ctx, run); err != nil {
		return RefineSummary{}, err
	}
	layout := model.LayoutRecord{
		VersionedRecord: storage.Stamp(),
		RunID:           runID,
		Rooms:           rooms,
	}
	if err := c.store.SaveLayout(ctx, layout); err != nil {
		return RefineSummary{}, err
	}
	if err := c.store.SaveFitnessHistory(ctx, runID, history); err != nil {
		return RefineSummary{}, err
	}

	return RefineSummary{
		RunID:       runID,
		Seed:        seed,
		Generations: ran,
		Converged:   converged,
		Stats:       collection.Stats(),
		Rooms:       rooms,
	}, nil
}

// Runs lists archived runs, newest first.
func (c *Client) Runs(ctx context.Context, limit int) ([]model.RunRecord, error) {
	return c.store.ListRuns(ctx, limit)
}

// FitnessHistory returns a run's per-generation best fitness.
func (c *Client) FitnessHistory(ctx context.Context, runID string) ([]float64, bool, error) {
	return c.store.GetFitnessHistory(ctx, runID)
}

// Layout returns a run's archived best layout.
func (c *Client) Layout(ctx context.Context, runID string) (model.LayoutRecord, bool, error) {
	return c.store.GetLayout(ctx, runID)
}

// Export writes a run's artifacts under the exports directory (or
// outDir when given) and returns the run directory.
func (c *Client) Export(ctx context.Context, runID, outDir string) (string, error) {
	run, ok, err := c.store.GetRun(ctx, runID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("run not found: %s", runID)
	}
	layout, _, err := c.store.GetLayout(ctx, runID)
	if err != nil {
		return "", err
	}
	history, _, err := c.store.GetFitnessHistory(ctx, runID)
	if err != nil {
		return "", err
	}

	dir := outDir
	if dir == "" {
		dir = c.exportsDir
	}
	return stats.WriteRunArtifacts(dir, stats.RunArtifacts{
		Run:            run,
		Layout:         layout,
		FitnessHistory: history,
	})
}

func resolveSeed(seed *uint32) uint32 {
	if seed != nil {
		return *seed
	}
	return uint32(time.Now().UnixNano())
}
