package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"tekton/internal/planconfig"
	tektonapi "tekton/pkg/tekton"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "solve":
		return runSolve(ctx, args[1:])
	case "refine":
		return runRefine(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	case "fitness":
		return runFitness(ctx, args[1:])
	case "export":
		return runExport(ctx, args[1:])
	case "render":
		return runRender(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func usageError(msg string) error {
	return fmt.Errorf(`%s

usage: tektonctl <command> [flags]

commands:
  solve    run the discrete grid solver on a plan config
  refine   run the continuous evolutionary refiner on a plan config
  runs     list archived runs
  fitness  print a run's best-fitness history
  export   write a run's artifacts to the exports directory
  render   solve a plan config and draw the resulting grid`, msg)
}

type storeFlags struct {
	kind   string
	dbPath string
}

func addStoreFlags(fs *flag.FlagSet) *storeFlags {
	f := &storeFlags{}
	fs.StringVar(&f.kind, "store", "memory", "store backend: memory or sqlite")
	fs.StringVar(&f.dbPath, "db", "tekton.db", "sqlite database path")
	return f
}

func newClient(ctx context.Context, f *storeFlags) (*tektonapi.Client, error) {
	return tektonapi.NewClient(ctx, tektonapi.Options{StoreKind: f.kind, DBPath: f.dbPath})
}

func runSolve(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("solve", flag.ContinueOnError)
	store := addStoreFlags(fs)
	configPath := fs.String("config", "", "plan config JSON path")
	runID := fs.String("run-id", "", "run id (defaults to a fresh uuid)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	plan, err := planconfig.Load(*configPath)
	if err != nil {
		return err
	}

	client, err := newClient(ctx, store)
	if err != nil {
		return err
	}
	defer client.Close()

	summary, err := client.Solve(ctx, tektonapi.SolveRequest{
		RunID:       *runID,
		Boundary:    plan.Boundary,
		Rooms:       plan.Rooms,
		Adjacencies: plan.Adjacencies,
		Config:      plan.Discrete,
		Seed:        plan.Seed,
	})
	if err != nil {
		return err
	}

	fmt.Printf("run %s: placed %d/%d rooms on a %dx%d grid (score %.1f)\n",
		summary.RunID, len(summary.PlacedRooms), len(plan.Rooms),
		summary.GridWidth, summary.GridHeight, summary.Score)
	if summary.Connected {
		fmt.Println("corridor network: connected")
	} else {
		fmt.Println("corridor network: NOT connected")
	}
	for _, room := range plan.Rooms {
		p, ok := summary.PlacedRooms[room.ID]
		if !ok {
			fmt.Printf("  %-12s unplaced\n", room.ID)
			continue
		}
		fmt.Printf("  %-12s %dx%d at (%d,%d)\n", p.ID, p.Width, p.Height, p.X, p.Y)
	}
	return nil
}

func runRefine(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("refine", flag.ContinueOnError)
	store := addStoreFlags(fs)
	configPath := fs.String("config", "", "plan config JSON path")
	runID := fs.String("run-id", "", "run id (defaults to a fresh uuid)")
	generations := fs.Int("generations", 200, "generations to evolve")
	fromDiscrete := fs.Bool("from-discrete", false, "seed the population from a discrete solve")
	epsilon := fs.Float64("epsilon", 0, "stop early when best fitness stabilizes within this relative tolerance")
	if err := fs.Parse(args); err != nil {
		return err
	}
	plan, err := planconfig.Load(*configPath)
	if err != nil {
		return err
	}

	client, err := newClient(ctx, store)
	if err != nil {
		return err
	}
	defer client.Close()

	started := time.Now()
	summary, err := client.Refine(ctx, tektonapi.RefineRequest{
		RunID:              *runID,
		Boundary:           plan.Boundary,
		Rooms:              plan.Rooms,
		Adjacencies:        plan.Adjacencies,
		Config:             plan.Spring,
		Generations:        *generations,
		SeedFromDiscrete:   *fromDiscrete,
		Discrete:           plan.Discrete,
		ConvergenceEpsilon: *epsilon,
		Seed:               plan.Seed,
	})
	if err != nil {
		return err
	}

	fmt.Printf("run %s: %s generations in %s\n",
		summary.RunID, humanize.Comma(int64(summary.Generations)), time.Since(started).Round(time.Millisecond))
	fmt.Printf("best fitness %.4f (geometric %.4f, topological %.4f)\n",
		summary.Stats.Best, summary.Stats.BestGeometric, summary.Stats.BestTopological)
	if summary.Converged {
		fmt.Println("stopped early: converged")
	}
	for _, r := range summary.Rooms {
		fmt.Printf("  %-12s %.1fx%.1f at (%.1f,%.1f)\n", r.ID, r.Width, r.Height, r.X, r.Y)
	}
	return nil
}

func runRuns(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	store := addStoreFlags(fs)
	limit := fs.Int("limit", 20, "maximum runs to list (0 for all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(ctx, store)
	if err != nil {
		return err
	}
	defer client.Close()

	runs, err := client.Runs(ctx, *limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no archived runs")
		return nil
	}
	for _, r := range runs {
		age := r.CreatedAtUTC
		if created, err := time.Parse(time.RFC3339, r.CreatedAtUTC); err == nil {
			age = humanize.Time(created)
		}
		extra := fmt.Sprintf("placed %d/%d", r.PlacedCount, r.RoomCount)
		if r.Kind == "continuous" {
			extra = fmt.Sprintf("%s generations, best %.3f", humanize.Comma(int64(r.Generations)), r.BestFitness)
		}
		fmt.Printf("%-36s %-10s seed=%-10d %-28s %s\n", r.ID, r.Kind, r.Seed, extra, age)
	}
	return nil
}

func runFitness(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("fitness", flag.ContinueOnError)
	store := addStoreFlags(fs)
	runID := fs.String("run-id", "", "run id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID == "" {
		return fmt.Errorf("run id is required")
	}

	client, err := newClient(ctx, store)
	if err != nil {
		return err
	}
	defer client.Close()

	history, ok, err := client.FitnessHistory(ctx, *runID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no fitness history for run %s", *runID)
	}
	var b strings.Builder
	for i, v := range history {
		fmt.Fprintf(&b, "%d\t%.6f\n", i+1, v)
	}
	fmt.Print(b.String())
	return nil
}

func runExport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	store := addStoreFlags(fs)
	runID := fs.String("run-id", "", "run id")
	outDir := fs.String("out", "", "output directory (defaults to exports/)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID == "" {
		return fmt.Errorf("run id is required")
	}

	client, err := newClient(ctx, store)
	if err != nil {
		return err
	}
	defer client.Close()

	dir, err := client.Export(ctx, *runID, *outDir)
	if err != nil {
		return err
	}
	fmt.Printf("exported run %s to %s\n", *runID, dir)
	return nil
}
