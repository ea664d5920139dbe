package storage

import (
	"context"

	"tekton/internal/model"
)

// Store persists layout runs, their best layouts, and fitness
// histories. The core solvers never touch a Store; only the facade
// archives results through one.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run model.RunRecord) error
	GetRun(ctx context.Context, id string) (model.RunRecord, bool, error)
	ListRuns(ctx context.Context, limit int) ([]model.RunRecord, error)
	SaveLayout(ctx context.Context, layout model.LayoutRecord) error
	GetLayout(ctx context.Context, runID string) (model.LayoutRecord, bool, error)
	SaveFitnessHistory(ctx context.Context, runID string, history []float64) error
	GetFitnessHistory(ctx context.Context, runID string) ([]float64, bool, error)
}

// Resetter is implemented by stores that can wipe themselves.
type Resetter interface {
	Reset(ctx context.Context) error
}
