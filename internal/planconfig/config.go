// Package planconfig loads the JSON plan description shared by the
// command-line drivers.
package planconfig

import (
	"encoding/json"
	"fmt"
	"os"

	"tekton/internal/discrete"
	"tekton/internal/gene"
	"tekton/internal/model"
	"tekton/internal/vmath"
)

// PlanConfig is one solvable plan: boundary, rooms, adjacencies, and
// the per-solver configurations.
type PlanConfig struct {
	Boundary    []vmath.Vec2        `json:"boundary"`
	Rooms       []model.RoomRequest `json:"rooms"`
	Adjacencies []model.Adjacency   `json:"adjacencies"`
	Discrete    discrete.Config     `json:"discrete"`
	Spring      gene.SpringConfig   `json:"spring"`
	Seed        *uint32             `json:"-"`
}

// Load reads and minimally validates a plan file. Deep validation
// happens at solver construction.
func Load(path string) (PlanConfig, error) {
	if path == "" {
		return PlanConfig{}, fmt.Errorf("config path is required (-config)")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return PlanConfig{}, err
	}

	var plan PlanConfig
	if err := json.Unmarshal(data, &plan); err != nil {
		return PlanConfig{}, fmt.Errorf("parse %s: %w", path, err)
	}

	// The seed is read tolerantly: JSON numbers arrive as float64 and
	// older configs wrote it as a string.
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err == nil {
		if seed, ok := asUint32(raw["seed"]); ok {
			plan.Seed = &seed
		}
	}

	if len(plan.Boundary) < 3 {
		return PlanConfig{}, fmt.Errorf("%s: boundary requires at least 3 vertices", path)
	}
	if len(plan.Rooms) == 0 {
		return PlanConfig{}, fmt.Errorf("%s: at least one room is required", path)
	}
	return plan, nil
}

func asUint32(v any) (uint32, bool) {
	switch value := v.(type) {
	case float64:
		if value < 0 {
			return 0, false
		}
		return uint32(value), true
	case string:
		var parsed uint64
		if _, err := fmt.Sscanf(value, "%d", &parsed); err != nil {
			return 0, false
		}
		return uint32(parsed), true
	default:
		return 0, false
	}
}
