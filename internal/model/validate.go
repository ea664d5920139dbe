package model

import (
	"fmt"

	"tekton/internal/vmath"
)

// ValidateInputs checks the shared construction-time contract for both
// solvers. A failure here means no solver state is created.
func ValidateInputs(boundary vmath.Polygon, rooms []RoomRequest, adjacencies []Adjacency) error {
	if len(boundary) < 3 {
		return fmt.Errorf("boundary requires at least 3 vertices, got %d", len(boundary))
	}

	ids := make(map[string]struct{}, len(rooms))
	for i, room := range rooms {
		if room.ID == "" {
			return fmt.Errorf("room id is required at index %d", i)
		}
		if _, exists := ids[room.ID]; exists {
			return fmt.Errorf("duplicate room id: %s", room.ID)
		}
		ids[room.ID] = struct{}{}
		if room.TargetArea <= 0 {
			return fmt.Errorf("room %s: target area must be > 0, got %v", room.ID, room.TargetArea)
		}
		if room.TargetRatio < 1 {
			return fmt.Errorf("room %s: target ratio must be >= 1, got %v", room.ID, room.TargetRatio)
		}
	}

	for i, adj := range adjacencies {
		if _, ok := ids[adj.A]; !ok {
			return fmt.Errorf("adjacency %d names unknown room: %s", i, adj.A)
		}
		if _, ok := ids[adj.B]; !ok {
			return fmt.Errorf("adjacency %d names unknown room: %s", i, adj.B)
		}
		if adj.Weight < 0 {
			return fmt.Errorf("adjacency %d: weight must be >= 0, got %v", i, adj.Weight)
		}
	}
	return nil
}

// AdjacencyWeight returns the adjacency's weight with the default of 1
// applied.
func AdjacencyWeight(a Adjacency) float64 {
	if a.Weight == 0 {
		return 1
	}
	return a.Weight
}
