package model

import (
	"encoding/json"
	"fmt"
)

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// CorridorRule controls which cells a room claims for circulation when
// stamped on the discrete grid.
type CorridorRule int

const (
	CorridorNone CorridorRule = iota
	CorridorOneSide
	CorridorTwoSides
	CorridorAllSides
)

var corridorRuleNames = map[CorridorRule]string{
	CorridorNone:     "none",
	CorridorOneSide:  "one_side",
	CorridorTwoSides: "two_sides",
	CorridorAllSides: "all_sides",
}

func (r CorridorRule) String() string {
	if name, ok := corridorRuleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("corridor_rule(%d)", int(r))
}

func (r CorridorRule) MarshalJSON() ([]byte, error) {
	name, ok := corridorRuleNames[r]
	if !ok {
		return nil, fmt.Errorf("unknown corridor rule: %d", int(r))
	}
	return json.Marshal(name)
}

func (r *CorridorRule) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseCorridorRule(name)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

func ParseCorridorRule(name string) (CorridorRule, error) {
	for rule, n := range corridorRuleNames {
		if n == name {
			return rule, nil
		}
	}
	return CorridorNone, fmt.Errorf("unknown corridor rule: %q", name)
}

// RoomRequest is one requested room: a target floor area and the
// allowed aspect-ratio interval [1/TargetRatio, TargetRatio].
type RoomRequest struct {
	ID           string       `json:"id"`
	TargetArea   float64      `json:"target_area"`
	TargetRatio  float64      `json:"target_ratio"`
	CorridorRule CorridorRule `json:"corridor_rule"`
}

// Adjacency is a soft requirement that two rooms lie close together.
// The pair is unordered; duplicate pairs in an input list add their
// weights.
type Adjacency struct {
	A      string  `json:"a"`
	B      string  `json:"b"`
	Weight float64 `json:"weight,omitempty"`
}

// PlacedRoom is the discrete solver's output for one room, in grid
// coordinates.
type PlacedRoom struct {
	ID           string       `json:"id"`
	X            int          `json:"x"`
	Y            int          `json:"y"`
	Width        int          `json:"width"`
	Height       int          `json:"height"`
	RoomIndex    int          `json:"room_index"`
	CorridorRule CorridorRule `json:"corridor_rule"`
}

// RoomRect is a continuous-coordinate room rectangle, used in persisted
// layouts and API responses.
type RoomRect struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RunRecord summarizes one solve or refinement run.
type RunRecord struct {
	VersionedRecord
	ID           string  `json:"id"`
	Kind         string  `json:"kind"`
	Seed         uint32  `json:"seed"`
	CreatedAtUTC string  `json:"created_at_utc"`
	RoomCount    int     `json:"room_count"`
	PlacedCount  int     `json:"placed_count,omitempty"`
	Generations  int     `json:"generations,omitempty"`
	BestFitness  float64 `json:"best_fitness,omitempty"`
	Connected    bool    `json:"connected,omitempty"`
}

// LayoutRecord is the persisted best layout of a run.
type LayoutRecord struct {
	VersionedRecord
	RunID       string       `json:"run_id"`
	PlacedRooms []PlacedRoom `json:"placed_rooms,omitempty"`
	Rooms       []RoomRect   `json:"rooms,omitempty"`
}
