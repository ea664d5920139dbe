package population

import (
	"math"
	"sort"

	"tekton/internal/gene"
	"tekton/internal/model"
	"tekton/internal/vmath"
)

// BaseRoomsFromRequests builds a room template from plain requests:
// every room starts at the boundary's bounding-box center, sized to the
// upper end of its aspect-ratio bound. The first squish ticks spread
// them out.
func BaseRoomsFromRequests(requests []model.RoomRequest, boundary vmath.Polygon) []gene.Room {
	box := vmath.AABBFromPolygon(boundary)
	cx := (box.MinX + box.MaxX) / 2
	cy := (box.MinY + box.MaxY) / 2

	rooms := make([]gene.Room, len(requests))
	for i, req := range requests {
		w := math.Sqrt(req.TargetArea * req.TargetRatio)
		h := req.TargetArea / w
		rooms[i] = gene.Room{
			ID:          req.ID,
			X:           cx - w/2,
			Y:           cy - h/2,
			Width:       w,
			Height:      h,
			TargetArea:  req.TargetArea,
			TargetRatio: req.TargetRatio,
		}
	}
	return rooms
}

// BaseRoomsFromPlaced seeds the template from a discrete solve: placed
// rectangles are scaled back to world coordinates, and rooms the
// discrete solver could not fit fall back to the request defaults at
// the boundary center. Room order follows the request list.
func BaseRoomsFromPlaced(requests []model.RoomRequest, placed map[string]model.PlacedRoom, gridResolution float64, boundary vmath.Polygon) []gene.Room {
	fallback := BaseRoomsFromRequests(requests, boundary)
	box := vmath.AABBFromPolygon(boundary)
	for i, req := range requests {
		p, ok := placed[req.ID]
		if !ok {
			continue
		}
		fallback[i].X = box.MinX + float64(p.X)*gridResolution
		fallback[i].Y = box.MinY + float64(p.Y)*gridResolution
		fallback[i].Width = float64(p.Width) * gridResolution
		fallback[i].Height = float64(p.Height) * gridResolution
	}
	return fallback
}

// SortedRoomIDs returns the template ids in lexical order; useful for
// callers labelling output.
func SortedRoomIDs(rooms []gene.Room) []string {
	ids := make([]string, len(rooms))
	for i, r := range rooms {
		ids[i] = r.ID
	}
	sort.Strings(ids)
	return ids
}
