package placement

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/solenne/mapforge/internal/terrain"
)

// PlaceBatch places a batch of requests in order. Each placement is folded
// into the working set before the next is computed, so location i's spacing
// constrains location i+1. Ordering is strictly left to right.
//
// The preexisting set is not modified; only the newly placed locations are
// returned. Requests with types outside the closed enumeration are rejected
// before anything is placed.
func (s *Selector) PlaceBatch(requests []Request, preexisting []PlacedLocation, analysis terrain.Analysis, bounds Bounds) ([]PlacedLocation, error) {
	for i, req := range requests {
		if !req.Type.Valid() {
			return nil, fmt.Errorf("request %d: invalid location type %d", i, uint8(req.Type))
		}
	}

	working := make([]PlacedLocation, len(preexisting), len(preexisting)+len(requests))
	copy(working, preexisting)

	placed := make([]PlacedLocation, 0, len(requests))
	for _, req := range requests {
		res := s.Select(req.Type, working, analysis, bounds)
		loc := PlacedLocation{
			ID:          uuid.NewString(),
			Type:        req.Type,
			Name:        req.Name,
			Description: req.Description,
			X:           res.X,
			Y:           res.Y,
		}
		working = append(working, loc)
		placed = append(placed, loc)
	}

	return placed, nil
}
