package world

import (
	"fmt"

	"github.com/gyaneshwarpardhi/roomgraph/internal/config"
	"github.com/gyaneshwarpardhi/roomgraph/internal/graph"
)

// Build constructs a World from a validated Layout. Rooms are added first so
// exits may point forward. Exits are inserted in file order, which fixes the
// tie-break between equally short routes.
func Build(cfg *config.Layout) (*World, error) {
	w := New()
	for _, rd := range cfg.Rooms {
		r := Room{
			ID:          graph.NodeID(rd.ID),
			Name:        rd.Name,
			Description: rd.Description,
			Depth:       rd.Depth,
		}
		if err := w.AddRoom(r); err != nil {
			return nil, err
		}
	}
	for _, rd := range cfg.Rooms {
		from := graph.NodeID(rd.ID)
		for _, e := range rd.Exits {
			to := graph.NodeID(e.To)
			if err := w.Connect(from, to); err != nil {
				return nil, fmt.Errorf("room %d: %w", rd.ID, err)
			}
			if e.TwoWay && from != to {
				if err := w.Connect(to, from); err != nil {
					return nil, fmt.Errorf("room %d: %w", rd.ID, err)
				}
			}
		}
	}
	return w, nil
}
