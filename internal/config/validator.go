package config

import (
	"fmt"
	"strings"

	"github.com/gyaneshwarpardhi/roomgraph/internal/graph"
)

// Validate checks the layout for:
//   - Required fields
//   - Room ids outside [1, graph.Capacity) and duplicates
//   - Exits leading to rooms that are not defined
//   - More exits than the graph has edge slots
func Validate(l *Layout) error {
	if l.Version == "" {
		return fmt.Errorf("config: version is required")
	}
	ids := make(map[uint16]int) // id -> index in Rooms
	var errs []string

	for i, r := range l.Rooms {
		loc := fmt.Sprintf("rooms[%d]", i)
		if !graph.Valid(graph.NodeID(r.ID)) {
			errs = append(errs, fmt.Sprintf("%s: id %d outside [1, %d)", loc, r.ID, graph.Capacity))
			continue
		}
		if prev, ok := ids[r.ID]; ok {
			errs = append(errs, fmt.Sprintf("duplicate room id %d (rooms[%d] and %s)", r.ID, prev, loc))
			continue
		}
		ids[r.ID] = i
		if strings.TrimSpace(r.Name) == "" {
			errs = append(errs, fmt.Sprintf("room %d: name is required", r.ID))
		}
	}

	for _, r := range l.Rooms {
		for j, e := range r.Exits {
			if _, ok := ids[e.To]; !ok {
				errs = append(errs, fmt.Sprintf("room %d: exits[%d] leads to unknown room %d", r.ID, j, e.To))
			}
		}
	}

	if n := l.EdgeCount(); n > graph.Capacity-1 {
		errs = append(errs, fmt.Sprintf("layout needs %d exits, capacity is %d", n, graph.Capacity-1))
	}

	if l.Engine.QueueDepth < 0 || l.Engine.CommandTimeoutMs < 0 {
		errs = append(errs, "engine: queue_depth and command_timeout_ms must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
