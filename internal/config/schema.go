package config

// Layout is the top-level YAML structure.
type Layout struct {
	Version string     `yaml:"version"`
	Engine  EngineConf `yaml:"engine"`
	Rooms   []RoomDef  `yaml:"rooms"`
}

// EngineConf holds control loop settings.
type EngineConf struct {
	QueueDepth       int `yaml:"queue_depth"`
	CommandTimeoutMs int `yaml:"command_timeout_ms"`
}

// RoomDef describes one room and the exits leaving it.
type RoomDef struct {
	ID          uint16    `yaml:"id"`
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Depth       uint16    `yaml:"depth"`
	Exits       []ExitDef `yaml:"exits"`
}

// ExitDef is a passage to another room. TwoWay also adds the reverse exit.
type ExitDef struct {
	To     uint16 `yaml:"to"`
	TwoWay bool   `yaml:"two_way"`
}

// EdgeCount returns how many graph edges the layout needs. A two-way exit
// from a room to itself is a single edge.
func (l *Layout) EdgeCount() int {
	n := 0
	for _, r := range l.Rooms {
		for _, e := range r.Exits {
			n++
			if e.TwoWay && e.To != r.ID {
				n++
			}
		}
	}
	return n
}
