package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyaneshwarpardhi/roomgraph/internal/config"
	"github.com/gyaneshwarpardhi/roomgraph/internal/graph"
)

const cavern = `
version: v1
rooms:
  - id: 1
    name: Entrance
    description: A draughty hall.
    exits:
      - to: 2
        two_way: true
  - id: 2
    name: Gallery
    depth: 1
    exits:
      - to: 3
  - id: 3
    name: Pit
    depth: 2
`

func writeLayout(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "layout.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestParseDefaults(t *testing.T) {
	cfg, err := config.Parse([]byte(cavern))
	require.NoError(t, err)

	assert.Equal(t, "v1", cfg.Version)
	assert.Len(t, cfg.Rooms, 3)
	assert.Equal(t, 1024, cfg.Engine.QueueDepth)
	assert.Equal(t, 2000, cfg.Engine.CommandTimeoutMs)
	assert.Equal(t, 3, cfg.EdgeCount())

	cfg.Rooms[2].Exits = []config.ExitDef{{To: 3, TwoWay: true}}
	assert.Equal(t, 4, cfg.EdgeCount())
	assert.True(t, cfg.Rooms[0].Exits[0].TwoWay)
	require.NoError(t, config.Validate(cfg))
}

func TestParseInvalidYAML(t *testing.T) {
	_, err := config.Parse([]byte("rooms: [:"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		layout  config.Layout
		wantErr string
	}{
		{
			name:    "missing version",
			layout:  config.Layout{},
			wantErr: "version is required",
		},
		{
			name:    "room zero",
			layout:  config.Layout{Version: "v1", Rooms: []config.RoomDef{{ID: 0, Name: "void"}}},
			wantErr: "id 0 outside",
		},
		{
			name:    "room beyond capacity",
			layout:  config.Layout{Version: "v1", Rooms: []config.RoomDef{{ID: graph.Capacity, Name: "far"}}},
			wantErr: "outside [1, 1024)",
		},
		{
			name: "duplicate id",
			layout: config.Layout{Version: "v1", Rooms: []config.RoomDef{
				{ID: 4, Name: "a"}, {ID: 4, Name: "b"},
			}},
			wantErr: "duplicate room id 4",
		},
		{
			name:    "missing name",
			layout:  config.Layout{Version: "v1", Rooms: []config.RoomDef{{ID: 4, Name: "  "}}},
			wantErr: "room 4: name is required",
		},
		{
			name: "unknown exit",
			layout: config.Layout{Version: "v1", Rooms: []config.RoomDef{
				{ID: 4, Name: "a", Exits: []config.ExitDef{{To: 9}}},
			}},
			wantErr: "leads to unknown room 9",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := config.Validate(&tc.layout)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestValidateTooManyExits(t *testing.T) {
	l := config.Layout{Version: "v1", Rooms: []config.RoomDef{{ID: 1, Name: "hub"}, {ID: 2, Name: "spoke"}}}
	for i := 0; i < graph.Capacity/2; i++ {
		l.Rooms[0].Exits = append(l.Rooms[0].Exits, config.ExitDef{To: 2, TwoWay: true})
	}
	err := config.Validate(&l)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "capacity is 1023")
}

func TestLoaderReload(t *testing.T) {
	path := writeLayout(t, cavern)
	l, err := config.NewLoader(path)
	require.NoError(t, err)
	assert.Equal(t, path, l.Path())
	assert.Len(t, l.Config().Rooms, 3)

	var seen []*config.Layout
	l.OnChange(func(cfg *config.Layout) { seen = append(seen, cfg) })

	require.NoError(t, os.WriteFile(path, []byte("version: v2\nrooms:\n  - id: 7\n    name: Alone\n"), 0o644))
	cfg, err := l.Reload()
	require.NoError(t, err)
	assert.Equal(t, "v2", cfg.Version)
	assert.Same(t, cfg, l.Config())
	require.Len(t, seen, 1)
	assert.Same(t, cfg, seen[0])
}

func TestLoaderKeepsLayoutOnInvalidReload(t *testing.T) {
	path := writeLayout(t, cavern)
	l, err := config.NewLoader(path)
	require.NoError(t, err)
	before := l.Config()

	calls := 0
	l.OnChange(func(*config.Layout) { calls++ })

	require.NoError(t, os.WriteFile(path, []byte(`version: v2
rooms:
  - id: 0
    name: Nowhere
`), 0o644))
	_, err = l.Reload()
	assert.ErrorIs(t, err, config.ErrInvalidLayout)
	assert.Same(t, before, l.Config())
	assert.Zero(t, calls)

	_, err = config.NewLoader(path)
	assert.ErrorIs(t, err, config.ErrInvalidLayout)
}

func TestLoaderMissingFile(t *testing.T) {
	_, err := config.NewLoader(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "read layout")
}

func TestLoaderWatch(t *testing.T) {
	path := writeLayout(t, cavern)
	l, err := config.NewLoader(path)
	require.NoError(t, err)

	changed := make(chan *config.Layout, 16)
	l.OnChange(func(cfg *config.Layout) {
		select {
		case changed <- cfg:
		default:
		}
	})

	stop, err := l.Watch()
	require.NoError(t, err)
	defer stop()

	require.NoError(t, os.WriteFile(path, []byte("version: v3\n"), 0o644))

	// A write can surface as several events, some seeing a truncated file.
	deadline := time.After(5 * time.Second)
	for {
		select {
		case cfg := <-changed:
			if cfg.Version == "v3" {
				return
			}
		case <-deadline:
			t.Fatal("no reload observed after writing the layout")
		}
	}
}
