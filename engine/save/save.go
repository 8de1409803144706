// Package save implements JSON serialization of game state and the
// slot stores that persist it.
package save

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/nathoo/crawlcore/engine/state"
	"github.com/nathoo/crawlcore/types"
)

// FormatVersion is bumped when SaveData changes shape.
const FormatVersion = 1

// SaveData is the JSON-serializable save format. Dungeon layouts are not
// stored; they are rebuilt from the world seed on load.
type SaveData struct {
	Format      int             `json:"format"`
	Version     string          `json:"version"`
	Game        string          `json:"game"`
	WorldSeed   int32           `json:"world_seed"`
	Turn        int             `json:"turn"`
	Depth       int             `json:"depth"`
	Player      types.Entity    `json:"player"`
	Entities    []*types.Entity `json:"entities"`
	Visited     []int           `json:"visited"`
	Flags       map[string]bool `json:"flags"`
	RNGPosition int64           `json:"rng_position"`
	CommandLog  []string        `json:"command_log"`
}

// Save serializes game state to JSON bytes.
func Save(s *types.State, defs *state.Defs) ([]byte, error) {
	visited := make([]int, 0, len(s.Visited))
	for depth, ok := range s.Visited {
		if ok {
			visited = append(visited, depth)
		}
	}
	slices.Sort(visited)

	data := SaveData{
		Format:      FormatVersion,
		Version:     defs.Game.Version,
		Game:        defs.Game.Title,
		WorldSeed:   s.WorldSeed,
		Turn:        s.TurnCounter,
		Depth:       s.Depth,
		Player:      s.Player,
		Entities:    s.Entities,
		Visited:     visited,
		Flags:       s.Flags,
		RNGPosition: s.RNGPosition,
		CommandLog:  s.CommandLog,
	}
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode save: %w", err)
	}
	return out, nil
}

// Load deserializes JSON bytes into SaveData.
func Load(data []byte) (*SaveData, error) {
	var sd SaveData
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, fmt.Errorf("decode save: %w", err)
	}
	if sd.Format > FormatVersion {
		return nil, fmt.Errorf("save format %d is newer than supported %d", sd.Format, FormatVersion)
	}
	// Ensure collections are never nil after load.
	if sd.Flags == nil {
		sd.Flags = map[string]bool{}
	}
	if sd.Entities == nil {
		sd.Entities = []*types.Entity{}
	}
	if sd.Player.Inventory == nil {
		sd.Player.Inventory = []string{}
	}
	if sd.CommandLog == nil {
		sd.CommandLog = []string{}
	}
	return &sd, nil
}

// ApplySave applies loaded save data onto a state.
func ApplySave(s *types.State, sd *SaveData) {
	s.WorldSeed = sd.WorldSeed
	s.TurnCounter = sd.Turn
	s.Depth = sd.Depth
	s.Player = sd.Player
	s.Entities = sd.Entities
	s.Visited = make(map[int]bool, len(sd.Visited))
	for _, depth := range sd.Visited {
		s.Visited[depth] = true
	}
	s.Flags = sd.Flags
	s.RNGPosition = sd.RNGPosition
	s.CommandLog = sd.CommandLog
}
