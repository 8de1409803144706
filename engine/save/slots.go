package save

import (
	"context"
	"errors"
	"time"

	"github.com/nathoo/crawlcore/engine/state"
	"github.com/nathoo/crawlcore/types"
)

// ErrSlotNotFound is returned when a named slot does not exist.
var ErrSlotNotFound = errors.New("save slot not found")

// ErrInvalidSlotName is returned for names that are not a single plain
// file name, such as "../x" or "a/b".
var ErrInvalidSlotName = errors.New("invalid slot name")

// DefaultSlot is used when no slot name is given.
const DefaultSlot = "quicksave"

// Slot describes one stored save.
type Slot struct {
	Name    string
	Turn    int
	SavedAt time.Time
}

// Slots persists encoded saves by name.
type Slots interface {
	Put(ctx context.Context, name string, turn int, data []byte) error
	Get(ctx context.Context, name string) ([]byte, error)
	List(ctx context.Context) ([]Slot, error)
	Delete(ctx context.Context, name string) error
	Close() error
}

var (
	_ Slots = (*Store)(nil)
	_ Slots = (*DirStore)(nil)
)

// Write encodes s and stores it under name.
func Write(ctx context.Context, slots Slots, name string, s *types.State, defs *state.Defs) error {
	data, err := Save(s, defs)
	if err != nil {
		return err
	}
	return slots.Put(ctx, name, s.TurnCounter, data)
}

// Read fetches and decodes the save under name.
func Read(ctx context.Context, slots Slots, name string) (*SaveData, error) {
	data, err := slots.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	return Load(data)
}
