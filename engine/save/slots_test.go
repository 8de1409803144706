package save

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nathoo/crawlcore/engine/state"
)

func openStores(t *testing.T) map[string]Slots {
	t.Helper()
	db, err := OpenStore(filepath.Join(t.TempDir(), "saves.db"))
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	db.now = func() time.Time { return fixed }
	t.Cleanup(func() { _ = db.Close() })

	return map[string]Slots{
		"sqlite": db,
		"dir":    NewDirStore(filepath.Join(t.TempDir(), "saves")),
	}
}

func TestSlots(t *testing.T) {
	ctx := context.Background()
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.Put(ctx, "beta", 4, []byte(`{"turn":4}`)); err != nil {
				t.Fatalf("Put beta: %v", err)
			}
			if err := store.Put(ctx, "alpha", 9, []byte(`{"turn":9}`)); err != nil {
				t.Fatalf("Put alpha: %v", err)
			}
			// Overwrite keeps one slot.
			if err := store.Put(ctx, "beta", 6, []byte(`{"turn":6}`)); err != nil {
				t.Fatalf("Put beta again: %v", err)
			}

			got, err := store.Get(ctx, "beta")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if string(got) != `{"turn":6}` {
				t.Errorf("Get = %s", got)
			}

			slots, err := store.List(ctx)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(slots) != 2 || slots[0].Name != "alpha" || slots[1].Name != "beta" {
				t.Fatalf("List = %+v", slots)
			}
			if slots[1].Turn != 6 {
				t.Errorf("beta turn = %d, want 6", slots[1].Turn)
			}

			if err := store.Delete(ctx, "alpha"); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, err := store.Get(ctx, "alpha"); !errors.Is(err, ErrSlotNotFound) {
				t.Errorf("Get deleted slot: %v", err)
			}
			if err := store.Delete(ctx, "alpha"); !errors.Is(err, ErrSlotNotFound) {
				t.Errorf("Delete missing slot: %v", err)
			}
			if err := store.Put(ctx, "  ", 1, []byte("{}")); err == nil {
				t.Error("blank slot name should be rejected")
			}
		})
	}
}

func TestStore_SavedAt(t *testing.T) {
	db, err := OpenStore(filepath.Join(t.TempDir(), "saves.db"))
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	defer db.Close()
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	db.now = func() time.Time { return fixed }

	ctx := context.Background()
	if err := db.Put(ctx, "a", 1, []byte("{}")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	slots, err := db.List(ctx)
	if err != nil || len(slots) != 1 {
		t.Fatalf("List = %v, %v", slots, err)
	}
	if !slots[0].SavedAt.Equal(fixed) {
		t.Errorf("SavedAt = %v, want %v", slots[0].SavedAt, fixed)
	}
}

func TestOpenStore_RequiresPath(t *testing.T) {
	if _, err := OpenStore(" "); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestDirStore_ListMissingDir(t *testing.T) {
	d := NewDirStore(filepath.Join(t.TempDir(), "nope"))
	slots, err := d.List(context.Background())
	if err != nil || len(slots) != 0 {
		t.Errorf("List on missing dir = %v, %v", slots, err)
	}
}

func TestWriteRead(t *testing.T) {
	defs := testDefs()
	s := state.NewState(defs)
	s.TurnCounter = 12
	s.Depth = 2

	store := NewDirStore(t.TempDir())
	ctx := context.Background()
	if err := Write(ctx, store, "run", s, defs); err != nil {
		t.Fatalf("Write: %v", err)
	}
	sd, err := Read(ctx, store, "run")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if sd.Turn != 12 || sd.Depth != 2 {
		t.Errorf("read back turn %d depth %d", sd.Turn, sd.Depth)
	}
	slots, _ := store.List(ctx)
	if len(slots) != 1 || slots[0].Turn != 12 {
		t.Errorf("slots = %+v", slots)
	}
	if _, err := Read(ctx, store, "other"); !errors.Is(err, ErrSlotNotFound) {
		t.Errorf("Read missing: %v", err)
	}
}

func TestDirStore_RejectsPathNames(t *testing.T) {
	root := t.TempDir()
	d := NewDirStore(filepath.Join(root, "saves"))
	ctx := context.Background()

	for _, name := range []string{"../escape", "../../x", "a/b", `a\b`, "/abs"} {
		if err := d.Put(ctx, name, 1, []byte("{}")); !errors.Is(err, ErrInvalidSlotName) {
			t.Errorf("Put(%q) = %v, want ErrInvalidSlotName", name, err)
		}
		if _, err := d.Get(ctx, name); !errors.Is(err, ErrInvalidSlotName) {
			t.Errorf("Get(%q) = %v, want ErrInvalidSlotName", name, err)
		}
		if err := d.Delete(ctx, name); !errors.Is(err, ErrInvalidSlotName) {
			t.Errorf("Delete(%q) = %v, want ErrInvalidSlotName", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(root, "escape.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("slot written outside the save dir: %v", err)
	}
}

func TestOpenStore_Pragmas(t *testing.T) {
	db, err := OpenStore(filepath.Join(t.TempDir(), "saves.db"))
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	defer db.Close()

	var mode string
	if err := db.db.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
	var timeout int
	if err := db.db.QueryRow("PRAGMA busy_timeout").Scan(&timeout); err != nil {
		t.Fatalf("busy_timeout: %v", err)
	}
	if timeout != 5000 {
		t.Errorf("busy_timeout = %d, want 5000", timeout)
	}
}
