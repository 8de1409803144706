package save

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// DirStore keeps one JSON file per slot in a directory.
type DirStore struct {
	Dir string
}

// NewDirStore returns a DirStore rooted at dir.
func NewDirStore(dir string) *DirStore {
	return &DirStore{Dir: dir}
}

// path maps a slot name to its file. Names must stay inside Dir.
func (d *DirStore) path(name string) (string, error) {
	if !filepath.IsLocal(name) || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%q: %w", name, ErrInvalidSlotName)
	}
	return filepath.Join(d.Dir, name+".json"), nil
}

// Put writes a slot file.
func (d *DirStore) Put(_ context.Context, name string, _ int, data []byte) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("slot name is required")
	}
	path, err := d.path(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return fmt.Errorf("create save dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write slot %q: %w", name, err)
	}
	return nil
}

// Get reads a slot file.
func (d *DirStore) Get(_ context.Context, name string) ([]byte, error) {
	path, err := d.path(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%q: %w", name, ErrSlotNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read slot %q: %w", name, err)
	}
	return data, nil
}

// List returns every readable slot file ordered by name. Turn comes from
// the save header; modification time stands in for the save time.
func (d *DirStore) List(_ context.Context) ([]Slot, error) {
	entries, err := os.ReadDir(d.Dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list save dir: %w", err)
	}

	var out []Slot
	for _, e := range entries {
		name, ok := strings.CutSuffix(e.Name(), ".json")
		if e.IsDir() || !ok {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		slot := Slot{Name: name, SavedAt: info.ModTime()}
		if data, err := os.ReadFile(filepath.Join(d.Dir, e.Name())); err == nil {
			var head struct {
				Turn int `json:"turn"`
			}
			if json.Unmarshal(data, &head) == nil {
				slot.Turn = head.Turn
			}
		}
		out = append(out, slot)
	}
	slices.SortFunc(out, func(a, b Slot) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

// Delete removes a slot file.
func (d *DirStore) Delete(_ context.Context, name string) error {
	path, err := d.path(name)
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%q: %w", name, ErrSlotNotFound)
	}
	if err != nil {
		return fmt.Errorf("delete slot %q: %w", name, err)
	}
	return nil
}

// Close is a no-op.
func (d *DirStore) Close() error { return nil }
