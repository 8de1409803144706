// Package dungeon builds dungeon levels and answers tile queries. Levels are
// a pure function of their level seed, so they are regenerated on every
// visit rather than stored.
package dungeon

import (
	"fmt"
	"strings"

	"github.com/nathoo/crawlcore/engine/rng"
	"github.com/nathoo/crawlcore/types"
)

// Generation constants.
const (
	DefaultWidth  = 40
	DefaultHeight = 25
	MaxRooms      = 8
	MinRoomSize   = 4
	MaxRoomSize   = 9

	floorPointTries = 100
)

// Rect is a rectangular room.
type Rect struct {
	X, Y, W, H int
}

// Center returns the room's center tile.
func (r Rect) Center() types.Point {
	return types.Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Intersects reports whether two rooms overlap or touch.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.W && r.X+r.W >= other.X &&
		r.Y <= other.Y+other.H && r.Y+r.H >= other.Y
}

// Generate carves a room-and-corridor level from a level seed.
// Width and height below 3 are raised to 3.
func Generate(baseID string, depth int, levelSeed int32, width, height int) *types.Dungeon {
	width = max(width, 3)
	height = max(height, 3)

	d := &types.Dungeon{
		ID:     fmt.Sprintf("%s-%d", baseID, depth),
		BaseID: baseID,
		Depth:  depth,
		Width:  width,
		Height: height,
		Tiles:  make([]types.Tile, width*height),
	}

	r := rng.New(levelSeed)
	var rooms []Rect

	for i := 0; i < MaxRooms; i++ {
		w := min(r.NextInt(MinRoomSize, MaxRoomSize+1), width-2)
		h := min(r.NextInt(MinRoomSize, MaxRoomSize+1), height-2)
		room := Rect{
			X: r.NextInt(1, width-w),
			Y: r.NextInt(1, height-h),
			W: w,
			H: h,
		}

		overlaps := false
		for _, other := range rooms {
			if room.Intersects(other) {
				overlaps = true
				break
			}
		}
		if overlaps {
			continue
		}

		carveRoom(d, room)
		if len(rooms) > 0 {
			prev := rooms[len(rooms)-1].Center()
			cur := room.Center()
			if r.NextInt(0, 2) == 0 {
				carveH(d, prev.X, cur.X, prev.Y)
				carveV(d, prev.Y, cur.Y, cur.X)
			} else {
				carveV(d, prev.Y, cur.Y, prev.X)
				carveH(d, prev.X, cur.X, cur.Y)
			}
		}
		rooms = append(rooms, room)
	}

	d.StairsUp = rooms[0].Center()
	d.StairsDown = rooms[len(rooms)-1].Center()
	return d
}

// FromRows builds a level from a text map: '#' wall, '.' floor,
// '<' up-stairs, '>' down-stairs. Short rows are padded with walls.
func FromRows(id string, depth int, rows []string) *types.Dungeon {
	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	d := &types.Dungeon{
		ID:     id,
		BaseID: strings.SplitN(id, "-", 2)[0],
		Depth:  depth,
		Width:  width,
		Height: len(rows),
		Tiles:  make([]types.Tile, width*len(rows)),
	}
	for y, row := range rows {
		for x, c := range row {
			switch c {
			case '#':
				continue
			case '<':
				d.StairsUp = types.Point{X: x, Y: y}
			case '>':
				d.StairsDown = types.Point{X: x, Y: y}
			}
			d.Tiles[y*width+x] = types.TileFloor
		}
	}
	return d
}

// InBounds reports whether (x, y) lies inside the level.
func InBounds(d *types.Dungeon, x, y int) bool {
	return x >= 0 && y >= 0 && x < d.Width && y < d.Height
}

// IsWall reports whether (x, y) blocks movement. Out-of-bounds is wall.
func IsWall(d *types.Dungeon, x, y int) bool {
	if !InBounds(d, x, y) {
		return true
	}
	return d.Tiles[y*d.Width+x] == types.TileWall
}

// IsFloor reports whether (x, y) is walkable.
func IsFloor(d *types.Dungeon, x, y int) bool {
	return !IsWall(d, x, y)
}

// RandomFloorPoint picks a floor tile from a fresh stream seeded by seed.
// After a bounded number of misses it falls back to the first floor tile
// in row-major order, and to the up-stairs on a level with no floor.
func RandomFloorPoint(d *types.Dungeon, seed int32) types.Point {
	r := rng.New(seed)
	for i := 0; i < floorPointTries; i++ {
		x := r.NextInt(0, d.Width)
		y := r.NextInt(0, d.Height)
		if IsFloor(d, x, y) {
			return types.Point{X: x, Y: y}
		}
	}
	for i, t := range d.Tiles {
		if t == types.TileFloor {
			return types.Point{X: i % d.Width, Y: i / d.Width}
		}
	}
	return d.StairsUp
}

// Render draws the level as text with entity glyphs on top.
func Render(d *types.Dungeon, entities []*types.Entity) []string {
	grid := make([][]byte, d.Height)
	for y := range grid {
		grid[y] = make([]byte, d.Width)
		for x := range grid[y] {
			if IsWall(d, x, y) {
				grid[y][x] = '#'
			} else {
				grid[y][x] = '.'
			}
		}
	}
	place := func(p types.Point, c byte) {
		if InBounds(d, p.X, p.Y) {
			grid[p.Y][p.X] = c
		}
	}
	place(d.StairsUp, '<')
	place(d.StairsDown, '>')
	for _, e := range entities {
		if e.MapID == d.ID && e.Glyph != "" {
			place(e.Pos, e.Glyph[0])
		}
	}
	lines := make([]string, d.Height)
	for y, row := range grid {
		lines[y] = string(row)
	}
	return lines
}

func carveRoom(d *types.Dungeon, r Rect) {
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			setFloor(d, x, y)
		}
	}
}

func carveH(d *types.Dungeon, x1, x2, y int) {
	for x := min(x1, x2); x <= max(x1, x2); x++ {
		setFloor(d, x, y)
	}
}

func carveV(d *types.Dungeon, y1, y2, x int) {
	for y := min(y1, y2); y <= max(y1, y2); y++ {
		setFloor(d, x, y)
	}
}

func setFloor(d *types.Dungeon, x, y int) {
	if InBounds(d, x, y) {
		d.Tiles[y*d.Width+x] = types.TileFloor
	}
}
