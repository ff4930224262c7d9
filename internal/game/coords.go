package game

import (
	"fmt"
	"strconv"
	"strings"
)

// Coord is a board coordinate. The board is unbounded, so both axes are
// signed and there is no fixed origin beyond the centre anchor at (0,0).
type Coord struct {
	X int `json:"x"`
	Z int `json:"z"`
}

// Key renders the coordinate in the "x,z" form used for sparse-map
// transport keys.
func (c Coord) Key() string {
	return strconv.Itoa(c.X) + "," + strconv.Itoa(c.Z)
}

func (c Coord) String() string {
	return c.Key()
}

// ParseKey parses an "x,z" key back into a Coord.
func ParseKey(key string) (Coord, error) {
	parts := strings.Split(key, ",")
	if len(parts) != 2 {
		return Coord{}, fmt.Errorf("bad coordinate key %q", key)
	}
	x, err := strconv.Atoi(parts[0])
	if err != nil {
		return Coord{}, fmt.Errorf("bad coordinate key %q: %w", key, err)
	}
	z, err := strconv.Atoi(parts[1])
	if err != nil {
		return Coord{}, fmt.Errorf("bad coordinate key %q: %w", key, err)
	}
	return Coord{X: x, Z: z}, nil
}

type delta struct {
	DX, DZ int
}

func (c Coord) add(d delta) Coord {
	return Coord{X: c.X + d.DX, Z: c.Z + d.DZ}
}

// neighborDeltas is the 8-neighborhood, in fixed scan order. Adjacency
// checks, king moves and the relocation search all walk it in this order
// so results stay deterministic.
var neighborDeltas = [8]delta{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

func chebyshev(a, b Coord) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dz := a.Z - b.Z
	if dz < 0 {
		dz = -dz
	}
	if dx > dz {
		return dx
	}
	return dz
}

// lessCoord is the lexicographic order (X, then Z) used to break ties
// wherever a deterministic pick among coordinates is needed.
func lessCoord(a, b Coord) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	return a.Z < b.Z
}

// Rect is an inclusive coordinate rectangle, used for home zones and for
// the derived board bounds.
type Rect struct {
	MinX int `json:"minX"`
	MinZ int `json:"minZ"`
	MaxX int `json:"maxX"`
	MaxZ int `json:"maxZ"`
}

func (r Rect) Contains(c Coord) bool {
	return c.X >= r.MinX && c.X <= r.MaxX && c.Z >= r.MinZ && c.Z <= r.MaxZ
}

// Intersects reports whether two rectangles share at least one cell.
func (r Rect) Intersects(o Rect) bool {
	return r.MinX <= o.MaxX && o.MinX <= r.MaxX && r.MinZ <= o.MaxZ && o.MinZ <= r.MaxZ
}

func (r Rect) expand(padding int) Rect {
	return Rect{
		MinX: r.MinX - padding,
		MinZ: r.MinZ - padding,
		MaxX: r.MaxX + padding,
		MaxZ: r.MaxZ + padding,
	}
}

func (r Rect) extend(c Coord) Rect {
	if c.X < r.MinX {
		r.MinX = c.X
	}
	if c.X > r.MaxX {
		r.MaxX = c.X
	}
	if c.Z < r.MinZ {
		r.MinZ = c.Z
	}
	if c.Z > r.MaxZ {
		r.MaxZ = c.Z
	}
	return r
}
