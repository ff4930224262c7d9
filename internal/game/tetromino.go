package game

// Shape is a tetromino footprint: the filled offsets relative to an
// origin. Offsets are normalized so the smallest X and Z are zero.
type Shape struct {
	Name  string
	Cells []delta
}

var (
	shapeI = Shape{Name: "I", Cells: []delta{{0, 0}, {1, 0}, {2, 0}, {3, 0}}}
	shapeO = Shape{Name: "O", Cells: []delta{{0, 0}, {1, 0}, {0, 1}, {1, 1}}}
	shapeT = Shape{Name: "T", Cells: []delta{{0, 0}, {1, 0}, {2, 0}, {1, 1}}}
	shapeS = Shape{Name: "S", Cells: []delta{{1, 0}, {2, 0}, {0, 1}, {1, 1}}}
	shapeZ = Shape{Name: "Z", Cells: []delta{{0, 0}, {1, 0}, {1, 1}, {2, 1}}}
	shapeJ = Shape{Name: "J", Cells: []delta{{0, 0}, {0, 1}, {1, 1}, {2, 1}}}
	shapeL = Shape{Name: "L", Cells: []delta{{2, 0}, {0, 1}, {1, 1}, {2, 1}}}
)

// Shapes holds the seven standard tetrominoes in their spawn orientation.
var Shapes = map[string]Shape{
	"I": shapeI,
	"O": shapeO,
	"T": shapeT,
	"S": shapeS,
	"Z": shapeZ,
	"J": shapeJ,
	"L": shapeL,
}

// ShapeByName resolves a shape by its letter name, applying rotation as a
// count of clockwise quarter turns.
func ShapeByName(name string, rotation int) (Shape, error) {
	s, ok := Shapes[name]
	if !ok {
		return Shape{}, ErrUnknownShape
	}
	return s.Rotated(rotation), nil
}

// Rotated returns the shape turned clockwise by the given quarter turns,
// re-normalized to non-negative offsets.
func (s Shape) Rotated(quarters int) Shape {
	quarters = ((quarters % 4) + 4) % 4
	if quarters == 0 {
		return s
	}
	cells := make([]delta, len(s.Cells))
	copy(cells, s.Cells)
	for q := 0; q < quarters; q++ {
		for i, d := range cells {
			cells[i] = delta{DX: -d.DZ, DZ: d.DX}
		}
	}
	minX, minZ := cells[0].DX, cells[0].DZ
	for _, d := range cells[1:] {
		if d.DX < minX {
			minX = d.DX
		}
		if d.DZ < minZ {
			minZ = d.DZ
		}
	}
	for i, d := range cells {
		cells[i] = delta{DX: d.DX - minX, DZ: d.DZ - minZ}
	}
	return Shape{Name: s.Name, Cells: cells}
}

// footprint maps the shape onto absolute coordinates at origin.
func (s Shape) footprint(origin Coord) []Coord {
	coords := make([]Coord, len(s.Cells))
	for i, d := range s.Cells {
		coords[i] = origin.add(d)
	}
	return coords
}

// ValidPosition checks a footprint against padded bounds and occupancy.
// Decorative markers do not count as occupancy, so landing on home-zone
// cells is allowed as long as no block or piece is there.
func ValidPosition(b *Board, s Shape, origin Coord, padding int) error {
	for _, c := range s.footprint(origin) {
		if !b.InBounds(c, padding) {
			return ErrOutOfBounds
		}
		if b.Occupied(c) {
			return ErrCellOccupied
		}
	}
	return nil
}

// AdjacentToExisting reports whether any footprint cell touches occupied
// structure in its 8-neighborhood. An entirely unoccupied board passes
// unconditionally: the first piece has nothing to attach to.
func AdjacentToExisting(b *Board, s Shape, origin Coord) bool {
	if !b.HasOccupied() {
		return true
	}
	for _, c := range s.footprint(origin) {
		if b.AdjacentOccupied(c) {
			return true
		}
	}
	return false
}

// classifyDrop resolves the magnetic attachment rule for a footprint that
// reached the resting plane. nil means the piece locks; ErrNotAdjacent
// means it disintegrates; bounds and occupancy errors mean the drop
// request itself was invalid.
func classifyDrop(b *Board, s Shape, origin Coord, padding int) error {
	if err := ValidPosition(b, s, origin, padding); err != nil {
		return err
	}
	if !AdjacentToExisting(b, s, origin) {
		return ErrNotAdjacent
	}
	return nil
}
