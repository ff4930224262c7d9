package game

// Board is the sparse store shared by every engine. Cells exist only while
// they hold content: setting a cell to an empty collection deletes its
// entry, so iteration cost always tracks the populated area, not the
// bounds. Bounds are derived from writes and never shrink.
type Board struct {
	cells     map[Coord][]CellContent
	bounds    Rect
	hasBounds bool
	occupied  int // count of cells holding at least one block or piece
}

func NewBoard() *Board {
	return &Board{cells: make(map[Coord][]CellContent)}
}

// Get returns the content collection at c, nil when the cell is absent.
// The slice is the live one; callers outside a mutation path must not
// modify it.
func (b *Board) Get(c Coord) []CellContent {
	return b.cells[c]
}

// Set replaces the content collection at c. An empty collection removes
// the sparse entry entirely.
func (b *Board) Set(c Coord, contents []CellContent) {
	before := cellOccupies(b.cells[c])
	if len(contents) == 0 {
		delete(b.cells, c)
		if before {
			b.occupied--
		}
		b.extendBounds(c)
		return
	}
	b.cells[c] = contents
	after := cellOccupies(contents)
	if after && !before {
		b.occupied++
	} else if !after && before {
		b.occupied--
	}
	b.extendBounds(c)
}

// Append adds one entry to the cell, keeping existing entries in order.
func (b *Board) Append(c Coord, content CellContent) {
	before := cellOccupies(b.cells[c])
	b.cells[c] = append(b.cells[c], content)
	if !before && !content.Decorative() {
		b.occupied++
	}
	b.extendBounds(c)
}

// RemoveContent removes the first entry matching the predicate and returns
// it. Remaining entries keep their relative order; a cell emptied by the
// removal disappears from the store.
func (b *Board) RemoveContent(c Coord, match func(CellContent) bool) (CellContent, bool) {
	contents := b.cells[c]
	for i, entry := range contents {
		if !match(entry) {
			continue
		}
		rest := append(contents[:i:i], contents[i+1:]...)
		b.Set(c, rest)
		return entry, true
	}
	return CellContent{}, false
}

func cellOccupies(contents []CellContent) bool {
	for _, entry := range contents {
		if !entry.Decorative() {
			return true
		}
	}
	return false
}

// Occupied reports whether the cell holds a block or a piece. Decorative
// markers never occupy.
func (b *Board) Occupied(c Coord) bool {
	return cellOccupies(b.cells[c])
}

// HasOccupied reports whether any cell on the board is occupied. False
// means the first-piece exemption applies.
func (b *Board) HasOccupied() bool {
	return b.occupied > 0
}

// PieceAt returns the chess piece standing on c, if any. A cell holds at
// most one.
func (b *Board) PieceAt(c Coord) (*Piece, bool) {
	for _, entry := range b.cells[c] {
		if entry.Kind == ContentPiece && entry.Piece != nil {
			return entry.Piece, true
		}
	}
	return nil, false
}

// AdjacentOccupied reports whether any of the 8 neighbors of c is occupied.
func (b *Board) AdjacentOccupied(c Coord) bool {
	for _, d := range neighborDeltas {
		if b.Occupied(c.add(d)) {
			return true
		}
	}
	return false
}

// Bounds returns the derived bounds. ok is false while nothing has ever
// been written.
func (b *Board) Bounds() (Rect, bool) {
	return b.bounds, b.hasBounds
}

// InBounds reports whether c falls inside the bounds expanded by padding.
// An empty board accepts every coordinate, which is what lets the first
// placement land anywhere.
func (b *Board) InBounds(c Coord, padding int) bool {
	if !b.hasBounds {
		return true
	}
	return b.bounds.expand(padding).Contains(c)
}

// Cells returns the number of materialized cells.
func (b *Board) Cells() int {
	return len(b.cells)
}

// ForEach visits every materialized cell with its live content slice.
// Iteration order is unspecified; callers needing determinism sort the
// coordinates themselves.
func (b *Board) ForEach(fn func(Coord, []CellContent)) {
	for c, contents := range b.cells {
		fn(c, contents)
	}
}

func (b *Board) extendBounds(c Coord) {
	if !b.hasBounds {
		b.bounds = Rect{MinX: c.X, MinZ: c.Z, MaxX: c.X, MaxZ: c.Z}
		b.hasBounds = true
		return
	}
	b.bounds = b.bounds.extend(c)
}
