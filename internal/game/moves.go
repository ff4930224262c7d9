package game

// Direction tables for move generation. Sliding kinds own a direction
// set; knights use fixed offsets; kings reuse the shared 8-neighborhood.
var (
	orthogonalDirections = [4]delta{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	diagonalDirections   = [4]delta{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	knightOffsets        = [8]delta{{2, 1}, {1, 2}, {-1, 2}, {-2, 1}, {-2, -1}, {-1, -2}, {1, -2}, {2, -1}}
)

// legalDestinations generates the destination set for a piece. forward is
// the owner's pawn direction; padding widens the bounds the same way
// placement does. Non-chess content never blocks: rays and steps pass
// over and onto tetromino blocks, only pieces stop or are stopped.
func legalDestinations(b *Board, p *Piece, forward delta, padding int) []Coord {
	switch p.Kind {
	case King:
		return stepDestinations(b, p, neighborDeltas[:], padding)
	case Knight:
		return stepDestinations(b, p, knightOffsets[:], padding)
	case Rook:
		return slideDestinations(b, p, orthogonalDirections[:], padding)
	case Bishop:
		return slideDestinations(b, p, diagonalDirections[:], padding)
	case Queen:
		dirs := append(orthogonalDirections[:4:4], diagonalDirections[:]...)
		return slideDestinations(b, p, dirs, padding)
	case Pawn:
		return pawnDestinations(b, p, forward, padding)
	default:
		return nil
	}
}

// stepDestinations handles the fixed-offset kinds: every offset inside
// padded bounds that is not held by a friendly piece.
func stepDestinations(b *Board, p *Piece, offsets []delta, padding int) []Coord {
	dests := make([]Coord, 0, len(offsets))
	for _, d := range offsets {
		c := p.Pos.add(d)
		if !b.InBounds(c, padding) {
			continue
		}
		if other, ok := b.PieceAt(c); ok && other.Owner == p.Owner {
			continue
		}
		dests = append(dests, c)
	}
	return dests
}

// slideDestinations ray-casts each direction until padded bounds, a
// friendly piece (exclusive) or an enemy piece (inclusive).
func slideDestinations(b *Board, p *Piece, dirs []delta, padding int) []Coord {
	var dests []Coord
	for _, d := range dirs {
		c := p.Pos
		for {
			c = c.add(d)
			if !b.InBounds(c, padding) {
				break
			}
			if other, ok := b.PieceAt(c); ok {
				if other.Owner != p.Owner {
					dests = append(dests, c)
				}
				break
			}
			dests = append(dests, c)
		}
	}
	return dests
}

// pawnDestinations: one forward step onto a piece-free cell, two on the
// first move when both are piece-free, plus forward diagonals strictly
// onto enemy pieces.
func pawnDestinations(b *Board, p *Piece, forward delta, padding int) []Coord {
	var dests []Coord
	one := p.Pos.add(forward)
	if b.InBounds(one, padding) {
		if _, ok := b.PieceAt(one); !ok {
			dests = append(dests, one)
			two := one.add(forward)
			if !p.HasMoved && b.InBounds(two, padding) {
				if _, ok := b.PieceAt(two); !ok {
					dests = append(dests, two)
				}
			}
		}
	}
	diagonals := [2]delta{
		{DX: forward.DX + forward.DZ, DZ: forward.DZ + forward.DX},
		{DX: forward.DX - forward.DZ, DZ: forward.DZ - forward.DX},
	}
	for _, d := range diagonals {
		c := p.Pos.add(d)
		if !b.InBounds(c, padding) {
			continue
		}
		if other, ok := b.PieceAt(c); ok && other.Owner != p.Owner {
			dests = append(dests, c)
		}
	}
	return dests
}

// validateMove checks dest against the piece's legal set, classifying the
// failure so callers can tell a friendly-fire attempt from a plain
// illegal square.
func validateMove(b *Board, p *Piece, forward delta, dest Coord, padding int) error {
	if dest == p.Pos {
		return ErrSamePosition
	}
	if !b.InBounds(dest, padding) {
		return ErrOutOfBounds
	}
	if other, ok := b.PieceAt(dest); ok && other.Owner == p.Owner {
		return ErrOwnPieceCapture
	}
	for _, c := range legalDestinations(b, p, forward, padding) {
		if c == dest {
			return nil
		}
	}
	return ErrIllegalDestination
}
