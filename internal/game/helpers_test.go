package game

import (
	"sort"
	"testing"
)

func at(x, z int) Coord {
	return Coord{X: x, Z: z}
}

// addBarePlayer registers a player without the usual home-zone markers or
// starting pieces, so scenario tests can lay out the board by hand.
func addBarePlayer(g *Game, id string, zone Rect, forward delta) *Player {
	p := &Player{
		ID:       id,
		Name:     id,
		HomeZone: zone,
		Balance:  g.cfg.StartingBalance,
		Phase:    PhaseDropping,
		forward:  forward,
	}
	g.players[id] = p
	return p
}

func placePiece(g *Game, p *Player, kind PieceKind, pos Coord) *Piece {
	g.spawnPiece(p, kind, pos)
	return g.pieces[p.PieceIDs[len(p.PieceIDs)-1]]
}

func placeBlocks(g *Game, owner string, coords ...Coord) {
	for _, c := range coords {
		g.board.Append(c, BlockContent(owner))
	}
}

func putPiece(b *Board, id, owner string, kind PieceKind, pos Coord) *Piece {
	p := &Piece{ID: id, Owner: owner, Kind: kind, Pos: pos}
	b.Append(pos, PieceContent(p))
	return p
}

func findPiece(g *Game, p *Player, kind PieceKind) *Piece {
	for _, id := range p.PieceIDs {
		if piece, ok := g.pieces[id]; ok && piece.Kind == kind {
			return piece
		}
	}
	return nil
}

// teleportPiece moves a piece without going through move validation.
func teleportPiece(g *Game, piece *Piece, to Coord) {
	g.board.RemoveContent(piece.Pos, func(c CellContent) bool {
		return c.Kind == ContentPiece && c.Piece == piece
	})
	piece.Pos = to
	g.board.Append(to, PieceContent(piece))
}

// wantCoords checks got against want as sets and rejects duplicates.
func wantCoords(t *testing.T, got []Coord, want ...Coord) {
	t.Helper()
	gotSet := make(map[Coord]bool, len(got))
	for _, c := range got {
		gotSet[c] = true
	}
	if len(got) != len(gotSet) {
		t.Fatalf("duplicate coordinates in %v", sortedCoords(got))
	}
	wantSet := make(map[Coord]bool, len(want))
	for _, c := range want {
		wantSet[c] = true
	}
	for c := range wantSet {
		if !gotSet[c] {
			t.Errorf("missing %v (got %v)", c, sortedCoords(got))
		}
	}
	for c := range gotSet {
		if !wantSet[c] {
			t.Errorf("unexpected %v (want %v)", c, sortedCoords(want))
		}
	}
}

func sortedCoords(coords []Coord) []Coord {
	out := make([]Coord, len(coords))
	copy(out, coords)
	sort.Slice(out, func(i, j int) bool { return lessCoord(out[i], out[j]) })
	return out
}
