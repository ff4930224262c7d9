package game

import "sort"

// orphan is a piece whose board position or path-to-king chain a row
// clear took away. from is its last position.
type orphan struct {
	piece *Piece
	from  Coord
}

// resolveRows runs row resolution over the changed row indexes: count
// occupied cells per row, clear rows at or above the threshold (safe
// home-zone cells exempt), then repair every orphan the clears produced.
// Returns the rows_cleared event, nil when nothing cleared.
func (g *Game) resolveRows(changed []int) *Event {
	seen := make(map[int]bool, len(changed))
	rows := make([]int, 0, len(changed))
	for _, z := range changed {
		if !seen[z] {
			seen[z] = true
			rows = append(rows, z)
		}
	}
	sort.Ints(rows)

	safe := g.safeZones()
	var cleared []int
	var removed []orphan
	for _, z := range rows {
		coords := g.rowCoords(z)
		occupied := 0
		for _, c := range coords {
			if g.board.Occupied(c) {
				occupied++
			}
		}
		if occupied < g.cfg.ClearThreshold {
			continue
		}
		cleared = append(cleared, z)
		for _, c := range coords {
			if g.exemptCell(c, safe) {
				continue
			}
			for _, entry := range g.board.Get(c) {
				if entry.Kind == ContentPiece && entry.Piece != nil {
					removed = append(removed, orphan{piece: entry.Piece, from: c})
					delete(g.pieces, entry.Piece.ID)
				}
			}
			g.board.Set(c, nil)
		}
	}
	if len(cleared) == 0 {
		return nil
	}

	payload := RowsClearedPayload{
		Rows:             cleared,
		RelocatedPieces:  []Relocation{},
		SacrificedPieces: []Sacrifice{},
	}

	// Swept pieces first, so a king caught in a clear has a position
	// again before the survivor scan paths toward it.
	for _, o := range removed {
		g.repairOrphan(o, &payload)
	}
	for _, o := range g.brokenSurvivors() {
		g.board.RemoveContent(o.from, func(c CellContent) bool {
			return c.Kind == ContentPiece && c.Piece == o.piece
		})
		delete(g.pieces, o.piece.ID)
		g.repairOrphan(o, &payload)
	}

	return &Event{Type: EventRowsCleared, GameID: g.ID, Payload: payload}
}

// rowCoords returns the materialized cells of row z, ordered by X so the
// sweep and the orphan sequence stay deterministic.
func (g *Game) rowCoords(z int) []Coord {
	var coords []Coord
	g.board.ForEach(func(c Coord, _ []CellContent) {
		if c.Z == z {
			coords = append(coords, c)
		}
	})
	sort.Slice(coords, func(i, j int) bool { return coords[i].X < coords[j].X })
	return coords
}

// safeZones reports which players currently hold at least one piece
// inside their own home zone.
func (g *Game) safeZones() map[string]bool {
	safe := make(map[string]bool, len(g.players))
	for id, p := range g.players {
		for _, pid := range p.PieceIDs {
			if piece, ok := g.pieces[pid]; ok && p.HomeZone.Contains(piece.Pos) {
				safe[id] = true
				break
			}
		}
	}
	return safe
}

func (g *Game) exemptCell(c Coord, safe map[string]bool) bool {
	for id, p := range g.players {
		if safe[id] && p.HomeZone.Contains(c) {
			return true
		}
	}
	return false
}

// repairOrphan relocates the piece to the search target, or sacrifices it
// when the search comes up empty. A sacrificed king eliminates its owner;
// there is nobody to transfer to, the pieces just lose their anchor.
func (g *Game) repairOrphan(o orphan, payload *RowsClearedPayload) {
	if target, ok := g.relocationTarget(o); ok {
		g.pieces[o.piece.ID] = o.piece
		o.piece.Pos = target
		g.board.Append(target, PieceContent(o.piece))
		payload.RelocatedPieces = append(payload.RelocatedPieces, Relocation{
			PieceID: o.piece.ID,
			Owner:   o.piece.Owner,
			Kind:    o.piece.Kind,
			From:    o.from,
			To:      target,
		})
		return
	}
	if owner, ok := g.players[o.piece.Owner]; ok {
		owner.removePieceID(o.piece.ID)
		if o.piece.Kind == King {
			owner.Eliminated = true
		}
	}
	payload.SacrificedPieces = append(payload.SacrificedPieces, Sacrifice{
		PieceID: o.piece.ID,
		Owner:   o.piece.Owner,
		Kind:    o.piece.Kind,
		From:    o.from,
	})
}

// relocationTarget is the bounded breadth-first search for an orphan's
// new square: expand outward from the last position up to the hop cap,
// and at the first depth holding any vacant, board-connected cell pick
// the one nearest the owner's king, lexicographic order breaking ties.
func (g *Game) relocationTarget(o orphan) (Coord, bool) {
	kingPos, hasKing := g.kingPosition(o.piece.Owner)

	visited := map[Coord]bool{o.from: true}
	frontier := []Coord{o.from}
	for depth := 1; depth <= g.cfg.RelocationRadius; depth++ {
		var next []Coord
		var candidates []Coord
		for _, c := range frontier {
			for _, d := range neighborDeltas {
				n := c.add(d)
				if visited[n] {
					continue
				}
				visited[n] = true
				next = append(next, n)
				if !g.board.Occupied(n) && g.board.AdjacentOccupied(n) {
					candidates = append(candidates, n)
				}
			}
		}
		if len(candidates) > 0 {
			best := candidates[0]
			for _, c := range candidates[1:] {
				if betterTarget(c, best, kingPos, hasKing) {
					best = c
				}
			}
			return best, true
		}
		frontier = next
	}
	return Coord{}, false
}

func betterTarget(a, b, kingPos Coord, hasKing bool) bool {
	if hasKing {
		da, db := chebyshev(a, kingPos), chebyshev(b, kingPos)
		if da != db {
			return da < db
		}
	}
	return lessCoord(a, b)
}

func (g *Game) kingPosition(playerID string) (Coord, bool) {
	p, ok := g.players[playerID]
	if !ok {
		return Coord{}, false
	}
	for _, id := range p.PieceIDs {
		if piece, ok := g.pieces[id]; ok && piece.Kind == King {
			return piece.Pos, true
		}
	}
	return Coord{}, false
}

// brokenSurvivors finds pieces still on the board whose owned-cell chain
// to their king the clears severed. One flood fill per player from the
// king covers every piece; safe home-zone pieces and kings are exempt.
func (g *Game) brokenSurvivors() []orphan {
	safe := g.safeZones()
	var out []orphan
	for _, p := range g.sortedPlayers() {
		kingPos, ok := g.kingPosition(p.ID)
		if !ok {
			continue
		}
		reach := g.ownedReach(p.ID, kingPos)
		for _, id := range p.PieceIDs {
			piece, ok := g.pieces[id]
			if !ok || piece.Kind == King {
				continue
			}
			if safe[p.ID] && p.HomeZone.Contains(piece.Pos) {
				continue
			}
			if !reach[piece.Pos] {
				out = append(out, orphan{piece: piece, from: piece.Pos})
			}
		}
	}
	return out
}

// ownedReach flood-fills the 8-connected region of cells holding content
// owned by the player, starting from the king's cell.
func (g *Game) ownedReach(playerID string, from Coord) map[Coord]bool {
	reach := map[Coord]bool{from: true}
	queue := []Coord{from}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		for _, d := range neighborDeltas {
			n := c.add(d)
			if reach[n] || !g.cellOwnedBy(n, playerID) {
				continue
			}
			reach[n] = true
			queue = append(queue, n)
		}
	}
	return reach
}

func (g *Game) cellOwnedBy(c Coord, playerID string) bool {
	for _, entry := range g.board.Get(c) {
		if entry.OwnedBy(playerID) {
			return true
		}
	}
	return false
}
