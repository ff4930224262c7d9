package game

import (
	"testing"
	"time"
)

func farZone() Rect {
	return Rect{MinX: 40, MinZ: 40, MaxX: 47, MaxZ: 41}
}

func TestRowClearThreshold(t *testing.T) {
	g := NewGame(Config{ClearThreshold: 4})
	addBarePlayer(g, "ana", farZone(), delta{0, 1})
	g.board.Append(at(5, 3), HomeZoneContent("ana")) // decorative, never counts
	placeBlocks(g, "ana", at(0, 3), at(1, 3), at(2, 3))

	if ev := g.resolveRows([]int{3}); ev != nil {
		t.Fatalf("three occupied cells cleared below threshold four: %+v", ev)
	}
	if !g.board.Occupied(at(0, 3)) {
		t.Fatalf("blocks vanished without a clear")
	}

	placeBlocks(g, "ana", at(3, 3))
	ev := g.resolveRows([]int{3})
	if ev == nil {
		t.Fatalf("four occupied cells should clear")
	}
	payload := ev.Payload.(RowsClearedPayload)
	if len(payload.Rows) != 1 || payload.Rows[0] != 3 {
		t.Fatalf("cleared rows %v", payload.Rows)
	}
	for _, c := range []Coord{at(0, 3), at(1, 3), at(2, 3), at(3, 3), at(5, 3)} {
		if g.board.Get(c) != nil {
			t.Fatalf("cell %v not cleared", c)
		}
	}
	if len(payload.RelocatedPieces) != 0 || len(payload.SacrificedPieces) != 0 {
		t.Fatalf("piece repair ran with no pieces: %+v", payload)
	}
}

func TestRowClearDeduplicatesRows(t *testing.T) {
	g := NewGame(Config{ClearThreshold: 4})
	addBarePlayer(g, "ana", farZone(), delta{0, 1})
	placeBlocks(g, "ana",
		at(0, 1), at(1, 1), at(2, 1), at(3, 1),
		at(0, 2), at(1, 2), at(2, 2), at(3, 2),
	)

	ev := g.resolveRows([]int{2, 1, 2})
	if ev == nil {
		t.Fatalf("both rows should clear")
	}
	payload := ev.Payload.(RowsClearedPayload)
	if len(payload.Rows) != 2 || payload.Rows[0] != 1 || payload.Rows[1] != 2 {
		t.Fatalf("cleared rows %v, want [1 2]", payload.Rows)
	}
}

func TestRowClearHomeZoneExemption(t *testing.T) {
	g := NewGame(Config{})
	ana := addBarePlayer(g, "ana", Rect{MinX: 0, MinZ: 5, MaxX: 7, MaxZ: 6}, delta{0, -1})
	pawn := placePiece(g, ana, Pawn, at(1, 5)) // a piece at home keeps the zone safe
	placeBlocks(g, "ana",
		at(2, 5), at(3, 5), at(4, 5), at(5, 5),
		at(6, 5), at(7, 5), at(8, 5), at(9, 5),
	)

	ev := g.resolveRows([]int{5})
	if ev == nil {
		t.Fatalf("nine occupied cells should clear at threshold eight")
	}
	if _, ok := g.board.PieceAt(at(1, 5)); !ok {
		t.Fatalf("safe-zone pawn swept")
	}
	if pawn.Pos != at(1, 5) {
		t.Fatalf("safe-zone pawn moved to %v", pawn.Pos)
	}
	for _, c := range []Coord{at(2, 5), at(7, 5)} {
		if !g.board.Occupied(c) {
			t.Fatalf("block inside the safe zone at %v swept", c)
		}
	}
	for _, c := range []Coord{at(8, 5), at(9, 5)} {
		if g.board.Occupied(c) {
			t.Fatalf("block outside the zone at %v survived", c)
		}
	}
	payload := ev.Payload.(RowsClearedPayload)
	if len(payload.RelocatedPieces)+len(payload.SacrificedPieces) != 0 {
		t.Fatalf("safe pieces were repaired: %+v", payload)
	}
}

func TestRowClearUnprotectedZoneSwept(t *testing.T) {
	g := NewGame(Config{})
	addBarePlayer(g, "bob", Rect{MinX: 0, MinZ: 8, MaxX: 7, MaxZ: 9}, delta{0, -1})
	placeBlocks(g, "bob",
		at(0, 8), at(1, 8), at(2, 8), at(3, 8),
		at(4, 8), at(5, 8), at(6, 8), at(7, 8),
	)

	if ev := g.resolveRows([]int{8}); ev == nil {
		t.Fatalf("expected the row to clear")
	}
	for x := 0; x <= 7; x++ {
		if g.board.Occupied(at(x, 8)) {
			t.Fatalf("zone cell (%d,8) survived without a defending piece", x)
		}
	}
}

func TestOrphanRelocation(t *testing.T) {
	g := NewGame(Config{ClearThreshold: 4})
	ana := addBarePlayer(g, "ana", farZone(), delta{0, 1})
	king := placePiece(g, ana, King, at(0, 0))
	placeBlocks(g, "ana", at(1, 1), at(2, 1), at(3, 1), at(4, 1))
	pawn := placePiece(g, ana, Pawn, at(4, 2))

	ev := g.resolveRows([]int{1})
	if ev == nil {
		t.Fatalf("expected the support row to clear")
	}
	payload := ev.Payload.(RowsClearedPayload)
	if len(payload.SacrificedPieces) != 0 {
		t.Fatalf("sacrificed: %+v", payload.SacrificedPieces)
	}
	if len(payload.RelocatedPieces) != 1 {
		t.Fatalf("relocated: %+v", payload.RelocatedPieces)
	}
	rel := payload.RelocatedPieces[0]
	if rel.PieceID != pawn.ID || rel.From != at(4, 2) {
		t.Fatalf("relocation record %+v", rel)
	}
	// first search ring with open board-connected squares is three hops
	// out; the tie among king-adjacent squares breaks lexicographically
	if rel.To != at(1, -1) {
		t.Fatalf("relocated to %v, want (1,-1)", rel.To)
	}
	if pawn.Pos != at(1, -1) {
		t.Fatalf("pawn position %v", pawn.Pos)
	}
	if p, ok := g.board.PieceAt(at(1, -1)); !ok || p != pawn {
		t.Fatalf("pawn not standing on its new square")
	}
	if _, ok := g.pieces[pawn.ID]; !ok {
		t.Fatalf("relocated pawn lost its index entry")
	}
	if king.Pos != at(0, 0) {
		t.Fatalf("king moved to %v", king.Pos)
	}
}

func TestOrphanSacrifice(t *testing.T) {
	g := NewGame(Config{ClearThreshold: 4, RelocationRadius: 2})
	ana := addBarePlayer(g, "ana", farZone(), delta{0, 1})
	placeBlocks(g, "ana", at(0, 0), at(1, 0), at(2, 0))
	pawn := placePiece(g, ana, Pawn, at(3, 0))

	ev := g.resolveRows([]int{0})
	if ev == nil {
		t.Fatalf("expected the row to clear")
	}
	payload := ev.Payload.(RowsClearedPayload)
	if len(payload.RelocatedPieces) != 0 {
		t.Fatalf("relocated onto an empty board: %+v", payload.RelocatedPieces)
	}
	if len(payload.SacrificedPieces) != 1 {
		t.Fatalf("sacrificed: %+v", payload.SacrificedPieces)
	}
	sac := payload.SacrificedPieces[0]
	if sac.PieceID != pawn.ID || sac.From != at(3, 0) {
		t.Fatalf("sacrifice record %+v", sac)
	}
	if _, ok := g.pieces[pawn.ID]; ok {
		t.Fatalf("sacrificed pawn still indexed")
	}
	if len(ana.PieceIDs) != 0 {
		t.Fatalf("owner still lists %v", ana.PieceIDs)
	}
	if ana.Eliminated {
		t.Fatalf("losing a pawn must not eliminate")
	}
}

func TestKingSacrificeEliminates(t *testing.T) {
	g := NewGame(Config{ClearThreshold: 4, RelocationRadius: 2})
	ana := addBarePlayer(g, "ana", farZone(), delta{0, 1})
	placeBlocks(g, "ana", at(0, 0), at(1, 0), at(2, 0))
	placePiece(g, ana, King, at(3, 0))

	ev := g.resolveRows([]int{0})
	if ev == nil {
		t.Fatalf("expected the row to clear")
	}
	payload := ev.Payload.(RowsClearedPayload)
	if len(payload.SacrificedPieces) != 1 || payload.SacrificedPieces[0].Kind != King {
		t.Fatalf("sacrifices: %+v", payload.SacrificedPieces)
	}
	if !ana.Eliminated {
		t.Fatalf("king sacrifice must eliminate the owner")
	}
}

func TestConnectedSurvivorsStay(t *testing.T) {
	g := NewGame(Config{ClearThreshold: 4})
	ana := addBarePlayer(g, "ana", farZone(), delta{0, 1})
	king := placePiece(g, ana, King, at(0, 5))
	placeBlocks(g, "ana", at(1, 5))
	pawn := placePiece(g, ana, Pawn, at(2, 5))
	placeBlocks(g, "ana", at(0, 1), at(1, 1), at(2, 1), at(3, 1))

	ev := g.resolveRows([]int{1})
	if ev == nil {
		t.Fatalf("expected the doomed row to clear")
	}
	payload := ev.Payload.(RowsClearedPayload)
	if len(payload.RelocatedPieces) != 0 || len(payload.SacrificedPieces) != 0 {
		t.Fatalf("connected pieces were disturbed: %+v", payload)
	}
	if pawn.Pos != at(2, 5) || king.Pos != at(0, 5) {
		t.Fatalf("pieces moved: pawn %v, king %v", pawn.Pos, king.Pos)
	}
}

func TestDropTriggersRowClear(t *testing.T) {
	g := NewGame(Config{ClearThreshold: 4})
	addBarePlayer(g, "ana", farZone(), delta{0, 1})
	placeBlocks(g, "ana", at(0, 3))

	res, err := g.RequestDrop("ana", "I", 0, at(0, 4), time.Unix(1000, 0))
	if err != nil {
		t.Fatalf("drop: %v", err)
	}
	if res.Outcome != DropPlaced {
		t.Fatalf("outcome %s", res.Outcome)
	}
	if len(res.Events) != 2 || res.Events[1].Type != EventRowsCleared {
		t.Fatalf("events: %+v", res.Events)
	}
	for x := 0; x <= 3; x++ {
		if g.board.Occupied(at(x, 4)) {
			t.Fatalf("completed row still occupied at x=%d", x)
		}
	}
	if !g.board.Occupied(at(0, 3)) {
		t.Fatalf("supporting block below the cleared row vanished")
	}
}
