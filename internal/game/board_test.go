package game

import (
	"encoding/json"
	"testing"
)

func TestBoardSparseness(t *testing.T) {
	b := NewBoard()
	if got := b.Get(at(3, -4)); got != nil {
		t.Fatalf("expected nil content for an untouched cell, got %v", got)
	}
	if b.Cells() != 0 {
		t.Fatalf("expected no materialized cells, got %d", b.Cells())
	}
	if b.Occupied(at(3, -4)) || b.HasOccupied() {
		t.Fatalf("empty board reports occupancy")
	}
	if _, ok := b.Bounds(); ok {
		t.Fatalf("empty board should have no bounds")
	}
	if !b.InBounds(at(1000, -1000), 0) {
		t.Fatalf("empty board should accept any coordinate")
	}
}

func TestBoardEmptiedCellLeavesStore(t *testing.T) {
	b := NewBoard()
	c := at(2, -7)
	b.Append(c, HomeZoneContent("p1"))
	b.Append(c, BlockContent("p1"))
	if b.Cells() != 1 {
		t.Fatalf("expected one materialized cell, got %d", b.Cells())
	}
	if !b.Occupied(c) {
		t.Fatalf("cell with a block should be occupied")
	}

	if _, ok := b.RemoveContent(c, func(e CellContent) bool { return e.Kind == ContentBlock }); !ok {
		t.Fatalf("block removal failed")
	}
	if b.Occupied(c) {
		t.Fatalf("home-zone marker alone should not occupy")
	}
	if b.Cells() != 1 {
		t.Fatalf("cell with remaining content vanished")
	}

	if _, ok := b.RemoveContent(c, func(e CellContent) bool { return e.Kind == ContentHomeZone }); !ok {
		t.Fatalf("marker removal failed")
	}
	if b.Cells() != 0 {
		t.Fatalf("emptied cell should leave the store, have %d cells", b.Cells())
	}
	if b.Get(c) != nil {
		t.Fatalf("emptied cell still returns content")
	}

	if _, ok := b.RemoveContent(c, func(CellContent) bool { return true }); ok {
		t.Fatalf("removal from an absent cell should report nothing")
	}
	b.Set(c, nil)
	if b.Cells() != 0 {
		t.Fatalf("setting an absent cell empty materialized it")
	}
}

func TestBoardBoundsNeverShrink(t *testing.T) {
	b := NewBoard()
	b.Append(at(0, 0), BlockContent("p1"))
	b.Append(at(5, 7), BlockContent("p1"))

	bounds, ok := b.Bounds()
	if !ok {
		t.Fatalf("bounds missing after writes")
	}
	want := Rect{MinX: 0, MinZ: 0, MaxX: 5, MaxZ: 7}
	if bounds != want {
		t.Fatalf("bounds %+v, want %+v", bounds, want)
	}

	if _, ok := b.RemoveContent(at(5, 7), func(CellContent) bool { return true }); !ok {
		t.Fatalf("removal failed")
	}
	bounds, _ = b.Bounds()
	if bounds != want {
		t.Fatalf("bounds shrank to %+v after removal", bounds)
	}
	if !b.InBounds(at(6, 8), 1) {
		t.Fatalf("(6,8) should fit inside padding 1")
	}
	if b.InBounds(at(7, 9), 1) {
		t.Fatalf("(7,9) should fall outside padding 1")
	}
}

func TestBoardOccupancyIgnoresDecorative(t *testing.T) {
	b := NewBoard()
	c := at(4, 4)
	b.Append(c, HomeZoneContent("p1"))
	b.Append(c, MarkerContent(MarkerCentreAnchor))
	if b.Occupied(c) || b.HasOccupied() {
		t.Fatalf("decorative content should not occupy")
	}
	if b.AdjacentOccupied(at(5, 5)) {
		t.Fatalf("decorative content should not grant adjacency")
	}

	b.Append(c, BlockContent("p1"))
	if !b.Occupied(c) || !b.HasOccupied() {
		t.Fatalf("block should occupy")
	}
	if !b.AdjacentOccupied(at(5, 5)) {
		t.Fatalf("occupied neighbor not seen")
	}
}

func TestBoardOccupiedCounter(t *testing.T) {
	b := NewBoard()
	b.Append(at(0, 0), BlockContent("p1"))
	b.Append(at(1, 0), BlockContent("p1"))
	b.Set(at(0, 0), nil)
	if !b.HasOccupied() {
		t.Fatalf("one occupied cell remains")
	}
	b.Set(at(1, 0), nil)
	if b.HasOccupied() {
		t.Fatalf("board should be back to unoccupied")
	}
}

func TestBoardRemovalKeepsOrder(t *testing.T) {
	b := NewBoard()
	c := at(1, 1)
	b.Append(c, HomeZoneContent("p1"))
	b.Append(c, BlockContent("p1"))
	b.Append(c, MarkerContent(MarkerCentreAnchor))

	if _, ok := b.RemoveContent(c, func(e CellContent) bool { return e.Kind == ContentBlock }); !ok {
		t.Fatalf("removal failed")
	}
	contents := b.Get(c)
	if len(contents) != 2 {
		t.Fatalf("expected two entries, got %d", len(contents))
	}
	if contents[0].Kind != ContentHomeZone || contents[1].Kind != ContentMarker {
		t.Fatalf("order disturbed: %v then %v", contents[0].Kind, contents[1].Kind)
	}
}

func TestBoardPieceAt(t *testing.T) {
	b := NewBoard()
	if _, ok := b.PieceAt(at(0, 0)); ok {
		t.Fatalf("found a piece on an empty board")
	}
	b.Append(at(0, 0), BlockContent("p1"))
	piece := putPiece(b, "k1", "p1", King, at(0, 0))
	got, ok := b.PieceAt(at(0, 0))
	if !ok || got != piece {
		t.Fatalf("PieceAt returned %v, want the placed king", got)
	}
}

func TestCellContentOwnership(t *testing.T) {
	piece := &Piece{ID: "p", Owner: "ana", Kind: Pawn}
	tests := []struct {
		name    string
		content CellContent
		owned   bool
	}{
		{"home zone", HomeZoneContent("ana"), true},
		{"foreign home zone", HomeZoneContent("bob"), false},
		{"block", BlockContent("ana"), true},
		{"piece", PieceContent(piece), true},
		{"marker", MarkerContent(MarkerCentreAnchor), false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.content.OwnedBy("ana"); got != tt.owned {
				t.Fatalf("OwnedBy = %v, want %v", got, tt.owned)
			}
		})
	}
}

func TestCellEntriesLegacyShapes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []ContentKind
	}{
		{"entry array", `[{"kind":"home_zone","owner":"ana"},{"kind":"block","owner":"ana"}]`, []ContentKind{ContentHomeZone, ContentBlock}},
		{"single unwrapped object", `{"kind":"block","owner":"ana"}`, []ContentKind{ContentBlock}},
		{"bare number", `7`, []ContentKind{ContentBlock}},
		{"zero number", `0`, nil},
		{"null", `null`, nil},
		{"mixed array", `[0,{"kind":"home_zone","owner":"ana"},3]`, []ContentKind{ContentHomeZone, ContentBlock}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			var entries CellEntries
			if err := json.Unmarshal([]byte(tt.in), &entries); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(entries) != len(tt.want) {
				t.Fatalf("got %d entries, want %d", len(entries), len(tt.want))
			}
			for i, kind := range tt.want {
				if entries[i].Kind != kind {
					t.Fatalf("entry %d kind %s, want %s", i, entries[i].Kind, kind)
				}
			}
		})
	}

	var entries CellEntries
	if err := json.Unmarshal([]byte(`[{"kind":"piece","piece":{"id":"p1","owner":"ana","kind":"pawn","pos":{"x":1,"z":2}}}]`), &entries); err != nil {
		t.Fatalf("decode piece entry: %v", err)
	}
	if entries[0].Piece == nil || entries[0].Piece.Kind != Pawn || entries[0].Piece.Pos != at(1, 2) {
		t.Fatalf("piece entry %+v", entries[0].Piece)
	}
	if err := json.Unmarshal([]byte(`["x"]`), &entries); err == nil {
		t.Fatalf("accepted a malformed entry")
	}
	if err := json.Unmarshal([]byte(`{"kind":"volcano"}`), &entries); err == nil {
		t.Fatalf("accepted an unknown content kind")
	}
}

func TestCoordKeys(t *testing.T) {
	c := at(-3, 12)
	if c.Key() != "-3,12" {
		t.Fatalf("key %q", c.Key())
	}
	parsed, err := ParseKey(c.Key())
	if err != nil || parsed != c {
		t.Fatalf("ParseKey round trip: %v, %v", parsed, err)
	}
	for _, bad := range []string{"", "5", "a,b", "1,2,3"} {
		if _, err := ParseKey(bad); err == nil {
			t.Fatalf("ParseKey(%q) accepted", bad)
		}
	}
}
