package game

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// PieceKind identifies a chess piece type.
type PieceKind uint8

const (
	Pawn PieceKind = iota + 1
	Rook
	Knight
	Bishop
	Queen
	King
)

func (k PieceKind) String() string {
	switch k {
	case Pawn:
		return "pawn"
	case Rook:
		return "rook"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Queen:
		return "queen"
	case King:
		return "king"
	default:
		return "unknown"
	}
}

// ParsePieceKind maps the wire name of a piece kind back to its value.
func ParsePieceKind(s string) (PieceKind, error) {
	switch s {
	case "pawn":
		return Pawn, nil
	case "rook":
		return Rook, nil
	case "knight":
		return Knight, nil
	case "bishop":
		return Bishop, nil
	case "queen":
		return Queen, nil
	case "king":
		return King, nil
	default:
		return 0, fmt.Errorf("unknown piece kind %q", s)
	}
}

func (k PieceKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *PieceKind) UnmarshalText(text []byte) error {
	kind, err := ParsePieceKind(string(text))
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// ContentKind tags the variant held by a CellContent entry.
type ContentKind uint8

const (
	ContentHomeZone ContentKind = iota + 1
	ContentBlock
	ContentPiece
	ContentMarker
)

func (k ContentKind) String() string {
	switch k {
	case ContentHomeZone:
		return "home_zone"
	case ContentBlock:
		return "block"
	case ContentPiece:
		return "piece"
	case ContentMarker:
		return "marker"
	default:
		return "unknown"
	}
}

func (k ContentKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *ContentKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "home_zone":
		*k = ContentHomeZone
	case "block":
		*k = ContentBlock
	case "piece":
		*k = ContentPiece
	case "marker":
		*k = ContentMarker
	default:
		return fmt.Errorf("unknown content kind %q", text)
	}
	return nil
}

// MarkerKind identifies a decorative special marker.
type MarkerKind uint8

const (
	MarkerCentreAnchor MarkerKind = iota + 1
)

func (m MarkerKind) String() string {
	switch m {
	case MarkerCentreAnchor:
		return "centre_anchor"
	default:
		return "unknown"
	}
}

func (m MarkerKind) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *MarkerKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "centre_anchor":
		*m = MarkerCentreAnchor
	default:
		return fmt.Errorf("unknown marker kind %q", text)
	}
	return nil
}

// Piece is a chess piece on the board. Pos is kept current by every move
// and relocation, so the piece index and the cell contents always agree.
type Piece struct {
	ID       string    `json:"id"`
	Owner    string    `json:"owner"`
	Kind     PieceKind `json:"kind"`
	HasMoved bool      `json:"hasMoved"`
	Pos      Coord     `json:"pos"`
}

// CellContent is one entry in a cell's ordered content collection.
// Exactly one group of fields is meaningful per Kind: Owner for home-zone
// markers and blocks, Piece for pieces, Marker for special markers.
// Snapshots from older builds carried cells in looser shapes; CellEntries
// collapses those on decode, so nothing past that boundary branches on
// shape.
type CellContent struct {
	Kind   ContentKind `json:"kind"`
	Owner  string      `json:"owner,omitempty"`
	Marker MarkerKind  `json:"marker,omitempty"`
	Piece  *Piece      `json:"piece,omitempty"`
}

func HomeZoneContent(owner string) CellContent {
	return CellContent{Kind: ContentHomeZone, Owner: owner}
}

func BlockContent(owner string) CellContent {
	return CellContent{Kind: ContentBlock, Owner: owner}
}

func PieceContent(p *Piece) CellContent {
	return CellContent{Kind: ContentPiece, Piece: p}
}

func MarkerContent(kind MarkerKind) CellContent {
	return CellContent{Kind: ContentMarker, Marker: kind}
}

// Decorative reports whether the entry neither occupies nor blocks a cell.
// Home-zone markers and special markers are overlays only.
func (c CellContent) Decorative() bool {
	return c.Kind == ContentHomeZone || c.Kind == ContentMarker
}

// OwnedBy reports whether the entry counts as player territory for the
// path-to-king chain.
func (c CellContent) OwnedBy(playerID string) bool {
	switch c.Kind {
	case ContentHomeZone, ContentBlock:
		return c.Owner == playerID
	case ContentPiece:
		return c.Piece != nil && c.Piece.Owner == playerID
	default:
		return false
	}
}

// Clone deep-copies the entry so snapshots never alias live pieces.
func (c CellContent) Clone() CellContent {
	if c.Piece != nil {
		p := *c.Piece
		c.Piece = &p
	}
	return c
}

// CellEntries is the wire form of a cell's content collection. Snapshots
// from older builds encoded a cell as a bare occupancy number or a single
// unwrapped object instead of an entry array; decoding collapses every
// historical shape to tagged entries here, in one place.
type CellEntries []CellContent

func (e *CellEntries) UnmarshalJSON(data []byte) error {
	*e = nil
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if data[0] != '[' {
		entry, keep, err := normalizeCellEntry(data)
		if err != nil {
			return err
		}
		if keep {
			*e = CellEntries{entry}
		}
		return nil
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}
	out := make(CellEntries, 0, len(raws))
	for _, raw := range raws {
		entry, keep, err := normalizeCellEntry(raw)
		if err != nil {
			return err
		}
		if keep {
			out = append(out, entry)
		}
	}
	*e = out
	return nil
}

// normalizeCellEntry decodes one entry in any historical shape. A bare
// number meant an anonymous block when nonzero and an empty slot when
// zero; the owner is unrecoverable from that form.
func normalizeCellEntry(data []byte) (CellContent, bool, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return CellContent{}, false, nil
	}
	if data[0] == '{' {
		var entry CellContent
		if err := json.Unmarshal(data, &entry); err != nil {
			return CellContent{}, false, err
		}
		return entry, true, nil
	}
	var code float64
	if err := json.Unmarshal(data, &code); err != nil {
		return CellContent{}, false, fmt.Errorf("unrecognized cell entry %s", data)
	}
	if code == 0 {
		return CellContent{}, false, nil
	}
	return BlockContent(""), true, nil
}
