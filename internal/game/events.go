package game

// EventType names an emitted game event.
type EventType string

const (
	EventPlayerJoined           EventType = "player_joined"
	EventTetrominoPlaced        EventType = "tetromino_placed"
	EventTetrominoDisintegrated EventType = "tetromino_disintegrated"
	EventPlacementRejected      EventType = "placement_rejected"
	EventPieceMoved             EventType = "piece_moved"
	EventRowsCleared            EventType = "rows_cleared"
	EventKingCaptured           EventType = "king_captured"
)

// Event is the record handed to the transport and analytics collaborators.
// Payload is one of the typed payload structs below; the engine never
// depends on how they are stored or framed.
type Event struct {
	Type    EventType `json:"type"`
	GameID  string    `json:"gameId"`
	Payload any       `json:"payload"`
}

type PlayerJoinedPayload struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	HomeZone Rect   `json:"homeZone"`
	Pieces   int    `json:"pieces"`
	Balance  int64  `json:"balance"`
}

type TetrominoPlacedPayload struct {
	PlayerID string  `json:"playerId"`
	Shape    string  `json:"shape"`
	Cells    []Coord `json:"cells"`
}

type TetrominoDisintegratedPayload struct {
	PlayerID string `json:"playerId"`
	Shape    string `json:"shape"`
	Origin   Coord  `json:"origin"`
}

type PlacementRejectedPayload struct {
	PlayerID string `json:"playerId"`
	Shape    string `json:"shape"`
	Origin   Coord  `json:"origin"`
	Reason   string `json:"reason"`
}

type PieceMovedPayload struct {
	PlayerID string    `json:"playerId"`
	PieceID  string    `json:"pieceId"`
	Kind     PieceKind `json:"kind"`
	From     Coord     `json:"from"`
	To       Coord     `json:"to"`
	Captured *Piece    `json:"captured,omitempty"`
}

// Relocation records one orphan repaired by a row clear.
type Relocation struct {
	PieceID string    `json:"pieceId"`
	Owner   string    `json:"owner"`
	Kind    PieceKind `json:"kind"`
	From    Coord     `json:"from"`
	To      Coord     `json:"to"`
}

// Sacrifice records one orphan removed from play because no relocation
// target existed within the search cap.
type Sacrifice struct {
	PieceID string    `json:"pieceId"`
	Owner   string    `json:"owner"`
	Kind    PieceKind `json:"kind"`
	From    Coord     `json:"from"`
}

type RowsClearedPayload struct {
	Rows             []int        `json:"rows"`
	RelocatedPieces  []Relocation `json:"relocatedPieces"`
	SacrificedPieces []Sacrifice  `json:"sacrificedPieces"`
}

type KingCapturedPayload struct {
	Victor            string   `json:"victor"`
	Defeated          string   `json:"defeated"`
	TransferredPieces []string `json:"transferredPieces"`
	AmountTransferred int64    `json:"amountTransferred"`
}
