package game

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Game is one board and its players. Mu is the serialization point for
// everything the board owns: every placement, move, capture and row clear
// is a single transaction under the write lock, and snapshots are deep
// copies taken under the read lock. The engines underneath are lock-free
// and only ever run inside one of these transactions.
type Game struct {
	Mu        sync.RWMutex
	ID        string
	CreatedAt time.Time

	cfg     Config
	board   *Board
	players map[string]*Player
	pieces  map[string]*Piece
	zones   int // home-zone slots consumed so far, skipped ones included
}

// NewGame creates an empty board holding only the centre anchor marker.
// Zero config fields fall back to defaults.
func NewGame(cfg Config) *Game {
	g := &Game{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		cfg:       cfg.withDefaults(),
		board:     NewBoard(),
		players:   make(map[string]*Player),
		pieces:    make(map[string]*Piece),
	}
	g.board.Append(Coord{}, MarkerContent(MarkerCentreAnchor))
	return g
}

func (g *Game) Config() Config {
	return g.cfg
}

// PlayerSummary is the copyable view of a player handed across the lock
// boundary.
type PlayerSummary struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	HomeZone   Rect      `json:"homeZone"`
	Balance    int64     `json:"balance"`
	Phase      TurnPhase `json:"phase"`
	Pieces     int       `json:"pieces"`
	Eliminated bool      `json:"eliminated"`
}

func summarize(p *Player) PlayerSummary {
	return PlayerSummary{
		ID:         p.ID,
		Name:       p.Name,
		HomeZone:   p.HomeZone,
		Balance:    p.Balance,
		Phase:      p.Phase,
		Pieces:     len(p.PieceIDs),
		Eliminated: p.Eliminated,
	}
}

// AddPlayer registers a player: next free home zone on the ring, zone
// markers, the standard sixteen-piece set (back rank against the outer
// edge, pawns toward the centre) and the starting balance.
func (g *Game) AddPlayer(name string) (PlayerSummary, []Event, error) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	zone, forward := g.nextFreeZone()

	p := &Player{
		ID:       uuid.NewString(),
		Name:     name,
		HomeZone: zone,
		Balance:  g.cfg.StartingBalance,
		Phase:    PhaseDropping,
		forward:  forward,
	}
	g.players[p.ID] = p

	for x := zone.MinX; x <= zone.MaxX; x++ {
		for z := zone.MinZ; z <= zone.MaxZ; z++ {
			g.board.Append(Coord{X: x, Z: z}, HomeZoneContent(p.ID))
		}
	}

	back, pawns := zoneRanks(zone, forward)
	for i, c := range back {
		g.spawnPiece(p, backRankKinds[i], c)
	}
	for _, c := range pawns {
		g.spawnPiece(p, Pawn, c)
	}

	events := []Event{{
		Type:   EventPlayerJoined,
		GameID: g.ID,
		Payload: PlayerJoinedPayload{
			PlayerID: p.ID,
			Name:     p.Name,
			HomeZone: p.HomeZone,
			Pieces:   len(p.PieceIDs),
			Balance:  p.Balance,
		},
	}}
	return summarize(p), events, nil
}

func (g *Game) spawnPiece(p *Player, kind PieceKind, c Coord) {
	piece := &Piece{
		ID:    uuid.NewString(),
		Owner: p.ID,
		Kind:  kind,
		Pos:   c,
	}
	g.pieces[piece.ID] = piece
	g.board.Append(c, PieceContent(piece))
	p.PieceIDs = append(p.PieceIDs, piece.ID)
}

// removePieceRecord takes a piece out of the index and its owner's
// ordered set. Board content is the caller's business.
func (g *Game) removePieceRecord(piece *Piece) {
	delete(g.pieces, piece.ID)
	if owner, ok := g.players[piece.Owner]; ok {
		owner.removePieceID(piece.ID)
	}
}

func (g *Game) activePlayer(playerID string) (*Player, error) {
	p, ok := g.players[playerID]
	if !ok {
		return nil, ErrUnknownPlayer
	}
	if p.Eliminated {
		return nil, ErrEliminated
	}
	return p, nil
}

// checkPace applies the rate-limit policy against the caller-supplied
// wall clock. Zero MinActionInterval disables it.
func (g *Game) checkPace(p *Player, now time.Time) error {
	if g.cfg.MinActionInterval <= 0 || p.lastAction.IsZero() {
		return nil
	}
	if now.Sub(p.lastAction) < g.cfg.MinActionInterval {
		return ErrRateLimited
	}
	return nil
}

// DropOutcome says how a drop resolved.
type DropOutcome uint8

const (
	DropPlaced DropOutcome = iota + 1
	DropDisintegrated
	DropRejected
)

func (o DropOutcome) String() string {
	switch o {
	case DropPlaced:
		return "placed"
	case DropDisintegrated:
		return "disintegrated"
	case DropRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

func (o DropOutcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *DropOutcome) UnmarshalText(text []byte) error {
	switch string(text) {
	case "placed":
		*o = DropPlaced
	case "disintegrated":
		*o = DropDisintegrated
	case "rejected":
		*o = DropRejected
	default:
		return fmt.Errorf("unknown drop outcome %q", text)
	}
	return nil
}

type DropResult struct {
	Outcome DropOutcome `json:"outcome"`
	Shape   string      `json:"shape"`
	Origin  Coord       `json:"origin"`
	Cells   []Coord     `json:"cells,omitempty"`
	Events  []Event     `json:"-"`
}

// RequestDrop resolves one tetromino drop for a player in the Dropping
// phase. A footprint on occupied or out-of-bounds cells is rejected and
// the phase stays put; a valid but isolated footprint disintegrates and
// the phase still advances, the piece is simply lost. A locked placement
// appends one block per cell and runs row resolution once.
func (g *Game) RequestDrop(playerID, shapeName string, rotation int, origin Coord, now time.Time) (*DropResult, error) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	p, err := g.activePlayer(playerID)
	if err != nil {
		return nil, err
	}
	if p.Phase != PhaseDropping {
		return nil, ErrWrongPhase
	}
	if err := g.checkPace(p, now); err != nil {
		return nil, err
	}
	shape, err := ShapeByName(shapeName, rotation)
	if err != nil {
		return nil, err
	}

	res := &DropResult{Shape: shape.Name, Origin: origin}
	switch err := classifyDrop(g.board, shape, origin, g.cfg.BoundsPadding); err {
	case ErrOutOfBounds, ErrCellOccupied:
		res.Outcome = DropRejected
		res.Events = append(res.Events, Event{
			Type:   EventPlacementRejected,
			GameID: g.ID,
			Payload: PlacementRejectedPayload{
				PlayerID: p.ID,
				Shape:    shape.Name,
				Origin:   origin,
				Reason:   err.Error(),
			},
		})
		return res, err
	case ErrNotAdjacent:
		res.Outcome = DropDisintegrated
		res.Events = append(res.Events, Event{
			Type:   EventTetrominoDisintegrated,
			GameID: g.ID,
			Payload: TetrominoDisintegratedPayload{
				PlayerID: p.ID,
				Shape:    shape.Name,
				Origin:   origin,
			},
		})
	default:
		cells := shape.footprint(origin)
		rows := make([]int, 0, len(cells))
		for _, c := range cells {
			g.board.Append(c, BlockContent(p.ID))
			rows = append(rows, c.Z)
		}
		res.Outcome = DropPlaced
		res.Cells = cells
		res.Events = append(res.Events, Event{
			Type:   EventTetrominoPlaced,
			GameID: g.ID,
			Payload: TetrominoPlacedPayload{
				PlayerID: p.ID,
				Shape:    shape.Name,
				Cells:    cells,
			},
		})
		if ev := g.resolveRows(rows); ev != nil {
			res.Events = append(res.Events, *ev)
		}
	}

	p.Phase = PhaseMoving
	p.lastAction = now
	return res, nil
}

type MoveResult struct {
	PieceID  string    `json:"pieceId"`
	Kind     PieceKind `json:"kind"`
	From     Coord     `json:"from"`
	To       Coord     `json:"to"`
	Captured *Piece    `json:"captured,omitempty"`
	Events   []Event   `json:"-"`
}

// RequestMove validates and executes one chess move for a player in the
// Moving phase. Capturing a king hands off to ownership transfer before
// row resolution runs on the destination row.
func (g *Game) RequestMove(playerID, pieceID string, dest Coord, now time.Time) (*MoveResult, error) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	p, err := g.activePlayer(playerID)
	if err != nil {
		return nil, err
	}
	if p.Phase != PhaseMoving {
		return nil, ErrWrongPhase
	}
	if err := g.checkPace(p, now); err != nil {
		return nil, err
	}
	piece, ok := g.pieces[pieceID]
	if !ok || piece.Owner != playerID {
		return nil, ErrPieceNotFound
	}
	if err := validateMove(g.board, piece, p.forward, dest, g.cfg.BoundsPadding); err != nil {
		return nil, err
	}

	from := piece.Pos
	g.board.RemoveContent(from, func(c CellContent) bool {
		return c.Kind == ContentPiece && c.Piece == piece
	})

	var captured *Piece
	if other, ok := g.board.PieceAt(dest); ok {
		g.board.RemoveContent(dest, func(c CellContent) bool {
			return c.Kind == ContentPiece && c.Piece == other
		})
		g.removePieceRecord(other)
		captured = other
	}

	g.board.Append(dest, PieceContent(piece))
	piece.Pos = dest
	piece.HasMoved = true

	res := &MoveResult{PieceID: piece.ID, Kind: piece.Kind, From: from, To: dest}
	moved := PieceMovedPayload{
		PlayerID: p.ID,
		PieceID:  piece.ID,
		Kind:     piece.Kind,
		From:     from,
		To:       dest,
	}
	if captured != nil {
		cp := *captured
		res.Captured = &cp
		moved.Captured = &cp
	}
	res.Events = append(res.Events, Event{Type: EventPieceMoved, GameID: g.ID, Payload: moved})

	if captured != nil && captured.Kind == King {
		if ev := g.transferOwnership(p, captured); ev != nil {
			res.Events = append(res.Events, *ev)
		}
	}
	if ev := g.resolveRows([]int{dest.Z}); ev != nil {
		res.Events = append(res.Events, *ev)
	}

	p.Phase = PhaseDropping
	p.lastAction = now
	return res, nil
}

// LegalDestinationsFor backs piece selection: the destination set for one
// of the player's own pieces, in lexicographic order.
func (g *Game) LegalDestinationsFor(playerID, pieceID string) ([]Coord, error) {
	g.Mu.RLock()
	defer g.Mu.RUnlock()

	p, err := g.activePlayer(playerID)
	if err != nil {
		return nil, err
	}
	piece, ok := g.pieces[pieceID]
	if !ok || piece.Owner != playerID {
		return nil, ErrPieceNotFound
	}
	dests := legalDestinations(g.board, piece, p.forward, g.cfg.BoundsPadding)
	sort.Slice(dests, func(i, j int) bool { return lessCoord(dests[i], dests[j]) })
	return dests, nil
}

// Snapshot is the deep-copied view of a game for rendering and transport.
// Cells are keyed "x,z".
type Snapshot struct {
	GameID    string                 `json:"gameId"`
	CreatedAt time.Time              `json:"createdAt"`
	Bounds    *Rect                  `json:"bounds,omitempty"`
	Cells     map[string]CellEntries `json:"cells"`
	Players   []PlayerSummary        `json:"players"`
}

// Snapshot copies the whole game state under the read lock. Nothing in
// the result aliases live state.
func (g *Game) Snapshot() Snapshot {
	g.Mu.RLock()
	defer g.Mu.RUnlock()

	snap := Snapshot{
		GameID:    g.ID,
		CreatedAt: g.CreatedAt,
		Cells:     make(map[string]CellEntries, g.board.Cells()),
	}
	if bounds, ok := g.board.Bounds(); ok {
		padded := bounds.expand(g.cfg.BoundsPadding)
		snap.Bounds = &padded
	}
	g.board.ForEach(func(c Coord, contents []CellContent) {
		cloned := make(CellEntries, len(contents))
		for i, entry := range contents {
			cloned[i] = entry.Clone()
		}
		snap.Cells[c.Key()] = cloned
	})
	for _, p := range g.players {
		snap.Players = append(snap.Players, summarize(p))
	}
	sort.Slice(snap.Players, func(i, j int) bool { return snap.Players[i].ID < snap.Players[j].ID })
	return snap
}

// PlayerCount returns the number of registered players, eliminated ones
// included.
func (g *Game) PlayerCount() int {
	g.Mu.RLock()
	defer g.Mu.RUnlock()
	return len(g.players)
}

// sortedPlayers returns players in ID order for deterministic scans.
func (g *Game) sortedPlayers() []*Player {
	ids := make([]string, 0, len(g.players))
	for id := range g.players {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	players := make([]*Player, len(ids))
	for i, id := range ids {
		players[i] = g.players[id]
	}
	return players
}
