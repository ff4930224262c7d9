package game

import (
	"fmt"
	"sort"
	"time"
)

// TurnPhase is one player's position in the drop/move cycle. Every player
// runs the cycle independently, there is no global turn order.
type TurnPhase uint8

const (
	PhaseDropping TurnPhase = iota + 1
	PhaseMoving
)

func (p TurnPhase) String() string {
	switch p {
	case PhaseDropping:
		return "dropping"
	case PhaseMoving:
		return "moving"
	default:
		return "unknown"
	}
}

func (p TurnPhase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *TurnPhase) UnmarshalText(text []byte) error {
	switch string(text) {
	case "dropping":
		*p = PhaseDropping
	case "moving":
		*p = PhaseMoving
	default:
		return fmt.Errorf("unknown phase %q", text)
	}
	return nil
}

// Player is one participant's authoritative record: identity, protected
// home zone, fee balance, owned pieces in acquisition order, and phase
// state. forward is the pawn direction for this player's zone side.
type Player struct {
	ID         string
	Name       string
	HomeZone   Rect
	Balance    int64
	PieceIDs   []string
	Phase      TurnPhase
	Eliminated bool

	forward    delta
	lastAction time.Time
}

func (p *Player) removePieceID(id string) {
	for i, pid := range p.PieceIDs {
		if pid == id {
			p.PieceIDs = append(p.PieceIDs[:i], p.PieceIDs[i+1:]...)
			return
		}
	}
}

// Config carries the game tunables. Zero values are filled with defaults
// by NewGame, except MinActionInterval where zero disables rate limiting.
type Config struct {
	ClearThreshold    int           // occupied cells in a row that trigger a clear
	TransferFraction  float64       // share of a defeated balance moved to the victor
	MinActionInterval time.Duration // minimum wall-clock gap between a player's actions
	RelocationRadius  int           // hop cap for the orphan relocation search
	BoundsPadding     int           // growth margin around derived bounds
	ZoneDistance      int           // distance from origin to each home zone
	ZoneGap           int           // radial gap between successive zone rings
	StartingBalance   int64
}

func DefaultConfig() Config {
	return Config{
		ClearThreshold:    8,
		TransferFraction:  0.5,
		MinActionInterval: 500 * time.Millisecond,
		RelocationRadius:  16,
		BoundsPadding:     10,
		ZoneDistance:      12,
		ZoneGap:           4,
		StartingBalance:   100,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.ClearThreshold <= 0 {
		c.ClearThreshold = def.ClearThreshold
	}
	if c.TransferFraction <= 0 {
		c.TransferFraction = def.TransferFraction
	}
	if c.TransferFraction > 1 {
		c.TransferFraction = 1
	}
	if c.RelocationRadius <= 0 {
		c.RelocationRadius = def.RelocationRadius
	}
	if c.BoundsPadding <= 0 {
		c.BoundsPadding = def.BoundsPadding
	}
	if c.ZoneDistance <= 0 {
		c.ZoneDistance = def.ZoneDistance
	}
	if c.ZoneGap <= 0 {
		c.ZoneGap = def.ZoneGap
	}
	if c.StartingBalance <= 0 {
		c.StartingBalance = def.StartingBalance
	}
	return c
}

// Home zones are 8 cells wide and 2 deep: a back rank against the outer
// edge and a pawn rank toward the centre.
const (
	zoneWidth = 8
	zoneDepth = 2
)

var backRankKinds = [zoneWidth]PieceKind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// zoneForIndex lays out the i-th home-zone slot around the origin. Sides
// rotate south, north, west, east; once all four sides of a ring are
// taken, the next ring steps outward by a zone depth plus gap. Lanes stay
// centred on their axis; bands on perpendicular sides share no cells.
// Forward always points from the zone toward the centre.
func zoneForIndex(i int, cfg Config) (Rect, delta) {
	side := i % 4
	ring := i / 4
	lo := -zoneWidth / 2
	hi := lo + zoneWidth - 1
	d := cfg.ZoneDistance + ring*(zoneDepth+cfg.ZoneGap)

	switch side {
	case 0: // south
		return Rect{MinX: lo, MinZ: -d - zoneDepth + 1, MaxX: hi, MaxZ: -d}, delta{0, 1}
	case 1: // north
		return Rect{MinX: lo, MinZ: d, MaxX: hi, MaxZ: d + zoneDepth - 1}, delta{0, -1}
	case 2: // west
		return Rect{MinX: -d - zoneDepth + 1, MinZ: lo, MaxX: -d, MaxZ: hi}, delta{1, 0}
	default: // east
		return Rect{MinX: d, MinZ: lo, MaxX: d + zoneDepth - 1, MaxZ: hi}, delta{-1, 0}
	}
}

// nextFreeZone issues home-zone slots in layout order. A slot is passed
// over, permanently, when its rectangle touches an already issued zone or
// a piece is sitting inside it.
func (g *Game) nextFreeZone() (Rect, delta) {
	for {
		zone, forward := zoneForIndex(g.zones, g.cfg)
		g.zones++
		if g.zoneFree(zone) {
			return zone, forward
		}
	}
}

func (g *Game) zoneFree(zone Rect) bool {
	for _, p := range g.players {
		if zone.Intersects(p.HomeZone) {
			return false
		}
	}
	for x := zone.MinX; x <= zone.MaxX; x++ {
		for z := zone.MinZ; z <= zone.MaxZ; z++ {
			if _, ok := g.board.PieceAt(Coord{X: x, Z: z}); ok {
				return false
			}
		}
	}
	return true
}

// zoneRanks splits a zone into its back rank and pawn rank, each ordered
// along the lateral axis. The back rank is the one whose forward neighbor
// is still inside the zone.
func zoneRanks(zone Rect, forward delta) (back, pawns []Coord) {
	for x := zone.MinX; x <= zone.MaxX; x++ {
		for z := zone.MinZ; z <= zone.MaxZ; z++ {
			c := Coord{X: x, Z: z}
			if zone.Contains(c.add(forward)) {
				back = append(back, c)
			} else {
				pawns = append(pawns, c)
			}
		}
	}
	sort.Slice(back, func(i, j int) bool { return lessCoord(back[i], back[j]) })
	sort.Slice(pawns, func(i, j int) bool { return lessCoord(pawns[i], pawns[j]) })
	return back, pawns
}
