package game

// transferOwnership settles a king capture: the defeated player's
// surviving pieces, a configured share of their fee balance, and the
// home-zone markers they controlled outside their own zone all pass to
// the victor. The captured king itself is already deleted by the move.
// Guarded twice against double invocation: the defeated player must not
// be eliminated yet and must have no king left on the board.
func (g *Game) transferOwnership(victor *Player, king *Piece) *Event {
	defeated, ok := g.players[king.Owner]
	if !ok || defeated.Eliminated {
		return nil
	}
	for _, id := range defeated.PieceIDs {
		if piece, ok := g.pieces[id]; ok && piece.Kind == King {
			return nil
		}
	}

	transferred := make([]string, 0, len(defeated.PieceIDs))
	for _, id := range defeated.PieceIDs {
		piece, ok := g.pieces[id]
		if !ok {
			continue
		}
		piece.Owner = victor.ID
		victor.PieceIDs = append(victor.PieceIDs, id)
		transferred = append(transferred, id)
	}
	defeated.PieceIDs = nil

	amount := int64(float64(defeated.Balance) * g.cfg.TransferFraction)
	victor.Balance += amount
	defeated.Balance = 0

	// Conquered territory follows the conqueror; the defeated player's
	// original zone markers stay behind with them.
	g.board.ForEach(func(c Coord, contents []CellContent) {
		if defeated.HomeZone.Contains(c) {
			return
		}
		for i := range contents {
			if contents[i].Kind == ContentHomeZone && contents[i].Owner == defeated.ID {
				contents[i].Owner = victor.ID
			}
		}
	})

	defeated.Eliminated = true
	return &Event{
		Type:   EventKingCaptured,
		GameID: g.ID,
		Payload: KingCapturedPayload{
			Victor:            victor.ID,
			Defeated:          defeated.ID,
			TransferredPieces: transferred,
			AmountTransferred: amount,
		},
	}
}
