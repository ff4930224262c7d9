package game

import "errors"

var (
	ErrOutOfBounds        = errors.New("out of bounds")
	ErrCellOccupied       = errors.New("cell occupied")
	ErrNotAdjacent        = errors.New("not adjacent to existing structure")
	ErrPieceNotFound      = errors.New("piece not found")
	ErrIllegalDestination = errors.New("illegal destination")
	ErrWrongPhase         = errors.New("wrong phase")
	ErrSamePosition       = errors.New("same position")
	ErrOwnPieceCapture    = errors.New("cannot capture own piece")
	ErrRateLimited        = errors.New("acting too fast")
	ErrEliminated         = errors.New("player eliminated")
	ErrUnknownPlayer      = errors.New("unknown player")
	ErrUnknownShape       = errors.New("unknown shape")
	ErrGameNotFound       = errors.New("game not found")
)
