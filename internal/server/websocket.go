package server

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Rotwang9000/chesstris/internal/game"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type JoinAction struct {
	Action string `json:"action"`
	Name   string `json:"name"`
}

type DropAction struct {
	Action   string  `json:"action"`
	PlayerID string  `json:"playerId"`
	Shape    string  `json:"shape"`
	Rotation int     `json:"rotation"`
	X        float64 `json:"x"`
	Z        float64 `json:"z"`
}

type MoveAction struct {
	Action   string  `json:"action"`
	PlayerID string  `json:"playerId"`
	PieceID  string  `json:"pieceId"`
	X        float64 `json:"x"`
	Z        float64 `json:"z"`
}

type SelectAction struct {
	Action   string `json:"action"`
	PlayerID string `json:"playerId"`
	PieceID  string `json:"pieceId"`
}

// coordFromWire normalizes a coordinate pair off the wire. NaN, infinity
// and fractional values are rejected here so the engine only ever sees
// real cells.
func coordFromWire(x, z float64) (game.Coord, error) {
	for _, v := range [2]float64{x, z} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
			return game.Coord{}, errors.New("invalid coordinate")
		}
	}
	return game.Coord{X: int(x), Z: int(z)}, nil
}

// errorCode maps engine sentinels to stable wire codes.
func errorCode(err error) string {
	switch {
	case errors.Is(err, game.ErrOutOfBounds):
		return "out_of_bounds"
	case errors.Is(err, game.ErrCellOccupied):
		return "cell_occupied"
	case errors.Is(err, game.ErrNotAdjacent):
		return "not_adjacent"
	case errors.Is(err, game.ErrPieceNotFound):
		return "piece_not_found"
	case errors.Is(err, game.ErrIllegalDestination):
		return "illegal_destination"
	case errors.Is(err, game.ErrWrongPhase):
		return "wrong_phase"
	case errors.Is(err, game.ErrSamePosition):
		return "same_position"
	case errors.Is(err, game.ErrOwnPieceCapture):
		return "own_piece_capture"
	case errors.Is(err, game.ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, game.ErrEliminated):
		return "eliminated"
	case errors.Is(err, game.ErrUnknownPlayer):
		return "unknown_player"
	case errors.Is(err, game.ErrUnknownShape):
		return "unknown_shape"
	case errors.Is(err, game.ErrGameNotFound):
		return "game_not_found"
	default:
		return "error"
	}
}

// HandleWebsocket upgrades the connection, subscribes it to the game and
// dispatches inbound messages on their action field. Direct replies go to
// the requesting connection; game events fan out to every subscriber.
func HandleWebsocket(manager *game.Manager, broadcaster *Broadcaster, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		g, err := manager.Game(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Warn("websocket upgrade failed", zap.Error(err))
			return
		}

		broadcaster.Register(conn, g.ID)
		log.Info("websocket connected", zap.String("gameID", g.ID))

		for {
			msgType, msg, err := conn.ReadMessage()
			if err != nil {
				broadcaster.Unregister(conn)
				break
			}
			if msgType != websocket.TextMessage {
				continue
			}

			var base map[string]any
			if err := json.Unmarshal(msg, &base); err != nil {
				sendError(broadcaster, conn, "", errors.New("malformed message"))
				continue
			}
			action, ok := base["action"].(string)
			if !ok {
				sendError(broadcaster, conn, "", errors.New("missing action"))
				continue
			}

			switch action {
			case "join":
				var join JoinAction
				if err := json.Unmarshal(msg, &join); err != nil {
					sendError(broadcaster, conn, action, err)
					continue
				}
				player, events, err := g.AddPlayer(join.Name)
				if err != nil {
					sendError(broadcaster, conn, action, err)
					continue
				}
				log.Info("player joined",
					zap.String("gameID", g.ID),
					zap.String("playerID", player.ID))
				sendJSON(broadcaster, conn, map[string]any{
					"action": "joined",
					"player": player,
				})
				broadcaster.BroadcastEvents(g.ID, events)
				broadcaster.BroadcastSnapshot(g.ID)

			case "drop_tetromino":
				var drop DropAction
				if err := json.Unmarshal(msg, &drop); err != nil {
					sendError(broadcaster, conn, action, err)
					continue
				}
				origin, err := coordFromWire(drop.X, drop.Z)
				if err != nil {
					sendError(broadcaster, conn, action, err)
					continue
				}
				res, err := g.RequestDrop(drop.PlayerID, drop.Shape, drop.Rotation, origin, time.Now())
				if res != nil {
					broadcaster.BroadcastEvents(g.ID, res.Events)
				}
				if err != nil {
					sendError(broadcaster, conn, action, err)
					continue
				}
				log.Info("tetromino dropped",
					zap.String("gameID", g.ID),
					zap.String("playerID", drop.PlayerID),
					zap.String("outcome", res.Outcome.String()))
				logOutcomes(log, g.ID, res.Events)
				sendJSON(broadcaster, conn, map[string]any{
					"action": "drop_result",
					"result": res,
				})
				broadcaster.BroadcastSnapshot(g.ID)

			case "move_piece":
				var move MoveAction
				if err := json.Unmarshal(msg, &move); err != nil {
					sendError(broadcaster, conn, action, err)
					continue
				}
				dest, err := coordFromWire(move.X, move.Z)
				if err != nil {
					sendError(broadcaster, conn, action, err)
					continue
				}
				res, err := g.RequestMove(move.PlayerID, move.PieceID, dest, time.Now())
				if err != nil {
					sendError(broadcaster, conn, action, err)
					continue
				}
				log.Info("piece moved",
					zap.String("gameID", g.ID),
					zap.String("playerID", move.PlayerID),
					zap.String("pieceID", res.PieceID))
				logOutcomes(log, g.ID, res.Events)
				sendJSON(broadcaster, conn, map[string]any{
					"action": "move_result",
					"result": res,
				})
				broadcaster.BroadcastEvents(g.ID, res.Events)
				broadcaster.BroadcastSnapshot(g.ID)

			case "select_piece":
				var sel SelectAction
				if err := json.Unmarshal(msg, &sel); err != nil {
					sendError(broadcaster, conn, action, err)
					continue
				}
				dests, err := g.LegalDestinationsFor(sel.PlayerID, sel.PieceID)
				if err != nil {
					sendError(broadcaster, conn, action, err)
					continue
				}
				sendJSON(broadcaster, conn, map[string]any{
					"action":       "destinations",
					"pieceId":      sel.PieceID,
					"destinations": dests,
				})

			case "state":
				sendJSON(broadcaster, conn, stateMessage(g.Snapshot()))

			default:
				sendError(broadcaster, conn, action, errors.New("unknown action"))
			}
		}
	}
}

// logOutcomes records the follow-on events of an accepted action that
// change the board beyond the action itself.
func logOutcomes(log *zap.Logger, gameID string, events []game.Event) {
	for _, ev := range events {
		switch ev.Type {
		case game.EventRowsCleared:
			if p, ok := ev.Payload.(game.RowsClearedPayload); ok {
				log.Info("rows cleared",
					zap.String("gameID", gameID),
					zap.Ints("rows", p.Rows),
					zap.Int("relocated", len(p.RelocatedPieces)),
					zap.Int("sacrificed", len(p.SacrificedPieces)))
			}
		case game.EventKingCaptured:
			if p, ok := ev.Payload.(game.KingCapturedPayload); ok {
				log.Info("king captured",
					zap.String("gameID", gameID),
					zap.String("victor", p.Victor),
					zap.String("defeated", p.Defeated),
					zap.Int64("amountTransferred", p.AmountTransferred))
			}
		}
	}
}

func sendJSON(b *Broadcaster, conn *websocket.Conn, payload map[string]any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	b.Send(conn, data)
}

func sendError(b *Broadcaster, conn *websocket.Conn, request string, err error) {
	sendJSON(b, conn, map[string]any{
		"action":  "error",
		"request": request,
		"code":    errorCode(err),
		"error":   err.Error(),
	})
}
