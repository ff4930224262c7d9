package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Rotwang9000/chesstris/internal/game"
)

// SetupRouter wires the REST surface and the websocket mount. The engine
// stays behind the manager; handlers only translate.
func SetupRouter(manager *game.Manager, broadcaster *Broadcaster, log *zap.Logger) *gin.Engine {
	r := gin.Default()

	r.GET("/health", healthHandler)
	r.POST("/games", createGameHandler(manager))
	r.GET("/games", listGamesHandler(manager))
	r.GET("/games/:id/state", stateHandler(manager))
	r.POST("/games/:id/join", joinHandler(manager, broadcaster, log))

	r.GET("/ws/:id", HandleWebsocket(manager, broadcaster, log))

	return r
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func createGameHandler(manager *game.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		g := manager.CreateGame()
		c.JSON(http.StatusCreated, gin.H{"gameId": g.ID})
	}
}

func listGamesHandler(manager *game.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"games": manager.ListGames()})
	}
}

func stateHandler(manager *game.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		g, err := manager.Game(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, g.Snapshot())
	}
}

type joinRequest struct {
	Name string `json:"name"`
}

func joinHandler(manager *game.Manager, broadcaster *Broadcaster, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		g, err := manager.Game(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}

		var req joinRequest
		// Empty body is fine, the player just joins unnamed.
		_ = c.ShouldBindJSON(&req)

		player, events, err := g.AddPlayer(req.Name)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Info("player joined",
			zap.String("gameID", g.ID),
			zap.String("playerID", player.ID))
		broadcaster.BroadcastEvents(g.ID, events)

		c.JSON(http.StatusCreated, gin.H{"player": player})
	}
}
