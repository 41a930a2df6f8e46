package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/lucasmdrs/warbound/internal/arena"
	"github.com/lucasmdrs/warbound/internal/constants"
	"github.com/lucasmdrs/warbound/internal/logging"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The API serves first-party clients from any origin; there is no
	// cookie-based session to ride.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// BattleSocket upgrades the connection and hands the session to the
// battle's room. The room answers with a full battle_restored snapshot,
// which doubles as the reconnection resync.
func (h *BattleHandler) BattleSocket(c *gin.Context) {
	battleID := c.Param("battleId")
	playerID := c.Query("player_id")
	if playerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	room, err := h.manager.Room(battleID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrBattleNotFound})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logging.Warn("websocket upgrade failed", logging.Fields{
			constants.LogFieldBattleID: battleID,
			constants.LogFieldAddr:     c.ClientIP(),
		})
		return
	}
	sess := arena.NewSession(playerID, conn)
	room.Attach(sess)
	arena.Serve(sess, room)
}
