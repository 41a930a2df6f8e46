package api

import (
	"net/http"

	"github.com/lucasmdrs/warbound/internal/arena"
	"github.com/lucasmdrs/warbound/internal/config"
	"github.com/lucasmdrs/warbound/internal/constants"
	"github.com/lucasmdrs/warbound/internal/logging"
	"github.com/lucasmdrs/warbound/internal/service"
	"github.com/lucasmdrs/warbound/internal/storage"

	"github.com/gin-gonic/gin"
)

// BattleHandler groups all battle-related HTTP handlers.
type BattleHandler struct {
	repo    storage.Repository
	cfg     *config.LoadedConfig
	manager *arena.Manager
}

func NewBattleHandler(repo storage.Repository, cfg *config.LoadedConfig, manager *arena.Manager) *BattleHandler {
	return &BattleHandler{repo: repo, cfg: cfg, manager: manager}
}

type CreateBattlePayload struct {
	PlayerID    string   `json:"player_id"`
	PlayerName  string   `json:"player_name"`
	KingdomName string   `json:"kingdom_name"`
	Roster      []string `json:"roster"`
	Private     bool     `json:"private"`
}

// CreateBattle opens a battle with the caller's kingdom and returns its id
// and join code.
func (h *BattleHandler) CreateBattle(c *gin.Context) {
	var req CreateBattlePayload
	if err := c.ShouldBindJSON(&req); err != nil || req.PlayerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	rec, err := service.CreateBattle(h.repo, h.cfg, service.CreateRequest{
		PlayerID:    req.PlayerID,
		PlayerName:  req.PlayerName,
		KingdomName: req.KingdomName,
		Roster:      req.Roster,
		Private:     req.Private,
		JoinCode:    generateJoinCode(),
	})
	if err != nil {
		switch err {
		case service.ErrRosterEmpty, service.ErrRosterTooLarge, service.ErrUnknownUnit:
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: err.Error()})
		default:
			logging.Error("failed to create battle", err, logging.Fields{
				constants.LogFieldPlayerID: req.PlayerID,
			})
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedCreate})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"battle_id": rec.ID,
		"join_code": rec.JoinCode,
	})
}

type JoinBattlePayload struct {
	JoinCode    string   `json:"join_code"`
	PlayerID    string   `json:"player_id"`
	PlayerName  string   `json:"player_name"`
	KingdomName string   `json:"kingdom_name"`
	Roster      []string `json:"roster"`
}

// JoinBattle seats the second kingdom via join code and starts the battle.
func (h *BattleHandler) JoinBattle(c *gin.Context) {
	var req JoinBattlePayload
	if err := c.ShouldBindJSON(&req); err != nil || req.PlayerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	code := normalizeJoinCode(req.JoinCode)
	if code == "" || !joinCodeRegex.MatchString(code) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidBattleID})
		return
	}
	rec, err := h.repo.FindBattleByJoinCode(code)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrBattleNotFound})
		return
	}

	b, err := service.JoinBattle(h.repo, h.cfg, rec, service.JoinRequest{
		PlayerID:    req.PlayerID,
		PlayerName:  req.PlayerName,
		KingdomName: req.KingdomName,
		Roster:      req.Roster,
	})
	if err != nil {
		switch err {
		case service.ErrBattleNotWaiting:
			c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrBattleNotWaiting})
		case service.ErrBattleFull, service.ErrAlreadyJoined:
			c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrBattleFull})
		case service.ErrRosterEmpty, service.ErrRosterTooLarge, service.ErrUnknownUnit:
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: err.Error()})
		default:
			logging.Error("failed to join battle", err, logging.Fields{
				constants.LogFieldBattleID: rec.ID,
				constants.LogFieldPlayerID: req.PlayerID,
			})
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedJoin})
		}
		return
	}

	// A host waiting on the websocket learns about the start via the room.
	if room, ok := h.manager.Peek(rec.ID); ok {
		room.Reload(rec)
	}

	c.JSON(http.StatusOK, gin.H{
		"battle_id": rec.ID,
		"battle":    b,
	})
}

// GetBattle returns the persisted battle state for spectating or polling.
func (h *BattleHandler) GetBattle(c *gin.Context) {
	rec, err := h.repo.GetBattleByID(c.Param("battleId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrBattleNotFound})
		return
	}
	b, err := rec.DecodeState()
	if err != nil {
		logging.Error("failed to decode battle state", err, logging.Fields{
			constants.LogFieldBattleID: rec.ID,
		})
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrBattleNotFound})
		return
	}
	c.JSON(http.StatusOK, gin.H{"battle": b, "record": rec})
}

// ListOpenBattles lists recent public battles still waiting for an
// opponent.
func (h *BattleHandler) ListOpenBattles(c *gin.Context) {
	recs, err := h.repo.GetOpenBattles()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedCreate})
		return
	}
	c.JSON(http.StatusOK, gin.H{"battles": recs})
}

// ListLeaderboard returns the top players by wins.
func (h *BattleHandler) ListLeaderboard(c *gin.Context) {
	players, err := h.repo.GetTopPlayers(10)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	c.JSON(http.StatusOK, gin.H{"players": players})
}

// Health reports process liveness.
func (h *BattleHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
