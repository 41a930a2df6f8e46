package storage

import (
	"time"
)

type Repository interface {
	CreateBattle(rec *BattleRecord) error
	GetBattleByID(id string) (*BattleRecord, error)
	FindBattleByJoinCode(code string) (*BattleRecord, error)
	UpdateBattle(rec *BattleRecord) error
	// GetOpenBattles lists recent public battles still waiting for an
	// opponent.
	GetOpenBattles() ([]BattleRecord, error)
	// FindTimedOutBattles returns active battles whose action deadline is
	// at or before the provided time. The caller decides how to resolve
	// them (typically marking them ended due to inactivity).
	FindTimedOutBattles(now time.Time) ([]BattleRecord, error)

	UpsertPlayer(id, name string) error
	GetPlayerByID(id string) (*PlayerProfile, error)
	// UpdateStatsOnBattleEnd applies one finished battle to both players'
	// lifetime records. An empty winnerID records a draw.
	UpdateStatsOnBattleEnd(rec *BattleRecord) error
	GetTopPlayers(limit int) ([]PlayerProfile, error)
}
