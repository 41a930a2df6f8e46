package service

import (
	"errors"

	"github.com/google/uuid"
	"github.com/lucasmdrs/warbound/internal/battle"
	"github.com/lucasmdrs/warbound/internal/config"
	"github.com/lucasmdrs/warbound/internal/constants"
	"github.com/lucasmdrs/warbound/internal/geometry"
	"github.com/lucasmdrs/warbound/internal/logging"
	"github.com/lucasmdrs/warbound/internal/storage"
)

var (
	ErrBattleNotWaiting = errors.New("battle is not waiting for players")
	ErrBattleFull       = errors.New("battle already has two kingdoms")
	ErrRosterEmpty      = errors.New("roster must contain at least one unit")
	ErrRosterTooLarge   = errors.New("roster exceeds the unit limit")
	ErrUnknownUnit      = errors.New("roster references an unknown unit")
	ErrAlreadyJoined    = errors.New("player already joined this battle")
)

// MaxRosterSize bounds one kingdom's unit count.
const MaxRosterSize = 5

// CreateRequest is the host's intent to open a battle.
type CreateRequest struct {
	PlayerID    string
	PlayerName  string
	KingdomName string
	Roster      []string
	Private     bool
	JoinCode    string
}

// CreateBattle opens a battle with the host's kingdom seated and persists
// it waiting for an opponent.
func CreateBattle(repo storage.Repository, cfg *config.LoadedConfig, req CreateRequest) (*storage.BattleRecord, error) {
	units, err := buildRoster(cfg, req.PlayerID, req.Roster)
	if err != nil {
		return nil, err
	}

	b := &battle.Battle{
		ID:     uuid.NewString(),
		Bounds: cfg.ArenaBounds,
		Kingdoms: []battle.Kingdom{
			{PlayerID: req.PlayerID, Name: req.KingdomName},
		},
		Units:  units,
		Status: battle.StatusWaitingForPlayers,
	}
	for _, o := range cfg.Obstacles {
		b.Obstacles = append(b.Obstacles, battle.Obstacle{
			ID:           uuid.NewString(),
			Position:     o.Position,
			Destructible: o.Destructible,
			HP:           o.HP,
		})
	}

	// a missing profile only degrades stats, never the battle itself
	if err := repo.UpsertPlayer(req.PlayerID, req.PlayerName); err != nil {
		logging.Warn("failed to upsert player profile", logging.Fields{
			constants.LogFieldPlayerID: req.PlayerID,
			"error":                    err.Error(),
		})
	}

	rec := &storage.BattleRecord{
		ID:       b.ID,
		JoinCode: req.JoinCode,
		HostID:   req.PlayerID,
		Private:  req.Private,
	}
	if err := rec.EncodeState(b); err != nil {
		return nil, err
	}
	if err := repo.CreateBattle(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// JoinRequest is the second player's intent to fill the open seat.
type JoinRequest struct {
	PlayerID    string
	PlayerName  string
	KingdomName string
	Roster      []string
}

// JoinBattle seats the second kingdom and starts the battle. The record is
// persisted with the initialized engine state.
func JoinBattle(repo storage.Repository, cfg *config.LoadedConfig, rec *storage.BattleRecord, req JoinRequest) (*battle.Battle, error) {
	b, err := rec.DecodeState()
	if err != nil {
		return nil, err
	}
	if b.Status != battle.StatusWaitingForPlayers {
		return nil, ErrBattleNotWaiting
	}
	if len(b.Kingdoms) >= 2 {
		return nil, ErrBattleFull
	}
	if b.Kingdoms[0].PlayerID == req.PlayerID {
		return nil, ErrAlreadyJoined
	}

	units, err := buildRoster(cfg, req.PlayerID, req.Roster)
	if err != nil {
		return nil, err
	}
	b.Kingdoms = append(b.Kingdoms, battle.Kingdom{PlayerID: req.PlayerID, Name: req.KingdomName})
	b.Units = append(b.Units, units...)

	if err := repo.UpsertPlayer(req.PlayerID, req.PlayerName); err != nil {
		logging.Warn("failed to upsert player profile", logging.Fields{
			constants.LogFieldPlayerID: req.PlayerID,
			"error":                    err.Error(),
		})
	}

	if err := StartBattle(b); err != nil {
		return nil, err
	}
	rec.GuestID = req.PlayerID
	if err := rec.EncodeState(b); err != nil {
		return nil, err
	}
	if err := repo.UpdateBattle(rec); err != nil {
		return nil, err
	}
	return b, nil
}

// buildRoster instantiates units from roster template names. Positions are
// assigned at battle start.
func buildRoster(cfg *config.LoadedConfig, playerID string, roster []string) ([]battle.Unit, error) {
	if len(roster) == 0 {
		return nil, ErrRosterEmpty
	}
	if len(roster) > MaxRosterSize {
		return nil, ErrRosterTooLarge
	}
	units := make([]battle.Unit, 0, len(roster))
	for _, name := range roster {
		tpl, ok := cfg.Unit(name)
		if !ok {
			return nil, ErrUnknownUnit
		}
		u := battle.NewUnit(uuid.NewString(), playerID, tpl.Name, tpl.Category,
			tpl.Attributes, geometry.Point{}, append([]string(nil), tpl.Abilities...))
		u.DamageReduction = tpl.DamageReduction
		units = append(units, u)
	}
	return units, nil
}
