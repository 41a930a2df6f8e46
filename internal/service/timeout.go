package service

import (
	"github.com/lucasmdrs/warbound/internal/battle"
	"github.com/lucasmdrs/warbound/internal/constants"
	"github.com/lucasmdrs/warbound/internal/logging"
	"github.com/lucasmdrs/warbound/internal/storage"
)

// HandleTimedOutBattle resolves a battle whose action deadline passed with
// no activity. The player on turn forfeits; with nobody on turn the battle
// ends without a winner.
func HandleTimedOutBattle(repo storage.Repository, rec *storage.BattleRecord) error {
	b, err := rec.DecodeState()
	if err != nil {
		return err
	}
	if b.Status != battle.StatusActive {
		return nil
	}

	winnerID := ""
	for _, k := range b.Kingdoms {
		if k.PlayerID != b.CurrentPlayerID && b.LivingUnitsOf(k.PlayerID) > 0 {
			winnerID = k.PlayerID
			break
		}
	}
	b.Status = battle.StatusEnded
	b.WinnerID = winnerID
	b.EndReason = "inactivity"
	b.ActiveUnitID = ""
	b.Phase = battle.PhaseTurnEnding
	RecoverProtections(b)

	logging.Info("battle timed out", logging.Fields{
		constants.LogFieldBattleID: rec.ID,
		"winner_id":                winnerID,
	})

	if err := rec.EncodeState(b); err != nil {
		return err
	}
	rec.ActionDeadline = nil
	if err := repo.UpdateStatsOnBattleEnd(rec); err != nil {
		logging.Error("failed to update stats for timed out battle", err, logging.Fields{constants.LogFieldBattleID: rec.ID})
	}
	return repo.UpdateBattle(rec)
}
