package engine

import (
	"github.com/lucasmdrs/warbound/internal/battle"
)

// TurnResult is everything the battle actor needs to broadcast after a
// turn ends: the ended unit's summary, expired conditions, round rollover
// ticks and the next entry of the action order.
type TurnResult struct {
	EndedUnitID       string             `json:"ended_unit_id"`
	ActionMarks       int                `json:"action_marks"`
	HP                int                `json:"hp"`
	IsAlive           bool               `json:"is_alive"`
	Conditions        []battle.Condition `json:"conditions"`
	ExpiredConditions []battle.Condition `json:"expired_conditions"`

	NewRound bool            `json:"new_round"`
	Round    int             `json:"round"`
	Ticks    []ConditionTick `json:"ticks"`

	NextPlayerID string `json:"next_player_id"`
	OrderIndex   int    `json:"order_index"`

	BattleEnded bool   `json:"battle_ended"`
	WinnerID    string `json:"winner_id"`
	EndReason   string `json:"end_reason"`
}

// Winner returns the sole kingdom with living units, if the battle is
// decided. ended is also true for the mutual-destruction draw.
func Winner(b *battle.Battle) (winnerID string, ended bool) {
	alive := make([]string, 0, len(b.Kingdoms))
	for _, k := range b.Kingdoms {
		if b.LivingUnitsOf(k.PlayerID) > 0 {
			alive = append(alive, k.PlayerID)
		}
	}
	switch len(alive) {
	case 0:
		return "", true
	case 1:
		return alive[0], true
	default:
		return "", false
	}
}

func endBattle(b *battle.Battle, winnerID, reason string) {
	b.Status = battle.StatusEnded
	b.WinnerID = winnerID
	b.EndReason = reason
	b.ActiveUnitID = ""
	b.Phase = battle.PhaseTurnEnding
}

// CheckVictory ends the battle on the spot when at most one kingdom has
// living units left. Mid-turn kills resolve immediately instead of
// waiting for the turn to end.
func CheckVictory(b *battle.Battle) (*TurnResult, bool) {
	winnerID, ended := Winner(b)
	if !ended || b.Status != battle.StatusActive {
		return nil, false
	}
	endBattle(b, winnerID, "elimination")
	return &TurnResult{
		BattleEnded: true,
		WinnerID:    winnerID,
		EndReason:   b.EndReason,
		Round:       b.Round,
	}, true
}

// EndTurn ends the active unit's turn — voluntarily, by exhaustion or by
// timer expiry; all three are identical in effect. It runs the
// end-of-turn condition checkpoint, advances the action order and rolls
// the round over when the order is exhausted.
func EndTurn(b *battle.Battle, unitID string) (*TurnResult, error) {
	if b.Status != battle.StatusActive {
		return nil, ErrBattleNotActive
	}
	u, err := EndActivation(b, unitID)
	if err != nil {
		return nil, err
	}
	expired := ExpireTurnEnd(u)
	res := &TurnResult{
		EndedUnitID:       u.ID,
		ActionMarks:       u.ActionMarks,
		HP:                u.HP,
		IsAlive:           u.IsAlive,
		Conditions:        append([]battle.Condition(nil), u.Conditions...),
		ExpiredConditions: expired,
	}

	if winnerID, ended := Winner(b); ended {
		endBattle(b, winnerID, "elimination")
		res.BattleEnded = true
		res.WinnerID = winnerID
		res.EndReason = b.EndReason
		return res, nil
	}

	advance(b, res)
	if res.BattleEnded {
		return res, nil
	}
	b.Phase = battle.PhaseAwaitingActivation
	res.NextPlayerID = b.CurrentPlayerID
	res.OrderIndex = b.OrderIndex
	res.Round = b.Round
	return res, nil
}

// SkipTurn advances the action order past a unit whose activation is
// condition-blocked, so a timer expiry still moves the battle forward.
// The skipped unit's end-of-turn checkpoint runs as usual, which is what
// lets a blocking condition like frozen decay; marks and resource pools
// are untouched because the unit never activated.
func SkipTurn(b *battle.Battle, unitID string) (*TurnResult, error) {
	if b.Status != battle.StatusActive {
		return nil, ErrBattleNotActive
	}
	u := b.UnitByID(unitID)
	if u == nil {
		return nil, ErrUnitNotFound
	}
	expired := ExpireTurnEnd(u)
	res := &TurnResult{
		EndedUnitID:       u.ID,
		ActionMarks:       u.ActionMarks,
		HP:                u.HP,
		IsAlive:           u.IsAlive,
		Conditions:        append([]battle.Condition(nil), u.Conditions...),
		ExpiredConditions: expired,
	}
	advance(b, res)
	if res.BattleEnded {
		return res, nil
	}
	b.Phase = battle.PhaseAwaitingActivation
	res.NextPlayerID = b.CurrentPlayerID
	res.OrderIndex = b.OrderIndex
	res.Round = b.Round
	return res, nil
}

// advance moves to the next living entry of the action order, wrapping to
// a new round (with its condition ticks) as needed. Round-start ticks can
// kill, so the victory check reruns after each rollover.
func advance(b *battle.Battle, res *TurnResult) {
	for attempts := 0; attempts <= 2*len(b.ActionOrder); attempts++ {
		b.OrderIndex++
		if b.OrderIndex >= len(b.ActionOrder) {
			b.OrderIndex = 0
			b.Round++
			res.NewRound = true
			res.Round = b.Round
			res.Ticks = append(res.Ticks, RoundStart(b)...)
			if winnerID, ended := Winner(b); ended {
				endBattle(b, winnerID, "elimination")
				res.BattleEnded = true
				res.WinnerID = winnerID
				res.EndReason = b.EndReason
				return
			}
		}
		next := b.UnitByID(b.ActionOrder[b.OrderIndex])
		if next != nil && next.IsAlive {
			b.CurrentPlayerID = next.OwnerID
			return
		}
	}
	// no living entry found; decided battles are caught above
	endBattle(b, "", "exhausted")
	res.BattleEnded = true
	res.EndReason = b.EndReason
}

// Surrender ends the battle in favor of the remaining kingdom.
func Surrender(b *battle.Battle, playerID string) (*TurnResult, error) {
	if b.Status != battle.StatusActive {
		return nil, ErrBattleNotActive
	}
	found := false
	winnerID := ""
	for _, k := range b.Kingdoms {
		if k.PlayerID == playerID {
			found = true
		} else if winnerID == "" && b.LivingUnitsOf(k.PlayerID) > 0 {
			winnerID = k.PlayerID
		}
	}
	if !found {
		return nil, ErrPlayerNotInBattle
	}
	endBattle(b, winnerID, "surrender")
	return &TurnResult{
		BattleEnded: true,
		WinnerID:    winnerID,
		EndReason:   "surrender",
		Round:       b.Round,
	}, nil
}
