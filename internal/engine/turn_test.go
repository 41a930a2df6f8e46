package engine

import (
	"testing"

	"github.com/lucasmdrs/warbound/internal/battle"
)

func TestEndTurnAdvancesOrder(t *testing.T) {
	b := testBattle()
	activate(b, "u1")

	res, err := EndTurn(b, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.BattleEnded || res.NewRound {
		t.Fatalf("mid-round turn end must only advance the order: %+v", res)
	}
	if res.NextPlayerID != "p2" || b.CurrentPlayerID != "p2" || b.OrderIndex != 1 {
		t.Fatalf("expected handoff to p2, got %+v", res)
	}
	if b.Phase != battle.PhaseAwaitingActivation || b.ActiveUnitID != "" {
		t.Fatalf("battle must await the next activation")
	}
}

func TestEndTurnRollsRoundOver(t *testing.T) {
	b := testBattle()
	activate(b, "u1")
	if _, err := EndTurn(b, "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	activate(b, "u2")

	res, err := EndTurn(b, "u2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.NewRound || res.Round != 2 || b.Round != 2 {
		t.Fatalf("exhausting the order must start a new round: %+v", res)
	}
	if res.NextPlayerID != "p1" || b.OrderIndex != 0 {
		t.Fatalf("new round must restart the action order: %+v", res)
	}
}

func TestEndTurnRunsConditionCheckpoint(t *testing.T) {
	b := testBattle()
	u := activate(b, "u1")
	ApplyCondition(u, battle.Condition{Kind: battle.ConditionDodging, Expiry: battle.ExpireEndOfTurn})

	res, err := EndTurn(b, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.ExpiredConditions) != 1 || res.ExpiredConditions[0].Kind != battle.ConditionDodging {
		t.Fatalf("end-of-turn conditions must expire with the turn: %+v", res.ExpiredConditions)
	}
}

func TestEndTurnSkipsDeadUnits(t *testing.T) {
	b := testBattle()
	b.Units = append(b.Units, testUnit("u3", "p1", b.Units[0].Position))
	dead := &b.Units[len(b.Units)-1]
	dead.Position.Y++
	dead.IsAlive = false
	dead.HP = 0
	b.ActionOrder = []string{"u1", "u3", "u2"}

	activate(b, "u1")
	res, err := EndTurn(b, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.NextPlayerID != "p2" || b.OrderIndex != 2 {
		t.Fatalf("dead entries must be skipped, got next=%s index=%d", res.NextPlayerID, b.OrderIndex)
	}
}

func TestMarkPenaltyDeathEndsBattle(t *testing.T) {
	b := testBattle()
	u := activate(b, "u1")
	u.HP = battle.MarkPenaltyHP
	u.ActionMarks = u.Category.MarkCap() - 1

	res, err := EndTurn(b, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.IsAlive {
		t.Fatalf("mark penalty at low hp must kill")
	}
	if !res.BattleEnded || res.WinnerID != "p2" || res.EndReason != "elimination" {
		t.Fatalf("last-unit death ends the battle immediately: %+v", res)
	}
	if b.Status != battle.StatusEnded {
		t.Fatalf("battle must be ended, got %s", b.Status)
	}
}

func TestRoundStartTickDecidesBattle(t *testing.T) {
	b := testBattle()
	u2 := b.UnitByID("u2")
	u2.HP = 1
	ApplyCondition(u2, battle.Condition{
		Kind:         battle.ConditionBurning,
		Magnitude:    1,
		Expiry:       battle.ExpireUntilCleared,
		AppliedRound: 1,
	})

	activate(b, "u1")
	if _, err := EndTurn(b, "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	activate(b, "u2")

	res, err := EndTurn(b, "u2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.BattleEnded || res.WinnerID != "p1" {
		t.Fatalf("a lethal rollover tick must decide the battle: %+v", res)
	}
	if len(res.Ticks) != 1 || !res.Ticks[0].Killed {
		t.Fatalf("the lethal tick must be reported: %+v", res.Ticks)
	}
}

func TestSkipTurnAdvancesPastBlockedUnit(t *testing.T) {
	b := testBattle()
	u1 := b.UnitByID("u1")
	ApplyCondition(u1, battle.Condition{
		Kind:      battle.ConditionFrozen,
		Magnitude: 1,
		Expiry:    battle.ExpireEndOfTurn,
	})
	if err := CanBeginAction(u1); err == nil {
		t.Fatalf("frozen unit must not be activatable")
	}

	res, err := SkipTurn(b, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.NextPlayerID != "p2" || b.CurrentPlayerID != "p2" || b.OrderIndex != 1 {
		t.Fatalf("skip must hand off to p2, got %+v", res)
	}
	if u1.ActionMarks != 0 {
		t.Fatalf("a skipped unit never activated and earns no mark")
	}
	if u1.HasCondition(battle.ConditionFrozen) {
		t.Fatalf("the skipped unit's turn-end checkpoint must still thaw it")
	}
	if len(res.ExpiredConditions) != 1 || res.ExpiredConditions[0].Kind != battle.ConditionFrozen {
		t.Fatalf("expired conditions must be reported: %+v", res.ExpiredConditions)
	}
}

func TestSkipTurnRequiresActiveBattle(t *testing.T) {
	b := testBattle()
	b.Status = battle.StatusEnded
	if _, err := SkipTurn(b, "u1"); err != ErrBattleNotActive {
		t.Fatalf("expected ErrBattleNotActive, got %v", err)
	}
}

func TestEndTurnRequiresActiveUnit(t *testing.T) {
	b := testBattle()
	if _, err := EndTurn(b, "u1"); err != ErrUnitNotActive {
		t.Fatalf("expected ErrUnitNotActive, got %v", err)
	}
}

func TestSurrender(t *testing.T) {
	b := testBattle()
	res, err := Surrender(b, "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.BattleEnded || res.WinnerID != "p2" || res.EndReason != "surrender" {
		t.Fatalf("surrender must hand the win to the opponent: %+v", res)
	}
	if b.Status != battle.StatusEnded {
		t.Fatalf("battle must be ended")
	}
	if _, err := Surrender(b, "p2"); err != ErrBattleNotActive {
		t.Fatalf("surrender on an ended battle must fail, got %v", err)
	}
}

func TestSurrenderRequiresParticipant(t *testing.T) {
	b := testBattle()
	if _, err := Surrender(b, "p3"); err != ErrPlayerNotInBattle {
		t.Fatalf("expected ErrPlayerNotInBattle, got %v", err)
	}
}
