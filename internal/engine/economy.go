package engine

import (
	"sync"

	"github.com/lucasmdrs/warbound/internal/battle"
)

// BeginAction activates a unit for its owner's turn. A repeated call for
// the unit that is already active is a no-op so duplicate client requests
// stay harmless.
func BeginAction(b *battle.Battle, unitID string) (*battle.Unit, error) {
	if b.Status != battle.StatusActive {
		return nil, ErrBattleNotActive
	}
	u := b.UnitByID(unitID)
	if u == nil {
		return nil, ErrUnitNotFound
	}
	if !u.IsAlive {
		return nil, ErrUnitDead
	}
	if u.OwnerID != b.CurrentPlayerID {
		return nil, ErrNotYourTurn
	}
	if b.ActiveUnitID == unitID {
		// idempotent re-activation (duplicate request or reconnect)
		return u, nil
	}
	if b.ActiveUnitID != "" {
		return nil, ErrAnotherUnitActive
	}
	if err := CanBeginAction(u); err != nil {
		return nil, err
	}

	moves := u.BaseMoves() - MovePenalty(u)
	if moves < 0 {
		moves = 0
	}
	u.MovesLeft = moves
	u.ActionsLeft = battle.BaseActionsPerTurn + u.BonusActionsPending
	u.BonusActionsPending = 0
	u.AttacksLeftThisTurn = 0
	u.HasStartedAction = true
	b.ActiveUnitID = unitID
	b.Phase = battle.PhaseUnitActive
	return u, nil
}

// EndActivation zeroes the active unit's pools and applies the action
// mark. Crossing the category threshold inflicts the fixed hp penalty and
// banks one bonus action, exactly once per crossing.
func EndActivation(b *battle.Battle, unitID string) (*battle.Unit, error) {
	u := b.UnitByID(unitID)
	if u == nil {
		return nil, ErrUnitNotFound
	}
	if b.ActiveUnitID != unitID {
		return nil, ErrUnitNotActive
	}
	u.MovesLeft = 0
	u.ActionsLeft = 0
	u.AttacksLeftThisTurn = 0
	u.HasStartedAction = false
	u.ActionMarks++
	if u.ActionMarks >= u.Category.MarkCap() {
		u.ActionMarks = 0
		u.HP -= battle.MarkPenaltyHP
		if u.HP <= 0 {
			u.HP = 0
			u.IsAlive = false
		}
		u.BonusActionsPending++
	}
	b.ActiveUnitID = ""
	b.Phase = battle.PhaseTurnEnding
	return u, nil
}

// Exhausted reports whether the active unit has nothing left to spend and
// should be auto-ended by the turn controller.
func Exhausted(u *battle.Unit) bool {
	return u.HasStartedAction && u.MovesLeft == 0 && u.ActionsLeft == 0 && u.AttacksLeftThisTurn == 0
}

// InFlight is the per-unit action guard: the first request for a unit
// wins, overlapping ones are rejected until the first resolves. It lives
// inside the battle actor, not in any client. Handlers on the room loop
// run to completion, so requests there never overlap; the guard is what
// keeps per-unit exclusivity for any resolution that leaves the loop.
type InFlight struct {
	mu   sync.Mutex
	busy map[string]struct{}
}

func NewInFlight() *InFlight {
	return &InFlight{busy: make(map[string]struct{})}
}

// Acquire returns ErrUnitBusy when a request for the unit is already
// resolving.
func (f *InFlight) Acquire(unitID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.busy[unitID]; ok {
		return ErrUnitBusy
	}
	f.busy[unitID] = struct{}{}
	return nil
}

func (f *InFlight) Release(unitID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.busy, unitID)
}
