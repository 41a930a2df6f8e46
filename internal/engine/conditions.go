package engine

import (
	"github.com/lucasmdrs/warbound/internal/battle"
)

// Condition modifiers are pure reads; application and removal happen only
// here and only at the two fixed expiry checkpoints (turn end, round
// start) so resolution stays deterministic within a single action.

// ApplyCondition attaches a condition to a unit. Conditions of the same
// kind stack; an end-of-turn condition with no explicit counter gets one
// checkpoint.
func ApplyCondition(u *battle.Unit, c battle.Condition) {
	if c.Expiry == battle.ExpireEndOfTurn && c.TurnEnds <= 0 {
		c.TurnEnds = 1
	}
	u.Conditions = append(u.Conditions, c)
}

// ClearCondition removes every instance of the kind and reports whether
// anything was removed.
func ClearCondition(u *battle.Unit, kind battle.ConditionKind) bool {
	kept := u.Conditions[:0]
	removed := false
	for _, c := range u.Conditions {
		if c.Kind == kind {
			removed = true
			continue
		}
		kept = append(kept, c)
	}
	u.Conditions = kept
	return removed
}

// CanBeginAction rejects activation for conditions that block acting
// entirely.
func CanBeginAction(u *battle.Unit) error {
	if u.HasCondition(battle.ConditionFrozen) {
		return ErrUnitFrozen
	}
	return nil
}

// CanUseAbilities mirrors CanBeginAction for mid-turn ability use.
func CanUseAbilities(u *battle.Unit) error {
	if u.HasCondition(battle.ConditionFrozen) {
		return ErrUnitFrozen
	}
	return nil
}

// MovePenalty is the movement-point reduction applied at activation.
// Stunned and slowed subtract their magnitude; chilled and knocked-down
// subtract one each.
func MovePenalty(u *battle.Unit) int {
	p := u.ConditionMagnitude(battle.ConditionStunned)
	p += u.ConditionMagnitude(battle.ConditionSlowed)
	if u.HasCondition(battle.ConditionChilled) {
		p++
	}
	if u.HasCondition(battle.ConditionKnockedDown) {
		p++
	}
	return p
}

// DefenderThresholdBonus raises the attacker's success threshold when the
// defender is dodging.
func DefenderThresholdBonus(defender *battle.Unit) int {
	if !defender.HasCondition(battle.ConditionDodging) {
		return 0
	}
	bonus := defender.ConditionMagnitude(battle.ConditionDodging)
	if bonus <= 0 {
		bonus = 1
	}
	return bonus
}

// DefenderPoolBonus adds dice to the defender pool for the protected
// condition and removes dice while knocked down.
func DefenderPoolBonus(defender *battle.Unit) int {
	bonus := 0
	if defender.HasCondition(battle.ConditionProtected) {
		b := defender.ConditionMagnitude(battle.ConditionProtected)
		if b <= 0 {
			b = 1
		}
		bonus += b
	}
	if defender.HasCondition(battle.ConditionKnockedDown) {
		bonus--
	}
	return bonus
}

// AttackerPoolPenalty removes dice from an electrified attacker.
func AttackerPoolPenalty(attacker *battle.Unit) int {
	if !attacker.HasCondition(battle.ConditionElectrified) {
		return 0
	}
	p := attacker.ConditionMagnitude(battle.ConditionElectrified)
	if p <= 0 {
		p = 1
	}
	return p
}

// ExpireTurnEnd runs the end-of-turn checkpoint for the unit and returns
// the conditions that expired.
func ExpireTurnEnd(u *battle.Unit) []battle.Condition {
	var expired []battle.Condition
	kept := u.Conditions[:0]
	for _, c := range u.Conditions {
		if c.Expiry == battle.ExpireEndOfTurn {
			c.TurnEnds--
			if c.TurnEnds <= 0 {
				expired = append(expired, c)
				continue
			}
		}
		kept = append(kept, c)
	}
	u.Conditions = kept
	return expired
}

// ConditionTick is periodic round-start damage from a condition.
type ConditionTick struct {
	UnitID string               `json:"unit_id"`
	Kind   battle.ConditionKind `json:"kind"`
	Damage int                  `json:"damage"`
	HP     int                  `json:"hp"`
	Killed bool                 `json:"killed"`
}

// RoundStart runs the round-start checkpoint for the whole battle: burning
// ticks first, then end-of-round expiry. Units are visited in action
// order so the result is deterministic.
func RoundStart(b *battle.Battle) []ConditionTick {
	var ticks []ConditionTick
	for _, id := range b.ActionOrder {
		u := b.UnitByID(id)
		if u == nil || !u.IsAlive {
			continue
		}
		if u.HasCondition(battle.ConditionBurning) {
			dmg := u.ConditionMagnitude(battle.ConditionBurning)
			if dmg <= 0 {
				dmg = 1
			}
			u.HP -= dmg
			if u.HP <= 0 {
				u.HP = 0
				u.IsAlive = false
			}
			ticks = append(ticks, ConditionTick{
				UnitID: u.ID,
				Kind:   battle.ConditionBurning,
				Damage: dmg,
				HP:     u.HP,
				Killed: !u.IsAlive,
			})
		}
	}
	for _, id := range b.ActionOrder {
		u := b.UnitByID(id)
		if u == nil {
			continue
		}
		kept := u.Conditions[:0]
		for _, c := range u.Conditions {
			if c.Expiry == battle.ExpireEndOfRound && c.AppliedRound < b.Round {
				continue
			}
			kept = append(kept, c)
		}
		u.Conditions = kept
	}
	return ticks
}
