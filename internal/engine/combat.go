package engine

import (
	"github.com/lucasmdrs/warbound/internal/battle"
	"github.com/lucasmdrs/warbound/internal/dice"
)

// AttackSpec parameterizes one attack resolution.
type AttackSpec struct {
	DamageType battle.DamageType
	// Multiplier converts net successes to raw damage.
	Multiplier int
}

// AttackOutcome carries everything the event surface needs to present one
// resolution: both raw rolls, the routing of damage through protection and
// the defender's resulting state.
type AttackOutcome struct {
	AttackerRoll dice.Roll `json:"attacker_roll"`
	DefenderRoll dice.Roll `json:"defender_roll"`
	Net          int       `json:"net"`
	// Blocked means net successes were zero or negative: no damage, not
	// necessarily a miss.
	Blocked  bool `json:"blocked"`
	Critical bool `json:"critical"`

	RawDamage        int `json:"raw_damage"`
	ProtectionDamage int `json:"protection_damage"`
	HPDamage         int `json:"hp_damage"`

	TargetHP           int               `json:"target_hp"`
	TargetKilled       bool              `json:"target_killed"`
	PhysicalProtection battle.Protection `json:"physical_protection"`
	MagicalProtection  battle.Protection `json:"magical_protection"`
}

func attackPoolSize(attacker *battle.Unit, dt battle.DamageType) int {
	var n int
	switch dt {
	case battle.DamageMagical:
		n = attacker.Attributes.Focus
	default:
		n = attacker.Attributes.Combat
	}
	n -= AttackerPoolPenalty(attacker)
	if n < 0 {
		n = 0
	}
	return n
}

func defensePoolSize(defender *battle.Unit, dt battle.DamageType) int {
	var n int
	switch dt {
	case battle.DamageMagical:
		n = defender.Attributes.Focus
	case battle.DamageTrue:
		n = defender.Attributes.Acuity
	default:
		n = defender.Attributes.Armor
	}
	n += DefenderPoolBonus(defender)
	if n < 0 {
		n = 0
	}
	return n
}

// ResolveAttack rolls the contested pools and applies damage to the
// defender. Damage routes through the protection pool matching the damage
// type, then hp; true damage bypasses both pools. The flat damage
// reduction subtracts after protection, floored at zero.
func ResolveAttack(r *dice.Roller, attacker, defender *battle.Unit, spec AttackSpec) AttackOutcome {
	threshold := dice.SuccessThreshold + DefenderThresholdBonus(defender)
	out := AttackOutcome{
		AttackerRoll: r.PoolThreshold(attackPoolSize(attacker, spec.DamageType), threshold),
		DefenderRoll: r.Pool(defensePoolSize(defender, spec.DamageType)),
	}
	out.Net = out.AttackerRoll.Successes - out.DefenderRoll.Successes
	out.Critical = out.AttackerRoll.Critical()
	if out.Net <= 0 {
		out.Blocked = true
		out.TargetHP = defender.HP
		out.PhysicalProtection = defender.PhysicalProtection
		out.MagicalProtection = defender.MagicalProtection
		return out
	}

	mult := spec.Multiplier
	if mult <= 0 {
		mult = 1
	}
	out.RawDamage = out.Net * mult

	rest := out.RawDamage
	switch spec.DamageType {
	case battle.DamagePhysical:
		rest = defender.PhysicalProtection.Absorb(rest)
	case battle.DamageMagical:
		rest = defender.MagicalProtection.Absorb(rest)
	case battle.DamageTrue:
		// bypasses both pools
	}
	out.ProtectionDamage = out.RawDamage - rest

	rest -= defender.DamageReduction
	if rest < 0 {
		rest = 0
	}
	out.HPDamage = rest
	defender.HP -= rest
	if defender.HP <= 0 {
		defender.HP = 0
		defender.IsAlive = false
	}

	out.TargetHP = defender.HP
	out.TargetKilled = !defender.IsAlive
	out.PhysicalProtection = defender.PhysicalProtection
	out.MagicalProtection = defender.MagicalProtection
	return out
}

// ConsumeAttackResource spends a bonus attack when one is banked,
// otherwise an action. It is checked before the dice are rolled; there is
// no cancelling a committed resolution.
func ConsumeAttackResource(u *battle.Unit) error {
	if u.AttacksLeftThisTurn > 0 {
		u.AttacksLeftThisTurn--
		return nil
	}
	if u.ActionsLeft > 0 {
		u.ActionsLeft--
		return nil
	}
	return ErrNoActionsLeft
}
