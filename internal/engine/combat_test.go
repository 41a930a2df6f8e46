package engine

import (
	"testing"

	"github.com/lucasmdrs/warbound/internal/battle"
	"github.com/lucasmdrs/warbound/internal/dice"
)

func TestResolveAttackContestedExplosion(t *testing.T) {
	b := testBattle()
	attacker := b.UnitByID("u1") // combat 3 → 3 dice
	defender := b.UnitByID("u2")
	defender.Attributes.Armor = 1
	defender.PhysicalProtection = battle.Protection{Current: 4, Max: 4}

	// attacker: [4,6,2] + exploded [5] → 2 successes; defender: [3] → 0
	roller := dice.NewRollerFrom(&scriptedSource{faces: []int{4, 6, 2, 5, 3}})
	out := ResolveAttack(roller, attacker, defender, AttackSpec{
		DamageType: battle.DamagePhysical,
		Multiplier: 2,
	})

	if out.AttackerRoll.Successes != 2 || out.DefenderRoll.Successes != 0 {
		t.Fatalf("unexpected rolls: %+v / %+v", out.AttackerRoll, out.DefenderRoll)
	}
	if out.Net != 2 || out.RawDamage != 4 {
		t.Fatalf("expected net 2 and raw damage 4, got net=%d raw=%d", out.Net, out.RawDamage)
	}
	if out.ProtectionDamage != 4 || out.HPDamage != 0 {
		t.Fatalf("damage must land on physical protection first: %+v", out)
	}
	if defender.PhysicalProtection.Current != 0 || !defender.PhysicalProtection.Broken {
		t.Fatalf("emptied pool must be broken: %+v", defender.PhysicalProtection)
	}
	if defender.MagicalProtection.Current != defender.MagicalProtection.Max {
		t.Fatalf("magical protection must be untouched by a physical attack")
	}
}

func TestResolveAttackBlockedOnNonPositiveNet(t *testing.T) {
	b := testBattle()
	attacker := b.UnitByID("u1")
	defender := b.UnitByID("u2")
	hpBefore := defender.HP

	// attacker [1,1,1] → 0; defender [5,3] → 1
	roller := dice.NewRollerFrom(&scriptedSource{faces: []int{1, 1, 1, 5, 3}})
	out := ResolveAttack(roller, attacker, defender, AttackSpec{
		DamageType: battle.DamagePhysical,
		Multiplier: 3,
	})
	if !out.Blocked || out.HPDamage != 0 || out.ProtectionDamage != 0 {
		t.Fatalf("non-positive net must fully block: %+v", out)
	}
	if defender.HP != hpBefore {
		t.Fatalf("blocked attack must not touch hp")
	}
}

func TestBrokenProtectionRoutesToHP(t *testing.T) {
	b := testBattle()
	attacker := b.UnitByID("u1")
	defender := b.UnitByID("u2")
	defender.PhysicalProtection = battle.Protection{Current: 0, Max: 4, Broken: true}
	hpBefore := defender.HP

	roller := dice.NewRollerFrom(&scriptedSource{faces: []int{4, 4, 1, 1, 1}})
	out := ResolveAttack(roller, attacker, defender, AttackSpec{
		DamageType: battle.DamagePhysical,
		Multiplier: 1,
	})
	if out.HPDamage != 2 || defender.HP != hpBefore-2 {
		t.Fatalf("damage past a broken pool must hit hp: %+v", out)
	}
	if defender.PhysicalProtection.Broken != true || defender.PhysicalProtection.Current != 0 {
		t.Fatalf("broken pool must stay broken and empty")
	}
}

func TestDamageReductionFloorsAtZero(t *testing.T) {
	b := testBattle()
	attacker := b.UnitByID("u1")
	defender := b.UnitByID("u2")
	defender.PhysicalProtection = battle.Protection{Current: 0, Max: 0, Broken: true}
	defender.DamageReduction = 5
	hpBefore := defender.HP

	roller := dice.NewRollerFrom(&scriptedSource{faces: []int{4, 4, 1, 1, 1}})
	out := ResolveAttack(roller, attacker, defender, AttackSpec{
		DamageType: battle.DamagePhysical,
		Multiplier: 1,
	})
	if out.HPDamage != 0 || defender.HP != hpBefore {
		t.Fatalf("reduction must floor final damage at zero: %+v", out)
	}
}

func TestTrueDamageBypassesProtection(t *testing.T) {
	b := testBattle()
	attacker := b.UnitByID("u1")
	defender := b.UnitByID("u2")
	physBefore := defender.PhysicalProtection.Current
	magBefore := defender.MagicalProtection.Current
	hpBefore := defender.HP

	roller := dice.NewRollerFrom(&scriptedSource{faces: []int{4, 5, 1, 1, 1, 1}})
	out := ResolveAttack(roller, attacker, defender, AttackSpec{
		DamageType: battle.DamageTrue,
		Multiplier: 1,
	})
	if out.HPDamage == 0 {
		t.Fatalf("expected true damage to land on hp: %+v", out)
	}
	if defender.PhysicalProtection.Current != physBefore || defender.MagicalProtection.Current != magBefore {
		t.Fatalf("true damage must not touch protection pools")
	}
	if defender.HP != hpBefore-out.HPDamage {
		t.Fatalf("hp accounting mismatch")
	}
}

func TestDodgingRaisesAttackerThreshold(t *testing.T) {
	b := testBattle()
	attacker := b.UnitByID("u1")
	defender := b.UnitByID("u2")
	ApplyCondition(defender, battle.Condition{
		Kind: battle.ConditionDodging, Magnitude: 1, Expiry: battle.ExpireEndOfTurn,
	})

	// 4s no longer succeed at threshold 5
	roller := dice.NewRollerFrom(&scriptedSource{faces: []int{4, 4, 4, 1, 1, 1}})
	out := ResolveAttack(roller, attacker, defender, AttackSpec{
		DamageType: battle.DamagePhysical,
		Multiplier: 1,
	})
	if out.AttackerRoll.Successes != 0 || !out.Blocked {
		t.Fatalf("dodging must raise the attacker's success threshold: %+v", out)
	}
}

func TestDamageMonotonicInNetSuccesses(t *testing.T) {
	prevHP := -1
	for net := 1; net <= 4; net++ {
		b := testBattle()
		attacker := b.UnitByID("u1")
		attacker.Attributes.Combat = net
		defender := b.UnitByID("u2")
		defender.PhysicalProtection = battle.Protection{Broken: true}

		faces := make([]int, net)
		for i := range faces {
			faces[i] = 4
		}
		faces = append(faces, 1, 1) // defender misses
		roller := dice.NewRollerFrom(&scriptedSource{faces: faces})
		out := ResolveAttack(roller, attacker, defender, AttackSpec{
			DamageType: battle.DamagePhysical,
			Multiplier: 1,
		})
		if prevHP != -1 && out.HPDamage < prevHP {
			t.Fatalf("damage must be monotonic non-decreasing in net successes")
		}
		prevHP = out.HPDamage
	}
}

func TestConsumeAttackResourcePrefersBonusAttacks(t *testing.T) {
	b := testBattle()
	u := activate(b, "u1")
	u.AttacksLeftThisTurn = 1
	actions := u.ActionsLeft

	if err := ConsumeAttackResource(u); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.AttacksLeftThisTurn != 0 || u.ActionsLeft != actions {
		t.Fatalf("bonus attack must be consumed before actions: %+v", u)
	}
	if err := ConsumeAttackResource(u); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ActionsLeft != actions-1 {
		t.Fatalf("expected an action to be consumed")
	}
	u.ActionsLeft = 0
	if err := ConsumeAttackResource(u); err != ErrNoActionsLeft {
		t.Fatalf("expected ErrNoActionsLeft, got %v", err)
	}
}
