package engine

import (
	"github.com/lucasmdrs/warbound/internal/battle"
	"github.com/lucasmdrs/warbound/internal/dice"
	"github.com/lucasmdrs/warbound/internal/geometry"
)

// Catalog looks up immutable ability definitions by code.
type Catalog interface {
	Ability(code string) (*battle.AbilityDefinition, bool)
}

// AbilityRequest is a validated client intent to use a skill or cast a
// spell. Exactly one of TargetUnitID, TargetObstacleID or TargetPosition
// is expected for non-self abilities.
type AbilityRequest struct {
	CasterID         string
	Code             string
	TargetUnitID     string
	TargetObstacleID string
	TargetPosition   *geometry.Point
	// Spell is true for cast_spell requests; the definition must match.
	Spell bool
}

// UnitOutcome is one affected unit's resolution inside an ability use.
type UnitOutcome struct {
	UnitID           string            `json:"unit_id"`
	Attack           *AttackOutcome    `json:"attack,omitempty"`
	Healed           int               `json:"healed,omitempty"`
	HP               int               `json:"hp"`
	Revived          bool              `json:"revived,omitempty"`
	ConditionApplied *battle.Condition `json:"condition_applied,omitempty"`
}

// AbilityResult is the commit record of one ability use.
type AbilityResult struct {
	Code               string           `json:"code"`
	CasterID           string           `json:"caster_id"`
	ActionsLeft        int              `json:"actions_left"`
	AttacksLeft        int              `json:"attacks_left"`
	CooldownUntilRound int              `json:"cooldown_until_round,omitempty"`
	AffectedCells      []geometry.Point `json:"affected_cells"`
	Outcomes           []UnitOutcome    `json:"outcomes"`
	ObstacleID         string           `json:"obstacle_id,omitempty"`
	ObstacleHP         int              `json:"obstacle_hp,omitempty"`
	ObstacleDestroyed  bool             `json:"obstacle_destroyed,omitempty"`
}

func (r *AbilityRequest) targetCell(b *battle.Battle, caster *battle.Unit, def *battle.AbilityDefinition) (geometry.Point, error) {
	if def.RangeClass == battle.RangeSelf || def.CenterOnSelf {
		return caster.Position, nil
	}
	if r.TargetUnitID != "" {
		t := b.UnitByID(r.TargetUnitID)
		if t == nil {
			return geometry.Point{}, ErrUnitNotFound
		}
		return t.Position, nil
	}
	if r.TargetObstacleID != "" {
		o := b.ObstacleByID(r.TargetObstacleID)
		if o == nil || o.Destroyed {
			return geometry.Point{}, ErrObstacleNotFound
		}
		return o.Position, nil
	}
	if r.TargetPosition != nil {
		return *r.TargetPosition, nil
	}
	return geometry.Point{}, ErrInvalidTarget
}

// UseAbility validates and resolves a skill use or spell cast for the
// active unit. All validation happens before any mutation; once the dice
// are rolled the resolution is committed.
func UseAbility(b *battle.Battle, roller *dice.Roller, catalog Catalog, req AbilityRequest) (*AbilityResult, error) {
	if b.Status != battle.StatusActive {
		return nil, ErrBattleNotActive
	}
	caster := b.UnitByID(req.CasterID)
	if caster == nil {
		return nil, ErrUnitNotFound
	}
	if !caster.IsAlive {
		return nil, ErrUnitDead
	}
	if b.ActiveUnitID != req.CasterID {
		return nil, ErrUnitNotActive
	}
	if err := CanUseAbilities(caster); err != nil {
		return nil, err
	}
	def, ok := catalog.Ability(req.Code)
	if !ok || def.Spell != req.Spell {
		return nil, ErrUnknownAbility
	}
	if !caster.HasAbility(req.Code) {
		return nil, ErrAbilityNotGranted
	}
	if until, onCD := caster.Cooldowns[req.Code]; onCD && b.Round < until {
		return nil, ErrAbilityOnCooldown
	}

	cell, err := req.targetCell(b, caster, def)
	if err != nil {
		return nil, err
	}
	cfg := ResolveTargeting(def, caster.Attributes)
	preview := CalculateTargetingPreview(b, cfg, caster, &cell)
	if !preview.IsValidTarget {
		// distinguish out-of-range from a plainly illegal cell
		if geometry.Chebyshev(caster.Position, cell) > cfg.Distance {
			return nil, ErrTargetOutOfRange
		}
		return nil, ErrInvalidTarget
	}

	if req.TargetObstacleID != "" && !b.ObstacleByID(req.TargetObstacleID).Destructible {
		return nil, ErrObstacleIndestruct
	}

	// resource check before commit
	if def.DamageMultiplier > 0 {
		if caster.AttacksLeftThisTurn == 0 && caster.ActionsLeft == 0 {
			return nil, ErrNoActionsLeft
		}
	} else if def.ConsumesAction && caster.ActionsLeft == 0 {
		return nil, ErrNoActionsLeft
	}

	// commit
	if def.DamageMultiplier > 0 {
		if err := ConsumeAttackResource(caster); err != nil {
			return nil, err
		}
	} else if def.ConsumesAction {
		caster.ActionsLeft--
	}

	res := &AbilityResult{
		Code:          req.Code,
		CasterID:      caster.ID,
		AffectedCells: preview.AffectedCells,
	}
	if def.Cooldown > 0 {
		caster.Cooldowns[req.Code] = b.Round + def.Cooldown
		res.CooldownUntilRound = caster.Cooldowns[req.Code]
	}
	if def.GrantsAttacks > 0 {
		caster.AttacksLeftThisTurn += def.GrantsAttacks
	}

	// obstacle target: uncontested roll against the obstacle's hp
	if req.TargetObstacleID != "" {
		o := b.ObstacleByID(req.TargetObstacleID)
		roll := roller.Pool(attackPoolSize(caster, def.DamageType))
		mult := def.DamageMultiplier
		if mult <= 0 {
			mult = 1
		}
		o.HP -= roll.Successes * mult
		if o.HP <= 0 {
			o.HP = 0
			o.Destroyed = true
		}
		res.ObstacleID = o.ID
		res.ObstacleHP = o.HP
		res.ObstacleDestroyed = o.Destroyed
		res.ActionsLeft = caster.ActionsLeft
		res.AttacksLeft = caster.AttacksLeftThisTurn
		return res, nil
	}

	for _, p := range preview.AffectedCells {
		target := unitForEffect(b, p)
		if target == nil {
			continue
		}
		out := UnitOutcome{UnitID: target.ID}
		if def.DamageMultiplier > 0 && target.IsAlive && target.ID != caster.ID {
			atk := ResolveAttack(roller, caster, target, AttackSpec{
				DamageType: def.DamageType,
				Multiplier: def.DamageMultiplier,
			})
			out.Attack = &atk
		}
		if def.HealAmount > 0 {
			if !target.IsAlive {
				if def.Revives {
					target.IsAlive = true
					target.HP = min(def.HealAmount, target.MaxHP)
					out.Revived = true
					out.Healed = target.HP
				}
			} else {
				before := target.HP
				target.HP = min(target.HP+def.HealAmount, target.MaxHP)
				out.Healed = target.HP - before
			}
		}
		if def.AppliesCondition != "" && target.IsAlive {
			cond := battle.Condition{
				Kind:         def.AppliesCondition,
				Magnitude:    def.ConditionMagnitude,
				Expiry:       def.ConditionExpiry,
				AppliedRound: b.Round,
				SourceUnitID: caster.ID,
			}
			ApplyCondition(target, cond)
			out.ConditionApplied = &cond
		}
		out.HP = target.HP
		res.Outcomes = append(res.Outcomes, out)
	}

	res.ActionsLeft = caster.ActionsLeft
	res.AttacksLeft = caster.AttacksLeftThisTurn
	return res, nil
}

// unitForEffect returns the unit an area cell touches: living occupant
// first, then a dead unit still holding its death position.
func unitForEffect(b *battle.Battle, p geometry.Point) *battle.Unit {
	if u := b.UnitAt(p); u != nil {
		return u
	}
	for i := range b.Units {
		if !b.Units[i].IsAlive && b.Units[i].Position == p {
			return &b.Units[i]
		}
	}
	return nil
}
